// Package download fetches prediction rows from Postgres and per-encounter
// clinical notes from blob storage, reshapes them, and writes flat files for
// downstream viewing.
package download

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/zwimpee2/clinical-note-review/internal/db"
	"github.com/zwimpee2/clinical-note-review/internal/model"
)

// Store reads prediction rows from the predictions table.
type Store struct {
	pool  db.Pool
	table string
}

// NewStore creates a Store over the given pool and predictions table name.
func NewStore(pool db.Pool, table string) *Store {
	return &Store{pool: pool, table: table}
}

// Predictions fetches every prediction row, ordered by encounter for
// deterministic output files.
func (s *Store) Predictions(ctx context.Context) ([]model.PredictionRow, error) {
	query := `SELECT encounter_id, patient_id, notes_path, encounter_start, encounter_end,
	                 prediction, attribution, ground_truth
	          FROM ` + pgx.Identifier{s.table}.Sanitize() + `
	          ORDER BY encounter_id`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrapf(err, "download: query predictions from %s", s.table)
	}
	defer rows.Close()

	var preds []model.PredictionRow
	for rows.Next() {
		var p model.PredictionRow
		if err := rows.Scan(
			&p.EncounterID, &p.PatientID, &p.NotesPath, &p.EncounterStart, &p.EncounterEnd,
			&p.Prediction, &p.Attribution, &p.GroundTruth,
		); err != nil {
			return nil, eris.Wrap(err, "download: scan prediction row")
		}

		// Export paths wrap JSON-ish columns in an extra layer of quotes.
		p.Prediction = cleanQuoted(p.Prediction)
		p.Attribution = cleanQuoted(p.Attribution)
		p.GroundTruth = cleanQuoted(p.GroundTruth)

		preds = append(preds, p)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "download: iterate prediction rows")
	}

	return preds, nil
}
