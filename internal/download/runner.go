package download

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/zwimpee2/clinical-note-review/internal/fetcher"
	"github.com/zwimpee2/clinical-note-review/internal/model"
	"github.com/zwimpee2/clinical-note-review/internal/table"
)

// Output filenames within the download directory.
const (
	predictionsFile = "los_predictions.csv"
	allNotesFile    = "all_clinical_notes.csv"
	simplifiedFile  = "simplified_notes.csv"
	metadataFile    = "encounters_metadata.csv"
	manifestFile    = "manifest.json"
)

// PredictionSource supplies prediction rows; Store is the Postgres-backed
// implementation.
type PredictionSource interface {
	Predictions(ctx context.Context) ([]model.PredictionRow, error)
}

// Runner orchestrates one download run: predictions out of the database,
// per-encounter notes out of blob storage, annotated flat files onto disk.
type Runner struct {
	preds       PredictionSource
	notes       NotesFetcher
	outDir      string
	concurrency int
}

// NewRunner wires a Runner. concurrency bounds how many encounters download
// notes at once.
func NewRunner(preds PredictionSource, notes NotesFetcher, outDir string, concurrency int) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{preds: preds, notes: notes, outDir: outDir, concurrency: concurrency}
}

// Run executes the download. A failing prediction query aborts the run;
// per-encounter note failures are logged and skipped, and the count of
// failures is surfaced in the manifest.
func (r *Runner) Run(ctx context.Context) (*model.DownloadManifest, error) {
	started := time.Now().UTC()
	log := zap.L()

	if err := os.MkdirAll(r.outDir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "download: create output dir %s", r.outDir)
	}

	preds, err := r.preds.Predictions(ctx)
	if err != nil {
		return nil, err
	}
	if len(preds) == 0 {
		return nil, eris.New("download: no prediction rows found")
	}
	log.Info("loaded predictions", zap.Int("rows", len(preds)))

	if err := r.writePredictions(preds); err != nil {
		return nil, err
	}

	encounters := uniqueEncounters(preds)
	log.Info("unique encounters", zap.Int("count", len(encounters)))

	// Fetch notes concurrently. Results land in a fixed slot per encounter,
	// so output order does not depend on completion order.
	parts := make([]*notesPart, len(encounters))
	var failed atomic.Int64

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, enc := range encounters {
		i, enc := i, enc
		g.Go(func() error {
			part, fetchErr := r.fetchEncounter(gCtx, enc)
			if fetchErr != nil {
				failed.Add(1)
				log.Warn("skipping encounter",
					zap.String("encounter_id", enc.EncounterID),
					zap.Error(fetchErr),
				)
				return nil // don't abort the batch on individual failure
			}
			parts[i] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var ok []*notesPart
	for _, p := range parts {
		if p != nil {
			ok = append(ok, p)
		}
	}

	manifest := &model.DownloadManifest{
		RunID:      uuid.NewString(),
		StartedAt:  started,
		Encounters: len(ok),
		Failed:     int(failed.Load()),
		Files:      map[string]int{predictionsFile: len(preds)},
	}

	if len(ok) > 0 {
		header, rows := combineNotes(ok)
		if err := writeCSV(filepath.Join(r.outDir, allNotesFile), header, rows); err != nil {
			return nil, err
		}
		manifest.Files[allNotesFile] = len(rows)

		simpleHeader, simpleRows := simplifyNotes(header, rows)
		if err := writeCSV(filepath.Join(r.outDir, simplifiedFile), simpleHeader, simpleRows); err != nil {
			return nil, err
		}
		manifest.Files[simplifiedFile] = len(simpleRows)
	}

	if err := r.writeMetadata(ok); err != nil {
		return nil, err
	}
	manifest.Files[metadataFile] = len(ok)

	manifest.CompletedAt = time.Now().UTC()
	if err := writeManifest(r.outDir, manifest); err != nil {
		return nil, err
	}

	log.Info("download complete",
		zap.String("run_id", manifest.RunID),
		zap.Int("encounters", manifest.Encounters),
		zap.Int("failed", manifest.Failed),
	)
	return manifest, nil
}

// fetchEncounter downloads, saves, parses, and annotates one encounter's
// notes file.
func (r *Runner) fetchEncounter(ctx context.Context, enc model.PredictionRow) (*notesPart, error) {
	data, err := r.notes.FetchNotes(ctx, enc.NotesPath)
	if err != nil {
		return nil, err
	}

	// Keep the raw file around for ad hoc inspection.
	rawPath := filepath.Join(r.outDir, fmt.Sprintf("%s_notes.csv", enc.EncounterID))
	if err := os.WriteFile(rawPath, data, 0o644); err != nil {
		return nil, eris.Wrapf(err, "download: save raw notes for %s", enc.EncounterID)
	}

	tbl, err := fetcher.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(err, "download: parse notes for %s", enc.EncounterID)
	}

	los := losDays(enc.EncounterStart, enc.EncounterEnd)
	header, rows := tableRows(tbl)
	header, rows = annotate(header, rows, enc, los)

	return &notesPart{
		meta: model.EncounterMeta{
			EncounterID:    enc.EncounterID,
			PatientID:      enc.PatientID,
			EncounterStart: enc.EncounterStart,
			EncounterEnd:   enc.EncounterEnd,
			LOSDays:        los,
			NotesCount:     len(rows),
			NotesPath:      enc.NotesPath,
		},
		header: header,
		rows:   rows,
	}, nil
}

// tableRows flattens a parsed table back into header-aligned string rows.
func tableRows(tbl *table.Table) ([]string, [][]string) {
	header := tbl.Columns()
	rows := make([][]string, tbl.NumRows())
	for i := range rows {
		row := make([]string, len(header))
		for j, c := range header {
			row[j], _ = tbl.Cell(i, c)
		}
		rows[i] = row
	}
	return header, rows
}

func (r *Runner) writePredictions(preds []model.PredictionRow) error {
	header := []string{
		"encounter_id", "patient_id", "notes_path", "encounter_start", "encounter_end",
		"prediction", "attribution", "ground_truth",
	}
	rows := make([][]string, len(preds))
	for i, p := range preds {
		rows[i] = []string{
			p.EncounterID, p.PatientID, p.NotesPath, p.EncounterStart, p.EncounterEnd,
			p.Prediction, p.Attribution, p.GroundTruth,
		}
	}
	return writeCSV(filepath.Join(r.outDir, predictionsFile), header, rows)
}

func (r *Runner) writeMetadata(parts []*notesPart) error {
	header := []string{
		"encounter_id", "patient_id", "encounter_start", "encounter_end",
		"los_days", "notes_count", "notes_path",
	}
	rows := make([][]string, len(parts))
	for i, p := range parts {
		los := ""
		if p.meta.LOSDays != nil {
			los = strconv.Itoa(*p.meta.LOSDays)
		}
		rows[i] = []string{
			p.meta.EncounterID, p.meta.PatientID, p.meta.EncounterStart, p.meta.EncounterEnd,
			los, strconv.Itoa(p.meta.NotesCount), p.meta.NotesPath,
		}
	}
	return writeCSV(filepath.Join(r.outDir, metadataFile), header, rows)
}
