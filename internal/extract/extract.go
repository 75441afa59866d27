// Package extract reshapes wide per-encounter review exports into long-format
// validation records, one per (encounter row, version key) where a reviewer
// verdict is present.
package extract

import (
	"regexp"
	"sort"

	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/model"
	"github.com/zwimpee2/clinical-note-review/internal/table"
	"github.com/zwimpee2/clinical-note-review/internal/validity"
)

// Config names the identifying columns of a review export. It is passed in
// explicitly so the extractor stays independent of any process-wide defaults.
type Config struct {
	EncounterIDColumn string
	NoteDateColumn    string
	GroundTruthColumn string
}

// DefaultConfig returns the column names the review exports use.
func DefaultConfig() Config {
	return Config{
		EncounterIDColumn: "Encounter ID",
		NoteDateColumn:    "Note Date",
		GroundTruthColumn: "Ground Truth",
	}
}

// Suffix names for the per-version column families. A column belongs to a
// version namespace iff it is "<key>_<suffix>" for exactly one of these.
const (
	suffixValidationResult = "Validation_Result"
	suffixInvalidReason    = "Invalid_Reason"
	suffixComments         = "Comments"
	suffixFinalPrediction  = "Final_Prediction"
)

// versionColumn matches "<key>_<suffix>" with a non-empty key. The key is
// matched non-greedily so a key that itself contains underscores keeps the
// longest recognized suffix.
var versionColumn = regexp.MustCompile(`^(.+?)_(Validation_Result|Invalid_Reason|Comments|Final_Prediction|Raw_Prediction|Final_Confidence|Raw_Confidence|Attribution)$`)

// DiscoverVersionKeys scans a header for version-namespaced columns and
// returns the distinct keys in lexicographic order. Discovery is a separate
// step from record construction so "what versions exist" can be inspected
// without computing anything.
func DiscoverVersionKeys(columns []string) []string {
	seen := map[string]bool{}
	for _, col := range columns {
		if m := versionColumn.FindStringSubmatch(col); m != nil {
			seen[m[1]] = true
		}
	}
	if len(seen) == 0 {
		return nil
	}

	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Extractor turns one wide table into validation records.
type Extractor struct {
	cfg Config
}

// New returns an Extractor using the given column configuration.
func New(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract reshapes tbl into long-format records, labeling each with
// sourceLabel for provenance. Per-file problems (missing required columns,
// no version namespaces) are soft failures: they log a warning and yield no
// records, and the caller moves on to the next file.
func (e *Extractor) Extract(tbl *table.Table, sourceLabel string) []model.ValidationRecord {
	log := zap.L().With(zap.String("source", sourceLabel))

	if !tbl.HasColumn(e.cfg.EncounterIDColumn) || !tbl.HasColumn(e.cfg.NoteDateColumn) {
		log.Warn("missing required base column, skipping file",
			zap.String("encounter_id_column", e.cfg.EncounterIDColumn),
			zap.String("note_date_column", e.cfg.NoteDateColumn),
		)
		return nil
	}

	hasGT := tbl.HasColumn(e.cfg.GroundTruthColumn)
	if !hasGT {
		log.Warn("ground truth column not found, proceeding without it",
			zap.String("ground_truth_column", e.cfg.GroundTruthColumn),
		)
	}

	keys := DiscoverVersionKeys(tbl.Columns())
	if len(keys) == 0 {
		log.Warn("no version-specific columns found, skipping file")
		return nil
	}
	log.Info("discovered version keys", zap.Strings("versions", keys))

	var records []model.ValidationRecord
	for row := 0; row < tbl.NumRows(); row++ {
		encounterID, _ := tbl.Cell(row, e.cfg.EncounterIDColumn)
		noteDate, _ := tbl.Cell(row, e.cfg.NoteDateColumn)

		var groundTruth *string
		if hasGT {
			groundTruth = optionalCell(tbl, row, e.cfg.GroundTruthColumn)
		}

		for _, key := range keys {
			// A record exists iff the verdict cell for this key is present.
			// A wholly absent Validation_Result column behaves the same as an
			// always-missing one.
			raw, ok := tbl.Cell(row, key+"_"+suffixValidationResult)
			if !ok || validity.Missing(raw) {
				continue
			}

			records = append(records, model.ValidationRecord{
				EncounterID:         encounterID,
				NoteDate:            noteDate,
				GroundTruth:         groundTruth,
				SourceFile:          sourceLabel,
				VersionKey:          key,
				ValidationResultRaw: raw,
				ValidationResult:    validity.Normalize(raw),
				InvalidReason:       optionalCell(tbl, row, key+"_"+suffixInvalidReason),
				Comments:            optionalCell(tbl, row, key+"_"+suffixComments),
				PredictedClass:      optionalCell(tbl, row, key+"_"+suffixFinalPrediction),
			})
		}
	}

	log.Info("extracted validation records", zap.Int("records", len(records)))
	return records
}

// optionalCell returns the cell value, or nil when the column is absent or
// the cell is a missing-value marker.
func optionalCell(tbl *table.Table, row int, column string) *string {
	v, ok := tbl.Cell(row, column)
	if !ok || validity.Missing(v) {
		return nil
	}
	return &v
}
