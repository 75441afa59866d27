// Package model defines the long-format validation records produced by
// extraction and the summary structures produced by aggregation.
package model

import "github.com/zwimpee2/clinical-note-review/internal/validity"

// ValidationRecord is one reviewer verdict for one (encounter, version key)
// pair, reshaped out of a wide export row. Records are immutable once built.
type ValidationRecord struct {
	EncounterID string `json:"encounter_id"`
	NoteDate    string `json:"note_date"`
	SourceFile  string `json:"source_file"`
	VersionKey  string `json:"version_key"`

	// GroundTruth is nil when the source file carries no ground-truth column.
	GroundTruth *string `json:"ground_truth,omitempty"`

	// ValidationResultRaw is the cell exactly as read; ValidationResult is
	// its normalized verdict. Aggregation re-normalizes from the raw value.
	ValidationResultRaw string           `json:"validation_result_raw"`
	ValidationResult    validity.Verdict `json:"validation_result"`

	InvalidReason  *string `json:"invalid_reason,omitempty"`
	Comments       *string `json:"comments,omitempty"`
	PredictedClass *string `json:"predicted_class,omitempty"`
}
