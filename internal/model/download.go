package model

import "time"

// PredictionRow is one model prediction fetched from the predictions table.
// JSON-ish columns (Prediction, Attribution, GroundTruth) arrive with a
// spurious layer of surrounding quotes from the export path and are cleaned
// before writing.
type PredictionRow struct {
	EncounterID    string `json:"encounter_id"`
	PatientID      string `json:"patient_id"`
	NotesPath      string `json:"notes_path"`
	EncounterStart string `json:"encounter_start"`
	EncounterEnd   string `json:"encounter_end"`
	Prediction     string `json:"prediction"`
	Attribution    string `json:"attribution"`
	GroundTruth    string `json:"ground_truth"`
}

// EncounterMeta summarizes one unique encounter after its notes have been
// fetched and annotated.
type EncounterMeta struct {
	EncounterID    string `json:"encounter_id"`
	PatientID      string `json:"patient_id"`
	EncounterStart string `json:"encounter_start"`
	EncounterEnd   string `json:"encounter_end"`
	LOSDays        *int   `json:"los_days,omitempty"`
	NotesCount     int    `json:"notes_count"`
	NotesPath      string `json:"notes_path"`
}

// DownloadManifest records the provenance of one download run.
type DownloadManifest struct {
	RunID       string         `json:"run_id"`
	StartedAt   time.Time      `json:"started_at"`
	CompletedAt time.Time      `json:"completed_at"`
	Encounters  int            `json:"encounters"`
	Failed      int            `json:"failed"`
	Files       map[string]int `json:"files"` // output filename -> row count
}
