package download

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zwimpee2/clinical-note-review/internal/model"
)

type stubPredictions struct {
	rows []model.PredictionRow
	err  error
}

func (s *stubPredictions) Predictions(context.Context) ([]model.PredictionRow, error) {
	return s.rows, s.err
}

type stubNotes struct {
	files map[string][]byte // notes_path -> content
}

func (s *stubNotes) FetchNotes(_ context.Context, path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, assert.AnError
	}
	return data, nil
}

func TestRunner_Run(t *testing.T) {
	dir := t.TempDir()

	preds := &stubPredictions{rows: []model.PredictionRow{
		{
			EncounterID: "e1", PatientID: "p1", NotesPath: "e1/notes.csv",
			EncounterStart: "2025-01-01", EncounterEnd: "2025-01-04",
			Prediction: "longer", GroundTruth: "longer",
		},
		{
			EncounterID: "e2", PatientID: "p2", NotesPath: "e2/notes.csv",
			EncounterStart: "2025-02-01", EncounterEnd: "2025-02-02",
			Prediction: "shorter", GroundTruth: "longer",
		},
	}}
	notes := &stubNotes{files: map[string][]byte{
		"e1/notes.csv": []byte("note_time,note_type,note_text\n08:00,progress,pt stable\n12:00,progress,improving\n"),
		"e2/notes.csv": []byte("note_time,note_type,note_text\n09:00,admission,admitted\n"),
	}}

	runner := NewRunner(preds, notes, dir, 2)
	manifest, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, manifest.RunID)
	assert.Equal(t, 2, manifest.Encounters)
	assert.Zero(t, manifest.Failed)
	assert.Equal(t, 2, manifest.Files[predictionsFile])
	assert.Equal(t, 3, manifest.Files[allNotesFile])
	assert.Equal(t, 2, manifest.Files[metadataFile])

	// Raw per-encounter files are kept.
	assert.FileExists(t, filepath.Join(dir, "e1_notes.csv"))
	assert.FileExists(t, filepath.Join(dir, "e2_notes.csv"))

	// Combined notes carry the encounter annotations.
	combined, err := os.ReadFile(filepath.Join(dir, allNotesFile))
	require.NoError(t, err)
	assert.Contains(t, string(combined), "los_days")
	assert.Contains(t, string(combined), "pt stable")
	lines := strings.Split(strings.TrimSpace(string(combined)), "\n")
	assert.Len(t, lines, 4) // header + 3 notes

	// Simplified notes keep the key viewing columns.
	simplified, err := os.ReadFile(filepath.Join(dir, simplifiedFile))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(simplified), "encounter_id,patient_id,note_time,note_type,note_text"))

	// Metadata has one row per encounter with LOS.
	meta, err := os.ReadFile(filepath.Join(dir, metadataFile))
	require.NoError(t, err)
	assert.Contains(t, string(meta), "e1,p1,2025-01-01,2025-01-04,3,2,e1/notes.csv")

	// Manifest round-trips as JSON.
	var decoded model.DownloadManifest
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, manifest.RunID, decoded.RunID)
}

func TestRunner_SkipsFailedEncounters(t *testing.T) {
	dir := t.TempDir()

	preds := &stubPredictions{rows: []model.PredictionRow{
		{EncounterID: "e1", PatientID: "p1", NotesPath: "e1/notes.csv", EncounterStart: "2025-01-01", EncounterEnd: "2025-01-02"},
		{EncounterID: "e2", PatientID: "p2", NotesPath: "missing/notes.csv"},
	}}
	notes := &stubNotes{files: map[string][]byte{
		"e1/notes.csv": []byte("note_text\nhello\n"),
	}}

	runner := NewRunner(preds, notes, dir, 1)
	manifest, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, manifest.Encounters)
	assert.Equal(t, 1, manifest.Failed)
}

func TestRunner_NoPredictions(t *testing.T) {
	runner := NewRunner(&stubPredictions{}, &stubNotes{}, t.TempDir(), 1)
	_, err := runner.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no prediction rows")
}

func TestRunner_PredictionQueryFailureIsFatal(t *testing.T) {
	runner := NewRunner(&stubPredictions{err: assert.AnError}, &stubNotes{}, t.TempDir(), 1)
	_, err := runner.Run(context.Background())
	require.Error(t, err)
}

func TestRunner_DedupesEncounters(t *testing.T) {
	dir := t.TempDir()

	preds := &stubPredictions{rows: []model.PredictionRow{
		{EncounterID: "e1", NotesPath: "e1/notes.csv", EncounterStart: "2025-01-01", EncounterEnd: "2025-01-02"},
		{EncounterID: "e1", NotesPath: "e1/notes.csv", EncounterStart: "2025-01-01", EncounterEnd: "2025-01-02"},
	}}
	notes := &stubNotes{files: map[string][]byte{
		"e1/notes.csv": []byte("note_text\nhello\n"),
	}}

	runner := NewRunner(preds, notes, dir, 4)
	manifest, err := runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, manifest.Encounters)
	assert.Equal(t, 2, manifest.Files[predictionsFile], "predictions file keeps every row")
	assert.Equal(t, 1, manifest.Files[metadataFile])
}
