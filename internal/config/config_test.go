package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "downloads", cfg.Analyze.InputDir)
	assert.Equal(t, "clinical_validation_denormalized_*", cfg.Analyze.FilePattern)
	assert.Equal(t, "Encounter ID", cfg.Analyze.EncounterIDColumn)
	assert.Equal(t, "Note Date", cfg.Analyze.NoteDateColumn)
	assert.Equal(t, "Ground Truth", cfg.Analyze.GroundTruthColumn)
	assert.Equal(t, "downloads", cfg.Download.OutputDir)
	assert.Equal(t, "los_predictions", cfg.Download.PredictionsTable)
	assert.Equal(t, 4, cfg.Download.Concurrency)
	assert.Equal(t, "aipredictiveengine", cfg.Blob.AccountName)
	assert.InDelta(t, 8.0, cfg.Blob.RequestsPerSecond, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: json
analyze:
  input_dir: exports
  encounter_id_column: Visit ID
download:
  concurrency: 2
blob:
  container: lcn-529
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "exports", cfg.Analyze.InputDir)
	assert.Equal(t, "Visit ID", cfg.Analyze.EncounterIDColumn)
	assert.Equal(t, 2, cfg.Download.Concurrency)
	assert.Equal(t, "lcn-529", cfg.Blob.Container)
	// Defaults still apply for unset values
	assert.Equal(t, "Note Date", cfg.Analyze.NoteDateColumn)
}

func TestLoadAzureConnectionStringFallback(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("AZURE_STORAGE_CONNECTION_STRING", "UseDevelopmentStorage=true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "UseDevelopmentStorage=true", cfg.Blob.ConnectionString)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	assert.NotNil(t, zap.L())

	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))

	err := InitLogger(LogConfig{Level: "not-a-level"})
	require.Error(t, err)
}
