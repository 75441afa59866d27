package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Blob     BlobConfig     `yaml:"blob" mapstructure:"blob"`
	Analyze  AnalyzeConfig  `yaml:"analyze" mapstructure:"analyze"`
	Download DownloadConfig `yaml:"download" mapstructure:"download"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the predictions database.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// BlobConfig configures Azure Blob Storage access for clinical notes.
type BlobConfig struct {
	ConnectionString  string  `yaml:"connection_string" mapstructure:"connection_string"`
	AccountName       string  `yaml:"account_name" mapstructure:"account_name"`
	Container         string  `yaml:"container" mapstructure:"container"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// AnalyzeConfig configures review export discovery and the identifying
// column names. The columns are configuration, not constants, so the core
// stays reusable against exports with different base schemas.
type AnalyzeConfig struct {
	InputDir          string `yaml:"input_dir" mapstructure:"input_dir"`
	FilePattern       string `yaml:"file_pattern" mapstructure:"file_pattern"`
	EncounterIDColumn string `yaml:"encounter_id_column" mapstructure:"encounter_id_column"`
	NoteDateColumn    string `yaml:"note_date_column" mapstructure:"note_date_column"`
	GroundTruthColumn string `yaml:"ground_truth_column" mapstructure:"ground_truth_column"`
}

// DownloadConfig configures the prediction/notes download run.
type DownloadConfig struct {
	OutputDir        string `yaml:"output_dir" mapstructure:"output_dir"`
	PredictionsTable string `yaml:"predictions_table" mapstructure:"predictions_table"`
	Concurrency      int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CLINREVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("analyze.input_dir", "downloads")
	v.SetDefault("analyze.file_pattern", "clinical_validation_denormalized_*")
	v.SetDefault("analyze.encounter_id_column", "Encounter ID")
	v.SetDefault("analyze.note_date_column", "Note Date")
	v.SetDefault("analyze.ground_truth_column", "Ground Truth")
	v.SetDefault("download.output_dir", "downloads")
	v.SetDefault("download.predictions_table", "los_predictions")
	v.SetDefault("download.concurrency", 4)
	v.SetDefault("blob.account_name", "aipredictiveengine")
	v.SetDefault("blob.requests_per_second", 8)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	// The storage connection string is conventionally set through the Azure
	// SDK's own variable; honor it when the config leaves it blank.
	if cfg.Blob.ConnectionString == "" {
		cfg.Blob.ConnectionString = os.Getenv("AZURE_STORAGE_CONNECTION_STRING")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
