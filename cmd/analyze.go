package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/aggregate"
	"github.com/zwimpee2/clinical-note-review/internal/extract"
	"github.com/zwimpee2/clinical-note-review/internal/fetcher"
	"github.com/zwimpee2/clinical-note-review/internal/model"
	"github.com/zwimpee2/clinical-note-review/internal/report"
)

var (
	analyzeInputFile string
	analyzeInputDir  string
	analyzeOutput    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze clinical validation review exports",
	Long: `Reads reviewer validation exports (CSV or XLSX), reshapes the per-version
columns into long-format validation records, and prints validity rates,
invalid-reason breakdowns, and ground-truth agreement per version key.

Examples:
  # Analyze every export in the download directory
  clinreview analyze

  # Analyze one specific export
  clinreview analyze --input-file downloads/clinical_validation_denormalized_2025-03.csv`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		files, err := resolveSources()
		if err != nil {
			return err
		}

		extractor := extract.New(extract.Config{
			EncounterIDColumn: cfg.Analyze.EncounterIDColumn,
			NoteDateColumn:    cfg.Analyze.NoteDateColumn,
			GroundTruthColumn: cfg.Analyze.GroundTruthColumn,
		})

		var records []model.ValidationRecord
		for i, path := range files {
			zap.L().Info("processing file",
				zap.Int("n", i+1),
				zap.Int("of", len(files)),
				zap.String("file", filepath.Base(path)),
			)

			tbl, readErr := fetcher.ReadTable(path)
			if readErr != nil {
				zap.L().Warn("could not read file, skipping",
					zap.String("file", path),
					zap.Error(readErr),
				)
				continue
			}

			records = append(records, extractor.Extract(tbl, filepath.Base(path))...)
		}
		zap.L().Info("total validation records aggregated", zap.Int("records", len(records)))

		rep := aggregate.Aggregate(records)

		out := os.Stdout
		if analyzeOutput != "" {
			f, createErr := os.Create(analyzeOutput)
			if createErr != nil {
				return eris.Wrapf(createErr, "analyze: create output file %s", analyzeOutput)
			}
			defer f.Close() //nolint:errcheck
			out = f
		}
		report.Render(out, rep)

		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeInputFile, "input-file", "", "path to a specific export file to analyze")
	analyzeCmd.Flags().StringVar(&analyzeInputDir, "input-dir", "", "directory of exports to analyze when --input-file is not given (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write the rendered report to a file (default: stdout)")
	rootCmd.AddCommand(analyzeCmd)
}

// resolveSources returns the export files to analyze: the named file, or all
// files in the input dir matching the export naming convention. No resolvable
// source at all is the one fatal condition.
func resolveSources() ([]string, error) {
	if analyzeInputFile != "" {
		if _, err := os.Stat(analyzeInputFile); err != nil {
			return nil, eris.Wrapf(err, "analyze: input file not found: %s", analyzeInputFile)
		}
		return []string{analyzeInputFile}, nil
	}

	dir := analyzeInputDir
	if dir == "" {
		dir = cfg.Analyze.InputDir
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, eris.Errorf("analyze: input directory not found: %s", dir)
	}

	var files []string
	for _, ext := range []string{".csv", ".xlsx"} {
		matches, err := filepath.Glob(filepath.Join(dir, cfg.Analyze.FilePattern+ext))
		if err != nil {
			return nil, eris.Wrap(err, "analyze: glob exports")
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, eris.Errorf("analyze: no files matching %q found in %s", cfg.Analyze.FilePattern, dir)
	}

	sort.Strings(files)
	return files, nil
}
