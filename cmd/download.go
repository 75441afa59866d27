package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/db"
	"github.com/zwimpee2/clinical-note-review/internal/download"
)

var (
	downloadOutputDir string
	downloadContainer string
)

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download prediction and clinical-note data for review",
	Long: `Fetches model prediction rows from the predictions database, downloads each
encounter's notes file from blob storage, annotates notes with encounter
metadata and length of stay, and writes flat CSV files plus a run manifest
into the output directory.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		container := downloadContainer
		if container == "" {
			container = cfg.Blob.Container
		}
		if container == "" {
			return eris.New("download: blob container not configured (set --container or blob.container)")
		}

		pool, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return err
		}
		defer pool.Close()

		notes, err := download.NewBlobFetcher(cfg.Blob.ConnectionString, container, cfg.Blob.RequestsPerSecond)
		if err != nil {
			return err
		}

		outDir := downloadOutputDir
		if outDir == "" {
			outDir = cfg.Download.OutputDir
		}

		store := download.NewStore(pool, cfg.Download.PredictionsTable)
		runner := download.NewRunner(store, notes, outDir, cfg.Download.Concurrency)

		manifest, err := runner.Run(ctx)
		if err != nil {
			return err
		}

		zap.L().Info("files written",
			zap.String("dir", outDir),
			zap.Any("rows", manifest.Files),
		)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVar(&downloadOutputDir, "output-dir", "", "directory for downloaded files (default from config)")
	downloadCmd.Flags().StringVar(&downloadContainer, "container", "", "blob container holding the notes files (default from config)")
	rootCmd.AddCommand(downloadCmd)
}
