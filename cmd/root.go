package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zwimpee2/clinical-note-review/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "clinreview",
	Short: "Clinical note review analysis toolkit",
	Long:  "Downloads clinical-note prediction exports and reviewer validation files, reshapes them, and reports per-version validation and ground-truth agreement statistics.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
