// Package cli provides the moodjournal command line.
package cli

import (
	"log/slog"

	"github.com/mohammadpnp/moodjournal-import/internal/config"
	"github.com/spf13/cobra"
)

var (
	configPath string

	cfg         config.Config
	logger      *slog.Logger
	closeLogger func() error
)

var rootCmd = &cobra.Command{
	Use:   "moodjournal",
	Short: "Mood journal backup importer",
	Long: `moodjournal imports Daylio backups into the mood journal.

Run "moodjournal serve" for the HTTP API, or "moodjournal import" to
import a single backup file from disk.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
		logger, closeLogger = config.SetupLogger(cfg.Log.File, cfg.Log.Level)
		slog.SetDefault(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if closeLogger != nil {
			_ = closeLogger()
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory containing config.yaml")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}
