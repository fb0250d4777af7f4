package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"creditScope/internal/config"
	"creditScope/internal/report"
	"creditScope/internal/storage"
)

func runReport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.In == "" {
		return fmt.Errorf("input path is required")
	}

	file, err := os.Open(cfg.In)
	if err != nil {
		return fmt.Errorf("open scores: %w", err)
	}
	defer file.Close()

	scores, err := storage.ReadScoresCSV(file)
	if err != nil {
		return err
	}
	logger.Info("scores loaded", zap.String("in", cfg.In), zap.Int("wallets", len(scores)))

	out := cmd.OutOrStdout()
	summary := report.Summarize(scores)
	report.RenderHistogram(out, summary)
	fmt.Fprintln(out)
	printAnalysis(out, scores, cfg.TopN)
	return nil
}
