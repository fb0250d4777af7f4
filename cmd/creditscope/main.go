package main

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:          "creditscope",
		Short:        "Behavioral credit scores for lending protocol wallets",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	scoreCmd := &cobra.Command{
		Use:   "score",
		Short: "Score wallets from a transaction file",
		RunE:  runScore,
	}

	scoreCmd.Flags().String("in", "", "input transactions (JSON array or JSONL)")
	scoreCmd.Flags().String("out", "./data/wallet_credit_scores.csv", "output score CSV")
	scoreCmd.Flags().String("scores-jsonl", "", "optional score JSONL with breakdowns")
	scoreCmd.Flags().String("errors", "./data/load_errors.jsonl", "rejected input lines JSONL")
	scoreCmd.Flags().Int("workers", 0, "wallet workers, 0 means GOMAXPROCS")
	scoreCmd.Flags().Int("top-n", 5, "wallets shown in the top and bottom tables")
	scoreCmd.Flags().String("metrics-textfile", "", "write Prometheus metrics to this textfile")
	scoreCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	scoreCmd.Flags().StringSlice("clickhouse-addr", nil, "ClickHouse addresses (comma-separated)")
	scoreCmd.Flags().String("clickhouse-database", "default", "ClickHouse database")
	scoreCmd.Flags().String("minio-endpoint", "", "MinIO endpoint for the CSV upload")
	scoreCmd.Flags().String("minio-access-key", "", "MinIO access key")
	scoreCmd.Flags().String("minio-secret-key", "", "MinIO secret key")
	scoreCmd.Flags().String("minio-bucket", "credit-scores", "MinIO bucket")
	scoreCmd.Flags().Bool("minio-use-ssl", false, "use TLS for MinIO")
	scoreCmd.Flags().Int("export-retries", 3, "retries for database exports")
	scoreCmd.Flags().Duration("export-backoff", 500*time.Millisecond, "initial export retry backoff")
	scoreCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(scoreCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the score distribution of a score CSV",
		RunE:  runReport,
	}

	reportCmd.Flags().String("in", "./data/wallet_credit_scores.csv", "input score CSV")
	reportCmd.Flags().Int("top-n", 5, "wallets shown in the top and bottom tables")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
