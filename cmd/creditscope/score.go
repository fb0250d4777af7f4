package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"creditScope/internal/config"
	"creditScope/internal/ingest"
	"creditScope/internal/metrics"
	"creditScope/internal/model"
	"creditScope/internal/pipeline"
	"creditScope/internal/report"
	"creditScope/internal/storage"
	"creditScope/internal/storage/clickhouse"
	"creditScope/internal/storage/objectstore"
	"creditScope/internal/storage/postgres"
)

func runScore(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadScore(cfgFile, cmd.Flags())
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
	if cfg.Out == "" {
		return fmt.Errorf("output path is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("score start",
		zap.String("in", cfg.In),
		zap.String("out", cfg.Out),
		zap.Int("workers", cfg.Workers),
		zap.Int("decimals", len(cfg.Decimals)),
	)

	opts := ingest.Options{Logger: logger}
	if cfg.Errors != "" {
		errWriter, err := storage.NewJSONLWriter(cfg.Errors, false)
		if err != nil {
			return err
		}
		defer errWriter.Close()
		opts.OnError = func(loadErr model.LoadError) {
			if err := errWriter.Write(loadErr); err != nil {
				logger.Warn("write load error failed", zap.Error(err))
			}
		}
	}

	started := time.Now()
	loaded, err := ingest.ReadFile(cfg.In, opts)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}

	recorder := metrics.NewRecorder()
	recorder.ObserveRejected(loaded.Failed)

	p, err := pipeline.New(pipeline.Config{
		Decimals: cfg.Decimals,
		Policy:   cfg.Policy,
		Workers:  cfg.Workers,
	}, recorder, logger)
	if err != nil {
		return err
	}

	results, err := p.Run(ctx, loaded.Transactions)
	if err != nil {
		return err
	}
	scores := model.SortedScores(results)

	if err := exportScores(ctx, cfg, scores, loaded, logger); err != nil {
		return err
	}

	if cfg.MetricsTextfile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
	}

	printAnalysis(cmd.OutOrStdout(), scores, cfg.TopN)

	logger.Info("score complete",
		zap.Int("records", loaded.Total),
		zap.Int("failed", loaded.Failed),
		zap.Int("wallets", len(scores)),
		zap.Duration("elapsed", time.Since(started)),
	)
	return nil
}

// exportScores writes the CSV and every configured sink.
func exportScores(ctx context.Context, cfg config.ScoreConfig, scores []model.WalletScore, loaded ingest.Result, logger *zap.Logger) error {
	type namedSink struct {
		name string
		sink storage.Sink
	}
	sinks := []namedSink{{"csv", &storage.CSVFile{Path: cfg.Out}}}

	if cfg.ScoresJSONL != "" {
		w, err := storage.NewJSONLWriter(cfg.ScoresJSONL, false)
		if err != nil {
			return err
		}
		defer w.Close()
		sinks = append(sinks, namedSink{"jsonl", w})
	}

	var pgStore *postgres.Store
	if cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return err
		}
		if last, ok, err := store.LastRun(ctx, cfg.In); err != nil {
			return fmt.Errorf("load last run: %w", err)
		} else if ok {
			logger.Info("previous run",
				zap.String("source", last.Source),
				zap.Int("wallets", last.Wallets),
				zap.Time("finished_at", last.FinishedAt),
			)
		}
		sinks = append(sinks, namedSink{"postgres", storage.WithRetry(store, cfg.ExportRetries, cfg.ExportBackoff)})
		pgStore = store
	}

	if len(cfg.ClickHouseAddr) > 0 {
		conn, err := clickhouse.Open(ctx, clickhouse.Options{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
		})
		if err != nil {
			return err
		}
		defer conn.Close()
		loader := clickhouse.NewLoader(conn)
		if err := loader.EnsureTable(ctx); err != nil {
			return err
		}
		sinks = append(sinks, namedSink{"clickhouse", storage.WithRetry(loader, cfg.ExportRetries, cfg.ExportBackoff)})
	}

	for _, s := range sinks {
		if err := s.sink.PutScores(ctx, scores); err != nil {
			return fmt.Errorf("export %s: %w", s.name, err)
		}
		logger.Info("export complete", zap.String("sink", s.name), zap.Int("wallets", len(scores)))
	}

	if pgStore != nil {
		run := postgres.Run{
			Source:     cfg.In,
			Records:    loaded.Total,
			Failed:     loaded.Failed,
			Wallets:    len(scores),
			FinishedAt: time.Now(),
		}
		if err := pgStore.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if cfg.MinIO.Endpoint != "" {
		if err := uploadCSV(ctx, cfg.MinIO, scores, logger); err != nil {
			return err
		}
	}
	return nil
}

func uploadCSV(ctx context.Context, opts objectstore.Options, scores []model.WalletScore, logger *zap.Logger) error {
	uploader, err := objectstore.NewMinIOStorage(ctx, opts, logger)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := storage.WriteScoresCSV(&buf, scores); err != nil {
		return err
	}
	name := objectstore.ObjectName("wallet_credit_scores", time.Now())
	if err := uploader.UploadFile(ctx, name, &buf); err != nil {
		return fmt.Errorf("export minio: %w", err)
	}
	return nil
}

func printAnalysis(w io.Writer, scores []model.WalletScore, topN int) {
	fmt.Fprintf(w, "\nProcessed %d wallets\n\n", len(scores))
	report.RenderWallets(w, fmt.Sprintf("Top %d Highest Scoring Wallets:", topN), report.Top(scores, topN))
	fmt.Fprintln(w)
	report.RenderWallets(w, fmt.Sprintf("Top %d Lowest Scoring Wallets:", topN), report.Bottom(scores, topN))
	fmt.Fprintln(w)
	report.RenderSummary(w, report.Summarize(scores))
}
