package aggregate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"creditScope/internal/model"
	"creditScope/internal/scoring"
)

// Config controls aggregation behavior.
type Config struct {
	Workers int
	Policy  scoring.Policy
}

// Aggregator computes per-wallet feature vectors from decoded transactions.
type Aggregator struct {
	cfg    Config
	logger *zap.Logger
}

func NewAggregator(cfg Config, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	return &Aggregator{
		cfg:    cfg,
		logger: logger,
	}
}

// Run groups records by wallet and computes each wallet's features on a
// bounded worker pool. Wallets share no state, so the only coordination is
// each worker writing its own result slot.
func (a *Aggregator) Run(ctx context.Context, records []model.DecodedTransaction) (map[string]model.WalletFeatures, error) {
	started := time.Now()
	groups := GroupByWallet(records)
	results := make([]model.WalletFeatures, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i := range groups {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = ComputeFeatures(groups[i].Records, a.cfg.Policy)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("aggregate wallets: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("aggregate wallets: %w", err)
	}

	features := make(map[string]model.WalletFeatures, len(groups))
	for i, group := range groups {
		features[group.Wallet] = results[i]
	}

	a.logger.Info("aggregate complete",
		zap.Int("records", len(records)),
		zap.Int("wallets", len(features)),
		zap.Int("workers", a.cfg.Workers),
		zap.Duration("elapsed", time.Since(started)),
	)

	return features, nil
}
