package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"creditScope/internal/aggregate"
	"creditScope/internal/decode"
	"creditScope/internal/model"
	"creditScope/internal/scoring"
)

// Recorder observes pipeline progress. metrics.Recorder satisfies it.
type Recorder interface {
	ObserveDecoded(records []model.DecodedTransaction)
	ObserveScores(scores map[string]model.WalletScore)
}

// Config holds the pipeline's policy inputs.
type Config struct {
	Decimals decode.DecimalsTable
	Policy   scoring.Policy
	Workers  int
}

// Pipeline runs raw records through decode, aggregation, and scoring.
type Pipeline struct {
	decoder    *decode.Decoder
	aggregator *aggregate.Aggregator
	policy     scoring.Policy
	recorder   Recorder
	logger     *zap.Logger
}

// New validates the policy and builds a Pipeline. recorder may be nil.
func New(cfg Config, recorder Recorder, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy := cfg.Policy
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	return &Pipeline{
		decoder: decode.NewDecoder(decode.DecoderConfig{Decimals: cfg.Decimals}),
		aggregator: aggregate.NewAggregator(aggregate.Config{
			Workers: cfg.Workers,
			Policy:  policy,
		}, logger),
		policy:   policy,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// Run scores every wallet present in raws.
func (p *Pipeline) Run(ctx context.Context, raws []model.RawTransaction) (map[string]model.WalletScore, error) {
	records := p.decoder.DecodeAll(raws)
	if p.recorder != nil {
		p.recorder.ObserveDecoded(records)
	}
	p.logger.Debug("decode complete", zap.Int("records", len(records)))

	features, err := p.aggregator.Run(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("run aggregation: %w", err)
	}

	scores := make(map[string]model.WalletScore, len(features))
	for wallet, f := range features {
		breakdown := scoring.Score(f, p.policy)
		scores[wallet] = model.WalletScore{
			Wallet:      wallet,
			CreditScore: breakdown.Total,
			Features:    f,
			Breakdown:   breakdown,
		}
	}
	if p.recorder != nil {
		p.recorder.ObserveScores(scores)
	}

	p.logger.Info("scoring complete", zap.Int("wallets", len(scores)))
	return scores, nil
}
