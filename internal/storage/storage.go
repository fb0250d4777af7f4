package storage

import (
	"context"

	"creditScope/internal/model"
)

// Sink receives the scored wallets of a run.
type Sink interface {
	PutScores(ctx context.Context, scores []model.WalletScore) error
}
