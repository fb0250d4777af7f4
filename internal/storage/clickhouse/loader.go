package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"creditScope/internal/model"
)

const createTable = `
CREATE TABLE IF NOT EXISTS wallet_credit_scores (
	scored_at DateTime,
	wallet String,
	credit_score Float64,
	total_transactions UInt32,
	unique_assets UInt32,
	total_usd_volume Float64,
	risk_indicators Float64,
	consistent_usage Float64,
	diversification_score Float64,
	leverage_indicator Float64,
	repayment_behavior Float64
) ENGINE = MergeTree
ORDER BY (wallet, scored_at)
`

const insertScores = "INSERT INTO wallet_credit_scores (scored_at, wallet, credit_score, total_transactions, unique_assets, total_usd_volume, risk_indicators, consistent_usage, diversification_score, leverage_indicator, repayment_behavior)"

// Options configures the ClickHouse connection.
type Options struct {
	Addr     []string
	Database string
}

// Loader appends score snapshots to ClickHouse. Each run adds rows stamped
// with its own scored_at so score history stays queryable.
type Loader struct {
	Conn clickhouse.Conn
	now  func() time.Time
}

// Open connects to ClickHouse and verifies the connection.
func Open(ctx context.Context, opts Options) (clickhouse.Conn, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: opts.Addr,
		Auth: clickhouse.Auth{
			Database: opts.Database,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("clickhouse ping: %w", err)
	}
	return conn, nil
}

func NewLoader(conn clickhouse.Conn) *Loader {
	return &Loader{Conn: conn, now: time.Now}
}

// EnsureTable creates the score table when missing.
func (l *Loader) EnsureTable(ctx context.Context) error {
	if err := l.Conn.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create clickhouse table: %w", err)
	}
	return nil
}

func (l *Loader) PutScores(ctx context.Context, scores []model.WalletScore) error {
	return l.Load(ctx, scores)
}

// Load inserts one row per wallet in a single batch.
func (l *Loader) Load(ctx context.Context, scores []model.WalletScore) error {
	if len(scores) == 0 {
		return nil
	}
	batch, err := l.Conn.PrepareBatch(ctx, insertScores)
	if err != nil {
		return fmt.Errorf("prepare clickhouse batch: %w", err)
	}

	scoredAt := l.now().UTC().Truncate(time.Second)
	for _, s := range scores {
		f := s.Features
		err := batch.Append(
			scoredAt,
			s.Wallet,
			s.CreditScore,
			uint32(f.TotalTransactions),
			uint32(f.UniqueAssets),
			f.TotalUSDVolume,
			f.RiskIndicators,
			f.ConsistentUsage,
			f.DiversificationScore,
			f.LeverageIndicator,
			f.RepaymentBehavior,
		)
		if err != nil {
			return fmt.Errorf("append clickhouse row %s: %w", s.Wallet, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send clickhouse batch: %w", err)
	}
	return nil
}
