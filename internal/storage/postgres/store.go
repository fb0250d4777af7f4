package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"creditScope/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS wallet_scores (
	wallet TEXT PRIMARY KEY,
	wallet_checksum TEXT,
	credit_score NUMERIC NOT NULL,
	total_transactions INTEGER NOT NULL,
	unique_assets INTEGER NOT NULL,
	total_usd_volume NUMERIC NOT NULL,
	avg_transaction_size NUMERIC NOT NULL,
	median_transaction_size NUMERIC NOT NULL,
	deposit_ratio DOUBLE PRECISION NOT NULL,
	borrow_ratio DOUBLE PRECISION NOT NULL,
	repay_ratio DOUBLE PRECISION NOT NULL,
	redeem_ratio DOUBLE PRECISION NOT NULL,
	liquidation_ratio DOUBLE PRECISION NOT NULL,
	activity_duration_days DOUBLE PRECISION NOT NULL,
	transaction_frequency DOUBLE PRECISION NOT NULL,
	consistent_usage DOUBLE PRECISION NOT NULL,
	risk_indicators DOUBLE PRECISION NOT NULL,
	diversification_score DOUBLE PRECISION NOT NULL,
	leverage_indicator DOUBLE PRECISION NOT NULL,
	repayment_behavior DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS score_runs (
	source TEXT PRIMARY KEY,
	records BIGINT NOT NULL,
	failed BIGINT NOT NULL,
	wallets BIGINT NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// Store provides Postgres persistence for wallet scores.
type Store struct {
	pool *pgxpool.Pool
}

// Run describes one completed scoring run of an input source.
type Run struct {
	Source     string
	Records    int
	Failed     int
	Wallets    int
	FinishedAt time.Time
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// EnsureSchema creates the score tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *Store) PutScores(ctx context.Context, scores []model.WalletScore) error {
	return s.UpsertWalletScores(ctx, scores)
}

// UpsertWalletScores inserts or replaces one row per wallet.
func (s *Store) UpsertWalletScores(ctx context.Context, scores []model.WalletScore) error {
	if len(scores) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, score := range scores {
		batch.Queue(`
			INSERT INTO wallet_scores (
				wallet, wallet_checksum, credit_score, total_transactions, unique_assets,
				total_usd_volume, avg_transaction_size, median_transaction_size,
				deposit_ratio, borrow_ratio, repay_ratio, redeem_ratio, liquidation_ratio,
				activity_duration_days, transaction_frequency, consistent_usage,
				risk_indicators, diversification_score, leverage_indicator, repayment_behavior,
				created_at, updated_at
			) VALUES (
				$1, $2, $3::numeric, $4, $5, $6::numeric, $7::numeric, $8::numeric,
				$9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, now(), now()
			)
			ON CONFLICT (wallet)
			DO UPDATE SET
				wallet_checksum = EXCLUDED.wallet_checksum,
				credit_score = EXCLUDED.credit_score,
				total_transactions = EXCLUDED.total_transactions,
				unique_assets = EXCLUDED.unique_assets,
				total_usd_volume = EXCLUDED.total_usd_volume,
				avg_transaction_size = EXCLUDED.avg_transaction_size,
				median_transaction_size = EXCLUDED.median_transaction_size,
				deposit_ratio = EXCLUDED.deposit_ratio,
				borrow_ratio = EXCLUDED.borrow_ratio,
				repay_ratio = EXCLUDED.repay_ratio,
				redeem_ratio = EXCLUDED.redeem_ratio,
				liquidation_ratio = EXCLUDED.liquidation_ratio,
				activity_duration_days = EXCLUDED.activity_duration_days,
				transaction_frequency = EXCLUDED.transaction_frequency,
				consistent_usage = EXCLUDED.consistent_usage,
				risk_indicators = EXCLUDED.risk_indicators,
				diversification_score = EXCLUDED.diversification_score,
				leverage_indicator = EXCLUDED.leverage_indicator,
				repayment_behavior = EXCLUDED.repayment_behavior,
				updated_at = now()
		`, scoreArgs(score)...)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for _, score := range scores {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert wallet %s: %w", score.Wallet, err)
		}
	}
	return nil
}

// LastRun returns the most recent run recorded for a source.
func (s *Store) LastRun(ctx context.Context, source string) (Run, bool, error) {
	if source == "" {
		return Run{}, false, fmt.Errorf("run source required")
	}
	run := Run{Source: source}
	var records, failed, wallets int64
	row := s.pool.QueryRow(ctx, `SELECT records, failed, wallets, finished_at FROM score_runs WHERE source=$1`, source)
	if err := row.Scan(&records, &failed, &wallets, &run.FinishedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Run{}, false, nil
		}
		return Run{}, false, err
	}
	run.Records = int(records)
	run.Failed = int(failed)
	run.Wallets = int(wallets)
	return run, true, nil
}

// SaveRun upserts the run summary for a source.
func (s *Store) SaveRun(ctx context.Context, run Run) error {
	if run.Source == "" {
		return fmt.Errorf("run source required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO score_runs (source, records, failed, wallets, finished_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (source) DO UPDATE
		SET records = EXCLUDED.records,
			failed = EXCLUDED.failed,
			wallets = EXCLUDED.wallets,
			finished_at = EXCLUDED.finished_at,
			updated_at = now()
	`, run.Source, int64(run.Records), int64(run.Failed), int64(run.Wallets), run.FinishedAt)
	return err
}

func scoreArgs(score model.WalletScore) []any {
	f := score.Features
	return []any{
		score.Wallet,
		checksumAddress(score.Wallet),
		numeric(score.CreditScore),
		f.TotalTransactions,
		f.UniqueAssets,
		numeric(f.TotalUSDVolume),
		numeric(f.AvgTransactionSize),
		numeric(f.MedianTransactionSize),
		f.DepositRatio,
		f.BorrowRatio,
		f.RepayRatio,
		f.RedeemRatio,
		f.LiquidationRatio,
		f.ActivityDurationDays,
		f.TransactionFrequency,
		f.ConsistentUsage,
		f.RiskIndicators,
		f.DiversificationScore,
		f.LeverageIndicator,
		f.RepaymentBehavior,
	}
}

// checksumAddress returns the EIP-55 form of an EVM address, or nil for
// wallet ids that are not hex addresses.
func checksumAddress(wallet string) *string {
	if !common.IsHexAddress(wallet) {
		return nil
	}
	hex := common.HexToAddress(wallet).Hex()
	return &hex
}

func numeric(v float64) string {
	return decimal.NewFromFloat(v).String()
}
