package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/shopspring/decimal"

	"creditScope/internal/model"
)

// ErrCSVHeader is returned when a score CSV lacks the expected columns.
var ErrCSVHeader = errors.New("unexpected score csv header")

// CSVColumns is the header of the score export.
var CSVColumns = []string{
	"wallet",
	"credit_score",
	"total_transactions",
	"unique_assets",
	"total_usd_volume",
	"avg_transaction_size",
	"median_transaction_size",
	"deposit_ratio",
	"borrow_ratio",
	"repay_ratio",
	"redeem_ratio",
	"liquidation_ratio",
	"activity_duration_days",
	"transaction_frequency",
	"consistent_usage",
	"risk_indicators",
	"diversification_score",
	"leverage_indicator",
	"repayment_behavior",
}

// CSVFile writes scores to a CSV file, replacing any previous content.
type CSVFile struct {
	Path string
}

func (c *CSVFile) PutScores(_ context.Context, scores []model.WalletScore) error {
	if err := ensureDir(c.Path); err != nil {
		return err
	}
	file, err := os.Create(c.Path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	if err := WriteScoresCSV(file, scores); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteScoresCSV writes the header and one row per score.
func WriteScoresCSV(w io.Writer, scores []model.WalletScore) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, s := range scores {
		if err := cw.Write(scoreRow(s)); err != nil {
			return fmt.Errorf("write csv row %s: %w", s.Wallet, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadScoresCSV parses a file produced by WriteScoresCSV. Breakdowns are not
// part of the export and are left empty.
func ReadScoresCSV(r io.Reader) ([]model.WalletScore, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(CSVColumns)

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i, name := range CSVColumns {
		if header[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrCSVHeader, i, header[i], name)
		}
	}

	var scores []model.WalletScore
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		score, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("csv line %d: %w", line, err)
		}
		scores = append(scores, score)
	}
	return scores, nil
}

func scoreRow(s model.WalletScore) []string {
	f := s.Features
	return []string{
		s.Wallet,
		formatFloat(s.CreditScore),
		strconv.Itoa(f.TotalTransactions),
		strconv.Itoa(f.UniqueAssets),
		formatFloat(f.TotalUSDVolume),
		formatFloat(f.AvgTransactionSize),
		formatFloat(f.MedianTransactionSize),
		formatFloat(f.DepositRatio),
		formatFloat(f.BorrowRatio),
		formatFloat(f.RepayRatio),
		formatFloat(f.RedeemRatio),
		formatFloat(f.LiquidationRatio),
		formatFloat(f.ActivityDurationDays),
		formatFloat(f.TransactionFrequency),
		formatFloat(f.ConsistentUsage),
		formatFloat(f.RiskIndicators),
		formatFloat(f.DiversificationScore),
		formatFloat(f.LeverageIndicator),
		formatFloat(f.RepaymentBehavior),
	}
}

func parseRow(record []string) (model.WalletScore, error) {
	p := rowParser{record: record}
	s := model.WalletScore{Wallet: record[0]}
	s.CreditScore = p.float(1)
	s.Features = model.WalletFeatures{
		TotalTransactions:     p.int(2),
		UniqueAssets:          p.int(3),
		TotalUSDVolume:        p.float(4),
		AvgTransactionSize:    p.float(5),
		MedianTransactionSize: p.float(6),
		DepositRatio:          p.float(7),
		BorrowRatio:           p.float(8),
		RepayRatio:            p.float(9),
		RedeemRatio:           p.float(10),
		LiquidationRatio:      p.float(11),
		ActivityDurationDays:  p.float(12),
		TransactionFrequency:  p.float(13),
		ConsistentUsage:       p.float(14),
		RiskIndicators:        p.float(15),
		DiversificationScore:  p.float(16),
		LeverageIndicator:     p.float(17),
		RepaymentBehavior:     p.float(18),
	}
	s.Breakdown.Total = s.CreditScore
	return s, p.err
}

// rowParser keeps the first conversion error of a row.
type rowParser struct {
	record []string
	err    error
}

func (p *rowParser) float(i int) float64 {
	if p.err != nil {
		return 0
	}
	d, err := decimal.NewFromString(p.record[i])
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", CSVColumns[i], err)
		return 0
	}
	return d.InexactFloat64()
}

func (p *rowParser) int(i int) int {
	if p.err != nil {
		return 0
	}
	v, err := strconv.Atoi(p.record[i])
	if err != nil {
		p.err = fmt.Errorf("column %s: %w", CSVColumns[i], err)
		return 0
	}
	return v
}

func formatFloat(v float64) string {
	return decimal.NewFromFloat(v).String()
}
