package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditScope/internal/model"
)

func sampleScores() []model.WalletScore {
	return []model.WalletScore{
		{
			Wallet:      "0x0000000000000000000000000000000000000001",
			CreditScore: 712.3456789,
			Features: model.WalletFeatures{
				TotalTransactions:     20,
				UniqueAssets:          3,
				TotalUSDVolume:        2000.5,
				AvgTransactionSize:    100.025,
				MedianTransactionSize: 100,
				DepositRatio:          0.5,
				RepayRatio:            0.5,
				ActivityDurationDays:  19,
				TransactionFrequency:  1.0526315789473684,
				ConsistentUsage:       0.999,
				DiversificationScore:  0.9980008838722996,
				LeverageIndicator:     0.8,
				RepaymentBehavior:     0.8,
			},
		},
		{
			Wallet:      "0x0000000000000000000000000000000000000002",
			CreditScore: 0,
			Features: model.WalletFeatures{
				TotalTransactions: 1,
				UniqueAssets:      1,
				LiquidationRatio:  1,
				RiskIndicators:    0.5,
				LeverageIndicator: -1,
			},
		},
	}
}

func TestWriteScoresCSVHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScoresCSV(&buf, sampleScores()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(CSVColumns, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "0x0000000000000000000000000000000000000001,712.3456789,20,3,"))
}

func TestCSVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "wallet_credit_scores.csv")
	sink := &CSVFile{Path: path}
	require.NoError(t, sink.PutScores(context.Background(), sampleScores()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	got, err := ReadScoresCSV(file)
	require.NoError(t, err)
	require.Len(t, got, 2)

	for i, want := range sampleScores() {
		assert.Equal(t, want.Wallet, got[i].Wallet)
		assert.Equal(t, want.CreditScore, got[i].CreditScore)
		assert.Equal(t, want.Features, got[i].Features)
	}
}

func TestReadScoresCSVRejectsForeignHeader(t *testing.T) {
	input := strings.Join(append([]string{"address"}, CSVColumns[1:]...), ",") + "\n"
	_, err := ReadScoresCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCSVHeader))
}

func TestReadScoresCSVBadNumber(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteScoresCSV(&buf, sampleScores()[:1]))
	broken := strings.Replace(buf.String(), "712.3456789", "high", 1)

	_, err := ReadScoresCSV(strings.NewReader(broken))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "credit_score")
}

func TestJSONLWriterPutScores(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.jsonl")
	w, err := NewJSONLWriter(path, false)
	require.NoError(t, err)
	require.NoError(t, w.PutScores(context.Background(), sampleScores()))
	require.NoError(t, w.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"credit_score":712.3456789`)
	assert.Contains(t, lines[1], `"leverage_indicator":-1`)
}
