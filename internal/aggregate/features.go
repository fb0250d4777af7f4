package aggregate

import (
	"creditScope/internal/model"
	"creditScope/internal/scoring"
	"creditScope/internal/stats"
)

const secondsPerDay = 24 * 3600

// ComputeFeatures builds the feature vector of one wallet from its full,
// chronologically sorted record set. records must not be empty.
func ComputeFeatures(records []model.DecodedTransaction, policy scoring.Policy) model.WalletFeatures {
	total := len(records)
	values := make([]float64, total)
	symbols := make(map[string]struct{})
	actions := make(map[string]int, 5)
	for i, r := range records {
		values[i] = r.AdjustedUSDValue
		symbols[r.AssetSymbol] = struct{}{}
		actions[r.Action]++
	}

	ratio := func(action string) float64 {
		return float64(actions[action]) / float64(total)
	}

	span := records[total-1].Timestamp - records[0].Timestamp
	durationDays := float64(span) / secondsPerDay
	frequencyBase := durationDays
	if frequencyBase < 1 {
		frequencyBase = 1
	}

	return model.WalletFeatures{
		TotalTransactions:     total,
		UniqueAssets:          len(symbols),
		TotalUSDVolume:        stats.Sum(values),
		AvgTransactionSize:    stats.Mean(values),
		MedianTransactionSize: stats.Median(values),
		DepositRatio:          ratio(model.ActionDeposit),
		BorrowRatio:           ratio(model.ActionBorrow),
		RepayRatio:            ratio(model.ActionRepay),
		RedeemRatio:           ratio(model.ActionRedeem),
		LiquidationRatio:      ratio(model.ActionLiquidation),
		ActivityDurationDays:  durationDays,
		TransactionFrequency:  float64(total) / frequencyBase,
		ConsistentUsage:       scoring.Consistency(records, policy.Consistency),
		RiskIndicators:        scoring.Risk(records, policy.Risk),
		DiversificationScore:  scoring.Diversification(records, policy.Diversification),
		LeverageIndicator:     scoring.Leverage(records, policy.Leverage),
		RepaymentBehavior:     scoring.Repayment(records, policy.Repayment),
	}
}
