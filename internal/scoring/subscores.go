package scoring

import (
	"math"
	"sort"

	"creditScope/internal/model"
	"creditScope/internal/stats"
)

// Sub-scores take one wallet's records sorted by timestamp ascending.

// Consistency rates the regularity of transaction timing and size in [0,1].
func Consistency(records []model.DecodedTransaction, p ConsistencyPolicy) float64 {
	if len(records) < p.MinRecords {
		return p.NeutralScore
	}

	deltas := make([]float64, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		deltas = append(deltas, float64(records[i].Timestamp-records[i-1].Timestamp))
	}
	timeConsistency := 1 - stats.PopulationStd(deltas)/(stats.Mean(deltas)+p.Epsilon)

	values := usdValues(records)
	sizeStd, _ := stats.SampleStd(values)
	sizeConsistency := 1 - sizeStd/(stats.Mean(values)+p.Epsilon)

	return clampUnit((timeConsistency + sizeConsistency) / 2)
}

// Risk sums behavioral penalties in [0,1]; higher is riskier.
func Risk(records []model.DecodedTransaction, p RiskPolicy) float64 {
	if len(records) == 0 {
		return 0
	}

	var risk float64
	if len(records) > p.BurstMinTransactions {
		span := records[len(records)-1].Timestamp - records[0].Timestamp
		if span < p.BurstWindowSeconds {
			risk += p.BurstPenalty
		}
	}

	values := usdValues(records)
	if std, ok := stats.SampleStd(values); ok && std > stats.Mean(values)*p.ErraticStdMultiple {
		risk += p.ErraticPenalty
	}

	liquidationOnly := true
	for _, r := range records {
		if r.Action != model.ActionLiquidation {
			liquidationOnly = false
			break
		}
	}
	if liquidationOnly {
		risk += p.LiquidationOnlyPenalty
	}

	return clampUnit(risk)
}

// Diversification is the normalized base-2 Shannon entropy of asset symbols.
func Diversification(records []model.DecodedTransaction, p DiversificationPolicy) float64 {
	if len(records) == 0 {
		return 0
	}

	counts := symbolCounts(records)
	total := float64(len(records))
	var entropy float64
	for _, count := range counts {
		prob := float64(count) / total
		if prob > 0 {
			entropy -= prob * math.Log2(prob)
		}
	}

	maxEntropy := math.Log2(float64(min(len(counts), p.MaxAssets)))
	if maxEntropy <= 0 {
		return 0
	}
	return clampUnit(entropy / maxEntropy)
}

// Leverage maps the borrow/deposit USD ratio to a score in [-1,1].
func Leverage(records []model.DecodedTransaction, p LeveragePolicy) float64 {
	totals := actionTotals(records)
	borrows := totals[model.ActionBorrow]
	deposits := totals[model.ActionDeposit]

	if deposits == 0 {
		if borrows == 0 {
			return p.IdleScore
		}
		return p.UncollateralizedScore
	}

	ratio := borrows / deposits
	for _, band := range p.Bands {
		if ratio <= band.MaxRatio {
			return band.Score
		}
	}
	return p.AboveScore
}

// Repayment is the repaid share of borrowed USD in [0,1].
func Repayment(records []model.DecodedTransaction, p RepaymentPolicy) float64 {
	totals := actionTotals(records)
	borrows := totals[model.ActionBorrow]
	if borrows == 0 {
		return p.NoBorrowScore
	}
	return clampUnit(totals[model.ActionRepay] / borrows)
}

func usdValues(records []model.DecodedTransaction) []float64 {
	values := make([]float64, len(records))
	for i, r := range records {
		values[i] = r.AdjustedUSDValue
	}
	return values
}

// symbolCounts returns per-symbol counts ordered by symbol so that float
// sums over them are reproducible.
func symbolCounts(records []model.DecodedTransaction) []int {
	bySymbol := make(map[string]int)
	for _, r := range records {
		bySymbol[r.AssetSymbol]++
	}
	symbols := make([]string, 0, len(bySymbol))
	for symbol := range bySymbol {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	counts := make([]int, len(symbols))
	for i, symbol := range symbols {
		counts[i] = bySymbol[symbol]
	}
	return counts
}

func actionTotals(records []model.DecodedTransaction) map[string]float64 {
	totals := make(map[string]float64, 5)
	for _, r := range records {
		totals[r.Action] += r.AdjustedUSDValue
	}
	return totals
}

func clampUnit(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return stats.Clamp(v, 0, 1)
}
