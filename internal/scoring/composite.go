package scoring

import (
	"math"

	"creditScope/internal/model"
	"creditScope/internal/stats"
)

// Score combines a wallet's features into a bounded credit score. Each
// component is bounded on its own before the weighted sum is clamped.
func Score(f model.WalletFeatures, p Policy) model.ScoreBreakdown {
	w := p.Weights

	volume := math.Log10(math.Max(f.TotalUSDVolume, 0)+1) / w.VolumeLogScale
	b := model.ScoreBreakdown{
		Volume:          math.Min(volume, 1) * w.Volume,
		Consistency:     f.ConsistentUsage * w.Consistency,
		Diversification: f.DiversificationScore * w.Diversification,
		Repayment:       f.RepaymentBehavior * w.Repayment,
		Leverage:        f.LeverageIndicator * w.Leverage,
		ActivityBonus:   math.Min(f.TransactionFrequency*w.ActivityPerTx, w.ActivityCap),
		AssetBonus:      math.Min(float64(f.UniqueAssets)*w.AssetPerUnique, w.AssetCap),
		RiskPenalty:     f.RiskIndicators * w.Risk,
	}

	b.Raw = b.Volume + b.Consistency + b.Diversification + b.Repayment +
		b.Leverage + b.ActivityBonus + b.AssetBonus - b.RiskPenalty
	if math.IsNaN(b.Raw) {
		b.Raw = w.MinScore
	}
	b.Total = stats.Clamp(b.Raw, w.MinScore, w.MaxScore)
	return b
}
