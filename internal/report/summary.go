package report

import (
	"fmt"
	"sort"

	"creditScope/internal/model"
	"creditScope/internal/stats"
)

const (
	bucketWidth     = 100
	bucketCount     = 10
	lowScoreCutoff  = 300
	highScoreCutoff = 700
)

// Bucket counts wallets whose score falls in [Low, High). The last bucket
// also holds a score of exactly 1000.
type Bucket struct {
	Low        int
	High       int
	Count      int
	Percentage float64
}

func (b Bucket) Label() string {
	return fmt.Sprintf("%d-%d", b.Low, b.High)
}

// Cohort summarizes the wallets of one score band.
type Cohort struct {
	Count              int
	AvgTransactions    float64
	AvgUSDVolume       float64
	AvgRiskIndicators  float64
	AvgConsistentUsage float64
}

// Summary describes a score distribution.
type Summary struct {
	Wallets int
	Mean    float64
	Median  float64
	Std     float64
	Min     float64
	Max     float64
	Buckets []Bucket
	Low     Cohort
	High    Cohort
}

// Summarize computes distribution statistics over scores. Std is the sample
// standard deviation and is 0 with fewer than two wallets.
func Summarize(scores []model.WalletScore) Summary {
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.CreditScore
	}

	summary := Summary{
		Wallets: len(scores),
		Mean:    stats.Mean(values),
		Median:  stats.Median(values),
		Min:     stats.Min(values),
		Max:     stats.Max(values),
		Buckets: buckets(values),
	}
	if std, ok := stats.SampleStd(values); ok {
		summary.Std = std
	}

	var low, high []model.WalletScore
	for _, s := range scores {
		switch {
		case s.CreditScore < lowScoreCutoff:
			low = append(low, s)
		case s.CreditScore >= highScoreCutoff:
			high = append(high, s)
		}
	}
	summary.Low = cohort(low)
	summary.High = cohort(high)
	return summary
}

// Top returns up to n wallets with the highest scores. Ties are ordered by
// wallet id.
func Top(scores []model.WalletScore, n int) []model.WalletScore {
	return ranked(scores, n, func(a, b float64) bool { return a > b })
}

// Bottom returns up to n wallets with the lowest scores.
func Bottom(scores []model.WalletScore, n int) []model.WalletScore {
	return ranked(scores, n, func(a, b float64) bool { return a < b })
}

func ranked(scores []model.WalletScore, n int, before func(a, b float64) bool) []model.WalletScore {
	if n <= 0 {
		return nil
	}
	out := append([]model.WalletScore(nil), scores...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreditScore != out[j].CreditScore {
			return before(out[i].CreditScore, out[j].CreditScore)
		}
		return out[i].Wallet < out[j].Wallet
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func buckets(values []float64) []Bucket {
	out := make([]Bucket, bucketCount)
	for i := range out {
		out[i] = Bucket{Low: i * bucketWidth, High: (i + 1) * bucketWidth}
	}
	for _, v := range values {
		if v < 0 || v > bucketCount*bucketWidth {
			continue
		}
		idx := min(int(v)/bucketWidth, bucketCount-1)
		out[idx].Count++
	}
	if len(values) > 0 {
		for i := range out {
			out[i].Percentage = float64(out[i].Count) / float64(len(values)) * 100
		}
	}
	return out
}

func cohort(scores []model.WalletScore) Cohort {
	c := Cohort{Count: len(scores)}
	if len(scores) == 0 {
		return c
	}
	for _, s := range scores {
		c.AvgTransactions += float64(s.Features.TotalTransactions)
		c.AvgUSDVolume += s.Features.TotalUSDVolume
		c.AvgRiskIndicators += s.Features.RiskIndicators
		c.AvgConsistentUsage += s.Features.ConsistentUsage
	}
	n := float64(len(scores))
	c.AvgTransactions /= n
	c.AvgUSDVolume /= n
	c.AvgRiskIndicators /= n
	c.AvgConsistentUsage /= n
	return c
}
