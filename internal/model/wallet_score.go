package model

import "sort"

// ScoreBreakdown lists the weighted components that make up a credit score.
type ScoreBreakdown struct {
	Volume          float64 `json:"volume"`
	Consistency     float64 `json:"consistency"`
	Diversification float64 `json:"diversification"`
	Repayment       float64 `json:"repayment"`
	Leverage        float64 `json:"leverage"`
	ActivityBonus   float64 `json:"activity_bonus"`
	AssetBonus      float64 `json:"asset_bonus"`
	RiskPenalty     float64 `json:"risk_penalty"`
	Raw             float64 `json:"raw"`
	Total           float64 `json:"total"`
}

// WalletScore is the scoring result for a single wallet.
type WalletScore struct {
	Wallet      string         `json:"wallet"`
	CreditScore float64        `json:"credit_score"`
	Features    WalletFeatures `json:"features"`
	Breakdown   ScoreBreakdown `json:"breakdown"`
}

// SortedScores returns the scores ordered by wallet id.
func SortedScores(scores map[string]WalletScore) []WalletScore {
	out := make([]WalletScore, 0, len(scores))
	for _, score := range scores {
		out = append(out, score)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Wallet < out[j].Wallet
	})
	return out
}
