package scoring

import (
	"errors"
	"fmt"
	"sort"
)

// ErrInvalidPolicy is returned by Policy.Validate.
var ErrInvalidPolicy = errors.New("invalid scoring policy")

// Policy holds every tunable constant of the scoring formula.
type Policy struct {
	Consistency     ConsistencyPolicy     `mapstructure:"consistency"`
	Risk            RiskPolicy            `mapstructure:"risk"`
	Diversification DiversificationPolicy `mapstructure:"diversification"`
	Leverage        LeveragePolicy        `mapstructure:"leverage"`
	Repayment       RepaymentPolicy       `mapstructure:"repayment"`
	Weights         Weights               `mapstructure:"weights"`
}

type ConsistencyPolicy struct {
	MinRecords   int     `mapstructure:"min-records"`
	NeutralScore float64 `mapstructure:"neutral-score"`
	Epsilon      float64 `mapstructure:"epsilon"`
}

type RiskPolicy struct {
	BurstMinTransactions   int     `mapstructure:"burst-min-transactions"`
	BurstWindowSeconds     int64   `mapstructure:"burst-window-seconds"`
	BurstPenalty           float64 `mapstructure:"burst-penalty"`
	ErraticStdMultiple     float64 `mapstructure:"erratic-std-multiple"`
	ErraticPenalty         float64 `mapstructure:"erratic-penalty"`
	LiquidationOnlyPenalty float64 `mapstructure:"liquidation-only-penalty"`
}

type DiversificationPolicy struct {
	MaxAssets int `mapstructure:"max-assets"`
}

// LeverageBand scores a borrow/deposit ratio at or below MaxRatio.
type LeverageBand struct {
	MaxRatio float64 `mapstructure:"max-ratio"`
	Score    float64 `mapstructure:"score"`
}

type LeveragePolicy struct {
	Bands []LeverageBand `mapstructure:"bands"`
	// AboveScore applies when the ratio exceeds every band.
	AboveScore float64 `mapstructure:"above-score"`
	// IdleScore applies with neither deposits nor borrows.
	IdleScore float64 `mapstructure:"idle-score"`
	// UncollateralizedScore applies to borrowing without any deposit.
	UncollateralizedScore float64 `mapstructure:"uncollateralized-score"`
}

type RepaymentPolicy struct {
	NoBorrowScore float64 `mapstructure:"no-borrow-score"`
}

// Weights are the composite score multipliers and caps.
type Weights struct {
	Volume          float64 `mapstructure:"volume"`
	VolumeLogScale  float64 `mapstructure:"volume-log-scale"`
	Consistency     float64 `mapstructure:"consistency"`
	Diversification float64 `mapstructure:"diversification"`
	Repayment       float64 `mapstructure:"repayment"`
	Leverage        float64 `mapstructure:"leverage"`
	ActivityPerTx   float64 `mapstructure:"activity-per-tx"`
	ActivityCap     float64 `mapstructure:"activity-cap"`
	AssetPerUnique  float64 `mapstructure:"asset-per-unique"`
	AssetCap        float64 `mapstructure:"asset-cap"`
	Risk            float64 `mapstructure:"risk"`
	MinScore        float64 `mapstructure:"min-score"`
	MaxScore        float64 `mapstructure:"max-score"`
}

// DefaultPolicy returns the production scoring constants.
func DefaultPolicy() Policy {
	return Policy{
		Consistency: ConsistencyPolicy{
			MinRecords:   2,
			NeutralScore: 0.5,
			Epsilon:      1e-10,
		},
		Risk: RiskPolicy{
			BurstMinTransactions:   10,
			BurstWindowSeconds:     3600,
			BurstPenalty:           0.3,
			ErraticStdMultiple:     5,
			ErraticPenalty:         0.2,
			LiquidationOnlyPenalty: 0.5,
		},
		Diversification: DiversificationPolicy{MaxAssets: 10},
		Leverage: LeveragePolicy{
			Bands: []LeverageBand{
				{MaxRatio: 0.5, Score: 0.8},
				{MaxRatio: 1.0, Score: 1.0},
				{MaxRatio: 2.0, Score: 0.6},
			},
			AboveScore:            0.2,
			IdleScore:             0,
			UncollateralizedScore: -1,
		},
		Repayment: RepaymentPolicy{NoBorrowScore: 0.8},
		Weights: Weights{
			Volume:          200,
			VolumeLogScale:  5,
			Consistency:     200,
			Diversification: 150,
			Repayment:       200,
			Leverage:        150,
			ActivityPerTx:   10,
			ActivityCap:     50,
			AssetPerUnique:  20,
			AssetCap:        100,
			Risk:            200,
			MinScore:        0,
			MaxScore:        1000,
		},
	}
}

// Validate checks the policy and sorts leverage bands by ratio.
func (p *Policy) Validate() error {
	if p.Consistency.MinRecords < 2 {
		return fmt.Errorf("%w: consistency min-records must be >= 2", ErrInvalidPolicy)
	}
	if p.Consistency.Epsilon <= 0 {
		return fmt.Errorf("%w: consistency epsilon must be positive", ErrInvalidPolicy)
	}
	if p.Diversification.MaxAssets < 1 {
		return fmt.Errorf("%w: diversification max-assets must be >= 1", ErrInvalidPolicy)
	}
	if len(p.Leverage.Bands) == 0 {
		return fmt.Errorf("%w: leverage bands are required", ErrInvalidPolicy)
	}
	if p.Weights.VolumeLogScale <= 0 {
		return fmt.Errorf("%w: volume-log-scale must be positive", ErrInvalidPolicy)
	}
	if p.Weights.MaxScore <= p.Weights.MinScore {
		return fmt.Errorf("%w: max-score must exceed min-score", ErrInvalidPolicy)
	}
	bands := append([]LeverageBand(nil), p.Leverage.Bands...)
	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].MaxRatio < bands[j].MaxRatio
	})
	p.Leverage.Bands = bands
	return nil
}
