package scoring

import (
	"math"
	"testing"

	"creditScope/internal/model"
)

func tx(ts int64, action, symbol string, usd float64) model.DecodedTransaction {
	return model.DecodedTransaction{
		Wallet:           "0xwallet",
		Timestamp:        ts,
		Action:           action,
		AssetSymbol:      symbol,
		AdjustedUSDValue: usd,
	}
}

func TestConsistencySingleRecordIsNeutral(t *testing.T) {
	p := DefaultPolicy()
	got := Consistency([]model.DecodedTransaction{tx(100, model.ActionDeposit, "DAI", 10)}, p.Consistency)
	if got != 0.5 {
		t.Fatalf("consistency: got %v", got)
	}
}

func TestConsistencyPerfectlyRegular(t *testing.T) {
	p := DefaultPolicy()
	records := []model.DecodedTransaction{
		tx(0, model.ActionDeposit, "DAI", 50),
		tx(100, model.ActionDeposit, "DAI", 50),
		tx(200, model.ActionDeposit, "DAI", 50),
		tx(300, model.ActionDeposit, "DAI", 50),
	}
	if got := Consistency(records, p.Consistency); math.Abs(got-1) > 1e-9 {
		t.Fatalf("consistency: got %v", got)
	}
}

func TestConsistencyUsesPopulationAndSampleStd(t *testing.T) {
	p := DefaultPolicy()
	records := []model.DecodedTransaction{
		tx(0, model.ActionDeposit, "DAI", 10),
		tx(10, model.ActionDeposit, "DAI", 20),
		tx(40, model.ActionDeposit, "DAI", 30),
	}
	// deltas 10,30: population std 10, mean 20 -> 0.5
	// sizes 10,20,30: sample std 10, mean 20 -> 0.5
	if got := Consistency(records, p.Consistency); math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("consistency: got %v", got)
	}
}

func TestConsistencyIdenticalTimestamps(t *testing.T) {
	p := DefaultPolicy()
	records := []model.DecodedTransaction{
		tx(5, model.ActionDeposit, "DAI", 0),
		tx(5, model.ActionDeposit, "DAI", 0),
	}
	got := Consistency(records, p.Consistency)
	if math.IsNaN(got) || got != 1 {
		t.Fatalf("consistency: got %v", got)
	}
}

func TestRiskLiquidationOnly(t *testing.T) {
	p := DefaultPolicy()
	records := []model.DecodedTransaction{
		tx(0, model.ActionLiquidation, "WETH", 100),
		tx(86400, model.ActionLiquidation, "WETH", 110),
	}
	if got := Risk(records, p.Risk); got != 0.5 {
		t.Fatalf("risk: got %v", got)
	}
}

func TestRiskBurstAndErratic(t *testing.T) {
	p := DefaultPolicy()
	var records []model.DecodedTransaction
	for i := 0; i < 11; i++ {
		records = append(records, tx(int64(i*60), model.ActionDeposit, "USDC", 1))
	}
	if got := Risk(records, p.Risk); math.Abs(got-0.3) > 1e-9 {
		t.Fatalf("burst risk: got %v", got)
	}

	// one large outlier among many tiny values pushes std above 5x mean
	erratic := []model.DecodedTransaction{tx(0, model.ActionDeposit, "USDC", 1e6)}
	for i := 1; i < 40; i++ {
		erratic = append(erratic, tx(int64(i*86400), model.ActionDeposit, "USDC", 0))
	}
	if got := Risk(erratic, p.Risk); math.Abs(got-0.2) > 1e-9 {
		t.Fatalf("erratic risk: got %v", got)
	}
}

func TestRiskIsClamped(t *testing.T) {
	p := DefaultPolicy()
	records := []model.DecodedTransaction{tx(0, model.ActionLiquidation, "USDC", 1e6)}
	for i := 1; i < 40; i++ {
		records = append(records, tx(int64(i), model.ActionLiquidation, "USDC", 0))
	}
	if got := Risk(records, p.Risk); got != 1 {
		t.Fatalf("risk should clamp to 1, got %v", got)
	}
}

func TestRiskSingleRecordSkipsErratic(t *testing.T) {
	p := DefaultPolicy()
	if got := Risk([]model.DecodedTransaction{tx(0, model.ActionDeposit, "DAI", 5)}, p.Risk); got != 0 {
		t.Fatalf("risk: got %v", got)
	}
}

func TestDiversification(t *testing.T) {
	p := DefaultPolicy()

	single := []model.DecodedTransaction{
		tx(0, model.ActionDeposit, "DAI", 1),
		tx(1, model.ActionDeposit, "DAI", 1),
	}
	if got := Diversification(single, p.Diversification); got != 0 {
		t.Fatalf("single asset: got %v", got)
	}

	even := []model.DecodedTransaction{
		tx(0, model.ActionDeposit, "DAI", 1),
		tx(1, model.ActionDeposit, "USDC", 1),
	}
	if got := Diversification(even, p.Diversification); math.Abs(got-1) > 1e-9 {
		t.Fatalf("even split: got %v", got)
	}

	skewed := []model.DecodedTransaction{
		tx(0, model.ActionDeposit, "DAI", 1),
		tx(1, model.ActionDeposit, "DAI", 1),
		tx(2, model.ActionDeposit, "DAI", 1),
		tx(3, model.ActionDeposit, "USDC", 1),
	}
	want := -(0.75*math.Log2(0.75) + 0.25*math.Log2(0.25))
	if got := Diversification(skewed, p.Diversification); math.Abs(got-want) > 1e-9 {
		t.Fatalf("skewed: got %v want %v", got, want)
	}
}

func TestDiversificationCapsNormalizer(t *testing.T) {
	p := DefaultPolicy()
	var records []model.DecodedTransaction
	for i := 0; i < 16; i++ {
		records = append(records, tx(int64(i), model.ActionDeposit, string(rune('A'+i)), 1))
	}
	// entropy log2(16)=4 exceeds log2(10); result clamps to 1
	if got := Diversification(records, p.Diversification); got != 1 {
		t.Fatalf("diversification: got %v", got)
	}
}

func TestLeverageBands(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		name     string
		deposit  float64
		borrow   float64
		expected float64
	}{
		{name: "idle", deposit: 0, borrow: 0, expected: 0},
		{name: "uncollateralized", deposit: 0, borrow: 10, expected: -1},
		{name: "deposit only", deposit: 100, borrow: 0, expected: 0.8},
		{name: "conservative edge", deposit: 100, borrow: 50, expected: 0.8},
		{name: "optimal", deposit: 100, borrow: 100, expected: 1.0},
		{name: "moderate", deposit: 100, borrow: 150, expected: 0.6},
		{name: "high", deposit: 100, borrow: 250, expected: 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var records []model.DecodedTransaction
			if tc.deposit > 0 {
				records = append(records, tx(0, model.ActionDeposit, "USDC", tc.deposit))
			}
			if tc.borrow > 0 {
				records = append(records, tx(1, model.ActionBorrow, "USDC", tc.borrow))
			}
			if got := Leverage(records, p.Leverage); got != tc.expected {
				t.Fatalf("leverage: got %v want %v", got, tc.expected)
			}
		})
	}
}

func TestRepayment(t *testing.T) {
	p := DefaultPolicy()

	noBorrow := []model.DecodedTransaction{tx(0, model.ActionDeposit, "DAI", 10)}
	if got := Repayment(noBorrow, p.Repayment); got != 0.8 {
		t.Fatalf("no borrow: got %v", got)
	}

	partial := []model.DecodedTransaction{
		tx(0, model.ActionBorrow, "DAI", 100),
		tx(1, model.ActionRepay, "DAI", 40),
	}
	if got := Repayment(partial, p.Repayment); math.Abs(got-0.4) > 1e-9 {
		t.Fatalf("partial: got %v", got)
	}

	over := []model.DecodedTransaction{
		tx(0, model.ActionBorrow, "DAI", 100),
		tx(1, model.ActionRepay, "DAI", 130),
	}
	if got := Repayment(over, p.Repayment); got != 1 {
		t.Fatalf("over-repaid should clamp: got %v", got)
	}
}
