package pipeline

import (
	"context"
	"encoding/json"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"creditScope/internal/model"
	"creditScope/internal/scoring"
)

func raw(wallet string, ts int64, action, amount, symbol, price string) model.RawTransaction {
	return model.RawTransaction{
		UserWallet: wallet,
		Timestamp:  ts,
		Action:     action,
		ActionData: model.ActionData{
			Amount:        json.RawMessage(`"` + amount + `"`),
			AssetSymbol:   json.RawMessage(`"` + symbol + `"`),
			AssetPriceUSD: json.RawMessage(`"` + price + `"`),
		},
	}
}

// scenario returns a steady depositor (A) and a liquidation-only burst wallet (B).
func scenario() []model.RawTransaction {
	const start = int64(1_700_000_000)
	assets := []struct{ amount, symbol, price string }{
		{"100000000", "USDC", "1"},
		{"100000000000000000000", "DAI", "1"},
		{"50000000000000000", "WETH", "2000"},
	}

	var raws []model.RawTransaction
	for i := 0; i < 20; i++ {
		action := model.ActionDeposit
		if i%2 == 1 {
			action = model.ActionRepay
		}
		a := assets[i%len(assets)]
		raws = append(raws, raw("0xA", start+int64(i)*86400, action, a.amount, a.symbol, a.price))
	}
	for i := 0; i < 15; i++ {
		raws = append(raws, raw("0xB", start+int64(i)*60, model.ActionLiquidation, "100000000", "USDC", "1"))
	}
	return raws
}

func newPipeline(t *testing.T, workers int) *Pipeline {
	t.Helper()
	p, err := New(Config{Policy: scoring.DefaultPolicy(), Workers: workers}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	return p
}

func TestPipelineScenario(t *testing.T) {
	scores, err := newPipeline(t, 4).Run(context.Background(), scenario())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 wallets, got %d", len(scores))
	}

	a, b := scores["0xA"], scores["0xB"]
	if b.Features.RiskIndicators < 0.5 {
		t.Fatalf("liquidation-only wallet risk: got %v", b.Features.RiskIndicators)
	}
	if a.Features.RiskIndicators != 0 {
		t.Fatalf("steady wallet risk: got %v", a.Features.RiskIndicators)
	}
	if a.Features.UniqueAssets != 3 || a.Features.TotalTransactions != 20 {
		t.Fatalf("wallet A features: %+v", a.Features)
	}
	if a.CreditScore-b.CreditScore < 100 {
		t.Fatalf("expected margin >= 100, got A=%v B=%v", a.CreditScore, b.CreditScore)
	}
	if b.Breakdown.RiskPenalty < 100 {
		t.Fatalf("risk penalty: got %v", b.Breakdown.RiskPenalty)
	}
}

func TestPipelineDeterministicAndBounded(t *testing.T) {
	first, err := newPipeline(t, 1).Run(context.Background(), scenario())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	second, err := newPipeline(t, 8).Run(context.Background(), scenario())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("results differ between runs")
	}

	for wallet, s := range first {
		f := s.Features
		if s.CreditScore < 0 || s.CreditScore > 1000 {
			t.Fatalf("%s score out of range: %v", wallet, s.CreditScore)
		}
		for name, v := range map[string]float64{
			"consistency":     f.ConsistentUsage,
			"risk":            f.RiskIndicators,
			"diversification": f.DiversificationScore,
			"repayment":       f.RepaymentBehavior,
		} {
			if v < 0 || v > 1 {
				t.Fatalf("%s %s out of range: %v", wallet, name, v)
			}
		}
		if f.LeverageIndicator < -1 || f.LeverageIndicator > 1 {
			t.Fatalf("%s leverage out of range: %v", wallet, f.LeverageIndicator)
		}
	}
}

func TestPipelineNoBorrowWallet(t *testing.T) {
	raws := []model.RawTransaction{
		raw("0xC", 10, model.ActionRedeem, "5", "DAI", "1"),
		raw("0xC", 20, model.ActionRedeem, "5", "DAI", "1"),
	}
	scores, err := newPipeline(t, 2).Run(context.Background(), raws)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	f := scores["0xC"].Features
	if f.RepaymentBehavior != 0.8 || f.LeverageIndicator != 0 {
		t.Fatalf("no-borrow wallet: %+v", f)
	}
	if f.RedeemRatio != 1 {
		t.Fatalf("redeem ratio: got %v", f.RedeemRatio)
	}
}

type countingRecorder struct {
	decoded int
	scored  int
}

func (r *countingRecorder) ObserveDecoded(records []model.DecodedTransaction) { r.decoded += len(records) }
func (r *countingRecorder) ObserveScores(scores map[string]model.WalletScore) { r.scored += len(scores) }

func TestPipelineRecorder(t *testing.T) {
	rec := &countingRecorder{}
	p, err := New(Config{Policy: scoring.DefaultPolicy()}, rec, nil)
	if err != nil {
		t.Fatalf("new pipeline: %v", err)
	}
	if _, err := p.Run(context.Background(), scenario()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.decoded != 35 || rec.scored != 2 {
		t.Fatalf("recorder counts: %+v", rec)
	}
}

func TestNewRejectsInvalidPolicy(t *testing.T) {
	policy := scoring.DefaultPolicy()
	policy.Leverage.Bands = nil
	if _, err := New(Config{Policy: policy}, nil, nil); err == nil {
		t.Fatalf("expected policy validation error")
	}
}
