package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"

	"creditScope/internal/scoring"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadScoreDefaults(t *testing.T) {
	cfg, err := LoadScore("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Out != "./data/wallet_credit_scores.csv" {
		t.Fatalf("unexpected out: %s", cfg.Out)
	}
	if cfg.TopN != 5 {
		t.Fatalf("unexpected top-n: %d", cfg.TopN)
	}
	if cfg.Decimals["USDC"] != 6 || cfg.Decimals["WBTC"] != 8 {
		t.Fatalf("unexpected decimals: %v", cfg.Decimals)
	}
	want := scoring.DefaultPolicy()
	if cfg.Policy.Weights != want.Weights {
		t.Fatalf("unexpected weights: %+v", cfg.Policy.Weights)
	}
	if len(cfg.Policy.Leverage.Bands) != 3 {
		t.Fatalf("unexpected bands: %+v", cfg.Policy.Leverage.Bands)
	}
}

func TestLoadScoreConfigFile(t *testing.T) {
	path := writeConfig(t, `
in: ./tx.json
workers: 4
clickhouse-addr: "ch1:9000, ch2:9000"
decimals:
  usdc: 6
  link: 18
  gho: 18
policy:
  risk:
    burst-penalty: 0.4
  leverage:
    bands:
      - max-ratio: 1
        score: 1
      - max-ratio: 3
        score: 0.5
  weights:
    volume: 250
`)
	cfg, err := LoadScore(path, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.In != "./tx.json" || cfg.Workers != 4 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.ClickHouseAddr) != 2 || cfg.ClickHouseAddr[1] != "ch2:9000" {
		t.Fatalf("unexpected clickhouse addr: %v", cfg.ClickHouseAddr)
	}
	if cfg.Decimals["LINK"] != 18 || cfg.Decimals["USDT"] != 6 {
		t.Fatalf("unexpected decimals: %v", cfg.Decimals)
	}
	if cfg.Policy.Risk.BurstPenalty != 0.4 {
		t.Fatalf("unexpected burst penalty: %v", cfg.Policy.Risk.BurstPenalty)
	}
	if cfg.Policy.Risk.ErraticPenalty != 0.2 {
		t.Fatalf("default erratic penalty lost: %v", cfg.Policy.Risk.ErraticPenalty)
	}
	if cfg.Policy.Weights.Volume != 250 || cfg.Policy.Weights.Consistency != 200 {
		t.Fatalf("unexpected weights: %+v", cfg.Policy.Weights)
	}
	if len(cfg.Policy.Leverage.Bands) != 2 || cfg.Policy.Leverage.Bands[1].Score != 0.5 {
		t.Fatalf("bands should be replaced, got %+v", cfg.Policy.Leverage.Bands)
	}
	if err := cfg.Policy.Validate(); err != nil {
		t.Fatalf("policy should validate: %v", err)
	}
}

func TestLoadScoreInvalidDecimals(t *testing.T) {
	path := writeConfig(t, "decimals:\n  usdc: 600\n")
	if _, err := LoadScore(path, nil); err == nil {
		t.Fatalf("expected error for out-of-range decimals")
	}
}

func TestLoadScoreMissingFile(t *testing.T) {
	if _, err := LoadScore(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestLoadScoreEnvAndFlags(t *testing.T) {
	t.Setenv("CREDITSCOPE_PG_DSN", "postgres://env")
	t.Setenv("CREDITSCOPE_DECIMALS", "aave=18,usdc=7")

	flags := pflag.NewFlagSet("score", pflag.ContinueOnError)
	flags.String("out", "./data/wallet_credit_scores.csv", "")
	flags.Int("top-n", 5, "")
	if err := flags.Parse([]string{"--out", "/tmp/scores.csv", "--top-n", "10"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := LoadScore("", flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PGDSN != "postgres://env" {
		t.Fatalf("unexpected dsn: %s", cfg.PGDSN)
	}
	if cfg.Out != "/tmp/scores.csv" || cfg.TopN != 10 {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if cfg.Decimals["AAVE"] != 18 || cfg.Decimals["USDC"] != 7 {
		t.Fatalf("unexpected decimals: %v", cfg.Decimals)
	}
}

func TestLoadReport(t *testing.T) {
	cfg, err := LoadReport("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.In != "./data/wallet_credit_scores.csv" || cfg.TopN != 5 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected report cfg: %+v", cfg)
	}
}
