package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"creditScope/internal/decode"
	"creditScope/internal/scoring"
	"creditScope/internal/storage/objectstore"
)

// ScoreConfig holds configuration for the score command.
type ScoreConfig struct {
	In              string
	Out             string
	ScoresJSONL     string
	Errors          string
	Workers         int
	TopN            int
	LogLevel        string
	MetricsTextfile string
	ExportRetries   int
	ExportBackoff   time.Duration

	PGDSN              string
	ClickHouseAddr     []string
	ClickHouseDatabase string
	MinIO              objectstore.Options

	Decimals decode.DecimalsTable
	Policy   scoring.Policy
}

// LoadScore merges config file, environment variables, and flags into ScoreConfig.
func LoadScore(cfgFile string, flags *pflag.FlagSet) (ScoreConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"out":                 "./data/wallet_credit_scores.csv",
		"errors":              "./data/load_errors.jsonl",
		"workers":             0,
		"top-n":               5,
		"log-level":           "info",
		"clickhouse-database": "default",
		"minio-bucket":        "credit-scores",
		"export-retries":      3,
		"export-backoff":      500 * time.Millisecond,
	})
	if err != nil {
		return ScoreConfig{}, err
	}

	policy := scoring.DefaultPolicy()
	if v.IsSet("policy.leverage.bands") {
		policy.Leverage.Bands = nil
	}
	if err := v.UnmarshalKey("policy", &policy); err != nil {
		return ScoreConfig{}, fmt.Errorf("read policy: %w", err)
	}

	overrides, err := parseDecimals(getStringMap(v, "decimals"))
	if err != nil {
		return ScoreConfig{}, err
	}

	cfg := ScoreConfig{
		In:                 v.GetString("in"),
		Out:                v.GetString("out"),
		ScoresJSONL:        v.GetString("scores-jsonl"),
		Errors:             v.GetString("errors"),
		Workers:            v.GetInt("workers"),
		TopN:               v.GetInt("top-n"),
		LogLevel:           v.GetString("log-level"),
		MetricsTextfile:    v.GetString("metrics-textfile"),
		ExportRetries:      v.GetInt("export-retries"),
		ExportBackoff:      v.GetDuration("export-backoff"),
		PGDSN:              v.GetString("pg-dsn"),
		ClickHouseAddr:     getStringSlice(v, "clickhouse-addr"),
		ClickHouseDatabase: v.GetString("clickhouse-database"),
		MinIO: objectstore.Options{
			Endpoint:  v.GetString("minio-endpoint"),
			AccessKey: v.GetString("minio-access-key"),
			SecretKey: v.GetString("minio-secret-key"),
			Bucket:    v.GetString("minio-bucket"),
			UseSSL:    v.GetBool("minio-use-ssl"),
		},
		Decimals: decode.DefaultDecimalsTable().Merge(overrides),
		Policy:   policy,
	}

	return cfg, nil
}
