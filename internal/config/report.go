package config

import "github.com/spf13/pflag"

// ReportConfig holds configuration for the report command.
type ReportConfig struct {
	In       string
	TopN     int
	LogLevel string
}

// LoadReport merges config file, environment variables, and flags into ReportConfig.
func LoadReport(cfgFile string, flags *pflag.FlagSet) (ReportConfig, error) {
	v, err := newViper(cfgFile, flags, map[string]any{
		"in":        "./data/wallet_credit_scores.csv",
		"top-n":     5,
		"log-level": "info",
	})
	if err != nil {
		return ReportConfig{}, err
	}

	return ReportConfig{
		In:       v.GetString("in"),
		TopN:     v.GetInt("top-n"),
		LogLevel: v.GetString("log-level"),
	}, nil
}
