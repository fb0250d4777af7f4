package decode

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"creditScope/internal/model"
)

// DecoderConfig configures decimal resolution.
type DecoderConfig struct {
	Decimals        DecimalsTable
	DefaultDecimals uint8
}

// Decoder turns raw transactions into decoded ones. It never fails: malformed
// amounts and prices decode as 0 and a missing symbol as "".
type Decoder struct {
	decimals        DecimalsTable
	defaultDecimals uint8
}

func NewDecoder(cfg DecoderConfig) *Decoder {
	table := cfg.Decimals
	if table == nil {
		table = DefaultDecimalsTable()
	}
	def := cfg.DefaultDecimals
	if def == 0 {
		def = DefaultDecimals
	}
	return &Decoder{decimals: table, defaultDecimals: def}
}

// DecimalsFor returns the decimals used for symbol. Lookup is case-sensitive.
func (d *Decoder) DecimalsFor(symbol string) uint8 {
	if decimals, ok := d.decimals[symbol]; ok {
		return decimals
	}
	return d.defaultDecimals
}

// Decode converts a single raw transaction.
func (d *Decoder) Decode(raw model.RawTransaction) model.DecodedTransaction {
	amount := parseNumber(raw.ActionData.Amount)
	price := parseNumber(raw.ActionData.AssetPriceUSD)
	symbol := parseString(raw.ActionData.AssetSymbol)
	decimals := d.DecimalsFor(symbol)

	adjusted := finiteOrZero(amount / math.Pow10(int(decimals)))
	usdValue := finiteOrZero(adjusted * price)

	return model.DecodedTransaction{
		Wallet:           raw.UserWallet,
		TxHash:           raw.TxHash,
		Timestamp:        raw.Timestamp,
		Action:           raw.Action,
		AssetSymbol:      symbol,
		Amount:           amount,
		AssetPriceUSD:    price,
		Decimals:         decimals,
		AdjustedAmount:   adjusted,
		AdjustedUSDValue: usdValue,
	}
}

// DecodeAll decodes raws in order into a new slice.
func (d *Decoder) DecodeAll(raws []model.RawTransaction) []model.DecodedTransaction {
	out := make([]model.DecodedTransaction, len(raws))
	for i, raw := range raws {
		out[i] = d.Decode(raw)
	}
	return out
}

var jsonNull = []byte("null")

func parseNumber(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return 0
	}

	text := string(raw)
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0
		}
		text = strings.TrimSpace(s)
	}

	value, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0
	}
	return finiteOrZero(value)
}

func parseString(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
