package decode

// DefaultDecimals applies to any asset symbol missing from the table.
const DefaultDecimals uint8 = 18

// DecimalsTable maps an asset symbol to its token decimals.
type DecimalsTable map[string]uint8

// DefaultDecimalsTable returns the built-in decimals for the common lending assets.
func DefaultDecimalsTable() DecimalsTable {
	return DecimalsTable{
		"USDC":   6,
		"USDT":   6,
		"WBTC":   8,
		"WETH":   18,
		"WMATIC": 18,
		"DAI":    18,
	}
}

// Merge returns a copy of t with overrides applied on top.
func (t DecimalsTable) Merge(overrides map[string]uint8) DecimalsTable {
	out := make(DecimalsTable, len(t)+len(overrides))
	for symbol, decimals := range t {
		out[symbol] = decimals
	}
	for symbol, decimals := range overrides {
		out[symbol] = decimals
	}
	return out
}
