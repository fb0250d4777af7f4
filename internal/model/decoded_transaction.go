package model

// DecodedTransaction is a RawTransaction with decimals resolved and USD value computed.
type DecodedTransaction struct {
	Wallet           string  `json:"wallet"`
	TxHash           string  `json:"tx_hash,omitempty"`
	Timestamp        int64   `json:"timestamp"`
	Action           string  `json:"action"`
	AssetSymbol      string  `json:"asset_symbol"`
	Amount           float64 `json:"amount"`
	AssetPriceUSD    float64 `json:"asset_price_usd"`
	Decimals         uint8   `json:"decimals"`
	AdjustedAmount   float64 `json:"adjusted_amount"`
	AdjustedUSDValue float64 `json:"adjusted_usd_value"`
}
