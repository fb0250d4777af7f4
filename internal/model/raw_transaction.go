package model

import "encoding/json"

// RawTransaction is one lending-protocol transaction as supplied by the loader.
type RawTransaction struct {
	UserWallet string     `json:"userWallet"`
	Network    string     `json:"network,omitempty"`
	Protocol   string     `json:"protocol,omitempty"`
	TxHash     string     `json:"txHash,omitempty"`
	Timestamp  int64      `json:"timestamp"`
	Action     string     `json:"action"`
	ActionData ActionData `json:"actionData"`
}

// ActionData keeps the monetary payload undecoded. Values arrive as strings,
// numbers, null, or not at all, and decoding must never fail on them.
type ActionData struct {
	Amount        json.RawMessage `json:"amount,omitempty"`
	AssetSymbol   json.RawMessage `json:"assetSymbol,omitempty"`
	AssetPriceUSD json.RawMessage `json:"assetPriceUSD,omitempty"`
}
