package model

// WalletFeatures is the behavioral feature vector of one wallet.
type WalletFeatures struct {
	TotalTransactions     int     `json:"total_transactions"`
	UniqueAssets          int     `json:"unique_assets"`
	TotalUSDVolume        float64 `json:"total_usd_volume"`
	AvgTransactionSize    float64 `json:"avg_transaction_size"`
	MedianTransactionSize float64 `json:"median_transaction_size"`
	DepositRatio          float64 `json:"deposit_ratio"`
	BorrowRatio           float64 `json:"borrow_ratio"`
	RepayRatio            float64 `json:"repay_ratio"`
	RedeemRatio           float64 `json:"redeem_ratio"`
	LiquidationRatio      float64 `json:"liquidation_ratio"`
	ActivityDurationDays  float64 `json:"activity_duration_days"`
	TransactionFrequency  float64 `json:"transaction_frequency"`
	ConsistentUsage       float64 `json:"consistent_usage"`
	RiskIndicators        float64 `json:"risk_indicators"`
	DiversificationScore  float64 `json:"diversification_score"`
	LeverageIndicator     float64 `json:"leverage_indicator"`
	RepaymentBehavior     float64 `json:"repayment_behavior"`
}
