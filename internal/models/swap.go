package models

import "time"

// Swap is one executed (or refunded) router swap. Amounts are wei-scale
// decimal strings: USDC base units on the USDC side, wei on the ETH side.
type Swap struct {
	ID           int64     `json:"id"`
	Timestamp    time.Time `json:"timestamp"`
	TradingDay   string    `json:"tradingDay"`
	Direction    string    `json:"direction"` // "eth_to_usdc" or "usdc_to_eth"
	Status       string    `json:"status"`    // "executed" or "refunded"
	Caller       string    `json:"caller"`
	Recipient    string    `json:"recipient"`
	Pair         string    `json:"pair"`
	AmountIn     string    `json:"amountIn"`
	AmountOut    *string   `json:"amountOut,omitempty"` // nil when refunded
	AmountOutMin string    `json:"amountOutMin"`
	IsSimulated  bool      `json:"isSimulated"`
	CreatedAt    time.Time `json:"createdAt"`
}

type SwapStats struct {
	TotalSwaps     int64      `json:"totalSwaps"`
	EthToUsdcCount int64      `json:"ethToUsdcCount"`
	UsdcToEthCount int64      `json:"usdcToEthCount"`
	RefundedCount  int64      `json:"refundedCount"`
	FirstSwap      *time.Time `json:"firstSwap"`
	LastSwap       *time.Time `json:"lastSwap"`
}
