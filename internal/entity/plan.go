package entity

import "math/big"

// WithdrawalPlan is the fully sized single-sided withdrawal, derived
// deterministically from a BalanceSnapshot and the burn basis points.
// It is never mutated after construction.
type WithdrawalPlan struct {
	// BurnAmount is the raw amount of pool-share units to destroy.
	BurnAmount *big.Int
	// AssetIndex is the position of the target asset in the pool's
	// coin list.
	AssetIndex int64
	// ExpectedOutput is the pool's own estimate of the raw asset
	// output for BurnAmount.
	ExpectedOutput *big.Int
	// MinReceived is ExpectedOutput reduced by the slippage buffer;
	// the pool reverts the whole withdrawal if it cannot meet it.
	MinReceived *big.Int
}
