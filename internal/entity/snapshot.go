package entity

import "math/big"

// BalanceSnapshot captures a holder's LP and target-asset balances plus
// the decimal metadata needed to render them. All amounts are raw
// smallest-unit values; nothing here is scaled for display. A snapshot is
// immutable once taken, two of them are diffed to produce observed deltas.
type BalanceSnapshot struct {
	ShareBalance  *big.Int
	AssetBalance  *big.Int
	ShareDecimals uint8
	AssetDecimals uint8
	AssetSymbol   string
}

// ShareDelta returns how much of the pool-share balance was burned
// between this snapshot and a later one.
func (s BalanceSnapshot) ShareDelta(after BalanceSnapshot) *big.Int {
	return new(big.Int).Sub(s.ShareBalance, after.ShareBalance)
}

// AssetDelta returns how much of the target asset was received between
// this snapshot and a later one.
func (s BalanceSnapshot) AssetDelta(after BalanceSnapshot) *big.Int {
	return new(big.Int).Sub(after.AssetBalance, s.AssetBalance)
}
