package entity

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceSnapshotDeltas(t *testing.T) {
	before := BalanceSnapshot{
		ShareBalance: big.NewInt(1_000_000),
		AssetBalance: big.NewInt(500_000),
	}
	after := BalanceSnapshot{
		ShareBalance: big.NewInt(990_000),
		AssetBalance: big.NewInt(509_850),
	}

	assert.Equal(t, int64(10_000), before.ShareDelta(after).Int64())
	assert.Equal(t, int64(9_850), before.AssetDelta(after).Int64())

	// a dry run leaves both balances untouched
	assert.Zero(t, before.ShareDelta(before).Sign())
	assert.Zero(t, before.AssetDelta(before).Sign())
}
