package report

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/mchrh/protocol-interaction/config"
	"github.com/mchrh/protocol-interaction/internal/entity"
)

func TestFormatUnits(t *testing.T) {
	tests := []struct {
		name     string
		amount   int64
		decimals uint8
		want     string
	}{
		{name: "usdc six decimals", amount: 1_234_567, decimals: 6, want: "1.234567"},
		{name: "whole units", amount: 42_000_000, decimals: 6, want: "42.000000"},
		{name: "zero", amount: 0, decimals: 6, want: "0.000000"},
		{name: "sub unit", amount: 9_751, decimals: 6, want: "0.009751"},
		{name: "eighteen decimals truncated for display", amount: 1_500_000_000_000_000_000, decimals: 18, want: "1.500000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUnits(big.NewInt(tt.amount), tt.decimals))
		})
	}
}

func TestPrinterReports(t *testing.T) {
	cfg := config.Config{RPCURL: "http://127.0.0.1:8545", SlippageBufferBps: 99}
	pool := common.HexToAddress("0x4DEcE678ceceb27446b35C672dC7d61F30bAD69E")
	holder := common.HexToAddress("0x7a16fF8270133F063aAb6C9977183D9e72835428")

	before := entity.BalanceSnapshot{
		ShareBalance:  big.NewInt(1_000_000_000_000_000_000),
		AssetBalance:  big.NewInt(500_000),
		ShareDecimals: 18,
		AssetDecimals: 6,
		AssetSymbol:   "USDC",
	}
	plan := entity.WithdrawalPlan{
		BurnAmount:     big.NewInt(10_000_000_000_000_000),
		AssetIndex:     0,
		ExpectedOutput: big.NewInt(9_850),
		MinReceived:    big.NewInt(9_751),
	}

	t.Run("dry run", func(t *testing.T) {
		var buf bytes.Buffer
		New(&buf).DryRun(cfg, pool, holder, before, plan)

		out := buf.String()
		assert.Contains(t, out, "Dry Run")
		assert.Contains(t, out, holder.Hex())
		assert.Contains(t, out, "Burn amount: 0.010000 LP (raw: 10000000000000000)")
		assert.Contains(t, out, "USDC index in pool: 0")
		assert.Contains(t, out, "slippage buffer 99%")
		assert.Contains(t, out, "(raw: 9751)")
	})

	t.Run("result", func(t *testing.T) {
		after := entity.BalanceSnapshot{
			ShareBalance:  big.NewInt(990_000_000_000_000_000),
			AssetBalance:  big.NewInt(509_850),
			ShareDecimals: 18,
			AssetDecimals: 6,
			AssetSymbol:   "USDC",
		}
		txHash := common.HexToHash("0xabcdef0000000000000000000000000000000000000000000000000000000001")

		var buf bytes.Buffer
		New(&buf).Result(cfg, pool, holder, before, after, plan, txHash)

		out := buf.String()
		assert.Contains(t, out, "Status: SUCCESS")
		assert.Contains(t, out, txHash.Hex())
		assert.Contains(t, out, "USDC received:       0.009850 USDC (raw: 9850)")
		assert.Contains(t, out, "LP burned:         0.010000 LP (raw: 10000000000000000)")
	})
}
