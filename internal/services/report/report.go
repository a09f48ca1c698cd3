// Package report renders the dry-run projection and the executed-run
// result. Presentation only: every figure is computed upstream and raw
// amounts are scaled for display here, never fed back into arithmetic.
package report

import (
	"fmt"
	"io"
	"math/big"

	"github.com/charmbracelet/lipgloss"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/mchrh/protocol-interaction/config"
	"github.com/mchrh/protocol-interaction/internal/entity"
)

var (
	dryRunHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("220")).
				Bold(true)

	resultHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("42")).
				Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

// Printer writes reports to a single destination.
type Printer struct {
	out io.Writer
}

func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

// FormatUnits renders a raw fixed-point amount as a human-readable value
// with six fractional digits.
func FormatUnits(amount *big.Int, decimals uint8) string {
	return decimal.NewFromBigInt(amount, -int32(decimals)).StringFixed(6)
}

// DryRun prints the projected outcome without any state having been
// mutated.
func (p *Printer) DryRun(cfg config.Config, pool, holder common.Address, balances entity.BalanceSnapshot, plan entity.WithdrawalPlan) {
	p.println(dryRunHeaderStyle.Render("=== Dry Run: Curve USDC/crvUSD Single-Sided Withdrawal ==="))
	p.printRunContext(cfg, pool, holder)
	p.println()
	p.printf("LP balance: %s LP (raw: %s)\n", FormatUnits(balances.ShareBalance, balances.ShareDecimals), balances.ShareBalance)
	p.printf("Burn amount: %s LP (raw: %s)\n", FormatUnits(plan.BurnAmount, balances.ShareDecimals), plan.BurnAmount)
	p.println()
	p.printf("%s balance: %s %s (raw: %s)\n", balances.AssetSymbol, FormatUnits(balances.AssetBalance, balances.AssetDecimals), balances.AssetSymbol, balances.AssetBalance)
	p.printf("%s index in pool: %d\n", balances.AssetSymbol, plan.AssetIndex)
	p.printf("%s decimals: %d\n", balances.AssetSymbol, balances.AssetDecimals)
	p.printf("Expected %s from calc_withdraw_one_coin: %s %s (raw: %s)\n",
		balances.AssetSymbol, FormatUnits(plan.ExpectedOutput, balances.AssetDecimals), balances.AssetSymbol, plan.ExpectedOutput)
	p.printf("Min received constraint (slippage buffer %d%%): %s %s (raw: %s)\n",
		cfg.SlippageBufferBps, FormatUnits(plan.MinReceived, balances.AssetDecimals), balances.AssetSymbol, plan.MinReceived)
}

// Result prints the executed withdrawal with before/after balances and
// observed deltas.
func (p *Printer) Result(cfg config.Config, pool, holder common.Address, before, after entity.BalanceSnapshot, plan entity.WithdrawalPlan, txHash common.Hash) {
	lpBurned := before.ShareDelta(after)
	assetReceived := before.AssetDelta(after)

	p.println(resultHeaderStyle.Render("=== Curve USDC/crvUSD Single-Sided Withdrawal ==="))
	p.printRunContext(cfg, pool, holder)
	p.println()
	p.printf("LP balance before: %s LP (raw: %s)\n", FormatUnits(before.ShareBalance, before.ShareDecimals), before.ShareBalance)
	p.printf("LP burned:         %s LP (raw: %s)\n", FormatUnits(lpBurned, before.ShareDecimals), lpBurned)
	p.printf("LP balance after:  %s LP (raw: %s)\n", FormatUnits(after.ShareBalance, after.ShareDecimals), after.ShareBalance)
	p.println()
	p.printf("%s balance before: %s %s (raw: %s)\n", before.AssetSymbol, FormatUnits(before.AssetBalance, before.AssetDecimals), before.AssetSymbol, before.AssetBalance)
	p.printf("%s balance after:  %s %s (raw: %s)\n", after.AssetSymbol, FormatUnits(after.AssetBalance, after.AssetDecimals), after.AssetSymbol, after.AssetBalance)
	p.printf("%s received:       %s %s (raw: %s)\n", after.AssetSymbol, FormatUnits(assetReceived, after.AssetDecimals), after.AssetSymbol, assetReceived)
	p.println()
	p.printf("Expected %s from calc_withdraw_one_coin: %s %s\n",
		before.AssetSymbol, FormatUnits(plan.ExpectedOutput, before.AssetDecimals), before.AssetSymbol)
	p.printf("Min received constraint (slippage buffer %d%%): %s %s\n",
		cfg.SlippageBufferBps, FormatUnits(plan.MinReceived, before.AssetDecimals), before.AssetSymbol)
	p.println()
	p.printf("Tx hash: %s\n", txHash.Hex())
	p.println(successStyle.Render("Status: SUCCESS"))
}

func (p *Printer) printRunContext(cfg config.Config, pool, holder common.Address) {
	p.printf("RPC URL: %s\n", cfg.RPCURL)
	p.printf("Pool: %s\n", pool.Hex())
	p.printf("Impersonated address: %s\n", holder.Hex())
}

func (p *Printer) println(args ...any) {
	fmt.Fprintln(p.out, args...)
}

func (p *Printer) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
