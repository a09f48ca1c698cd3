// Command withdraw performs a scripted single-sided USDC withdrawal from
// the Curve USDC/crvUSD pool on a local mainnet fork (e.g. Anvil). It
// impersonates an LP holder, burns a configurable share of their LP
// tokens via remove_liquidity_one_coin, and reports before/after
// balances. All interactions are against forked contracts; impersonation
// only works there, never on mainnet directly.
//
// Usage:
//
//	withdraw --impersonated-address 0x... [--burn-bps 100] [--dry-run]
//	withdraw --config config.yaml
//
// Flags fall back to the RPC_URL, IMPERSONATED_ADDRESS and BURN_BPS
// environment variables when omitted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/mchrh/protocol-interaction/config"
	"github.com/mchrh/protocol-interaction/internal/clients"
	"github.com/mchrh/protocol-interaction/internal/contracts"
	"github.com/mchrh/protocol-interaction/internal/entity"
	"github.com/mchrh/protocol-interaction/internal/services/report"
	"github.com/mchrh/protocol-interaction/internal/services/withdrawer"
	"github.com/mchrh/protocol-interaction/internal/setup"
)

const (
	exitFailure  = 1
	exitUsage    = 2
	exitInternal = 3
)

func main() {
	cfg, err := config.Resolve(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if err := run(context.Background(), cfg, logger); err != nil {
		code := exitCode(err)
		if code == exitInternal {
			fmt.Fprintln(os.Stderr, "unexpected error occurred")
			fmt.Fprintf(os.Stderr, "%+v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(code)
	}
}

// exitCode maps a failure to the process exit code: usage errors and
// unexpected internal errors get their own codes, every explicit
// connectivity/state/transaction failure shares the generic one.
func exitCode(err error) int {
	switch entity.KindOf(err) {
	case entity.KindUsage:
		return exitUsage
	case entity.KindInternal:
		return exitInternal
	default:
		return exitFailure
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	client, err := clients.Dial(ctx, cfg.RPCURL, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	holder, err := clients.Checksum(cfg.ImpersonatedAddress)
	if err != nil {
		return err
	}
	poolAddr, err := clients.Checksum(cfg.PoolAddress)
	if err != nil {
		return err
	}
	assetAddr, err := clients.Checksum(cfg.AssetAddress)
	if err != nil {
		return err
	}

	accounts, err := client.Accounts(ctx)
	if err != nil {
		return err
	}
	if len(accounts) == 0 {
		return entity.Statef("no local accounts found, ensure your fork tool exposes funded accounts")
	}

	if err := client.ImpersonateAndFund(ctx, holder, accounts[0], clients.DefaultFundWei); err != nil {
		return err
	}

	pool := contracts.NewPool(poolAddr, client)
	token := contracts.NewERC20(assetAddr, client)
	w := withdrawer.New(pool, token, client, cfg, logger)
	printer := report.New(os.Stdout)

	assetIndex, err := w.ResolveAssetIndex(ctx, assetAddr)
	if err != nil {
		return err
	}

	before, err := w.ReadBalances(ctx, holder)
	if err != nil {
		return err
	}

	plan, err := w.BuildPlan(ctx, before, assetIndex)
	if err != nil {
		return err
	}

	if cfg.DryRun {
		printer.DryRun(cfg, poolAddr, holder, before, plan)
		return nil
	}

	if cfg.Confirm {
		approved, err := setup.ConfirmWithdrawal(
			report.FormatUnits(plan.BurnAmount, before.ShareDecimals),
			report.FormatUnits(plan.MinReceived, before.AssetDecimals),
			before.AssetSymbol,
		)
		if err != nil {
			return err
		}
		if !approved {
			logger.Info("withdrawal aborted by operator")
			return nil
		}
	}

	txHash, _, err := w.Execute(ctx, holder, plan, holder)
	if err != nil {
		return err
	}

	after, err := w.ReadBalances(ctx, holder)
	if err != nil {
		return err
	}

	printer.Result(cfg, poolAddr, holder, before, after, plan, txHash)
	return nil
}
