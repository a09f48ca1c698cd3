// Package withdrawer sizes and executes a single-sided LP withdrawal:
// resolve the target coin's index in the pool, snapshot balances, compute
// the burn amount and minimum acceptable output, then either report the
// projection or submit the withdrawal and wait for confirmation.
package withdrawer

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mchrh/protocol-interaction/config"
	"github.com/mchrh/protocol-interaction/internal/entity"
)

// maxBps is the basis-point denominator for burn sizing.
const maxBps = 10000

// slippageDivisor is the divisor applied to the slippage buffer. The
// buffer constant is named in basis points but divided by 100, so it
// behaves as a percentage; preserved as-is to match reference runs
// bit-for-bit (see DESIGN.md).
const slippageDivisor = 100

// PoolContract is the pool/LP-token surface the pipeline needs.
type PoolContract interface {
	BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error)
	Decimals(ctx context.Context) (uint8, error)
	Coins(ctx context.Context, i uint64) (common.Address, error)
	CalcWithdrawOneCoin(ctx context.Context, burnAmount *big.Int, i int64) (*big.Int, error)
	RemoveLiquidityOneCoin(ctx context.Context, from common.Address, burnAmount *big.Int, i int64, minReceived *big.Int, receiver common.Address) (common.Hash, error)
}

// TokenContract is the target-asset surface the pipeline needs.
type TokenContract interface {
	BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error)
	Decimals(ctx context.Context) (uint8, error)
	Symbol(ctx context.Context) (string, error)
}

// receiptWaiter blocks until a submitted transaction is mined.
type receiptWaiter interface {
	WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Withdrawer drives the withdrawal pipeline against one pool and one
// target asset.
type Withdrawer struct {
	pool   PoolContract
	token  TokenContract
	waiter receiptWaiter
	cfg    config.Config
	logger *zap.Logger
}

func New(pool PoolContract, token TokenContract, waiter receiptWaiter, cfg config.Config, logger *zap.Logger) *Withdrawer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Withdrawer{pool: pool, token: token, waiter: waiter, cfg: cfg, logger: logger}
}

// ResolveAssetIndex probes the pool's coin list for the target asset and
// returns its position. Probing stops at the first read failure (end of
// list) or at the configured bound; an absent match is a state error, not
// a transient condition.
func (w *Withdrawer) ResolveAssetIndex(ctx context.Context, target common.Address) (int64, error) {
	for i := uint64(0); i < w.cfg.MaxCoinsToProbe; i++ {
		coin, err := w.pool.Coins(ctx, i)
		if err != nil {
			// A reverted coins(i) read means the list ended before i.
			break
		}
		if coin == target {
			w.logger.Info("resolved target asset index",
				zap.String("asset", target.Hex()),
				zap.Uint64("index", i))
			return int64(i), nil
		}
	}
	return 0, entity.Statef("cannot find %s in pool coins()", target.Hex())
}

// ReadBalances combines five independent read-only queries into one
// snapshot. Any failing read fails the whole snapshot; no partial
// snapshot is ever returned.
func (w *Withdrawer) ReadBalances(ctx context.Context, holder common.Address) (entity.BalanceSnapshot, error) {
	shareBalance, err := w.pool.BalanceOf(ctx, holder)
	if err != nil {
		return entity.BalanceSnapshot{}, entity.RPC(errors.Wrap(err, "failed to read LP balance"))
	}
	assetBalance, err := w.token.BalanceOf(ctx, holder)
	if err != nil {
		return entity.BalanceSnapshot{}, entity.RPC(errors.Wrap(err, "failed to read asset balance"))
	}
	shareDecimals, err := w.pool.Decimals(ctx)
	if err != nil {
		return entity.BalanceSnapshot{}, entity.RPC(errors.Wrap(err, "failed to read LP decimals"))
	}
	assetDecimals, err := w.token.Decimals(ctx)
	if err != nil {
		return entity.BalanceSnapshot{}, entity.RPC(errors.Wrap(err, "failed to read asset decimals"))
	}
	assetSymbol, err := w.token.Symbol(ctx)
	if err != nil {
		return entity.BalanceSnapshot{}, entity.RPC(errors.Wrap(err, "failed to read asset symbol"))
	}
	return entity.BalanceSnapshot{
		ShareBalance:  shareBalance,
		AssetBalance:  assetBalance,
		ShareDecimals: shareDecimals,
		AssetDecimals: assetDecimals,
		AssetSymbol:   assetSymbol,
	}, nil
}

// ComputeBurnAmount returns floor(shareBalance * burnBps / maxBps) in
// integer arithmetic. A zero result is a state error: the position is too
// small for the requested basis points and submitting a no-op transaction
// would be meaningless.
func ComputeBurnAmount(shareBalance *big.Int, burnBps int64) (*big.Int, error) {
	burnAmount := new(big.Int).Mul(shareBalance, big.NewInt(burnBps))
	burnAmount.Quo(burnAmount, big.NewInt(maxBps))
	if burnAmount.Sign() == 0 {
		return nil, entity.Statef("computed burn amount is zero, LP position may be too small for burn-bps=%d", burnBps)
	}
	return burnAmount, nil
}

// ComputeMinReceived applies the slippage buffer to the pool's estimate:
// expectedOutput * slippageBufferBps / 100, multiply first then truncating
// divide, matching on-chain rounding.
func ComputeMinReceived(expectedOutput *big.Int, slippageBufferBps int64) *big.Int {
	minReceived := new(big.Int).Mul(expectedOutput, big.NewInt(slippageBufferBps))
	return minReceived.Quo(minReceived, big.NewInt(slippageDivisor))
}

// EstimateOutput asks the pool to simulate the withdrawal. A zero
// estimate is a hard stop: either a pathological burn size or pool
// imbalance, never retried.
func (w *Withdrawer) EstimateOutput(ctx context.Context, burnAmount *big.Int, assetIndex int64) (*big.Int, error) {
	expected, err := w.pool.CalcWithdrawOneCoin(ctx, burnAmount, assetIndex)
	if err != nil {
		return nil, entity.RPC(errors.Wrap(err, "calc_withdraw_one_coin call failed"))
	}
	if expected.Sign() == 0 {
		return nil, entity.Statef("calc_withdraw_one_coin suggests 0 output, burn amount may be too small or pool is imbalanced")
	}
	return expected, nil
}

// BuildPlan sizes the withdrawal from a balance snapshot. A zero LP
// balance aborts before any sizing is attempted.
func (w *Withdrawer) BuildPlan(ctx context.Context, snapshot entity.BalanceSnapshot, assetIndex int64) (entity.WithdrawalPlan, error) {
	if snapshot.ShareBalance.Sign() == 0 {
		return entity.WithdrawalPlan{}, entity.Statef("LP balance is zero, please select another LP holder")
	}
	burnAmount, err := ComputeBurnAmount(snapshot.ShareBalance, w.cfg.BurnBps)
	if err != nil {
		return entity.WithdrawalPlan{}, err
	}
	expected, err := w.EstimateOutput(ctx, burnAmount, assetIndex)
	if err != nil {
		return entity.WithdrawalPlan{}, err
	}
	plan := entity.WithdrawalPlan{
		BurnAmount:     burnAmount,
		AssetIndex:     assetIndex,
		ExpectedOutput: expected,
		MinReceived:    ComputeMinReceived(expected, w.cfg.SlippageBufferBps),
	}
	w.logger.Info("sized withdrawal",
		zap.String("burn_amount", plan.BurnAmount.String()),
		zap.Int64("asset_index", plan.AssetIndex),
		zap.String("expected_output", plan.ExpectedOutput.String()),
		zap.String("min_received", plan.MinReceived.String()))
	return plan, nil
}

// Execute submits the withdrawal as the impersonated holder and blocks
// until it is mined, bounded by the configured receipt timeout. A
// non-success status is fatal; the transaction is never resubmitted with
// adjusted parameters.
func (w *Withdrawer) Execute(ctx context.Context, from common.Address, plan entity.WithdrawalPlan, receiver common.Address) (common.Hash, *types.Receipt, error) {
	txHash, err := w.pool.RemoveLiquidityOneCoin(ctx, from, plan.BurnAmount, plan.AssetIndex, plan.MinReceived, receiver)
	if err != nil {
		return common.Hash{}, nil, errors.Wrap(err, "failed to submit remove_liquidity_one_coin")
	}
	w.logger.Info("withdrawal submitted", zap.String("tx_hash", txHash.Hex()))

	waitCtx, cancel := context.WithTimeout(ctx, w.cfg.ReceiptTimeout)
	defer cancel()
	receipt, err := w.waiter.WaitMined(waitCtx, txHash)
	if err != nil {
		return txHash, nil, err
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return txHash, receipt, entity.Transaction(errors.Errorf("transaction failed (status %d), hash: %s", receipt.Status, txHash.Hex()))
	}
	w.logger.Info("withdrawal mined",
		zap.String("tx_hash", txHash.Hex()),
		zap.Uint64("block", receipt.BlockNumber.Uint64()),
		zap.Uint64("gas_used", receipt.GasUsed))
	return txHash, receipt, nil
}
