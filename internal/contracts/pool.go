package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// nodeClient is the slice of the fork client the bindings need.
type nodeClient interface {
	CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error)
	SendTransaction(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (common.Hash, error)
}

// Pool binds the Curve pool contract, which doubles as its own LP token.
type Pool struct {
	addr   common.Address
	client nodeClient
}

func NewPool(addr common.Address, client nodeClient) *Pool {
	return &Pool{addr: addr, client: client}
}

// Address returns the bound pool contract address.
func (p *Pool) Address() common.Address { return p.addr }

// BalanceOf returns the holder's raw LP-token balance.
func (p *Pool) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	out, err := p.call(ctx, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return unpackBig(poolABI, "balanceOf", out)
}

// TotalSupply returns the raw LP-token total supply.
func (p *Pool) TotalSupply(ctx context.Context) (*big.Int, error) {
	out, err := p.call(ctx, "totalSupply")
	if err != nil {
		return nil, err
	}
	return unpackBig(poolABI, "totalSupply", out)
}

// Decimals returns the LP token's decimal precision.
func (p *Pool) Decimals(ctx context.Context) (uint8, error) {
	out, err := p.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return unpackUint8(poolABI, "decimals", out)
}

// Coins returns the coin address at position i of the pool's coin list.
// Past the end of the list the contract reverts, which callers use as the
// end-of-list signal.
func (p *Pool) Coins(ctx context.Context, i uint64) (common.Address, error) {
	out, err := p.call(ctx, "coins", new(big.Int).SetUint64(i))
	if err != nil {
		return common.Address{}, err
	}
	values, err := poolABI.Unpack("coins", out)
	if err != nil || len(values) != 1 {
		return common.Address{}, errors.Wrap(err, "failed to decode coins() output")
	}
	addr, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, errors.Errorf("unexpected coins() output type %T", values[0])
	}
	return addr, nil
}

// CalcWithdrawOneCoin asks the pool to estimate the raw output of burning
// burnAmount LP units for the single coin at index i. Read-only.
func (p *Pool) CalcWithdrawOneCoin(ctx context.Context, burnAmount *big.Int, i int64) (*big.Int, error) {
	out, err := p.call(ctx, "calc_withdraw_one_coin", burnAmount, big.NewInt(i))
	if err != nil {
		return nil, err
	}
	return unpackBig(poolABI, "calc_withdraw_one_coin", out)
}

// RemoveLiquidityOneCoin burns burnAmount LP units and sends the coin at
// index i to receiver, reverting atomically if the output would fall
// below minReceived. The transaction is signed by the node as from.
func (p *Pool) RemoveLiquidityOneCoin(ctx context.Context, from common.Address, burnAmount *big.Int, i int64, minReceived *big.Int, receiver common.Address) (common.Hash, error) {
	data, err := poolABI.Pack("remove_liquidity_one_coin", burnAmount, big.NewInt(i), minReceived, receiver)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "failed to encode remove_liquidity_one_coin")
	}
	return p.client.SendTransaction(ctx, from, p.addr, nil, data)
}

func (p *Pool) call(ctx context.Context, method string, args ...any) ([]byte, error) {
	data, err := poolABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", method)
	}
	return p.client.CallContract(ctx, p.addr, data)
}
