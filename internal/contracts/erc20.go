package contracts

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

// ERC20 binds the fungible-token contract for the withdrawal's target
// asset. Read-only surface.
type ERC20 struct {
	addr   common.Address
	client nodeClient
}

func NewERC20(addr common.Address, client nodeClient) *ERC20 {
	return &ERC20{addr: addr, client: client}
}

// Address returns the bound token contract address.
func (t *ERC20) Address() common.Address { return t.addr }

// BalanceOf returns the holder's raw token balance.
func (t *ERC20) BalanceOf(ctx context.Context, holder common.Address) (*big.Int, error) {
	out, err := t.call(ctx, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	return unpackBig(erc20ABI, "balanceOf", out)
}

// Decimals returns the token's decimal precision.
func (t *ERC20) Decimals(ctx context.Context) (uint8, error) {
	out, err := t.call(ctx, "decimals")
	if err != nil {
		return 0, err
	}
	return unpackUint8(erc20ABI, "decimals", out)
}

// Symbol returns the token's display symbol.
func (t *ERC20) Symbol(ctx context.Context) (string, error) {
	out, err := t.call(ctx, "symbol")
	if err != nil {
		return "", err
	}
	values, err := erc20ABI.Unpack("symbol", out)
	if err != nil || len(values) != 1 {
		return "", errors.Wrap(err, "failed to decode symbol() output")
	}
	symbol, ok := values[0].(string)
	if !ok {
		return "", errors.Errorf("unexpected symbol() output type %T", values[0])
	}
	return symbol, nil
}

func (t *ERC20) call(ctx context.Context, method string, args ...any) ([]byte, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s", method)
	}
	return t.client.CallContract(ctx, t.addr, data)
}

func unpackBig(parsed abi.ABI, method string, out []byte) (*big.Int, error) {
	values, err := parsed.Unpack(method, out)
	if err != nil || len(values) != 1 {
		return nil, errors.Wrapf(err, "failed to decode %s() output", method)
	}
	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, errors.Errorf("unexpected %s() output type %T", method, values[0])
	}
	return value, nil
}

func unpackUint8(parsed abi.ABI, method string, out []byte) (uint8, error) {
	values, err := parsed.Unpack(method, out)
	if err != nil || len(values) != 1 {
		return 0, errors.Wrapf(err, "failed to decode %s() output", method)
	}
	value, ok := values[0].(uint8)
	if !ok {
		return 0, errors.Errorf("unexpected %s() output type %T", method, values[0])
	}
	return value, nil
}
