package clients

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/mchrh/protocol-interaction/internal/entity"
)

// DefaultFundWei is the native-currency top-up sent to the impersonated
// account so it can pay gas: 0.1 ETH.
var DefaultFundWei = big.NewInt(1e17)

const receiptPollInterval = 500 * time.Millisecond

// ForkClient talks to a local mainnet fork (e.g. Anvil). Besides standard
// read/call/transact RPC it relies on the fork-only impersonation call;
// pointing it at a real network is unsafe and will fail there anyway.
type ForkClient struct {
	rpc    *rpc.Client
	eth    *ethclient.Client
	url    string
	logger *zap.Logger
}

// Dial connects to the fork node and probes it for liveness. An
// unreachable or unresponsive endpoint is a connectivity failure; there
// are no retries.
func Dial(ctx context.Context, url string, logger *zap.Logger) (*ForkClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, entity.Connectivity(errors.Wrapf(err, "failed to connect to RPC at %s", url))
	}
	client := &ForkClient{
		rpc:    rpcClient,
		eth:    ethclient.NewClient(rpcClient),
		url:    url,
		logger: logger,
	}
	chainID, err := client.eth.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return nil, entity.Connectivity(errors.Wrapf(err, "failed to connect to RPC at %s, is your local fork running", url))
	}
	logger.Info("connected to fork node",
		zap.String("url", url),
		zap.String("chain_id", chainID.String()))
	return client, nil
}

// Close releases the underlying RPC connection.
func (c *ForkClient) Close() {
	c.rpc.Close()
}

// Checksum validates a free-form address string and canonicalizes it into
// its EIP-55 checksummed form. Malformed input is a usage failure echoing
// the offending string.
func Checksum(raw string) (common.Address, error) {
	if !common.IsHexAddress(raw) {
		return common.Address{}, entity.Usagef("invalid ethereum address provided: %s", raw)
	}
	return common.HexToAddress(raw), nil
}

// Accounts returns the node's pre-funded unlocked accounts.
func (c *ForkClient) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, entity.RPC(errors.Wrap(err, "failed to list node accounts"))
	}
	return accounts, nil
}

// ImpersonateAndFund asks the node to authorize transactions from holder
// and tops the account up with fundWei native currency from funder so it
// can pay gas. Both steps mutate fork state; either failing aborts the
// run.
func (c *ForkClient) ImpersonateAndFund(ctx context.Context, holder, funder common.Address, fundWei *big.Int) error {
	if err := c.rpc.CallContext(ctx, nil, "anvil_impersonateAccount", holder); err != nil {
		return entity.RPC(errors.Wrapf(err, "rpc error impersonating %s", holder.Hex()))
	}
	if _, err := c.SendTransaction(ctx, funder, holder, fundWei, nil); err != nil {
		return errors.Wrap(err, "failed to fund impersonated account")
	}
	c.logger.Info("impersonation successful",
		zap.String("holder", holder.Hex()),
		zap.String("funder", funder.Hex()),
		zap.String("fund_wei", fundWei.String()))
	return nil
}

// CallContract performs a read-only eth_call against to with the given
// calldata at the latest block.
func (c *ForkClient) CallContract(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SendTransaction submits a node-signed transaction via
// eth_sendTransaction. Signing works only for unlocked or impersonated
// senders, which is the whole point of running against a fork.
func (c *ForkClient) SendTransaction(ctx context.Context, from, to common.Address, value *big.Int, data []byte) (common.Hash, error) {
	msg := map[string]any{
		"from": from,
		"to":   to,
	}
	if value != nil {
		msg["value"] = (*hexutil.Big)(value)
	}
	if len(data) > 0 {
		msg["data"] = hexutil.Bytes(data)
	}
	var txHash common.Hash
	if err := c.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", msg); err != nil {
		return common.Hash{}, entity.RPC(errors.Wrapf(err, "eth_sendTransaction from %s to %s failed", from.Hex(), to.Hex()))
	}
	return txHash, nil
}

// WaitMined blocks until the transaction is mined or ctx expires. The
// caller bounds the wait with a deadline; hitting it is a single fatal
// timeout, the transaction is never resubmitted.
func (c *ForkClient) WaitMined(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(receiptPollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.eth.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, entity.RPC(errors.Wrapf(err, "failed to fetch receipt for %s", txHash.Hex()))
		}
		select {
		case <-ctx.Done():
			return nil, entity.Transaction(errors.Wrapf(ctx.Err(), "timed out waiting for transaction %s", txHash.Hex()))
		case <-ticker.C:
		}
	}
}
