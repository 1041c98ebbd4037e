package wallet

import (
	"context"
	"math/big"
	"sync"

	"github.com/cockroachdb/errors"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/shopspring/decimal"

	ledgerbinding "github.com/quantumauth-io/ledger-client/internal/ledger-client/contracts/bindings/go/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
)

var ErrNotConnected = errors.New("wallet not connected")

// Backend is the RPC surface the transport needs; *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Transport signs and broadcasts ledger calls for the connected session.
type Transport struct {
	// sendMu spans nonce lookup through broadcast so concurrent submits from
	// one account never reuse a pending nonce.
	sendMu   sync.Mutex
	backend  Backend
	session  *Session
	contract common.Address
	ledger   *ledgerbinding.LedgerTransactor
}

func NewTransport(backend Backend, session *Session, contract common.Address) (*Transport, error) {
	transactor, err := ledgerbinding.NewLedgerTransactor(contract, backend)
	if err != nil {
		return nil, errors.Wrap(err, "bind ledger transactor")
	}
	return &Transport{
		backend:  backend,
		session:  session,
		contract: contract,
		ledger:   transactor,
	}, nil
}

func (t *Transport) Account() (common.Address, bool) {
	return t.session.Account()
}

// ChainID is the network id the wallet is currently connected to.
func (t *Transport) ChainID(ctx context.Context) (uint64, error) {
	id, err := t.backend.ChainID(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "wallet chain id")
	}
	return id.Uint64(), nil
}

func (t *Transport) NativeBalance(ctx context.Context, account common.Address) (decimal.Decimal, error) {
	bal, err := t.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "balance of %s", account.Hex())
	}
	return ledger.FromWei(bal), nil
}

func (t *Transport) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return t.backend.TransactionReceipt(ctx, hash)
}

// Submit signs and broadcasts call and returns the transaction hash.
func (t *Transport) Submit(ctx context.Context, call ledger.Call) (common.Hash, error) {
	signer, ok := t.session.Signer()
	if !ok {
		return common.Hash{}, ErrNotConnected
	}

	chainID, err := t.backend.ChainID(ctx)
	if err != nil {
		return common.Hash{}, errors.Wrap(err, "wallet chain id")
	}

	t.sendMu.Lock()
	defer t.sendMu.Unlock()

	opts, err := t.transactor(ctx, signer, chainID)
	if err != nil {
		return common.Hash{}, err
	}
	opts.Value = call.Value
	opts.GasLimit = t.estimateGas(ctx, signer.Address(), call)

	var tx *types.Transaction
	switch call.Method {
	case ledger.MethodInvest:
		tx, err = t.ledger.Invest(opts, call.Referrer, call.Plan)
	case ledger.MethodWithdrawROI:
		tx, err = t.ledger.WithdrawROI(opts)
	case ledger.MethodWithdrawReferralBonus:
		tx, err = t.ledger.WithdrawReferralBonus(opts)
	case ledger.MethodWithdrawRewards:
		tx, err = t.ledger.WithdrawRewards(opts)
	default:
		return common.Hash{}, errors.Newf("unsupported ledger method %q", call.Method)
	}
	if err != nil {
		return common.Hash{}, errors.Wrapf(err, "send %s", call.Method)
	}

	log.Info("ledger transaction broadcast",
		"method", call.Method,
		"hash", tx.Hash().Hex(),
		"from", signer.Address().Hex(),
	)
	return tx.Hash(), nil
}

func (t *Transport) transactor(ctx context.Context, signer *Signer, chainID *big.Int) (*bind.TransactOpts, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(signer.key, chainID)
	if err != nil {
		return nil, err
	}

	nonce, err := t.backend.PendingNonceAt(ctx, signer.Address())
	if err != nil {
		return nil, errors.Wrap(err, "pending nonce")
	}
	opts.Nonce = new(big.Int).SetUint64(nonce)

	// Fees: 1559 preferred, else legacy
	tip, tipErr := t.backend.SuggestGasTipCap(ctx)
	hdr, hdrErr := t.backend.HeaderByNumber(ctx, nil)

	if tipErr == nil && hdrErr == nil && hdr.BaseFee != nil {
		feeCap := new(big.Int).Mul(hdr.BaseFee, big.NewInt(2))
		feeCap.Add(feeCap, tip)
		opts.GasTipCap = tip
		opts.GasFeeCap = feeCap
	} else {
		gp, err := t.backend.SuggestGasPrice(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "suggest gas price")
		}
		opts.GasPrice = gp
	}

	opts.Context = ctx
	return opts, nil
}

// estimateGas returns 0 when estimation fails, which lets the binding estimate on send.
func (t *Transport) estimateGas(ctx context.Context, from common.Address, call ledger.Call) uint64 {
	parsed, err := ledgerbinding.LedgerMetaData.GetAbi()
	if err != nil {
		return 0
	}

	var data []byte
	if call.Method == ledger.MethodInvest {
		data, err = parsed.Pack(call.Method, call.Referrer, call.Plan)
	} else {
		data, err = parsed.Pack(call.Method)
	}
	if err != nil {
		return 0
	}

	est, err := t.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  from,
		To:    &t.contract,
		Value: call.Value,
		Data:  data,
	})
	if err != nil {
		log.Warn("gas estimation failed", "method", call.Method, "error", err)
		return 0
	}
	return withGasHeadroom(est)
}

func withGasHeadroom(est uint64) uint64 {
	u := est + est/10 // +10%
	if u < 21_000 {
		u = 21_000
	}
	return u
}
