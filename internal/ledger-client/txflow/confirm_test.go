package txflow

import (
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReceipts answers receipt lookups from a script, repeating the last entry.
type scriptedReceipts struct {
	mu     sync.Mutex
	script []receiptStep
	calls  int
}

type receiptStep struct {
	receipt *types.Receipt
	err     error
}

func (s *scriptedReceipts) TransactionReceipt(context.Context, common.Hash) (*types.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	step := s.script[min(s.calls, len(s.script)-1)]
	s.calls++
	return step.receipt, step.err
}

type movingHead struct {
	mu    sync.Mutex
	block uint64
}

func (m *movingHead) LatestBlock() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.block++
	return m.block
}

func okReceipt(block int64) *types.Receipt {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(block)}
}

func TestWatcherWaitsThroughPending(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{
		{err: ethereum.NotFound},
		{err: ethereum.NotFound},
		{receipt: okReceipt(10)},
	}}
	w := NewReceiptWatcher(src, nil, WatcherConfig{PollInterval: time.Millisecond})

	require.NoError(t, w.WaitForConfirmation(context.Background(), txHash))
	assert.Equal(t, 3, src.calls)
}

func TestWatcherReverted(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{
		{receipt: &types.Receipt{Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(3)}},
	}}
	w := NewReceiptWatcher(src, nil, WatcherConfig{PollInterval: time.Millisecond})

	err := w.WaitForConfirmation(context.Background(), txHash)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestWatcherLookupFailures(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{
		{err: errors.New("rpc 502")},
		{err: ethereum.NotFound},
		{err: errors.New("rpc 502")},
		{err: errors.New("rpc 502")},
		{err: errors.New("rpc 502")},
	}}
	w := NewReceiptWatcher(src, nil, WatcherConfig{PollInterval: time.Millisecond})

	err := w.WaitForConfirmation(context.Background(), txHash)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, 5, src.calls)
}

func TestWatcherTimeout(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{{err: ethereum.NotFound}}}
	w := NewReceiptWatcher(src, nil, WatcherConfig{PollInterval: time.Millisecond, Timeout: 20 * time.Millisecond})

	err := w.WaitForConfirmation(context.Background(), txHash)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.Equal(t, "timeout", ReasonCode(err))
}

func TestWatcherWithoutTimeoutEndsWithContext(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{{err: ethereum.NotFound}}}
	w := NewReceiptWatcher(src, nil, WatcherConfig{PollInterval: time.Millisecond})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := w.WaitForConfirmation(ctx, txHash)
	assert.False(t, errors.Is(err, ErrTimeout))
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestWatcherWaitsForConfirmationDepth(t *testing.T) {
	src := &scriptedReceipts{script: []receiptStep{{receipt: okReceipt(5)}}}
	head := &movingHead{block: 0}
	w := NewReceiptWatcher(src, head, WatcherConfig{PollInterval: time.Millisecond, Confirmations: 3})

	require.NoError(t, w.WaitForConfirmation(context.Background(), txHash))
	assert.GreaterOrEqual(t, head.block, uint64(7))
}

func TestResolveReferrer(t *testing.T) {
	fallback := common.HexToAddress("0x00000000000000000000000000000000000000ff")
	good := "0x52908400098527886E0F7030069857D2E4169EE7"

	assert.Equal(t, common.HexToAddress(good), ResolveReferrer(good, fallback))
	assert.Equal(t, common.HexToAddress(good), ResolveReferrer("  "+good+" ", fallback))
	assert.Equal(t, fallback, ResolveReferrer("", fallback))
	assert.Equal(t, fallback, ResolveReferrer("not-an-address", fallback))
	assert.Equal(t, fallback, ResolveReferrer("0X52908400098527886E0F7030069857D2E4169EE7", fallback))
	assert.Equal(t, fallback, ResolveReferrer("52908400098527886E0F7030069857D2E4169EE7", fallback))
}

func TestReasonCodeFoldsUnknownErrors(t *testing.T) {
	assert.Equal(t, "", ReasonCode(nil))
	assert.Equal(t, "wrong_network", ReasonCode(errors.Wrap(ErrWrongNetwork, "chain 1")))
	assert.Equal(t, "transport_error", ReasonCode(errors.New("socket closed")))

	folded := asReason(errors.New("socket closed"))
	assert.True(t, errors.Is(folded, ErrTransport))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Withdraw_ROI ")
	require.NoError(t, err)
	assert.Equal(t, KindWithdrawROI, k)

	_, err = ParseKind("deposit")
	assert.Error(t, err)
}

func TestFeedKeepsNewestFirstWithinLimit(t *testing.T) {
	f := NewFeed(2)
	f.Notify(Notification{Message: "one"})
	f.Notify(Notification{Message: "two"})
	f.Notify(Notification{Message: "three"})

	items := f.List()
	require.Len(t, items, 2)
	assert.Equal(t, "three", items[0].Message)
	assert.Equal(t, "two", items[1].Message)
	assert.NotEqual(t, uuid.Nil, items[0].ID)
	assert.False(t, items[0].CreatedAt.IsZero())
}
