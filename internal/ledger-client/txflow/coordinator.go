package txflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
)

// Wallet is the external signing and transport capability.
type Wallet interface {
	Account() (common.Address, bool)
	ChainID(ctx context.Context) (uint64, error)
	NativeBalance(ctx context.Context, account common.Address) (decimal.Decimal, error)
	Submit(ctx context.Context, call ledger.Call) (common.Hash, error)
}

type SnapshotSource interface {
	Snapshot() snapshot.Snapshot
}

type Confirmer interface {
	WaitForConfirmation(ctx context.Context, hash common.Hash) error
}

// Refresher re-reads the global and the account snapshot.
type Refresher interface {
	RefreshAfterConfirmation(ctx context.Context)
}

type OutcomeObserver interface {
	ObserveOutcome(kind Kind, state State, reason error)
}

type Config struct {
	ChainID         uint64
	NativeSymbol    string
	MinDeposit      decimal.Decimal
	DefaultReferrer common.Address
	ExplorerTxURL   string
}

type Deps struct {
	Wallet    Wallet
	Snapshots SnapshotSource
	Confirmer Confirmer
	Refresher Refresher
	Notifier  Notifier
	Observer  OutcomeObserver
}

// Coordinator drives one action kind from validation to confirmation.
type Coordinator struct {
	kind Kind
	cfg  Config
	deps Deps
	now  func() time.Time

	mu     sync.Mutex
	record Record
}

func NewCoordinator(kind Kind, cfg Config, deps Deps) *Coordinator {
	now := func() time.Time { return time.Now().UTC() }
	return &Coordinator{
		kind:   kind,
		cfg:    cfg,
		deps:   deps,
		now:    now,
		record: Record{Kind: kind, State: StateIdle},
	}
}

func (c *Coordinator) Kind() Kind {
	return c.kind
}

func (c *Coordinator) Record() Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.record
}

func (c *Coordinator) Busy() bool {
	return c.Record().Busy()
}

// Begin starts a new attempt. It resets a terminal record to Idle and moves it
// to Validating, or returns ErrBusy while the previous attempt is in flight.
func (c *Coordinator) Begin() (Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.record.Busy() {
		return c.record, ErrBusy
	}

	now := c.now()
	c.record = Record{Kind: c.kind, State: StateIdle, StartedAt: now, UpdatedAt: now}
	c.advanceLocked(StateValidating)
	return c.record, nil
}

// Submit runs a whole attempt and returns the terminal record. Every failure
// ends in StateFailed with exactly one notification; only ErrBusy is returned.
func (c *Coordinator) Submit(ctx context.Context, req Request) (Record, error) {
	if _, err := c.Begin(); err != nil {
		return c.Record(), err
	}
	c.Run(ctx, req)
	return c.Record(), nil
}

// Run continues an attempt started with Begin.
func (c *Coordinator) Run(ctx context.Context, req Request) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("transaction attempt panicked", "kind", string(c.kind), "panic", fmt.Sprint(r))
			c.fail(errors.Mark(errors.Newf("panic: %v", r), ErrTransport))
		}
	}()

	call, err := c.validate(ctx, req)
	if err != nil {
		c.fail(err)
		return
	}

	if !c.advance(StateAwaitingSignature) {
		return
	}

	hash, err := c.deps.Wallet.Submit(ctx, call)
	if err != nil {
		c.fail(errors.Mark(errors.Wrap(err, "wallet submit"), ErrTransport))
		return
	}

	c.mu.Lock()
	c.record.Hash = hash
	submitted := c.advanceLocked(StateSubmitted)
	c.mu.Unlock()
	if !submitted {
		return
	}

	log.Info("transaction submitted", "kind", string(c.kind), "hash", hash.Hex())

	err = c.deps.Confirmer.WaitForConfirmation(ctx, hash)
	c.ObserveConfirmation(context.WithoutCancel(ctx), hash, err)
}

// ObserveConfirmation records the outcome of hash. Only the first observation
// that moves the current attempt to a terminal state has effects; repeated or
// foreign observations are ignored.
func (c *Coordinator) ObserveConfirmation(ctx context.Context, hash common.Hash, confirmErr error) {
	if confirmErr != nil {
		c.mu.Lock()
		current := c.record.Hash == hash && c.record.State == StateSubmitted
		c.mu.Unlock()
		if current {
			c.fail(asReason(confirmErr))
		}
		return
	}

	c.mu.Lock()
	if c.record.Hash != hash || !c.advanceLocked(StateConfirmed) {
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	log.Info("transaction confirmed", "kind", string(c.kind), "hash", hash.Hex())
	c.observe(StateConfirmed, nil)

	if c.deps.Refresher != nil {
		c.deps.Refresher.RefreshAfterConfirmation(ctx)
	}

	c.notifyOnce(hash, Notification{
		Kind:    c.kind,
		Level:   LevelSuccess,
		Message: successMessage(c.kind),
		Link:    c.cfg.ExplorerTxURL + hash.Hex(),
		Hash:    hash,
	})
}

func (c *Coordinator) fail(reason error) {
	c.mu.Lock()
	if !c.advanceLocked(StateFailed) {
		c.mu.Unlock()
		return
	}
	hash := c.record.Hash
	c.record.Reason = reason
	c.record.ReasonCode = ReasonCode(reason)
	c.mu.Unlock()

	log.Warn("transaction failed",
		"kind", string(c.kind),
		"reason", ReasonCode(reason),
		"hash", hash.Hex(),
		"error", reason,
	)
	c.observe(StateFailed, reason)

	level := LevelError
	if errors.Is(reason, ErrWalletNotConnected) {
		level = LevelConnectWallet
	}
	c.notifyOnce(hash, Notification{
		Kind:    c.kind,
		Level:   level,
		Message: c.failureMessage(reason),
		Hash:    hash,
	})
}

// notifyOnce emits n unless the attempt identified by hash was already notified.
func (c *Coordinator) notifyOnce(hash common.Hash, n Notification) {
	c.mu.Lock()
	if c.record.Hash != hash || c.record.Notified {
		c.mu.Unlock()
		return
	}
	c.record.Notified = true
	c.mu.Unlock()

	if c.deps.Notifier != nil {
		c.deps.Notifier.Notify(n)
	}
}

func (c *Coordinator) advance(to State) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceLocked(to)
}

// advanceLocked moves the record forward; terminal states are final.
func (c *Coordinator) advanceLocked(to State) bool {
	from := c.record.State
	if from.Terminal() || to.rank() <= from.rank() {
		return false
	}
	c.record.State = to
	c.record.UpdatedAt = c.now()
	return true
}

func (c *Coordinator) observe(state State, reason error) {
	if c.deps.Observer != nil {
		c.deps.Observer.ObserveOutcome(c.kind, state, reason)
	}
}

func successMessage(kind Kind) string {
	if kind == KindInvest {
		return "Investment successful"
	}
	return "Withdrawal successful"
}

func (c *Coordinator) failureMessage(reason error) string {
	switch {
	case errors.Is(reason, ErrWalletNotConnected):
		return "Please connect your wallet."
	case errors.Is(reason, ErrWrongNetwork):
		return "Wrong network active."
	case errors.Is(reason, ErrBelowMinimum):
		return fmt.Sprintf("Min %s %s", c.cfg.MinDeposit.String(), c.cfg.NativeSymbol)
	case errors.Is(reason, ErrInsufficientBalance):
		return "Insufficient balance"
	case errors.Is(reason, ErrNothingToWithdraw):
		return "No funds available for withdrawal."
	case errors.Is(reason, ErrContractBalanceLow):
		return "Contract balance is low"
	case errors.Is(reason, ErrUnknownPlan):
		return "Unknown investment plan"
	case errors.Is(reason, ErrTimeout):
		return "Transaction not confirmed in time"
	default:
		if c.kind == KindInvest {
			return "Investment failed"
		}
		return "Withdrawal failed"
	}
}
