package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/wallet"
)

type Aggregator interface {
	FetchGlobalSnapshot(ctx context.Context) snapshot.GlobalFields
	FetchAccountSnapshot(ctx context.Context, account common.Address) snapshot.AccountFields
	SetAccount(account *common.Address)
}

type Config struct {
	// GlobalInterval is the period of the global refresh; cron rounds it to whole seconds.
	GlobalInterval time.Duration
	// FetchTimeout bounds a single refresh.
	FetchTimeout time.Duration
}

// Scheduler triggers snapshot refreshes: global ones on a fixed interval and
// account ones whenever the connected account changes or a transaction confirms.
type Scheduler struct {
	agg  Aggregator
	cfg  Config
	cron *cron.Cron

	mu            sync.Mutex
	base          context.Context
	account       *common.Address
	cancelAccount context.CancelFunc
	running       sync.WaitGroup
}

func New(agg Aggregator, cfg Config) *Scheduler {
	if cfg.GlobalInterval <= 0 {
		cfg.GlobalInterval = 30 * time.Second
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = 30 * time.Second
	}
	return &Scheduler{
		agg:  agg,
		cfg:  cfg,
		cron: cron.New(cron.WithChain(cron.Recover(cron.DefaultLogger))),
		base: context.Background(),
	}
}

// Start runs one global refresh immediately and schedules the rest.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	s.base = ctx
	s.mu.Unlock()

	spec := "@every " + s.cfg.GlobalInterval.String()
	if _, err := s.cron.AddFunc(spec, func() { s.refreshGlobal() }); err != nil {
		return errors.Wrapf(err, "schedule global refresh %q", spec)
	}

	s.goRefresh(s.refreshGlobal)
	s.cron.Start()

	log.Info("refresh scheduler started", "globalInterval", s.cfg.GlobalInterval.String())
	return nil
}

// Stop halts the schedule, cancels a pending account refresh and waits for
// refreshes started by the scheduler to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()

	s.mu.Lock()
	s.cancelPendingLocked()
	s.mu.Unlock()

	s.running.Wait()
	log.Info("refresh scheduler stopped")
}

// HandleSessionEvent follows the wallet session. Connecting or switching
// accounts resets the account fields and refreshes them; disconnecting resets
// them and cancels any account refresh still in flight.
func (s *Scheduler) HandleSessionEvent(ev wallet.Event) {
	switch ev.Kind {
	case wallet.EventConnected, wallet.EventAccountChanged:
		account := ev.Account
		s.mu.Lock()
		s.account = &account
		s.cancelPendingLocked()
		s.mu.Unlock()

		s.agg.SetAccount(&account)
		s.startAccountRefresh(account)

	case wallet.EventDisconnected:
		s.mu.Lock()
		s.account = nil
		s.cancelPendingLocked()
		s.mu.Unlock()

		s.agg.SetAccount(nil)
	}
}

// RefreshAfterConfirmation refreshes the global and the account snapshot and
// returns when both are merged.
func (s *Scheduler) RefreshAfterConfirmation(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()

	account, ok := s.Account()

	var wg conc.WaitGroup
	wg.Go(func() { s.agg.FetchGlobalSnapshot(ctx) })
	if ok {
		wg.Go(func() { s.agg.FetchAccountSnapshot(ctx, account) })
	}
	if r := wg.WaitAndRecover(); r != nil {
		log.Error("refresh after confirmation panicked", "panic", r.String())
	}
}

func (s *Scheduler) Account() (common.Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.account == nil {
		return common.Address{}, false
	}
	return *s.account, true
}

func (s *Scheduler) refreshGlobal() {
	s.mu.Lock()
	base := s.base
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, s.cfg.FetchTimeout)
	defer cancel()
	s.agg.FetchGlobalSnapshot(ctx)
}

func (s *Scheduler) startAccountRefresh(account common.Address) {
	s.mu.Lock()
	ctx, cancel := context.WithTimeout(s.base, s.cfg.FetchTimeout)
	s.cancelAccount = cancel
	s.mu.Unlock()

	s.goRefresh(func() {
		defer cancel()
		s.agg.FetchAccountSnapshot(ctx, account)
	})
}

func (s *Scheduler) cancelPendingLocked() {
	if s.cancelAccount != nil {
		s.cancelAccount()
		s.cancelAccount = nil
	}
}

func (s *Scheduler) goRefresh(fn func()) {
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Error("snapshot refresh panicked", "panic", r)
			}
		}()
		fn()
	}()
}
