package snapshot

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/pool"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
)

// GroupObserver is told the outcome of every field group fetch.
type GroupObserver interface {
	ObserveGroup(group string, ok bool)
}

type BlockSource interface {
	LatestBlock() uint64
}

type Config struct {
	ReferralOrigin string
	Blocks         BlockSource
	Observer       GroupObserver
}

// Aggregator owns the ledger snapshot. It fetches field groups concurrently,
// overlays the groups that succeeded on the current snapshot and publishes
// the result to subscribers.
type Aggregator struct {
	reader ledger.Reader
	cfg    Config
	now    func() time.Time

	mu      sync.Mutex
	current atomic.Pointer[Snapshot]
	subs    map[int]chan Snapshot
	nextSub int
}

func NewAggregator(reader ledger.Reader, cfg Config) *Aggregator {
	a := &Aggregator{
		reader: reader,
		cfg:    cfg,
		now:    func() time.Time { return time.Now().UTC() },
		subs:   make(map[int]chan Snapshot),
	}
	initial := emptySnapshot()
	a.current.Store(&initial)
	return a
}

// Snapshot returns a copy of the latest published snapshot.
func (a *Aggregator) Snapshot() Snapshot {
	return a.current.Load().clone()
}

// FetchGlobalSnapshot refreshes the global field groups and returns the merged
// global fields. Failed groups keep their previous values.
func (a *Aggregator) FetchGlobalSnapshot(ctx context.Context) GlobalFields {
	outcomes := fetchGroups(ctx, a.reader, globalGroups, nil, a.cfg.Observer)

	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.current.Load().clone()
	next.Global = applyOutcomes(next.Global, outcomes)
	next.FailedGlobalGroups = failedNames(outcomes)
	next.GlobalUpdatedAt = a.now()
	a.stampBlock(&next)
	a.publishLocked(next)

	return next.Global
}

// FetchAccountSnapshot refreshes the per-account field groups of account and
// returns the merged account fields. The result is only stored when account
// is still the tracked account once the reads complete.
func (a *Aggregator) FetchAccountSnapshot(ctx context.Context, account common.Address) AccountFields {
	outcomes := fetchGroups(ctx, a.reader, accountGroups, []interface{}{account}, a.cfg.Observer)

	a.mu.Lock()
	defer a.mu.Unlock()

	next := a.current.Load().clone()
	if next.AccountAddress == nil || *next.AccountAddress != account {
		log.Info("discarding account snapshot for untracked account", "account", account.Hex())
		return applyOutcomes(DefaultAccountFields(), outcomes).withDerived()
	}
	if ctx.Err() != nil {
		log.Info("discarding cancelled account snapshot", "account", account.Hex())
		return next.Account
	}

	next.Account = applyOutcomes(next.Account, outcomes).withDerived()
	next.FailedAccountGroups = failedNames(outcomes)
	next.AccountUpdatedAt = a.now()
	a.stampBlock(&next)
	a.publishLocked(next)

	return next.Account.clone()
}

// SetAccount switches the tracked account. A nil account or a different
// account resets every per-account field to its default.
func (a *Aggregator) SetAccount(account *common.Address) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cur := a.current.Load()
	if sameAccount(cur.AccountAddress, account) {
		return
	}

	next := cur.clone()
	next.Account = DefaultAccountFields()
	next.FailedAccountGroups = nil
	next.AccountUpdatedAt = time.Time{}
	next.AccountAddress = nil
	next.ReferralLink = ""
	if account != nil {
		addr := *account
		next.AccountAddress = &addr
		next.ReferralLink = referralLink(a.cfg.ReferralOrigin, addr)
	}
	a.publishLocked(next)
}

func (a *Aggregator) stampBlock(s *Snapshot) {
	if a.cfg.Blocks != nil {
		if n := a.cfg.Blocks.LatestBlock(); n > s.BlockNumber {
			s.BlockNumber = n
		}
	}
}

func sameAccount(a, b *common.Address) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

type groupOutcome[T any] struct {
	group   fieldGroup[T]
	results results
	err     error
}

func (o groupOutcome[T]) ok() bool {
	return o.err == nil && o.results != nil
}

// fetchGroups runs every group concurrently. A group fails as a whole when any
// of its reads fails or panics; sibling groups are unaffected.
func fetchGroups[T any](ctx context.Context, reader ledger.Reader, groups []fieldGroup[T],
	args []interface{}, observer GroupObserver) []groupOutcome[T] {
	outcomes := make([]groupOutcome[T], len(groups))
	for i, g := range groups {
		outcomes[i] = groupOutcome[T]{group: g, err: errors.New("group did not complete")}
	}

	var wg conc.WaitGroup
	for i, g := range groups {
		wg.Go(func() {
			res, err := fetchGroup(ctx, reader, g, args)
			outcomes[i] = groupOutcome[T]{group: g, results: res, err: err}
		})
	}
	if recovered := wg.WaitAndRecover(); recovered != nil {
		log.Error("field group panicked", "panic", fmt.Sprint(recovered.Value))
	}

	for _, o := range outcomes {
		if !o.ok() {
			log.Warn("field group fetch failed", "group", o.group.name, "error", o.err)
		}
		if observer != nil {
			observer.ObserveGroup(o.group.name, o.ok())
		}
	}
	return outcomes
}

func fetchGroup[T any](ctx context.Context, reader ledger.Reader, g fieldGroup[T], args []interface{}) (results, error) {
	values := make([]interface{}, len(g.reads))

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError()
	for j, rd := range g.reads {
		p.Go(func(ctx context.Context) error {
			v, err := readOne(ctx, reader, rd, args)
			if err != nil {
				return err
			}
			values[j] = v
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, errors.Wrapf(err, "group %s", g.name)
	}

	res := make(results, len(g.reads))
	for j, rd := range g.reads {
		res[rd.method] = values[j]
	}
	return res, nil
}

func readOne(ctx context.Context, reader ledger.Reader, rd read, args []interface{}) (interface{}, error) {
	switch rd.kind {
	case readAddress:
		return reader.ReadAddress(ctx, rd.method, args...)
	case readUintSlice:
		return reader.ReadUintSlice(ctx, rd.method, args...)
	default:
		return reader.ReadUint(ctx, rd.method, args...)
	}
}

func applyOutcomes[T any](base T, outcomes []groupOutcome[T]) T {
	for _, o := range outcomes {
		if o.ok() {
			o.group.merge(&base, o.results)
		}
	}
	return base
}

func failedNames[T any](outcomes []groupOutcome[T]) []string {
	var out []string
	for _, o := range outcomes {
		if !o.ok() {
			out = append(out, o.group.name)
		}
	}
	return out
}
