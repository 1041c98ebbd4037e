package snapshot

import (
	"bytes"
	"context"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ledgerbinding "github.com/quantumauth-io/ledger-client/internal/ledger-client/contracts/bindings/go/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000a11ce")
	bob   = common.HexToAddress("0x0000000000000000000000000000000000000b0b")
)

func ether(s string) *big.Int {
	return ledger.ToWei(decimal.RequireFromString(s))
}

// fakeReader answers from fixed tables; methods listed in failing return an
// error and methods listed in panicking panic.
type fakeReader struct {
	mu        sync.Mutex
	uints     map[string]*big.Int
	addresses map[string]common.Address
	slices    map[string][]*big.Int
	failing   map[string]bool
	panicking map[string]bool
	block     chan struct{}
}

func newFakeReader() *fakeReader {
	return &fakeReader{
		uints:     map[string]*big.Int{},
		addresses: map[string]common.Address{},
		slices:    map[string][]*big.Int{},
		failing:   map[string]bool{},
		panicking: map[string]bool{},
	}
}

func (f *fakeReader) setUint(method, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uints[method] = ether(value)
}

func (f *fakeReader) setFailing(method string, failing bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failing[method] = failing
}

func (f *fakeReader) check(ctx context.Context, method string) error {
	f.mu.Lock()
	block := f.block
	fail := f.failing[method]
	boom := f.panicking[method]
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if boom {
		panic("decoder exploded: " + method)
	}
	if fail {
		return errors.Newf("%s reverted", method)
	}
	return nil
}

func (f *fakeReader) ReadUint(ctx context.Context, method string, _ ...interface{}) (*big.Int, error) {
	if err := f.check(ctx, method); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if v, ok := f.uints[method]; ok {
		return new(big.Int).Set(v), nil
	}
	return big.NewInt(0), nil
}

func (f *fakeReader) ReadAddress(ctx context.Context, method string, _ ...interface{}) (common.Address, error) {
	if err := f.check(ctx, method); err != nil {
		return common.Address{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addresses[method], nil
}

func (f *fakeReader) ReadUintSlice(ctx context.Context, method string, _ ...interface{}) ([]*big.Int, error) {
	if err := f.check(ctx, method); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.slices[method], nil
}

type recordingObserver struct {
	mu      sync.Mutex
	results map[string]bool
}

func (r *recordingObserver) ObserveGroup(group string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.results == nil {
		r.results = map[string]bool{}
	}
	r.results[group] = ok
}

type fixedBlock uint64

func (b fixedBlock) LatestBlock() uint64 { return uint64(b) }

func seededReader() *fakeReader {
	r := newFakeReader()
	r.setUint(ledger.MethodContractBalance, "500")
	r.setUint(ledger.MethodTotalStaked, "1200.5")
	r.uints[ledger.MethodTotalUsers] = big.NewInt(77)
	r.setUint(ledger.MethodTotalRefBonus, "33.25")

	r.uints[ledger.MethodUserCheckpoint] = big.NewInt(1700000000)
	r.addresses[ledger.MethodUserReferrer] = bob
	r.uints[ledger.MethodUserDirectReferrals] = big.NewInt(4)
	r.uints[ledger.MethodQualifiedDirects] = big.NewInt(2)
	r.setUint(ledger.MethodUserTotalDeposits, "3")
	r.setUint(ledger.MethodUserAvailable, "1.5")
	r.setUint(ledger.MethodUserAvailableROI, "3")
	r.setUint(ledger.MethodUserAvailableRewards, "0.25")
	r.setUint(ledger.MethodUserActualDividends, "10")
	r.setUint(ledger.MethodUserReferralBonus, "0.1")
	r.setUint(ledger.MethodUserReferralTotalBonus, "0.4")
	r.setUint(ledger.MethodUserReferralWithdrawn, "0.3")
	r.setUint(ledger.MethodUserDepositBonus, "0.01")
	r.setUint(ledger.MethodUserTotalDepositBonus, "0.02")
	r.setUint(ledger.MethodUserGiveawayBonus, "0.03")
	r.setUint(ledger.MethodUserTotalGiveawayBonus, "0.04")
	r.setUint(ledger.MethodTotalROIWithdrawn, "2")
	r.setUint(ledger.MethodTotalRewardsWithdrawn, "1")
	r.slices[ledger.MethodUserDownlineCount] = []*big.Int{big.NewInt(4), big.NewInt(9)}
	return r
}

func TestFetchGlobalSnapshot(t *testing.T) {
	obs := &recordingObserver{}
	agg := NewAggregator(seededReader(), Config{Observer: obs, Blocks: fixedBlock(900)})

	global := agg.FetchGlobalSnapshot(context.Background())
	assert.Equal(t, "500", global.ContractBalance.String())
	assert.Equal(t, "1200.5", global.TotalStaked.String())
	assert.Equal(t, uint64(77), global.TotalUsers)
	assert.Equal(t, "33.25", global.TotalReferralRewardPool.String())

	snap := agg.Snapshot()
	assert.Equal(t, uint64(900), snap.BlockNumber)
	assert.False(t, snap.GlobalUpdatedAt.IsZero())
	assert.Empty(t, snap.FailedGlobalGroups)
	assert.True(t, obs.results["contract"])
}

func TestFetchAccountSnapshotDerivedValues(t *testing.T) {
	agg := NewAggregator(seededReader(), Config{ReferralOrigin: "https://app.example/"})
	agg.SetAccount(&alice)

	acct := agg.FetchAccountSnapshot(context.Background(), alice)
	assert.Equal(t, bob, acct.Referrer)
	assert.Equal(t, uint64(4), acct.DirectReferrals)
	assert.Equal(t, []uint64{4, 9}, acct.DownlineCounts)
	assert.Equal(t, "7.0000", acct.LockedROI.StringFixed(4))
	assert.Equal(t, "333.33", acct.ProfitPercent.StringFixed(2))

	snap := agg.Snapshot()
	require.NotNil(t, snap.AccountAddress)
	assert.Equal(t, alice, *snap.AccountAddress)
	assert.Equal(t, "https://app.example/?ref="+alice.Hex(), snap.ReferralLink)
}

func TestProfitPercentZeroWithoutDeposits(t *testing.T) {
	r := seededReader()
	r.setUint(ledger.MethodUserTotalDeposits, "0")
	r.setUint(ledger.MethodUserActualDividends, "999")
	agg := NewAggregator(r, Config{})
	agg.SetAccount(&alice)

	acct := agg.FetchAccountSnapshot(context.Background(), alice)
	assert.True(t, acct.ProfitPercent.IsZero())
}

func TestLockedROIRoundsAtFourthPlace(t *testing.T) {
	a := AccountFields{
		ActualDividends: decimal.RequireFromString("1.00005"),
		AvailableROI:    decimal.Zero,
	}.withDerived()
	assert.Equal(t, "1.0001", a.LockedROI.String())
}

func TestFailedGroupRetainsPreviousValues(t *testing.T) {
	r := seededReader()
	obs := &recordingObserver{}
	agg := NewAggregator(r, Config{Observer: obs})
	agg.SetAccount(&alice)
	agg.FetchAccountSnapshot(context.Background(), alice)

	// every value changes, but one read of the referral group now fails
	r.setUint(ledger.MethodUserAvailable, "9")
	r.setUint(ledger.MethodUserDepositBonus, "8")
	r.setUint(ledger.MethodUserReferralBonus, "7")
	r.setUint(ledger.MethodUserReferralTotalBonus, "7")
	r.setFailing(ledger.MethodUserReferralWithdrawn, true)

	acct := agg.FetchAccountSnapshot(context.Background(), alice)
	assert.Equal(t, "9", acct.Available.String())
	assert.Equal(t, "8", acct.DepositBonus.String())
	assert.Equal(t, "0.1", acct.ReferralBonus.String(), "referral group must keep its previous values")
	assert.Equal(t, "0.4", acct.ReferralTotalBonus.String())
	assert.Equal(t, "0.3", acct.ReferralWithdrawn.String())

	snap := agg.Snapshot()
	assert.Equal(t, []string{"referral"}, snap.FailedAccountGroups)
	assert.False(t, obs.results["referral"])
	assert.True(t, obs.results["balances"])
}

func TestFailedGroupKeepsDefaultsBeforeFirstFetch(t *testing.T) {
	r := seededReader()
	r.setFailing(ledger.MethodUserGiveawayBonus, true)
	agg := NewAggregator(r, Config{})
	agg.SetAccount(&alice)

	acct := agg.FetchAccountSnapshot(context.Background(), alice)
	assert.True(t, acct.GiveawayBonus.IsZero())
	assert.True(t, acct.TotalGiveawayBonus.IsZero())
	assert.Equal(t, "0.01", acct.DepositBonus.String())
}

func TestPanickingReadDegradesOnlyItsGroup(t *testing.T) {
	r := seededReader()
	r.panicking[ledger.MethodUserDownlineCount] = true
	agg := NewAggregator(r, Config{})
	agg.SetAccount(&alice)

	acct := agg.FetchAccountSnapshot(context.Background(), alice)
	assert.Equal(t, []uint64{}, acct.DownlineCounts)
	assert.Equal(t, "1.5", acct.Available.String())
	assert.Equal(t, []string{"downline"}, agg.Snapshot().FailedAccountGroups)
}

func TestGlobalAndAccountMergeIndependently(t *testing.T) {
	r := seededReader()
	agg := NewAggregator(r, Config{})
	agg.SetAccount(&alice)
	agg.FetchGlobalSnapshot(context.Background())

	for _, m := range []string{
		ledger.MethodUserAvailable, ledger.MethodUserReferralBonus, ledger.MethodUserDepositBonus,
		ledger.MethodUserGiveawayBonus, ledger.MethodTotalROIWithdrawn, ledger.MethodUserCheckpoint,
		ledger.MethodUserDownlineCount,
	} {
		r.setFailing(m, true)
	}
	agg.FetchAccountSnapshot(context.Background(), alice)
	assert.Equal(t, "500", agg.Snapshot().Global.ContractBalance.String())

	for m := range r.failing {
		r.setFailing(m, false)
	}
	agg.FetchAccountSnapshot(context.Background(), alice)
	r.setFailing(ledger.MethodTotalStaked, true)
	agg.FetchGlobalSnapshot(context.Background())

	snap := agg.Snapshot()
	assert.Equal(t, "1.5", snap.Account.Available.String())
	assert.Equal(t, "1200.5", snap.Global.TotalStaked.String())
	assert.Equal(t, []string{"contract"}, snap.FailedGlobalGroups)
}

func TestDisconnectResetsAccountFields(t *testing.T) {
	agg := NewAggregator(seededReader(), Config{ReferralOrigin: "https://app.example"})
	agg.SetAccount(&alice)
	agg.FetchGlobalSnapshot(context.Background())
	agg.FetchAccountSnapshot(context.Background(), alice)

	agg.SetAccount(nil)

	snap := agg.Snapshot()
	assert.Nil(t, snap.AccountAddress)
	assert.Empty(t, snap.ReferralLink)
	assert.Equal(t, DefaultAccountFields(), snap.Account)
	assert.Equal(t, common.Address{}, snap.Account.Referrer)
	assert.Equal(t, "500", snap.Global.ContractBalance.String())
}

func TestAccountChangeResetsFields(t *testing.T) {
	agg := NewAggregator(seededReader(), Config{})
	agg.SetAccount(&alice)
	agg.FetchAccountSnapshot(context.Background(), alice)

	agg.SetAccount(&bob)
	snap := agg.Snapshot()
	assert.Equal(t, bob, *snap.AccountAddress)
	assert.True(t, snap.Account.Available.IsZero())
}

func TestStaleAccountFetchIsDiscarded(t *testing.T) {
	r := seededReader()
	r.block = make(chan struct{})
	agg := NewAggregator(r, Config{})
	agg.SetAccount(&alice)

	done := make(chan AccountFields, 1)
	go func() {
		done <- agg.FetchAccountSnapshot(context.Background(), alice)
	}()

	agg.SetAccount(nil)
	close(r.block)

	select {
	case acct := <-done:
		assert.Equal(t, "1.5", acct.Available.String())
	case <-time.After(2 * time.Second):
		t.Fatal("fetch did not complete")
	}

	snap := agg.Snapshot()
	assert.Nil(t, snap.AccountAddress)
	assert.True(t, snap.Account.Available.IsZero())
}

func TestSubscribersReceiveLatestSnapshot(t *testing.T) {
	agg := NewAggregator(seededReader(), Config{})
	ch, unsubscribe := agg.Subscribe()

	agg.FetchGlobalSnapshot(context.Background())
	agg.SetAccount(&alice)

	var last Snapshot
	select {
	case last = <-ch:
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
	require.NotNil(t, last.AccountAddress)
	assert.Equal(t, alice, *last.AccountAddress)
	assert.Equal(t, "500", last.Global.ContractBalance.String())

	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}

func TestSnapshotCopiesAreIndependent(t *testing.T) {
	agg := NewAggregator(seededReader(), Config{})
	agg.SetAccount(&alice)
	agg.FetchAccountSnapshot(context.Background(), alice)

	s := agg.Snapshot()
	s.Account.DownlineCounts[0] = 1000
	assert.Equal(t, uint64(4), agg.Snapshot().Account.DownlineCounts[0])
}

// stallingBackend answers every ledger call with ones and zeros, except calls
// that carry the stalled account, which wait for their context.
type stallingBackend struct {
	stalled common.Address
}

func (b stallingBackend) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func (b stallingBackend) CallContract(ctx context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	if bytes.Contains(msg.Data[4:], b.stalled.Bytes()) {
		<-ctx.Done()
		return nil, errors.New("request aborted")
	}

	parsed, err := ledgerbinding.LedgerMetaData.GetAbi()
	if err != nil {
		return nil, err
	}
	method, err := parsed.MethodById(msg.Data[:4])
	if err != nil {
		return nil, err
	}
	values := make([]interface{}, 0, len(method.Outputs))
	for _, out := range method.Outputs {
		switch {
		case out.Type.T == abi.AddressTy:
			values = append(values, common.Address{})
		case out.Type.T == abi.SliceTy:
			values = append(values, []*big.Int{big.NewInt(1)})
		case out.Type.Size == 8:
			values = append(values, uint8(1))
		default:
			values = append(values, big.NewInt(1))
		}
	}
	return method.Outputs.Pack(values...)
}

func TestCancelledAccountFetchDoesNotDegradeNextAccount(t *testing.T) {
	reader, err := ledger.NewContractReader(common.HexToAddress("0x1000000000000000000000000000000000000001"),
		stallingBackend{stalled: alice}, ledger.ReaderConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
			BreakerFailures:   2,
			BreakerTimeout:    time.Minute,
		})
	require.NoError(t, err)
	agg := NewAggregator(reader, Config{})
	agg.SetAccount(&alice)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		agg.FetchAccountSnapshot(ctx, alice)
	}()
	time.Sleep(20 * time.Millisecond)
	agg.SetAccount(&bob)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled fetch did not return")
	}

	assert.Equal(t, "closed", reader.BreakerState())

	acct := agg.FetchAccountSnapshot(context.Background(), bob)
	snap := agg.Snapshot()
	assert.Empty(t, snap.FailedAccountGroups)
	assert.Equal(t, "0.000000000000000001", acct.Available.String())
	assert.Equal(t, []uint64{1}, acct.DownlineCounts)
}
