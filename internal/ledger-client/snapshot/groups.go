package snapshot

import (
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
)

type readKind int

const (
	readUint readKind = iota
	readAddress
	readUintSlice
)

type read struct {
	method string
	kind   readKind
}

// fieldGroup is a set of reads that are fetched and merged as one unit.
type fieldGroup[T any] struct {
	name  string
	reads []read
	merge func(dst *T, r results)
}

type results map[string]interface{}

func (r results) amount(method string) decimal.Decimal {
	v, _ := r[method].(*big.Int)
	return ledger.FromWei(v)
}

func (r results) count(method string) uint64 {
	v, _ := r[method].(*big.Int)
	return toCount(v)
}

func (r results) address(method string) common.Address {
	v, _ := r[method].(common.Address)
	return v
}

func (r results) counts(method string) []uint64 {
	v, _ := r[method].([]*big.Int)
	out := make([]uint64, 0, len(v))
	for _, n := range v {
		out = append(out, toCount(n))
	}
	return out
}

func toCount(v *big.Int) uint64 {
	switch {
	case v == nil || v.Sign() <= 0:
		return 0
	case !v.IsUint64():
		return math.MaxUint64
	default:
		return v.Uint64()
	}
}

func uints(methods ...string) []read {
	out := make([]read, 0, len(methods))
	for _, m := range methods {
		out = append(out, read{method: m, kind: readUint})
	}
	return out
}

var globalGroups = []fieldGroup[GlobalFields]{
	{
		name: "contract",
		reads: uints(
			ledger.MethodContractBalance,
			ledger.MethodTotalStaked,
			ledger.MethodTotalUsers,
			ledger.MethodTotalRefBonus,
		),
		merge: func(g *GlobalFields, r results) {
			g.ContractBalance = r.amount(ledger.MethodContractBalance)
			g.TotalStaked = r.amount(ledger.MethodTotalStaked)
			g.TotalUsers = r.count(ledger.MethodTotalUsers)
			g.TotalReferralRewardPool = r.amount(ledger.MethodTotalRefBonus)
		},
	},
}

var accountGroups = []fieldGroup[AccountFields]{
	{
		name: "profile",
		reads: append(uints(
			ledger.MethodUserCheckpoint,
			ledger.MethodUserDirectReferrals,
			ledger.MethodQualifiedDirects,
			ledger.MethodUserTotalDeposits,
		), read{method: ledger.MethodUserReferrer, kind: readAddress}),
		merge: func(a *AccountFields, r results) {
			a.Checkpoint = r.count(ledger.MethodUserCheckpoint)
			a.Referrer = r.address(ledger.MethodUserReferrer)
			a.DirectReferrals = r.count(ledger.MethodUserDirectReferrals)
			a.QualifiedDirects = r.count(ledger.MethodQualifiedDirects)
			a.TotalDeposits = r.amount(ledger.MethodUserTotalDeposits)
		},
	},
	{
		name: "balances",
		reads: uints(
			ledger.MethodUserAvailable,
			ledger.MethodUserAvailableROI,
			ledger.MethodUserAvailableRewards,
			ledger.MethodUserActualDividends,
		),
		merge: func(a *AccountFields, r results) {
			a.Available = r.amount(ledger.MethodUserAvailable)
			a.AvailableROI = r.amount(ledger.MethodUserAvailableROI)
			a.AvailableRewards = r.amount(ledger.MethodUserAvailableRewards)
			a.ActualDividends = r.amount(ledger.MethodUserActualDividends)
		},
	},
	{
		name: "referral",
		reads: uints(
			ledger.MethodUserReferralBonus,
			ledger.MethodUserReferralTotalBonus,
			ledger.MethodUserReferralWithdrawn,
		),
		merge: func(a *AccountFields, r results) {
			a.ReferralBonus = r.amount(ledger.MethodUserReferralBonus)
			a.ReferralTotalBonus = r.amount(ledger.MethodUserReferralTotalBonus)
			a.ReferralWithdrawn = r.amount(ledger.MethodUserReferralWithdrawn)
		},
	},
	{
		name:  "deposit-bonus",
		reads: uints(ledger.MethodUserDepositBonus, ledger.MethodUserTotalDepositBonus),
		merge: func(a *AccountFields, r results) {
			a.DepositBonus = r.amount(ledger.MethodUserDepositBonus)
			a.TotalDepositBonus = r.amount(ledger.MethodUserTotalDepositBonus)
		},
	},
	{
		name:  "giveaway",
		reads: uints(ledger.MethodUserGiveawayBonus, ledger.MethodUserTotalGiveawayBonus),
		merge: func(a *AccountFields, r results) {
			a.GiveawayBonus = r.amount(ledger.MethodUserGiveawayBonus)
			a.TotalGiveawayBonus = r.amount(ledger.MethodUserTotalGiveawayBonus)
		},
	},
	{
		name:  "withdrawn",
		reads: uints(ledger.MethodTotalROIWithdrawn, ledger.MethodTotalRewardsWithdrawn),
		merge: func(a *AccountFields, r results) {
			a.TotalROIWithdrawn = r.amount(ledger.MethodTotalROIWithdrawn)
			a.TotalRewardsWithdrawn = r.amount(ledger.MethodTotalRewardsWithdrawn)
		},
	},
	{
		name:  "downline",
		reads: []read{{method: ledger.MethodUserDownlineCount, kind: readUintSlice}},
		merge: func(a *AccountFields, r results) {
			a.DownlineCounts = r.counts(ledger.MethodUserDownlineCount)
		},
	},
}

// GroupNames lists the field groups per scope in fetch order.
func GroupNames() (global []string, account []string) {
	for _, g := range globalGroups {
		global = append(global, g.name)
	}
	for _, g := range accountGroups {
		account = append(account, g.name)
	}
	return global, account
}
