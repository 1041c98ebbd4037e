package snapshot

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type GlobalFields struct {
	ContractBalance         decimal.Decimal `json:"contractBalance"`
	TotalStaked             decimal.Decimal `json:"totalStaked"`
	TotalUsers              uint64          `json:"totalUsers"`
	TotalReferralRewardPool decimal.Decimal `json:"totalReferralRewardPool"`
}

type AccountFields struct {
	Checkpoint       uint64          `json:"checkpoint"`
	Referrer         common.Address  `json:"referrer"`
	DirectReferrals  uint64          `json:"directReferrals"`
	QualifiedDirects uint64          `json:"qualifiedDirects"`
	TotalDeposits    decimal.Decimal `json:"totalDeposits"`

	Available        decimal.Decimal `json:"available"`
	AvailableROI     decimal.Decimal `json:"availableRoi"`
	AvailableRewards decimal.Decimal `json:"availableRewards"`
	ActualDividends  decimal.Decimal `json:"actualDividends"`

	ReferralBonus      decimal.Decimal `json:"referralBonus"`
	ReferralTotalBonus decimal.Decimal `json:"referralTotalBonus"`
	ReferralWithdrawn  decimal.Decimal `json:"referralWithdrawn"`

	DepositBonus      decimal.Decimal `json:"depositBonus"`
	TotalDepositBonus decimal.Decimal `json:"totalDepositBonus"`

	GiveawayBonus      decimal.Decimal `json:"giveawayBonus"`
	TotalGiveawayBonus decimal.Decimal `json:"totalGiveawayBonus"`

	TotalROIWithdrawn     decimal.Decimal `json:"totalRoiWithdrawn"`
	TotalRewardsWithdrawn decimal.Decimal `json:"totalRewardsWithdrawn"`

	// DownlineCounts is indexed by referral level.
	DownlineCounts []uint64 `json:"downlineCounts"`

	LockedROI     decimal.Decimal `json:"lockedRoi"`
	ProfitPercent decimal.Decimal `json:"profitPercent"`
}

// DefaultAccountFields is the value every per-account field holds when no
// account is connected or before its group is first fetched.
func DefaultAccountFields() AccountFields {
	return AccountFields{DownlineCounts: []uint64{}}
}

func (a AccountFields) clone() AccountFields {
	out := a
	out.DownlineCounts = append([]uint64{}, a.DownlineCounts...)
	return out
}

// withDerived recomputes the values that are functions of fetched fields.
func (a AccountFields) withDerived() AccountFields {
	if a.TotalDeposits.IsPositive() {
		a.ProfitPercent = a.ActualDividends.Mul(hundred).DivRound(a.TotalDeposits, 2)
	} else {
		a.ProfitPercent = decimal.Zero
	}
	a.LockedROI = a.ActualDividends.Sub(a.AvailableROI).Round(4)
	return a
}

// Snapshot is a point-in-time merged view of the ledger. Values are never
// mutated after publication.
type Snapshot struct {
	Global  GlobalFields  `json:"global"`
	Account AccountFields `json:"account"`

	AccountAddress *common.Address `json:"accountAddress,omitempty"`
	ReferralLink   string          `json:"referralLink,omitempty"`

	BlockNumber         uint64    `json:"blockNumber"`
	GlobalUpdatedAt     time.Time `json:"globalUpdatedAt"`
	AccountUpdatedAt    time.Time `json:"accountUpdatedAt"`
	FailedGlobalGroups  []string  `json:"failedGlobalGroups,omitempty"`
	FailedAccountGroups []string  `json:"failedAccountGroups,omitempty"`
}

func emptySnapshot() Snapshot {
	return Snapshot{Account: DefaultAccountFields()}
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Account = s.Account.clone()
	if s.AccountAddress != nil {
		addr := *s.AccountAddress
		out.AccountAddress = &addr
	}
	out.FailedGlobalGroups = append([]string(nil), s.FailedGlobalGroups...)
	out.FailedAccountGroups = append([]string(nil), s.FailedAccountGroups...)
	return out
}

func referralLink(origin string, account common.Address) string {
	return strings.TrimRight(strings.TrimSpace(origin), "/") + "/?ref=" + account.Hex()
}
