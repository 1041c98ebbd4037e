package ledger

// Read methods of the ledger contract.
const (
	MethodContractBalance = "getContractBalance"
	MethodTotalStaked     = "totalStaked"
	MethodTotalUsers      = "getTotalUsers"
	MethodTotalRefBonus   = "totalRefBonus"

	MethodUserCheckpoint         = "getUserCheckpoint"
	MethodUserReferrer           = "getUserReferrer"
	MethodUserDirectReferrals    = "getUserDirectReferralsCount"
	MethodQualifiedDirects       = "getQualifiedDirects"
	MethodUserTotalDeposits      = "getUserTotalDeposits"
	MethodUserAvailable          = "getUserAvailable"
	MethodUserAvailableROI       = "getUserAvailableROI"
	MethodUserAvailableRewards   = "getUserAvailableRewards"
	MethodUserActualDividends    = "getUserActualDividends"
	MethodUserReferralBonus      = "getUserReferralBonus"
	MethodUserReferralTotalBonus = "getUserReferralTotalBonus"
	MethodUserReferralWithdrawn  = "getUserReferralWithdrawn"
	MethodUserDepositBonus       = "getUserDepositBonus"
	MethodUserTotalDepositBonus  = "getUserTotalDepositBonus"
	MethodUserGiveawayBonus      = "getUserGiveawayBonus"
	MethodUserTotalGiveawayBonus = "getUserTotalGiveawayBonus"
	MethodTotalROIWithdrawn      = "getTotalROIWithdrawn"
	MethodTotalRewardsWithdrawn  = "getTotalRewardsWithdrawn"
	MethodUserDownlineCount      = "getUserDownlineCount"
)
