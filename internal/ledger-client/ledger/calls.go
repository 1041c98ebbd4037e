package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Mutating methods of the ledger contract.
const (
	MethodInvest                = "invest"
	MethodWithdrawROI           = "withdrawROI"
	MethodWithdrawReferralBonus = "withdrawReferralBonus"
	MethodWithdrawRewards       = "withdrawRewards"
)

// Call describes one mutating contract invocation.
type Call struct {
	Method   string
	Referrer common.Address
	Plan     uint8
	Value    *big.Int
}

func InvestCall(referrer common.Address, plan uint8, value *big.Int) Call {
	return Call{Method: MethodInvest, Referrer: referrer, Plan: plan, Value: value}
}

func WithdrawCall(method string) Call {
	return Call{Method: method}
}
