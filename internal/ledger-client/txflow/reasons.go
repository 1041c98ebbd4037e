package txflow

import (
	"github.com/cockroachdb/errors"
)

var (
	ErrWalletNotConnected  = errors.New("wallet not connected")
	ErrWrongNetwork        = errors.New("wrong network")
	ErrBelowMinimum        = errors.New("amount below minimum")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrNothingToWithdraw   = errors.New("nothing to withdraw")
	ErrContractBalanceLow  = errors.New("contract balance low")
	ErrUnknownPlan         = errors.New("unknown plan")
	ErrTransport           = errors.New("transport error")
	ErrTimeout             = errors.New("confirmation timeout")

	// ErrBusy is returned by Submit while the previous attempt of the same kind is in flight.
	ErrBusy = errors.New("transaction already in progress")
)

var reasonCodes = []struct {
	err  error
	code string
}{
	{ErrWalletNotConnected, "wallet_not_connected"},
	{ErrWrongNetwork, "wrong_network"},
	{ErrBelowMinimum, "below_minimum"},
	{ErrInsufficientBalance, "insufficient_balance"},
	{ErrNothingToWithdraw, "nothing_to_withdraw"},
	{ErrContractBalanceLow, "contract_balance_low"},
	{ErrUnknownPlan, "unknown_plan"},
	{ErrTimeout, "timeout"},
	{ErrTransport, "transport_error"},
}

// ReasonCode maps a failure reason to a stable short code.
func ReasonCode(err error) string {
	if err == nil {
		return ""
	}
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return rc.code
		}
	}
	return "transport_error"
}

// asReason keeps known reasons and folds anything else into ErrTransport.
func asReason(err error) error {
	for _, rc := range reasonCodes {
		if errors.Is(err, rc.err) {
			return err
		}
	}
	return errors.Mark(err, ErrTransport)
}
