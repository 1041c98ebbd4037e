package txflow

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
)

// validate checks the preconditions of req in order and returns the call to
// submit. The first failing check decides the reason.
func (c *Coordinator) validate(ctx context.Context, req Request) (ledger.Call, error) {
	account, ok := c.deps.Wallet.Account()
	if !ok {
		return ledger.Call{}, ErrWalletNotConnected
	}

	chainID, err := c.deps.Wallet.ChainID(ctx)
	if err != nil {
		return ledger.Call{}, errors.Mark(errors.Wrap(err, "read wallet network"), ErrTransport)
	}
	if chainID != c.cfg.ChainID {
		return ledger.Call{}, errors.Wrapf(ErrWrongNetwork, "wallet on chain %d, expected %d", chainID, c.cfg.ChainID)
	}

	if c.kind == KindInvest {
		return c.validateInvest(ctx, account, req)
	}
	return c.validateWithdrawal(account)
}

func (c *Coordinator) validateInvest(ctx context.Context, account common.Address, req Request) (ledger.Call, error) {
	amount, err := ledger.ParseAmount(req.Amount)
	if err != nil || !amount.IsPositive() || amount.LessThan(c.cfg.MinDeposit) {
		return ledger.Call{}, errors.Wrapf(ErrBelowMinimum, "amount %q, minimum %s", req.Amount, c.cfg.MinDeposit)
	}

	balance, err := c.deps.Wallet.NativeBalance(ctx, account)
	if err != nil {
		return ledger.Call{}, errors.Mark(errors.Wrap(err, "read wallet balance"), ErrTransport)
	}
	if amount.GreaterThan(balance) {
		return ledger.Call{}, errors.Wrapf(ErrInsufficientBalance, "amount %s, balance %s", amount, balance)
	}

	if req.PlanID == nil {
		return ledger.Call{}, errors.Wrap(ErrUnknownPlan, "no plan selected")
	}
	plan, ok := ledger.PlanByID(*req.PlanID)
	if !ok {
		return ledger.Call{}, errors.Wrapf(ErrUnknownPlan, "plan %d", *req.PlanID)
	}

	referrer := ResolveReferrer(req.Referrer, c.cfg.DefaultReferrer)
	return ledger.InvestCall(referrer, uint8(plan.ID), ledger.ToWei(amount)), nil
}

func (c *Coordinator) validateWithdrawal(account common.Address) (ledger.Call, error) {
	snap := c.deps.Snapshots.Snapshot()

	available := decimal.Zero
	if snap.AccountAddress != nil && *snap.AccountAddress == account {
		available = withdrawable(c.kind, snap.Account)
	}
	if !available.IsPositive() {
		return ledger.Call{}, ErrNothingToWithdraw
	}

	if c.kind == KindWithdrawROI && available.GreaterThan(snap.Global.ContractBalance) {
		return ledger.Call{}, errors.Wrapf(ErrContractBalanceLow, "available %s, contract balance %s",
			available, snap.Global.ContractBalance)
	}

	return ledger.WithdrawCall(c.kind.method()), nil
}

func withdrawable(kind Kind, a snapshot.AccountFields) decimal.Decimal {
	switch kind {
	case KindWithdrawROI:
		return a.AvailableROI
	case KindWithdrawReferral:
		return a.ReferralBonus
	case KindWithdrawRewards:
		return a.AvailableRewards
	default:
		return decimal.Zero
	}
}
