package txflow

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/ledger"
)

type Kind string

const (
	KindInvest           Kind = "invest"
	KindWithdrawROI      Kind = "withdraw_roi"
	KindWithdrawReferral Kind = "withdraw_referral"
	KindWithdrawRewards  Kind = "withdraw_rewards"
)

func Kinds() []Kind {
	return []Kind{KindInvest, KindWithdrawROI, KindWithdrawReferral, KindWithdrawRewards}
}

func ParseKind(raw string) (Kind, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, k := range Kinds() {
		if string(k) == raw {
			return k, nil
		}
	}
	return "", errors.Newf("unknown transaction kind %q", raw)
}

func (k Kind) method() string {
	switch k {
	case KindInvest:
		return ledger.MethodInvest
	case KindWithdrawROI:
		return ledger.MethodWithdrawROI
	case KindWithdrawReferral:
		return ledger.MethodWithdrawReferralBonus
	default:
		return ledger.MethodWithdrawRewards
	}
}

func (k Kind) isWithdrawal() bool {
	return k != KindInvest
}

type State string

const (
	StateIdle              State = "idle"
	StateValidating        State = "validating"
	StateAwaitingSignature State = "awaiting_signature"
	StateSubmitted         State = "submitted"
	StateConfirmed         State = "confirmed"
	StateFailed            State = "failed"
)

func (s State) Terminal() bool {
	return s == StateConfirmed || s == StateFailed
}

// busy reports whether an attempt in this state blocks a new one of the same kind.
func (s State) busy() bool {
	return s != StateIdle && !s.Terminal()
}

// rank orders states so transitions can only move forward.
func (s State) rank() int {
	switch s {
	case StateIdle:
		return 0
	case StateValidating:
		return 1
	case StateAwaitingSignature:
		return 2
	case StateSubmitted:
		return 3
	default:
		return 4
	}
}

// Request is one user-initiated action.
type Request struct {
	Kind     Kind   `json:"kind"`
	PlanID   *int   `json:"planId,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Referrer string `json:"referrer,omitempty"`
}

// Record is the lifecycle of the latest attempt of one kind.
type Record struct {
	Kind       Kind        `json:"kind"`
	State      State       `json:"state"`
	Hash       common.Hash `json:"hash,omitempty"`
	Reason     error       `json:"-"`
	ReasonCode string      `json:"reason,omitempty"`
	Notified   bool        `json:"notified"`
	StartedAt  time.Time   `json:"startedAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

func (r Record) Busy() bool {
	return r.State.busy()
}
