package ledger

import (
	"math/big"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/shopspring/decimal"
)

// Decimals is the fixed-point scale the ledger contract uses for every amount.
const Decimals = 18

// FromWei converts an 18-decimal fixed-point integer into an exact decimal.
func FromWei(v *big.Int) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(v, -Decimals)
}

// ToWei converts a decimal amount into the contract's fixed-point integer,
// rounding anything below 1 wei.
func ToWei(d decimal.Decimal) *big.Int {
	return d.Shift(Decimals).Round(0).BigInt()
}

// ParseAmount parses a user supplied decimal string.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errors.New("amount is empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "invalid amount %q", raw)
	}
	return d, nil
}
