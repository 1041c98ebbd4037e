package txflow

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ResolveReferrer returns raw when it is a well-formed 0x-prefixed address and fallback otherwise.
func ResolveReferrer(raw string, fallback common.Address) common.Address {
	raw = strings.TrimSpace(raw)
	if len(raw) == 2+2*common.AddressLength && strings.HasPrefix(raw, "0x") && common.IsHexAddress(raw) {
		return common.HexToAddress(raw)
	}
	return fallback
}
