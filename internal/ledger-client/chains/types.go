package chains

import (
	"strings"

	"github.com/cockroachdb/errors"
)

var ErrUnsupportedNetwork = errors.New("unsupported network")

// Profile is the resolved, immutable description of the network the client talks to.
type Profile struct {
	Selector      string `json:"selector"`
	ChainID       uint64 `json:"chainId"`
	NativeSymbol  string `json:"nativeSymbol"`
	RPCURL        string `json:"rpcUrl"`
	ExplorerTxURL string `json:"explorerTxUrl"`
}

type RPC struct {
	Name string `mapstructure:"Name" json:"name"`
	URL  string `mapstructure:"URL" json:"url"`
}

// NetworkConfig carries the operator overrides for one selector.
type NetworkConfig struct {
	RPCs          []RPC  `mapstructure:"RPCs" json:"rpcs"`
	ExplorerTxURL string `mapstructure:"ExplorerTxURL" json:"explorerTxUrl"`
}

type knownNetwork struct {
	selector   string
	chainID    uint64
	symbol     string
	publicRPC  string
	explorerTx string
}

var knownNetworks = []knownNetwork{
	{"bsc", 56, "BNB", "https://bsc-dataseed.bnbchain.org", "https://bscscan.com/tx/"},
	{"bscTestnet", 97, "BNB", "https://data-seed-prebsc-1-s1.bnbchain.org:8545", "https://testnet.bscscan.com/tx/"},
	{"polygon", 137, "POL", "https://polygon-rpc.com", "https://polygonscan.com/tx/"},
	{"polygonAmoy", 80002, "POL", "https://rpc-amoy.polygon.technology", "https://amoy.polygonscan.com/tx/"},
	{"avax", 43114, "AVAX", "https://api.avax.network/ext/bc/C/rpc", "https://snowtrace.io/tx/"},
	{"avaxFuji", 43113, "AVAX", "https://api.avax-test.network/ext/bc/C/rpc", "https://testnet.snowtrace.io/tx/"},
	{"sonic", 146, "S", "https://rpc.soniclabs.com", "https://sonicscan.org/tx/"},
	{"sonicTestnet", 57054, "S", "https://rpc.blaze.soniclabs.com", "https://testnet.sonicscan.org/tx/"},
}

func lookup(selector string) (knownNetwork, error) {
	selector = strings.TrimSpace(selector)
	for _, n := range knownNetworks {
		if strings.EqualFold(n.selector, selector) {
			return n, nil
		}
	}
	return knownNetwork{}, errors.Wrapf(ErrUnsupportedNetwork, "selector %q", selector)
}

// Selectors lists every supported network selector in table order.
func Selectors() []string {
	out := make([]string, 0, len(knownNetworks))
	for _, n := range knownNetworks {
		out = append(out, n.selector)
	}
	return out
}
