package chains

import (
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
)

type ResolverConfig struct {
	Selector         string
	PreferredRPCName string
	Networks         map[string]NetworkConfig
}

// Resolver maps a network selector to a Profile. The active profile is
// resolved at most once per process.
type Resolver struct {
	cfg ResolverConfig

	once    sync.Once
	active  Profile
	initErr error
}

func NewResolver(cfg ResolverConfig) *Resolver {
	return &Resolver{cfg: cfg}
}

func NativeSymbol(selector string) (string, error) {
	n, err := lookup(selector)
	if err != nil {
		return "", err
	}
	return n.symbol, nil
}

func NumericChainID(selector string) (uint64, error) {
	n, err := lookup(selector)
	if err != nil {
		return 0, err
	}
	return n.chainID, nil
}

func (r *Resolver) Resolve(selector string) (Profile, error) {
	n, err := lookup(selector)
	if err != nil {
		return Profile{}, err
	}

	profile := Profile{
		Selector:      n.selector,
		ChainID:       n.chainID,
		NativeSymbol:  n.symbol,
		RPCURL:        n.publicRPC,
		ExplorerTxURL: n.explorerTx,
	}

	override, ok := r.networkOverride(n.selector)
	if !ok {
		return profile, nil
	}
	if url := selectRPC(override.RPCs, r.cfg.PreferredRPCName); url != "" {
		profile.RPCURL = url
	}
	if explorer := strings.TrimSpace(override.ExplorerTxURL); explorer != "" {
		profile.ExplorerTxURL = explorer
	}
	return profile, nil
}

// Active returns the profile for the configured selector.
func (r *Resolver) Active() (Profile, error) {
	r.once.Do(func() {
		if strings.TrimSpace(r.cfg.Selector) == "" {
			r.initErr = errors.New("network selector is empty")
			return
		}
		r.active, r.initErr = r.Resolve(r.cfg.Selector)
	})
	return r.active, r.initErr
}

func (r *Resolver) networkOverride(selector string) (NetworkConfig, bool) {
	for name, network := range r.cfg.Networks {
		if strings.EqualFold(strings.TrimSpace(name), selector) {
			return network, true
		}
	}
	return NetworkConfig{}, false
}

// selectRPC picks the preferred RPC by name, otherwise the first usable one.
func selectRPC(rpcs []RPC, preferred string) string {
	if preferred = strings.TrimSpace(preferred); preferred != "" {
		for _, rpc := range rpcs {
			if strings.EqualFold(strings.TrimSpace(rpc.Name), preferred) && strings.TrimSpace(rpc.URL) != "" {
				return strings.TrimSpace(rpc.URL)
			}
		}
	}
	for _, rpc := range rpcs {
		if url := strings.TrimSpace(rpc.URL); url != "" {
			return url
		}
	}
	return ""
}
