package chains

import (
	"context"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveKnownNetworks(t *testing.T) {
	expected := map[string]struct {
		chainID uint64
		symbol  string
	}{
		"bsc":          {56, "BNB"},
		"bscTestnet":   {97, "BNB"},
		"polygon":      {137, "POL"},
		"polygonAmoy":  {80002, "POL"},
		"avax":         {43114, "AVAX"},
		"avaxFuji":     {43113, "AVAX"},
		"sonic":        {146, "S"},
		"sonicTestnet": {57054, "S"},
	}

	r := NewResolver(ResolverConfig{})
	require.Len(t, Selectors(), len(expected))

	for selector, want := range expected {
		t.Run(selector, func(t *testing.T) {
			profile, err := r.Resolve(selector)
			require.NoError(t, err)
			assert.Equal(t, selector, profile.Selector)
			assert.Equal(t, want.chainID, profile.ChainID)
			assert.Equal(t, want.symbol, profile.NativeSymbol)
			assert.NotEmpty(t, profile.RPCURL)
			assert.NotEmpty(t, profile.ExplorerTxURL)

			symbol, err := NativeSymbol(selector)
			require.NoError(t, err)
			assert.Equal(t, want.symbol, symbol)

			id, err := NumericChainID(selector)
			require.NoError(t, err)
			assert.Equal(t, want.chainID, id)
		})
	}
}

func TestResolveUnsupportedNetwork(t *testing.T) {
	r := NewResolver(ResolverConfig{})

	for _, selector := range []string{"", "mainnet", "bsc-testnet", "solana"} {
		_, err := r.Resolve(selector)
		assert.True(t, errors.Is(err, ErrUnsupportedNetwork), "selector %q", selector)

		_, err = NativeSymbol(selector)
		assert.True(t, errors.Is(err, ErrUnsupportedNetwork))

		_, err = NumericChainID(selector)
		assert.True(t, errors.Is(err, ErrUnsupportedNetwork))
	}
}

func TestResolveAppliesOverrides(t *testing.T) {
	r := NewResolver(ResolverConfig{
		PreferredRPCName: "private",
		Networks: map[string]NetworkConfig{
			"BSCTESTNET": {
				RPCs: []RPC{
					{Name: "public", URL: "https://public.example"},
					{Name: "private", URL: "https://private.example"},
				},
				ExplorerTxURL: "https://explorer.example/tx/",
			},
			"polygon": {
				RPCs: []RPC{{Name: "a", URL: " "}, {Name: "b", URL: "https://b.example"}},
			},
		},
	})

	profile, err := r.Resolve("bscTestnet")
	require.NoError(t, err)
	assert.Equal(t, "https://private.example", profile.RPCURL)
	assert.Equal(t, "https://explorer.example/tx/", profile.ExplorerTxURL)

	profile, err = r.Resolve("polygon")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", profile.RPCURL)
	assert.Equal(t, "https://polygonscan.com/tx/", profile.ExplorerTxURL)
}

func TestActiveIsResolvedOnce(t *testing.T) {
	r := NewResolver(ResolverConfig{Selector: "sonic"})

	first, err := r.Active()
	require.NoError(t, err)

	r.cfg.Selector = "bsc"
	second, err := r.Active()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, uint64(146), second.ChainID)
}

func TestActiveFailsForUnsupportedSelector(t *testing.T) {
	_, err := NewResolver(ResolverConfig{Selector: "nope"}).Active()
	assert.True(t, errors.Is(err, ErrUnsupportedNetwork))

	_, err = NewResolver(ResolverConfig{}).Active()
	assert.Error(t, err)
}

type fakeChainID struct {
	id  *big.Int
	err error
}

func (f fakeChainID) ChainID(context.Context) (*big.Int, error) {
	return f.id, f.err
}

func TestVerifyChainID(t *testing.T) {
	profile := Profile{Selector: "bsc", ChainID: 56}

	assert.NoError(t, verifyChainID(context.Background(), fakeChainID{id: big.NewInt(56)}, profile))
	assert.Error(t, verifyChainID(context.Background(), fakeChainID{id: big.NewInt(97)}, profile))
	assert.Error(t, verifyChainID(context.Background(), fakeChainID{err: errors.New("boom")}, profile))
}
