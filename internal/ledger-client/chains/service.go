package chains

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

type chainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Service owns the RPC client of the active network.
type Service struct {
	profile Profile

	mu     sync.Mutex
	client *ethclient.Client
}

func NewService(ctx context.Context, resolver *Resolver) (*Service, error) {
	profile, err := resolver.Active()
	if err != nil {
		return nil, err
	}

	client, err := dialClient(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := verifyChainID(ctx, client, profile); err != nil {
		client.Close()
		return nil, err
	}

	log.Info("connected to ledger network",
		"network", profile.Selector,
		"chain_id", profile.ChainID,
		"rpc", profile.RPCURL,
	)

	return &Service{profile: profile, client: client}, nil
}

func (s *Service) Profile() Profile {
	return s.profile
}

func (s *Service) Client() (*ethclient.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil, errors.New("chain client is closed")
	}
	return s.client, nil
}

// Close closes the RPC client (call on shutdown).
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.Close()
		s.client = nil
	}
}

func dialClient(ctx context.Context, profile Profile) (*ethclient.Client, error) {
	if strings.TrimSpace(profile.RPCURL) == "" {
		return nil, errors.Newf("network %q has no rpc url", profile.Selector)
	}

	client, err := ethclient.DialContext(ctx, profile.RPCURL)
	if err != nil {
		return nil, errors.Wrapf(err, "dial rpc %q", profile.Selector)
	}
	return client, nil
}

func verifyChainID(ctx context.Context, client chainIDReader, profile Profile) error {
	got, err := client.ChainID(ctx)
	if err != nil {
		return errors.Wrapf(err, "read chain id from %q", profile.Selector)
	}
	if !got.IsUint64() || got.Uint64() != profile.ChainID {
		return errors.Newf("rpc for %q reports chain id %s, expected %d", profile.Selector, got.String(), profile.ChainID)
	}
	return nil
}
