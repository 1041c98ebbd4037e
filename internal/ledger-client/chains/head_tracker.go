package chains

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/quantumauth-io/quantum-go-utils/retry"
)

type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// HeadTracker keeps the latest block header of the active chain in memory.
type HeadTracker struct {
	reader         HeaderReader
	latestHeader   atomic.Pointer[types.Header]
	timeReceivedAt atomic.Pointer[time.Time]
}

func NewHeadTracker(ctx context.Context, reader HeaderReader, interval time.Duration) (*HeadTracker, error) {
	if interval <= 0 {
		return nil, errors.New("head tracker interval must be positive")
	}

	ht := &HeadTracker{reader: reader}
	if err := ht.refresh(ctx); err != nil {
		return nil, err
	}

	go ht.maintain(ctx, interval)

	return ht, nil
}

func (h *HeadTracker) maintain(ctx context.Context, interval time.Duration) {
	cfg := retry.DefaultConfig()
	cfg.MaxDelayBeforeRetrying = interval
	cfg.InitialDelayBeforeRetrying = interval / 10

	timer := time.NewTimer(interval)
	defer timer.Stop()
	numCallsToChain := 0
	for {
		timer.Reset(interval)
		select {
		case <-ctx.Done():
			log.Info("head tracker exiting", "numCallsToChain", numCallsToChain)
			return
		case <-timer.C:
			_, _ = retry.Retry(ctx, cfg,
				func(ctx context.Context) ([]interface{}, error) {
					numCallsToChain++
					return nil, h.refresh(ctx)
				},
				nil, // always retry
				"get latest header from chain")
		}
	}
}

func (h *HeadTracker) refresh(ctx context.Context) error {
	header, err := h.reader.HeaderByNumber(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to get latest header from chain")
	}
	if header == nil {
		return errors.New("chain returned empty header")
	}
	now := time.Now().UTC()
	h.latestHeader.Store(header)
	h.timeReceivedAt.Store(&now)
	return nil
}

// LatestBlock returns the most recently observed block number, 0 before the first fetch.
func (h *HeadTracker) LatestBlock() uint64 {
	header := h.latestHeader.Load()
	if header == nil || header.Number == nil {
		return 0
	}
	return header.Number.Uint64()
}

func (h *HeadTracker) LatestHeader() *types.Header {
	return h.latestHeader.Load()
}

func (h *HeadTracker) ReceivedAt() time.Time {
	t := h.timeReceivedAt.Load()
	if t == nil {
		return time.Time{}
	}
	return *t
}
