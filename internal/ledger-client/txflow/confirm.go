package txflow

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/quantumauth-io/quantum-go-utils/log"
)

const maxConsecutiveLookupErrors = 3

type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

type BlockSource interface {
	LatestBlock() uint64
}

type WatcherConfig struct {
	PollInterval time.Duration
	// Timeout bounds the wait for a receipt; zero waits until the context ends.
	Timeout time.Duration
	// Confirmations is the number of blocks, including the inclusion block, to wait for.
	Confirmations uint64
}

// ReceiptWatcher polls for the receipt of a submitted transaction.
type ReceiptWatcher struct {
	source ReceiptSource
	blocks BlockSource
	cfg    WatcherConfig
}

func NewReceiptWatcher(source ReceiptSource, blocks BlockSource, cfg WatcherConfig) *ReceiptWatcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	return &ReceiptWatcher{source: source, blocks: blocks, cfg: cfg}
}

// WaitForConfirmation blocks until hash is confirmed. It returns ErrTimeout when
// the configured bound elapses and an ErrTransport error when the transaction
// reverted or its receipt could not be looked up.
func (w *ReceiptWatcher) WaitForConfirmation(ctx context.Context, hash common.Hash) error {
	if w.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.cfg.Timeout)
		defer cancel()
	}

	timer := time.NewTimer(0)
	defer timer.Stop()
	lookupErrors := 0
	polls := 0
	for {
		select {
		case <-ctx.Done():
			log.Info("stopped waiting for receipt", "hash", hash.Hex(), "polls", polls)
			if errors.Is(ctx.Err(), context.DeadlineExceeded) && w.cfg.Timeout > 0 {
				return errors.Wrapf(ErrTimeout, "no receipt for %s after %s", hash.Hex(), w.cfg.Timeout)
			}
			return errors.Mark(errors.Wrap(ctx.Err(), "confirmation wait cancelled"), ErrTransport)
		case <-timer.C:
		}
		polls++

		receipt, err := w.source.TransactionReceipt(ctx, hash)
		switch {
		case errors.Is(err, ethereum.NotFound):
			lookupErrors = 0
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			lookupErrors++
			log.Warn("receipt lookup failed", "hash", hash.Hex(), "attempt", lookupErrors, "error", err)
			if lookupErrors >= maxConsecutiveLookupErrors {
				return errors.Mark(errors.Wrapf(err, "receipt lookup for %s", hash.Hex()), ErrTransport)
			}
		case receipt == nil:
		case receipt.Status != types.ReceiptStatusSuccessful:
			return errors.Wrapf(ErrTransport, "transaction %s reverted", hash.Hex())
		case w.deepEnough(receipt):
			return nil
		}

		timer.Reset(w.cfg.PollInterval)
	}
}

func (w *ReceiptWatcher) deepEnough(receipt *types.Receipt) bool {
	if w.cfg.Confirmations <= 1 || w.blocks == nil || receipt.BlockNumber == nil {
		return true
	}
	needed := receipt.BlockNumber.Uint64() + w.cfg.Confirmations - 1
	return w.blocks.LatestBlock() >= needed
}
