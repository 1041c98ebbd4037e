package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/quantumauth-io/quantum-go-utils/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	ledgerbinding "github.com/quantumauth-io/ledger-client/internal/ledger-client/contracts/bindings/go/ledger"
)

// Reader is the read-only call surface of the ledger contract.
type Reader interface {
	ReadUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error)
	ReadAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error)
	ReadUintSlice(ctx context.Context, method string, args ...interface{}) ([]*big.Int, error)
}

type ReaderConfig struct {
	RequestsPerSecond float64
	Burst             int
	BreakerFailures   uint32
	BreakerTimeout    time.Duration
}

func (c ReaderConfig) withDefaults() ReaderConfig {
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 20
	}
	if c.Burst <= 0 {
		c.Burst = 25
	}
	if c.BreakerFailures == 0 {
		c.BreakerFailures = 5
	}
	if c.BreakerTimeout <= 0 {
		c.BreakerTimeout = 30 * time.Second
	}
	return c
}

// ContractReader calls the bound ledger contract behind a rate limiter and a circuit breaker.
type ContractReader struct {
	caller  *ledgerbinding.LedgerCallerRaw
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

func NewContractReader(address common.Address, backend bind.ContractCaller, cfg ReaderConfig) (*ContractReader, error) {
	caller, err := ledgerbinding.NewLedgerCaller(address, backend)
	if err != nil {
		return nil, errors.Wrap(err, "bind ledger caller")
	}

	cfg = cfg.withDefaults()
	failures := cfg.BreakerFailures

	st := gobreaker.Settings{
		Name:        "LedgerRPC",
		MaxRequests: 1,
		Interval:    10 * time.Second,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// A read abandoned by its caller says nothing about the endpoint.
		IsSuccessful: func(err error) bool {
			return err == nil || isContextDone(err)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &ContractReader{
		caller:  &ledgerbinding.LedgerCallerRaw{Contract: caller},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		breaker: gobreaker.NewCircuitBreaker(st),
	}, nil
}

func (r *ContractReader) call(ctx context.Context, method string, args ...interface{}) (interface{}, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrapf(err, "rate limit %s", method)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}

	res, err := r.breaker.Execute(func() (interface{}, error) {
		var out []interface{}
		if err := r.caller.Call(&bind.CallOpts{Context: ctx}, &out, method, args...); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, errors.Mark(err, ctxErr)
			}
			return nil, err
		}
		return out, nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "call %s", method)
	}

	out, _ := res.([]interface{})
	if len(out) == 0 {
		return nil, errors.Newf("call %s: empty result", method)
	}
	return out[0], nil
}

func (r *ContractReader) ReadUint(ctx context.Context, method string, args ...interface{}) (*big.Int, error) {
	v, err := r.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(v, new(*big.Int)).(**big.Int), nil
}

func (r *ContractReader) ReadAddress(ctx context.Context, method string, args ...interface{}) (common.Address, error) {
	v, err := r.call(ctx, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	return *abi.ConvertType(v, new(common.Address)).(*common.Address), nil
}

func (r *ContractReader) ReadUintSlice(ctx context.Context, method string, args ...interface{}) ([]*big.Int, error) {
	v, err := r.call(ctx, method, args...)
	if err != nil {
		return nil, err
	}
	return *abi.ConvertType(v, new([]*big.Int)).(*[]*big.Int), nil
}

func isContextDone(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// BreakerState reports the circuit breaker state, e.g. "closed" or "open".
func (r *ContractReader) BreakerState() string {
	return r.breaker.State().String()
}
