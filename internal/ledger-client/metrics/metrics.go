package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/txflow"
)

const namespace = "ledger_client"

// Collector records group fetch outcomes, transaction outcomes and the block
// of the latest snapshot on its own registry.
type Collector struct {
	registry *prometheus.Registry

	groupFetches *prometheus.CounterVec
	txOutcomes   *prometheus.CounterVec
	block        prometheus.Gauge
	breakerOpen  prometheus.GaugeFunc
}

func New(breakerOpen func() bool) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		groupFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "group_fetch_total",
			Help:      "Field group fetches by group and result.",
		}, []string{"group", "result"}),
		txOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tx_total",
			Help:      "Terminal transaction outcomes by kind.",
		}, []string{"kind", "outcome"}),
		block: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_block",
			Help:      "Block number stamped on the latest snapshot.",
		}),
	}

	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.groupFetches,
		c.txOutcomes,
		c.block,
	)

	if breakerOpen != nil {
		c.breakerOpen = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rpc_breaker_open",
			Help:      "1 while the contract read circuit breaker is open.",
		}, func() float64 {
			if breakerOpen() {
				return 1
			}
			return 0
		})
		c.registry.MustRegister(c.breakerOpen)
	}

	return c
}

func (c *Collector) ObserveGroup(group string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	c.groupFetches.WithLabelValues(group, result).Inc()
}

func (c *Collector) ObserveOutcome(kind txflow.Kind, state txflow.State, reason error) {
	outcome := string(state)
	if reason != nil {
		outcome = txflow.ReasonCode(reason)
	}
	c.txOutcomes.WithLabelValues(string(kind), outcome).Inc()
}

func (c *Collector) ObserveSnapshot(s snapshot.Snapshot) {
	c.block.Set(float64(s.BlockNumber))
}

// Track updates the block gauge from every published snapshot until the
// channel closes.
func (c *Collector) Track(updates <-chan snapshot.Snapshot) {
	for s := range updates {
		c.ObserveSnapshot(s)
	}
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}
