package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantumauth-io/ledger-client/internal/ledger-client/snapshot"
	"github.com/quantumauth-io/ledger-client/internal/ledger-client/txflow"
)

func TestObserveGroup(t *testing.T) {
	c := New(nil)
	c.ObserveGroup("balances", true)
	c.ObserveGroup("balances", true)
	c.ObserveGroup("balances", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.groupFetches.WithLabelValues("balances", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.groupFetches.WithLabelValues("balances", "failed")))
}

func TestObserveOutcome(t *testing.T) {
	c := New(nil)
	c.ObserveOutcome(txflow.KindInvest, txflow.StateConfirmed, nil)
	c.ObserveOutcome(txflow.KindWithdrawROI, txflow.StateFailed, errors.Wrap(txflow.ErrNothingToWithdraw, "roi"))

	assert.Equal(t, 1.0, testutil.ToFloat64(c.txOutcomes.WithLabelValues("invest", "confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.txOutcomes.WithLabelValues("withdraw_roi", "nothing_to_withdraw")))
}

func TestTrackSetsBlockGauge(t *testing.T) {
	c := New(nil)
	updates := make(chan snapshot.Snapshot, 2)
	updates <- snapshot.Snapshot{BlockNumber: 41}
	updates <- snapshot.Snapshot{BlockNumber: 42}
	close(updates)

	c.Track(updates)
	assert.Equal(t, 42.0, testutil.ToFloat64(c.block))
}

func TestHandlerServesRegistry(t *testing.T) {
	open := true
	c := New(func() bool { return open })
	c.ObserveGroup("contract", true)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `ledger_client_group_fetch_total{group="contract",result="ok"} 1`)
	assert.Contains(t, body, "ledger_client_rpc_breaker_open 1")
}
