package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_NilReceiverIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", "200", time.Millisecond)
		m.ObserveDBQuery("SELECT", time.Millisecond, nil)
		m.ObservePoolStats("main", 1, 1, 0)
		m.ObserveSeriesCreated("ALL_ACCEPTED")
		m.ObserveRejectedOccurrences("OVERLAPPING_RESERVATIONS", 2)
		m.ObserveAllocatedSlots(3)
		m.ObserveAffectingRefresh(time.Second, nil)
	})
}

func TestMetrics_Observe(t *testing.T) {
	m := New("varaamo-test", prometheus.NewRegistry())

	m.ObserveSeriesCreated("PARTIALLY_REJECTED")
	m.ObserveRejectedOccurrences("OVERLAPPING_RESERVATIONS", 2)
	m.ObserveRejectedOccurrences("OVERLAPPING_RESERVATIONS", 0)
	m.ObserveAllocatedSlots(3)
	m.ObserveDBQuery("INSERT", time.Millisecond, errors.New("duplicate key"))
	m.ObserveAffectingRefresh(time.Second, errors.New("timeout"))
	m.ObservePoolStats("main", 4, 1, 3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeriesCreatedTotal.WithLabelValues("PARTIALLY_REJECTED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OccurrencesRejectedTotal.WithLabelValues("OVERLAPPING_RESERVATIONS")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.AllocatedSlotsTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DBQueryErrorsTotal.WithLabelValues("INSERT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AffectingRefreshErrorTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.DBIdleConnections.WithLabelValues("main")))
}
