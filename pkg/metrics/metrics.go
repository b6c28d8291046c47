package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор prometheus метрик сервиса
// Все методы Observe* безопасны для nil-получателя (метрики выключены)
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBQueryErrorsTotal *prometheus.CounterVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec

	SeriesCreatedTotal         *prometheus.CounterVec
	OccurrencesRejectedTotal   *prometheus.CounterVec
	AllocatedSlotsTotal        prometheus.Counter
	AffectingRefreshDuration   prometheus.Histogram
	AffectingRefreshErrorTotal prometheus.Counter
}

// New создает и регистрирует метрики в переданном registerer
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"operation"}),
		DBQueryErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_query_errors_total",
			Help:        "Total number of failed database queries",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of open database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		SeriesCreatedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_series_created_total",
			Help:        "Reservation series creation attempts by final state",
			ConstLabels: constLabels,
		}, []string{"state"}),
		OccurrencesRejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "reservation_occurrences_rejected_total",
			Help:        "Rejected recurring occurrences by reason",
			ConstLabels: constLabels,
		}, []string{"reason"}),
		AllocatedSlotsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "allocated_time_slots_total",
			Help:        "Allocated time slots produced by allocation runs",
			ConstLabels: constLabels,
		}),
		AffectingRefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "affecting_time_spans_refresh_duration_seconds",
			Help:        "Duration of affecting time spans rebuilds",
			ConstLabels: constLabels,
			Buckets:     []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		AffectingRefreshErrorTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "affecting_time_spans_refresh_errors_total",
			Help:        "Failed affecting time spans rebuilds",
			ConstLabels: constLabels,
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBQueryErrorsTotal,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.SeriesCreatedTotal,
		m.OccurrencesRejectedTotal,
		m.AllocatedSlotsTotal,
		m.AffectingRefreshDuration,
		m.AffectingRefreshErrorTotal,
	)

	return m
}

func (m *Metrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) ObserveDBQuery(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		m.DBQueryErrorsTotal.WithLabelValues(operation).Inc()
	}
}

func (m *Metrics) ObservePoolStats(db string, open, inUse, idle int) {
	if m == nil {
		return
	}
	m.DBOpenConnections.WithLabelValues(db).Set(float64(open))
	m.DBInUseConnections.WithLabelValues(db).Set(float64(inUse))
	m.DBIdleConnections.WithLabelValues(db).Set(float64(idle))
}

func (m *Metrics) ObserveSeriesCreated(state string) {
	if m == nil {
		return
	}
	m.SeriesCreatedTotal.WithLabelValues(state).Inc()
}

func (m *Metrics) ObserveRejectedOccurrences(reason string, count int) {
	if m == nil || count == 0 {
		return
	}
	m.OccurrencesRejectedTotal.WithLabelValues(reason).Add(float64(count))
}

func (m *Metrics) ObserveAllocatedSlots(count int) {
	if m == nil || count == 0 {
		return
	}
	m.AllocatedSlotsTotal.Add(float64(count))
}

func (m *Metrics) ObserveAffectingRefresh(duration time.Duration, err error) {
	if m == nil {
		return
	}
	m.AffectingRefreshDuration.Observe(duration.Seconds())
	if err != nil {
		m.AffectingRefreshErrorTotal.Inc()
	}
}
