package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics коллекция метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueriesTotal      *prometheus.CounterVec
	DBQueryDuration     *prometheus.HistogramVec
	DBOpenConnections   *prometheus.GaugeVec
	DBInUseConnections  *prometheus.GaugeVec
	DBIdleConnections   *prometheus.GaugeVec
	DBWaitCount         *prometheus.GaugeVec
	DBTransactionsTotal *prometheus.CounterVec

	CacheRequestsTotal *prometheus.CounterVec

	EngineRetriesTotal   *prometheus.CounterVec
	EngineConflictsTotal *prometheus.CounterVec

	SeederRunsTotal    *prometheus.CounterVec
	SeederRecordsTotal *prometheus.CounterVec
}

// New создает и регистрирует метрики в prometheus.DefaultRegisterer
func New(serviceName string) *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer, serviceName)
}

// NewWithRegisterer создает метрики в указанном регистре (в тестах - prometheus.NewRegistry())
func NewWithRegisterer(reg prometheus.Registerer, serviceName string) *Metrics {
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

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: constLabels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: constLabels,
			Buckets:     []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of connections currently in use",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle connections",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: constLabels,
		}, []string{"db"}),
		DBTransactionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_transactions_total",
			Help:        "Total number of database transactions",
			ConstLabels: constLabels,
		}, []string{"isolation", "status"}),

		CacheRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "cache_requests_total",
			Help:        "Cache lookups by family and result (hit, miss, error, invalidate)",
			ConstLabels: constLabels,
		}, []string{"family", "result"}),

		EngineRetriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_engine_retries_total",
			Help:        "Slot engine mutation retries after a concurrent write",
			ConstLabels: constLabels,
		}, []string{"operation"}),
		EngineConflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "slot_engine_conflicts_total",
			Help:        "Slot state conflicts rejected by precondition guards",
			ConstLabels: constLabels,
		}, []string{"operation", "reason"}),

		SeederRunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "seeder_runs_total",
			Help:        "Rolling-window seeder runs",
			ConstLabels: constLabels,
		}, []string{"status"}),
		SeederRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "seeder_records_total",
			Help:        "Availability records processed by the seeder",
			ConstLabels: constLabels,
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.DBTransactionsTotal,
		m.CacheRequestsTotal,
		m.EngineRetriesTotal,
		m.EngineConflictsTotal,
		m.SeederRunsTotal,
		m.SeederRecordsTotal,
	)

	return m
}

// ObserveCache увеличивает счетчик обращений к кэшу; безопасен для nil
func (m *Metrics) ObserveCache(family, result string) {
	if m == nil {
		return
	}
	m.CacheRequestsTotal.WithLabelValues(family, result).Inc()
}

// ObserveEngineRetry увеличивает счетчик повторов движка; безопасен для nil
func (m *Metrics) ObserveEngineRetry(operation string) {
	if m == nil {
		return
	}
	m.EngineRetriesTotal.WithLabelValues(operation).Inc()
}

// ObserveEngineConflict увеличивает счетчик конфликтов состояния слота; безопасен для nil
func (m *Metrics) ObserveEngineConflict(operation, reason string) {
	if m == nil {
		return
	}
	m.EngineConflictsTotal.WithLabelValues(operation, reason).Inc()
}

// ObserveSeederRun фиксирует запуск сидера; безопасен для nil
func (m *Metrics) ObserveSeederRun(status string, created, skipped int) {
	if m == nil {
		return
	}
	m.SeederRunsTotal.WithLabelValues(status).Inc()
	m.SeederRecordsTotal.WithLabelValues("created").Add(float64(created))
	m.SeederRecordsTotal.WithLabelValues("skipped").Add(float64(skipped))
}
