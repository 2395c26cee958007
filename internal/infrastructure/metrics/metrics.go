package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/transferledger/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted prometheus.Counter
	TransferDuration   prometheus.Histogram
	TransferAmount     prometheus.Histogram
	TransferErrors     *prometheus.CounterVec
	TransferRetries    prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transfer metrics
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferledger_transfers_completed_total",
			Help: "Total number of committed transfers",
		}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transferledger_transfer_duration_seconds",
			Help:    "Duration of transfer operations including retries",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "transferledger_transfer_amount",
			Help:    "Transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferledger_transfer_errors_total",
				Help: "Total number of rejected or failed transfers by kind",
			},
			[]string{"error_type"},
		),
		TransferRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferledger_transfer_retries_total",
			Help: "Total number of transfer attempts repeated after a transient conflict",
		}),

		// Account metrics
		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),

		// API metrics
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "transferledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "transferledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferledger_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "transferledger_idempotent_replays_total",
			Help: "Total responses served from the idempotency store",
		}),
	}
}

// AccountCreated implements usecase.Recorder.
func (m *Metrics) AccountCreated() {
	m.AccountsCreated.Inc()
}

// TransferCompleted implements usecase.Recorder.
func (m *Metrics) TransferCompleted(amount decimal.Decimal, duration time.Duration) {
	m.TransfersCompleted.Inc()
	m.TransferDuration.Observe(duration.Seconds())
	m.TransferAmount.Observe(amount.InexactFloat64())
}

// TransferFailed implements usecase.Recorder.
func (m *Metrics) TransferFailed(kind domain.ErrorKind) {
	m.TransferErrors.WithLabelValues(kind.String()).Inc()
}

// TransferRetried implements usecase.Recorder.
func (m *Metrics) TransferRetried() {
	m.TransferRetries.Inc()
}
