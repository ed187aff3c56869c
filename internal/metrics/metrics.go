package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the ledger platform. All recording
// methods are nil-safe so services can run without metrics in tests.
type Metrics struct {
	// Transfer outcomes by status and movement type
	TransferOutcome *prometheus.CounterVec

	// Transfer latency including row locking and commit
	TransferLatency prometheus.Histogram

	// Mint request lifecycle events (requested, otp_verified, approved, rejected, cancelled)
	MintEvents *prometheus.CounterVec

	// OTP verification results (ok, mismatch, expired, exhausted)
	OTPVerifications *prometheus.CounterVec

	// Notification fan-out counters
	NotificationsEnqueued prometheus.Counter
	NotificationsDropped  prometheus.Counter
}

// New creates a new Metrics instance with all ledger metrics registered.
func New() *Metrics {
	return &Metrics{
		TransferOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_transfer_outcomes_total",
			Help: "Total transfer outcomes by status and transaction type",
		}, []string{"status", "type"}),

		TransferLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "cbdc_transfer_duration_seconds",
			Help:    "Duration of transfer execution including locking and commit",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		MintEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_mint_events_total",
			Help: "Total mint request lifecycle events",
		}, []string{"event"}),

		OTPVerifications: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "cbdc_otp_verifications_total",
			Help: "Total one-time passcode verification attempts by result",
		}, []string{"result"}),

		NotificationsEnqueued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbdc_notifications_enqueued_total",
			Help: "Total notifications accepted for fan-out",
		}),

		NotificationsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "cbdc_notifications_dropped_total",
			Help: "Total notifications that failed persistence after retry",
		}),
	}
}

// IncrementTransferOutcome records a transfer outcome.
func (m *Metrics) IncrementTransferOutcome(status, txnType string) {
	if m != nil {
		m.TransferOutcome.WithLabelValues(status, txnType).Inc()
	}
}

// ObserveTransferLatency records the duration of a transfer execution.
func (m *Metrics) ObserveTransferLatency(d time.Duration) {
	if m != nil {
		m.TransferLatency.Observe(d.Seconds())
	}
}

// IncrementMintEvent records a mint lifecycle event.
func (m *Metrics) IncrementMintEvent(event string) {
	if m != nil {
		m.MintEvents.WithLabelValues(event).Inc()
	}
}

// IncrementOTPVerification records an OTP verification result.
func (m *Metrics) IncrementOTPVerification(result string) {
	if m != nil {
		m.OTPVerifications.WithLabelValues(result).Inc()
	}
}

// IncrementNotificationsEnqueued records a notification accepted for fan-out.
func (m *Metrics) IncrementNotificationsEnqueued() {
	if m != nil {
		m.NotificationsEnqueued.Inc()
	}
}

// IncrementNotificationsDropped records a notification lost after retries.
func (m *Metrics) IncrementNotificationsDropped() {
	if m != nil {
		m.NotificationsDropped.Inc()
	}
}
