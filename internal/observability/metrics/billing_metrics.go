package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BillingMetrics tracks payment and wallet activity for alerting.
type BillingMetrics struct {
	paymentsApplied *prometheus.CounterVec
	paymentAmount   prometheus.Histogram
	walletTopups    prometheus.Counter
	stkPushLatency  prometheus.Histogram
	dueDateAdvance  prometheus.Histogram
}

var (
	billingMetricsOnce sync.Once
	billingMetrics     *BillingMetrics
)

func Billing() *BillingMetrics {
	return BillingWithConfig(Config{})
}

func BillingWithConfig(cfg Config) *BillingMetrics {
	billingMetricsOnce.Do(func() {
		billingMetrics = newBillingMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return billingMetrics
}

func ResetBillingMetricsForTest() {
	billingMetricsOnce = sync.Once{}
	billingMetrics = nil
}

func newBillingMetrics(registerer prometheus.Registerer, cfg Config) *BillingMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "brighteco"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	paymentsApplied := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "brighteco_payments_applied_total",
			Help:        "Total payments applied to billing state.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // success | rejected | failed
	)

	paymentAmount := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "brighteco_payment_amount",
			Help:        "Distribution of applied payment amounts in currency units.",
			Buckets:     []float64{100, 500, 1000, 2550, 5100, 10200, 25500},
			ConstLabels: constLabels,
		},
	)

	walletTopups := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "brighteco_wallet_topups_total",
			Help:        "Total wallet top-ups accepted.",
			ConstLabels: constLabels,
		},
	)

	stkPushLatency := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "brighteco_stk_push_latency_seconds",
			Help:        "Time from STK push initiation to gateway resolution.",
			Buckets:     []float64{0.5, 1, 1.5, 2, 3, 5, 10},
			ConstLabels: constLabels,
		},
	)

	dueDateAdvance := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:        "brighteco_due_date_advance_days",
			Help:        "Days the due date moved forward per applied payment.",
			Buckets:     []float64{0, 7, 15, 30, 60, 90, 180},
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(
		paymentsApplied,
		paymentAmount,
		walletTopups,
		stkPushLatency,
		dueDateAdvance,
	)

	return &BillingMetrics{
		paymentsApplied: paymentsApplied,
		paymentAmount:   paymentAmount,
		walletTopups:    walletTopups,
		stkPushLatency:  stkPushLatency,
		dueDateAdvance:  dueDateAdvance,
	}
}

func (m *BillingMetrics) IncPaymentApplied(result string) {
	if m == nil {
		return
	}
	m.paymentsApplied.WithLabelValues(result).Inc()
}

func (m *BillingMetrics) ObservePaymentAmount(amount int64) {
	if m == nil {
		return
	}
	m.paymentAmount.Observe(float64(amount))
}

func (m *BillingMetrics) IncWalletTopup() {
	if m == nil {
		return
	}
	m.walletTopups.Inc()
}

func (m *BillingMetrics) ObserveStkPushLatency(d time.Duration) {
	if m == nil {
		return
	}
	m.stkPushLatency.Observe(d.Seconds())
}

func (m *BillingMetrics) ObserveDueDateAdvance(days int) {
	if m == nil {
		return
	}
	if days < 0 {
		days = 0
	}
	m.dueDateAdvance.Observe(float64(days))
}
