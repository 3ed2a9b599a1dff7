package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// OrderMetrics tracks checkout throughput and lifecycle changes.
type OrderMetrics struct {
	placementDuration *prometheus.HistogramVec
	placed            *prometheus.CounterVec
	placementFailures *prometheus.CounterVec
	cancelled         *prometheus.CounterVec
	returns           prometheus.Counter
	transitions       *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on reg. A nil registerer yields
// a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) (*OrderMetrics, error) {
	if reg == nil {
		return &OrderMetrics{}, nil
	}
	m := &OrderMetrics{
		placementDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "order_placement_duration_seconds",
			Help:    "Duration of the order placement transaction.",
			Buckets: prometheus.DefBuckets,
		}, []string{"payment_method"}),
		placed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_placed_total",
			Help: "Orders successfully placed.",
		}, []string{"payment_method"}),
		placementFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_placement_failures_total",
			Help: "Order placements that rolled back, by error code.",
		}, []string{"code"}),
		cancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "orders_cancelled_total",
			Help: "Orders cancelled by customers.",
		}, []string{"payment_method"}),
		returns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_returns_requested_total",
			Help: "Return requests recorded for delivered orders.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_status_transitions_total",
			Help: "Fulfillment status changes applied to orders.",
		}, []string{"to"}),
	}

	var err error
	for _, c := range []prometheus.Collector{
		m.placementDuration, m.placed, m.placementFailures, m.cancelled, m.returns, m.transitions,
	} {
		err = multierr.Append(err, reg.Register(c))
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ObservePlacement records a successful placement.
func (m *OrderMetrics) ObservePlacement(method string, duration time.Duration) {
	if m == nil || m.placed == nil {
		return
	}
	label := normalizeLabel(method)
	m.placementDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.placed.WithLabelValues(label).Inc()
}

// IncPlacementFailure counts a rolled back placement.
func (m *OrderMetrics) IncPlacementFailure(code string) {
	if m == nil || m.placementFailures == nil {
		return
	}
	m.placementFailures.WithLabelValues(normalizeLabel(code)).Inc()
}

// IncCancelled counts a cancellation.
func (m *OrderMetrics) IncCancelled(method string) {
	if m == nil || m.cancelled == nil {
		return
	}
	m.cancelled.WithLabelValues(normalizeLabel(method)).Inc()
}

// IncReturnRequested counts a new return request.
func (m *OrderMetrics) IncReturnRequested() {
	if m == nil || m.returns == nil {
		return
	}
	m.returns.Inc()
}

// IncTransition counts an admin status change.
func (m *OrderMetrics) IncTransition(to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(to)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
