package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// OrderMetrics counts order lifecycle events.
type OrderMetrics struct {
	finalized   prometheus.Counter
	replays     prometheus.Counter
	transitions *prometheus.CounterVec
}

// NewOrderMetrics registers the order metrics on the provided registerer.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	finalized := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_finalized_total",
		Help: "Orders persisted at checkout.",
	})
	replays := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_idempotent_replays_total",
		Help: "Checkout submissions resolved to an already stored order.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_transitions_total",
		Help: "Order status transitions by target status.",
	}, []string{"to"})
	reg.MustRegister(finalized, replays, transitions)
	return &OrderMetrics{finalized: finalized, replays: replays, transitions: transitions}
}

func (m *OrderMetrics) IncFinalized() {
	if m == nil || m.finalized == nil {
		return
	}
	m.finalized.Inc()
}

func (m *OrderMetrics) IncReplay() {
	if m == nil || m.replays == nil {
		return
	}
	m.replays.Inc()
}

// IncTransition counts a committed move into status.
func (m *OrderMetrics) IncTransition(status string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(status)).Inc()
}
