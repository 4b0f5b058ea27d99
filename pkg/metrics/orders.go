package metrics

import "github.com/prometheus/client_golang/prometheus"

const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation"
	OutcomeFailed     = "failed"
)

// OrderMetrics counts order placement outcomes.
type OrderMetrics struct {
	placed    *prometheus.CounterVec
	items     *prometheus.CounterVec
	confirmed prometheus.Counter
}

// NewOrderMetrics registers the order metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	if reg == nil {
		return &OrderMetrics{}
	}
	placed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Order placement attempts by outcome.",
	}, []string{"outcome"})
	items := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_items_placed_total",
		Help: "Units committed by successful orders, by catalog kind.",
	}, []string{"kind"})
	confirmed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_confirmed_total",
		Help: "Orders moved from pending to completed after capture.",
	})
	reg.MustRegister(placed, items, confirmed)
	return &OrderMetrics{placed: placed, items: items, confirmed: confirmed}
}

// IncPlaced records one placement attempt.
func (m *OrderMetrics) IncPlaced(outcome string) {
	if m == nil || m.placed == nil {
		return
	}
	m.placed.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// AddItems records committed quantity for a catalog kind.
func (m *OrderMetrics) AddItems(kind string, qty int) {
	if m == nil || m.items == nil || qty <= 0 {
		return
	}
	m.items.WithLabelValues(normalizeLabel(kind)).Add(float64(qty))
}

// AddConfirmed records orders transitioned to completed.
func (m *OrderMetrics) AddConfirmed(n int64) {
	if m == nil || m.confirmed == nil || n <= 0 {
		return
	}
	m.confirmed.Add(float64(n))
}
