// Package metrics counts front-desk activity on a private registry. The CLI
// writes the registry to a node_exporter textfile when one is configured.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	registry *prometheus.Registry

	IdentifiersAllocated *prometheus.CounterVec
	LedgerChanges        *prometheus.CounterVec
	InvoicesCreated      *prometheus.CounterVec
	BedEvents            *prometheus.CounterVec
	StockMovements       *prometheus.CounterVec
	AssistantRequests    *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IdentifiersAllocated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "identifiers_allocated_total",
				Help:      "Identifiers handed out, by kind and outcome",
			},
			[]string{"kind", "outcome"}, // "ok", "exhausted", "rejected"
		),
		LedgerChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "ledger_changes_total",
				Help:      "Service ledger mutations",
			},
			[]string{"operation", "outcome"}, // "add", "remove"
		),
		InvoicesCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "invoices_created_total",
				Help:      "Invoices created, by status and amount source",
			},
			[]string{"status", "source"}, // "ledger", "override"
		),
		BedEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "bed_events_total",
				Help:      "Bed assignments and releases",
			},
			[]string{"event"},
		),
		StockMovements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "stock_units_total",
				Help:      "Medicine units moved, by direction",
			},
			[]string{"direction"}, // "in", "out"
		),
		AssistantRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "frontdesk",
				Name:      "assistant_requests_total",
				Help:      "Assistant questions, by outcome",
			},
			[]string{"outcome"}, // "answered", "degraded"
		),
	}
	m.registry.MustRegister(
		m.IdentifiersAllocated,
		m.LedgerChanges,
		m.InvoicesCreated,
		m.BedEvents,
		m.StockMovements,
		m.AssistantRequests,
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) Allocation(kind, outcome string) {
	if m == nil {
		return
	}
	m.IdentifiersAllocated.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Ledger(operation string, err error) {
	if m == nil {
		return
	}
	m.LedgerChanges.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *Metrics) Invoice(status string, override bool) {
	if m == nil {
		return
	}
	source := "ledger"
	if override {
		source = "override"
	}
	m.InvoicesCreated.WithLabelValues(status, source).Inc()
}

func (m *Metrics) Bed(event string) {
	if m == nil {
		return
	}
	m.BedEvents.WithLabelValues(event).Inc()
}

func (m *Metrics) Stock(direction string, units int) {
	if m == nil || units <= 0 {
		return
	}
	m.StockMovements.WithLabelValues(direction).Add(float64(units))
}

func (m *Metrics) Assistant(degraded bool) {
	if m == nil {
		return
	}
	if degraded {
		m.AssistantRequests.WithLabelValues("degraded").Inc()
		return
	}
	m.AssistantRequests.WithLabelValues("answered").Inc()
}

// WriteTextfile writes the current values in the text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
