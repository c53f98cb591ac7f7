package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorders(t *testing.T) {
	m := New()
	m.Allocation("doctor", "ok")
	m.Allocation("doctor", "ok")
	m.Allocation("doctor", "exhausted")
	m.Ledger("add", nil)
	m.Ledger("add", errors.New("bad"))
	m.Invoice("Pending", false)
	m.Invoice("Paid", true)
	m.Bed("assigned")
	m.Stock("out", 5)
	m.Stock("out", 0)
	m.Assistant(true)

	if got := testutil.ToFloat64(m.IdentifiersAllocated.WithLabelValues("doctor", "ok")); got != 2 {
		t.Errorf("expected 2 doctor allocations, got %v", got)
	}
	if got := testutil.ToFloat64(m.LedgerChanges.WithLabelValues("add", "error")); got != 1 {
		t.Errorf("expected 1 failed add, got %v", got)
	}
	if got := testutil.ToFloat64(m.InvoicesCreated.WithLabelValues("Paid", "override")); got != 1 {
		t.Errorf("expected 1 override invoice, got %v", got)
	}
	if got := testutil.ToFloat64(m.StockMovements.WithLabelValues("out")); got != 5 {
		t.Errorf("expected 5 units out, got %v", got)
	}
	if got := testutil.ToFloat64(m.AssistantRequests.WithLabelValues("degraded")); got != 1 {
		t.Errorf("expected 1 degraded request, got %v", got)
	}
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.Allocation("doctor", "ok")
	m.Ledger("add", nil)
	m.Invoice("Paid", false)
	m.Bed("released")
	m.Stock("in", 3)
	m.Assistant(false)
	if err := m.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Errorf("expected nil metrics to skip writing, got %v", err)
	}
	if m.Registry() != nil {
		t.Error("expected nil registry")
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.Bed("assigned")
	path := filepath.Join(t.TempDir(), "frontdesk.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `frontdesk_bed_events_total{event="assigned"} 1`) {
		t.Errorf("unexpected textfile:\n%s", data)
	}
}
