package pharmacy

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/pkg/money"
)

func seedMedicines() []Medicine {
	return []Medicine{
		{ID: "M001", Name: "Paracetamol 500mg", Stock: 150, Price: money.FromMajor(50), ExpiryDate: "2025-12-31", MinStockThreshold: 20},
		{ID: "M002", Name: "Amoxicillin 250mg", Stock: 45, Price: money.MustParse("125.50"), ExpiryDate: "2024-06-20", MinStockThreshold: 50},
	}
}

func newTestService() *Service {
	ids := identifier.New()
	for _, m := range seedMedicines() {
		ids.Observe(identifier.KindMedicine, m.ID)
	}
	return NewService(NewMedicineRepoMem(seedMedicines()...), ids, zerolog.Nop())
}

func TestAdd(t *testing.T) {
	svc := newTestService()
	m, err := svc.Add(context.Background(), Medicine{
		Name: "Ibuprofen 400mg", Stock: 80, Price: money.FromMajor(30), ExpiryDate: "2026-01-31", MinStockThreshold: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ID != "M003" {
		t.Errorf("expected M003, got %s", m.ID)
	}
}

func TestAdd_Invalid(t *testing.T) {
	svc := newTestService()
	tests := []struct {
		name string
		m    Medicine
	}{
		{"no name", Medicine{Stock: 1, Price: 100, ExpiryDate: "2026-01-01"}},
		{"negative stock", Medicine{Name: "X", Stock: -1, Price: 100, ExpiryDate: "2026-01-01"}},
		{"zero price", Medicine{Name: "X", Stock: 1, Price: 0, ExpiryDate: "2026-01-01"}},
		{"bad expiry", Medicine{Name: "X", Stock: 1, Price: 100, ExpiryDate: "31/12/2026"}},
	}
	for _, tt := range tests {
		if _, err := svc.Add(context.Background(), tt.m); !errors.Is(err, ErrInvalidMedicine) {
			t.Errorf("%s: expected ErrInvalidMedicine, got %v", tt.name, err)
		}
	}
}

func TestDispense(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	m, err := svc.Dispense(ctx, "M001", 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Stock != 120 {
		t.Errorf("expected 120, got %d", m.Stock)
	}
	if _, err := svc.Dispense(ctx, "M001", 121); !errors.Is(err, ErrInsufficientStock) {
		t.Errorf("expected ErrInsufficientStock, got %v", err)
	}
	got, _ := svc.Get(ctx, "M001")
	if got.Stock != 120 {
		t.Errorf("stock changed on failed dispense: %d", got.Stock)
	}
	if _, err := svc.Dispense(ctx, "M001", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
	if _, err := svc.Dispense(ctx, "M404", 1); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("expected ErrMedicineNotFound, got %v", err)
	}
}

func TestRestock(t *testing.T) {
	svc := newTestService()
	m, err := svc.Restock(context.Background(), "M002", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Stock != 55 || m.IsLowStock() {
		t.Errorf("expected 55 and not low, got %+v", m)
	}
	if _, err := svc.Restock(context.Background(), "M002", -5); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("expected ErrInvalidQuantity, got %v", err)
	}
}

func TestLowStock(t *testing.T) {
	svc := newTestService()
	low, err := svc.LowStock(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(low) != 1 || low[0].ID != "M002" {
		t.Errorf("expected [M002], got %v", low)
	}
}

func TestExpired(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	tests := []struct {
		asOf time.Time
		want int
	}{
		{time.Date(2024, 6, 20, 23, 0, 0, 0, time.UTC), 0},
		{time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), 2},
	}
	for _, tt := range tests {
		got, err := svc.Expired(ctx, tt.asOf)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != tt.want {
			t.Errorf("as of %s: expected %d expired, got %d", tt.asOf.Format(ExpiryLayout), tt.want, len(got))
		}
	}
}
