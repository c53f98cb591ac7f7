package billing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/pkg/money"
)

func newTestService(seed ...Invoice) *Service {
	ids := identifier.New()
	for _, inv := range seed {
		ids.Observe(identifier.KindInvoice, inv.ID)
	}
	clock := func() time.Time { return time.Date(2023, 10, 26, 12, 0, 0, 0, time.UTC) }
	return NewService(NewInvoiceRepoMem(seed...), ids, zerolog.Nop(), WithClock(clock))
}

func testPatients() []patient.Patient {
	return []patient.Patient{
		{ID: "P000001", Name: "James Wilson", Disease: "Hypertension", Services: []patient.ServiceItem{
			{ID: "S1", Type: patient.ServiceRoom, Name: "General Ward Charge", Cost: money.FromMajor(500), Quantity: 1},
			{ID: "S2", Type: patient.ServiceConsultation, Name: "Dr. Sarah Smith", Cost: money.FromMajor(1500), Quantity: 1},
		}},
		{ID: "P000002", Name: "Linda Taylor", Disease: "Flu"},
	}
}

func TestCreateInvoice_SnapshotsLedgerTotal(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	patients := testPatients()

	inv, err := svc.CreateInvoice(ctx, "James Wilson", patients, nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Amount != money.MustParse("2000.00") {
		t.Errorf("expected 2000.00, got %s", inv.Amount)
	}
	if inv.ID != "INV0001" || inv.PatientID != "P000001" || inv.Date != "2023-10-26" {
		t.Errorf("unexpected invoice %+v", inv)
	}
	if inv.Status != StatusPending || inv.Description != DefaultDescription {
		t.Errorf("unexpected defaults %+v", inv)
	}

	// Later ledger changes do not flow into the invoice.
	patients[0], _ = patient.AddService(patients[0], patient.ServiceItem{
		ID: "S3", Type: patient.ServiceOther, Name: "Late charge", Cost: money.FromMajor(100), Quantity: 1,
	})
	stored, _ := svc.Get(ctx, inv.ID)
	if stored.Amount != money.MustParse("2000.00") {
		t.Errorf("invoice changed after ledger update: %s", stored.Amount)
	}
}

func TestCreateInvoice_Override(t *testing.T) {
	svc := newTestService()
	amt := money.MustParse("1234.50")
	inv, err := svc.CreateInvoice(context.Background(), "Linda Taylor", testPatients(), &amt, "Partial Settlement", StatusPaid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Amount != amt || inv.Status != StatusPaid || inv.Description != "Partial Settlement" {
		t.Errorf("unexpected invoice %+v", inv)
	}
}

func TestCreateInvoice_ZeroOverride(t *testing.T) {
	svc := newTestService()
	var zero money.Money
	inv, err := svc.CreateInvoice(context.Background(), "James Wilson", testPatients(), &zero, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Amount != 0 {
		t.Errorf("expected explicit zero override to be kept, got %s", inv.Amount)
	}
}

func TestCreateInvoice_UnknownPatient(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	for _, name := range []string{"Nobody", "james wilson", ""} {
		if _, err := svc.CreateInvoice(ctx, name, testPatients(), nil, "", ""); !errors.Is(err, ErrUnknownPatient) {
			t.Errorf("%q: expected ErrUnknownPatient, got %v", name, err)
		}
	}
	all, _ := svc.All(ctx)
	if len(all) != 0 {
		t.Errorf("expected no invoices appended, got %d", len(all))
	}
}

func TestCreateInvoice_Rejects(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	neg := money.Money(-1)
	if _, err := svc.CreateInvoice(ctx, "James Wilson", testPatients(), &neg, "", ""); !errors.Is(err, ErrNegativeInput) {
		t.Errorf("expected ErrNegativeInput, got %v", err)
	}
	if _, err := svc.CreateInvoice(ctx, "James Wilson", testPatients(), nil, "", "Overdue"); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
	all, _ := svc.All(ctx)
	if len(all) != 0 {
		t.Errorf("expected no invoices appended, got %d", len(all))
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(Invoice{ID: "INV001", PatientName: "James Wilson", Amount: money.FromMajor(2500), Date: "2023-10-26", Status: StatusPending, Description: "Partial Settlement"})
	ctx := context.Background()

	paid, err := svc.MarkPaid(ctx, "INV001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Invoice{ID: "INV001", PatientName: "James Wilson", Amount: money.FromMajor(2500), Date: "2023-10-26", Status: StatusPaid, Description: "Partial Settlement"}
	if paid != want {
		t.Errorf("only status should change: got %+v", paid)
	}

	if _, err := svc.MarkPaid(ctx, "INV001"); err != nil {
		t.Errorf("repeat Paid should be a no-op, got %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, "INV001", StatusPending); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Errorf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if _, err := svc.MarkPaid(ctx, "INV404"); !errors.Is(err, ErrInvoiceNotFound) {
		t.Errorf("expected ErrInvoiceNotFound, got %v", err)
	}
}

func TestSequenceContinuesAfterSeed(t *testing.T) {
	svc := newTestService(Invoice{ID: "INV001", Status: StatusPending})
	inv, err := svc.CreateInvoice(context.Background(), "Linda Taylor", testPatients(), nil, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.ID != "INV0002" {
		t.Errorf("expected INV0002, got %s", inv.ID)
	}
}

func TestPendingTotal(t *testing.T) {
	svc := newTestService(
		Invoice{ID: "INV001", Amount: money.FromMajor(2500), Status: StatusPending},
		Invoice{ID: "INV002", Amount: money.FromMajor(100), Status: StatusPaid},
		Invoice{ID: "INV003", Amount: money.MustParse("0.50"), Status: StatusPending},
	)
	got, err := svc.PendingTotal(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != money.MustParse("2500.50") {
		t.Errorf("expected 2500.50, got %s", got)
	}
}
