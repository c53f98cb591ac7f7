package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/pkg/money"
)

var (
	ErrUnknownPatient          = errors.New("unknown patient")
	ErrInvalidStatus           = errors.New("invalid invoice status")
	ErrInvalidStatusTransition = errors.New("invalid invoice status transition")
)

type Service struct {
	invoices InvoiceRepository
	ids      *identifier.Allocator
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(invoices InvoiceRepository, ids *identifier.Allocator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		invoices: invoices,
		ids:      ids,
		now:      time.Now,
		log:      logger.With().Str("component", "billing").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// -- Invoice --

// CreateInvoice snapshots the ledger total of the patient named patientName
// into a new invoice. The name must match exactly. When override is set it
// replaces the ledger total.
func (s *Service) CreateInvoice(ctx context.Context, patientName string, patients []patient.Patient, override *money.Money, description string, status Status) (Invoice, error) {
	p, ok := patient.ByName(patients, patientName)
	if !ok {
		return Invoice{}, fmt.Errorf("%w: %q", ErrUnknownPatient, patientName)
	}
	return s.CreateInvoiceForPatient(ctx, p, override, description, status)
}

// CreateInvoiceForPatient is CreateInvoice for an already resolved patient.
func (s *Service) CreateInvoiceForPatient(ctx context.Context, p patient.Patient, override *money.Money, description string, status Status) (Invoice, error) {
	if status == "" {
		status = StatusPending
	}
	if !validStatuses[status] {
		return Invoice{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	amount := patient.Total(p)
	if override != nil {
		if override.IsNegative() {
			return Invoice{}, fmt.Errorf("%w: amount %s", ErrNegativeInput, *override)
		}
		amount = *override
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}
	inv := Invoice{
		ID:          s.ids.Next(identifier.KindInvoice),
		PatientID:   p.ID,
		PatientName: p.Name,
		Amount:      amount,
		Date:        s.now().Format("2006-01-02"),
		Status:      status,
		Description: description,
	}
	if err := s.invoices.Create(ctx, inv); err != nil {
		return Invoice{}, err
	}
	s.log.Info().
		Str("invoice_id", inv.ID).
		Str("patient_id", p.ID).
		Str("amount", amount.String()).
		Bool("override", override != nil).
		Msg("invoice created")
	return inv, nil
}

// UpdateStatus moves an invoice to status. Only Pending to Paid is allowed;
// setting the current status again is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (Invoice, error) {
	if !validStatuses[status] {
		return Invoice{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	inv, err := s.invoices.SetStatus(ctx, id, status, func(cur Invoice) error {
		if cur.Status == status || (cur.Status == StatusPending && status == StatusPaid) {
			return nil
		}
		return fmt.Errorf("%w: %s to %s", ErrInvalidStatusTransition, cur.Status, status)
	})
	if err != nil {
		return Invoice{}, err
	}
	s.log.Info().Str("invoice_id", id).Str("status", string(status)).Msg("invoice status updated")
	return inv, nil
}

func (s *Service) MarkPaid(ctx context.Context, id string) (Invoice, error) {
	return s.UpdateStatus(ctx, id, StatusPaid)
}

func (s *Service) Get(ctx context.Context, id string) (Invoice, error) {
	return s.invoices.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Invoice, int, error) {
	return s.invoices.List(ctx, limit, offset)
}

func (s *Service) All(ctx context.Context) ([]Invoice, error) {
	return s.invoices.All(ctx)
}

// PendingTotal sums the amounts of unpaid invoices.
func (s *Service) PendingTotal(ctx context.Context) (money.Money, error) {
	all, err := s.invoices.All(ctx)
	if err != nil {
		return 0, err
	}
	var total money.Money
	for _, inv := range all {
		if inv.Status == StatusPending {
			total += inv.Amount
		}
	}
	return total, nil
}
