package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/internal/platform/validation"
	"github.com/medicare/frontdesk/pkg/money"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Service struct {
	patients PatientRepository
	ids      *identifier.Allocator
	now      func() time.Time
	log      zerolog.Logger
}

type Option func(*Service)

// WithClock sets the clock used to stamp admissions and service dates.
func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(patients PatientRepository, ids *identifier.Allocator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		patients: patients,
		ids:      ids,
		now:      time.Now,
		log:      logger.With().Str("component", "patient").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// -- Patient --

// Admit registers a new patient with an empty ledger, stamped with the
// current date and time.
func (s *Service) Admit(ctx context.Context, d Demographics) (Patient, error) {
	if err := validation.Struct(d); err != nil {
		return Patient{}, err
	}
	now := s.now()
	p := Patient{
		ID:        s.ids.Next(identifier.KindPatient),
		Name:      d.Name,
		Disease:   d.Disease,
		AdmitDate: now.Format(DateLayout),
		AdmitTime: now.Format(TimeLayout),
		Services:  []ServiceItem{},
	}
	if err := s.patients.Create(ctx, p); err != nil {
		return Patient{}, err
	}
	s.log.Info().Str("patient_id", p.ID).Msg("patient admitted")
	return p, nil
}

// Update edits demographic fields only; the ledger is untouched.
func (s *Service) Update(ctx context.Context, id string, d Demographics) (Patient, error) {
	if err := validation.Struct(d); err != nil {
		return Patient{}, err
	}
	return s.patients.Modify(ctx, id, func(p Patient) (Patient, error) {
		p.Name = d.Name
		p.Disease = d.Disease
		return p, nil
	})
}

// dischargeAttempts bounds how often Discharge re-reads a patient whose
// store changed between the read and the delete.
const dischargeAttempts = 3

// Discharge removes the patient and returns the final record. The record is
// exactly what was deleted: a ledger write racing the discharge makes it
// re-read instead of returning a stale total. Beds are not released here.
func (s *Service) Discharge(ctx context.Context, id string) (Patient, error) {
	for attempt := 1; ; attempt++ {
		p, version, err := s.patients.GetVersioned(ctx, id)
		if err != nil {
			return Patient{}, err
		}
		err = s.patients.DeleteIf(ctx, id, version)
		if err == nil {
			s.log.Info().Str("patient_id", id).Str("ledger_total", Total(p).String()).Msg("patient discharged")
			return p, nil
		}
		if !errors.Is(err, memstore.ErrVersionConflict) || attempt == dischargeAttempts {
			return Patient{}, fmt.Errorf("discharge %s: %w", id, err)
		}
		s.log.Debug().Str("patient_id", id).Int("attempt", attempt).Msg("patient changed during discharge, retrying")
	}
}

func (s *Service) Get(ctx context.Context, id string) (Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

func (s *Service) All(ctx context.Context) ([]Patient, error) {
	return s.patients.All(ctx)
}

// FindByName returns the first patient whose name matches exactly.
func (s *Service) FindByName(ctx context.Context, name string) (Patient, error) {
	all, err := s.patients.All(ctx)
	if err != nil {
		return Patient{}, err
	}
	if p, ok := ByName(all, name); ok {
		return p, nil
	}
	return Patient{}, fmt.Errorf("%w: %q", ErrPatientNotFound, name)
}

// ByName finds the first patient in patients whose name equals name.
// The match is case-sensitive.
func ByName(patients []Patient, name string) (Patient, bool) {
	for _, p := range patients {
		if p.Name == name {
			return p, true
		}
	}
	return Patient{}, false
}

// -- Ledger --

// AddService appends item to the patient's ledger. A missing id is
// allocated and a missing date defaults to today.
func (s *Service) AddService(ctx context.Context, patientID string, item ServiceItem) (Patient, ServiceItem, error) {
	if item.ID == "" {
		item.ID = s.ids.ServiceItemID()
	}
	if item.Date == "" {
		item.Date = s.now().Format(DateLayout)
	}
	p, err := s.patients.Modify(ctx, patientID, func(p Patient) (Patient, error) {
		return AddService(p, item)
	})
	if err != nil {
		return Patient{}, ServiceItem{}, err
	}
	s.log.Debug().
		Str("patient_id", patientID).
		Str("item_id", item.ID).
		Str("line_total", item.LineTotal().String()).
		Msg("service added")
	return p, item, nil
}

// RemoveService drops one item from the ledger. Removing an unknown item
// id is a no-op.
func (s *Service) RemoveService(ctx context.Context, patientID, itemID string) (Patient, error) {
	p, err := s.patients.Modify(ctx, patientID, func(p Patient) (Patient, error) {
		return RemoveService(p, itemID), nil
	})
	if err != nil {
		return Patient{}, err
	}
	s.log.Debug().Str("patient_id", patientID).Str("item_id", itemID).Msg("service removed")
	return p, nil
}

func (s *Service) LedgerTotal(ctx context.Context, patientID string) (money.Money, error) {
	p, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return 0, err
	}
	return Total(p), nil
}
