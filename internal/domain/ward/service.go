package ward

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/validation"
)

type Service struct {
	beds BedRepository
	ids  *identifier.Allocator
	now  func() time.Time
	log  zerolog.Logger
}

type Option func(*Service)

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(beds BedRepository, ids *identifier.Allocator, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		beds: beds,
		ids:  ids,
		now:  time.Now,
		log:  logger.With().Str("component", "ward").Logger(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CreateBed adds a vacant bed.
func (s *Service) CreateBed(ctx context.Context, w Ward, number string) (Bed, error) {
	number = strings.TrimSpace(number)
	if !w.Valid() {
		return Bed{}, fmt.Errorf("%w: unknown ward %q", ErrInvalidBed, w)
	}
	if number == "" {
		return Bed{}, fmt.Errorf("%w: number is required", ErrInvalidBed)
	}
	b := Bed{ID: s.ids.Next(identifier.KindBed), Ward: w, Number: number}
	if err := s.beds.Create(ctx, b); err != nil {
		return Bed{}, err
	}
	s.log.Info().Str("bed_id", b.ID).Str("ward", string(w)).Msg("bed created")
	return b, nil
}

// Assign puts a patient in a vacant bed. An empty doctor name is recorded
// as Unassigned.
func (s *Service) Assign(ctx context.Context, bedID string, a Assignment) (Bed, error) {
	if err := validation.Struct(a); err != nil {
		return Bed{}, err
	}
	if a.DoctorName == "" {
		a.DoctorName = Unassigned
		a.DoctorID = ""
	}
	b, err := s.beds.Modify(ctx, bedID, func(b Bed) (Bed, error) {
		if b.IsOccupied() {
			return Bed{}, fmt.Errorf("%w: %s", ErrBedOccupied, b.ID)
		}
		b.Occupant = &Occupancy{
			PatientID:   a.PatientID,
			PatientName: a.PatientName,
			AdmitDate:   s.now().Format("2006-01-02"),
			DoctorID:    a.DoctorID,
			DoctorName:  a.DoctorName,
		}
		return b, nil
	})
	if err != nil {
		return Bed{}, err
	}
	s.log.Info().Str("bed_id", bedID).Str("patient_id", a.PatientID).Str("doctor", a.DoctorName).Msg("bed assigned")
	return b, nil
}

// Release vacates an occupied bed.
func (s *Service) Release(ctx context.Context, bedID string) (Bed, error) {
	b, err := s.beds.Modify(ctx, bedID, func(b Bed) (Bed, error) {
		if !b.IsOccupied() {
			return Bed{}, fmt.Errorf("%w: %s", ErrBedVacant, b.ID)
		}
		b.Occupant = nil
		return b, nil
	})
	if err != nil {
		return Bed{}, err
	}
	s.log.Info().Str("bed_id", bedID).Msg("bed released")
	return b, nil
}

func (s *Service) Get(ctx context.Context, id string) (Bed, error) {
	return s.beds.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Bed, int, error) {
	return s.beds.List(ctx, limit, offset)
}

func (s *Service) All(ctx context.Context) ([]Bed, error) {
	return s.beds.All(ctx)
}

// SearchOccupied returns occupied beds whose patient name contains term,
// ignoring case. An empty term matches every occupied bed.
func (s *Service) SearchOccupied(ctx context.Context, term string) ([]Bed, error) {
	all, err := s.beds.All(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	out := []Bed{}
	for _, b := range all {
		if !b.IsOccupied() {
			continue
		}
		if term == "" || strings.Contains(strings.ToLower(b.Occupant.PatientName), term) {
			out = append(out, b)
		}
	}
	return out, nil
}

// HeldBy returns the beds occupied by the given patient.
func (s *Service) HeldBy(ctx context.Context, patientID string) ([]Bed, error) {
	all, err := s.beds.All(ctx)
	if err != nil {
		return nil, err
	}
	var out []Bed
	for _, b := range all {
		if b.IsOccupied() && b.Occupant.PatientID != "" && b.Occupant.PatientID == patientID {
			out = append(out, b)
		}
	}
	return out, nil
}

// Occupancy counts occupied and vacant beds.
func (s *Service) Occupancy(ctx context.Context) (occupied, vacant int, err error) {
	all, err := s.beds.All(ctx)
	if err != nil {
		return 0, 0, err
	}
	for _, b := range all {
		if b.IsOccupied() {
			occupied++
		} else {
			vacant++
		}
	}
	return occupied, vacant, nil
}
