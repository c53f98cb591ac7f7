package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/validation"
)

var (
	ErrInvalidDoctor         = errors.New("invalid doctor")
	ErrUnknownSpecialization = errors.New("unknown specialization")
)

type Service struct {
	doctors DoctorRepository
	ids     *identifier.Allocator
	log     zerolog.Logger
}

func NewService(doctors DoctorRepository, ids *identifier.Allocator, logger zerolog.Logger) *Service {
	return &Service{doctors: doctors, ids: ids, log: logger.With().Str("component", "identity").Logger()}
}

// -- Doctor ids --

func codeFor(spec Specialization) (string, error) {
	code, ok := spec.Code()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecialization, spec)
	}
	return code, nil
}

// ProposeDoctorID allocates a free id for a doctor of the given specialization.
func (s *Service) ProposeDoctorID(ctx context.Context, spec Specialization) (string, error) {
	code, err := codeFor(spec)
	if err != nil {
		return "", err
	}
	existing, err := s.doctors.All(ctx)
	if err != nil {
		return "", err
	}
	return s.ids.DoctorID(code, IDs(existing))
}

// ValidateDoctorID checks a manually entered id for the given specialization.
func (s *Service) ValidateDoctorID(ctx context.Context, id string, spec Specialization) error {
	code, err := codeFor(spec)
	if err != nil {
		return err
	}
	existing, err := s.doctors.All(ctx)
	if err != nil {
		return err
	}
	return s.ids.ValidateDoctorID(id, code, IDs(existing))
}

// -- Doctor --

// RegisterDoctor adds a doctor. An empty ID is allocated; a supplied ID is
// re-validated against the specialization and the current roster.
func (s *Service) RegisterDoctor(ctx context.Context, d Doctor) (Doctor, error) {
	if err := validation.Struct(d); err != nil {
		return Doctor{}, fmt.Errorf("%w: %v", ErrInvalidDoctor, err)
	}
	if !d.Rank.Valid() {
		return Doctor{}, fmt.Errorf("%w: invalid rank %q", ErrInvalidDoctor, d.Rank)
	}
	if d.ID == "" {
		id, err := s.ProposeDoctorID(ctx, d.Specialization)
		if err != nil {
			return Doctor{}, err
		}
		d.ID = id
	} else if err := s.ValidateDoctorID(ctx, d.ID, d.Specialization); err != nil {
		return Doctor{}, err
	}
	if err := s.doctors.Create(ctx, d); err != nil {
		return Doctor{}, err
	}
	s.log.Info().Str("doctor_id", d.ID).Str("specialization", string(d.Specialization)).Msg("doctor registered")
	return d, nil
}

func (s *Service) GetDoctor(ctx context.Context, id string) (Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

func (s *Service) RemoveDoctor(ctx context.Context, id string) error {
	if err := s.doctors.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("doctor_id", id).Msg("doctor removed")
	return nil
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

// Roster returns every registered doctor in registration order.
func (s *Service) Roster(ctx context.Context) ([]Doctor, error) {
	return s.doctors.All(ctx)
}
