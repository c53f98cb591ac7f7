package pharmacy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/validation"
)

var (
	ErrInvalidMedicine   = errors.New("invalid medicine")
	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Service struct {
	medicines MedicineRepository
	ids       *identifier.Allocator
	log       zerolog.Logger
}

func NewService(medicines MedicineRepository, ids *identifier.Allocator, logger zerolog.Logger) *Service {
	return &Service{medicines: medicines, ids: ids, log: logger.With().Str("component", "pharmacy").Logger()}
}

// Add stocks a new medicine under a fresh id.
func (s *Service) Add(ctx context.Context, m Medicine) (Medicine, error) {
	if err := validation.Struct(m); err != nil {
		return Medicine{}, fmt.Errorf("%w: %v", ErrInvalidMedicine, err)
	}
	m.ID = s.ids.Next(identifier.KindMedicine)
	if err := s.medicines.Create(ctx, m); err != nil {
		return Medicine{}, err
	}
	s.log.Info().Str("medicine_id", m.ID).Int("stock", m.Stock).Msg("medicine added")
	return m, nil
}

func (s *Service) Remove(ctx context.Context, id string) error {
	return s.medicines.Delete(ctx, id)
}

// Restock adds qty units.
func (s *Service) Restock(ctx context.Context, id string, qty int) (Medicine, error) {
	if qty < 1 {
		return Medicine{}, ErrInvalidQuantity
	}
	m, err := s.medicines.Modify(ctx, id, func(m Medicine) (Medicine, error) {
		m.Stock += qty
		return m, nil
	})
	if err != nil {
		return Medicine{}, err
	}
	s.log.Debug().Str("medicine_id", id).Int("qty", qty).Int("stock", m.Stock).Msg("medicine restocked")
	return m, nil
}

// Dispense removes qty units. Stock never goes below zero.
func (s *Service) Dispense(ctx context.Context, id string, qty int) (Medicine, error) {
	if qty < 1 {
		return Medicine{}, ErrInvalidQuantity
	}
	m, err := s.medicines.Modify(ctx, id, func(m Medicine) (Medicine, error) {
		if m.Stock < qty {
			return Medicine{}, fmt.Errorf("%w: %s has %d, need %d", ErrInsufficientStock, m.ID, m.Stock, qty)
		}
		m.Stock -= qty
		return m, nil
	})
	if err != nil {
		return Medicine{}, err
	}
	if m.IsLowStock() {
		s.log.Warn().Str("medicine_id", id).Int("stock", m.Stock).Int("threshold", m.MinStockThreshold).Msg("medicine below threshold")
	}
	return m, nil
}

func (s *Service) Get(ctx context.Context, id string) (Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Medicine, int, error) {
	return s.medicines.List(ctx, limit, offset)
}

func (s *Service) All(ctx context.Context) ([]Medicine, error) {
	return s.medicines.All(ctx)
}

// LowStock returns medicines whose stock is below their threshold.
func (s *Service) LowStock(ctx context.Context) ([]Medicine, error) {
	return s.filter(ctx, Medicine.IsLowStock)
}

// Expired returns medicines whose expiry date is before asOf.
func (s *Service) Expired(ctx context.Context, asOf time.Time) ([]Medicine, error) {
	return s.filter(ctx, func(m Medicine) bool { return m.IsExpired(asOf) })
}

func (s *Service) filter(ctx context.Context, keep func(Medicine) bool) ([]Medicine, error) {
	all, err := s.medicines.All(ctx)
	if err != nil {
		return nil, err
	}
	out := []Medicine{}
	for _, m := range all {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out, nil
}
