package ward

import (
	"context"
	"errors"
)

var (
	ErrBedNotFound  = errors.New("bed not found")
	ErrDuplicateBed = errors.New("bed already exists")
	ErrBedOccupied  = errors.New("bed is occupied")
	ErrBedVacant    = errors.New("bed is vacant")
	ErrInvalidBed   = errors.New("invalid bed")
)

type BedRepository interface {
	// Create fails with ErrDuplicateBed if the id or the ward and number pair
	// is already in use.
	Create(ctx context.Context, b Bed) error
	GetByID(ctx context.Context, id string) (Bed, error)
	Modify(ctx context.Context, id string, fn func(Bed) (Bed, error)) (Bed, error)
	List(ctx context.Context, limit, offset int) ([]Bed, int, error)
	All(ctx context.Context) ([]Bed, error)
}
