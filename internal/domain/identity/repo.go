package identity

import (
	"context"
	"errors"
)

var ErrDoctorNotFound = errors.New("doctor not found")

type DoctorRepository interface {
	// Create fails with identifier.ErrDuplicateIdentifier if the id is taken.
	Create(ctx context.Context, d Doctor) error
	GetByID(ctx context.Context, id string) (Doctor, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Doctor, int, error)
	All(ctx context.Context) ([]Doctor, error)
}
