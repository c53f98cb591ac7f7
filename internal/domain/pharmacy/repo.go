package pharmacy

import (
	"context"
	"errors"
)

var ErrMedicineNotFound = errors.New("medicine not found")

type MedicineRepository interface {
	Create(ctx context.Context, m Medicine) error
	GetByID(ctx context.Context, id string) (Medicine, error)
	Modify(ctx context.Context, id string, fn func(Medicine) (Medicine, error)) (Medicine, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]Medicine, int, error)
	All(ctx context.Context) ([]Medicine, error)
}
