package pharmacy

import (
	"context"
	"fmt"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/pkg/pagination"
)

type medicineRepoMem struct{ store *memstore.Collection[Medicine] }

func NewMedicineRepoMem(seed ...Medicine) MedicineRepository {
	return &medicineRepoMem{store: memstore.New(seed)}
}

func (r *medicineRepoMem) Create(_ context.Context, m Medicine) error {
	return r.store.Update(func(items []Medicine) ([]Medicine, error) {
		for _, existing := range items {
			if existing.ID == m.ID {
				return nil, fmt.Errorf("%w: %s", identifier.ErrDuplicateIdentifier, m.ID)
			}
		}
		return append(items, m), nil
	})
}

func (r *medicineRepoMem) GetByID(_ context.Context, id string) (Medicine, error) {
	m, ok := r.store.Find(func(m Medicine) bool { return m.ID == id })
	if !ok {
		return Medicine{}, fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	}
	return m, nil
}

func (r *medicineRepoMem) Modify(_ context.Context, id string, fn func(Medicine) (Medicine, error)) (Medicine, error) {
	var out Medicine
	err := r.store.Update(func(items []Medicine) ([]Medicine, error) {
		for i, m := range items {
			if m.ID != id {
				continue
			}
			next, err := fn(m)
			if err != nil {
				return nil, err
			}
			items[i] = next
			out = next
			return items, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	})
	return out, err
}

func (r *medicineRepoMem) Delete(_ context.Context, id string) error {
	return r.store.Update(func(items []Medicine) ([]Medicine, error) {
		for i, m := range items {
			if m.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrMedicineNotFound, id)
	})
}

func (r *medicineRepoMem) List(_ context.Context, limit, offset int) ([]Medicine, int, error) {
	items, _ := r.store.Snapshot()
	page, total := pagination.Page(items, pagination.New(limit, offset))
	return page, total, nil
}

func (r *medicineRepoMem) All(_ context.Context) ([]Medicine, error) {
	items, _ := r.store.Snapshot()
	return items, nil
}
