package identity

import (
	"context"
	"fmt"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/pkg/pagination"
)

type doctorRepoMem struct{ store *memstore.Collection[Doctor] }

func NewDoctorRepoMem(seed ...Doctor) DoctorRepository {
	return &doctorRepoMem{store: memstore.New(seed)}
}

func (r *doctorRepoMem) Create(_ context.Context, d Doctor) error {
	return r.store.Update(func(items []Doctor) ([]Doctor, error) {
		for _, existing := range items {
			if existing.ID == d.ID {
				return nil, fmt.Errorf("%w: %s", identifier.ErrDuplicateIdentifier, d.ID)
			}
		}
		return append(items, d), nil
	})
}

func (r *doctorRepoMem) GetByID(_ context.Context, id string) (Doctor, error) {
	d, ok := r.store.Find(func(d Doctor) bool { return d.ID == id })
	if !ok {
		return Doctor{}, fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	}
	return d, nil
}

func (r *doctorRepoMem) Delete(_ context.Context, id string) error {
	return r.store.Update(func(items []Doctor) ([]Doctor, error) {
		for i, d := range items {
			if d.ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrDoctorNotFound, id)
	})
}

func (r *doctorRepoMem) List(_ context.Context, limit, offset int) ([]Doctor, int, error) {
	items, _ := r.store.Snapshot()
	page, total := pagination.Page(items, pagination.New(limit, offset))
	return page, total, nil
}

func (r *doctorRepoMem) All(_ context.Context) ([]Doctor, error) {
	items, _ := r.store.Snapshot()
	return items, nil
}
