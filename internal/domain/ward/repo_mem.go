package ward

import (
	"context"
	"fmt"

	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/pkg/pagination"
)

type bedRepoMem struct{ store *memstore.Collection[Bed] }

func NewBedRepoMem(seed ...Bed) BedRepository {
	return &bedRepoMem{store: memstore.New(cloneAll(seed))}
}

func (r *bedRepoMem) Create(_ context.Context, b Bed) error {
	return r.store.Update(func(items []Bed) ([]Bed, error) {
		for _, existing := range items {
			if existing.ID == b.ID {
				return nil, fmt.Errorf("%w: id %s", ErrDuplicateBed, b.ID)
			}
			if existing.Ward == b.Ward && existing.Number == b.Number {
				return nil, fmt.Errorf("%w: %s %s", ErrDuplicateBed, b.Ward, b.Number)
			}
		}
		return append(items, b.Clone()), nil
	})
}

func (r *bedRepoMem) GetByID(_ context.Context, id string) (Bed, error) {
	b, ok := r.store.Find(func(b Bed) bool { return b.ID == id })
	if !ok {
		return Bed{}, fmt.Errorf("%w: %s", ErrBedNotFound, id)
	}
	return b.Clone(), nil
}

func (r *bedRepoMem) Modify(_ context.Context, id string, fn func(Bed) (Bed, error)) (Bed, error) {
	var out Bed
	err := r.store.Update(func(items []Bed) ([]Bed, error) {
		for i, b := range items {
			if b.ID != id {
				continue
			}
			next, err := fn(b.Clone())
			if err != nil {
				return nil, err
			}
			items[i] = next.Clone()
			out = next
			return items, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrBedNotFound, id)
	})
	return out, err
}

func (r *bedRepoMem) List(_ context.Context, limit, offset int) ([]Bed, int, error) {
	items, _ := r.store.Snapshot()
	page, total := pagination.Page(items, pagination.New(limit, offset))
	return cloneAll(page), total, nil
}

func (r *bedRepoMem) All(_ context.Context) ([]Bed, error) {
	items, _ := r.store.Snapshot()
	return cloneAll(items), nil
}

func cloneAll(items []Bed) []Bed {
	out := make([]Bed, len(items))
	for i, b := range items {
		out[i] = b.Clone()
	}
	return out
}
