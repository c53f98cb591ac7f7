package patient

import (
	"context"
	"fmt"

	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/pkg/pagination"
)

// patientRepoMem stores patients by value. Every patient crossing the
// repository boundary is cloned so callers never share a ledger with the
// store.
type patientRepoMem struct{ store *memstore.Collection[Patient] }

func NewPatientRepoMem(seed ...Patient) PatientRepository {
	return &patientRepoMem{store: memstore.New(cloneAll(seed))}
}

func (r *patientRepoMem) Create(_ context.Context, p Patient) error {
	return r.store.Update(func(items []Patient) ([]Patient, error) {
		for _, existing := range items {
			if existing.ID == p.ID {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePatient, p.ID)
			}
		}
		return append(items, p.Clone()), nil
	})
}

func (r *patientRepoMem) GetByID(_ context.Context, id string) (Patient, error) {
	p, ok := r.store.Find(func(p Patient) bool { return p.ID == id })
	if !ok {
		return Patient{}, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	}
	return p.Clone(), nil
}

func (r *patientRepoMem) GetVersioned(_ context.Context, id string) (Patient, int, error) {
	items, version := r.store.Snapshot()
	for _, p := range items {
		if p.ID == id {
			return p.Clone(), version, nil
		}
	}
	return Patient{}, version, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
}

func (r *patientRepoMem) Modify(_ context.Context, id string, fn func(Patient) (Patient, error)) (Patient, error) {
	var out Patient
	err := r.store.Update(func(items []Patient) ([]Patient, error) {
		for i, p := range items {
			if p.ID != id {
				continue
			}
			next, err := fn(p.Clone())
			if err != nil {
				return nil, err
			}
			next.ID = p.ID
			items[i] = next.Clone()
			out = next
			return items, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
	})
	return out, err
}

func (r *patientRepoMem) Delete(_ context.Context, id string) error {
	return r.store.Update(func(items []Patient) ([]Patient, error) {
		return without(items, id)
	})
}

func (r *patientRepoMem) DeleteIf(_ context.Context, id string, version int) error {
	return r.store.UpdateIf(version, func(items []Patient) ([]Patient, error) {
		return without(items, id)
	})
}

func (r *patientRepoMem) List(_ context.Context, limit, offset int) ([]Patient, int, error) {
	items, _ := r.store.Snapshot()
	page, total := pagination.Page(items, pagination.New(limit, offset))
	return cloneAll(page), total, nil
}

func (r *patientRepoMem) All(_ context.Context) ([]Patient, error) {
	items, _ := r.store.Snapshot()
	return cloneAll(items), nil
}

func without(items []Patient, id string) ([]Patient, error) {
	for i, p := range items {
		if p.ID == id {
			return append(items[:i], items[i+1:]...), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPatientNotFound, id)
}

func cloneAll(items []Patient) []Patient {
	out := make([]Patient, len(items))
	for i, p := range items {
		out[i] = p.Clone()
	}
	return out
}
