package patient

import (
	"context"
	"errors"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrDuplicatePatient = errors.New("patient already exists")
)

type PatientRepository interface {
	Create(ctx context.Context, p Patient) error
	GetByID(ctx context.Context, id string) (Patient, error)
	// GetVersioned returns the patient with the store version it was read at.
	GetVersioned(ctx context.Context, id string) (Patient, int, error)
	// Modify replaces the patient with fn's result in one copy-on-write step.
	// If fn fails the stored patient is unchanged.
	Modify(ctx context.Context, id string, fn func(Patient) (Patient, error)) (Patient, error)
	Delete(ctx context.Context, id string) error
	// DeleteIf deletes only while the store is still at version. Otherwise it
	// returns memstore.ErrVersionConflict and nothing changes.
	DeleteIf(ctx context.Context, id string, version int) error
	List(ctx context.Context, limit, offset int) ([]Patient, int, error)
	All(ctx context.Context) ([]Patient, error)
}
