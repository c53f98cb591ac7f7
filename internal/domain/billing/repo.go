package billing

import (
	"context"
	"errors"
)

var ErrInvoiceNotFound = errors.New("invoice not found")

type InvoiceRepository interface {
	Create(ctx context.Context, inv Invoice) error
	GetByID(ctx context.Context, id string) (Invoice, error)
	// SetStatus changes only the status. check sees the stored invoice and
	// may veto the change.
	SetStatus(ctx context.Context, id string, status Status, check func(Invoice) error) (Invoice, error)
	List(ctx context.Context, limit, offset int) ([]Invoice, int, error)
	All(ctx context.Context) ([]Invoice, error)
}
