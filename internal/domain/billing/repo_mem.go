package billing

import (
	"context"
	"fmt"

	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/platform/memstore"
	"github.com/medicare/frontdesk/pkg/pagination"
)

type invoiceRepoMem struct{ store *memstore.Collection[Invoice] }

func NewInvoiceRepoMem(seed ...Invoice) InvoiceRepository {
	return &invoiceRepoMem{store: memstore.New(seed)}
}

func (r *invoiceRepoMem) Create(_ context.Context, inv Invoice) error {
	return r.store.Update(func(items []Invoice) ([]Invoice, error) {
		for _, existing := range items {
			if existing.ID == inv.ID {
				return nil, fmt.Errorf("%w: %s", identifier.ErrDuplicateIdentifier, inv.ID)
			}
		}
		return append(items, inv), nil
	})
}

func (r *invoiceRepoMem) GetByID(_ context.Context, id string) (Invoice, error) {
	inv, ok := r.store.Find(func(inv Invoice) bool { return inv.ID == id })
	if !ok {
		return Invoice{}, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	}
	return inv, nil
}

func (r *invoiceRepoMem) SetStatus(_ context.Context, id string, status Status, check func(Invoice) error) (Invoice, error) {
	var out Invoice
	err := r.store.Update(func(items []Invoice) ([]Invoice, error) {
		for i, inv := range items {
			if inv.ID != id {
				continue
			}
			if check != nil {
				if err := check(inv); err != nil {
					return nil, err
				}
			}
			inv.Status = status
			items[i] = inv
			out = inv
			return items, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrInvoiceNotFound, id)
	})
	return out, err
}

func (r *invoiceRepoMem) List(_ context.Context, limit, offset int) ([]Invoice, int, error) {
	items, _ := r.store.Snapshot()
	page, total := pagination.Page(items, pagination.New(limit, offset))
	return page, total, nil
}

func (r *invoiceRepoMem) All(_ context.Context) ([]Invoice, error) {
	items, _ := r.store.Snapshot()
	return items, nil
}
