package patient

import (
	"errors"
	"fmt"

	"github.com/medicare/frontdesk/internal/platform/validation"
	"github.com/medicare/frontdesk/pkg/money"
)

// ErrInvalidServiceItem is returned when a line item cannot be added to a
// ledger. The patient is left unchanged.
var ErrInvalidServiceItem = errors.New("invalid service item")

// AddService returns a copy of p with item appended to its services.
// p itself is never modified.
func AddService(p Patient, item ServiceItem) (Patient, error) {
	if err := validateItem(p, item); err != nil {
		return p, err
	}
	services := make([]ServiceItem, len(p.Services), len(p.Services)+1)
	copy(services, p.Services)
	p.Services = append(services, item)
	return p, nil
}

// ValidateLedger replays p's ledger through the AddService checks. It is used
// on data that did not arrive through AddService.
func ValidateLedger(p Patient) error {
	replay := Patient{ID: p.ID}
	for _, item := range p.Services {
		var err error
		if replay, err = AddService(replay, item); err != nil {
			return err
		}
	}
	return nil
}

func validateItem(p Patient, item ServiceItem) error {
	if item.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidServiceItem)
	}
	if err := validation.Struct(item); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidServiceItem, err)
	}
	if !validServiceTypes[item.Type] {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidServiceItem, item.Type)
	}
	for _, s := range p.Services {
		if s.ID == item.ID {
			return fmt.Errorf("%w: duplicate id %s", ErrInvalidServiceItem, item.ID)
		}
	}
	return nil
}

// RemoveService returns a copy of p without the item whose id matches.
// At most one item is removed; an unknown id returns p unchanged.
func RemoveService(p Patient, itemID string) Patient {
	for i, s := range p.Services {
		if s.ID != itemID {
			continue
		}
		services := make([]ServiceItem, 0, len(p.Services)-1)
		services = append(services, p.Services[:i]...)
		services = append(services, p.Services[i+1:]...)
		p.Services = services
		return p
	}
	return p
}

// Total is the ledger total: the sum of cost times quantity over every
// current service item. All totals shown for a patient go through here.
func Total(p Patient) money.Money {
	var total money.Money
	for _, s := range p.Services {
		total += s.LineTotal()
	}
	return total
}
