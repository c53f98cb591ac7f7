package pharmacy

import (
	"time"

	"github.com/medicare/frontdesk/pkg/money"
)

const ExpiryLayout = "2006-01-02"

// Medicine is a stocked drug.
type Medicine struct {
	ID                string      `json:"id" yaml:"id"`
	Name              string      `json:"name" yaml:"name" validate:"required"`
	Stock             int         `json:"stock" yaml:"stock" validate:"gte=0"`
	Price             money.Money `json:"price" yaml:"price" validate:"gt=0"`
	ExpiryDate        string      `json:"expiryDate" yaml:"expiryDate" validate:"required,datetime=2006-01-02"`
	MinStockThreshold int         `json:"minStockThreshold" yaml:"minStockThreshold" validate:"gte=0"`
}

// IsLowStock reports whether stock has fallen below the threshold.
func (m Medicine) IsLowStock() bool { return m.Stock < m.MinStockThreshold }

// IsExpired reports whether the expiry date is before asOf's calendar day.
// Unparseable dates are not treated as expired.
func (m Medicine) IsExpired(asOf time.Time) bool {
	exp, err := time.Parse(ExpiryLayout, m.ExpiryDate)
	if err != nil {
		return false
	}
	day := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return exp.Before(day)
}
