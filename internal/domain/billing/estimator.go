package billing

import (
	"errors"
	"fmt"

	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/platform/validation"
	"github.com/medicare/frontdesk/pkg/money"
)

// ErrNegativeInput is returned when an estimate input or an invoice amount
// override is below zero.
var ErrNegativeInput = errors.New("negative input")

type RoomType string

const (
	RoomGeneral     RoomType = "General"
	RoomSemiPrivate RoomType = "Semi-Private"
	RoomPrivate     RoomType = "Private"
	RoomICU         RoomType = "ICU"
)

var RoomTypes = []RoomType{RoomGeneral, RoomSemiPrivate, RoomPrivate, RoomICU}

// RoomRates are the default per-day charges by room type.
var RoomRates = map[RoomType]money.Money{
	RoomGeneral:     money.FromMajor(500),
	RoomSemiPrivate: money.FromMajor(2000),
	RoomPrivate:     money.FromMajor(4000),
	RoomICU:         money.FromMajor(8000),
}

// ConsultationRates are the default consultation fees by doctor rank.
var ConsultationRates = map[identity.Rank]money.Money{
	identity.JuniorResident:   money.FromMajor(300),
	identity.Specialist:       money.FromMajor(800),
	identity.SeniorConsultant: money.FromMajor(1500),
	identity.TraineeIntern:    0,
}

// DefaultTaxRate is 10%.
var DefaultTaxRate = money.RateFromPercent(10)

// Inputs are the independent figures of a what-if estimate. Every field may
// be overridden; none may be negative.
type Inputs struct {
	RoomDays     int         `json:"roomDays" validate:"gte=0"`
	RoomRate     money.Money `json:"roomRate" validate:"gte=0"`
	Consultation money.Money `json:"consultation" validate:"gte=0"`
	MedicineCost money.Money `json:"medicineCost" validate:"gte=0"`
	LabTests     money.Money `json:"labTests" validate:"gte=0"`
	SurgeryCost  money.Money `json:"surgeryCost" validate:"gte=0"`
	TaxRate      money.Rate  `json:"taxRate" validate:"gte=0"`
}

// DefaultInputs returns one day in room with the rank's consultation fee and
// the default tax rate. Unknown room types or ranks default to zero.
func DefaultInputs(room RoomType, rank identity.Rank) Inputs {
	return Inputs{
		RoomDays:     1,
		RoomRate:     RoomRates[room],
		Consultation: ConsultationRates[rank],
		TaxRate:      DefaultTaxRate,
	}
}

// Breakdown is the result of an estimate.
type Breakdown struct {
	RoomCost       money.Money `json:"roomCost"`
	Consultation   money.Money `json:"consultation"`
	MedicineAndLab money.Money `json:"medicineAndLab"`
	Surgery        money.Money `json:"surgery"`
	Subtotal       money.Money `json:"subtotal"`
	TaxAmount      money.Money `json:"taxAmount"`
	GrandTotal     money.Money `json:"grandTotal"`
}

// Estimate computes a bill breakdown. It has no side effects.
func Estimate(in Inputs) (Breakdown, error) {
	if err := validation.Struct(in); err != nil {
		return Breakdown{}, fmt.Errorf("%w: %v", ErrNegativeInput, err)
	}
	b := Breakdown{
		RoomCost:       in.RoomRate.Mul(in.RoomDays),
		Consultation:   in.Consultation,
		MedicineAndLab: in.MedicineCost + in.LabTests,
		Surgery:        in.SurgeryCost,
	}
	b.Subtotal = money.Sum(b.Consultation, b.RoomCost, in.MedicineCost, in.LabTests, b.Surgery)
	b.TaxAmount = b.Subtotal.Apply(in.TaxRate)
	b.GrandTotal = b.Subtotal + b.TaxAmount
	return b, nil
}
