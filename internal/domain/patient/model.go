package patient

import "github.com/medicare/frontdesk/pkg/money"

// ServiceType classifies a billable line item.
type ServiceType string

const (
	ServiceMedicine     ServiceType = "Medicine"
	ServiceLabTest      ServiceType = "Lab Test"
	ServiceSurgery      ServiceType = "Surgery"
	ServiceRoom         ServiceType = "Room"
	ServiceConsultation ServiceType = "Consultation"
	ServiceOther        ServiceType = "Other"
)

var validServiceTypes = map[ServiceType]bool{
	ServiceMedicine:     true,
	ServiceLabTest:      true,
	ServiceSurgery:      true,
	ServiceRoom:         true,
	ServiceConsultation: true,
	ServiceOther:        true,
}

// ServiceItem is one billable line on a patient's ledger. It belongs to
// exactly one patient.
type ServiceItem struct {
	ID       string      `json:"id" yaml:"id"`
	Type     ServiceType `json:"type" yaml:"type"`
	Name     string      `json:"name" yaml:"name" validate:"required"`
	Cost     money.Money `json:"cost" yaml:"cost" validate:"gt=0"`
	Quantity int         `json:"quantity" yaml:"quantity" validate:"gte=1"`
	Date     string      `json:"date" yaml:"date"`
}

// LineTotal is cost times quantity.
func (s ServiceItem) LineTotal() money.Money { return s.Cost.Mul(s.Quantity) }

// Patient is an admitted patient. Services keep insertion order and form
// the audit trail of charges.
type Patient struct {
	ID        string        `json:"id" yaml:"id"`
	Name      string        `json:"name" yaml:"name" validate:"required"`
	Disease   string        `json:"disease" yaml:"disease"`
	AdmitDate string        `json:"admitDate" yaml:"admitDate"`
	AdmitTime string        `json:"admitTime" yaml:"admitTime"`
	Services  []ServiceItem `json:"services" yaml:"services"`
}

// Clone returns a copy of p whose ledger does not share memory with p.
func (p Patient) Clone() Patient {
	services := make([]ServiceItem, len(p.Services))
	copy(services, p.Services)
	p.Services = services
	return p
}

// Demographics holds the editable patient fields.
type Demographics struct {
	Name    string `json:"name" validate:"required"`
	Disease string `json:"disease"`
}
