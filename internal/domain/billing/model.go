package billing

import "github.com/medicare/frontdesk/pkg/money"

type Status string

const (
	StatusPending Status = "Pending"
	StatusPaid    Status = "Paid"
)

var validStatuses = map[Status]bool{StatusPending: true, StatusPaid: true}

// Valid reports whether s is a known invoice status.
func (s Status) Valid() bool { return validStatuses[s] }

// DefaultDescription is used when an invoice is created without one.
const DefaultDescription = "General Hospital Services"

// Invoice is a point-in-time snapshot of a charge. Only Status changes after
// creation.
type Invoice struct {
	ID          string      `json:"id" yaml:"id"`
	PatientID   string      `json:"patientId,omitempty" yaml:"patientId"`
	PatientName string      `json:"patientName" yaml:"patientName"`
	Amount      money.Money `json:"amount" yaml:"amount"`
	Date        string      `json:"date" yaml:"date"`
	Status      Status      `json:"status" yaml:"status"`
	Description string      `json:"description" yaml:"description"`
}
