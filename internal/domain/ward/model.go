package ward

import "encoding/json"

type Ward string

const (
	General Ward = "General"
	ICU     Ward = "ICU"
	Private Ward = "Private"
)

var Wards = []Ward{General, ICU, Private}

var validWards = map[Ward]bool{General: true, ICU: true, Private: true}

func (w Ward) Valid() bool { return validWards[w] }

// Unassigned is recorded as the attending doctor when none is chosen.
const Unassigned = "Unassigned"

// Occupancy describes who holds a bed. Names are kept for display; the
// ids are the references.
type Occupancy struct {
	PatientID   string `json:"patientId,omitempty" yaml:"patientId"`
	PatientName string `json:"patientName" yaml:"patientName"`
	AdmitDate   string `json:"admitDate" yaml:"admitDate"`
	DoctorID    string `json:"doctorId,omitempty" yaml:"doctorId"`
	DoctorName  string `json:"doctorName" yaml:"doctorName"`
}

// Bed is a bed in a ward. The occupancy fields exist exactly when the bed
// is occupied.
type Bed struct {
	ID       string     `json:"id" yaml:"id"`
	Ward     Ward       `json:"ward" yaml:"ward"`
	Number   string     `json:"number" yaml:"number"`
	Occupant *Occupancy `json:"-" yaml:"occupant,omitempty"`
}

func (b Bed) IsOccupied() bool { return b.Occupant != nil }

// Clone returns a copy of b with its own occupancy record.
func (b Bed) Clone() Bed {
	if b.Occupant != nil {
		o := *b.Occupant
		b.Occupant = &o
	}
	return b
}

// MarshalJSON flattens the occupancy into the bed record.
func (b Bed) MarshalJSON() ([]byte, error) {
	type flat struct {
		ID         string `json:"id"`
		Ward       Ward   `json:"ward"`
		Number     string `json:"number"`
		IsOccupied bool   `json:"isOccupied"`
		*Occupancy
	}
	return json.Marshal(flat{ID: b.ID, Ward: b.Ward, Number: b.Number, IsOccupied: b.IsOccupied(), Occupancy: b.Occupant})
}

// Assignment is a request to put a patient in a bed.
type Assignment struct {
	PatientID   string
	PatientName string `validate:"required"`
	DoctorID    string
	DoctorName  string
}
