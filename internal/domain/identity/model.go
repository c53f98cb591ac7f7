package identity

// Specialization is a doctor's clinical specialty.
type Specialization string

const (
	General    Specialization = "General"
	Cardiology Specialization = "Cardiology"
	Neurology  Specialization = "Neurology"
	Pediatrics Specialization = "Pediatrics"
	Surgery    Specialization = "Surgery"
)

// Specializations lists the known specialties in display order.
var Specializations = []Specialization{General, Cardiology, Neurology, Pediatrics, Surgery}

var specializationCodes = map[Specialization]string{
	General:    "GP",
	Cardiology: "CD",
	Neurology:  "NL",
	Pediatrics: "PD",
	Surgery:    "SG",
}

// Code returns the two-letter id prefix for s.
func (s Specialization) Code() (string, bool) {
	c, ok := specializationCodes[s]
	return c, ok
}

// Rank is a doctor's seniority. It drives the default consultation fee.
type Rank string

const (
	SeniorConsultant Rank = "Senior Consultant"
	Specialist       Rank = "Specialist"
	JuniorResident   Rank = "Junior Resident"
	TraineeIntern    Rank = "Trainee/Intern"
)

var Ranks = []Rank{SeniorConsultant, Specialist, JuniorResident, TraineeIntern}

var validRanks = map[Rank]bool{
	SeniorConsultant: true, Specialist: true, JuniorResident: true, TraineeIntern: true,
}

// Valid reports whether r is a known rank.
func (r Rank) Valid() bool { return validRanks[r] }

// Doctor is a registered member of staff. Doctors are immutable once
// registered; they are only added or removed.
type Doctor struct {
	ID             string         `json:"id" yaml:"id"`
	Name           string         `json:"name" yaml:"name" validate:"required"`
	Specialization Specialization `json:"specialization" yaml:"specialization" validate:"required,oneof=General Cardiology Neurology Pediatrics Surgery"`
	WorkingHours   string         `json:"workingHours" yaml:"workingHours"`
	Rank           Rank           `json:"rank" yaml:"rank" validate:"required"`
}

// IDs returns the ids of doctors in order.
func IDs(doctors []Doctor) []string {
	ids := make([]string, len(doctors))
	for i, d := range doctors {
		ids[i] = d.ID
	}
	return ids
}
