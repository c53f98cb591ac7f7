// Package recommend ranks doctors against a patient's diagnosis. Results are
// advisory: callers may always pick a different doctor or none at all.
package recommend

import (
	"sort"

	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
)

var diseaseSpecialization = map[string]identity.Specialization{
	"Hypertension": identity.Cardiology,
	"Heart Attack": identity.Cardiology,
	"Chest Pain":   identity.Cardiology,
	"Stroke":       identity.Neurology,
	"Migraine":     identity.Neurology,
	"Seizure":      identity.Neurology,
	"Flu":          identity.General,
	"Fever":        identity.General,
	"Diabetes":     identity.General,
	"Malaria":      identity.General,
	"Typhoid":      identity.General,
	"Dengue":       identity.General,
	"Covid-19":     identity.General,
	"Injury":       identity.Surgery,
	"Fracture":     identity.Surgery,
	"Burn":         identity.Surgery,
	"Skin Rash":    identity.General,
	"Stomach Pain": identity.General,
	"Other":        identity.General,
}

// Diseases returns the diagnoses with a known specialization, sorted.
func Diseases() []string {
	out := make([]string, 0, len(diseaseSpecialization))
	for d := range diseaseSpecialization {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// RequiredSpecialization maps a diagnosis to the specialty that should treat
// it. Unknown diagnoses map to General.
func RequiredSpecialization(disease string) identity.Specialization {
	if s, ok := diseaseSpecialization[disease]; ok {
		return s
	}
	return identity.General
}

// Score rates d for a patient needing required: 2 for an exact specialty
// match, 1 for a General or Pediatrics doctor when General care is required,
// otherwise 0.
func Score(d identity.Doctor, required identity.Specialization) int {
	switch {
	case d.Specialization == required:
		return 2
	case required == identity.General && (d.Specialization == identity.General || d.Specialization == identity.Pediatrics):
		return 1
	default:
		return 0
	}
}

// Ranked is a doctor with its score for one patient.
type Ranked struct {
	Doctor identity.Doctor `json:"doctor"`
	Score  int             `json:"score"`

	// Recommended marks an exact specialty match.
	Recommended bool `json:"recommended"`
}

// Rank scores doctors for p and orders them best first. Equal scores keep
// their input order. The input slice is not modified.
func Rank(p patient.Patient, doctors []identity.Doctor) []Ranked {
	required := RequiredSpecialization(p.Disease)
	out := make([]Ranked, len(doctors))
	for i, d := range doctors {
		s := Score(d, required)
		out[i] = Ranked{Doctor: d, Score: s, Recommended: s == 2}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// Recommend returns doctors ordered best first for p. An empty roster gives
// an empty result.
func Recommend(p patient.Patient, doctors []identity.Doctor) []identity.Doctor {
	ranked := Rank(p, doctors)
	out := make([]identity.Doctor, len(ranked))
	for i, r := range ranked {
		out[i] = r.Doctor
	}
	return out
}

// Suggest returns the pre-selected doctor for p, if any.
func Suggest(p patient.Patient, doctors []identity.Doctor) (identity.Doctor, bool) {
	ranked := Recommend(p, doctors)
	if len(ranked) == 0 {
		return identity.Doctor{}, false
	}
	return ranked[0], true
}
