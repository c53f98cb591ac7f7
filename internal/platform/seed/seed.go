// Package seed loads the initial front-desk data set from YAML. The built-in
// data set is used when no file is configured.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/medicare/frontdesk/internal/domain/billing"
	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/internal/domain/pharmacy"
	"github.com/medicare/frontdesk/internal/domain/ward"
	"github.com/medicare/frontdesk/internal/platform/validation"
)

//go:embed default.yaml
var defaultData []byte

var ErrInvalidSeed = errors.New("invalid seed data")

type Dataset struct {
	Doctors   []identity.Doctor   `yaml:"doctors"`
	Patients  []patient.Patient   `yaml:"patients"`
	Beds      []ward.Bed          `yaml:"beds"`
	Medicines []pharmacy.Medicine `yaml:"medicines"`
	Invoices  []billing.Invoice   `yaml:"invoices"`
}

// Default returns the built-in data set.
func Default() (Dataset, error) {
	return Parse(bytes.NewReader(defaultData))
}

// Load reads a data set from path, or the built-in one when path is empty.
func Load(path string) (Dataset, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("open seed file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Save writes d to path as YAML in the form Load reads.
func Save(path string, d Dataset) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode seed: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write seed file: %w", err)
	}
	return nil
}

// Parse decodes and validates a YAML data set. Unknown fields are rejected.
func Parse(r io.Reader) (Dataset, error) {
	var d Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil && !errors.Is(err, io.EOF) {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidSeed, err)
	}
	for i := range d.Patients {
		if d.Patients[i].Services == nil {
			d.Patients[i].Services = []patient.ServiceItem{}
		}
	}
	if err := d.Validate(); err != nil {
		return Dataset{}, err
	}
	return d, nil
}

// Validate checks id uniqueness, the doctor id format and the same field
// rules the services enforce on writes, so a hand-edited file cannot load
// state the desk would have refused.
func (d Dataset) Validate() error {
	var doctorIDs []string
	for _, doc := range d.Doctors {
		if err := validation.Struct(doc); err != nil {
			return fmt.Errorf("%w: doctor %s: %v", ErrInvalidSeed, doc.ID, err)
		}
		code, ok := doc.Specialization.Code()
		if !ok {
			return fmt.Errorf("%w: doctor %s: unknown specialization %q", ErrInvalidSeed, doc.ID, doc.Specialization)
		}
		if err := identifier.ValidateDoctorID(doc.ID, code, doctorIDs); err != nil {
			return fmt.Errorf("%w: doctor %s: %v", ErrInvalidSeed, doc.ID, err)
		}
		doctorIDs = append(doctorIDs, doc.ID)
	}

	seen := map[string]bool{}
	for _, p := range d.Patients {
		if err := unique(seen, "patient", p.ID); err != nil {
			return err
		}
		if err := patient.ValidateLedger(p); err != nil {
			return fmt.Errorf("%w: patient %s: %v", ErrInvalidSeed, p.ID, err)
		}
	}

	seen = map[string]bool{}
	for _, b := range d.Beds {
		if err := unique(seen, "bed", b.ID); err != nil {
			return err
		}
		if !b.Ward.Valid() {
			return fmt.Errorf("%w: bed %s: unknown ward %q", ErrInvalidSeed, b.ID, b.Ward)
		}
		if b.Occupant != nil && b.Occupant.PatientName == "" {
			return fmt.Errorf("%w: bed %s: occupant without patient name", ErrInvalidSeed, b.ID)
		}
	}

	seen = map[string]bool{}
	for _, m := range d.Medicines {
		if err := unique(seen, "medicine", m.ID); err != nil {
			return err
		}
		if err := validation.Struct(m); err != nil {
			return fmt.Errorf("%w: medicine %s: %v", ErrInvalidSeed, m.ID, err)
		}
	}

	seen = map[string]bool{}
	for _, inv := range d.Invoices {
		if err := unique(seen, "invoice", inv.ID); err != nil {
			return err
		}
		if inv.Amount.IsNegative() {
			return fmt.Errorf("%w: invoice %s: negative amount %s", ErrInvalidSeed, inv.ID, inv.Amount)
		}
		if !inv.Status.Valid() {
			return fmt.Errorf("%w: invoice %s: unknown status %q", ErrInvalidSeed, inv.ID, inv.Status)
		}
	}
	return nil
}

func unique(seen map[string]bool, kind, id string) error {
	if id == "" {
		return fmt.Errorf("%w: %s without id", ErrInvalidSeed, kind)
	}
	if seen[id] {
		return fmt.Errorf("%w: duplicate %s id %s", ErrInvalidSeed, kind, id)
	}
	seen[id] = true
	return nil
}
