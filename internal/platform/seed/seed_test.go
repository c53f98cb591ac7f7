package seed

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/pkg/money"
)

func TestDefault(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Doctors) != 4 || len(d.Patients) != 2 || len(d.Beds) != 4 || len(d.Medicines) != 2 || len(d.Invoices) != 1 {
		t.Fatalf("unexpected sizes: %d doctors, %d patients, %d beds, %d medicines, %d invoices",
			len(d.Doctors), len(d.Patients), len(d.Beds), len(d.Medicines), len(d.Invoices))
	}
	if got := patient.Total(d.Patients[0]); got != money.FromMajor(2500) {
		t.Errorf("expected James Wilson ledger 2500.00, got %s", got)
	}
	if d.Patients[1].Services == nil {
		t.Error("expected empty, non-nil services")
	}
	if !d.Beds[0].IsOccupied() || d.Beds[1].IsOccupied() {
		t.Error("unexpected bed occupancy")
	}
	if d.Medicines[1].Price != money.MustParse("125.50") {
		t.Errorf("unexpected price %s", d.Medicines[1].Price)
	}
	if d.Invoices[0].Amount != money.FromMajor(2500) {
		t.Errorf("unexpected invoice amount %s", d.Invoices[0].Amount)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	data := "doctors:\n  - id: SG100\n    name: Dr. Cut\n    specialization: Surgery\n    rank: Specialist\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	d, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Doctors) != 1 || d.Doctors[0].ID != "SG100" || len(d.Patients) != 0 {
		t.Errorf("unexpected dataset %+v", d)
	}
}

func TestSave_RoundTrip(t *testing.T) {
	d, err := Default()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "state.yaml")
	if err := Save(path, d); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Patients[0].Services[1].Cost != money.FromMajor(1500) {
		t.Errorf("cost changed on round trip: %s", got.Patients[0].Services[1].Cost)
	}
	if got.Medicines[1].Price != money.MustParse("125.50") || got.Invoices[0].Amount != money.FromMajor(2500) {
		t.Error("amounts changed on round trip")
	}
	if got.Beds[0].Occupant == nil || got.Beds[0].Occupant.DoctorID != "CD001" || got.Beds[1].Occupant != nil {
		t.Error("occupancy changed on round trip")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_Empty(t *testing.T) {
	d, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(d.Doctors) != 0 {
		t.Errorf("expected empty dataset")
	}
}

func TestParse_RejectsValuesWritesWouldRefuse(t *testing.T) {
	item := func(fields string) string {
		return "patients:\n  - id: P1\n    name: A\n    services:\n      - {id: S1, " + fields + "}\n"
	}
	tests := map[string]string{
		"zero cost":        item(`type: Other, name: x, cost: "0", quantity: 1`),
		"negative cost":    item(`type: Other, name: x, cost: "-10", quantity: 1`),
		"zero quantity":    item(`type: Other, name: x, cost: "10", quantity: 0`),
		"unknown type":     item(`type: Catering, name: x, cost: "10", quantity: 1`),
		"unnamed item":     item(`type: Other, cost: "10", quantity: 1`),
		"negative invoice": "invoices:\n  - {id: INV1, amount: \"-1\", status: Pending}\n",
		"unknown status":   "invoices:\n  - {id: INV1, amount: \"10\", status: Void}\n",
		"missing status":   "invoices:\n  - {id: INV1, amount: \"10\"}\n",
		"negative stock":   "medicines:\n  - {id: M1, name: X, stock: -1, price: \"1\", expiryDate: \"2025-01-01\"}\n",
		"free medicine":    "medicines:\n  - {id: M1, name: X, stock: 1, price: \"0\", expiryDate: \"2025-01-01\"}\n",
	}
	for name, data := range tests {
		if _, err := Parse(strings.NewReader(data)); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("%s: expected ErrInvalidSeed, got %v", name, err)
		}
	}

	ok := item(`type: Lab Test, name: MRI, cost: "3500", quantity: 1`) +
		"invoices:\n  - {id: INV1, amount: \"0\", status: Paid}\n"
	if _, err := Parse(strings.NewReader(ok)); err != nil {
		t.Errorf("valid data rejected: %v", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown field":       "nurses: []\n",
		"bad doctor prefix":   "doctors:\n  - {id: CD100, name: X, specialization: Surgery, rank: Specialist}\n",
		"duplicate doctor":    "doctors:\n  - {id: SG100, name: X, specialization: Surgery, rank: Specialist}\n  - {id: SG100, name: Y, specialization: Surgery, rank: Specialist}\n",
		"duplicate patient":   "patients:\n  - {id: P1, name: A}\n  - {id: P1, name: B}\n",
		"duplicate item":      "patients:\n  - id: P1\n    name: A\n    services:\n      - {id: S1, type: Other, name: x, cost: \"1\", quantity: 1}\n      - {id: S1, type: Other, name: y, cost: \"1\", quantity: 1}\n",
		"bad ward":            "beds:\n  - {id: B1, ward: Maternity, number: \"1\"}\n",
		"occupant no name":    "beds:\n  - id: B1\n    ward: ICU\n    number: \"1\"\n    occupant: {doctorName: X}\n",
		"bad money":           "medicines:\n  - {id: M1, name: X, price: \"1,000\"}\n",
		"duplicate invoice":   "invoices:\n  - {id: INV1, status: Pending}\n  - {id: INV1, status: Pending}\n",
		"medicine without id": "medicines:\n  - {name: X}\n",
		"doctor without rank": "doctors:\n  - {id: SG100, name: X, specialization: Surgery}\n",
	}
	for name, data := range tests {
		if _, err := Parse(strings.NewReader(data)); !errors.Is(err, ErrInvalidSeed) {
			t.Errorf("%s: expected ErrInvalidSeed, got %v", name, err)
		}
	}
}
