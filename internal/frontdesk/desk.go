// Package frontdesk owns the front-desk collections and exposes the
// operations staff tools call: doctor ids, admissions, the service ledger,
// bed assignment with doctor recommendations, estimates, invoices, the
// pharmacy and the assistant.
package frontdesk

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/medicare/frontdesk/internal/domain/assistant"
	"github.com/medicare/frontdesk/internal/domain/billing"
	"github.com/medicare/frontdesk/internal/domain/identifier"
	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/internal/domain/pharmacy"
	"github.com/medicare/frontdesk/internal/domain/recommend"
	"github.com/medicare/frontdesk/internal/domain/ward"
	"github.com/medicare/frontdesk/internal/platform/metrics"
	"github.com/medicare/frontdesk/internal/platform/seed"
	"github.com/medicare/frontdesk/pkg/money"
)

var ErrUnknownTopic = errors.New("unknown assistant topic")

type Options struct {
	Logger  zerolog.Logger
	Metrics *metrics.Metrics

	// Generator backs the assistant. Nil disables it.
	Generator        assistant.Generator
	AssistantTimeout time.Duration

	// TaxRate overrides billing.DefaultTaxRate for default estimates.
	TaxRate          *money.Rate
	DoctorIDAttempts int
	Rand             *rand.Rand
	Clock            func() time.Time
}

// Desk is the single owner of the doctor, patient, bed, medicine and invoice
// collections.
type Desk struct {
	doctors   *identity.Service
	patients  *patient.Service
	beds      *ward.Service
	pharmacy  *pharmacy.Service
	billing   *billing.Service
	assistant *assistant.Assistant
	metrics   *metrics.Metrics
	taxRate   money.Rate
	now       func() time.Time
	log       zerolog.Logger
}

// New builds a desk holding data.
func New(data seed.Dataset, o Options) *Desk {
	now := o.Clock
	if now == nil {
		now = time.Now
	}
	idOpts := []identifier.Option{
		identifier.WithClock(now),
		identifier.WithAttempts(o.DoctorIDAttempts),
		identifier.WithLogger(o.Logger),
	}
	if o.Rand != nil {
		idOpts = append(idOpts, identifier.WithRand(o.Rand))
	}
	ids := identifier.New(idOpts...)
	observe(ids, data)

	taxRate := billing.DefaultTaxRate
	if o.TaxRate != nil {
		taxRate = *o.TaxRate
	}
	asstOpts := []assistant.Option{assistant.WithClock(now)}
	if o.AssistantTimeout > 0 {
		asstOpts = append(asstOpts, assistant.WithTimeout(o.AssistantTimeout))
	}

	return &Desk{
		doctors:   identity.NewService(identity.NewDoctorRepoMem(data.Doctors...), ids, o.Logger),
		patients:  patient.NewService(patient.NewPatientRepoMem(data.Patients...), ids, o.Logger, patient.WithClock(now)),
		beds:      ward.NewService(ward.NewBedRepoMem(data.Beds...), ids, o.Logger, ward.WithClock(now)),
		pharmacy:  pharmacy.NewService(pharmacy.NewMedicineRepoMem(data.Medicines...), ids, o.Logger),
		billing:   billing.NewService(billing.NewInvoiceRepoMem(data.Invoices...), ids, o.Logger, billing.WithClock(now)),
		assistant: assistant.New(o.Generator, o.Logger, asstOpts...),
		metrics:   o.Metrics,
		taxRate:   taxRate,
		now:       now,
		log:       o.Logger.With().Str("component", "frontdesk").Logger(),
	}
}

func observe(ids *identifier.Allocator, data seed.Dataset) {
	for _, p := range data.Patients {
		ids.Observe(identifier.KindPatient, p.ID)
	}
	for _, b := range data.Beds {
		ids.Observe(identifier.KindBed, b.ID)
	}
	for _, m := range data.Medicines {
		ids.Observe(identifier.KindMedicine, m.ID)
	}
	for _, inv := range data.Invoices {
		ids.Observe(identifier.KindInvoice, inv.ID)
	}
}

func (d *Desk) Metrics() *metrics.Metrics { return d.metrics }

// Snapshot copies the current collections into a data set that New accepts.
func (d *Desk) Snapshot(ctx context.Context) (seed.Dataset, error) {
	var (
		out seed.Dataset
		err error
	)
	if out.Doctors, err = d.doctors.Roster(ctx); err != nil {
		return seed.Dataset{}, err
	}
	if out.Patients, err = d.patients.All(ctx); err != nil {
		return seed.Dataset{}, err
	}
	if out.Beds, err = d.beds.All(ctx); err != nil {
		return seed.Dataset{}, err
	}
	if out.Medicines, err = d.pharmacy.All(ctx); err != nil {
		return seed.Dataset{}, err
	}
	if out.Invoices, err = d.billing.All(ctx); err != nil {
		return seed.Dataset{}, err
	}
	return out, nil
}

// -- Doctors --

// AllocateDoctorID proposes a free id for a new doctor. ErrAllocationExhausted
// means the caller should ask for a manual id.
func (d *Desk) AllocateDoctorID(ctx context.Context, spec identity.Specialization) (string, error) {
	id, err := d.doctors.ProposeDoctorID(ctx, spec)
	d.metrics.Allocation("doctor", allocationOutcome(err))
	return id, err
}

func (d *Desk) ValidateDoctorID(ctx context.Context, id string, spec identity.Specialization) error {
	return d.doctors.ValidateDoctorID(ctx, id, spec)
}

func (d *Desk) RegisterDoctor(ctx context.Context, doc identity.Doctor) (identity.Doctor, error) {
	doc, err := d.doctors.RegisterDoctor(ctx, doc)
	d.metrics.Allocation("doctor", allocationOutcome(err))
	return doc, err
}

func (d *Desk) RemoveDoctor(ctx context.Context, id string) error {
	return d.doctors.RemoveDoctor(ctx, id)
}

func (d *Desk) Doctors(ctx context.Context) ([]identity.Doctor, error) {
	return d.doctors.Roster(ctx)
}

func (d *Desk) ListDoctors(ctx context.Context, limit, offset int) ([]identity.Doctor, int, error) {
	return d.doctors.ListDoctors(ctx, limit, offset)
}

func allocationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, identifier.ErrAllocationExhausted):
		return "exhausted"
	default:
		return "rejected"
	}
}

// -- Patients --

func (d *Desk) AdmitPatient(ctx context.Context, demo patient.Demographics) (patient.Patient, error) {
	p, err := d.patients.Admit(ctx, demo)
	if err == nil {
		d.metrics.Allocation(string(identifier.KindPatient), "ok")
	}
	return p, err
}

func (d *Desk) UpdatePatient(ctx context.Context, id string, demo patient.Demographics) (patient.Patient, error) {
	return d.patients.Update(ctx, id, demo)
}

// Discharge is the outcome of discharging a patient.
type Discharge struct {
	Patient     patient.Patient `json:"patient"`
	LedgerTotal money.Money     `json:"ledgerTotal"`

	// HeldBeds are beds still occupied by the patient. They are not
	// released automatically.
	HeldBeds []ward.Bed `json:"heldBeds"`
}

func (d *Desk) DischargePatient(ctx context.Context, id string) (Discharge, error) {
	p, err := d.patients.Discharge(ctx, id)
	if err != nil {
		return Discharge{}, err
	}
	held, err := d.beds.HeldBy(ctx, id)
	if err != nil {
		return Discharge{}, err
	}
	if len(held) > 0 {
		d.log.Info().Str("patient_id", id).Int("beds", len(held)).Msg("discharged patient still holds beds")
	}
	return Discharge{Patient: p, LedgerTotal: patient.Total(p), HeldBeds: held}, nil
}

func (d *Desk) Patient(ctx context.Context, id string) (patient.Patient, error) {
	return d.patients.Get(ctx, id)
}

func (d *Desk) Patients(ctx context.Context) ([]patient.Patient, error) {
	return d.patients.All(ctx)
}

func (d *Desk) ListPatients(ctx context.Context, limit, offset int) ([]patient.Patient, int, error) {
	return d.patients.List(ctx, limit, offset)
}

// -- Ledger --

func (d *Desk) AddServiceToPatient(ctx context.Context, patientID string, item patient.ServiceItem) (patient.Patient, error) {
	p, _, err := d.patients.AddService(ctx, patientID, item)
	d.metrics.Ledger("add", err)
	return p, err
}

func (d *Desk) RemoveServiceFromPatient(ctx context.Context, patientID, itemID string) (patient.Patient, error) {
	p, err := d.patients.RemoveService(ctx, patientID, itemID)
	d.metrics.Ledger("remove", err)
	return p, err
}

func (d *Desk) LedgerTotal(ctx context.Context, patientID string) (money.Money, error) {
	return d.patients.LedgerTotal(ctx, patientID)
}

// -- Beds --

func (d *Desk) CreateBed(ctx context.Context, w ward.Ward, number string) (ward.Bed, error) {
	b, err := d.beds.CreateBed(ctx, w, number)
	if err == nil {
		d.metrics.Bed("created")
	}
	return b, err
}

// RecommendDoctors ranks the roster for a patient, best first.
func (d *Desk) RecommendDoctors(ctx context.Context, patientID string) ([]recommend.Ranked, error) {
	p, err := d.patients.Get(ctx, patientID)
	if err != nil {
		return nil, err
	}
	roster, err := d.doctors.Roster(ctx)
	if err != nil {
		return nil, err
	}
	return recommend.Rank(p, roster), nil
}

// AssignBed puts a patient in a bed. An empty doctorID takes the top
// recommendation, falling back to Unassigned when the roster is empty;
// ward.Unassigned assigns no doctor.
func (d *Desk) AssignBed(ctx context.Context, bedID, patientID, doctorID string) (ward.Bed, error) {
	p, err := d.patients.Get(ctx, patientID)
	if err != nil {
		return ward.Bed{}, err
	}
	a := ward.Assignment{PatientID: p.ID, PatientName: p.Name}
	switch doctorID {
	case ward.Unassigned:
	case "":
		roster, err := d.doctors.Roster(ctx)
		if err != nil {
			return ward.Bed{}, err
		}
		if doc, ok := recommend.Suggest(p, roster); ok {
			a.DoctorID, a.DoctorName = doc.ID, doc.Name
		}
	default:
		doc, err := d.doctors.GetDoctor(ctx, doctorID)
		if err != nil {
			return ward.Bed{}, err
		}
		a.DoctorID, a.DoctorName = doc.ID, doc.Name
	}
	b, err := d.beds.Assign(ctx, bedID, a)
	if err == nil {
		d.metrics.Bed("assigned")
	}
	return b, err
}

func (d *Desk) ReleaseBed(ctx context.Context, bedID string) (ward.Bed, error) {
	b, err := d.beds.Release(ctx, bedID)
	if err == nil {
		d.metrics.Bed("released")
	}
	return b, err
}

func (d *Desk) SearchBeds(ctx context.Context, term string) ([]ward.Bed, error) {
	return d.beds.SearchOccupied(ctx, term)
}

func (d *Desk) Beds(ctx context.Context) ([]ward.Bed, error) {
	return d.beds.All(ctx)
}

// -- Billing --

// DefaultEstimateInputs returns estimator defaults with the desk's tax rate.
func (d *Desk) DefaultEstimateInputs(room billing.RoomType, rank identity.Rank) billing.Inputs {
	in := billing.DefaultInputs(room, rank)
	in.TaxRate = d.taxRate
	return in
}

func (d *Desk) EstimateBill(in billing.Inputs) (billing.Breakdown, error) {
	return billing.Estimate(in)
}

// CreateInvoice invoices the patient whose name matches exactly.
func (d *Desk) CreateInvoice(ctx context.Context, patientName string, override *money.Money, description string, status billing.Status) (billing.Invoice, error) {
	all, err := d.patients.All(ctx)
	if err != nil {
		return billing.Invoice{}, err
	}
	inv, err := d.billing.CreateInvoice(ctx, patientName, all, override, description, status)
	if err == nil {
		d.metrics.Invoice(string(inv.Status), override != nil)
	}
	return inv, err
}

// CreateInvoiceForPatient invoices a patient by id.
func (d *Desk) CreateInvoiceForPatient(ctx context.Context, patientID string, override *money.Money, description string, status billing.Status) (billing.Invoice, error) {
	p, err := d.patients.Get(ctx, patientID)
	if err != nil {
		if errors.Is(err, patient.ErrPatientNotFound) {
			return billing.Invoice{}, fmt.Errorf("%w: %s", billing.ErrUnknownPatient, patientID)
		}
		return billing.Invoice{}, err
	}
	inv, err := d.billing.CreateInvoiceForPatient(ctx, p, override, description, status)
	if err == nil {
		d.metrics.Invoice(string(inv.Status), override != nil)
	}
	return inv, err
}

func (d *Desk) MarkInvoicePaid(ctx context.Context, id string) (billing.Invoice, error) {
	return d.billing.MarkPaid(ctx, id)
}

func (d *Desk) Invoices(ctx context.Context) ([]billing.Invoice, error) {
	return d.billing.All(ctx)
}

// -- Pharmacy --

func (d *Desk) AddMedicine(ctx context.Context, m pharmacy.Medicine) (pharmacy.Medicine, error) {
	m, err := d.pharmacy.Add(ctx, m)
	if err == nil {
		d.metrics.Stock("in", m.Stock)
	}
	return m, err
}

func (d *Desk) Restock(ctx context.Context, id string, qty int) (pharmacy.Medicine, error) {
	m, err := d.pharmacy.Restock(ctx, id, qty)
	if err == nil {
		d.metrics.Stock("in", qty)
	}
	return m, err
}

// DispenseToPatient takes qty units from stock and bills them to the
// patient's ledger as a Medicine line. If the ledger rejects the line the
// stock is put back.
func (d *Desk) DispenseToPatient(ctx context.Context, medicineID string, qty int, patientID string) (pharmacy.Medicine, patient.Patient, error) {
	if _, err := d.patients.Get(ctx, patientID); err != nil {
		return pharmacy.Medicine{}, patient.Patient{}, err
	}
	m, err := d.pharmacy.Dispense(ctx, medicineID, qty)
	if err != nil {
		return pharmacy.Medicine{}, patient.Patient{}, err
	}
	p, _, err := d.patients.AddService(ctx, patientID, patient.ServiceItem{
		Type:     patient.ServiceMedicine,
		Name:     m.Name,
		Cost:     m.Price,
		Quantity: qty,
	})
	d.metrics.Ledger("add", err)
	if err != nil {
		if _, rerr := d.pharmacy.Restock(ctx, medicineID, qty); rerr != nil {
			d.log.Error().Err(rerr).Str("medicine_id", medicineID).Int("qty", qty).Msg("failed to return stock after ledger error")
		}
		return pharmacy.Medicine{}, patient.Patient{}, err
	}
	d.metrics.Stock("out", qty)
	return m, p, nil
}

func (d *Desk) Medicines(ctx context.Context) ([]pharmacy.Medicine, error) {
	return d.pharmacy.All(ctx)
}

func (d *Desk) LowStock(ctx context.Context) ([]pharmacy.Medicine, error) {
	return d.pharmacy.LowStock(ctx)
}

func (d *Desk) ExpiredMedicines(ctx context.Context) ([]pharmacy.Medicine, error) {
	return d.pharmacy.Expired(ctx, d.now())
}

// -- Dashboard --

type Summary struct {
	Doctors          int         `json:"doctors"`
	Patients         int         `json:"patients"`
	OccupiedBeds     int         `json:"occupiedBeds"`
	VacantBeds       int         `json:"vacantBeds"`
	Invoices         int         `json:"invoices"`
	PendingAmount    money.Money `json:"pendingAmount"`
	LowStock         int         `json:"lowStock"`
	ExpiredMedicines int         `json:"expiredMedicines"`
}

func (d *Desk) Summary(ctx context.Context) (Summary, error) {
	var s Summary
	doctors, err := d.doctors.Roster(ctx)
	if err != nil {
		return s, err
	}
	patients, err := d.patients.All(ctx)
	if err != nil {
		return s, err
	}
	if s.OccupiedBeds, s.VacantBeds, err = d.beds.Occupancy(ctx); err != nil {
		return s, err
	}
	invoices, err := d.billing.All(ctx)
	if err != nil {
		return s, err
	}
	if s.PendingAmount, err = d.billing.PendingTotal(ctx); err != nil {
		return s, err
	}
	low, err := d.pharmacy.LowStock(ctx)
	if err != nil {
		return s, err
	}
	expired, err := d.pharmacy.Expired(ctx, d.now())
	if err != nil {
		return s, err
	}
	s.Doctors, s.Patients, s.Invoices = len(doctors), len(patients), len(invoices)
	s.LowStock, s.ExpiredMedicines = len(low), len(expired)
	return s, nil
}

// -- Assistant --

// Topics lists the data sets the assistant can be asked about.
var Topics = []string{"doctors", "patients", "beds", "medicines", "invoices"}

// Ask answers a question about one of Topics. Assistant failures come back
// as a degraded answer, not an error.
func (d *Desk) Ask(ctx context.Context, topic, question string) (assistant.Answer, error) {
	dataset, err := d.dataset(ctx, topic)
	if err != nil {
		return assistant.Answer{}, err
	}
	ans, err := d.assistant.Ask(ctx, topic, dataset, question)
	if err == nil {
		d.metrics.Assistant(ans.Degraded)
	}
	return ans, err
}

// CheckDoctorAvailability asks whether doctors are free given their hours and
// the beds they attend.
func (d *Desk) CheckDoctorAvailability(ctx context.Context, question string) (assistant.Answer, error) {
	roster, err := d.doctors.Roster(ctx)
	if err != nil {
		return assistant.Answer{}, err
	}
	beds, err := d.beds.All(ctx)
	if err != nil {
		return assistant.Answer{}, err
	}
	ans, err := d.assistant.CheckAvailability(ctx, roster, beds, question)
	if err == nil {
		d.metrics.Assistant(ans.Degraded)
	}
	return ans, err
}

func (d *Desk) dataset(ctx context.Context, topic string) (any, error) {
	switch topic {
	case "doctors":
		return d.doctors.Roster(ctx)
	case "patients":
		return d.patients.All(ctx)
	case "beds":
		return d.beds.All(ctx)
	case "medicines":
		return d.pharmacy.All(ctx)
	case "invoices":
		return d.billing.All(ctx)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, topic)
	}
}
