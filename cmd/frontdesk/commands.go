package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/medicare/frontdesk/internal/domain/billing"
	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/internal/domain/pharmacy"
	"github.com/medicare/frontdesk/internal/domain/ward"
	"github.com/medicare/frontdesk/internal/frontdesk"
	"github.com/medicare/frontdesk/pkg/money"
)

// -- Estimate --

func (a *app) estimateCmd() *cobra.Command {
	var (
		room, rank string
		days       int
		tax        float64

		roomRate, consultation, medicine, lab, surgery string
	)
	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate a bill from room, consultation and treatment figures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := a.desk.DefaultEstimateInputs(billing.RoomType(room), identity.Rank(rank))
			f := cmd.Flags()
			if f.Changed("days") {
				in.RoomDays = days
			}
			for _, o := range []struct {
				flag string
				raw  string
				dst  *money.Money
			}{
				{"room-rate", roomRate, &in.RoomRate},
				{"consultation", consultation, &in.Consultation},
				{"medicine", medicine, &in.MedicineCost},
				{"lab", lab, &in.LabTests},
				{"surgery", surgery, &in.SurgeryCost},
			} {
				if !f.Changed(o.flag) {
					continue
				}
				v, err := money.Parse(o.raw)
				if err != nil {
					return fmt.Errorf("--%s: %w", o.flag, err)
				}
				*o.dst = v
			}
			if f.Changed("tax") {
				in.TaxRate = money.RateFromPercent(tax)
			}

			b, err := a.desk.EstimateBill(in)
			if err != nil {
				return err
			}
			out := struct {
				Inputs    billing.Inputs    `json:"inputs"`
				Breakdown billing.Breakdown `json:"breakdown"`
			}{in, b}
			return a.emit(out, func(w io.Writer) { breakdownTable(w, in, b) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&room, "room", string(billing.RoomGeneral), "Room type: General, Semi-Private, Private or ICU")
	f.StringVar(&rank, "rank", string(identity.SeniorConsultant), "Consulting doctor's rank")
	f.IntVar(&days, "days", 1, "Days in room")
	f.StringVar(&roomRate, "room-rate", "", "Override the per-day room rate")
	f.StringVar(&consultation, "consultation", "", "Override the consultation fee")
	f.StringVar(&medicine, "medicine", "0", "Medicine cost")
	f.StringVar(&lab, "lab", "0", "Lab test cost")
	f.StringVar(&surgery, "surgery", "0", "Surgery cost")
	f.Float64Var(&tax, "tax", 0, "Tax rate in percent (default from DEFAULT_TAX_RATE)")
	return cmd
}

// -- Doctors --

func (a *app) doctorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Manage the doctor roster",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "id <specialization>",
		Short: "Propose a free doctor id for a specialization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.desk.AllocateDoctorID(cmd.Context(), identity.Specialization(args[0]))
			if err != nil {
				return err
			}
			return a.emit(map[string]string{"id": id}, func(w io.Writer) { fmt.Fprintln(w, id) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate <id> <specialization>",
		Short: "Check a manually chosen doctor id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.desk.ValidateDoctorID(cmd.Context(), args[0], identity.Specialization(args[1])); err != nil {
				return err
			}
			return a.emit(map[string]bool{"valid": true}, func(w io.Writer) { fmt.Fprintf(w, "%s is available\n", args[0]) })
		},
	})

	var doc identity.Doctor
	var spec, rank string
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a doctor; the id is allocated when --id is empty",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc.Specialization = identity.Specialization(spec)
			doc.Rank = identity.Rank(rank)
			created, err := a.desk.RegisterDoctor(cmd.Context(), doc)
			if err != nil {
				return err
			}
			return a.emit(created, func(w io.Writer) { doctorTable(w, []identity.Doctor{created}) })
		},
	}
	add.Flags().StringVar(&doc.ID, "id", "", "Doctor id, e.g. CD123")
	add.Flags().StringVar(&doc.Name, "name", "", "Full name")
	add.Flags().StringVar(&spec, "specialization", string(identity.General), "Specialization")
	add.Flags().StringVar(&rank, "rank", string(identity.Specialist), "Rank")
	add.Flags().StringVar(&doc.WorkingHours, "hours", "09:00 - 17:00", "Working hours")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a doctor from the roster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.desk.RemoveDoctor(cmd.Context(), args[0]); err != nil {
				return err
			}
			return a.emit(map[string]string{"removed": args[0]}, func(w io.Writer) { fmt.Fprintf(w, "removed %s\n", args[0]) })
		},
	})

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List the roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page.set(cmd) {
				doctors, total, err := a.desk.ListDoctors(cmd.Context(), page.limit, page.offset)
				if err != nil {
					return err
				}
				return a.emitPage(doctors, total, page, func(w io.Writer) { doctorTable(w, doctors) })
			}
			doctors, err := a.desk.Doctors(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(doctors, func(w io.Writer) { doctorTable(w, doctors) })
		},
	}
	page.register(list)
	cmd.AddCommand(list)
	return cmd
}

func (a *app) recommendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <patient-id>",
		Short: "Rank doctors for a patient's condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ranked, err := a.desk.RecommendDoctors(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(ranked, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tNAME\tSPECIALIZATION\tSCORE\t")
				for _, r := range ranked {
					mark := ""
					if r.Recommended {
						mark = "recommended"
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.Doctor.ID, r.Doctor.Name, r.Doctor.Specialization, r.Score, mark)
				}
			})
		},
	}
}

// -- Patients --

func (a *app) patientCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Admit, update and discharge patients",
	}

	var demo patient.Demographics
	admit := &cobra.Command{
		Use:   "admit",
		Short: "Admit a new patient",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.desk.AdmitPatient(cmd.Context(), demo)
			if err != nil {
				return err
			}
			return a.emit(p, func(w io.Writer) { patientTable(w, []patient.Patient{p}) })
		},
	}
	admit.Flags().StringVar(&demo.Name, "name", "", "Patient name")
	admit.Flags().StringVar(&demo.Disease, "disease", "", "Presenting condition")
	cmd.AddCommand(admit)

	var upd patient.Demographics
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Change a patient's name or condition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.desk.UpdatePatient(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return a.emit(p, func(w io.Writer) { patientTable(w, []patient.Patient{p}) })
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "Patient name")
	update.Flags().StringVar(&upd.Disease, "disease", "", "Presenting condition")
	cmd.AddCommand(update)

	cmd.AddCommand(&cobra.Command{
		Use:   "discharge <id>",
		Short: "Discharge a patient; beds they hold are reported, not released",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := a.desk.DischargePatient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(out, func(w io.Writer) {
				fmt.Fprintf(w, "discharged %s (%s), ledger %s\n", out.Patient.ID, out.Patient.Name, out.LedgerTotal.Format())
				for _, b := range out.HeldBeds {
					fmt.Fprintf(w, "still holds bed %s (%s %s)\n", b.ID, b.Ward, b.Number)
				}
			})
		},
	})

	var page pageFlags
	list := &cobra.Command{
		Use:   "list",
		Short: "List admitted patients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if page.set(cmd) {
				patients, total, err := a.desk.ListPatients(cmd.Context(), page.limit, page.offset)
				if err != nil {
					return err
				}
				return a.emitPage(patients, total, page, func(w io.Writer) { patientTable(w, patients) })
			}
			patients, err := a.desk.Patients(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(patients, func(w io.Writer) { patientTable(w, patients) })
		},
	}
	page.register(list)
	cmd.AddCommand(list)
	return cmd
}

// -- Ledger --

func (a *app) ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Show and edit a patient's service ledger",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show ledger lines and the running total",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.desk.Patient(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.showLedger(p)
		},
	})

	var (
		typ, name, cost, date string
		qty                   int
	)
	add := &cobra.Command{
		Use:   "add <patient-id>",
		Short: "Append a billable line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := money.Parse(cost)
			if err != nil {
				return fmt.Errorf("--cost: %w", err)
			}
			p, err := a.desk.AddServiceToPatient(cmd.Context(), args[0], patient.ServiceItem{
				Type:     patient.ServiceType(typ),
				Name:     name,
				Cost:     c,
				Quantity: qty,
				Date:     date,
			})
			if err != nil {
				return err
			}
			return a.showLedger(p)
		},
	}
	add.Flags().StringVar(&typ, "type", string(patient.ServiceOther), "Medicine, Lab Test, Surgery, Room, Consultation or Other")
	add.Flags().StringVar(&name, "name", "", "Line description")
	add.Flags().StringVar(&cost, "cost", "", "Unit cost")
	add.Flags().IntVar(&qty, "qty", 1, "Quantity")
	add.Flags().StringVar(&date, "date", "", "Service date (default today)")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <patient-id> <item-id>",
		Short: "Remove one line by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.desk.RemoveServiceFromPatient(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.showLedger(p)
		},
	})
	return cmd
}

func (a *app) showLedger(p patient.Patient) error {
	out := struct {
		Patient patient.Patient `json:"patient"`
		Total   money.Money     `json:"total"`
	}{p, patient.Total(p)}
	return a.emit(out, func(w io.Writer) { ledgerTable(w, p) })
}

// -- Beds --

func (a *app) bedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bed",
		Short: "Create, assign and release beds",
	}

	var search string
	list := &cobra.Command{
		Use:   "list",
		Short: "List beds; --search filters occupied beds by patient name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var beds []ward.Bed
			var err error
			if cmd.Flags().Changed("search") {
				beds, err = a.desk.SearchBeds(cmd.Context(), search)
			} else {
				beds, err = a.desk.Beds(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.emit(beds, func(w io.Writer) { bedTable(w, beds) })
		},
	}
	list.Flags().StringVar(&search, "search", "", "Patient name fragment")
	cmd.AddCommand(list)

	var wardName, number string
	create := &cobra.Command{
		Use:   "create",
		Short: "Add a bed to a ward",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.desk.CreateBed(cmd.Context(), ward.Ward(wardName), number)
			if err != nil {
				return err
			}
			return a.emit(b, func(w io.Writer) { bedTable(w, []ward.Bed{b}) })
		},
	}
	create.Flags().StringVar(&wardName, "ward", string(ward.General), "General, ICU or Private")
	create.Flags().StringVar(&number, "number", "", "Bed number")
	cmd.AddCommand(create)

	var doctorID string
	assign := &cobra.Command{
		Use:   "assign <bed-id> <patient-id>",
		Short: "Put a patient in a bed; the doctor defaults to the top recommendation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.desk.AssignBed(cmd.Context(), args[0], args[1], doctorID)
			if err != nil {
				return err
			}
			return a.emit(b, func(w io.Writer) { bedTable(w, []ward.Bed{b}) })
		},
	}
	assign.Flags().StringVar(&doctorID, "doctor", "", "Doctor id, or "+ward.Unassigned)
	cmd.AddCommand(assign)

	cmd.AddCommand(&cobra.Command{
		Use:   "release <bed-id>",
		Short: "Vacate a bed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := a.desk.ReleaseBed(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(b, func(w io.Writer) { bedTable(w, []ward.Bed{b}) })
		},
	})
	return cmd
}

// -- Invoices --

func (a *app) invoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Create and settle invoices",
	}

	var (
		byID                        bool
		amount, description, status string
	)
	create := &cobra.Command{
		Use:   "create <patient-name>",
		Short: "Invoice a patient for their ledger total or --amount",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var override *money.Money
			if cmd.Flags().Changed("amount") {
				v, err := money.Parse(amount)
				if err != nil {
					return fmt.Errorf("--amount: %w", err)
				}
				override = &v
			}
			var (
				inv billing.Invoice
				err error
			)
			if byID {
				inv, err = a.desk.CreateInvoiceForPatient(cmd.Context(), args[0], override, description, billing.Status(status))
			} else {
				inv, err = a.desk.CreateInvoice(cmd.Context(), args[0], override, description, billing.Status(status))
			}
			if err != nil {
				return err
			}
			return a.emit(inv, func(w io.Writer) { invoiceTable(w, []billing.Invoice{inv}) })
		},
	}
	create.Flags().BoolVar(&byID, "by-id", false, "Treat the argument as a patient id")
	create.Flags().StringVar(&amount, "amount", "", "Override the ledger total")
	create.Flags().StringVar(&description, "description", "", "Invoice description")
	create.Flags().StringVar(&status, "status", string(billing.StatusPending), "Pending or Paid")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "pay <invoice-id>",
		Short: "Mark an invoice paid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := a.desk.MarkInvoicePaid(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.emit(inv, func(w io.Writer) { invoiceTable(w, []billing.Invoice{inv}) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List invoices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			invoices, err := a.desk.Invoices(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(invoices, func(w io.Writer) { invoiceTable(w, invoices) })
		},
	})
	return cmd
}

// -- Pharmacy --

func (a *app) medicineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "medicine",
		Short: "Pharmacy stock",
	}

	var low, expired bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List medicines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				meds []pharmacy.Medicine
				err  error
			)
			switch {
			case low:
				meds, err = a.desk.LowStock(cmd.Context())
			case expired:
				meds, err = a.desk.ExpiredMedicines(cmd.Context())
			default:
				meds, err = a.desk.Medicines(cmd.Context())
			}
			if err != nil {
				return err
			}
			return a.emit(meds, func(w io.Writer) { medicineTable(w, meds) })
		},
	}
	list.Flags().BoolVar(&low, "low", false, "Only medicines below their threshold")
	list.Flags().BoolVar(&expired, "expired", false, "Only expired medicines")
	list.MarkFlagsMutuallyExclusive("low", "expired")
	cmd.AddCommand(list)

	var (
		med   pharmacy.Medicine
		price string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Stock a new medicine",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := money.Parse(price)
			if err != nil {
				return fmt.Errorf("--price: %w", err)
			}
			med.Price = p
			m, err := a.desk.AddMedicine(cmd.Context(), med)
			if err != nil {
				return err
			}
			return a.emit(m, func(w io.Writer) { medicineTable(w, []pharmacy.Medicine{m}) })
		},
	}
	add.Flags().StringVar(&med.Name, "name", "", "Medicine name")
	add.Flags().IntVar(&med.Stock, "stock", 0, "Units in stock")
	add.Flags().StringVar(&price, "price", "", "Unit price")
	add.Flags().StringVar(&med.ExpiryDate, "expiry", "", "Expiry date, YYYY-MM-DD")
	add.Flags().IntVar(&med.MinStockThreshold, "min", 0, "Low-stock threshold")
	cmd.AddCommand(add)

	cmd.AddCommand(&cobra.Command{
		Use:   "restock <medicine-id> <qty>",
		Short: "Add units to stock",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			m, err := a.desk.Restock(cmd.Context(), args[0], qty)
			if err != nil {
				return err
			}
			return a.emit(m, func(w io.Writer) { medicineTable(w, []pharmacy.Medicine{m}) })
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dispense <medicine-id> <qty> <patient-id>",
		Short: "Dispense to a patient and bill it to their ledger",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := parseQty(args[1])
			if err != nil {
				return err
			}
			_, p, err := a.desk.DispenseToPatient(cmd.Context(), args[0], qty, args[2])
			if err != nil {
				return err
			}
			return a.showLedger(p)
		},
	})
	return cmd
}

func parseQty(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: quantity %q is not a number", errUsage, s)
	}
	return n, nil
}

// -- Dashboard --

func (a *app) summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show desk totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.desk.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return a.emit(s, func(w io.Writer) {
				fmt.Fprintf(w, "Doctors\t%d\n", s.Doctors)
				fmt.Fprintf(w, "Patients\t%d\n", s.Patients)
				fmt.Fprintf(w, "Beds occupied / vacant\t%d / %d\n", s.OccupiedBeds, s.VacantBeds)
				fmt.Fprintf(w, "Invoices\t%d\n", s.Invoices)
				fmt.Fprintf(w, "Pending amount\t%s\n", s.PendingAmount.Format())
				fmt.Fprintf(w, "Low stock\t%d\n", s.LowStock)
				fmt.Fprintf(w, "Expired medicines\t%d\n", s.ExpiredMedicines)
			})
		},
	}
}

// -- Assistant --

func (a *app) askCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <topic> <question>",
		Short: "Ask the assistant about " + strings.Join(frontdesk.Topics, ", "),
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ans, err := a.desk.Ask(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			return a.emit(ans, func(w io.Writer) { fmt.Fprintln(w, ans.Text) })
		},
	}
}

func (a *app) availabilityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "availability <question>",
		Short: "Ask whether doctors are free right now",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ans, err := a.desk.CheckDoctorAvailability(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.emit(ans, func(w io.Writer) { fmt.Fprintln(w, ans.Text) })
		},
	}
}
