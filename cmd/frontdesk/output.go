package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/medicare/frontdesk/internal/domain/billing"
	"github.com/medicare/frontdesk/internal/domain/identity"
	"github.com/medicare/frontdesk/internal/domain/patient"
	"github.com/medicare/frontdesk/internal/domain/pharmacy"
	"github.com/medicare/frontdesk/internal/domain/ward"
	"github.com/medicare/frontdesk/pkg/pagination"
)

// emit prints v as JSON with --json, otherwise as the table drawn by table.
func (a *app) emit(v any, table func(w io.Writer)) error {
	if a.asJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}

type pageFlags struct {
	limit, offset int
}

func (p *pageFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.limit, "limit", pagination.DefaultLimit, "Page size")
	cmd.Flags().IntVar(&p.offset, "offset", 0, "Rows to skip")
}

// set reports whether the caller asked for a page rather than everything.
func (p *pageFlags) set(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("limit") || cmd.Flags().Changed("offset")
}

// emitPage prints one page of rows. JSON output carries the paging envelope.
func (a *app) emitPage(rows any, total int, p pageFlags, table func(w io.Writer)) error {
	params := pagination.New(p.limit, p.offset)
	resp := pagination.NewResponse(rows, total, params.Limit, params.Offset)
	return a.emit(resp, func(w io.Writer) {
		table(w)
		if resp.HasMore {
			fmt.Fprintf(w, "\n%d of %d shown, next --offset %d\n", min(params.Limit, total-params.Offset), total, params.Offset+params.Limit)
		}
	})
}

func doctorTable(w io.Writer, doctors []identity.Doctor) {
	fmt.Fprintln(w, "ID\tNAME\tSPECIALIZATION\tRANK\tHOURS")
	for _, d := range doctors {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Specialization, d.Rank, d.WorkingHours)
	}
}

func patientTable(w io.Writer, patients []patient.Patient) {
	fmt.Fprintln(w, "ID\tNAME\tDISEASE\tADMITTED\tLEDGER")
	for _, p := range patients {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n", p.ID, p.Name, p.Disease, p.AdmitDate, p.AdmitTime, patient.Total(p).Format())
	}
}

func ledgerTable(w io.Writer, p patient.Patient) {
	fmt.Fprintf(w, "%s\t%s\n\n", p.ID, p.Name)
	fmt.Fprintln(w, "ITEM\tTYPE\tNAME\tCOST\tQTY\tLINE\tDATE")
	for _, s := range p.Services {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n", s.ID, s.Type, s.Name, s.Cost.Format(), s.Quantity, s.LineTotal().Format(), s.Date)
	}
	fmt.Fprintf(w, "\t\t\t\tTOTAL\t%s\t\n", patient.Total(p).Format())
}

func bedTable(w io.Writer, beds []ward.Bed) {
	fmt.Fprintln(w, "ID\tWARD\tNUMBER\tPATIENT\tDOCTOR\tSINCE")
	for _, b := range beds {
		if !b.IsOccupied() {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\n", b.ID, b.Ward, b.Number)
			continue
		}
		o := b.Occupant
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", b.ID, b.Ward, b.Number, o.PatientName, o.DoctorName, o.AdmitDate)
	}
}

func invoiceTable(w io.Writer, invoices []billing.Invoice) {
	fmt.Fprintln(w, "ID\tPATIENT\tAMOUNT\tDATE\tSTATUS\tDESCRIPTION")
	for _, inv := range invoices {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", inv.ID, inv.PatientName, inv.Amount.Format(), inv.Date, inv.Status, inv.Description)
	}
}

func medicineTable(w io.Writer, medicines []pharmacy.Medicine) {
	fmt.Fprintln(w, "ID\tNAME\tSTOCK\tMIN\tPRICE\tEXPIRY")
	for _, m := range medicines {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n", m.ID, m.Name, m.Stock, m.MinStockThreshold, m.Price.Format(), m.ExpiryDate)
	}
}

func breakdownTable(w io.Writer, in billing.Inputs, b billing.Breakdown) {
	fmt.Fprintf(w, "Room (%d day(s) x %s)\t%s\n", in.RoomDays, in.RoomRate.Format(), b.RoomCost.Format())
	fmt.Fprintf(w, "Consultation\t%s\n", b.Consultation.Format())
	fmt.Fprintf(w, "Medicine & lab\t%s\n", b.MedicineAndLab.Format())
	fmt.Fprintf(w, "Surgery\t%s\n", b.Surgery.Format())
	fmt.Fprintf(w, "Subtotal\t%s\n", b.Subtotal.Format())
	fmt.Fprintf(w, "Tax (%s)\t%s\n", in.TaxRate, b.TaxAmount.Format())
	fmt.Fprintf(w, "Grand total\t%s\n", b.GrandTotal.Format())
}
