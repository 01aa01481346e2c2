// Package report renders settlements as text and spreadsheet-friendly CSV.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/halfsies-dev/halfsies/internal/model"
	"github.com/halfsies-dev/halfsies/internal/money"
)

const (
	rule       = "============================================================"
	shortRule  = "------------------------------"
	longRule   = "------------------------------------------------------------"
	createdFmt = "02.01.2006 15:04:05"
	dateFmt    = "02.01.06"
	csvDateFmt = "02.01.2006"
)

// BankReport is everything a statement report shows.
type BankReport struct {
	RunID        string
	Created      time.Time
	Source       string
	Settlement   model.BankSettlement
	Transactions []model.Transaction // kept by the filter
	Dropped      []model.Transaction // removed by the filter
}

// Period returns the first and last booking date, zero when empty.
func (r BankReport) Period() (start, end time.Time) {
	for i, txn := range r.Transactions {
		if i == 0 || txn.Date.Before(start) {
			start = txn.Date
		}
		if i == 0 || txn.Date.After(end) {
			end = txn.Date
		}
	}
	return start, end
}

// WriteBankText renders the monthly statement summary.
func WriteBankText(w io.Writer, r BankReport, loc money.Locale) error {
	b := &strings.Builder{}
	s := r.Settlement

	fmt.Fprintf(b, "%s\nMONATSABRECHNUNG\n%s\n", rule, rule)
	fmt.Fprintf(b, "Erstellt am: %s\n", r.Created.Format(createdFmt))
	if r.Source != "" {
		fmt.Fprintf(b, "Quelle: %s\n", r.Source)
	}
	if r.RunID != "" {
		fmt.Fprintf(b, "Lauf: %s\n", r.RunID)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "ZUSAMMENFASSUNG:\n%s\n", shortRule)
	fmt.Fprintf(b, "Gesamtausgaben:     %14s\n", loc.Format(s.TotalExpenses))
	fmt.Fprintf(b, "Gesamteinnahmen:    %14s\n", loc.Format(s.TotalIncome))
	fmt.Fprintf(b, "Nettoausgaben:      %14s\n", loc.Format(s.NetExpenses))
	fmt.Fprintf(b, "Pro Person:         %14s\n\n", loc.Format(s.AmountPerPerson))

	fmt.Fprintf(b, "ALLE RELEVANTEN TRANSAKTIONEN:\n%s\n", longRule)
	income, expenses := byDirection(r.Transactions)
	if len(income) > 0 {
		b.WriteString("EINNAHMEN:\n")
		for _, txn := range income {
			fmt.Fprintf(b, "%s | %-30s | +%s\n", txn.Date.Format(dateFmt), txn.Sender, loc.Format(txn.Amount.Abs()))
		}
		fmt.Fprintf(b, "\nSumme Einnahmen: +%s\n\n", loc.Format(s.TotalIncome))
	}
	if len(expenses) > 0 {
		b.WriteString("AUSGABEN:\n")
		for _, txn := range expenses {
			fmt.Fprintf(b, "%s | %-30s | -%s\n", txn.Date.Format(dateFmt), txn.Recipient, loc.Format(txn.Amount.Abs()))
		}
		fmt.Fprintf(b, "\nSumme Ausgaben: -%s\n\n", loc.Format(s.TotalExpenses))
	}

	if len(r.Dropped) > 0 {
		fmt.Fprintf(b, "NICHT BERÜCKSICHTIGT:\n%s\n", longRule)
		for _, txn := range sortedByDate(r.Dropped) {
			fmt.Fprintf(b, "%s | %-30s | %s\n", txn.Date.Format(dateFmt), txn.Counterparty(), signed(loc, txn.Amount))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(b, "AUSGLEICHSZAHLUNG:\n%s\n", shortRule)
	fmt.Fprintf(b, "Jede Person zahlt: %s\n", loc.Format(s.AmountPerPerson))
	fmt.Fprintf(b, "Ausgleichsbetrag: %s\n", loc.Format(s.SettlementAmount))

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteBankCSV renders the statement summary as semicolon-separated rows.
func WriteBankCSV(w io.Writer, r BankReport, loc money.Locale) error {
	s := r.Settlement
	rows := [][]string{
		{"MONATSABRECHNUNG"},
		{"Erstellt am:", r.Created.Format(csvDateFmt)},
		{},
		{"ZUSAMMENFASSUNG"},
		{"Gesamtausgaben:", loc.Format(s.TotalExpenses)},
		{"Gesamteinnahmen:", loc.Format(s.TotalIncome)},
		{"Nettoausgaben:", loc.Format(s.NetExpenses)},
		{"Pro Person:", loc.Format(s.AmountPerPerson)},
		{},
		{"ALLE TRANSAKTIONEN"},
		{"Datum", "Beschreibung", "Betrag"},
	}
	for _, txn := range sortedByDate(r.Transactions) {
		desc := "Ausgabe an " + txn.Recipient
		if txn.IsIncome() {
			desc = "Eingang von " + txn.Sender
		}
		rows = append(rows, []string{txn.Date.Format(csvDateFmt), desc, signed(loc, txn.Amount)})
	}
	return writeCSV(w, rows)
}

func byDirection(txns []model.Transaction) (income, expenses []model.Transaction) {
	for _, txn := range sortedByDate(txns) {
		switch {
		case txn.IsIncome():
			income = append(income, txn)
		case txn.IsExpense():
			expenses = append(expenses, txn)
		}
	}
	return income, expenses
}

// sortedByDate returns a copy of txns ordered by date, keeping source order
// for equal dates.
func sortedByDate(txns []model.Transaction) []model.Transaction {
	out := make([]model.Transaction, len(txns))
	copy(out, txns)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func signed(loc money.Locale, d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + loc.Format(d.Abs())
	}
	return "+" + loc.Format(d)
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing report CSV: %w", err)
	}
	return nil
}
