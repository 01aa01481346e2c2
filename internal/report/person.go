package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/halfsies-dev/halfsies/internal/model"
	"github.com/halfsies-dev/halfsies/internal/money"
)

const noComment = "Keine Beschreibung"

// PersonReport is everything an expense settlement report shows.
type PersonReport struct {
	RunID      string
	Created    time.Time
	Source     string
	Year       int
	Month      int
	People     []string // configured persons, listed even without expenses
	Settlement model.PersonSettlement
	Expenses   []model.Expense
}

// persons lists configured persons first, then anyone else with expenses.
func (r PersonReport) persons() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range append(append([]string(nil), r.People...), r.Settlement.Persons()...) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

func (r PersonReport) expensesOf(person string) []model.Expense {
	var out []model.Expense
	for _, e := range r.Expenses {
		if e.Person == person {
			out = append(out, e)
		}
	}
	return out
}

// Label renders a person id for display, e.g. "Person A".
func Label(person string) string {
	return "Person " + strings.ToUpper(person)
}

func comment(e model.Expense) string {
	if e.Comment == "" {
		return noComment
	}
	return e.Comment
}

// WritePersonText renders the expense settlement.
func WritePersonText(w io.Writer, r PersonReport, loc money.Locale) error {
	b := &strings.Builder{}
	s := r.Settlement

	fmt.Fprintf(b, "%s\nSETTLEMENT PRIVATAUSGABEN\n%s\n", rule, rule)
	fmt.Fprintf(b, "Zeitraum: %02d/%04d\n", r.Month, r.Year)
	fmt.Fprintf(b, "Erstellt am: %s\n", r.Created.Format(createdFmt))
	if r.Source != "" {
		fmt.Fprintf(b, "Quelle: %s\n", r.Source)
	}
	if r.RunID != "" {
		fmt.Fprintf(b, "Lauf: %s\n", r.RunID)
	}
	b.WriteString("\n")

	fmt.Fprintf(b, "ZUSAMMENFASSUNG:\n%s\n", shortRule)
	for _, p := range r.persons() {
		fmt.Fprintf(b, "%-20s%14s\n", Label(p)+":", loc.Format(s.TotalFor(p)))
	}
	fmt.Fprintf(b, "%-20s%14s\n", "Gesamtausgaben:", loc.Format(s.GrandTotal))
	fmt.Fprintf(b, "%-20s%14s\n\n", "Pro Person (50/50):", loc.Format(s.AmountPerPerson))

	fmt.Fprintf(b, "ALLE RELEVANTEN AUSGABEN:\n%s\n", longRule)
	for _, p := range r.persons() {
		exps := r.expensesOf(p)
		if len(exps) == 0 {
			continue
		}
		fmt.Fprintf(b, "%s:\n", strings.ToUpper(Label(p)))
		for _, e := range exps {
			fmt.Fprintf(b, "%-40s | %12s\n", comment(e), loc.Format(e.Amount))
		}
		fmt.Fprintf(b, "\nSumme %s: %s\n\n", Label(p), loc.Format(s.TotalFor(p)))
	}

	fmt.Fprintf(b, "AUSGLEICHSZAHLUNG:\n%s\n", shortRule)
	re := s.Reimbursement
	if re.IsZero() {
		fmt.Fprintf(b, "Jede Person zahlt: %s\n", loc.Format(re.Amount))
	} else {
		fmt.Fprintf(b, "%s zahlt an %s: %s\n", Label(re.Payer), Label(re.Recipient), loc.Format(re.Amount))
	}
	fmt.Fprintf(b, "Ausgleichsbetrag: %s\n", loc.Format(re.Amount))

	_, err := io.WriteString(w, b.String())
	return err
}

// WritePersonCSV renders the expense settlement as semicolon-separated rows.
func WritePersonCSV(w io.Writer, r PersonReport, loc money.Locale) error {
	s := r.Settlement
	rows := [][]string{
		{"SETTLEMENT PRIVATAUSGABEN - DETAILANALYSE"},
		{"Erstellt am:", r.Created.Format(csvDateFmt)},
		{"Zeitraum:", fmt.Sprintf("%02d/%04d", r.Month, r.Year)},
		{},
		{"ZUSAMMENFASSUNG"},
	}
	for _, p := range r.persons() {
		rows = append(rows, []string{Label(p) + ":", loc.Format(s.TotalFor(p))})
	}
	rows = append(rows,
		[]string{"Gesamtausgaben:", loc.Format(s.GrandTotal)},
		[]string{"Pro Person (50/50):", loc.Format(s.AmountPerPerson)},
		[]string{},
		[]string{"AUSGABEN NACH PERSON"},
		[]string{},
	)
	for _, p := range r.persons() {
		exps := r.expensesOf(p)
		if len(exps) == 0 {
			continue
		}
		rows = append(rows, []string{strings.ToUpper(Label(p))}, []string{"Beschreibung", "Betrag"})
		for _, e := range exps {
			rows = append(rows, []string{comment(e), loc.Format(e.Amount)})
		}
		rows = append(rows, []string{})
	}

	rows = append(rows, []string{"AUSGLEICHSZAHLUNG"})
	re := s.Reimbursement
	if re.IsZero() {
		rows = append(rows, []string{"Jede Person zahlt:", loc.Format(re.Amount)})
	} else {
		rows = append(rows, []string{fmt.Sprintf("%s zahlt an %s:", Label(re.Payer), Label(re.Recipient)), loc.Format(re.Amount)})
	}
	rows = append(rows, []string{"Ausgleichsbetrag:", loc.Format(re.Amount)})
	return writeCSV(w, rows)
}
