package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BankSettlement is the 50/50 split of a filtered bank statement.
type BankSettlement struct {
	TotalExpenses   decimal.Decimal
	TotalIncome     decimal.Decimal
	NetExpenses     decimal.Decimal // TotalExpenses - TotalIncome, negative means net income
	AmountPerPerson decimal.Decimal
	// SettlementAmount mirrors AmountPerPerson.
	SettlementAmount decimal.Decimal
}

// Reimbursement is the single transfer that evens out a split.
// Payer and Recipient are empty when nothing is owed.
type Reimbursement struct {
	Payer     string
	Recipient string
	Amount    decimal.Decimal
}

// IsZero reports whether no transfer is needed.
func (r Reimbursement) IsZero() bool {
	return r.Payer == "" || r.Amount.IsZero()
}

// PersonSettlement is the 50/50 split of a personal expense sheet.
type PersonSettlement struct {
	Totals          map[string]decimal.Decimal
	GrandTotal      decimal.Decimal
	AmountPerPerson decimal.Decimal
	Reimbursement   Reimbursement
}

// TotalFor returns what person spent, zero if they have no expenses.
func (s PersonSettlement) TotalFor(person string) decimal.Decimal {
	if t, ok := s.Totals[person]; ok {
		return t
	}
	return decimal.Zero
}

// Persons returns the persons with expenses, sorted.
func (s PersonSettlement) Persons() []string {
	persons := make([]string, 0, len(s.Totals))
	for p := range s.Totals {
		persons = append(persons, p)
	}
	sort.Strings(persons)
	return persons
}
