package settlement

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/halfsies-dev/halfsies/internal/model"
)

// Counterparties resolves the configured persons other than a given one.
type Counterparties interface {
	Others(name string) []string
}

// Persons splits expenses evenly between two persons and works out the single
// payment that balances them.
func Persons(expenses []model.Expense, people Counterparties) (model.PersonSettlement, error) {
	if len(expenses) == 0 {
		return model.PersonSettlement{}, &model.ValidationError{
			Kind:   model.ErrNoExpenses,
			Detail: "nothing to settle",
		}
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range expenses {
		totals[e.Person] = totals[e.Person].Add(e.Amount)
	}

	result := model.PersonSettlement{Totals: totals}
	persons := result.Persons()
	if len(persons) > 2 {
		return model.PersonSettlement{}, &model.ValidationError{
			Kind:   model.ErrTooManyPersons,
			Detail: fmt.Sprintf("expected at most two persons, got %s", strings.Join(persons, ", ")),
		}
	}

	grand := decimal.Zero
	for _, p := range persons {
		grand = grand.Add(totals[p])
	}
	result.GrandTotal = grand
	result.AmountPerPerson = grand.Div(two)

	r, err := reimbursement(persons, totals, result.AmountPerPerson, people)
	if err != nil {
		return model.PersonSettlement{}, err
	}
	result.Reimbursement = r
	return result, nil
}

func reimbursement(persons []string, totals map[string]decimal.Decimal, perPerson decimal.Decimal, people Counterparties) (model.Reimbursement, error) {
	// One contributor: the other person owes half of everything.
	if len(persons) == 1 {
		paid := persons[0]
		other, err := complement(paid, people)
		if err != nil {
			return model.Reimbursement{}, err
		}
		return model.Reimbursement{Payer: other, Recipient: paid, Amount: perPerson}, nil
	}

	var over, under []string
	diffs := make(map[string]decimal.Decimal, len(persons))
	for _, p := range persons {
		d := totals[p].Sub(perPerson)
		diffs[p] = d
		switch {
		case d.IsPositive():
			over = append(over, p)
		case d.IsNegative():
			under = append(under, p)
		}
	}

	switch {
	case len(over) > 0 && len(under) > 0:
		return model.Reimbursement{Payer: under[0], Recipient: over[0], Amount: diffs[under[0]].Abs()}, nil
	case len(under) > 0:
		payer := under[0]
		recipient, err := complement(payer, people)
		if err != nil {
			return model.Reimbursement{}, err
		}
		return model.Reimbursement{Payer: payer, Recipient: recipient, Amount: diffs[payer].Abs()}, nil
	case len(over) > 0:
		recipient := over[0]
		payer, err := complement(recipient, people)
		if err != nil {
			return model.Reimbursement{}, err
		}
		return model.Reimbursement{Payer: payer, Recipient: recipient, Amount: diffs[recipient].Abs()}, nil
	default:
		return model.Reimbursement{Amount: decimal.Zero}, nil
	}
}

// complement returns the only configured person other than name.
func complement(name string, people Counterparties) (string, error) {
	others := people.Others(name)
	if len(others) != 1 {
		return "", &model.ValidationError{
			Kind:   model.ErrNoCounterparty,
			Detail: fmt.Sprintf("cannot determine who settles with %q: candidates %v", name, others),
		}
	}
	return others[0], nil
}
