// Package settlement computes the 50/50 split for statements and expense
// sheets.
package settlement

import (
	"github.com/shopspring/decimal"

	"github.com/halfsies-dev/halfsies/internal/model"
)

var two = decimal.NewFromInt(2)

// Bank totals filtered statement transactions. Empty input yields zeros.
func Bank(txns []model.Transaction) model.BankSettlement {
	expenses := decimal.Zero
	income := decimal.Zero
	for _, txn := range txns {
		switch {
		case txn.IsExpense():
			expenses = expenses.Add(txn.Amount.Abs())
		case txn.IsIncome():
			income = income.Add(txn.Amount.Abs())
		}
	}

	net := expenses.Sub(income)
	perPerson := net.Div(two)
	return model.BankSettlement{
		TotalExpenses:    expenses,
		TotalIncome:      income,
		NetExpenses:      net,
		AmountPerPerson:  perPerson,
		SettlementAmount: perPerson,
	}
}
