package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/halfsies-dev/halfsies/internal/model"
)

func txn(amount string) model.Transaction {
	return model.Transaction{Amount: decimal.RequireFromString(amount)}
}

func TestBankEmpty(t *testing.T) {
	got := Bank(nil)
	assert.True(t, got.TotalExpenses.IsZero())
	assert.True(t, got.TotalIncome.IsZero())
	assert.True(t, got.NetExpenses.IsZero())
	assert.True(t, got.AmountPerPerson.IsZero())
	assert.True(t, got.SettlementAmount.IsZero())
}

func TestBankTotals(t *testing.T) {
	got := Bank([]model.Transaction{
		txn("2500.00"),
		txn("-45.67"),
		txn("-65.00"),
		txn("150.00"),
		txn("0"),
	})
	assert.Equal(t, "110.67", got.TotalExpenses.String())
	assert.Equal(t, "2650", got.TotalIncome.String())
	assert.Equal(t, "-2539.33", got.NetExpenses.String())
	assert.Equal(t, "-1269.665", got.AmountPerPerson.String())
	assert.True(t, got.SettlementAmount.Equal(got.AmountPerPerson))
}

func TestBankExpensesOnly(t *testing.T) {
	got := Bank([]model.Transaction{txn("-30"), txn("-10.50")})
	assert.Equal(t, "40.5", got.NetExpenses.String())
	assert.Equal(t, "20.25", got.AmountPerPerson.String())
}

func TestBankSumInvariant(t *testing.T) {
	var txns []model.Transaction
	for i := 0; i < 1000; i++ {
		txns = append(txns, txn("-0.10"), txn("0.01"))
	}
	got := Bank(txns)

	assert.Equal(t, "100", got.TotalExpenses.String())
	assert.Equal(t, "10", got.TotalIncome.String())
	assert.True(t, got.TotalExpenses.Sub(got.TotalIncome).Equal(got.NetExpenses))
	assert.True(t, got.AmountPerPerson.Add(got.AmountPerPerson).Equal(got.NetExpenses))
}
