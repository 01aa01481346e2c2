package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a parsed bank statement row.
type Transaction struct {
	Date        time.Time
	Sender      string          // empty for outgoing payments
	Recipient   string          // empty for incoming payments
	Amount      decimal.Decimal // negative = expense, positive = income
	Type        string          // bank transaction type (Kartenzahlung, etc.)
	Description string
	Line        int // 1-based line in the source file
}

// IsIncome reports whether money came in.
func (t Transaction) IsIncome() bool { return t.Amount.IsPositive() }

// IsExpense reports whether money went out.
func (t Transaction) IsExpense() bool { return t.Amount.IsNegative() }

// Counterparty returns the sender for income and the recipient otherwise.
func (t Transaction) Counterparty() string {
	if t.IsIncome() {
		return t.Sender
	}
	return t.Recipient
}
