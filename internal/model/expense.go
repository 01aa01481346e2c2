package model

import "github.com/shopspring/decimal"

// Expense is one row of a personal expense sheet.
type Expense struct {
	Person  string          // lower-cased person identifier
	Amount  decimal.Decimal // never negative
	Comment string
	Line    int
}
