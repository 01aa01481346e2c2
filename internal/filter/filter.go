// Package filter selects the statement transactions that count toward the
// shared budget.
package filter

import (
	"strings"

	"github.com/halfsies-dev/halfsies/internal/model"
)

// Rules holds substring patterns. Income is kept only when its sender matches
// an Allow pattern; an expense is dropped when its recipient matches a Block
// pattern. Matching is case-insensitive.
type Rules struct {
	Allow []string
	Block []string
}

// Split partitions txns into kept and dropped, both in input order.
// Zero-amount transactions are always dropped.
func Split(txns []model.Transaction, rules Rules) (kept, dropped []model.Transaction) {
	allow := lower(rules.Allow)
	block := lower(rules.Block)

	for _, txn := range txns {
		if keep(txn, allow, block) {
			kept = append(kept, txn)
		} else {
			dropped = append(dropped, txn)
		}
	}
	return kept, dropped
}

func keep(txn model.Transaction, allow, block []string) bool {
	switch {
	case txn.IsIncome():
		return containsAny(txn.Sender, allow)
	case txn.IsExpense():
		return !containsAny(txn.Recipient, block)
	default:
		return false
	}
}

func containsAny(s string, patterns []string) bool {
	s = strings.ToLower(s)
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lower(patterns []string) []string {
	out := make([]string, len(patterns))
	for i, p := range patterns {
		out[i] = strings.ToLower(p)
	}
	return out
}
