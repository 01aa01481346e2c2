// Package money parses and formats currency amounts as exact decimals.
package money

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var errEmpty = errors.New("empty amount")

// germanGrouped matches amounts that use both separators the German way.
var germanGrouped = regexp.MustCompile(`^[+-]?\d{1,3}(\.\d{3})*,\d+$`)

var stripped = strings.NewReplacer(
	"€", "",
	"$", "",
	"£", "",
	"\u00a0", "",
	"\u202f", "",
	" ", "",
	"\t", "",
)

// Parse reads amounts such as "-1.234,56 €", "12,50" or "12.50".
// When a comma is present it is the decimal separator. Dots next to a comma
// are only accepted as German thousands grouping, so "1,234.56" is an error.
func Parse(s string) (decimal.Decimal, error) {
	cleaned := stripped.Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return decimal.Zero, errEmpty
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") && !germanGrouped.MatchString(cleaned) {
			return decimal.Zero, fmt.Errorf("mixed decimal separators in %q", s)
		}
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	}
	if strings.ContainsAny(cleaned, "eE") {
		return decimal.Zero, fmt.Errorf("unexpected exponent in %q", s)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parsing %q: %w", s, err)
	}
	return d, nil
}

// Locale controls how amounts are rendered.
type Locale struct {
	DecimalSeparator   string `yaml:"decimal_separator"`
	ThousandsSeparator string `yaml:"thousands_separator"`
	CurrencySymbol     string `yaml:"currency_symbol"`
}

// German is the default rendering, e.g. "1.234,56 €".
func German() Locale {
	return Locale{DecimalSeparator: ",", ThousandsSeparator: ".", CurrencySymbol: "€"}
}

// Format renders d rounded to cents.
func (l Locale) Format(d decimal.Decimal) string {
	s := l.number(d)
	if l.CurrencySymbol == "" {
		return s
	}
	return s + " " + l.CurrencySymbol
}

// number renders d rounded to cents without the currency symbol.
func (l Locale) number(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, frac, _ := strings.Cut(fixed, ".")
	if l.ThousandsSeparator != "" {
		intPart = group(intPart, l.ThousandsSeparator)
	}

	sep := l.DecimalSeparator
	if sep == "" {
		sep = "."
	}

	out := intPart + sep + frac
	if neg && d.Round(2).Sign() != 0 {
		out = "-" + out
	}
	return out
}

func group(digits, sep string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteString(sep)
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
