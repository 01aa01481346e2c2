package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-45,67", "-45.67"},
		{"2500,00", "2500"},
		{"12.50", "12.5"},
		{"12,50 €", "12.5"},
		{"€ 3", "3"},
		{"-1.234,56", "-1234.56"},
		{"1.234.567,8", "1234567.8"},
		{"1 234,56 €", "1234.56"},
		{"1\u00a0234,56\u00a0€", "1234.56"},
		{"  7  ", "7"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		require.NoError(t, err, "Parse(%q)", tt.in)
		assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "Parse(%q) = %s, want %s", tt.in, got, tt.want)
	}
}

func TestParseRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12,50,1", "1e3", "€", "1,234.56", "1.23,45", "12.345.6,7", "1.234.56", ".5,0"} {
		_, err := Parse(in)
		assert.Error(t, err, "Parse(%q)", in)
	}
}

func TestParseIsExact(t *testing.T) {
	total := decimal.Zero
	for i := 0; i < 1000; i++ {
		d, err := Parse("0,10")
		require.NoError(t, err)
		total = total.Add(d)
	}
	assert.Equal(t, "100.00", total.StringFixed(2))
	assert.True(t, total.Equal(decimal.NewFromInt(100)))
}

func TestFormatGerman(t *testing.T) {
	l := German()
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0,00 €"},
		{"12.5", "12,50 €"},
		{"-45.67", "-45,67 €"},
		{"1234.56", "1.234,56 €"},
		{"1234567.891", "1.234.567,89 €"},
		{"-0.001", "0,00 €"},
		{"999", "999,00 €"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, l.Format(decimal.RequireFromString(tt.in)), "Format(%s)", tt.in)
	}
}

func TestFormatPlain(t *testing.T) {
	l := Locale{DecimalSeparator: "."}
	assert.Equal(t, "1234.50", l.Format(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "1234.50", l.number(decimal.RequireFromString("1234.5")))

	var zero Locale
	assert.Equal(t, "3.00", zero.Format(decimal.NewFromInt(3)))
}
