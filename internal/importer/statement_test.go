package importer

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halfsies-dev/halfsies/internal/model"
)

const classicStatement = `
Umsatzübersicht;;;;;;;;;
Zeitraum: 01.01.2024 - 31.01.2024;;;;;;;;;
;;;;;;;;;

Buchungsdatum;Zahlungspflichtige*r;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp;Valutadatum;Gläubiger-ID;Mandatsreferenz
15.01.24;Arbeitgeber GmbH;;2500,00;Gehaltsüberweisung Januar;Gehalt;15.01.24;;
10.01.24;;Supermarkt XYZ;-45,67;Einkauf Lebensmittel;Kartenzahlung;10.01.24;;
12.01.24;;Tankstelle ABC;-65,00;Benzin;Kartenzahlung;12.01.24;;
20.01.24;;Bank Gebühren;-5,00;Kontoführungsgebühr;Gebühr;20.01.24;;
25.01.24;Krankenkasse;;150,00;Arztkosten Erstattung;Erstattung;25.01.24;;
`

func parseClassic(t *testing.T, content string) ([]model.Transaction, error) {
	t.Helper()
	return NewDKBClassicParser().Parse(strings.NewReader(content))
}

func TestStatementParser_Testdata(t *testing.T) {
	data, err := os.ReadFile("../../testdata/dkb_statement.csv")
	require.NoError(t, err)

	txns, err := NewDKBParser().Parse(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, txns, 6)

	first := txns[0]
	assert.Equal(t, "Arbeitgeber GmbH", first.Sender)
	assert.Equal(t, "Max Mustermann", first.Recipient)
	assert.Equal(t, "2500.00", first.Amount.StringFixed(2))
	assert.Equal(t, "Eingang", first.Type)
	assert.Equal(t, "Gehalt Januar", first.Description)
	assert.Equal(t, 2024, first.Date.Year())
	assert.Equal(t, 1, int(first.Date.Month()))
	assert.Equal(t, 15, first.Date.Day())
	assert.Equal(t, 6, first.Line)

	assert.Equal(t, "Supermarkt XYZ", txns[1].Recipient)
	assert.Equal(t, "-45.67", txns[1].Amount.StringFixed(2))
	assert.True(t, txns[1].IsExpense())

	assert.Equal(t, "Unknown Co", txns[5].Sender)
	assert.Equal(t, 11, txns[5].Line)
}

func TestStatementParser_Classic(t *testing.T) {
	txns, err := parseClassic(t, classicStatement)
	require.NoError(t, err)
	require.Len(t, txns, 5)

	assert.Equal(t, "Arbeitgeber GmbH", txns[0].Sender)
	assert.Empty(t, txns[0].Recipient)
	assert.True(t, txns[0].IsIncome())
	assert.Equal(t, "Gehalt", txns[0].Type)

	assert.Equal(t, "Bank Gebühren", txns[3].Recipient)
	assert.Equal(t, "-5.00", txns[3].Amount.StringFixed(2))
	assert.Equal(t, "Kontoführungsgebühr", txns[3].Description)
}

func TestStatementParser_PreservesSourceOrder(t *testing.T) {
	txns, err := parseClassic(t, classicStatement)
	require.NoError(t, err)

	var days []int
	for _, txn := range txns {
		days = append(days, txn.Date.Day())
	}
	assert.Equal(t, []int{15, 10, 12, 20, 25}, days)
}

func TestStatementParser_Preamble(t *testing.T) {
	content := "junk one\njunk two\n\n" +
		"Buchungsdatum,Zahlungsempfänger*in,Betrag (€),Umsatztyp,Verwendungszweck\n" +
		"01.02.24,Laden A,\"-1,00\",Kartenzahlung,Eins\n" +
		"02.02.24,Laden B,\"-2,00\",Kartenzahlung,Zwei\n"

	txns, err := NewDKBParser().Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.Equal(t, "Laden A", txns[0].Recipient)
	assert.Equal(t, "Laden B", txns[1].Recipient)
	assert.Equal(t, 5, txns[0].Line)
	assert.Equal(t, 6, txns[1].Line)
}

func TestStatementParser_ColumnOrderIrrelevant(t *testing.T) {
	content := "Verwendungszweck;Betrag (€);Umsatztyp;Zahlungsempfänger*in;Buchungsdatum\n" +
		"Miete;-800,00;Dauerauftrag;Hausverwaltung;01.03.2024\n"

	txns, err := parseClassic(t, content)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Hausverwaltung", txns[0].Recipient)
	assert.Equal(t, "-800.00", txns[0].Amount.StringFixed(2))
	assert.Equal(t, "Miete", txns[0].Description)
	assert.Equal(t, 2024, txns[0].Date.Year())
}

func TestStatementParser_SkipsIncompleteRows(t *testing.T) {
	content := "Buchungsdatum;Zahlungspflichtige*r;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp\n" +
		"01.01.24;;Laden;;Ohne Betrag;Kartenzahlung\n" +
		";;Laden;-3,00;Ohne Datum;Kartenzahlung\n" +
		"03.01.24;;;-4,00;Ohne Partei;Kartenzahlung\n" +
		"04.01.24;;Laden;-5,00;Gültig;Kartenzahlung\n"

	var logs bytes.Buffer
	parser := NewDKBClassicParser().WithLogger(zerolog.New(&logs))

	txns, err := parser.Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, "Gültig", txns[0].Description)
	assert.Equal(t, "-5.00", txns[0].Amount.StringFixed(2))

	out := logs.String()
	assert.Equal(t, 3, strings.Count(out, "skipping invalid transaction row"))
	assert.Contains(t, out, `"line":2`)
	assert.Contains(t, out, `"line":3`)
	assert.Contains(t, out, `"line":4`)
	assert.Contains(t, out, `"amount":"-3,00"`)
}

func TestStatementParser_IgnoresBlankRows(t *testing.T) {
	content := "Buchungsdatum;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp\n" +
		";;;;\n" +
		"\n" +
		"04.01.24;Laden;-5,00;Gültig;Kartenzahlung\n"

	var logs bytes.Buffer
	parser := NewDKBClassicParser().WithLogger(zerolog.New(&logs))
	txns, err := parser.Parse(strings.NewReader(content))
	require.NoError(t, err)
	assert.Len(t, txns, 1)
	assert.Empty(t, logs.String())
}

func TestStatementParser_ShortRowsTreatedAsMissingFields(t *testing.T) {
	content := "Buchungsdatum;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp\n" +
		"04.01.24;Laden\n" +
		"05.01.24;Laden;-1,00;Kurz;Kartenzahlung\n"

	txns, err := parseClassic(t, content)
	require.NoError(t, err)
	require.Len(t, txns, 1)
	assert.Equal(t, 5, txns[0].Date.Day())
}

func TestStatementParser_HeaderNotFound(t *testing.T) {
	_, err := parseClassic(t, "No header here\nStill no header\n")
	require.Error(t, err)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ErrHeaderNotFound, pe.Kind)
	assert.Equal(t, "Buchungsdatum", pe.Field)
}

func TestStatementParser_MissingColumn(t *testing.T) {
	content := "Buchungsdatum;Zahlungsempfänger*in;Verwendungszweck;Umsatztyp\n01.01.24;Laden;x;y\n"
	_, err := parseClassic(t, content)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ErrMissingColumn, pe.Kind)
	assert.Equal(t, "Betrag (€)", pe.Field)
	assert.Equal(t, 1, pe.Line)
}

func TestStatementParser_MissingBothCounterpartyColumns(t *testing.T) {
	content := "Buchungsdatum;Betrag (€);Verwendungszweck;Umsatztyp\n01.01.24;-1,00;x;y\n"
	_, err := parseClassic(t, content)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ErrMissingColumn, pe.Kind)
	assert.Contains(t, pe.Field, "Zahlungspflichtige*r")
}

func TestStatementParser_BadAmountIsFatal(t *testing.T) {
	content := "Buchungsdatum;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp\n" +
		"01.01.24;Laden;-1,00;ok;Kartenzahlung\n" +
		"02.01.24;Laden;zwölf;kaputt;Kartenzahlung\n"

	txns, err := parseClassic(t, content)
	assert.Nil(t, txns)

	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ErrAmountFormat, pe.Kind)
	assert.Equal(t, 3, pe.Line)
	assert.Equal(t, "zwölf", pe.Value)
}

func TestStatementParser_BadDate(t *testing.T) {
	content := "Buchungsdatum;Zahlungsempfänger*in;Betrag (€);Verwendungszweck;Umsatztyp\n" +
		"2024-01-02;Laden;-1,00;iso;Kartenzahlung\n"

	_, err := parseClassic(t, content)
	var pe *model.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, model.ErrDateFormat, pe.Kind)
	assert.Equal(t, "2024-01-02", pe.Value)
	assert.Contains(t, err.Error(), "date-format at line 2")
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in    string
		year  int
		month int
		day   int
	}{
		{"15.01.24", 2024, 1, 15},
		{"15.01.2024", 2024, 1, 15},
		{"5.1.24", 2024, 1, 5},
		{"31.12.1999", 1999, 12, 31},
	}
	for _, tt := range tests {
		got, err := parseDate(tt.in)
		require.NoError(t, err, "parseDate(%q)", tt.in)
		assert.Equal(t, tt.year, got.Year(), tt.in)
		assert.Equal(t, tt.month, int(got.Month()), tt.in)
		assert.Equal(t, tt.day, got.Day(), tt.in)
	}

	for _, bad := range []string{"", "32.01.24", "15/01/24", "15.13.2024"} {
		_, err := parseDate(bad)
		assert.Error(t, err, "parseDate(%q)", bad)
	}
}

func TestStatementParser_Idempotent(t *testing.T) {
	first, err := parseClassic(t, classicStatement)
	require.NoError(t, err)
	second, err := parseClassic(t, classicStatement)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestStatementParser_WithDelimiterCopies(t *testing.T) {
	base := NewDKBParser()
	semi := base.WithDelimiter(';')
	assert.Equal(t, ',', base.Delimiter())
	assert.Equal(t, ';', semi.Delimiter())
	assert.Equal(t, "dkb", semi.Format())

	txns, err := semi.Parse(strings.NewReader(classicStatement))
	require.NoError(t, err)
	assert.Len(t, txns, 5)
}

func TestStatementParser_CRLF(t *testing.T) {
	content := strings.ReplaceAll(classicStatement, "\n", "\r\n")
	txns, err := parseClassic(t, content)
	require.NoError(t, err)
	require.Len(t, txns, 5)
	assert.Equal(t, "Erstattung", txns[4].Type)
}
