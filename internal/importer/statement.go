package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/halfsies-dev/halfsies/internal/model"
	"github.com/halfsies-dev/halfsies/internal/money"
)

// Columns names the statement columns the parser looks up by header.
type Columns struct {
	Date        string
	Amount      string
	Sender      string
	Recipient   string
	Type        string
	Description string
}

// DKBColumns returns the column names used by DKB exports.
func DKBColumns() Columns {
	return Columns{
		Date:        "Buchungsdatum",
		Amount:      "Betrag (€)",
		Sender:      "Zahlungspflichtige*r",
		Recipient:   "Zahlungsempfänger*in",
		Type:        "Umsatztyp",
		Description: "Verwendungszweck",
	}
}

// dateLayouts are tried in order: two-digit year first.
var dateLayouts = []string{"2.1.06", "2.1.2006"}

// StatementParser reads delimited bank exports that start with a free-form
// preamble. The header row is the first line mentioning the date column.
type StatementParser struct {
	format    string
	delimiter rune
	columns   Columns
	log       zerolog.Logger
}

// NewStatementParser creates a parser for a statement layout.
func NewStatementParser(format string, delimiter rune, columns Columns) *StatementParser {
	return &StatementParser{
		format:    format,
		delimiter: delimiter,
		columns:   columns,
		log:       zerolog.Nop(),
	}
}

// NewDKBParser parses the current comma-separated DKB export.
func NewDKBParser() *StatementParser {
	return NewStatementParser("dkb", ',', DKBColumns())
}

// NewDKBClassicParser parses the older semicolon-separated DKB export.
func NewDKBClassicParser() *StatementParser {
	return NewStatementParser("dkb-classic", ';', DKBColumns())
}

// Format returns the parser name.
func (p *StatementParser) Format() string { return p.format }

// Delimiter returns the field separator.
func (p *StatementParser) Delimiter() rune { return p.delimiter }

// WithDelimiter returns a copy of p using d as field separator.
func (p *StatementParser) WithDelimiter(d rune) *StatementParser {
	cp := *p
	cp.delimiter = d
	return &cp
}

// WithLogger returns a copy of p that reports skipped rows to log.
func (p *StatementParser) WithLogger(log zerolog.Logger) *StatementParser {
	cp := *p
	cp.log = log
	return &cp
}

type columnIndex struct {
	date, amount, sender, recipient, typ, desc int
}

// Parse reads a statement and returns its transactions in source order.
// Rows without amount, date or counterparty are logged and skipped.
func (p *StatementParser) Parse(r io.Reader) ([]model.Transaction, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading statement: %w", err)
	}
	text, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding statement: %w", err)
	}

	lines := strings.Split(text, "\n")
	headerAt := -1
	for i, line := range lines {
		if strings.Contains(line, p.columns.Date) {
			headerAt = i
			break
		}
	}
	if headerAt < 0 {
		return nil, &model.ParseError{Kind: model.ErrHeaderNotFound, Field: p.columns.Date}
	}

	cr := csv.NewReader(strings.NewReader(strings.Join(lines[headerAt:], "\n")))
	cr.Comma = p.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}
	idx, err := p.indexColumns(header, headerAt+1)
	if err != nil {
		return nil, err
	}

	var txns []model.Transaction
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading statement CSV: %w", err)
		}
		row, _ := cr.FieldPos(0)
		line := headerAt + row

		if isBlank(rec) {
			continue
		}
		if !p.validRow(rec, idx, line) {
			continue
		}
		txn, err := p.parseRow(rec, idx, line)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, nil
}

func (p *StatementParser) indexColumns(header []string, line int) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	lookup := func(name string) int {
		if i, ok := pos[name]; ok {
			return i
		}
		return -1
	}

	idx := columnIndex{
		date:      lookup(p.columns.Date),
		amount:    lookup(p.columns.Amount),
		sender:    lookup(p.columns.Sender),
		recipient: lookup(p.columns.Recipient),
		typ:       lookup(p.columns.Type),
		desc:      lookup(p.columns.Description),
	}

	required := []struct {
		name string
		at   int
	}{
		{p.columns.Date, idx.date},
		{p.columns.Amount, idx.amount},
		{p.columns.Type, idx.typ},
		{p.columns.Description, idx.desc},
	}
	for _, col := range required {
		if col.at < 0 {
			return idx, &model.ParseError{Kind: model.ErrMissingColumn, Line: line, Field: col.name}
		}
	}
	if idx.sender < 0 && idx.recipient < 0 {
		return idx, &model.ParseError{
			Kind:  model.ErrMissingColumn,
			Line:  line,
			Field: p.columns.Sender + "/" + p.columns.Recipient,
		}
	}
	return idx, nil
}

func (p *StatementParser) validRow(rec []string, idx columnIndex, line int) bool {
	amount := field(rec, idx.amount)
	date := field(rec, idx.date)

	var missing []string
	if amount == "" {
		missing = append(missing, p.columns.Amount)
	}
	if date == "" {
		missing = append(missing, p.columns.Date)
	}
	if field(rec, idx.sender) == "" && field(rec, idx.recipient) == "" {
		missing = append(missing, p.columns.Sender+"/"+p.columns.Recipient)
	}
	if len(missing) == 0 {
		return true
	}

	ev := p.log.Warn().Int("line", line).Strs("missing", missing)
	if date != "" {
		ev = ev.Str("date", date)
	}
	if amount != "" {
		ev = ev.Str("amount", amount)
	}
	ev.Msg("skipping invalid transaction row")
	return false
}

func (p *StatementParser) parseRow(rec []string, idx columnIndex, line int) (model.Transaction, error) {
	rawAmount := field(rec, idx.amount)
	amount, err := money.Parse(rawAmount)
	if err != nil {
		return model.Transaction{}, &model.ParseError{
			Kind:  model.ErrAmountFormat,
			Line:  line,
			Field: p.columns.Amount,
			Value: rawAmount,
			Err:   err,
		}
	}

	rawDate := field(rec, idx.date)
	date, err := parseDate(rawDate)
	if err != nil {
		return model.Transaction{}, &model.ParseError{
			Kind:  model.ErrDateFormat,
			Line:  line,
			Field: p.columns.Date,
			Value: rawDate,
			Err:   err,
		}
	}

	return model.Transaction{
		Date:        date,
		Sender:      field(rec, idx.sender),
		Recipient:   field(rec, idx.recipient),
		Amount:      amount,
		Type:        field(rec, idx.typ),
		Description: field(rec, idx.desc),
		Line:        line,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("expected d.m.yy or d.m.yyyy")
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
