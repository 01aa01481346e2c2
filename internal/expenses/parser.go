// Package expenses reads the hand-maintained monthly expense sheet.
//
// The sheet starts with a two-digit year line and a month line, followed by a
// delimited table with the columns person, amount and an optional comment:
//
//	24
//	3
//	person,amount,comment
//	a,"12,50",Bäcker
package expenses

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/halfsies-dev/halfsies/internal/importer"
	"github.com/halfsies-dev/halfsies/internal/model"
	"github.com/halfsies-dev/halfsies/internal/money"
	"github.com/halfsies-dev/halfsies/internal/people"
)

const (
	colPerson  = "person"
	colAmount  = "amount"
	colComment = "comment"
)

// PersonChecker tests whether a person may appear in the sheet.
type PersonChecker interface {
	Exists(name string) bool
	All() []string
}

// Parser reads expense sheets.
type Parser struct {
	delimiter rune
	people    PersonChecker
}

// NewParser creates a Parser using delimiter for the table part.
func NewParser(delimiter rune, people PersonChecker) *Parser {
	return &Parser{delimiter: delimiter, people: people}
}

type row struct {
	line                    int
	person, amount, comment string
}

// Parse reads a sheet and returns its period and expenses in source order.
// Every row is validated first; all defects are returned together in one
// *model.ValidationError.
func (p *Parser) Parse(r io.Reader) (year, month int, expenses []model.Expense, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("reading expenses: %w", err)
	}
	text, err := importer.Decode(data)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decoding expenses: %w", err)
	}
	lines := strings.Split(text, "\n")

	yearAt, rawYear := p.nextLine(lines, 0)
	year, err = parseYear(rawYear, yearAt+1)
	if err != nil {
		return 0, 0, nil, err
	}
	monthAt, rawMonth := p.nextLine(lines, yearAt+1)
	month, err = parseMonth(rawMonth, monthAt+1)
	if err != nil {
		return 0, 0, nil, err
	}

	rows, err := p.readTable(lines[monthAt+1:], monthAt+1)
	if err != nil {
		return 0, 0, nil, err
	}
	if issues := p.validate(rows); len(issues) > 0 {
		return 0, 0, nil, &model.ValidationError{Kind: model.ErrInvalidRows, Issues: issues}
	}
	if len(rows) == 0 {
		return 0, 0, nil, &model.ValidationError{Kind: model.ErrEmptyResult, Detail: "no expenses found"}
	}

	expenses = make([]model.Expense, 0, len(rows))
	for _, rw := range rows {
		amount, _ := money.Parse(rw.amount)
		expenses = append(expenses, model.Expense{
			Person:  people.Normalize(rw.person),
			Amount:  amount,
			Comment: rw.comment,
			Line:    rw.line,
		})
	}
	return year, month, expenses, nil
}

// nextLine returns the index and cleaned text of the first non-empty line at
// or after from. Trailing delimiters left by spreadsheet exports are dropped.
// The index is len(lines) when none is left.
func (p *Parser) nextLine(lines []string, from int) (int, string) {
	cut := string(p.delimiter) + " \t\r\""
	for i := from; i < len(lines); i++ {
		s := strings.Trim(strings.TrimSpace(lines[i]), cut)
		if s != "" {
			return i, s
		}
	}
	return len(lines), ""
}

func parseYear(s string, line int) (int, error) {
	if s == "" {
		return 0, &model.ParseError{Kind: model.ErrBadYear, Err: errors.New("missing year line")}
	}
	if len(s) != 2 || !isDigits(s) {
		return 0, &model.ParseError{Kind: model.ErrBadYear, Line: line, Value: s, Err: errors.New("expected two digits")}
	}
	n, _ := strconv.Atoi(s)
	return 2000 + n, nil
}

func parseMonth(s string, line int) (int, error) {
	if s == "" {
		return 0, &model.ParseError{Kind: model.ErrBadMonth, Err: errors.New("missing month line")}
	}
	if len(s) > 2 || !isDigits(s) {
		return 0, &model.ParseError{Kind: model.ErrBadMonth, Line: line, Value: s, Err: errors.New("expected one or two digits")}
	}
	n, _ := strconv.Atoi(s)
	if n < 1 || n > 12 {
		return 0, &model.ParseError{Kind: model.ErrBadMonth, Line: line, Value: s, Err: errors.New("month out of range 1-12")}
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

// readTable reads the header and data rows. offset is the number of source
// lines before lines[0].
func (p *Parser) readTable(lines []string, offset int) ([]row, error) {
	cr := csv.NewReader(strings.NewReader(strings.Join(lines, "\n")))
	cr.Comma = p.delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, &model.ParseError{Kind: model.ErrMissingColumn, Field: colPerson, Err: errors.New("no header row")}
	}
	if err != nil {
		return nil, fmt.Errorf("reading expenses header: %w", err)
	}
	headerLine, _ := cr.FieldPos(0)

	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := pos[h]; !dup {
			pos[h] = i
		}
	}
	for _, name := range []string{colPerson, colAmount} {
		if _, ok := pos[name]; !ok {
			return nil, &model.ParseError{Kind: model.ErrMissingColumn, Line: offset + headerLine, Field: name}
		}
	}
	commentAt, ok := pos[colComment]
	if !ok {
		commentAt = -1
	}

	var rows []row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading expenses CSV: %w", err)
		}
		n, _ := cr.FieldPos(0)
		if isBlank(rec) {
			continue
		}
		rows = append(rows, row{
			line:    offset + n,
			person:  field(rec, pos[colPerson]),
			amount:  field(rec, pos[colAmount]),
			comment: field(rec, commentAt),
		})
	}
	return rows, nil
}

func (p *Parser) validate(rows []row) []model.Issue {
	var issues []model.Issue
	for _, rw := range rows {
		switch {
		case rw.person == "":
			issues = append(issues, model.Issue{Line: rw.line, Field: colPerson, Message: "missing person"})
		case !p.people.Exists(rw.person):
			issues = append(issues, model.Issue{
				Line:    rw.line,
				Field:   colPerson,
				Value:   rw.person,
				Message: fmt.Sprintf("unknown person %q, allowed: %s", rw.person, strings.Join(p.people.All(), ", ")),
			})
		}

		if rw.amount == "" {
			issues = append(issues, model.Issue{Line: rw.line, Field: colAmount, Message: "missing amount"})
			continue
		}
		amount, err := money.Parse(rw.amount)
		switch {
		case err != nil:
			issues = append(issues, model.Issue{
				Line:    rw.line,
				Field:   colAmount,
				Value:   rw.amount,
				Message: fmt.Sprintf("invalid amount %q, expected a number like 12,50 or 12.50", rw.amount),
			})
		case amount.IsNegative():
			issues = append(issues, model.Issue{
				Line:    rw.line,
				Field:   colAmount,
				Value:   rw.amount,
				Message: fmt.Sprintf("negative amount %q is not allowed", rw.amount),
			})
		}
	}
	return issues
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
