// Package runlog keeps the settlement history of an output folder so later
// runs can show what was settled before.
package runlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FileName is the history file inside an output folder.
const FileName = "runs.csv"

// Kind names the pipeline that produced a run.
type Kind string

const (
	Bank     Kind = "bank"
	Expenses Kind = "expenses"
)

// Run is one settled statement or expense sheet.
type Run struct {
	ID      string
	Kind    Kind
	Settled time.Time
	Period  string // YYYY-MM the settlement covers
	Source  string
	Report  string

	// Amount is the per-person share for bank runs and the reimbursement for
	// expense runs. Payer and Recipient stay empty for bank runs and for
	// balanced sheets.
	Payer     string
	Recipient string
	Amount    decimal.Decimal
}

var columns = []string{"settled", "run_id", "kind", "period", "source", "report", "payer", "recipient", "amount"}

func (r Run) record() []string {
	return []string{
		r.Settled.UTC().Format(time.RFC3339),
		r.ID,
		string(r.Kind),
		r.Period,
		r.Source,
		r.Report,
		r.Payer,
		r.Recipient,
		r.Amount.String(),
	}
}

// Record appends run to <dir>/runs.csv. The folder and header are created
// when missing.
func Record(dir string, run Run) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	path := filepath.Join(dir, FileName)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("checking history: %w", err)
	}

	cw := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := cw.Write(columns); err != nil {
			return fmt.Errorf("writing history header: %w", err)
		}
	}
	if err := cw.Write(run.record()); err != nil {
		return fmt.Errorf("writing run %s: %w", run.ID, err)
	}
	cw.Flush()
	return cw.Error()
}

// Load returns the runs recorded in dir, oldest first as written. A folder
// without history yields no runs.
func Load(dir string) ([]Run, error) {
	f, err := os.Open(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	defer f.Close()

	return parse(f)
}

// parse reads columns by header name, so files written by older versions
// with fewer columns still load.
func parse(r io.Reader) ([]Run, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading history header: %w", err)
	}
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"settled", "kind", "amount"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("history is missing column %q", required)
		}
	}

	var runs []Run
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading history: %w", err)
		}
		line, _ := cr.FieldPos(0)
		field := func(name string) string {
			i, ok := idx[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}

		settled, err := time.Parse(time.RFC3339, field("settled"))
		if err != nil {
			return nil, fmt.Errorf("history line %d: bad timestamp %q", line, field("settled"))
		}
		amount, err := decimal.NewFromString(field("amount"))
		if err != nil {
			return nil, fmt.Errorf("history line %d: bad amount %q", line, field("amount"))
		}
		runs = append(runs, Run{
			ID:        field("run_id"),
			Kind:      Kind(field("kind")),
			Settled:   settled,
			Period:    field("period"),
			Source:    field("source"),
			Report:    field("report"),
			Payer:     field("payer"),
			Recipient: field("recipient"),
			Amount:    amount,
		})
	}
	return runs, nil
}

// Latest returns the most recently settled run of kind.
func Latest(runs []Run, kind Kind) (Run, bool) {
	var (
		latest Run
		found  bool
	)
	for _, r := range runs {
		if r.Kind != kind {
			continue
		}
		if !found || !r.Settled.Before(latest.Settled) {
			latest, found = r, true
		}
	}
	return latest, found
}

// Newest merges histories and orders them newest first.
func Newest(histories ...[]Run) []Run {
	var all []Run
	for _, h := range histories {
		all = append(all, h...)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Settled.After(all[j].Settled) })
	return all
}
