package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/halfsies-dev/halfsies/internal/money"
)

const (
	archiveDir   = "archiv"
	bankPrefix   = "monatsabrechnung_"
	personPrefix = "ausgleich_"
)

// Writer stores reports below OutputDir in one folder per month. Reports
// left in OutputDir itself are moved to OutputDir/archiv first.
type Writer struct {
	OutputDir string
	Locale    money.Locale
	Now       func() time.Time
}

// NewWriter creates a Writer using the wall clock.
func NewWriter(outputDir string, loc money.Locale) *Writer {
	return &Writer{OutputDir: outputDir, Locale: loc, Now: time.Now}
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}

// Written lists the files produced by one report run.
type Written struct {
	Period   string // YYYY-MM folder the reports went to
	Text     string
	CSV      string
	Archived []string
}

// WriteBank writes monatsabrechnung_<start>_<end>.txt and .csv into the
// folder of the first booking month.
func (w *Writer) WriteBank(r BankReport) (Written, error) {
	archived, err := w.archive(bankPrefix)
	if err != nil {
		return Written{}, err
	}

	start, end := r.Period()
	if len(r.Transactions) == 0 {
		start, end = w.now(), w.now()
	}
	period := monthPeriod(start.Year(), int(start.Month()))
	folder, err := w.monthFolder(period)
	if err != nil {
		return Written{}, err
	}
	base := filepath.Join(folder, fmt.Sprintf("%s%s_%s", bankPrefix, start.Format("2006-01-02"), end.Format("2006-01-02")))

	out := Written{Period: period, Archived: archived}
	if out.Text, err = w.writeFile(base+".txt", func(buf io.Writer) error { return WriteBankText(buf, r, w.Locale) }); err != nil {
		return Written{}, err
	}
	if out.CSV, err = w.writeFile(base+".csv", func(buf io.Writer) error { return WriteBankCSV(buf, r, w.Locale) }); err != nil {
		return Written{}, err
	}
	return out, nil
}

// WritePersons writes ausgleich_<timestamp>.txt and .csv into the folder of
// the sheet's month.
func (w *Writer) WritePersons(r PersonReport) (Written, error) {
	archived, err := w.archive(personPrefix)
	if err != nil {
		return Written{}, err
	}

	period := monthPeriod(r.Year, r.Month)
	folder, err := w.monthFolder(period)
	if err != nil {
		return Written{}, err
	}
	base := filepath.Join(folder, personPrefix+w.now().Format("20060102_150405"))

	out := Written{Period: period, Archived: archived}
	if out.Text, err = w.writeFile(base+".txt", func(buf io.Writer) error { return WritePersonText(buf, r, w.Locale) }); err != nil {
		return Written{}, err
	}
	if out.CSV, err = w.writeFile(base+".csv", func(buf io.Writer) error { return WritePersonCSV(buf, r, w.Locale) }); err != nil {
		return Written{}, err
	}
	return out, nil
}

func monthPeriod(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

func (w *Writer) monthFolder(period string) (string, error) {
	dir := filepath.Join(w.OutputDir, period)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating report folder: %w", err)
	}
	return dir, nil
}

func (w *Writer) writeFile(path string, render func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return "", fmt.Errorf("rendering %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}

// archive moves .txt and .csv reports with prefix from OutputDir into the
// archive folder and returns their new paths.
func (w *Writer) archive(prefix string) ([]string, error) {
	entries, err := os.ReadDir(w.OutputDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading output dir: %w", err)
	}

	var moved []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		if ext := filepath.Ext(name); ext != ".txt" && ext != ".csv" {
			continue
		}

		dst := filepath.Join(w.OutputDir, archiveDir)
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return moved, fmt.Errorf("creating archive dir: %w", err)
		}
		target := filepath.Join(dst, name)
		if err := os.Rename(filepath.Join(w.OutputDir, name), target); err != nil {
			return moved, fmt.Errorf("archiving %s: %w", name, err)
		}
		moved = append(moved, target)
	}
	return moved, nil
}
