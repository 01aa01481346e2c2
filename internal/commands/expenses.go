package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halfsies-dev/halfsies/internal/config"
	"github.com/halfsies-dev/halfsies/internal/expenses"
	"github.com/halfsies-dev/halfsies/internal/importer"
	"github.com/halfsies-dev/halfsies/internal/logger"
	"github.com/halfsies-dev/halfsies/internal/report"
	"github.com/halfsies-dev/halfsies/internal/runlog"
	"github.com/halfsies-dev/halfsies/internal/settlement"
)

func newExpensesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses [sheet.csv]",
		Short: "Settle a personal expense sheet",
		Long: "Validates an expense sheet and works out who pays whom to split it evenly.\n" +
			"Without an argument the newest CSV in expenses.input_folder is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return runExpenses(cmd.Context(), cfg, firstArg(args), a.runID, cmd.OutOrStdout())
		},
	}
	return cmd
}

func runExpenses(ctx context.Context, cfg *config.Config, arg, runID string, out io.Writer) error {
	log := logger.FromContext(ctx)

	path, err := inputFile(arg, cfg.Resolve(cfg.Expenses.InputFolder))
	if err != nil {
		return err
	}
	text, err := importer.ReadFile(path)
	if err != nil {
		return err
	}

	persons := cfg.People()
	year, month, exps, err := expenses.NewParser(cfg.ExpensesDelimiter(), persons).Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	log.Info().Str("input", path).Int("year", year).Int("month", month).Int("expenses", len(exps)).Msg("parsed expense sheet")

	result, err := settlement.Persons(exps, persons)
	if err != nil {
		return err
	}

	outputDir := cfg.Resolve(cfg.Expenses.OutputFolder)
	w := report.NewWriter(outputDir, cfg.Locale)
	written, err := w.WritePersons(report.PersonReport{
		RunID:      runID,
		Created:    w.Now(),
		Source:     filepath.Base(path),
		Year:       year,
		Month:      month,
		People:     persons.All(),
		Settlement: result,
		Expenses:   exps,
	})
	if err != nil {
		return fmt.Errorf("writing expense report: %w", err)
	}
	for _, moved := range written.Archived {
		log.Info().Str("path", moved).Msg("archived report")
	}

	re := result.Reimbursement
	prev, hasPrev := remember(log, outputDir, runlog.Run{
		ID:        runID,
		Kind:      runlog.Expenses,
		Settled:   w.Now(),
		Period:    written.Period,
		Source:    filepath.Base(path),
		Report:    written.Text,
		Payer:     re.Payer,
		Recipient: re.Recipient,
		Amount:    re.Amount,
	})

	p := newPrinter(out)
	p.Title(fmt.Sprintf("Ausgleich %02d/%04d", month, year))
	p.Note("%s", filepath.Base(path))
	p.Line()
	for _, person := range persons.All() {
		p.Row(report.Label(person)+":", cfg.Locale.Format(result.TotalFor(person)))
	}
	p.Row("Gesamtausgaben:", cfg.Locale.Format(result.GrandTotal))
	p.Row("Pro Person (50/50):", cfg.Locale.Format(result.AmountPerPerson))
	p.Line()
	if re.IsZero() {
		p.Row("Ausgleich:", "nichts zu zahlen")
	} else {
		p.Row("Ausgleich:", fmt.Sprintf("%s zahlt an %s %s", report.Label(re.Payer), report.Label(re.Recipient), cfg.Locale.Format(re.Amount)))
	}
	if hasPrev {
		p.Row("Vorheriger Lauf:", describeRun(prev, cfg.Locale))
	}
	p.Line()
	p.Note("Bericht: %s", written.Text)
	p.Note("CSV:     %s", written.CSV)
	return nil
}
