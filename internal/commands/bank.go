package commands

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halfsies-dev/halfsies/internal/config"
	"github.com/halfsies-dev/halfsies/internal/filter"
	"github.com/halfsies-dev/halfsies/internal/importer"
	"github.com/halfsies-dev/halfsies/internal/logger"
	"github.com/halfsies-dev/halfsies/internal/report"
	"github.com/halfsies-dev/halfsies/internal/runlog"
	"github.com/halfsies-dev/halfsies/internal/settlement"
)

func newBankCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "bank [statement.csv]",
		Short: "Settle a bank statement export",
		Long: "Parses a bank statement, keeps allow-listed income and all expenses not on the\n" +
			"blocklist, and writes the monthly settlement report. Without an argument the\n" +
			"newest CSV in bank.input_folder is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if format != "" {
				cfg.Bank.Format = format
			}
			return runBank(cmd.Context(), cfg, firstArg(args), a.runID, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "statement format, overrides bank.format")

	return cmd
}

func runBank(ctx context.Context, cfg *config.Config, arg, runID string, out io.Writer) error {
	log := logger.FromContext(ctx)

	path, err := inputFile(arg, cfg.Resolve(cfg.Bank.InputFolder))
	if err != nil {
		return err
	}
	delimiter, _ := cfg.BankDelimiter()
	parser, err := importer.DefaultRegistry().ForRun(cfg.Bank.Format, delimiter, log)
	if err != nil {
		return err
	}

	text, err := importer.ReadFile(path)
	if err != nil {
		return err
	}
	txns, err := parser.Parse(strings.NewReader(text))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	rules, err := cfg.Rules(log)
	if err != nil {
		return err
	}
	kept, dropped := filter.Split(txns, rules)
	log.Info().
		Str("input", path).
		Int("parsed", len(txns)).
		Int("kept", len(kept)).
		Int("dropped", len(dropped)).
		Msg("filtered statement")

	result := settlement.Bank(kept)

	outputDir := cfg.Resolve(cfg.Bank.OutputFolder)
	w := report.NewWriter(outputDir, cfg.Locale)
	written, err := w.WriteBank(report.BankReport{
		RunID:        runID,
		Created:      w.Now(),
		Source:       filepath.Base(path),
		Settlement:   result,
		Transactions: kept,
		Dropped:      dropped,
	})
	if err != nil {
		return fmt.Errorf("writing bank report: %w", err)
	}
	for _, moved := range written.Archived {
		log.Info().Str("path", moved).Msg("archived report")
	}

	prev, hasPrev := remember(log, outputDir, runlog.Run{
		ID:      runID,
		Kind:    runlog.Bank,
		Settled: w.Now(),
		Period:  written.Period,
		Source:  filepath.Base(path),
		Report:  written.Text,
		Amount:  result.AmountPerPerson,
	})

	p := newPrinter(out)
	p.Title("Monatsabrechnung")
	p.Note("%s", filepath.Base(path))
	p.Line()
	p.Row("Transaktionen:", fmt.Sprintf("%d (%d ignoriert)", len(kept), len(dropped)))
	p.Row("Gesamtausgaben:", cfg.Locale.Format(result.TotalExpenses))
	p.Row("Gesamteinnahmen:", cfg.Locale.Format(result.TotalIncome))
	p.Row("Nettoausgaben:", cfg.Locale.Format(result.NetExpenses))
	p.Row("Jede Person zahlt:", cfg.Locale.Format(result.AmountPerPerson))
	if hasPrev {
		p.Row("Vorheriger Lauf:", describeRun(prev, cfg.Locale))
	}
	p.Line()
	if len(kept) == 0 {
		p.Warn("Keine Transaktion hat die Filter passiert, bitte Allow- und Blocklist prüfen.")
	}
	p.Note("Bericht: %s", written.Text)
	p.Note("CSV:     %s", written.CSV)
	return nil
}
