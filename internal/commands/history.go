package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/halfsies-dev/halfsies/internal/config"
	"github.com/halfsies-dev/halfsies/internal/money"
	"github.com/halfsies-dev/halfsies/internal/report"
	"github.com/halfsies-dev/halfsies/internal/runlog"
)

type historyOptions struct {
	kind  string
	limit int
}

func newHistoryCommand(a *app) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past settlements, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			return runHistory(cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.kind, "kind", "", "only show bank or expenses runs")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "maximum number of runs to show, 0 for all")

	return cmd
}

func runHistory(cfg *config.Config, opts historyOptions, out io.Writer) error {
	var kinds []runlog.Kind
	switch runlog.Kind(opts.kind) {
	case "":
		kinds = []runlog.Kind{runlog.Bank, runlog.Expenses}
	case runlog.Bank, runlog.Expenses:
		kinds = []runlog.Kind{runlog.Kind(opts.kind)}
	default:
		return fmt.Errorf("unknown kind %q (available: bank, expenses)", opts.kind)
	}

	var histories [][]runlog.Run
	for _, kind := range kinds {
		runs, err := runlog.Load(cfg.Resolve(outputFolder(cfg, kind)))
		if err != nil {
			return err
		}
		histories = append(histories, onlyKind(runs, kind))
	}
	runs := runlog.Newest(histories...)
	if opts.limit > 0 && len(runs) > opts.limit {
		runs = runs[:opts.limit]
	}

	p := newPrinter(out)
	p.Title("Verlauf")
	if len(runs) == 0 {
		p.Note("Noch keine Abrechnungen.")
		return nil
	}
	for _, run := range runs {
		p.Row(run.Settled.Local().Format("02.01.2006 15:04"), describeRun(run, cfg.Locale))
	}
	return nil
}

func outputFolder(cfg *config.Config, kind runlog.Kind) string {
	if kind == runlog.Bank {
		return cfg.Bank.OutputFolder
	}
	return cfg.Expenses.OutputFolder
}

// onlyKind guards against both pipelines sharing one output folder.
func onlyKind(runs []runlog.Run, kind runlog.Kind) []runlog.Run {
	var out []runlog.Run
	for _, r := range runs {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

func describeRun(run runlog.Run, loc money.Locale) string {
	switch {
	case run.Kind == runlog.Bank:
		return fmt.Sprintf("Bank %s: Jede Person zahlt %s", run.Period, loc.Format(run.Amount))
	case run.Payer == "":
		return fmt.Sprintf("Ausgaben %s: nichts zu zahlen", run.Period)
	default:
		return fmt.Sprintf("Ausgaben %s: %s zahlt an %s %s", run.Period, report.Label(run.Payer), report.Label(run.Recipient), loc.Format(run.Amount))
	}
}

// remember records run in dir and returns the run of the same kind settled
// before it. History problems are logged and never fail a settlement.
func remember(log zerolog.Logger, dir string, run runlog.Run) (runlog.Run, bool) {
	history, err := runlog.Load(dir)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read settlement history")
	}
	prev, ok := runlog.Latest(history, run.Kind)
	if err := runlog.Record(dir, run); err != nil {
		log.Warn().Err(err).Msg("failed to record settlement history")
	}
	return prev, ok
}
