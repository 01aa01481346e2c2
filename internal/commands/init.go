package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/halfsies-dev/halfsies/internal/config"
	"github.com/halfsies-dev/halfsies/internal/importer"
	"github.com/halfsies-dev/halfsies/internal/logger"
	"github.com/halfsies-dev/halfsies/internal/people"
)

const (
	allowlistComment = "Income is only counted when the sender contains one of these."
	blocklistComment = "Expenses whose recipient contains one of these are ignored."
)

type initOptions struct {
	persons []string
	format  string
	force   bool
}

func newInitCommand() *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new halfsies workspace",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, opts, cmd.OutOrStdout()); err != nil {
				return err
			}
			log := logger.FromContext(cmd.Context())
			log.Debug().Str("dir", absDir).Msg("initialized workspace")
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&opts.persons, "persons", people.DefaultPersons, "persons sharing costs")
	cmd.Flags().StringVar(&opts.format, "format", "dkb", "bank statement format")
	cmd.Flags().BoolVar(&opts.force, "force", false, "overwrite an existing halfsies.yaml")

	return cmd
}

func runInit(dir string, opts initOptions, out io.Writer) error {
	if importer.DefaultRegistry().Get(opts.format) == nil {
		return fmt.Errorf("unknown statement format %q (available: %v)", opts.format, importer.DefaultRegistry().Formats())
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	cfg.Bank.Format = opts.format
	cfg.Expenses.ValidPersons = people.NewService(opts.persons).All()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Create directory structure.
	dirs := []string{
		cfg.Bank.InputFolder,
		cfg.Bank.OutputFolder,
		cfg.Expenses.InputFolder,
		cfg.Expenses.OutputFolder,
		filepath.Dir(cfg.Filters.AllowlistFile),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Pattern files are user-maintained; never overwrite them.
	patternFiles := []struct {
		path     string
		patterns config.Patterns
		comment  string
	}{
		{cfg.Filters.AllowlistFile, config.Patterns{IncomeSenders: []string{}}, allowlistComment},
		{cfg.Filters.BlocklistFile, config.Patterns{ExpenseRecipients: []string{}}, blocklistComment},
	}
	for _, pf := range patternFiles {
		path := filepath.Join(dir, pf.path)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", pf.path, err)
		}
		if err := config.SavePatterns(path, pf.patterns, pf.comment); err != nil {
			return err
		}
	}

	p := newPrinter(out)
	p.Title("Arbeitsverzeichnis angelegt")
	p.Note("%s", dir)
	p.Line()
	p.Row("Kontoauszüge:", filepath.Join(dir, cfg.Bank.InputFolder))
	p.Row("Ausgabenlisten:", filepath.Join(dir, cfg.Expenses.InputFolder))
	p.Row("Personen:", strings.Join(cfg.Expenses.ValidPersons, ", "))
	return nil
}
