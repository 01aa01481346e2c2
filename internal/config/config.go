package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/halfsies-dev/halfsies/internal/filter"
	"github.com/halfsies-dev/halfsies/internal/money"
	"github.com/halfsies-dev/halfsies/internal/people"
)

// FileName is the config file looked up in the working directory.
const FileName = "halfsies.yaml"

// Config represents the top-level halfsies.yaml configuration.
type Config struct {
	Bank     BankConfig     `yaml:"bank"`
	Expenses ExpensesConfig `yaml:"expenses"`
	Filters  FiltersConfig  `yaml:"filters"`
	Locale   money.Locale   `yaml:"locale"`

	dir string
}

// BankConfig controls the statement pipeline.
type BankConfig struct {
	InputFolder  string `yaml:"input_folder"`
	OutputFolder string `yaml:"output_folder"`
	Format       string `yaml:"format"`
	Delimiter    string `yaml:"csv_delimiter,omitempty"` // overrides the format's delimiter
}

// ExpensesConfig controls the expense sheet pipeline.
type ExpensesConfig struct {
	InputFolder  string   `yaml:"input_folder"`
	OutputFolder string   `yaml:"output_folder"`
	Delimiter    string   `yaml:"csv_delimiter"`
	ValidPersons []string `yaml:"valid_persons"`
}

// FiltersConfig lists inline patterns and optional pattern files.
type FiltersConfig struct {
	IncomeAllowList  []string `yaml:"income_allow_list"`
	ExpenseBlockList []string `yaml:"expense_block_list"`
	AllowlistFile    string   `yaml:"allowlist_file,omitempty"`
	BlocklistFile    string   `yaml:"blocklist_file,omitempty"`
}

// Load reads a halfsies.yaml file from disk. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving config path: %w", err)
	}
	cfg.dir = filepath.Dir(abs)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Bank: BankConfig{
			InputFolder:  filepath.Join("input", "bank"),
			OutputFolder: filepath.Join("output", "bank"),
			Format:       "dkb",
		},
		Expenses: ExpensesConfig{
			InputFolder:  filepath.Join("input", "expenses"),
			OutputFolder: filepath.Join("output", "expenses"),
			Delimiter:    ",",
			ValidPersons: append([]string(nil), people.DefaultPersons...),
		},
		Filters: FiltersConfig{
			IncomeAllowList:  []string{},
			ExpenseBlockList: []string{},
			AllowlistFile:    filepath.Join("config", "allowlist.yaml"),
			BlocklistFile:    filepath.Join("config", "blocklist.yaml"),
		},
		Locale: money.German(),
	}
}

// Validate checks settings that would otherwise fail deep inside a run.
func (c *Config) Validate() error {
	var errs []error
	if c.Bank.Format == "" {
		errs = append(errs, errors.New("bank.format is required"))
	}
	if c.Bank.Delimiter != "" && utf8.RuneCountInString(c.Bank.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("bank.csv_delimiter must be a single character, got %q", c.Bank.Delimiter))
	}
	if utf8.RuneCountInString(c.Expenses.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("expenses.csv_delimiter must be a single character, got %q", c.Expenses.Delimiter))
	}
	if len(people.NewService(c.Expenses.ValidPersons).All()) < 2 {
		errs = append(errs, errors.New("expenses.valid_persons needs at least two persons"))
	}
	return errors.Join(errs...)
}

// Resolve makes path absolute relative to the config file's directory. A
// Default config has no directory and leaves relative paths as they are.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

// BankDelimiter returns the configured statement delimiter, if any.
func (c *Config) BankDelimiter() (rune, bool) {
	if c.Bank.Delimiter == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(c.Bank.Delimiter)
	return r, true
}

// ExpensesDelimiter returns the expense sheet delimiter, comma by default.
func (c *Config) ExpensesDelimiter() rune {
	if c.Expenses.Delimiter == "" {
		return ','
	}
	r, _ := utf8.DecodeRuneInString(c.Expenses.Delimiter)
	return r
}

// People returns the configured person set.
func (c *Config) People() *people.Service {
	return people.NewService(c.Expenses.ValidPersons)
}

// Rules combines inline patterns with those from the pattern files. Inline
// patterns come first. A missing pattern file is logged and contributes
// nothing.
func (c *Config) Rules(log zerolog.Logger) (filter.Rules, error) {
	allowFile, err := loadPatternsIfExists(c.Resolve(c.Filters.AllowlistFile), log)
	if err != nil {
		return filter.Rules{}, err
	}
	blockFile, err := loadPatternsIfExists(c.Resolve(c.Filters.BlocklistFile), log)
	if err != nil {
		return filter.Rules{}, err
	}

	var rules filter.Rules
	rules.Allow = append(rules.Allow, c.Filters.IncomeAllowList...)
	rules.Allow = append(rules.Allow, allowFile.IncomeSenders...)
	rules.Block = append(rules.Block, c.Filters.ExpenseBlockList...)
	rules.Block = append(rules.Block, blockFile.ExpenseRecipients...)
	return rules, nil
}
