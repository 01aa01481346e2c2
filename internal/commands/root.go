package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/halfsies-dev/halfsies/internal/buildinfo"
	"github.com/halfsies-dev/halfsies/internal/config"
	"github.com/halfsies-dev/halfsies/internal/logger"
)

const (
	keyConfig    = "config"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
)

// app carries the per-invocation settings shared by subcommands.
type app struct {
	v     *viper.Viper
	runID string
}

func (a *app) loadConfig() (*config.Config, error) {
	path := a.v.GetString(keyConfig)
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("%w (run `halfsies init` to create one)", err)
	}
	return cfg, nil
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:     "halfsies",
		Short:   "Split shared bank statements and expense sheets 50/50",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log, err := logger.New(cmd.ErrOrStderr(), a.v.GetString(keyLogLevel), a.v.GetString(keyLogFormat))
			if err != nil {
				return err
			}
			a.runID = uuid.NewString()
			log = log.With().Str("run_id", a.runID).Str("command", cmd.Name()).Logger()
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String(keyConfig, config.FileName, "path to halfsies.yaml")
	flags.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	flags.String(keyLogFormat, "console", "log format (console, json)")
	for _, key := range []string{keyConfig, keyLogLevel, keyLogFormat} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}
	a.v.SetEnvPrefix("HALFSIES")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newBankCommand(a))
	rootCmd.AddCommand(newExpensesCommand(a))
	rootCmd.AddCommand(newHistoryCommand(a))

	return rootCmd
}
