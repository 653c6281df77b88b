package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/rulesetweekly/internal/cli"
	"github.com/TimurManjosov/rulesetweekly/internal/config"
	"github.com/TimurManjosov/rulesetweekly/internal/logging"
	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/store"
)

var (
	// Global flags
	format    string
	quiet     bool
	verbose   bool
	storeType string
	storeDSN  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "rulesets",
	Short: "Resolve and inspect weekly and custom speedrun rulesets",
	Long: `Rulesets resolves the weekly randomized ruleset and custom rulesets from
override documents, and keeps a history of the ones worth keeping.

Store settings come from the environment (STORE_TYPE, SQLITE_PATH, DB_DSN,
WEEK_START, LOG_LEVEL) or a .env file, and can be overridden with flags.

Examples:
  rulesets weekly
  rulesets weekly --date 2024-06-16 --format json
  rulesets resolve qualifier.yaml --seed 42 --save
  rulesets history list
  rulesets compare NMGRules`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVar(&format, "format", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&storeType, "store", "", "History store (memory, sqlite, postgres); overrides STORE_TYPE")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "dsn", "", "SQLite path or PostgreSQL DSN; overrides the configured one")
}

// printer returns the printer for the --format flag, writing to the command's stdout.
func printer(cmd *cobra.Command) (*cli.Printer, error) {
	f, err := cli.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	var w io.Writer = cmd.OutOrStdout()
	if quiet {
		w = io.Discard
	}
	return cli.NewPrinter(w, f), nil
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if storeType != "" {
		cfg.StoreType = strings.ToLower(storeType)
	}
	if storeDSN != "" {
		cfg.SQLitePath = storeDSN
		cfg.DatabaseDSN = storeDSN
	}
	if verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// openService builds the publisher service over the configured store. The returned
// function closes the store.
func openService(ctx context.Context) (*publisher.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	bases, err := ruleset.DefaultBases()
	if err != nil {
		return nil, nil, err
	}

	st, err := store.NewStore(ctx, cfg.StoreType, cfg.StoreDSN())
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	svc, err := publisher.New(publisher.Options{
		Store:     st,
		Bases:     bases,
		WeekStart: cfg.WeekStartDay(),
		Logger:    logging.New(cfg.LogLevel, cfg.AppEnv, os.Stderr),
	})
	if err != nil {
		_ = st.Close()
		return nil, nil, err
	}
	return svc, func() { _ = st.Close() }, nil
}

// parseDate parses a --date value as a local calendar date. An empty value is today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}
