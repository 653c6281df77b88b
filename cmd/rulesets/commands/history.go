package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/rulesetweekly/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect stored rulesets",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored rulesets",
	Long: `List stored weekly and custom rulesets, oldest first.

Examples:
  rulesets history list
  rulesets history list --format json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		svc, closeStore, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		list, err := svc.History(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if len(list) == 0 {
			if !quiet {
				fmt.Fprintln(cmd.OutOrStdout(), "No rulesets stored")
			}
			return nil
		}
		return p.PrintHistory(list)
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored ruleset",
	Long: `Show a stored ruleset. Weekly rulesets are stored under the day number of
their first day; custom rulesets under the id printed when they were saved.

Examples:
  rulesets history show 739046
  rulesets history show 2f1c... --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		svc, closeStore, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		snap, err := svc.Get(cmd.Context(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no stored ruleset with id %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to get ruleset: %w", err)
		}
		return p.PrintSnapshot(snap)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd, historyShowCmd)
}
