package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
)

var compareDate string

var compareCmd = &cobra.Command{
	Use:   "compare [base]",
	Short: "Compare the weekly ruleset with the base rulesets",
	Long: `Compare the weekly ruleset with one base ruleset, or with all of them when
no base is given.

Examples:
  rulesets compare
  rulesets compare NMGRules --date 2024-06-16`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(compareDate)
		if err != nil {
			return err
		}
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		svc, closeStore, err := openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeStore()

		snap, err := svc.Week(date)
		if err != nil {
			return fmt.Errorf("failed to resolve week: %w", err)
		}

		var comparisons []publisher.Comparison
		if len(args) == 0 {
			comparisons = svc.CompareWith(snap.Ruleset)
		} else {
			c, err := svc.CompareBase(snap.Ruleset, args[0])
			if err != nil {
				return err
			}
			comparisons = []publisher.Comparison{c}
		}
		return p.PrintComparisons(snap.DisplayName, comparisons)
	},
}

func init() {
	rootCmd.AddCommand(compareCmd)

	compareCmd.Flags().StringVar(&compareDate, "date", "", "Any day of the week to compare (YYYY-MM-DD)")
}
