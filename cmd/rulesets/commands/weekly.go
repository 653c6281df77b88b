package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	weeklyDate string
	weeklySave bool
)

var weeklyCmd = &cobra.Command{
	Use:   "weekly",
	Short: "Show the weekly ruleset",
	Long: `Resolve the weekly ruleset of the week containing a date (today by default).
The result is the same for every day of the week and on every machine.

Examples:
  rulesets weekly
  rulesets weekly --date 2024-06-16
  rulesets weekly --save`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		date, err := parseDate(weeklyDate)
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

		if !weeklySave {
			snap, err := svc.Week(date)
			if err != nil {
				return fmt.Errorf("failed to resolve week: %w", err)
			}
			return p.PrintSnapshot(snap)
		}

		snap, err := svc.PublishWeek(cmd.Context(), date)
		if err != nil {
			return fmt.Errorf("failed to publish week: %w", err)
		}
		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Stored week %s as %s\n", snap.DisplayName, snap.ID)
		}
		return p.PrintSnapshot(snap)
	},
}

func init() {
	rootCmd.AddCommand(weeklyCmd)

	weeklyCmd.Flags().StringVar(&weeklyDate, "date", "", "Any day of the week to resolve (YYYY-MM-DD)")
	weeklyCmd.Flags().BoolVar(&weeklySave, "save", false, "Record the week in the history")
}
