package commands

import (
	"github.com/spf13/cobra"

	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
)

var techniquesCmd = &cobra.Command{
	Use:   "techniques",
	Short: "List known techniques in draw order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		return p.PrintTechniques()
	},
}

var basesCmd = &cobra.Command{
	Use:   "bases",
	Short: "List the base rulesets override documents can name",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		bases, err := ruleset.DefaultBases()
		if err != nil {
			return err
		}
		return p.PrintBases(bases.All())
	},
}

var supplementalCmd = &cobra.Command{
	Use:   "supplemental",
	Short: "List the rulings that apply on top of every ruleset",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		return p.PrintSupplemental(ruleset.Supplemental())
	},
}

func init() {
	rootCmd.AddCommand(techniquesCmd, basesCmd, supplementalCmd)
}
