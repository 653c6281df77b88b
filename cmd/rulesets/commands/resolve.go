package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/TimurManjosov/rulesetweekly/internal/overrides"
	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
	"github.com/TimurManjosov/rulesetweekly/internal/rollout"
)

var (
	resolveSeed string
	resolveSave bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <file>",
	Short: "Resolve a custom ruleset from an override document",
	Long: `Resolve a custom ruleset from a YAML or JSON override document.

The document names a base ruleset and maps techniques to "true", "false",
a chance per thousand ("500") or a percentage-looking chance ("69%").
Unknown technique names are reported and ignored.

Without --seed a random seed is drawn; it is printed with the result so the
ruleset can be reproduced. Seeds that are not numbers are hashed.

Examples:
  rulesets resolve qualifier.yaml
  rulesets resolve qualifier.yaml --seed 42
  rulesets resolve qualifier.yaml --seed "spring cup" --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
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

		req := publisher.CustomRequest{Save: resolveSave}
		if cmd.Flags().Changed("seed") {
			seed := rollout.SeedFromText(resolveSeed)
			req.Seed = &seed
		}

		res, err := svc.ResolveCustom(cmd.Context(), doc, req)
		if err != nil {
			if overrides.IsUserError(err) {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			return fmt.Errorf("failed to resolve ruleset: %w", err)
		}
		if res.Warning != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", res.Warning)
		}
		if verbose && resolveSave {
			fmt.Fprintf(cmd.ErrOrStderr(), "Stored as %s\n", res.Snapshot.ID)
		}
		return p.PrintSnapshot(res.Snapshot)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVar(&resolveSeed, "seed", "", "Seed for the random draws (number or text)")
	resolveCmd.Flags().BoolVar(&resolveSave, "save", false, "Record the ruleset in the history")
}
