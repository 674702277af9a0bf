package main

import (
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "surfacerecon",
	Short: "Automated web-API reconnaissance and authorization-probing pipeline",
	Long: `surfacerecon runs the offline analysis pipeline over a captured HTTP
traffic log: it models endpoints, infers identifier pools, synthesizes
adversarial test cases for IDOR/auth-bypass/method-confusion/mass-assignment,
replays them under rate control, and diffs the results against the
captured baselines to classify findings by severity.

The headless-browser capture stage that produces requests.json is a
separate, out-of-scope tool; surfacerecon only consumes its output.

Examples:
  # Run the full pipeline against a scenario directory
  surfacerecon run --scenario ./scenarios/acme

  # Run a single stage
  surfacerecon model --scenario ./scenarios/acme
  surfacerecon replay --scenario ./scenarios/acme --cookies session.json`,
	Version: version,
}

var scenarioDir string

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&scenarioDir, "scenario", ".", "scenario directory holding the pipeline's artifacts")
}
