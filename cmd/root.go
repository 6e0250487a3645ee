package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "teddy",
	Short: "AI pair-programming runtime for plan-driven code changes",
	Long: `Teddy turns natural-language instructions into verified code changes.

It detects step plans embedded in chat context, or generates its own
specification and plan, then executes each step against your workspace
and verifies the result, retrying with corrective steps until the task's
success criteria pass.

Available commands:
  run      - Execute an instruction (and any plan in context) against the workspace
  plan     - Parse a plan document and show the steps without executing them
  changes  - Show the change history recorded by previous runs

For a one-shot run, try: teddy run "convert src/app.js to async/await"`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(changesCmd)
}
