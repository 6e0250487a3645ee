package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/teddycode/teddy/pkg/plan"
	"github.com/teddycode/teddy/pkg/ui"
)

var planCmd = &cobra.Command{
	Use:   "plan [file]",
	Short: "Parse a plan document and show the steps without executing them",
	Long: `Reads a markdown document (a file argument, or stdin when omitted),
runs plan detection on it, and prints the extracted steps. Nothing is
executed; this is a dry run of the detector and parsers.`,
	Run: func(cmd *cobra.Command, args []string) {
		var data []byte
		var err error
		if len(args) > 0 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = os.ReadFile("/dev/stdin")
		}
		if err != nil {
			log.Fatalf("failed to read plan document: %v", err)
		}

		detection := plan.Detect(string(data))
		if !detection.IsPlanDocument {
			ui.Out().Print("Not a recognizable plan document.\n")
			return
		}
		ui.Out().Printf("Detected %s plan with %d step(s):\n", detection.Format, len(detection.Steps))
		for _, step := range detection.Steps {
			ui.Out().Printf("  %2d. [%s] %s", step.ID, step.Type, step.Target)
			if step.Description != "" && step.Description != step.Target {
				ui.Out().Printf(" - %s", step.Description)
			}
			if step.CodeBlock != "" {
				ui.Out().Printf(" (%d bytes of code)", len(step.CodeBlock))
			}
			ui.Out().Print("\n")
		}
	},
}
