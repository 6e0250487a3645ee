package cmd

import (
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/teddycode/teddy/pkg/changetracker"
	"github.com/teddycode/teddy/pkg/ui"
)

var changesShowDiff bool

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show the change history recorded by previous runs",
	Run: func(cmd *cobra.Command, args []string) {
		root, err := os.Getwd()
		if err != nil {
			log.Fatalf("could not determine working directory: %v", err)
		}
		records, err := changetracker.LoadChanges(root)
		if err != nil {
			log.Fatalf("failed to load change history: %v", err)
		}
		if len(records) == 0 {
			ui.Out().Print("No recorded changes.\n")
			return
		}
		for _, rec := range records {
			ui.Out().Printf("%s  %s  %s\n", rec.Timestamp.Format(time.RFC3339), rec.Filename, rec.Description)
			if changesShowDiff {
				ui.Out().Print(changetracker.GetDiff(rec.Filename, rec.Before, rec.After))
			}
		}
	},
}

func init() {
	changesCmd.Flags().BoolVarP(&changesShowDiff, "diff", "d", false, "Show the colored diff for each change")
}
