package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/wire"
)

var factCmd = &cobra.Command{
	Use:   "fact",
	Short: "Manage stage facts",
	Long:  "Record and list the supporting data that gates stage completion",
}

var factRecordCmd = &cobra.Command{
	Use:   "record [project-id] [stage-code] [summary]",
	Short: "Record a supporting fact for a stage",
	Long: `Record a supporting fact for a project stage. Stages that require
supporting data cannot be completed directly until a fact exists; recording a
fact for a stage flagged for backfill resolves the flag.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		fact, err := wire.FactService().RecordFact(ctx, primary.RecordFactRequest{
			ProjectID: args[0],
			StageCode: args[1],
			Summary:   args[2],
		})
		if err != nil {
			return fmt.Errorf("failed to record fact: %w", err)
		}

		fmt.Printf("Recorded %s for %s/%s\n", fact.ID, fact.ProjectID, fact.StageCode)
		return nil
	},
}

var factListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List facts for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		stageCode, _ := cmd.Flags().GetString("stage")

		facts, err := wire.FactService().ListFacts(ctx, args[0], stageCode)
		if err != nil {
			return fmt.Errorf("failed to list facts: %w", err)
		}

		if len(facts) == 0 {
			fmt.Println("No facts found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTAGE\tSUMMARY\tBY\tRECORDED")
		fmt.Fprintln(w, "--\t-----\t-------\t--\t--------")
		for _, f := range facts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.ID, f.StageCode, f.Summary, f.RecordedBy, f.RecordedAt)
		}
		w.Flush()
		return nil
	},
}

func init() {
	factListCmd.Flags().String("stage", "", "Filter by stage code")

	// Register subcommands
	factCmd.AddCommand(factRecordCmd)
	factCmd.AddCommand(factListCmd)
}

// FactCmd returns the fact command
func FactCmd() *cobra.Command {
	return factCmd
}
