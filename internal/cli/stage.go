package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/config"
	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/wire"
)

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "View and transition project stages",
	Long:  "Inspect stage progress and, for admins, apply direct status transitions",
}

var stageListCmd = &cobra.Command{
	Use:   "list [project-id]",
	Short: "List stages of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		stages, err := wire.ProgressService().ListStages(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to list stages: %w", err)
		}

		displayStageTable(stages)
		return nil
	},
}

var stageShowCmd = &cobra.Command{
	Use:   "show [project-id] [stage-code]",
	Short: "Show one stage in detail",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		st, err := wire.ProgressService().GetStage(ctx, args[0], args[1])
		if err != nil {
			return fmt.Errorf("stage not found: %w", err)
		}

		fmt.Printf("Stage: %s (%s)\n", st.StageCode, st.Name)
		fmt.Printf("Project: %s\n", st.ProjectID)
		fmt.Printf("Sequence: %d\n", st.Sequence)
		fmt.Printf("Status: %s\n", colorStatus(st.Status))
		if st.ActualStart != "" {
			fmt.Printf("Started: %s\n", st.ActualStart)
		}
		if st.CompletedOn != "" {
			fmt.Printf("Completed: %s\n", st.CompletedOn)
		}
		if st.Optional {
			fmt.Println("Optional: yes")
		}
		if st.AutoCompleted {
			fmt.Printf("Auto-completed from: %s\n", st.AutoCompletedFrom)
		}
		if st.RequiresBackfill {
			fmt.Println(color.New(color.FgYellow).Sprint("Needs backfill: record a supporting fact for this stage"))
		}
		return nil
	},
}

var stageSetCmd = &cobra.Command{
	Use:   "set [project-id] [stage-code] [status]",
	Short: "Apply a status transition directly (admin)",
	Long: `Apply a status transition without going through the change request
workflow. Requires the ADMIN role. Completing a stage cascades completion
backward through earlier stages.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.CanApplyDirect(GetRole()) {
			return fmt.Errorf("direct transitions require the ADMIN role (current: %s)", GetRole())
		}

		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		note, _ := cmd.Flags().GetString("note")

		result, err := wire.ProgressService().ApplyTransition(ctx, primary.TransitionRequest{
			ProjectID: args[0],
			StageCode: args[1],
			NewStatus: args[2],
			Date:      date,
			Note:      note,
		})
		if err != nil {
			return fmt.Errorf("failed to apply transition: %w", err)
		}

		for _, st := range result.Changed {
			if st.AutoCompleted {
				fmt.Printf("  %s -> %s (cascaded from %s)\n", st.StageCode, colorStatus(st.Status), st.AutoCompletedFrom)
			} else {
				fmt.Printf("  %s -> %s\n", st.StageCode, colorStatus(st.Status))
			}
		}
		return nil
	},
}

func init() {
	stageSetCmd.Flags().String("date", "", "Effective date (YYYY-MM-DD, default today)")
	stageSetCmd.Flags().String("note", "", "Note recorded on the log entry")

	// Register subcommands
	stageCmd.AddCommand(stageListCmd)
	stageCmd.AddCommand(stageShowCmd)
	stageCmd.AddCommand(stageSetCmd)
}

// StageCmd returns the stage command
func StageCmd() *cobra.Command {
	return stageCmd
}

// displayStageTable renders stages in sequence order with date columns.
func displayStageTable(stages []*primary.ProjectStage) {
	if len(stages) == 0 {
		fmt.Println("No stages found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEQ\tCODE\tNAME\tSTATUS\tSTARTED\tCOMPLETED\tFLAGS")
	fmt.Fprintln(w, "---\t----\t----\t------\t-------\t---------\t-----")
	for _, st := range stages {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			st.Sequence,
			st.StageCode,
			st.Name,
			colorStatus(st.Status),
			st.ActualStart,
			st.CompletedOn,
			stageFlags(st),
		)
	}
	w.Flush()
}

// stageFlags summarizes the bookkeeping markers of a stage row.
func stageFlags(st *primary.ProjectStage) string {
	flags := ""
	if st.Optional {
		flags += "optional "
	}
	if st.AutoCompleted {
		flags += "auto(" + st.AutoCompletedFrom + ") "
	}
	if st.RequiresBackfill {
		flags += color.New(color.FgYellow).Sprint("backfill")
	}
	return flags
}

// colorStatus renders a stage status with its conventional color.
func colorStatus(status string) string {
	switch status {
	case "completed":
		return color.New(color.FgGreen).Sprint(status)
	case "in_progress":
		return color.New(color.FgCyan).Sprint(status)
	case "skipped":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return status
	}
}
