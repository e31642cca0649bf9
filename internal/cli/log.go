package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the stage change audit trail",
	Long:  "List stage change log entries, oldest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		projectID, _ := cmd.Flags().GetString("project")
		requestID, _ := cmd.Flags().GetString("request")
		action, _ := cmd.Flags().GetString("action")

		logs, err := wire.LogService().ListLogs(ctx, primary.LogFilters{
			ProjectID: projectID,
			RequestID: requestID,
			Action:    action,
		})
		if err != nil {
			return fmt.Errorf("failed to list logs: %w", err)
		}

		if len(logs) == 0 {
			fmt.Println("No log entries found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tREQUEST\tPROJECT\tSTAGE\tACTION\tFROM\tTO\tACTOR\tAT")
		fmt.Fprintln(w, "--\t-------\t-------\t-----\t------\t----\t--\t-----\t--")
		for _, entry := range logs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				entry.ID,
				entry.RequestID,
				entry.ProjectID,
				entry.StageCode,
				entry.Action,
				entry.FromStatus,
				entry.ToStatus,
				entry.ActorID,
				entry.CreatedAt,
			)
		}
		w.Flush()
		return nil
	},
}

func init() {
	logCmd.Flags().String("project", "", "Filter by project ID")
	logCmd.Flags().String("request", "", "Filter by change request ID")
	logCmd.Flags().String("action", "", "Filter by action (requested|approved|rejected|applied)")
}

// LogCmd returns the log command
func LogCmd() *cobra.Command {
	return logCmd
}
