package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show an overview of all projects",
		Long:  "Show per-project stage progress and pending change requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			projects, err := wire.ProjectService().ListProjects(ctx)
			if err != nil {
				return fmt.Errorf("failed to list projects: %w", err)
			}
			if len(projects) == 0 {
				fmt.Println("No projects found. Run: stagetrack project create \"Name\"")
				return nil
			}

			pending, err := wire.DecisionService().ListRequests(ctx, primary.RequestFilters{
				DecisionStatus: "pending",
			})
			if err != nil {
				return fmt.Errorf("failed to list pending requests: %w", err)
			}
			pendingByProject := make(map[string]int)
			for _, r := range pending {
				pendingByProject[r.ProjectID]++
			}

			for _, p := range projects {
				stages, err := wire.ProgressService().ListStages(ctx, p.ID)
				if err != nil {
					return fmt.Errorf("failed to list stages for %s: %w", p.ID, err)
				}

				completed := 0
				backfill := 0
				current := ""
				for _, st := range stages {
					switch st.Status {
					case "completed", "skipped":
						completed++
					case "in_progress":
						if current == "" {
							current = st.StageCode
						}
					}
					if st.RequiresBackfill {
						backfill++
					}
				}

				line := fmt.Sprintf("%s  %s  %d/%d stages settled", p.ID, p.Name, completed, len(stages))
				if current != "" {
					line += fmt.Sprintf(", in progress: %s", current)
				}
				if n := pendingByProject[p.ID]; n > 0 {
					line += color.New(color.FgYellow).Sprintf(", %d pending request(s)", n)
				}
				if backfill > 0 {
					line += color.New(color.FgYellow).Sprintf(", %d stage(s) need backfill", backfill)
				}
				fmt.Println(line)
			}

			if len(pending) > 0 {
				fmt.Println()
				fmt.Printf("Pending requests: %d (run: stagetrack request list --decision pending)\n", len(pending))
			}
			return nil
		},
	}
}
