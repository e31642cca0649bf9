package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/ports/primary"
	"github.com/example/stagetrack/internal/wire"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
	Long:  "Create and view projects and their provisioned lifecycle stages",
}

var projectCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		template, _ := cmd.Flags().GetString("template")

		resp, err := wire.ProjectService().CreateProject(ctx, primary.CreateProjectRequest{
			Name:            args[0],
			TemplateVersion: template,
		})
		if err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}

		fmt.Printf("Created project %s (%s)\n", resp.ProjectID, resp.Project.Name)
		fmt.Printf("Provisioned %d stages from template %s\n", len(resp.Stages), resp.Project.TemplateVersion)
		return nil
	},
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		projects, err := wire.ProjectService().ListProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}

		if len(projects) == 0 {
			fmt.Println("No projects found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tTEMPLATE\tCREATED")
		fmt.Fprintln(w, "--\t----\t--------\t-------")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.TemplateVersion, p.CreatedAt)
		}
		w.Flush()
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show project details and stage progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		projectID := args[0]

		project, err := wire.ProjectService().GetProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("project not found: %w", err)
		}

		stages, err := wire.ProgressService().ListStages(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to list stages: %w", err)
		}

		fmt.Printf("Project: %s\n", project.ID)
		fmt.Printf("Name: %s\n", project.Name)
		fmt.Printf("Template: %s\n", project.TemplateVersion)
		fmt.Printf("Created: %s\n", project.CreatedAt)
		fmt.Println()
		displayStageTable(stages)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("template", "", "Lifecycle template version (default v1)")

	// Register subcommands
	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
}

// ProjectCmd returns the project command
func ProjectCmd() *cobra.Command {
	return projectCmd
}
