package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stagetrack/internal/cli"
	"github.com/example/stagetrack/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "stagetrack",
		Short:   "stagetrack - project stage lifecycle and change approvals",
		Version: version.String(),
		Long: `stagetrack tracks projects through an ordered stage lifecycle.
Stage changes go through a submit/approve workflow, completions cascade
backward through earlier stages, and every change lands in an audit log.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cli.LoadActor()
		},
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.ProjectCmd())
	rootCmd.AddCommand(cli.StageCmd())
	rootCmd.AddCommand(cli.RequestCmd())
	rootCmd.AddCommand(cli.FactCmd())
	rootCmd.AddCommand(cli.LogCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
