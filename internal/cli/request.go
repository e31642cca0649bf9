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

var requestCmd = &cobra.Command{
	Use:   "request",
	Short: "Manage stage change requests",
	Long:  "Submit, list and decide stage change requests",
}

var requestSubmitCmd = &cobra.Command{
	Use:   "submit [project-id] [stage-code] [status]",
	Short: "Submit a change request",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		date, _ := cmd.Flags().GetString("date")
		note, _ := cmd.Flags().GetString("note")

		request, err := wire.DecisionService().SubmitRequest(ctx, primary.SubmitRequestInput{
			ProjectID:       args[0],
			StageCode:       args[1],
			RequestedStatus: args[2],
			RequestedDate:   date,
			Note:            note,
		})
		if err != nil {
			return fmt.Errorf("failed to submit request: %w", err)
		}

		fmt.Printf("Submitted %s: %s %s -> %s (pending)\n",
			request.ID, request.ProjectID, request.StageCode, request.RequestedStatus)
		return nil
	},
}

var requestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List change requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		projectID, _ := cmd.Flags().GetString("project")
		stageCode, _ := cmd.Flags().GetString("stage")
		decision, _ := cmd.Flags().GetString("decision")

		requests, err := wire.DecisionService().ListRequests(ctx, primary.RequestFilters{
			ProjectID:      projectID,
			StageCode:      stageCode,
			DecisionStatus: decision,
		})
		if err != nil {
			return fmt.Errorf("failed to list requests: %w", err)
		}

		if len(requests) == 0 {
			fmt.Println("No change requests found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tSTAGE\tREQUESTED\tDATE\tBY\tDECISION")
		fmt.Fprintln(w, "--\t-------\t-----\t---------\t----\t--\t--------")
		for _, item := range requests {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				item.ID,
				item.ProjectID,
				item.StageCode,
				item.RequestedStatus,
				item.RequestedDate,
				item.RequestedBy,
				colorDecision(item.DecisionStatus),
			)
		}
		w.Flush()
		return nil
	},
}

var requestShowCmd = &cobra.Command{
	Use:   "show [request-id]",
	Short: "Show change request details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()

		request, err := wire.DecisionService().GetRequest(ctx, args[0])
		if err != nil {
			return fmt.Errorf("request not found: %w", err)
		}

		fmt.Printf("Request: %s\n", request.ID)
		fmt.Printf("Project: %s\n", request.ProjectID)
		fmt.Printf("Stage: %s\n", request.StageCode)
		fmt.Printf("Requested Status: %s\n", request.RequestedStatus)
		if request.RequestedDate != "" {
			fmt.Printf("Requested Date: %s\n", request.RequestedDate)
		}
		if request.Note != "" {
			fmt.Printf("Note: %s\n", request.Note)
		}
		fmt.Printf("Requested By: %s at %s\n", request.RequestedBy, request.RequestedOn)
		fmt.Printf("Decision: %s\n", colorDecision(request.DecisionStatus))
		if request.DecisionNote != "" {
			fmt.Printf("Decision Note: %s\n", request.DecisionNote)
		}
		if request.DecidedBy != "" {
			fmt.Printf("Decided By: %s at %s\n", request.DecidedBy, request.DecidedOn)
		}
		return nil
	},
}

var requestApproveCmd = &cobra.Command{
	Use:   "approve [request-id]",
	Short: "Approve a pending change request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return decide(args[0], primary.ActionApprove, note)
	},
}

var requestRejectCmd = &cobra.Command{
	Use:   "reject [request-id]",
	Short: "Reject a pending change request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		note, _ := cmd.Flags().GetString("note")
		return decide(args[0], primary.ActionReject, note)
	},
}

// decide runs an approve/reject action and renders the outcome.
func decide(requestID string, action primary.DecideAction, note string) error {
	if !config.CanApprove(GetRole()) {
		return fmt.Errorf("deciding requests requires the APPROVER role (current: %s)", GetRole())
	}

	ctx := NewContext()
	result, err := wire.DecisionService().Decide(ctx, primary.DecideInput{
		RequestID: requestID,
		Action:    action,
		Note:      note,
	})
	if err != nil {
		return fmt.Errorf("failed to decide request: %w", err)
	}

	past := "approved"
	if action == primary.ActionReject {
		past = "rejected"
	}

	switch result.Outcome {
	case primary.OutcomeSuccess:
		fmt.Printf("Request %s %s\n", requestID, past)
		for _, warning := range result.Warnings {
			fmt.Println(color.New(color.FgYellow).Sprintf("  warning: %s", warning))
		}
		return nil
	case primary.OutcomeNotFound:
		return fmt.Errorf("request %s not found", requestID)
	case primary.OutcomeAlreadyDecided:
		return fmt.Errorf("request %s is already decided", requestID)
	case primary.OutcomeValidationFailed:
		return fmt.Errorf("request %s not applied: %s (request stays pending)", requestID, result.Reason)
	default:
		return fmt.Errorf("unexpected outcome %s", result.Outcome)
	}
}

// colorDecision renders a decision status with its conventional color.
func colorDecision(status string) string {
	switch status {
	case "approved":
		return color.New(color.FgGreen).Sprint(status)
	case "rejected":
		return color.New(color.FgRed).Sprint(status)
	case "pending":
		return color.New(color.FgYellow).Sprint(status)
	default:
		return status
	}
}

func init() {
	requestSubmitCmd.Flags().String("date", "", "Requested effective date (YYYY-MM-DD)")
	requestSubmitCmd.Flags().String("note", "", "Rationale for the change")
	requestApproveCmd.Flags().String("note", "", "Decision note")
	requestRejectCmd.Flags().String("note", "", "Decision note (required for rejection)")

	// Register subcommands
	requestCmd.AddCommand(requestSubmitCmd)
	requestCmd.AddCommand(requestListCmd)
	requestCmd.AddCommand(requestShowCmd)
	requestCmd.AddCommand(requestApproveCmd)
	requestCmd.AddCommand(requestRejectCmd)
}

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	return requestCmd
}
