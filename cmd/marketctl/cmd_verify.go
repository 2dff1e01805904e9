package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketplace/internal/api"
	"marketplace/internal/jobs"
	"marketplace/internal/verification"
)

func newVerifyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Seller verification and moderation",
	}
	cmd.AddCommand(
		newVerifySubmitCmd(a),
		newVerifyStatusCmd(a),
		newVerifyQueueCmd(a),
		newVerifyDecideCmd(a, api.ActionApprove),
		newVerifyDecideCmd(a, api.ActionReject),
		newVerifyModerateCmd(a),
	)
	return cmd
}

func newVerifySubmitCmd(a *app) *cobra.Command {
	var form api.SubmitVerificationRequest

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Apply for the verified seller badge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.userID(form.UserID)
			if err != nil {
				return err
			}
			form.UserID = userID

			wizard := verification.NewWizard(a.client)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Verified sellers get a badge on every listing and rank higher in search.")
			if err := wizard.Begin(); err != nil {
				return err
			}

			if _, err := wizard.Submit(cmd.Context(), form); err != nil {
				return fmt.Errorf("failed to submit: %s", describeError(err))
			}
			fmt.Fprintf(out, "Request %d submitted. Review usually takes 1-2 business days.\n", wizard.RequestID())
			return nil
		},
	}

	cmd.Flags().UintVar(&form.UserID, "user", 0, "user id (defaults to the profile user)")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "contact phone")
	cmd.Flags().StringVar(&form.Email, "email", "", "contact email")
	cmd.Flags().StringVar(&form.DocumentType, "document-type", "passport", "identity document type")
	cmd.Flags().StringVar(&form.DocumentNumber, "document-number", "", "identity document number")
	return cmd
}

func newVerifyStatusCmd(a *app) *cobra.Command {
	var user uint

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show a user's verification status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.userID(user)
			if err != nil {
				return err
			}
			status, err := a.client.VerificationStatus(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to load status: %s", describeError(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %s\n", status.UserName, status.Status)
			if status.Status == api.StatusRejected && status.RejectionReason != "" {
				fmt.Fprintf(out, "Reason: %s\n", status.RejectionReason)
			}
			if status.Verified {
				fmt.Fprintln(out, "Verified seller ✓")
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&user, "user", 0, "user id (defaults to the profile user)")
	return cmd
}

func newVerifyQueueCmd(a *app) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "queue",
		Short: "List verification requests (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := a.client.VerificationRequests(cmd.Context(), status)
			if err != nil {
				return fmt.Errorf("failed to load requests: %s", describeError(err))
			}
			if len(requests) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No requests")
				return nil
			}
			return printRequests(cmd.OutOrStdout(), requests)
		},
	}
	cmd.Flags().StringVar(&status, "status", api.StatusPending, "pending, approved, rejected or all")
	return cmd
}

func newVerifyDecideCmd(a *app, action string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   action + " <request-id>",
		Short: strings.ToUpper(action[:1]) + action[1:] + " a pending request (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			workflow := verification.NewWorkflow(a.client, nil, a.logger)
			if err := decide(cmd.Context(), cmd.OutOrStdout(), workflow, action, id, reason); err != nil {
				return err
			}
			if n := workflow.Outbox().Len(); n > 0 {
				return fmt.Errorf("%d notification(s) could not be delivered; run 'verify moderate' to keep retrying", n)
			}
			return nil
		},
	}
	if action == api.ActionReject {
		cmd.Flags().StringVar(&reason, "reason", "", "why the request is rejected (required)")
	}
	return cmd
}

func decide(ctx context.Context, out io.Writer, workflow *verification.Workflow, action string, id uint, reason string) error {
	var (
		resp api.DecisionResponse
		err  error
	)
	if action == api.ActionApprove {
		resp, err = workflow.Approve(ctx, id)
	} else {
		resp, err = workflow.Reject(ctx, id, reason)
	}
	if err != nil {
		return fmt.Errorf("failed to %s request %d: %s", action, id, describeError(err))
	}
	fmt.Fprintf(out, "Request %d %s for %s\n", id, resp.Request.Status, resp.Request.UserName)
	return nil
}

func newVerifyModerateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "moderate",
		Short: "Interactive moderation console (admin)",
		Long: `Reads commands from stdin until EOF:

  list                 show pending requests
  approve <id>         approve a request
  reject <id> <reason> reject a request with a reason
  outbox               show undelivered notifications

Notifications the backend could not store are retried in the background.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			workflow := verification.NewWorkflow(a.client, nil, a.logger)
			done := make(chan struct{})
			go func() {
				defer close(done)
				workflow.Outbox().Run(ctx, jobs.NewTicker(a.profile.OutboxInterval))
			}()
			defer func() {
				cancel()
				<-done
			}()

			return moderate(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), a, workflow)
		},
	}
}

func moderate(ctx context.Context, in io.Reader, out io.Writer, a *app, workflow *verification.Workflow) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "list":
			var requests []api.VerificationRequest
			requests, err = a.client.PendingVerifications(ctx)
			if err == nil {
				err = printRequests(out, requests)
			}
		case "approve", "reject":
			if len(fields) < 2 {
				err = fmt.Errorf("usage: %s <id>", fields[0])
				break
			}
			var id uint
			if id, err = parseID(fields[1]); err == nil {
				err = decide(ctx, out, workflow, fields[0], id, strings.Join(fields[2:], " "))
			}
		case "outbox":
			for _, e := range workflow.Outbox().Pending() {
				fmt.Fprintf(out, "%s\tuser %d\tattempts %d\t%s\n",
					e.Notification.DedupeKey, e.Notification.UserID, e.Attempts, e.LastError)
			}
		default:
			err = fmt.Errorf("unknown command %q", fields[0])
		}

		if err != nil {
			a.logger.Debug("Moderation command failed", zap.Error(err))
			fmt.Fprintln(out, "error:", describeError(err))
		}
	}
	return scanner.Err()
}
