package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"marketplace/internal/api"
	"marketplace/internal/jobs"
	"marketplace/internal/verification"
)

func newNotificationsCmd(a *app) *cobra.Command {
	var user uint

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Show a user's notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.userID(user)
			if err != nil {
				return err
			}
			resp, err := a.client.Notifications(cmd.Context(), userID)
			if err != nil {
				return fmt.Errorf("failed to load notifications: %s", describeError(err))
			}
			return printNotifications(cmd.OutOrStdout(), resp)
		},
	}
	cmd.PersistentFlags().UintVar(&user, "user", 0, "user id (defaults to the profile user)")

	cmd.AddCommand(newNotificationReadCmd(a), newNotificationWatchCmd(a, &user))
	return cmd
}

func newNotificationReadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id>...",
		Short: "Mark notifications as read",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			workflow := verification.NewWorkflow(a.client, nil, a.logger)
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				if err := workflow.MarkRead(cmd.Context(), id); err != nil {
					return fmt.Errorf("failed to mark %d read: %s", id, describeError(err))
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Marked %d notification(s) read\n", len(args))
			return nil
		},
	}
}

func newNotificationWatchCmd(a *app, user *uint) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll notifications and print new ones until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := a.userID(*user)
			if err != nil {
				return err
			}
			if interval <= 0 {
				interval = a.profile.NotificationInterval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			printer := newInboxPrinter(cmd.OutOrStdout())
			var snapshot jobs.Snapshot[api.NotificationsResponse]
			refresher := jobs.NewRefresher("notifications", &snapshot, func(ctx context.Context) (api.NotificationsResponse, error) {
				resp, err := a.client.Notifications(ctx, userID)
				if err == nil {
					printer.print(resp)
				}
				return resp, err
			}, a.logger)

			refresher.Run(ctx, jobs.NewTicker(interval))
			return nil
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "poll interval (defaults to the profile, 30s)")
	return cmd
}

// inboxPrinter prints notifications not seen before and unread count changes.
type inboxPrinter struct {
	mu     sync.Mutex
	out    io.Writer
	seen   map[uint]bool
	unread int
}

func newInboxPrinter(out io.Writer) *inboxPrinter {
	return &inboxPrinter{out: out, seen: make(map[uint]bool), unread: -1}
}

func (p *inboxPrinter) print(resp api.NotificationsResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// oldest first so the terminal reads chronologically
	for i := len(resp.Notifications) - 1; i >= 0; i-- {
		n := resp.Notifications[i]
		if p.seen[n.ID] {
			continue
		}
		p.seen[n.ID] = true
		fmt.Fprintf(p.out, "%s [%d] %s: %s\n", readMark(n), n.ID, n.Title, n.Message)
	}
	if resp.UnreadCount != p.unread {
		p.unread = resp.UnreadCount
		fmt.Fprintf(p.out, "%d unread\n", p.unread)
	}
}
