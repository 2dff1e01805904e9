package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"marketplace/internal/api"
	"marketplace/internal/catalog"
)

func newDashboardCmd(a *app) *cobra.Command {
	var admin bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Summary of listings, notifications and (with --admin) the moderation queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				listings []api.Listing
				inbox    api.NotificationsResponse
				counts   map[string]int64
			)

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				listings, err = a.client.Listings(ctx, catalog.Criteria{})
				return err
			})
			if a.profile.UserID != 0 {
				g.Go(func() error {
					var err error
					inbox, err = a.client.Notifications(ctx, a.profile.UserID)
					return err
				})
			}
			if admin {
				g.Go(func() error {
					var err error
					counts, err = a.client.VerificationCounts(ctx)
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return fmt.Errorf("failed to load dashboard: %s", describeError(err))
			}

			out := cmd.OutOrStdout()
			verified := catalog.Filter(listings, catalog.Criteria{VerifiedOnly: true})
			fmt.Fprintf(out, "Listings: %d (%d from verified sellers)\n", len(listings), len(verified))
			if a.profile.UserID != 0 {
				fmt.Fprintf(out, "Unread notifications: %d\n", inbox.UnreadCount)
			}
			if admin {
				fmt.Fprintf(out, "Verification requests: %d pending, %d approved, %d rejected\n",
					counts[api.StatusPending], counts[api.StatusApproved], counts[api.StatusRejected])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "include moderation counters (needs an admin token)")
	return cmd
}
