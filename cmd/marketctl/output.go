package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"marketplace/internal/api"
	"marketplace/internal/client"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func verifiedMark(v bool) string {
	if v {
		return "✓"
	}
	return ""
}

func readMark(n api.Notification) string {
	if n.IsRead {
		return " "
	}
	return "•"
}

func printListings(w io.Writer, listings []api.Listing) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tTITLE\tPRICE\tCATEGORY\tSELLER\tRATING\tVERIFIED\tPOSTED")
	for _, l := range listings {
		fmt.Fprintf(tw, "%d\t%s %s\t%d\t%s\t%s\t%.1f\t%s\t%s\n",
			l.ID, l.Image, l.Title, l.Price, l.Category, l.Seller, l.Rating, verifiedMark(l.Verified), l.Posted)
	}
	return tw.Flush()
}

func printRequests(w io.Writer, requests []api.VerificationRequest) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tUSER\tRATING\tSTATUS\tDOCUMENT\tPHONE\tEMAIL\tREASON")
	for _, r := range requests {
		fmt.Fprintf(tw, "%d\t%s (#%d)\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.UserName, r.UserID, r.UserRating, r.Status, r.DocumentType, r.Phone, r.Email, r.RejectionReason)
	}
	return tw.Flush()
}

func printNotifications(w io.Writer, resp api.NotificationsResponse) error {
	fmt.Fprintf(w, "%d unread\n", resp.UnreadCount)
	tw := newTable(w)
	for _, n := range resp.Notifications {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", readMark(n), n.ID, n.Title, n.Message)
	}
	return tw.Flush()
}

// describeError turns client errors into one line for the terminal.
func describeError(err error) string {
	var statusErr *client.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.UserMessage()
	}
	if client.IsTransport(err) {
		return "backend unreachable: " + err.Error()
	}
	return err.Error()
}
