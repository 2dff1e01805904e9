package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"marketplace/internal/api"
	"marketplace/internal/catalog"
)

func newListingsCmd(a *app) *cobra.Command {
	var (
		criteria catalog.Criteria
		local    bool
	)

	cmd := &cobra.Command{
		Use:   "listings",
		Short: "Browse and filter listings",
		Long: `Lists marketplace items, newest first.

Filters combine: a text query over title and description, a category
("all" for every category), a price range and the verified-sellers switch.
Malformed price bounds are ignored. With --local the full list is fetched
and filtered on this machine.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var (
				listings []api.Listing
				err      error
			)
			if local {
				listings, err = a.client.Listings(ctx, catalog.Criteria{})
				if err == nil {
					listings = catalog.Filter(listings, criteria)
				}
			} else {
				listings, err = a.client.Listings(ctx, criteria)
			}
			if err != nil {
				return fmt.Errorf("failed to load listings: %s", describeError(err))
			}

			if len(listings) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No listings match")
				return nil
			}
			return printListings(cmd.OutOrStdout(), listings)
		},
	}

	cmd.Flags().StringVarP(&criteria.Query, "query", "q", "", "text to find in title or description")
	cmd.Flags().StringVar(&criteria.Category, "category", api.CategoryAll, "category name or \"all\"")
	cmd.Flags().StringVar(&criteria.MinPrice, "min-price", "", "lowest price")
	cmd.Flags().StringVar(&criteria.MaxPrice, "max-price", "", "highest price")
	cmd.Flags().BoolVar(&criteria.VerifiedOnly, "verified-only", false, "only listings from verified sellers")
	cmd.Flags().BoolVar(&local, "local", false, "filter on this machine instead of the backend")

	cmd.AddCommand(newListingShowCmd(a), newListingCreateCmd(a), newCategoriesCmd(a))
	return cmd
}

func newListingShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			l, err := a.client.Listing(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to load listing: %s", describeError(err))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", l.Image, l.Title)
			fmt.Fprintf(out, "Price:    %d\n", l.Price)
			fmt.Fprintf(out, "Category: %s\n", l.Category)
			fmt.Fprintf(out, "Location: %s\n", l.Location)
			fmt.Fprintf(out, "Seller:   %s (%.1f) %s\n", l.Seller, l.Rating, verifiedMark(l.Verified))
			fmt.Fprintf(out, "Views:    %d\n", l.Views)
			fmt.Fprintf(out, "Posted:   %s\n", l.Posted)
			if l.Description != "" {
				fmt.Fprintf(out, "\n%s\n", l.Description)
			}
			return nil
		},
	}
}

func newListingCreateCmd(a *app) *cobra.Command {
	var req api.CreateListingRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a new ad",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sellerID, err := a.userID(req.SellerID)
			if err != nil {
				return err
			}
			req.SellerID = sellerID

			resp, err := a.client.CreateListing(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("failed to create listing: %s", describeError(err))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Listing %d published\n", resp.ID)
			return nil
		},
	}

	cmd.Flags().UintVar(&req.SellerID, "seller", 0, "seller user id (defaults to the profile user)")
	cmd.Flags().StringVar(&req.Title, "title", "", "ad title")
	cmd.Flags().StringVar(&req.Price, "price", "", "whole price, e.g. 65000")
	cmd.Flags().StringVar(&req.Category, "category", "", "category name")
	cmd.Flags().StringVar(&req.Description, "description", "", "free text description")
	cmd.Flags().StringVar(&req.Location, "location", "", "city or area")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show categories with listing counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			categories, err := a.client.Categories(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to load categories: %s", describeError(err))
			}
			tw := newTable(cmd.OutOrStdout())
			for _, c := range categories {
				fmt.Fprintf(tw, "%s %s\t%d\n", c.Image, c.Name, c.Count)
			}
			return tw.Flush()
		},
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return uint(id), nil
}
