package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"marketplace/internal/api"
	"marketplace/internal/catalog"
)

// Listings fetches listings. Criteria are sent to the backend as query
// parameters; pass the zero value to fetch everything and filter locally.
func (c *Client) Listings(ctx context.Context, criteria catalog.Criteria) ([]api.Listing, error) {
	var resp api.ListingsResponse
	if err := c.do(ctx, http.MethodGet, ListingsPath, criteria.Values(), nil, &resp); err != nil {
		return nil, err
	}
	if resp.Products == nil {
		resp.Products = []api.Listing{}
	}
	return resp.Products, nil
}

// Listing fetches one listing by id.
func (c *Client) Listing(ctx context.Context, id uint) (api.Listing, error) {
	var listing api.Listing
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", ListingsPath, id), nil, nil, &listing)
	return listing, err
}

// Categories returns the backend's category set with listing counts.
func (c *Client) Categories(ctx context.Context) ([]api.CategorySummary, error) {
	var resp api.CategoriesResponse
	if err := c.do(ctx, http.MethodGet, "/api/categories", nil, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Categories, nil
}

// CreateListing submits the ad form. The form is checked locally first,
// including that price is a whole non-negative number; nothing is sent when
// it is invalid.
func (c *Client) CreateListing(ctx context.Context, req api.CreateListingRequest) (api.CreatedResponse, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Location = strings.TrimSpace(req.Location)
	if err := api.Validate(req); err != nil {
		return api.CreatedResponse{}, err
	}
	if _, err := catalog.ParsePrice(req.Price); err != nil {
		return api.CreatedResponse{}, err
	}

	var resp api.CreatedResponse
	err := c.do(ctx, http.MethodPost, ListingsPath, nil, req, &resp)
	return resp, err
}
