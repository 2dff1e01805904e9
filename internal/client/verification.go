package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"marketplace/internal/api"
)

// SubmitVerification files a verification request for a user.
func (c *Client) SubmitVerification(ctx context.Context, req api.SubmitVerificationRequest) (api.CreatedResponse, error) {
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.DocumentNumber = strings.TrimSpace(req.DocumentNumber)
	if err := api.Validate(req); err != nil {
		return api.CreatedResponse{}, err
	}

	var resp api.CreatedResponse
	err := c.do(ctx, http.MethodPost, VerificationPath, nil, req, &resp)
	return resp, err
}

// VerificationStatus returns the latest verification state of a user.
func (c *Client) VerificationStatus(ctx context.Context, userID uint) (api.VerificationStatus, error) {
	var status api.VerificationStatus
	query := url.Values{"user_id": {strconv.FormatUint(uint64(userID), 10)}}
	err := c.do(ctx, http.MethodGet, VerificationPath, query, nil, &status)
	return status, err
}

// VerificationRequests returns the moderation queue for status; pending when
// status is empty. Requires an admin token.
func (c *Client) VerificationRequests(ctx context.Context, status string) ([]api.VerificationRequest, error) {
	var query url.Values
	if status != "" {
		query = url.Values{"status": {status}}
	}

	var resp api.VerificationListResponse
	if err := c.do(ctx, http.MethodGet, VerificationPath, query, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Requests == nil {
		resp.Requests = []api.VerificationRequest{}
	}
	return resp.Requests, nil
}

// PendingVerifications returns the pending moderation queue.
func (c *Client) PendingVerifications(ctx context.Context) ([]api.VerificationRequest, error) {
	return c.VerificationRequests(ctx, api.StatusPending)
}

// VerificationCounts returns request counts per status. Requires an admin
// token.
func (c *Client) VerificationCounts(ctx context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	err := c.do(ctx, http.MethodGet, "/api/admin/verification/stats", nil, nil, &counts)
	return counts, err
}

// DecideVerification approves or rejects a request. A rejection without a
// reason fails locally. Requires an admin token.
func (c *Client) DecideVerification(ctx context.Context, req api.DecisionRequest) (api.DecisionResponse, error) {
	if err := api.Validate(req); err != nil {
		return api.DecisionResponse{}, err
	}
	if req.Action == api.ActionReject && strings.TrimSpace(req.RejectionReason) == "" {
		return api.DecisionResponse{}, api.Invalid("rejection_reason", "is required when rejecting")
	}

	var resp api.DecisionResponse
	err := c.do(ctx, http.MethodPut, VerificationPath, nil, req, &resp)
	return resp, err
}
