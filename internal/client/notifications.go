package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"marketplace/internal/api"
)

// Notifications returns a user's notifications and unread count.
func (c *Client) Notifications(ctx context.Context, userID uint) (api.NotificationsResponse, error) {
	var resp api.NotificationsResponse
	query := url.Values{"user_id": {strconv.FormatUint(uint64(userID), 10)}}
	if err := c.do(ctx, http.MethodGet, NotificationsPath, query, nil, &resp); err != nil {
		return api.NotificationsResponse{}, err
	}
	if resp.Notifications == nil {
		resp.Notifications = []api.Notification{}
	}
	return resp, nil
}

// CreateNotification stores a notification. Requires an admin token.
func (c *Client) CreateNotification(ctx context.Context, req api.CreateNotificationRequest) (api.CreatedResponse, error) {
	if err := api.Validate(req); err != nil {
		return api.CreatedResponse{}, err
	}

	var resp api.CreatedResponse
	err := c.do(ctx, http.MethodPost, NotificationsPath, nil, req, &resp)
	return resp, err
}

// MarkNotificationRead flags a notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID uint) error {
	return c.do(ctx, http.MethodPut, NotificationsPath, nil, api.MarkReadRequest{NotificationID: notificationID}, nil)
}
