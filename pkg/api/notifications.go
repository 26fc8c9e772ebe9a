package api

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// GetNotifications retrieves a page of notifications
func (c *Client) GetNotifications(ctx context.Context, page, pageSize int) (*NotificationListResponse, error) {
	logger.Debug("Fetching notifications", "page", page)

	var result NotificationListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get("/get-notifications")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// MarkNotificationRead marks a single notification as read
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID string) error {
	logger.Debug("Marking notification as read", "notification_id", notificationID)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Patch(fmt.Sprintf("/notifications/%s/read", notificationID))

	return apperr.CheckResponse(resp, err)
}

// MarkAllNotificationsRead marks every notification as read
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	logger.Debug("Marking all notifications as read")

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Patch("/notifications/read-all")

	return apperr.CheckResponse(resp, err)
}
