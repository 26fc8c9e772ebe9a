package api

import (
	"context"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// Search searches users, posts, and communities in one query
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResponse, error) {
	logger.Debug("Searching", "query", query, "page", page)

	var result SearchResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(SearchRequest{Query: query, Page: page}).
		SetResult(&result).
		Post("/search")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Follow follows a user
func (c *Client) Follow(ctx context.Context, userID string) error {
	logger.Debug("Following user", "user_id", userID)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Post("/follow/" + userID)

	return apperr.CheckResponse(resp, err)
}

// Unfollow unfollows a user
func (c *Client) Unfollow(ctx context.Context, userID string) error {
	logger.Debug("Unfollowing user", "user_id", userID)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Delete("/follow/" + userID)

	return apperr.CheckResponse(resp, err)
}
