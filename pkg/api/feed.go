package api

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// GetFeed retrieves a page of the home feed. Posts arrive in newest-first
// order; community and regular posts are mixed, distinguished by Scope.
func (c *Client) GetFeed(ctx context.Context, page, pageSize int) (*FeedResponse, error) {
	logger.Debug("Fetching feed", "page", page)

	var result FeedResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get("/feed")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetComments retrieves a page of comments on a post
func (c *Client) GetComments(ctx context.Context, postID string, page, pageSize int) (*CommentListResponse, error) {
	logger.Debug("Fetching comments", "post_id", postID, "page", page)

	var result CommentListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get(fmt.Sprintf("/posts/%s/comments", postID))

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment posts a comment on a post
func (c *Client) AddComment(ctx context.Context, postID, content string) (*Comment, error) {
	logger.Debug("Adding comment", "post_id", postID)

	var result struct {
		Comment Comment `json:"comment"`
	}
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&result).
		Post(fmt.Sprintf("/posts/%s/comments", postID))

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Comment, nil
}
