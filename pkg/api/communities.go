package api

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// GetCommunities retrieves a page of communities
func (c *Client) GetCommunities(ctx context.Context, page, pageSize int) (*CommunityListResponse, error) {
	logger.Debug("Fetching communities", "page", page)

	var result CommunityListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get("/communities")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// JoinCommunity joins the viewer to a community
func (c *Client) JoinCommunity(ctx context.Context, communityID string) error {
	logger.Debug("Joining community", "community_id", communityID)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Post(fmt.Sprintf("/communities/%s/join", communityID))

	return apperr.CheckResponse(resp, err)
}

// LeaveCommunity removes the viewer from a community
func (c *Client) LeaveCommunity(ctx context.Context, communityID string) error {
	logger.Debug("Leaving community", "community_id", communityID)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Post(fmt.Sprintf("/communities/%s/leave", communityID))

	return apperr.CheckResponse(resp, err)
}

// GetCommunityPosts retrieves a page of posts in a community
func (c *Client) GetCommunityPosts(ctx context.Context, communityID string, page, pageSize int) (*FeedResponse, error) {
	logger.Debug("Fetching community posts", "community_id", communityID, "page", page)

	var result FeedResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get(fmt.Sprintf("/communities/%s/posts", communityID))

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// ReactToCommunityPost is the combined community reaction endpoint: one call
// expresses add, remove, or switch, and the response reports the resulting
// state in a single payload.
func (c *Client) ReactToCommunityPost(ctx context.Context, communityID, postID string, rt ReactionType, remove bool) (*ReactionSummary, error) {
	logger.Debug("Reacting to community post", "community_id", communityID, "post_id", postID, "type", rt, "remove", remove)

	var result ReactionSummary
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"post_id": postID,
			"type":    string(rt),
			"remove":  remove,
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/communities/%s/react", communityID))

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	if result.EntityID == "" {
		result.EntityID = postID
	}
	return &result, nil
}
