package api

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// AddReaction attaches the viewer's reaction of the given type to an entity
func (c *Client) AddReaction(ctx context.Context, entityID string, rt ReactionType) error {
	logger.Debug("Adding reaction", "entity_id", entityID, "type", rt)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(map[string]string{"entity_id": entityID, "type": string(rt)}).
		Post("/reactions")

	return apperr.CheckResponse(resp, err)
}

// RemoveReaction removes the viewer's reaction of the given type
func (c *Client) RemoveReaction(ctx context.Context, entityID string, rt ReactionType) error {
	logger.Debug("Removing reaction", "entity_id", entityID, "type", rt)

	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/reactions/%s/%s", entityID, rt))

	return apperr.CheckResponse(resp, err)
}

// GetReactionSummary retrieves per-type counts and per-type user lists for
// an entity. Used to populate the reaction tooltip and to resync after
// community reactions.
func (c *Client) GetReactionSummary(ctx context.Context, entityID string) (*ReactionSummary, error) {
	logger.Debug("Fetching reaction summary", "entity_id", entityID)

	var result ReactionSummary
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetResult(&result).
		Get(fmt.Sprintf("/reactions/%s", entityID))

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	if result.EntityID == "" {
		result.EntityID = entityID
	}
	return &result, nil
}
