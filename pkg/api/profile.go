package api

import (
	"context"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// EditProfileRequest carries the editable profile fields
type EditProfileRequest struct {
	Name      string `json:"name,omitempty"`
	Username  string `json:"username,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// EditProfile updates the current user's profile
func (c *Client) EditProfile(ctx context.Context, req EditProfileRequest) (*User, error) {
	logger.Debug("Editing profile")

	var result struct {
		User User `json:"user"`
	}
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Put("/edit-profile")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.User, nil
}

// GetAvatars retrieves the preset avatar gallery
func (c *Client) GetAvatars(ctx context.Context) ([]Avatar, error) {
	logger.Debug("Fetching avatars")

	var result AvatarListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetResult(&result).
		Get("/get-avatars")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return result.Avatars, nil
}

// GetProfile retrieves a user profile by id
func (c *Client) GetProfile(ctx context.Context, userID string) (*User, error) {
	logger.Debug("Fetching profile", "user_id", userID)

	var result struct {
		User User `json:"user"`
	}
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetResult(&result).
		Get("/profile/" + userID)

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.User, nil
}
