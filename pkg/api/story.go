package api

import (
	"context"
	"io"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// UploadStory uploads a story with optional caption. This goes through the
// multipart client; identity headers are injected the same as everywhere.
func (c *Client) UploadStory(ctx context.Context, filename string, media io.Reader, caption string) (*Story, error) {
	logger.Debug("Uploading story", "filename", filename)

	var result struct {
		Story Story `json:"story"`
	}
	resp, err := c.gw.Multipart().R().
		SetContext(ctx).
		SetFileReader("media", filename, media).
		SetFormData(map[string]string{"caption": caption}).
		SetResult(&result).
		Post("/upload-story")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Story, nil
}

// GetStories retrieves the active stories of followed users
func (c *Client) GetStories(ctx context.Context) ([]Story, error) {
	logger.Debug("Fetching stories")

	var result StoryListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetResult(&result).
		Get("/get-stories")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return result.Stories, nil
}
