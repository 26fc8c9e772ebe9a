package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/output"
)

// maxStoryBytes caps story uploads client-side
const maxStoryBytes = 50 << 20

// StoryService provides story operations
type StoryService struct {
	api *api.Client
}

// NewStoryService creates a new story service
func NewStoryService(c *api.Client) *StoryService {
	return &StoryService{api: c}
}

// Upload posts a media file as a story
func (s *StoryService) Upload(ctx context.Context, path, caption string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read media file: %w", err)
	}
	if info.Size() > maxStoryBytes {
		return fmt.Errorf("media file exceeds %dMB limit", maxStoryBytes>>20)
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("cannot open media file: %w", err)
	}
	defer f.Close()

	story, err := s.api.UploadStory(ctx, filepath.Base(path), f, caption)
	if err != nil {
		return err
	}

	formatter.PrintSuccess("✓ Story uploaded (%s)", story.ID)
	formatter.PrintInfo("Expires %s", formatter.RelativeTime(story.ExpiresAt))
	return nil
}

// List displays the viewer's story tray
func (s *StoryService) List(ctx context.Context) error {
	stories, err := s.api.GetStories(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch stories: %w", err)
	}

	if len(stories) == 0 {
		fmt.Println("No active stories.")
		return nil
	}

	rows := make([][]string, 0, len(stories))
	for _, story := range stories {
		rows = append(rows, formatter.StoryRow(story))
	}
	return output.PrintList("Stories", rows, formatter.StoryColumns())
}
