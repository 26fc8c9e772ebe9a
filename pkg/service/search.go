package service

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/output"
)

// SearchService provides search and follow operations
type SearchService struct {
	api *api.Client
}

// NewSearchService creates a new search service
func NewSearchService(c *api.Client) *SearchService {
	return &SearchService{api: c}
}

// Search displays users, posts and communities matching the query
func (s *SearchService) Search(ctx context.Context, query string, page int) error {
	if query == "" {
		return fmt.Errorf("query cannot be empty")
	}

	resp, err := s.api.Search(ctx, query, page)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(resp.Users) == 0 && len(resp.Posts) == 0 && len(resp.Communities) == 0 {
		fmt.Printf("No results for %q.\n", query)
		return nil
	}

	if len(resp.Users) > 0 {
		rows := make([][]string, 0, len(resp.Users))
		for _, u := range resp.Users {
			following := ""
			if u.IsFollowing {
				following = "following"
			}
			rows = append(rows, []string{u.ID, u.Username, u.Name, fmt.Sprintf("%d", u.FollowerCount), following})
		}
		if err := output.PrintList("Users", rows, []string{"ID", "Username", "Name", "Followers", ""}); err != nil {
			return err
		}
		fmt.Println()
	}

	if len(resp.Posts) > 0 {
		rows := make([][]string, 0, len(resp.Posts))
		for _, p := range resp.Posts {
			rows = append(rows, formatter.PostRow(p))
		}
		if err := output.PrintList("Posts", rows, formatter.PostColumns()); err != nil {
			return err
		}
		fmt.Println()
	}

	if len(resp.Communities) > 0 {
		rows := make([][]string, 0, len(resp.Communities))
		for _, c := range resp.Communities {
			rows = append(rows, formatter.CommunityRow(c))
		}
		if err := output.PrintList("Communities", rows, formatter.CommunityColumns()); err != nil {
			return err
		}
	}

	return nil
}

// Follow follows a user
func (s *SearchService) Follow(ctx context.Context, userID string) error {
	if err := s.api.Follow(ctx, userID); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Following")
	return nil
}

// Unfollow unfollows a user
func (s *SearchService) Unfollow(ctx context.Context, userID string) error {
	if err := s.api.Unfollow(ctx, userID); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Unfollowed")
	return nil
}
