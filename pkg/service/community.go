package service

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/pager"
	"github.com/banter-app/banter-cli/pkg/reaction"
)

// CommunityService provides community operations
type CommunityService struct {
	api *api.Client
}

// NewCommunityService creates a new community service
func NewCommunityService(c *api.Client) *CommunityService {
	return &CommunityService{api: c}
}

// List displays a page of communities
func (s *CommunityService) List(ctx context.Context, page, pageSize int) error {
	resp, err := s.api.GetCommunities(ctx, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch communities: %w", err)
	}

	if len(resp.Communities) == 0 {
		fmt.Println("No communities found.")
		return nil
	}

	rows := make([][]string, 0, len(resp.Communities))
	for _, c := range resp.Communities {
		rows = append(rows, formatter.CommunityRow(c))
	}
	return output.PrintList("Communities", rows, formatter.CommunityColumns())
}

// Join joins a community
func (s *CommunityService) Join(ctx context.Context, communityID string) error {
	if err := s.api.JoinCommunity(ctx, communityID); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Joined community")
	return nil
}

// Leave leaves a community
func (s *CommunityService) Leave(ctx context.Context, communityID string) error {
	if err := s.api.LeaveCommunity(ctx, communityID); err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Left community")
	return nil
}

// PostsPager returns a pager over a community's posts
func (s *CommunityService) PostsPager(communityID string) *pager.Pager[api.Post] {
	return pager.New(func(ctx context.Context, page, pageSize int) ([]api.Post, api.PageMeta, error) {
		feed, err := s.api.GetCommunityPosts(ctx, communityID, page, pageSize)
		if err != nil {
			return nil, api.PageMeta{}, err
		}
		return feed.Posts, feed.Meta, nil
	}, DefaultPageSize, func(p api.Post) string { return p.ID })
}

// ViewPosts displays a page of a community's posts
func (s *CommunityService) ViewPosts(ctx context.Context, communityID string, page, pageSize int) error {
	feed, err := s.api.GetCommunityPosts(ctx, communityID, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch community posts: %w", err)
	}

	if len(feed.Posts) == 0 {
		fmt.Println("No posts in this community.")
		return nil
	}

	rows := make([][]string, 0, len(feed.Posts))
	for _, post := range feed.Posts {
		rows = append(rows, formatter.PostRow(post))
	}
	return output.PrintList("Community posts", rows, formatter.PostColumns())
}

// React applies a reaction to a community post. The combined endpoint
// returns the refreshed summary, which the engine adopts as truth.
func (s *CommunityService) React(ctx context.Context, communityID, postID string, rt api.ReactionType) error {
	summary, err := s.api.GetReactionSummary(ctx, postID)
	if err != nil {
		return err
	}
	eng := reaction.NewCommunityEngine(s.api, communityID, *summary)
	return eng.Select(ctx, rt)
}
