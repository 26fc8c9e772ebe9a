package service

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/pager"
	"github.com/banter-app/banter-cli/pkg/reaction"
)

// DefaultPageSize for paginated feeds and lists
const DefaultPageSize = 20

// FeedService provides home feed operations
type FeedService struct {
	api        *api.Client
	pager      *pager.Pager[api.Post]
	engines    map[string]*reaction.Engine
	refreshing apperr.Tracker
}

// NewFeedService creates a new feed service
func NewFeedService(c *api.Client) *FeedService {
	s := &FeedService{api: c, engines: make(map[string]*reaction.Engine)}
	s.pager = pager.New(s.fetchPage, DefaultPageSize, func(p api.Post) string { return p.ID })
	return s
}

func (s *FeedService) fetchPage(ctx context.Context, page, pageSize int) ([]api.Post, api.PageMeta, error) {
	feed, err := s.api.GetFeed(ctx, page, pageSize)
	if err != nil {
		return nil, api.PageMeta{}, err
	}
	return feed.Posts, feed.Meta, nil
}

// Pager exposes the feed pager for incremental loading
func (s *FeedService) Pager() *pager.Pager[api.Post] {
	return s.pager
}

// Refresh reloads the first page and rebinds reaction engines to the
// server state that came back. A failed refresh notifies the global error
// handler; success is reported to the caller.
func (s *FeedService) Refresh(ctx context.Context) bool {
	_, ok := apperr.Call(&s.refreshing, func() (struct{}, error) {
		return struct{}{}, s.pager.LoadInitial(ctx)
	})
	if !ok {
		return false
	}
	for _, post := range s.pager.Items() {
		if eng, found := s.engines[post.ID]; found {
			eng.Rebind(post.Reactions)
		}
	}
	return true
}

// Refreshing reports whether a refresh is in flight
func (s *FeedService) Refreshing() bool {
	return s.refreshing.InFlight()
}

// EngineFor returns the reaction engine for a post, creating one keyed by
// the post's scope on first use.
func (s *FeedService) EngineFor(post api.Post) *reaction.Engine {
	if eng, ok := s.engines[post.ID]; ok {
		return eng
	}
	var eng *reaction.Engine
	if post.Scope == api.PostScopeCommunity {
		eng = reaction.NewCommunityEngine(s.api, post.CommunityID, post.Reactions)
	} else {
		eng = reaction.NewEngine(s.api, post.Reactions)
	}
	s.engines[post.ID] = eng
	return eng
}

// React applies a reaction to a post through its engine
func (s *FeedService) React(ctx context.Context, post api.Post, rt api.ReactionType) error {
	return s.EngineFor(post).Select(ctx, rt)
}

// ReactByID reacts to a post that is not in the current feed window. The
// current summary is fetched first so the engine has a base state.
func (s *FeedService) ReactByID(ctx context.Context, postID string, rt api.ReactionType) error {
	summary, err := s.api.GetReactionSummary(ctx, postID)
	if err != nil {
		return err
	}
	eng := reaction.NewEngine(s.api, *summary)
	return eng.Select(ctx, rt)
}

// Browse renders the home feed through the pager: the first page, then
// every remaining page when all is set.
func (s *FeedService) Browse(ctx context.Context, all bool) error {
	logger.Debug("Browsing feed", "all", all)

	if !s.Refresh(ctx) {
		return fmt.Errorf("failed to load feed")
	}
	for all && s.pager.HasMore() {
		if err := s.pager.LoadMore(ctx); err != nil {
			return fmt.Errorf("failed to load more posts: %w", err)
		}
	}

	posts := s.pager.Items()
	if len(posts) == 0 {
		fmt.Println("No posts in your feed.")
		return nil
	}

	rows := make([][]string, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, formatter.PostRow(post))
	}
	if err := output.PrintList("Feed", rows, formatter.PostColumns()); err != nil {
		return err
	}

	if s.pager.HasMore() {
		fmt.Println("\nMore posts available; rerun with --all to fetch everything.")
	}
	return nil
}

// ViewFeed displays one page of the home feed by number
func (s *FeedService) ViewFeed(ctx context.Context, page, pageSize int) error {
	logger.Debug("Viewing feed", "page", page)

	feed, err := s.api.GetFeed(ctx, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch feed: %w", err)
	}

	if len(feed.Posts) == 0 {
		fmt.Println("No posts in your feed.")
		return nil
	}

	rows := make([][]string, 0, len(feed.Posts))
	for _, post := range feed.Posts {
		rows = append(rows, formatter.PostRow(post))
	}
	if err := output.PrintList("Feed", rows, formatter.PostColumns()); err != nil {
		return err
	}

	if feed.Meta.TotalPages > 0 {
		fmt.Printf("\nPage %d of %d (%d posts)\n", feed.Meta.Page, feed.Meta.TotalPages, feed.Meta.TotalCount)
	}
	return nil
}

// ViewComments displays a page of comments on a post
func (s *FeedService) ViewComments(ctx context.Context, postID string, page, pageSize int) error {
	comments, err := s.api.GetComments(ctx, postID, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch comments: %w", err)
	}

	if len(comments.Comments) == 0 {
		fmt.Println("No comments yet.")
		return nil
	}

	for _, c := range comments.Comments {
		formatter.Bold.Printf("%s", c.Author.Username)
		fmt.Printf("  %s\n  %s\n\n", formatter.RelativeTime(c.CreatedAt), c.Content)
	}
	return nil
}

// AddComment posts a comment
func (s *FeedService) AddComment(ctx context.Context, postID, content string) error {
	if content == "" {
		return fmt.Errorf("comment cannot be empty")
	}
	comment, err := s.api.AddComment(ctx, postID, content)
	if err != nil {
		return err
	}
	formatter.PrintSuccess("✓ Comment added (%s)", comment.ID)
	return nil
}
