package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/client"
	"github.com/banter-app/banter-cli/pkg/session"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	gw := client.New(server.URL, 5*time.Second, client.ProviderFunc(func() session.Identity {
		return session.Identity{UserID: "viewer-1", Token: "tok"}
	}))
	return New(gw), server
}

// TestAddReaction posts the entity and type
func TestAddReaction(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/reactions" {
			t.Errorf("Unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-User-ID") != "viewer-1" {
			t.Error("Missing identity header")
		}
		w.WriteHeader(http.StatusCreated)
	})

	if err := c.AddReaction(context.Background(), "post-1", ReactionLove); err != nil {
		t.Fatalf("AddReaction failed: %v", err)
	}
}

// TestRemoveReaction issues a delete with entity and type in the path
func TestRemoveReaction(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("Expected DELETE, got %s", r.Method)
		}
		if r.URL.Path != "/reactions/post-1/like" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	})

	if err := c.RemoveReaction(context.Background(), "post-1", ReactionLike); err != nil {
		t.Fatalf("RemoveReaction failed: %v", err)
	}
}

// TestGetReactionSummary decodes counts and user lists
func TestGetReactionSummary(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"counts": {"like": 5, "love": 2},
			"total_count": 7,
			"viewer_reaction": "like",
			"users": {"like": [{"user_id":"u1","name":"Sara","avatar_url":""}]}
		}`))
	})

	summary, err := c.GetReactionSummary(context.Background(), "post-1")
	if err != nil {
		t.Fatalf("GetReactionSummary failed: %v", err)
	}
	if summary.EntityID != "post-1" {
		t.Errorf("Expected entity id defaulted to post-1, got %q", summary.EntityID)
	}
	if summary.TotalCount != 7 {
		t.Errorf("Expected total 7, got %d", summary.TotalCount)
	}
	if summary.ViewerReaction != ReactionLike {
		t.Errorf("Expected viewer reaction like, got %s", summary.ViewerReaction)
	}
	if len(summary.Users[ReactionLike]) != 1 {
		t.Errorf("Expected one like user, got %d", len(summary.Users[ReactionLike]))
	}
}

// TestReactionErrorNormalized carries server message, code, and status
func TestReactionErrorNormalized(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"post_not_found","message":"post does not exist"}`))
	})

	err := c.AddReaction(context.Background(), "missing", ReactionHaha)
	if err == nil {
		t.Fatal("Expected error")
	}

	appErr, ok := err.(*apperr.AppError)
	if !ok {
		t.Fatalf("Expected *apperr.AppError, got %T", err)
	}
	if appErr.Status != 404 {
		t.Errorf("Expected status 404, got %d", appErr.Status)
	}
	if appErr.Code != "post_not_found" {
		t.Errorf("Expected server code, got %q", appErr.Code)
	}
	if appErr.Message != "post does not exist" {
		t.Errorf("Expected server message, got %q", appErr.Message)
	}
}

// TestCommunityReactCombined exercises the single combined endpoint
func TestCommunityReactCombined(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/communities/c1/react" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"counts":{"love":3},"total_count":3,"viewer_reaction":"love"}`))
	})

	summary, err := c.ReactToCommunityPost(context.Background(), "c1", "post-9", ReactionLove, false)
	if err != nil {
		t.Fatalf("ReactToCommunityPost failed: %v", err)
	}
	if summary.ViewerReaction != ReactionLove {
		t.Errorf("Expected viewer reaction love, got %s", summary.ViewerReaction)
	}
	if summary.EntityID != "post-9" {
		t.Errorf("Expected entity id defaulted to post-9, got %q", summary.EntityID)
	}
}
