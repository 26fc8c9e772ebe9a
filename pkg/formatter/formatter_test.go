package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/banter-app/banter-cli/pkg/api"
)

func TestRelativeTime(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"seconds", now.Add(-30 * time.Second), "just now"},
		{"minutes", now.Add(-5 * time.Minute), "5m ago"},
		{"hours", now.Add(-3 * time.Hour), "3h ago"},
		{"days", now.Add(-48 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelativeTime(tt.t); got != tt.want {
				t.Errorf("RelativeTime() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRelativeTimeFuture(t *testing.T) {
	got := RelativeTime(time.Now().Add(5 * time.Hour))
	if !strings.HasPrefix(got, "in ") {
		t.Errorf("Future time should render as remaining, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Short string should be unchanged, got %q", got)
	}

	long := strings.Repeat("a", 100)
	got := Truncate(long, 10)
	if len([]rune(got)) != 10 {
		t.Errorf("Truncated length should be 10 runes, got %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Truncated string should end with ellipsis, got %q", got)
	}

	if got := Truncate("line1\nline2", 80); strings.Contains(got, "\n") {
		t.Error("Newlines should be flattened")
	}
}

func TestReactionBadge(t *testing.T) {
	if got := ReactionBadge(api.ReactionSummary{}); got != "-" {
		t.Errorf("Empty summary should render dash, got %q", got)
	}

	badge := ReactionBadge(api.ReactionSummary{TotalCount: 12, ViewerReaction: api.ReactionLove})
	if badge != "12 (you: love)" {
		t.Errorf("Badge mismatch: %q", badge)
	}

	badge = ReactionBadge(api.ReactionSummary{TotalCount: 5})
	if badge != "5" {
		t.Errorf("Badge mismatch: %q", badge)
	}
}

func TestPostRowShowsCommunityScope(t *testing.T) {
	post := api.Post{
		ID:            "p1",
		Author:        api.User{Username: "lina"},
		Content:       "hello world",
		CommunityID:   "c1",
		CommunityName: "gophers",
		Scope:         api.PostScopeCommunity,
	}

	row := PostRow(post)
	if len(row) != len(PostColumns()) {
		t.Fatalf("Row width %d does not match %d columns", len(row), len(PostColumns()))
	}
	if row[2] != "gophers" {
		t.Errorf("Expected community name in scope column, got %q", row[2])
	}

	post.Scope = api.PostScopeRegular
	post.CommunityName = ""
	if row := PostRow(post); row[2] != "" {
		t.Errorf("Regular post should have empty scope column, got %q", row[2])
	}
}

func TestMessageLine(t *testing.T) {
	msg := api.Message{
		SenderID: "u1",
		Sender:   api.User{Username: "sam"},
		Content:  "hey",
	}

	line := MessageLine(msg, "u2")
	if !strings.Contains(line, "sam: hey") {
		t.Errorf("Expected sender name, got %q", line)
	}

	line = MessageLine(msg, "u1")
	if !strings.Contains(line, "you: hey") {
		t.Errorf("Viewer's own message should say you, got %q", line)
	}

	msg.IsVoice = true
	line = MessageLine(msg, "u2")
	if !strings.Contains(line, "[voice]") {
		t.Errorf("Voice message should be marked, got %q", line)
	}
}

func TestRoomRowMarksUnreadAndVoice(t *testing.T) {
	room := api.ChatRoom{
		ID:          "r1",
		Participant: api.User{Username: "sam"},
		LastMessage: &api.Message{Content: "call me", IsVoice: true},
		UnreadCount: 3,
	}

	row := RoomRow(room)
	if row[1] != "sam" {
		t.Errorf("Unnamed room should fall back to participant, got %q", row[1])
	}
	if !strings.HasPrefix(row[2], "[voice]") {
		t.Errorf("Voice preview not marked: %q", row[2])
	}
	if row[3] != "3" {
		t.Errorf("Unread count missing: %q", row[3])
	}
}

func TestNotificationRowMarksUnread(t *testing.T) {
	row := NotificationRow(api.Notification{Type: "reaction", Read: false})
	if row[0] != "*" {
		t.Errorf("Unread notification should be starred, got %q", row[0])
	}

	row = NotificationRow(api.Notification{Type: "reaction", Read: true})
	if row[0] != "" {
		t.Errorf("Read notification should not be starred, got %q", row[0])
	}
}
