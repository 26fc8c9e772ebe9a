// Package formatter renders domain objects for terminal display.
package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/output"
)

var (
	Bold    = color.New(color.Bold)
	Success = color.New(color.FgGreen)
	Error   = color.New(color.FgRed)
	Info    = color.New(color.FgCyan)
	Warning = color.New(color.FgYellow)
)

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	output.PrintSuccess(format, args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	output.PrintError(format, args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	output.PrintInfo(format, args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	output.PrintWarning(format, args...)
}

const maxPreviewLen = 80

// RelativeTime renders a timestamp the way the feed shows it
func RelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := time.Since(t)
	if d < 0 {
		remaining := -d
		if remaining < time.Hour {
			return fmt.Sprintf("in %dm", int(remaining.Minutes())+1)
		}
		return fmt.Sprintf("in %dh", int(remaining.Hours())+1)
	}
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Truncate shortens s to the preview length on a rune boundary
func Truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// ReactionBadge renders a compact reaction summary, e.g. "12 (3 love)"
func ReactionBadge(r api.ReactionSummary) string {
	if r.TotalCount == 0 {
		return "-"
	}
	if r.ViewerReaction != "" {
		return fmt.Sprintf("%d (you: %s)", r.TotalCount, r.ViewerReaction)
	}
	return fmt.Sprintf("%d", r.TotalCount)
}

// PostRow renders one feed post as a table row
func PostRow(p api.Post) []string {
	author := p.Author.Username
	if author == "" {
		author = p.AuthorID
	}
	scope := ""
	if p.Scope == api.PostScopeCommunity {
		scope = p.CommunityName
	}
	return []string{
		p.ID,
		author,
		scope,
		Truncate(p.Content, maxPreviewLen),
		ReactionBadge(p.Reactions),
		fmt.Sprintf("%d", p.CommentCount),
		RelativeTime(p.CreatedAt),
	}
}

// PostColumns are the headers matching PostRow
func PostColumns() []string {
	return []string{"ID", "Author", "Community", "Content", "Reactions", "Comments", "Posted"}
}

// RoomRow renders one chat room as a table row
func RoomRow(r api.ChatRoom) []string {
	name := r.Name
	if name == "" {
		name = r.Participant.Username
	}
	preview := ""
	if r.LastMessage != nil {
		preview = Truncate(r.LastMessage.Content, maxPreviewLen)
		if r.LastMessage.IsVoice {
			preview = "[voice] " + preview
		}
	}
	unread := ""
	if r.UnreadCount > 0 {
		unread = fmt.Sprintf("%d", r.UnreadCount)
	}
	return []string{r.ID, name, preview, unread, RelativeTime(r.UpdatedAt)}
}

// RoomColumns are the headers matching RoomRow
func RoomColumns() []string {
	return []string{"ID", "Room", "Last Message", "Unread", "Updated"}
}

// MessageLine renders one chat message for the transcript view
func MessageLine(m api.Message, viewerID string) string {
	sender := m.Sender.Username
	if sender == "" {
		sender = m.SenderID
	}
	if m.SenderID == viewerID {
		sender = "you"
	}
	prefix := ""
	if m.IsVoice {
		prefix = "[voice] "
	}
	return fmt.Sprintf("[%s] %s: %s%s", RelativeTime(m.CreatedAt), sender, prefix, m.Content)
}

// NotificationRow renders one notification as a table row
func NotificationRow(n api.Notification) []string {
	read := ""
	if !n.Read {
		read = "*"
	}
	return []string{read, n.Type, n.Actor.Username, Truncate(n.Message, maxPreviewLen), RelativeTime(n.CreatedAt)}
}

// NotificationColumns are the headers matching NotificationRow
func NotificationColumns() []string {
	return []string{"", "Type", "From", "Message", "When"}
}

// CommunityRow renders one community as a table row
func CommunityRow(c api.Community) []string {
	member := ""
	if c.IsMember {
		member = "joined"
	}
	return []string{c.ID, c.Name, Truncate(c.Description, maxPreviewLen), fmt.Sprintf("%d", c.MemberCount), member}
}

// CommunityColumns are the headers matching CommunityRow
func CommunityColumns() []string {
	return []string{"ID", "Name", "Description", "Members", ""}
}

// StoryRow renders one story as a table row
func StoryRow(s api.Story) []string {
	return []string{
		s.ID,
		s.Author.Username,
		Truncate(s.Caption, maxPreviewLen),
		fmt.Sprintf("%d", s.ViewCount),
		RelativeTime(s.CreatedAt),
		RelativeTime(s.ExpiresAt),
	}
}

// StoryColumns are the headers matching StoryRow
func StoryColumns() []string {
	return []string{"ID", "Author", "Caption", "Views", "Posted", "Expires"}
}

// UserRecord flattens a user profile for record output
func UserRecord(u api.User) map[string]interface{} {
	return map[string]interface{}{
		"ID":        u.ID,
		"Username":  u.Username,
		"Name":      u.Name,
		"Bio":       u.Bio,
		"Followers": u.FollowerCount,
		"Following": u.FollowingCount,
		"Posts":     u.PostCount,
		"Joined":    RelativeTime(u.CreatedAt),
	}
}
