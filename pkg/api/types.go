package api

import (
	"time"

	json "github.com/json-iterator/go"
)

// Auth request/response types
type SendOTPRequest struct {
	Phone string `json:"phone"`
}

type VerifyOTPRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyOTPResponse struct {
	Verified  bool   `json:"verified"`
	IsNewUser bool   `json:"is_new_user"`
	Token     string `json:"token"`
}

type LoginRequest struct {
	Phone    string `json:"phone"`
	Password string `json:"password"`
	DeviceID string `json:"device_id"`
}

type LoginResponse struct {
	Token       string `json:"token"`
	SocketToken string `json:"socket_token"`
	ExpiresIn   int    `json:"expires_in"`
	User        User   `json:"user"`
}

type SetPasswordRequest struct {
	Password string `json:"password"`
}

type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Bio            string    `json:"bio"`
	AvatarURL      string    `json:"avatar_url"`
	FollowerCount  int       `json:"follower_count"`
	FollowingCount int       `json:"following_count"`
	PostCount      int       `json:"post_count"`
	IsFollowing    bool      `json:"is_following"`
	IsOnline       bool      `json:"is_online"`
	CreatedAt      time.Time `json:"created_at"`
}

// PageMeta is the server pagination metadata carried by every list response
type PageMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_count"`
}

// ReactionType is a typed "like"-style annotation on a post or comment
type ReactionType string

const (
	ReactionLike ReactionType = "like"
	ReactionLove ReactionType = "love"
	ReactionHaha ReactionType = "haha"
	ReactionLulu ReactionType = "lulu"
)

// ReactionTypes lists all valid reaction types in display order
var ReactionTypes = []ReactionType{ReactionLike, ReactionLove, ReactionHaha, ReactionLulu}

// Valid reports whether t is a known reaction type
func (t ReactionType) Valid() bool {
	for _, rt := range ReactionTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ReactionUser is one participant in a per-type reaction list
type ReactionUser struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// ReactionSummary is the server-authoritative reaction state of one entity
type ReactionSummary struct {
	EntityID       string                          `json:"entity_id"`
	Counts         map[ReactionType]int            `json:"counts"`
	TotalCount     int                             `json:"total_count"`
	ViewerReaction ReactionType                    `json:"viewer_reaction,omitempty"`
	Users          map[ReactionType][]ReactionUser `json:"users,omitempty"`
}

// PostScope discriminates the two wire shapes a post can arrive in
type PostScope string

const (
	PostScopeRegular   PostScope = "regular"
	PostScopeCommunity PostScope = "community"
)

// Post is a feed or community post. The backend sends two duck-typed
// shapes; the variant is resolved once here, at the API boundary, into the
// Scope tag so downstream code can switch on it instead of probing fields.
type Post struct {
	ID            string          `json:"id"`
	AuthorID      string          `json:"author_id"`
	Author        User            `json:"author"`
	Content       string          `json:"content"`
	MediaURL      string          `json:"media_url,omitempty"`
	CommunityID   string          `json:"community_id,omitempty"`
	CommunityName string          `json:"community_name,omitempty"`
	Reactions     ReactionSummary `json:"reactions"`
	CommentCount  int             `json:"comment_count"`
	CreatedAt     time.Time       `json:"created_at"`

	Scope PostScope `json:"-"`
}

// UnmarshalJSON resolves the community/regular variant from the wire shape
func (p *Post) UnmarshalJSON(data []byte) error {
	type alias Post
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*p = Post(a)
	if p.CommunityID != "" {
		p.Scope = PostScopeCommunity
	} else {
		p.Scope = PostScopeRegular
	}
	if p.Reactions.EntityID == "" {
		p.Reactions.EntityID = p.ID
	}
	return nil
}

type FeedResponse struct {
	Posts []Post   `json:"posts"`
	Meta  PageMeta `json:"meta"`
}

// Comment on a post
type Comment struct {
	ID        string          `json:"id"`
	PostID    string          `json:"post_id"`
	Author    User            `json:"author"`
	Content   string          `json:"content"`
	Reactions ReactionSummary `json:"reactions"`
	CreatedAt time.Time       `json:"created_at"`
}

type CommentListResponse struct {
	Comments []Comment `json:"comments"`
	Meta     PageMeta  `json:"meta"`
}

// Chat types
type ChatRoom struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Participant User      `json:"participant"`
	LastMessage *Message  `json:"last_message"`
	UnreadCount int       `json:"unread_count"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ChatRoomListResponse struct {
	Rooms []ChatRoom `json:"rooms"`
	Meta  PageMeta   `json:"meta"`
}

type Message struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	SenderID  string    `json:"sender_id"`
	Sender    User      `json:"sender"`
	Content   string    `json:"content"`
	IsVoice   bool      `json:"is_voice"`
	AudioURL  string    `json:"audio_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MessageListResponse struct {
	Messages []Message `json:"messages"`
	Meta     PageMeta  `json:"meta"`
}

// Notification types
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // reaction, comment, follow, mention, community
	Actor     User      `json:"actor"`
	PostID    string    `json:"post_id,omitempty"`
	CommentID string    `json:"comment_id,omitempty"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	UnreadCount   int            `json:"unread_count"`
	Meta          PageMeta       `json:"meta"`
}

// Community types
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AvatarURL   string    `json:"avatar_url"`
	MemberCount int       `json:"member_count"`
	IsMember    bool      `json:"is_member"`
	CreatedAt   time.Time `json:"created_at"`
}

type CommunityListResponse struct {
	Communities []Community `json:"communities"`
	Meta        PageMeta    `json:"meta"`
}

// Story types
type Story struct {
	ID        string    `json:"id"`
	Author    User      `json:"author"`
	Caption   string    `json:"caption"`
	MediaURL  string    `json:"media_url"`
	ViewCount int       `json:"view_count"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type StoryListResponse struct {
	Stories []Story `json:"stories"`
}

// Search types
type SearchRequest struct {
	Query string `json:"query"`
	Page  int    `json:"page"`
}

type SearchResponse struct {
	Users       []User      `json:"users"`
	Posts       []Post      `json:"posts"`
	Communities []Community `json:"communities"`
	Meta        PageMeta    `json:"meta"`
}

// Avatar is a selectable preset profile picture
type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type AvatarListResponse struct {
	Avatars []Avatar `json:"avatars"`
}
