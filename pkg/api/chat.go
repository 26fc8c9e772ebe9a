package api

import (
	"context"
	"fmt"

	"github.com/banter-app/banter-cli/pkg/apperr"
	"github.com/banter-app/banter-cli/pkg/logger"
)

// GetAllChatRooms retrieves a page of the viewer's chat rooms
func (c *Client) GetAllChatRooms(ctx context.Context, page, pageSize int) (*ChatRoomListResponse, error) {
	logger.Debug("Fetching chat rooms", "page", page)

	var result ChatRoomListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"page":      fmt.Sprintf("%d", page),
			"page_size": fmt.Sprintf("%d", pageSize),
		}).
		SetResult(&result).
		Get("/get-all-chat-rooms")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// StartMessageRequest opens (or reuses) a room with a recipient and sends
// the first message over REST.
type StartMessageRequest struct {
	RecipientID string `json:"recipient_id"`
	Content     string `json:"content"`
	IsVoice     bool   `json:"is_voice,omitempty"`
}

// StartMessage opens a conversation with a user
func (c *Client) StartMessage(ctx context.Context, req StartMessageRequest) (*ChatRoom, error) {
	logger.Debug("Starting conversation", "recipient_id", req.RecipientID)

	var result struct {
		Room ChatRoom `json:"room"`
	}
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/start-message")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Room, nil
}

// SendMessageRequest delivers a message to an existing room over REST.
// The socket path is preferred; this is the fallback.
type SendMessageRequest struct {
	RoomID   string `json:"room_id"`
	Content  string `json:"content"`
	IsVoice  bool   `json:"is_voice,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// SendMessage sends a message to a room over REST
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*Message, error) {
	logger.Debug("Sending message over REST", "room_id", req.RoomID)

	var result struct {
		Message Message `json:"message"`
	}
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		Post("/send-message")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result.Message, nil
}

// GetAllMessages retrieves a page of messages in a room, newest-first
func (c *Client) GetAllMessages(ctx context.Context, roomID string, page, pageSize int) (*MessageListResponse, error) {
	logger.Debug("Fetching messages", "room_id", roomID, "page", page)

	var result MessageListResponse
	resp, err := c.gw.JSON().R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"room_id":   roomID,
			"page":      page,
			"page_size": pageSize,
		}).
		SetResult(&result).
		Post("/get-all-messages")

	if err := apperr.CheckResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}
