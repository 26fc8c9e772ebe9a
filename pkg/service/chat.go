package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/banter-app/banter-cli/pkg/api"
	"github.com/banter-app/banter-cli/pkg/formatter"
	"github.com/banter-app/banter-cli/pkg/logger"
	"github.com/banter-app/banter-cli/pkg/output"
	"github.com/banter-app/banter-cli/pkg/pager"
	"github.com/banter-app/banter-cli/pkg/socket"
	"github.com/banter-app/banter-cli/pkg/speech"
)

// Realtime is the subset of the socket client the chat service uses
type Realtime interface {
	IsConnected() bool
	JoinRoom(roomID string) error
	LeaveRoom(roomID string) error
	SendMessage(roomID, senderID, message, clientID string) error
	On(event socket.EventType, callback func(interface{})) func()
}

// ChatService provides direct-message operations
type ChatService struct {
	api    *api.Client
	sock   Realtime
	speech *speech.Machine
}

// NewChatService creates a new chat service
func NewChatService(c *api.Client, sock Realtime) *ChatService {
	return &ChatService{api: c, sock: sock}
}

// AttachSpeech wires a speech input machine into the chat loop
func (s *ChatService) AttachSpeech(m *speech.Machine) {
	s.speech = m
}

// RoomsPager returns a pager over the viewer's chat rooms
func (s *ChatService) RoomsPager() *pager.Pager[api.ChatRoom] {
	return pager.New(func(ctx context.Context, page, pageSize int) ([]api.ChatRoom, api.PageMeta, error) {
		rooms, err := s.api.GetAllChatRooms(ctx, page, pageSize)
		if err != nil {
			return nil, api.PageMeta{}, err
		}
		return rooms.Rooms, rooms.Meta, nil
	}, DefaultPageSize, func(r api.ChatRoom) string { return r.ID })
}

// MessagesPager returns a pager over one room's messages, newest-first.
// Older pages append as the transcript scrolls back.
func (s *ChatService) MessagesPager(roomID string) *pager.Pager[api.Message] {
	return pager.New(func(ctx context.Context, page, pageSize int) ([]api.Message, api.PageMeta, error) {
		msgs, err := s.api.GetAllMessages(ctx, roomID, page, pageSize)
		if err != nil {
			return nil, api.PageMeta{}, err
		}
		return msgs.Messages, msgs.Meta, nil
	}, DefaultPageSize, func(m api.Message) string { return m.ID })
}

// ListRooms displays a page of the viewer's chat rooms
func (s *ChatService) ListRooms(ctx context.Context, page, pageSize int) error {
	rooms, err := s.api.GetAllChatRooms(ctx, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch chat rooms: %w", err)
	}

	if len(rooms.Rooms) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	rows := make([][]string, 0, len(rooms.Rooms))
	for _, room := range rooms.Rooms {
		rows = append(rows, formatter.RoomRow(room))
	}
	return output.PrintList("Conversations", rows, formatter.RoomColumns())
}

// ListAllRooms pages through every conversation via the rooms pager
func (s *ChatService) ListAllRooms(ctx context.Context) error {
	p := s.RoomsPager()
	if err := p.LoadInitial(ctx); err != nil {
		return fmt.Errorf("failed to fetch chat rooms: %w", err)
	}
	for p.HasMore() {
		if err := p.LoadMore(ctx); err != nil {
			return fmt.Errorf("failed to fetch chat rooms: %w", err)
		}
	}

	rooms := p.Items()
	if len(rooms) == 0 {
		fmt.Println("No conversations yet.")
		return nil
	}

	rows := make([][]string, 0, len(rooms))
	for _, room := range rooms {
		rows = append(rows, formatter.RoomRow(room))
	}
	return output.PrintList("Conversations", rows, formatter.RoomColumns())
}

// ViewMessages displays a page of messages in a room
func (s *ChatService) ViewMessages(ctx context.Context, roomID, viewerID string, page, pageSize int) error {
	msgs, err := s.api.GetAllMessages(ctx, roomID, page, pageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch messages: %w", err)
	}

	if len(msgs.Messages) == 0 {
		fmt.Println("No messages in this conversation.")
		return nil
	}

	// newest-first on the wire, oldest-first on screen
	for i := len(msgs.Messages) - 1; i >= 0; i-- {
		fmt.Println(formatter.MessageLine(msgs.Messages[i], viewerID))
	}
	return nil
}

// StartConversation opens (or reuses) a room with a recipient and sends
// the first message.
func (s *ChatService) StartConversation(ctx context.Context, recipientID, content string) (*api.ChatRoom, error) {
	if content == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}
	room, err := s.api.StartMessage(ctx, api.StartMessageRequest{
		RecipientID: recipientID,
		Content:     content,
	})
	if err != nil {
		return nil, err
	}
	formatter.PrintSuccess("✓ Message sent")
	return room, nil
}

// Send delivers a message to a room. The socket is tried first; on any
// socket failure the REST endpoint takes over with the same client id so
// the server can dedup.
func (s *ChatService) Send(ctx context.Context, roomID, senderID, content string, isVoice bool) error {
	if content == "" {
		return fmt.Errorf("message cannot be empty")
	}

	clientID := uuid.NewString()

	if s.sock != nil && s.sock.IsConnected() {
		if err := s.sock.SendMessage(roomID, senderID, content, clientID); err == nil {
			return nil
		} else {
			logger.Warn("Socket send failed, falling back to REST", "error", err)
		}
	}

	_, err := s.api.SendMessage(ctx, api.SendMessageRequest{
		RoomID:   roomID,
		Content:  content,
		IsVoice:  isVoice,
		ClientID: clientID,
	})
	return err
}

// SendSpoken drains the speech buffer and sends it as a voice message
func (s *ChatService) SendSpoken(ctx context.Context, roomID, senderID string, expectReply bool) error {
	if s.speech == nil {
		return fmt.Errorf("speech input not available")
	}
	text := s.speech.Send(expectReply)
	if text == "" {
		return fmt.Errorf("nothing to send")
	}
	return s.Send(ctx, roomID, senderID, text, true)
}

// JoinRoom subscribes to a room's realtime events and returns a stop
// function that also tears down the speech machine.
func (s *ChatService) JoinRoom(roomID string, onMessage func(api.Message)) (func(), error) {
	if s.sock == nil || !s.sock.IsConnected() {
		return nil, fmt.Errorf("realtime connection unavailable")
	}

	if err := s.sock.JoinRoom(roomID); err != nil {
		return nil, err
	}

	unsubscribe := s.sock.On(socket.EventReceiveMessage, func(payload interface{}) {
		msg, err := decodeMessage(payload)
		if err != nil {
			logger.Warn("Dropping malformed chat event", "error", err)
			return
		}
		if msg.RoomID != roomID {
			return
		}
		if s.speech != nil && msg.IsVoice {
			s.speech.PlayRemote(msg.AudioURL)
		}
		onMessage(msg)
	})

	stop := func() {
		unsubscribe()
		if err := s.sock.LeaveRoom(roomID); err != nil {
			logger.Debug("Failed to leave room", "room_id", roomID, "error", err)
		}
		if s.speech != nil {
			s.speech.Close()
		}
	}
	return stop, nil
}

// OpenRoom joins a room and runs the interactive transcript loop until the
// input is exhausted or the user leaves. Plain lines are sent as messages;
// slash commands control the session: /mic toggles speech capture, /send
// submits the spoken buffer, /more scrolls the transcript back a page,
// /quit leaves.
func (s *ChatService) OpenRoom(ctx context.Context, roomID, viewerID string, in io.Reader) error {
	msgs := s.MessagesPager(roomID)
	if err := msgs.LoadInitial(ctx); err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	stop, err := s.JoinRoom(roomID, func(msg api.Message) {
		fmt.Println(formatter.MessageLine(msg, viewerID))
	})
	if err != nil {
		return err
	}
	defer stop()

	printTranscript(msgs.Items(), viewerID)
	fmt.Println("Connected. /mic toggles speech, /send submits the spoken buffer, /more scrolls back, /quit leaves.")

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit":
			return nil
		case "/mic":
			if s.speech == nil || !s.speech.Supported() {
				output.PrintWarning("Speech input is not available here")
				continue
			}
			s.speech.ToggleMic()
			if s.speech.IsListening() {
				output.PrintInfo("Listening")
			} else {
				output.PrintInfo("Microphone off")
			}
		case "/send":
			if err := s.SendSpoken(ctx, roomID, viewerID, false); err != nil {
				output.PrintError("%v", err)
			}
		case "/more":
			if !msgs.HasMore() {
				output.PrintInfo("Beginning of conversation")
				continue
			}
			before := len(msgs.Items())
			if err := msgs.LoadMore(ctx); err != nil {
				output.PrintError("%v", err)
				continue
			}
			printTranscript(msgs.Items()[before:], viewerID)
		default:
			if err := s.Send(ctx, roomID, viewerID, line, false); err != nil {
				output.PrintError("%v", err)
			}
		}
	}
	return scanner.Err()
}

// printTranscript renders a newest-first page oldest-first
func printTranscript(msgs []api.Message, viewerID string) {
	for i := len(msgs) - 1; i >= 0; i-- {
		fmt.Println(formatter.MessageLine(msgs[i], viewerID))
	}
}

func decodeMessage(payload interface{}) (api.Message, error) {
	var msg api.Message
	data, err := json.Marshal(payload)
	if err != nil {
		return msg, err
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}
