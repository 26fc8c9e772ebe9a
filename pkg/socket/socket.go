// Package socket maintains the realtime connection used for chat delivery,
// seen receipts, typing indicators, and notification pings. The connection
// authenticates with the short-lived socket token issued at login, not the
// API session token.
package socket

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"

	"github.com/banter-app/banter-cli/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// EventType identifies a realtime event
type EventType string

const (
	EventJoinRoom       EventType = "join-room"
	EventLeaveRoom      EventType = "leave-room"
	EventSendMessage    EventType = "send-message"
	EventReceiveMessage EventType = "receive-message"
	EventMessageSeen    EventType = "message-seen"
	EventTyping         EventType = "typing"
	EventNotification   EventType = "notification"
	EventStoryUpdate    EventType = "story-update"
	EventHeartbeat      EventType = "heartbeat"
	EventPong           EventType = "pong"
	EventError          EventType = "error"
)

// Event is the wire envelope for every realtime message
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload"`
}

// ChatPayload is the payload of join-room, leave-room and send-message
type ChatPayload struct {
	RoomID   string `json:"room_id"`
	SenderID string `json:"sender_id,omitempty"`
	Message  string `json:"message,omitempty"`
	ClientID string `json:"client_id,omitempty"`
}

// Config holds realtime connection configuration
type Config struct {
	Host                 string
	Port                 int
	Path                 string
	UseTLS               bool
	ConnectTimeoutMs     int
	HeartbeatIntervalMs  int
	ReconnectBaseDelayMs int
	ReconnectMaxDelayMs  int
	MaxReconnectAttempts int
}

// DefaultConfig returns a development configuration
func DefaultConfig() Config {
	return Config{
		Host:                 "localhost",
		Port:                 8686,
		Path:                 "/ws",
		UseTLS:               false,
		ConnectTimeoutMs:     15000,
		HeartbeatIntervalMs:  30000,
		ReconnectBaseDelayMs: 2000,
		ReconnectMaxDelayMs:  30000,
		MaxReconnectAttempts: -1, // unlimited
	}
}

// ProductionConfig returns a production configuration
func ProductionConfig(host string) Config {
	cfg := DefaultConfig()
	cfg.Host = host
	cfg.Port = 443
	cfg.UseTLS = true
	cfg.ReconnectMaxDelayMs = 60000
	return cfg
}

// ConnectionState represents the state of the realtime connection
type ConnectionState int

const (
	StateDisconnected ConnectionState = iota
	StateConnecting
	StateConnected
	StateReconnecting
	StateError
)

// ConnectionStats holds connection statistics
type ConnectionStats struct {
	EventsReceived int64
	EventsSent     int64
	ReconnectCount int
	LastError      string
	ConnectedAt    time.Time
	DisconnectedAt time.Time
}

// Client manages the realtime connection
type Client struct {
	config            Config
	conn              *websocket.Conn
	token             string
	deviceID          string
	state             atomic.Value // ConnectionState
	mu                sync.RWMutex
	reconnectAttempts int
	reconnectDelay    int
	listeners         map[EventType]map[int]func(interface{})
	nextListenerID    int
	listenersMu       sync.RWMutex
	ctx               context.Context
	cancel            context.CancelFunc
	statsLock         sync.RWMutex
	stats             ConnectionStats
}

// NewClient creates a new realtime client
func NewClient(config Config) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		config:         config,
		listeners:      make(map[EventType]map[int]func(interface{})),
		ctx:            ctx,
		cancel:         cancel,
		reconnectDelay: config.ReconnectBaseDelayMs,
	}
	client.state.Store(StateDisconnected)
	return client
}

// SetAuthToken sets the socket token for authentication
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// SetDeviceID sets the device identifier carried on the handshake
func (c *Client) SetDeviceID(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deviceID = id
}

// Connect establishes the realtime connection
func (c *Client) Connect(token string) error {
	c.SetAuthToken(token)

	c.setState(StateConnecting)

	conn, err := c.dial()
	if err != nil {
		c.setState(StateError)
		c.recordError(err.Error())
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	c.setState(StateConnected)
	c.reconnectAttempts = 0
	c.reconnectDelay = c.config.ReconnectBaseDelayMs
	c.recordConnected()

	go c.readLoop()
	go c.heartbeatLoop()

	logger.Debug("Socket connected", "host", c.config.Host, "port", c.config.Port)
	return nil
}

// Disconnect closes the realtime connection
func (c *Client) Disconnect() error {
	c.cancel()

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.setState(StateDisconnected)
	c.recordDisconnected()

	logger.Debug("Socket disconnected")
	return nil
}

// IsConnected returns true if the connection is established
func (c *Client) IsConnected() bool {
	return c.getState() == StateConnected
}

// On subscribes to an event type and returns an unsubscribe function.
// The empty event type receives every event.
func (c *Client) On(event EventType, callback func(interface{})) func() {
	c.listenersMu.Lock()
	if c.listeners[event] == nil {
		c.listeners[event] = make(map[int]func(interface{}))
	}
	id := c.nextListenerID
	c.nextListenerID++
	c.listeners[event][id] = callback
	c.listenersMu.Unlock()

	return func() {
		c.listenersMu.Lock()
		defer c.listenersMu.Unlock()
		delete(c.listeners[event], id)
	}
}

// Emit sends an event to the server
func (c *Client) Emit(event EventType, payload interface{}) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return fmt.Errorf("not connected")
	}

	data, err := json.Marshal(Event{Type: event, Payload: payload})
	if err != nil {
		return err
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return err
	}

	c.recordEventSent()
	return nil
}

// JoinRoom subscribes this connection to a chat room's events
func (c *Client) JoinRoom(roomID string) error {
	return c.Emit(EventJoinRoom, ChatPayload{RoomID: roomID})
}

// LeaveRoom unsubscribes this connection from a chat room's events
func (c *Client) LeaveRoom(roomID string) error {
	return c.Emit(EventLeaveRoom, ChatPayload{RoomID: roomID})
}

// SendMessage delivers a chat message over the socket. Callers fall back
// to the REST endpoint when this returns an error.
func (c *Client) SendMessage(roomID, senderID, message, clientID string) error {
	return c.Emit(EventSendMessage, ChatPayload{
		RoomID:   roomID,
		SenderID: senderID,
		Message:  message,
		ClientID: clientID,
	})
}

// GetStats returns connection statistics
func (c *Client) GetStats() ConnectionStats {
	c.statsLock.RLock()
	defer c.statsLock.RUnlock()
	return c.stats
}

// Private methods

func (c *Client) dial() (*websocket.Conn, error) {
	scheme := "ws"
	if c.config.UseTLS {
		scheme = "wss"
	}

	u := url.URL{
		Scheme: scheme,
		Host:   fmt.Sprintf("%s:%d", c.config.Host, c.config.Port),
		Path:   c.config.Path,
	}

	c.mu.RLock()
	token, deviceID := c.token, c.deviceID
	c.mu.RUnlock()

	q := u.Query()
	if token != "" {
		q.Set("token", token)
	}
	if deviceID != "" {
		q.Set("device_id", deviceID)
	}
	u.RawQuery = q.Encode()

	timeout := time.Duration(c.config.ConnectTimeoutMs) * time.Millisecond
	dialCtx, cancel := context.WithTimeout(c.ctx, timeout)
	defer cancel()

	conn, _, err := websocket.DefaultDialer.DialContext(dialCtx, u.String(), nil)
	return conn, err
}

func (c *Client) readLoop() {
	defer func() {
		c.handleDisconnect()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		c.mu.RLock()
		conn := c.conn
		c.mu.RUnlock()

		if conn == nil {
			return
		}

		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			c.recordError(err.Error())
			logger.Error("Socket read error", "error", err)
			return
		}

		c.recordEventReceived()
		c.emitLocal(ev)
	}
}

func (c *Client) emitLocal(ev Event) {
	c.listenersMu.RLock()
	callbacks := make([]func(interface{}), 0, len(c.listeners[ev.Type]))
	for _, cb := range c.listeners[ev.Type] {
		callbacks = append(callbacks, cb)
	}
	// empty type = all events
	wildcards := make([]func(interface{}), 0, len(c.listeners[""]))
	for _, cb := range c.listeners[""] {
		wildcards = append(wildcards, cb)
	}
	c.listenersMu.RUnlock()

	for _, cb := range callbacks {
		go cb(ev.Payload)
	}
	for _, cb := range wildcards {
		go cb(ev)
	}
}

func (c *Client) heartbeatLoop() {
	ticker := time.NewTicker(time.Duration(c.config.HeartbeatIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if c.IsConnected() {
				if err := c.Emit(EventHeartbeat, nil); err != nil {
					logger.Debug("Failed to send heartbeat", "error", err)
				}
			}
		}
	}
}

func (c *Client) handleDisconnect() {
	select {
	case <-c.ctx.Done():
		// deliberate shutdown, do not reconnect
		return
	default:
	}

	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	c.mu.Unlock()

	c.setState(StateReconnecting)
	c.recordDisconnected()

	// Reconnect with exponential backoff and jitter
	for {
		if c.config.MaxReconnectAttempts >= 0 && c.reconnectAttempts >= c.config.MaxReconnectAttempts {
			c.setState(StateError)
			logger.Error("Max reconnection attempts reached")
			return
		}

		backoff := time.Duration(c.reconnectDelay) * time.Millisecond
		jitter := time.Duration(rand.Intn(1000)) * time.Millisecond
		waitTime := backoff + jitter

		logger.Debug("Reconnecting socket", "attempt", c.reconnectAttempts+1, "wait_ms", waitTime.Milliseconds())

		select {
		case <-c.ctx.Done():
			return
		case <-time.After(waitTime):
		}

		conn, err := c.dial()
		if err != nil {
			c.reconnectAttempts++
			c.reconnectDelay = int(math.Min(
				float64(c.reconnectDelay*2),
				float64(c.config.ReconnectMaxDelayMs),
			))
			continue
		}

		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()

		c.setState(StateConnected)
		c.reconnectAttempts = 0
		c.reconnectDelay = c.config.ReconnectBaseDelayMs
		c.recordReconnect()
		c.recordConnected()

		logger.Debug("Socket reconnected")

		// The heartbeat loop from Connect is still running; only the
		// read loop exited and needs respawning.
		go c.readLoop()
		return
	}
}

func (c *Client) setState(state ConnectionState) {
	c.state.Store(state)
}

func (c *Client) getState() ConnectionState {
	return c.state.Load().(ConnectionState)
}

func (c *Client) recordEventReceived() {
	c.statsLock.Lock()
	c.stats.EventsReceived++
	c.statsLock.Unlock()
}

func (c *Client) recordEventSent() {
	c.statsLock.Lock()
	c.stats.EventsSent++
	c.statsLock.Unlock()
}

func (c *Client) recordError(errMsg string) {
	c.statsLock.Lock()
	c.stats.LastError = errMsg
	c.statsLock.Unlock()
}

func (c *Client) recordReconnect() {
	c.statsLock.Lock()
	c.stats.ReconnectCount++
	c.statsLock.Unlock()
}

func (c *Client) recordConnected() {
	c.statsLock.Lock()
	c.stats.ConnectedAt = time.Now()
	c.statsLock.Unlock()
}

func (c *Client) recordDisconnected() {
	c.statsLock.Lock()
	c.stats.DisconnectedAt = time.Now()
	c.statsLock.Unlock()
}
