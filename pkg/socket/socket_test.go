package socket

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestNewClient(t *testing.T) {
	cfg := DefaultConfig()
	client := NewClient(cfg)

	if client == nil {
		t.Fatal("NewClient returned nil")
	}
	if client.config.Host != cfg.Host {
		t.Errorf("Config host mismatch: got %s, want %s", client.config.Host, cfg.Host)
	}
	if client.getState() != StateDisconnected {
		t.Errorf("Initial state should be StateDisconnected, got %v", client.getState())
	}
	if len(client.listeners) != 0 {
		t.Errorf("Listeners should be empty, got %d", len(client.listeners))
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Host != "localhost" || cfg.Port != 8686 || cfg.Path == "" {
		t.Errorf("DefaultConfig has incorrect values: %+v", cfg)
	}
	if cfg.ConnectTimeoutMs != 15000 || cfg.HeartbeatIntervalMs != 30000 {
		t.Errorf("DefaultConfig timeouts incorrect: %+v", cfg)
	}
	if cfg.MaxReconnectAttempts != -1 {
		t.Errorf("MaxReconnectAttempts should be -1 (unlimited), got %d", cfg.MaxReconnectAttempts)
	}
}

func TestProductionConfig(t *testing.T) {
	cfg := ProductionConfig("api.banter.chat")

	if cfg.Host != "api.banter.chat" || cfg.Port != 443 {
		t.Errorf("ProductionConfig host/port incorrect: %s:%d", cfg.Host, cfg.Port)
	}
	if !cfg.UseTLS {
		t.Error("ProductionConfig should use TLS")
	}
	if cfg.ReconnectMaxDelayMs != 60000 {
		t.Errorf("ProductionConfig max reconnect delay should be 60000, got %d", cfg.ReconnectMaxDelayMs)
	}
}

func TestIsConnected(t *testing.T) {
	client := NewClient(DefaultConfig())

	if client.IsConnected() {
		t.Error("Newly created client should not be connected")
	}

	client.setState(StateConnected)
	if !client.IsConnected() {
		t.Error("Client should be connected after setState(StateConnected)")
	}
}

func TestOnSubscription(t *testing.T) {
	client := NewClient(DefaultConfig())

	client.On(EventReceiveMessage, func(payload interface{}) {})
	client.On(EventReceiveMessage, func(payload interface{}) {})
	client.On(EventNotification, func(payload interface{}) {})

	client.listenersMu.RLock()
	messageCallbacks := len(client.listeners[EventReceiveMessage])
	notificationCallbacks := len(client.listeners[EventNotification])
	client.listenersMu.RUnlock()

	if messageCallbacks != 2 {
		t.Errorf("ReceiveMessage should have 2 callbacks, got %d", messageCallbacks)
	}
	if notificationCallbacks != 1 {
		t.Errorf("Notification should have 1 callback, got %d", notificationCallbacks)
	}
}

func TestOnUnsubscribeRemovesOnlyThatListener(t *testing.T) {
	client := NewClient(DefaultConfig())

	unsubscribe := client.On(EventReceiveMessage, func(payload interface{}) {})
	client.On(EventReceiveMessage, func(payload interface{}) {})

	unsubscribe()

	client.listenersMu.RLock()
	remaining := len(client.listeners[EventReceiveMessage])
	client.listenersMu.RUnlock()

	if remaining != 1 {
		t.Errorf("Expected 1 listener after unsubscribe, got %d", remaining)
	}
}

func TestEmitLocalDispatchesToTypedAndWildcardListeners(t *testing.T) {
	client := NewClient(DefaultConfig())

	typed := make(chan interface{}, 1)
	all := make(chan interface{}, 1)
	client.On(EventNotification, func(payload interface{}) { typed <- payload })
	client.On("", func(payload interface{}) { all <- payload })

	client.emitLocal(Event{Type: EventNotification, Payload: "ping"})

	select {
	case p := <-typed:
		if p != "ping" {
			t.Errorf("Typed listener got %v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("Typed listener not invoked")
	}

	select {
	case p := <-all:
		ev, ok := p.(Event)
		if !ok || ev.Type != EventNotification {
			t.Errorf("Wildcard listener got %v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("Wildcard listener not invoked")
	}
}

func TestGetStats(t *testing.T) {
	client := NewClient(DefaultConfig())

	client.recordEventSent()
	client.recordEventSent()
	client.recordEventReceived()
	client.recordError("test error")

	stats := client.GetStats()

	if stats.EventsSent != 2 {
		t.Errorf("EventsSent should be 2, got %d", stats.EventsSent)
	}
	if stats.EventsReceived != 1 {
		t.Errorf("EventsReceived should be 1, got %d", stats.EventsReceived)
	}
	if stats.LastError != "test error" {
		t.Errorf("LastError mismatch: got %s", stats.LastError)
	}
}

func TestConnectionStates(t *testing.T) {
	client := NewClient(DefaultConfig())

	states := []ConnectionState{
		StateDisconnected,
		StateConnecting,
		StateConnected,
		StateReconnecting,
		StateError,
	}

	for _, state := range states {
		client.setState(state)
		if client.getState() != state {
			t.Errorf("State mismatch: set %v, got %v", state, client.getState())
		}
	}
}

func TestReconnectDelayBackoff(t *testing.T) {
	client := NewClient(DefaultConfig())
	client.reconnectDelay = client.config.ReconnectBaseDelayMs

	for i := 0; i < 3; i++ {
		client.reconnectDelay = int(min(float64(client.reconnectDelay)*2, float64(client.config.ReconnectMaxDelayMs)))
	}

	expectedDelay := int(min(float64(client.config.ReconnectBaseDelayMs)*8, float64(client.config.ReconnectMaxDelayMs)))
	if client.reconnectDelay != expectedDelay {
		t.Errorf("Backoff delay incorrect: got %d, want %d", client.reconnectDelay, expectedDelay)
	}
}

func TestEmitWhenDisconnected(t *testing.T) {
	client := NewClient(DefaultConfig())

	if err := client.Emit(EventSendMessage, ChatPayload{RoomID: "room-1"}); err == nil {
		t.Error("Expected error when emitting without a connection")
	}
}

// upgradeEcho serves a single websocket connection that records the
// handshake query and echoes every event back.
func upgradeEcho(t *testing.T, queries chan<- url.Values) http.HandlerFunc {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		}
	}
}

func testServerConfig(t *testing.T, srv *httptest.Server) Config {
	t.Helper()
	u, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	cfg := DefaultConfig()
	cfg.Host = strings.TrimSuffix(u.Host, ":"+u.Port())
	cfg.Port = port
	cfg.Path = "/ws"
	cfg.MaxReconnectAttempts = 0
	return cfg
}

func TestConnectCarriesTokenAndDeviceID(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(upgradeEcho(t, queries))
	defer srv.Close()

	client := NewClient(testServerConfig(t, srv))
	client.SetDeviceID("device-abc")
	if err := client.Connect("socket-token-123"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	q := <-queries
	if q.Get("token") != "socket-token-123" {
		t.Errorf("Expected socket token on handshake, got %q", q.Get("token"))
	}
	if q.Get("device_id") != "device-abc" {
		t.Errorf("Expected device id on handshake, got %q", q.Get("device_id"))
	}
	if !client.IsConnected() {
		t.Error("Expected connected state")
	}
}

func TestSendMessageRoundTrip(t *testing.T) {
	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(upgradeEcho(t, queries))
	defer srv.Close()

	client := NewClient(testServerConfig(t, srv))
	if err := client.Connect("tok"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	received := make(chan interface{}, 1)
	client.On(EventSendMessage, func(payload interface{}) { received <- payload })

	if err := client.SendMessage("room-9", "user-1", "hello", "client-77"); err != nil {
		t.Fatalf("SendMessage failed: %v", err)
	}

	select {
	case p := <-received:
		body, ok := p.(map[string]interface{})
		if !ok {
			t.Fatalf("Unexpected payload type %T", p)
		}
		if body["room_id"] != "room-9" || body["message"] != "hello" {
			t.Errorf("Payload mismatch: %v", body)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Echoed message never arrived")
	}

	stats := client.GetStats()
	if stats.EventsSent == 0 || stats.EventsReceived == 0 {
		t.Errorf("Stats not recorded: %+v", stats)
	}
}

func min(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func TestReconnectKeepsSingleHeartbeatLoop(t *testing.T) {
	var conns atomic.Int32
	var heartbeats atomic.Int32
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := conns.Add(1)
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Upgrade failed: %v", err)
			return
		}
		if n == 1 {
			// drop the first connection to force a reconnect
			conn.Close()
			return
		}
		defer conn.Close()
		for {
			var ev Event
			if err := conn.ReadJSON(&ev); err != nil {
				return
			}
			if ev.Type == EventHeartbeat {
				heartbeats.Add(1)
			}
		}
	}))
	defer srv.Close()

	cfg := testServerConfig(t, srv)
	cfg.HeartbeatIntervalMs = 25
	cfg.ReconnectBaseDelayMs = 10
	cfg.ReconnectMaxDelayMs = 20
	cfg.MaxReconnectAttempts = 5

	client := NewClient(cfg)
	if err := client.Connect("tok"); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Disconnect()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if client.GetStats().ReconnectCount >= 1 && client.IsConnected() {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if client.GetStats().ReconnectCount < 1 {
		t.Fatal("Client never reconnected")
	}

	heartbeats.Store(0)
	time.Sleep(500 * time.Millisecond)

	n := heartbeats.Load()
	if n == 0 {
		t.Error("Expected heartbeats after reconnect")
	}
	// a second loop would roughly double the rate past 30 in the window
	if n > 30 {
		t.Errorf("Heartbeat rate suggests duplicated loops: %d beats in 500ms at 25ms interval", n)
	}
}
