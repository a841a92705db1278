package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eleven-am/align-backend/internal/transport"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dialWS(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + server.URL[4:]
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	return ws
}

// echoPeer upgrades and forwards every received frame to the channel.
func echoPeer(received chan []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- msg
		}
	}
}

func TestWSConnection_DeliversEvents(t *testing.T) {
	received := make(chan []byte, 8)
	server := httptest.NewServer(echoPeer(received))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())
	go conn.writePump()
	defer conn.Close()

	err := conn.Send(context.Background(), transport.ServerEvent{
		Type:      transport.EventStatus,
		SessionID: "sess_1",
		Timestamp: time.Now().UTC(),
		Payload:   transport.StatusPayload{Message: "hello"},
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	select {
	case raw := <-received:
		var evt struct {
			Type      string `json:"type"`
			SessionID string `json:"session_id"`
			Payload   struct {
				Message string `json:"message"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if evt.Type != "status" {
			t.Errorf("expected status event, got %s", evt.Type)
		}
		if evt.SessionID != "sess_1" {
			t.Errorf("expected sess_1, got %s", evt.SessionID)
		}
		if evt.Payload.Message != "hello" {
			t.Errorf("expected hello, got %q", evt.Payload.Message)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never reached the peer")
	}
}

func TestWSConnection_ReadPumpParsesEnvelopes(t *testing.T) {
	ready := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ready <- ws
		time.Sleep(500 * time.Millisecond)
		ws.Close()
	}))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())
	go conn.readPump()
	defer conn.Close()

	peer := <-ready
	if err := peer.WriteMessage(websocket.TextMessage,
		[]byte(`{"type":"configure","config":{"sound_enabled":false}}`)); err != nil {
		t.Fatalf("peer write error: %v", err)
	}

	select {
	case env := <-conn.Envelopes():
		if env.Type != transport.EnvelopeConfigure {
			t.Errorf("expected configure, got %s", env.Type)
		}
		if env.Config == nil || env.Config.SoundEnabled == nil || *env.Config.SoundEnabled {
			t.Errorf("expected sound_enabled false, got %+v", env.Config)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("envelope never arrived")
	}
}

func TestWSConnection_BadJSONEmitsError(t *testing.T) {
	received := make(chan []byte, 8)
	ready := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		ready <- ws
		for {
			_, msg, err := ws.ReadMessage()
			if err != nil {
				return
			}
			received <- msg
		}
	}))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())
	go conn.readPump()
	go conn.writePump()
	defer conn.Close()

	peer := <-ready
	if err := peer.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("peer write error: %v", err)
	}

	select {
	case raw := <-received:
		var evt struct {
			Type    string `json:"type"`
			Payload struct {
				Code string `json:"code"`
			} `json:"payload"`
		}
		if err := json.Unmarshal(raw, &evt); err != nil {
			t.Fatalf("unmarshal error: %v", err)
		}
		if evt.Type != "error" {
			t.Errorf("expected error event, got %s", evt.Type)
		}
		if evt.Payload.Code != transport.ErrCodeBadEnvelope {
			t.Errorf("expected %s, got %s", transport.ErrCodeBadEnvelope, evt.Payload.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("error event never arrived")
	}
}

func TestWSConnection_CloseFlushesQueuedEvents(t *testing.T) {
	received := make(chan []byte, 8)
	server := httptest.NewServer(echoPeer(received))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())

	ctx := context.Background()
	conn.Send(ctx, transport.ServerEvent{Type: transport.EventEvaluation})
	conn.Send(ctx, transport.ServerEvent{Type: transport.EventSessionSummary})
	conn.Close()

	go conn.writePump()

	for i := 0; i < 2; i++ {
		select {
		case <-received:
		case <-time.After(2 * time.Second):
			t.Fatalf("queued event %d was not flushed before close", i)
		}
	}
}

func TestWSConnection_SlowConsumerDisconnects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())
	defer conn.Close()

	// No write pump running, so the buffer never drains.
	ctx := context.Background()
	for i := 0; i < sendBuffer; i++ {
		if err := conn.Send(ctx, transport.ServerEvent{Type: transport.EventOverlay}); err != nil {
			t.Fatalf("send %d should have been buffered: %v", i, err)
		}
	}

	if err := conn.Send(ctx, transport.ServerEvent{Type: transport.EventOverlay}); err == nil {
		t.Fatal("expected an error once the buffer is full")
	}
	if conn.IsConnected() {
		t.Error("slow consumer should be closed")
	}
}

func TestWSConnection_CloseIdempotent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())

	if !conn.IsConnected() {
		t.Error("fresh connection should report connected")
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("second close should be a no-op: %v", err)
	}
	if conn.IsConnected() {
		t.Error("closed connection should not report connected")
	}

	ws.Close()
}

func TestWSConnection_ReadPumpClosesEnvelopes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		up := websocket.Upgrader{}
		ws, err := up.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		ws.Close()
	}))
	defer server.Close()

	ws := dialWS(t, server)
	conn := NewWSConnection(ws, testLogger())
	go conn.readPump()

	select {
	case _, ok := <-conn.Envelopes():
		if ok {
			t.Error("expected the envelopes channel to be closed, got an envelope")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("envelopes channel never closed after peer disconnect")
	}
	if conn.IsConnected() {
		t.Error("connection should be closed after the peer disconnects")
	}
}
