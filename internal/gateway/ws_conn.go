package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/eleven-am/align-backend/internal/transport"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Image frames arrive base64-encoded inside the envelope.
	maxMessageSize = 1024 * 1024

	sendBuffer     = 256
	envelopeBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

var errSlowConsumer = errors.New("outbound buffer full")

// WSConnection adapts one gorilla websocket to the transport.Connection the
// coach consumes. The write pump owns all socket writes, the read pump owns
// all reads, and the socket is torn down by whichever pump exits first.
type WSConnection struct {
	ws        *websocket.Conn
	logger    *slog.Logger
	send      chan transport.ServerEvent
	envelopes chan transport.ClientEnvelope
	mu        sync.RWMutex
	closed    bool
	done      chan struct{}
}

func NewWSConnection(ws *websocket.Conn, logger *slog.Logger) *WSConnection {
	return &WSConnection{
		ws:        ws,
		logger:    logger,
		send:      make(chan transport.ServerEvent, sendBuffer),
		envelopes: make(chan transport.ClientEnvelope, envelopeBuffer),
		done:      make(chan struct{}),
	}
}

// Send queues an event for the write pump. A consumer that cannot keep up
// with its own session's events gets disconnected rather than throttling
// the frame loop.
func (c *WSConnection) Send(ctx context.Context, event transport.ServerEvent) error {
	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case c.send <- event:
		return nil
	default:
		c.logger.Warn("outbound buffer full, closing slow consumer")
		c.Close()
		return errSlowConsumer
	}
}

func (c *WSConnection) Envelopes() <-chan transport.ClientEnvelope {
	return c.envelopes
}

func (c *WSConnection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// Close signals both pumps. The write pump flushes queued events and closes
// the socket, which in turn unblocks the read pump.
func (c *WSConnection) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.done)
	c.mu.Unlock()
	return nil
}

func (c *WSConnection) readPump() {
	defer func() {
		c.Close()
		close(c.envelopes)
	}()

	c.ws.SetReadLimit(maxMessageSize)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket read error", "error", err)
			}
			return
		}

		var env transport.ClientEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.logger.Debug("rejected unparseable message", "error", err)
			c.sendErrorEvent(transport.ErrCodeBadEnvelope, "envelope is not valid json")
			continue
		}

		select {
		case c.envelopes <- env:
		case <-c.done:
			return
		default:
			c.logger.Warn("inbound buffer full, dropping envelope", "type", env.Type)
		}
	}
}

func (c *WSConnection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.flushOutbound()
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.ws.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case event := <-c.send:
			if err := c.writeEvent(event); err != nil {
				c.logger.Error("websocket write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// flushOutbound drains events queued before Close so the session summary and
// eviction errors still reach the client ahead of the close frame.
func (c *WSConnection) flushOutbound() {
	for {
		select {
		case event := <-c.send:
			if err := c.writeEvent(event); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *WSConnection) writeEvent(event transport.ServerEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		c.logger.Error("failed to marshal event", "type", event.Type, "error", err)
		return nil
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *WSConnection) sendErrorEvent(code, message string) {
	evt := transport.ServerEvent{
		Type:      transport.EventError,
		Timestamp: time.Now().UTC(),
		Payload:   transport.ErrorPayload{Code: code, Message: message},
	}
	select {
	case c.send <- evt:
	default:
	}
}
