// Package stream pushes session updates to browsers over a WebSocket and
// accepts key presses on the same connection.
package stream

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"kidcalc/internal/calculator"
	"kidcalc/internal/observability"
	"kidcalc/internal/session"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Message is the envelope written to clients.
type Message struct {
	Type   string          `json:"type"` // "update" or "error"
	Update *session.Update `json:"update,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// Handler upgrades GET /session/stream.
type Handler struct {
	s        *session.Session
	upgrader websocket.Upgrader
}

func NewHandler(s *session.Session) *Handler {
	return &Handler{
		s: s,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is enforced by the router middleware.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := observability.LoggerWithTrace(r.Context()).With(
		zap.String("request_id", observability.RequestIDFromContext(r.Context())),
	)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	logger.Info("stream connected", zap.String("remote", r.RemoteAddr))

	c := &client{conn: conn, logger: logger}
	h.serve(c)
	logger.Info("stream disconnected")
}

type client struct {
	conn   *websocket.Conn
	logger *zap.Logger
	mu     sync.Mutex
}

func (c *client) send(m Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(m)
}

func (c *client) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

func (h *Handler) serve(c *client) {
	defer c.conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, unsubscribe := h.s.Subscribe()
	defer unsubscribe()

	snap, err := h.s.State(ctx)
	if err != nil {
		return
	}
	if err := c.send(Message{Type: "update", Update: &session.Update{Reason: "connected", State: snap}}); err != nil {
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.readKeys(ctx, c)
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case u, ok := <-updates:
			if !ok {
				c.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"),
					time.Now().Add(writeTimeout))
				return
			}
			if err := c.send(Message{Type: "update", Update: &u}); err != nil {
				c.logger.Debug("stream write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}

// readKeys applies {"key": "..."} messages until the connection drops.
func (h *Handler) readKeys(ctx context.Context, c *client) {
	c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})

	for {
		var req session.KeyRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("stream read failed", zap.Error(err))
			}
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(pongTimeout))

		if _, err := h.s.Press(ctx, req.Key); err != nil {
			msg := "unknown key"
			if !errors.Is(err, calculator.ErrInvalidOperation) {
				msg = "session unavailable"
				c.logger.Warn("key press failed", zap.String("key", req.Key), zap.Error(err))
			}
			if err := c.send(Message{Type: "error", Error: msg}); err != nil {
				return
			}
		}
	}
}
