// Package ws bridges WebSocket connections to the push subsystem.
package ws

import (
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/push"
)

// conn adapts a gorilla websocket connection to push.Conn. The query values
// of the establishing URI are captured once at upgrade time.
type conn struct {
	ws    *websocket.Conn
	query url.Values

	// gorilla permits only one concurrent writer.
	writeMu sync.Mutex
	closed  atomic.Bool
}

func newConn(ws *websocket.Conn, query url.Values) *conn {
	return &conn{ws: ws, query: query}
}

// QueryParam returns a query parameter captured at upgrade time.
func (c *conn) QueryParam(name string) string { return c.query.Get(name) }

// IsOpen reports whether the read loop has observed the connection closing.
func (c *conn) IsOpen() bool { return !c.closed.Load() }

// SendText writes one text frame.
func (c *conn) SendText(msg string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(msg))
}

func (c *conn) markClosed() { c.closed.Store(true) }

// Handler upgrades HTTP requests to push connections and drives their
// lifecycle. Authentication of the push channel is deliberately absent; the
// userId query parameter is trusted as established upstream.
type Handler struct {
	upgrader  websocket.Upgrader
	lifecycle *push.Lifecycle
	log       *zap.Logger
}

// NewHandler constructs a WebSocket handler bound to the lifecycle manager.
func NewHandler(lifecycle *push.Lifecycle, log *zap.Logger) *Handler {
	return &Handler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		lifecycle: lifecycle,
		log:       log,
	}
}

// Serve handles GET /ws. It blocks until the peer disconnects; the push
// subsystem uses the connection in the send direction only, so the read loop
// exists solely to notice the close.
func (h *Handler) Serve(c echo.Context) error {
	sock, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return err
	}

	pc := newConn(sock, c.Request().URL.Query())
	h.lifecycle.HandleOpen(pc)

	defer func() {
		pc.markClosed()
		h.lifecycle.HandleClose(pc, "peer disconnected")
		_ = sock.Close()
	}()

	for {
		if _, _, err := sock.ReadMessage(); err != nil {
			return nil
		}
	}
}
