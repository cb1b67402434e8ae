package push

import (
	"sync"

	"go.uber.org/zap"

	"github.com/gofrs/uuid/v5"
)

// userIDParam is the query parameter on the establishing URI that carries the
// owning user's identifier.
const userIDParam = "userId"

// Lifecycle owns the open/close transitions of push connections and keeps the
// registry consistent with them. The user ID parsed at open time is retained
// as connection-local state and reused on close, so a transport that reports
// different URI metadata at close time cannot leak a registry entry.
type Lifecycle struct {
	reg *Registry
	log *zap.Logger

	mu     sync.Mutex
	owners map[Conn]uuid.UUID
}

// NewLifecycle constructs a lifecycle manager bound to a registry.
func NewLifecycle(reg *Registry, log *zap.Logger) *Lifecycle {
	return &Lifecycle{
		reg:    reg,
		log:    log,
		owners: make(map[Conn]uuid.UUID),
	}
}

// HandleOpen registers a newly opened connection under the user ID carried in
// its URI. A missing or malformed userId parameter leaves the connection open
// but unregistered: it exists, it just never receives pushes.
func (l *Lifecycle) HandleOpen(conn Conn) {
	raw := conn.QueryParam(userIDParam)
	if raw == "" {
		l.log.Debug("push connection opened without userId, not registering")
		return
	}
	userID, err := uuid.FromString(raw)
	if err != nil {
		l.log.Debug("push connection opened with malformed userId, not registering",
			zap.String("userId", raw))
		return
	}

	l.mu.Lock()
	l.owners[conn] = userID
	l.mu.Unlock()

	l.reg.Register(userID, conn)
	l.log.Info("push connection opened", zap.String("userId", userID.String()))
}

// HandleClose deregisters a closing connection using the user ID captured at
// open time. Connections that never registered are forgotten silently.
func (l *Lifecycle) HandleClose(conn Conn, reason string) {
	l.mu.Lock()
	userID, ok := l.owners[conn]
	delete(l.owners, conn)
	l.mu.Unlock()

	if !ok {
		return
	}
	l.reg.Unregister(userID, conn)
	l.log.Info("push connection closed",
		zap.String("userId", userID.String()),
		zap.String("reason", reason),
	)
}
