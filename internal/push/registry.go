// Package push implements the real-time notification fan-out: a per-user
// registry of live connections, the connection lifecycle around it, and the
// dispatcher that serializes events onto those connections.
package push

import (
	"sync"

	"github.com/gofrs/uuid/v5"
)

// Conn is one live push connection. Implementations wrap the actual
// transport; the registry and dispatcher only ever see this interface.
type Conn interface {
	// QueryParam returns a query parameter from the URI the connection was
	// established with, or "" when absent.
	QueryParam(name string) string
	// IsOpen reports whether the transport still considers the connection open.
	IsOpen() bool
	// SendText writes one text frame. May fail per attempt.
	SendText(msg string) error
}

// Registry is the process-wide map from user ID to that user's currently
// open push connections. It holds no business knowledge and does no I/O.
// All methods are safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	conns map[uuid.UUID]map[Conn]struct{}
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[uuid.UUID]map[Conn]struct{})}
}

// Register adds the connection to the user's set. Registering the same
// connection twice under the same user is a no-op.
func (r *Registry) Register(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		set = make(map[Conn]struct{})
		r.conns[userID] = set
	}
	set[conn] = struct{}{}
}

// Unregister removes the connection from the user's set if present.
func (r *Registry) Unregister(userID uuid.UUID, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(r.conns, userID)
	}
}

// ConnectionsFor returns a snapshot of the user's registered connections.
// Unknown users yield an empty slice, never an error.
func (r *Registry) ConnectionsFor(userID uuid.UUID) []Conn {
	r.mu.Lock()
	defer r.mu.Unlock()
	set := r.conns[userID]
	out := make([]Conn, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	return out
}
