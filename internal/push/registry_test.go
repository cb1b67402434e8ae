package push

import (
	"errors"
	"sync"
	"testing"

	"github.com/gofrs/uuid/v5"
)

// fakeConn is a scriptable push connection used across the package tests.
type fakeConn struct {
	params  map[string]string
	open    bool
	sendErr error

	mu   sync.Mutex
	sent []string
}

var _ Conn = (*fakeConn)(nil)

func newFakeConn(userID string) *fakeConn {
	params := map[string]string{}
	if userID != "" {
		params["userId"] = userID
	}
	return &fakeConn{params: params, open: true}
}

func (c *fakeConn) QueryParam(name string) string { return c.params[name] }
func (c *fakeConn) IsOpen() bool                  { return c.open }
func (c *fakeConn) SendText(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sendErr != nil {
		return c.sendErr
	}
	c.sent = append(c.sent, msg)
	return nil
}

func (c *fakeConn) sentCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sent)
}

func TestRegistry_RegisterIdempotent(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	user := uuid.Must(uuid.NewV4())
	conn := newFakeConn(user.String())

	r.Register(user, conn)
	r.Register(user, conn)

	if got := r.ConnectionsFor(user); len(got) != 1 {
		t.Fatalf("registering the same instance twice: want 1 connection, got %d", len(got))
	}
}

func TestRegistry_MultipleConnectionsPerUser(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	user := uuid.Must(uuid.NewV4())
	a := newFakeConn(user.String())
	b := newFakeConn(user.String())

	r.Register(user, a)
	r.Register(user, b)

	if got := r.ConnectionsFor(user); len(got) != 2 {
		t.Fatalf("want 2 connections, got %d", len(got))
	}
}

func TestRegistry_UnregisterUnknown_NoOp(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	user := uuid.Must(uuid.NewV4())
	conn := newFakeConn(user.String())

	// Neither the user nor the connection is known: both must be silent.
	r.Unregister(user, conn)

	r.Register(user, conn)
	r.Unregister(user, newFakeConn(user.String()))
	if got := r.ConnectionsFor(user); len(got) != 1 {
		t.Fatalf("unregistering a different instance must not remove, got %d", len(got))
	}
}

func TestRegistry_ConnectionsForUnknownUser_Empty(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	if got := r.ConnectionsFor(uuid.Must(uuid.NewV4())); len(got) != 0 {
		t.Fatalf("want empty slice for unknown user, got %d", len(got))
	}
}

func TestRegistry_SnapshotIsolatedFromMutation(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	user := uuid.Must(uuid.NewV4())
	conn := newFakeConn(user.String())
	r.Register(user, conn)

	snap := r.ConnectionsFor(user)
	r.Unregister(user, conn)

	if len(snap) != 1 {
		t.Fatalf("snapshot must not shrink after unregister, got %d", len(snap))
	}
	if got := r.ConnectionsFor(user); len(got) != 0 {
		t.Fatalf("registry must be empty after unregister, got %d", len(got))
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	user := uuid.Must(uuid.NewV4())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn := newFakeConn(user.String())
			r.Register(user, conn)
			_ = r.ConnectionsFor(user)
			r.Unregister(user, conn)
		}()
	}
	wg.Wait()

	if got := r.ConnectionsFor(user); len(got) != 0 {
		t.Fatalf("all connections unregistered, want 0, got %d", len(got))
	}
}

// errSend is a reusable transport failure.
var errSend = errors.New("send failed")
