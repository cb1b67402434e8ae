package push

import (
	"encoding/json"
	"testing"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/model"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *Registry) {
	t.Helper()
	reg := NewRegistry()
	return NewDispatcher(reg, zap.NewNop()), reg
}

func TestDispatcher_FanOutCompleteness(t *testing.T) {
	t.Parallel()
	d, reg := newTestDispatcher(t)
	user := uuid.Must(uuid.NewV4())

	conns := []*fakeConn{newFakeConn(""), newFakeConn(""), newFakeConn("")}
	for _, c := range conns {
		reg.Register(user, c)
	}

	n := &model.Notification{UserID: user, Title: "Ingredient Expiry Notice"}
	d.Dispatch(EventIngredientExpiry, user, n)

	for i, c := range conns {
		if c.sentCount() != 1 {
			t.Fatalf("conn[%d]: want exactly 1 send, got %d", i, c.sentCount())
		}
	}
}

func TestDispatcher_SkipsClosedConnections(t *testing.T) {
	t.Parallel()
	d, reg := newTestDispatcher(t)
	user := uuid.Must(uuid.NewV4())

	open := newFakeConn("")
	closed := newFakeConn("")
	closed.open = false
	reg.Register(user, open)
	reg.Register(user, closed)

	d.Dispatch(EventIngredientExpiry, user, &model.Notification{UserID: user})

	if closed.sentCount() != 0 {
		t.Fatalf("closed connection must receive zero sends, got %d", closed.sentCount())
	}
	if open.sentCount() != 1 {
		t.Fatalf("open sibling must still receive the event, got %d", open.sentCount())
	}
	if got := reg.ConnectionsFor(user); len(got) != 2 {
		t.Fatalf("dispatch must not unregister anything, got %d", len(got))
	}
}

func TestDispatcher_SendFailureIsolated(t *testing.T) {
	t.Parallel()
	d, reg := newTestDispatcher(t)
	user := uuid.Must(uuid.NewV4())

	failing := newFakeConn("")
	failing.sendErr = errSend
	ok := newFakeConn("")
	reg.Register(user, failing)
	reg.Register(user, ok)

	d.Dispatch(EventIngredientExpiry, user, &model.Notification{UserID: user})

	if ok.sentCount() != 1 {
		t.Fatalf("send failure on one connection must not abort siblings, got %d", ok.sentCount())
	}
}

func TestDispatcher_NoConnections_NoError(t *testing.T) {
	t.Parallel()
	d, _ := newTestDispatcher(t)
	// Must simply do nothing.
	d.Dispatch(EventIngredientExpiry, uuid.Must(uuid.NewV4()), &model.Notification{})
}

func TestDispatcher_NilNotificationStillSent(t *testing.T) {
	t.Parallel()
	d, reg := newTestDispatcher(t)
	user := uuid.Must(uuid.NewV4())
	conn := newFakeConn("")
	reg.Register(user, conn)

	d.Dispatch("ping", user, nil)

	if conn.sentCount() != 1 {
		t.Fatalf("nil notification must still be sent, got %d sends", conn.sentCount())
	}
	var env map[string]any
	if err := json.Unmarshal([]byte(conn.sent[0]), &env); err != nil {
		t.Fatalf("payload is not JSON: %v", err)
	}
	if env["event"] != "ping" || env["userId"] != user.String() {
		t.Fatalf("bad envelope: %v", env)
	}
	if v, present := env["notification"]; !present || v != nil {
		t.Fatalf("want explicit null notification, got %v (present=%v)", v, present)
	}
}

func TestDispatcher_EnvelopeShape(t *testing.T) {
	t.Parallel()
	d, reg := newTestDispatcher(t)
	user := uuid.Must(uuid.NewV4())
	conn := newFakeConn("")
	reg.Register(user, conn)

	n := &model.Notification{
		ID:      uuid.Must(uuid.NewV4()),
		UserID:  user,
		Title:   "Ingredient Expiry Alert",
		Content: "Meat (0.5 kg) expires in 1 day.",
		Type:    model.NotificationTypeInfo,
	}
	d.Dispatch(EventIngredientExpiry, user, n)

	var env struct {
		Event        string              `json:"event"`
		UserID       string              `json:"userId"`
		Notification *model.Notification `json:"notification"`
	}
	if err := json.Unmarshal([]byte(conn.sent[0]), &env); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if env.Event != EventIngredientExpiry {
		t.Fatalf("event: %q", env.Event)
	}
	if env.Notification == nil || env.Notification.Content != n.Content {
		t.Fatalf("notification not carried through: %+v", env.Notification)
	}
}
