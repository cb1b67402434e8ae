package push

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
)

// EventIngredientExpiry is the event name used for expiry alerts.
const EventIngredientExpiry = "ingredient_expiry"

// envelope is the wire format of one pushed event.
type envelope struct {
	Event        string              `json:"event"`
	UserID       string              `json:"userId"`
	Notification *model.Notification `json:"notification"`
}

// Dispatcher fans one event out to every open connection a user holds.
// It never unregisters connections; that is the lifecycle manager's job,
// which keeps the two from racing over registry state.
type Dispatcher struct {
	reg *Registry
	log *zap.Logger
}

// NewDispatcher constructs a dispatcher over the given registry.
func NewDispatcher(reg *Registry, log *zap.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, log: log}
}

// Dispatch serializes the event and sends it to each of the user's open
// connections. A nil notification is still sent. Connections reporting
// themselves closed are skipped silently, and a failed send on one
// connection never aborts delivery to the rest. A user with no registered
// connections results in zero sends.
func (d *Dispatcher) Dispatch(event string, userID uuid.UUID, n *model.Notification) {
	payload, err := json.Marshal(envelope{
		Event:        event,
		UserID:       userID.String(),
		Notification: n,
	})
	if err != nil {
		d.log.Error("failed to serialize push event",
			zap.String("event", event),
			zap.Error(err),
		)
		return
	}

	for _, conn := range d.reg.ConnectionsFor(userID) {
		if !conn.IsOpen() {
			continue
		}
		if err := conn.SendText(string(payload)); err != nil {
			d.log.Warn("push send failed",
				zap.String("event", event),
				zap.String("userId", userID.String()),
				zap.Error(err),
			)
		}
	}
}
