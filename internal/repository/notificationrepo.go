package repository

import (
	"context"

	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
)

// NotificationRepository provides durable storage for per-user notifications.
type NotificationRepository interface {
	// Create persists a notification, assigning ID and CreatedAt on the way in.
	Create(ctx context.Context, n *model.Notification) error

	// ListByUser returns the user's notifications, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)

	// ListRecentByUser returns up to limit most recent notifications for the
	// user. The expiry scanner reads these to build its dedup set.
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)

	// ListUnreadByUser returns the user's unread notifications, newest first.
	ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)

	// MarkRead flips the read flag of one notification owned by the user.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error

	// MarkAllRead flips the read flag of every notification owned by the user.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
