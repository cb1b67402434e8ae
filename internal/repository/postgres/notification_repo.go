package postgres

import (
	"context"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// NotificationRepo implements NotificationRepository using PostgreSQL.
type NotificationRepo struct{ db *DB }

// NewNotificationRepo constructs a notification repository.
func NewNotificationRepo(db *DB) *NotificationRepo { return &NotificationRepo{db: db} }

// Create persists a notification. ID is generated here and CreatedAt is
// assigned by the database; both are written back into n on success.
func (r *NotificationRepo) Create(ctx context.Context, n *model.Notification) error {
	id, err := uuid.NewV4()
	if err != nil {
		return err
	}
	const q = `
INSERT INTO notifications (id, user_id, title, content, ntype, read)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at`
	row := r.db.Pool.QueryRow(ctx, q, id, n.UserID, n.Title, n.Content, n.Type, n.Read)
	if err := row.Scan(&n.CreatedAt); err != nil {
		return err
	}
	n.ID = id
	return nil
}

// ListByUser returns all of a user's notifications, newest first.
func (r *NotificationRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	const q = `
SELECT id, user_id, title, content, ntype, read, created_at
FROM notifications
WHERE user_id=$1
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// ListRecentByUser returns up to limit most recent notifications for the user.
func (r *NotificationRepo) ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	const q = `
SELECT id, user_id, title, content, ntype, read, created_at
FROM notifications
WHERE user_id=$1
ORDER BY created_at DESC
LIMIT $2`
	rows, err := r.db.Pool.Query(ctx, q, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// ListUnreadByUser returns the user's unread notifications, newest first.
func (r *NotificationRepo) ListUnreadByUser(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	const q = `
SELECT id, user_id, title, content, ntype, read, created_at
FROM notifications
WHERE user_id=$1 AND read=false
ORDER BY created_at DESC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

// MarkRead flips the read flag on a single notification owned by the user.
func (r *NotificationRepo) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	const q = `UPDATE notifications SET read=true WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// MarkAllRead flips the read flag on every unread notification of the user.
func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	const q = `UPDATE notifications SET read=true WHERE user_id=$1 AND read=false`
	_, err := r.db.Pool.Exec(ctx, q, userID)
	return err
}

func scanNotifications(rows pgx.Rows) ([]model.Notification, error) {
	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Content, &n.Type, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
