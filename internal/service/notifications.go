package service

import (
	"context"
	"errors"

	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/freshkeep/freshkeep/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// NotificationService defines read-side operations over stored notifications.
// Creation happens in the expiry scanner, not here.
type NotificationService interface {
	// List returns the user's notifications, newest first.
	List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	// ListUnread returns the user's unread notifications, newest first.
	ListUnread(ctx context.Context, userID uuid.UUID) ([]model.Notification, error)
	// MarkRead flips the read flag of one notification owned by the user.
	MarkRead(ctx context.Context, userID, id uuid.UUID) error
	// MarkAllRead flips the read flag of all of the user's notifications.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type NotificationServiceImpl struct {
	repo repository.NotificationRepository
}

// NewNotificationService constructs NotificationService.
func NewNotificationService(repo repository.NotificationRepository) *NotificationServiceImpl {
	return &NotificationServiceImpl{repo: repo}
}

// List returns all notifications owned by the user.
func (s *NotificationServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.repo.ListByUser(ctx, userID)
}

// ListUnread returns unread notifications owned by the user.
func (s *NotificationServiceImpl) ListUnread(ctx context.Context, userID uuid.UUID) ([]model.Notification, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.repo.ListUnreadByUser(ctx, userID)
}

// MarkRead flips the read flag of one notification.
func (s *NotificationServiceImpl) MarkRead(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return errors.New("validation: empty userID/id")
	}
	return s.repo.MarkRead(ctx, userID, id)
}

// MarkAllRead flips the read flag of all the user's notifications.
func (s *NotificationServiceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return errors.New("validation: empty userID")
	}
	return s.repo.MarkAllRead(ctx, userID)
}
