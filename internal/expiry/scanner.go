// Package expiry implements the periodic scan that turns soon-to-expire
// ingredients into notifications and pushes them to live connections.
package expiry

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/freshkeep/freshkeep/internal/push"
	"github.com/gofrs/uuid/v5"
)

// Alert thresholds and titles. Only ingredients exactly one or exactly
// three days from expiry produce a notification; everything else in the
// lookahead window is skipped outright.
const (
	lookaheadDays = 3

	TitleExpiryNotice = "Ingredient Expiry Notice" // 3 days out
	TitleExpiryAlert  = "Ingredient Expiry Alert"  // 1 day out
)

// dedupLimit bounds how many recent notifications per user are loaded to
// build the dedup set.
const dedupLimit = 50

// IngredientSource supplies ingredients nearing expiry.
type IngredientSource interface {
	// ListExpiringWithin returns ingredients with expiry in [from, to]
	// inclusive, ordered by owning user then expiry ascending.
	ListExpiringWithin(ctx context.Context, from, to time.Time) ([]model.UserIngredient, error)
}

// NotificationStore persists notifications and serves the dedup query.
type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	ListRecentByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
}

// Dispatcher fans a persisted notification out to the user's live connections.
type Dispatcher interface {
	Dispatch(event string, userID uuid.UUID, n *model.Notification)
}

// Scanner runs the expiry scan: select ingredients in the lookahead window,
// drop everything already alerted, persist the rest and push them out.
// A Scanner is not safe for concurrent runs; the scheduler owns single-flight.
type Scanner struct {
	ingredients   IngredientSource
	notifications NotificationStore
	dispatcher    Dispatcher
	log           *zap.Logger
	now           func() time.Time
}

// NewScanner constructs a scanner with injected collaborators.
func NewScanner(ingredients IngredientSource, notifications NotificationStore, dispatcher Dispatcher, log *zap.Logger) *Scanner {
	return &Scanner{
		ingredients:   ingredients,
		notifications: notifications,
		dispatcher:    dispatcher,
		log:           log,
		now:           time.Now,
	}
}

// Run executes one scan. It returns an error only when the ingredient query
// itself fails; per-ingredient and per-user problems are logged and skipped
// so one bad row never aborts the rest of the run.
func (s *Scanner) Run(ctx context.Context) error {
	today := truncateToDay(s.now())
	from := today.AddDate(0, 0, 1)
	to := today.AddDate(0, 0, lookaheadDays)

	ingredients, err := s.ingredients.ListExpiringWithin(ctx, from, to)
	if err != nil {
		return fmt.Errorf("expiry scan: list ingredients: %w", err)
	}
	if len(ingredients) == 0 {
		return nil
	}

	// Ingredients arrive ordered by user, so consecutive grouping is a
	// single linear pass.
	start := 0
	for i := 1; i <= len(ingredients); i++ {
		if i < len(ingredients) && ingredients[i].UserID == ingredients[start].UserID {
			continue
		}
		s.processUser(ctx, today, ingredients[start].UserID, ingredients[start:i])
		start = i
	}
	return nil
}

// processUser handles all in-window ingredients of a single user.
func (s *Scanner) processUser(ctx context.Context, today time.Time, userID uuid.UUID, group []model.UserIngredient) {
	seen, err := s.dedupSet(ctx, userID)
	if err != nil {
		// Without the dedup set we cannot tell what was already alerted;
		// skip the user this run rather than risk double alerts.
		s.log.Error("expiry scan: load recent notifications",
			zap.String("userId", userID.String()),
			zap.Error(err),
		)
		return
	}

	for i := range group {
		ing := &group[i]
		if ing.Name == "" {
			s.log.Warn("expiry scan: skipping ingredient without name",
				zap.String("id", ing.ID.String()))
			continue
		}

		days := daysBetween(today, truncateToDay(ing.ExpiresOn))
		title, ok := titleFor(days)
		if !ok {
			continue
		}

		content := RenderContent(ing.Name, days, ing.Quantity, ing.Unit)
		if _, dup := seen[content]; dup {
			continue
		}

		n := &model.Notification{
			UserID:  userID,
			Title:   title,
			Content: content,
			Type:    model.NotificationTypeInfo,
		}
		if err := s.notifications.Create(ctx, n); err != nil {
			// Dedup keys off persisted rows only, so this alert will be
			// retried on the next run.
			s.log.Error("expiry scan: persist notification",
				zap.String("userId", userID.String()),
				zap.String("content", content),
				zap.Error(err),
			)
			continue
		}
		seen[content] = struct{}{}

		s.dispatcher.Dispatch(push.EventIngredientExpiry, userID, n)
	}
}

// dedupSet loads the user's recent notification contents.
func (s *Scanner) dedupSet(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	recent, err := s.notifications.ListRecentByUser(ctx, userID, dedupLimit)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{}, len(recent))
	for i := range recent {
		seen[recent[i].Content] = struct{}{}
	}
	return seen, nil
}

// titleFor maps days-remaining to a notification title. Only the one-day and
// three-day thresholds alert; a two-day remainder is skipped entirely.
func titleFor(days int) (string, bool) {
	switch days {
	case 1:
		return TitleExpiryAlert, true
	case lookaheadDays:
		return TitleExpiryNotice, true
	default:
		return "", false
	}
}

// RenderContent produces the deterministic alert text. The same inputs must
// always render the same string: it is the dedup fingerprint.
func RenderContent(name string, days int, quantity float64, unit string) string {
	dayWord := "days"
	if days == 1 {
		dayWord = "day"
	}
	return fmt.Sprintf("%s (%.1f %s) expires in %d %s.", name, quantity, unit, days, dayWord)
}

// truncateToDay drops the time-of-day component in UTC.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns whole calendar days from a to b, both day-truncated.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
