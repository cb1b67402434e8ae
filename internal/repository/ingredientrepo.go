package repository

import (
	"context"
	"time"

	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
)

// IngredientRepository provides access to per-user perishable ingredients.
type IngredientRepository interface {
	// Create inserts a new ingredient.
	Create(ctx context.Context, ing *model.UserIngredient) error

	// Update replaces mutable fields of an existing ingredient.
	Update(ctx context.Context, ing *model.UserIngredient) error

	// Delete removes an ingredient owned by the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// GetByID returns a single ingredient by ID regardless of owner.
	GetByID(ctx context.Context, id uuid.UUID) (*model.UserIngredient, error)

	// ListByUser returns all ingredients owned by the user, soonest expiry first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserIngredient, error)

	// ListExpiringWithin returns ingredients across all users whose expiry date
	// falls within [from, to] inclusive, ordered by owner then expiry ascending.
	ListExpiringWithin(ctx context.Context, from, to time.Time) ([]model.UserIngredient, error)
}
