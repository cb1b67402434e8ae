package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/freshkeep/freshkeep/internal/repository"
	"github.com/gofrs/uuid/v5"
)

// IngredientService defines CRUD operations over perishable ingredients.
type IngredientService interface {
	// Create validates and stores a new ingredient for the user.
	Create(ctx context.Context, userID uuid.UUID, name string, quantity float64, unit string, expiresOn time.Time) (*model.UserIngredient, error)
	// Update validates and replaces mutable fields of an ingredient.
	Update(ctx context.Context, userID, id uuid.UUID, name string, quantity float64, unit string, expiresOn time.Time) (*model.UserIngredient, error)
	// Delete removes an ingredient owned by the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
	// Get returns a single ingredient, enforcing ownership.
	Get(ctx context.Context, userID, id uuid.UUID) (*model.UserIngredient, error)
	// List returns the user's ingredients, soonest expiry first.
	List(ctx context.Context, userID uuid.UUID) ([]model.UserIngredient, error)
}

type IngredientServiceImpl struct {
	repo repository.IngredientRepository
}

// NewIngredientService constructs IngredientService.
func NewIngredientService(repo repository.IngredientRepository) *IngredientServiceImpl {
	return &IngredientServiceImpl{repo: repo}
}

// validateIngredient applies shared field rules:
// - name and unit non-empty
// - quantity > 0
// - expiry date set
func validateIngredient(name string, quantity float64, unit string, expiresOn time.Time) error {
	if name == "" {
		return errors.New("validation: empty name")
	}
	if quantity <= 0 {
		return fmt.Errorf("validation: quantity must be positive, got %v", quantity)
	}
	if unit == "" {
		return errors.New("validation: empty unit")
	}
	if expiresOn.IsZero() {
		return errors.New("validation: missing expiry date")
	}
	return nil
}

// Create validates input and stores a new ingredient.
func (s *IngredientServiceImpl) Create(ctx context.Context, userID uuid.UUID, name string, quantity float64, unit string, expiresOn time.Time) (*model.UserIngredient, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	if err := validateIngredient(name, quantity, unit, expiresOn); err != nil {
		return nil, err
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	ing := &model.UserIngredient{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		ExpiresOn: expiresOn,
	}
	if err := s.repo.Create(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Update validates input and replaces the ingredient's mutable fields.
func (s *IngredientServiceImpl) Update(ctx context.Context, userID, id uuid.UUID, name string, quantity float64, unit string, expiresOn time.Time) (*model.UserIngredient, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, errors.New("validation: empty userID/id")
	}
	if err := validateIngredient(name, quantity, unit, expiresOn); err != nil {
		return nil, err
	}
	ing := &model.UserIngredient{
		ID:        id,
		UserID:    userID,
		Name:      name,
		Quantity:  quantity,
		Unit:      unit,
		ExpiresOn: expiresOn,
	}
	if err := s.repo.Update(ctx, ing); err != nil {
		return nil, err
	}
	return ing, nil
}

// Delete removes an ingredient owned by the user.
func (s *IngredientServiceImpl) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if userID == uuid.Nil || id == uuid.Nil {
		return errors.New("validation: empty userID/id")
	}
	return s.repo.Delete(ctx, userID, id)
}

// Get fetches a single ingredient and enforces ownership.
func (s *IngredientServiceImpl) Get(ctx context.Context, userID, id uuid.UUID) (*model.UserIngredient, error) {
	if userID == uuid.Nil || id == uuid.Nil {
		return nil, errors.New("validation: empty userID/id")
	}
	ing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ing.UserID != userID {
		return nil, errs.ErrNotFound
	}
	return ing, nil
}

// List returns all ingredients owned by the user.
func (s *IngredientServiceImpl) List(ctx context.Context, userID uuid.UUID) ([]model.UserIngredient, error) {
	if userID == uuid.Nil {
		return nil, errors.New("validation: empty userID")
	}
	return s.repo.ListByUser(ctx, userID)
}
