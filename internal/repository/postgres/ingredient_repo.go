package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/freshkeep/freshkeep/internal/errs"
	"github.com/freshkeep/freshkeep/internal/model"
	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"
)

// IngredientRepo implements IngredientRepository using PostgreSQL.
type IngredientRepo struct{ db *DB }

// NewIngredientRepo constructs an ingredient repository.
func NewIngredientRepo(db *DB) *IngredientRepo { return &IngredientRepo{db: db} }

// Create inserts a new ingredient and fills in the DB-assigned timestamps.
func (r *IngredientRepo) Create(ctx context.Context, ing *model.UserIngredient) error {
	const q = `
INSERT INTO ingredients (id, user_id, name, quantity, unit, expires_on)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING created_at, updated_at`
	row := r.db.Pool.QueryRow(ctx, q, ing.ID, ing.UserID, ing.Name, ing.Quantity, ing.Unit, ing.ExpiresOn)
	return row.Scan(&ing.CreatedAt, &ing.UpdatedAt)
}

// Update replaces name, quantity, unit and expiry of an ingredient owned by the user.
func (r *IngredientRepo) Update(ctx context.Context, ing *model.UserIngredient) error {
	const q = `
UPDATE ingredients
SET name=$3, quantity=$4, unit=$5, expires_on=$6, updated_at=now()
WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, ing.ID, ing.UserID, ing.Name, ing.Quantity, ing.Unit, ing.ExpiresOn)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes an ingredient owned by the user.
func (r *IngredientRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	const q = `DELETE FROM ingredients WHERE id=$1 AND user_id=$2`
	tag, err := r.db.Pool.Exec(ctx, q, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// GetByID returns a single ingredient by primary key.
func (r *IngredientRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.UserIngredient, error) {
	const q = `
SELECT id, user_id, name, quantity, unit, expires_on, created_at, updated_at
FROM ingredients WHERE id=$1`
	var ing model.UserIngredient
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(
		&ing.ID, &ing.UserID, &ing.Name, &ing.Quantity, &ing.Unit,
		&ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &ing, nil
}

// ListByUser returns all of a user's ingredients, soonest expiry first.
func (r *IngredientRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.UserIngredient, error) {
	const q = `
SELECT id, user_id, name, quantity, unit, expires_on, created_at, updated_at
FROM ingredients
WHERE user_id=$1
ORDER BY expires_on ASC, name ASC`
	rows, err := r.db.Pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIngredients(rows)
}

// ListExpiringWithin returns ingredients across all users with expiry in
// [from, to] inclusive. The ordering (owner first, then expiry) lets the
// scanner group by user in a single linear pass.
func (r *IngredientRepo) ListExpiringWithin(ctx context.Context, from, to time.Time) ([]model.UserIngredient, error) {
	const q = `
SELECT id, user_id, name, quantity, unit, expires_on, created_at, updated_at
FROM ingredients
WHERE expires_on BETWEEN $1 AND $2
ORDER BY user_id ASC, expires_on ASC`
	rows, err := r.db.Pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIngredients(rows)
}

func scanIngredients(rows pgx.Rows) ([]model.UserIngredient, error) {
	var out []model.UserIngredient
	for rows.Next() {
		var ing model.UserIngredient
		if err := rows.Scan(
			&ing.ID, &ing.UserID, &ing.Name, &ing.Quantity, &ing.Unit,
			&ing.ExpiresOn, &ing.CreatedAt, &ing.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}
