// Package model defines domain entities used by services and repositories.
package model

import (
	"time"

	"github.com/gofrs/uuid/v5"
)

// Tokens collects issued access/refresh tokens (refresh optional).
type Tokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time // access token expiry (for diagnostics)
}

// User represents a household account.
type User struct {
	ID        uuid.UUID // PK
	Username  string    // unique
	PwdHash   []byte    // Argon2id(password, SaltAuth)
	SaltAuth  []byte    // per-user auth salt
	CreatedAt time.Time
}

// UserIngredient is a perishable item owned by exactly one user.
// The expiry scanner only reads these; mutation happens via ingredient CRUD.
type UserIngredient struct {
	ID        uuid.UUID
	UserID    uuid.UUID // FK -> users.id
	Name      string
	Quantity  float64 // positive
	Unit      string  // non-empty unit of measure
	ExpiresOn time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Notification type labels.
const (
	NotificationTypeInfo    = "info"
	NotificationTypeWarning = "warning"
)

// Notification is a single alert instance. Created by the expiry scanner (or
// any other producer) and never mutated afterwards except for the read flag,
// which the HTTP API flips. Content carries the ingredient name, days
// remaining, quantity and unit, so it doubles as the dedup fingerprint.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Type      string    `json:"type"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
