package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User is an identity record. The password is only ever stored as a
// one-way hash. Every user owns exactly one Account, created in the same
// transaction as the user row.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	Account      Account   `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Account struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID       `gorm:"type:uuid;uniqueIndex;not null"`
	Balance   decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IssuedToken is the bearer credential handed to a client after a
// successful login. Nothing about it is persisted server-side.
type IssuedToken struct {
	Token     string
	ExpiresAt time.Time
	TTL       time.Duration
	UserID    uuid.UUID
}
