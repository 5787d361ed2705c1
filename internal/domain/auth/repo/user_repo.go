package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/ledgerline/auth-service/internal/domain/auth/model"
)

// UserRepo is the credential store consumed by the auth service.
type UserRepo interface {
	// CreateUser persists the user together with its zero-balance account in
	// one transaction; a user without an account is never observable.
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u model.User) (uuid.UUID, error)

	GetUserByEmail(ctx context.Context, email string) (model.User, error)

	// GetUserByID loads the user with its account preloaded.
	GetUserByID(ctx context.Context, id uuid.UUID) (model.User, error)
}
