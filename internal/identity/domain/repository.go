package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email Email) (*User, error)
	Exists(ctx context.Context, username string, email Email) (bool, error)
	// Usernames maps each known id to its username; unknown ids are absent.
	Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// TokenRepository defines the interface for auth token persistence.
type TokenRepository interface {
	Save(ctx context.Context, token *AuthToken) error
	FindByValue(ctx context.Context, value string, tokenType TokenType) (*AuthToken, error)
}
