package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// TokenRepository implements domain.TokenRepository.
type TokenRepository struct {
	conn database.Connection
}

// NewTokenRepository creates a token repository.
func NewTokenRepository(conn database.Connection) *TokenRepository {
	return &TokenRepository{conn: conn}
}

// Save inserts a token or updates its used flag.
func (r *TokenRepository) Save(ctx context.Context, t *domain.AuthToken) error {
	_, err := database.ExecutorFromContext(ctx, r.conn).Exec(ctx, `
		INSERT INTO auth_tokens (id, user_id, token, token_type, expires_at, used, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET used = excluded.used`,
		t.ID(), t.UserID(), t.Value(), string(t.Type()), t.ExpiresAt(), t.Used(), t.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save auth token: %w", err)
	}
	return nil
}

// FindByValue returns domain.ErrTokenInvalid when no token of that type
// carries value.
func (r *TokenRepository) FindByValue(ctx context.Context, value string, tokenType domain.TokenType) (*domain.AuthToken, error) {
	row := database.ExecutorFromContext(ctx, r.conn).QueryRow(ctx, `
		SELECT id, user_id, token, token_type, expires_at, used, created_at
		FROM auth_tokens WHERE token = ? AND token_type = ?`, value, string(tokenType))
	var (
		id, userID           uuid.UUID
		token, kind          string
		expiresAt, createdAt sql.NullTime
		used                 bool
	)
	if err := row.Scan(&id, &userID, &token, &kind, &expiresAt, &used, &createdAt); err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to load auth token: %w", err)
	}
	return domain.RehydrateAuthToken(id, userID, token, domain.TokenType(kind), expiresAt.Time.UTC(), used, createdAt.Time.UTC()), nil
}
