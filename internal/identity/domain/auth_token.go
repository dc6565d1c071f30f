package domain

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// TokenType is what an auth token may be used for.
type TokenType string

const (
	TokenVerify TokenType = "verify"
	TokenReset  TokenType = "reset"
)

// DefaultTokenTTL is how long a token stays valid.
const DefaultTokenTTL = 24 * time.Hour

// ParseTokenType rejects anything other than verify or reset.
func ParseTokenType(s string) (TokenType, error) {
	switch t := TokenType(s); t {
	case TokenVerify, TokenReset:
		return t, nil
	}
	return "", sharedDomain.NewValidationError("token_type", "token type must be one of: verify, reset")
}

// AuthToken is a single-use secret for email verification or password
// reset.
type AuthToken struct {
	id        uuid.UUID
	userID    uuid.UUID
	value     string
	tokenType TokenType
	expiresAt time.Time
	used      bool
	createdAt time.Time
}

// NewAuthToken issues a url-safe random 32-byte token valid for ttl.
// A non-positive ttl means DefaultTokenTTL.
func NewAuthToken(userID uuid.UUID, tokenType TokenType, ttl time.Duration, now time.Time) (*AuthToken, error) {
	if userID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("user_id", "user id is required")
	}
	if _, err := ParseTokenType(string(tokenType)); err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	return &AuthToken{
		id:        uuid.New(),
		userID:    userID,
		value:     base64.RawURLEncoding.EncodeToString(buf),
		tokenType: tokenType,
		expiresAt: now.Add(ttl).UTC(),
		createdAt: now.UTC(),
	}, nil
}

func (t *AuthToken) ID() uuid.UUID        { return t.id }
func (t *AuthToken) UserID() uuid.UUID    { return t.userID }
func (t *AuthToken) Value() string        { return t.value }
func (t *AuthToken) Type() TokenType      { return t.tokenType }
func (t *AuthToken) ExpiresAt() time.Time { return t.expiresAt }
func (t *AuthToken) Used() bool           { return t.used }
func (t *AuthToken) CreatedAt() time.Time { return t.createdAt }

// IsValid is true while the token is unused and unexpired.
func (t *AuthToken) IsValid(now time.Time) bool {
	return !t.used && now.Before(t.expiresAt)
}

// Invalidate marks the token used.
func (t *AuthToken) Invalidate() { t.used = true }

// ValidateToken returns the token only if value and type match and it is
// still valid.
func (t *AuthToken) ValidateToken(value string, tokenType TokenType, now time.Time) (*AuthToken, error) {
	if t.value != value || t.tokenType != tokenType || !t.IsValid(now) {
		return nil, ErrTokenInvalid
	}
	return t, nil
}

// RehydrateAuthToken rebuilds a stored token.
func RehydrateAuthToken(id, userID uuid.UUID, value string, tokenType TokenType, expiresAt time.Time, used bool, createdAt time.Time) *AuthToken {
	return &AuthToken{
		id:        id,
		userID:    userID,
		value:     value,
		tokenType: tokenType,
		expiresAt: expiresAt,
		used:      used,
		createdAt: createdAt,
	}
}
