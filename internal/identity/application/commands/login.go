package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
)

// LoginCommand authenticates by username or email.
type LoginCommand struct {
	Login    string
	Password string
}

// LoginResult carries the signed session.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// LoginHandler handles the LoginCommand.
type LoginHandler struct {
	users    domain.UserRepository
	hasher   PasswordHasher
	sessions SessionIssuer
	logger   *slog.Logger
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(users domain.UserRepository, hasher PasswordHasher, sessions SessionIssuer, logger *slog.Logger) *LoginHandler {
	return &LoginHandler{users: users, hasher: hasher, sessions: sessions, logger: logger}
}

// Handle returns domain.ErrInvalidCredentials for an unknown user and for
// a wrong password alike.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	user, err := h.lookup(ctx, strings.TrimSpace(cmd.Login))
	if err != nil {
		return nil, err
	}
	ok, err := h.hasher.Compare(user.PasswordHash(), cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to check password: %w", err)
	}
	if !ok {
		if h.logger != nil {
			h.logger.InfoContext(ctx, "login rejected", "user_id", user.ID())
		}
		return nil, domain.ErrInvalidCredentials
	}

	token, exp, err := h.sessions.Issue(user)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

func (h *LoginHandler) lookup(ctx context.Context, login string) (*domain.User, error) {
	if login == "" {
		return nil, domain.ErrInvalidCredentials
	}
	user, err := h.users.FindByUsername(ctx, login)
	if errors.Is(err, domain.ErrUserNotFound) && strings.Contains(login, "@") {
		email, emailErr := domain.NewEmail(login)
		if emailErr != nil {
			return nil, domain.ErrInvalidCredentials
		}
		user, err = h.users.FindByEmail(ctx, email)
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, err
}
