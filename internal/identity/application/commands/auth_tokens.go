package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// IssueAuthTokenCommand requests a verify or reset token for a user.
type IssueAuthTokenCommand struct {
	UserID uuid.UUID
	Type   string
	TTL    time.Duration
}

// IssueAuthTokenHandler handles the IssueAuthTokenCommand. Tokens are
// returned to the caller; nothing is emailed.
type IssueAuthTokenHandler struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	uow    sharedApplication.UnitOfWork
	clock  sharedDomain.Clock
}

// NewIssueAuthTokenHandler creates a new IssueAuthTokenHandler.
func NewIssueAuthTokenHandler(users domain.UserRepository, tokens domain.TokenRepository, uow sharedApplication.UnitOfWork, clock sharedDomain.Clock) *IssueAuthTokenHandler {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	return &IssueAuthTokenHandler{users: users, tokens: tokens, uow: uow, clock: clock}
}

// Handle executes the IssueAuthTokenCommand.
func (h *IssueAuthTokenHandler) Handle(ctx context.Context, cmd IssueAuthTokenCommand) (*domain.AuthToken, error) {
	tokenType, err := domain.ParseTokenType(cmd.Type)
	if err != nil {
		return nil, err
	}
	var token *domain.AuthToken
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if _, err := h.users.FindByID(txCtx, cmd.UserID); err != nil {
			return err
		}
		token, err = domain.NewAuthToken(cmd.UserID, tokenType, cmd.TTL, h.clock.Now())
		if err != nil {
			return err
		}
		return h.tokens.Save(txCtx, token)
	})
	if err != nil {
		return nil, err
	}
	return token, nil
}

// ConsumeAuthTokenCommand redeems a token. NewPassword is required for
// reset tokens and ignored for verify tokens.
type ConsumeAuthTokenCommand struct {
	Value       string
	Type        string
	NewPassword string
}

// ConsumeAuthTokenHandler handles the ConsumeAuthTokenCommand.
type ConsumeAuthTokenHandler struct {
	users  domain.UserRepository
	tokens domain.TokenRepository
	hasher PasswordHasher
	uow    sharedApplication.UnitOfWork
	clock  sharedDomain.Clock
	logger *slog.Logger
}

// NewConsumeAuthTokenHandler creates a new ConsumeAuthTokenHandler.
func NewConsumeAuthTokenHandler(
	users domain.UserRepository,
	tokens domain.TokenRepository,
	hasher PasswordHasher,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *ConsumeAuthTokenHandler {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	return &ConsumeAuthTokenHandler{users: users, tokens: tokens, hasher: hasher, uow: uow, clock: clock, logger: logger}
}

// Handle verifies the user's email or resets the password, then marks the
// token used. Unknown, used and expired tokens all yield
// domain.ErrTokenInvalid.
func (h *ConsumeAuthTokenHandler) Handle(ctx context.Context, cmd ConsumeAuthTokenCommand) (*domain.User, error) {
	tokenType, err := domain.ParseTokenType(cmd.Type)
	if err != nil {
		return nil, err
	}
	var hash string
	if tokenType == domain.TokenReset {
		if err := domain.ValidatePassword(cmd.NewPassword); err != nil {
			return nil, err
		}
		if hash, err = h.hasher.Hash(cmd.NewPassword); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	var user *domain.User
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		stored, err := h.tokens.FindByValue(txCtx, cmd.Value, tokenType)
		if err != nil {
			return err
		}
		token, err := stored.ValidateToken(cmd.Value, tokenType, h.clock.Now())
		if err != nil {
			return err
		}
		user, err = h.users.FindByID(txCtx, token.UserID())
		if err != nil {
			return err
		}
		switch tokenType {
		case domain.TokenVerify:
			user.MarkVerified()
		case domain.TokenReset:
			user.SetPasswordHash(hash)
		}
		token.Invalidate()
		if err := h.tokens.Save(txCtx, token); err != nil {
			return err
		}
		return h.users.Save(txCtx, user)
	})
	if err != nil {
		return nil, err
	}
	if h.logger != nil {
		h.logger.InfoContext(ctx, "auth token consumed", "user_id", user.ID(), "token_type", string(tokenType))
	}
	return user, nil
}
