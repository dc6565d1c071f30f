package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
)

// RegisterUserCommand creates an account. An empty Role registers a
// team_member.
type RegisterUserCommand struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Password  string
	Role      string
}

// RegisterUserHandler handles the RegisterUserCommand.
type RegisterUserHandler struct {
	users     domain.UserRepository
	hasher    PasswordHasher
	uow       sharedApplication.UnitOfWork
	publisher sharedApplication.EventPublisher
	logger    *slog.Logger
}

// NewRegisterUserHandler creates a new RegisterUserHandler.
func NewRegisterUserHandler(
	users domain.UserRepository,
	hasher PasswordHasher,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *RegisterUserHandler {
	return &RegisterUserHandler{
		users:     users,
		hasher:    hasher,
		uow:       uow,
		publisher: publisher,
		logger:    logger,
	}
}

// Handle executes the RegisterUserCommand.
func (h *RegisterUserHandler) Handle(ctx context.Context, cmd RegisterUserCommand) (*domain.User, error) {
	if err := domain.ValidatePassword(cmd.Password); err != nil {
		return nil, err
	}
	if cmd.Role != "" {
		if _, err := domain.ParseRole(cmd.Role); err != nil {
			return nil, err
		}
	}
	hash, err := h.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user, err := domain.NewUser(domain.NewUserParams{
		Username:     cmd.Username,
		Email:        cmd.Email,
		FirstName:    cmd.FirstName,
		LastName:     cmd.LastName,
		Role:         cmd.Role,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		exists, err := h.users.Exists(txCtx, user.Username(), user.Email())
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrUserExists
		}
		return h.users.Save(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, user)
	return user, nil
}
