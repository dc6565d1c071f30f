package commands

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	"github.com/google/uuid"
)

// AssignRoleCommand changes UserID's role on behalf of ActorID.
type AssignRoleCommand struct {
	ActorID uuid.UUID
	UserID  uuid.UUID
	Role    string
}

// AssignRoleHandler handles the AssignRoleCommand.
type AssignRoleHandler struct {
	users     domain.UserRepository
	uow       sharedApplication.UnitOfWork
	publisher sharedApplication.EventPublisher
	logger    *slog.Logger
}

// NewAssignRoleHandler creates a new AssignRoleHandler.
func NewAssignRoleHandler(
	users domain.UserRepository,
	uow sharedApplication.UnitOfWork,
	publisher sharedApplication.EventPublisher,
	logger *slog.Logger,
) *AssignRoleHandler {
	return &AssignRoleHandler{users: users, uow: uow, publisher: publisher, logger: logger}
}

// Handle executes the AssignRoleCommand. Only admins may assign roles.
func (h *AssignRoleHandler) Handle(ctx context.Context, cmd AssignRoleCommand) (*domain.User, error) {
	role, err := domain.ParseRole(cmd.Role)
	if err != nil {
		return nil, err
	}

	var target *domain.User
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		actor, err := h.users.FindByID(txCtx, cmd.ActorID)
		if err != nil {
			return err
		}
		if !actor.CanAssignRoles() {
			return domain.ErrPermissionDenied
		}
		target, err = h.users.FindByID(txCtx, cmd.UserID)
		if err != nil {
			return err
		}
		actorID := actor.ID()
		target.ChangeRole(role, &actorID)
		return h.users.Save(txCtx, target)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, target)
	return target, nil
}
