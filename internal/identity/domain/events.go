package domain

import (
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "User"

	RoutingKeyUserRegistered  = "identity.user.registered"
	RoutingKeyUserRoleChanged = "identity.user.role_changed"
)

// UserRegistered is emitted when a new user is created.
type UserRegistered struct {
	sharedDomain.BaseEvent
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// UserRoleChanged is emitted when an admin changes a user's role.
type UserRoleChanged struct {
	sharedDomain.BaseEvent
	From      string     `json:"from"`
	To        string     `json:"to"`
	ChangedBy *uuid.UUID `json:"changed_by,omitempty"`
}
