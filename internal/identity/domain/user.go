package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// User represents a user account in the system.
type User struct {
	sharedDomain.BaseAggregateRoot
	username     string
	email        Email
	firstName    string
	lastName     string
	role         Role
	passwordHash string
	verified     bool
}

// NewUserParams are the inputs of NewUser. PasswordHash must already be
// hashed; the plaintext policy is checked by the caller.
type NewUserParams struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Role         string
	PasswordHash string
}

// NewUser creates an unverified user. An unknown role becomes team_member.
func NewUser(p NewUserParams) (*User, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		return nil, sharedDomain.NewValidationError("username", "username is required")
	}
	if len(username) > MaxUsernameLength {
		return nil, sharedDomain.NewValidationError("username", "username exceeds %d characters", MaxUsernameLength)
	}
	email, err := NewEmail(p.Email)
	if err != nil {
		return nil, err
	}
	if p.PasswordHash == "" {
		return nil, sharedDomain.NewValidationError("password", "password is required")
	}

	u := &User{
		BaseAggregateRoot: sharedDomain.NewBaseAggregateRoot(),
		username:          username,
		email:             email,
		firstName:         strings.TrimSpace(p.FirstName),
		lastName:          strings.TrimSpace(p.LastName),
		role:              NormalizeRole(p.Role),
		passwordHash:      p.PasswordHash,
	}
	u.AddDomainEvent(UserRegistered{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserRegistered),
		Username:  username,
		Email:     email.String(),
		Role:      string(u.role),
	})
	return u, nil
}

func (u *User) Username() string     { return u.username }
func (u *User) Email() Email         { return u.email }
func (u *User) FirstName() string    { return u.firstName }
func (u *User) LastName() string     { return u.lastName }
func (u *User) Role() Role           { return u.role }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) IsVerified() bool     { return u.verified }

// FullName joins first and last name, falling back to whichever exists
// and then to the username.
func (u *User) FullName() string {
	switch {
	case u.firstName != "" && u.lastName != "":
		return u.firstName + " " + u.lastName
	case u.firstName != "":
		return u.firstName
	case u.lastName != "":
		return u.lastName
	}
	return u.username
}

// HasPermission reports whether the user's role ranks at or above required.
func (u *User) HasPermission(required Role) bool { return u.role.AtLeast(required) }

func (u *User) CanManageUsers() bool { return u.role == RoleAdmin || u.role == RoleSupervisor }

func (u *User) CanAssignRoles() bool { return u.role == RoleAdmin }

// ChangeRole sets a new role. The permission check belongs to the caller.
func (u *User) ChangeRole(role Role, changedBy *uuid.UUID) {
	if role == u.role {
		return
	}
	from := u.role
	u.role = role
	u.Touch()
	u.AddDomainEvent(UserRoleChanged{
		BaseEvent: sharedDomain.NewBaseEvent(u.ID(), AggregateType, RoutingKeyUserRoleChanged),
		From:      string(from),
		To:        string(role),
		ChangedBy: changedBy,
	})
}

// MarkVerified flags the email as confirmed.
func (u *User) MarkVerified() {
	u.verified = true
	u.Touch()
}

// SetPasswordHash replaces the stored hash.
func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
	u.Touch()
}

// Serialize flattens the user for responses. The password hash is never
// included.
func (u *User) Serialize() map[string]any {
	created := u.CreatedAt()
	return map[string]any{
		"id":          u.ID().String(),
		"username":    u.username,
		"email":       u.email.String(),
		"first_name":  u.firstName,
		"last_name":   u.lastName,
		"full_name":   u.FullName(),
		"role":        string(u.role),
		"is_verified": u.verified,
		"created_at":  sharedDomain.FormatDateTime(&created),
	}
}

// RehydrateUser rebuilds a stored user without emitting events.
func RehydrateUser(
	id uuid.UUID,
	username, email, firstName, lastName string,
	role Role,
	passwordHash string,
	verified bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		BaseAggregateRoot: sharedDomain.RehydrateBaseAggregateRoot(sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt)),
		username:          username,
		email:             Email{value: email},
		firstName:         firstName,
		lastName:          lastName,
		role:              role,
		passwordHash:      passwordHash,
		verified:          verified,
	}
}
