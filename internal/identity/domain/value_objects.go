package domain

import (
	"regexp"
	"strings"
	"unicode"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

const (
	MaxUsernameLength = 50
	MaxEmailLength    = 100
	MinPasswordLength = 8
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email represents a validated, lowercased email address.
type Email struct {
	value string
}

// NewEmail creates a validated email address.
func NewEmail(value string) (Email, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || len(value) > MaxEmailLength || !emailRegex.MatchString(value) {
		return Email{}, sharedDomain.NewValidationError("email", "invalid email address %q", value)
	}
	return Email{value: value}, nil
}

func (e Email) String() string { return e.value }

// Domain returns the part after the @.
func (e Email) Domain() string {
	_, domain, _ := strings.Cut(e.value, "@")
	return domain
}

// Role is a user's position in the permission hierarchy.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleSupervisor     Role = "supervisor"
	RoleProjectManager Role = "project_manager"
	RoleTeamMember     Role = "team_member"
)

var roleRanks = map[Role]int{
	RoleAdmin:          4,
	RoleSupervisor:     3,
	RoleProjectManager: 2,
	RoleTeamMember:     1,
}

// ParseRole validates s. Use NormalizeRole to default unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRanks[r]; !ok {
		return "", sharedDomain.NewValidationError("role", "invalid role %q, must be one of: admin, supervisor, project_manager, team_member", s)
	}
	return r, nil
}

// NormalizeRole returns team_member for anything unknown.
func NormalizeRole(s string) Role {
	r, err := ParseRole(s)
	if err != nil {
		return RoleTeamMember
	}
	return r
}

// Rank orders roles; unknown roles rank 0.
func (r Role) Rank() int { return roleRanks[r] }

// AtLeast reports whether r ranks at or above required.
func (r Role) AtLeast(required Role) bool { return r.Rank() >= required.Rank() }

// ValidatePassword enforces the password policy: at least
// MinPasswordLength characters with a digit and an uppercase letter.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return sharedDomain.NewValidationError("password", "password must be at least %d characters", MinPasswordLength)
	}
	var digit, upper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsUpper(r):
			upper = true
		}
	}
	if !digit {
		return sharedDomain.NewValidationError("password", "password must contain at least one digit")
	}
	if !upper {
		return sharedDomain.NewValidationError("password", "password must contain at least one uppercase letter")
	}
	return nil
}
