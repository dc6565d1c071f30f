package commands

import (
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
)

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

// SessionIssuer signs a bearer token for a user.
type SessionIssuer interface {
	Issue(u *domain.User) (string, time.Time, error)
}
