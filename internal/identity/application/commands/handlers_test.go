package commands

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	"github.com/MohamedAbusurra/CS438class/internal/identity/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/identity/infrastructure/security"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type fixture struct {
	users    *persistence.UserRepository
	tokens   *persistence.TokenRepository
	hasher   *security.BcryptHasher
	sessions *security.JWTService
	uow      *database.UnitOfWork
	clock    sharedDomain.FixedClock
	register *RegisterUserHandler
	login    *LoginHandler
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	f := &fixture{
		users:    persistence.NewUserRepository(conn),
		tokens:   persistence.NewTokenRepository(conn),
		hasher:   security.NewBcryptHasher(bcrypt.MinCost),
		sessions: security.NewJWTService("secret", time.Hour),
		uow:      database.NewUnitOfWork(conn),
		clock:    sharedDomain.FixedClock{At: time.Now().UTC()},
	}
	logger := observability.DiscardLogger()
	f.register = NewRegisterUserHandler(f.users, f.hasher, f.uow, nil, logger)
	f.login = NewLoginHandler(f.users, f.hasher, f.sessions, logger)
	return f
}

func (f *fixture) mustRegister(t *testing.T, username, role string) *domain.User {
	t.Helper()
	u, err := f.register.Handle(context.Background(), RegisterUserCommand{
		Username: username,
		Email:    username + "@example.com",
		Password: "Secret123",
		Role:     role,
	})
	require.NoError(t, err)
	return u
}

func TestRegisterUserHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	u := f.mustRegister(t, "ada", "")
	assert.Equal(t, domain.RoleTeamMember, u.Role())
	assert.NotEqual(t, "Secret123", u.PasswordHash())

	t.Run("duplicate username", func(t *testing.T) {
		_, err := f.register.Handle(ctx, RegisterUserCommand{Username: "ada", Email: "other@example.com", Password: "Secret123"})
		assert.ErrorIs(t, err, domain.ErrUserExists)
	})

	t.Run("weak password", func(t *testing.T) {
		_, err := f.register.Handle(ctx, RegisterUserCommand{Username: "bob", Email: "bob@example.com", Password: "password"})
		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := f.register.Handle(ctx, RegisterUserCommand{Username: "bob", Email: "bob@example.com", Password: "Secret123", Role: "owner"})
		assert.ErrorIs(t, err, sharedDomain.ErrValidation)
	})
}

func TestLoginHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.mustRegister(t, "ada", "project_manager")

	for _, login := range []string{"ada", "ADA@example.com"} {
		res, err := f.login.Handle(ctx, LoginCommand{Login: login, Password: "Secret123"})
		require.NoError(t, err, login)
		session, err := f.sessions.Verify(res.Token)
		require.NoError(t, err)
		assert.Equal(t, u.ID(), session.UserID)
		assert.Equal(t, domain.RoleProjectManager, session.Role)
	}

	_, err := f.login.Handle(ctx, LoginCommand{Login: "ada", Password: "Wrong1234"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.login.Handle(ctx, LoginCommand{Login: "nobody", Password: "Secret123"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.login.Handle(ctx, LoginCommand{})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAssignRoleHandler_Handle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	admin := f.mustRegister(t, "root", "admin")
	supervisor := f.mustRegister(t, "sup", "supervisor")
	member := f.mustRegister(t, "ada", "")
	h := NewAssignRoleHandler(f.users, f.uow, nil, observability.DiscardLogger())

	_, err := h.Handle(ctx, AssignRoleCommand{ActorID: supervisor.ID(), UserID: member.ID(), Role: "project_manager"})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	updated, err := h.Handle(ctx, AssignRoleCommand{ActorID: admin.ID(), UserID: member.ID(), Role: "project_manager"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProjectManager, updated.Role())

	reloaded, err := f.users.FindByID(ctx, member.ID())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleProjectManager, reloaded.Role())

	_, err = h.Handle(ctx, AssignRoleCommand{ActorID: admin.ID(), UserID: uuid.New(), Role: "admin"})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = h.Handle(ctx, AssignRoleCommand{ActorID: admin.ID(), UserID: member.ID(), Role: "boss"})
	assert.ErrorIs(t, err, sharedDomain.ErrValidation)
}

func TestAuthTokens(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.mustRegister(t, "ada", "")
	issue := NewIssueAuthTokenHandler(f.users, f.tokens, f.uow, f.clock)
	consume := NewConsumeAuthTokenHandler(f.users, f.tokens, f.hasher, f.uow, f.clock, observability.DiscardLogger())

	t.Run("verify", func(t *testing.T) {
		tok, err := issue.Handle(ctx, IssueAuthTokenCommand{UserID: u.ID(), Type: "verify"})
		require.NoError(t, err)

		verified, err := consume.Handle(ctx, ConsumeAuthTokenCommand{Value: tok.Value(), Type: "verify"})
		require.NoError(t, err)
		assert.True(t, verified.IsVerified())

		_, err = consume.Handle(ctx, ConsumeAuthTokenCommand{Value: tok.Value(), Type: "verify"})
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("reset", func(t *testing.T) {
		tok, err := issue.Handle(ctx, IssueAuthTokenCommand{UserID: u.ID(), Type: "reset"})
		require.NoError(t, err)

		_, err = consume.Handle(ctx, ConsumeAuthTokenCommand{Value: tok.Value(), Type: "reset", NewPassword: "weak"})
		assert.ErrorIs(t, err, sharedDomain.ErrValidation)

		_, err = consume.Handle(ctx, ConsumeAuthTokenCommand{Value: tok.Value(), Type: "reset", NewPassword: "Brandnew99"})
		require.NoError(t, err)

		_, err = f.login.Handle(ctx, LoginCommand{Login: "ada", Password: "Brandnew99"})
		assert.NoError(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		tok, err := issue.Handle(ctx, IssueAuthTokenCommand{UserID: u.ID(), Type: "verify", TTL: time.Minute})
		require.NoError(t, err)
		later := NewConsumeAuthTokenHandler(f.users, f.tokens, f.hasher, f.uow, sharedDomain.FixedClock{At: f.clock.At.Add(time.Hour)}, nil)
		_, err = later.Handle(ctx, ConsumeAuthTokenCommand{Value: tok.Value(), Type: "verify"})
		assert.ErrorIs(t, err, domain.ErrTokenInvalid)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := issue.Handle(ctx, IssueAuthTokenCommand{UserID: uuid.New(), Type: "verify"})
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}
