package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const userColumns = `id, username, email, first_name, last_name, role, password_hash,
	is_verified, created_at, updated_at`

// UserRepository implements domain.UserRepository on either driver.
type UserRepository struct {
	conn database.Connection
}

// NewUserRepository creates a user repository.
func NewUserRepository(conn database.Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

func (r *UserRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a user.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			email = excluded.email,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			role = excluded.role,
			password_hash = excluded.password_hash,
			is_verified = excluded.is_verified,
			updated_at = excluded.updated_at`,
		u.ID(), u.Username(), u.Email().String(), u.FirstName(), u.LastName(),
		string(u.Role()), u.PasswordHash(), u.IsVerified(), u.CreatedAt(), u.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrUserNotFound when no row matches.
func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, `WHERE id = ?`, id)
}

// FindByUsername looks a user up by exact username.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE username = ?`, username)
}

// FindByEmail looks a user up by normalized email.
func (r *UserRepository) FindByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return r.findOne(ctx, `WHERE email = ?`, email.String())
}

// Exists reports whether the username or the email is taken.
func (r *UserRepository) Exists(ctx context.Context, username string, email domain.Email) (bool, error) {
	var n int
	err := r.executor(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE username = ? OR email = ?`, username, email.String(),
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return n > 0, nil
}

// Usernames resolves ids to usernames in one query.
func (r *UserRepository) Usernames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pred, args := database.MatchAny(r.conn.Driver(), "id", ids)
	rows, err := r.executor(ctx).Query(ctx, `SELECT id, username FROM users WHERE `+pred, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query usernames: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[id] = name
	}
	return out, rows.Err()
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+userColumns+` FROM users `+where, arg)
	var (
		id                                 uuid.UUID
		username, email, first, last, role string
		hash                               string
		verified                           bool
		createdAt, updatedAt               sql.NullTime
	)
	if err := row.Scan(&id, &username, &email, &first, &last, &role, &hash, &verified, &createdAt, &updatedAt); err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return domain.RehydrateUser(id, username, email, first, last, domain.NormalizeRole(role), hash, verified,
		createdAt.Time.UTC(), updatedAt.Time.UTC()), nil
}
