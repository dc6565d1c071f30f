package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const messageColumns = `id, sender_id, receiver_id, project_id, content, is_read, created_at`

// MessageRepository implements domain.MessageRepository.
type MessageRepository struct {
	conn database.Connection
}

// NewMessageRepository creates a message repository.
func NewMessageRepository(conn database.Connection) *MessageRepository {
	return &MessageRepository{conn: conn}
}

func (r *MessageRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts a message or updates its read flag.
func (r *MessageRepository) Save(ctx context.Context, m *domain.Message) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO messages (`+messageColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET is_read = excluded.is_read`,
		m.ID(), m.SenderID(), m.ReceiverID(), database.NullUUID(m.ProjectID()),
		m.Content(), m.IsRead(), m.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrMessageNotFound when no row matches.
func (r *MessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = ?`, id)
	m, err := scanMessage(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to load message: %w", err)
	}
	return m, nil
}

// FindUnread lists the receiver's unread messages, newest first.
func (r *MessageRepository) FindUnread(ctx context.Context, receiverID uuid.UUID) ([]*domain.Message, error) {
	return r.list(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE receiver_id = ? AND is_read = ? ORDER BY created_at DESC`, receiverID, false)
}

// FindConversation lists the messages exchanged by two users, oldest first.
func (r *MessageRepository) FindConversation(ctx context.Context, userA, userB uuid.UUID, projectID *uuid.UUID) ([]*domain.Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))`
	args := []any{userA, userB, userB, userA}
	if projectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *projectID)
	}
	return r.list(ctx, query+` ORDER BY created_at ASC`, args...)
}

func (r *MessageRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Message, error) {
	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func scanMessage(row database.Row) (*domain.Message, error) {
	var (
		id, sender, receiver uuid.UUID
		projectID            uuid.NullUUID
		content              string
		isRead               bool
		createdAt            sql.NullTime
	)
	if err := row.Scan(&id, &sender, &receiver, &projectID, &content, &isRead, &createdAt); err != nil {
		return nil, err
	}
	return domain.RehydrateMessage(id, sender, receiver, database.UUIDPtr(projectID), content, isRead, createdAt.Time.UTC()), nil
}
