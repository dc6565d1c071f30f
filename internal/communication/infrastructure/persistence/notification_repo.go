package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const notificationColumns = `id, user_id, title, content, type, project_id, task_id, milestone_id, is_read, created_at`

// NotificationRepository implements domain.NotificationRepository.
type NotificationRepository struct {
	conn database.Connection
}

// NewNotificationRepository creates a notification repository.
func NewNotificationRepository(conn database.Connection) *NotificationRepository {
	return &NotificationRepository{conn: conn}
}

func (r *NotificationRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts a notification or updates its read flag.
func (r *NotificationRepository) Save(ctx context.Context, n *domain.Notification) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET is_read = excluded.is_read`,
		n.ID(), n.UserID(), n.Title(), n.Content(), string(n.Type()),
		database.NullUUID(n.ProjectID()), database.NullUUID(n.TaskID()), database.NullUUID(n.MilestoneID()),
		n.IsRead(), n.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrNotificationNotFound when no row matches.
func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	n, err := scanNotification(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	return n, nil
}

// FindByUser lists the user's notifications, newest first. limit <= 0
// means no limit.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, includeRead bool, limit int) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	args := []any{userID}
	if !includeRead {
		query += ` AND is_read = ?`
		args = append(args, false)
	}
	query += ` ORDER BY created_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := r.executor(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	var out []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// UnreadIDs lists the ids of the user's unread notifications.
func (r *NotificationRepository) UnreadIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.executor(ctx).Query(ctx, `SELECT id FROM notifications WHERE user_id = ? AND is_read = ?`, userID, false)
	if err != nil {
		return nil, fmt.Errorf("failed to query unread notifications: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MarkRead flags ids as read in one statement.
func (r *NotificationRepository) MarkRead(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	pred, args := database.MatchAny(r.conn.Driver(), "id", ids)
	res, err := r.executor(ctx).Exec(ctx, `UPDATE notifications SET is_read = ? WHERE is_read = ? AND `+pred,
		append([]any{true, false}, args...)...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return database.RowsAffectedOrZero(res), nil
}

func scanNotification(row database.Row) (*domain.Notification, error) {
	var (
		id, userID                   uuid.UUID
		title, content, kind         string
		projectID, taskID, milestone uuid.NullUUID
		isRead                       bool
		createdAt                    sql.NullTime
	)
	if err := row.Scan(&id, &userID, &title, &content, &kind, &projectID, &taskID, &milestone, &isRead, &createdAt); err != nil {
		return nil, err
	}
	return domain.RehydrateNotification(
		id, userID, title, content, domain.NotificationType(kind),
		database.UUIDPtr(projectID), database.UUIDPtr(taskID), database.UUIDPtr(milestone),
		isRead, createdAt.Time.UTC(),
	), nil
}
