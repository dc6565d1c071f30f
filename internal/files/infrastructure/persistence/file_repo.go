package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MohamedAbusurra/CS438class/internal/files/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

const fileColumns = `id, project_id, uploaded_by, file_name, storage_key, file_size,
	file_type, description, current_version, created_at, updated_at`

// FileRepository implements domain.Repository.
type FileRepository struct {
	conn database.Connection
}

// NewFileRepository creates a file repository.
func NewFileRepository(conn database.Connection) *FileRepository {
	return &FileRepository{conn: conn}
}

func (r *FileRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

// Save inserts or updates a file.
func (r *FileRepository) Save(ctx context.Context, f *domain.File) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO files (`+fileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			project_id = excluded.project_id,
			storage_key = excluded.storage_key,
			file_size = excluded.file_size,
			description = excluded.description,
			current_version = excluded.current_version,
			updated_at = excluded.updated_at`,
		f.ID(),
		database.NullUUID(f.ProjectID()),
		f.UploadedBy(),
		f.FileName(),
		f.StorageKey(),
		f.Size(),
		f.FileType(),
		f.Description(),
		f.CurrentVersion(),
		f.CreatedAt(),
		f.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// SaveVersion records a file version.
func (r *FileRepository) SaveVersion(ctx context.Context, v *domain.Version) error {
	_, err := r.executor(ctx).Exec(ctx, `
		INSERT INTO file_versions (id, file_id, version_number, changed_by, storage_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		v.ID(), v.FileID(), v.Number(), v.ChangedBy(), v.StorageKey(), v.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save file version: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrFileNotFound when no row matches.
func (r *FileRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	row := r.executor(ctx).QueryRow(ctx, `SELECT `+fileColumns+` FROM files WHERE id = ?`, id)
	f, err := scanFile(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to load file: %w", err)
	}
	return f, nil
}

// FindByProject lists a project's files, most recently uploaded first.
func (r *FileRepository) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.File, error) {
	rows, err := r.executor(ctx).Query(ctx,
		`SELECT `+fileColumns+` FROM files WHERE project_id = ? ORDER BY created_at DESC`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query files: %w", err)
	}
	defer rows.Close()

	var files []*domain.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// FindVersions lists a file's versions, oldest first.
func (r *FileRepository) FindVersions(ctx context.Context, fileID uuid.UUID) ([]*domain.Version, error) {
	rows, err := r.executor(ctx).Query(ctx, `
		SELECT id, file_id, version_number, changed_by, storage_key, created_at
		FROM file_versions WHERE file_id = ? ORDER BY version_number`, fileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query file versions: %w", err)
	}
	defer rows.Close()

	var versions []*domain.Version
	for rows.Next() {
		var (
			id, owner, changedBy uuid.UUID
			number               int
			key                  string
			createdAt            sql.NullTime
		)
		if err := rows.Scan(&id, &owner, &number, &changedBy, &key, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan file version: %w", err)
		}
		versions = append(versions, domain.RehydrateVersion(id, owner, number, changedBy, key, createdAt.Time.UTC()))
	}
	return versions, rows.Err()
}

// UnlinkProject detaches the project's files, leaving the rows in place.
func (r *FileRepository) UnlinkProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	res, err := r.executor(ctx).Exec(ctx, `UPDATE files SET project_id = NULL, updated_at = ? WHERE project_id = ?`,
		time.Now().UTC(), projectID)
	if err != nil {
		return 0, fmt.Errorf("failed to unlink project files: %w", err)
	}
	return database.RowsAffectedOrZero(res), nil
}

// Delete removes a file and its versions.
func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := r.executor(ctx)
	if _, err := exec.Exec(ctx, `DELETE FROM file_versions WHERE file_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete file versions: %w", err)
	}
	res, err := exec.Exec(ctx, `DELETE FROM files WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	if database.RowsAffectedOrZero(res) == 0 {
		return domain.ErrFileNotFound
	}
	return nil
}

func scanFile(row database.Row) (*domain.File, error) {
	var (
		id, uploadedBy                   uuid.UUID
		projectID                        uuid.NullUUID
		name, key, fileType, description string
		size                             int64
		version                          int
		createdAt, updatedAt             sql.NullTime
	)
	if err := row.Scan(
		&id, &projectID, &uploadedBy, &name, &key, &size,
		&fileType, &description, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}
	return domain.RehydrateFile(
		id, database.UUIDPtr(projectID), uploadedBy,
		name, key, size, fileType, description, version,
		createdAt.Time.UTC(), updatedAt.Time.UTC(),
	), nil
}
