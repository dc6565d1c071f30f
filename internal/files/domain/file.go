package domain

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
)

// MaxFileSize is the largest accepted upload, 100 MiB.
const MaxFileSize int64 = 100 * 1024 * 1024

var supportedTypes = map[string]string{
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"pdf":  "application/pdf",
	"txt":  "text/plain; charset=utf-8",
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// NormalizeType lowercases a file type and strips dots, then checks it is
// one of docx, pdf, txt, png, jpg or jpeg.
func NormalizeType(fileType string) (string, error) {
	t := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(fileType), ".", ""))
	if t == "" {
		return "", sharedDomain.NewValidationError("file_type", "file type cannot be empty")
	}
	if _, ok := supportedTypes[t]; !ok {
		return "", sharedDomain.NewValidationError("file_type", "unsupported file type %q", t)
	}
	return t, nil
}

// StorageKey is the blob key of one version of a file.
func StorageKey(fileID uuid.UUID, version int, fileName string) string {
	name := unsafeNameChars.ReplaceAllString(path.Base(fileName), "_")
	return fmt.Sprintf("files/%s/v%d/%s", fileID, version, name)
}

func checkSize(size int64) error {
	if size < 0 {
		return sharedDomain.NewValidationError("file_size", "file size cannot be negative")
	}
	if size > MaxFileSize {
		return sharedDomain.NewValidationError("file_size", "file too large, limit is %d bytes", MaxFileSize)
	}
	return nil
}

// File is an uploaded document. The project is optional so deleting a
// project can leave its files behind, unlinked.
type File struct {
	sharedDomain.BaseEntity
	projectID      *uuid.UUID
	uploadedBy     uuid.UUID
	fileName       string
	storageKey     string
	size           int64
	fileType       string
	description    string
	currentVersion int
}

// NewFileParams describes an upload. FileType defaults to the extension
// of FileName.
type NewFileParams struct {
	ProjectID   uuid.UUID
	UploadedBy  uuid.UUID
	FileName    string
	FileType    string
	Size        int64
	Description string
}

// NewFile validates an upload and returns the file at version 1.
func NewFile(p NewFileParams) (*File, error) {
	if p.ProjectID == uuid.Nil {
		return nil, sharedDomain.NewValidationError("project_id", "file must belong to a project")
	}
	if p.UploadedBy == uuid.Nil {
		return nil, sharedDomain.NewValidationError("uploaded_by", "uploader is required")
	}
	name := strings.TrimSpace(p.FileName)
	if name == "" {
		return nil, sharedDomain.NewValidationError("file_name", "file name cannot be empty")
	}
	if err := checkSize(p.Size); err != nil {
		return nil, err
	}
	fileType := p.FileType
	if fileType == "" {
		fileType = path.Ext(name)
	}
	fileType, err := NormalizeType(fileType)
	if err != nil {
		return nil, err
	}

	projectID := p.ProjectID
	f := &File{
		BaseEntity:     sharedDomain.NewBaseEntity(),
		projectID:      &projectID,
		uploadedBy:     p.UploadedBy,
		fileName:       name,
		size:           p.Size,
		fileType:       fileType,
		description:    p.Description,
		currentVersion: 1,
	}
	f.storageKey = StorageKey(f.ID(), 1, name)
	return f, nil
}

func (f *File) ProjectID() *uuid.UUID  { return f.projectID }
func (f *File) UploadedBy() uuid.UUID  { return f.uploadedBy }
func (f *File) FileName() string       { return f.fileName }
func (f *File) StorageKey() string     { return f.storageKey }
func (f *File) Size() int64            { return f.size }
func (f *File) FileType() string       { return f.fileType }
func (f *File) Description() string    { return f.description }
func (f *File) CurrentVersion() int    { return f.currentVersion }
func (f *File) ContentType() string    { return supportedTypes[f.fileType] }
func (f *File) FirstVersion() *Version { return f.version(1, f.uploadedBy, f.CreatedAt()) }

// NewVersion bumps the version number and points the file at the new blob.
func (f *File) NewVersion(changedBy uuid.UUID, size int64) (*Version, error) {
	if changedBy == uuid.Nil {
		return nil, sharedDomain.NewValidationError("changed_by", "changed by is required")
	}
	if err := checkSize(size); err != nil {
		return nil, err
	}
	f.currentVersion++
	f.size = size
	f.storageKey = StorageKey(f.ID(), f.currentVersion, f.fileName)
	f.Touch()
	return f.version(f.currentVersion, changedBy, f.UpdatedAt()), nil
}

func (f *File) version(n int, changedBy uuid.UUID, at time.Time) *Version {
	return &Version{
		id:            uuid.New(),
		fileID:        f.ID(),
		versionNumber: n,
		changedBy:     changedBy,
		storageKey:    StorageKey(f.ID(), n, f.fileName),
		createdAt:     at,
	}
}

// FormattedSize renders the size as "N B", "x.xx KB" or "x.xx MB".
func (f *File) FormattedSize() string {
	return FormatSize(f.size)
}

// FormatSize renders a byte count for display.
func FormatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d B", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.2f MB", float64(size)/(1024*1024))
	}
}

// Serialize flattens the file into a response map.
func (f *File) Serialize() map[string]any {
	var projectID *string
	if f.projectID != nil {
		s := f.projectID.String()
		projectID = &s
	}
	uploaded := f.CreatedAt()
	return map[string]any{
		"id":              f.ID().String(),
		"project_id":      projectID,
		"file_name":       f.fileName,
		"file_path":       f.storageKey,
		"file_size":       f.size,
		"formatted_size":  f.FormattedSize(),
		"file_type":       f.fileType,
		"description":     f.description,
		"uploaded_by":     f.uploadedBy.String(),
		"upload_date":     sharedDomain.FormatDateTime(&uploaded),
		"current_version": f.currentVersion,
	}
}

// RehydrateFile rebuilds a stored file.
func RehydrateFile(
	id uuid.UUID,
	projectID *uuid.UUID,
	uploadedBy uuid.UUID,
	fileName, storageKey string,
	size int64,
	fileType, description string,
	currentVersion int,
	createdAt, updatedAt time.Time,
) *File {
	return &File{
		BaseEntity:     sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		projectID:      projectID,
		uploadedBy:     uploadedBy,
		fileName:       fileName,
		storageKey:     storageKey,
		size:           size,
		fileType:       fileType,
		description:    description,
		currentVersion: currentVersion,
	}
}

// Version is one stored revision of a file.
type Version struct {
	id            uuid.UUID
	fileID        uuid.UUID
	versionNumber int
	changedBy     uuid.UUID
	storageKey    string
	createdAt     time.Time
}

func (v *Version) ID() uuid.UUID        { return v.id }
func (v *Version) FileID() uuid.UUID    { return v.fileID }
func (v *Version) Number() int          { return v.versionNumber }
func (v *Version) ChangedBy() uuid.UUID { return v.changedBy }
func (v *Version) StorageKey() string   { return v.storageKey }
func (v *Version) CreatedAt() time.Time { return v.createdAt }

// Serialize flattens the version into a response map.
func (v *Version) Serialize() map[string]any {
	at := v.createdAt
	return map[string]any{
		"id":             v.id.String(),
		"file_id":        v.fileID.String(),
		"version_number": v.versionNumber,
		"changed_by_id":  v.changedBy.String(),
		"version_path":   v.storageKey,
		"timestamp":      sharedDomain.FormatDateTime(&at),
	}
}

// RehydrateVersion rebuilds a stored version.
func RehydrateVersion(id, fileID uuid.UUID, number int, changedBy uuid.UUID, storageKey string, createdAt time.Time) *Version {
	return &Version{id: id, fileID: fileID, versionNumber: number, changedBy: changedBy, storageKey: storageKey, createdAt: createdAt}
}
