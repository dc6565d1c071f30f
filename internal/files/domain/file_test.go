package domain

import (
	"testing"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewFileParams {
	return NewFileParams{
		ProjectID:  uuid.New(),
		UploadedBy: uuid.New(),
		FileName:   "Plan.PDF",
		Size:       2048,
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{".PDF", "pdf", false},
		{"docx", "docx", false},
		{" .JpEg ", "jpeg", false},
		{"", "", true},
		{"exe", "", true},
		{"tar.gz", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeType(tt.in)
			if tt.wantErr {
				assert.True(t, sharedDomain.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewFile(t *testing.T) {
	t.Run("type from extension", func(t *testing.T) {
		f, err := NewFile(validParams())
		require.NoError(t, err)
		assert.Equal(t, "pdf", f.FileType())
		assert.Equal(t, "application/pdf", f.ContentType())
		assert.Equal(t, 1, f.CurrentVersion())
		assert.Equal(t, StorageKey(f.ID(), 1, "Plan.PDF"), f.StorageKey())
	})

	t.Run("size limit", func(t *testing.T) {
		p := validParams()
		p.Size = MaxFileSize
		_, err := NewFile(p)
		assert.NoError(t, err)

		p.Size = MaxFileSize + 1
		_, err = NewFile(p)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("required fields", func(t *testing.T) {
		for name, mutate := range map[string]func(*NewFileParams){
			"project":  func(p *NewFileParams) { p.ProjectID = uuid.Nil },
			"uploader": func(p *NewFileParams) { p.UploadedBy = uuid.Nil },
			"name":     func(p *NewFileParams) { p.FileName = "  " },
			"type":     func(p *NewFileParams) { p.FileName = "script.sh" },
		} {
			p := validParams()
			mutate(&p)
			_, err := NewFile(p)
			assert.True(t, sharedDomain.IsValidation(err), name)
		}
	})
}

func TestFile_NewVersion(t *testing.T) {
	f, err := NewFile(validParams())
	require.NoError(t, err)
	editor := uuid.New()

	v, err := f.NewVersion(editor, 4096)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Number())
	assert.Equal(t, 2, f.CurrentVersion())
	assert.Equal(t, int64(4096), f.Size())
	assert.Equal(t, f.StorageKey(), v.StorageKey())
	assert.Equal(t, editor, v.ChangedBy())

	_, err = f.NewVersion(editor, MaxFileSize+1)
	assert.True(t, sharedDomain.IsValidation(err))
	assert.Equal(t, 2, f.CurrentVersion())
}

func TestStorageKey_SanitizesName(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, "files/"+id.String()+"/v3/my_report_1_.pdf", StorageKey(id, 3, "../../my report (1).pdf"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.50 KB", FormatSize(1536))
	assert.Equal(t, "2.00 MB", FormatSize(2*1024*1024))
}
