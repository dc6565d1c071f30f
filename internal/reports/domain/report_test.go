package domain

import (
	"testing"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	r, err := NewReport(uuid.New(), "", nil, nil)
	require.NoError(t, err)
	r.ClearDomainEvents()
	return r
}

func TestNewReport(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		by := uuid.New()
		r, err := NewReport(uuid.New(), "", &by, nil)
		require.NoError(t, err)

		assert.Equal(t, TypePerformance, r.Type())
		assert.Equal(t, StatusPending, r.Status())
		assert.Equal(t, 0, r.Progress())
		assert.Nil(t, r.CompletedAt())
		assert.Equal(t, DefaultFilters(), r.Filters())

		require.Len(t, r.DomainEvents(), 1)
		event := r.DomainEvents()[0].(ReportRequested)
		assert.Equal(t, RoutingKeyReportRequested, event.RoutingKey())
		assert.Equal(t, &by, event.RequestedBy)
	})

	t.Run("keeps given filters", func(t *testing.T) {
		r, err := NewReport(uuid.New(), TypePerformance, nil, Filters{"format": "pdf", FilterIncludeContributions: false})
		require.NoError(t, err)
		assert.False(t, r.Filters().Bool(FilterIncludeContributions, true))
		assert.True(t, r.Filters().Bool(FilterIncludeCompletedTasks, true))
	})

	t.Run("rejects unknown type", func(t *testing.T) {
		_, err := NewReport(uuid.New(), "financial", nil, nil)
		assert.True(t, sharedDomain.IsValidation(err))
	})

	t.Run("requires project", func(t *testing.T) {
		_, err := NewReport(uuid.Nil, "", nil, nil)
		assert.True(t, sharedDomain.IsValidation(err))
	})
}

func TestReport_UpdateProgress(t *testing.T) {
	t.Run("out of range", func(t *testing.T) {
		r := newTestReport(t)
		for _, v := range []int{-1, 101} {
			err := r.UpdateProgress(v, fixedTime())
			assert.True(t, sharedDomain.IsValidation(err), "progress %d", v)
		}
		assert.Equal(t, 0, r.Progress())
		assert.Equal(t, StatusPending, r.Status())
	})

	t.Run("partial progress keeps status", func(t *testing.T) {
		r := newTestReport(t)
		r.StartGenerating()
		require.NoError(t, r.UpdateProgress(40, fixedTime()))
		assert.Equal(t, StatusGenerating, r.Status())
		assert.Nil(t, r.CompletedAt())
	})

	t.Run("100 completes", func(t *testing.T) {
		r := newTestReport(t)
		r.AttachFile("reports/p/r.pdf")
		require.NoError(t, r.UpdateProgress(100, fixedTime()))

		assert.Equal(t, StatusCompleted, r.Status())
		require.NotNil(t, r.CompletedAt())
		assert.True(t, fixedTime().Equal(*r.CompletedAt()))
		require.Len(t, r.DomainEvents(), 1)
		assert.Equal(t, "reports/p/r.pdf", r.DomainEvents()[0].(ReportCompleted).FilePath)

		r.ClearDomainEvents()
		require.NoError(t, r.UpdateProgress(100, fixedTime()))
		assert.Empty(t, r.DomainEvents())
	})
}

func TestReport_MarkFailed(t *testing.T) {
	r := newTestReport(t)
	r.MarkFailed(fixedTime())

	assert.Equal(t, StatusFailed, r.Status())
	assert.Equal(t, 0, r.Progress())
	require.NotNil(t, r.CompletedAt())
	assert.True(t, fixedTime().Equal(*r.CompletedAt()))
	require.Len(t, r.DomainEvents(), 1)
	assert.Equal(t, RoutingKeyReportFailed, r.DomainEvents()[0].RoutingKey())
}

func TestReport_GetStatus(t *testing.T) {
	t.Run("hides file path until completed", func(t *testing.T) {
		r := newTestReport(t)
		r.AttachFile("reports/x.pdf")
		r.MarkFailed(fixedTime())

		status := r.GetStatus()
		assert.Equal(t, "failed", status["status"])
		assert.Nil(t, status["file_path"])
		assert.Equal(t, "2025-06-01 09:30:00", *status["completed_at"].(*string))
	})

	t.Run("completed exposes file path", func(t *testing.T) {
		r := newTestReport(t)
		r.AttachFile("reports/x.pdf")
		require.NoError(t, r.UpdateProgress(100, fixedTime()))

		status := r.GetStatus()
		require.NotNil(t, status["file_path"])
		assert.Equal(t, "reports/x.pdf", *status["file_path"].(*string))
		assert.Equal(t, 100, status["progress"])
	})

	t.Run("pending has no completion time", func(t *testing.T) {
		status := newTestReport(t).GetStatus()
		assert.Nil(t, status["completed_at"])
		assert.Nil(t, status["file_path"])
	})
}

func TestDecodeFilters(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Filters
	}{
		{"empty", "", Filters{}},
		{"malformed", "{not json", Filters{}},
		{"null", "null", Filters{}},
		{"array", "[1,2]", Filters{}},
		{"valid", `{"format":"pdf"}`, Filters{"format": "pdf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeFilters(tt.raw))
		})
	}
}

func TestReport_SerializeMalformedFilters(t *testing.T) {
	r := RehydrateReport(uuid.New(), uuid.New(), TypePerformance, StatusPending, 0, "oops", nil, nil, nil, fixedTime(), fixedTime())
	out := r.Serialize()
	assert.Equal(t, map[string]any{}, out["filters"])
	assert.Equal(t, "2025-06-01 09:30:00", *out["created_at"].(*string))
}
