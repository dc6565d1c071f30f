package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

func TestFilterValidator_Validate(t *testing.T) {
	v, err := NewFilterValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		filters domain.Filters
		wantErr bool
	}{
		{"nil", nil, false},
		{"defaults", domain.DefaultFilters(), false},
		{"unknown keys allowed", domain.Filters{"sections": []any{"a"}, "date_range": "q1"}, false},
		{"flag must be bool", domain.Filters{domain.FilterIncludeContributions: "yes"}, true},
		{"unsupported format", domain.Filters{domain.FilterFormat: "docx"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.filters)
			if tt.wantErr {
				assert.True(t, sharedDomain.IsValidation(err), "got %v", err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
