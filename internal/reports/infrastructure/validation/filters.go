// Package validation checks report filters against an embedded JSON schema.
package validation

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

//go:embed filters.schema.json
var filtersSchema []byte

// FilterValidator validates filter maps. Known keys must have the right
// type; unknown keys pass through.
type FilterValidator struct {
	schema *gojsonschema.Schema
}

// NewFilterValidator compiles the embedded schema.
func NewFilterValidator() (*FilterValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(filtersSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to load filter schema: %w", err)
	}
	return &FilterValidator{schema: schema}, nil
}

// Validate returns a ValidationError listing every schema violation.
func (v *FilterValidator) Validate(filters domain.Filters) error {
	if filters == nil {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(map[string]any(filters)))
	if err != nil {
		return fmt.Errorf("failed to validate filters: %w", err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return sharedDomain.NewValidationError("filters", "%s", strings.Join(problems, "; "))
}
