package mcp

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
)

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := sharedDomain.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return &parsed, nil
}

func parseUUID(value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.UUID{}, errors.New("id is required")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid id: %w", err)
	}
	return id, nil
}

func parseOptionalUUID(value string) (*uuid.UUID, error) {
	if value == "" {
		return nil, nil
	}
	id, err := parseUUID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalString maps a nullable tool argument onto an update field: nil
// leaves it alone and "" clears it.
func optionalString(v *string) sharedDomain.Optional[string] {
	switch {
	case v == nil:
		return sharedDomain.Optional[string]{}
	case *v == "":
		return sharedDomain.Clear[string]()
	default:
		return sharedDomain.Some(*v)
	}
}

func optionalDate(v *string) (sharedDomain.Optional[time.Time], error) {
	if v == nil {
		return sharedDomain.Optional[time.Time]{}, nil
	}
	t, err := parseDate(*v)
	if err != nil {
		return sharedDomain.Optional[time.Time]{}, err
	}
	return sharedDomain.FromPtr(t), nil
}

func optionalUUID(v *string) (sharedDomain.Optional[uuid.UUID], error) {
	if v == nil {
		return sharedDomain.Optional[uuid.UUID]{}, nil
	}
	id, err := parseOptionalUUID(*v)
	if err != nil {
		return sharedDomain.Optional[uuid.UUID]{}, err
	}
	return sharedDomain.FromPtr(id), nil
}
