package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	commDomain "github.com/MohamedAbusurra/CS438class/internal/communication/domain"
	fileDomain "github.com/MohamedAbusurra/CS438class/internal/files/domain"
	identityDomain "github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	reportDomain "github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
)

// maxJSONBody caps request bodies that are not file uploads.
const maxJSONBody = 1 << 20

var notFoundErrors = []error{
	taskDomain.ErrTaskNotFound,
	projectDomain.ErrProjectNotFound,
	projectDomain.ErrMilestoneNotFound,
	reportDomain.ErrReportNotFound,
	fileDomain.ErrFileNotFound,
	commDomain.ErrMessageNotFound,
	commDomain.ErrNotificationNotFound,
	identityDomain.ErrUserNotFound,
}

// respondError maps a handler error onto a status code. Unexpected errors
// are logged and hidden behind a generic message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *sharedDomain.ValidationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error":   http.StatusText(http.StatusBadRequest),
			"field":   verr.Field,
			"message": verr.Message,
		})
		return
	}
	for _, target := range notFoundErrors {
		if errors.Is(err, target) {
			writeError(w, http.StatusNotFound, target.Error())
			return
		}
	}
	switch {
	case errors.Is(err, identityDomain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, identityDomain.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, identityDomain.ErrUserExists),
		errors.Is(err, reportDomain.ErrReportNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, identityDomain.ErrTokenInvalid),
		errors.Is(err, projectDomain.ErrMilestoneProjectMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, ErrInternalServer.Status, ErrInternalServer.Message)
	}
}

// pathID parses a uuid path parameter, answering 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name+": expected a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(v); err != nil {
		writeError(w, ErrBadRequest.Status, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func parseBoolParam(r *http.Request, name string, defaultVal bool) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(name))
	if err != nil {
		return defaultVal
	}
	return v
}

func parseIntParam(r *http.Request, name string, defaultVal int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return defaultVal
	}
	return v
}

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := sharedDomain.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseDateTime parses an optional timestamp, RFC 3339 or
// YYYY-MM-DD HH:MM:SS.
func parseDateTime(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := sharedDomain.ParseDateTime(*s)
	if err != nil {
		return nil, sharedDomain.NewValidationError(field, "invalid datetime %q, expected RFC 3339 or YYYY-MM-DD HH:MM:SS", *s)
	}
	return &t, nil
}

func parseUUIDPtr(field string, s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, sharedDomain.NewValidationError(field, "invalid UUID %q", *s)
	}
	return &id, nil
}

// patchBody keeps the raw fields of a PATCH request so absent keys can be
// told apart from explicit nulls.
type patchBody map[string]json.RawMessage

func optionalField[T any](body patchBody, key string) (sharedDomain.Optional[T], error) {
	raw, ok := body[key]
	if !ok {
		return sharedDomain.Optional[T]{}, nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return sharedDomain.Optional[T]{}, sharedDomain.NewValidationError(key, "invalid value")
	}
	return sharedDomain.FromPtr(v), nil
}

func optionalDate(body patchBody, key string) (sharedDomain.Optional[time.Time], error) {
	s, err := optionalField[string](body, key)
	if err != nil || !s.IsSet() {
		return sharedDomain.Optional[time.Time]{}, err
	}
	t, err := parseDate(s.Ptr())
	if err != nil {
		return sharedDomain.Optional[time.Time]{}, sharedDomain.NewValidationError(key, "invalid date, expected YYYY-MM-DD")
	}
	return sharedDomain.FromPtr(t), nil
}

func optionalDateTime(body patchBody, key string) (sharedDomain.Optional[time.Time], error) {
	s, err := optionalField[string](body, key)
	if err != nil || !s.IsSet() {
		return sharedDomain.Optional[time.Time]{}, err
	}
	t, err := parseDateTime(key, s.Ptr())
	if err != nil {
		return sharedDomain.Optional[time.Time]{}, err
	}
	return sharedDomain.FromPtr(t), nil
}

func optionalUUID(body patchBody, key string) (sharedDomain.Optional[uuid.UUID], error) {
	s, err := optionalField[string](body, key)
	if err != nil || !s.IsSet() {
		return sharedDomain.Optional[uuid.UUID]{}, err
	}
	id, err := parseUUIDPtr(key, s.Ptr())
	if err != nil {
		return sharedDomain.Optional[uuid.UUID]{}, err
	}
	return sharedDomain.FromPtr(id), nil
}

// actorID returns the authenticated user's id.
func actorID(r *http.Request) uuid.UUID {
	if session := sessionFrom(r.Context()); session != nil {
		return session.UserID
	}
	return uuid.Nil
}
