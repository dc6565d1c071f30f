package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	identityDomain "github.com/MohamedAbusurra/CS438class/internal/identity/domain"
	"github.com/MohamedAbusurra/CS438class/internal/identity/infrastructure/security"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type sessionCtxKey struct{}

// CorrelationHeader lets callers continue a correlation id across services.
const CorrelationHeader = "X-Correlation-ID"

// requestContext carries chi's request id and the caller's correlation id
// into the context used by logs and published events.
func (s *Server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := observability.WithRequestID(r.Context(), middleware.GetReqID(r.Context()))
		ctx = observability.WithCorrelationID(ctx, r.Header.Get(CorrelationHeader))
		w.Header().Set(CorrelationHeader, observability.CorrelationIDFromContext(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requestLogger logs every request and records its duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		elapsed := time.Since(start)

		s.app.Metrics.Timing(observability.MetricHTTPRequestDuration, elapsed,
			observability.T("method", r.Method),
			observability.T("route", route),
			observability.T("status", strconv.Itoa(status)),
		)
		s.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", elapsed.Milliseconds(),
		)
	})
}

// authenticate verifies the bearer token and stores the session.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			writeError(w, ErrUnauthorized.Status, ErrUnauthorized.Message)
			return
		}
		session, err := s.app.Sessions.Verify(strings.TrimSpace(token))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		ctx := observability.WithUserID(r.Context(), session.UserID.String())
		ctx = context.WithValue(ctx, sessionCtxKey{}, session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireRole rejects sessions ranked below role.
func (s *Server) requireRole(role identityDomain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session := sessionFrom(r.Context())
			if session == nil {
				writeError(w, ErrUnauthorized.Status, ErrUnauthorized.Message)
				return
			}
			if !session.Role.AtLeast(role) {
				writeError(w, ErrForbidden.Status, "Requires role "+string(role)+" or higher")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func sessionFrom(ctx context.Context) *security.Session {
	session, _ := ctx.Value(sessionCtxKey{}).(*security.Session)
	return session
}
