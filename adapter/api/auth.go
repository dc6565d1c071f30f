package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	identityCommands "github.com/MohamedAbusurra/CS438class/internal/identity/application/commands"
	identityDomain "github.com/MohamedAbusurra/CS438class/internal/identity/domain"
)

type registerRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type issueTokenRequest struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type consumeTokenRequest struct {
	Token       string `json:"token"`
	Type        string `json:"type"`
	NewPassword string `json:"new_password"`
}

type assignRoleRequest struct {
	Role string `json:"role"`
}

// register handles POST /api/v1/auth/register. Self-registered accounts
// are always team members; roles are raised with PUT /users/{id}/role.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.app.RegisterUser.Handle(r.Context(), identityCommands.RegisterUserCommand{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Password:  req.Password,
		Role:      string(identityDomain.RoleTeamMember),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user.Serialize())
}

// login handles POST /api/v1/auth/login
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	result, err := s.app.Login.Handle(r.Context(), identityCommands.LoginCommand{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":      result.Token,
		"token_type": "Bearer",
		"expires_at": result.ExpiresAt.UTC().Format(time.RFC3339),
		"user":       result.User.Serialize(),
	})
}

// issueAuthToken handles POST /api/v1/auth/tokens. Users issue tokens for
// themselves; issuing for someone else needs user-management rights.
func (s *Server) issueAuthToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	session := sessionFrom(r.Context())
	target := session.UserID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id: expected a UUID")
			return
		}
		target = id
	}
	if target != session.UserID && !session.Role.AtLeast(identityDomain.RoleSupervisor) {
		s.respondError(w, r, identityDomain.ErrPermissionDenied)
		return
	}

	token, err := s.app.IssueAuthToken.Handle(r.Context(), identityCommands.IssueAuthTokenCommand{
		UserID: target,
		Type:   req.Type,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"token":      token.Value(),
		"type":       string(token.Type()),
		"user_id":    token.UserID().String(),
		"expires_at": token.ExpiresAt().UTC().Format(time.RFC3339),
	})
}

// consumeAuthToken handles POST /api/v1/auth/tokens/consume
func (s *Server) consumeAuthToken(w http.ResponseWriter, r *http.Request) {
	var req consumeTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.app.ConsumeAuthToken.Handle(r.Context(), identityCommands.ConsumeAuthTokenCommand{
		Value:       req.Token,
		Type:        req.Type,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Serialize())
}

// assignRole handles PUT /api/v1/users/{id}/role
func (s *Server) assignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req assignRoleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.app.AssignRole.Handle(r.Context(), identityCommands.AssignRoleCommand{
		ActorID: actorID(r),
		UserID:  id,
		Role:    req.Role,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Serialize())
}
