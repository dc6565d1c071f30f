package api

import (
	"net/http"

	"github.com/google/uuid"

	commDomain "github.com/MohamedAbusurra/CS438class/internal/communication/domain"
)

type sendMessageRequest struct {
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	ProjectID  *string `json:"project_id"`
}

func serializeMessages(messages []*commDomain.Message) []map[string]any {
	out := make([]map[string]any, 0, len(messages))
	for _, m := range messages {
		out = append(out, m.Serialize())
	}
	return out
}

func serializeNotifications(notifications []*commDomain.Notification) []map[string]any {
	out := make([]map[string]any, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, n.Serialize())
	}
	return out
}

// sendMessage handles POST /api/v1/messages
func (s *Server) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	receiver, err := uuid.Parse(req.ReceiverID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid receiver_id: expected a UUID")
		return
	}
	projectID, err := parseUUIDPtr("project_id", req.ProjectID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	msg, err := s.app.Messages.SendDirectMessage(r.Context(), actorID(r), receiver, req.Content, projectID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg.Serialize())
}

// unreadMessages handles GET /api/v1/messages/unread
func (s *Server) unreadMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serializeMessages(s.app.Messages.GetUnreadMessages(r.Context(), actorID(r))))
}

// conversation handles GET /api/v1/messages/conversation/{userID}?project_id=
func (s *Server) conversation(w http.ResponseWriter, r *http.Request) {
	other, ok := pathID(w, r, "userID")
	if !ok {
		return
	}
	project := r.URL.Query().Get("project_id")
	projectID, err := parseUUIDPtr("project_id", &project)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	messages := s.app.Messages.GetConversation(r.Context(), actorID(r), other, projectID)
	writeJSON(w, http.StatusOK, serializeMessages(messages))
}

// markMessageRead handles POST /api/v1/messages/{id}/read. Only the
// receiver can mark a message read.
func (s *Server) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !s.app.Messages.MarkMessageRead(r.Context(), id, actorID(r)) {
		writeError(w, http.StatusNotFound, commDomain.ErrMessageNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// listNotifications handles GET /api/v1/notifications?include_read=&limit=
func (s *Server) listNotifications(w http.ResponseWriter, r *http.Request) {
	notifications := s.app.Notifications.GetUserNotifications(r.Context(), actorID(r),
		parseBoolParam(r, "include_read", false),
		parseIntParam(r, "limit", 0),
	)
	writeJSON(w, http.StatusOK, serializeNotifications(notifications))
}

// unreadNotifications handles GET /api/v1/notifications/unread
func (s *Server) unreadNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, serializeNotifications(s.app.Notifications.GetUnreadNotifications(r.Context(), actorID(r))))
}

// markNotificationRead handles POST /api/v1/notifications/{id}/read
func (s *Server) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if !s.app.Notifications.MarkNotificationRead(r.Context(), id, actorID(r)) {
		writeError(w, http.StatusNotFound, commDomain.ErrNotificationNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// markAllNotificationsRead handles POST /api/v1/notifications/read-all
func (s *Server) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	count := s.app.Notifications.MarkAllRead(r.Context(), actorID(r))
	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}
