package api

import (
	"net/http"

	taskCommands "github.com/MohamedAbusurra/CS438class/internal/tasks/application/commands"
	taskQueries "github.com/MohamedAbusurra/CS438class/internal/tasks/application/queries"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
)

type createTaskRequest struct {
	Title             string  `json:"title"`
	Description       *string `json:"description"`
	Importance        string  `json:"importance"`
	Status            string  `json:"status"`
	DueDate           *string `json:"due_date"`
	MilestoneID       *string `json:"milestone_id"`
	AssignedTo        *string `json:"assigned_to"`
	EstimatedDuration *int    `json:"estimated_duration"`
	StartDate         *string `json:"start_date"`
	ActualStart       *string `json:"actual_start"`
	ActualEnd         *string `json:"actual_end"`
}

// createTask handles POST /api/v1/projects/{id}/tasks
func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req createTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor := actorID(r)
	cmd := taskCommands.CreateTaskCommand{
		Title:             req.Title,
		ProjectID:         projectID,
		Description:       req.Description,
		Importance:        req.Importance,
		Status:            req.Status,
		CreatedBy:         &actor,
		EstimatedDuration: req.EstimatedDuration,
	}
	var err error
	if cmd.DueDate, err = parseDate(req.DueDate); err != nil {
		s.respondError(w, r, err)
		return
	}
	if cmd.StartDate, err = parseDate(req.StartDate); err != nil {
		s.respondError(w, r, err)
		return
	}
	if cmd.ActualStart, err = parseDateTime("actual_start", req.ActualStart); err != nil {
		s.respondError(w, r, err)
		return
	}
	if cmd.ActualEnd, err = parseDateTime("actual_end", req.ActualEnd); err != nil {
		s.respondError(w, r, err)
		return
	}
	if cmd.MilestoneID, err = parseUUIDPtr("milestone_id", req.MilestoneID); err != nil {
		s.respondError(w, r, err)
		return
	}
	if cmd.AssignedTo, err = parseUUIDPtr("assigned_to", req.AssignedTo); err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.app.CreateTask.Handle(r.Context(), cmd)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Task)
}

// getTask handles GET /api/v1/tasks/{id}
func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	task, err := s.app.GetTask.Handle(r.Context(), taskQueries.GetTaskQuery{TaskID: id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// updateTask handles PATCH /api/v1/tasks/{id}. Only supplied keys change;
// an explicit null clears a nullable field.
func (s *Server) updateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body patchBody
	if !decodeJSON(w, r, &body) {
		return
	}
	update, err := taskUpdateFrom(body)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.app.UpdateTask.Handle(r.Context(), taskCommands.UpdateTaskCommand{TaskID: id, Update: update})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updated_fields": result.Fields,
		"task":           result.Task,
	})
}

func taskUpdateFrom(body patchBody) (taskDomain.Update, error) {
	var u taskDomain.Update
	var err error
	if u.Title, err = optionalField[string](body, "title"); err != nil {
		return u, err
	}
	if u.Description, err = optionalField[string](body, "description"); err != nil {
		return u, err
	}
	if u.Importance, err = optionalField[string](body, "importance"); err != nil {
		return u, err
	}
	if u.Status, err = optionalField[string](body, "status"); err != nil {
		return u, err
	}
	if u.EstimatedDuration, err = optionalField[int](body, "estimated_duration"); err != nil {
		return u, err
	}
	if u.DueDate, err = optionalDate(body, "due_date"); err != nil {
		return u, err
	}
	if u.StartDate, err = optionalDate(body, "start_date"); err != nil {
		return u, err
	}
	if u.ActualStart, err = optionalDateTime(body, "actual_start"); err != nil {
		return u, err
	}
	if u.ActualEnd, err = optionalDateTime(body, "actual_end"); err != nil {
		return u, err
	}
	if u.MilestoneID, err = optionalUUID(body, "milestone_id"); err != nil {
		return u, err
	}
	if u.AssignedTo, err = optionalUUID(body, "assigned_to"); err != nil {
		return u, err
	}
	return u, nil
}

// deleteTask handles DELETE /api/v1/tasks/{id}
func (s *Server) deleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	projectID, err := s.app.DeleteTask.Handle(r.Context(), taskCommands.DeleteTaskCommand{TaskID: id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"project_id": projectID.String()})
}
