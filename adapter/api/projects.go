package api

import (
	"net/http"

	projectCommands "github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	projectQueries "github.com/MohamedAbusurra/CS438class/internal/projects/application/queries"
	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	taskQueries "github.com/MohamedAbusurra/CS438class/internal/tasks/application/queries"
)

type createProjectRequest struct {
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	StartDate       *string `json:"start_date"`
	ExpectedEndDate *string `json:"expected_end_date"`
	Status          string  `json:"status"`
}

type addMilestoneRequest struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date"`
	Status      string  `json:"status"`
}

// listProjects handles GET /api/v1/projects
func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.ListProjects.Handle(r.Context()))
}

// createProject handles POST /api/v1/projects
func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	end, err := parseDate(req.ExpectedEndDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	actor := actorID(r)
	result, err := s.app.CreateProject.Handle(r.Context(), projectCommands.CreateProjectCommand{
		Name:            req.Name,
		Description:     req.Description,
		StartDate:       start,
		ExpectedEndDate: end,
		Status:          req.Status,
		CreatedBy:       &actor,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Project)
}

// getProject handles GET /api/v1/projects/{id}
func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	project, err := s.app.GetProject.Handle(r.Context(), projectQueries.GetProjectQuery{ProjectID: id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// updateProject handles PATCH /api/v1/projects/{id}
func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body patchBody
	if !decodeJSON(w, r, &body) {
		return
	}

	var update projectDomain.ProjectUpdate
	var err error
	if update.Name, err = optionalField[string](body, "name"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.Description, err = optionalField[string](body, "description"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.Status, err = optionalField[string](body, "status"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.StartDate, err = optionalDate(body, "start_date"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.ExpectedEndDate, err = optionalDate(body, "expected_end_date"); err != nil {
		s.respondError(w, r, err)
		return
	}

	project, err := s.app.UpdateProject.Handle(r.Context(), projectCommands.UpdateProjectCommand{ProjectID: id, Update: update})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// deleteProject handles DELETE /api/v1/projects/{id}
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.app.DeleteProject.Handle(r.Context(), projectCommands.DeleteProjectCommand{ProjectID: id}); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// projectProgress handles GET /api/v1/projects/{id}/progress
func (s *Server) projectProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	progress, err := s.app.ProjectProgress.Handle(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// projectTasks handles GET /api/v1/projects/{id}/tasks. Without filters it
// is the fail-soft project lookup; status, assigned_to and high narrow it.
func (s *Server) projectTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	q := r.URL.Query()
	if q.Get("status") == "" && q.Get("assigned_to") == "" && q.Get("high") == "" {
		writeJSON(w, http.StatusOK, s.app.ProjectLookups.GetTasks(r.Context(), id))
		return
	}

	assignee := q.Get("assigned_to")
	assignedTo, err := parseUUIDPtr("assigned_to", &assignee)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	tasks, err := s.app.ListTasks.Handle(r.Context(), taskQueries.ListTasksQuery{
		ProjectID:  id,
		Status:     q.Get("status"),
		AssignedTo: assignedTo,
		HighOnly:   parseBoolParam(r, "high", false),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// projectFiles handles GET /api/v1/projects/{id}/files
func (s *Server) projectFiles(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.app.ProjectLookups.GetFiles(r.Context(), id))
}

// projectReports handles GET /api/v1/projects/{id}/reports
func (s *Server) projectReports(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.app.ProjectLookups.GetReports(r.Context(), id))
}

// projectMilestones handles GET /api/v1/projects/{id}/milestones
func (s *Server) projectMilestones(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	milestones, err := s.app.Milestones.GetMilestones(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestones)
}

// activeMilestone handles GET /api/v1/projects/{id}/active-milestone.
// A project without an open milestone answers null.
func (s *Server) activeMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	milestone, err := s.app.Milestones.GetActiveMilestone(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

// addMilestone handles POST /api/v1/projects/{id}/milestones
func (s *Server) addMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req addMilestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	due, err := parseDate(req.DueDate)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	result, err := s.app.AddMilestone.Handle(r.Context(), projectCommands.AddMilestoneCommand{
		ProjectID:   id,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     due,
		Status:      req.Status,
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result.Milestone)
}

// updateMilestoneProgress handles POST /api/v1/projects/{id}/milestones/progress
func (s *Server) updateMilestoneProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	updated := s.app.UpdateMilestoneProgress.Handle(r.Context(), projectCommands.UpdateMilestoneProgressCommand{ProjectID: id})
	writeJSON(w, http.StatusOK, map[string]bool{"updated": updated})
}

// getMilestone handles GET /api/v1/milestones/{id}
func (s *Server) getMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	milestone, err := s.app.Milestones.GetMilestone(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

// milestoneTasks handles GET /api/v1/milestones/{id}/tasks
func (s *Server) milestoneTasks(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	tasks, err := s.app.Milestones.ListTasks(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// updateMilestone handles PATCH /api/v1/milestones/{id}
func (s *Server) updateMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var body patchBody
	if !decodeJSON(w, r, &body) {
		return
	}

	var update projectDomain.MilestoneUpdate
	var err error
	if update.Title, err = optionalField[string](body, "title"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.Description, err = optionalField[string](body, "description"); err != nil {
		s.respondError(w, r, err)
		return
	}
	if update.DueDate, err = optionalDate(body, "due_date"); err != nil {
		s.respondError(w, r, err)
		return
	}

	milestone, err := s.app.UpdateMilestone.Handle(r.Context(), projectCommands.UpdateMilestoneCommand{MilestoneID: id, Update: update})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, milestone)
}

// deleteMilestone handles DELETE /api/v1/milestones/{id}
func (s *Server) deleteMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	projectID, err := s.app.DeleteMilestone.Handle(r.Context(), projectCommands.DeleteMilestoneCommand{MilestoneID: id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"project_id": projectID.String()})
}

// recomputeMilestone handles POST /api/v1/milestones/{id}/recompute
func (s *Server) recomputeMilestone(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := s.app.RecomputeMilestone.Handle(r.Context(), projectCommands.RecomputeMilestoneCommand{MilestoneID: id})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Milestone)
}

type linkTaskRequest struct {
	MilestoneID *string `json:"milestone_id"`
}

// linkTask handles PUT /api/v1/tasks/{id}/milestone. A null milestone_id
// unlinks the task.
func (s *Server) linkTask(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req linkTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	milestoneID, err := parseUUIDPtr("milestone_id", req.MilestoneID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if err := s.app.LinkTask.Handle(r.Context(), projectCommands.LinkTaskCommand{TaskID: id, MilestoneID: milestoneID}); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
