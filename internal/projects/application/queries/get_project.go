package queries

import (
	"context"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	"github.com/google/uuid"
)

// GetProjectQuery contains the parameters for getting a project.
type GetProjectQuery struct {
	ProjectID uuid.UUID
}

// GetProjectHandler handles the GetProjectQuery.
type GetProjectHandler struct {
	projectRepo domain.ProjectRepository
}

// NewGetProjectHandler creates a new GetProjectHandler.
func NewGetProjectHandler(projectRepo domain.ProjectRepository) *GetProjectHandler {
	return &GetProjectHandler{projectRepo: projectRepo}
}

// Handle executes the GetProjectQuery.
func (h *GetProjectHandler) Handle(ctx context.Context, q GetProjectQuery) (map[string]any, error) {
	project, err := h.projectRepo.FindByID(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}
	return project.Serialize(), nil
}

// ListProjectsHandler lists every project. Like the other project read
// accessors it never fails: lookup errors are logged and yield an empty
// list.
type ListProjectsHandler struct {
	projectRepo domain.ProjectRepository
	logger      *slog.Logger
}

// NewListProjectsHandler creates a new ListProjectsHandler.
func NewListProjectsHandler(projectRepo domain.ProjectRepository, logger *slog.Logger) *ListProjectsHandler {
	return &ListProjectsHandler{projectRepo: projectRepo, logger: logger}
}

// Handle returns serialized projects, newest first.
func (h *ListProjectsHandler) Handle(ctx context.Context) []map[string]any {
	projects, err := h.projectRepo.FindAll(ctx)
	if err != nil {
		logReadFailure(ctx, h.logger, "projects", uuid.Nil, err)
		return []map[string]any{}
	}
	out := make([]map[string]any, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Serialize())
	}
	return out
}

func logReadFailure(ctx context.Context, logger *slog.Logger, what string, projectID uuid.UUID, err error) {
	if logger == nil {
		return
	}
	logger.WarnContext(ctx, "project lookup failed, returning empty list",
		"lookup", what,
		"project_id", projectID,
		"error", err,
	)
}
