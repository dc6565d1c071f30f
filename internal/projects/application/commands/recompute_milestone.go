package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
	"github.com/google/uuid"
)

// RecomputeMilestoneCommand asks for a fresh completion figure.
type RecomputeMilestoneCommand struct {
	MilestoneID uuid.UUID
}

// RecomputeMilestoneResult reports the recomputed state.
type RecomputeMilestoneResult struct {
	MilestoneID          uuid.UUID
	CompletionPercentage float64
	Status               domain.MilestoneStatus
	Milestone            map[string]any
}

// RecomputeMilestoneHandler handles the RecomputeMilestoneCommand.
type RecomputeMilestoneHandler struct {
	recomputer *milestoneRecomputer
	uow        sharedApplication.UnitOfWork
	publisher  sharedApplication.EventPublisher
	logger     *slog.Logger
}

// NewRecomputeMilestoneHandler creates a new RecomputeMilestoneHandler.
func NewRecomputeMilestoneHandler(
	milestoneRepo domain.MilestoneRepository,
	taskRepo taskDomain.Repository,
	uow sharedApplication.UnitOfWork,
	clock sharedDomain.Clock,
	publisher sharedApplication.EventPublisher,
	metrics observability.Metrics,
	logger *slog.Logger,
) *RecomputeMilestoneHandler {
	return &RecomputeMilestoneHandler{
		recomputer: newMilestoneRecomputer(milestoneRepo, taskRepo, clock, metrics),
		uow:        uow,
		publisher:  publisher,
		logger:     logger,
	}
}

// Handle loads the milestone's current tasks, recomputes and persists.
func (h *RecomputeMilestoneHandler) Handle(ctx context.Context, cmd RecomputeMilestoneCommand) (*RecomputeMilestoneResult, error) {
	var milestone *domain.Milestone
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		var err error
		milestone, err = h.recomputer.load(txCtx, cmd.MilestoneID)
		if err != nil {
			return err
		}
		return h.recomputer.recompute(txCtx, milestone)
	})
	if err != nil {
		return nil, err
	}

	sharedApplication.PublishEvents(ctx, h.publisher, h.logger, milestone)
	return &RecomputeMilestoneResult{
		MilestoneID:          milestone.ID(),
		CompletionPercentage: milestone.CompletionPercentage(),
		Status:               milestone.Status(),
		Milestone:            milestone.Serialize(),
	}, nil
}

type milestoneRecomputer struct {
	milestoneRepo domain.MilestoneRepository
	taskRepo      taskDomain.Repository
	clock         sharedDomain.Clock
	metrics       observability.Metrics
}

func newMilestoneRecomputer(
	milestoneRepo domain.MilestoneRepository,
	taskRepo taskDomain.Repository,
	clock sharedDomain.Clock,
	metrics observability.Metrics,
) *milestoneRecomputer {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &milestoneRecomputer{milestoneRepo: milestoneRepo, taskRepo: taskRepo, clock: clock, metrics: metrics}
}

func (r *milestoneRecomputer) load(ctx context.Context, id uuid.UUID) (*domain.Milestone, error) {
	return r.milestoneRepo.FindByID(ctx, id)
}

func (r *milestoneRecomputer) recompute(ctx context.Context, m *domain.Milestone) error {
	tasks, err := r.taskRepo.FindByMilestone(ctx, m.ID())
	if err != nil {
		return fmt.Errorf("failed to load milestone tasks: %w", err)
	}
	m.AttachTasks(tasks)
	m.RecomputeCompletion(r.clock.Now())
	if err := r.milestoneRepo.Save(ctx, m); err != nil {
		return err
	}
	r.metrics.Counter(observability.MetricMilestonesRecomputed, 1, observability.T("status", string(m.Status())))
	return nil
}
