package commands

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	projectDomain "github.com/MohamedAbusurra/CS438class/internal/projects/domain"
	projectPersistence "github.com/MohamedAbusurra/CS438class/internal/projects/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/reports/domain"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/pdf"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/validation"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/dbtest"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/lock"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	taskDomain "github.com/MohamedAbusurra/CS438class/internal/tasks/domain"
	taskPersistence "github.com/MohamedAbusurra/CS438class/internal/tasks/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

type mockReportRepo struct {
	mock.Mock
}

func (m *mockReportRepo) Save(ctx context.Context, r *domain.Report) error {
	return m.Called(ctx, r).Error(0)
}

func (m *mockReportRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Report), args.Error(1)
}

func (m *mockReportRepo) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Report, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Report), args.Error(1)
}

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockGuard struct {
	mock.Mock
}

func (m *mockGuard) EnsureExists(ctx context.Context, projectID uuid.UUID) error {
	return m.Called(ctx, projectID).Error(0)
}

type recordingPublisher struct {
	keys []string
}

func (p *recordingPublisher) PublishDomainEvent(_ context.Context, e sharedDomain.DomainEvent) error {
	p.keys = append(p.keys, e.RoutingKey())
	return nil
}

type txKey struct{}

func txContext() (context.Context, context.Context) {
	ctx := context.Background()
	return ctx, context.WithValue(ctx, txKey{}, "transaction")
}

func TestRequestReportHandler_Handle(t *testing.T) {
	validator, err := validation.NewFilterValidator()
	require.NoError(t, err)
	projectID := uuid.New()

	t.Run("stores pending report with default filters", func(t *testing.T) {
		repo, uow, guard, pub := new(mockReportRepo), new(mockUnitOfWork), new(mockGuard), &recordingPublisher{}
		ctx, txCtx := txContext()
		uow.On("Begin", ctx).Return(txCtx, nil)
		guard.On("EnsureExists", txCtx, projectID).Return(nil)
		repo.On("Save", txCtx, mock.AnythingOfType("*domain.Report")).Return(nil)
		uow.On("Commit", txCtx).Return(nil)

		result, err := NewRequestReportHandler(repo, guard, validator, uow, pub, nil).Handle(ctx, RequestReportCommand{ProjectID: projectID})
		require.NoError(t, err)

		assert.Equal(t, "pending", result.Report["status"])
		assert.Equal(t, map[string]any(domain.DefaultFilters()), result.Report["filters"])
		assert.Equal(t, []string{domain.RoutingKeyReportRequested}, pub.keys)
		repo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("invalid filters never reach the store", func(t *testing.T) {
		repo, uow, guard := new(mockReportRepo), new(mockUnitOfWork), new(mockGuard)
		_, err := NewRequestReportHandler(repo, guard, validator, uow, nil, nil).Handle(context.Background(), RequestReportCommand{
			ProjectID: projectID,
			Filters:   map[string]any{"format": "xls"},
		})
		assert.True(t, sharedDomain.IsValidation(err))
		uow.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("unknown project rolls back", func(t *testing.T) {
		repo, uow, guard := new(mockReportRepo), new(mockUnitOfWork), new(mockGuard)
		ctx, txCtx := txContext()
		uow.On("Begin", ctx).Return(txCtx, nil)
		guard.On("EnsureExists", txCtx, projectID).Return(projectDomain.ErrProjectNotFound)
		uow.On("Rollback", txCtx).Return(nil)

		_, err := NewRequestReportHandler(repo, guard, validator, uow, nil, nil).Handle(ctx, RequestReportCommand{ProjectID: projectID})
		assert.ErrorIs(t, err, projectDomain.ErrProjectNotFound)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

type staticUsers map[uuid.UUID]string

func (s staticUsers) Usernames(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string)
	for _, id := range ids {
		if name, ok := s[id]; ok {
			out[id] = name
		}
	}
	return out, nil
}

type failingRenderer struct{}

func (failingRenderer) Render(domain.PerformanceReport) ([]byte, error) {
	return nil, errors.New("font missing")
}

type generateFixture struct {
	conn      database.Connection
	reports   *persistence.ReportRepository
	blobs     *storage.LocalStore
	publisher *recordingPublisher
	metrics   *observability.InMemoryMetrics
	deps      GenerateReportDeps
	projectID uuid.UUID
}

func newGenerateFixture(t *testing.T) *generateFixture {
	t.Helper()
	ctx := context.Background()
	conn := dbtest.Open(t)
	blobs, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	projects := projectPersistence.NewProjectRepository(conn)
	project, err := projectDomain.NewProject("Apollo", "", nil, nil, "", nil)
	require.NoError(t, err)
	require.NoError(t, projects.Save(ctx, project))

	tasks := taskPersistence.NewTaskRepository(conn)
	alice := uuid.New()
	past := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, p := range []taskDomain.NewTaskParams{
		{Title: "Design", ProjectID: project.ID(), Status: "finished", AssignedTo: &alice},
		{Title: "Build", ProjectID: project.ID(), Status: "in_progress", DueDate: &past},
	} {
		task, err := taskDomain.NewTask(p)
		require.NoError(t, err)
		require.NoError(t, tasks.Save(ctx, task))
	}

	f := &generateFixture{
		conn:      conn,
		reports:   persistence.NewReportRepository(conn),
		blobs:     blobs,
		publisher: &recordingPublisher{},
		metrics:   observability.NewInMemoryMetrics(),
		projectID: project.ID(),
	}
	f.deps = GenerateReportDeps{
		Reports:   f.reports,
		Projects:  projects,
		Tasks:     tasks,
		Users:     staticUsers{alice: "alice"},
		Renderer:  pdf.NewRenderer(),
		Blobs:     blobs,
		Locker:    lock.NewMemoryLocker(),
		Clock:     sharedDomain.FixedClock{At: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)},
		Publisher: f.publisher,
		Metrics:   f.metrics,
		Logger:    observability.DiscardLogger(),
	}
	return f
}

func (f *generateFixture) pendingReport(t *testing.T) *domain.Report {
	t.Helper()
	r, err := domain.NewReport(f.projectID, "", nil, nil)
	require.NoError(t, err)
	r.ClearDomainEvents()
	require.NoError(t, f.reports.Save(context.Background(), r))
	return r
}

func TestGenerateReportHandler_Handle(t *testing.T) {
	ctx := context.Background()

	t.Run("renders and stores the pdf", func(t *testing.T) {
		f := newGenerateFixture(t)
		report := f.pendingReport(t)

		result, err := NewGenerateReportHandler(f.deps).Handle(ctx, GenerateReportCommand{ReportID: report.ID()})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, result.Status)

		stored, err := f.reports.FindByID(ctx, report.ID())
		require.NoError(t, err)
		assert.Equal(t, 100, stored.Progress())
		require.NotNil(t, stored.CompletedAt())
		assert.Equal(t, "2025-06-01 09:00:00", *stored.GetStatus()["completed_at"].(*string), "stamped by the injected clock")
		require.NotNil(t, stored.FilePath())
		assert.Equal(t, StorageKey(f.projectID, report.ID()), *stored.FilePath())

		rc, err := f.blobs.Open(ctx, *stored.FilePath())
		require.NoError(t, err)
		defer rc.Close()
		head := make([]byte, 5)
		_, err = io.ReadFull(rc, head)
		require.NoError(t, err)
		assert.Equal(t, "%PDF-", string(head))

		assert.Equal(t, []string{domain.RoutingKeyReportCompleted}, f.publisher.keys)
		assert.Equal(t, int64(1), f.metrics.CounterValue(observability.MetricReportsGenerated, observability.T("status", "completed")))
	})

	t.Run("render failure marks the report failed", func(t *testing.T) {
		f := newGenerateFixture(t)
		report := f.pendingReport(t)
		f.deps.Renderer = failingRenderer{}

		result, err := NewGenerateReportHandler(f.deps).Handle(ctx, GenerateReportCommand{ReportID: report.ID()})
		require.Error(t, err)
		require.NotNil(t, result)
		assert.Equal(t, domain.StatusFailed, result.Status)

		stored, err := f.reports.FindByID(ctx, report.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusFailed, stored.Status())
		assert.Equal(t, 40, stored.Progress())
		require.NotNil(t, stored.CompletedAt())
		assert.Equal(t, "2025-06-01 09:00:00", *stored.GetStatus()["completed_at"].(*string))
		assert.Nil(t, stored.GetStatus()["file_path"])

		assert.Equal(t, []string{domain.RoutingKeyReportFailed}, f.publisher.keys)
		assert.Equal(t, int64(1), f.metrics.CounterValue(observability.MetricReportsGenerated, observability.T("status", "failed")))
	})

	t.Run("held lock skips", func(t *testing.T) {
		f := newGenerateFixture(t)
		report := f.pendingReport(t)
		locker := lock.NewMemoryLocker()
		_, ok := locker.TryAcquire(ctx, "report:"+report.ID().String(), time.Minute)
		require.True(t, ok)
		f.deps.Locker = locker

		result, err := NewGenerateReportHandler(f.deps).Handle(ctx, GenerateReportCommand{ReportID: report.ID()})
		require.NoError(t, err)
		assert.True(t, result.Skipped)

		stored, err := f.reports.FindByID(ctx, report.ID())
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, stored.Status())
	})

	t.Run("finished report is not regenerated", func(t *testing.T) {
		f := newGenerateFixture(t)
		report := f.pendingReport(t)
		handler := NewGenerateReportHandler(f.deps)
		_, err := handler.Handle(ctx, GenerateReportCommand{ReportID: report.ID()})
		require.NoError(t, err)

		again, err := handler.Handle(ctx, GenerateReportCommand{ReportID: report.ID()})
		require.NoError(t, err)
		assert.True(t, again.Skipped)
		assert.Len(t, f.publisher.keys, 1)
	})

	t.Run("unknown report", func(t *testing.T) {
		f := newGenerateFixture(t)
		_, err := NewGenerateReportHandler(f.deps).Handle(ctx, GenerateReportCommand{ReportID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})
}
