// Package app wires repositories, handlers and infrastructure into one
// Container built at process start.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	commApp "github.com/MohamedAbusurra/CS438class/internal/communication/application/services"
	commSubs "github.com/MohamedAbusurra/CS438class/internal/communication/application/subscribers"
	commPersistence "github.com/MohamedAbusurra/CS438class/internal/communication/infrastructure/persistence"
	fileCommands "github.com/MohamedAbusurra/CS438class/internal/files/application/commands"
	fileQueries "github.com/MohamedAbusurra/CS438class/internal/files/application/queries"
	filePersistence "github.com/MohamedAbusurra/CS438class/internal/files/infrastructure/persistence"
	identityCommands "github.com/MohamedAbusurra/CS438class/internal/identity/application/commands"
	identityPersistence "github.com/MohamedAbusurra/CS438class/internal/identity/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/identity/infrastructure/security"
	projectCommands "github.com/MohamedAbusurra/CS438class/internal/projects/application/commands"
	projectQueries "github.com/MohamedAbusurra/CS438class/internal/projects/application/queries"
	projectPersistence "github.com/MohamedAbusurra/CS438class/internal/projects/infrastructure/persistence"
	reportCommands "github.com/MohamedAbusurra/CS438class/internal/reports/application/commands"
	reportQueries "github.com/MohamedAbusurra/CS438class/internal/reports/application/queries"
	reportSubs "github.com/MohamedAbusurra/CS438class/internal/reports/application/subscribers"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/pdf"
	reportPersistence "github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/internal/reports/infrastructure/validation"
	sharedApplication "github.com/MohamedAbusurra/CS438class/internal/shared/application"
	sharedDomain "github.com/MohamedAbusurra/CS438class/internal/shared/domain"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database"
	_ "github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/postgres" // Register Postgres driver
	_ "github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/eventbus"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/lock"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/migrations"
	"github.com/MohamedAbusurra/CS438class/internal/shared/infrastructure/storage"
	taskCommands "github.com/MohamedAbusurra/CS438class/internal/tasks/application/commands"
	taskQueries "github.com/MohamedAbusurra/CS438class/internal/tasks/application/queries"
	taskPersistence "github.com/MohamedAbusurra/CS438class/internal/tasks/infrastructure/persistence"
	"github.com/MohamedAbusurra/CS438class/pkg/config"
	"github.com/MohamedAbusurra/CS438class/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Clock  sharedDomain.Clock

	// Observability
	Metrics    observability.Metrics
	Prometheus *observability.PrometheusMetrics
	Health     *observability.HealthRegistry

	// Infrastructure
	DB          database.Connection
	RedisClient *redis.Client
	UnitOfWork  sharedApplication.UnitOfWork
	Blobs       storage.BlobStore
	Locker      lock.Locker
	Sessions    *security.JWTService

	// Events. Bus is set in local mode, where subscribers run in-process;
	// otherwise events go to RabbitMQ and cmd/worker consumes them.
	EventPublisher  eventbus.Publisher
	DomainPublisher *eventbus.DomainEventPublisher
	Bus             *eventbus.InProcessEventBus

	// Repositories
	ProjectRepo      *projectPersistence.ProjectRepository
	MilestoneRepo    *projectPersistence.MilestoneRepository
	TaskRepo         *taskPersistence.TaskRepository
	ReportRepo       *reportPersistence.ReportRepository
	FileRepo         *filePersistence.FileRepository
	UserRepo         *identityPersistence.UserRepository
	TokenRepo        *identityPersistence.TokenRepository
	MessageRepo      *commPersistence.MessageRepository
	NotificationRepo *commPersistence.NotificationRepository

	// Project handlers
	CreateProject           *projectCommands.CreateProjectHandler
	UpdateProject           *projectCommands.UpdateProjectHandler
	DeleteProject           *projectCommands.DeleteProjectHandler
	AddMilestone            *projectCommands.AddMilestoneHandler
	UpdateMilestone         *projectCommands.UpdateMilestoneHandler
	DeleteMilestone         *projectCommands.DeleteMilestoneHandler
	RecomputeMilestone      *projectCommands.RecomputeMilestoneHandler
	UpdateMilestoneProgress *projectCommands.UpdateMilestoneProgressHandler
	LinkTask                *projectCommands.LinkTaskHandler
	GetProject              *projectQueries.GetProjectHandler
	ListProjects            *projectQueries.ListProjectsHandler
	ProjectProgress         *projectQueries.ProjectProgressHandler
	ProjectLookups          *projectQueries.ProjectLookups
	Milestones              *projectQueries.MilestoneQueries

	// Task handlers
	CreateTask *taskCommands.CreateTaskHandler
	UpdateTask *taskCommands.UpdateTaskHandler
	DeleteTask *taskCommands.DeleteTaskHandler
	GetTask    *taskQueries.GetTaskHandler
	ListTasks  *taskQueries.ListTasksHandler

	// Report handlers
	RequestReport  *reportCommands.RequestReportHandler
	GenerateReport *reportCommands.GenerateReportHandler
	Reports        *reportQueries.ReportQueries

	// File handlers
	UploadFile        *fileCommands.UploadFileHandler
	UploadFileVersion *fileCommands.UploadNewVersionHandler
	DeleteFile        *fileCommands.DeleteFileHandler
	Files             *fileQueries.FileQueries

	// Identity handlers
	RegisterUser     *identityCommands.RegisterUserHandler
	Login            *identityCommands.LoginHandler
	AssignRole       *identityCommands.AssignRoleHandler
	IssueAuthToken   *identityCommands.IssueAuthTokenHandler
	ConsumeAuthToken *identityCommands.ConsumeAuthTokenHandler

	// Communication
	Messages      *commApp.MessageService
	Notifications *commApp.NotificationService

	// Event subscribers
	ReportSubscriber       *reportSubs.GenerationSubscriber
	NotificationSubscriber *commSubs.NotificationSubscriber
}

// NewContainer creates and wires all dependencies. SQLite databases are
// migrated on open; Postgres is migrated with `cmt migrate`.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	prom := observability.NewPrometheusMetrics()
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Clock:      sharedDomain.SystemClock{},
		Metrics:    prom,
		Prometheus: prom,
		Health:     observability.NewHealthRegistry(),
	}

	steps := []func(context.Context) error{
		c.openDatabase,
		c.connectRedis,
		c.openStorage,
		c.connectEvents,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			_ = c.Close()
			return nil, err
		}
	}

	if err := c.wire(); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) openDatabase(ctx context.Context) error {
	dbCfg := database.Config{URL: c.Config.DatabaseURL, MaxConns: c.Config.DBMaxConns}
	if c.Config.DatabaseURL == "" {
		dbCfg.Driver = database.DriverSQLite
		dbCfg.SQLitePath = c.Config.SQLitePath
		if dbCfg.SQLitePath == "" {
			dbCfg.SQLitePath = database.DefaultSQLitePath()
		}
	}
	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.DB = conn
	c.UnitOfWork = database.NewUnitOfWork(conn)
	c.Health.Register("database", observability.PingChecker(conn.Ping, false))
	c.Logger.Info("connected to database", "driver", conn.Driver().String())

	if conn.Driver() == database.DriverSQLite {
		if _, err := c.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Migrate applies pending migrations and returns their versions.
func (c *Container) Migrate(ctx context.Context) ([]string, error) {
	applied, err := migrations.Run(ctx, c.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if len(applied) > 0 {
		c.Logger.Info("applied migrations", "versions", applied)
	}
	return applied, nil
}

// connectRedis is optional in development: without Redis the report lock
// is process-local.
func (c *Container) connectRedis(ctx context.Context) error {
	c.Locker = lock.NewMemoryLocker()
	if c.Config.RedisURL == "" {
		return nil
	}
	opt, err := redis.ParseURL(c.Config.RedisURL)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to parse Redis URL: %w", err)
		}
		c.Logger.Warn("invalid Redis URL, report locks stay in memory", "error", err)
		return nil
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
		c.Logger.Warn("Redis not available, report locks stay in memory", "error", err)
		return nil
	}
	c.RedisClient = client
	c.Locker = lock.NewRedisLocker(client, c.Logger)
	c.Health.Register("redis", observability.PingChecker(func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}, true))
	c.Logger.Info("connected to Redis")
	return nil
}

func (c *Container) openStorage(ctx context.Context) error {
	switch c.Config.StorageBackend {
	case "s3":
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Bucket:          c.Config.S3Bucket,
			Region:          c.Config.S3Region,
			Endpoint:        c.Config.S3Endpoint,
			AccessKeyID:     c.Config.S3AccessKeyID,
			SecretAccessKey: c.Config.S3SecretAccessKey,
		}, c.Logger)
		if err != nil {
			return fmt.Errorf("failed to configure S3 storage: %w", err)
		}
		c.Blobs = store
	case "", "local":
		store, err := storage.NewLocalStore(c.Config.StorageDir)
		if err != nil {
			return fmt.Errorf("failed to open local storage: %w", err)
		}
		c.Blobs = store
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Config.StorageBackend)
	}
	return nil
}

// connectEvents publishes to RabbitMQ when it is configured. Without it
// events are dispatched synchronously to in-process subscribers.
func (c *Container) connectEvents(context.Context) error {
	if c.Config.RabbitMQURL == "" {
		c.Bus = eventbus.NewInProcessEventBus(c.Logger)
		c.EventPublisher = c.Bus
		c.DomainPublisher = eventbus.NewDomainEventPublisher(c.Bus)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(c.Config.RabbitMQURL, c.Logger)
	if err != nil {
		if !c.Config.IsDevelopment() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, dispatching events in-process", "error", err)
		c.Bus = eventbus.NewInProcessEventBus(c.Logger)
		c.EventPublisher = c.Bus
		c.DomainPublisher = eventbus.NewDomainEventPublisher(c.Bus)
		return nil
	}
	c.EventPublisher = eventbus.NewBreakerPublisher(publisher, eventbus.BreakerConfig{}, c.Logger)
	c.DomainPublisher = eventbus.NewDomainEventPublisher(c.EventPublisher)
	return nil
}

func (c *Container) wire() error {
	logger := c.Logger
	uow := c.UnitOfWork
	pub := c.DomainPublisher

	c.Sessions = security.NewJWTService(c.Config.JWTSecret, c.Config.JWTTTL)
	hasher := security.NewBcryptHasher(0)

	// Repositories
	c.ProjectRepo = projectPersistence.NewProjectRepository(c.DB)
	c.MilestoneRepo = projectPersistence.NewMilestoneRepository(c.DB)
	c.TaskRepo = taskPersistence.NewTaskRepository(c.DB)
	c.ReportRepo = reportPersistence.NewReportRepository(c.DB)
	c.FileRepo = filePersistence.NewFileRepository(c.DB)
	c.UserRepo = identityPersistence.NewUserRepository(c.DB)
	c.TokenRepo = identityPersistence.NewTokenRepository(c.DB)
	c.MessageRepo = commPersistence.NewMessageRepository(c.DB)
	c.NotificationRepo = commPersistence.NewNotificationRepository(c.DB)

	// Tasks
	c.CreateTask = taskCommands.NewCreateTaskHandler(c.TaskRepo, c.ProjectRepo, c.MilestoneRepo, uow, pub, logger)
	c.UpdateTask = taskCommands.NewUpdateTaskHandler(c.TaskRepo, c.MilestoneRepo, uow, pub, logger)
	c.DeleteTask = taskCommands.NewDeleteTaskHandler(c.TaskRepo, uow)
	c.GetTask = taskQueries.NewGetTaskHandler(c.TaskRepo)
	c.ListTasks = taskQueries.NewListTasksHandler(c.TaskRepo)

	// Files
	c.UploadFile = fileCommands.NewUploadFileHandler(c.FileRepo, c.ProjectRepo, c.Blobs, uow, logger)
	c.UploadFileVersion = fileCommands.NewUploadNewVersionHandler(c.FileRepo, c.Blobs, uow, logger)
	c.DeleteFile = fileCommands.NewDeleteFileHandler(c.FileRepo, c.Blobs, uow, logger)
	c.Files = fileQueries.NewFileQueries(c.FileRepo, c.Blobs)

	// Reports
	validator, err := validation.NewFilterValidator()
	if err != nil {
		return fmt.Errorf("failed to load report filter schema: %w", err)
	}
	c.RequestReport = reportCommands.NewRequestReportHandler(c.ReportRepo, c.ProjectRepo, validator, uow, pub, logger)
	c.GenerateReport = reportCommands.NewGenerateReportHandler(reportCommands.GenerateReportDeps{
		Reports:   c.ReportRepo,
		Projects:  c.ProjectRepo,
		Tasks:     c.TaskRepo,
		Users:     c.UserRepo,
		Renderer:  pdf.NewRenderer(),
		Blobs:     c.Blobs,
		Locker:    c.Locker,
		LockTTL:   c.Config.ReportLockTTL,
		Clock:     c.Clock,
		Publisher: pub,
		Metrics:   c.Metrics,
		Logger:    logger,
	})
	c.Reports = reportQueries.NewReportQueries(c.ReportRepo, c.Blobs)

	// Projects
	c.CreateProject = projectCommands.NewCreateProjectHandler(c.ProjectRepo, uow, pub, logger)
	c.UpdateProject = projectCommands.NewUpdateProjectHandler(c.ProjectRepo, uow, pub, logger)
	c.DeleteProject = projectCommands.NewDeleteProjectHandler(c.ProjectRepo, c.FileRepo, uow, logger)
	c.AddMilestone = projectCommands.NewAddMilestoneHandler(c.ProjectRepo, c.MilestoneRepo, uow, logger)
	c.UpdateMilestone = projectCommands.NewUpdateMilestoneHandler(c.MilestoneRepo, uow)
	c.DeleteMilestone = projectCommands.NewDeleteMilestoneHandler(c.MilestoneRepo, c.TaskRepo, uow)
	c.RecomputeMilestone = projectCommands.NewRecomputeMilestoneHandler(c.MilestoneRepo, c.TaskRepo, uow, c.Clock, pub, c.Metrics, logger)
	c.UpdateMilestoneProgress = projectCommands.NewUpdateMilestoneProgressHandler(c.MilestoneRepo, c.TaskRepo, uow, c.Clock, pub, c.Metrics, logger)
	c.LinkTask = projectCommands.NewLinkTaskHandler(c.MilestoneRepo, c.TaskRepo, uow)
	c.GetProject = projectQueries.NewGetProjectHandler(c.ProjectRepo)
	c.ListProjects = projectQueries.NewListProjectsHandler(c.ProjectRepo, logger)
	c.ProjectProgress = projectQueries.NewProjectProgressHandler(c.ProjectRepo, c.MilestoneRepo)
	c.ProjectLookups = projectQueries.NewProjectLookups(c.TaskRepo, c.Files.ListProjectFiles, c.Reports.ListProjectReports, logger)
	c.Milestones = projectQueries.NewMilestoneQueries(c.MilestoneRepo, c.TaskRepo)

	// Identity
	c.RegisterUser = identityCommands.NewRegisterUserHandler(c.UserRepo, hasher, uow, pub, logger)
	c.Login = identityCommands.NewLoginHandler(c.UserRepo, hasher, c.Sessions, logger)
	c.AssignRole = identityCommands.NewAssignRoleHandler(c.UserRepo, uow, pub, logger)
	c.IssueAuthToken = identityCommands.NewIssueAuthTokenHandler(c.UserRepo, c.TokenRepo, uow, c.Clock)
	c.ConsumeAuthToken = identityCommands.NewConsumeAuthTokenHandler(c.UserRepo, c.TokenRepo, hasher, uow, c.Clock, logger)

	// Communication
	c.Messages = commApp.NewMessageService(c.MessageRepo, uow, logger)
	c.Notifications = commApp.NewNotificationService(c.NotificationRepo, uow, logger)

	// Subscribers
	c.ReportSubscriber = reportSubs.NewGenerationSubscriber(c.GenerateReport, c.Metrics, logger)
	c.NotificationSubscriber = commSubs.NewNotificationSubscriber(c.Notifications, c.ProjectRepo, c.Metrics, logger)
	if c.Bus != nil {
		for _, s := range c.Subscribers() {
			c.Bus.RegisterConsumer(s)
		}
	}
	return nil
}

// Subscribers lists every event consumer of the application.
func (c *Container) Subscribers() []eventbus.EventConsumer {
	return []eventbus.EventConsumer{c.ReportSubscriber, c.NotificationSubscriber}
}

// Close releases every connection the container opened.
func (c *Container) Close() error {
	var errs []error
	if c.EventPublisher != nil {
		errs = append(errs, c.EventPublisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
