// Package app wires atelier's dependencies for the binaries.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	_ "github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/postgres" // Register PostgreSQL driver
	_ "github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/sqlite"   // Register SQLite driver
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/migrations"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
	"github.com/felixgeelhaar/atelier/internal/work/application/workers"
	"github.com/felixgeelhaar/atelier/internal/work/domain/plan"
	"github.com/felixgeelhaar/atelier/internal/work/domain/review"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	"github.com/felixgeelhaar/atelier/internal/work/domain/timer"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/internal/work/infrastructure/cache"
	"github.com/felixgeelhaar/atelier/internal/work/infrastructure/persistence"
	"github.com/felixgeelhaar/atelier/pkg/config"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *observability.InMemoryMetrics

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis; nil when the plan cache is disabled.
	RedisClient *redis.Client
	PlanCache   *cache.PlanCache

	Calendar commands.Calendar

	// Repositories
	TaskRepo     task.Repository
	TemplateRepo task.TemplateRepository
	PlanRepo     plan.Repository
	ReviewRepo   review.Repository
	SessionRepo  timer.SessionRepository
	OutboxRepo   outbox.Repository

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Task Command Handlers
	QuickAddTaskHandler       *commands.QuickAddTaskHandler
	CreateFromTemplateHandler *commands.CreateFromTemplateHandler
	CreateTemplateHandler     *commands.CreateTemplateHandler
	ChangeStatusHandler       *commands.ChangeStatusHandler
	RateTaskHandler           *commands.RateTaskHandler
	UpdateTaskHandler         *commands.UpdateTaskHandler
	AttachmentHandler         *commands.AttachmentHandler
	TimerHandler              *commands.TimerHandler

	// Plan and Review Command Handlers
	DailyPlanHandler      *commands.GetOrCreateDailyPlanHandler
	WeeklyReviewHandler   *commands.CreateWeeklyReviewHandler
	LastWeekReviewHandler *commands.CreateLastWeekReviewHandler

	// Query Handlers
	ListTasksHandler         *queries.ListTasksHandler
	GetTaskHandler           *queries.GetTaskHandler
	GetDailyPlanHandler      *queries.GetDailyPlanHandler
	ListWeeklyReviewsHandler *queries.ListWeeklyReviewsHandler
	ListTemplatesHandler     *queries.ListTemplatesHandler

	// Event delivery; set by NewOutboxProcessor.
	EventPublisher    eventbus.Publisher
	InProcessEventBus *eventbus.InProcessEventBus
}

// NewContainer opens the database, applies migrations and wires every
// handler. Redis is optional; in development an unreachable Redis only
// disables the plan cache.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Container{
		Config:   cfg,
		Logger:   logger,
		Metrics:  observability.NewInMemoryMetrics(),
		Calendar: commands.SystemCalendar(cfg.Location),
	}

	driver, err := database.ParseDriver(cfg.DatabaseDriver)
	if err != nil {
		return nil, err
	}
	conn, err := database.Open(ctx, database.Config{
		Driver:     driver,
		URL:        cfg.DatabaseURL,
		SQLitePath: cfg.SQLitePath,
		MaxConns:   cfg.DatabaseMaxConns,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := migrations.Run(ctx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver.String())

	if cfg.CacheEnabled() {
		client, err := connectRedis(ctx, cfg.RedisURL)
		switch {
		case err == nil:
			c.RedisClient = client
			logger.Info("connected to Redis")
		case cfg.IsDevelopment():
			logger.Warn("Redis not available, plan cache disabled", "error", err)
		default:
			_ = conn.Close()
			return nil, err
		}
	}

	c.TaskRepo = persistence.NewTaskRepository(conn)
	c.TemplateRepo = persistence.NewTemplateRepository(conn)
	c.ReviewRepo = persistence.NewReviewRepository(conn)
	c.SessionRepo = persistence.NewSessionRepository(conn)
	c.OutboxRepo = outbox.NewRepository(conn)
	c.UnitOfWork = database.NewUnitOfWork(conn)

	c.PlanRepo = persistence.NewPlanRepository(conn)
	if c.RedisClient != nil {
		c.PlanCache = cache.NewPlanCache(c.PlanRepo, c.RedisClient, cfg.PlanCacheTTL, logger).WithMetrics(c.Metrics)
		c.PlanRepo = c.PlanCache
	}

	c.wireHandlers()
	return c, nil
}

func connectRedis(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (c *Container) wireHandlers() {
	cal, log, m := c.Calendar, c.Logger, c.Metrics

	c.QuickAddTaskHandler = commands.NewQuickAddTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log).WithMetrics(m)
	c.CreateTemplateHandler = commands.NewCreateTemplateHandler(c.TemplateRepo, cal)
	c.CreateFromTemplateHandler = commands.NewCreateFromTemplateHandler(c.TemplateRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log).WithMetrics(m)
	c.ChangeStatusHandler = commands.NewChangeStatusHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log).WithMetrics(m)
	c.RateTaskHandler = commands.NewRateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log)
	c.UpdateTaskHandler = commands.NewUpdateTaskHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal)
	c.AttachmentHandler = commands.NewAttachmentHandler(c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal)
	c.TimerHandler = commands.NewTimerHandler(c.SessionRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log)

	c.DailyPlanHandler = commands.NewGetOrCreateDailyPlanHandler(c.PlanRepo, c.TaskRepo, c.OutboxRepo, c.UnitOfWork, cal, log).WithMetrics(m)
	c.WeeklyReviewHandler = commands.NewCreateWeeklyReviewHandler(c.TaskRepo, c.ReviewRepo, c.OutboxRepo, c.UnitOfWork, cal, log).WithMetrics(m)
	c.LastWeekReviewHandler = commands.NewCreateLastWeekReviewHandler(c.WeeklyReviewHandler, cal)

	c.ListTasksHandler = queries.NewListTasksHandler(c.TaskRepo)
	c.GetTaskHandler = queries.NewGetTaskHandler(c.TaskRepo)
	c.GetDailyPlanHandler = queries.NewGetDailyPlanHandler(c.PlanRepo, c.TaskRepo)
	c.ListWeeklyReviewsHandler = queries.NewListWeeklyReviewsHandler(c.ReviewRepo)
	c.ListTemplatesHandler = queries.NewListTemplatesHandler(c.TemplateRepo)
}

// NewOutboxProcessor builds the outbox processor. With a broker configured
// events go to RabbitMQ behind a circuit breaker; otherwise they are
// delivered to in-process consumers.
func (c *Container) NewOutboxProcessor() (*outbox.Processor, error) {
	cfg := c.Config

	if cfg.BrokerEnabled() {
		rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, c.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		breaker := eventbus.DefaultBreakerConfig()
		breaker.MaxFailures = uint32(max(cfg.PublisherBreakerMaxFailures, 1))
		breaker.Interval = cfg.PublisherBreakerInterval
		breaker.Timeout = cfg.PublisherBreakerTimeout
		c.EventPublisher = eventbus.NewBreakerPublisher(rabbit, breaker, c.Logger)
	} else {
		bus := eventbus.NewInProcessEventBus(c.Logger)
		bus.RegisterConsumer(workers.NewEventMetricsConsumer(c.Metrics, c.Logger))
		c.InProcessEventBus = bus
		c.EventPublisher = bus
	}

	pc := outbox.DefaultProcessorConfig()
	if cfg.OutboxPollInterval > 0 {
		pc.PollInterval = cfg.OutboxPollInterval
	}
	if cfg.OutboxBatchSize > 0 {
		pc.BatchSize = cfg.OutboxBatchSize
	}
	if cfg.OutboxMaxRetries > 0 {
		pc.MaxRetries = cfg.OutboxMaxRetries
	}
	pc.RetentionDays = cfg.OutboxRetentionDays
	pc.CleanupInterval = cfg.OutboxCleanupInterval

	return outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, pc, c.Logger).WithMetrics(c.Metrics), nil
}

// NewEventConsumer subscribes the worker's metrics consumer to the broker.
// It returns nil when no broker is configured, since the in-process bus
// already delivers events then.
func (c *Container) NewEventConsumer() (*eventbus.RabbitMQConsumer, error) {
	if !c.Config.BrokerEnabled() {
		return nil, nil
	}
	consumer, err := eventbus.NewRabbitMQConsumer(eventbus.RabbitMQConsumerConfig{
		URL:      c.Config.RabbitMQURL,
		Exchange: c.Config.RabbitMQExchange,
		Logger:   c.Logger,
	}, eventbus.NewConsumerRegistry(c.Logger))
	if err != nil {
		return nil, err
	}
	consumer.RegisterConsumer(workers.NewEventMetricsConsumer(c.Metrics, c.Logger))
	return consumer, nil
}

// NewWeeklyReviewWorker builds the scheduled review trigger.
func (c *Container) NewWeeklyReviewWorker() (*workers.WeeklyReviewWorker, error) {
	weekday, err := vo.ParseWeekday(c.Config.ReviewTriggerWeekday)
	if err != nil {
		return nil, fmt.Errorf("invalid REVIEW_TRIGGER_WEEKDAY: %w", err)
	}
	return workers.NewWeeklyReviewWorker(
		c.LastWeekReviewHandler,
		c.ReviewRepo,
		c.Calendar,
		workers.WeeklyReviewWorkerConfig{
			Interval:       c.Config.ReviewWorkerInterval,
			TriggerWeekday: weekday,
		},
		c.Logger,
	), nil
}

// HealthRegistry returns readiness checks for the database and, when
// configured, Redis.
func (c *Container) HealthRegistry() *observability.HealthRegistry {
	registry := observability.NewHealthRegistry()
	registry.Register("database", observability.PingChecker("database", true, c.DBConn.Ping))
	if c.RedisClient != nil {
		registry.Register("redis", observability.PingChecker("redis", false, func(ctx context.Context) error {
			return c.RedisClient.Ping(ctx).Err()
		}))
	}
	return registry
}

// Close releases all resources.
func (c *Container) Close() error {
	var errs []error
	if c.EventPublisher != nil {
		errs = append(errs, c.EventPublisher.Close())
	}
	if c.RedisClient != nil {
		errs = append(errs, c.RedisClient.Close())
	}
	if c.DBConn != nil {
		errs = append(errs, c.DBConn.Close())
	}
	return errors.Join(errs...)
}
