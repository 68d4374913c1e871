package commands

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	sharedApplication "github.com/felixgeelhaar/atelier/internal/shared/application"
	sharedDomain "github.com/felixgeelhaar/atelier/internal/shared/domain"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/database/dbtest"
	"github.com/felixgeelhaar/atelier/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/atelier/internal/work/domain/task"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
	"github.com/felixgeelhaar/atelier/internal/work/infrastructure/persistence"
	"github.com/felixgeelhaar/atelier/pkg/observability"
)

// 2024-06-05 is a Wednesday.
var testNow = time.Date(2024, 6, 5, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	conn      database.Connection
	tasks     *persistence.TaskRepository
	templates *persistence.TemplateRepository
	plans     *persistence.PlanRepository
	reviews   *persistence.ReviewRepository
	sessions  *persistence.SessionRepository
	outbox    *outbox.SQLRepository
	uow       sharedApplication.UnitOfWork
	clock     *steppingClock
	calendar  Calendar
	logger    *slog.Logger
	metrics   *observability.InMemoryMetrics
}

// steppingClock is a settable clock for timer tests.
type steppingClock struct {
	now time.Time
}

func (c *steppingClock) Now() time.Time          { return c.now }
func (c *steppingClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	conn := dbtest.NewSQLite(t)
	clock := &steppingClock{now: testNow}
	return &testEnv{
		conn:      conn,
		tasks:     persistence.NewTaskRepository(conn),
		templates: persistence.NewTemplateRepository(conn),
		plans:     persistence.NewPlanRepository(conn),
		reviews:   persistence.NewReviewRepository(conn),
		sessions:  persistence.NewSessionRepository(conn),
		outbox:    outbox.NewRepository(conn),
		uow:       database.NewUnitOfWork(conn),
		clock:     clock,
		calendar:  Calendar{Clock: clock, Location: time.UTC},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   observability.NewInMemoryMetrics(),
	}
}

func (e *testEnv) quickAdd() *QuickAddTaskHandler {
	return NewQuickAddTaskHandler(e.tasks, e.outbox, e.uow, e.calendar, e.logger).WithMetrics(e.metrics)
}

// addTask quick-adds a task and optionally rates it.
func (e *testEnv) addTask(t *testing.T, title, due string, rating ...int) *TaskCreatedResult {
	t.Helper()
	ctx := context.Background()
	res, err := e.quickAdd().Handle(ctx, QuickAddTaskCommand{Title: title, DueDate: vo.MustParseDate(due)})
	require.NoError(t, err)
	if len(rating) == 3 {
		_, err := NewRateTaskHandler(e.tasks, e.outbox, e.uow, e.calendar, e.logger).Handle(ctx, RateTaskCommand{
			TaskID:        res.TaskID,
			Complexity:    rating[0],
			Collaboration: rating[1],
			Consequence:   rating[2],
		})
		require.NoError(t, err)
	}
	return res
}

// routingKeys lists the pending outbox messages in insertion order.
func (e *testEnv) routingKeys(t *testing.T) []string {
	t.Helper()
	msgs, err := e.outbox.GetUnpublished(context.Background(), 1000)
	require.NoError(t, err)
	keys := make([]string, len(msgs))
	for i, m := range msgs {
		keys[i] = m.RoutingKey
	}
	return keys
}

func (e *testEnv) lastMessage(t *testing.T) *outbox.Message {
	t.Helper()
	msgs, err := e.outbox.GetUnpublished(context.Background(), 1000)
	require.NoError(t, err)
	require.NotEmpty(t, msgs)
	return msgs[len(msgs)-1]
}

// failingOutbox fails every write.
type failingOutbox struct {
	mock.Mock
	outbox.Repository
}

func (m *failingOutbox) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func TestQuickAddTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := observability.WithCorrelationID(context.Background(), "corr-1")

	res, err := env.quickAdd().Handle(ctx, QuickAddTaskCommand{
		Title:           "  Draft newsletter ",
		WorkArea:        "marketing",
		Theme:           "fri",
		Priority:        "high",
		EstimateMinutes: 45,
		Notes:           "spring edition",
		Actor:           "cli",
	})
	require.NoError(t, err)

	assert.Equal(t, "2024-06-05", res.DueDate.String(), "due date defaults to today")
	assert.Equal(t, 160, res.Score, "baseline rating 3,2,3")
	assert.Equal(t, "C", res.Grade.String())

	stored, err := env.tasks.FindByID(context.Background(), res.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Draft newsletter", stored.Title())
	assert.Equal(t, task.StatusNotStarted, stored.Status())
	assert.Equal(t, vo.Friday, stored.Theme())
	assert.Equal(t, task.PriorityHigh, stored.Priority())
	assert.Equal(t, 45, stored.Estimate().Minutes())
	assert.Equal(t, "spring edition", stored.Notes())

	assert.Equal(t, []string{task.RoutingKeyCreated}, env.routingKeys(t), "one creation event")

	var meta sharedDomain.EventMetadata
	require.NoError(t, json.Unmarshal(env.lastMessage(t).Metadata, &meta))
	assert.Equal(t, "corr-1", meta.CorrelationID)
	assert.Equal(t, "cli", meta.Actor)

	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricTasksCreated, observability.T("source", "quick_add")))
}

func TestQuickAddTask_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cmd     QuickAddTaskCommand
		wantErr error
	}{
		{name: "empty title", cmd: QuickAddTaskCommand{Title: "   "}, wantErr: task.ErrEmptyTitle},
		{name: "bad priority", cmd: QuickAddTaskCommand{Title: "x", Priority: "asap"}, wantErr: task.ErrInvalidPriority},
		{name: "bad estimate", cmd: QuickAddTaskCommand{Title: "x", EstimateMinutes: -5}, wantErr: vo.ErrInvalidDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.quickAdd().Handle(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, env.routingKeys(t))
		})
	}

	t.Run("bad theme", func(t *testing.T) {
		env := newTestEnv(t)
		_, err := env.quickAdd().Handle(context.Background(), QuickAddTaskCommand{Title: "x", Theme: "funday"})
		assert.Error(t, err)
	})
}

func TestQuickAddTask_OutboxFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	failing := new(failingOutbox)
	failing.On("SaveBatch", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	handler := NewQuickAddTaskHandler(env.tasks, failing, env.uow, env.calendar, env.logger)
	_, err := handler.Handle(context.Background(), QuickAddTaskCommand{Title: "Lost"})
	require.Error(t, err)

	tasks, err := env.tasks.List(context.Background(), task.Filter{})
	require.NoError(t, err)
	assert.Empty(t, tasks, "task insert rolled back with the outbox write")
	failing.AssertExpectations(t)
}

func TestCreateTemplateAndInstantiate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	tplID, err := NewCreateTemplateHandler(env.templates, env.calendar).Handle(ctx, CreateTemplateCommand{
		Name:            "weekly-invoice",
		Title:           "Send invoices",
		WorkArea:        "finance",
		Complexity:      2,
		Collaboration:   1,
		Consequence:     5,
		Theme:           "friday",
		Priority:        "urgent",
		EstimateMinutes: 30,
	})
	require.NoError(t, err)

	handler := NewCreateFromTemplateHandler(env.templates, env.tasks, env.outbox, env.uow, env.calendar, env.logger).WithMetrics(env.metrics)
	res, err := handler.Handle(ctx, CreateFromTemplateCommand{TemplateID: tplID, DueDate: vo.MustParseDate("2024-06-07")})
	require.NoError(t, err)
	assert.Equal(t, 160, res.Score)

	stored, err := env.tasks.FindByID(ctx, res.TaskID)
	require.NoError(t, err)
	assert.Equal(t, "Send invoices", stored.Title())
	assert.Equal(t, "finance", stored.WorkArea())
	assert.Equal(t, vo.Friday, stored.Theme())
	assert.Equal(t, task.PriorityUrgent, stored.Priority())
	assert.Equal(t, 30, stored.Estimate().Minutes())
	assert.Equal(t, task.StatusNotStarted, stored.Status())
	require.NotNil(t, stored.TemplateID())
	assert.Equal(t, tplID, *stored.TemplateID())

	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricTasksCreated, observability.T("source", "template")))
}

func TestCreateTemplate_Validation(t *testing.T) {
	env := newTestEnv(t)
	handler := NewCreateTemplateHandler(env.templates, env.calendar)

	_, err := handler.Handle(context.Background(), CreateTemplateCommand{Title: "x", Complexity: 6, Collaboration: 1, Consequence: 1})
	assert.Error(t, err)

	_, err = handler.Handle(context.Background(), CreateTemplateCommand{Title: ""})
	assert.ErrorIs(t, err, task.ErrEmptyTitle)

	id, err := handler.Handle(context.Background(), CreateTemplateCommand{Title: "Baseline"})
	require.NoError(t, err)
	tpl, err := env.templates.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, vo.DefaultRating(), tpl.Rating())
	assert.Equal(t, "Baseline", tpl.Name())
}

func TestCreateFromTemplate_Missing(t *testing.T) {
	env := newTestEnv(t)
	handler := NewCreateFromTemplateHandler(env.templates, env.tasks, env.outbox, env.uow, env.calendar, env.logger)

	_, err := handler.Handle(context.Background(), CreateFromTemplateCommand{TemplateID: uuid.New()})
	assert.ErrorIs(t, err, task.ErrTemplateNotFound)
}
