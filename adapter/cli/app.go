package cli

import (
	"errors"

	internalApp "github.com/felixgeelhaar/atelier/internal/app"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

// ErrNotInitialized is returned by commands run without a database.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	Calendar commands.Calendar

	// Task Command Handlers
	QuickAddTaskHandler       *commands.QuickAddTaskHandler
	CreateFromTemplateHandler *commands.CreateFromTemplateHandler
	ChangeStatusHandler       *commands.ChangeStatusHandler
	RateTaskHandler           *commands.RateTaskHandler
	UpdateTaskHandler         *commands.UpdateTaskHandler
	AttachmentHandler         *commands.AttachmentHandler
	TimerHandler              *commands.TimerHandler

	// Template Command Handlers
	CreateTemplateHandler *commands.CreateTemplateHandler

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
}

// NewApp creates a CLI application backed by the container's handlers.
func NewApp(c *internalApp.Container) *App {
	return &App{
		Calendar:                  c.Calendar,
		QuickAddTaskHandler:       c.QuickAddTaskHandler,
		CreateFromTemplateHandler: c.CreateFromTemplateHandler,
		ChangeStatusHandler:       c.ChangeStatusHandler,
		RateTaskHandler:           c.RateTaskHandler,
		UpdateTaskHandler:         c.UpdateTaskHandler,
		AttachmentHandler:         c.AttachmentHandler,
		TimerHandler:              c.TimerHandler,
		CreateTemplateHandler:     c.CreateTemplateHandler,
		DailyPlanHandler:          c.DailyPlanHandler,
		WeeklyReviewHandler:       c.WeeklyReviewHandler,
		LastWeekReviewHandler:     c.LastWeekReviewHandler,
		ListTasksHandler:          c.ListTasksHandler,
		GetTaskHandler:            c.GetTaskHandler,
		GetDailyPlanHandler:       c.GetDailyPlanHandler,
		ListWeeklyReviewsHandler:  c.ListWeeklyReviewsHandler,
		ListTemplatesHandler:      c.ListTemplatesHandler,
	}
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or ErrNotInitialized.
func RequireApp() (*App, error) {
	if app == nil {
		return nil, ErrNotInitialized
	}
	return app, nil
}
