package task

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	internalApp "github.com/felixgeelhaar/atelier/internal/app"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
	"github.com/felixgeelhaar/atelier/pkg/config"
)

// setupTestApp creates a CLI application backed by a temporary SQLite database.
func setupTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:               "test",
		DatabaseDriver:       "sqlite",
		SQLitePath:           filepath.Join(t.TempDir(), "test.db"),
		LogLevel:             "error",
		Location:             time.UTC,
		ReviewWorkerInterval: time.Hour,
		ReviewTriggerWeekday: "monday",
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	container, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)

	app := cli.NewApp(container)
	cli.SetApp(app)
	t.Cleanup(func() {
		cli.SetApp(nil)
		_ = container.Close()
	})
	return app
}

func resetAddFlags() {
	area = ""
	dueDate = ""
	theme = ""
	priority = ""
	estimate = 0
	notes = ""
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func addTask(t *testing.T, app *cli.App, title string) queries.TaskDTO {
	t.Helper()
	resetAddFlags()
	_, err := run(t, addCmd, title)
	require.NoError(t, err)

	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{IncludeAll: true})
	require.NoError(t, err)
	for _, task := range tasks {
		if task.Title == title {
			return task
		}
	}
	t.Fatalf("task %q not found", title)
	return queries.TaskDTO{}
}

func TestAddCmd_CreatesTask(t *testing.T) {
	app := setupTestApp(t)

	resetAddFlags()
	area = "sales"
	dueDate = "2024-06-07"
	priority = "high"
	estimate = 45

	out, err := run(t, addCmd, "Send invoice")
	require.NoError(t, err)
	assert.Contains(t, out, "Task created:")
	assert.Contains(t, out, "2024-06-07")
	assert.Contains(t, out, "160")

	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{IncludeAll: true})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Send invoice", tasks[0].Title)
	assert.Equal(t, "sales", tasks[0].WorkArea)
	assert.Equal(t, "high", tasks[0].Priority)
	assert.Equal(t, 45, tasks[0].EstimateMinutes)
	assert.Equal(t, "not_started", tasks[0].Status)
}

func TestAddCmd_InvalidInput(t *testing.T) {
	setupTestApp(t)

	tests := []struct {
		name    string
		setup   func()
		title   string
		wantErr string
	}{
		{name: "bad due date", setup: func() { dueDate = "06/07/2024" }, title: "x", wantErr: "invalid date format"},
		{name: "bad theme", setup: func() { theme = "someday" }, title: "x", wantErr: "failed to add task"},
		{name: "bad priority", setup: func() { priority = "asap" }, title: "x", wantErr: "failed to add task"},
		{name: "blank title", setup: func() {}, title: "   ", wantErr: "failed to add task"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetAddFlags()
			tt.setup()
			_, err := run(t, addCmd, tt.title)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCommands_RequireApp(t *testing.T) {
	cli.SetApp(nil)
	resetAddFlags()

	_, err := run(t, addCmd, "orphan")
	assert.ErrorIs(t, err, cli.ErrNotInitialized)

	_, err = run(t, listCmd)
	assert.ErrorIs(t, err, cli.ErrNotInitialized)
}

func TestListCmd(t *testing.T) {
	app := setupTestApp(t)

	first := addTask(t, app, "Write tests")
	addTask(t, app, "Review PR")
	_, err := run(t, statusCmd, first.ID.String(), "done")
	require.NoError(t, err)

	t.Run("open work only by default", func(t *testing.T) {
		showAll, statuses, filterArea, limit = false, nil, "", 0
		out, err := run(t, listCmd)
		require.NoError(t, err)
		assert.Contains(t, out, "Review PR")
		assert.NotContains(t, out, "Write tests")
	})

	t.Run("all", func(t *testing.T) {
		showAll, statuses, filterArea, limit = true, nil, "", 0
		out, err := run(t, listCmd)
		require.NoError(t, err)
		assert.Contains(t, out, "Review PR")
		assert.Contains(t, out, "[x] Write tests")
	})

	t.Run("status filter", func(t *testing.T) {
		showAll, statuses, filterArea, limit = false, []string{"done"}, "", 0
		out, err := run(t, listCmd)
		require.NoError(t, err)
		assert.Contains(t, out, "Write tests")
		assert.NotContains(t, out, "Review PR")
	})

	t.Run("empty", func(t *testing.T) {
		showAll, statuses, filterArea, limit = false, nil, "nowhere", 0
		out, err := run(t, listCmd)
		require.NoError(t, err)
		assert.Contains(t, out, "No tasks found")
	})
}

func TestShowCmd(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Plan offsite")

	out, err := run(t, showCmd, created.ID.String())
	require.NoError(t, err)
	assert.Contains(t, out, "Plan offsite")
	assert.Contains(t, out, "complexity 3, collaboration 2, consequence 3")

	_, err = run(t, showCmd, "not-a-uuid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid id")
}

func TestRateCmd(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Migrate billing")

	tests := []struct {
		name    string
		args    []string
		wantErr bool
		want    int
	}{
		{name: "top rating", args: []string{"5", "5", "5"}, want: 300},
		{name: "lowest rating", args: []string{"1", "1", "1"}, want: 60},
		{name: "out of range", args: []string{"6", "1", "1"}, wantErr: true},
		{name: "not a number", args: []string{"high", "1", "1"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, rateCmd, append([]string{created.ID.String()}, tt.args...)...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got, err := app.GetTaskHandler.Handle(context.Background(), created.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Score)
		})
	}
}

func TestStatusCmd(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Ship release")

	_, err := run(t, statusCmd, created.ID.String(), "done")
	require.NoError(t, err)
	got, err := app.GetTaskHandler.Handle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "done", got.Status)
	assert.NotNil(t, got.CompletedAt)

	_, err = run(t, statusCmd, created.ID.String(), "in_progress")
	require.NoError(t, err)
	got, err = app.GetTaskHandler.Handle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "in_progress", got.Status)
	assert.Nil(t, got.CompletedAt)

	_, err = run(t, statusCmd, created.ID.String(), "archived")
	assert.Error(t, err)
}

func TestEditCmd_OnlyChangedFlags(t *testing.T) {
	app := setupTestApp(t)

	resetAddFlags()
	area = "ops"
	_, err := run(t, addCmd, "Rotate keys")
	require.NoError(t, err)
	tasks, err := app.ListTasksHandler.Handle(context.Background(), queries.ListTasksQuery{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	id := tasks[0].ID.String()

	require.NoError(t, editCmd.Flags().Set("title", "Rotate API keys"))
	require.NoError(t, editCmd.Flags().Set("due", "2024-06-14"))
	out, err := run(t, editCmd, id)
	require.NoError(t, err)
	assert.Contains(t, out, "Rotate API keys")

	got, err := app.GetTaskHandler.Handle(context.Background(), tasks[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Rotate API keys", got.Title)
	assert.Equal(t, "2024-06-14", got.DueDate)
	assert.Equal(t, "ops", got.WorkArea)
}

func TestNoteCmd(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Call supplier")

	_, err := run(t, noteCmd, created.ID.String(), "ask about lead times")
	require.NoError(t, err)

	got, err := app.GetTaskHandler.Handle(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ask about lead times", got.Notes)
}

func TestAttachAndDetachCmd(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Prepare deck")
	id := created.ID.String()

	attachURL, attachName, attachSize = "https://files.example.com/deck.pdf", "deck.pdf", 2048
	out, err := run(t, attachCmd, id)
	require.NoError(t, err)
	assert.Contains(t, out, "1 attachment(s)")

	_, err = run(t, attachCmd, id)
	assert.Error(t, err, "duplicate url")

	got, err := app.GetTaskHandler.Handle(context.Background(), created.ID)
	require.NoError(t, err)
	require.Len(t, got.Attachments, 1)
	assert.Equal(t, "deck.pdf", got.Attachments[0].Name)
	assert.Equal(t, int64(2048), got.Attachments[0].Size)

	out, err = run(t, detachCmd, id, "https://files.example.com/deck.pdf")
	require.NoError(t, err)
	assert.Contains(t, out, "0 attachment(s)")
}

func TestTimerCmds(t *testing.T) {
	app := setupTestApp(t)
	created := addTask(t, app, "Write proposal")
	id := created.ID.String()

	timerCmds := map[string]*cobra.Command{}
	for _, c := range timerCmd.Commands() {
		timerCmds[c.Name()] = c
	}

	steps := []struct {
		name    string
		wantOut string
		wantErr bool
	}{
		{name: "start", wantOut: "Timer running"},
		{name: "start", wantErr: true},
		{name: "pause", wantOut: "Timer paused"},
		{name: "resume", wantOut: "Timer running"},
		{name: "stop", wantOut: "Timer stopped"},
		{name: "pause", wantErr: true},
	}

	for _, step := range steps {
		out, err := run(t, timerCmds[step.name], id)
		if step.wantErr {
			assert.Error(t, err, step.name)
			continue
		}
		require.NoError(t, err, step.name)
		assert.Contains(t, out, step.wantOut)
	}
}
