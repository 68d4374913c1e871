package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
)

type timerOutput struct {
	SessionID      string `json:"session_id"`
	TaskID         string `json:"task_id"`
	State          string `json:"state"`
	ElapsedSeconds int64  `json:"elapsed_seconds"`
	// TrackedSeconds is the task total, reported on stop.
	TrackedSeconds int64 `json:"tracked_seconds,omitempty"`
}

type timerAction func(*commands.TimerHandler, context.Context, commands.TimerCommand) (*commands.TimerResult, error)

var timerTools = []struct {
	name        string
	description string
	action      timerAction
}{
	{"start", "Start a timer session on a task. A task has at most one open session", (*commands.TimerHandler).Start},
	{"pause", "Pause the running session of a task", (*commands.TimerHandler).Pause},
	{"resume", "Resume the paused session of a task", (*commands.TimerHandler).Resume},
	{"stop", "Stop the session and add its elapsed time to the task", (*commands.TimerHandler).Stop},
}

func registerTimerTools(srv *mcp.Server, t *tools) {
	for _, tt := range timerTools {
		srv.Tool("timer." + tt.name).
			Description(tt.description).
			Handler(t.timer(tt.name, tt.action))
	}
}

func (t *tools) timer(name string, action timerAction) func(context.Context, taskIDInput) (*timerOutput, error) {
	return func(ctx context.Context, input taskIDInput) (*timerOutput, error) {
		if t.app.TimerHandler == nil {
			return nil, fmt.Errorf("timer %s %w", name, errNoDatabase)
		}
		id, err := parseUUID(input.TaskID)
		if err != nil {
			return nil, err
		}
		res, err := action(t.app.TimerHandler, ctx, commands.TimerCommand{TaskID: id, Actor: ActorMCP})
		if err != nil {
			return nil, err
		}
		return &timerOutput{
			SessionID:      res.SessionID.String(),
			TaskID:         res.TaskID.String(),
			State:          string(res.State),
			ElapsedSeconds: int64(res.Elapsed.Seconds()),
			TrackedSeconds: int64(res.TaskTracked.Seconds()),
		}, nil
	}
}
