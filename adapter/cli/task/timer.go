package task

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
)

var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Track time on a task",
	Long: `Start, pause, resume and stop a timer session. Stopping adds the
session's elapsed time to the task. A task has at most one open session.`,
}

type timerAction func(*commands.TimerHandler, context.Context, commands.TimerCommand) (*commands.TimerResult, error)

func newTimerCmd(use, short string, action timerAction) *cobra.Command {
	return &cobra.Command{
		Use:   use + " [task-id]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := cli.RequireApp()
			if err != nil {
				return err
			}
			id, err := cli.ParseID(args[0])
			if err != nil {
				return err
			}
			res, err := action(app.TimerHandler, cmd.Context(), commands.TimerCommand{TaskID: id})
			if err != nil {
				return fmt.Errorf("failed to %s timer: %w", use, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Timer %s: %s elapsed\n", res.State, res.Elapsed)
			if res.TaskTracked > 0 {
				fmt.Fprintf(out, "  task total: %s\n", res.TaskTracked)
			}
			return nil
		},
	}
}

func init() {
	timerCmd.AddCommand(
		newTimerCmd("start", "Start a timer session", (*commands.TimerHandler).Start),
		newTimerCmd("pause", "Pause the running session", (*commands.TimerHandler).Pause),
		newTimerCmd("resume", "Resume a paused session", (*commands.TimerHandler).Resume),
		newTimerCmd("stop", "Stop the session and record its time", (*commands.TimerHandler).Stop),
	)
}
