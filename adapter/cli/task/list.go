package task

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

var (
	showAll    bool
	statuses   []string
	filterArea string
	limit      int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List tasks, highest score first. Without filters only open work is
shown (not_started, in_progress, on_hold).

Examples:
  atelier task list
  atelier task list --all
  atelier task list --status done --area sales`,
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}

		tasks, err := app.ListTasksHandler.Handle(cmd.Context(), queries.ListTasksQuery{
			Statuses:   statuses,
			IncludeAll: showAll,
			WorkArea:   filterArea,
			Limit:      limit,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(tasks) == 0 {
			fmt.Fprintln(out, "No tasks found.")
			return nil
		}
		fmt.Fprintf(out, "Tasks (%d):\n", len(tasks))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, t := range tasks {
			cli.PrintTaskLine(out, t)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show [task-id]",
	Short: "Show one task",
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
		t, err := app.GetTaskHandler.Handle(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("failed to load task: %w", err)
		}
		cli.PrintTask(cmd.OutOrStdout(), *t)
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&showAll, "all", false, "include done tasks")
	listCmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "filter by status (not_started, in_progress, done, on_hold)")
	listCmd.Flags().StringVarP(&filterArea, "area", "a", "", "filter by work area")
	listCmd.Flags().IntVarP(&limit, "limit", "n", 0, "max number of tasks to show (0 = no limit)")
}
