package task

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

var (
	attachURL  string
	attachName string
	attachSize int64

	editTitle    string
	editArea     string
	editDue      string
	editTheme    string
	editPriority string
	editEstimate int
)

var statusCmd = &cobra.Command{
	Use:   "status [task-id] [status]",
	Short: "Change a task's status",
	Long: `Move a task to not_started, in_progress, done or on_hold. Any status
can move to any other.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		v, err := app.ChangeStatusHandler.Handle(cmd.Context(), commands.ChangeStatusCommand{TaskID: id, Status: args[1]})
		if err != nil {
			return fmt.Errorf("failed to change status: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s is now %s\n", cli.StatusIcon(v.Status.String()), v.Title, v.Status)
		return nil
	},
}

var rateCmd = &cobra.Command{
	Use:   "rate [task-id] [complexity] [collaboration] [consequence]",
	Short: "Rate a task on the three Cs (1-5 each)",
	Long: `Set complexity, collaboration and consequence together. The score is
20 times their sum and the grade follows from the score.

Examples:
  atelier task rate 5b1c... 5 3 4`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		var ratings [3]int
		for i, arg := range args[1:] {
			n, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("rating %q is not a number", arg)
			}
			ratings[i] = n
		}

		v, err := app.RateTaskHandler.Handle(cmd.Context(), commands.RateTaskCommand{
			TaskID:        id,
			Complexity:    ratings[0],
			Collaboration: ratings[1],
			Consequence:   ratings[2],
		})
		if err != nil {
			return fmt.Errorf("failed to rate task: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s scored %d (%s)\n", v.Title, v.Score, v.Rating.Grade())
		return nil
	},
}

var noteCmd = &cobra.Command{
	Use:   "note [task-id] [text]",
	Short: "Replace a task's notes",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		return runUpdate(cmd, commands.UpdateTaskCommand{TaskID: id, Notes: &args[1]})
	},
}

var editCmd = &cobra.Command{
	Use:   "edit [task-id]",
	Short: "Change a task's descriptive fields",
	Long: `Change only the fields passed as flags. An empty --theme clears the
theme.

Examples:
  atelier task edit 5b1c... --title "Draft Q3 roadmap" --due 2024-06-14
  atelier task edit 5b1c... --theme ""`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		update := commands.UpdateTaskCommand{TaskID: id}
		flags := cmd.Flags()
		if flags.Changed("title") {
			update.Title = &editTitle
		}
		if flags.Changed("area") {
			update.WorkArea = &editArea
		}
		if flags.Changed("due") {
			due, err := cli.ParseDate(editDue)
			if err != nil {
				return err
			}
			update.DueDate = &due
		}
		if flags.Changed("theme") {
			update.Theme = &editTheme
		}
		if flags.Changed("priority") {
			update.Priority = &editPriority
		}
		if flags.Changed("estimate") {
			update.EstimateMinutes = &editEstimate
		}
		return runUpdate(cmd, update)
	},
}

func runUpdate(cmd *cobra.Command, update commands.UpdateTaskCommand) error {
	app, err := cli.RequireApp()
	if err != nil {
		return err
	}
	v, err := app.UpdateTaskHandler.Handle(cmd.Context(), update)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	cli.PrintTask(cmd.OutOrStdout(), queries.ToTaskDTO(v))
	return nil
}

var attachCmd = &cobra.Command{
	Use:   "attach [task-id]",
	Short: "Attach a file reference to a task",
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
		v, err := app.AttachmentHandler.Add(cmd.Context(), commands.AddAttachmentCommand{
			TaskID: id,
			URL:    attachURL,
			Name:   attachName,
			Size:   attachSize,
		})
		if err != nil {
			return fmt.Errorf("failed to attach file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d attachment(s)\n", v.Title, len(v.Attachments))
		return nil
	},
}

var detachCmd = &cobra.Command{
	Use:   "detach [task-id] [url]",
	Short: "Remove an attachment from a task",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		id, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		v, err := app.AttachmentHandler.Remove(cmd.Context(), commands.RemoveAttachmentCommand{TaskID: id, URL: args[1]})
		if err != nil {
			return fmt.Errorf("failed to detach file: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d attachment(s)\n", v.Title, len(v.Attachments))
		return nil
	},
}

func init() {
	attachCmd.Flags().StringVar(&attachURL, "url", "", "file URL")
	attachCmd.Flags().StringVar(&attachName, "name", "", "display name")
	attachCmd.Flags().Int64Var(&attachSize, "size", 0, "size in bytes")
	_ = attachCmd.MarkFlagRequired("url")
	_ = attachCmd.MarkFlagRequired("name")

	editCmd.Flags().StringVar(&editTitle, "title", "", "new title")
	editCmd.Flags().StringVar(&editArea, "area", "", "new work area")
	editCmd.Flags().StringVar(&editDue, "due", "", "new due date (YYYY-MM-DD)")
	editCmd.Flags().StringVar(&editTheme, "theme", "", "weekday theme, empty clears")
	editCmd.Flags().StringVar(&editPriority, "priority", "", "priority label (low, normal, high, urgent)")
	editCmd.Flags().IntVar(&editEstimate, "estimate", 0, "estimate in minutes")
}

