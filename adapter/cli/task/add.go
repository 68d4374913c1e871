package task

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
)

var (
	area     string
	dueDate  string
	theme    string
	priority string
	estimate int
	notes    string
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Quick-add a task",
	Long: `Add a task with the baseline rating (complexity 3, collaboration 2,
consequence 3, score 160). Use "task rate" to change it.

Examples:
  atelier task add "Send invoice"
  atelier task add "Draft roadmap" --area planning --due 2024-06-07
  atelier task add "Team retro" --theme friday --priority high --estimate 45`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		due, err := cli.ParseDate(dueDate)
		if err != nil {
			return err
		}

		result, err := app.QuickAddTaskHandler.Handle(cmd.Context(), commands.QuickAddTaskCommand{
			Title:           args[0],
			WorkArea:        area,
			DueDate:         due,
			Theme:           theme,
			Priority:        priority,
			EstimateMinutes: estimate,
			Notes:           notes,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Task created: %s\n", result.TaskID)
		fmt.Fprintf(out, "  due:   %s\n", result.DueDate)
		fmt.Fprintf(out, "  score: %d (%s)\n", result.Score, result.Grade)
		return nil
	},
}

var fromTemplateCmd = &cobra.Command{
	Use:   "from-template [template-id]",
	Short: "Create a task from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		templateID, err := cli.ParseID(args[0])
		if err != nil {
			return err
		}
		due, err := cli.ParseDate(dueDate)
		if err != nil {
			return err
		}

		result, err := app.CreateFromTemplateHandler.Handle(cmd.Context(), commands.CreateFromTemplateCommand{
			TemplateID: templateID,
			DueDate:    due,
		})
		if err != nil {
			return fmt.Errorf("failed to create task from template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Task created: %s (due %s, score %d)\n", result.TaskID, result.DueDate, result.Score)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&area, "area", "a", "", "work area")
	addCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD, default today)")
	addCmd.Flags().StringVar(&theme, "theme", "", "weekday theme (monday..sunday)")
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "priority label (low, normal, high, urgent)")
	addCmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimate in minutes")
	addCmd.Flags().StringVar(&notes, "notes", "", "free-form notes")

	fromTemplateCmd.Flags().StringVar(&dueDate, "due", "", "due date (YYYY-MM-DD, default today)")
}
