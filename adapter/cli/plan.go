package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
)

var planDate string

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the daily plan",
}

var planTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Show today's three focus tasks",
	Long: `Show the daily plan, creating it on first request. Once a plan exists
for a date it is never recomputed, so later edits to tasks do not change
today's picks.

Examples:
  atelier plan today
  atelier plan today --date 2024-06-07`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		date, err := ParseDate(planDate)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		res, err := app.DailyPlanHandler.Handle(ctx, commands.GetOrCreateDailyPlanCommand{Date: date})
		if err != nil {
			return fmt.Errorf("failed to get daily plan: %w", err)
		}
		dto, err := app.GetDailyPlanHandler.Resolve(ctx, res.Plan)
		if err != nil {
			return fmt.Errorf("failed to load plan tasks: %w", err)
		}

		PrintPlan(cmd.OutOrStdout(), dto)
		return nil
	},
}

func init() {
	planTodayCmd.Flags().StringVar(&planDate, "date", "", "plan date (YYYY-MM-DD, default today)")
	planCmd.AddCommand(planTodayCmd)
	rootCmd.AddCommand(planCmd)
}
