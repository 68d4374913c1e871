package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
)

var (
	reviewGoals string
	reviewStart string
	reviewEnd   string
	reviewLimit int
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Write and list weekly reviews",
}

var reviewLastWeekCmd = &cobra.Command{
	Use:   "last-week",
	Short: "Review the previous Monday to Sunday",
	Long: `Summarize the tasks due last week: completion rate, time spent,
a per-area breakdown and the top achievements. Every call stores a new
review.

Examples:
  atelier review last-week
  atelier review last-week --goals "ship the beta"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		r, err := app.LastWeekReviewHandler.Handle(cmd.Context(), commands.CreateLastWeekReviewCommand{Goals: reviewGoals})
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		PrintReview(cmd.OutOrStdout(), queries.ToWeeklyReviewDTO(r))
		return nil
	},
}

var reviewCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Review an explicit date range",
	Long: `Summarize the tasks due between --start and --end, both inclusive.

Examples:
  atelier review create --start 2024-06-03 --end 2024-06-09`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		start, err := ParseDate(reviewStart)
		if err != nil {
			return err
		}
		end, err := ParseDate(reviewEnd)
		if err != nil {
			return err
		}
		r, err := app.WeeklyReviewHandler.Handle(cmd.Context(), commands.CreateWeeklyReviewCommand{
			Start: start,
			End:   end,
			Goals: reviewGoals,
		})
		if err != nil {
			return fmt.Errorf("failed to create review: %w", err)
		}
		PrintReview(cmd.OutOrStdout(), queries.ToWeeklyReviewDTO(r))
		return nil
	},
}

var reviewListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List stored reviews, newest first",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := RequireApp()
		if err != nil {
			return err
		}
		reviews, err := app.ListWeeklyReviewsHandler.Handle(cmd.Context(), reviewLimit)
		if err != nil {
			return fmt.Errorf("failed to list reviews: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(reviews) == 0 {
			fmt.Fprintln(out, "No reviews yet.")
			return nil
		}
		for _, r := range reviews {
			fmt.Fprintf(out, "%s .. %s  %d/%d done (%d%%)  %d min  %s\n",
				r.WeekStart, r.WeekEnd, r.CompletedTasks, r.TotalTasks, r.CompletionRate, r.TotalMinutes, r.ID)
		}
		return nil
	},
}

func init() {
	reviewLastWeekCmd.Flags().StringVar(&reviewGoals, "goals", "", "goals for the coming week")
	reviewCreateCmd.Flags().StringVar(&reviewGoals, "goals", "", "goals for the coming week")
	reviewCreateCmd.Flags().StringVar(&reviewStart, "start", "", "first day (YYYY-MM-DD)")
	reviewCreateCmd.Flags().StringVar(&reviewEnd, "end", "", "last day (YYYY-MM-DD)")
	_ = reviewCreateCmd.MarkFlagRequired("start")
	_ = reviewCreateCmd.MarkFlagRequired("end")
	reviewListCmd.Flags().IntVarP(&reviewLimit, "limit", "n", 10, "max number of reviews (0 = all)")

	reviewCmd.AddCommand(reviewLastWeekCmd, reviewCreateCmd, reviewListCmd)
	rootCmd.AddCommand(reviewCmd)
}
