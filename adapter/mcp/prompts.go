package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for the daily and weekly rituals.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_planning").
		Description("Walk through today's three focus tasks and decide what to start first.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Planning Session", dailyPlanningText), nil
		})

	srv.Prompt("weekly_review").
		Description("Review last week's completion rate, time spent and achievements, then set goals for the coming week.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			text := weeklyReviewText
			if goals := args["goals"]; goals != "" {
				text += fmt.Sprintf("\n\nMy draft goals for next week are: %s", goals)
			}
			return userPrompt("Weekly Review Session", text), nil
		})

	srv.Prompt("rate_task").
		Description("Help rate a task on complexity, collaboration and consequence.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			text := rateTaskText
			if id := args["task_id"]; id != "" {
				text = fmt.Sprintf("Look up task %s with the task.get tool first.\n\n%s", id, text)
			}
			return userPrompt("Task Rating", text), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}

const dailyPlanningText = `Help me plan my day. Please:

1. Read today's plan from the atelier://plan/today resource
2. Check my open work using the atelier://tasks/open resource

Based on this information:
- Explain why each of the three picks made the plan, including any weekday theme bonus
- Suggest which one to start first with the timer.start tool
- Point out open tasks that are overdue but did not make the cut

The plan is fixed once created, so suggest re-rating (task.rate) or rescheduling (task.update) tasks for tomorrow rather than changing today.`

const weeklyReviewText = `Help me review my week. Please:

1. Write the review with the review.last_week tool
2. Compare it with earlier weeks from the atelier://reviews resource

Then:
- Summarize the completion rate and the time spent per work area
- Call out the top achievements
- Suggest three goals for the coming week, and store them by calling review.last_week again with goals`

const rateTaskText = `Rate this task on three axes from 1 to 5:

- Complexity: how hard the work itself is
- Collaboration: how many people it needs
- Consequence: how much it matters if it slips

The score is 20 times the sum, from 60 to 300. Ask me clarifying questions if needed, then apply the rating with the task.rate tool.`
