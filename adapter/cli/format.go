package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/atelier/internal/work/application/queries"
	vo "github.com/felixgeelhaar/atelier/internal/work/domain/value_objects"
)

// ParseDate parses a YYYY-MM-DD flag value. An empty value returns the
// zero date, which handlers treat as today.
func ParseDate(value string) (vo.Date, error) {
	if value == "" {
		return vo.Date{}, nil
	}
	d, err := vo.ParseDate(value)
	if err != nil {
		return vo.Date{}, fmt.Errorf("invalid date format (use YYYY-MM-DD): %w", err)
	}
	return d, nil
}

// ParseID parses a task, template or plan id argument.
func ParseID(value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id %q: %w", value, err)
	}
	return id, nil
}

// StatusIcon renders a task status as a checkbox.
func StatusIcon(status string) string {
	switch status {
	case "done":
		return "[x]"
	case "in_progress":
		return "[>]"
	case "on_hold":
		return "[-]"
	default:
		return "[ ]"
	}
}

// PrintTaskLine writes the one-line summary used by list views.
func PrintTaskLine(w io.Writer, t queries.TaskDTO) {
	fmt.Fprintf(w, "%s %s  %d (%s)\n", StatusIcon(t.Status), t.Title, t.Score, t.Grade)
	fmt.Fprintf(w, "   ID: %s  due %s", t.ID, t.DueDate)
	if t.WorkArea != "" {
		fmt.Fprintf(w, "  area %s", t.WorkArea)
	}
	if t.Theme != "" {
		fmt.Fprintf(w, "  theme %s", t.Theme)
	}
	fmt.Fprintln(w)
}

// PrintTask writes every field of a task.
func PrintTask(w io.Writer, t queries.TaskDTO) {
	fmt.Fprintf(w, "%s %s\n", StatusIcon(t.Status), t.Title)
	fmt.Fprintf(w, "  id:        %s\n", t.ID)
	fmt.Fprintf(w, "  status:    %s\n", t.Status)
	fmt.Fprintf(w, "  due:       %s\n", t.DueDate)
	fmt.Fprintf(w, "  score:     %d (%s)  complexity %d, collaboration %d, consequence %d\n",
		t.Score, t.Grade, t.Complexity, t.Collaboration, t.Consequence)
	fmt.Fprintf(w, "  priority:  %s\n", t.Priority)
	if t.WorkArea != "" {
		fmt.Fprintf(w, "  area:      %s\n", t.WorkArea)
	}
	if t.Theme != "" {
		fmt.Fprintf(w, "  theme:     %s\n", t.Theme)
	}
	if t.EstimateMinutes > 0 {
		fmt.Fprintf(w, "  estimate:  %d min\n", t.EstimateMinutes)
	}
	if t.TrackedSeconds > 0 {
		fmt.Fprintf(w, "  tracked:   %s\n", time.Duration(t.TrackedSeconds)*time.Second)
	}
	if t.CompletedAt != nil {
		fmt.Fprintf(w, "  completed: %s\n", t.CompletedAt.Format(time.RFC3339))
	}
	if t.Notes != "" {
		fmt.Fprintf(w, "  notes:     %s\n", t.Notes)
	}
	for _, a := range t.Attachments {
		fmt.Fprintf(w, "  attached:  %s <%s> %d bytes\n", a.Name, a.URL, a.Size)
	}
}

// PrintPlan writes a daily plan with its resolved tasks.
func PrintPlan(w io.Writer, p *queries.DailyPlanDTO) {
	fmt.Fprintf(w, "Plan for %s", p.Date)
	if p.Theme != "" {
		fmt.Fprintf(w, " (%s)", p.Theme)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	if len(p.Entries) == 0 {
		fmt.Fprintln(w, "Nothing eligible today.")
		return
	}
	for _, e := range p.Entries {
		title := e.TaskID.String()
		if e.Task != nil {
			title = e.Task.Title
		}
		bonus := ""
		if e.AdjustedScore > e.BaseScore {
			bonus = fmt.Sprintf(" +%d theme", e.AdjustedScore-e.BaseScore)
		}
		fmt.Fprintf(w, "%d. %s  %d%s\n", e.Rank, title, e.BaseScore, bonus)
	}
}

// PrintReview writes a weekly review.
func PrintReview(w io.Writer, r queries.WeeklyReviewDTO) {
	fmt.Fprintf(w, "Week %s .. %s\n", r.WeekStart, r.WeekEnd)
	fmt.Fprintln(w, strings.Repeat("-", 60))
	fmt.Fprintf(w, "Completed:  %d/%d (%d%%)\n", r.CompletedTasks, r.TotalTasks, r.CompletionRate)
	fmt.Fprintf(w, "Time spent: %d min\n", r.TotalMinutes)
	fmt.Fprintf(w, "\nBy area:\n%s\n", r.Breakdown)
	fmt.Fprintf(w, "\nAchievements:\n%s\n", r.Achievements)
	if r.Goals != "" {
		fmt.Fprintf(w, "\nGoals:\n%s\n", r.Goals)
	}
}
