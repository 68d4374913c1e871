package template

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/atelier/adapter/cli"
	"github.com/felixgeelhaar/atelier/internal/work/application/commands"
)

// Cmd is the template command group
var Cmd = &cobra.Command{
	Use:   "template",
	Short: "Manage task templates",
	Long:  `Templates are named recipes for recurring tasks.`,
}

var (
	title         string
	area          string
	complexity    int
	collaboration int
	consequence   int
	theme         string
	priority      string
	estimate      int
	notes         string
)

var addCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a template",
	Long: `Create a template. Ratings left at zero use the baseline (3, 2, 3).

Examples:
  atelier template add weekly-report --title "Write weekly report" --area ops
  atelier template add retro --title "Run retro" -x 2 -o 5 -q 3 --theme friday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		if title == "" {
			title = args[0]
		}
		id, err := app.CreateTemplateHandler.Handle(cmd.Context(), commands.CreateTemplateCommand{
			Name:            args[0],
			Title:           title,
			WorkArea:        area,
			Complexity:      complexity,
			Collaboration:   collaboration,
			Consequence:     consequence,
			Theme:           theme,
			Priority:        priority,
			EstimateMinutes: estimate,
			Notes:           notes,
		})
		if err != nil {
			return fmt.Errorf("failed to create template: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Template created: %s\n", id)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List templates",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := cli.RequireApp()
		if err != nil {
			return err
		}
		templates, err := app.ListTemplatesHandler.Handle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list templates: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(templates) == 0 {
			fmt.Fprintln(out, "No templates found.")
			return nil
		}
		fmt.Fprintf(out, "Templates (%d):\n", len(templates))
		fmt.Fprintln(out, strings.Repeat("-", 60))
		for _, t := range templates {
			fmt.Fprintf(out, "%s  %q  %d\n", t.Name, t.Title, t.Score)
			fmt.Fprintf(out, "   ID: %s\n", t.ID)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&title, "title", "t", "", "task title (default the template name)")
	addCmd.Flags().StringVarP(&area, "area", "a", "", "work area")
	addCmd.Flags().IntVarP(&complexity, "complexity", "x", 0, "complexity 1-5")
	addCmd.Flags().IntVarP(&collaboration, "collaboration", "o", 0, "collaboration 1-5")
	addCmd.Flags().IntVarP(&consequence, "consequence", "q", 0, "consequence 1-5")
	addCmd.Flags().StringVar(&theme, "theme", "", "weekday theme")
	addCmd.Flags().StringVarP(&priority, "priority", "p", "", "priority label")
	addCmd.Flags().IntVarP(&estimate, "estimate", "e", 0, "estimate in minutes")
	addCmd.Flags().StringVar(&notes, "notes", "", "notes copied to each task")

	Cmd.AddCommand(addCmd, listCmd)
}
