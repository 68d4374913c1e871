package task

import (
	"github.com/spf13/cobra"
)

// Cmd is the task command group
var Cmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks",
	Long:  `Add, rate, track and update your work items.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(fromTemplateCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(rateCmd)
	Cmd.AddCommand(noteCmd)
	Cmd.AddCommand(editCmd)
	Cmd.AddCommand(attachCmd)
	Cmd.AddCommand(detachCmd)
	Cmd.AddCommand(timerCmd)
}
