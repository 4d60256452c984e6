package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Browse the activity trail",
}

var activityRecentLimit int

var activityRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent activity entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := Activities.GetRecent(activityRecentLimit)
		if len(entries) == 0 {
			fmt.Println("No activity yet")
			return nil
		}
		printActivity(entries)
		return nil
	},
}

var activityTaskCmd = &cobra.Command{
	Use:   "task <task-id>",
	Short: "Show the full history of one task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := Activities.GetByTaskID(args[0])
		if len(entries) == 0 {
			fmt.Printf("No activity for task %s\n", args[0])
			return nil
		}
		printActivity(entries)
		return nil
	},
}

func printActivity(entries []models.ActivityLog) {
	for _, e := range entries {
		fmt.Printf("%s  %-22s %s\n", e.CreatedAt, e.EventType, e.TaskName)
		if detail := describeChange(e); detail != "" {
			fmt.Printf("    %s\n", detail)
		}
	}
}

// describeChange renders a one-line summary of an entry's payload.
func describeChange(e models.ActivityLog) string {
	c := models.DecodeChange(e.Changes)
	switch e.EventType {
	case models.EventStatusChanged:
		if c.OldStatus != nil && c.NewStatus != nil {
			return fmt.Sprintf("%s -> %s", *c.OldStatus, *c.NewStatus)
		}
	case models.EventPriorityChanged:
		if c.OldPriority != nil && c.NewPriority != nil {
			return fmt.Sprintf("%s -> %s", *c.OldPriority, *c.NewPriority)
		}
	case models.EventDueDateChanged:
		return fmt.Sprintf("%s -> %s", dateOrNone(c.OldDueDate), dateOrNone(c.NewDueDate))
	case models.EventStartDateChanged:
		return fmt.Sprintf("%s -> %s", dateOrNone(c.OldStartDate), dateOrNone(c.NewStartDate))
	case models.EventTaskNameChanged:
		if c.OldName != nil && c.NewName != nil {
			return fmt.Sprintf("%q -> %q", *c.OldName, *c.NewName)
		}
	case models.EventAssigneeAdded:
		return fmt.Sprintf("added: %v", c.AssigneesAdded)
	case models.EventAssigneeRemoved:
		return fmt.Sprintf("removed: %v", c.AssigneesRemoved)
	case models.EventAssigneeChanged:
		return fmt.Sprintf("%v -> %v", c.OldAssignees, c.NewAssignees)
	case models.EventTaskUpdated:
		return fmt.Sprintf("%s: %v -> %v", c.Field, c.OldValue, c.NewValue)
	}
	return ""
}

func dateOrNone(d *string) string {
	if d == nil {
		return "none"
	}
	return *d
}

func init() {
	activityRecentCmd.Flags().IntVarP(&activityRecentLimit, "limit", "n", 10, "number of entries to show")
	activityCmd.AddCommand(activityRecentCmd)
	activityCmd.AddCommand(activityTaskCmd)
	rootCmd.AddCommand(activityCmd)
}
