package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage tasks (create, list, show, update, move, delete, archive, reorder)",
	Long: `Unified task management commands.

Create tasks, move them across board columns, edit fields, archive or delete
them, and reorder columns. Every field change is recorded in the activity
trail.`,
}

var (
	taskCreateDescription string
	taskCreateStatus      string
	taskCreatePriority    string
	taskCreateTags        []string
	taskCreateAssignees   []string
	taskCreateParent      string
	taskCreateStart       string
	taskCreateEnd         string
	taskCreateDependsOn   []string
)

var taskCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new task",
	Long: `Create a new task with the given title.

The task lands in the default column unless --status is given. Defaults for
priority and status come from .boardlyrc.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Tasks == nil {
			return fmt.Errorf("task store not initialized")
		}

		title := args[0]
		status := Cfg.DefaultStatus
		if taskCreateStatus != "" {
			status = models.Status(taskCreateStatus)
		}
		priority := Cfg.DefaultPriority
		if taskCreatePriority != "" {
			priority = models.Priority(taskCreatePriority)
		}

		draft := models.Task{
			Title:        title,
			Name:         title,
			Description:  taskCreateDescription,
			Status:       status,
			Priority:     priority,
			Tags:         taskCreateTags,
			Assignees:    taskCreateAssignees,
			ParentID:     taskCreateParent,
			Dependencies: models.NewIDSet(taskCreateDependsOn...),
		}
		if taskCreateStart != "" {
			draft.StartDate = &taskCreateStart
		}
		if taskCreateEnd != "" {
			draft.EndDate = &taskCreateEnd
		}

		task, err := Tasks.Create(draft)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		// Creating a task with assignees also feeds the autocomplete cache.
		for _, name := range task.Assignees {
			_ = Users.AddUser(name)
		}

		fmt.Printf("Created task %s\n", task.ID)
		fmt.Printf("  Status:   %s\n", task.Status)
		fmt.Printf("  Priority: %s\n", task.Priority)
		if task.EndDate != nil {
			fmt.Printf("  Due:      %s\n", *task.EndDate)
		}
		return nil
	},
}

var (
	taskListStatus   string
	taskListAll      bool
	taskListTopLevel bool
)

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks grouped by board column",
	RunE: func(cmd *cobra.Command, args []string) error {
		if taskListStatus != "" {
			tasks := Tasks.GetByStatus(models.Status(taskListStatus))
			printTaskGroup(models.Status(taskListStatus), tasks)
			return nil
		}
		if taskListTopLevel {
			for _, status := range Cfg.Columns {
				var group []models.Task
				for _, t := range Tasks.GetTopLevel() {
					if t.Status == status {
						group = append(group, t)
					}
				}
				printTaskGroup(status, group)
			}
			return nil
		}

		all := Tasks.GetAll()
		for _, status := range Cfg.Columns {
			var group []models.Task
			for _, t := range all {
				if t.Status != status {
					continue
				}
				if t.Archived && !taskListAll {
					continue
				}
				group = append(group, t)
			}
			printTaskGroup(status, group)
		}
		return nil
	},
}

func printTaskGroup(status models.Status, tasks []models.Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
	fmt.Printf("%s (%d)\n", status, len(tasks))
	for _, t := range tasks {
		marker := " "
		if t.Archived {
			marker = "A"
		}
		fmt.Printf("  [%s] %-8s %s  %s\n", marker, t.Priority, t.ID, t.DisplayName())
	}
}

var taskShowCmd = &cobra.Command{
	Use:   "show <task-id>",
	Short: "Show full task details and recent history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := Tasks.GetByID(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", task.DisplayName())
		fmt.Printf("  ID:        %s\n", task.ID)
		fmt.Printf("  Status:    %s\n", task.Status)
		fmt.Printf("  Priority:  %s\n", task.Priority)
		if len(task.Tags) > 0 {
			fmt.Printf("  Tags:      %s\n", strings.Join(task.Tags, ", "))
		}
		if len(task.Assignees) > 0 {
			fmt.Printf("  Assignees: %s\n", strings.Join(task.Assignees, ", "))
		}
		if task.ParentID != "" {
			fmt.Printf("  Parent:    %s\n", task.ParentID)
		}
		if len(task.Dependencies) > 0 {
			fmt.Printf("  Depends:   %s\n", strings.Join(task.Dependencies, ", "))
		}
		printDate := func(label string, d *string) {
			if d != nil {
				fmt.Printf("  %-9s %s\n", label+":", *d)
			}
		}
		printDate("Start", task.StartDate)
		printDate("Due", task.EndDate)
		printDate("Started", task.ActualStartDate)
		printDate("Finished", task.ActualEndDate)
		fmt.Printf("  Archived:  %v\n", task.Archived)
		fmt.Printf("  Created:   %s\n", task.CreatedAt)
		fmt.Printf("  Updated:   %s\n", task.UpdatedAt)
		if task.Description != "" {
			fmt.Printf("\n%s\n", task.Description)
		}

		children := Tasks.GetChildren(task.ID)
		if len(children) > 0 {
			fmt.Printf("\nSubtasks:\n")
			for _, c := range children {
				fmt.Printf("  %s  %s (%s)\n", c.ID, c.DisplayName(), c.Status)
			}
		}

		history := Activities.GetByTaskID(task.ID)
		if len(history) > 0 {
			fmt.Printf("\nHistory:\n")
			for _, e := range history {
				fmt.Printf("  %s  %s\n", e.CreatedAt, e.EventType)
			}
		}
		return nil
	},
}

var (
	taskUpdateTitle       string
	taskUpdateDescription string
	taskUpdateStatus      string
	taskUpdatePriority    string
	taskUpdateTags        []string
	taskUpdateAssignees   []string
	taskUpdateParent      string
	taskUpdateStart       string
	taskUpdateEnd         string
	taskUpdateDependsOn   []string
	taskUpdateCommitted   bool
)

var taskUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update task fields",
	Long: `Update one or more fields of a task. Only flags that are given change
anything; each changed field is recorded as its own activity entry. Date
flags accept YYYY-MM-DD, or an empty string to clear the date.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var u models.TaskUpdate
		flags := cmd.Flags()

		if flags.Changed("title") {
			u.Title = &taskUpdateTitle
			u.Name = &taskUpdateTitle
		}
		if flags.Changed("description") {
			u.Description = &taskUpdateDescription
		}
		if flags.Changed("status") {
			status := models.Status(taskUpdateStatus)
			u.Status = &status
		}
		if flags.Changed("priority") {
			priority := models.Priority(taskUpdatePriority)
			u.Priority = &priority
		}
		if flags.Changed("tags") {
			u.Tags = &taskUpdateTags
		}
		if flags.Changed("assignees") {
			u.Assignees = &taskUpdateAssignees
		}
		if flags.Changed("parent") {
			u.ParentID = &taskUpdateParent
		}
		if flags.Changed("start") {
			u.SetStartDate(datePtr(taskUpdateStart))
		}
		if flags.Changed("due") {
			u.SetEndDate(datePtr(taskUpdateEnd))
		}
		if flags.Changed("depends-on") {
			deps := models.NewIDSet(taskUpdateDependsOn...)
			u.Dependencies = &deps
		}
		if flags.Changed("committed") {
			u.Committed = &taskUpdateCommitted
		}

		task, err := Tasks.Update(args[0], u)
		if err != nil {
			return fmt.Errorf("updating task %s: %w", args[0], err)
		}

		if u.Assignees != nil {
			for _, name := range *u.Assignees {
				_ = Users.AddUser(name)
			}
		}

		fmt.Printf("Updated task %s\n", task.ID)
		return nil
	},
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <task-id> <status>",
	Short: "Move a task to another board column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := models.Status(args[1])
		task, err := Tasks.Update(args[0], models.TaskUpdate{Status: &status})
		if err != nil {
			return fmt.Errorf("moving task %s: %w", args[0], err)
		}
		fmt.Printf("Moved %s to %s\n", task.ID, task.Status)
		return nil
	},
}

var taskDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Permanently delete a task",
	Long: `Permanently remove a task. Its activity history is kept and its subtasks
are left in place (they keep their parent reference). Prefer archive for
reversible removal.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Tasks.Delete(args[0]); err != nil {
			return fmt.Errorf("deleting task %s: %w", args[0], err)
		}
		fmt.Printf("Deleted task %s\n", args[0])
		return nil
	},
}

var taskArchiveCmd = &cobra.Command{
	Use:   "archive <task-id>",
	Short: "Archive a task",
	Long: `Archive a task: it disappears from column views but stays on record and
keeps its history.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := Tasks.Archive(args[0])
		if err != nil {
			return fmt.Errorf("archiving task %s: %w", args[0], err)
		}
		fmt.Printf("Archived task %s\n", task.ID)
		return nil
	},
}

var taskReorderCmd = &cobra.Command{
	Use:   "reorder <task-id>...",
	Short: "Reorder tasks within their columns",
	Long: `Assign positions to the listed tasks in the order given: the first gets
position 0, the second 1, and so on. Tasks not listed keep their position.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Tasks.Reorder(args); err != nil {
			return fmt.Errorf("reordering tasks: %w", err)
		}
		fmt.Printf("Reordered %d tasks\n", len(args))
		return nil
	},
}

var taskRemoveDefaultsCmd = &cobra.Command{
	Use:   "remove-defaults",
	Short: "Remove the onboarding sample tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := Tasks.RemoveDefaultTasks(); err != nil {
			return fmt.Errorf("removing default tasks: %w", err)
		}
		fmt.Println("Removed default tasks")
		return nil
	},
}

// datePtr maps an empty flag value to nil (clear the date).
func datePtr(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func init() {
	taskCreateCmd.Flags().StringVarP(&taskCreateDescription, "description", "d", "", "task description")
	taskCreateCmd.Flags().StringVarP(&taskCreateStatus, "status", "s", "", "board column (default from .boardlyrc)")
	taskCreateCmd.Flags().StringVarP(&taskCreatePriority, "priority", "p", "", "priority: Low, Medium, High, Critical")
	taskCreateCmd.Flags().StringSliceVar(&taskCreateTags, "tags", nil, "comma-separated tags")
	taskCreateCmd.Flags().StringSliceVar(&taskCreateAssignees, "assignees", nil, "comma-separated assignee names")
	taskCreateCmd.Flags().StringVar(&taskCreateParent, "parent", "", "parent task ID")
	taskCreateCmd.Flags().StringVar(&taskCreateStart, "start", "", "start date (YYYY-MM-DD)")
	taskCreateCmd.Flags().StringVar(&taskCreateEnd, "due", "", "due date (YYYY-MM-DD)")
	taskCreateCmd.Flags().StringSliceVar(&taskCreateDependsOn, "depends-on", nil, "comma-separated task IDs this task depends on")

	taskListCmd.Flags().StringVarP(&taskListStatus, "status", "s", "", "only list one board column")
	taskListCmd.Flags().BoolVarP(&taskListAll, "all", "a", false, "include archived tasks")
	taskListCmd.Flags().BoolVar(&taskListTopLevel, "top-level", false, "only list tasks without a parent")

	taskUpdateCmd.Flags().StringVar(&taskUpdateTitle, "title", "", "new title")
	taskUpdateCmd.Flags().StringVarP(&taskUpdateDescription, "description", "d", "", "new description")
	taskUpdateCmd.Flags().StringVarP(&taskUpdateStatus, "status", "s", "", "new board column")
	taskUpdateCmd.Flags().StringVarP(&taskUpdatePriority, "priority", "p", "", "new priority")
	taskUpdateCmd.Flags().StringSliceVar(&taskUpdateTags, "tags", nil, "replacement tag list")
	taskUpdateCmd.Flags().StringSliceVar(&taskUpdateAssignees, "assignees", nil, "replacement assignee list")
	taskUpdateCmd.Flags().StringVar(&taskUpdateParent, "parent", "", "new parent task ID (empty to detach)")
	taskUpdateCmd.Flags().StringVar(&taskUpdateStart, "start", "", "new start date (empty to clear)")
	taskUpdateCmd.Flags().StringVar(&taskUpdateEnd, "due", "", "new due date (empty to clear)")
	taskUpdateCmd.Flags().StringSliceVar(&taskUpdateDependsOn, "depends-on", nil, "replacement dependency list")
	taskUpdateCmd.Flags().BoolVar(&taskUpdateCommitted, "committed", false, "lock the task to the timeline")

	taskCmd.AddCommand(taskCreateCmd)
	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskShowCmd)
	taskCmd.AddCommand(taskUpdateCmd)
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskDeleteCmd)
	taskCmd.AddCommand(taskArchiveCmd)
	taskCmd.AddCommand(taskReorderCmd)
	taskCmd.AddCommand(taskRemoveDefaultsCmd)
	rootCmd.AddCommand(taskCmd)
}
