package models

import "encoding/json"

// EventType identifies the kind of change an activity entry records.
type EventType string

const (
	EventTaskCreated         EventType = "Task Created"
	EventTaskUpdated         EventType = "Task Updated"
	EventTaskDeleted         EventType = "Task Deleted"
	EventTaskArchived        EventType = "Task Archived"
	EventStatusChanged       EventType = "Status Changed"
	EventPriorityChanged     EventType = "Priority Changed"
	EventDueDateChanged      EventType = "Due Date Changed"
	EventStartDateChanged    EventType = "Start Date Changed"
	EventAssigneeChanged     EventType = "Assignee Changed"
	EventAssigneeAdded       EventType = "Assignee Added"
	EventAssigneeRemoved     EventType = "Assignee Removed"
	EventTaskNameChanged     EventType = "Task Name Changed"
	EventDescriptionUpdated  EventType = "Description Updated"
	EventDefaultTasksRemoved EventType = "Default Tasks Removed"
)

// SystemTaskID is the sentinel task_id used for events that are not scoped
// to a single task.
const SystemTaskID = "system"

// SystemTaskName is the denormalized task name used with SystemTaskID.
const SystemTaskName = "System"

// Change is the payload of one activity entry. Which fields are populated
// depends on Type; the zero fields are omitted from the serialized form so
// each payload carries exactly the shape its event type defines.
type Change struct {
	Type EventType `json:"type,omitempty"`

	// Task Created snapshot.
	Name        string   `json:"name,omitempty"`
	Status      Status   `json:"status,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
	Description string   `json:"description,omitempty"`

	// Field transitions.
	OldStatus        *Status   `json:"old_status,omitempty"`
	NewStatus        *Status   `json:"new_status,omitempty"`
	OldPriority      *Priority `json:"old_priority,omitempty"`
	NewPriority      *Priority `json:"new_priority,omitempty"`
	OldDueDate       *string   `json:"old_due_date,omitempty"`
	NewDueDate       *string   `json:"new_due_date,omitempty"`
	OldStartDate     *string   `json:"old_start_date,omitempty"`
	NewStartDate     *string   `json:"new_start_date,omitempty"`
	OldName          *string   `json:"old_name,omitempty"`
	NewName          *string   `json:"new_name,omitempty"`
	OldAssignees     []string  `json:"old_assignee,omitempty"`
	NewAssignees     []string  `json:"new_assignee,omitempty"`
	AssigneesAdded   []string  `json:"assignees_added,omitempty"`
	AssigneesRemoved []string  `json:"assignees_removed,omitempty"`

	Archived           *bool `json:"archived,omitempty"`
	DescriptionChanged bool  `json:"description_changed,omitempty"`

	// Generic fallback carrying the raw before/after values.
	Field    string `json:"field,omitempty"`
	OldValue any    `json:"old_value,omitempty"`
	NewValue any    `json:"new_value,omitempty"`

	// Deletion and system events.
	Deleted bool   `json:"deleted,omitempty"`
	Action  string `json:"action,omitempty"`
}

// Encode serializes the change payload to its storage form.
func (c Change) Encode() string {
	data, err := json.Marshal(c)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// DecodeChange parses a serialized change payload. Malformed payloads decode
// to the zero Change rather than failing; the audit trail is display-only.
func DecodeChange(raw string) Change {
	var c Change
	_ = json.Unmarshal([]byte(raw), &c)
	return c
}

// ActivityLog is one immutable entry in the audit trail. Entries are
// append-only: nothing updates or deletes them, and deleting a task does not
// cascade into its history.
type ActivityLog struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	TaskName  string    `json:"task_name,omitempty"`
	EventType EventType `json:"event_type"`
	Changes   string    `json:"changes"`
	CreatedAt string    `json:"created_at"`
	UserID    string    `json:"user_id"`
}
