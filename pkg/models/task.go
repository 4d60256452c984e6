package models

import (
	"encoding/json"
	"sort"
	"strings"
	"time"
)

// Status represents the board column a task lives in.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// Known reports whether the status is one of the built-in board columns.
// Unknown values are preserved as-is so that data written by older or newer
// versions keeps loading.
func (s Status) Known() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}

// Statuses returns the built-in board columns in display order.
func Statuses() []Status {
	return []Status{StatusTodo, StatusInProgress, StatusReview, StatusCompleted}
}

// Priority represents the urgency level of a task.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// Known reports whether the priority is one of the built-in levels.
func (p Priority) Known() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Priorities returns the built-in priority levels from lowest to highest.
func Priorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}
}

// TimestampLayout is the fixed-width layout used for created_at/updated_at.
// Fixed width keeps lexicographic ordering equal to chronological ordering.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

// DateLayout is the layout for calendar dates (no time component).
const DateLayout = "2006-01-02"

// Timestamp formats t in UTC using TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// IDSet is an ordered, deduplicated set of task IDs. Its storage form is a
// comma-separated string, which is only produced and parsed at the JSON
// boundary; in memory it is a real set.
type IDSet []string

// NewIDSet builds a sorted, deduplicated set from the given IDs.
// Empty strings are dropped.
func NewIDSet(ids ...string) IDSet {
	seen := make(map[string]struct{}, len(ids))
	var out IDSet
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether id is a member of the set.
func (s IDSet) Contains(id string) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// Equal reports whether both sets hold the same members.
func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String returns the comma-separated storage form.
func (s IDSet) String() string {
	return strings.Join(s, ",")
}

// MarshalJSON serializes the set as its comma-separated storage form.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either the comma-separated storage form or a plain
// JSON array of IDs.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*s = NewIDSet(strings.Split(joined, ",")...)
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewIDSet(ids...)
	return nil
}

// Task is the primary persisted entity: a unit of work on the board.
//
// Title and Name duplicate the display text for legacy compatibility; at
// least one must be non-empty. ParentID and Dependencies may reference IDs
// that no longer exist; no referential integrity is enforced beyond cycle
// rejection at write time.
type Task struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Name            string   `json:"name,omitempty"`
	Description     string   `json:"description"`
	Status          Status   `json:"status"`
	Priority        Priority `json:"priority"`
	Tags            []string `json:"tags"`
	ParentID        string   `json:"parent_id,omitempty"`
	Assignees       []string `json:"assignees"`
	StartDate       *string  `json:"start_date"`
	EndDate         *string  `json:"end_date"`
	ActualStartDate *string  `json:"actual_start_date"`
	ActualEndDate   *string  `json:"actual_end_date"`
	Order           int      `json:"order"`
	Archived        bool     `json:"archived"`
	Committed       bool     `json:"committed"`
	Dependencies    IDSet    `json:"dependencies"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

// DisplayName returns the task's display text, preferring Name over Title.
func (t *Task) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.Title
}

// TaskUpdate is a partial update over a Task. Nil fields are left untouched;
// non-nil fields are merged over the existing record. Slice-valued fields use
// a pointer-to-slice so "unset" and "set to empty" stay distinguishable, and
// nullable date fields use a double pointer so "unset", "clear", and "set"
// are all expressible.
type TaskUpdate struct {
	Title           *string
	Name            *string
	Description     *string
	Status          *Status
	Priority        *Priority
	Tags            *[]string
	ParentID        *string
	Assignees       *[]string
	StartDate       **string
	EndDate         **string
	ActualStartDate **string
	ActualEndDate   **string
	Order           *int
	Archived        *bool
	Committed       *bool
	Dependencies    *IDSet
}

// SetStartDate marks the start date for update. A nil value clears it.
func (u *TaskUpdate) SetStartDate(v *string) { u.StartDate = &v }

// SetEndDate marks the end (due) date for update. A nil value clears it.
func (u *TaskUpdate) SetEndDate(v *string) { u.EndDate = &v }

// SetActualStartDate marks the actual start date for update.
func (u *TaskUpdate) SetActualStartDate(v *string) { u.ActualStartDate = &v }

// SetActualEndDate marks the actual end date for update.
func (u *TaskUpdate) SetActualEndDate(v *string) { u.ActualEndDate = &v }
