package core

import (
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// DeriveChanges computes the activity payloads produced by applying a partial
// update to a task. It is a pure function: one typed change per field whose
// value actually differs, nothing for no-op fields. Fields are visited in a
// fixed order so the derived sequence is deterministic.
func DeriveChanges(old models.Task, u models.TaskUpdate) []models.Change {
	var changes []models.Change

	if u.Status != nil && *u.Status != old.Status {
		oldStatus := old.Status
		changes = append(changes, models.Change{
			Type:      models.EventStatusChanged,
			OldStatus: &oldStatus,
			NewStatus: u.Status,
		})
	}

	if u.Priority != nil && *u.Priority != old.Priority {
		oldPriority := old.Priority
		changes = append(changes, models.Change{
			Type:        models.EventPriorityChanged,
			OldPriority: &oldPriority,
			NewPriority: u.Priority,
		})
	}

	if u.EndDate != nil && !datesEqual(old.EndDate, *u.EndDate) {
		changes = append(changes, models.Change{
			Type:       models.EventDueDateChanged,
			OldDueDate: old.EndDate,
			NewDueDate: *u.EndDate,
		})
	}

	if u.StartDate != nil && !datesEqual(old.StartDate, *u.StartDate) {
		changes = append(changes, models.Change{
			Type:         models.EventStartDateChanged,
			OldStartDate: old.StartDate,
			NewStartDate: *u.StartDate,
		})
	}

	if u.Assignees != nil && !stringsEqual(old.Assignees, *u.Assignees) {
		changes = append(changes, assigneeChange(old.Assignees, *u.Assignees))
	}

	if u.Archived != nil && *u.Archived != old.Archived {
		changes = append(changes, models.Change{
			Type:     models.EventTaskArchived,
			Archived: u.Archived,
		})
	}

	if u.Name != nil && *u.Name != old.Name {
		oldName := old.Name
		changes = append(changes, models.Change{
			Type:    models.EventTaskNameChanged,
			OldName: &oldName,
			NewName: u.Name,
		})
	}

	if u.Title != nil && *u.Title != old.Title {
		oldTitle := old.Title
		changes = append(changes, models.Change{
			Type:    models.EventTaskNameChanged,
			OldName: &oldTitle,
			NewName: u.Title,
		})
	}

	if u.Description != nil && *u.Description != old.Description {
		changes = append(changes, models.Change{
			Type:               models.EventDescriptionUpdated,
			DescriptionChanged: true,
		})
	}

	// Everything else falls through to the generic shape carrying the raw
	// before and after values.
	if u.ActualStartDate != nil && !datesEqual(old.ActualStartDate, *u.ActualStartDate) {
		changes = append(changes, genericChange("actual_start_date", dateValue(old.ActualStartDate), dateValue(*u.ActualStartDate)))
	}
	if u.ActualEndDate != nil && !datesEqual(old.ActualEndDate, *u.ActualEndDate) {
		changes = append(changes, genericChange("actual_end_date", dateValue(old.ActualEndDate), dateValue(*u.ActualEndDate)))
	}
	if u.ParentID != nil && *u.ParentID != old.ParentID {
		changes = append(changes, genericChange("parent_id", old.ParentID, *u.ParentID))
	}
	if u.Tags != nil && !stringsEqual(old.Tags, *u.Tags) {
		changes = append(changes, genericChange("tags", old.Tags, *u.Tags))
	}
	if u.Order != nil && *u.Order != old.Order {
		changes = append(changes, genericChange("order", old.Order, *u.Order))
	}
	if u.Committed != nil && *u.Committed != old.Committed {
		changes = append(changes, genericChange("committed", old.Committed, *u.Committed))
	}
	if u.Dependencies != nil && !old.Dependencies.Equal(*u.Dependencies) {
		changes = append(changes, genericChange("dependencies", old.Dependencies.String(), u.Dependencies.String()))
	}

	return changes
}

// assigneeChange applies the set-transition rules: empty to non-empty is an
// addition, non-empty to empty a removal, anything else a change carrying
// both raw lists.
func assigneeChange(oldList, newList []string) models.Change {
	switch {
	case len(oldList) == 0 && len(newList) > 0:
		return models.Change{
			Type:           models.EventAssigneeAdded,
			AssigneesAdded: newList,
		}
	case len(oldList) > 0 && len(newList) == 0:
		return models.Change{
			Type:             models.EventAssigneeRemoved,
			AssigneesRemoved: oldList,
		}
	default:
		return models.Change{
			Type:         models.EventAssigneeChanged,
			OldAssignees: oldList,
			NewAssignees: newList,
		}
	}
}

func genericChange(field string, oldValue, newValue any) models.Change {
	return models.Change{
		Type:     models.EventTaskUpdated,
		Field:    field,
		OldValue: oldValue,
		NewValue: newValue,
	}
}

func datesEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func dateValue(d *string) any {
	if d == nil {
		return nil
	}
	return *d
}

func stringsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
