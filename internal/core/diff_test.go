package core

import (
	"testing"

	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestDeriveChangesEmptyUpdate(t *testing.T) {
	old := models.Task{Title: "x", Status: models.StatusTodo, Priority: models.PriorityLow}

	if changes := DeriveChanges(old, models.TaskUpdate{}); len(changes) != 0 {
		t.Fatalf("empty update must derive no changes, got %d", len(changes))
	}
}

func TestDeriveChangesSameValues(t *testing.T) {
	due := "2025-07-01"
	old := models.Task{
		Title:     "x",
		Status:    models.StatusTodo,
		Priority:  models.PriorityLow,
		EndDate:   &due,
		Assignees: []string{"Ada"},
	}

	status := models.StatusTodo
	priority := models.PriorityLow
	assignees := []string{"Ada"}
	var u models.TaskUpdate
	u.Status = &status
	u.Priority = &priority
	u.Assignees = &assignees
	u.SetEndDate(&due)

	if changes := DeriveChanges(old, u); len(changes) != 0 {
		t.Fatalf("update to identical values must derive no changes, got %+v", changes)
	}
}

func TestDeriveStatusChange(t *testing.T) {
	old := models.Task{Title: "x", Status: models.StatusTodo}
	status := models.StatusReview

	changes := DeriveChanges(old, models.TaskUpdate{Status: &status})
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	c := changes[0]
	if c.Type != models.EventStatusChanged {
		t.Errorf("expected %s, got %s", models.EventStatusChanged, c.Type)
	}
	if *c.OldStatus != models.StatusTodo || *c.NewStatus != models.StatusReview {
		t.Errorf("wrong transition: %v -> %v", *c.OldStatus, *c.NewStatus)
	}
}

func TestDerivePriorityChange(t *testing.T) {
	old := models.Task{Title: "x", Priority: models.PriorityLow}
	priority := models.PriorityCritical

	changes := DeriveChanges(old, models.TaskUpdate{Priority: &priority})
	if len(changes) != 1 || changes[0].Type != models.EventPriorityChanged {
		t.Fatalf("expected one Priority Changed, got %+v", changes)
	}
	if *changes[0].OldPriority != models.PriorityLow || *changes[0].NewPriority != models.PriorityCritical {
		t.Errorf("wrong transition: %v -> %v", *changes[0].OldPriority, *changes[0].NewPriority)
	}
}

func TestDeriveDateChanges(t *testing.T) {
	start := "2025-06-01"
	old := models.Task{Title: "x", StartDate: &start}

	var u models.TaskUpdate
	u.SetStartDate(strPtr("2025-06-10"))
	u.SetEndDate(strPtr("2025-07-01"))

	changes := DeriveChanges(old, u)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	// Due date is visited before start date.
	if changes[0].Type != models.EventDueDateChanged {
		t.Errorf("expected %s first, got %s", models.EventDueDateChanged, changes[0].Type)
	}
	if changes[0].OldDueDate != nil {
		t.Errorf("expected nil old_due_date, got %v", *changes[0].OldDueDate)
	}
	if changes[1].Type != models.EventStartDateChanged {
		t.Errorf("expected %s second, got %s", models.EventStartDateChanged, changes[1].Type)
	}
	if *changes[1].OldStartDate != start || *changes[1].NewStartDate != "2025-06-10" {
		t.Errorf("wrong start transition: %v -> %v", changes[1].OldStartDate, changes[1].NewStartDate)
	}
}

func TestDeriveNameChange(t *testing.T) {
	old := models.Task{Name: "before", Title: "before"}
	name := "after"

	changes := DeriveChanges(old, models.TaskUpdate{Name: &name})
	if len(changes) != 1 || changes[0].Type != models.EventTaskNameChanged {
		t.Fatalf("expected one Task Name Changed, got %+v", changes)
	}
	if *changes[0].OldName != "before" || *changes[0].NewName != "after" {
		t.Errorf("wrong transition: %v -> %v", *changes[0].OldName, *changes[0].NewName)
	}
}

func TestDeriveDescriptionChange(t *testing.T) {
	old := models.Task{Title: "x", Description: "short"}
	desc := "much longer"

	changes := DeriveChanges(old, models.TaskUpdate{Description: &desc})
	if len(changes) != 1 || changes[0].Type != models.EventDescriptionUpdated {
		t.Fatalf("expected one Description Updated, got %+v", changes)
	}
	// The payload is a flag, never the text itself.
	if !changes[0].DescriptionChanged {
		t.Error("expected description_changed flag")
	}
	if changes[0].Description != "" || changes[0].OldValue != nil || changes[0].NewValue != nil {
		t.Error("description payload must not carry the text")
	}
}

func TestDeriveArchivedChange(t *testing.T) {
	old := models.Task{Title: "x"}
	archived := true

	changes := DeriveChanges(old, models.TaskUpdate{Archived: &archived})
	if len(changes) != 1 || changes[0].Type != models.EventTaskArchived {
		t.Fatalf("expected one Task Archived, got %+v", changes)
	}
	if changes[0].Archived == nil || !*changes[0].Archived {
		t.Error("expected archived flag in payload")
	}
}

func TestDeriveGenericFieldChanges(t *testing.T) {
	old := models.Task{Title: "x", Order: 2, Dependencies: models.NewIDSet("dep-1")}

	order := 5
	committed := true
	tags := []string{"infra"}
	deps := models.NewIDSet("dep-1", "dep-2")
	u := models.TaskUpdate{
		Order:        &order,
		Committed:    &committed,
		Tags:         &tags,
		Dependencies: &deps,
	}

	changes := DeriveChanges(old, u)
	if len(changes) != 4 {
		t.Fatalf("expected 4 changes, got %d: %+v", len(changes), changes)
	}
	byField := map[string]models.Change{}
	for _, c := range changes {
		if c.Type != models.EventTaskUpdated {
			t.Errorf("expected generic %s, got %s", models.EventTaskUpdated, c.Type)
		}
		byField[c.Field] = c
	}
	if c := byField["order"]; c.OldValue != 2 || c.NewValue != 5 {
		t.Errorf("wrong order transition: %v -> %v", c.OldValue, c.NewValue)
	}
	if c := byField["committed"]; c.OldValue != false || c.NewValue != true {
		t.Errorf("wrong committed transition: %v -> %v", c.OldValue, c.NewValue)
	}
	// Dependencies ride in their comma-joined storage form.
	if c := byField["dependencies"]; c.OldValue != "dep-1" || c.NewValue != "dep-1,dep-2" {
		t.Errorf("wrong dependencies transition: %v -> %v", c.OldValue, c.NewValue)
	}
}

func TestAssigneeChangeShapes(t *testing.T) {
	tests := []struct {
		name    string
		old     []string
		updated []string
		want    models.EventType
	}{
		{"added", nil, []string{"Ada"}, models.EventAssigneeAdded},
		{"removed", []string{"Ada"}, nil, models.EventAssigneeRemoved},
		{"changed", []string{"Ada"}, []string{"Grace"}, models.EventAssigneeChanged},
		{"reordered", []string{"Ada", "Grace"}, []string{"Grace", "Ada"}, models.EventAssigneeChanged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			old := models.Task{Title: "x", Assignees: tt.old}
			updated := tt.updated
			if updated == nil {
				updated = []string{}
			}
			changes := DeriveChanges(old, models.TaskUpdate{Assignees: &updated})
			if len(changes) != 1 {
				t.Fatalf("expected 1 change, got %d", len(changes))
			}
			if changes[0].Type != tt.want {
				t.Errorf("expected %s, got %s", tt.want, changes[0].Type)
			}
		})
	}
}
