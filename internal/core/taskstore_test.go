package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/cosmic-jellyfish/boardly/internal/storage"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// fakeClock hands out strictly increasing times so timestamp ordering is
// deterministic in tests.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

// seqIDs generates predictable sequential IDs.
type seqIDs struct {
	n int
}

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("id-%04d", s.n)
}

// helper to build a task store over an in-memory substrate.
func setupTaskStore(t *testing.T) (TaskStore, ActivityStore, storage.KV) {
	t.Helper()
	kv := storage.NewMemoryKV()
	ids := &seqIDs{}
	activities := NewActivityStore(kv, ids)
	tasks := NewTaskStore(kv, activities, ids, newFakeClock(), "")
	return tasks, activities, kv
}

func mustCreate(t *testing.T, tasks TaskStore, draft models.Task) *models.Task {
	t.Helper()
	created, err := tasks.Create(draft)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return created
}

func TestCreateTask(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)

	created := mustCreate(t, tasks, models.Task{
		Title:    "Write release notes",
		Status:   models.StatusTodo,
		Priority: models.PriorityMedium,
	})

	if created.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if created.CreatedAt == "" || created.CreatedAt != created.UpdatedAt {
		t.Errorf("expected created_at == updated_at, got %q and %q", created.CreatedAt, created.UpdatedAt)
	}
	if created.Tags == nil || created.Assignees == nil {
		t.Error("expected tags and assignees to be non-nil")
	}

	entries := activities.GetAll()
	if len(entries) != 1 {
		t.Fatalf("expected 1 activity entry, got %d", len(entries))
	}
	if entries[0].EventType != models.EventTaskCreated {
		t.Errorf("expected %s event, got %s", models.EventTaskCreated, entries[0].EventType)
	}
	change := models.DecodeChange(entries[0].Changes)
	if change.Name != "Write release notes" {
		t.Errorf("expected snapshot name in payload, got %q", change.Name)
	}
	if entries[0].UserID != models.LocalUserID {
		t.Errorf("expected user_id %q, got %q", models.LocalUserID, entries[0].UserID)
	}
}

func TestCreateRequiresDisplayText(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)

	_, err := tasks.Create(models.Task{Status: models.StatusTodo})
	if err == nil {
		t.Fatal("expected error for task without title or name")
	}
	if !IsValidation(err) {
		t.Errorf("expected ValidationError, got %T: %v", err, err)
	}
	if len(activities.GetAll()) != 0 {
		t.Error("rejected create must not record activity")
	}
}

func TestGetByID(t *testing.T) {
	tasks, _, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "one"})

	got, err := tasks.GetByID(created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Title != "one" {
		t.Errorf("expected title %q, got %q", "one", got.Title)
	}

	_, err = tasks.GetByID("missing")
	if !IsNotFound(err) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestUpdateStatusRecordsOneEvent(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "move me", Status: models.StatusTodo})

	status := models.StatusInProgress
	updated, err := tasks.Update(created.ID, models.TaskUpdate{Status: &status})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("expected status in-progress, got %s", updated.Status)
	}
	if updated.UpdatedAt <= created.UpdatedAt {
		t.Errorf("expected updated_at to advance: %q vs %q", updated.UpdatedAt, created.UpdatedAt)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Error("created_at must not change on update")
	}

	entries := activities.GetByTaskID(created.ID)
	// One create event plus one status change.
	if len(entries) != 2 {
		t.Fatalf("expected 2 activity entries, got %d", len(entries))
	}
	if entries[0].EventType != models.EventStatusChanged {
		t.Errorf("expected newest event %s, got %s", models.EventStatusChanged, entries[0].EventType)
	}
	change := models.DecodeChange(entries[0].Changes)
	if change.OldStatus == nil || *change.OldStatus != models.StatusTodo {
		t.Errorf("expected old_status todo, got %v", change.OldStatus)
	}
	if change.NewStatus == nil || *change.NewStatus != models.StatusInProgress {
		t.Errorf("expected new_status in-progress, got %v", change.NewStatus)
	}
}

func TestUpdateNoopRecordsNoEvents(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "static", Status: models.StatusTodo})

	before := len(activities.GetAll())

	status := models.StatusTodo
	if _, err := tasks.Update(created.ID, models.TaskUpdate{Status: &status}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := tasks.Update(created.ID, models.TaskUpdate{}); err != nil {
		t.Fatalf("empty Update failed: %v", err)
	}

	if after := len(activities.GetAll()); after != before {
		t.Errorf("no-op updates must not record events: %d -> %d", before, after)
	}
}

func TestUpdateNotFound(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)

	status := models.StatusReview
	_, err := tasks.Update("missing", models.TaskUpdate{Status: &status})
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(activities.GetAll()) != 0 {
		t.Error("failed update must not record activity")
	}
}

func TestArchive(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "old work", Status: models.StatusCompleted})

	archived, err := tasks.Archive(created.ID)
	if err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	if !archived.Archived {
		t.Fatal("expected task to be archived")
	}

	if got := tasks.GetByStatus(models.StatusCompleted); len(got) != 0 {
		t.Errorf("archived tasks must be excluded from GetByStatus, got %d", len(got))
	}
	if got := tasks.GetTopLevel(); len(got) != 0 {
		t.Errorf("archived tasks must be excluded from GetTopLevel, got %d", len(got))
	}
	if got := tasks.GetAll(); len(got) != 1 {
		t.Errorf("archived tasks must still appear in GetAll, got %d", len(got))
	}

	entries := activities.GetByTaskID(created.ID)
	if entries[0].EventType != models.EventTaskArchived {
		t.Errorf("expected %s event, got %s", models.EventTaskArchived, entries[0].EventType)
	}
}

func TestAssigneeTransitions(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "staffed"})

	set := func(names []string) models.EventType {
		t.Helper()
		if _, err := tasks.Update(created.ID, models.TaskUpdate{Assignees: &names}); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		entries := activities.GetByTaskID(created.ID)
		return entries[0].EventType
	}

	if got := set([]string{"Ada"}); got != models.EventAssigneeAdded {
		t.Errorf("empty to non-empty: expected %s, got %s", models.EventAssigneeAdded, got)
	}
	if got := set([]string{"Grace"}); got != models.EventAssigneeChanged {
		t.Errorf("non-empty to non-empty: expected %s, got %s", models.EventAssigneeChanged, got)
	}
	if got := set([]string{}); got != models.EventAssigneeRemoved {
		t.Errorf("non-empty to empty: expected %s, got %s", models.EventAssigneeRemoved, got)
	}
}

func TestDelete(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	created := mustCreate(t, tasks, models.Task{Title: "doomed"})

	if err := tasks.Delete(created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := tasks.GetByID(created.ID); !IsNotFound(err) {
		t.Errorf("expected NotFoundError after delete, got %v", err)
	}

	// History survives the task.
	entries := activities.GetByTaskID(created.ID)
	if len(entries) != 2 {
		t.Fatalf("expected create and delete events to survive, got %d", len(entries))
	}
	if entries[0].EventType != models.EventTaskDeleted {
		t.Errorf("expected %s event, got %s", models.EventTaskDeleted, entries[0].EventType)
	}
	change := models.DecodeChange(entries[0].Changes)
	if !change.Deleted {
		t.Error("expected deleted payload flag")
	}
}

func TestDeleteNotFound(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)

	err := tasks.Delete("missing")
	if !IsNotFound(err) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if len(activities.GetAll()) != 0 {
		t.Error("failed delete must not record activity")
	}
}

func TestDeleteKeepsChildren(t *testing.T) {
	tasks, _, _ := setupTaskStore(t)
	parent := mustCreate(t, tasks, models.Task{Title: "parent"})
	child := mustCreate(t, tasks, models.Task{Title: "child", ParentID: parent.ID})

	if err := tasks.Delete(parent.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	orphan, err := tasks.GetByID(child.ID)
	if err != nil {
		t.Fatalf("child must survive parent deletion: %v", err)
	}
	if orphan.ParentID != parent.ID {
		t.Errorf("child keeps its dangling parent reference, got %q", orphan.ParentID)
	}
}

func TestReorder(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	a := mustCreate(t, tasks, models.Task{Title: "a", Order: 0})
	b := mustCreate(t, tasks, models.Task{Title: "b", Order: 1})
	c := mustCreate(t, tasks, models.Task{Title: "c", Order: 7})

	before := len(activities.GetAll())

	if err := tasks.Reorder([]string{b.ID, a.ID}); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}

	got := map[string]int{}
	for _, task := range tasks.GetAll() {
		got[task.ID] = task.Order
	}
	if got[b.ID] != 0 || got[a.ID] != 1 {
		t.Errorf("expected b=0 a=1, got b=%d a=%d", got[b.ID], got[a.ID])
	}
	if got[c.ID] != 7 {
		t.Errorf("unlisted task must keep its order, got %d", got[c.ID])
	}
	if after := len(activities.GetAll()); after != before {
		t.Error("Reorder must not record events")
	}
}

func TestRemoveDefaultTasks(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	mustCreate(t, tasks, models.Task{Title: "seed", Tags: []string{"onboarding"}})
	mustCreate(t, tasks, models.Task{Title: "seed2", Tags: []string{"welcome", "extra"}})
	kept := mustCreate(t, tasks, models.Task{Title: "real work", Tags: []string{"backend"}})

	before := len(activities.GetAll())

	if err := tasks.RemoveDefaultTasks(); err != nil {
		t.Fatalf("RemoveDefaultTasks failed: %v", err)
	}

	remaining := tasks.GetAll()
	if len(remaining) != 1 || remaining[0].ID != kept.ID {
		t.Fatalf("expected only the untagged task to remain, got %d", len(remaining))
	}

	entries := activities.GetAll()
	if len(entries) != before+1 {
		t.Fatalf("expected exactly one summary event, got %d new", len(entries)-before)
	}
	last := entries[len(entries)-1]
	if last.EventType != models.EventDefaultTasksRemoved {
		t.Errorf("expected %s event, got %s", models.EventDefaultTasksRemoved, last.EventType)
	}
	if last.TaskID != models.SystemTaskID {
		t.Errorf("expected system task_id, got %q", last.TaskID)
	}
	change := models.DecodeChange(last.Changes)
	if change.Action != "removed_default_tasks" {
		t.Errorf("expected removed_default_tasks action, got %q", change.Action)
	}
}

func TestParentCycleRejected(t *testing.T) {
	tasks, _, _ := setupTaskStore(t)
	a := mustCreate(t, tasks, models.Task{Title: "a"})
	b := mustCreate(t, tasks, models.Task{Title: "b", ParentID: a.ID})

	// a under b closes the loop a -> b -> a.
	_, err := tasks.Update(a.ID, models.TaskUpdate{ParentID: &b.ID})
	if !IsCycle(err) {
		t.Fatalf("expected CycleError, got %v", err)
	}

	// Self-parenting.
	_, err = tasks.Update(a.ID, models.TaskUpdate{ParentID: &a.ID})
	if !IsCycle(err) {
		t.Fatalf("expected CycleError for self-parent, got %v", err)
	}

	// The rejected write must not have landed.
	got, _ := tasks.GetByID(a.ID)
	if got.ParentID != "" {
		t.Errorf("rejected cycle update must not persist, got parent %q", got.ParentID)
	}
}

func TestDependencyCycleRejected(t *testing.T) {
	tasks, _, _ := setupTaskStore(t)
	a := mustCreate(t, tasks, models.Task{Title: "a"})
	b := mustCreate(t, tasks, models.Task{Title: "b"})

	depsOnA := models.NewIDSet(a.ID)
	if _, err := tasks.Update(b.ID, models.TaskUpdate{Dependencies: &depsOnA}); err != nil {
		t.Fatalf("first dependency update failed: %v", err)
	}

	depsOnB := models.NewIDSet(b.ID)
	_, err := tasks.Update(a.ID, models.TaskUpdate{Dependencies: &depsOnB})
	if !IsCycle(err) {
		t.Fatalf("expected CycleError, got %v", err)
	}

	selfDeps := models.NewIDSet(a.ID)
	_, err = tasks.Update(a.ID, models.TaskUpdate{Dependencies: &selfDeps})
	if !IsCycle(err) {
		t.Fatalf("expected CycleError for self-dependency, got %v", err)
	}
}

func TestClearDueDate(t *testing.T) {
	tasks, activities, _ := setupTaskStore(t)
	due := "2025-07-01"
	created := mustCreate(t, tasks, models.Task{Title: "dated", EndDate: &due})

	var u models.TaskUpdate
	u.SetEndDate(nil)
	updated, err := tasks.Update(created.ID, u)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.EndDate != nil {
		t.Errorf("expected cleared end_date, got %v", *updated.EndDate)
	}

	entries := activities.GetByTaskID(created.ID)
	if entries[0].EventType != models.EventDueDateChanged {
		t.Errorf("expected %s event, got %s", models.EventDueDateChanged, entries[0].EventType)
	}
	change := models.DecodeChange(entries[0].Changes)
	if change.OldDueDate == nil || *change.OldDueDate != due {
		t.Errorf("expected old_due_date %q, got %v", due, change.OldDueDate)
	}
	if change.NewDueDate != nil {
		t.Errorf("expected nil new_due_date, got %v", *change.NewDueDate)
	}
}

func TestGetChildrenIncludesArchived(t *testing.T) {
	tasks, _, _ := setupTaskStore(t)
	parent := mustCreate(t, tasks, models.Task{Title: "parent"})
	child := mustCreate(t, tasks, models.Task{Title: "child", ParentID: parent.ID})
	mustCreate(t, tasks, models.Task{Title: "unrelated"})

	if _, err := tasks.Archive(child.ID); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	children := tasks.GetChildren(parent.ID)
	if len(children) != 1 || children[0].ID != child.ID {
		t.Fatalf("expected the archived child to be listed, got %d", len(children))
	}
}
