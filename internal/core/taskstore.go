// Package core contains the business logic for boardly: the task, activity,
// and user stores, the diff-based activity derivation, onboarding seeding,
// import/export, and configuration.
package core

import (
	"fmt"
	"sync"

	"github.com/cosmic-jellyfish/boardly/internal/storage"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// seedTags marks onboarding seed content for bulk removal.
var seedTags = []string{"welcome", "project", "onboarding"}

// TaskStore is the public CRUD contract over tasks. Reads are fail-soft (a
// corrupt slot reads as empty); writes return errors.
type TaskStore interface {
	// GetAll returns every task, archived ones included.
	GetAll() []models.Task
	// GetByID returns the task with the given ID or a NotFoundError.
	GetByID(id string) (*models.Task, error)
	// GetByStatus returns non-archived tasks in the given column.
	GetByStatus(status models.Status) []models.Task
	// GetTopLevel returns non-archived tasks with no parent.
	GetTopLevel() []models.Task
	// GetChildren returns direct children of parentID, archived or not.
	GetChildren(parentID string) []models.Task
	// Create assigns a fresh ID and timestamps, persists the task, and
	// records a Task Created event. The draft must carry display text.
	Create(draft models.Task) (*models.Task, error)
	// Update merges the partial update over the existing record, refreshes
	// updated_at, and records one typed event per changed field.
	Update(id string, u models.TaskUpdate) (*models.Task, error)
	// Delete removes the task. Children and activity history are untouched.
	Delete(id string) error
	// Archive is shorthand for Update with archived set.
	Archive(id string) (*models.Task, error)
	// Reorder assigns each listed task's order to its index in ids. Tasks
	// not listed keep their order. No events are recorded.
	Reorder(ids []string) error
	// RemoveDefaultTasks bulk-removes onboarding seed tasks and records one
	// summary event.
	RemoveDefaultTasks() error
	// SeedOnboardingTasks creates the welcome tasks. It is a no-op unless
	// the store is empty.
	SeedOnboardingTasks() error
	// ReplaceAll overwrites the whole collection. Used by import.
	ReplaceAll(tasks []models.Task) error
}

type kvTaskStore struct {
	kv         storage.KV
	activities ActivityStore
	ids        IDGenerator
	clock      Clock
	userID     string

	// mu guards the load-mutate-save cycle.
	mu sync.Mutex
}

// NewTaskStore creates a TaskStore over the given substrate. Derived events
// are appended through activities; ids and clock supply fresh identifiers
// and timestamps; userID is the sentinel recorded on every event.
func NewTaskStore(kv storage.KV, activities ActivityStore, ids IDGenerator, clock Clock, userID string) TaskStore {
	if userID == "" {
		userID = models.LocalUserID
	}
	return &kvTaskStore{
		kv:         kv,
		activities: activities,
		ids:        ids,
		clock:      clock,
		userID:     userID,
	}
}

func (s *kvTaskStore) load() []models.Task {
	return storage.LoadSlot[models.Task](s.kv, storage.TasksSlot)
}

func (s *kvTaskStore) save(tasks []models.Task) error {
	return storage.SaveSlot(s.kv, storage.TasksSlot, tasks)
}

func (s *kvTaskStore) GetAll() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *kvTaskStore) GetByID(id string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.load() {
		if t.ID == id {
			return &t, nil
		}
	}
	return nil, &NotFoundError{Kind: "task", ID: id}
}

func (s *kvTaskStore) GetByStatus(status models.Status) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.load() {
		if t.Status == status && !t.Archived {
			out = append(out, t)
		}
	}
	return out
}

func (s *kvTaskStore) GetTopLevel() []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.load() {
		if t.ParentID == "" && !t.Archived {
			out = append(out, t)
		}
	}
	return out
}

// GetChildren deliberately includes archived children: detail views show the
// full subtree even when a child has been archived.
func (s *kvTaskStore) GetChildren(parentID string) []models.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Task
	for _, t := range s.load() {
		if t.ParentID == parentID {
			out = append(out, t)
		}
	}
	return out
}

func (s *kvTaskStore) Create(draft models.Task) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(draft)
}

func (s *kvTaskStore) createLocked(draft models.Task) (*models.Task, error) {
	if draft.Title == "" && draft.Name == "" {
		return nil, &ValidationError{Msg: "task requires a title"}
	}

	now := models.Timestamp(s.clock.Now())
	draft.ID = s.ids.NewID()
	draft.CreatedAt = now
	draft.UpdatedAt = now
	if draft.Tags == nil {
		draft.Tags = []string{}
	}
	if draft.Assignees == nil {
		draft.Assignees = []string{}
	}

	tasks := s.load()
	tasks = append(tasks, draft)
	if err := s.save(tasks); err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	change := models.Change{
		Name:        draft.DisplayName(),
		Status:      draft.Status,
		Priority:    draft.Priority,
		Description: draft.Description,
	}
	if err := s.record(models.EventTaskCreated, draft.ID, draft.DisplayName(), change); err != nil {
		return nil, err
	}

	return &draft, nil
}

func (s *kvTaskStore) Update(id string, u models.TaskUpdate) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(id, u)
}

func (s *kvTaskStore) updateLocked(id string, u models.TaskUpdate) (*models.Task, error) {
	tasks := s.load()
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, &NotFoundError{Kind: "task", ID: id}
	}

	if err := s.checkCycles(tasks, id, u); err != nil {
		return nil, err
	}

	old := tasks[idx]
	changes := DeriveChanges(old, u)

	updated := old
	applyUpdate(&updated, u)
	updated.UpdatedAt = models.Timestamp(s.clock.Now())
	tasks[idx] = updated

	if err := s.save(tasks); err != nil {
		return nil, fmt.Errorf("updating task %s: %w", id, err)
	}

	for _, change := range changes {
		if err := s.record(change.Type, id, updated.DisplayName(), change); err != nil {
			return nil, err
		}
	}

	return &updated, nil
}

func (s *kvTaskStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.load()
	idx := -1
	for i := range tasks {
		if tasks[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return &NotFoundError{Kind: "task", ID: id}
	}

	name := tasks[idx].DisplayName()
	tasks = append(tasks[:idx], tasks[idx+1:]...)
	if err := s.save(tasks); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}

	return s.record(models.EventTaskDeleted, id, name, models.Change{Deleted: true})
}

func (s *kvTaskStore) Archive(id string) (*models.Task, error) {
	archived := true
	return s.Update(id, models.TaskUpdate{Archived: &archived})
}

func (s *kvTaskStore) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	position := make(map[string]int, len(ids))
	for i, id := range ids {
		position[id] = i
	}

	tasks := s.load()
	for i := range tasks {
		if pos, ok := position[tasks[i].ID]; ok {
			tasks[i].Order = pos
		}
	}
	if err := s.save(tasks); err != nil {
		return fmt.Errorf("reordering tasks: %w", err)
	}
	return nil
}

func (s *kvTaskStore) RemoveDefaultTasks() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks := s.load()
	kept := tasks[:0]
	for _, t := range tasks {
		if !hasAnyTag(t.Tags, seedTags) {
			kept = append(kept, t)
		}
	}
	if err := s.save(kept); err != nil {
		return fmt.Errorf("removing default tasks: %w", err)
	}

	change := models.Change{Action: "removed_default_tasks"}
	return s.record(models.EventDefaultTasksRemoved, models.SystemTaskID, models.SystemTaskName, change)
}

func (s *kvTaskStore) ReplaceAll(tasks []models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(tasks)
}

// record appends one activity entry for the given event. The payload's own
// type discriminator is whatever the caller set: derived field changes carry
// one, lifecycle snapshots do not.
func (s *kvTaskStore) record(event models.EventType, taskID, taskName string, change models.Change) error {
	_, err := s.activities.Create(models.ActivityLog{
		TaskID:    taskID,
		TaskName:  taskName,
		EventType: event,
		Changes:   change.Encode(),
		CreatedAt: models.Timestamp(s.clock.Now()),
		UserID:    s.userID,
	})
	if err != nil {
		return fmt.Errorf("recording %s activity: %w", event, err)
	}
	return nil
}

// checkCycles rejects updates that would make id reachable from itself
// through the parent chain or dependency references.
func (s *kvTaskStore) checkCycles(tasks []models.Task, id string, u models.TaskUpdate) error {
	if u.ParentID != nil && *u.ParentID != "" {
		if *u.ParentID == id {
			return &CycleError{TaskID: id}
		}
		parents := make(map[string]string, len(tasks))
		for _, t := range tasks {
			parents[t.ID] = t.ParentID
		}
		seen := map[string]bool{id: true}
		for cur := *u.ParentID; cur != ""; cur = parents[cur] {
			if seen[cur] {
				return &CycleError{TaskID: id, Through: cur}
			}
			seen[cur] = true
		}
	}

	if u.Dependencies != nil {
		if u.Dependencies.Contains(id) {
			return &CycleError{TaskID: id}
		}
		deps := make(map[string]models.IDSet, len(tasks))
		for _, t := range tasks {
			deps[t.ID] = t.Dependencies
		}
		deps[id] = *u.Dependencies
		if through, cyclic := findDependencyCycle(id, deps); cyclic {
			return &CycleError{TaskID: id, Through: through}
		}
	}

	return nil
}

// findDependencyCycle walks the dependency graph from id and reports the
// first node that closes a path back to id.
func findDependencyCycle(id string, deps map[string]models.IDSet) (string, bool) {
	visited := make(map[string]bool)
	var walk func(cur string) (string, bool)
	walk = func(cur string) (string, bool) {
		for _, dep := range deps[cur] {
			if dep == id {
				return cur, true
			}
			if visited[dep] {
				continue
			}
			visited[dep] = true
			if through, cyclic := walk(dep); cyclic {
				return through, true
			}
		}
		return "", false
	}
	return walk(id)
}

// applyUpdate merges the set fields of u over t.
func applyUpdate(t *models.Task, u models.TaskUpdate) {
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Name != nil {
		t.Name = *u.Name
	}
	if u.Description != nil {
		t.Description = *u.Description
	}
	if u.Status != nil {
		t.Status = *u.Status
	}
	if u.Priority != nil {
		t.Priority = *u.Priority
	}
	if u.Tags != nil {
		t.Tags = *u.Tags
	}
	if u.ParentID != nil {
		t.ParentID = *u.ParentID
	}
	if u.Assignees != nil {
		t.Assignees = *u.Assignees
	}
	if u.StartDate != nil {
		t.StartDate = *u.StartDate
	}
	if u.EndDate != nil {
		t.EndDate = *u.EndDate
	}
	if u.ActualStartDate != nil {
		t.ActualStartDate = *u.ActualStartDate
	}
	if u.ActualEndDate != nil {
		t.ActualEndDate = *u.ActualEndDate
	}
	if u.Order != nil {
		t.Order = *u.Order
	}
	if u.Archived != nil {
		t.Archived = *u.Archived
	}
	if u.Committed != nil {
		t.Committed = *u.Committed
	}
	if u.Dependencies != nil {
		t.Dependencies = *u.Dependencies
	}
}

func hasAnyTag(tags []string, wanted []string) bool {
	for _, tag := range tags {
		for _, w := range wanted {
			if tag == w {
				return true
			}
		}
	}
	return false
}
