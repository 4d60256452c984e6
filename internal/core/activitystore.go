package core

import (
	"fmt"
	"sort"
	"sync"

	"github.com/cosmic-jellyfish/boardly/internal/storage"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// defaultRecentLimit caps GetRecent when no limit is given.
const defaultRecentLimit = 10

// ActivityStore is the append-only audit trail. There is no update or delete
// operation by design.
type ActivityStore interface {
	// GetAll returns every activity entry in insertion order.
	GetAll() []models.ActivityLog
	// GetRecent returns up to limit entries, newest first. A non-positive
	// limit means 10.
	GetRecent(limit int) []models.ActivityLog
	// GetByTaskID returns the entries for one task, newest first.
	GetByTaskID(taskID string) []models.ActivityLog
	// Create assigns a fresh ID and appends the entry.
	Create(entry models.ActivityLog) (*models.ActivityLog, error)
	// ReplaceAll overwrites the whole collection. Used by import.
	ReplaceAll(entries []models.ActivityLog) error
}

type kvActivityStore struct {
	kv  storage.KV
	ids IDGenerator

	// mu guards the load-mutate-save cycle.
	mu sync.Mutex
}

// NewActivityStore creates an ActivityStore over the given substrate.
func NewActivityStore(kv storage.KV, ids IDGenerator) ActivityStore {
	return &kvActivityStore{kv: kv, ids: ids}
}

func (s *kvActivityStore) load() []models.ActivityLog {
	return storage.LoadSlot[models.ActivityLog](s.kv, storage.ActivitySlot)
}

func (s *kvActivityStore) GetAll() []models.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *kvActivityStore) GetRecent(limit int) []models.ActivityLog {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	s.mu.Lock()
	entries := s.load()
	s.mu.Unlock()

	sortNewestFirst(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func (s *kvActivityStore) GetByTaskID(taskID string) []models.ActivityLog {
	s.mu.Lock()
	entries := s.load()
	s.mu.Unlock()

	var out []models.ActivityLog
	for _, e := range entries {
		if e.TaskID == taskID {
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

func (s *kvActivityStore) Create(entry models.ActivityLog) (*models.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.ids.NewID()
	entries := s.load()
	entries = append(entries, entry)
	if err := storage.SaveSlot(s.kv, storage.ActivitySlot, entries); err != nil {
		return nil, fmt.Errorf("appending activity: %w", err)
	}
	return &entry, nil
}

func (s *kvActivityStore) ReplaceAll(entries []models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.SaveSlot(s.kv, storage.ActivitySlot, entries)
}

// sortNewestFirst orders entries descending by created_at. Timestamps use a
// fixed-width layout, so the string comparison is chronological; ties keep
// insertion order.
func sortNewestFirst(entries []models.ActivityLog) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt > entries[j].CreatedAt
	})
}
