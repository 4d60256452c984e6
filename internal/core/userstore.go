package core

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cosmic-jellyfish/boardly/internal/storage"
	"github.com/cosmic-jellyfish/boardly/pkg/models"
)

// UserStore manages the local profile and the assignee-autocomplete name
// cache. The cache is a flat list of display names, not an identity system.
type UserStore interface {
	// CurrentUser returns the stored profile, or nil if onboarding has not
	// been completed.
	CurrentUser() *models.Profile
	// SetCurrentUser stores the profile.
	SetCurrentUser(profile models.Profile) error
	// ClearUser removes the stored profile.
	ClearUser() error
	// HasCompletedOnboarding reports whether a profile exists.
	HasCompletedOnboarding() bool
	// AllUsers returns the assignee display-name cache.
	AllUsers() []string
	// AddUser adds a display name to the cache. Exact duplicates are
	// dropped.
	AddUser(name string) error
	// RemoveUser removes a display name from the cache.
	RemoveUser(name string) error
	// ReplaceAll overwrites the name cache. Used by import.
	ReplaceAll(names []string) error
	// Initialize seeds the default name cache on first run and migrates
	// legacy object-format entries to plain display names.
	Initialize() error
}

type kvUserStore struct {
	kv storage.KV

	// mu guards the load-mutate-save cycle.
	mu sync.Mutex
}

// NewUserStore creates a UserStore over the given substrate.
func NewUserStore(kv storage.KV) UserStore {
	return &kvUserStore{kv: kv}
}

func (s *kvUserStore) CurrentUser() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.LoadObject[models.Profile](s.kv, storage.ProfileSlot)
}

func (s *kvUserStore) SetCurrentUser(profile models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := storage.SaveObject(s.kv, storage.ProfileSlot, profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

func (s *kvUserStore) ClearUser() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(storage.ProfileSlot)
}

func (s *kvUserStore) HasCompletedOnboarding() bool {
	return s.CurrentUser() != nil
}

func (s *kvUserStore) AllUsers() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.LoadSlot[string](s.kv, storage.UsersSlot)
}

func (s *kvUserStore) AddUser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := storage.LoadSlot[string](s.kv, storage.UsersSlot)
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	names = append(names, name)
	return storage.SaveSlot(s.kv, storage.UsersSlot, names)
}

func (s *kvUserStore) RemoveUser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := storage.LoadSlot[string](s.kv, storage.UsersSlot)
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	return storage.SaveSlot(s.kv, storage.UsersSlot, kept)
}

func (s *kvUserStore) ReplaceAll(names []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.SaveSlot(s.kv, storage.UsersSlot, names)
}

// legacyUser is the pre-1.0 users-slot entry shape.
type legacyUser struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (s *kvUserStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.kv.Get(storage.UsersSlot)
	if err != nil {
		return fmt.Errorf("initializing user cache: %w", err)
	}
	if !ok {
		return storage.SaveSlot(s.kv, storage.UsersSlot, []string{models.DefaultAssignee})
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err == nil {
		return nil
	}

	// Older releases stored user objects; keep their display names.
	var legacy []legacyUser
	if err := json.Unmarshal([]byte(raw), &legacy); err != nil {
		// Corrupt slot: reset to the default, matching load-boundary
		// fail-soft behavior.
		return storage.SaveSlot(s.kv, storage.UsersSlot, []string{models.DefaultAssignee})
	}
	var migrated []string
	for _, u := range legacy {
		switch {
		case u.Name != "":
			migrated = append(migrated, u.Name)
		case u.Username != "":
			migrated = append(migrated, u.Username)
		}
	}
	if len(migrated) == 0 {
		migrated = []string{models.DefaultAssignee}
	}
	return storage.SaveSlot(s.kv, storage.UsersSlot, migrated)
}
