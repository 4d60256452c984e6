package storage

import (
	"encoding/json"
	"fmt"
)

// Slot names for the persisted collections.
const (
	TasksSlot    = "kanban-tasks"
	ActivitySlot = "kanban-activity"
	UsersSlot    = "kanban-users"
	ProfileSlot  = "kanban-user"
)

// LoadSlot reads the named slot as a JSON array of T. A missing or corrupt
// slot loads as an empty sequence: a broken local cache should degrade to an
// empty workspace, never crash the caller.
func LoadSlot[T any](kv KV, slot string) []T {
	raw, ok, err := kv.Get(slot)
	if err != nil || !ok {
		return nil
	}
	var items []T
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}

// SaveSlot overwrites the named slot with the given items as a JSON array.
// There is no partial write; the slot always holds a complete collection.
func SaveSlot[T any](kv KV, slot string, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", slot, err)
	}
	if err := kv.Set(slot, string(data)); err != nil {
		return fmt.Errorf("saving slot %s: %w", slot, err)
	}
	return nil
}

// LoadObject reads the named slot as a single JSON object. Missing or corrupt
// slots load as nil.
func LoadObject[T any](kv KV, slot string) *T {
	raw, ok, err := kv.Get(slot)
	if err != nil || !ok {
		return nil
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil
	}
	return &v
}

// SaveObject overwrites the named slot with a single JSON object.
func SaveObject[T any](kv KV, slot string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", slot, err)
	}
	if err := kv.Set(slot, string(data)); err != nil {
		return fmt.Errorf("saving slot %s: %w", slot, err)
	}
	return nil
}
