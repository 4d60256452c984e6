// Package storage provides the persistence substrate for boardly: a
// synchronous string key/value store backed by files, and a generic slot
// collection layer on top of it. The collection layer exclusively owns the
// on-disk representation; the domain stores in core are its only callers.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// KV is the synchronous key/value substrate the collection store runs on.
// Keys are slot names; values are serialized JSON documents.
type KV interface {
	// Get returns the value for key and whether the key exists.
	Get(key string) (string, bool, error)
	// Set overwrites the value for key, creating it if absent.
	Set(key, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// fileKV implements KV with one file per key under a base directory.
type fileKV struct {
	basePath string
	mu       sync.Mutex
}

// NewFileKV creates a KV that stores each key as {basePath}/{key}.json.
func NewFileKV(basePath string) KV {
	return &fileKV{basePath: basePath}
}

func (kv *fileKV) path(key string) string {
	return filepath.Join(kv.basePath, key+".json")
}

func (kv *fileKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	data, err := os.ReadFile(kv.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return string(data), true, nil
}

func (kv *fileKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := os.MkdirAll(kv.basePath, 0o750); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(kv.path(key), []byte(value), 0o600); err != nil {
		return fmt.Errorf("writing slot %s: %w", key, err)
	}
	return nil
}

func (kv *fileKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()

	if err := os.Remove(kv.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting slot %s: %w", key, err)
	}
	return nil
}

// memoryKV implements KV in memory, for tests and ephemeral use.
type memoryKV struct {
	data map[string]string
	mu   sync.Mutex
}

// NewMemoryKV creates an in-memory KV.
func NewMemoryKV() KV {
	return &memoryKV{data: make(map[string]string)}
}

func (kv *memoryKV) Get(key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.data[key]
	return v, ok, nil
}

func (kv *memoryKV) Set(key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.data[key] = value
	return nil
}

func (kv *memoryKV) Delete(key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.data, key)
	return nil
}
