// Package datastore is a small JSON-file key/value store: an in-memory map
// flushed to disk by a background autosaver and on Close. Writes are atomic
// (temp file + rename) and skipped when the content checksum is unchanged.
package datastore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const defaultAutoSaveInterval = 10 * time.Second

// DataStore holds the data map and the machinery to persist it.
type DataStore struct {
	mu           sync.RWMutex
	data         map[string]any
	file         string
	lastChecksum string

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// New opens or creates the store backed by filePath, loading existing data
// and starting the autosave routine.
func New(filePath string) (*DataStore, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	ds := &DataStore{
		data: make(map[string]any),
		file: filePath,
		done: make(chan struct{}),
	}

	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if err := ds.writeFileAtomic([]byte("{}")); err != nil {
			return nil, fmt.Errorf("failed to create empty store file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to stat store file: %w", err)
	} else if err := ds.loadFromFile(); err != nil {
		return nil, err
	}

	ds.wg.Add(1)
	go ds.autoSave()

	return ds, nil
}

// Add stores a key-value pair.
func (ds *DataStore) Add(key string, value any) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	ds.data[key] = value
}

// Get retrieves a value by key.
func (ds *DataStore) Get(key string) (any, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	value, exists := ds.data[key]
	return value, exists
}

// Delete removes a key-value pair.
func (ds *DataStore) Delete(key string) {
	ds.mu.Lock()
	defer ds.mu.Unlock()
	delete(ds.data, key)
}

// Keys returns all stored keys.
func (ds *DataStore) Keys() []string {
	ds.mu.RLock()
	defer ds.mu.RUnlock()
	keys := make([]string, 0, len(ds.data))
	for k := range ds.data {
		keys = append(keys, k)
	}
	return keys
}

// Save forces an immediate flush to disk.
func (ds *DataStore) Save() error {
	return ds.saveToFile()
}

// Close stops the autosave routine and performs a final save. Safe to call
// more than once.
func (ds *DataStore) Close() error {
	var err error
	ds.closeOnce.Do(func() {
		close(ds.done)
		ds.wg.Wait()
		err = ds.saveToFile()
	})
	return err
}

func (ds *DataStore) autoSave() {
	defer ds.wg.Done()

	ticker := time.NewTicker(defaultAutoSaveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ds.done:
			return
		case <-ticker.C:
			if err := ds.saveToFile(); err != nil {
				log.Printf("[WARN] Datastore auto-save error: %v", err)
			}
		}
	}
}

func (ds *DataStore) saveToFile() error {
	ds.mu.RLock()
	data, err := json.MarshalIndent(ds.data, "", "  ")
	ds.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	sum := checksum(data)
	ds.mu.Lock()
	unchanged := sum == ds.lastChecksum
	ds.mu.Unlock()
	if unchanged {
		return nil
	}

	if err := ds.writeFileAtomic(data); err != nil {
		return err
	}

	ds.mu.Lock()
	ds.lastChecksum = sum
	ds.mu.Unlock()
	return nil
}

func (ds *DataStore) loadFromFile() error {
	raw, err := os.ReadFile(ds.file)
	if err != nil {
		return fmt.Errorf("failed to read store file: %w", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("invalid JSON in store file: %w", err)
	}

	ds.mu.Lock()
	ds.data = data
	ds.lastChecksum = checksum(raw)
	ds.mu.Unlock()
	return nil
}

// writeFileAtomic writes via a temp file, fsync, and rename so a crash never
// leaves a half-written store behind.
func (ds *DataStore) writeFileAtomic(data []byte) error {
	tmp := ds.file + ".tmp"

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	f.Close()

	if err := os.Rename(tmp, ds.file); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func checksum(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
