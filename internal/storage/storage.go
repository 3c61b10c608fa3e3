// Package storage provides key-value stores that hold the serialized task
// collection: an in-memory map and a JSON document on disk.
package storage

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
)

// Memory is an in-process store
type Memory struct {
	mu    sync.RWMutex
	items map[string]string
}

func NewMemory() *Memory {
	return &Memory{items: map[string]string{}}
}

// GetItem returns the value for key and whether it was present
func (m *Memory) GetItem(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem stores value under key
func (m *Memory) SetItem(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

// File keeps every key in one JSON object on disk. Each write replaces the
// whole file through a temp file and rename.
type File struct {
	mu    sync.RWMutex
	path  string
	items map[string]string
}

// NewFile opens (or prepares) the store at path. A file that does not
// parse is renamed to "<path>.corrupt" and the store starts empty.
func NewFile(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f := &File{path: path, items: map[string]string{}}
	if err := f.load(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if len(b) == 0 {
		return nil
	}

	var loaded map[string]string
	if err := json.Unmarshal(b, &loaded); err != nil {
		log.Printf("storage: %s is unreadable, starting empty: %v", f.path, err)
		if err := os.Rename(f.path, f.path+".corrupt"); err != nil {
			log.Printf("storage: keep %s: %v", f.path, err)
		}
		return nil
	}
	if loaded != nil {
		f.items = loaded
	}
	return nil
}

func (f *File) saveLocked() error {
	b, err := json.MarshalIndent(f.items, "", "  ")
	if err != nil {
		return err
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.path)
}

// Path returns the backing file
func (f *File) Path() string {
	return f.path
}

func (f *File) GetItem(key string) (string, bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.items[key]
	return v, ok, nil
}

func (f *File) SetItem(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	prev, had := f.items[key]
	f.items[key] = value
	if err := f.saveLocked(); err != nil {
		if had {
			f.items[key] = prev
		} else {
			delete(f.items, key)
		}
		return err
	}
	return nil
}
