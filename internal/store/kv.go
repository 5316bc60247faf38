// Package store is the local persistence layer for drafts and saved resumes.
// Data lives under a handful of well-known keys in a KeyValue backend and every
// mutation rewrites the whole value; there is no locking across processes and
// the last writer wins.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"
)

// Well-known keys, matching the browser's storage layout.
const (
	KeyResumes       = "resumes"
	KeyDraft         = "resumeDraft"
	KeyUserProfile   = "userProfile"
	KeyTheme         = "theme"
	KeyAuthenticated = "isAuthenticated"
)

// KeyValue is a durable string-keyed byte store with change notifications.
type KeyValue interface {
	// Get returns the value for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
	// Subscribe registers fn to be called with the key after every Set or
	// Delete made through this instance. The returned func unregisters it.
	Subscribe(fn func(key string)) (unsubscribe func())
}

// listeners is the change-notification fan-out shared by the backends.
type listeners struct {
	mu   sync.Mutex
	next int
	fns  map[int]func(string)
}

func (l *listeners) subscribe(fn func(string)) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.fns == nil {
		l.fns = make(map[int]func(string))
	}
	id := l.next
	l.next++
	l.fns[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.fns, id)
		l.mu.Unlock()
	}
}

func (l *listeners) notify(key string) {
	l.mu.Lock()
	fns := make([]func(string), 0, len(l.fns))
	for _, fn := range l.fns {
		fns = append(fns, fn)
	}
	l.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
}

// MemoryKV is an in-process KeyValue.
type MemoryKV struct {
	mu        sync.RWMutex
	data      map[string][]byte
	listeners listeners
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

// Get implements KeyValue.
func (m *MemoryKV) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements KeyValue.
func (m *MemoryKV) Set(key string, value []byte) error {
	m.mu.Lock()
	m.data[key] = append([]byte(nil), value...)
	m.mu.Unlock()
	m.listeners.notify(key)
	return nil
}

// Delete implements KeyValue.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	m.listeners.notify(key)
	return nil
}

// Subscribe implements KeyValue.
func (m *MemoryKV) Subscribe(fn func(key string)) func() {
	return m.listeners.subscribe(fn)
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// FileKV stores each key as <dir>/<key>.json.
type FileKV struct {
	dir       string
	listeners listeners
}

// NewFileKV creates the directory if needed and returns a file-backed store.
func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid store key %q", key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get implements KeyValue.
func (f *FileKV) Get(key string) ([]byte, bool, error) {
	p, err := f.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, true, nil
}

// Set writes to a temp file and renames it over the old value.
func (f *FileKV) Set(key string, value []byte) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), p); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	f.listeners.notify(key)
	return nil
}

// Delete implements KeyValue.
func (f *FileKV) Delete(key string) error {
	p, err := f.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	f.listeners.notify(key)
	return nil
}

// Subscribe implements KeyValue. Only writes made through this instance are observed.
func (f *FileKV) Subscribe(fn func(key string)) func() {
	return f.listeners.subscribe(fn)
}
