// Package registry stores named factories behind a read-write lock.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrInvalidName indicates an empty or blank registration name.
	ErrInvalidName = errors.New("registry name must be non-empty")
	// ErrDuplicate indicates a name is already registered.
	ErrDuplicate = errors.New("name already registered")
)

// Registry provides access to factories keyed by name.
type Registry[T any] interface {
	Register(name string, item T) error
	Lookup(name string) (T, bool)
	Names() []string
}

// Memory keeps entries in-memory and guards access with a RWMutex.
type Memory[T any] struct {
	mu      sync.RWMutex
	entries map[string]T
}

// NewMemory initialises an empty registry.
func NewMemory[T any]() *Memory[T] {
	return &Memory[T]{
		entries: make(map[string]T),
	}
}

// Register stores item under name. Names are unique.
func (m *Memory[T]) Register(name string, item T) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrInvalidName
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicate, name)
	}
	m.entries[name] = item
	return nil
}

// Lookup returns the item registered under name.
func (m *Memory[T]) Lookup(name string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	item, ok := m.entries[name]
	return item, ok
}

// Names returns the registered names sorted.
func (m *Memory[T]) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
