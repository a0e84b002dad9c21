package plugin

import (
	"sort"
	"sync"
)

// Item holds at most one extension. A registry swaps the entry when the
// owning plugin is loaded, replaced or unloaded.
type Item[T any] struct {
	mu  sync.RWMutex
	ext *Extension[T]
}

// Set replaces the current entry.
func (i *Item[T]) Set(ext *Extension[T]) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ext = ext
}

// Clear removes the current entry.
func (i *Item[T]) Clear() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ext = nil
}

// Entry returns the current extension, or nil if none is registered.
func (i *Item[T]) Entry() *Extension[T] {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.ext
}

// Set is an unordered collection of extensions from any number of plugins.
type Set[T any] struct {
	mu      sync.RWMutex
	nextID  int
	entries map[int]*Extension[T]
	order   []int
}

// Add registers an extension and returns a function that removes it again.
// The returned remove function is idempotent.
func (s *Set[T]) Add(ext *Extension[T]) (remove func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries == nil {
		s.entries = make(map[int]*Extension[T])
	}
	id := s.nextID
	s.nextID++
	s.entries[id] = ext
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.entries, id)
	}
}

// Entries returns a snapshot of the registered extensions in registration
// order. Mutating the set afterwards does not affect the snapshot.
func (s *Set[T]) Entries() []*Extension[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Extension[T], 0, len(s.entries))
	for _, id := range s.order {
		if ext, ok := s.entries[id]; ok {
			out = append(out, ext)
		}
	}
	return out
}

// Len returns the number of registered extensions.
func (s *Set[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Map is a collection of extensions keyed by "pluginName~exportName".
type Map[T any] struct {
	mu      sync.RWMutex
	entries map[string]*Extension[T]
}

func mapKey(pluginName, exportName string) string {
	return pluginName + "~" + exportName
}

// Put registers an extension under its plugin and export name, replacing
// any previous entry with the same key. It returns a remove function.
func (m *Map[T]) Put(ext *Extension[T]) (remove func()) {
	key := mapKey(ext.PluginName(), ext.ExportName())
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string]*Extension[T])
	}
	m.entries[key] = ext

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.entries[key] == ext {
			delete(m.entries, key)
		}
	}
}

// Get returns the extension registered under the given plugin and export
// name, or nil.
func (m *Map[T]) Get(pluginName, exportName string) *Extension[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.entries[mapKey(pluginName, exportName)]
}

// Entries returns a snapshot of all extensions sorted by key, so iteration
// order is deterministic.
func (m *Map[T]) Entries() []*Extension[T] {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.entries))
	for k := range m.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*Extension[T], 0, len(keys))
	for _, k := range keys {
		out = append(out, m.entries[k])
	}
	return out
}
