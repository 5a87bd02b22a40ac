// Package collection manages the user-defined linecut and azimuthal
// integration lists: dense 1-based IDs, default colors and visibility.
package collection

import (
	"sync"
)

// Item is a collection member. The With* methods return modified copies.
type Item[T any] interface {
	GetID() int
	IsHidden() bool
	WithID(id int) T
	WithHidden(hidden bool) T
	WithColors(left, right string) T
}

// Manager holds one family of items. Items keep insertion order and IDs
// 1..N; deleting an item renumbers the survivors.
type Manager[T Item[T]] struct {
	mu      sync.RWMutex
	items   []T
	palette Palette
}

// NewManager creates an empty manager using palette for default colors.
// An empty palette falls back to DefaultPalette.
func NewManager[T Item[T]](palette Palette) *Manager[T] {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	return &Manager[T]{palette: palette}
}

// Add appends item with ID max(existing)+1 and the palette colors for that
// ID, returning the stored copy
func (m *Manager[T]) Add(item T) T {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID()
	colors := m.palette.ColorFor(id)
	item = item.WithID(id).WithColors(colors.Left, colors.Right)
	m.items = append(m.items, item)
	return item
}

// Update replaces the item with the given ID by fn(item). The ID is kept
// whatever fn returns. ok is false when no item has that ID.
func (m *Manager[T]) Update(id int, fn func(T) T) (updated T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return updated, false
	}
	m.items[i] = fn(m.items[i]).WithID(id)
	return m.items[i], true
}

// Delete removes the item with the given ID and renumbers the rest 1..N
// in their current order
func (m *Manager[T]) Delete(id int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return false
	}
	kept := make([]T, 0, len(m.items)-1)
	kept = append(kept, m.items[:i]...)
	kept = append(kept, m.items[i+1:]...)
	for n := range kept {
		kept[n] = kept[n].WithID(n + 1)
	}
	m.items = kept
	return true
}

// ToggleVisibility flips the hidden flag of an item
func (m *Manager[T]) ToggleVisibility(id int) (T, bool) {
	return m.Update(id, func(item T) T {
		return item.WithHidden(!item.IsHidden())
	})
}

// SetColors recolors an item
func (m *Manager[T]) SetColors(id int, left, right string) (T, bool) {
	return m.Update(id, func(item T) T {
		return item.WithColors(left, right)
	})
}

// Get returns the item with the given ID
func (m *Manager[T]) Get(id int) (item T, ok bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.indexOf(id); i >= 0 {
		return m.items[i], true
	}
	return item, false
}

// Items returns a copy of all items in order
func (m *Manager[T]) Items() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]T(nil), m.items...)
}

// Visible returns a copy of the items that are not hidden
func (m *Manager[T]) Visible() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []T
	for _, item := range m.items {
		if !item.IsHidden() {
			out = append(out, item)
		}
	}
	return out
}

// Len returns the number of items
func (m *Manager[T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear removes every item
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}

func (m *Manager[T]) nextID() int {
	maxID := 0
	for _, item := range m.items {
		if item.GetID() > maxID {
			maxID = item.GetID()
		}
	}
	return maxID + 1
}

func (m *Manager[T]) indexOf(id int) int {
	for i, item := range m.items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
