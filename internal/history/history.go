// Package history keeps a bounded undo/redo stack of full-buffer snapshots.
//
// The first entry is always the pristine image. Every committed edit pushes a
// new snapshot; pushing after an undo discards the redo branch. When the stack
// grows past its capacity the oldest entry is evicted, so the pristine image
// eventually falls off the bottom and undo stops at the oldest surviving edit.
package history

import "image"

// DefaultCapacity is the number of snapshots kept, pristine image included.
const DefaultCapacity = 20

// Manager is a linear history of snapshots with a cursor.
//
// Snapshots handed to Push are owned by the manager afterwards; callers pass a
// fresh copy of the live buffer and must not modify it later. Snapshots
// returned by Undo and Redo are the stored copies and must be treated as
// read-only.
type Manager struct {
	entries  []*image.NRGBA
	index    int
	capacity int
}

// New returns an empty manager holding at most capacity snapshots. A capacity
// below 1 selects DefaultCapacity.
func New(capacity int) *Manager {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Manager{index: -1, capacity: capacity}
}

// Push records snap as the newest state. Entries after the cursor are dropped,
// and the oldest entry is evicted once the stack exceeds capacity.
func (m *Manager) Push(snap *image.NRGBA) {
	m.entries = append(m.entries[:m.index+1], snap)
	for len(m.entries) > m.capacity {
		m.entries[0] = nil
		m.entries = m.entries[1:]
	}
	m.index = len(m.entries) - 1
}

// Undo moves the cursor back one step and returns the snapshot to restore.
// It reports false and changes nothing when already at the oldest entry.
func (m *Manager) Undo() (*image.NRGBA, bool) {
	if !m.CanUndo() {
		return nil, false
	}
	m.index--
	return m.entries[m.index], true
}

// Redo moves the cursor forward one step and returns the snapshot to restore.
// It reports false and changes nothing when already at the newest entry.
func (m *Manager) Redo() (*image.NRGBA, bool) {
	if !m.CanRedo() {
		return nil, false
	}
	m.index++
	return m.entries[m.index], true
}

// Current returns the snapshot at the cursor, or nil for an empty history.
func (m *Manager) Current() *image.NRGBA {
	if m.index < 0 {
		return nil
	}
	return m.entries[m.index]
}

// CanUndo reports whether Undo would move the cursor.
func (m *Manager) CanUndo() bool { return m.index > 0 }

// CanRedo reports whether Redo would move the cursor.
func (m *Manager) CanRedo() bool { return m.index >= 0 && m.index < len(m.entries)-1 }

// Index returns the cursor position, -1 for an empty history.
func (m *Manager) Index() int { return m.index }

// Len returns the number of stored snapshots.
func (m *Manager) Len() int { return len(m.entries) }

// Capacity returns the maximum number of stored snapshots.
func (m *Manager) Capacity() int { return m.capacity }

// HasEdits reports whether the cursor is past the oldest entry, meaning
// closing now would discard work.
func (m *Manager) HasEdits() bool { return m.index > 0 }

// Reset drops every entry.
func (m *Manager) Reset() {
	clear(m.entries)
	m.entries = nil
	m.index = -1
}
