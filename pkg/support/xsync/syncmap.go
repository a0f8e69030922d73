// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package xsync

import "sync"

// SyncMap wraps sync.Map with typed keys and values.
//
// The zero value is ready to use. It must not be copied after first use.
type SyncMap[K comparable, V any] struct {
	m sync.Map
}

// Load returns the value stored for key, if any.
func (m *SyncMap[K, V]) Load(key K) (value V, ok bool) {
	v, ok := m.m.Load(key)
	if !ok {
		return value, false
	}
	return v.(V), true
}

// Store sets the value for key.
func (m *SyncMap[K, V]) Store(key K, value V) {
	m.m.Store(key, value)
}

// LoadOrStore returns the value stored for key if present (loaded is true), otherwise it stores
// and returns value.
func (m *SyncMap[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	v, loaded := m.m.LoadOrStore(key, value)
	return v.(V), loaded
}

// LoadOrCreate returns the value stored for key, creating it with newFn if absent.
//
// newFn may be called more than once when racing, but only one of the created values is kept
// and returned to every caller.
func (m *SyncMap[K, V]) LoadOrCreate(key K, newFn func() V) V {
	if v, ok := m.Load(key); ok {
		return v
	}
	v, _ := m.LoadOrStore(key, newFn())
	return v
}

// Len returns the number of entries in the map. It is O(n).
func (m *SyncMap[K, V]) Len() (n int) {
	m.m.Range(func(_, _ any) bool {
		n++
		return true
	})
	return
}
