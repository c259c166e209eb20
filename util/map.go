// This file is part of cefnetd-go, a CEFORE-style ICN forwarder daemon.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
//
// cefnetd-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// cefnetd-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package util

//----------------------------------------------------------------------
// Generic keyed container.
//
// The forwarder core is single-threaded and cooperative (one event loop,
// no locks, no atomics), so this drops the RWMutex/PIDList reentrant-lock
// machinery the original map helper carried for multi-threaded callers.
//----------------------------------------------------------------------

// Map associates comparable keys with values of any type.
type Map[K comparable, V any] struct {
	list map[K]V
}

// NewMap allocates a new, empty mapping.
func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		list: make(map[K]V),
	}
}

// Size returns the number of entries in the map.
func (m *Map[K, V]) Size() int {
	return len(m.list)
}

// Put value into map under given key.
func (m *Map[K, V]) Put(key K, value V) {
	m.list[key] = value
}

// Get the value for a given key.
func (m *Map[K, V]) Get(key K) (value V, ok bool) {
	value, ok = m.list[key]
	return
}

// Delete a key/value pair from the map.
func (m *Map[K, V]) Delete(key K) {
	delete(m.list, key)
}

// Keys returns a snapshot of all keys currently in the map.
func (m *Map[K, V]) Keys() []K {
	keys := make([]K, 0, len(m.list))
	for k := range m.list {
		keys = append(keys, k)
	}
	return keys
}

//----------------------------------------------------------------------
// Arena: a slot-based store that hands out opaque integer handles
// instead of pointers, so a handle can be stored, copied and compared
// without ever exposing or re-pointing into the backing storage.
//
// This is the primitive the Socket Index is built on: a slot handle
// stays valid independent of where the arena's backing array gets
// reallocated, and a freed slot is recycled via a free-list the same
// way the original Socket Table recycled hash-table indices.
//----------------------------------------------------------------------

// Arena is a slot store for values of type V, indexed by opaque handles.
type Arena[V any] struct {
	slots []V
	used  []bool
	free  []int
}

// NewArena creates an empty arena.
func NewArena[V any]() *Arena[V] {
	return &Arena[V]{}
}

// Alloc stores a value and returns its slot handle.
func (a *Arena[V]) Alloc(v V) int {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = v
		a.used[h] = true
		return h
	}
	a.slots = append(a.slots, v)
	a.used = append(a.used, true)
	return len(a.slots) - 1
}

// Get returns the value stored under a handle.
func (a *Arena[V]) Get(handle int) (v V, ok bool) {
	if handle < 0 || handle >= len(a.slots) || !a.used[handle] {
		return
	}
	return a.slots[handle], true
}

// Free releases a handle, making it eligible for reuse. Freeing an
// already-free (or out-of-range) handle is a no-op.
func (a *Arena[V]) Free(handle int) {
	if handle < 0 || handle >= len(a.slots) || !a.used[handle] {
		return
	}
	var zero V
	a.slots[handle] = zero
	a.used[handle] = false
	a.free = append(a.free, handle)
}
