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

package face

import "cefnetd-go/util"

// SocketIndex is C2: the keyed container mapping a canonical peer-key to
// an Endpoint Record. It is the arena in spec.md §9's arena+handle
// design note — it hands out opaque slot handles that the Face Table
// stores instead of pointers, so a "reference" from the Face Table is
// always revocable and never dangles.
type SocketIndex struct {
	arena *util.Arena[*EndpointRecord]
	byKey *util.Map[string, int]
}

// NewSocketIndex creates an empty Socket Index.
func NewSocketIndex() *SocketIndex {
	return &SocketIndex{
		arena: util.NewArena[*EndpointRecord](),
		byKey: util.NewMap[string, int](),
	}
}

// Lookup returns the slot handle registered under key, if any.
func (s *SocketIndex) Lookup(key string) (handle int, ok bool) {
	return s.byKey.Get(key)
}

// Get returns the record stored at a slot handle.
func (s *SocketIndex) Get(handle int) (*EndpointRecord, bool) {
	return s.arena.Get(handle)
}

// Insert stores rec under key and returns its slot handle. Invariant 2
// (key uniqueness) is the caller's responsibility: callers that might
// collide (accept path, §4.6) must evict the stale entry first.
func (s *SocketIndex) Insert(key string, rec *EndpointRecord) int {
	rec.Key = key
	handle := s.arena.Alloc(rec)
	s.byKey.Put(key, handle)
	return handle
}

// Remove deletes the record at handle (if any) and its key, closing the
// record's OS resource. Idempotent: removing an already-removed handle
// is a no-op, satisfying §4.7's idempotent close-face contract.
func (s *SocketIndex) Remove(key string, handle int) {
	if rec, ok := s.arena.Get(handle); ok {
		rec.Close()
		s.arena.Free(handle)
	}
	s.byKey.Delete(key)
}

// snapshot returns a read-only copy of peer-key -> Face-ID, for
// Manager.SocketIndexSnapshot (§E, grounded on cef_face_return_sock_table).
func (s *SocketIndex) snapshot() map[string]FaceID {
	out := make(map[string]FaceID, s.byKey.Size())
	for _, key := range s.byKey.Keys() {
		handle, ok := s.byKey.Get(key)
		if !ok {
			continue
		}
		rec, ok := s.arena.Get(handle)
		if !ok {
			continue
		}
		out[key] = rec.FaceID
	}
	return out
}
