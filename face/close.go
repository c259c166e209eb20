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

import "github.com/bfix/gospel/logger"

// CloseFace removes the Endpoint Record referenced by f, closes its OS
// resource exactly once, and clears the Face Table slot (§4.7).
// Idempotent: closing an already-closed or never-used Face-ID is a
// no-op, since its slot handle no longer yields a record (invariant 2).
func (m *Manager) CloseFace(f FaceID) {
	if !m.validID(f) {
		return
	}
	sl := &m.table[f]
	if sl.handle < 0 {
		return
	}
	rec, ok := m.sock.Get(sl.handle)
	if !ok {
		sl.handle = -1
		sl.descriptor = 0
		return
	}
	m.sock.Remove(rec.Key, sl.handle)
	*sl = slot{handle: -1}
	logger.Printf(logger.DBG, "[face] closed face #%s\n", f)
}

// CloseAll closes every live face and frees the Face Table (§8
// invariant 6, the "close-all" operation of §6).
func (m *Manager) CloseAll() {
	for i := range m.table {
		m.CloseFace(FaceID(i))
	}
	m.table = nil
	m.initialized = false
}
