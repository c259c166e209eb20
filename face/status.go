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

// IsActive reports whether a face currently has a live (non-zero)
// descriptor, the Go rendering of cef_face_check_active (§E).
func (m *Manager) IsActive(f FaceID) bool {
	return m.FdOfFace(f) != 0
}

// KindOfDescriptor scans the Face Table for the transport kind of the
// face currently caching the given descriptor, the reverse lookup
// cef_face_get_protocol_from_fd performs (§E). Returns Invalid if no
// live face caches that descriptor.
func (m *Manager) KindOfDescriptor(descriptor int) TransportKind {
	if descriptor == 0 {
		return Invalid
	}
	for i := range m.table {
		if m.table[i].descriptor == descriptor {
			return m.table[i].kind
		}
	}
	return Invalid
}

// SocketIndexSnapshot returns a read-only copy of peer-key -> Face-ID
// pairs for status/diagnostic reporting, grounded on
// cef_face_return_sock_table's stated purpose of exposing the socket
// table to a status subsystem (§E).
func (m *Manager) SocketIndexSnapshot() map[string]FaceID {
	if !m.initialized {
		return map[string]FaceID{}
	}
	return m.sock.snapshot()
}
