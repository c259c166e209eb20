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

import (
	"fmt"
	"net"
)

// LookupOrCreateLocal registers an application connection accepted on
// the local listener (§4.5): key = "app-face-<fd>"; if present, return
// the existing Face-ID, otherwise allocate. descriptor is the caller's
// own stable handle for the accepted connection — minted once by the
// caller at accept time and passed in on every subsequent call for that
// same connection, the way §4.5's "fd" is supplied externally rather
// than invented fresh inside this function on each call.
func (m *Manager) LookupOrCreateLocal(descriptor int, conn net.Conn) (FaceID, error) {
	key := fmt.Sprintf("app-face-%d", descriptor)

	if handle, ok := m.sock.Lookup(key); ok {
		if rec, ok := m.sock.Get(handle); ok {
			return rec.FaceID, nil
		}
	}

	id := m.allocate()
	if id == NoFace {
		conn.Close()
		return NoFace, ErrTableFull
	}

	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       Local,
		Local:      true,
		Descriptor: descriptor,
		Conn:       conn,
	}
	h := m.sock.Insert(key, rec)
	m.installSlot(id, h, rec)
	return id, nil
}
