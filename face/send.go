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

import "cefnetd-go/frame"

// stdioGuard is the minimum descriptor the Send Fan-out will use,
// guarding against reuse of a stdin/stdout/stderr slot (§4.8).
const stdioGuard = 3

// ForcedSend transmits bytes on a face regardless of content framing,
// used for probes and error messages (§4.8). A TCP write failure closes
// the face immediately; a subsequent send to the same Face-ID then fails
// with ErrNoSuchFace, since the cleared slot no longer yields a record,
// without ever reaching the OS (S5).
func (m *Manager) ForcedSend(f FaceID, data []byte) (int, error) {
	rec, ok := m.record(f)
	if !ok {
		return 0, ErrNoSuchFace
	}
	if rec.Descriptor < stdioGuard {
		return 0, ErrStdioGuard
	}
	n, err := rec.Write(data)
	if err != nil && rec.Kind == TCP {
		m.CloseFace(f)
	}
	return n, err
}

// ObjectSend transmits a Content Object (§4.8). Non-local faces send
// wireBytes verbatim, identical to ForcedSend. Local faces prepend the
// fixed application header (version, type Internal, payload length,
// chunk number) and send header+payload as one write (S4).
func (m *Manager) ObjectSend(f FaceID, wireBytes, payload []byte, chunkNumber uint32) (int, error) {
	rec, ok := m.record(f)
	if !ok {
		return 0, ErrNoSuchFace
	}
	if !rec.Local {
		return m.ForcedSend(f, wireBytes)
	}
	header := frame.NewAppHeader(uint32(len(payload)), chunkNumber)
	buf := append(header.Marshal(), payload...)
	return m.ForcedSend(f, buf)
}

// LocalAPISend concatenates and sends header and payload bytes, but only
// on a local face; on any other face it returns (0, nil) so callers can
// fall back to another send path (§4.8).
func (m *Manager) LocalAPISend(f FaceID, headerBytes, payloadBytes []byte) (int, error) {
	rec, ok := m.record(f)
	if !ok {
		return 0, ErrNoSuchFace
	}
	if !rec.Local {
		return 0, nil
	}
	buf := append(append([]byte{}, headerBytes...), payloadBytes...)
	return m.ForcedSend(f, buf)
}
