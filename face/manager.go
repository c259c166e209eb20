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

	"github.com/bfix/gospel/logger"

	"cefnetd-go/config"
)

// slot is one Face Table entry: the dense array C3 describes, indexed by
// Face-ID. A zero descriptor marks a free slot (invariant 5).
type slot struct {
	handle     int // opaque Socket Index slot handle, -1 if none
	descriptor int
	kind       TransportKind
	local      bool
	seq        uint32
}

// Manager is the Face Manager design note of spec.md §9: the single
// owned value that replaces the original source's global Face Table,
// Socket Index and "current IP version" flag. A forwarder holds (or is
// passed) exactly one Manager; nothing here is a package-level
// singleton.
type Manager struct {
	role     config.Role
	maxFaces uint16

	table []slot
	sock  *SocketIndex

	nextAlloc FaceID // Face-ID Allocator's rotating scan cursor (§4.2)

	// preferredFamily is the "current IP version" flag (§4.3's
	// preference rule): 0 means "no preference" (both families live),
	// 4 or 6 restricts outbound peer resolution to that family only,
	// set when the other family's listener failed to bind.
	preferredFamily int

	udpPort, tcpPort, ndnPort uint16
	localSock, localSType     string

	nextDescriptor int // per-Manager synthetic descriptor counter, see EndpointRecord

	initialized bool
}

// NewManager constructs an uninitialized Face Manager. Call Initialize
// before using it.
func NewManager() *Manager {
	return &Manager{nextDescriptor: 2} // first minted descriptor is 3, clear of the stdio guard band
}

// Initialize allocates the Face Table and Socket Index for the given
// node role (§4.1). Fails if already initialized or the role is unknown
// (spec.md §9 Open Question: this port chooses the explicit-error
// branch rather than silently leaving max-faces == 0).
func (m *Manager) Initialize(cfg *config.NodeConfig) error {
	if m.initialized {
		return ErrAlreadyInitialized
	}
	max := cfg.Role.MaxFaces()
	if max == 0 {
		return fmt.Errorf("%w: %q", ErrUnknownRole, cfg.Role)
	}
	m.role = cfg.Role
	m.maxFaces = max
	m.table = make([]slot, max)
	for i := range m.table {
		m.table[i].handle = -1
	}
	m.sock = NewSocketIndex()
	m.nextAlloc = Reserved
	m.udpPort = cfg.UDPPort
	m.tcpPort = cfg.TCPPort
	m.ndnPort = cfg.NdnPort
	m.localSock = cfg.LocalSock
	m.localSType = cfg.LocalSType
	m.initialized = true
	logger.Printf(logger.INFO, "[face] initialized as %s, max-faces=%d\n", m.role, m.maxFaces)
	return nil
}

// allocDescriptor mints a fresh, per-Manager synthetic descriptor handle
// (see EndpointRecord's doc comment for why this isn't a POSIX fd).
func (m *Manager) allocDescriptor() int {
	m.nextDescriptor++
	return m.nextDescriptor
}

// AllocDescriptor mints a fresh synthetic descriptor for a connection
// the caller has already accepted outside this package (e.g. on the local
// UNIX-domain listener). The caller mints
// it exactly once per accepted connection and passes the same value to
// every subsequent LookupOrCreateLocal call for that connection, the
// way a real accept() fd would be reused by external callers.
func (m *Manager) AllocDescriptor() int {
	return m.allocDescriptor()
}

// FdOfFace returns the cached descriptor for a Face-ID, or 0 if the face
// is not live.
func (m *Manager) FdOfFace(f FaceID) int {
	if !m.validID(f) {
		return 0
	}
	return m.table[f].descriptor
}

// TypeOfFace returns the transport kind cached for a Face-ID.
func (m *Manager) TypeOfFace(f FaceID) TransportKind {
	if !m.validID(f) {
		return Invalid
	}
	return m.table[f].kind
}

// IsLocal reports whether a Face-ID is a local (UNIX-domain) face.
func (m *Manager) IsLocal(f FaceID) bool {
	if !m.validID(f) {
		return false
	}
	return m.table[f].local
}

// NextSequence returns the next value of a face's monotonically
// increasing sequence counter, wrapping at 2^32 (invariant 7).
func (m *Manager) NextSequence(f FaceID) uint32 {
	if !m.validID(f) {
		return 0
	}
	m.table[f].seq++
	return m.table[f].seq
}

func (m *Manager) validID(f FaceID) bool {
	return m.initialized && f != NoFace && int(f) < len(m.table)
}

// record returns the live Endpoint Record for a Face-ID, if any.
func (m *Manager) record(f FaceID) (*EndpointRecord, bool) {
	if !m.validID(f) {
		return nil, false
	}
	h := m.table[f].handle
	if h < 0 {
		return nil, false
	}
	return m.sock.Get(h)
}

// installSlot populates the Face Table slot for f from a newly inserted
// Endpoint Record, per the Listen-Face Builder and Peer-Face Resolver's
// shared "allocate -> insert -> populate" tail.
func (m *Manager) installSlot(f FaceID, handle int, rec *EndpointRecord) {
	m.table[f] = slot{
		handle:     handle,
		descriptor: rec.Descriptor,
		kind:       rec.Kind,
		local:      rec.Local,
	}
}
