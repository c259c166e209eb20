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

import "net"

// EndpointRecord is the Socket Index's element: one peer or one listener.
// Go's net.Conn/net.PacketConn/net.UnixListener don't expose a raw OS
// file descriptor uniformly, so Descriptor is a synthetic, per-Manager
// monotonic handle minted at record creation (see Manager.allocDescriptor)
// rather than a POSIX fd. It still satisfies every invariant spec.md §3
// cares about: non-zero while live, unique among live records, and
// comparable against the "< 3" stdio guard band (§4.8), since the
// counter's first minted value is 3.
type EndpointRecord struct {
	FaceID     FaceID
	Kind       TransportKind
	Local      bool
	Descriptor int
	PeerAddr   net.Addr

	// Key is the canonical peer-key this record is registered under in
	// the Socket Index, cached here so Face Close (§4.7) can remove both
	// the keyed entry and the arena slot without the Face Table needing
	// to track keys itself.
	Key string

	// exactly one of the three is non-nil, matching Kind/role:
	//   Listener - stream listen face (TCP, local stream/seqpacket)
	//   Packet   - datagram listen face (UDP, NDN-UDP, local datagram)
	//   Conn     - peer face, dialed or accepted
	Listener net.Listener
	Packet   net.PacketConn
	Conn     net.Conn
}

// Close releases whichever OS resource this record owns. Safe to call at
// most once; the Socket Index only ever closes a record when it is
// removed, so double-close cannot happen through normal face-close paths.
func (e *EndpointRecord) Close() error {
	switch {
	case e.Conn != nil:
		return e.Conn.Close()
	case e.Listener != nil:
		return e.Listener.Close()
	case e.Packet != nil:
		return e.Packet.Close()
	}
	return nil
}

// Write sends bytes over the record's connected socket. Only valid for
// peer records (Conn != nil); listen records never send application
// traffic (spec.md's Listen-face glossary entry).
func (e *EndpointRecord) Write(b []byte) (int, error) {
	return e.Conn.Write(b)
}
