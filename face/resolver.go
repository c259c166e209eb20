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
	"context"
	"fmt"
	"net"
	"time"

	"github.com/bfix/gospel/logger"

	"cefnetd-go/frame"
)

// probeTimeout bounds the TCP liveness probe (§4.4 step 4, §5's one
// permitted blocking primitive). A successful DialContext within this
// window already performs the handshake the original select()+recv(0)
// probe was checking for, so no separate post-connect probe is needed.
const probeTimeout = 5 * time.Second

// LookupOrCreate resolves a destination host over the given transport
// kind to a Face-ID, creating a new peer face if none exists yet (§4.4).
// newlyCreated reports whether this call created the face.
func (m *Manager) LookupOrCreate(host string, kind TransportKind) (face FaceID, newlyCreated bool, err error) {
	key := fmt.Sprintf("%s:%s", host, kind.code())
	if handle, ok := m.sock.Lookup(key); ok {
		if rec, ok := m.sock.Get(handle); ok {
			return rec.FaceID, false, nil
		}
	}

	conn, err := m.dialPeer(host, kind)
	if err != nil {
		return NoFace, false, err
	}

	id := m.allocate()
	if id == NoFace {
		conn.Close()
		return NoFace, false, ErrTableFull
	}

	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       kind,
		Descriptor: m.allocDescriptor(),
		PeerAddr:   conn.RemoteAddr(),
		Conn:       conn,
	}
	h := m.sock.Insert(key, rec)
	m.installSlot(id, h, rec)
	logger.Printf(logger.DBG, "[face] created peer face #%s (%s) for %s\n", id, kind, host)
	return id, true, nil
}

// LookupOrCreateFromString is the §4.4 companion entry point keyed
// directly off the external interface's "udp"|"tcp" protocol strings; it
// additionally emits an Interest-Link probe to a newly created face so
// the peer learns about this forwarder.
func (m *Manager) LookupOrCreateFromString(host, proto string) (FaceID, error) {
	kind, err := parseProto(proto)
	if err != nil {
		return NoFace, err
	}
	id, created, err := m.LookupOrCreate(host, kind)
	if err != nil {
		return NoFace, err
	}
	if created {
		if _, err := m.ForcedSend(id, frame.NewInterestLink().Marshal()); err != nil {
			logger.Printf(logger.WARN, "[face] interest-link probe to #%s failed: %s\n", id, err)
		}
	}
	return id, nil
}

// Search is the pure lookup entry point (§4.4): never creates, returns
// NoFace on miss.
func (m *Manager) Search(host, proto string) FaceID {
	kind, err := parseProto(proto)
	if err != nil {
		return NoFace
	}
	key := fmt.Sprintf("%s:%s", host, kind.code())
	handle, ok := m.sock.Lookup(key)
	if !ok {
		return NoFace
	}
	rec, ok := m.sock.Get(handle)
	if !ok {
		return NoFace
	}
	return rec.FaceID
}

// LookupPeerFace resolves a network peer address (as seen on a readable
// descriptor by the external event loop) back to its Face-ID.
func (m *Manager) LookupPeerFace(addr net.Addr, kind TransportKind) FaceID {
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		host = addr.String()
	}
	return m.Search(host, kind.String())
}

func parseProto(proto string) (TransportKind, error) {
	switch proto {
	case "udp":
		return UDP, nil
	case "tcp":
		return TCP, nil
	default:
		return Invalid, fmt.Errorf("face: unknown protocol %q", proto)
	}
}

// dialPeer creates the peer's own dedicated socket (§4.4 step 4): for
// TCP, a bounded dial doubles as the liveness probe; for UDP a "connected"
// datagram socket is created with no probe, matching the original's
// protocol-gated probe block.
func (m *Manager) dialPeer(host string, kind TransportKind) (net.Conn, error) {
	network, port := m.dialTarget(kind)
	addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
	if kind == TCP {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()
		var d net.Dialer
		conn, err := d.DialContext(ctx, network, addr)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
		}
		return conn, nil
	}
	conn, err := net.Dial(network, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnreachable, err)
	}
	return conn, nil
}

func (m *Manager) dialTarget(kind TransportKind) (network string, port uint16) {
	family := ""
	switch m.preferredFamily {
	case 4:
		family = "4"
	case 6:
		family = "6"
	}
	if kind == TCP {
		return "tcp" + family, m.tcpPort
	}
	return "udp" + family, m.udpPort
}
