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

	"github.com/bfix/gospel/logger"

	"cefnetd-go/frame"
)

// Listener returns the net.Listener backing a TCP listen face, so the
// external event loop can wait for a connection itself (a blocking
// net.Listener.Accept in its own goroutine is this port's equivalent of
// "found readable") without reaching into Manager internals. The second
// return value is false for anything that isn't a live TCP listen face.
func (m *Manager) Listener(f FaceID) (net.Listener, bool) {
	rec, ok := m.record(f)
	if !ok || rec.Listener == nil || rec.Kind != TCP {
		return nil, false
	}
	return rec.Listener, true
}

// AcceptTcp accepts one inbound connection on a TCP listen face (§4.6).
// listenFace is ListenTcpV4 or ListenTcpV6, whichever the external event
// loop found readable; the original's "try v4, then v6" fan-out is the
// event loop's job now that each family has its own net.Listener. This
// is a convenience wrapper over RegisterTcpConn for callers (and tests)
// that don't need to separate the blocking accept from registration.
func (m *Manager) AcceptTcp(listenFace FaceID) (FaceID, error) {
	ln, ok := m.record(listenFace)
	if !ok || ln.Listener == nil {
		return NoFace, ErrNoSuchFace
	}
	conn, err := ln.Listener.Accept()
	if err != nil {
		return NoFace, fmt.Errorf("face: accept failed: %w", err)
	}
	return m.RegisterTcpConn(conn)
}

// RegisterTcpConn performs the Face Table / Socket Index bookkeeping for
// a TCP connection that the caller has already accepted (steps 3-7 of
// §4.6). Splitting this out from AcceptTcp lets an external event loop
// run the blocking os-level accept() in its own per-listener goroutine
// while keeping every Manager mutation on a single, serialized caller —
// the Manager itself still holds no locks, so nothing but that one
// caller may ever invoke this concurrently with another Manager method.
func (m *Manager) RegisterTcpConn(conn net.Conn) (FaceID, error) {
	host, _, err := net.SplitHostPort(conn.RemoteAddr().String())
	if err != nil {
		conn.Close()
		return NoFace, fmt.Errorf("face: cannot resolve peer address: %w", err)
	}
	key := fmt.Sprintf("%s:%s", host, TCP.code())

	// step 4: the new connection supersedes any stale face for the
	// same peer key (invariant 4, S2).
	if handle, ok := m.sock.Lookup(key); ok {
		if old, ok := m.sock.Get(handle); ok {
			m.CloseFace(old.FaceID)
		}
	}

	id := m.allocate()
	if id == NoFace {
		conn.Close()
		return NoFace, ErrTableFull
	}

	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       TCP,
		Descriptor: m.allocDescriptor(),
		PeerAddr:   conn.RemoteAddr(),
		Conn:       conn,
	}
	h := m.sock.Insert(key, rec)
	m.installSlot(id, h, rec)

	if _, err := m.ForcedSend(id, frame.NewInterestLink().Marshal()); err != nil {
		logger.Printf(logger.WARN, "[face] interest-link probe to #%s failed: %s\n", id, err)
	}
	return id, nil
}
