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
	"testing"
	"time"
)

// peerUdpPort starts a bare UDP socket standing in for a remote peer and
// returns the port it bound to.
func peerUdpPort(t *testing.T) (uint16, net.PacketConn) {
	t.Helper()
	pc, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	_, portStr, _ := net.SplitHostPort(pc.LocalAddr().String())
	var port int
	if _, err := fmt.Sscan(portStr, &port); err != nil {
		t.Fatal(err)
	}
	return uint16(port), pc
}

// TestLookupOrCreateIdempotent is end-to-end scenario S1: repeated
// lookup-or-create for the same host/proto returns the same Face-ID and
// reports "newly created" only on the first call.
func TestLookupOrCreateIdempotent(t *testing.T) {
	port, peer := peerUdpPort(t)
	defer peer.Close()

	m := newTestManager(t)
	m.udpPort = port

	f1, created1, err := m.LookupOrCreate("127.0.0.1", UDP)
	if err != nil {
		t.Fatal(err)
	}
	if !created1 {
		t.Fatal("expected newly-created on first call")
	}
	if f1 < Reserved {
		t.Fatalf("expected a dynamic Face-ID, got %s", f1)
	}

	f2, created2, err := m.LookupOrCreate("127.0.0.1", UDP)
	if err != nil {
		t.Fatal(err)
	}
	if created2 {
		t.Fatal("expected newly-created=false on second call")
	}
	if f2 != f1 {
		t.Fatalf("expected same Face-ID, got %s vs %s", f2, f1)
	}
}

// TestLookupOrCreateFromStringSendsProbe checks that a newly created
// face receives an Interest-Link probe frame.
func TestLookupOrCreateFromStringSendsProbe(t *testing.T) {
	port, peer := peerUdpPort(t)
	defer peer.Close()

	m := newTestManager(t)
	m.udpPort = port

	if _, err := m.LookupOrCreateFromString("127.0.0.1", "udp"); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 64)
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := peer.ReadFrom(buf)
	if err != nil {
		t.Fatalf("expected a probe frame, got error: %s", err)
	}
	if n != 3 {
		t.Fatalf("unexpected probe length: %d", n)
	}
}

func TestSearchMiss(t *testing.T) {
	m := newTestManager(t)
	if id := m.Search("203.0.113.5", "udp"); id != NoFace {
		t.Fatalf("expected NoFace, got %s", id)
	}
}
