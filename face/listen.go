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
	"os"
	"syscall"
	"time"

	"github.com/bfix/gospel/logger"
)

// listenBacklog documents cef_face_tcp_listen_face_create's fixed
// backlog of 16. Go's net package does not expose a way to thread a
// custom backlog through net.Listen/net.ListenConfig (it relies on the
// kernel's own default, typically net.core.somaxconn); this constant
// records the value the original component specifies even though
// nothing in this package can pass it through.
const listenBacklog = 16

// reuseAddrConfig sets SO_REUSEADDR before bind, the way
// cef_face_tcp_listen_face_create does via setsockopt. net.ListenConfig's
// Control hook is the idiomatic Go equivalent of touching the socket
// between socket() and bind() without dropping to raw syscalls for the
// listen itself (see SPEC_FULL.md §C's x/sys non-wiring entry).
var reuseAddrConfig = net.ListenConfig{
	Control: func(_, _ string, c syscall.RawConn) error {
		var sockErr error
		err := c.Control(func(fd uintptr) {
			sockErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
		})
		if err != nil {
			return err
		}
		return sockErr
	},
}

// CreateUdpListener brings up the IPv4 and IPv6 UDP listen faces on the
// given port (§4.3). Returns the reserved Face-ID of whichever family
// bound first on partial success, or NoFace if neither bound.
func (m *Manager) CreateUdpListener(port uint16) (FaceID, error) {
	return m.createDatagramListener(port, ListenUdpV4, ListenUdpV6, "udp")
}

// CreateNdnListener brings up the NDN-encoded-traffic UDP listen faces
// (§3's ListenNdnV4/ListenNdnV6, supplemented from cef_face_ndn_listen_face_create).
func (m *Manager) CreateNdnListener(port uint16) (FaceID, error) {
	return m.createDatagramListener(port, ListenNdnV4, ListenNdnV6, "ndn")
}

func (m *Manager) createDatagramListener(port uint16, v4, v6 FaceID, proto string) (FaceID, error) {
	okV4 := m.bindPacket(v4, "udp4", port, proto)
	okV6 := m.bindPacket(v6, "udp6", port, proto)
	return m.reportListenOutcome(okV4, okV6, v4, v6)
}

func (m *Manager) bindPacket(id FaceID, network string, port uint16, proto string) bool {
	pc, err := net.ListenPacket(network, fmt.Sprintf(":%d", port))
	if err != nil {
		logger.Printf(logger.WARN, "[face] %s listen on %s:%d failed: %s\n", proto, network, port, err)
		return false
	}
	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       UDP,
		Descriptor: m.allocDescriptor(),
		Packet:     pc,
	}
	key := fmt.Sprintf("%s:%s", pc.LocalAddr().String(), proto)
	h := m.sock.Insert(key, rec)
	m.installSlot(id, h, rec)
	return true
}

// CreateTcpListener brings up the IPv4 and IPv6 TCP listen faces (§4.3).
func (m *Manager) CreateTcpListener(port uint16) (FaceID, error) {
	okV4 := m.bindStream(ListenTcpV4, "tcp4", port)
	okV6 := m.bindStream(ListenTcpV6, "tcp6", port)
	return m.reportListenOutcome(okV4, okV6, ListenTcpV4, ListenTcpV6)
}

func (m *Manager) bindStream(id FaceID, network string, port uint16) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ln, err := reuseAddrConfig.Listen(ctx, network, fmt.Sprintf(":%d", port))
	if err != nil {
		logger.Printf(logger.WARN, "[face] tcp listen on %s:%d failed: %s\n", network, port, err)
		return false
	}
	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       TCP,
		Descriptor: m.allocDescriptor(),
		Listener:   ln,
	}
	key := fmt.Sprintf("%s:tcp", ln.Addr().String())
	h := m.sock.Insert(key, rec)
	m.installSlot(id, h, rec)
	return true
}

// reportListenOutcome applies §4.3's preference rule and failure
// semantics shared by every listener-family pair.
func (m *Manager) reportListenOutcome(okV4, okV6 bool, v4, v6 FaceID) (FaceID, error) {
	switch {
	case okV4 && okV6:
		return v4, nil
	case okV4:
		// v6 failed: restrict outbound resolution to v4 from here on.
		m.preferredFamily = 4
		return v4, nil
	case okV6:
		m.preferredFamily = 6
		return v6, nil
	default:
		return NoFace, ErrListenFailed
	}
}

// CreateLocalListener brings up the UNIX-domain listener applications
// connect to (§4.3's local-listener rule). sockType is "stream",
// "seqpacket" or "datagram", matching config.NodeConfig.LocalSType.
func (m *Manager) CreateLocalListener(path string, sockType string) (FaceID, error) {
	// idempotent cleanup of a previous run's socket file.
	_ = os.Remove(path)

	var rec *EndpointRecord
	switch sockType {
	case "datagram":
		pc, err := net.ListenPacket("unixgram", path)
		if err != nil {
			return NoFace, fmt.Errorf("%w: %s", ErrListenFailed, err)
		}
		rec = &EndpointRecord{FaceID: LocalListen, Kind: Local, Local: true, Descriptor: m.allocDescriptor(), Packet: pc}
	default:
		network := "unix"
		if sockType == "seqpacket" {
			network = "unixpacket"
		}
		ln, err := net.Listen(network, path)
		if err != nil {
			return NoFace, fmt.Errorf("%w: %s", ErrListenFailed, err)
		}
		rec = &EndpointRecord{FaceID: LocalListen, Kind: Local, Local: true, Descriptor: m.allocDescriptor(), Listener: ln}
	}

	h := m.sock.Insert(path, rec)
	m.installSlot(LocalListen, h, rec)
	return LocalListen, nil
}
