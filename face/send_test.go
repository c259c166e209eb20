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
	"bytes"
	"errors"
	"net"
	"path/filepath"
	"testing"
	"time"

	"cefnetd-go/frame"
)

// TestObjectSendLocalFraming is end-to-end scenario S4: a Content Object
// sent on a local face is framed with the fixed application header.
func TestObjectSendLocalFraming(t *testing.T) {
	m := newTestManager(t)
	path := filepath.Join(t.TempDir(), "cefnetd.sock")
	lf, err := m.CreateLocalListener(path, "stream")
	if err != nil {
		t.Fatal(err)
	}
	rec, _ := m.record(lf)

	client, err := net.Dial("unix", rec.Listener.Addr().String())
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	server, err := rec.Listener.Accept()
	if err != nil {
		t.Fatal(err)
	}
	face, err := m.LookupOrCreateLocal(m.AllocDescriptor(), server)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ObjectSend(face, []byte("WIRE"), []byte("PAYL"), 7); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 32)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := client.Read(buf)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{frame.HeaderVersion, byte(frame.Internal), 4, 0, 0, 0, 7, 0, 0, 0, 'P', 'A', 'Y', 'L'}
	if !bytes.Equal(buf[:n], want) {
		t.Fatalf("unexpected wire bytes: %v", buf[:n])
	}
}

// TestObjectSendNonLocalSendsWireBytes checks the non-local branch of
// ObjectSend: the wire bytes go out verbatim, with no header.
func TestObjectSendNonLocalSendsWireBytes(t *testing.T) {
	port, peer := peerUdpPort(t)
	defer peer.Close()

	m := newTestManager(t)
	m.udpPort = port
	face, _, err := m.LookupOrCreate("127.0.0.1", UDP)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ObjectSend(face, []byte("WIRE"), []byte("PAYL"), 7); err != nil {
		t.Fatal(err)
	}

	buf := make([]byte, 32)
	peer.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := peer.ReadFrom(buf)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf[:n]) != "WIRE" {
		t.Fatalf("expected raw wire bytes, got %q", buf[:n])
	}
}

// fakeConn is a net.Conn stub whose Write always fails, used to make the
// write-failure auto-close scenario (S5) deterministic instead of racing
// real socket teardown timing.
type fakeConn struct {
	net.Conn
	writeErr error
}

func (f *fakeConn) Write(b []byte) (int, error) { return 0, f.writeErr }
func (f *fakeConn) Close() error                { return nil }

// TestWriteFailureClosesFace is end-to-end scenario S5: a TCP write
// failure closes the face before ForcedSend returns, and a subsequent
// send fails with ErrNoSuchFace without reaching the OS.
func TestWriteFailureClosesFace(t *testing.T) {
	m := newTestManager(t)
	id := m.allocate()
	rec := &EndpointRecord{
		FaceID:     id,
		Kind:       TCP,
		Descriptor: m.allocDescriptor(),
		Conn:       &fakeConn{writeErr: errors.New("broken pipe")},
	}
	h := m.sock.Insert("198.51.100.7:2", rec)
	m.installSlot(id, h, rec)

	if _, err := m.ForcedSend(id, []byte("x")); err == nil {
		t.Fatal("expected write error")
	}
	if m.FdOfFace(id) != 0 {
		t.Fatal("expected face to be closed after write failure")
	}

	if _, err := m.ForcedSend(id, []byte("y")); !errors.Is(err, ErrNoSuchFace) {
		t.Fatalf("expected ErrNoSuchFace on closed face, got %v", err)
	}
}

func TestForcedSendStdioGuard(t *testing.T) {
	m := newTestManager(t)
	id := m.allocate()
	rec := &EndpointRecord{FaceID: id, Kind: TCP, Descriptor: 1, Conn: &fakeConn{}}
	h := m.sock.Insert("guarded", rec)
	m.installSlot(id, h, rec)

	if _, err := m.ForcedSend(id, []byte("x")); !errors.Is(err, ErrStdioGuard) {
		t.Fatalf("expected ErrStdioGuard, got %v", err)
	}
}
