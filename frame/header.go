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

package frame

import "fmt"

// MsgType tags the content of an application-header-framed message sent
// over a local (UNIX-domain) face.
type MsgType uint8

// Internal is the only message type the Face layer itself constructs;
// other values are reserved for the external application protocol.
const Internal MsgType = 0

// HeaderVersion is the application header's wire version.
const HeaderVersion uint8 = 1

// AppHeaderLen is the fixed, on-wire length of an AppHeader in bytes.
const AppHeaderLen = 1 + 1 + 4 + 4

// AppHeader is the fixed record prepended to a Content Object sent over a
// local face: {version, type, payload-length, chunk-number}, followed by
// the payload. Byte order is host-native (intra-host IPC only), realized
// here as untagged little-endian fields through Marshal/Unmarshal.
type AppHeader struct {
	Version       uint8
	Type          MsgType
	PayloadLength uint32
	ChunkNumber   uint32
}

// NewAppHeader builds a header for a payload of the given length and
// chunk number, stamped with the current wire version and type Internal.
func NewAppHeader(payloadLength, chunkNumber uint32) *AppHeader {
	return &AppHeader{
		Version:       HeaderVersion,
		Type:          Internal,
		PayloadLength: payloadLength,
		ChunkNumber:   chunkNumber,
	}
}

// Marshal renders the header to its fixed-length wire form.
func (h *AppHeader) Marshal() []byte {
	data, err := Marshal(&struct {
		Version       uint8
		Type          uint8
		PayloadLength uint32
		ChunkNumber   uint32
	}{h.Version, uint8(h.Type), h.PayloadLength, h.ChunkNumber})
	if err != nil {
		// only possible if the literal struct above stops matching the
		// field types Marshal understands; a programming error, not a
		// runtime condition.
		panic(err)
	}
	return data
}

// UnmarshalAppHeader parses a fixed-length header from the front of data.
func UnmarshalAppHeader(data []byte) (*AppHeader, error) {
	if len(data) < AppHeaderLen {
		return nil, fmt.Errorf("frame: short application header: have %d, need %d", len(data), AppHeaderLen)
	}
	raw := new(struct {
		Version       uint8
		Type          uint8
		PayloadLength uint32
		ChunkNumber   uint32
	})
	if err := Unmarshal(raw, data[:AppHeaderLen]); err != nil {
		return nil, err
	}
	return &AppHeader{
		Version:       raw.Version,
		Type:          MsgType(raw.Type),
		PayloadLength: raw.PayloadLength,
		ChunkNumber:   raw.ChunkNumber,
	}, nil
}
