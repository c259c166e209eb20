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

// interestLinkMagic tags a probe frame so a peer's frame decoder can tell
// it apart from ordinary Interest/Content-Object traffic on the wire.
const interestLinkMagic uint16 = 0x4c6b // "Lk"

// interestLinkVersion is the probe frame's wire version.
const interestLinkVersion uint8 = 1

// InterestLink is the small probe frame a newly brought-up face sends to
// its peer so the peer learns about this forwarder. Its payload carries
// no routing information; bringing up a face is enough to justify one.
type InterestLink struct {
	Magic   uint16
	Version uint8
}

// NewInterestLink builds a probe frame ready to marshal and send.
func NewInterestLink() *InterestLink {
	return &InterestLink{Magic: interestLinkMagic, Version: interestLinkVersion}
}

// Marshal renders the probe to its wire form.
func (p *InterestLink) Marshal() []byte {
	data, err := Marshal(p)
	if err != nil {
		panic(err)
	}
	return data
}
