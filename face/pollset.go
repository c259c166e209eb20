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

// PollEntry is one descriptor the external event loop should start
// watching for readability/error, paired with the Face-ID it belongs to.
type PollEntry struct {
	FaceID     FaceID
	Descriptor int
}

// UpdateTcpPollSet walks the dynamic Face-ID range and returns a
// PollEntry for every live TCP face not already present in known (§4.9).
// This is how newly accepted TCP peers enter the event loop's poll set
// without the loop needing to know how the Face Table is laid out.
func (m *Manager) UpdateTcpPollSet(known map[FaceID]bool) []PollEntry {
	var additions []PollEntry
	for i := Reserved; int(i) < len(m.table); i++ {
		sl := m.table[i]
		if sl.descriptor == 0 || sl.kind != TCP {
			continue
		}
		if known[i] {
			continue
		}
		additions = append(additions, PollEntry{FaceID: i, Descriptor: sl.descriptor})
	}
	return additions
}
