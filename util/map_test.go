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

package util

import "testing"

func TestMapPutGetDelete(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)
	if m.Size() != 2 {
		t.Fatalf("unexpected size: %d", m.Size())
	}
	if v, ok := m.Get("a"); !ok || v != 1 {
		t.Fatalf("unexpected value for a: %d, %v", v, ok)
	}
	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Fatal("expected a to be deleted")
	}
	if m.Size() != 1 {
		t.Fatalf("unexpected size after delete: %d", m.Size())
	}
}

func TestMapKeys(t *testing.T) {
	m := NewMap[string, int]()
	m.Put("x", 1)
	m.Put("y", 2)
	keys := m.Keys()
	if len(keys) != 2 {
		t.Fatalf("unexpected key count: %d", len(keys))
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["x"] || !seen["y"] {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestArenaAllocGetFree(t *testing.T) {
	a := NewArena[string]()
	h1 := a.Alloc("one")
	h2 := a.Alloc("two")
	if h1 == h2 {
		t.Fatal("expected distinct handles")
	}
	if v, ok := a.Get(h1); !ok || v != "one" {
		t.Fatalf("unexpected value at h1: %q, %v", v, ok)
	}

	a.Free(h1)
	if _, ok := a.Get(h1); ok {
		t.Fatal("expected h1 to be freed")
	}
	// h1's slot should be recycled by the next allocation.
	h3 := a.Alloc("three")
	if h3 != h1 {
		t.Fatalf("expected recycled handle %d, got %d", h1, h3)
	}
	if v, ok := a.Get(h2); !ok || v != "two" {
		t.Fatalf("unrelated handle h2 disturbed: %q, %v", v, ok)
	}
}

func TestArenaFreeIdempotent(t *testing.T) {
	a := NewArena[int]()
	h := a.Alloc(42)
	a.Free(h)
	a.Free(h) // no-op, must not panic
	a.Free(999) // out of range, must not panic
}
