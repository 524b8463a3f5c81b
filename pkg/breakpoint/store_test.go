// Copyright 2026 The Talismancer Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package breakpoint

import (
	"testing"

	"github.com/talismancer/drbug/pkg/address"
)

type fakeMemory struct {
	words map[address.Address]uint64
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{words: make(map[address.Address]uint64)}
}

func (m *fakeMemory) PeekWord(addr address.Address) (uint64, error) {
	return m.words[addr], nil
}

func (m *fakeMemory) PokeWord(addr address.Address, word uint64) error {
	m.words[addr] = word
	return nil
}

func TestCreateDuplicateFails(t *testing.T) {
	s := NewStore()
	addr := address.Address(0x2a)
	if _, err := s.Create(addr); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := s.Create(addr); err == nil {
		t.Fatal("expected BreakpointSiteExists on duplicate create")
	}
}

func TestIDsMonotonicallyIncrease(t *testing.T) {
	s := NewStore()
	a, _ := s.Create(address.Address(1))
	b, _ := s.Create(address.Address(2))
	if !(a.ID < b.ID) {
		t.Errorf("ids not increasing: %d, %d", a.ID, b.ID)
	}
}

func TestEnableDisableRoundTrip(t *testing.T) {
	mem := newFakeMemory()
	addr := address.Address(0x1000)
	mem.words[addr] = 0x1122334455667788

	s := NewStore()
	site, _ := s.Create(addr)

	if err := site.Enable(mem); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if mem.words[addr]&0xff != int3 {
		t.Errorf("low byte after enable = %#x, want 0xcc", mem.words[addr]&0xff)
	}
	if site.SavedByte != 0x88 {
		t.Errorf("saved byte = %#x, want 0x88", site.SavedByte)
	}

	if err := site.Disable(mem); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if mem.words[addr] != 0x1122334455667788 {
		t.Errorf("word after disable = %#x, want original", mem.words[addr])
	}
}

func TestEnableIsIdempotent(t *testing.T) {
	mem := newFakeMemory()
	addr := address.Address(0x2000)
	mem.words[addr] = 0xdeadbeefcafebabe

	s := NewStore()
	site, _ := s.Create(addr)
	site.Enable(mem)
	firstWord := mem.words[addr]
	if err := site.Enable(mem); err != nil {
		t.Fatalf("second enable: %v", err)
	}
	if mem.words[addr] != firstWord {
		t.Errorf("second enable mutated word: %#x != %#x", mem.words[addr], firstWord)
	}
}

func TestDualIndexAgreement(t *testing.T) {
	s := NewStore()
	addr := address.Address(0x55)
	site, _ := s.Create(addr)

	byID, ok := s.Get(site.ID)
	if !ok || byID.Address != addr {
		t.Fatalf("Get(%d) = %+v, %v", site.ID, byID, ok)
	}
	byAddr, ok := s.GetByAddress(addr)
	if !ok || byAddr.ID != site.ID {
		t.Fatalf("GetByAddress(%v) = %+v, %v", addr, byAddr, ok)
	}
}

func TestRemoveRestoresByteAndDropsFromBothIndices(t *testing.T) {
	mem := newFakeMemory()
	addr := address.Address(0x3000)
	mem.words[addr] = 0xaabbccddeeff0011

	s := NewStore()
	site, _ := s.Create(addr)
	site.Enable(mem)

	if err := s.RemoveByID(mem, site.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if mem.words[addr] != 0xaabbccddeeff0011 {
		t.Errorf("memory not restored on remove: %#x", mem.words[addr])
	}
	if _, ok := s.Get(site.ID); ok {
		t.Error("site still present by id after remove")
	}
	if _, ok := s.GetByAddress(addr); ok {
		t.Error("site still present by address after remove")
	}
}

func TestRemoveUnknownIsNoOp(t *testing.T) {
	s := NewStore()
	mem := newFakeMemory()
	if err := s.RemoveByID(mem, 999); err != nil {
		t.Errorf("remove unknown id: %v", err)
	}
	if err := s.RemoveByAddress(mem, address.Address(0xfeed)); err != nil {
		t.Errorf("remove unknown address: %v", err)
	}
}
