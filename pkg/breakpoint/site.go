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

// Package breakpoint implements the software-breakpoint store: INT3
// patching, byte save/restore, and the dual id/address index over the set
// of sites a process controller owns.
package breakpoint

import "github.com/talismancer/drbug/pkg/address"

const int3 = 0xCC

// Memory is the narrow view of a tracee's address space a Site needs to
// patch itself in and out: an 8-byte word peek/poke pair over the
// text segment, keyed by the word's own starting address (not rounded).
type Memory interface {
	PeekWord(addr address.Address) (uint64, error)
	PokeWord(addr address.Address, word uint64) error
}

// Site is one software breakpoint: a location, its enabled/disabled state,
// and (while enabled) the original byte INT3 displaced.
type Site struct {
	ID        int
	Address   address.Address
	Enabled   bool
	SavedByte byte
}

// Enable is idempotent: if the site is already enabled this is a no-op.
// Otherwise it reads the 8-byte word at the site's address, preserves the
// low byte as SavedByte, and writes the word back with its low byte
// replaced by INT3.
func (s *Site) Enable(mem Memory) error {
	if s.Enabled {
		return nil
	}
	word, err := mem.PeekWord(s.Address)
	if err != nil {
		return err
	}
	s.SavedByte = byte(word)
	patched := (word &^ 0xff) | int3
	if err := mem.PokeWord(s.Address, patched); err != nil {
		return err
	}
	s.Enabled = true
	return nil
}

// Disable is the idempotent inverse of Enable: if already disabled this is
// a no-op, otherwise it restores SavedByte into the low byte of the word at
// the site's address.
func (s *Site) Disable(mem Memory) error {
	if !s.Enabled {
		return nil
	}
	word, err := mem.PeekWord(s.Address)
	if err != nil {
		return err
	}
	restored := (word &^ 0xff) | uint64(s.SavedByte)
	if err := mem.PokeWord(s.Address, restored); err != nil {
		return err
	}
	s.Enabled = false
	return nil
}
