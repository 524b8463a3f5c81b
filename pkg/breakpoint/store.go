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
	"github.com/talismancer/drbug/pkg/address"
	"github.com/talismancer/drbug/pkg/drbugerr"
)

// Store owns every breakpoint site for one process controller, indexed
// both by id and by address. The next-id counter lives on the store
// instance, not a package-global, so ids are unique and monotonically
// increasing only within one controller's lifetime.
type Store struct {
	sites  map[int]*Site
	rindex map[address.Address]int
	nextID int
}

// NewStore returns an empty breakpoint store.
func NewStore() *Store {
	return &Store{
		sites:  make(map[int]*Site),
		rindex: make(map[address.Address]int),
	}
}

// Create allocates a fresh site at addr. Fails with BreakpointSiteExists if
// any site already covers that address.
func (s *Store) Create(addr address.Address) (*Site, error) {
	if id, ok := s.rindex[addr]; ok {
		return nil, &drbugerr.BreakpointSiteExists{ID: id, Address: uint64(addr)}
	}
	s.nextID++
	site := &Site{ID: s.nextID, Address: addr}
	s.sites[site.ID] = site
	s.rindex[addr] = site.ID
	return site, nil
}

// Get returns the site with the given id, if any.
func (s *Store) Get(id int) (*Site, bool) {
	site, ok := s.sites[id]
	return site, ok
}

// GetByAddress returns the site at addr, if any.
func (s *Store) GetByAddress(addr address.Address) (*Site, bool) {
	id, ok := s.rindex[addr]
	if !ok {
		return nil, false
	}
	return s.Get(id)
}

// EnabledAt reports whether a site at addr exists and is currently enabled.
func (s *Store) EnabledAt(addr address.Address) bool {
	site, ok := s.GetByAddress(addr)
	return ok && site.Enabled
}

// Len returns the number of sites currently in the store.
func (s *Store) Len() int { return len(s.sites) }

// All returns every site in the store, in no particular order.
func (s *Store) All() []*Site {
	out := make([]*Site, 0, len(s.sites))
	for _, site := range s.sites {
		out = append(out, site)
	}
	return out
}

// RemoveByID disables (restoring the original byte) then drops the site
// with the given id. Removing an unknown id is a no-op.
func (s *Store) RemoveByID(mem Memory, id int) error {
	site, ok := s.sites[id]
	if !ok {
		return nil
	}
	return s.remove(mem, site)
}

// RemoveByAddress disables then drops the site at addr. Removing an
// unknown address is a no-op.
func (s *Store) RemoveByAddress(mem Memory, addr address.Address) error {
	site, ok := s.GetByAddress(addr)
	if !ok {
		return nil
	}
	return s.remove(mem, site)
}

func (s *Store) remove(mem Memory, site *Site) error {
	if err := site.Disable(mem); err != nil {
		return err
	}
	delete(s.sites, site.ID)
	delete(s.rindex, site.Address)
	return nil
}

// DisableAll disables every site still enabled, restoring target memory.
// Called from the controller's detach path before termination; errors from
// individual sites are collected but do not stop the sweep.
func (s *Store) DisableAll(mem Memory) error {
	var firstErr error
	for _, site := range s.sites {
		if err := site.Disable(mem); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
