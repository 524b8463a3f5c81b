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

// Package address provides the virtual-address value type shared by every
// layer of the tracee control core.
package address

import (
	"fmt"
	"strconv"
	"strings"
)

// Address is a 64-bit tracee virtual address with total order, equality,
// and a canonical hex text form.
type Address uint64

// Parse reads a hex address, accepting an optional "0x"/"0X" prefix.
func Parse(s string) (Address, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing address %q: %w", s, err)
	}
	return Address(v), nil
}

// String renders the address as "0x" followed by 16 lowercase hex digits.
func (a Address) String() string {
	return fmt.Sprintf("0x%016x", uint64(a))
}

// Add returns a+size.
func (a Address) Add(size uint64) Address {
	return a + Address(size)
}

// Sub returns the difference a-b.
func (a Address) Sub(b Address) int64 {
	return int64(a) - int64(b)
}

// Raw casts the address to the raw argument ptrace peek/poke calls expect.
// The cast is unchecked: the kernel, not this type, is the authority on
// whether the address is valid for the target process.
func (a Address) Raw() uintptr {
	return uintptr(a)
}

// PageAlign returns the address truncated down to the start of its
// containing 4096-byte page.
func (a Address) PageAlign() Address {
	const pageSize = 4096
	return a &^ Address(pageSize-1)
}
