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

// Package elfinfo resolves the virtual address a tracee's entry point
// loads at: the file-relative entry offset from the ELF header, combined
// with the runtime load bias read from /proc/<pid>/maps. A test helper for
// computing a breakpoint address before the target's first instruction has
// executed; no other package imports it.
package elfinfo

import (
	"bufio"
	"debug/elf"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/talismancer/drbug/pkg/address"
)

// EntryOffset returns the file-relative virtual address the ELF header at
// path places its entry point at, corrected for .text's own bias (so the
// result is independent of prelinking/PIE base addresses baked into the
// file itself).
func EntryOffset(path string) (uint64, error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	text := f.Section(".text")
	if text == nil {
		return 0, fmt.Errorf("%s has no .text section", path)
	}
	loadBias := text.Addr - text.Offset
	return f.Entry - loadBias, nil
}

// LoadAddress resolves offset (as returned by EntryOffset) against pid's
// runtime memory map, returning the virtual address the mapping actually
// loaded at. It scans /proc/<pid>/maps for the first mapping backed by
// path and adds offset to that mapping's base, corrected for the
// mapping's own file offset — so a mapping belonging to ld.so or another
// object loaded earlier in the same address space is never mistaken for
// the target binary's own.
func LoadAddress(pid int, path string, offset uint64) (address.Address, error) {
	mapsPath := fmt.Sprintf("/proc/%d/maps", pid)
	f, err := os.Open(mapsPath)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", mapsPath, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		fields := strings.Fields(line)
		if len(fields) < 6 || fields[5] != path {
			continue
		}

		addrRange := fields[0]
		lowHex, _, ok := strings.Cut(addrRange, "-")
		if !ok {
			continue
		}
		low, err := strconv.ParseUint(lowHex, 16, 64)
		if err != nil {
			continue
		}

		fileOffset, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			continue
		}

		return address.Address(offset - fileOffset + low), nil
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("scanning %s: %w", mapsPath, err)
	}
	return 0, fmt.Errorf("no mapping backed by %s in %s", path, mapsPath)
}
