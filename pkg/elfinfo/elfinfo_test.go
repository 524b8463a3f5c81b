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

package elfinfo

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"testing"
)

func TestEntryOffsetSelf(t *testing.T) {
	// /proc/self/exe is the running test binary, a real ELF on any Linux
	// host this test runs on.
	off, err := EntryOffset("/proc/self/exe")
	if err != nil {
		t.Fatalf("EntryOffset: %v", err)
	}
	if off == 0 {
		t.Error("EntryOffset(/proc/self/exe) = 0, want nonzero")
	}
}

// TestLoadAddressSelf exercises path-matching against the test binary's own
// process: /proc/<pid>/maps lists the resolved real path of the executable,
// not the "/proc/self/exe" symlink itself, so the real path is resolved
// first. The result is checked against ground truth read independently
// straight out of /proc/self/maps, not just asserted nonzero.
func TestLoadAddressSelf(t *testing.T) {
	realPath, err := os.Readlink("/proc/self/exe")
	if err != nil {
		t.Fatalf("reading /proc/self/exe: %v", err)
	}

	off, err := EntryOffset(realPath)
	if err != nil {
		t.Fatalf("EntryOffset: %v", err)
	}

	pid := os.Getpid()
	addr, err := LoadAddress(pid, realPath, off)
	if err != nil {
		t.Fatalf("LoadAddress: %v", err)
	}
	if addr == 0 {
		t.Fatal("LoadAddress returned 0")
	}

	low, high, err := mappedSpan(realPath)
	if err != nil {
		t.Fatalf("finding ground-truth mapping: %v", err)
	}
	if uint64(addr) < low || uint64(addr) >= high {
		t.Errorf("LoadAddress = %s, want inside [%#x, %#x) (the mappings actually backed by %s)", addr, low, high, realPath)
	}
}

// mappedSpan independently parses /proc/self/maps and returns the full
// [low, high) span covered by every segment backed by path — a PIE binary
// is mapped as several segments (headers, text, rodata, data) at different
// permissions, and the entry point need not fall in the first of them, only
// somewhere in the object's overall mapped range. This is the ground truth
// LoadAddress's result is checked against.
func mappedSpan(path string) (low, high uint64, err error) {
	f, err := os.Open("/proc/self/maps")
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	found := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 6 || fields[5] != path {
			continue
		}
		lowHex, highHex, ok := strings.Cut(fields[0], "-")
		if !ok {
			continue
		}
		segLow, err := strconv.ParseUint(lowHex, 16, 64)
		if err != nil {
			return 0, 0, err
		}
		segHigh, err := strconv.ParseUint(highHex, 16, 64)
		if err != nil {
			return 0, 0, err
		}
		if !found || segLow < low {
			low = segLow
		}
		if !found || segHigh > high {
			high = segHigh
		}
		found = true
	}
	if err := scanner.Err(); err != nil {
		return 0, 0, err
	}
	if !found {
		return 0, 0, os.ErrNotExist
	}
	return low, high, nil
}
