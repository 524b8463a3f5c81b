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

//go:build linux && amd64

package process

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"github.com/talismancer/drbug/pkg/address"
	"github.com/talismancer/drbug/pkg/drbugerr"
	"github.com/talismancer/drbug/pkg/ptracex"
)

const pageSize = 0x1000

// ReadMemory reads size bytes from the tracee starting at addr, splitting
// the request on 4096-byte page boundaries so no single kernel read
// straddles a page.
func (c *Controller) ReadMemory(addr address.Address, size int) ([]byte, error) {
	buf := make([]byte, size)
	if size == 0 {
		return buf, nil
	}
	localIov := []unix.Iovec{{Base: &buf[0], Len: uint64(size)}}

	var remote []unix.RemoteIovec
	cur := addr
	remaining := size
	for remaining > 0 {
		upToNextPage := pageSize - int(uint64(cur)&(pageSize-1))
		chunk := remaining
		if upToNextPage < chunk {
			chunk = upToNextPage
		}
		remote = append(remote, unix.RemoteIovec{Base: cur.Raw(), Len: chunk})
		remaining -= chunk
		cur = cur.Add(uint64(chunk))
	}

	n, err := unix.ProcessVMReadv(c.pid, localIov, remote, 0)
	if err != nil {
		return nil, drbugerr.NewSyscallFailed("process_vm_readv", err)
	}
	return buf[:n], nil
}

// ReadMemoryWithoutTraps reads like ReadMemory, then overlays the saved
// byte of any enabled breakpoint site whose address falls inside the
// requested range, so the view is free of INT3 patches. This is the view
// fed to the disassembler.
func (c *Controller) ReadMemoryWithoutTraps(addr address.Address, size int) ([]byte, error) {
	buf, err := c.ReadMemory(addr, size)
	if err != nil {
		return nil, err
	}
	for _, site := range c.breakpoints.All() {
		if !site.Enabled {
			continue
		}
		if offset := site.Address.Sub(addr); offset >= 0 && offset < int64(size) {
			buf[offset] = site.SavedByte
		}
	}
	return buf, nil
}

// WriteMemory writes data to the tracee starting at addr, one 8-byte
// aligned word at a time via ptrace-poke. A trailing fragment shorter than
// 8 bytes is merged with the existing bytes at that address before being
// written back, so neighboring bytes are preserved.
func (c *Controller) WriteMemory(addr address.Address, data []byte) error {
	written := 0
	for written < len(data) {
		cur := addr.Add(uint64(written))
		remaining := len(data) - written

		var wordBytes [8]byte
		if remaining >= 8 {
			copy(wordBytes[:], data[written:written+8])
		} else {
			old, err := c.ReadMemory(cur, 8)
			if err != nil {
				return err
			}
			copy(wordBytes[:remaining], data[written:written+remaining])
			copy(wordBytes[remaining:], old[remaining:])
		}

		if err := c.PokeWord(cur, binary.LittleEndian.Uint64(wordBytes[:])); err != nil {
			return err
		}
		written += 8
	}
	return nil
}

// PeekWord reads the 8-byte word at addr via ptrace-peek-text. It
// implements breakpoint.Memory so the breakpoint store can patch and
// restore bytes directly.
func (c *Controller) PeekWord(addr address.Address) (uint64, error) {
	var buf [8]byte
	if err := ptracex.PeekText(c.pid, addr.Raw(), buf[:]); err != nil {
		return 0, drbugerr.NewSyscallFailed("ptrace(PTRACE_PEEKTEXT)", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// PokeWord writes the 8-byte word at addr via ptrace-poke-text.
func (c *Controller) PokeWord(addr address.Address, word uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], word)
	if err := ptracex.PokeText(c.pid, addr.Raw(), buf[:]); err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_POKETEXT)", err)
	}
	return nil
}
