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

// Package ptracex wraps the ptrace operations the tracee control core
// needs beyond what golang.org/x/sys/unix exposes directly: the
// floating-point register block has no PtraceGetFpRegs/SetFpRegs wrapper
// for linux/amd64, so this package makes the raw PTRACE_GETFPREGS/
// PTRACE_SETFPREGS syscalls the same way unix.PtraceGetRegs makes its
// PTRACE_GETREGS call.
package ptracex

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/talismancer/drbug/pkg/archx86"
)

// GetRegs reads the general-purpose register block via PTRACE_GETREGS.
func GetRegs(pid int) (archx86.UserRegs, error) {
	var regs unix.PtraceRegs
	if err := unix.PtraceGetRegs(pid, &regs); err != nil {
		return archx86.UserRegs{}, err
	}
	return *(*archx86.UserRegs)(unsafe.Pointer(&regs)), nil
}

// SetRegs writes the general-purpose register block via PTRACE_SETREGS.
func SetRegs(pid int, regs archx86.UserRegs) error {
	return unix.PtraceSetRegs(pid, (*unix.PtraceRegs)(unsafe.Pointer(&regs)))
}

// GetFPRegs reads the floating-point register block via the raw
// PTRACE_GETFPREGS request, which golang.org/x/sys/unix does not wrap for
// linux/amd64.
func GetFPRegs(pid int) (archx86.UserFPRegs, error) {
	var fpregs archx86.UserFPRegs
	_, _, errno := unix.Syscall6(unix.SYS_PTRACE, uintptr(unix.PTRACE_GETFPREGS),
		uintptr(pid), 0, uintptr(unsafe.Pointer(&fpregs)), 0, 0)
	if errno != 0 {
		return archx86.UserFPRegs{}, errno
	}
	return fpregs, nil
}

// SetFPRegs writes the floating-point register block via the raw
// PTRACE_SETFPREGS request.
func SetFPRegs(pid int, fpregs archx86.UserFPRegs) error {
	_, _, errno := unix.Syscall6(unix.SYS_PTRACE, uintptr(unix.PTRACE_SETFPREGS),
		uintptr(pid), 0, uintptr(unsafe.Pointer(&fpregs)), 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// PeekUser reads one word (8 bytes) from the kernel user-area record at the
// given byte offset, via PTRACE_PEEKUSER.
func PeekUser(pid int, offset uintptr) (uint64, error) {
	var buf [8]byte
	if _, err := unix.PtracePeekUser(pid, offset, buf[:]); err != nil {
		return 0, err
	}
	return leUint64(buf[:]), nil
}

// PokeUser writes one word (8 bytes) into the kernel user-area record at
// the given byte offset, via PTRACE_POKEUSER.
func PokeUser(pid int, offset uintptr, word uint64) error {
	var buf [8]byte
	putLEUint64(buf[:], word)
	_, err := unix.PtracePokeUser(pid, offset, buf[:])
	return err
}

// PeekText reads len(out) bytes of tracee text/data memory via
// PTRACE_PEEKTEXT, word by word.
func PeekText(pid int, addr uintptr, out []byte) error {
	_, err := unix.PtracePeekText(pid, addr, out)
	return err
}

// PokeText writes data into tracee text/data memory via PTRACE_POKETEXT,
// word by word.
func PokeText(pid int, addr uintptr, data []byte) error {
	_, err := unix.PtracePokeText(pid, addr, data)
	return err
}

func leUint64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func putLEUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v)
		v >>= 8
	}
}
