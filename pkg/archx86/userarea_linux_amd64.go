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

// Package archx86 describes the x86_64 register set as the kernel exposes
// it through ptrace: the byte layout of the user-area record and the static
// catalog of register descriptors that index into it.
package archx86

// UserRegs mirrors struct user_regs_struct from <sys/user.h> on x86_64. The
// field order and widths match golang.org/x/sys/unix.PtraceRegs, which this
// package intentionally duplicates so the register catalog's offsets can be
// computed with unsafe.Offsetof against a single, self-contained struct
// family rather than reaching into an unrelated package's layout.
type UserRegs struct {
	R15      uint64
	R14      uint64
	R13      uint64
	R12      uint64
	Rbp      uint64
	Rbx      uint64
	R11      uint64
	R10      uint64
	R9       uint64
	R8       uint64
	Rax      uint64
	Rcx      uint64
	Rdx      uint64
	Rsi      uint64
	Rdi      uint64
	OrigRax  uint64
	Rip      uint64
	Cs       uint64
	Eflags   uint64
	Rsp      uint64
	Ss       uint64
	FsBase   uint64
	GsBase   uint64
	Ds       uint64
	Es       uint64
	Fs       uint64
	Gs       uint64
}

// UserFPRegs mirrors struct user_fpregs_struct (the FXSAVE layout) from
// <sys/user.h> on x86_64: 512 bytes total.
type UserFPRegs struct {
	Cwd      uint16
	Swd      uint16
	Ftw      uint16
	Fop      uint16
	Rip      uint64
	Rdp      uint64
	Mxcsr    uint32
	MxcrMask uint32
	StSpace  [32]uint32 // 8 x87/MMX slots, 16 bytes each
	XmmSpace [64]uint32 // 16 XMM registers, 16 bytes each
	Padding  [24]uint32
}

// UserArea mirrors struct user from <sys/user.h> on x86_64: the full record
// PTRACE_PEEKUSER/PTRACE_POKEUSER index into by byte offset, and the record
// PTRACE_GETREGS/PTRACE_GETFPREGS fill the leading sub-ranges of.
type UserArea struct {
	Regs       UserRegs
	FPValid    int32
	_          [4]byte // alignment padding before FPRegs (glibc inserts the same)
	FPRegs     UserFPRegs
	TSize      uint64
	DSize      uint64
	SSize      uint64
	StartCode  uint64
	StartStack uint64
	Signal     int64
	Reserved   int32
	_          [4]byte // alignment padding before the pointer fields
	ArRegs     uint64
	FPStatePtr uint64
	Magic      uint64
	Comm       [32]byte
	DebugReg   [8]uint64
}
