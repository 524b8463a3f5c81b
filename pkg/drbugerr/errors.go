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

// Package drbugerr defines the typed error kinds surfaced by the tracee
// control core.
package drbugerr

import "fmt"

// SyscallFailed wraps any kernel call failure with the syscall's name and
// the errno it returned.
type SyscallFailed struct {
	Syscall string
	Err     error
}

func (e *SyscallFailed) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Syscall, e.Err)
}

func (e *SyscallFailed) Unwrap() error { return e.Err }

// NewSyscallFailed wraps err as a SyscallFailed naming the failing syscall.
// Returns nil if err is nil, so call sites can wrap unconditionally.
func NewSyscallFailed(name string, err error) error {
	if err == nil {
		return nil
	}
	return &SyscallFailed{Syscall: name, Err: err}
}

// ChildProcessFailed reports that the forked child wrote a diagnostic to
// the launch error pipe before dying, instead of reaching exec.
type ChildProcessFailed struct {
	Message string
}

func (e *ChildProcessFailed) Error() string {
	return fmt.Sprintf("child process failed: %s", e.Message)
}

// BreakpointSiteExists reports an attempt to create a second breakpoint at
// an address that already has one.
type BreakpointSiteExists struct {
	ID      int
	Address uint64
}

func (e *BreakpointSiteExists) Error() string {
	return fmt.Sprintf("breakpoint site %d exists at address: 0x%016x", e.ID, e.Address)
}

// InvalidRegisterName reports an unknown register identifier supplied by a
// caller (typically the shell, parsing user input).
type InvalidRegisterName struct {
	Name string
}

func (e *InvalidRegisterName) Error() string {
	return fmt.Sprintf("invalid register name: %s", e.Name)
}

// InvalidRegisterSize reports a catalog mismatch: the descriptor's size does
// not match any of the formats the register cache knows how to read.
type InvalidRegisterSize struct {
	Size int
}

func (e *InvalidRegisterSize) Error() string {
	return fmt.Sprintf("invalid register size: %d", e.Size)
}

// InvalidRegisterValue reports a write whose value does not fit the target
// descriptor.
type InvalidRegisterValue struct {
	Detail string
}

func (e *InvalidRegisterValue) Error() string {
	return fmt.Sprintf("invalid register value: %s", e.Detail)
}

// ErrLongDoubleUnsupported is returned for any read, write, or widening that
// touches an 80-bit extended-precision register. x87 long-double values are
// an explicit non-goal of this debugger.
var ErrLongDoubleUnsupported = fmt.Errorf("long double (f80) type not currently supported")

// ErrPipeClosed is returned when reading from or writing to a launch error
// pipe whose relevant end has already been closed.
var ErrPipeClosed = fmt.Errorf("pipe closed")
