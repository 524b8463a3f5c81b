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

// Package process implements the tracee control core: process lifecycle
// (launch/attach/resume/step/wait/detach), page-aware memory I/O, and the
// glue between the register cache and breakpoint store for one tracee.
package process

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/talismancer/drbug/pkg/address"
	"github.com/talismancer/drbug/pkg/archx86"
	"github.com/talismancer/drbug/pkg/breakpoint"
	"github.com/talismancer/drbug/pkg/drbugerr"
	"github.com/talismancer/drbug/pkg/registers"
)

// Options configures Launch. The zero value attaches immediately and
// leaves the child's stdio inherited from the debugger.
type Options struct {
	StartUnattached bool
	Stdout          *os.File
}

// Controller owns one tracee: its pid, lifecycle state, register cache,
// and breakpoint store.
type Controller struct {
	pid            int
	attached       bool
	terminateOnEnd bool
	state          State
	registers      *registers.Cache
	breakpoints    *breakpoint.Store
}

// Launch forks and execs path, attaching via PTRACE_TRACEME unless
// opts.StartUnattached, and waits for the initial stop. Go's runtime
// forbids a bare fork() outside the standard library's controlled
// fork/exec path, so the close-on-exec diagnostic channel the tracee
// launch protocol describes is provided by syscall.ForkExec's own internal
// error pipe: an exec failure in the child surfaces here as an error on
// this call, not as a side channel we read separately.
func Launch(path string, opts Options) (*Controller, error) {
	argv := []string{path}

	files := []uintptr{uintptr(os.Stdin.Fd()), uintptr(os.Stdout.Fd()), uintptr(os.Stderr.Fd())}
	if opts.Stdout != nil {
		files[1] = opts.Stdout.Fd()
	}

	attr := &syscall.ProcAttr{
		Files: files,
		Sys:   &syscall.SysProcAttr{Ptrace: !opts.StartUnattached},
	}

	pid, err := syscall.ForkExec(path, argv, attr)
	if err != nil {
		return nil, &drbugerr.ChildProcessFailed{Message: err.Error()}
	}

	return newThenWait(pid, !opts.StartUnattached, true)
}

// Attach attaches to an already-running process by pid via PTRACE_ATTACH
// and waits for the initial stop.
func Attach(pid int) (*Controller, error) {
	if err := unix.PtraceAttach(pid); err != nil {
		return nil, drbugerr.NewSyscallFailed("ptrace(PTRACE_ATTACH)", err)
	}
	return newThenWait(pid, true, false)
}

func newThenWait(pid int, attached, terminateOnEnd bool) (*Controller, error) {
	c := &Controller{
		pid:            pid,
		attached:       attached,
		terminateOnEnd: terminateOnEnd,
		state:          Stopped(0),
		registers:      &registers.Cache{},
		breakpoints:    breakpoint.NewStore(),
	}
	if attached {
		if _, err := c.WaitOnSignal(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *Controller) PID() int                       { return c.pid }
func (c *Controller) State() State                   { return c.state }
func (c *Controller) Registers() *registers.Cache    { return c.registers }
func (c *Controller) Breakpoints() *breakpoint.Store { return c.breakpoints }

// PC returns the current value of rip, valid only while Stopped.
func (c *Controller) PC() (address.Address, error) {
	info, _ := archx86.ByName("rip")
	v, err := c.registers.Read(info)
	if err != nil {
		return 0, err
	}
	return address.Address(v.AsU64()), nil
}

// Resume continues the tracee via PTRACE_CONT. Callers must observe a
// Stopped state before calling this; no operation on registers or
// breakpoints is valid while the tracee is Running.
func (c *Controller) Resume() error {
	pc, err := c.PC()
	if err == nil && c.breakpoints.EnabledAt(pc) {
		if err := c.stepOverBreakpointAt(pc); err != nil {
			return err
		}
		if c.state.IsExited() || c.state.IsTerminated() {
			return nil
		}
	}
	if err := unix.PtraceCont(c.pid, 0); err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_CONT)", err)
	}
	c.state = Running
	return nil
}

// StepInstruction executes exactly one instruction. If a breakpoint is
// currently enabled at the PC, it is disabled for the single step and
// re-enabled afterward so its INT3 byte does not shadow the step itself.
func (c *Controller) StepInstruction() error {
	pc, err := c.PC()
	if err != nil {
		return err
	}
	if c.breakpoints.EnabledAt(pc) {
		return c.stepOverBreakpointAt(pc)
	}
	return c.rawSingleStep()
}

// stepOverBreakpointAt disables the site at pc, single-steps past it, and
// re-enables it, so a resume or step issued while stopped exactly on a
// breakpoint does not immediately retrap on its own INT3.
func (c *Controller) stepOverBreakpointAt(pc address.Address) error {
	site, ok := c.breakpoints.GetByAddress(pc)
	if !ok {
		return c.rawSingleStep()
	}
	if err := site.Disable(c); err != nil {
		return err
	}
	if err := c.rawSingleStep(); err != nil {
		return err
	}
	if c.state.IsExited() || c.state.IsTerminated() {
		return nil
	}
	return site.Enable(c)
}

func (c *Controller) rawSingleStep() error {
	if err := unix.PtraceSingleStep(c.pid); err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_SINGLESTEP)", err)
	}
	c.state = Running
	_, err := c.WaitOnSignal()
	return err
}

// WaitOnSignal blocks on waitpid, translates the resulting wait status
// into a State, and, while attached and the new state is Stopped,
// synchronously refills the register cache before returning.
func (c *Controller) WaitOnSignal() (State, error) {
	var ws unix.WaitStatus
	_, err := unix.Wait4(c.pid, &ws, 0, nil)
	if err != nil {
		return c.state, drbugerr.NewSyscallFailed("wait4", err)
	}
	c.state = fromWaitStatus(ws)

	if c.attached && c.state.IsStopped() {
		if err := c.registers.Load(c.pid); err != nil {
			return c.state, err
		}
	}
	return c.state, nil
}

// Drop detaches from the tracee, stopping it if running and disabling every
// enabled breakpoint first so target memory is left as it was found; a
// tracee started by Launch is then killed and reaped. Best-effort: never
// returns an error and never panics, matching the source's destructor
// contract.
func (c *Controller) Drop() {
	if c.attached {
		if c.state.IsRunning() {
			_ = unix.Kill(c.pid, unix.SIGSTOP)
			var ws unix.WaitStatus
			_, _ = unix.Wait4(c.pid, &ws, 0, nil)
		}

		_ = c.breakpoints.DisableAll(c)

		_ = unix.PtraceDetach(c.pid)
		_ = unix.Kill(c.pid, unix.SIGCONT)
	}

	if c.terminateOnEnd {
		_ = unix.Kill(c.pid, unix.SIGKILL)
		var ws unix.WaitStatus
		_, _ = unix.Wait4(c.pid, &ws, 0, nil)
	}
}

// CreateBreakpoint allocates and returns a new software breakpoint site at
// addr, without enabling it.
func (c *Controller) CreateBreakpoint(addr address.Address) (*breakpoint.Site, error) {
	return c.breakpoints.Create(addr)
}
