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
	"fmt"

	"golang.org/x/sys/unix"
)

// State is a tagged union mirroring the five outcomes a waitpid call can
// report for a traced process.
type State struct {
	kind   stateKind
	signal unix.Signal // valid for Stopped and Terminated
	code   int         // valid for Exited
	raw    unix.WaitStatus
}

type stateKind int

const (
	stateRunning stateKind = iota
	stateStopped
	stateExited
	stateTerminated
	stateUnknown
)

// Running reports a resumed, not-yet-waited-on process.
var Running = State{kind: stateRunning}

// Stopped builds a Stopped state; signal is unix.Signal(0) when unknown.
func Stopped(signal unix.Signal) State {
	return State{kind: stateStopped, signal: signal}
}

// Exited builds an Exited state with the given exit code.
func Exited(code int) State {
	return State{kind: stateExited, code: code}
}

// Terminated builds a Terminated state, killed by signal.
func Terminated(signal unix.Signal) State {
	return State{kind: stateTerminated, signal: signal}
}

// Unknown wraps a wait status this translation does not recognize.
func Unknown(raw unix.WaitStatus) State {
	return State{kind: stateUnknown, raw: raw}
}

func fromWaitStatus(ws unix.WaitStatus) State {
	switch {
	case ws.Exited():
		return Exited(ws.ExitStatus())
	case ws.Signaled():
		return Terminated(ws.Signal())
	case ws.Stopped():
		return Stopped(ws.StopSignal())
	default:
		return Unknown(ws)
	}
}

func (s State) IsRunning() bool    { return s.kind == stateRunning }
func (s State) IsStopped() bool    { return s.kind == stateStopped }
func (s State) IsExited() bool     { return s.kind == stateExited }
func (s State) IsTerminated() bool { return s.kind == stateTerminated }

// Signal returns the stop or termination signal, valid only when IsStopped
// or IsTerminated.
func (s State) Signal() unix.Signal { return s.signal }

// ExitCode returns the exit status, valid only when IsExited.
func (s State) ExitCode() int { return s.code }

func (s State) String() string {
	switch s.kind {
	case stateRunning:
		return "running"
	case stateStopped:
		if s.signal != 0 {
			return fmt.Sprintf("paused by signal %s", s.signal)
		}
		return "paused"
	case stateExited:
		return fmt.Sprintf("exited with code %d", s.code)
	case stateTerminated:
		return fmt.Sprintf("terminated with signal %s", s.signal)
	default:
		return fmt.Sprintf("unknown: wait status = %v", s.raw)
	}
}
