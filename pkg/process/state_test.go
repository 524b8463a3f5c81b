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
	"testing"

	"golang.org/x/sys/unix"
)

func TestStateStrings(t *testing.T) {
	cases := []struct {
		s    State
		want string
	}{
		{Running, "running"},
		{Stopped(unix.SIGTRAP), "paused by signal trace/breakpoint trap"},
		{Exited(0), "exited with code 0"},
		{Terminated(unix.SIGKILL), "terminated with signal killed"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("State.String() = %q, want %q", got, c.want)
		}
	}
}

func TestStateQueries(t *testing.T) {
	if !Running.IsRunning() {
		t.Error("Running.IsRunning() = false")
	}
	if !Stopped(0).IsStopped() {
		t.Error("Stopped(0).IsStopped() = false")
	}
	if !Exited(1).IsExited() {
		t.Error("Exited(1).IsExited() = false")
	}
	if !Terminated(unix.SIGSEGV).IsTerminated() {
		t.Error("Terminated(SIGSEGV).IsTerminated() = false")
	}
}
