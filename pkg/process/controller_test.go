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

import "testing"

const truePath = "/bin/true"

func TestLaunchSuccess(t *testing.T) {
	c, err := Launch(truePath, Options{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer c.Drop()

	if c.PID() <= 0 {
		t.Errorf("PID() = %d, want positive", c.PID())
	}
	if !c.State().IsStopped() {
		t.Errorf("State() = %v, want Stopped", c.State())
	}
}

func TestLaunchNoSuchProgram(t *testing.T) {
	_, err := Launch("/no/such/program-drbug-test", Options{})
	if err == nil {
		t.Fatal("expected launch of a nonexistent program to fail")
	}
}

func TestAttachInvalidPID(t *testing.T) {
	_, err := Attach(0)
	if err == nil {
		t.Fatal("expected attach to pid 0 to fail")
	}
}

func TestResumeThenExit(t *testing.T) {
	c, err := Launch(truePath, Options{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer c.Drop()

	if err := c.Resume(); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	state, err := c.WaitOnSignal()
	if err != nil {
		t.Fatalf("WaitOnSignal: %v", err)
	}
	if !state.IsExited() {
		t.Errorf("State() = %v, want Exited", state)
	}
}

func TestCreateBreakpointDuplicate(t *testing.T) {
	c, err := Launch(truePath, Options{})
	if err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer c.Drop()

	pc, err := c.PC()
	if err != nil {
		t.Fatalf("PC: %v", err)
	}
	if _, err := c.CreateBreakpoint(pc); err != nil {
		t.Fatalf("first CreateBreakpoint: %v", err)
	}
	if _, err := c.CreateBreakpoint(pc); err == nil {
		t.Fatal("expected duplicate breakpoint creation to fail")
	}
}
