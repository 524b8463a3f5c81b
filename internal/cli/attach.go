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

// Package cli wires the three subcommands the drbug binary exposes
// (attach, run, version) onto github.com/google/subcommands, the way the
// teacher's runsc binary registers its own command set.
package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/cenkalti/backoff"
	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/talismancer/drbug/internal/shell"
	"github.com/talismancer/drbug/pkg/process"
)

// AttachCommand implements subcommands.Command for "attach --pid <n>".
type AttachCommand struct {
	pid int

	log *logrus.Logger
}

// NewAttachCommand builds the attach subcommand, logging through log.
func NewAttachCommand(log *logrus.Logger) *AttachCommand {
	return &AttachCommand{log: log}
}

func (*AttachCommand) Name() string     { return "attach" }
func (*AttachCommand) Synopsis() string { return "attach to a running process" }
func (*AttachCommand) Usage() string {
	return "attach --pid <n> - attach to a running process by pid\n"
}

func (c *AttachCommand) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.pid, "pid", 0, "pid of the process to attach to")
}

func (c *AttachCommand) Execute(_ context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if c.pid <= 0 {
		fmt.Println("attach: --pid is required")
		return subcommands.ExitUsageError
	}

	proc, err := attachWithRetry(c.pid, c.log)
	if err != nil {
		c.log.WithError(err).Error("attach failed")
		return subcommands.ExitFailure
	}
	defer proc.Drop()

	return runShell(proc, c.log)
}

// attachWithRetry retries ptrace-attach briefly: a target pid handed to us
// right after its own launch may not have reached a traceable state yet
// (it can still be mid-exec), which surfaces as ESRCH for a few
// milliseconds.
func attachWithRetry(pid int, log *logrus.Logger) (*process.Controller, error) {
	var proc *process.Controller

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 2 * time.Second

	err := backoff.Retry(func() error {
		p, err := process.Attach(pid)
		if err != nil {
			log.WithError(err).WithField("pid", pid).Debug("attach attempt failed, retrying")
			return err
		}
		proc = p
		return nil
	}, b)
	if err != nil {
		return nil, err
	}
	return proc, nil
}

func runShell(proc *process.Controller, log *logrus.Logger) subcommands.ExitStatus {
	entry := log.WithField("pid", proc.PID())
	repl, err := shell.New(proc, entry)
	if err != nil {
		entry.WithError(err).Error("starting shell")
		return subcommands.ExitFailure
	}
	if err := repl.Run(); err != nil {
		entry.WithError(err).Error("shell exited with error")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
