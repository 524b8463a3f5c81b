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

package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/sirupsen/logrus"

	"github.com/talismancer/drbug/pkg/process"
)

// RunCommand implements subcommands.Command for "run <path>".
type RunCommand struct {
	log *logrus.Logger
}

// NewRunCommand builds the run subcommand, logging through log.
func NewRunCommand(log *logrus.Logger) *RunCommand {
	return &RunCommand{log: log}
}

func (*RunCommand) Name() string     { return "run" }
func (*RunCommand) Synopsis() string { return "launch and trace a new process" }
func (*RunCommand) Usage() string {
	return "run <path> - launch a program under the debugger\n"
}

func (*RunCommand) SetFlags(*flag.FlagSet) {}

func (c *RunCommand) Execute(_ context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Println("run: expected exactly one path argument")
		return subcommands.ExitUsageError
	}

	proc, err := process.Launch(f.Arg(0), process.Options{})
	if err != nil {
		c.log.WithError(err).Error("launch failed")
		return subcommands.ExitFailure
	}
	defer proc.Drop()

	return runShell(proc, c.log)
}
