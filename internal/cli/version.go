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
)

// Version is set at build time via -ldflags; it defaults to "dev" for a
// plain go build.
var Version = "dev"

// VersionCommand implements subcommands.Command for "version".
type VersionCommand struct{}

func (*VersionCommand) Name() string           { return "version" }
func (*VersionCommand) Synopsis() string       { return "print the debugger's version" }
func (*VersionCommand) Usage() string          { return "version - print the debugger's version\n" }
func (*VersionCommand) SetFlags(*flag.FlagSet) {}

func (*VersionCommand) Execute(context.Context, *flag.FlagSet, ...any) subcommands.ExitStatus {
	fmt.Printf("drbug version %s\n", Version)
	return subcommands.ExitSuccess
}
