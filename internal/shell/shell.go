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

// Package shell implements the interactive REPL collaborator: it parses
// the stable command vocabulary and drives a process controller, printing
// status lines and error text the way the command-line debugger expects.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sirupsen/logrus"

	"github.com/talismancer/drbug/pkg/address"
	"github.com/talismancer/drbug/pkg/archx86"
	"github.com/talismancer/drbug/pkg/disasm"
	"github.com/talismancer/drbug/pkg/drbugerr"
	"github.com/talismancer/drbug/pkg/parsing"
	"github.com/talismancer/drbug/pkg/process"
)

// Shell owns one REPL session over one process controller.
type Shell struct {
	proc    *process.Controller
	rl      *readline.Instance
	log     *logrus.Entry
	running bool
}

// New builds a Shell reading from stdin/stdout via a readline instance
// with the prompt the original debugger used.
func New(proc *process.Controller, log *logrus.Entry) (*Shell, error) {
	rl, err := readline.New("(drb) ")
	if err != nil {
		return nil, fmt.Errorf("initializing readline: %w", err)
	}
	return &Shell{proc: proc, rl: rl, log: log, running: true}, nil
}

// Run drives the read-eval-print loop until quit/exit/q, EOF, or
// interrupt.
func (s *Shell) Run() error {
	defer s.rl.Close()

	for s.running {
		line, err := s.rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Println("CTRL-C; shutting down")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Println("CTRL-D; shutting down")
			return nil
		case err != nil:
			return err
		}

		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := s.handleLine(line); err != nil {
			fmt.Println(err)
		}
	}
	return nil
}

func (s *Shell) handleLine(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	switch fields[0] {
	case "continue", "cont", "c":
		return s.doContinue()
	case "step", "s", "st":
		return s.doStep()
	case "breakpoint", "b", "br", "bp", "break":
		return s.doBreakpoint(fields[1:])
	case "memory", "mem", "m":
		return s.doMemory(fields[1:])
	case "register", "reg", "r":
		return s.doRegister(fields[1:])
	case "disassemble", "disas", "dis":
		return s.doDisassemble(fields[1:])
	case "quit", "exit", "q":
		s.running = false
		return nil
	default:
		return fmt.Errorf("unknown command: %s", fields[0])
	}
}

func (s *Shell) printStatus() {
	pc, err := s.proc.PC()
	if err != nil {
		s.log.WithError(err).Warn("reading pc after stop")
		return
	}
	fmt.Printf("process %d: %s at %s\n", s.proc.PID(), s.proc.State(), pc)
}

func (s *Shell) doContinue() error {
	if err := s.proc.Resume(); err != nil {
		return err
	}
	if _, err := s.proc.WaitOnSignal(); err != nil {
		return err
	}
	s.printStatus()
	return nil
}

func (s *Shell) doStep() error {
	if err := s.proc.StepInstruction(); err != nil {
		return err
	}
	s.printStatus()
	return nil
}

func (s *Shell) doBreakpoint(args []string) error {
	if len(args) == 0 {
		return errors.New("breakpoint: missing subcommand")
	}
	switch args[0] {
	case "set":
		if len(args) < 2 {
			return errors.New("breakpoint set: missing address")
		}
		addr, err := address.Parse(args[1])
		if err != nil {
			return err
		}
		site, err := s.proc.CreateBreakpoint(addr)
		if err != nil {
			return err
		}
		if err := site.Enable(s.proc); err != nil {
			return err
		}
		fmt.Printf("breakpoint %d set at %s\n", site.ID, site.Address)
		return nil

	case "delete", "del", "rm":
		id, err := parseID(args, 1)
		if err != nil {
			return err
		}
		if err := s.proc.Breakpoints().RemoveByID(s.proc, id); err != nil {
			return err
		}
		fmt.Printf("breakpoint %d deleted\n", id)
		return nil

	case "disable", "dis":
		id, err := parseID(args, 1)
		if err != nil {
			return err
		}
		site, ok := s.proc.Breakpoints().Get(id)
		if !ok {
			fmt.Printf("breakpoint %d not found\n", id)
			return nil
		}
		if err := site.Disable(s.proc); err != nil {
			return err
		}
		fmt.Printf("breakpoint %d at %s disabled\n", id, site.Address)
		return nil

	case "enable", "en":
		id, err := parseID(args, 1)
		if err != nil {
			return err
		}
		site, ok := s.proc.Breakpoints().Get(id)
		if !ok {
			fmt.Printf("breakpoint %d not found\n", id)
			return nil
		}
		if err := site.Enable(s.proc); err != nil {
			return err
		}
		fmt.Printf("breakpoint %d at %s enabled\n", id, site.Address)
		return nil

	case "list", "l", "ls":
		sites := s.proc.Breakpoints().All()
		if len(sites) == 0 {
			fmt.Println("no breakpoints set")
			return nil
		}
		fmt.Println("current breakpoints:")
		for _, site := range sites {
			state := "disabled"
			if site.Enabled {
				state = "enabled"
			}
			fmt.Printf("%d: address = %s, %s\n", site.ID, site.Address, state)
		}
		return nil

	default:
		return fmt.Errorf("breakpoint: unknown subcommand: %s", args[0])
	}
}

func parseID(args []string, idx int) (int, error) {
	if idx >= len(args) {
		return 0, errors.New("missing id")
	}
	return strconv.Atoi(args[idx])
}

func (s *Shell) doMemory(args []string) error {
	if len(args) == 0 {
		return errors.New("memory: missing subcommand")
	}
	switch args[0] {
	case "read":
		if len(args) < 2 {
			return errors.New("memory read: missing address")
		}
		addr, err := address.Parse(args[1])
		if err != nil {
			return err
		}
		size := 32
		if len(args) >= 3 {
			n, err := strconv.Atoi(args[2])
			if err != nil {
				return err
			}
			size = n
		}
		data, err := s.proc.ReadMemory(addr, size)
		if err != nil {
			return err
		}
		fmt.Printf("%s: % x\n", addr, data)
		return nil

	case "write":
		if len(args) < 3 {
			return errors.New("memory write: missing address or bytes")
		}
		addr, err := address.Parse(args[1])
		if err != nil {
			return err
		}
		data, err := parseByteLiteral(strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return s.proc.WriteMemory(addr, data)

	default:
		return fmt.Errorf("memory: unknown subcommand: %s", args[0])
	}
}

// parseByteLiteral accepts a "[b0, b1, ...]" bracketed list, reusing the
// integer literal rule for each element.
func parseByteLiteral(lit string) ([]byte, error) {
	trimmed := strings.TrimSpace(lit)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return nil, fmt.Errorf("missing opening/closing brackets: %s", lit)
	}
	inner := trimmed[1 : len(trimmed)-1]
	if strings.TrimSpace(inner) == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	out := make([]byte, len(parts))
	for i, p := range parts {
		v, err := parsing.ParseUint64(p)
		if err != nil {
			return nil, err
		}
		out[i] = byte(v)
	}
	return out, nil
}

func (s *Shell) doRegister(args []string) error {
	if len(args) == 0 {
		return errors.New("register: missing subcommand")
	}
	switch args[0] {
	case "read":
		if len(args) < 2 || args[1] == "all" {
			for _, entry := range s.proc.Registers().ReadGroup(nil) {
				if entry.Value == nil {
					continue
				}
				fmt.Printf("%s: %s\n", entry.Name, entry.Value)
			}
			return nil
		}
		info, ok := archx86.ByName(args[1])
		if !ok {
			return &drbugerr.InvalidRegisterName{Name: args[1]}
		}
		v, err := s.proc.Registers().Read(info)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %s\n", info.Name, v)
		return nil

	case "write":
		if len(args) < 3 {
			return errors.New("register write: missing name or value")
		}
		info, ok := archx86.ByName(args[1])
		if !ok {
			return &drbugerr.InvalidRegisterName{Name: args[1]}
		}
		v, err := parsing.ParseForRegister(info, strings.Join(args[2:], " "))
		if err != nil {
			return err
		}
		return s.proc.Registers().Write(s.proc.PID(), info, v)

	default:
		return fmt.Errorf("register: unknown subcommand: %s", args[0])
	}
}

func (s *Shell) doDisassemble(args []string) error {
	addr, err := s.proc.PC()
	if err != nil {
		return err
	}
	count := 5

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a":
			if i+1 >= len(args) {
				return errors.New("disassemble: -a requires an address")
			}
			i++
			a, err := address.Parse(args[i])
			if err != nil {
				return err
			}
			addr = a
		case "-n":
			if i+1 >= len(args) {
				return errors.New("disassemble: -n requires a count")
			}
			i++
			n, err := strconv.Atoi(args[i])
			if err != nil {
				return err
			}
			count = n
		}
	}

	insts, err := disasm.Disassemble(s.proc, addr, count)
	if err != nil {
		return err
	}
	for _, inst := range insts {
		fmt.Printf("%s: %s\n", inst.Address, inst.Text)
	}
	return nil
}
