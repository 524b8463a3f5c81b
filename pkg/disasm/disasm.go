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

// Package disasm decodes x86-64 instructions out of a tracee's memory,
// reading through the breakpoint-hiding view so the original bytes are
// shown instead of INT3 patches.
package disasm

import (
	"golang.org/x/arch/x86/x86asm"

	"github.com/talismancer/drbug/pkg/address"
)

// maxInstructionLen is the longest an x86-64 instruction can encode to;
// reads are padded to this width so a decode never truncates mid-instruction.
const maxInstructionLen = 15

// Reader is the narrow memory view disassembly needs: a breakpoint-hiding
// read, as produced by a process controller.
type Reader interface {
	ReadMemoryWithoutTraps(addr address.Address, size int) ([]byte, error)
}

// Instruction is one decoded instruction: its address, raw encoding, and
// GNU AT&T-syntax text rendering (matching the shell's default disassembly
// vocabulary).
type Instruction struct {
	Address address.Address
	Bytes   []byte
	Text    string
}

// Disassemble decodes up to count instructions starting at addr.
func Disassemble(r Reader, addr address.Address, count int) ([]Instruction, error) {
	out := make([]Instruction, 0, count)
	cur := addr

	for i := 0; i < count; i++ {
		chunk, err := r.ReadMemoryWithoutTraps(cur, maxInstructionLen)
		if err != nil {
			return out, err
		}

		inst, err := x86asm.Decode(chunk, 64)
		if err != nil {
			// A single undecodable byte still advances the cursor by one,
			// mirroring objdump's behavior on garbage bytes.
			out = append(out, Instruction{Address: cur, Bytes: chunk[:1], Text: ".byte"})
			cur = cur.Add(1)
			continue
		}

		text := x86asm.GNUSyntax(inst, uint64(cur), nil)
		out = append(out, Instruction{
			Address: cur,
			Bytes:   append([]byte(nil), chunk[:inst.Len]...),
			Text:    text,
		})
		cur = cur.Add(uint64(inst.Len))
	}

	return out, nil
}
