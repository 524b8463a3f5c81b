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

package disasm

import (
	"testing"

	"github.com/talismancer/drbug/pkg/address"
)

type fakeReader struct {
	mem map[address.Address]byte
}

func (f *fakeReader) ReadMemoryWithoutTraps(addr address.Address, size int) ([]byte, error) {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = f.mem[addr.Add(uint64(i))]
	}
	return out, nil
}

func newFakeReader(base address.Address, code []byte) *fakeReader {
	r := &fakeReader{mem: make(map[address.Address]byte)}
	for i, b := range code {
		r.mem[base.Add(uint64(i))] = b
	}
	return r
}

func TestDisassembleSingleNop(t *testing.T) {
	base := address.Address(0x1000)
	r := newFakeReader(base, []byte{0x90}) // nop

	insts, err := Disassemble(r, base, 1)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(insts) != 1 {
		t.Fatalf("got %d instructions, want 1", len(insts))
	}
	if insts[0].Address != base {
		t.Errorf("address = %v, want %v", insts[0].Address, base)
	}
	if len(insts[0].Bytes) != 1 || insts[0].Bytes[0] != 0x90 {
		t.Errorf("bytes = %v, want [0x90]", insts[0].Bytes)
	}
}

func TestDisassembleAdvancesCursor(t *testing.T) {
	base := address.Address(0x2000)
	// mov eax, 1 (b8 01 00 00 00) followed by ret (c3)
	r := newFakeReader(base, []byte{0xb8, 0x01, 0x00, 0x00, 0x00, 0xc3})

	insts, err := Disassemble(r, base, 2)
	if err != nil {
		t.Fatalf("Disassemble: %v", err)
	}
	if len(insts) != 2 {
		t.Fatalf("got %d instructions, want 2", len(insts))
	}
	if insts[0].Address != base || insts[1].Address != base.Add(5) {
		t.Errorf("addresses = %v, %v", insts[0].Address, insts[1].Address)
	}
}
