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

package parsing

import (
	"testing"

	"github.com/talismancer/drbug/pkg/archx86"
	"github.com/talismancer/drbug/pkg/registers"
)

func TestParseUintPrefixes(t *testing.T) {
	cases := []struct {
		input string
		size  int
		want  registers.Value
	}{
		{"0x2a", 1, registers.U8(42)},
		{" 0x2a  ", 1, registers.U8(42)},
		{"0o52", 1, registers.U8(42)},
		{"0b00101010", 1, registers.U8(42)},
		{"0x2a2a", 2, registers.U16(0x2a2a)},
		{"0x2a2a2a2a", 4, registers.U32(0x2a2a2a2a)},
	}
	for _, c := range cases {
		info := archx86.Info{Format: archx86.Uint, Size: c.size}
		got, err := ParseForRegister(info, c.input)
		if err != nil {
			t.Fatalf("ParseForRegister(%q): %v", c.input, err)
		}
		if !got.Equal(c.want) {
			t.Errorf("ParseForRegister(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseUintFails(t *testing.T) {
	cases := []struct {
		input string
		size  int
	}{
		{"0x2a2a", 1},
		{"0x", 1},
		{"0xzzzz", 1},
	}
	for _, c := range cases {
		info := archx86.Info{Format: archx86.Uint, Size: c.size}
		if _, err := ParseForRegister(info, c.input); err == nil {
			t.Errorf("ParseForRegister(%q, size=%d) expected error", c.input, c.size)
		}
	}
}

func TestParseVector64(t *testing.T) {
	info := archx86.Info{Format: archx86.Vector, Size: 8}
	got, err := ParseForRegister(info, "[0, 0b1, 2, 3, 0o4, 0x5, 6, 7]")
	if err != nil {
		t.Fatalf("ParseForRegister: %v", err)
	}
	want := registers.B64([8]byte{0, 1, 2, 3, 4, 5, 6, 7})
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseVector128(t *testing.T) {
	info := archx86.Info{Format: archx86.Vector, Size: 16}
	got, err := ParseForRegister(info, "[0, 0b1, 2, 3, 0o4, 0x5, 6, 7, 8, 9, 0x0a, 11, 12, 13, 14, 15]")
	if err != nil {
		t.Fatalf("ParseForRegister: %v", err)
	}
	want := registers.B128([16]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15})
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseDouble(t *testing.T) {
	info := archx86.Info{Format: archx86.DoubleFloat, Size: 8}
	got, err := ParseForRegister(info, "42.24")
	if err != nil {
		t.Fatalf("ParseForRegister: %v", err)
	}
	if got.AsF64() != 42.24 {
		t.Errorf("AsF64() = %v, want 42.24", got.AsF64())
	}
}

func TestParseLongDoubleUnsupported(t *testing.T) {
	info := archx86.Info{Format: archx86.LongDouble, Size: 16}
	if _, err := ParseForRegister(info, "1.0"); err == nil {
		t.Error("expected long_double parse to fail")
	}
}

func TestParseUint64AddressLiteral(t *testing.T) {
	v, err := ParseUint64("0xCAFECAFE")
	if err != nil {
		t.Fatalf("ParseUint64: %v", err)
	}
	if v != 0xCAFECAFE {
		t.Errorf("ParseUint64 = %#x, want 0xCAFECAFE", v)
	}
}
