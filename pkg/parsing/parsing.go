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

// Package parsing implements the shell's literal syntax: numeric, float,
// and vector register values, plus the standalone integer rule the shell
// reuses for the elements of a memory-write byte list. Addresses are parsed
// by the address package, not here.
package parsing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/talismancer/drbug/pkg/archx86"
	"github.com/talismancer/drbug/pkg/drbugerr"
	"github.com/talismancer/drbug/pkg/registers"
)

// ParseForRegister parses val according to info's format and size: uint
// literals for uint descriptors, a decimal float for double_float,
// bracketed byte lists for vector, and a hard failure for long_double.
func ParseForRegister(info archx86.Info, val string) (registers.Value, error) {
	switch info.Format {
	case archx86.Uint:
		return parseUint(val, info.Size)
	case archx86.DoubleFloat:
		return parseDouble(val)
	case archx86.LongDouble:
		return registers.Value{}, drbugerr.ErrLongDoubleUnsupported
	case archx86.Vector:
		return parseVector(val, info.Size)
	default:
		return registers.Value{}, &drbugerr.InvalidRegisterSize{Size: info.Size}
	}
}

// ParseUint64 parses a standalone integer literal (address, byte count,
// vector element) accepting the same prefixes as register literals.
func ParseUint64(input string) (uint64, error) {
	return parseRadixUint(input, 64)
}

func parseUint(input string, size int) (registers.Value, error) {
	switch size {
	case 1:
		v, err := parseRadixUint(input, 8)
		if err != nil {
			return registers.Value{}, err
		}
		return registers.U8(uint8(v)), nil
	case 2:
		v, err := parseRadixUint(input, 16)
		if err != nil {
			return registers.Value{}, err
		}
		return registers.U16(uint16(v)), nil
	case 4:
		v, err := parseRadixUint(input, 32)
		if err != nil {
			return registers.Value{}, err
		}
		return registers.U32(uint32(v)), nil
	case 8:
		v, err := parseRadixUint(input, 64)
		if err != nil {
			return registers.Value{}, err
		}
		return registers.U64(v), nil
	default:
		return registers.Value{}, &drbugerr.InvalidRegisterSize{Size: size}
	}
}

// parseRadixUint accepts an optional 0x/0X (hex), 0o/0O (octal), 0b/0B
// (binary) prefix; decimal otherwise. Whitespace is trimmed. The parsed
// value must fit in bitSize bits.
func parseRadixUint(input string, bitSize int) (uint64, error) {
	trimmed := strings.TrimSpace(input)
	radix := 10
	rest := trimmed
	if len(trimmed) >= 2 {
		switch trimmed[:2] {
		case "0x", "0X":
			radix, rest = 16, trimmed[2:]
		case "0o", "0O":
			radix, rest = 8, trimmed[2:]
		case "0b", "0B":
			radix, rest = 2, trimmed[2:]
		}
	}
	rest = strings.TrimSpace(rest)
	v, err := strconv.ParseUint(rest, radix, bitSize)
	if err != nil {
		return 0, fmt.Errorf("parse error: %s: %w", trimmed, err)
	}
	return v, nil
}

func parseDouble(input string) (registers.Value, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(input), 64)
	if err != nil {
		return registers.Value{}, fmt.Errorf("parse error: %s: %w", input, err)
	}
	return registers.F64(f), nil
}

func parseVector(input string, size int) (registers.Value, error) {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return registers.Value{}, fmt.Errorf("missing opening/closing brackets: %s", input)
	}

	inner := trimmed[1 : len(trimmed)-1]
	var parts []string
	if strings.TrimSpace(inner) != "" {
		parts = strings.Split(inner, ",")
	}

	bytes := make([]byte, len(parts))
	for i, p := range parts {
		v, err := parseRadixUint(p, 8)
		if err != nil {
			return registers.Value{}, err
		}
		bytes[i] = byte(v)
	}

	switch size {
	case 8:
		if len(bytes) != 8 {
			return registers.Value{}, fmt.Errorf("incorrect size for vector register: %d", len(bytes))
		}
		var b [8]byte
		copy(b[:], bytes)
		return registers.B64(b), nil
	case 16:
		if len(bytes) != 16 {
			return registers.Value{}, fmt.Errorf("incorrect size for vector register: %d", len(bytes))
		}
		var b [16]byte
		copy(b[:], bytes)
		return registers.B128(b), nil
	default:
		return registers.Value{}, &drbugerr.InvalidRegisterSize{Size: size}
	}
}
