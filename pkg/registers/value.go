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

// Package registers implements the tracee's register cache: a byte-exact
// mirror of the kernel user-area record plus format-aware read and write
// paths keyed by an archx86.Info descriptor.
package registers

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind tags which alternative of the register value union a Value holds.
type Kind int

const (
	KindU8 Kind = iota
	KindU16
	KindU32
	KindU64
	KindI8
	KindI16
	KindI32
	KindI64
	KindF32
	KindF64
	KindB64
	KindB128
)

// Value is a tagged register value. Its byte image is always a 16-byte,
// zero-padded, little-endian encoding of the held alternative; equality is
// defined purely on that image, per the register-cache round-trip
// invariant.
type Value struct {
	Kind  Kind
	image [16]byte
}

func fromLE(kind Kind, b []byte) Value {
	var v Value
	v.Kind = kind
	copy(v.image[:], b)
	return v
}

func U8(v uint8) Value   { return fromLE(KindU8, []byte{v}) }
func I8(v int8) Value    { return fromLE(KindI8, []byte{uint8(v)}) }
func U16(v uint16) Value { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, v); return fromLE(KindU16, b) }
func I16(v int16) Value  { return U16(uint16(v)).withKind(KindI16) }
func U32(v uint32) Value { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return fromLE(KindU32, b) }
func I32(v int32) Value  { return U32(uint32(v)).withKind(KindI32) }
func U64(v uint64) Value { b := make([]byte, 8); binary.LittleEndian.PutUint64(b, v); return fromLE(KindU64, b) }
func I64(v int64) Value  { return U64(uint64(v)).withKind(KindI64) }

func F32(v float32) Value {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, math.Float32bits(v))
	return fromLE(KindF32, b)
}

func F64(v float64) Value {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, math.Float64bits(v))
	return fromLE(KindF64, b)
}

func B64(v [8]byte) Value   { return fromLE(KindB64, v[:]) }
func B128(v [16]byte) Value { return fromLE(KindB128, v[:]) }

func (v Value) withKind(k Kind) Value {
	v.Kind = k
	return v
}

// Image returns the value's 16-byte, zero-padded, little-endian byte image.
func (v Value) Image() [16]byte { return v.image }

// Equal compares two values by their byte image, per spec: equality is
// defined on the zero-padded 128-bit little-endian image, not on Kind.
func (v Value) Equal(other Value) bool {
	return v.image == other.image
}

// NaturalSize returns the byte width of the value's own alternative, before
// any widening to fit a target descriptor.
func (v Value) NaturalSize() int {
	switch v.Kind {
	case KindU8, KindI8:
		return 1
	case KindU16, KindI16:
		return 2
	case KindU32, KindI32, KindF32:
		return 4
	case KindU64, KindI64, KindF64:
		return 8
	case KindB64:
		return 8
	case KindB128:
		return 16
	default:
		return 0
	}
}

// IsSignedInt reports whether the value is one of the signed integer
// alternatives.
func (v Value) IsSignedInt() bool {
	switch v.Kind {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	default:
		return false
	}
}

// IsFloat reports whether the value is a floating-point alternative.
func (v Value) IsFloat() bool {
	return v.Kind == KindF32 || v.Kind == KindF64
}

func (v Value) AsU8() uint8   { return v.image[0] }
func (v Value) AsU16() uint16 { return binary.LittleEndian.Uint16(v.image[:2]) }
func (v Value) AsU32() uint32 { return binary.LittleEndian.Uint32(v.image[:4]) }
func (v Value) AsU64() uint64 { return binary.LittleEndian.Uint64(v.image[:8]) }
func (v Value) AsF32() float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(v.image[:4]))
}
func (v Value) AsF64() float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(v.image[:8]))
}
func (v Value) AsB64() [8]byte {
	var b [8]byte
	copy(b[:], v.image[:8])
	return b
}
func (v Value) AsB128() [16]byte { return v.image }

// String renders the value the way the shell prints register reads: plain
// hex for unsigned integers, decimal for signed integers and floats,
// bracketed byte lists for vectors.
func (v Value) String() string {
	switch v.Kind {
	case KindU8:
		return fmt.Sprintf("0x%x", v.AsU8())
	case KindU16:
		return fmt.Sprintf("0x%x", v.AsU16())
	case KindU32:
		return fmt.Sprintf("0x%x", v.AsU32())
	case KindU64:
		return fmt.Sprintf("0x%x", v.AsU64())
	case KindI8:
		return fmt.Sprintf("%d", int8(v.AsU8()))
	case KindI16:
		return fmt.Sprintf("%d", int16(v.AsU16()))
	case KindI32:
		return fmt.Sprintf("%d", int32(v.AsU32()))
	case KindI64:
		return fmt.Sprintf("%d", int64(v.AsU64()))
	case KindF32:
		return fmt.Sprintf("%g", v.AsF32())
	case KindF64:
		return fmt.Sprintf("%g", v.AsF64())
	case KindB64:
		b := v.AsB64()
		return fmt.Sprintf("%v", b)
	case KindB128:
		return fmt.Sprintf("%v", v.AsB128())
	default:
		return "<unknown>"
	}
}
