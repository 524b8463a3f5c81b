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

package registers

import (
	"encoding/binary"
	"unsafe"

	"github.com/talismancer/drbug/pkg/archx86"
	"github.com/talismancer/drbug/pkg/drbugerr"
	"github.com/talismancer/drbug/pkg/ptracex"
)

// Cache is an owned, byte-exact copy of one tracee's kernel user-area
// record. Its lifetime is bound to the process controller that owns it;
// it is mutated only through Write, Load, and the per-class commit paths.
type Cache struct {
	buf [unsafe.Sizeof(archx86.UserArea{})]byte
}

// Load refills the cache from the kernel: the general-purpose block via
// PTRACE_GETREGS, the floating-point block via PTRACE_GETFPREGS, and each
// debug register individually via PTRACE_PEEKUSER. Called synchronously on
// every transition into Stopped while attached.
func (c *Cache) Load(pid int) error {
	regs, err := ptracex.GetRegs(pid)
	if err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_GETREGS)", err)
	}
	c.putRegs(regs)

	fpregs, err := ptracex.GetFPRegs(pid)
	if err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_GETFPREGS)", err)
	}
	c.putFPRegs(fpregs)

	for _, name := range archx86.DebugRegisterIDs {
		info, _ := archx86.ByName(name)
		word, err := ptracex.PeekUser(pid, info.Offset)
		if err != nil {
			return drbugerr.NewSyscallFailed("ptrace(PTRACE_PEEKUSER)", err)
		}
		binary.LittleEndian.PutUint64(c.buf[info.Offset:info.Offset+8], word)
	}
	return nil
}

func (c *Cache) putRegs(regs archx86.UserRegs) {
	off := unsafe.Offsetof(userAreaProbe.Regs)
	size := unsafe.Sizeof(regs)
	src := (*[1 << 20]byte)(unsafe.Pointer(&regs))[:size:size]
	copy(c.buf[off:off+uintptr(size)], src)
}

func (c *Cache) putFPRegs(fpregs archx86.UserFPRegs) {
	off := unsafe.Offsetof(userAreaProbe.FPRegs)
	size := unsafe.Sizeof(fpregs)
	src := (*[1 << 20]byte)(unsafe.Pointer(&fpregs))[:size:size]
	copy(c.buf[off:off+uintptr(size)], src)
}

// userAreaProbe exists only so field offsets can be computed without
// allocating a fresh zero value on every call.
var userAreaProbe archx86.UserArea

// Read returns the descriptor's current value, reinterpreting the
// descriptor's byte range little-endian by format.
func (c *Cache) Read(info archx86.Info) (Value, error) {
	if info.Format == archx86.LongDouble {
		return Value{}, drbugerr.ErrLongDoubleUnsupported
	}
	raw := c.buf[info.Offset : info.Offset+uintptr(info.Size)]

	switch info.Format {
	case archx86.Uint:
		switch info.Size {
		case 1:
			return U8(raw[0]), nil
		case 2:
			return U16(binary.LittleEndian.Uint16(raw)), nil
		case 4:
			return U32(binary.LittleEndian.Uint32(raw)), nil
		case 8:
			return U64(binary.LittleEndian.Uint64(raw)), nil
		default:
			return Value{}, &drbugerr.InvalidRegisterSize{Size: info.Size}
		}
	case archx86.DoubleFloat:
		if info.Size != 8 {
			return Value{}, &drbugerr.InvalidRegisterSize{Size: info.Size}
		}
		bits := binary.LittleEndian.Uint64(raw)
		return F64(asFloat64(bits)), nil
	case archx86.Vector:
		switch info.Size {
		case 8:
			var b [8]byte
			copy(b[:], raw)
			return B64(b), nil
		case 16:
			var b [16]byte
			copy(b[:], raw)
			return B128(b), nil
		default:
			return Value{}, &drbugerr.InvalidRegisterSize{Size: info.Size}
		}
	default:
		return Value{}, &drbugerr.InvalidRegisterSize{Size: info.Size}
	}
}

// GroupEntry is one row of a grouped register read.
type GroupEntry struct {
	Name  string
	Value *Value // nil for long_double-format registers, which are not read
}

// ReadGroup returns every descriptor whose class matches classFilter (or
// every descriptor, when classFilter is nil), in catalog declaration order.
func (c *Cache) ReadGroup(classFilter *archx86.RegisterClass) []GroupEntry {
	out := make([]GroupEntry, 0, len(archx86.Registers))
	for _, info := range archx86.Registers {
		if classFilter != nil && info.Class != *classFilter {
			continue
		}
		entry := GroupEntry{Name: info.Name}
		if info.Format != archx86.LongDouble {
			v, err := c.Read(info)
			if err == nil {
				entry.Value = &v
			}
		}
		out = append(out, entry)
	}
	return out
}

// Write widens value to the descriptor's format and size, patches the
// cache, and commits the change to the kernel: the whole floating-point
// block for floating_point-class descriptors, or a single 8-byte
// PTRACE_POKEUSER word otherwise.
func (c *Cache) Write(pid int, info archx86.Info, value Value) error {
	widened, err := widen(info, value)
	if err != nil {
		return err
	}

	copy(c.buf[info.Offset:info.Offset+uintptr(info.Size)], widened[:info.Size])

	if info.Class == archx86.FloatingPoint {
		fpoff := unsafe.Offsetof(userAreaProbe.FPRegs)
		fpsize := unsafe.Sizeof(archx86.UserFPRegs{})
		var fpregs archx86.UserFPRegs
		dst := (*[1 << 20]byte)(unsafe.Pointer(&fpregs))[:fpsize:fpsize]
		copy(dst, c.buf[fpoff:fpoff+uintptr(fpsize)])
		if err := ptracex.SetFPRegs(pid, fpregs); err != nil {
			return drbugerr.NewSyscallFailed("ptrace(PTRACE_SETFPREGS)", err)
		}
		return nil
	}

	wordOffset := info.Offset &^ 7
	word := c.buf[wordOffset : wordOffset+8]
	if err := ptracex.PokeUser(pid, wordOffset, binary.LittleEndian.Uint64(word)); err != nil {
		return drbugerr.NewSyscallFailed("ptrace(PTRACE_POKEUSER)", err)
	}
	return nil
}

// widen converts value into a 16-byte little-endian image sized to info,
// per the widening table in the register-write specification.
func widen(info archx86.Info, value Value) ([16]byte, error) {
	var out [16]byte

	switch {
	case value.IsFloat() && info.Format == archx86.DoubleFloat:
		var f64 float64
		if value.Kind == KindF32 {
			f64 = float64(value.AsF32())
		} else {
			f64 = value.AsF64()
		}
		binary.LittleEndian.PutUint64(out[:8], asUint64(f64))
		return out, nil

	case info.Format == archx86.LongDouble:
		return out, drbugerr.ErrLongDoubleUnsupported

	case value.IsSignedInt() && info.Format == archx86.Uint && (info.Size == 2 || info.Size == 4 || info.Size == 8):
		signed := signExtendTo64(value)
		binary.LittleEndian.PutUint64(out[:8], uint64(signed))
		return out, nil

	default:
		if value.NaturalSize() > info.Size {
			return out, &drbugerr.InvalidRegisterValue{
				Detail: "value does not fit descriptor " + info.Name,
			}
		}
		img := value.Image()
		copy(out[:], img[:])
		return out, nil
	}
}

func signExtendTo64(v Value) int64 {
	switch v.Kind {
	case KindI8:
		return int64(int8(v.AsU8()))
	case KindI16:
		return int64(int16(v.AsU16()))
	case KindI32:
		return int64(int32(v.AsU32()))
	case KindI64:
		return int64(v.AsU64())
	default:
		return int64(v.AsU64())
	}
}

func asFloat64(bits uint64) float64 {
	return *(*float64)(unsafe.Pointer(&bits))
}

func asUint64(f float64) uint64 {
	return *(*uint64)(unsafe.Pointer(&f))
}
