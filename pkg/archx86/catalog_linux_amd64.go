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

package archx86

import "unsafe"

// RegisterClass groups descriptors by the kernel region backing them and the
// kernel call used to refresh or commit that region.
type RegisterClass int

const (
	General RegisterClass = iota
	SubGeneral
	FloatingPoint
	Debug
)

func (c RegisterClass) String() string {
	switch c {
	case General:
		return "general"
	case SubGeneral:
		return "sub_general"
	case FloatingPoint:
		return "floating_point"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// RegisterFormat tags how a descriptor's raw bytes are reinterpreted.
type RegisterFormat int

const (
	Uint RegisterFormat = iota
	DoubleFloat
	LongDouble
	Vector
)

func (f RegisterFormat) String() string {
	switch f {
	case Uint:
		return "uint"
	case DoubleFloat:
		return "double_float"
	case LongDouble:
		return "long_double"
	case Vector:
		return "vector"
	default:
		return "unknown"
	}
}

// Info is an immutable register descriptor: identifier, size and offset
// into the kernel user-area record, register class, and value format.
type Info struct {
	Name    string
	DwarfID int // -1 when the register has no DWARF number
	Size    int
	Offset  uintptr
	Class   RegisterClass
	Format  RegisterFormat
}

const noDwarfID = -1

// ua is never read at runtime; its only purpose is to give unsafe.Offsetof
// a typed, nested selector chain to compute byte offsets from.
var ua UserArea

func gp64(name string, dwarf int, field uintptr) Info {
	return Info{Name: name, DwarfID: dwarf, Size: 8, Offset: field, Class: General, Format: Uint}
}

func subGP(name string, size int, superOffset uintptr) Info {
	return Info{Name: name, DwarfID: noDwarfID, Size: size, Offset: superOffset, Class: SubGeneral, Format: Uint}
}

func fpr(name string, dwarf int, size int, field uintptr) Info {
	return Info{Name: name, DwarfID: dwarf, Size: size, Offset: field, Class: FloatingPoint, Format: Uint}
}

// Registers is the complete, declaration-ordered catalog of every
// architectural register this debugger understands.
var Registers = buildCatalog()

func buildCatalog() []Info {
	regs := unsafe.Offsetof(ua.Regs)
	rax := regs + unsafe.Offsetof(ua.Regs.Rax)
	rdx := regs + unsafe.Offsetof(ua.Regs.Rdx)
	rcx := regs + unsafe.Offsetof(ua.Regs.Rcx)
	rbx := regs + unsafe.Offsetof(ua.Regs.Rbx)
	rsi := regs + unsafe.Offsetof(ua.Regs.Rsi)
	rdi := regs + unsafe.Offsetof(ua.Regs.Rdi)
	rbp := regs + unsafe.Offsetof(ua.Regs.Rbp)
	rsp := regs + unsafe.Offsetof(ua.Regs.Rsp)
	r8 := regs + unsafe.Offsetof(ua.Regs.R8)
	r9 := regs + unsafe.Offsetof(ua.Regs.R9)
	r10 := regs + unsafe.Offsetof(ua.Regs.R10)
	r11 := regs + unsafe.Offsetof(ua.Regs.R11)
	r12 := regs + unsafe.Offsetof(ua.Regs.R12)
	r13 := regs + unsafe.Offsetof(ua.Regs.R13)
	r14 := regs + unsafe.Offsetof(ua.Regs.R14)
	r15 := regs + unsafe.Offsetof(ua.Regs.R15)

	list := []Info{
		gp64("rax", 0, rax),
		gp64("rdx", 1, rdx),
		gp64("rcx", 2, rcx),
		gp64("rbx", 3, rbx),
		gp64("rsi", 4, rsi),
		gp64("rdi", 5, rdi),
		gp64("rbp", 6, rbp),
		gp64("rsp", 7, rsp),
		gp64("r8", 8, r8),
		gp64("r9", 9, r9),
		gp64("r10", 10, r10),
		gp64("r11", 11, r11),
		gp64("r12", 12, r12),
		gp64("r13", 13, r13),
		gp64("r14", 14, r14),
		gp64("r15", 15, r15),
		gp64("rip", 16, regs+unsafe.Offsetof(ua.Regs.Rip)),
		gp64("eflags", 49, regs+unsafe.Offsetof(ua.Regs.Eflags)),
		gp64("cs", 51, regs+unsafe.Offsetof(ua.Regs.Cs)),
		gp64("fs", 54, regs+unsafe.Offsetof(ua.Regs.Fs)),
		gp64("gs", 55, regs+unsafe.Offsetof(ua.Regs.Gs)),
		gp64("ss", 52, regs+unsafe.Offsetof(ua.Regs.Ss)),
		gp64("ds", 53, regs+unsafe.Offsetof(ua.Regs.Ds)),
		gp64("es", 50, regs+unsafe.Offsetof(ua.Regs.Es)),
		gp64("orig_rax", noDwarfID, regs+unsafe.Offsetof(ua.Regs.OrigRax)),

		subGP("eax", 4, rax), subGP("edx", 4, rdx), subGP("ecx", 4, rcx), subGP("ebx", 4, rbx),
		subGP("esi", 4, rsi), subGP("edi", 4, rdi), subGP("ebp", 4, rbp), subGP("esp", 4, rsp),
		subGP("r8d", 4, r8), subGP("r9d", 4, r9), subGP("r10d", 4, r10), subGP("r11d", 4, r11),
		subGP("r12d", 4, r12), subGP("r13d", 4, r13), subGP("r14d", 4, r14), subGP("r15d", 4, r15),

		subGP("ax", 2, rax), subGP("dx", 2, rdx), subGP("cx", 2, rcx), subGP("bx", 2, rbx),
		subGP("si", 2, rsi), subGP("di", 2, rdi), subGP("bp", 2, rbp), subGP("sp", 2, rsp),
		subGP("r8w", 2, r8), subGP("r9w", 2, r9), subGP("r10w", 2, r10), subGP("r11w", 2, r11),
		subGP("r12w", 2, r12), subGP("r13w", 2, r13), subGP("r14w", 2, r14), subGP("r15w", 2, r15),

		subGP("ah", 1, rax), subGP("dh", 1, rdx), subGP("ch", 1, rcx), subGP("bh", 1, rbx),

		subGP("al", 1, rax), subGP("dl", 1, rdx), subGP("cl", 1, rcx), subGP("bl", 1, rbx),
		subGP("sil", 1, rsi), subGP("dil", 1, rdi), subGP("bpl", 1, rbp), subGP("spl", 1, rsp),
		subGP("r8b", 1, r8), subGP("r9b", 1, r9), subGP("r10b", 1, r10), subGP("r11b", 1, r11),
		subGP("r12b", 1, r12), subGP("r13b", 1, r13), subGP("r14b", 1, r14), subGP("r15b", 1, r15),

		fpr("fcw", 65, 2, unsafe.Offsetof(ua.FPRegs.Cwd)),
		fpr("fsw", 66, 2, unsafe.Offsetof(ua.FPRegs.Swd)),
		fpr("ftw", noDwarfID, 2, unsafe.Offsetof(ua.FPRegs.Ftw)),
		fpr("fop", noDwarfID, 2, unsafe.Offsetof(ua.FPRegs.Fop)),
		fpr("frip", noDwarfID, 8, unsafe.Offsetof(ua.FPRegs.Rip)),
		fpr("frdp", noDwarfID, 8, unsafe.Offsetof(ua.FPRegs.Rdp)),
		fpr("mxcsr", 64, 4, unsafe.Offsetof(ua.FPRegs.Mxcsr)),
		fpr("mxcsrmask", noDwarfID, 4, unsafe.Offsetof(ua.FPRegs.MxcrMask)),
	}

	stSpace := unsafe.Offsetof(ua.FPRegs.StSpace)
	for i := 0; i < 8; i++ {
		list = append(list, Info{
			Name: "st" + string(rune('0'+i)), DwarfID: 33 + i, Size: 16,
			Offset: stSpace + uintptr(i)*16, Class: FloatingPoint, Format: LongDouble,
		})
	}
	for i := 0; i < 8; i++ {
		list = append(list, Info{
			Name: "mm" + string(rune('0'+i)), DwarfID: 41 + i, Size: 8,
			Offset: stSpace + uintptr(i)*16, Class: FloatingPoint, Format: Vector,
		})
	}

	xmmSpace := unsafe.Offsetof(ua.FPRegs.XmmSpace)
	for i := 0; i < 16; i++ {
		list = append(list, Info{
			Name: xmmName(i), DwarfID: 17 + i, Size: 16,
			Offset: xmmSpace + uintptr(i)*16, Class: FloatingPoint, Format: Vector,
		})
	}

	debugReg := unsafe.Offsetof(ua.DebugReg)
	for i := 0; i < 8; i++ {
		list = append(list, Info{
			Name: "dr" + string(rune('0'+i)), DwarfID: noDwarfID, Size: 8,
			Offset: debugReg + uintptr(i)*8, Class: Debug, Format: Uint,
		})
	}

	return list
}

func xmmName(i int) string {
	digits := [2]byte{}
	if i < 10 {
		return "xmm" + string(rune('0'+i))
	}
	digits[0] = byte('0' + i/10)
	digits[1] = byte('0' + i%10)
	return "xmm" + string(digits[:])
}

// byName, byDwarfID index Registers for O(1) lookup.
var (
	byName    = indexByName()
	byDwarfID = indexByDwarfID()
)

func indexByName() map[string]*Info {
	m := make(map[string]*Info, len(Registers))
	for i := range Registers {
		m[Registers[i].Name] = &Registers[i]
	}
	return m
}

func indexByDwarfID() map[int]*Info {
	m := make(map[int]*Info)
	for i := range Registers {
		if Registers[i].DwarfID != noDwarfID {
			m[Registers[i].DwarfID] = &Registers[i]
		}
	}
	return m
}

// ByName looks up a descriptor by its stable name, e.g. "rax" or "xmm0".
func ByName(name string) (Info, bool) {
	info, ok := byName[name]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// ByDwarfID looks up a descriptor by its DWARF register number.
func ByDwarfID(id int) (Info, bool) {
	info, ok := byDwarfID[id]
	if !ok {
		return Info{}, false
	}
	return *info, true
}

// DebugRegisterIDs names, in order, the eight hardware debug register
// descriptors (dr0..dr7).
var DebugRegisterIDs = []string{"dr0", "dr1", "dr2", "dr3", "dr4", "dr5", "dr6", "dr7"}
