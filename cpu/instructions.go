// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/beevik/tsiram/ascii"
)

// An opsym is an internal symbol used to associate an opcode's data
// with its instructions.
type opsym byte

const (
	symADC opsym = iota
	symBNE
	symBRK
	symCPX
	symINC
	symLDA
	symLDX
	symLDY
	symNOP
	symSTA
	symSYS
	symTAX
	symTAY
	symTXA
	symTYA
)

// Mode describes a memory addressing mode.
type Mode byte

// All possible memory addressing modes
const (
	IMM Mode = iota // Immediate
	IMP             // Implied (operand byte ignored)
	REL             // Relative
	ABS             // Absolute
)

var modeNames = [...]string{"IMM", "IMP", "REL", "ABS"}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "???"
}

// Opcode data for each instruction variant.
type opcodeData struct {
	sym           opsym
	name          string
	mode          Mode
	opcode        byte
	secondExecute bool
	writeback     bool
}

var data = []opcodeData{
	{symLDA, "LDA", IMM, 0xa9, false, false},
	{symLDA, "LDA", ABS, 0xad, false, false},
	{symSTA, "STA", ABS, 0x8d, false, true},
	{symTXA, "TXA", IMP, 0x8a, false, false},
	{symTYA, "TYA", IMP, 0x98, false, false},
	{symADC, "ADC", ABS, 0x6d, false, false},
	{symLDX, "LDX", IMM, 0xa2, false, false},
	{symLDX, "LDX", ABS, 0xae, false, false},
	{symTAX, "TAX", IMP, 0xaa, false, false},
	{symLDY, "LDY", IMM, 0xa0, false, false},
	{symLDY, "LDY", ABS, 0xac, false, false},
	{symTAY, "TAY", IMP, 0xa8, false, false},
	{symNOP, "NOP", IMP, 0xea, false, false},
	{symCPX, "CPX", ABS, 0xec, false, false},
	{symINC, "INC", ABS, 0xee, true, true},
	{symBNE, "BNE", REL, 0xd0, false, false},
	{symSYS, "SYS", IMP, 0xff, false, false},
	{symBRK, "BRK", IMP, 0x00, false, false},
}

// An Instruction describes a CPU instruction, including its name,
// its addressing mode, its opcode value, its operand size, and the
// pipeline passes it requires.
type Instruction struct {
	Name          string // all-caps name of the instruction
	Mode          Mode   // addressing mode
	Opcode        byte   // hexadecimal opcode value
	Length        byte   // combined size of opcode and operand, in bytes
	SecondExecute bool   // requires a second execute pass
	Writeback     bool   // requires the accumulator to be written back
	sym           opsym
}

// HOB returns true if the instruction's operand includes a high-order
// address byte.
func (inst *Instruction) HOB() bool {
	return inst.Mode == ABS
}

// Pulses returns the number of clock pulses one full instruction cycle
// takes. The writeback and interrupt-check slots are always spent, even
// for instructions that have nothing to write back.
func (inst *Instruction) Pulses() int {
	n := 5 // fetch, decode-lob, execute, writeback, interrupt-check
	if inst.HOB() {
		n++
	}
	if inst.SecondExecute {
		n++
	}
	return n
}

// An InstructionSet defines the set of all possible instructions that
// can run on the emulated CPU.
type InstructionSet struct {
	instructions [256]*Instruction
	variants     map[string][]*Instruction
}

// Lookup retrieves a CPU instruction corresponding to the requested
// opcode. It returns nil if the opcode is undefined.
func (s *InstructionSet) Lookup(opcode byte) *Instruction {
	return s.instructions[opcode]
}

// GetInstructions returns all CPU instructions whose name matches the
// provided string.
func (s *InstructionSet) GetInstructions(name string) []*Instruction {
	return s.variants[strings.ToUpper(name)]
}

func newInstructionSet() *InstructionSet {
	set := &InstructionSet{variants: make(map[string][]*Instruction)}
	for _, d := range data {
		if set.instructions[d.opcode] != nil {
			panic("duplicate opcode")
		}
		length := byte(2)
		if d.mode == ABS {
			length = 3
		}
		inst := &Instruction{
			Name:          d.name,
			Mode:          d.mode,
			Opcode:        d.opcode,
			Length:        length,
			SecondExecute: d.secondExecute,
			Writeback:     d.writeback,
			sym:           d.sym,
		}
		set.instructions[d.opcode] = inst
		set.variants[inst.Name] = append(set.variants[inst.Name], inst)
	}
	return set
}

var instructionSet = newInstructionSet()

// GetInstructionSet returns the TSIRAM instruction set.
func GetInstructionSet() *InstructionSet {
	return instructionSet
}

// An Operand is the decoded operand of an instruction: either a literal
// byte or a resolved 16-bit address.
type Operand struct {
	Value     uint16
	IsAddress bool
}

// Literal returns the operand as a literal byte.
func (o Operand) Literal() byte {
	return byte(o.Value)
}

// Address returns the operand as a 16-bit address.
func (o Operand) Address() uint16 {
	return o.Value
}

// RelativeOffset decodes a branch operand as a signed offset in the range
// [-128, 127].
func RelativeOffset(lit byte) int {
	if lit < 0x80 {
		return int(lit)
	}
	return int(lit) - 0x100
}

// System call selectors held in the X register.
const (
	SysPrintInt    = 0x01
	SysPrintString = 0x03
)

// execute performs the first execute pass of an instruction. It returns
// true if the instruction halts the CPU. Every arm reads all of its inputs
// before it mutates any register, so a failed memory read leaves the
// register file untouched.
func execute(sym opsym, r *Registers, m *MMU, op Operand, out io.Writer) (halt bool, err error) {
	switch sym {
	case symLDA:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		r.A, r.Zero = v, v == 0

	case symLDX:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		r.X, r.Zero = v, v == 0

	case symLDY:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		r.Y, r.Zero = v, v == 0

	case symSTA:
		// The store happens during writeback.

	case symTXA:
		r.A, r.Zero = r.X, r.X == 0

	case symTYA:
		r.A, r.Zero = r.Y, r.Y == 0

	case symTAX:
		r.X, r.Zero = r.A, r.A == 0

	case symTAY:
		r.Y, r.Zero = r.A, r.A == 0

	case symADC:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		sum := MaskToByte(int(r.A) + int(v))
		r.A, r.Zero = sum, sum == 0

	case symCPX:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		r.Zero = r.X == v

	case symINC:
		v, err := load(m, op)
		if err != nil {
			return false, err
		}
		r.A = v

	case symBNE:
		if !r.Zero {
			r.PC = uint16(int(r.PC) + RelativeOffset(op.Literal()))
		}

	case symNOP:

	case symSYS:
		return false, syscall(r, m, out)

	case symBRK:
		return true, nil

	default:
		panic("unhandled instruction")
	}
	return false, nil
}

// secondExecute performs the second execute pass of an instruction that
// declares one.
func secondExecute(sym opsym, r *Registers) {
	switch sym {
	case symINC:
		v := MaskToByte(int(r.A) + 1)
		r.A, r.Zero = v, v == 0
	default:
		panic("instruction has no second execute pass")
	}
}

func load(m *MMU, op Operand) (byte, error) {
	if !op.IsAddress {
		return op.Literal(), nil
	}
	return m.ReadImmediate(op.Address())
}

func syscall(r *Registers, m *MMU, out io.Writer) error {
	switch r.X {
	case SysPrintInt:
		fmt.Fprintf(out, "%d\n", r.Y)
		return nil

	case SysPrintString:
		var sb strings.Builder
		addr := uint16(r.Y)
		for n := 0; ; n++ {
			if n == MemorySize {
				return errors.Wrapf(ErrAddressOutOfRange, "unterminated string at $%04X", r.Y)
			}
			b, err := m.ReadImmediate(addr)
			if err != nil {
				return err
			}
			if b == 0 {
				break
			}
			sb.WriteRune(ascii.ByteToChar(b))
			addr++
		}
		sb.WriteByte('\n')
		io.WriteString(out, sb.String())
		return nil

	default:
		return errors.Wrapf(ErrUnknownSyscall, "selector $%02X", r.X)
	}
}
