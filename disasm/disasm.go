// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package disasm implements a TSIRAM instruction set disassembler.
package disasm

import (
	"fmt"

	"github.com/beevik/tsiram/cpu"
)

// Disassembler formatting for addressing modes
var modeFormat = []string{
	"#$%s", // IMM
	"%s",   // IMP
	"$%s",  // REL
	"$%s",  // ABS
}

var hex = "0123456789ABCDEF"

// Return a big-endian hexadecimal string representation of a little-endian
// byte slice.
func hexString(b []byte) string {
	hexlen := len(b) * 2
	hexbuf := make([]byte, hexlen)
	j := hexlen - 1
	for _, n := range b {
		hexbuf[j] = hex[n&0xf]
		hexbuf[j-1] = hex[n>>4]
		j -= 2
	}
	return string(hexbuf)
}

// A Peeker reads memory without side effects.
type Peeker interface {
	Peek(addr uint16) (byte, bool)
}

// Disassemble the machine code in memory 'm' at address 'addr'. Return a
// 'line' string representing the disassembled instruction and a 'next'
// address that starts the following line of machine code. Undefined
// opcodes and uninitialized cells disassemble as a .BYTE directive one
// byte long.
func Disassemble(m Peeker, addr uint16) (line string, next uint16) {
	opcode, ok := m.Peek(addr)
	if !ok {
		return ".BYTE ??", addr + 1
	}

	inst := cpu.GetInstructionSet().Lookup(opcode)
	if inst == nil {
		return fmt.Sprintf(".BYTE $%02X", opcode), addr + 1
	}

	operand := make([]byte, inst.Length-1)
	for i := range operand {
		operand[i], _ = m.Peek(addr + 1 + uint16(i))
	}

	switch inst.Mode {
	case cpu.IMP:
		line = inst.Name
	case cpu.REL:
		// Convert relative offset to absolute address.
		braddr := int(addr) + int(inst.Length) + cpu.RelativeOffset(operand[0])
		operand = []byte{byte(braddr), byte(braddr >> 8)}
		fallthrough
	default:
		line = fmt.Sprintf("%s "+modeFormat[inst.Mode], inst.Name, hexString(operand))
	}
	next = addr + uint16(inst.Length)
	return
}

// Bytes returns the machine code bytes of the instruction at addr as a
// hexadecimal string, for listings.
func Bytes(m Peeker, addr, next uint16) string {
	s := ""
	for a := addr; a != next; a++ {
		v, ok := m.Peek(a)
		if ok {
			s += fmt.Sprintf("%02X ", v)
		} else {
			s += "?? "
		}
	}
	return s
}
