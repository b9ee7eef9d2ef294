// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import "fmt"

// A Step identifies the pipeline stage the CPU will perform on its next
// pulse.
type Step byte

// Pipeline steps
const (
	StepFetch Step = iota
	StepDecodeLOB
	StepDecodeHOB
	StepExecute
	StepSecondExecute
	StepWriteback
	StepInterruptCheck
)

var stepNames = [...]string{
	"fetch",
	"decode-lob",
	"decode-hob",
	"execute",
	"second-execute",
	"writeback",
	"interrupt-check",
}

func (s Step) String() string {
	if int(s) < len(stepNames) {
		return stepNames[s]
	}
	return fmt.Sprintf("step(%d)", byte(s))
}

// Registers contains the state of all TSIRAM registers.
type Registers struct {
	A    byte   // accumulator
	X    byte   // X register (system call selector)
	Y    byte   // Y register (system call argument)
	Zero bool   // zero flag
	PC   uint16 // program counter
	IR   byte   // instruction register
	Step Step   // pipeline step of the next pulse
}

// Init initializes all registers. A, X, Y = 0. PC = 0. IR = 0. Z = false.
func (r *Registers) Init() {
	*r = Registers{}
}

func (r *Registers) String() string {
	return fmt.Sprintf("PC=%04X IR=%02X A=%02X X=%02X Y=%02X Z=%v step=%v",
		r.PC, r.IR, r.A, r.X, r.Y, r.Zero, r.Step)
}

// Snapshot formats the registers the way the hardware log prints them.
func (r *Registers) Snapshot() string {
	return fmt.Sprintf("CPU State | Mode: 0 PC: %04X IR: %02X Acc: %02X xReg: %02X yReg: %02X zFlag: %v Step: %d",
		r.PC, r.IR, r.A, r.X, r.Y, r.Zero, byte(r.Step))
}
