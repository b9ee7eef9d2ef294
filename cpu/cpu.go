// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cpu implements the TSIRAM 8-bit CPU, its memory and MMU, its
// interrupt controller and the clock that drives them.
package cpu

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// CPU represents a single TSIRAM CPU. Each clock pulse advances the
// instruction pipeline by one step.
type CPU struct {
	Reg      Registers            // CPU registers
	Mem      *MMU                 // assigned memory
	IC       *InterruptController // interrupt controller polled once per cycle
	InstSet  *InstructionSet      // instruction set used by the CPU
	Out      io.Writer            // system call output
	Cycles   uint64               // total processed pulses
	LastPC   uint16               // address of the current instruction
	inst     *Instruction
	halted   bool
	err      error
	tracer   Tracer
	debugger *Debugger
	onHalt   func(err error)
}

// NewCPU creates an emulated CPU bound to the specified MMU and interrupt
// controller. System call output is written to out.
func NewCPU(m *MMU, ic *InterruptController, out io.Writer) *CPU {
	if out == nil {
		out = io.Discard
	}
	cpu := &CPU{
		Mem:     m,
		IC:      ic,
		InstSet: GetInstructionSet(),
		Out:     out,
		tracer:  nopTracer{},
	}
	cpu.Reg.Init()
	return cpu
}

// SetTracer attaches a tracer that receives a register snapshot on every
// pulse.
func (cpu *CPU) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	cpu.tracer = t
}

// OnHalt installs a function that is called when the CPU halts. The error
// is nil when the CPU halted on a BRK instruction and a *Fault otherwise.
func (cpu *CPU) OnHalt(fn func(err error)) {
	cpu.onHalt = fn
}

// SetPC updates the CPU program counter to 'addr' and restarts the
// pipeline at the fetch step.
func (cpu *CPU) SetPC(addr uint16) {
	cpu.Reg.PC = addr
	cpu.Reg.Step = StepFetch
	cpu.inst = nil
}

// Reset clears the registers and the halted state.
func (cpu *CPU) Reset() {
	cpu.Reg.Init()
	cpu.inst = nil
	cpu.halted = false
	cpu.err = nil
}

// Halted returns true once the CPU has executed a BRK instruction or
// faulted.
func (cpu *CPU) Halted() bool {
	return cpu.halted
}

// Err returns the fault that halted the CPU, or nil.
func (cpu *CPU) Err() error {
	return cpu.err
}

// Instruction returns the instruction currently in the pipeline, or nil
// between instruction cycles.
func (cpu *CPU) Instruction() *Instruction {
	return cpu.inst
}

// GetInstruction returns the instruction at the requested address without
// disturbing the memory registers. It returns nil if the cell is
// uninitialized or holds an undefined opcode.
func (cpu *CPU) GetInstruction(addr uint16) *Instruction {
	opcode, ok := cpu.Mem.Peek(addr)
	if !ok {
		return nil
	}
	return cpu.InstSet.Lookup(opcode)
}

// Pulse advances the pipeline by one step. A halted CPU ignores pulses.
func (cpu *CPU) Pulse() {
	if cpu.halted {
		return
	}
	cpu.Cycles++

	var err error
	switch cpu.Reg.Step {
	case StepFetch:
		err = cpu.fetch()
	case StepDecodeLOB:
		err = cpu.decodeLOB()
	case StepDecodeHOB:
		err = cpu.decodeHOB()
	case StepExecute:
		err = cpu.execute()
	case StepSecondExecute:
		secondExecute(cpu.inst.sym, &cpu.Reg)
		cpu.Reg.Step = StepWriteback
	case StepWriteback:
		if cpu.inst.Writeback {
			cpu.Mem.WriteBack(cpu.Reg.A)
		}
		cpu.Reg.Step = StepInterruptCheck
	case StepInterruptCheck:
		cpu.interruptCheck()
	}

	if err != nil {
		cpu.fault(err)
	}
	cpu.tracer.TraceCPU(cpu.Reg)
}

// Step pulses the CPU until the current instruction cycle completes or
// the CPU halts.
func (cpu *CPU) Step() {
	for {
		cpu.Pulse()
		if cpu.halted || cpu.Reg.Step == StepFetch {
			return
		}
	}
}

func (cpu *CPU) fetch() error {
	opcode, err := cpu.Mem.ReadImmediate(cpu.Reg.PC)
	if err != nil {
		return err
	}
	cpu.Reg.IR = opcode

	inst := cpu.InstSet.Lookup(opcode)
	if inst == nil {
		return errors.Wrapf(ErrUnknownOpcode, "$%02X at $%04X", opcode, cpu.Reg.PC)
	}

	cpu.inst = inst
	cpu.LastPC = cpu.Reg.PC
	cpu.Reg.PC++
	cpu.Reg.Step = StepDecodeLOB
	return nil
}

func (cpu *CPU) decodeLOB() error {
	b, err := cpu.Mem.ReadImmediate(cpu.Reg.PC)
	if err != nil {
		return err
	}
	cpu.Mem.SetLowOrderByte(int(b))
	cpu.Reg.PC++
	if cpu.inst.HOB() {
		cpu.Reg.Step = StepDecodeHOB
	} else {
		cpu.Mem.SetHighOrderByte(0)
		cpu.Reg.Step = StepExecute
	}
	return nil
}

func (cpu *CPU) decodeHOB() error {
	b, err := cpu.Mem.ReadImmediate(cpu.Reg.PC)
	if err != nil {
		return err
	}
	cpu.Mem.SetHighOrderByte(int(b))
	cpu.Reg.PC++
	cpu.Reg.Step = StepExecute
	return nil
}

func (cpu *CPU) execute() error {
	var op Operand
	if cpu.inst.HOB() {
		op = Operand{Value: cpu.Mem.Composed(), IsAddress: true}
	} else {
		op = Operand{Value: uint16(cpu.Mem.LowOrderByte())}
	}

	halt, err := execute(cpu.inst.sym, &cpu.Reg, cpu.Mem, op, cpu.Out)
	if err != nil {
		return err
	}
	if halt {
		cpu.halt(nil)
		return nil
	}

	if cpu.inst.SecondExecute {
		cpu.Reg.Step = StepSecondExecute
	} else {
		cpu.Reg.Step = StepWriteback
	}
	return nil
}

func (cpu *CPU) interruptCheck() {
	if cpu.IC != nil {
		if d := cpu.IC.Next(); d != nil {
			cpu.service(d)
		}
	}

	cpu.inst = nil
	cpu.Reg.Step = StepFetch

	if cpu.debugger != nil {
		cpu.debugger.onUpdatePC(cpu, cpu.Reg.PC)
	}
}

func (cpu *CPU) service(d Device) {
	buf := d.OutputBuffer()
	if buf == nil {
		cpu.tracer.Log(SourceCPU, fmt.Sprintf("Handling interrupt from %s (IRQ %d)", d.Name(), d.IRQ()))
		return
	}
	if b, ok := buf.Pop(); ok {
		cpu.tracer.Log(SourceCPU, fmt.Sprintf("Handling interrupt from %s (IRQ %d): %02X %q",
			d.Name(), d.IRQ(), b, rune(b)))
	}
}

func (cpu *CPU) halt(err error) {
	cpu.halted = true
	cpu.err = err
	if cpu.onHalt != nil {
		cpu.onHalt(err)
	}
}

func (cpu *CPU) fault(err error) {
	cpu.halt(&Fault{
		Step:   cpu.Reg.Step,
		Opcode: cpu.Reg.IR,
		Reg:    cpu.Reg,
		Err:    err,
	})
}

// AttachDebugger attaches a debugger to the CPU. The debugger receives
// notifications whenever the CPU completes an instruction cycle or stores
// a byte to memory.
func (cpu *CPU) AttachDebugger(debugger *Debugger) {
	cpu.debugger = debugger
	cpu.Mem.onStore = func(addr uint16, v byte) {
		debugger.onDataStore(cpu, addr, v)
	}
}

// DetachDebugger detaches the currently attached debugger from the CPU.
func (cpu *CPU) DetachDebugger() {
	cpu.debugger = nil
	cpu.Mem.onStore = nil
}
