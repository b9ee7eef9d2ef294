// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"bytes"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/tsiram/asm"
	"github.com/beevik/tsiram/cpu"
)

func loadCPU(t *testing.T, asmString string) (*cpu.CPU, *bytes.Buffer) {
	t.Helper()
	assembly, _, err := asm.AssembleString(asmString)
	require.NoError(t, err)

	var out bytes.Buffer
	mem := cpu.NewMMU()
	c := cpu.NewCPU(mem, cpu.NewInterruptController(), &out)
	require.NoError(t, assembly.Load(mem))
	c.SetPC(assembly.Origin)
	return c, &out
}

func stepCPU(c *cpu.CPU, steps int) {
	for i := 0; i < steps; i++ {
		c.Step()
	}
}

func runCPU(t *testing.T, asmString string, steps int) (*cpu.CPU, *bytes.Buffer) {
	t.Helper()
	c, out := loadCPU(t, asmString)
	stepCPU(c, steps)
	return c, out
}

func runUntilHalt(t *testing.T, c *cpu.CPU, limit int) {
	t.Helper()
	for i := 0; i < limit && !c.Halted(); i++ {
		c.Pulse()
	}
	require.True(t, c.Halted(), "cpu did not halt within %d pulses", limit)
}

func expectPC(t *testing.T, c *cpu.CPU, pc uint16) {
	t.Helper()
	if c.Reg.PC != pc {
		t.Errorf("PC incorrect. exp: $%04X, got: $%04X", pc, c.Reg.PC)
	}
}

func expectCycles(t *testing.T, c *cpu.CPU, cycles uint64) {
	t.Helper()
	if c.Cycles != cycles {
		t.Errorf("Cycles incorrect. exp: %d, got: %d", cycles, c.Cycles)
	}
}

func expectACC(t *testing.T, c *cpu.CPU, acc byte) {
	t.Helper()
	if c.Reg.A != acc {
		t.Errorf("Accumulator incorrect. exp: $%02X, got: $%02X", acc, c.Reg.A)
	}
}

func expectZero(t *testing.T, c *cpu.CPU, z bool) {
	t.Helper()
	if c.Reg.Zero != z {
		t.Errorf("Zero flag incorrect. exp: %v, got: %v", z, c.Reg.Zero)
	}
}

func expectMem(t *testing.T, c *cpu.CPU, addr uint16, v byte) {
	t.Helper()
	got, ok := c.Mem.Peek(addr)
	if !ok || got != v {
		t.Errorf("Memory at $%04X incorrect. exp: $%02X, got: $%02X", addr, v, got)
	}
}

func TestAccumulator(t *testing.T) {
	asm := `
	.ORG $0100
	LDA #$5E
	STA $15
	STA $0500`

	c, _ := runCPU(t, asm, 3)

	expectPC(t, c, 0x0108)
	expectCycles(t, c, 5+6+6)
	expectACC(t, c, 0x5e)
	expectMem(t, c, 0x15, 0x5e)
	expectMem(t, c, 0x0500, 0x5e)
}

func TestPipelineStepsImmediate(t *testing.T) {
	c, _ := loadCPU(t, "\tLDA #$00\n\tNOP\n")

	var steps []cpu.Step
	for i := 0; i < 5; i++ {
		steps = append(steps, c.Reg.Step)
		c.Pulse()
	}

	assert.Equal(t, []cpu.Step{
		cpu.StepFetch,
		cpu.StepDecodeLOB,
		cpu.StepExecute,
		cpu.StepWriteback,
		cpu.StepInterruptCheck,
	}, steps)
	assert.Equal(t, cpu.StepFetch, c.Reg.Step)
	expectPC(t, c, 0x0002)
	expectZero(t, c, true)
}

func TestPipelineStepsStore(t *testing.T) {
	c, _ := loadCPU(t, "\tLDA #$33\n\tSTA $0040\n")
	c.Step()
	c.Cycles = 0

	var steps []cpu.Step
	for !c.Halted() {
		steps = append(steps, c.Reg.Step)
		c.Pulse()
		if c.Reg.Step == cpu.StepFetch {
			break
		}
	}

	assert.Equal(t, []cpu.Step{
		cpu.StepFetch,
		cpu.StepDecodeLOB,
		cpu.StepDecodeHOB,
		cpu.StepExecute,
		cpu.StepWriteback,
		cpu.StepInterruptCheck,
	}, steps)
	expectMem(t, c, 0x40, 0x33)
}

func TestPulseCounts(t *testing.T) {
	tests := []struct {
		code   string
		pulses uint64
	}{
		{"\tLDA #1", 5},
		{"\tTAX", 5},
		{"\tNOP", 5},
		{"\tBNE $0010", 5},
		{"\tLDA $0040", 6},
		{"\tADC $0040", 6},
		{"\tCPX $0040", 6},
		{"\tSTA $0040", 6},
		{"\tINC $0040", 7},
	}

	for _, test := range tests {
		c, _ := runCPU(t, test.code, 1)
		assert.Equal(t, test.pulses, c.Cycles, test.code)

		inst := c.GetInstruction(0)
		require.NotNil(t, inst, test.code)
		assert.Equal(t, int(test.pulses), inst.Pulses(), test.code)
	}
}

func TestAddWraparound(t *testing.T) {
	asm := `
	LDA #$02
	STA $40
	LDA #$FF
	ADC $40`

	c, _ := runCPU(t, asm, 4)
	expectACC(t, c, 0x01)
	expectZero(t, c, false)
}

func TestAddToZero(t *testing.T) {
	asm := `
	LDA #$80
	STA $40
	ADC $40`

	c, _ := runCPU(t, asm, 3)
	expectACC(t, c, 0x00)
	expectZero(t, c, true)
}

func TestTransfers(t *testing.T) {
	asm := `
	LDX #$11
	TXA
	LDY #$22
	TAX
	TYA
	TAY`

	c, _ := runCPU(t, asm, 6)
	expectACC(t, c, 0x22)
	assert.Equal(t, byte(0x11), c.Reg.X)
	assert.Equal(t, byte(0x22), c.Reg.Y)
	expectZero(t, c, false)
}

func TestLoadAbsolute(t *testing.T) {
	asm := `
	LDX $0040
	LDY $0041
	LDA $0042

	.ORG $0040
	.BYTE $07, 0, $FE`

	c, _ := runCPU(t, asm, 3)
	assert.Equal(t, byte(0x07), c.Reg.X)
	assert.Equal(t, byte(0x00), c.Reg.Y)
	expectACC(t, c, 0xfe)
	expectZero(t, c, false)
}

func TestCompareX(t *testing.T) {
	asm := `
	LDA #5
	STA $40
	LDX #5
	CPX $40
	LDX #6
	CPX $40`

	c, _ := runCPU(t, asm, 4)
	expectZero(t, c, true)
	assert.Equal(t, byte(5), c.Reg.X)

	stepCPU(c, 2)
	expectZero(t, c, false)
	assert.Equal(t, byte(6), c.Reg.X)
	expectACC(t, c, 5)
}

func TestIncrement(t *testing.T) {
	asm := `
	LDA #$41
	STA $40
	LDA #0
	INC $40`

	c, _ := runCPU(t, asm, 4)
	expectMem(t, c, 0x40, 0x42)
	expectACC(t, c, 0x42)
	expectZero(t, c, false)
}

func TestIncrementWraps(t *testing.T) {
	asm := `
	LDA #$FF
	STA $40
	INC $40`

	c, _ := runCPU(t, asm, 3)
	expectMem(t, c, 0x40, 0x00)
	expectZero(t, c, true)
}

func TestBranch(t *testing.T) {
	asm := `
	LDX #3
	TXA
	STA $40
LOOP INC $40
	LDX $40
	CPX END
	BNE LOOP
	BRK

END .BYTE 6`

	c, _ := loadCPU(t, asm)
	runUntilHalt(t, c, 1000)
	require.NoError(t, c.Err())
	expectMem(t, c, 0x40, 6)
}

func TestBranchBackward(t *testing.T) {
	// BNE with offset $F0 branches 16 bytes back from the next instruction.
	c, _ := loadCPU(t, "\t.ORG $0020\n\tBNE $0012\n")
	c.Step()
	expectPC(t, c, 0x0012)
	expectMem(t, c, 0x21, 0xf0)

	c, _ = loadCPU(t, "\t.ORG $0020\n\tBNE $0032\n")
	c.Step()
	expectPC(t, c, 0x0032)
	expectMem(t, c, 0x21, 0x10)
}

func TestBranchNotTaken(t *testing.T) {
	c, _ := runCPU(t, "\tLDA #0\n\tBNE $0040\n", 2)
	expectPC(t, c, 0x0004)
}

func TestSyscallPrintInt(t *testing.T) {
	c, out := runCPU(t, "\tLDY #200\n\tLDX #1\n\tSYS\n", 3)
	assert.Equal(t, "200\n", out.String())
	assert.False(t, c.Halted())
}

func TestSyscallPrintString(t *testing.T) {
	asm := `
	LDY #MSG
	LDX #3
	SYS
	BRK

	.ORG $60
MSG .STRING "Hi there"`

	c, out := loadCPU(t, asm)
	runUntilHalt(t, c, 100)
	assert.Equal(t, "Hi there\n", out.String())
	assert.NoError(t, c.Err())
}

func TestSyscallPrintStringUnterminated(t *testing.T) {
	c, out := loadCPU(t, "\tLDY #$10\n\tLDX #3\n\tSYS\n")
	require.NoError(t, c.Mem.Load(0x0005, bytes.Repeat([]byte{'A'}, cpu.MemorySize-5)))
	runUntilHalt(t, c, 100)

	var fault *cpu.Fault
	require.True(t, errors.As(c.Err(), &fault))
	assert.True(t, errors.Is(c.Err(), cpu.ErrAddressOutOfRange))
	assert.Equal(t, cpu.StepExecute, fault.Step)
	assert.Empty(t, out.String())
}

func TestUnknownSyscall(t *testing.T) {
	c, out := loadCPU(t, "\tLDX #2\n\tSYS\n")
	runUntilHalt(t, c, 100)

	var fault *cpu.Fault
	require.True(t, errors.As(c.Err(), &fault))
	assert.True(t, errors.Is(c.Err(), cpu.ErrUnknownSyscall))
	assert.Equal(t, cpu.StepExecute, fault.Step)
	assert.Equal(t, byte(0xff), fault.Opcode)
	assert.Equal(t, byte(2), fault.Reg.X)
	assert.Empty(t, out.String())
}

func TestUnknownOpcode(t *testing.T) {
	c, _ := loadCPU(t, "\tNOP\n\t.BYTE $02, $00\n")
	runUntilHalt(t, c, 100)

	var fault *cpu.Fault
	require.True(t, errors.As(c.Err(), &fault))
	assert.True(t, errors.Is(fault, cpu.ErrUnknownOpcode))
	assert.Equal(t, cpu.StepFetch, fault.Step)
	assert.Equal(t, byte(0x02), fault.Opcode)
	assert.Equal(t, uint16(0x0002), fault.Reg.PC)
	assert.Contains(t, fault.Error(), "unknown opcode")
}

func TestUninitializedReadFaults(t *testing.T) {
	c, _ := loadCPU(t, "\tLDA #7\n\tLDA $2000\n")
	runUntilHalt(t, c, 100)

	assert.True(t, errors.Is(c.Err(), cpu.ErrUninitializedRead))
	expectACC(t, c, 7)
}

func TestHaltIgnoresPulses(t *testing.T) {
	c, _ := loadCPU(t, "\tBRK\n\tLDA #1\n")

	var halted []error
	c.OnHalt(func(err error) { halted = append(halted, err) })

	runUntilHalt(t, c, 10)
	cycles := c.Cycles
	for i := 0; i < 10; i++ {
		c.Pulse()
	}

	expectCycles(t, c, cycles)
	expectACC(t, c, 0)
	assert.Equal(t, []error{nil}, halted)
	assert.NoError(t, c.Err())
}

func TestReset(t *testing.T) {
	c, _ := loadCPU(t, "\tLDA #1\n\tBRK\n")
	runUntilHalt(t, c, 100)

	c.Reset()
	assert.False(t, c.Halted())
	assert.Equal(t, cpu.Registers{}, c.Reg)

	c.Step()
	expectACC(t, c, 1)
}

func TestInterruptService(t *testing.T) {
	c, _ := loadCPU(t, "\tNOP\n\tNOP\n")
	d := newDevice("Keyboard", 1, 1)
	d.out.Push('x')
	c.IC.Admit(d)

	c.Step()
	assert.Empty(t, c.IC.Pending())
	assert.Zero(t, d.out.Len())
}

func TestInterruptServiceOnePerCycle(t *testing.T) {
	c, _ := loadCPU(t, "\tNOP\n\tNOP\n")
	low := newDevice("Timer", 2, 1)
	high := newDevice("Keyboard", 1, 5)
	low.out.Push('l')
	high.out.Push('h')
	c.IC.Admit(low)
	c.IC.Admit(high)

	c.Step()
	pending := c.IC.Pending()
	require.Len(t, pending, 1)
	assert.Equal(t, "Timer", pending[0].Name())
	assert.Zero(t, high.out.Len())
	assert.Equal(t, 1, low.out.Len())

	c.Step()
	assert.Empty(t, c.IC.Pending())
	assert.Zero(t, low.out.Len())
}

type recordingHandler struct {
	pcs  []uint16
	data []uint16
}

func (h *recordingHandler) OnBreakpoint(c *cpu.CPU, b *cpu.Breakpoint) {
	h.pcs = append(h.pcs, b.Address)
}

func (h *recordingHandler) OnDataBreakpoint(c *cpu.CPU, b *cpu.DataBreakpoint) {
	h.data = append(h.data, b.Address)
}

func TestDebugger(t *testing.T) {
	asm := `
	LDA #1
	STA $40
	LDA #2
	STA $40
	STA $41
	BRK`

	c, _ := loadCPU(t, asm)
	h := &recordingHandler{}
	d := cpu.NewDebugger(h)
	c.AttachDebugger(d)

	d.AddBreakpoint(0x0005)
	d.AddBreakpoint(0x0002).Disabled = true
	d.AddConditionalDataBreakpoint(0x40, 2)
	d.AddDataBreakpoint(0x41)

	runUntilHalt(t, c, 100)

	assert.Equal(t, []uint16{0x0005}, h.pcs)
	assert.Equal(t, []uint16{0x40, 0x41}, h.data)
	assert.Equal(t, 1, d.GetBreakpoint(0x0005).Hits)
	assert.Equal(t, 0, d.GetBreakpoint(0x0002).Hits)

	bps := d.GetBreakpoints()
	require.Len(t, bps, 2)
	assert.Equal(t, uint16(0x0002), bps[0].Address)

	d.RemoveBreakpoint(0x0002)
	d.RemoveDataBreakpoint(0x41)
	assert.Len(t, d.GetBreakpoints(), 1)
	assert.Len(t, d.GetDataBreakpoints(), 1)

	c.DetachDebugger()
}
