// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"

	"github.com/pkg/errors"
)

// Trace sources used with Tracer.Log.
const (
	SourceCPU       = "CPU"
	SourceMMU       = "MMU"
	SourceClock     = "Clock"
	SourceInterrupt = "InterruptController"
)

// The MMU extends Memory with little-endian 16-bit address composition
// from a pair of byte-sized operand registers.
//
// The MAR is the only address the MMU ever reads from or writes to. The
// low and high order byte setters write through to the MAR, and the
// immediate helpers set the MAR directly, so whichever path touched the
// MAR last determines the address of the next Read.
type MMU struct {
	Memory
	lob     byte
	hob     byte
	onStore func(addr uint16, v byte)
}

// NewMMU creates a new MMU with the power-on range [InitialStart,
// InitialEnd] initialized to zero.
func NewMMU() *MMU {
	m := &MMU{}
	m.tracer = nopTracer{}
	m.onLo, m.onHi = InitialStart, InitialEnd
	m.Reset()
	return m
}

// SetLowOrderByte stores the low half of a pending address, masked to 8
// bits, and updates bits 0-7 of the MAR.
func (m *MMU) SetLowOrderByte(b int) {
	m.lob = MaskToByte(b)
	m.mar = m.mar&0xff00 | uint16(m.lob)
}

// SetHighOrderByte stores the high half of a pending address, masked to 8
// bits, and updates bits 8-15 of the MAR.
func (m *MMU) SetHighOrderByte(b int) {
	m.hob = MaskToByte(b)
	m.mar = m.mar&0x00ff | uint16(m.hob)<<8
}

// LowOrderByte returns the stored low half of the pending address.
func (m *MMU) LowOrderByte() byte {
	return m.lob
}

// HighOrderByte returns the stored high half of the pending address.
func (m *MMU) HighOrderByte() byte {
	return m.hob
}

// Composed returns the address composed from the stored low and high
// order bytes.
func (m *MMU) Composed() uint16 {
	return uint16(m.hob)<<8 | uint16(m.lob)
}

// Read loads the byte at the MAR into the MDR and returns it.
func (m *MMU) Read() (byte, error) {
	return m.Memory.Read()
}

// Write stores the MDR at the MAR.
func (m *MMU) Write() {
	m.Memory.Write()
	if m.onStore != nil {
		m.onStore(m.mar, m.mdr)
	}
}

// ReadAt composes an address from lob and hob and reads the byte there.
func (m *MMU) ReadAt(lob, hob int) (byte, error) {
	m.SetLowOrderByte(lob)
	m.SetHighOrderByte(hob)
	return m.Read()
}

// WriteAt composes an address from lob and hob and writes data there.
func (m *MMU) WriteAt(lob, hob int, data int) {
	m.SetLowOrderByte(lob)
	m.SetHighOrderByte(hob)
	m.SetDataRegister(data)
	m.Write()
}

// ReadImmediate reads the byte at a full 16-bit address without touching
// the low and high order byte registers.
func (m *MMU) ReadImmediate(addr uint16) (byte, error) {
	m.mar = addr
	return m.Read()
}

// WriteImmediate writes a byte at a full 16-bit address without touching
// the low and high order byte registers.
func (m *MMU) WriteImmediate(addr uint16, data byte) {
	m.mar = addr
	m.mdr = data
	m.Write()
}

// WriteBack writes data at the address composed from the stored low and
// high order bytes.
func (m *MMU) WriteBack(data byte) {
	m.mar = m.Composed()
	m.mdr = data
	m.Write()
}

// Load writes a byte program into memory starting at addr.
func (m *MMU) Load(addr uint16, data []byte) error {
	if int(addr)+len(data) > MemorySize {
		return errors.Wrapf(ErrAddressOutOfRange, "load %d bytes at $%04X", len(data), addr)
	}
	for i, b := range data {
		m.WriteImmediate(addr+uint16(i), b)
	}
	return nil
}

// Reset zeroes the power-on range, the memory registers and the operand
// byte registers.
func (m *MMU) Reset() {
	m.Memory.Reset()
	m.lob, m.hob = 0, 0
}

// Pulse is called by the clock on every tick.
func (m *MMU) Pulse() {
	m.tracer.Log(SourceMMU, fmt.Sprintf("MAR: %04X MDR: %02X LOB: %02X HOB: %02X",
		m.mar, m.mdr, m.lob, m.hob))
}
