// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Address space constants.
const (
	MemorySize   = 0x10000 // total addressable bytes
	MaxAddress   = 0xffff  // highest valid address
	InitialStart = 0x0000  // start of the range zeroed at power-on
	InitialEnd   = 0x0fff  // end (inclusive) of the range zeroed at power-on
)

// MaskToByte masks a value to 8 bits.
func MaskToByte(v int) byte {
	return byte(v & 0xff)
}

// maskToAddress masks a value to 16 bits.
func maskToAddress(v int) uint16 {
	return uint16(v & 0xffff)
}

// Memory represents the entire 16-bit address space as a flat 64K buffer.
// Callers never address cells directly. Every access goes through the
// memory address register (MAR) and memory data register (MDR): set the
// MAR, then Read (which fills the MDR) or Write (which stores the MDR).
type Memory struct {
	b      [MemorySize]byte
	valid  [MemorySize / 64]uint64 // one bit per initialized cell
	mar    uint16
	mdr    byte
	tracer Tracer
	onLo   int // power-on range zeroed by Reset
	onHi   int
}

// NewMemory creates a new 16-bit memory space. No cells are initialized
// until Initialize or Write is called.
func NewMemory() *Memory {
	return &Memory{tracer: nopTracer{}, onLo: InitialStart, onHi: InitialEnd}
}

// SetTracer attaches a tracer that receives memory access notifications.
func (m *Memory) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	m.tracer = t
}

func (m *Memory) initialized(addr uint16) bool {
	return m.valid[addr>>6]&(1<<(addr&63)) != 0
}

func (m *Memory) markInitialized(addr uint16) {
	m.valid[addr>>6] |= 1 << (addr & 63)
}

// Initialize sets every cell in the inclusive address range [start, end]
// to 0x00.
func (m *Memory) Initialize(start, end int) error {
	if start < 0 || end > MaxAddress || start > end {
		return errors.Wrapf(ErrAddressOutOfRange, "initialize $%04X-$%04X", start, end)
	}
	for a := start; a <= end; a++ {
		m.b[a] = 0
		m.markInitialized(uint16(a))
	}
	return nil
}

// SetAddressRegister stores an address in the MAR, masked to 16 bits.
func (m *Memory) SetAddressRegister(addr int) {
	m.mar = maskToAddress(addr)
}

// SetDataRegister stores a value in the MDR, masked to 8 bits.
func (m *Memory) SetDataRegister(data int) {
	m.mdr = MaskToByte(data)
}

// AddressRegister returns the contents of the MAR.
func (m *Memory) AddressRegister() uint16 {
	return m.mar
}

// DataRegister returns the contents of the MDR.
func (m *Memory) DataRegister() byte {
	return m.mdr
}

// Read loads the byte at the address held in the MAR into the MDR and
// returns it.
func (m *Memory) Read() (byte, error) {
	addr := m.mar
	if !m.initialized(addr) {
		return 0, errors.Wrapf(ErrUninitializedRead, "address $%04X", addr)
	}
	m.mdr = m.b[addr]
	m.tracer.TraceMemory(addr, m.mdr, false)
	return m.mdr, nil
}

// Write stores the contents of the MDR at the address held in the MAR.
func (m *Memory) Write() {
	addr := m.mar
	m.b[addr] = m.mdr
	m.markInitialized(addr)
	m.tracer.TraceMemory(addr, m.mdr, true)
}

// SetPowerOnRange replaces the inclusive range [start, end] that Reset
// zeroes. All memory contents are discarded and the new range is zeroed,
// so cells outside it read as uninitialized afterward.
func (m *Memory) SetPowerOnRange(start, end int) error {
	if start < 0 || end > MaxAddress || start > end {
		return errors.Wrapf(ErrAddressOutOfRange, "power-on range $%04X-$%04X", start, end)
	}
	m.b = [MemorySize]byte{}
	m.valid = [MemorySize / 64]uint64{}
	m.onLo, m.onHi = start, end
	m.Reset()
	return nil
}

// PowerOnRange returns the inclusive range zeroed by Reset.
func (m *Memory) PowerOnRange() (start, end int) {
	return m.onLo, m.onHi
}

// Reset zeroes the power-on range and both registers. Cells outside the
// power-on range keep their contents.
func (m *Memory) Reset() {
	for a := m.onLo; a <= m.onHi; a++ {
		m.b[a] = 0
		m.markInitialized(uint16(a))
	}
	m.mar = 0
	m.mdr = 0
}

// Peek returns the byte at addr without touching the MAR or MDR. The
// second return value is false if the cell was never initialized. Peek
// exists for debuggers and memory dumps; the CPU never uses it.
func (m *Memory) Peek(addr uint16) (byte, bool) {
	if !m.initialized(addr) {
		return 0, false
	}
	return m.b[addr], true
}

// Dump writes the contents of the inclusive address range [start, end]
// to w, one cell per line.
func (m *Memory) Dump(w io.Writer, start, end int) error {
	if start < 0 || end > MaxAddress || start > end {
		return errors.Wrapf(ErrAddressOutOfRange, "dump $%04X-$%04X", start, end)
	}
	for a := start; a <= end; a++ {
		v, ok := m.Peek(uint16(a))
		if !ok {
			fmt.Fprintf(w, "Addr %04X:  | ERR [hexValue conversion]: number undefined\n", a)
			continue
		}
		fmt.Fprintf(w, "Addr %04X:  | %02X\n", a, v)
	}
	return nil
}
