// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

// The Tracer interface is implemented by types that wish to observe the
// emulated hardware. A tracer is a pure sink: nothing it does feeds back
// into the emulation.
type Tracer interface {
	// TraceCPU receives a register snapshot on every CPU pulse.
	TraceCPU(reg Registers)

	// TraceMemory receives every read and write made through the memory
	// registers.
	TraceMemory(addr uint16, v byte, write bool)

	// TraceClock receives the running tick count on every clock pulse.
	TraceClock(ticks uint64)

	// Log receives a free-form message from a hardware component.
	Log(source, msg string)
}

type nopTracer struct{}

func (nopTracer) TraceCPU(reg Registers)                      {}
func (nopTracer) TraceMemory(addr uint16, v byte, write bool) {}
func (nopTracer) TraceClock(ticks uint64)                     {}
func (nopTracer) Log(source, msg string)                      {}
