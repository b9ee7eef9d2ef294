// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"fmt"
	"sort"
	"sync"
)

// The Device interface is implemented by anything that can raise an
// interrupt. A device describes itself; the interrupt controller never
// changes its identity.
type Device interface {
	IRQ() int              // interrupt request number
	Priority() int         // higher values are serviced first
	Name() string          // human-readable device name
	InputBuffer() *Buffer  // bytes sent to the device, or nil
	OutputBuffer() *Buffer // bytes produced by the device, or nil
}

// A Buffer is a goroutine-safe FIFO of bytes used for device I/O.
type Buffer struct {
	mu   sync.Mutex
	data []byte
}

// Push appends a byte to the end of the buffer.
func (b *Buffer) Push(v byte) {
	b.mu.Lock()
	b.data = append(b.data, v)
	b.mu.Unlock()
}

// Pop removes and returns the byte at the front of the buffer. The second
// return value is false if the buffer was empty.
func (b *Buffer) Pop() (byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.data) == 0 {
		return 0, false
	}
	v := b.data[0]
	b.data = b.data[1:]
	return v, true
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data)
}

// An InterruptController keeps a registry of interrupt-capable devices and
// a queue of pending interrupts ordered by descending priority. Devices
// with equal priority are serviced in the order they were admitted.
//
// Admit may be called from any goroutine.
type InterruptController struct {
	DrainOnPulse bool // drain one interrupt on every clock pulse

	mu      sync.Mutex
	devices []Device
	pending []Device
	tracer  Tracer
}

// NewInterruptController creates an interrupt controller with no devices.
func NewInterruptController() *InterruptController {
	return &InterruptController{tracer: nopTracer{}}
}

// SetTracer attaches a tracer that receives controller log messages.
func (ic *InterruptController) SetTracer(t Tracer) {
	if t == nil {
		t = nopTracer{}
	}
	ic.tracer = t
}

// Register adds a device to the registry. Devices cannot be removed.
func (ic *InterruptController) Register(d Device) {
	ic.mu.Lock()
	ic.devices = append(ic.devices, d)
	ic.mu.Unlock()
}

// Devices returns the registered devices in registration order.
func (ic *InterruptController) Devices() []Device {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return append([]Device(nil), ic.devices...)
}

// Admit queues an interrupt from the device.
func (ic *InterruptController) Admit(d Device) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.pending = append(ic.pending, d)
	sort.SliceStable(ic.pending, func(i, j int) bool {
		return ic.pending[i].Priority() > ic.pending[j].Priority()
	})
}

// Next removes and returns the highest priority pending interrupt. It
// returns nil if no interrupt is pending.
func (ic *InterruptController) Next() Device {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if len(ic.pending) == 0 {
		return nil
	}
	d := ic.pending[0]
	ic.pending[0] = nil
	ic.pending = ic.pending[1:]
	return d
}

// Pending returns the pending interrupts in service order.
func (ic *InterruptController) Pending() []Device {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return append([]Device(nil), ic.pending...)
}

// Pulse is called by the clock on every tick. When DrainOnPulse is set, it
// consumes one pending interrupt; the CPU then never sees it.
func (ic *InterruptController) Pulse() {
	if !ic.DrainOnPulse {
		return
	}
	if d := ic.Next(); d != nil {
		ic.tracer.Log(SourceInterrupt, fmt.Sprintf("Handling interrupt from %s (IRQ %d, priority %d)",
			d.Name(), d.IRQ(), d.Priority()))
	}
}
