// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package keyboard implements an interrupt-driven keyboard device.
package keyboard

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/beevik/tsiram/ascii"
	"github.com/beevik/tsiram/cpu"
)

// ETX (end of text, Ctrl-C) terminates the host instead of being queued.
const ETX = 0x03

// Default device identity.
const (
	DefaultIRQ      = 1
	DefaultPriority = 1
)

// The Admitter interface is implemented by the interrupt controller.
type Admitter interface {
	Admit(d cpu.Device)
}

// A Keyboard queues each key it receives on its output buffer and raises
// an interrupt for it.
type Keyboard struct {
	Exit func() // called when ETX is received

	irq      int
	priority int
	in       cpu.Buffer
	out      cpu.Buffer
	ic       Admitter
	tracer   cpu.Tracer
}

// New creates a keyboard that raises interrupts through ic. By default,
// receiving ETX exits the process.
func New(ic Admitter, irq, priority int) *Keyboard {
	return &Keyboard{
		Exit:     func() { os.Exit(0) },
		irq:      irq,
		priority: priority,
		ic:       ic,
	}
}

// SetTracer attaches a tracer that receives key press messages.
func (k *Keyboard) SetTracer(t cpu.Tracer) {
	k.tracer = t
}

func (k *Keyboard) IRQ() int                  { return k.irq }
func (k *Keyboard) Priority() int             { return k.priority }
func (k *Keyboard) Name() string              { return "Keyboard" }
func (k *Keyboard) InputBuffer() *cpu.Buffer  { return &k.in }
func (k *Keyboard) OutputBuffer() *cpu.Buffer { return &k.out }

// Press queues a key and admits an interrupt for it. ETX calls Exit
// instead.
func (k *Keyboard) Press(b byte) {
	if b == ETX {
		if k.Exit != nil {
			k.Exit()
		}
		return
	}

	k.out.Push(b)
	if k.tracer != nil {
		k.tracer.Log(k.Name(), fmt.Sprintf("Key pressed - %c", ascii.ByteToChar(b)))
	}
	k.ic.Admit(k)
}

// Monitor reads keys from r until r is exhausted, a read fails or the
// context is done. It returns nil at end of input.
func (k *Keyboard) Monitor(ctx context.Context, r io.Reader) error {
	var buf [16]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := r.Read(buf[:])
		for _, b := range buf[:n] {
			k.Press(b)
		}

		switch {
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return errors.Wrapf(err, "keyboard")
		}
	}
}
