// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/tsiram/cpu"
)

type testDevice struct {
	name     string
	irq      int
	priority int
	in, out  cpu.Buffer
}

func newDevice(name string, irq, priority int) *testDevice {
	return &testDevice{name: name, irq: irq, priority: priority}
}

func (d *testDevice) IRQ() int                  { return d.irq }
func (d *testDevice) Priority() int             { return d.priority }
func (d *testDevice) Name() string              { return d.name }
func (d *testDevice) InputBuffer() *cpu.Buffer  { return &d.in }
func (d *testDevice) OutputBuffer() *cpu.Buffer { return &d.out }

func TestInterruptPriorityOrder(t *testing.T) {
	ic := cpu.NewInterruptController()
	a := newDevice("a", 1, 3)
	b := newDevice("b", 2, 7)
	c := newDevice("c", 3, 3)

	ic.Admit(a)
	ic.Admit(b)
	ic.Admit(c)

	var order []cpu.Device
	for d := ic.Next(); d != nil; d = ic.Next() {
		order = append(order, d)
	}
	assert.Equal(t, []cpu.Device{b, a, c}, order)
	assert.Nil(t, ic.Next())
}

func TestInterruptRegistry(t *testing.T) {
	ic := cpu.NewInterruptController()
	a := newDevice("a", 1, 1)
	b := newDevice("b", 2, 1)
	ic.Register(a)
	ic.Register(b)

	assert.Equal(t, []cpu.Device{a, b}, ic.Devices())
	assert.Empty(t, ic.Pending())
}

func TestInterruptDrainOnPulse(t *testing.T) {
	ic := cpu.NewInterruptController()
	ic.Admit(newDevice("a", 1, 1))
	ic.Admit(newDevice("b", 2, 1))

	ic.Pulse()
	assert.Len(t, ic.Pending(), 2)

	ic.DrainOnPulse = true
	ic.Pulse()
	require.Len(t, ic.Pending(), 1)
	assert.Equal(t, "b", ic.Pending()[0].Name())
}

func TestInterruptConcurrentAdmit(t *testing.T) {
	ic := cpu.NewInterruptController()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				ic.Admit(newDevice("d", p, p))
			}
		}(i)
	}
	wg.Wait()

	pending := ic.Pending()
	require.Len(t, pending, 400)
	for i := 1; i < len(pending); i++ {
		assert.GreaterOrEqual(t, pending[i-1].Priority(), pending[i].Priority())
	}
}

func TestBuffer(t *testing.T) {
	var b cpu.Buffer
	_, ok := b.Pop()
	assert.False(t, ok)

	b.Push(1)
	b.Push(2)
	assert.Equal(t, 2, b.Len())

	v, ok := b.Pop()
	assert.True(t, ok)
	assert.Equal(t, byte(1), v)
	assert.Equal(t, 1, b.Len())
}
