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

	"github.com/beevik/tsiram/cpu"
)

func TestMaskToByte(t *testing.T) {
	assert.Equal(t, byte(0xff), cpu.MaskToByte(0x1ff))
	assert.Equal(t, byte(0x00), cpu.MaskToByte(0x100))
	assert.Equal(t, byte(0x7f), cpu.MaskToByte(0x7f))
}

func TestMemoryRegistersMask(t *testing.T) {
	m := cpu.NewMemory()
	m.SetDataRegister(0x1ff)
	assert.Equal(t, byte(0xff), m.DataRegister())

	m.SetAddressRegister(0x1abcd)
	assert.Equal(t, uint16(0xabcd), m.AddressRegister())
}

func TestMemoryReadWrite(t *testing.T) {
	m := cpu.NewMemory()

	m.SetAddressRegister(0x1234)
	m.SetDataRegister(0x5a)
	m.Write()

	m.SetDataRegister(0)
	v, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x5a), v)
	assert.Equal(t, byte(0x5a), m.DataRegister())
}

func TestMemoryUninitializedRead(t *testing.T) {
	m := cpu.NewMemory()
	m.SetAddressRegister(0x0010)
	_, err := m.Read()
	assert.True(t, errors.Is(err, cpu.ErrUninitializedRead))

	require.NoError(t, m.Initialize(0x0000, 0x00ff))
	v, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0), v)

	m.SetAddressRegister(0x0100)
	_, err = m.Read()
	assert.True(t, errors.Is(err, cpu.ErrUninitializedRead))
}

func TestMemoryInitializeBounds(t *testing.T) {
	m := cpu.NewMemory()
	assert.True(t, errors.Is(m.Initialize(-1, 0x10), cpu.ErrAddressOutOfRange))
	assert.True(t, errors.Is(m.Initialize(0, 0x10000), cpu.ErrAddressOutOfRange))
	assert.True(t, errors.Is(m.Initialize(0x20, 0x10), cpu.ErrAddressOutOfRange))
	assert.NoError(t, m.Initialize(0xff00, 0xffff))

	v, ok := m.Peek(0xffff)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestMemoryReset(t *testing.T) {
	m := cpu.NewMemory()
	m.SetAddressRegister(0x0040)
	m.SetDataRegister(0x99)
	m.Write()
	m.SetAddressRegister(0x2000)
	m.Write()

	m.Reset()
	assert.Zero(t, m.AddressRegister())
	assert.Zero(t, m.DataRegister())

	v, ok := m.Peek(0x0040)
	assert.True(t, ok)
	assert.Zero(t, v)

	v, ok = m.Peek(0x2000)
	assert.True(t, ok)
	assert.Equal(t, byte(0x99), v)

	v, ok = m.Peek(cpu.InitialEnd)
	assert.True(t, ok)
	assert.Zero(t, v)
}

func TestMemoryPowerOnRange(t *testing.T) {
	m := cpu.NewMemory()
	start, end := m.PowerOnRange()
	assert.Equal(t, cpu.InitialStart, start)
	assert.Equal(t, cpu.InitialEnd, end)

	require.NoError(t, m.Initialize(0x0000, 0x0fff))
	require.NoError(t, m.SetPowerOnRange(0x0100, 0x01ff))

	_, ok := m.Peek(0x0000)
	assert.False(t, ok)
	v, ok := m.Peek(0x01ff)
	assert.True(t, ok)
	assert.Zero(t, v)

	m.SetAddressRegister(0x0180)
	m.SetDataRegister(0x55)
	m.Write()
	m.Reset()
	v, _ = m.Peek(0x0180)
	assert.Zero(t, v)

	err := m.SetPowerOnRange(0x0100, 0x10000)
	assert.True(t, errors.Is(err, cpu.ErrAddressOutOfRange))
}

func TestMemoryDump(t *testing.T) {
	m := cpu.NewMemory()
	require.NoError(t, m.Initialize(0x40, 0x41))
	m.SetAddressRegister(0x41)
	m.SetDataRegister(0x0a)
	m.Write()

	var buf bytes.Buffer
	require.NoError(t, m.Dump(&buf, 0x40, 0x42))
	assert.Equal(t,
		"Addr 0040:  | 00\n"+
			"Addr 0041:  | 0A\n"+
			"Addr 0042:  | ERR [hexValue conversion]: number undefined\n",
		buf.String())

	assert.True(t, errors.Is(m.Dump(&buf, 0x10, 0x0f), cpu.ErrAddressOutOfRange))
}
