// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/tsiram/cpu"
)

func TestLittleEndianComposition(t *testing.T) {
	m := cpu.NewMMU()
	m.WriteImmediate(0x0040, 0x11)
	m.WriteImmediate(0x4000, 0x22)

	m.SetLowOrderByte(0x40)
	m.SetHighOrderByte(0x00)
	assert.Equal(t, uint16(0x0040), m.Composed())
	assert.Equal(t, uint16(0x0040), m.AddressRegister())

	v, err := m.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x11), v)
}

func TestOperandBytesMask(t *testing.T) {
	m := cpu.NewMMU()
	m.SetLowOrderByte(0x1ff)
	m.SetHighOrderByte(0x234)
	assert.Equal(t, byte(0xff), m.LowOrderByte())
	assert.Equal(t, byte(0x34), m.HighOrderByte())
	assert.Equal(t, uint16(0x34ff), m.Composed())
}

func TestReadWriteAt(t *testing.T) {
	m := cpu.NewMMU()
	m.WriteAt(0x10, 0x03, 0x1ab)

	v, err := m.ReadImmediate(0x0310)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), v)

	v, err = m.ReadAt(0x10, 0x03)
	require.NoError(t, err)
	assert.Equal(t, byte(0xab), v)
}

func TestLastAddressWriterWins(t *testing.T) {
	m := cpu.NewMMU()
	m.WriteImmediate(0x0040, 0x01)
	m.WriteImmediate(0x0080, 0x02)

	// Composed halves, then the immediate path: the immediate address wins.
	m.SetLowOrderByte(0x40)
	m.SetHighOrderByte(0x00)
	v, err := m.ReadImmediate(0x0080)
	require.NoError(t, err)
	assert.Equal(t, byte(0x02), v)

	// The immediate path leaves the halves alone.
	assert.Equal(t, uint16(0x0040), m.Composed())

	// The immediate path, then a half: the half updates the MAR.
	m.SetLowOrderByte(0x40)
	v, err = m.Read()
	require.NoError(t, err)
	assert.Equal(t, byte(0x01), v)
}

func TestWriteBack(t *testing.T) {
	m := cpu.NewMMU()
	m.SetLowOrderByte(0x44)
	m.SetHighOrderByte(0x02)
	m.SetAddressRegister(0x0000)
	m.WriteBack(0x77)

	v, ok := m.Peek(0x0244)
	assert.True(t, ok)
	assert.Equal(t, byte(0x77), v)
}

func TestLoad(t *testing.T) {
	m := cpu.NewMMU()
	require.NoError(t, m.Load(0x8000, []byte{1, 2, 3}))

	v, err := m.ReadImmediate(0x8002)
	require.NoError(t, err)
	assert.Equal(t, byte(3), v)

	err = m.Load(0xfffe, []byte{1, 2, 3})
	assert.True(t, errors.Is(err, cpu.ErrAddressOutOfRange))

	assert.NoError(t, m.Load(0xfffe, []byte{1, 2}))
}

func TestMMUPowerOnRange(t *testing.T) {
	m := cpu.NewMMU()

	v, err := m.ReadImmediate(cpu.InitialEnd)
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = m.ReadImmediate(cpu.InitialEnd + 1)
	assert.True(t, errors.Is(err, cpu.ErrUninitializedRead))
}
