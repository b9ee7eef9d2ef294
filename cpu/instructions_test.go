// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/tsiram/cpu"
)

func TestRelativeOffset(t *testing.T) {
	assert.Equal(t, -16, cpu.RelativeOffset(0xf0))
	assert.Equal(t, 16, cpu.RelativeOffset(0x10))
	assert.Equal(t, 127, cpu.RelativeOffset(0x7f))
	assert.Equal(t, -128, cpu.RelativeOffset(0x80))
	assert.Equal(t, -1, cpu.RelativeOffset(0xff))
}

func TestInstructionTable(t *testing.T) {
	set := cpu.GetInstructionSet()

	defined := 0
	for op := 0; op < 256; op++ {
		inst := set.Lookup(byte(op))
		if inst == nil {
			continue
		}
		defined++
		assert.Equal(t, byte(op), inst.Opcode)
		assert.Equal(t, inst.Mode == cpu.ABS, inst.HOB(), inst.Name)
		if inst.HOB() {
			assert.Equal(t, byte(3), inst.Length, inst.Name)
		} else {
			assert.Equal(t, byte(2), inst.Length, inst.Name)
		}
	}
	assert.Equal(t, 18, defined)

	// Opcodes at the top of the range are present.
	require.NotNil(t, set.Lookup(0xff))
	assert.Equal(t, "SYS", set.Lookup(0xff).Name)
	require.NotNil(t, set.Lookup(0xee))
	assert.Equal(t, "INC", set.Lookup(0xee).Name)

	assert.Nil(t, set.Lookup(0x02))
}

func TestInstructionFlags(t *testing.T) {
	set := cpu.GetInstructionSet()

	inc := set.Lookup(0xee)
	assert.True(t, inc.SecondExecute)
	assert.True(t, inc.Writeback)

	sta := set.Lookup(0x8d)
	assert.False(t, sta.SecondExecute)
	assert.True(t, sta.Writeback)

	for _, op := range []byte{0xad, 0x6d, 0xae, 0xac, 0xec} {
		inst := set.Lookup(op)
		assert.False(t, inst.Writeback, inst.Name)
		assert.False(t, inst.SecondExecute, inst.Name)
	}
}

func TestGetInstructions(t *testing.T) {
	set := cpu.GetInstructionSet()

	lda := set.GetInstructions("lda")
	require.Len(t, lda, 2)
	assert.Equal(t, cpu.IMM, lda[0].Mode)
	assert.Equal(t, cpu.ABS, lda[1].Mode)

	assert.Empty(t, set.GetInstructions("JMP"))
}
