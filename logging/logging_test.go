// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package logging

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/beevik/tsiram/cpu"
)

func newTestLogger(enabled Subsystem) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(&buf, enabled)
	l.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return l, &buf
}

func TestParseSubsystems(t *testing.T) {
	s, err := ParseSubsystems("cpu, mem")
	require.NoError(t, err)
	assert.Equal(t, CPU|Memory, s)
	assert.Equal(t, "cpu,mem", s.String())

	s, err = ParseSubsystems("all")
	require.NoError(t, err)
	assert.Equal(t, All, s)

	s, err = ParseSubsystems("")
	require.NoError(t, err)
	assert.Equal(t, None, s)
	assert.Equal(t, "none", s.String())

	_, err = ParseSubsystems("cpu,disk")
	assert.True(t, errors.Is(err, ErrUnknownSubsystem))
}

func TestCPUSnapshotFormat(t *testing.T) {
	l, buf := newTestLogger(CPU)

	reg := cpu.Registers{PC: 0x0002, IR: 0xa9, A: 0x0a, Step: cpu.StepExecute}
	l.TraceCPU(reg)

	assert.Equal(t,
		"[HW - CPU id: 0 - 1700000000000]: CPU State | Mode: 0 PC: 0002 IR: A9 Acc: 0A xReg: 00 yReg: 00 zFlag: false Step: 3\n",
		buf.String())
}

func TestSubsystemToggles(t *testing.T) {
	l, buf := newTestLogger(None)

	l.TraceCPU(cpu.Registers{})
	l.TraceMemory(0x40, 0x0a, true)
	l.TraceClock(1)
	assert.Empty(t, buf.String())

	l.Enable(Memory|Clock, true)
	l.TraceMemory(0x40, 0x0a, true)
	l.TraceClock(7)
	assert.Contains(t, buf.String(), "[HW - MMU id: 0 - 1700000000000]: Memory Accessed (Write) - Addr: 0040 | Data: 0A\n")
	assert.Contains(t, buf.String(), "[HW - Clock id: 1 - 1700000000000]: Received clock pulse - CPU Clock Count: 7\n")

	buf.Reset()
	l.Enable(Clock, false)
	l.TraceClock(8)
	assert.Empty(t, buf.String())
	assert.Equal(t, Memory, l.Enabled())
}

func TestLogRoutesBySource(t *testing.T) {
	l, buf := newTestLogger(Devices)

	l.Log(cpu.SourceInterrupt, "ignored")
	l.Log("Keyboard", "Key pressed - a")
	assert.Equal(t, "[HW - Keyboard id: 0 - 1700000000000]: Key pressed - a\n", buf.String())
	assert.Equal(t, []string{"Keyboard"}, l.Components())
}
