// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package logging writes hardware trace messages. Each hardware subsystem
// can be switched on and off independently.
package logging

import (
	"fmt"
	"io"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/beevik/tsiram/cpu"
)

// ErrUnknownSubsystem is returned when a subsystem name is not recognized.
var ErrUnknownSubsystem = errors.New("unknown subsystem")

// A Subsystem is a bit set of hardware subsystems.
type Subsystem uint

// Subsystems
const (
	CPU Subsystem = 1 << iota
	Memory
	Clock
	Interrupts
	Devices

	None Subsystem = 0
	All            = CPU | Memory | Clock | Interrupts | Devices
)

var subsystemNames = map[string]Subsystem{
	"cpu":        CPU,
	"mem":        Memory,
	"memory":     Memory,
	"clock":      Clock,
	"irq":        Interrupts,
	"interrupts": Interrupts,
	"dev":        Devices,
	"devices":    Devices,
	"all":        All,
	"none":       None,
}

// ParseSubsystems parses a comma-separated list of subsystem names such as
// "cpu,mem".
func ParseSubsystems(s string) (Subsystem, error) {
	var set Subsystem
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		sub, ok := subsystemNames[name]
		if !ok {
			return None, errors.Wrapf(ErrUnknownSubsystem, "%q", name)
		}
		set |= sub
	}
	return set, nil
}

func (s Subsystem) String() string {
	if s == None {
		return "none"
	}
	var names []string
	for _, n := range []struct {
		name string
		sub  Subsystem
	}{{"cpu", CPU}, {"mem", Memory}, {"clock", Clock}, {"irq", Interrupts}, {"dev", Devices}} {
		if s&n.sub != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, ",")
}

// A Logger formats hardware trace messages and writes them to an output
// stream. It implements cpu.Tracer.
type Logger struct {
	mu      sync.Mutex
	l       *log.Logger
	enabled Subsystem
	ids     map[string]int
	now     func() time.Time
}

// New creates a logger writing to w with the requested subsystems enabled.
func New(w io.Writer, enabled Subsystem) *Logger {
	return &Logger{
		l:       log.New(w, "", 0),
		enabled: enabled,
		ids:     make(map[string]int),
		now:     time.Now,
	}
}

// Enable switches logging for the subsystems in s on or off.
func (l *Logger) Enable(s Subsystem, on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if on {
		l.enabled |= s
	} else {
		l.enabled &^= s
	}
}

// Enabled returns the set of enabled subsystems.
func (l *Logger) Enabled() Subsystem {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

func (l *Logger) on(s Subsystem) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled&s != 0
}

// Hardware writes a message on behalf of a named hardware component. Each
// component is assigned an id the first time it logs.
func (l *Logger) Hardware(name, msg string) {
	l.mu.Lock()
	id, ok := l.ids[name]
	if !ok {
		id = len(l.ids)
		l.ids[name] = id
	}
	ms := l.now().UnixMilli()
	l.mu.Unlock()

	l.l.Printf("[HW - %s id: %d - %d]: %s", name, id, ms, msg)
}

// Components returns the names of every component that has logged, in id
// order.
func (l *Logger) Components() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.ids))
	for name := range l.ids {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return l.ids[names[i]] < l.ids[names[j]] })
	return names
}

// TraceCPU logs a CPU register snapshot.
func (l *Logger) TraceCPU(reg cpu.Registers) {
	if l.on(CPU) {
		l.Hardware(cpu.SourceCPU, reg.Snapshot())
	}
}

// TraceMemory logs a memory access.
func (l *Logger) TraceMemory(addr uint16, v byte, write bool) {
	if l.on(Memory) {
		op := "Read"
		if write {
			op = "Write"
		}
		l.Hardware(cpu.SourceMMU, fmt.Sprintf("Memory Accessed (%s) - Addr: %04X | Data: %02X", op, addr, v))
	}
}

// TraceClock logs a clock pulse.
func (l *Logger) TraceClock(ticks uint64) {
	if l.on(Clock) {
		l.Hardware(cpu.SourceClock, fmt.Sprintf("Received clock pulse - CPU Clock Count: %d", ticks))
	}
}

// Log logs a free-form message from a hardware component.
func (l *Logger) Log(source, msg string) {
	if l.on(subsystemOf(source)) {
		l.Hardware(source, msg)
	}
}

func subsystemOf(source string) Subsystem {
	switch source {
	case cpu.SourceCPU:
		return CPU
	case cpu.SourceMMU:
		return Memory
	case cpu.SourceClock:
		return Clock
	case cpu.SourceInterrupt:
		return Interrupts
	default:
		return Devices
	}
}
