// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package system wires the clock, CPU, memory, interrupt controller,
// keyboard and logger into a runnable machine.
package system

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/beevik/tsiram/asm"
	"github.com/beevik/tsiram/cpu"
	"github.com/beevik/tsiram/keyboard"
	"github.com/beevik/tsiram/logging"
	"github.com/beevik/tsiram/programs"
)

// Errors
var (
	ErrUnknownProgram = errors.New("unknown program")
	ErrNoProgram      = errors.New("no program loaded")
)

// Config holds the parameters used to build a System.
type Config struct {
	Period           time.Duration     // clock period; zero runs unthrottled
	InitStart        int               // first address zeroed at power-on
	InitEnd          int               // last address zeroed at power-on
	DrainOnPulse     bool              // interrupt controller drains its queue on its own pulse
	Log              logging.Subsystem // enabled log subsystems
	LogOutput        io.Writer         // destination of log messages
	Output           io.Writer         // destination of system call output
	KeyboardIRQ      int
	KeyboardPriority int
}

// DefaultConfig returns the configuration of the standard machine.
func DefaultConfig() Config {
	return Config{
		Period:           time.Millisecond,
		InitStart:        cpu.InitialStart,
		InitEnd:          cpu.InitialEnd,
		Log:              logging.None,
		LogOutput:        os.Stderr,
		Output:           os.Stdout,
		KeyboardIRQ:      keyboard.DefaultIRQ,
		KeyboardPriority: keyboard.DefaultPriority,
	}
}

// A System is a complete machine. The clock pulses the CPU, then the MMU,
// then the interrupt controller on every tick.
type System struct {
	Config    Config
	Clock     *cpu.Clock
	CPU       *cpu.CPU
	MMU       *cpu.MMU
	IC        *cpu.InterruptController
	Keyboard  *keyboard.Keyboard
	Logger    *logging.Logger
	SourceMap *asm.SourceMap // source map of the loaded program, if any

	program []byte
	origin  uint16
	segs    []asm.Segment
}

// New builds a system from the configuration.
func New(cfg Config) (*System, error) {
	if cfg.LogOutput == nil {
		cfg.LogOutput = io.Discard
	}
	if cfg.Output == nil {
		cfg.Output = io.Discard
	}

	s := &System{Config: cfg}

	s.MMU = cpu.NewMMU()
	if cfg.InitStart != cpu.InitialStart || cfg.InitEnd != cpu.InitialEnd {
		if err := s.MMU.SetPowerOnRange(cfg.InitStart, cfg.InitEnd); err != nil {
			return nil, err
		}
	}

	s.IC = cpu.NewInterruptController()
	s.IC.DrainOnPulse = cfg.DrainOnPulse
	s.CPU = cpu.NewCPU(s.MMU, s.IC, cfg.Output)
	s.Clock = cpu.NewClock(cfg.Period)

	s.Logger = logging.New(cfg.LogOutput, cfg.Log)
	s.CPU.SetTracer(s.Logger)
	s.MMU.SetTracer(s.Logger)
	s.IC.SetTracer(s.Logger)
	s.Clock.SetTracer(s.Logger)

	s.Clock.AddListener(s.CPU)
	s.Clock.AddListener(s.MMU)
	s.Clock.AddListener(s.IC)

	s.Keyboard = keyboard.New(s.IC, cfg.KeyboardIRQ, cfg.KeyboardPriority)
	s.Keyboard.SetTracer(s.Logger)
	s.IC.Register(s.Keyboard)

	s.CPU.OnHalt(func(error) { s.Clock.Stop() })
	return s, nil
}

// LoadProgram assembles source code, loads it into memory and points the
// CPU at its origin.
func (s *System) LoadProgram(src, name string) error {
	a, sm, err := asm.Assemble(strings.NewReader(src), name, io.Discard, 0)
	if err != nil {
		return errors.Wrapf(err, "assemble %s", name)
	}
	if err := a.Load(s.MMU); err != nil {
		return err
	}

	s.SourceMap = sm
	s.segs = a.Segments
	s.program = nil
	s.origin = a.Origin
	s.CPU.SetPC(a.Origin)
	return nil
}

// LoadBinary loads raw machine code at addr and points the CPU at it.
func (s *System) LoadBinary(data []byte, addr uint16) error {
	if err := s.MMU.Load(addr, data); err != nil {
		return err
	}

	s.SourceMap = nil
	s.segs = nil
	s.program = data
	s.origin = addr
	s.CPU.SetPC(addr)
	return nil
}

// Boot loads a program by name. The name may be a built-in program, an
// assembly source file (.asm) or a raw binary file (.bin) loaded at
// address zero.
func (s *System) Boot(program string) error {
	if src, ok := programs.Lookup(program); ok {
		return s.LoadProgram(src, program)
	}

	switch strings.ToLower(filepath.Ext(program)) {
	case ".asm":
		src, err := os.ReadFile(program)
		if err != nil {
			return errors.Wrapf(err, "boot")
		}
		return s.LoadProgram(string(src), program)

	case ".bin":
		data, err := os.ReadFile(program)
		if err != nil {
			return errors.Wrapf(err, "boot")
		}
		return s.LoadBinary(data, 0)

	default:
		return errors.Wrapf(ErrUnknownProgram, "%q", program)
	}
}

// Run ticks the clock until the CPU halts or the context is done. It
// returns the CPU fault if the CPU halted on one.
func (s *System) Run(ctx context.Context) error {
	if s.CPU.Halted() {
		return errors.Wrapf(cpu.ErrHalted, "run")
	}
	if err := s.Clock.Run(ctx); err != nil {
		return err
	}
	return s.CPU.Err()
}

// Reset restores the power-on state and reloads the most recently loaded
// program.
func (s *System) Reset() error {
	s.MMU.Reset()
	s.CPU.Reset()

	switch {
	case s.segs != nil:
		a := &asm.Assembly{Origin: s.origin, Segments: s.segs}
		if err := a.Load(s.MMU); err != nil {
			return err
		}
	case s.program != nil:
		if err := s.MMU.Load(s.origin, s.program); err != nil {
			return err
		}
	default:
		return ErrNoProgram
	}

	s.CPU.SetPC(s.origin)
	return nil
}

// Origin returns the address where the loaded program starts.
func (s *System) Origin() uint16 {
	return s.origin
}
