// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cpu

import (
	"github.com/pkg/errors"

	"github.com/beevik/tsiram/translate"
)

// Errors
var (
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrUninitializedRead = errors.New("read of uninitialized memory")
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrUnknownSyscall    = errors.New("unknown system call")
	ErrHalted            = errors.New("cpu halted")
)

// A Fault describes an error that stopped the CPU pipeline. It records the
// pipeline step that failed, the opcode in the instruction register and a
// snapshot of the register file at the time of the failure.
type Fault struct {
	Step   Step
	Opcode byte
	Reg    Registers
	Err    error
}

func (f *Fault) Error() string {
	return translate.From("%v (step %v, opcode $%02X, %v)",
		f.Err, f.Step, f.Opcode, f.Reg.String())
}

func (f *Fault) Unwrap() error {
	return f.Err
}
