// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package keyboard

import (
	"bytes"
	"io"

	"github.com/beevik/term"
	"github.com/pkg/errors"
)

// IsTerminal reports whether fd refers to a terminal.
func IsTerminal(fd int) bool {
	return term.IsTerminal(fd)
}

// MakeRaw puts the terminal attached to fd into raw mode so that keys
// arrive one at a time and Ctrl-C arrives as ETX. Raw mode also turns off
// output post-processing, so the terminal no longer maps "\n" to "\r\n";
// wrap anything written to it with NewCRLFWriter. It returns a function
// that restores the previous terminal state. When fd is not a terminal,
// nothing changes and the restore function does nothing.
func MakeRaw(fd int) (restore func() error, err error) {
	if !term.IsTerminal(fd) {
		return func() error { return nil }, nil
	}
	state, err := term.MakeRawInput(fd)
	if err != nil {
		return nil, errors.Wrapf(err, "raw input")
	}
	return func() error { return term.Restore(fd, state) }, nil
}

type crlfWriter struct {
	w io.Writer
}

// NewCRLFWriter returns a writer that expands every "\n" written to it
// into "\r\n" before passing it on to w.
func NewCRLFWriter(w io.Writer) io.Writer {
	return &crlfWriter{w: w}
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	if bytes.IndexByte(p, '\n') < 0 {
		return c.w.Write(p)
	}
	if _, err := c.w.Write(bytes.ReplaceAll(p, []byte("\n"), []byte("\r\n"))); err != nil {
		return 0, err
	}
	return len(p), nil
}
