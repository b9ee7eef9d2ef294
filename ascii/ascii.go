// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ascii converts between bytes and characters for the printable
// ASCII range plus NUL, line feed and carriage return.
package ascii

import (
	"github.com/pkg/errors"
)

// ErrUnsupportedCharacter is returned when a character has no byte
// encoding.
var ErrUnsupportedCharacter = errors.New("unsupported character")

// Fallback is the character ByteToChar returns for unsupported bytes.
const Fallback = '?'

// Supported control codes.
const (
	NUL = 0x00
	LF  = 0x0a
	CR  = 0x0d
)

func supported(b int) bool {
	return b == NUL || b == LF || b == CR || (b >= 0x20 && b <= 0x7e)
}

// ByteToChar returns the character encoded by b, or Fallback if b is not
// supported.
func ByteToChar(b byte) rune {
	if !supported(int(b)) {
		return Fallback
	}
	return rune(b)
}

// CharToByte returns the byte encoding of r. It fails with
// ErrUnsupportedCharacter when r has no encoding.
func CharToByte(r rune) (byte, error) {
	if r < 0 || r > 0xff || !supported(int(r)) {
		return 0, errors.Wrapf(ErrUnsupportedCharacter, "%q", r)
	}
	return byte(r), nil
}

// Encode converts a string to bytes, failing on the first unsupported
// character.
func Encode(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		c, err := CharToByte(r)
		if err != nil {
			return nil, err
		}
		b = append(b, c)
	}
	return b, nil
}
