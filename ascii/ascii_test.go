// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ascii

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByteToChar(t *testing.T) {
	assert := assert.New(t)

	greeting := []byte{0x48, 0x65, 0x6c, 0x6c, 0x6f, 0x20, 0x57, 0x6f, 0x72, 0x6c, 0x64, 0x21}
	var s []rune
	for _, b := range greeting {
		s = append(s, ByteToChar(b))
	}
	assert.Equal("Hello World!", string(s))

	assert.Equal('\n', ByteToChar(LF))
	assert.Equal('\r', ByteToChar(CR))
	assert.Equal(rune(0), ByteToChar(NUL))
	assert.Equal('?', ByteToChar(0x7f))
	assert.Equal('?', ByteToChar(0x80))
	assert.Equal('?', ByteToChar(0x07))
}

func TestCharToByte(t *testing.T) {
	b, err := CharToByte('A')
	require.NoError(t, err)
	assert.Equal(t, byte(0x41), b)

	b, err = CharToByte('~')
	require.NoError(t, err)
	assert.Equal(t, byte(0x7e), b)

	for _, r := range []rune{'é', '\t', 0x7f, '世', -1} {
		_, err := CharToByte(r)
		assert.True(t, errors.Is(err, ErrUnsupportedCharacter), "%q", r)
	}
}

func TestEncode(t *testing.T) {
	b, err := Encode("Hi!\n")
	require.NoError(t, err)
	assert.Equal(t, []byte{'H', 'i', '!', '\n'}, b)

	_, err = Encode("naïve")
	assert.True(t, errors.Is(err, ErrUnsupportedCharacter))
}
