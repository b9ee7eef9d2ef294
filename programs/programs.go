// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package programs holds the example programs built into the emulator.
package programs

import (
	_ "embed"
	"sort"
	"strings"
)

// Greeting prints the number 10 and then "Hello World!".
//
//go:embed greeting.asm
var Greeting string

// Powers prints 1, 2, 4 and so on up to 128.
//
//go:embed powers.asm
var Powers string

var builtin = map[string]string{
	"greeting": Greeting,
	"powers":   Powers,
}

// Lookup returns the source of a built-in program by name.
func Lookup(name string) (string, bool) {
	src, ok := builtin[strings.ToLower(name)]
	return src, ok
}

// Names returns the names of all built-in programs.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
