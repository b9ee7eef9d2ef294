// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asm

import "sort"

// A SourceMap describes the mapping between source code line numbers and
// machine code addresses, along with the address of every label.
type SourceMap struct {
	File   string
	Lines  []SourceLine
	Labels map[string]uint16
}

// A SourceLine represents a mapping between a machine code address and
// the source code line used to generate it.
type SourceLine struct {
	Address uint16 // Machine code address
	Line    int    // Source code line number
	Text    string // Source code text
}

// Search searches the source map for a mapping with the requested address.
// It returns a nil pointer if the address was not produced by the source.
func (s *SourceMap) Search(addr uint16) *SourceLine {
	i := sort.Search(len(s.Lines), func(i int) bool {
		return s.Lines[i].Address >= addr
	})
	if i < len(s.Lines) && s.Lines[i].Address == addr {
		return &s.Lines[i]
	}
	return nil
}

// LabelAt returns the name of a label whose address is addr, or an empty
// string if there is none.
func (s *SourceMap) LabelAt(addr uint16) string {
	var names []string
	for name, a := range s.Labels {
		if a == addr {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	sort.Strings(names)
	return names[0]
}

func (s *SourceMap) sortLines() {
	sort.SliceStable(s.Lines, func(i, j int) bool {
		return s.Lines[i].Address < s.Lines[j].Address
	})
}
