// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asm implements a TSIRAM assembler.
package asm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/beevik/tsiram/ascii"
	"github.com/beevik/tsiram/cpu"
	"github.com/beevik/tsiram/translate"
)

var (
	errParse           = errors.New("parse error")
	errUnknownInst     = errors.New("unknown instruction")
	errBadMode         = errors.New("invalid addressing mode")
	errDuplicateLabel  = errors.New("duplicate label")
	errMissingLabel    = errors.New("missing label")
	errOutOfRange      = errors.New("value out of range")
	errBranchRange     = errors.New("branch target out of range")
	errOverlap         = errors.New("overlapping code")
	errBadString       = errors.New("invalid string")
	errUnexpectedInput = errors.New("unexpected input")
)

type pseudoOpData struct {
	fn    func(a *assembler, line, label fstring, param any) error
	param any
}

var pseudoOps = map[string]pseudoOpData{
	".eq":     {fn: (*assembler).parseEquate},
	".equ":    {fn: (*assembler).parseEquate},
	"equ":     {fn: (*assembler).parseEquate},
	"=":       {fn: (*assembler).parseEquate},
	".or":     {fn: (*assembler).parseOrigin},
	".org":    {fn: (*assembler).parseOrigin},
	"org":     {fn: (*assembler).parseOrigin},
	".db":     {fn: (*assembler).parseData, param: false},
	".byte":   {fn: (*assembler).parseData, param: false},
	".ds":     {fn: (*assembler).parseData, param: true},
	".string": {fn: (*assembler).parseData, param: true},
}

// A segment is a small chunk of machine code that may represent a single
// instruction or a group of byte data.
type segment interface {
	address() int
	size() int
	source() fstring
}

// An instruction segment contains a single instruction, including its
// opcode and operand expression.
type instruction struct {
	addr    int
	line    fstring
	inst    *cpu.Instruction
	operand fstring // empty for implied instructions
}

func (i *instruction) address() int    { return i.addr }
func (i *instruction) size() int       { return int(i.inst.Length) }
func (i *instruction) source() fstring { return i.line }

// A data segment contains a list of byte expressions and quoted strings.
type data struct {
	addr      int
	line      fstring
	items     []dataItem
	terminate bool // append a NUL byte
	n         int
}

type dataItem struct {
	expr fstring // set for expressions
	str  []byte  // set for quoted strings
}

func (d *data) address() int    { return d.addr }
func (d *data) size() int       { return d.n }
func (d *data) source() fstring { return d.line }

// The assembler is a state object used during the assembly of
// machine code from assembly code.
type assembler struct {
	instSet  *cpu.InstructionSet // TSIRAM instruction set
	pc       int                 // the program counter
	symbols  map[string]int      // label and equate values
	labels   map[string]uint16   // label -> address
	segments []segment           // segments of machine code
	out      io.Writer           // output used for verbose output
	verbose  bool                // verbose output
	errors   ErrorList           // errors encountered during assembly
}

// A Segment is a contiguous run of assembled machine code.
type Segment struct {
	Address uint16
	Code    []byte
}

// Assembly contains the assembled machine code.
type Assembly struct {
	Origin   uint16    // address of the first assembled byte in source order
	Segments []Segment // contiguous runs of code in address order
}

// A Loader stores a run of bytes at an address.
type Loader interface {
	Load(addr uint16, data []byte) error
}

// Load stores every segment of the assembly through the loader.
func (a *Assembly) Load(l Loader) error {
	for _, s := range a.Segments {
		if err := l.Load(s.Address, s.Code); err != nil {
			return err
		}
	}
	return nil
}

// Size returns the total number of assembled bytes.
func (a *Assembly) Size() int {
	n := 0
	for _, s := range a.Segments {
		n += len(s.Code)
	}
	return n
}

// An Error describes a problem found on one line of assembly code.
type Error struct {
	Line   int    // 1-based line number
	Column int    // 1-based column
	Text   string // source line
	Err    error
}

func (e *Error) Error() string {
	return translate.From("line %d, col %d: %v", e.Line, e.Column, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// An ErrorList contains every error found during assembly.
type ErrorList []*Error

func (l ErrorList) Error() string {
	s := make([]string, len(l))
	for i, e := range l {
		s[i] = e.Error()
	}
	return strings.Join(s, "\n")
}

// Option type used by the Assemble function.
type Option uint

// Options for the Assemble function.
const (
	Verbose Option = 1 << iota // verbose output during assembly
)

// AssembleFile reads and assembles a file containing TSIRAM assembly
// code.
func AssembleFile(path string, out io.Writer, options Option) (*Assembly, *SourceMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return Assemble(f, path, out, options)
}

// AssembleString assembles TSIRAM assembly code held in a string.
func AssembleString(code string) (*Assembly, *SourceMap, error) {
	return Assemble(strings.NewReader(code), "", io.Discard, 0)
}

// Assemble reads data from the provided stream and attempts to assemble it
// into TSIRAM machine code. When assembly fails, the returned error is an
// ErrorList describing every problem found.
func Assemble(r io.Reader, filename string, out io.Writer, options Option) (*Assembly, *SourceMap, error) {
	if out == nil {
		out = os.Stdout
	}

	a := &assembler{
		instSet: cpu.GetInstructionSet(),
		symbols: make(map[string]int),
		labels:  make(map[string]uint16),
		out:     out,
		verbose: (options & Verbose) != 0,
	}

	if err := a.parse(r); err != nil {
		return nil, nil, err
	}
	if len(a.errors) > 0 {
		return nil, nil, a.errors
	}

	assembly, sourceMap := a.generateCode(filename)
	if len(a.errors) > 0 {
		return nil, nil, a.errors
	}
	return assembly, sourceMap, nil
}

// Read the assembly code and build up machine code segments, the label
// table and the equate table.
func (a *assembler) parse(r io.Reader) error {
	a.logSection("Parsing assembly code")

	scanner := bufio.NewScanner(r)
	for row := 1; scanner.Scan(); row++ {
		line := newFstring(row, scanner.Text())
		if err := a.parseLine(line); err != nil && !errors.Is(err, errParse) {
			a.addError(line, err)
		}
	}
	return scanner.Err()
}

func (a *assembler) parseLine(line fstring) error {
	line = line.stripTrailingComment()
	if line.isEmpty() {
		return nil
	}

	var label fstring
	if line.startsWith(labelStartChar) {
		label, line = line.consumeWhile(labelChar)
		if line.startsWithChar(':') {
			line = line.consume(1)
		}
	} else if !line.startsWith(whitespace) && !line.startsWithChar('.') {
		return a.errorf(line, errUnexpectedInput, "%q", line.str)
	}

	line = line.consumeWhitespace()
	if line.isEmpty() {
		return a.storeLabel(label)
	}

	var word fstring
	word, line = line.consumeWhile(pseudoOpChar)
	line = line.consumeWhitespace()

	if p, ok := pseudoOps[strings.ToLower(word.str)]; ok {
		return p.fn(a, line, label, p.param)
	}

	if err := a.storeLabel(label); err != nil {
		return err
	}
	return a.parseInstruction(word, line)
}

func (a *assembler) storeLabel(label fstring) error {
	if label.isEmpty() {
		return nil
	}
	if _, ok := a.symbols[label.str]; ok {
		return a.errorf(label, errDuplicateLabel, "%s", label.str)
	}
	a.symbols[label.str] = a.pc
	a.labels[label.str] = uint16(a.pc)
	return nil
}

// Parse an equate of the form "LABEL = expr" or "LABEL .EQU expr".
func (a *assembler) parseEquate(line, label fstring, param any) error {
	if label.isEmpty() {
		return a.errorf(line, errMissingLabel, "equate requires a label")
	}
	if _, ok := a.symbols[label.str]; ok {
		return a.errorf(label, errDuplicateLabel, "%s", label.str)
	}
	v, err := EvalExpr(line.str, a.symbols)
	if err != nil {
		return a.errorf(line, err, "")
	}
	a.symbols[label.str] = v
	a.log("%-16s %s = $%04X", "", label.str, v)
	return nil
}

// Parse an origin directive of the form ".ORG expr".
func (a *assembler) parseOrigin(line, label fstring, param any) error {
	v, err := EvalExpr(line.str, a.symbols)
	if err != nil {
		return a.errorf(line, err, "")
	}
	if v < 0 || v > cpu.MaxAddress {
		return a.errorf(line, errOutOfRange, "origin $%X", v)
	}
	a.pc = v
	a.log("%-16s .ORG $%04X", "", v)
	return a.storeLabel(label)
}

// Parse a comma-separated list of byte expressions and quoted strings.
// When terminate is true, a NUL byte follows the data.
func (a *assembler) parseData(line, label fstring, param any) error {
	if err := a.storeLabel(label); err != nil {
		return err
	}

	d := &data{addr: a.pc, line: line, terminate: param.(bool)}
	for !line.isEmpty() {
		var item fstring
		item, line = line.consumeUntilUnquotedChar(',')
		item = item.consumeWhitespace().stripTrailingComment()
		if line.startsWithChar(',') {
			line = line.consume(1).consumeWhitespace()
		}

		switch {
		case item.startsWithChar('"'):
			if len(item.str) < 2 || item.str[len(item.str)-1] != '"' {
				return a.errorf(item, errBadString, "unterminated string")
			}
			b, err := ascii.Encode(item.str[1 : len(item.str)-1])
			if err != nil {
				return a.errorf(item, err, "")
			}
			d.items = append(d.items, dataItem{str: b})
			d.n += len(b)
		case item.isEmpty():
			return a.errorf(item, errBadString, "empty data item")
		default:
			d.items = append(d.items, dataItem{expr: item})
			d.n++
		}
	}
	if d.terminate {
		d.n++
	}

	return a.addSegment(d)
}

// Parse an instruction mnemonic and its operand.
func (a *assembler) parseInstruction(opcode, operand fstring) error {
	variants := a.instSet.GetInstructions(opcode.str)
	if len(variants) == 0 {
		return a.errorf(opcode, errUnknownInst, "%s", opcode.str)
	}

	var mode cpu.Mode
	switch {
	case operand.isEmpty():
		mode = cpu.IMP
	case operand.startsWithChar('#'):
		mode = cpu.IMM
		operand = operand.consume(1).consumeWhitespace()
	case hasMode(variants, cpu.REL):
		mode = cpu.REL
	default:
		mode = cpu.ABS
	}

	var inst *cpu.Instruction
	for _, v := range variants {
		if v.Mode == mode {
			inst = v
			break
		}
	}
	if inst == nil {
		return a.errorf(opcode, errBadMode, "%s does not support %v", strings.ToUpper(opcode.str), mode)
	}

	return a.addSegment(&instruction{
		addr:    a.pc,
		line:    opcode,
		inst:    inst,
		operand: operand,
	})
}

func hasMode(variants []*cpu.Instruction, mode cpu.Mode) bool {
	for _, v := range variants {
		if v.Mode == mode {
			return true
		}
	}
	return false
}

func (a *assembler) addSegment(s segment) error {
	if s.address()+s.size() > cpu.MemorySize {
		return a.errorf(s.source(), errOutOfRange, "code extends past $%04X", cpu.MaxAddress)
	}
	a.segments = append(a.segments, s)
	a.pc += s.size()
	return nil
}

// Evaluate every operand and data expression and produce the machine code.
func (a *assembler) generateCode(filename string) (*Assembly, *SourceMap) {
	a.logSection("Generating code")

	sm := &SourceMap{File: filename, Labels: a.labels}
	var image [cpu.MemorySize]byte
	var used [cpu.MemorySize]bool

	for _, s := range a.segments {
		b, err := a.encode(s)
		if err != nil {
			a.addError(s.source(), err)
			continue
		}

		addr := s.address()
		for i := range b {
			if used[addr+i] {
				a.addError(s.source(), errors.Wrapf(errOverlap, "at $%04X", addr+i))
				break
			}
			used[addr+i] = true
			image[addr+i] = b[i]
		}

		sm.Lines = append(sm.Lines, SourceLine{
			Address: uint16(addr),
			Line:    s.source().row,
			Text:    strings.TrimSpace(s.source().full),
		})
		a.log("%04X- %-12s %s", addr, byteString(b), strings.TrimSpace(s.source().full))
	}

	assembly := &Assembly{}
	if len(a.segments) > 0 {
		assembly.Origin = uint16(a.segments[0].address())
	}
	for addr := 0; addr < cpu.MemorySize; {
		if !used[addr] {
			addr++
			continue
		}
		start := addr
		for addr < cpu.MemorySize && used[addr] {
			addr++
		}
		code := make([]byte, addr-start)
		copy(code, image[start:addr])
		assembly.Segments = append(assembly.Segments, Segment{Address: uint16(start), Code: code})
	}

	sm.sortLines()
	return assembly, sm
}

func (a *assembler) encode(s segment) ([]byte, error) {
	switch s := s.(type) {
	case *instruction:
		return a.encodeInstruction(s)
	case *data:
		return a.encodeData(s)
	default:
		panic("unknown segment type")
	}
}

func (a *assembler) encodeInstruction(i *instruction) ([]byte, error) {
	code := []byte{i.inst.Opcode}

	switch i.inst.Mode {
	case cpu.IMP:
		return append(code, 0x00), nil

	case cpu.IMM:
		v, err := EvalExpr(i.operand.str, a.symbols)
		if err != nil {
			return nil, err
		}
		if v < -128 || v > 0xff {
			return nil, errors.Wrapf(errOutOfRange, "immediate value %d", v)
		}
		return append(code, byte(v)), nil

	case cpu.REL:
		v, err := EvalExpr(i.operand.str, a.symbols)
		if err != nil {
			return nil, err
		}
		offset, err := relOffset(v, i.addr+int(i.inst.Length))
		if err != nil {
			return nil, err
		}
		return append(code, offset), nil

	default:
		v, err := EvalExpr(i.operand.str, a.symbols)
		if err != nil {
			return nil, err
		}
		if v < 0 || v > cpu.MaxAddress {
			return nil, errors.Wrapf(errOutOfRange, "address $%X", v)
		}
		return append(code, addressBytes(v)...), nil
	}
}

func (a *assembler) encodeData(d *data) ([]byte, error) {
	b := make([]byte, 0, d.n)
	for _, item := range d.items {
		if item.str != nil {
			b = append(b, item.str...)
			continue
		}
		v, err := EvalExpr(item.expr.str, a.symbols)
		if err != nil {
			return nil, err
		}
		if v < -128 || v > 0xff {
			return nil, errors.Wrapf(errOutOfRange, "byte value %d", v)
		}
		b = append(b, byte(v))
	}
	if d.terminate {
		b = append(b, 0)
	}
	return b, nil
}

// relOffset computes the signed branch offset from the address following
// a branch instruction to its target.
func relOffset(target, next int) (byte, error) {
	offset := target - next
	if offset < -128 || offset > 127 {
		return 0, errors.Wrapf(errBranchRange, "offset %d", offset)
	}
	return byte(offset), nil
}

func (a *assembler) errorf(l fstring, err error, format string, args ...any) error {
	if format != "" {
		err = errors.Wrapf(err, format, args...)
	}
	a.addError(l, err)
	return errParse
}

func (a *assembler) addError(l fstring, err error) {
	a.errors = append(a.errors, &Error{
		Line:   l.row,
		Column: l.column + 1,
		Text:   l.full,
		Err:    err,
	})
}

func (a *assembler) log(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(a.out, format, args...)
		fmt.Fprintln(a.out)
	}
}

func (a *assembler) logSection(name string) {
	if a.verbose {
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
		fmt.Fprintf(a.out, "-- %s --\n", name)
		fmt.Fprintln(a.out, strings.Repeat("-", len(name)+6))
	}
}
