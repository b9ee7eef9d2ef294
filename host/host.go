// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host allows you to create a "host" that drives a TSIRAM system
// interactively: loading programs, running and stepping the CPU by
// instruction or by clock pulse, setting address and data breakpoints,
// dumping and disassembling memory, delivering keys to the keyboard
// device and evaluating expressions.
package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/beevik/cmd"
	"github.com/pkg/errors"

	"github.com/beevik/tsiram/asm"
	"github.com/beevik/tsiram/cpu"
	"github.com/beevik/tsiram/disasm"
	"github.com/beevik/tsiram/logging"
	"github.com/beevik/tsiram/programs"
	"github.com/beevik/tsiram/system"
)

type state byte

const (
	stateProcessingCommands state = iota
	stateRunning
	stateBreakpoint
)

var errQuit = errors.New("exiting program")

// The Host drives a TSIRAM system from a stream of commands.
type Host struct {
	sys         *system.System
	input       *bufio.Scanner
	output      *bufio.Writer
	interactive bool
	debugger    *cpu.Debugger
	lastCmd     *cmd.Selection
	state       state
	settings    *settings

	mu     sync.Mutex
	cancel context.CancelFunc // cancels the running CPU
}

// New creates a new host for the system and attaches a debugger to its
// CPU.
func New(sys *system.System) *Host {
	h := &Host{
		sys:      sys,
		output:   bufio.NewWriter(io.Discard),
		state:    stateProcessingCommands,
		settings: newSettings(),
	}

	h.debugger = cpu.NewDebugger(newDebugHandler(h))
	sys.CPU.AttachDebugger(h.debugger)
	return h
}

// RunCommands accepts host commands from a reader and outputs the results
// to a writer. System call output from the CPU is written to the same
// writer. If the commands are interactive, a prompt is displayed while the
// host waits for the the next command to be entered.
func (h *Host) RunCommands(r io.Reader, w io.Writer, interactive bool) {
	h.input = bufio.NewScanner(r)
	h.output = bufio.NewWriter(w)
	h.interactive = interactive
	h.sys.CPU.Out = h.output

	if interactive {
		h.println()
	}

	h.displayPC()

	for {
		h.prompt()

		line, err := h.getLine()
		if err != nil {
			break
		}

		var c cmd.Selection
		if line != "" {
			c, err = cmds.Lookup(line)
			switch {
			case errors.Is(err, cmd.ErrNotFound):
				h.println("Command not found.")
				continue
			case errors.Is(err, cmd.ErrAmbiguous):
				h.println("Command is ambiguous.")
				continue
			case err != nil:
				h.printf("ERROR: %v.\n", err)
				continue
			}
		} else if h.lastCmd != nil {
			c = *h.lastCmd
		}

		if c.Command == nil {
			continue
		}
		h.lastCmd = &c

		handler := c.Command.Data.(func(*Host, cmd.Selection) error)
		err = handler(h, c)
		if err != nil {
			break
		}
	}
	h.flush()
}

// Break interrupts a running CPU. It may be called from any goroutine.
func (h *Host) Break() {
	h.mu.Lock()
	cancel := h.cancel
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func (h *Host) printf(format string, args ...any) {
	fmt.Fprintf(h.output, format, args...)
	h.flush()
}

func (h *Host) println(args ...any) {
	fmt.Fprintln(h.output, args...)
	h.flush()
}

func (h *Host) flush() {
	h.output.Flush()
}

func (h *Host) getLine() (string, error) {
	if h.input.Scan() {
		return h.input.Text(), nil
	}
	if h.input.Err() != nil {
		return "", h.input.Err()
	}
	return "", io.EOF
}

func (h *Host) prompt() {
	if h.interactive {
		h.printf("* ")
	}
}

func (h *Host) displayPC() {
	if h.interactive {
		d, _ := h.disassemble(h.sys.CPU.Reg.PC)
		h.println(d)
	}
}

// repeatWith changes the arguments used when an empty line repeats the
// last command.
func (h *Host) repeatWith(args ...string) {
	if h.lastCmd != nil {
		h.lastCmd.Args = args
	}
}

func (h *Host) cmdBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Hits")
	h.println("----- -------  ----")
	for _, b := range h.debugger.GetBreakpoints() {
		h.printf("$%04X %-5v    %d\n", b.Address, !b.Disabled, b.Hits)
	}
	return nil
}

func (h *Host) cmdBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("breakpoint add")
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.debugger.AddBreakpoint(addr)
	h.printf("Breakpoint added at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("breakpoint remove")
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetBreakpoint(addr) == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveBreakpoint(addr)
	h.printf("Breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdBreakpointEnable(c cmd.Selection) error {
	return h.enableBreakpoint(c, "breakpoint enable", true)
}

func (h *Host) cmdBreakpointDisable(c cmd.Selection) error {
	return h.enableBreakpoint(c, "breakpoint disable", false)
}

func (h *Host) enableBreakpoint(c cmd.Selection, name string, enable bool) error {
	if len(c.Args) < 1 {
		h.displayUsage(name)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetBreakpoint(addr)
	if b == nil {
		h.printf("No breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointList(c cmd.Selection) error {
	h.println("Addr  Enabled  Value  Hits")
	h.println("----- -------  -----  ----")
	for _, b := range h.debugger.GetDataBreakpoints() {
		if b.Conditional {
			h.printf("$%04X %-5v    $%02X    %d\n", b.Address, !b.Disabled, b.Value, b.Hits)
		} else {
			h.printf("$%04X %-5v    <none> %d\n", b.Address, !b.Disabled, b.Hits)
		}
	}
	return nil
}

func (h *Host) cmdDataBreakpointAdd(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("databreakpoint add")
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if len(c.Args) > 1 {
		value, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.debugger.AddConditionalDataBreakpoint(addr, byte(value))
		h.printf("Conditional data breakpoint added at $%04X for value $%02X.\n", addr, byte(value))
	} else {
		h.debugger.AddDataBreakpoint(addr)
		h.printf("Data breakpoint added at $%04X.\n", addr)
	}
	return nil
}

func (h *Host) cmdDataBreakpointRemove(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("databreakpoint remove")
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	if h.debugger.GetDataBreakpoint(addr) == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	h.debugger.RemoveDataBreakpoint(addr)
	h.printf("Data breakpoint at $%04X removed.\n", addr)
	return nil
}

func (h *Host) cmdDataBreakpointEnable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, "databreakpoint enable", true)
}

func (h *Host) cmdDataBreakpointDisable(c cmd.Selection) error {
	return h.enableDataBreakpoint(c, "databreakpoint disable", false)
}

func (h *Host) enableDataBreakpoint(c cmd.Selection, name string, enable bool) error {
	if len(c.Args) < 1 {
		h.displayUsage(name)
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	b := h.debugger.GetDataBreakpoint(addr)
	if b == nil {
		h.printf("No data breakpoint was set on $%04X.\n", addr)
		return nil
	}

	b.Disabled = !enable
	if enable {
		h.printf("Data breakpoint at $%04X enabled.\n", addr)
	} else {
		h.printf("Data breakpoint at $%04X disabled.\n", addr)
	}
	return nil
}

func (h *Host) cmdDisassemble(c cmd.Selection) error {
	addr := h.settings.NextDisasmAddr
	if len(c.Args) > 0 {
		a, err := h.parseAddr(c.Args[0], h.settings.NextDisasmAddr)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.DisasmLines
	if len(c.Args) > 1 {
		n, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(n)
	}

	for i := 0; i < lines; i++ {
		var d string
		d, addr = h.disassemble(addr)
		h.println(d)
	}

	h.settings.NextDisasmAddr = addr
	h.repeatWith("$", fmt.Sprintf("%d", lines))
	return nil
}

func (h *Host) cmdEvaluate(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("evaluate")
		return nil
	}

	v, err := h.evalExpr(strings.Join(c.Args, " "))
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.printf("$%04X (%d)\n", uint16(v), v)
	return nil
}

func (h *Host) cmdHelp(c cmd.Selection) error {
	if len(c.Args) == 0 {
		h.displayCommands("")
		return nil
	}

	matches := findHelp(c.Args)
	switch {
	case len(matches) == 0:
		h.println("Command not found.")
	case len(matches) > 1:
		h.println("Command is ambiguous.")
	case matches[0].group:
		h.displayCommands(matches[0].path + " ")
	default:
		e := matches[0]
		if e.usage != "" {
			h.printf("Syntax: %s\n\n", e.usage)
		}
		switch {
		case e.description != "":
			h.printf("Description:\n%s\n\n", indentWrap(3, e.description))
		case e.brief != "":
			h.printf("Description:\n%s.\n\n", indentWrap(3, e.brief))
		}
	}
	return nil
}

func (h *Host) cmdInterrupts(c cmd.Selection) error {
	h.println("IRQ  Pri  Name                 Queued")
	h.println("---  ---  -------------------- ------")
	for _, d := range h.sys.IC.Devices() {
		queued := 0
		if buf := d.OutputBuffer(); buf != nil {
			queued = buf.Len()
		}
		h.printf("%3d  %3d  %-20s %6d\n", d.IRQ(), d.Priority(), d.Name(), queued)
	}

	pending := h.sys.IC.Pending()
	if len(pending) == 0 {
		h.println("No interrupts pending.")
		return nil
	}

	names := make([]string, len(pending))
	for i, d := range pending {
		names[i] = d.Name()
	}
	h.printf("Pending: %s\n", strings.Join(names, ", "))
	return nil
}

func (h *Host) cmdKey(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("key")
		return nil
	}

	var b byte
	if arg := c.Args[0]; len(arg) == 1 {
		b = arg[0]
	} else {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		b = byte(v)
	}

	h.sys.Keyboard.Press(b)
	h.printf("Key $%02X pressed.\n", b)
	return nil
}

func (h *Host) cmdList(c cmd.Selection) error {
	sm := h.sys.SourceMap
	if sm == nil {
		h.println("No source code is available for the loaded program.")
		return nil
	}

	addr := h.settings.NextSourceAddr
	if len(c.Args) > 0 {
		a, err := h.parseAddr(c.Args[0], h.settings.NextSourceAddr)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	lines := h.settings.SourceLines
	if len(c.Args) > 1 {
		n, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		lines = int(n)
	}

	if sm.Search(addr) == nil {
		h.printf("No source code for address $%04X.\n", addr)
		return nil
	}

	next := addr
	for _, l := range sm.Lines {
		if l.Address < addr {
			continue
		}
		if lines == 0 {
			break
		}
		h.printf("%04X  %4d  %s\n", l.Address, l.Line, strings.TrimSpace(l.Text))
		next = l.Address + 1
		lines--
	}

	h.settings.NextSourceAddr = next
	h.repeatWith("$")
	return nil
}

func (h *Host) cmdLoad(c cmd.Selection) error {
	if len(c.Args) < 1 {
		h.displayUsage("load")
		return nil
	}

	if err := h.sys.Boot(c.Args[0]); err != nil {
		h.printf("Failed to load '%s': %v\n", c.Args[0], err)
		return nil
	}

	origin := h.sys.Origin()
	h.printf("Loaded '%s' at $%04X.\n", c.Args[0], origin)
	h.settings.NextDisasmAddr = origin
	h.settings.NextSourceAddr = origin
	h.displayPC()
	return nil
}

func (h *Host) cmdLog(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.printf("Logging: %s\n", h.sys.Logger.Enabled())

	case 1:
		h.displayUsage("log")

	default:
		s, err := logging.ParseSubsystems(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		on, err := stringToBool(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.sys.Logger.Enable(s, on)
		h.printf("Logging: %s\n", h.sys.Logger.Enabled())
	}
	return nil
}

func (h *Host) cmdMemoryDump(c cmd.Selection) error {
	addr := h.settings.NextMemDumpAddr
	if len(c.Args) > 0 {
		a, err := h.parseAddr(c.Args[0], h.settings.NextMemDumpAddr)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		addr = a
	}

	bytes := h.settings.MemDumpBytes
	if len(c.Args) > 1 {
		n, err := h.parseExpr(c.Args[1])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		bytes = int(n)
	}
	if bytes < 1 {
		return nil
	}

	end := min(int(addr)+bytes-1, cpu.MaxAddress)
	if err := h.sys.MMU.Dump(h.output, int(addr), end); err != nil {
		h.printf("%v\n", err)
		return nil
	}
	h.flush()

	h.settings.NextMemDumpAddr = uint16(end + 1)
	h.repeatWith("$", fmt.Sprintf("%d", bytes))
	return nil
}

func (h *Host) cmdMemorySet(c cmd.Selection) error {
	if len(c.Args) < 2 {
		h.displayUsage("memory set")
		return nil
	}

	addr, err := h.parseExpr(c.Args[0])
	if err != nil {
		h.printf("%v\n", err)
		return nil
	}

	for i, arg := range c.Args[1:] {
		v, err := h.parseExpr(arg)
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.sys.MMU.WriteImmediate(addr+uint16(i), byte(v))
	}

	h.printf("Memory set at $%04X.\n", addr)
	return nil
}

func (h *Host) cmdPrograms(c cmd.Selection) error {
	h.println("Built-in programs:")
	for _, name := range programs.Names() {
		h.printf("    %s\n", name)
	}
	return nil
}

func (h *Host) cmdQuit(c cmd.Selection) error {
	return errQuit
}

func (h *Host) cmdRegisters(c cmd.Selection) error {
	r := &h.sys.CPU.Reg
	h.printf("A=%02X X=%02X Y=%02X Z=%d PC=%04X IR=%02X STEP=%v C=%d\n",
		r.A, r.X, r.Y, boolToInt(r.Zero), r.PC, r.IR, r.Step, h.sys.CPU.Cycles)
	return nil
}

func (h *Host) cmdReset(c cmd.Selection) error {
	if err := h.sys.Reset(); err != nil {
		h.printf("%v\n", err)
		return nil
	}

	h.println("System reset.")
	h.settings.NextDisasmAddr = h.sys.Origin()
	h.displayPC()
	return nil
}

func (h *Host) cmdRun(c cmd.Selection) error {
	if len(c.Args) > 0 {
		pc, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return nil
		}
		h.sys.CPU.SetPC(pc)
	}

	if h.sys.CPU.Halted() {
		h.println("The CPU is halted. Type reset to restart it.")
		return nil
	}

	h.printf("Running from $%04X. Press ctrl-C to break.\n", h.sys.CPU.Reg.PC)

	ctx, cancel := context.WithCancel(context.Background())
	h.mu.Lock()
	h.cancel = cancel
	h.mu.Unlock()

	h.state = stateRunning
	err := h.sys.Run(ctx)
	h.state = stateProcessingCommands

	h.mu.Lock()
	h.cancel = nil
	h.mu.Unlock()
	cancel()

	h.flush()
	if errors.Is(err, context.Canceled) {
		h.printf("Break at $%04X.\n", h.sys.CPU.Reg.PC)
		h.displayPC()
	} else {
		h.displayHalt()
	}

	h.settings.NextDisasmAddr = h.sys.CPU.Reg.PC
	return nil
}

func (h *Host) cmdSet(c cmd.Selection) error {
	switch len(c.Args) {
	case 0:
		h.println("Variables:")
		h.settings.Display(h.output)
		h.flush()

	case 1:
		h.displayUsage("set")

	default:
		key, value := strings.ToLower(c.Args[0]), strings.Join(c.Args[1:], " ")
		v, errV := h.evalExpr(value)

		// Setting a register?
		if errV == nil {
			r := &h.sys.CPU.Reg
			switch key {
			case "a":
				r.A = byte(v)
				h.printf("Register A set to $%02X.\n", r.A)
				return nil
			case "x":
				r.X = byte(v)
				h.printf("Register X set to $%02X.\n", r.X)
				return nil
			case "y":
				r.Y = byte(v)
				h.printf("Register Y set to $%02X.\n", r.Y)
				return nil
			case "z", "zero":
				r.Zero = v != 0
				h.printf("Register Z set to %v.\n", r.Zero)
				return nil
			case ".", "pc":
				h.sys.CPU.SetPC(uint16(v))
				h.printf("Register PC set to $%04X.\n", r.PC)
				return nil
			}
		}

		// Setting a host setting?
		var err error
		switch h.settings.Kind(key) {
		case reflect.Invalid:
			err = errors.Wrapf(errSettingNotFound, "%q", key)
		case reflect.Bool:
			var b bool
			b, err = stringToBool(value)
			if err == nil {
				err = h.settings.Set(key, b)
			}
		default:
			err = errV
			if err == nil {
				err = h.settings.Set(key, v)
			}
		}

		if err == nil {
			h.println("Setting updated.")
		} else {
			h.printf("%v\n", err)
		}
	}
	return nil
}

func (h *Host) cmdStepInstruction(c cmd.Selection) error {
	count, ok := h.stepCount(c)
	if !ok {
		return nil
	}

	h.state = stateRunning
	for i := 0; i < count && h.state == stateRunning && !h.sys.CPU.Halted(); i++ {
		h.stepInstruction()
		if i < h.settings.MaxStepLines {
			h.println(h.traceLine())
		}
	}
	h.state = stateProcessingCommands

	h.displayHalt()
	h.settings.NextDisasmAddr = h.sys.CPU.Reg.PC
	return nil
}

func (h *Host) cmdStepPulse(c cmd.Selection) error {
	count, ok := h.stepCount(c)
	if !ok {
		return nil
	}

	h.state = stateRunning
	for i := 0; i < count && h.state == stateRunning && !h.sys.CPU.Halted(); i++ {
		h.sys.Clock.Tick()
		if i < h.settings.MaxStepLines {
			h.printf("C=%-6d %s\n", h.sys.CPU.Cycles, h.sys.CPU.Reg.String())
		}
	}
	h.state = stateProcessingCommands

	h.displayHalt()
	return nil
}

func (h *Host) stepCount(c cmd.Selection) (int, bool) {
	if h.sys.CPU.Halted() {
		h.println("The CPU is halted. Type reset to restart it.")
		return 0, false
	}

	count := 1
	if len(c.Args) > 0 {
		n, err := h.parseExpr(c.Args[0])
		if err != nil {
			h.printf("%v\n", err)
			return 0, false
		}
		count = int(n)
	}
	return count, true
}

// stepInstruction pulses the clock until the CPU returns to the fetch
// step or halts.
func (h *Host) stepInstruction() {
	for {
		h.sys.Clock.Tick()
		if h.sys.CPU.Halted() || h.sys.CPU.Reg.Step == cpu.StepFetch {
			return
		}
	}
}

func (h *Host) displayHalt() {
	if !h.sys.CPU.Halted() {
		return
	}
	if err := h.sys.CPU.Err(); err != nil {
		h.printf("CPU fault: %v\n", err)
	} else {
		h.printf("CPU halted at $%04X.\n", h.sys.CPU.LastPC)
	}
}

// traceLine disassembles the most recently executed instruction and
// appends the register contents.
func (h *Host) traceLine() string {
	d, _ := h.disassemble(h.sys.CPU.LastPC)
	r := &h.sys.CPU.Reg
	return fmt.Sprintf("%-40s A=%02X X=%02X Y=%02X Z=%d PC=%04X C=%d",
		d, r.A, r.X, r.Y, boolToInt(r.Zero), r.PC, h.sys.CPU.Cycles)
}

func (h *Host) disassemble(addr uint16) (str string, next uint16) {
	line, next := disasm.Disassemble(h.sys.MMU, addr)

	var label string
	if sm := h.sys.SourceMap; sm != nil {
		label = sm.LabelAt(addr)
	}

	str = fmt.Sprintf("%04X-   %-9s %-8s %s", addr, disasm.Bytes(h.sys.MMU, addr, next), label, line)
	return str, next
}

func (h *Host) evalExpr(expr string) (int, error) {
	expr = strings.TrimSpace(expr)
	if h.settings.HexMode && isHexNumber(expr) {
		expr = "$" + expr
	}

	r := &h.sys.CPU.Reg
	symbols := map[string]int{
		"a": int(r.A), "A": int(r.A),
		"x": int(r.X), "X": int(r.X),
		"y": int(r.Y), "Y": int(r.Y),
		"pc": int(r.PC), "PC": int(r.PC),
	}
	if sm := h.sys.SourceMap; sm != nil {
		for name, addr := range sm.Labels {
			symbols[name] = int(addr)
		}
	}
	return asm.EvalExpr(expr, symbols)
}

func (h *Host) parseExpr(expr string) (uint16, error) {
	v, err := h.evalExpr(expr)
	if err != nil {
		return 0, err
	}

	if v < 0 {
		v = 0x10000 + v
	}
	return uint16(v), nil
}

// parseAddr parses an address argument. "$" means the address following
// the previous display and "." means the program counter.
func (h *Host) parseAddr(arg string, next uint16) (uint16, error) {
	switch arg {
	case "$":
		return next, nil
	case ".":
		return h.sys.CPU.Reg.PC, nil
	default:
		return h.parseExpr(arg)
	}
}

func (h *Host) displayUsage(path string) {
	for _, e := range helpIndex {
		if e.path == path && e.usage != "" {
			h.printf("Syntax: %s\n", e.usage)
			return
		}
	}
	h.println("<no help text>")
}

func (h *Host) displayCommands(prefix string) {
	h.println("Commands:")
	for _, e := range helpIndex {
		if !strings.HasPrefix(e.path, prefix) {
			continue
		}
		name := strings.TrimPrefix(e.path, prefix)
		if strings.Contains(name, " ") {
			continue
		}
		if e.brief != "" {
			h.printf("    %-15s  %s\n", name, e.brief)
		}
	}
}

// findHelp returns the help entries whose command words start with the
// requested words.
func findHelp(words []string) []helpEntry {
	var matches []helpEntry
	for _, e := range helpIndex {
		path := strings.Fields(e.path)
		if len(path) != len(words) {
			continue
		}
		match := true
		for i, w := range words {
			if !strings.HasPrefix(path[i], strings.ToLower(w)) {
				match = false
				break
			}
		}
		if match {
			if strings.Join(path, " ") == strings.ToLower(strings.Join(words, " ")) {
				return []helpEntry{e}
			}
			matches = append(matches, e)
		}
	}
	return matches
}

func (h *Host) onBreakpoint(cpu *cpu.CPU, b *cpu.Breakpoint) {
	if h.state != stateRunning {
		return
	}
	h.state = stateBreakpoint
	h.sys.Clock.Stop()
	h.printf("Breakpoint hit at $%04X.\n", b.Address)
	h.displayPC()
}

func (h *Host) onDataBreakpoint(cpu *cpu.CPU, b *cpu.DataBreakpoint) {
	if h.state != stateRunning {
		return
	}
	h.state = stateBreakpoint
	h.sys.Clock.Stop()
	h.printf("Data breakpoint hit on address $%04X.\n", b.Address)

	if cpu.LastPC != cpu.Reg.PC {
		d, _ := h.disassemble(cpu.LastPC)
		h.println(d)
	}
}
