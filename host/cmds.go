// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package host

import "github.com/beevik/cmd"

var cmds *cmd.Tree

// A helpEntry records what the help command displays for one command or
// command group.
type helpEntry struct {
	path        string // full command name, e.g. "breakpoint add"
	brief       string
	description string
	usage       string
	group       bool
}

var helpIndex []helpEntry

// A cmdGroup adds commands to a command tree and records their help.
type cmdGroup struct {
	tree   *cmd.Tree
	prefix string
}

func (g cmdGroup) add(d cmd.CommandDescriptor) {
	g.tree.AddCommand(d)
	helpIndex = append(helpIndex, helpEntry{
		path:        g.prefix + d.Name,
		brief:       d.Brief,
		description: d.Description,
		usage:       d.Usage,
	})
}

func (g cmdGroup) subtree(name, brief string) cmdGroup {
	t := g.tree.AddSubtree(cmd.TreeDescriptor{Name: name, Brief: brief})
	helpIndex = append(helpIndex, helpEntry{path: g.prefix + name, brief: brief, group: true})
	return cmdGroup{tree: t, prefix: g.prefix + name + " "}
}

func init() {
	root := cmd.NewTree(cmd.TreeDescriptor{Name: "tsiram"})
	r := cmdGroup{tree: root}

	r.add(cmd.CommandDescriptor{
		Name:        "help",
		Brief:       "Display help for a command",
		Description: "Display help for a command.",
		Usage:       "help [<command>]",
		Data:        (*Host).cmdHelp,
	})

	// Breakpoint commands
	bp := r.subtree("breakpoint", "Breakpoint commands")
	bp.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List breakpoints",
		Description: "List all current breakpoints.",
		Usage:       "breakpoint list",
		Data:        (*Host).cmdBreakpointList,
	})
	bp.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a breakpoint",
		Description: "Add a breakpoint at the specified address." +
			" The breakpoint starts enabled.",
		Usage: "breakpoint add <address>",
		Data:  (*Host).cmdBreakpointAdd,
	})
	bp.add(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a breakpoint",
		Description: "Remove a breakpoint at the specified address.",
		Usage:       "breakpoint remove <address>",
		Data:        (*Host).cmdBreakpointRemove,
	})
	bp.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a breakpoint",
		Description: "Enable a previously added breakpoint.",
		Usage:       "breakpoint enable <address>",
		Data:        (*Host).cmdBreakpointEnable,
	})
	bp.add(cmd.CommandDescriptor{
		Name:  "disable",
		Brief: "Disable a breakpoint",
		Description: "Disable a previously added breakpoint. This" +
			" prevents the breakpoint from being hit when running the" +
			" CPU.",
		Usage: "breakpoint disable <address>",
		Data:  (*Host).cmdBreakpointDisable,
	})

	// Data breakpoint commands
	db := r.subtree("databreakpoint", "Data breakpoint commands")
	db.add(cmd.CommandDescriptor{
		Name:        "list",
		Brief:       "List data breakpoints",
		Description: "List all current data breakpoints.",
		Usage:       "databreakpoint list",
		Data:        (*Host).cmdDataBreakpointList,
	})
	db.add(cmd.CommandDescriptor{
		Name:  "add",
		Brief: "Add a data breakpoint",
		Description: "Add a new data breakpoint at the specified" +
			" memory address. When the CPU stores data at this address, the" +
			" breakpoint will stop the CPU. Optionally, a byte" +
			" value may be specified, and the CPU will stop only" +
			" when this value is stored.",
		Usage: "databreakpoint add <address> [<value>]",
		Data:  (*Host).cmdDataBreakpointAdd,
	})
	db.add(cmd.CommandDescriptor{
		Name:        "remove",
		Brief:       "Remove a data breakpoint",
		Description: "Remove a previously added data breakpoint.",
		Usage:       "databreakpoint remove <address>",
		Data:        (*Host).cmdDataBreakpointRemove,
	})
	db.add(cmd.CommandDescriptor{
		Name:        "enable",
		Brief:       "Enable a data breakpoint",
		Description: "Enable a previously added data breakpoint.",
		Usage:       "databreakpoint enable <address>",
		Data:        (*Host).cmdDataBreakpointEnable,
	})
	db.add(cmd.CommandDescriptor{
		Name:        "disable",
		Brief:       "Disable a data breakpoint",
		Description: "Disable a previously added data breakpoint.",
		Usage:       "databreakpoint disable <address>",
		Data:        (*Host).cmdDataBreakpointDisable,
	})

	r.add(cmd.CommandDescriptor{
		Name:  "disassemble",
		Brief: "Disassemble code",
		Description: "Disassemble machine code starting at the requested" +
			" address. The number of instruction lines to disassemble may be" +
			" specified as an option. If no address is specified, the" +
			" disassembly continues from where the last disassembly left off.",
		Usage: "disassemble [<address>] [<lines>]",
		Data:  (*Host).cmdDisassemble,
	})
	r.add(cmd.CommandDescriptor{
		Name:        "evaluate",
		Brief:       "Evaluate an expression",
		Description: "Evaluate a mathematical expression.",
		Usage:       "evaluate <expression>",
		Data:        (*Host).cmdEvaluate,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "interrupts",
		Brief: "Display interrupt devices",
		Description: "Display the devices registered with the interrupt" +
			" controller and the interrupts waiting to be serviced, in" +
			" service order.",
		Usage: "interrupts",
		Data:  (*Host).cmdInterrupts,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "key",
		Brief: "Press a key",
		Description: "Deliver a key to the keyboard device, raising an" +
			" interrupt. The key may be a single character or an expression" +
			" giving its byte value.",
		Usage: "key <char|value>",
		Data:  (*Host).cmdKey,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "list",
		Brief: "List source code lines",
		Description: "List the source code corresponding to the machine code" +
			" at the specified address. The loaded program must have been" +
			" assembled from source.",
		Usage: "list [<address>] [<lines>]",
		Data:  (*Host).cmdList,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "load",
		Brief: "Load a program",
		Description: "Load a program into memory and point the CPU at its" +
			" first instruction. The program may be the name of a built-in" +
			" program, an assembly source file (.asm) or a raw binary file" +
			" (.bin).",
		Usage: "load <program>",
		Data:  (*Host).cmdLoad,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "log",
		Brief: "Switch hardware logging on or off",
		Description: "When used without arguments, this command displays the" +
			" enabled logging subsystems. Otherwise it switches a" +
			" comma-separated list of subsystems (cpu, mem, clock, irq, dev," +
			" all) on or off.",
		Usage: "log [<subsystems> <on|off>]",
		Data:  (*Host).cmdLog,
	})

	// Memory commands
	me := r.subtree("memory", "Memory commands")
	me.add(cmd.CommandDescriptor{
		Name:  "dump",
		Brief: "Dump memory at address",
		Description: "Dump the contents of memory starting from the" +
			" specified address. The number of bytes to dump may be" +
			" specified as an option. If no address is specified, the" +
			" memory dump continues from where the last dump left off.",
		Usage: "memory dump [<address>] [<bytes>]",
		Data:  (*Host).cmdMemoryDump,
	})
	me.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set memory at address",
		Description: "Set the contents of memory starting from the specified" +
			" address. The values to assign should be a series of" +
			" space-separated byte values. You may use an expression for each" +
			" byte value.",
		Usage: "memory set <address> <byte> [<byte> ...]",
		Data:  (*Host).cmdMemorySet,
	})

	r.add(cmd.CommandDescriptor{
		Name:        "programs",
		Brief:       "List built-in programs",
		Description: "List the names of the programs built into the emulator.",
		Usage:       "programs",
		Data:        (*Host).cmdPrograms,
	})
	r.add(cmd.CommandDescriptor{
		Name:        "quit",
		Brief:       "Quit the program",
		Description: "Quit the program.",
		Usage:       "quit",
		Data:        (*Host).cmdQuit,
	})
	r.add(cmd.CommandDescriptor{
		Name:        "registers",
		Brief:       "Display register contents",
		Description: "Display the current contents of the CPU registers.",
		Usage:       "registers",
		Data:        (*Host).cmdRegisters,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "reset",
		Brief: "Reset the machine",
		Description: "Clear the CPU registers and memory, then reload the" +
			" most recently loaded program.",
		Usage: "reset",
		Data:  (*Host).cmdReset,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "run",
		Brief: "Run the CPU",
		Description: "Run the CPU until it halts, a breakpoint is hit or" +
			" the user types Ctrl-C. An optional start address may be given.",
		Usage: "run [<address>]",
		Data:  (*Host).cmdRun,
	})
	r.add(cmd.CommandDescriptor{
		Name:  "set",
		Brief: "Set a configuration variable",
		Description: "Set the value of a configuration variable or of a" +
			" CPU register (A, X, Y, PC or Z). To see the current values of" +
			" all configuration variables, type set without any arguments.",
		Usage: "set [<var> <value>]",
		Data:  (*Host).cmdSet,
	})

	// Step commands
	st := r.subtree("step", "Step the CPU")
	st.add(cmd.CommandDescriptor{
		Name:  "instruction",
		Brief: "Step one instruction",
		Description: "Pulse the clock until the CPU completes its current" +
			" instruction cycle. The number of steps may be specified as an" +
			" option.",
		Usage: "step instruction [<count>]",
		Data:  (*Host).cmdStepInstruction,
	})
	st.add(cmd.CommandDescriptor{
		Name:  "pulse",
		Brief: "Pulse the clock once",
		Description: "Pulse the clock, advancing the CPU pipeline by a" +
			" single step. The number of pulses may be specified as an" +
			" option.",
		Usage: "step pulse [<count>]",
		Data:  (*Host).cmdStepPulse,
	})

	// Add command shortcuts.
	root.AddShortcut("b", "breakpoint")
	root.AddShortcut("bp", "breakpoint")
	root.AddShortcut("ba", "breakpoint add")
	root.AddShortcut("br", "breakpoint remove")
	root.AddShortcut("bl", "breakpoint list")
	root.AddShortcut("be", "breakpoint enable")
	root.AddShortcut("bd", "breakpoint disable")
	root.AddShortcut("d", "disassemble")
	root.AddShortcut("db", "databreakpoint")
	root.AddShortcut("dbp", "databreakpoint")
	root.AddShortcut("dbl", "databreakpoint list")
	root.AddShortcut("dba", "databreakpoint add")
	root.AddShortcut("dbr", "databreakpoint remove")
	root.AddShortcut("dbe", "databreakpoint enable")
	root.AddShortcut("dbd", "databreakpoint disable")
	root.AddShortcut("e", "evaluate")
	root.AddShortcut("k", "key")
	root.AddShortcut("l", "list")
	root.AddShortcut("m", "memory dump")
	root.AddShortcut("ms", "memory set")
	root.AddShortcut("r", "registers")
	root.AddShortcut("s", "step instruction")
	root.AddShortcut("si", "step instruction")
	root.AddShortcut("sp", "step pulse")
	root.AddShortcut("?", "help")
	root.AddShortcut(".", "registers")

	cmds = root
}
