// Copyright 2014-2026 Brett Vickers. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/beevik/tsiram/asm"
	"github.com/beevik/tsiram/host"
	"github.com/beevik/tsiram/keyboard"
	"github.com/beevik/tsiram/logging"
	"github.com/beevik/tsiram/system"
)

var (
	program     string
	interactive bool
	assemble    string
	period      time.Duration
	logs        string
	drain       bool
)

func init() {
	flag.StringVar(&program, "p", "greeting", "program to run (built-in name, .asm or .bin file)")
	flag.BoolVar(&interactive, "i", false, "start the interactive host")
	flag.StringVar(&assemble, "a", "", "assemble file and print a listing")
	flag.DurationVar(&period, "period", time.Millisecond, "clock period")
	flag.StringVar(&logs, "log", "none", "hardware logging (cpu,mem,clock,irq,dev,all)")
	flag.BoolVar(&drain, "drain", false, "interrupt controller drains its queue on every pulse")
	flag.CommandLine.Usage = func() {
		fmt.Println("Usage: tsiram [options] [script] ..\nOptions:")
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()

	// Do command-line assemble if requested.
	if assemble != "" {
		_, _, err := asm.AssembleFile(assemble, os.Stdout, asm.Verbose)
		if err != nil {
			exitOnError(err)
		}
		os.Exit(0)
	}

	cfg := system.DefaultConfig()
	cfg.Period = period
	cfg.DrainOnPulse = drain

	subsystems, err := logging.ParseSubsystems(logs)
	if err != nil {
		exitOnError(err)
	}
	cfg.Log = subsystems

	// Raw mode disables the terminal's own newline translation.
	if !interactive && keyboard.IsTerminal(int(os.Stdin.Fd())) {
		cfg.Output = keyboard.NewCRLFWriter(cfg.Output)
		cfg.LogOutput = keyboard.NewCRLFWriter(cfg.LogOutput)
	}

	sys, err := system.New(cfg)
	if err != nil {
		exitOnError(err)
	}
	if err := sys.Boot(program); err != nil {
		exitOnError(err)
	}

	if interactive {
		runHost(sys)
	} else {
		runSystem(sys)
	}
}

func runHost(sys *system.System) {
	h := host.New(sys)

	// Run commands contained in command-line files.
	for _, filename := range flag.Args() {
		file, err := os.Open(filename)
		if err != nil {
			exitOnError(err)
		}
		h.RunCommands(file, os.Stdout, false)
		file.Close()
	}

	// Break on Ctrl-C.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	go handleInterrupt(h, c)

	// Run commands interactively.
	h.RunCommands(os.Stdin, os.Stdout, true)
}

func runSystem(sys *system.System) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	restore, err := keyboard.MakeRaw(int(os.Stdin.Fd()))
	if err != nil {
		exitOnError(err)
	}
	sys.Keyboard.Exit = func() {
		restore()
		os.Exit(0)
	}
	go sys.Keyboard.Monitor(ctx, os.Stdin)

	err = sys.Run(ctx)
	restore()
	if err != nil && ctx.Err() == nil {
		exitOnError(err)
	}
}

func handleInterrupt(h *host.Host, c chan os.Signal) {
	for {
		<-c
		h.Break()
	}
}

func exitOnError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
	os.Exit(1)
}
