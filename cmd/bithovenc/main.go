// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"

	"github.com/bithoven-lang/bithoven"
	"github.com/bithoven-lang/bithoven/ast/astutil"
	"github.com/bithoven-lang/bithoven/internal/source"
)

func main() {
	os.Exit(bithovenc(os.Args...))
}

// Output of the commands. Tests replace them.
var (
	outWriter io.Writer = os.Stdout
	errWriter io.Writer = os.Stderr
)

// stderr prints lines on stderr.
func stderr(lines ...string) {
	for _, l := range lines {
		fmt.Fprint(errWriter, l+"\n")
	}
}

// exitError prints the error on stderr and returns the exit status 1.
func exitError(format string, a ...interface{}) int {
	stderr(fmt.Sprintf(format, a...))
	return 1
}

// bithovenc runs command 'bithovenc' with given args and returns the exit
// status. First argument must be the executable name.
func bithovenc(args ...string) int {

	// No command provided.
	if len(args) == 1 {
		commandsHelp["bithovenc"]()
		return 0
	}

	name := args[1]
	cmd, ok := commands[name]
	if !ok {
		stderr(
			fmt.Sprintf("bithovenc %s: unknown command", name),
			`Run 'bithovenc help' for usage.`,
		)
		return 1
	}
	return cmd(args[2:])
}

// commandsHelp maps a command name to a function that prints help for that
// command.
var commandsHelp = map[string]func(){
	"bithovenc": func() { stderr(strings.TrimPrefix(helpBithovenc, "\n")) },
	"check":     func() { stderr(strings.TrimPrefix(helpCheck, "\n")) },
	"disasm":    func() { stderr(strings.TrimPrefix(helpDisasm, "\n")) },
	"watch":     func() { stderr(strings.TrimPrefix(helpWatch, "\n")) },
	"ast":       func() { stderr(strings.TrimPrefix(helpAST, "\n")) },
	"version":   func() { stderr(strings.TrimPrefix(helpVersion, "\n")) },
}

// commands maps a command name to a function that executes that command
// with the given arguments and returns the exit status. Commands are called
// by command-line using:
//
//		bithovenc command [arguments]
//
var commands = map[string]func(args []string) int{
	"check":   check,
	"disasm":  disasm,
	"watch":   watch,
	"ast":     dumpAST,
	"version": version,
	"help": func(args []string) int {
		if len(args) == 0 {
			commandsHelp["bithovenc"]()
			return 0
		}
		help, ok := commandsHelp[args[0]]
		if !ok {
			return exitError("bithovenc help %s: unknown help topic. Run 'bithovenc help'.", args[0])
		}
		help()
		return 0
	},
}

// flags holds the flags of a command.
type flags struct {
	target  string
	format  string
	config  string
	cache   string
	noCache bool
}

// parseFlags parses the flags of the command name. It returns the remaining
// arguments. If the returned status is not negative, the command must exit
// with it.
func parseFlags(name string, args []string, f *flags) ([]string, int) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(errWriter)
	fs.Usage = commandsHelp[name]
	switch name {
	case "check", "watch", "disasm":
		fs.StringVar(&f.target, "target", "", "target of the sources")
		fs.StringVar(&f.config, "config", "", "configuration file")
	}
	switch name {
	case "check", "watch":
		fs.StringVar(&f.format, "format", "", "format of the report")
	}
	if name == "check" {
		fs.StringVar(&f.cache, "cache", "", "verdict cache file")
		fs.BoolVar(&f.noCache, "no-cache", false, "disable the verdict cache")
	}
	err := fs.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, 0
		}
		return nil, 2
	}
	return fs.Args(), -1
}

// check executes command:
//
//		bithovenc check
//
func check(args []string) int {
	var f flags
	files, status := parseFlags("check", args, &f)
	if status >= 0 {
		return status
	}
	if len(files) == 0 {
		commandsHelp["check"]()
		return 1
	}
	s, err := newSession(&f, !f.noCache)
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	defer s.Close()
	reports, failed, err := s.checkAll(files)
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	if err := s.write(reports); err != nil {
		return exitError("bithovenc: %s", err)
	}
	if failed {
		return 1
	}
	return 0
}

// disasm executes command:
//
//		bithovenc disasm
//
func disasm(args []string) int {
	var f flags
	files, status := parseFlags("disasm", args, &f)
	if status >= 0 {
		return status
	}
	if len(files) != 1 {
		commandsHelp["disasm"]()
		return 1
	}
	s, err := newSession(&f, false)
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	defer s.Close()
	script, err := bithoven.BuildFile(files[0], s.buildOptions(files[0], nil))
	if script == nil {
		return exitError("%s", err)
	}
	fmt.Fprintf(outWriter, "target %s\n", script.Target)
	for _, p := range script.Paths {
		fmt.Fprintf(outWriter, "branch %d: %d bytes, %d opcodes, %d sigops, depth %d\n\t%s\n",
			p.Branch, len(p.Script), p.Ops, p.SigOps, p.Depth, p.Disasm())
	}
	if err != nil {
		return exitError("%s", err)
	}
	return 0
}

// watch executes command:
//
//		bithovenc watch
//
func watch(args []string) int {
	var f flags
	files, status := parseFlags("watch", args, &f)
	if status >= 0 {
		return status
	}
	if len(files) == 0 {
		commandsHelp["watch"]()
		return 1
	}
	s, err := newSession(&f, false)
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	defer s.Close()
	w, err := newSourceWatcher()
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	defer w.Close()
	for _, name := range files {
		if err := w.Add(name); err != nil {
			return exitError("bithovenc: %s", err)
		}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := s.watch(ctx, w, files); err != nil {
		return exitError("bithovenc: %s", err)
	}
	return 0
}

// dumpAST executes command:
//
//		bithovenc ast
//
func dumpAST(args []string) int {
	var f flags
	files, status := parseFlags("ast", args, &f)
	if status >= 0 {
		return status
	}
	if len(files) != 1 {
		commandsHelp["ast"]()
		return 1
	}
	src, err := source.ReadFile(files[0])
	if err != nil {
		return exitError("bithovenc: %s", err)
	}
	tree, err := bithoven.Parse(src, files[0])
	if err != nil {
		return exitError("%s", err)
	}
	if err := astutil.Dump(outWriter, tree); err != nil {
		return exitError("bithovenc: %s", err)
	}
	return 0
}

// version executes command:
//
//		bithovenc version
//
func version(args []string) int {
	var f flags
	if _, status := parseFlags("version", args, &f); status >= 0 {
		return status
	}
	fmt.Fprintf(outWriter, "Bithoven language version:  %s\n", bithoven.LanguageVersion)
	fmt.Fprintf(outWriter, "Go version:                 %s\n", runtime.Version())
	return 0
}
