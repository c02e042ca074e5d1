// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

const helpBithovenc = `
Bithovenc is a tool for checking Bithoven sources.

Usage:

	   bithovenc <command> [arguments]

The commands are:

	   check       check sources and print a report
	   disasm      print the script of each spending path
	   watch       check sources each time they are written
	   ast         print the tree of a source
	   version     print the Bithoven version

Use "bithovenc help <command>" for more information about a command.
`

const helpCheck = `
usage: bithovenc check [-target target] [-format format] [-config file] [-cache file] [-no-cache] file...

Check parses and analyzes each file, lowers each of its spending paths to
Bitcoin Script and checks the scripts against the consensus rules of the
target. A report with the diagnostics of all the files is printed on the
standard output. The exit status is 1 if any file has a diagnostic.

The -target flag sets the target of the sources, regardless of their target
pragma. The target can be legacy, segwit or taproot.

The -format flag sets the format of the report. The format can be text,
json, markdown or html.

The -config flag sets the configuration file. If it is not given, the file
bithoven.yaml in the current directory is read if it exists.

The -cache flag sets the verdict cache file. A source that has not changed
since it was last checked with the same target and policy is not checked
again. The -no-cache flag disables the cache.
`

const helpDisasm = `
usage: bithovenc disasm [-target target] [-config file] file

Disasm builds a file and prints, for each spending path, the size of the
script, the number of opcodes and signature operations, the peak stack depth
and the disassembled script.

The -target and -config flags are as for the check command.
`

const helpWatch = `
usage: bithovenc watch [-target target] [-format format] [-config file] file...

Watch checks the files as the check command does, then checks again each
file every time it is written. It stops on interrupt.

The -target, -format and -config flags are as for the check command.
`

const helpAST = `
usage: bithovenc ast file

AST parses a file and prints its tree.
`

const helpVersion = `
usage: bithovenc version

Version prints the version of the Bithoven language implemented by the
compiler and the Go version used to build it.
`
