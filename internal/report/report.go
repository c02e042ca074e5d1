// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report writes the diagnostics of the checked sources as text,
// JSON, Markdown or HTML.
package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// File is a checked source with its diagnostics.
type File struct {
	Path        string
	Source      []byte
	Diagnostics []Diagnostic
}

// Formats are the supported formats.
var Formats = []string{"text", "json", "markdown", "html"}

// Write writes the report of files to w in the given format.
func Write(w io.Writer, format string, files []*File) error {
	switch format {
	case "text":
		return writeText(w, files)
	case "json":
		return writeJSON(w, files)
	case "markdown":
		return writeMarkdown(w, files)
	case "html":
		var md bytes.Buffer
		if err := writeMarkdown(&md, files); err != nil {
			return err
		}
		return markdown.Convert(md.Bytes(), w)
	}
	return fmt.Errorf("report: unknown format %q", format)
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// writeText writes a line for each diagnostic followed by the excerpt of the
// source where it occurred.
func writeText(w io.Writer, files []*File) error {
	bw := bufio.NewWriter(w)
	for _, f := range files {
		if len(f.Diagnostics) == 0 {
			fmt.Fprintf(bw, "%s: ok\n", f.Path)
			continue
		}
		lines := strings.Split(string(f.Source), "\n")
		for _, d := range f.Diagnostics {
			if d.Line == 0 {
				fmt.Fprintf(bw, "%s: %s: %s\n", f.Path, d.Kind, message(d))
				continue
			}
			fmt.Fprintf(bw, "%s:%d:%d: %s: %s\n", f.Path, d.Line, d.Column, d.Kind, message(d))
			writeExcerpt(bw, lines, d.Line, d.Column)
		}
	}
	return bw.Flush()
}

func message(d Diagnostic) string {
	if d.Branch >= 0 {
		return fmt.Sprintf("branch %d: %s", d.Branch, d.Message)
	}
	return d.Message
}

// writeExcerpt writes the line at the given line number, preceded by up to
// two lines, and a caret under column.
func writeExcerpt(w io.Writer, lines []string, line, column int) {
	if line > len(lines) {
		return
	}
	for n := line - 2; n <= line; n++ {
		if n < 1 {
			continue
		}
		fmt.Fprintf(w, "%5d | %s\n", n, strings.TrimSuffix(lines[n-1], "\r"))
	}
	var pad strings.Builder
	src := lines[line-1]
	for i := 1; i < column && len(src) > 0; i++ {
		r, size := utf8.DecodeRuneInString(src)
		if r == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
		src = src[size:]
	}
	fmt.Fprintf(w, "      | %s^\n", pad.String())
}

func writeJSON(w io.Writer, files []*File) error {
	diagnostics := []Diagnostic{}
	for _, f := range files {
		diagnostics = append(diagnostics, f.Diagnostics...)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(diagnostics)
}

func writeMarkdown(w io.Writer, files []*File) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("# Bithoven report\n")
	for _, f := range files {
		fmt.Fprintf(bw, "\n## %s\n\n", markdownEscape(f.Path))
		if len(f.Diagnostics) == 0 {
			bw.WriteString("No diagnostics.\n")
			continue
		}
		bw.WriteString("| Line | Column | Kind | Branch | Message |\n")
		bw.WriteString("| ---: | ---: | --- | ---: | --- |\n")
		for _, d := range f.Diagnostics {
			branch := ""
			if d.Branch >= 0 {
				branch = fmt.Sprint(d.Branch)
			}
			fmt.Fprintf(bw, "| %d | %d | %s | %s | %s |\n", d.Line, d.Column, d.Kind, branch, markdownEscape(d.Message))
		}
	}
	return bw.Flush()
}
