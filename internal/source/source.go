// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package source reads Bithoven sources from files.
package source

import (
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode returns src as UTF-8. If src starts with a UTF-16 byte order mark
// it is converted from UTF-16, if it starts with the UTF-8 one the mark is
// removed. Otherwise src is returned unchanged, invalid encodings included,
// so that the lexer can report them at their position.
func Decode(src []byte) ([]byte, error) {
	decoder := unicode.BOMOverride(transform.Nop)
	b, _, err := transform.Bytes(decoder, src)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ReadFile reads the named file and decodes it with Decode.
func ReadFile(name string) ([]byte, error) {
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return decode(name, src)
}

// ReadFS is like ReadFile but reads the file from fsys.
func ReadFS(fsys fs.FS, name string) ([]byte, error) {
	src, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	return decode(name, src)
}

func decode(name string, src []byte) ([]byte, error) {
	b, err := Decode(src)
	if err != nil {
		return nil, fmt.Errorf("source: cannot decode %s: %w", name, err)
	}
	return b, nil
}
