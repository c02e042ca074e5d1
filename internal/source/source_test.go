// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package source

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
)

var decodeTests = []struct {
	name string
	src  []byte
	want []byte
}{
	{"plain", []byte("() 1;"), []byte("() 1;")},
	{"empty", []byte{}, []byte{}},
	{"utf-8 bom", []byte("\xef\xbb\xbf() 1;"), []byte("() 1;")},
	{"utf-16le bom", []byte("\xff\xfe(\x00)\x00 \x001\x00;\x00"), []byte("() 1;")},
	{"utf-16be bom", []byte("\xfe\xff\x00(\x00)\x00 \x001\x00;"), []byte("() 1;")},
	{"invalid utf-8", []byte("() \"\xff\";"), []byte("() \"\xff\";")},
	{"bom in the middle", []byte("() \xef\xbb\xbf1;"), []byte("() \xef\xbb\xbf1;")},
	{"non ascii", []byte("(π: number) π;"), []byte("(π: number) π;")},
}

func TestDecode(t *testing.T) {
	for _, test := range decodeTests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Decode(test.src)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Fatalf("unexpected %q, expecting %q", got, test.want)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	name := filepath.Join(t.TempDir(), "p2wsh.bithoven")
	err := os.WriteFile(name, []byte("\xef\xbb\xbf(a: bool) a;"), 0o600)
	if err != nil {
		t.Fatal(err)
	}
	src, err := ReadFile(name)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if string(src) != "(a: bool) a;" {
		t.Fatalf("unexpected source %q", src)
	}
	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.bithoven"))
	if !os.IsNotExist(err) {
		t.Fatalf("unexpected error %v, expecting a not exist error", err)
	}
}

func TestReadFS(t *testing.T) {
	fsys := fstest.MapFS{
		"htlc.bithoven": {Data: []byte("\xff\xfea\x00;\x00")},
	}
	src, err := ReadFS(fsys, "htlc.bithoven")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if string(src) != "a;" {
		t.Fatalf("unexpected source %q", src)
	}
}
