// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bithoven_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/bithoven-lang/bithoven"
)

func ExampleBuild() {
	src := []byte(`
pragma bithoven version 0.0.1;
pragma target taproot;

(preimage: string, sig_alice: signature)
(sig_bob: signature)

if sha256 preimage == "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
    checksig (sig_alice, "0279be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798");
} else {
    after 800000;
    checksig (sig_bob, "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5");
}`)

	script, err := bithoven.Build(src, &bithoven.BuildOptions{Path: "htlc.bithoven"})
	if err != nil {
		log.Fatal(err)
	}
	for _, path := range script.Paths {
		fmt.Printf("branch %d: %d bytes, %d sigops\n", path.Branch, len(path.Script), path.SigOps)
	}

	// Output:
	// branch 0: 73 bytes, 1 sigops
	// branch 1: 78 bytes, 1 sigops
}

func ExampleBuild_violations() {
	src := []byte(`(a: string) a == "05";`)

	_, err := bithoven.Build(src, &bithoven.BuildOptions{Path: "push.bithoven"})
	var violations bithoven.ConsensusErrors
	if errors.As(err, &violations) {
		for _, v := range violations {
			fmt.Println(v.Kind(), v)
		}
	}

	// Output:
	// NonMinimalPush push.bithoven:1:18: branch 0: data push of the value 5 encoded with opcode OP_DATA_1 instead of OP_5
}

func ExampleAnalyze() {
	tree, err := bithoven.Parse([]byte("(s: signature, p: string) verify checksig (s, p); p;"), "reuse.bithoven")
	if err != nil {
		log.Fatal(err)
	}
	_, err = bithoven.Analyze(tree)
	fmt.Println(err)

	// Output:
	// reuse.bithoven:1:51: p already consumed
}
