// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package bithoven implements the compiler front end of Bithoven, a language
// for the spending conditions of Bitcoin outputs.
//
// A Bithoven source declares one input stack for each spending path and a
// script that consumes them:
//
//	pragma bithoven version 0.0.1;
//	pragma target taproot;
//
//	(preimage: string, sig_alice: signature)
//	(sig_bob: signature)
//
//	if sha256 preimage == "ba7816bf...f20015ad" {
//	    checksig (sig_alice, "0279be66...16f81798");
//	} else {
//	    after 800000;
//	    checksig (sig_bob, "02c6047f...5c709ee5");
//	}
//
// Build parses a source, analyzes it and checks every spending path against
// the consensus rules of its target:
//
//	script, err := bithoven.Build(src, &bithoven.BuildOptions{Path: "htlc.bithoven"})
//	if err != nil {
//	    var violations bithoven.ConsensusErrors
//	    if errors.As(err, &violations) {
//	        // script is valid but some paths break a rule.
//	    }
//	}
//
// The analysis stops at the first error. Every variable of an input stack
// can be used at most once, in the branch that declares it, and every branch
// ends with exactly one expression that is the value of the spending path.
//
// The consensus check does not stop at the first violation: it reports all
// the violations of all the paths, sorted by branch and position.
package bithoven
