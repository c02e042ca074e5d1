// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/txscript"

	"github.com/bithoven-lang/bithoven/ast"
)

// Policy holds the standardness rules checked together with the consensus
// rules.
type Policy struct {
	MinimalPush bool // literals must be pushed with the shortest encoding.
}

// DefaultPolicy is the policy of relaying nodes.
var DefaultPolicy = Policy{MinimalPush: true}

// PathScript is the script of a spending path.
type PathScript struct {
	Branch int    // branch of the path.
	Script []byte // serialized script.
	Depth  int    // peak stack depth.
	Ops    int    // number of non-push opcodes.
	SigOps int    // number of signature operations.

	marks []mark
}

// Disasm returns the disassembly of the script.
func (ps *PathScript) Disasm() string {
	s, err := txscript.DisasmString(ps.Script)
	if err != nil {
		return s + " [error: " + err.Error() + "]"
	}
	return s
}

// CheckConsensus lowers every spending path of tree to Bitcoin Script and
// checks it against the consensus rules of target and against policy.
// Unlike Analyze it does not stop at the first violation: it returns the
// scripts of all the paths and all the violations, ordered by branch and
// position. tree must have been successfully analyzed with Analyze.
func CheckConsensus(tree *ast.Tree, analysis *Analysis, target ast.Target, policy Policy) ([]*PathScript, ConsensusErrors) {
	layout := map[*ast.If]int{}
	branchLayout(tree.Statements, 0, layout)
	paths := make([]*PathScript, len(analysis.Scopes))
	var errs ConsensusErrors
	for branch, scope := range analysis.Scopes {
		l := newLowering(tree.Path, target, branch, scope, layout)
		l.statements(tree.Statements)
		if refs := l.missing; len(refs) > 0 {
			// Lower again with the missing items on top of the initial stack.
			l = newLowering(tree.Path, target, branch, scope, layout)
			l.addWitnessItems(refs, analysis.typeOf)
			l.statements(tree.Statements)
		}
		l.exit()
		paths[branch] = l.check(policy)
		errs = append(errs, l.errs...)
	}
	sort.SliceStable(errs, func(i, j int) bool {
		if errs[i].branch != errs[j].branch {
			return errs[i].branch < errs[j].branch
		}
		return errs[i].pos.Start < errs[j].pos.Start
	})
	return paths, errs
}

// branchLayout stores in layout, for each if statement, the highest branch
// reached by its then block. It allocates branches as the analyzer does and
// returns the highest branch reached by statements.
func branchLayout(statements []ast.Statement, branch int, layout map[*ast.If]int) int {
	last := branch
	for _, stmt := range statements {
		if s, ok := stmt.(*ast.If); ok {
			last = branchLayout(s.Then.Statements, branch, layout)
			layout[s] = last
			if s.Else != nil {
				last = branchLayout(s.Else.Statements, last+1, layout)
			}
		}
	}
	return last
}

// check checks the lowered script and returns it.
func (l *lowering) check(policy Policy) *PathScript {

	ps := &PathScript{
		Branch: l.branch,
		Script: l.script,
		Depth:  l.peak,
		marks:  l.marks,
	}
	lim := targetLimits[l.target]
	disabled := disabledOpcodes[l.target]

	if l.peak > txscript.MaxStackSize {
		l.errorf(l.peakAt, StackDepthExceeded, "stack depth %d exceeds the maximum of %d items", l.peak, txscript.MaxStackSize)
	}

	offset := 0
	tokenizer := txscript.MakeScriptTokenizer(0, l.script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		pos := ps.positionAt(offset)
		if op > txscript.OP_16 {
			ps.Ops++
			if lim.maxOps > 0 && ps.Ops == lim.maxOps+1 {
				l.errorf(pos, OpcodeCountExceeded, "script has more than %d opcodes", lim.maxOps)
			}
		}
		if disabled[op] {
			l.errorf(pos, DisabledOpcodeForTarget, "%s is disabled for target %s", opcodeName(op), l.target)
		}
		if op <= txscript.OP_PUSHDATA4 {
			data := tokenizer.Data()
			if len(data) > txscript.MaxScriptElementSize {
				l.errorf(pos, ScriptSizeExceeded, "push of %d bytes exceeds the maximum element size of %d bytes",
					len(data), txscript.MaxScriptElementSize)
			}
			if policy.MinimalPush {
				if msg := checkMinimalDataPush(op, data); msg != "" {
					l.errorf(pos, NonMinimalPush, "%s", msg)
				}
			}
		}
		offset = int(tokenizer.ByteIndex())
	}
	if err := tokenizer.Err(); err != nil {
		panic(fmt.Sprintf("lowered script is malformed: %s", err))
	}

	if size := len(l.script); size > lim.maxScriptSize {
		l.errorf(ps.positionAt(lim.maxScriptSize), ScriptSizeExceeded,
			"script size %d exceeds the maximum of %d bytes for target %s", size, lim.maxScriptSize, l.target)
	}

	maxSigOps := lim.maxSigOps(len(l.script), l.witness)
	for _, s := range l.sigOps {
		ps.SigOps += s.count
		if ps.SigOps > maxSigOps && ps.SigOps-s.count <= maxSigOps {
			l.errorf(s.pos, SigOpLimitExceeded, "%d signature operations exceed the limit of %d for target %s",
				l.totalSigOps(), maxSigOps, l.target)
		}
	}

	return ps
}

// positionAt returns the position of the source construct that emitted the
// byte of the script at the given offset.
func (ps *PathScript) positionAt(offset int) *ast.Position {
	i := sort.Search(len(ps.marks), func(i int) bool { return ps.marks[i].offset > offset }) - 1
	if i < 0 {
		return nil
	}
	return ps.marks[i].pos
}
