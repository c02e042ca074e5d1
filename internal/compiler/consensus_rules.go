// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"

	"github.com/bithoven-lang/bithoven/ast"
)

// maxP2SHSigOps is the maximum number of signature operations of a
// standard P2SH redeem script.
const maxP2SHSigOps = 15

// maxStandardWitnessSigOps is the maximum sigop cost of a standard
// transaction. Witness signature operations count one each.
const maxStandardWitnessSigOps = 16000

// tapscriptSigOpCost is the cost of a signature operation in tapscript.
// The budget is 50 plus the size of the witness, the script included.
const tapscriptSigOpCost = 50

// controlBlockSize is the size of the smallest control block of a tapscript
// spend, with its length prefix.
const controlBlockSize = 34

// scriptNumLen is the maximum length of the operands of the arithmetic and
// comparison opcodes. Locktime operands are read with a length of 5.
const scriptNumLen = 4

// maxScriptNum is the greatest magnitude of a number of scriptNumLen bytes.
const maxScriptNum = 1<<31 - 1

// witnessItemSize is the estimated serialized size, with the length prefix,
// of a witness item of each type.
var witnessItemSize = map[ast.Type]int{
	ast.TypeSignature: 65,
	ast.TypeNumber:    5,
	ast.TypeString:    34,
	ast.TypeBool:      2,
}

// limits holds the limits of a target.
type limits struct {
	maxScriptSize int
	maxOps        int // non-push opcodes, 0 means no limit.
	maxSigOps     func(scriptSize, witnessSize int) int
}

var targetLimits = map[ast.Target]limits{
	ast.TargetLegacy: {
		maxScriptSize: txscript.MaxScriptElementSize,
		maxOps:        txscript.MaxOpsPerScript,
		maxSigOps:     func(int, int) int { return maxP2SHSigOps },
	},
	ast.TargetSegwit: {
		maxScriptSize: txscript.MaxScriptSize,
		maxOps:        txscript.MaxOpsPerScript,
		maxSigOps:     func(int, int) int { return maxStandardWitnessSigOps },
	},
	ast.TargetTaproot: {
		maxScriptSize: txscript.MaxScriptSize,
		maxSigOps: func(size, witness int) int {
			return (tapscriptSigOpCost + size + witness + controlBlockSize) / tapscriptSigOpCost
		},
	},
}

// disabledEverywhere holds the opcodes disabled by every target.
var disabledEverywhere = []byte{
	txscript.OP_CAT, txscript.OP_SUBSTR, txscript.OP_LEFT, txscript.OP_RIGHT,
	txscript.OP_INVERT, txscript.OP_AND, txscript.OP_OR, txscript.OP_XOR,
	txscript.OP_2MUL, txscript.OP_2DIV, txscript.OP_MUL, txscript.OP_DIV,
	txscript.OP_MOD, txscript.OP_LSHIFT, txscript.OP_RSHIFT,
	txscript.OP_VERIF, txscript.OP_VERNOTIF,
}

// disabledOpcodes holds, for each target, the opcodes that a script of that
// target cannot contain. The lowering never emits them, so the check only
// guards against a change of the opcode selection.
var disabledOpcodes = map[ast.Target]map[byte]bool{
	ast.TargetLegacy:  disabledSet(txscript.OP_CHECKSIGADD),
	ast.TargetSegwit:  disabledSet(txscript.OP_CHECKSIGADD),
	ast.TargetTaproot: disabledSet(txscript.OP_CHECKMULTISIG, txscript.OP_CHECKMULTISIGVERIFY),
}

func disabledSet(opcodes ...byte) map[byte]bool {
	set := make(map[byte]bool, len(disabledEverywhere)+len(opcodes))
	for _, op := range disabledEverywhere {
		set[op] = true
	}
	for _, op := range opcodes {
		set[op] = true
	}
	return set
}

// opcodeNames maps an opcode to its name. Where an opcode has more names,
// the longest one is used, as OP_CHECKLOCKTIMEVERIFY instead of OP_NOP2.
var opcodeNames = func() map[byte]string {
	names := make(map[byte]string, len(txscript.OpcodeByName))
	for name, op := range txscript.OpcodeByName {
		if n, ok := names[op]; !ok || len(name) > len(n) || len(name) == len(n) && name < n {
			names[op] = name
		}
	}
	return names
}()

func opcodeName(op byte) string {
	if name, ok := opcodeNames[op]; ok {
		return name
	}
	return fmt.Sprintf("OP_UNKNOWN%d", op)
}

// checkMinimalDataPush checks that data is pushed with the smallest possible
// opcode. It returns a message describing the violation, or the empty
// string. opcode must be OP_0, a data opcode or an OP_PUSHDATA opcode.
func checkMinimalDataPush(opcode byte, data []byte) string {
	dataLen := len(data)
	switch {
	case dataLen == 0:
		if opcode != txscript.OP_0 {
			return fmt.Sprintf("zero length data push is encoded with opcode %s instead of OP_0", opcodeName(opcode))
		}
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if opcode != txscript.OP_1-1+data[0] {
			return fmt.Sprintf("data push of the value %d encoded with opcode %s instead of OP_%d",
				data[0], opcodeName(opcode), data[0])
		}
	case dataLen == 1 && data[0] == 0x81:
		if opcode != txscript.OP_1NEGATE {
			return fmt.Sprintf("data push of the value -1 encoded with opcode %s instead of OP_1NEGATE", opcodeName(opcode))
		}
	case dataLen <= 75:
		if int(opcode) != dataLen {
			return fmt.Sprintf("data push of %d bytes encoded with opcode %s instead of OP_DATA_%d",
				dataLen, opcodeName(opcode), dataLen)
		}
	case dataLen <= 255:
		if opcode != txscript.OP_PUSHDATA1 {
			return fmt.Sprintf("data push of %d bytes encoded with opcode %s instead of OP_PUSHDATA1",
				dataLen, opcodeName(opcode))
		}
	case dataLen <= 65535:
		if opcode != txscript.OP_PUSHDATA2 {
			return fmt.Sprintf("data push of %d bytes encoded with opcode %s instead of OP_PUSHDATA2",
				dataLen, opcodeName(opcode))
		}
	}
	return ""
}
