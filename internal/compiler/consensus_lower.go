// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compiler

import (
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"golang.org/x/crypto/ripemd160"

	"github.com/bithoven-lang/bithoven/ast"
)

// mark records the source construct that emitted the script bytes starting
// at offset.
type mark struct {
	offset int
	pos    *ast.Position
}

type sigOp struct {
	pos   *ast.Position
	count int
}

// lowering holds the state of the lowering of a spending path.
type lowering struct {
	path   string
	target ast.Target
	branch int
	layout map[*ast.If]int

	script []byte
	marks  []mark
	lastOp int // offset of the last opcode if it is the last byte, otherwise -1.

	// stack simulates the stack: the name of a declared item not yet
	// consumed, or the empty string for a computed value.
	stack  []string
	peak   int
	peakAt *ast.Position

	sigOps  []sigOp
	witness int // estimated size of the witness items of the input stack.
	exitAt  *ast.Position

	// missing holds, in reference order, the identifiers whose item is not
	// declared in the input stack of the path.
	missing []*ast.Identifier

	errs ConsensusErrors
}

// newLowering returns a lowering for branch, whose stack initially holds the
// items declared in scope.
func newLowering(path string, target ast.Target, branch int, scope *Scope, layout map[*ast.If]int) *lowering {
	l := &lowering{
		path:   path,
		target: target,
		branch: branch,
		layout: layout,
		lastOp: -1,
	}
	for _, sym := range scope.Stack() {
		l.push(sym.Decl.Position, sym.Name)
		l.witness += witnessItemSize[sym.Type]
	}
	return l
}

// addWitnessItems places on top of the initial stack an item for each
// identifier of refs, with the first one on top. typeOf returns the type of
// the item of a name.
func (l *lowering) addWitnessItems(refs []*ast.Identifier, typeOf func(name string) ast.Type) {
	for i := len(refs) - 1; i >= 0; i-- {
		l.push(refs[i].Position, refs[i].Name)
		l.witness += witnessItemSize[typeOf(refs[i].Name)]
	}
}

var unaryOpcodes = map[ast.OperatorType]byte{
	ast.OperatorIncrement: txscript.OP_1ADD,
	ast.OperatorDecrement: txscript.OP_1SUB,
	ast.OperatorNegate:    txscript.OP_NEGATE,
	ast.OperatorAbs:       txscript.OP_ABS,
	ast.OperatorNot:       txscript.OP_NOT,
	ast.OperatorSha256:    txscript.OP_SHA256,
	ast.OperatorRipemd160: txscript.OP_RIPEMD160,
}

var binaryOpcodes = map[ast.OperatorType]byte{
	ast.OperatorOr:           txscript.OP_BOOLOR,
	ast.OperatorAnd:          txscript.OP_BOOLAND,
	ast.OperatorEqual:        txscript.OP_EQUAL,
	ast.OperatorNumEqual:     txscript.OP_NUMEQUAL,
	ast.OperatorNumNotEqual:  txscript.OP_NUMNOTEQUAL,
	ast.OperatorLess:         txscript.OP_LESSTHAN,
	ast.OperatorLessEqual:    txscript.OP_LESSTHANOREQUAL,
	ast.OperatorGreater:      txscript.OP_GREATERTHAN,
	ast.OperatorGreaterEqual: txscript.OP_GREATERTHANOREQUAL,
	ast.OperatorAddition:     txscript.OP_ADD,
	ast.OperatorSubtraction:  txscript.OP_SUB,
	ast.OperatorMax:          txscript.OP_MAX,
	ast.OperatorMin:          txscript.OP_MIN,
}

// verifyForms maps an opcode to its VERIFY form.
var verifyForms = map[byte]byte{
	txscript.OP_EQUAL:         txscript.OP_EQUALVERIFY,
	txscript.OP_NUMEQUAL:      txscript.OP_NUMEQUALVERIFY,
	txscript.OP_CHECKSIG:      txscript.OP_CHECKSIGVERIFY,
	txscript.OP_CHECKMULTISIG: txscript.OP_CHECKMULTISIGVERIFY,
}

func (l *lowering) errorf(pos *ast.Position, kind ErrorKind, format string, args ...interface{}) {
	err := &ConsensusError{
		path:   l.path,
		kind:   kind,
		branch: l.branch,
		msg:    fmt.Sprintf(format, args...),
	}
	if pos != nil {
		err.pos = *pos
	}
	l.errs = append(l.errs, err)
}

// mark marks the bytes emitted from now on as emitted by pos.
func (l *lowering) mark(pos *ast.Position) {
	if n := len(l.marks); n > 0 && l.marks[n-1].offset == len(l.script) {
		l.marks[n-1].pos = pos
		return
	}
	l.marks = append(l.marks, mark{offset: len(l.script), pos: pos})
}

// op emits an opcode.
func (l *lowering) op(pos *ast.Position, op byte) {
	l.mark(pos)
	l.lastOp = len(l.script)
	l.script = append(l.script, op)
}

// int emits the push of n, with its minimal encoding.
func (l *lowering) int(pos *ast.Position, n int64) {
	b, err := txscript.NewScriptBuilder().AddInt64(n).Script()
	if err != nil {
		panic(err)
	}
	l.mark(pos)
	l.lastOp = -1
	l.script = append(l.script, b...)
}

// data emits the push of data as written: with a data or a PUSHDATA opcode
// even when a small integer opcode would be shorter.
func (l *lowering) data(pos *ast.Position, data []byte) {
	l.mark(pos)
	l.lastOp = -1
	n := len(data)
	switch {
	case n == 0:
		l.script = append(l.script, txscript.OP_0)
		return
	case n <= txscript.OP_DATA_75:
		l.script = append(l.script, byte(n))
	case n <= 0xff:
		l.script = append(l.script, txscript.OP_PUSHDATA1, byte(n))
	case n <= 0xffff:
		l.script = append(l.script, txscript.OP_PUSHDATA2, byte(n), byte(n>>8))
	default:
		l.script = append(l.script, txscript.OP_PUSHDATA4, byte(n), byte(n>>8), byte(n>>16), byte(n>>24))
	}
	l.script = append(l.script, data...)
}

// push pushes an item on the simulated stack.
func (l *lowering) push(pos *ast.Position, name string) {
	l.stack = append(l.stack, name)
	if len(l.stack) > l.peak {
		l.peak = len(l.stack)
		if l.peak > txscript.MaxStackSize && l.peakAt == nil {
			l.peakAt = pos
		}
	}
}

// pop pops n items from the simulated stack.
func (l *lowering) pop(n int) {
	l.stack = l.stack[:len(l.stack)-n]
}

// replace pops n items and pushes the result of an operation.
func (l *lowering) replace(pos *ast.Position, n int) {
	l.pop(n)
	l.push(pos, "")
}

func (l *lowering) addSigOps(pos *ast.Position, n int) {
	l.sigOps = append(l.sigOps, sigOp{pos, n})
}

func (l *lowering) totalSigOps() int {
	n := 0
	for _, s := range l.sigOps {
		n += s.count
	}
	return n
}

// statements lowers the statements of the path.
func (l *lowering) statements(statements []ast.Statement) {
	for _, stmt := range statements {
		switch s := stmt.(type) {
		case *ast.Locktime:
			l.int(s.Position, int64(s.Operand))
			l.push(s.Position, "")
			if s.Op == ast.LocktimeCSV {
				l.op(s.Position, txscript.OP_CHECKSEQUENCEVERIFY)
			} else {
				l.op(s.Position, txscript.OP_CHECKLOCKTIMEVERIFY)
			}
			l.op(s.Position, txscript.OP_DROP)
			l.pop(1)
		case *ast.Verify:
			l.expression(s.Expr)
			l.verify(s.Position)
			l.pop(1)
		case *ast.ExpressionStmt:
			l.expression(s.Expr)
			l.exitAt = s.Position
		case *ast.If:
			l.expression(s.Condition)
			if l.branch <= l.layout[s] {
				l.op(s.Position, txscript.OP_IF)
				l.pop(1)
				l.statements(s.Then.Statements)
			} else {
				l.op(s.Position, txscript.OP_NOTIF)
				l.pop(1)
				l.statements(s.Else.Statements)
			}
			l.op(s.Position, txscript.OP_ENDIF)
		}
	}
}

// verify emits OP_VERIFY, or turns the last opcode into its VERIFY form.
func (l *lowering) verify(pos *ast.Position) {
	if l.lastOp >= 0 {
		if v, ok := verifyForms[l.script[l.lastOp]]; ok {
			l.script[l.lastOp] = v
			return
		}
	}
	l.op(pos, txscript.OP_VERIFY)
}

// exit drops the items left below the value of the path.
func (l *lowering) exit() {
	for len(l.stack) > 1 {
		l.op(l.exitAt, txscript.OP_NIP)
		l.stack = append(l.stack[:len(l.stack)-2], l.stack[len(l.stack)-1])
	}
}

// variable moves the item of the variable ident to the top of the stack. If
// the item is not in the stack, ident is added to missing.
func (l *lowering) variable(ident *ast.Identifier) {
	for d := 0; d < len(l.stack); d++ {
		i := len(l.stack) - 1 - d
		if l.stack[i] != ident.Name {
			continue
		}
		switch d {
		case 0:
			l.lastOp = -1
		case 1:
			l.op(ident.Position, txscript.OP_SWAP)
		case 2:
			l.op(ident.Position, txscript.OP_ROT)
		default:
			l.int(ident.Position, int64(d))
			l.push(ident.Position, "")
			l.op(ident.Position, txscript.OP_ROLL)
			l.pop(1)
		}
		l.stack = append(l.stack[:i], l.stack[i+1:]...)
		l.stack = append(l.stack, "")
		return
	}
	l.missing = append(l.missing, ident)
	l.lastOp = -1
	l.push(ident.Position, "")
}

// expression lowers expr, leaving its value on top of the stack.
func (l *lowering) expression(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		l.variable(e)
	case *ast.NumberLiteral:
		if e.Value > maxScriptNum || e.Value < -maxScriptNum {
			l.errorf(e.Position, ScriptSizeExceeded, "number %d does not fit in a %d bytes script number", e.Value, scriptNumLen)
		}
		l.int(e.Position, e.Value)
		l.push(e.Position, "")
	case *ast.BoolLiteral:
		if e.Value {
			l.op(e.Position, txscript.OP_TRUE)
		} else {
			l.op(e.Position, txscript.OP_FALSE)
		}
		l.push(e.Position, "")
	case *ast.StringLiteral:
		l.data(e.Position, e.Value)
		l.push(e.Position, "")
	case *ast.UnaryOperator:
		if lit, ok := e.Expr.(*ast.StringLiteral); ok && e.Op.IsCrypto() {
			l.data(e.Position, hash(e.Op, lit.Value))
			l.push(e.Position, "")
			return
		}
		l.expression(e.Expr)
		if e.Op == ast.OperatorSize {
			l.op(e.Position, txscript.OP_SIZE)
			l.push(e.Position, "")
			l.op(e.Position, txscript.OP_NIP)
			l.replace(e.Position, 2)
			return
		}
		l.op(e.Position, unaryOpcodes[e.Op])
		l.replace(e.Position, 1)
	case *ast.BinaryOperator:
		l.expression(e.Expr1)
		l.expression(e.Expr2)
		if e.Op == ast.OperatorNotEqual {
			l.op(e.Position, txscript.OP_EQUAL)
			l.op(e.Position, txscript.OP_NOT)
		} else {
			l.op(e.Position, binaryOpcodes[e.Op])
		}
		l.replace(e.Position, 2)
	case *ast.CheckSig:
		switch f := e.Factor.(type) {
		case *ast.SingleSig:
			l.expression(f.Sig)
			l.expression(f.PubKey)
			l.op(e.Position, txscript.OP_CHECKSIG)
			l.replace(e.Position, 2)
			l.addSigOps(e.Position, 1)
		case *ast.MultiSig:
			l.multiSig(e.Position, f)
		}
	default:
		panic(fmt.Sprintf("unexpected expression %T", expr))
	}
}

// multiSig lowers a m-of-n signature check.
//
// With tapscript it emits the OP_CHECKSIGADD sequence. With the other
// targets it emits OP_CHECKMULTISIG if all the signatures are required,
// otherwise it sums the results of OP_CHECKSIG.
func (l *lowering) multiSig(pos *ast.Position, f *ast.MultiSig) {
	n := len(f.Pairs)
	if n > txscript.MaxPubKeysPerMultiSig {
		l.errorf(f.Position, SigOpLimitExceeded, "multisig with %d public keys exceeds the maximum of %d",
			n, txscript.MaxPubKeysPerMultiSig)
	}
	switch {
	case l.target == ast.TargetTaproot:
		for i, pair := range f.Pairs {
			l.expression(pair.Sig)
			if i > 0 {
				l.op(pair.Position, txscript.OP_SWAP)
			}
			l.expression(pair.PubKey)
			if i == 0 {
				l.op(pair.Position, txscript.OP_CHECKSIG)
				l.replace(pair.Position, 2)
			} else {
				l.op(pair.Position, txscript.OP_CHECKSIGADD)
				l.replace(pair.Position, 3)
			}
			l.addSigOps(pair.Position, 1)
		}
		l.int(pos, int64(f.M))
		l.push(pos, "")
		l.op(pos, txscript.OP_NUMEQUAL)
		l.replace(pos, 2)
	case f.M == n:
		l.op(pos, txscript.OP_0)
		l.push(pos, "")
		for _, pair := range f.Pairs {
			l.expression(pair.Sig)
		}
		l.int(pos, int64(f.M))
		l.push(pos, "")
		for _, pair := range f.Pairs {
			l.expression(pair.PubKey)
		}
		l.int(pos, int64(n))
		l.push(pos, "")
		l.op(pos, txscript.OP_CHECKMULTISIG)
		l.replace(pos, 2*n+3)
		l.addSigOps(pos, n)
	default:
		for i, pair := range f.Pairs {
			l.expression(pair.Sig)
			l.expression(pair.PubKey)
			l.op(pair.Position, txscript.OP_CHECKSIG)
			l.replace(pair.Position, 2)
			l.addSigOps(pair.Position, 1)
			if i > 0 {
				l.op(pair.Position, txscript.OP_ADD)
				l.replace(pair.Position, 2)
			}
		}
		l.int(pos, int64(f.M))
		l.push(pos, "")
		l.op(pos, txscript.OP_NUMEQUAL)
		l.replace(pos, 2)
	}
}

// hash returns the hash of data computed by the crypto operator op.
func hash(op ast.OperatorType, data []byte) []byte {
	if op == ast.OperatorSha256 {
		h := sha256.Sum256(data)
		return h[:]
	}
	h := ripemd160.New()
	h.Write(data)
	return h.Sum(nil)
}
