// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ast declares the types used to define Bithoven trees.
//
// For example, the source:
//
//	(sig: signature)
//	checksig (sig, "02c6047f9441ed7d6d3045406e95c07cd85c778e4b8cef3ca7abac09b95c709ee5");
//
// is represented with a tree that has one input stack, holding the parameter
// "sig", and one statement:
//
//	ast.NewExpressionStmt(
//		&ast.Position{Line: 2, Column: 1, Start: 17, End: 101},
//		ast.NewCheckSig(
//			&ast.Position{Line: 2, Column: 1, Start: 17, End: 100},
//			ast.NewSingleSig(
//				&ast.Position{Line: 2, Column: 10, Start: 26, End: 100},
//				ast.NewIdentifier(&ast.Position{Line: 2, Column: 11, Start: 27, End: 29}, "sig"),
//				ast.NewStringLiteral(&ast.Position{Line: 2, Column: 16, Start: 32, End: 99}, text, pubKey),
//			),
//		),
//		false,
//	)
package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Target is the consensus dialect a script is written for.
type Target int

const (
	TargetLegacy  Target = iota // legacy (P2SH)
	TargetSegwit                // segwit v0 (P2WSH)
	TargetTaproot               // tapscript (P2TR script path)
)

var targetNames = []string{"legacy", "segwit", "taproot"}

// String returns the name of the target as written in a target pragma.
func (t Target) String() string {
	if t < 0 || int(t) >= len(targetNames) {
		return "target(" + strconv.Itoa(int(t)) + ")"
	}
	return targetNames[t]
}

// ParseTarget returns the target with the given name.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n == name {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("unknown target %q", name)
}

// Type is the type of a stack parameter.
type Type int

const (
	TypeSignature Type = iota // signature
	TypeNumber                // number
	TypeString                // string
	TypeBool                  // bool
)

// String returns the name of the type as written in a stack declaration.
func (t Type) String() string {
	return []string{"signature", "number", "string", "bool"}[t]
}

// LocktimeOp is the operation of a locktime statement.
type LocktimeOp int

const (
	LocktimeCLTV LocktimeOp = iota // after
	LocktimeCSV                    // older
)

func (op LocktimeOp) String() string {
	if op == LocktimeCSV {
		return "older"
	}
	return "after"
}

// OperatorType represents an operator type in a unary and binary expression.
type OperatorType int

const (
	OperatorOr           OperatorType = iota // ||
	OperatorAnd                              // &&
	OperatorEqual                            // ==
	OperatorNotEqual                         // !=
	OperatorNumEqual                         // =:=
	OperatorNumNotEqual                      // =/=
	OperatorLess                             // <
	OperatorLessEqual                        // <=
	OperatorGreater                          // >
	OperatorGreaterEqual                     // >=
	OperatorAddition                         // +
	OperatorSubtraction                      // -
	OperatorMax                              // max
	OperatorMin                              // min
	OperatorIncrement                        // ++
	OperatorDecrement                        // --
	OperatorNegate                           // -
	OperatorAbs                              // abs
	OperatorNot                              // !
	OperatorSha256                           // sha256
	OperatorRipemd160                        // ripemd160
	OperatorSize                             // size
)

// String returns the string representation of the operator type.
func (op OperatorType) String() string {
	return []string{"||", "&&", "==", "!=", "=:=", "=/=", "<", "<=", ">", ">=",
		"+", "-", "max", "min", "++", "--", "-", "abs", "!", "sha256", "ripemd160",
		"size"}[op]
}

// IsCrypto reports whether op is a hash operator.
func (op OperatorType) IsCrypto() bool {
	return op == OperatorSha256 || op == OperatorRipemd160
}

// isCall reports whether op is written with the call syntax.
func (op OperatorType) isCall() bool {
	return op == OperatorMax || op == OperatorMin
}

// Node is a node of the tree.
type Node interface {
	Pos() *Position // node position in the original source
}

// Statement is a statement node.
type Statement interface {
	Node
	String() string
	isStatement()
}

// Expression is an expression node.
type Expression interface {
	Node
	String() string
	isExpression()
}

// Factor is the operand of a signature check.
type Factor interface {
	Node
	String() string
	isFactor()
}

// Position is a position of a node in the source.
type Position struct {
	Line   int // line starting from 1
	Column int // column in characters starting from 1
	Start  int // index of the first byte
	End    int // index of the last byte
}

// Pos returns the position p.
func (p *Position) Pos() *Position {
	return p
}

// String returns the line and column separated by a colon, for example "37:18".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// WithEnd returns a copy of the position but with the given end index.
func (p *Position) WithEnd(end int) *Position {
	pp := *p
	pp.End = end
	return &pp
}

// Tree node represents a Bithoven source.
type Tree struct {
	*Position
	Path       string          // path of the source.
	Pragma     *Pragma         // pragmas.
	Stacks     [][]*StackParam // declared input stacks, one for each branch.
	Statements []Statement     // statements of the script.
}

// NewTree returns a new Tree node.
func NewTree(path string, pragma *Pragma, stacks [][]*StackParam, statements []Statement) *Tree {
	if pragma == nil {
		pragma = &Pragma{}
	}
	return &Tree{&Position{1, 1, 0, 0}, path, pragma, stacks, statements}
}

// Pragma holds the values of the pragma directives of a source.
type Pragma struct {
	Version   string    // language version, empty if not declared.
	VersionAt *Position // position of the version pragma, nil if not declared.
	Target    Target    // target, significant only if TargetAt is not nil.
	TargetAt  *Position // position of the target pragma, nil if not declared.
}

// HasTarget reports whether the source declares a target.
func (p *Pragma) HasTarget() bool {
	return p.TargetAt != nil
}

// StackParam node represents a parameter of an input stack.
type StackParam struct {
	*Position
	Ident   *Identifier // name.
	Type    Type        // type.
	Default Expression  // default literal, nil if absent.
}

// NewStackParam returns a new StackParam node.
func NewStackParam(pos *Position, ident *Identifier, typ Type, def Expression) *StackParam {
	return &StackParam{pos, ident, typ, def}
}

func (n *StackParam) String() string {
	s := n.Ident.Name + ": " + n.Type.String()
	if n.Default != nil {
		s += " = " + n.Default.String()
	}
	return s
}

// Block node represents a block of statements.
type Block struct {
	*Position
	Statements []Statement
}

// NewBlock returns a new Block node.
func NewBlock(pos *Position, statements []Statement) *Block {
	return &Block{pos, statements}
}

func (n *Block) String() string {
	if len(n.Statements) == 0 {
		return "{ }"
	}
	var b strings.Builder
	b.WriteString("{ ")
	for _, s := range n.Statements {
		b.WriteString(s.String())
		b.WriteByte(' ')
	}
	b.WriteByte('}')
	return b.String()
}

// If node represents a statement if.
type If struct {
	*Position
	Condition Expression // condition.
	Then      *Block     // then block.
	Else      *Block     // else block, nil if there is no else.
}

// NewIf returns a new If node.
func NewIf(pos *Position, cond Expression, then *Block, els *Block) *If {
	return &If{pos, cond, then, els}
}

func (*If) isStatement() {}

func (n *If) String() string {
	s := "if " + n.Condition.String() + " " + n.Then.String()
	if n.Else != nil {
		s += " else " + n.Else.String()
	}
	return s
}

// Locktime node represents a locktime statement, "after" or "older".
type Locktime struct {
	*Position
	Operand uint32
	Op      LocktimeOp
}

// NewLocktime returns a new Locktime node.
func NewLocktime(pos *Position, operand uint32, op LocktimeOp) *Locktime {
	return &Locktime{pos, operand, op}
}

func (*Locktime) isStatement() {}

func (n *Locktime) String() string {
	return n.Op.String() + " " + strconv.FormatUint(uint64(n.Operand), 10) + ";"
}

// Verify node represents a statement verify.
type Verify struct {
	*Position
	Expr Expression
}

// NewVerify returns a new Verify node.
func NewVerify(pos *Position, expr Expression) *Verify {
	return &Verify{pos, expr}
}

func (*Verify) isStatement() {}

func (n *Verify) String() string {
	return "verify " + n.Expr.String() + ";"
}

// ExpressionStmt node represents an expression statement, the only statement
// that produces the value of a spending path.
type ExpressionStmt struct {
	*Position
	Expr   Expression
	Return bool // written with the return keyword.
}

// NewExpressionStmt returns a new ExpressionStmt node.
func NewExpressionStmt(pos *Position, expr Expression, ret bool) *ExpressionStmt {
	return &ExpressionStmt{pos, expr, ret}
}

func (*ExpressionStmt) isStatement() {}

func (n *ExpressionStmt) String() string {
	if n.Return {
		return "return " + n.Expr.String() + ";"
	}
	return n.Expr.String() + ";"
}

// Identifier node represents an identifier expression.
type Identifier struct {
	*Position
	Name string
}

// NewIdentifier returns a new Identifier node.
func NewIdentifier(pos *Position, name string) *Identifier {
	return &Identifier{pos, name}
}

func (*Identifier) isExpression() {}

func (n *Identifier) String() string {
	return n.Name
}

// NumberLiteral node represents a number literal.
type NumberLiteral struct {
	*Position
	Value int64
}

// NewNumberLiteral returns a new NumberLiteral node.
func NewNumberLiteral(pos *Position, value int64) *NumberLiteral {
	return &NumberLiteral{pos, value}
}

func (*NumberLiteral) isExpression() {}

func (n *NumberLiteral) String() string {
	return strconv.FormatInt(n.Value, 10)
}

// BoolLiteral node represents a boolean literal.
type BoolLiteral struct {
	*Position
	Value bool
}

// NewBoolLiteral returns a new BoolLiteral node.
func NewBoolLiteral(pos *Position, value bool) *BoolLiteral {
	return &BoolLiteral{pos, value}
}

func (*BoolLiteral) isExpression() {}

func (n *BoolLiteral) String() string {
	return strconv.FormatBool(n.Value)
}

// StringLiteral node represents a string literal.
type StringLiteral struct {
	*Position
	Text  string // literal as written in the source, quotes included.
	Value []byte // bytes pushed on the stack.
}

// NewStringLiteral returns a new StringLiteral node.
func NewStringLiteral(pos *Position, text string, value []byte) *StringLiteral {
	return &StringLiteral{pos, text, value}
}

func (*StringLiteral) isExpression() {}

func (n *StringLiteral) String() string {
	return n.Text
}

// UnaryOperator node represents an unary operator expression.
type UnaryOperator struct {
	*Position
	Op   OperatorType // operator.
	Expr Expression   // expression.
}

// NewUnaryOperator returns a new UnaryOperator node.
func NewUnaryOperator(pos *Position, op OperatorType, expr Expression) *UnaryOperator {
	return &UnaryOperator{pos, op, expr}
}

func (*UnaryOperator) isExpression() {}

func (n *UnaryOperator) String() string {
	switch n.Op {
	case OperatorAbs, OperatorSha256, OperatorRipemd160, OperatorSize:
		return n.Op.String() + " " + n.Expr.String()
	}
	return n.Op.String() + n.Expr.String()
}

// BinaryOperator node represents a binary operator expression.
type BinaryOperator struct {
	*Position
	Op    OperatorType // operator.
	Expr1 Expression   // first expression.
	Expr2 Expression   // second expression.
}

// NewBinaryOperator returns a new BinaryOperator node.
func NewBinaryOperator(pos *Position, op OperatorType, expr1, expr2 Expression) *BinaryOperator {
	return &BinaryOperator{pos, op, expr1, expr2}
}

func (*BinaryOperator) isExpression() {}

func (n *BinaryOperator) String() string {
	if n.Op.isCall() {
		return n.Op.String() + "(" + n.Expr1.String() + ", " + n.Expr2.String() + ")"
	}
	return "(" + n.Expr1.String() + " " + n.Op.String() + " " + n.Expr2.String() + ")"
}

// CheckSig node represents a signature check expression.
type CheckSig struct {
	*Position
	Factor Factor
}

// NewCheckSig returns a new CheckSig node.
func NewCheckSig(pos *Position, factor Factor) *CheckSig {
	return &CheckSig{pos, factor}
}

func (*CheckSig) isExpression() {}

func (n *CheckSig) String() string {
	return "checksig " + n.Factor.String()
}

// SingleSig node represents a signature and public key pair.
type SingleSig struct {
	*Position
	Sig    Expression
	PubKey Expression
}

// NewSingleSig returns a new SingleSig node.
func NewSingleSig(pos *Position, sig, pubKey Expression) *SingleSig {
	return &SingleSig{pos, sig, pubKey}
}

func (*SingleSig) isFactor() {}

func (n *SingleSig) String() string {
	return "(" + n.Sig.String() + ", " + n.PubKey.String() + ")"
}

// MultiSig node represents a m-of-n signature check. Each of the n keys is
// paired with its signature.
type MultiSig struct {
	*Position
	M     int
	Pairs []*SingleSig
}

// NewMultiSig returns a new MultiSig node.
func NewMultiSig(pos *Position, m int, pairs []*SingleSig) *MultiSig {
	return &MultiSig{pos, m, pairs}
}

func (*MultiSig) isFactor() {}

func (n *MultiSig) String() string {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(strconv.Itoa(n.M))
	for _, p := range n.Pairs {
		b.WriteString(", ")
		b.WriteString(p.String())
	}
	b.WriteString("]")
	return b.String()
}
