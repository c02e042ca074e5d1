// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package bithoven

import (
	"github.com/sirupsen/logrus"

	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/internal/compiler"
	"github.com/bithoven-lang/bithoven/internal/logging"
	"github.com/bithoven-lang/bithoven/internal/source"
)

// LanguageVersion is the version of the language implemented by the
// compiler.
const LanguageVersion = compiler.LanguageVersion

// Target is a script target.
type Target = ast.Target

// Targets.
const (
	Legacy  = ast.TargetLegacy
	Segwit  = ast.TargetSegwit
	Taproot = ast.TargetTaproot
)

// Policy holds the standardness rules checked together with the consensus
// rules.
type Policy = compiler.Policy

// DefaultPolicy is the policy of relaying nodes.
var DefaultPolicy = compiler.DefaultPolicy

// Analysis is the result of a successful analysis. It holds the scope of
// each branch.
type Analysis = compiler.Analysis

// PathScript is the lowered script of a spending path.
type PathScript = compiler.PathScript

// BuildOptions contains options for building a source.
type BuildOptions struct {

	// Path is the path of the source, used in the errors.
	Path string

	// Target, when not nil, is the target of the script, regardless of the
	// target pragma of the source.
	Target *Target

	// DefaultTarget, when not nil, is the target of a source without a
	// target pragma. If it is nil, such sources are built for Segwit.
	DefaultTarget *Target

	// Policy, when not nil, replaces DefaultPolicy.
	Policy *Policy

	// Logger, when not nil, receives a debug entry for each phase of the
	// build.
	Logger *logrus.Entry
}

// Script is a source built with the Build function.
type Script struct {
	Tree     *ast.Tree     // parsed tree.
	Analysis *Analysis     // analysis, with the scope of each branch.
	Target   Target        // target the paths have been checked for.
	Paths    []*PathScript // lowered script of each spending path.
}

// Parse parses src and returns its tree. path is used in the errors. If a
// syntax error occurs, it returns a CompilerError with kind InvalidSyntax.
func Parse(src []byte, path string) (*ast.Tree, error) {
	tree, err := compiler.ParseSource(src, path)
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// Analyze analyzes tree, returning at the first error. The returned error is
// a CompilerError.
func Analyze(tree *ast.Tree) (*Analysis, error) {
	analysis, err := compiler.Analyze(tree)
	if err != nil {
		return nil, err
	}
	return analysis, nil
}

// CheckConsensus lowers each spending path of an analyzed tree and checks it
// against the consensus rules of target and against policy. It returns the
// scripts of all the paths and all the violations.
func CheckConsensus(tree *ast.Tree, analysis *Analysis, target Target, policy Policy) ([]*PathScript, ConsensusErrors) {
	return compiler.CheckConsensus(tree, analysis, target, policy)
}

// Build parses, analyzes and checks src.
//
// If parsing or analysis fails, it returns a nil script and a CompilerError.
// If only the consensus check fails, it returns the script together with a
// ConsensusErrors error, so that the scripts of the paths can still be
// inspected.
func Build(src []byte, options *BuildOptions) (*Script, error) {

	if options == nil {
		options = &BuildOptions{}
	}
	log := options.Logger
	if log == nil {
		log = logging.Discard()
	}
	log = log.WithField("path", options.Path)

	tree, err := Parse(src, options.Path)
	if err != nil {
		log.WithError(err).Debug("parsing failed")
		return nil, err
	}
	log.WithField("stacks", len(tree.Stacks)).Debug("parsed")

	analysis, err := Analyze(tree)
	if err != nil {
		log.WithError(err).Debug("analysis failed")
		return nil, err
	}
	log.WithField("branches", len(analysis.Scopes)).Debug("analyzed")

	target := resolveTarget(tree, options)
	policy := DefaultPolicy
	if options.Policy != nil {
		policy = *options.Policy
	}
	paths, errs := CheckConsensus(tree, analysis, target, policy)
	log.WithFields(logrus.Fields{
		"target":     target,
		"branches":   len(paths),
		"violations": len(errs),
	}).Debug("checked consensus")

	script := &Script{Tree: tree, Analysis: analysis, Target: target, Paths: paths}
	if len(errs) > 0 {
		return script, errs
	}
	return script, nil
}

// BuildFile reads the named file and builds it. Sources with a byte order
// mark are decoded. If options.Path is empty, name is used as path.
func BuildFile(name string, options *BuildOptions) (*Script, error) {
	src, err := source.ReadFile(name)
	if err != nil {
		return nil, err
	}
	opts := BuildOptions{}
	if options != nil {
		opts = *options
	}
	if opts.Path == "" {
		opts.Path = name
	}
	return Build(src, &opts)
}

// resolveTarget returns the target of tree.
func resolveTarget(tree *ast.Tree, options *BuildOptions) Target {
	switch {
	case options.Target != nil:
		return *options.Target
	case tree.Pragma.HasTarget():
		return tree.Pragma.Target
	case options.DefaultTarget != nil:
		return *options.DefaultTarget
	}
	return Segwit
}
