// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/bithoven-lang/bithoven"
	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/internal/cache"
	"github.com/bithoven-lang/bithoven/internal/config"
	"github.com/bithoven-lang/bithoven/internal/logging"
	"github.com/bithoven-lang/bithoven/internal/report"
	"github.com/bithoven-lang/bithoven/internal/source"
)

// session holds the configuration shared by the files checked by a command.
type session struct {
	format        string
	target        *bithoven.Target // nil if the pragmas decide.
	defaultTarget bithoven.Target
	policy        bithoven.Policy
	log           *logrus.Logger
	cache         *cache.Cache // nil if disabled.
}

// newSession returns a session configured by the configuration file and by
// the flags f. The flags take precedence. If useCache is false, the verdict
// cache is not opened even if it is configured.
func newSession(f *flags, useCache bool) (*session, error) {
	conf, err := config.Load(f.config)
	if err != nil {
		return nil, err
	}
	if f.format != "" {
		conf.Report.Format = f.format
	}
	if f.cache != "" {
		conf.Cache = f.cache
	}
	if !isReportFormat(conf.Report.Format) {
		return nil, fmt.Errorf("invalid format %q", conf.Report.Format)
	}
	s := &session{
		format: conf.Report.Format,
		policy: bithoven.Policy{MinimalPush: conf.MinimalPush()},
	}
	s.defaultTarget, err = conf.DefaultTarget()
	if err != nil {
		return nil, err
	}
	if f.target != "" {
		target, err := ast.ParseTarget(f.target)
		if err != nil {
			return nil, err
		}
		s.target = &target
	}
	s.log, err = logging.New(errWriter, conf.Log.Level, conf.Log.Format)
	if err != nil {
		return nil, err
	}
	if useCache && conf.Cache != "" {
		s.cache, err = cache.Open(conf.Cache)
		if err != nil {
			return nil, err
		}
		s.log.WithField("cache", conf.Cache).Debug("cache opened")
	}
	return s, nil
}

func isReportFormat(format string) bool {
	for _, f := range report.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Close closes the verdict cache, if open.
func (s *session) Close() error {
	return s.cache.Close()
}

// buildOptions returns the options to build the source at path. If target
// is not nil, it overrides the target of the session.
func (s *session) buildOptions(path string, target *bithoven.Target) *bithoven.BuildOptions {
	if target == nil {
		target = s.target
	}
	return &bithoven.BuildOptions{
		Path:          path,
		Target:        target,
		DefaultTarget: &s.defaultTarget,
		Policy:        &s.policy,
		Logger:        logrus.NewEntry(s.log),
	}
}

// targetOf returns the target tree is checked for.
func (s *session) targetOf(tree *ast.Tree) bithoven.Target {
	switch {
	case s.target != nil:
		return *s.target
	case tree.Pragma.HasTarget():
		return tree.Pragma.Target
	}
	return s.defaultTarget
}

// check checks the named file and returns its report. The returned error is
// not nil only if the file or the cache cannot be read or written; the
// errors in the source are reported as diagnostics.
func (s *session) check(name string) (*report.File, error) {
	src, err := source.ReadFile(name)
	if err != nil {
		return nil, err
	}
	file := &report.File{Path: name, Source: src}
	tree, err := bithoven.Parse(src, name)
	if err != nil {
		file.Diagnostics = report.Diagnostics(name, err)
		return file, nil
	}
	target := s.targetOf(tree)
	var key []byte
	if s.cache != nil {
		key = cache.Key(target, s.policy, src)
		diagnostics, ok, err := s.cache.Get(key)
		if err != nil {
			return nil, err
		}
		if ok {
			s.log.WithFields(logrus.Fields{"path": name, "target": target}).Info("cache hit")
			for i := range diagnostics {
				diagnostics[i].Path = name
			}
			file.Diagnostics = diagnostics
			return file, nil
		}
	}
	_, err = bithoven.Build(src, s.buildOptions(name, &target))
	file.Diagnostics = report.Diagnostics(name, err)
	if s.cache != nil {
		if err := s.cache.Put(key, file.Diagnostics); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// checkAll checks the named files. failed reports whether any file has a
// diagnostic.
func (s *session) checkAll(names []string) (files []*report.File, failed bool, err error) {
	files = make([]*report.File, 0, len(names))
	for _, name := range names {
		file, err := s.check(name)
		if err != nil {
			return nil, false, err
		}
		if len(file.Diagnostics) > 0 {
			failed = true
		}
		files = append(files, file)
	}
	return files, failed, nil
}

// write writes the report of files.
func (s *session) write(files []*report.File) error {
	return report.Write(outWriter, s.format, files)
}

// watch checks the files and then checks again each file reported as
// changed by w, until ctx is done.
func (s *session) watch(ctx context.Context, w *sourceWatcher, names []string) error {
	files, _, err := s.checkAll(names)
	if err != nil {
		return err
	}
	if err := s.write(files); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case name := <-w.Changed():
			log := s.log.WithField("path", name)
			log.Info("changed")
			file, err := s.check(name)
			if err != nil {
				log.WithError(err).Error("check failed")
				continue
			}
			if err := s.write([]*report.File{file}); err != nil {
				return err
			}
		case err := <-w.Errors:
			s.log.WithError(err).Warn("watcher error")
		}
	}
}
