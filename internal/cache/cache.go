// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cache stores the verdicts of checked sources, so that an unchanged
// source is not checked again.
package cache

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/bithoven-lang/bithoven/ast"
	"github.com/bithoven-lang/bithoven/internal/compiler"
	"github.com/bithoven-lang/bithoven/internal/report"
)

var bucketVerdicts = []byte("verdicts")

// Cache is a verdict cache stored in a bbolt database.
type Cache struct {
	db *bolt.DB
}

// Open opens the cache at path, creating it if it does not exist.
func Open(path string) (*Cache, error) {
	if path == "" {
		return nil, fmt.Errorf("cache: path required")
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("cache: open bbolt: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketVerdicts)
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("cache: create bucket %s: %w", bucketVerdicts, err)
	}
	return &Cache{db: db}, nil
}

// Close closes the cache.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Key returns the key of the verdict of src checked for target with policy
// by the current version of the language.
func Key(target ast.Target, policy compiler.Policy, src []byte) []byte {
	return versionKey(compiler.LanguageVersion, target, policy, src)
}

// versionKey is like Key but for the given language version.
func versionKey(version string, target ast.Target, policy compiler.Policy, src []byte) []byte {
	h := sha256.New()
	h.Write([]byte(version))
	h.Write([]byte{0})
	h.Write([]byte(target.String()))
	h.Write([]byte{0})
	if policy.MinimalPush {
		h.Write([]byte{1})
	} else {
		h.Write([]byte{0})
	}
	h.Write(src)
	return h.Sum(nil)
}

// Get returns the diagnostics stored with key. The boolean result reports
// whether the key is present.
func (c *Cache) Get(key []byte) ([]report.Diagnostic, bool, error) {
	var diagnostics []report.Diagnostic
	var found bool
	err := c.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketVerdicts).Get(key)
		if v == nil {
			return nil
		}
		found = true
		return json.Unmarshal(v, &diagnostics)
	})
	if err != nil {
		return nil, false, fmt.Errorf("cache: %w", err)
	}
	if found && diagnostics == nil {
		diagnostics = []report.Diagnostic{}
	}
	return diagnostics, found, nil
}

// Put stores diagnostics with key.
func (c *Cache) Put(key []byte, diagnostics []report.Diagnostic) error {
	if diagnostics == nil {
		diagnostics = []report.Diagnostic{}
	}
	v, err := json.Marshal(diagnostics)
	if err != nil {
		return err
	}
	return c.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketVerdicts).Put(key, v)
	})
}
