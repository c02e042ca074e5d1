// Copyright 2020 The Scriggo Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// sourceWatcher watches source files and reports the written ones.
type sourceWatcher struct {
	watcher *fsnotify.Watcher
	changed chan string
	done    chan struct{}
	Errors  chan error

	sync.Mutex
	watched map[string]bool
}

func newSourceWatcher() (*sourceWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &sourceWatcher{
		watcher: watcher,
		changed: make(chan string),
		done:    make(chan struct{}),
		Errors:  make(chan error),
		watched: map[string]bool{},
	}
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&fsnotify.Write == fsnotify.Write {
					select {
					case w.changed <- event.Name:
					case <-w.done:
						return
					}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				select {
				case w.Errors <- err:
				case <-w.done:
					return
				}
			}
		}
	}()
	return w, nil
}

// Changed returns the channel of the names of the written files.
func (w *sourceWatcher) Changed() chan string {
	return w.changed
}

// Add starts watching the named file.
func (w *sourceWatcher) Add(name string) error {
	w.Lock()
	defer w.Unlock()
	if w.watched[name] {
		return nil
	}
	err := w.watcher.Add(name)
	if err != nil {
		return err
	}
	w.watched[name] = true
	return nil
}

func (w *sourceWatcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
