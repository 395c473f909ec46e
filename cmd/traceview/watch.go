// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 200 * time.Millisecond

// watch runs the inputs once and again after every change to a matching file until ctx is done.
// Failed runs are logged and do not stop watching.
func (a *app) watch(ctx context.Context, patterns []string) error {
	if slices.Contains(patterns, stdinName) {
		return errors.New("stdin can't be watched")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	for _, dir := range watchDirs(patterns) {
		if err := w.Add(dir); err != nil {
			return err
		}
		a.Debugf("watching '%s'", dir)
	}

	a.rerun(ctx, patterns)

	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Chmod) || !matchesAny(patterns, ev.Name) {
				continue
			}
			a.Debugf("%s '%s'", ev.Op, ev.Name)
			fire = time.After(watchDebounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.Warningf("watch: %v", err)
		case <-fire:
			fire = nil
			a.rerun(ctx, patterns)
		}
	}
}

func (a *app) rerun(ctx context.Context, patterns []string) {
	if err := a.run(ctx, patterns); err != nil {
		a.Error(err)
	}
}

// watchDirs returns the directories holding the inputs: the static prefix of
// a glob pattern or the parent of a plain path. Patterns with "**" add the
// subdirectories existing at call time.
func watchDirs(patterns []string) []string {
	var dirs []string
	add := func(dir string) {
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}

	for _, p := range patterns {
		if !isGlob(p) {
			add(filepath.Dir(p))
			continue
		}

		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		dir := filepath.FromSlash(base)
		add(dir)

		if !strings.Contains(p, "**") {
			continue
		}
		_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err == nil && d.IsDir() {
				add(path)
			}
			return nil
		})
	}
	return dirs
}

func matchesAny(patterns []string, name string) bool {
	name = filepath.Clean(name)

	for _, p := range patterns {
		if !isGlob(p) {
			if filepath.Clean(p) == name {
				return true
			}
			continue
		}
		if ok, _ := doublestar.PathMatch(filepath.Clean(p), name); ok {
			return true
		}
	}
	return false
}
