// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package watch reports changes to the content tree.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specportal/specportal/internal/logging"
	"github.com/specportal/specportal/internal/scanner"
)

// DefaultDebounce is the quiet period after the last event before onChange runs.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a directory tree and calls onChange once events settle.
type Watcher struct {
	root     string
	onChange func()
	debounce time.Duration
	logger   *slog.Logger
	filter   func(rel string) bool
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period. Non-positive values are ignored.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter limits file events to paths, relative to the root and
// slash-separated, for which match returns true. Directory events always pass.
func WithFilter(match func(rel string) bool) Option {
	return func(w *Watcher) { w.filter = match }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New starts watching every directory under root. Run must be called to
// deliver changes and release the underlying watcher.
func New(root string, onChange func(), opts ...Option) (*Watcher, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to stat content root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content root %s is not a directory", root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	w := &Watcher{
		root:     root,
		onChange: onChange,
		debounce: DefaultDebounce,
		logger:   logging.Discard(),
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Run delivers debounced changes until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("content changed", "path", event.Name, "op", event.Op.String())
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			w.logger.Info("content tree changed, clearing spec cache")
			w.onChange()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// relevant drops chmod-only events and files no scan would read.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	if hidden(filepath.Base(event.Name)) {
		return false
	}
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			return true
		}
	}
	// removed or renamed directories have no extension either
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		return filepath.Ext(event.Name) == "" || w.matches(event.Name)
	}
	return w.matches(event.Name)
}

func (w *Watcher) matches(name string) bool {
	if !scanner.IsSupportedFile(name) {
		return false
	}
	if w.filter == nil {
		return true
	}
	rel, err := filepath.Rel(w.root, name)
	if err != nil {
		return false
	}
	return w.filter(filepath.ToSlash(rel))
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && hidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
