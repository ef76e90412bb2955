// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package scanner enumerates spec files in a content tree.
package scanner

import (
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"
)

// SpecFile is a candidate spec file found in the content tree.
// Content is not read during enumeration.
type SpecFile struct {
	// Path is the slash-separated path relative to the tree root
	Path string

	// Size is the file size in bytes
	Size int64

	// ModTime is the last modification time
	ModTime time.Time
}

// Name returns the base name of the file.
func (f SpecFile) Name() string {
	return path.Base(f.Path)
}

// Read reads the file content from fsys.
func (f SpecFile) Read(fsys fs.FS) ([]byte, error) {
	data, err := fs.ReadFile(fsys, f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.Path, err)
	}
	return data, nil
}

// specExtensions are the extensions of files that can hold a spec.
var specExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// IsSupportedFile checks if a file path has a spec file extension.
func IsSupportedFile(p string) bool {
	return specExtensions[strings.ToLower(path.Ext(p))]
}
