// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultIncludePatterns match every YAML file in the tree.
var DefaultIncludePatterns = []string{"**/*.yaml", "**/*.yml"}

// Config holds scanner configuration.
type Config struct {
	// IncludePatterns are glob patterns for files to include (e.g., "**/apispecs/**")
	IncludePatterns []string

	// ExcludePatterns are glob patterns for files to exclude (e.g., "drafts/**")
	ExcludePatterns []string

	// Extensions filters files by extension.
	// If empty, ".yaml" and ".yml" are accepted
	Extensions []string
}

// Scanner discovers spec files in a content tree.
type Scanner struct {
	config Config
}

// New creates a new Scanner with the given configuration.
func New(config Config) *Scanner {
	if len(config.IncludePatterns) == 0 {
		config.IncludePatterns = DefaultIncludePatterns
	}

	return &Scanner{
		config: config,
	}
}

// Scan discovers all spec files in fsys in lexical walk order.
func (s *Scanner) Scan(ctx context.Context, fsys fs.FS) ([]SpecFile, error) {
	return s.ScanPath(ctx, fsys, ".")
}

// ScanPath scans a file or directory of fsys for spec files.
func (s *Scanner) ScanPath(ctx context.Context, fsys fs.FS, root string) ([]SpecFile, error) {
	root = cleanPath(root)

	info, err := fs.Stat(fsys, root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("path does not exist: %s", root)
		}
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		if s.Matches(root) {
			return []SpecFile{{Path: root, Size: info.Size(), ModTime: info.ModTime()}}, nil
		}
		return nil, nil
	}

	var files []SpecFile
	err = fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Skip inaccessible paths
			return nil
		}

		if d.IsDir() {
			if s.shouldExcludeDir(p) {
				return fs.SkipDir
			}
			return nil
		}

		if !s.Matches(p) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		files = append(files, SpecFile{
			Path:    p,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return files, nil
}

// Matches reports whether a slash-separated path passes the extension,
// exclude and include filters.
func (s *Scanner) Matches(p string) bool {
	p = cleanPath(p)

	if len(s.config.Extensions) > 0 {
		ext := strings.ToLower(path.Ext(p))
		found := false
		for _, e := range s.config.Extensions {
			if strings.ToLower(e) == ext {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	} else if !IsSupportedFile(p) {
		return false
	}

	// Check exclude patterns first
	if matchesPatterns(p, s.config.ExcludePatterns) {
		return false
	}

	return matchesPatterns(p, s.config.IncludePatterns)
}

// shouldExcludeDir checks if a directory should be excluded.
func (s *Scanner) shouldExcludeDir(relPath string) bool {
	if relPath == "" || relPath == "." {
		return false
	}

	for _, pattern := range s.config.ExcludePatterns {
		// "drafts" matches "drafts/**"
		dirPattern := strings.TrimSuffix(pattern, "/**")
		dirPattern = strings.TrimSuffix(dirPattern, "/*")

		if relPath == dirPattern {
			return true
		}

		matched, _ := doublestar.Match(pattern, relPath+"/dummy.yaml")
		if matched {
			return true
		}
	}

	return false
}

// matchesPatterns checks if a path matches any of the given patterns.
func matchesPatterns(p string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, p)
		if err != nil {
			// Invalid pattern, skip
			continue
		}
		if matched {
			return true
		}
	}
	return false
}

func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")
	if p == "" {
		return "."
	}
	return p
}
