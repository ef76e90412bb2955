// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package specpath parses content-tree paths of OpenAPI spec files.
//
// Two layouts are recognised:
//
//	.../<language>/apispecs/<service>/<version>/<file>.yaml   (versioned)
//	.../<language>/apispecs/<file>.yaml                       (legacy flat)
//
// Paths are split into segments and matched by arity; nothing is inferred
// from partial matches.
package specpath

import (
	"path"
	"strconv"
	"strings"
)

// Root is the directory segment that anchors both layouts.
const Root = "apispecs"

// Location is a parsed versioned spec path.
type Location struct {
	// Language is the segment immediately before "apispecs"
	Language string

	// Service is the service directory name
	Service string

	// Version is the version directory name, accepted as-is
	Version string

	// FileName is the base name of the spec file
	FileName string
}

// LegacyLocation is a parsed legacy flat-layout spec path.
type LegacyLocation struct {
	// Language is the segment immediately before "apispecs"
	Language string

	// Service is the file name without its extension
	Service string

	// FileName is the base name of the spec file
	FileName string
}

// Parse parses a versioned spec path. It returns false when the path does
// not have exactly service, version and file segments after "apispecs" or
// lacks a language segment before it.
func Parse(p string) (Location, bool) {
	before, after, ok := split(p)
	if !ok || len(after) != 3 {
		return Location{}, false
	}
	return Location{
		Language: before[len(before)-1],
		Service:  after[0],
		Version:  after[1],
		FileName: after[2],
	}, true
}

// ParseLegacy parses a legacy flat-layout spec path.
func ParseLegacy(p string) (LegacyLocation, bool) {
	before, after, ok := split(p)
	if !ok || len(after) != 1 {
		return LegacyLocation{}, false
	}
	name := after[0]
	service := strings.TrimSuffix(name, path.Ext(name))
	if service == "" {
		return LegacyLocation{}, false
	}
	return LegacyLocation{
		Language: before[len(before)-1],
		Service:  service,
		FileName: name,
	}, true
}

// LanguageOf returns the language segment of any spec file path under
// "apispecs", whatever the number of segments after it.
func LanguageOf(p string) (string, bool) {
	before, after, ok := split(p)
	if !ok || len(after) == 0 {
		return "", false
	}
	return before[len(before)-1], true
}

// IsSpecFile reports whether the name carries a YAML extension.
func IsSpecFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// IsVersionDirectory reports whether name has the shape v<digits>.
func IsVersionDirectory(name string) bool {
	_, ok := VersionNumber(name)
	return ok
}

// VersionNumber returns N for a v<N> directory name.
func VersionNumber(name string) (int, bool) {
	if len(name) < 2 || name[0] != 'v' {
		return 0, false
	}
	digits := name[1:]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// split returns the segments before and after the last "apispecs" segment.
func split(p string) (before, after []string, ok bool) {
	p = strings.ReplaceAll(p, "\\", "/")
	if !IsSpecFile(p) {
		return nil, nil, false
	}

	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s == "" || s == "." {
			continue
		}
		segments = append(segments, s)
	}

	idx := -1
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == Root {
			idx = i
			break
		}
	}
	if idx < 1 {
		return nil, nil, false
	}
	for _, s := range segments[idx+1:] {
		if s == ".." {
			return nil, nil, false
		}
	}
	return segments[:idx], segments[idx+1:], true
}
