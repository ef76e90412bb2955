// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package navigation projects discovered specs into header menus, version
// lists and search results.
package navigation

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"

	"github.com/specportal/specportal/internal/discovery"
	"github.com/specportal/specportal/internal/specpath"
	"github.com/specportal/specportal/internal/util"
	"github.com/specportal/specportal/pkg/types"
)

const (
	// DefaultMaxOperations is how many operations a header entry carries.
	DefaultMaxOperations = 8

	// DefaultSearchLimit caps search results when no limit is given.
	DefaultSearchLimit = 50

	// BadgeLatest marks the highest version directory.
	BadgeLatest = "Latest"

	// BadgeLegacy marks the lowest version directory when there are several.
	BadgeLegacy = "Legacy"
)

// Source supplies specs and version directories.
type Source interface {
	ListSpecs(ctx context.Context, lang, version string) []*discovery.APISpec
	VersionDirectories(ctx context.Context, service, lang string) ([]string, error)
}

// Navigator builds navigation views over a Source.
type Navigator struct {
	source        Source
	maxOperations int
	searchLimit   int
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithMaxOperations sets how many operations a header entry carries.
func WithMaxOperations(n int) Option {
	return func(nav *Navigator) {
		if n > 0 {
			nav.maxOperations = n
		}
	}
}

// WithSearchLimit sets the default number of search hits.
func WithSearchLimit(n int) Option {
	return func(nav *Navigator) {
		if n > 0 {
			nav.searchLimit = n
		}
	}
}

// New creates a Navigator.
func New(source Source, opts ...Option) *Navigator {
	nav := &Navigator{
		source:        source,
		maxOperations: DefaultMaxOperations,
		searchLimit:   DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(nav)
	}
	return nav
}

// NavigationPath returns the portal route of a service's reference page.
func NavigationPath(lang, version, service string) string {
	return "/" + lang + "/api/" + version + "/" + service
}

// VersionLabel returns the localized display label of a version directory.
func VersionLabel(lang, version string) string {
	n, ok := specpath.VersionNumber(version)
	if !ok {
		return version
	}
	if lang == "ar" {
		return "الإصدار " + strconv.Itoa(n)
	}
	return "Version " + strconv.Itoa(n)
}

// Header returns the header menu entries for a language and version,
// one per service with the first operations of each.
func (n *Navigator) Header(ctx context.Context, lang, version string) []types.HeaderSpec {
	specs := n.source.ListSpecs(ctx, lang, version)

	out := make([]types.HeaderSpec, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true

		ops := s.Operations[:min(len(s.Operations), n.maxOperations)]
		out = append(out, types.HeaderSpec{
			ID:             s.ID,
			Title:          s.Title,
			NavigationPath: NavigationPath(lang, version, s.ID),
			ServiceName:    util.HumanizeServiceName(s.ID),
			Operations:     append([]types.Operation{}, ops...),
		})
	}
	return out
}

// Versions lists the v<N> directories of a service, newest first.
// A declared x-version-status overrides the positional badge.
func (n *Navigator) Versions(ctx context.Context, service, lang string) ([]types.VersionInfo, error) {
	dirs, err := n.source.VersionDirectories(ctx, service, lang)
	if err != nil {
		return nil, err
	}

	dirs = slices.Clone(dirs)
	slices.SortFunc(dirs, func(a, b string) int {
		na, _ := specpath.VersionNumber(a)
		nb, _ := specpath.VersionNumber(b)
		if na != nb {
			return nb - na
		}
		return strings.Compare(a, b)
	})

	out := make([]types.VersionInfo, 0, len(dirs))
	for i, dir := range dirs {
		info := types.VersionInfo{
			Version: dir,
			Label:   VersionLabel(lang, dir),
		}

		spec := findSpec(n.source.ListSpecs(ctx, lang, dir), service)
		info.SpecExists = spec != nil

		switch {
		case spec != nil && spec.VersionStatus != "":
			info.Badge = cases.Title(languageTag(lang)).String(spec.VersionStatus)
		case i == 0:
			info.Badge = BadgeLatest
		case i == len(dirs)-1:
			info.Badge = BadgeLegacy
		}
		out = append(out, info)
	}
	return out, nil
}

// LatestVersion returns the highest version directory of a service that
// holds a loadable spec. A service found only in the legacy flat layout
// reports the version its spec was loaded under.
func (n *Navigator) LatestVersion(ctx context.Context, service, lang string) (string, bool) {
	versions, err := n.Versions(ctx, service, lang)
	if err != nil {
		return "", false
	}
	for _, v := range versions {
		if v.SpecExists {
			return v.Version, true
		}
	}

	// No file sits in an empty version directory, so the source answers
	// from the legacy layout.
	if spec := findSpec(n.source.ListSpecs(ctx, lang, ""), service); spec != nil && spec.Legacy {
		return spec.VersionDirectory, true
	}
	return "", false
}

func findSpec(specs []*discovery.APISpec, id string) *discovery.APISpec {
	for _, s := range specs {
		if s.ID == id {
			return s
		}
	}
	return nil
}
