// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package discovery

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/specportal/specportal/internal/logging"
	"github.com/specportal/specportal/internal/openapi"
	"github.com/specportal/specportal/internal/scanner"
	"github.com/specportal/specportal/internal/specpath"
)

// Catalog discovers specs in a read-only content tree and caches the spec
// list of every (language, version directory) key for a TTL.
type Catalog struct {
	fsys    fs.FS
	scanner *scanner.Scanner
	cache   Cache
	clock   Clock
	ttl     time.Duration
	logger  *slog.Logger
	metrics *Metrics

	// generation advances on every Clear; a scan that started in an older
	// generation must not be stored.
	generation atomic.Uint64
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithCache sets the cache backing the catalog.
func WithCache(cache Cache) Option {
	return func(c *Catalog) { c.cache = cache }
}

// WithClock sets the clock used for TTL checks.
func WithClock(clock Clock) Option {
	return func(c *Catalog) { c.clock = clock }
}

// WithTTL sets how long a cached spec list stays fresh.
func WithTTL(ttl time.Duration) Option {
	return func(c *Catalog) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithLogger sets the logger for skip warnings and scan summaries.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) { c.logger = logger }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

// WithScanner sets the scanner used to enumerate the tree.
func WithScanner(s *scanner.Scanner) Option {
	return func(c *Catalog) { c.scanner = s }
}

// New creates a Catalog over fsys.
func New(fsys fs.FS, opts ...Option) *Catalog {
	c := &Catalog{
		fsys:    fsys,
		scanner: scanner.New(scanner.Config{}),
		cache:   NewMemoryCache(),
		clock:   SystemClock{},
		ttl:     DefaultTTL,
		logger:  logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the cache freshness window.
func (c *Catalog) TTL() time.Duration {
	return c.ttl
}

// ListSpecs returns one spec per service for the language and version
// directory. Fresh cache entries are returned without touching the tree.
// When no file matches the versioned layout the legacy flat layout is
// scanned instead; that result is never cached. Failures yield an empty list.
func (c *Catalog) ListSpecs(ctx context.Context, lang, version string) []*APISpec {
	key := Key(lang, version)
	if entry, ok := c.cache.Get(key); ok && c.clock.Now().Sub(entry.Timestamp) < c.ttl {
		c.metrics.recordHit()
		return entry.Specs
	}
	c.metrics.recordMiss()

	gen := c.generation.Load()
	report, err := c.Scan(ctx, lang, version)
	if err != nil {
		c.logger.Error("spec scan failed", "lang", lang, "version", version, "error", err)
		return []*APISpec{}
	}
	c.logSkips(lang, version, report)

	if report.Matched == 0 {
		legacy, err := c.ScanLegacy(ctx, lang)
		if err != nil {
			c.logger.Error("legacy spec scan failed", "lang", lang, "error", err)
			return []*APISpec{}
		}
		c.logSkips(lang, version, legacy)
		return legacy.Loaded
	}

	if c.generation.Load() != gen {
		c.logger.Debug("cache cleared during scan, result not stored", "lang", lang, "version", version)
		return report.Loaded
	}
	c.cache.Put(key, report.Loaded, c.clock.Now())
	return report.Loaded
}

// Spec returns the spec of one service.
func (c *Catalog) Spec(ctx context.Context, service, lang, version string) (*APISpec, bool) {
	for _, s := range c.ListSpecs(ctx, lang, version) {
		if s.ID == service {
			return s, true
		}
	}
	return nil, false
}

// Clear drops every cached spec list.
func (c *Catalog) Clear() {
	c.generation.Add(1)
	c.cache.Clear()
	c.metrics.recordClear()
	c.logger.Info("spec cache cleared")
}

// Scan performs an uncached scan of the versioned layout for one key.
func (c *Catalog) Scan(ctx context.Context, lang, version string) (*ScanReport, error) {
	start := time.Now()

	files, err := c.scanner.Scan(ctx, c.fsys)
	if err != nil {
		c.metrics.recordScan("versioned", nil, time.Since(start))
		return nil, err
	}

	report := &ScanReport{Loaded: []*APISpec{}, Skipped: []Skip{}}
	var groups []*serviceGroup
	byService := make(map[string]*serviceGroup)

	for _, f := range files {
		loc, ok := specpath.Parse(f.Path)
		if !ok {
			if _, legacy := specpath.ParseLegacy(f.Path); legacy {
				continue
			}
			if fileLang, anchored := specpath.LanguageOf(f.Path); anchored && fileLang == lang {
				c.skip(report, f.Path, SkipMalformedPath, "expected <language>/apispecs/<service>/<version>/<file>")
			}
			continue
		}
		if loc.Language != lang || loc.Version != version {
			continue
		}

		report.Matched++
		g, ok := byService[loc.Service]
		if !ok {
			g = &serviceGroup{service: loc.Service}
			byService[loc.Service] = g
			groups = append(groups, g)
		}
		g.files = append(g.files, f)
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			c.metrics.recordScan("versioned", nil, time.Since(start))
			return nil, err
		}
		g.sortByPriority()
		c.loadGroup(report, g, func(doc *openapi.Document, f scanner.SpecFile) *APISpec {
			return newAPISpec(g.service, lang, version, f.Path, doc)
		})
	}

	c.metrics.recordScan("versioned", report, time.Since(start))
	c.logger.Debug("versioned scan complete",
		"lang", lang,
		"version", version,
		"matched", report.Matched,
		"loaded", len(report.Loaded),
		"skipped", len(report.Skipped),
	)

	return report, nil
}

// ScanLegacy performs an uncached scan of the flat layout
// <language>/apispecs/<service>.yaml. Version fields default to the
// document's info.version or DefaultLegacyVersion.
func (c *Catalog) ScanLegacy(ctx context.Context, lang string) (*ScanReport, error) {
	start := time.Now()

	files, err := c.scanner.Scan(ctx, c.fsys)
	if err != nil {
		c.metrics.recordScan("legacy", nil, time.Since(start))
		return nil, err
	}

	report := &ScanReport{Loaded: []*APISpec{}, Skipped: []Skip{}}
	var groups []*serviceGroup
	byService := make(map[string]*serviceGroup)

	for _, f := range files {
		loc, ok := specpath.ParseLegacy(f.Path)
		if !ok || loc.Language != lang {
			continue
		}

		report.Matched++
		g, ok := byService[loc.Service]
		if !ok {
			g = &serviceGroup{service: loc.Service}
			byService[loc.Service] = g
			groups = append(groups, g)
		}
		g.files = append(g.files, f)
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			c.metrics.recordScan("legacy", nil, time.Since(start))
			return nil, err
		}
		c.loadGroup(report, g, func(doc *openapi.Document, f scanner.SpecFile) *APISpec {
			version := doc.Info.Version
			if version == "" {
				version = DefaultLegacyVersion
			}
			spec := newAPISpec(g.service, lang, version, f.Path, doc)
			spec.Legacy = true
			return spec
		})
	}

	c.metrics.recordScan("legacy", report, time.Since(start))
	c.logger.Debug("legacy scan complete",
		"lang", lang,
		"matched", report.Matched,
		"loaded", len(report.Loaded),
		"skipped", len(report.Skipped),
	)

	return report, nil
}

// VersionDirectories returns the distinct v<N> directories holding spec
// files for a service, in discovery order. Files are not parsed.
func (c *Catalog) VersionDirectories(ctx context.Context, service, lang string) ([]string, error) {
	files, err := c.scanner.Scan(ctx, c.fsys)
	if err != nil {
		return nil, err
	}

	var versions []string
	for _, f := range files {
		loc, ok := specpath.Parse(f.Path)
		if !ok || loc.Language != lang || loc.Service != service {
			continue
		}
		if !specpath.IsVersionDirectory(loc.Version) || slices.Contains(versions, loc.Version) {
			continue
		}
		versions = append(versions, loc.Version)
	}
	return versions, nil
}

// loadGroup parses the files of one service in order; the first file that
// parses wins and later files are reported as duplicates.
func (c *Catalog) loadGroup(report *ScanReport, g *serviceGroup, build func(*openapi.Document, scanner.SpecFile) *APISpec) {
	var winner string
	for _, f := range g.files {
		if winner != "" {
			c.skip(report, f.Path, SkipDuplicateService, fmt.Sprintf("service %q already loaded from %s", g.service, winner))
			continue
		}

		data, err := f.Read(c.fsys)
		if err != nil {
			c.skip(report, f.Path, SkipReadFailed, err.Error())
			continue
		}

		doc, err := openapi.Parse(data, languageOf(f.Path))
		if err != nil {
			c.skip(report, f.Path, SkipMalformedDocument, err.Error())
			continue
		}

		report.Loaded = append(report.Loaded, build(doc, f))
		winner = f.Path
	}
}

func (c *Catalog) logSkips(lang, version string, report *ScanReport) {
	if !report.HasSkips() {
		return
	}
	for _, s := range report.Skipped {
		c.logger.Warn("skipping spec file", "lang", lang, "version", version,
			"path", s.Path, "reason", string(s.Reason), "detail", s.Detail)
	}
}

func (c *Catalog) skip(report *ScanReport, path string, reason SkipReason, detail string) {
	report.Skipped = append(report.Skipped, Skip{Path: path, Reason: reason, Detail: detail})
}

func languageOf(path string) string {
	lang, _ := specpath.LanguageOf(path)
	return lang
}

// serviceGroup is the files of one service in one scan.
type serviceGroup struct {
	service string
	files   []scanner.SpecFile
}

// sortByPriority puts openapi.yaml and openapi.yml first, then orders by
// file name.
func (g *serviceGroup) sortByPriority() {
	slices.SortStableFunc(g.files, func(a, b scanner.SpecFile) int {
		if pa, pb := filePriority(a.Name()), filePriority(b.Name()); pa != pb {
			return pa - pb
		}
		return strings.Compare(a.Name(), b.Name())
	})
}

func filePriority(name string) int {
	switch {
	case strings.EqualFold(name, "openapi.yaml"):
		return 0
	case strings.EqualFold(name, "openapi.yml"):
		return 1
	}
	return 2
}
