// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package discovery

import (
	"context"
	"bytes"
	"errors"
	"io/fs"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/fstest"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specportal/specportal/internal/logging"
	"github.com/specportal/specportal/internal/scanner"
)

// countingFS counts every Open, which is the only way the catalog reaches
// the tree.
type countingFS struct {
	fs.FS
	opens atomic.Int64
}

func (c *countingFS) Open(name string) (fs.File, error) {
	c.opens.Add(1)
	return c.FS.Open(name)
}

// pausingFS blocks the first Open of one file until release is closed,
// after signalling on opened.
type pausingFS struct {
	fs.FS
	target  string
	paused  atomic.Bool
	opened  chan struct{}
	release chan struct{}
}

func (p *pausingFS) Open(name string) (fs.File, error) {
	f, err := p.FS.Open(name)
	if name == p.target && p.paused.CompareAndSwap(false, true) {
		close(p.opened)
		<-p.release
	}
	return f, err
}

// failingFS fails reads of one file.
type failingFS struct {
	fs.FS
	fail string
}

func (f failingFS) Open(name string) (fs.File, error) {
	if name == f.fail {
		return nil, errors.New("permission denied")
	}
	return f.FS.Open(name)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func spec(title string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("openapi: 3.0.3\ninfo:\n  title: " + title + "\n  version: 2.0.0\npaths:\n  /ping:\n    get:\n      summary: Ping\n")}
}

func contentTree() fstest.MapFS {
	return fstest.MapFS{
		"en/apispecs/payment-api/v2/payment.yaml":   spec("Payment API"),
		"en/apispecs/payment-api/v2/duplicate.yaml": spec("Payment API"),
		"en/apispecs/kyc-api/v2/openapi.yaml":       spec("KYC API"),
		"en/apispecs/kyc-api/v1/openapi.yaml":       spec("KYC API v1"),
		"en/apispecs/payment-api/file.yaml":         spec("Misplaced"),
		"ar/apispecs/payment-api/v2/openapi.yaml":   spec("واجهة الدفع"),
		"en/docs/guide.yaml":                        spec("Not a spec"),
	}
}

func ids(specs []*APISpec) []string {
	out := make([]string, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.ID)
	}
	return out
}

func TestCatalog_ListSpecs_OnePerService(t *testing.T) {
	catalog := New(contentTree())

	specs := catalog.ListSpecs(context.Background(), "en", "v2")

	assert.Equal(t, []string{"kyc-api", "payment-api"}, ids(specs))
	for _, s := range specs {
		assert.Equal(t, "en", s.Language)
		assert.Equal(t, "v2", s.VersionDirectory)
		assert.Equal(t, "2.0.0", s.DeclaredVersion)
		assert.False(t, s.Legacy)
		assert.NotNil(t, s.Document)
		require.Len(t, s.Operations, 1)
		assert.Equal(t, "get_ping", s.Operations[0].OperationID)
	}
}

func TestCatalog_Scan_DuplicateServiceFirstFileWins(t *testing.T) {
	catalog := New(contentTree())

	report, err := catalog.Scan(context.Background(), "en", "v2")
	require.NoError(t, err)

	require.Len(t, report.Loaded, 2)
	payment := report.Loaded[1]
	assert.Equal(t, "Payment API", payment.Title)
	assert.Equal(t, "en/apispecs/payment-api/v2/duplicate.yaml", payment.SourcePath)
	assert.Equal(t, 3, report.Matched)

	skips := report.SkipsByReason()
	require.Len(t, skips[SkipDuplicateService], 1)
	assert.Equal(t, "en/apispecs/payment-api/v2/payment.yaml", skips[SkipDuplicateService][0].Path)
	assert.Contains(t, skips[SkipDuplicateService][0].Detail, "duplicate.yaml")
}

func TestCatalog_Scan_WrongSegmentCountIsExcluded(t *testing.T) {
	catalog := New(contentTree())

	report, err := catalog.Scan(context.Background(), "en", "v2")
	require.NoError(t, err)

	for _, s := range report.Loaded {
		assert.NotEqual(t, "en/apispecs/payment-api/file.yaml", s.SourcePath)
	}
	malformed := report.SkipsByReason()[SkipMalformedPath]
	require.Len(t, malformed, 1)
	assert.Equal(t, "en/apispecs/payment-api/file.yaml", malformed[0].Path)

	arReport, err := catalog.Scan(context.Background(), "ar", "v2")
	require.NoError(t, err)
	assert.False(t, arReport.HasSkips())
}

func TestCatalog_Scan_FilePriority(t *testing.T) {
	tree := fstest.MapFS{
		"en/apispecs/svc/v1/a.yaml":       spec("A"),
		"en/apispecs/svc/v1/openapi.yml":  spec("YML"),
		"en/apispecs/svc/v1/openapi.yaml": spec("YAML"),
	}

	report, err := New(tree).Scan(context.Background(), "en", "v1")
	require.NoError(t, err)

	require.Len(t, report.Loaded, 1)
	assert.Equal(t, "YAML", report.Loaded[0].Title)
	assert.Len(t, report.Skipped, 2)

	delete(tree, "en/apispecs/svc/v1/openapi.yaml")
	report, err = New(tree).Scan(context.Background(), "en", "v1")
	require.NoError(t, err)
	assert.Equal(t, "YML", report.Loaded[0].Title)
}

func TestCatalog_Scan_MalformedDocumentFallsThrough(t *testing.T) {
	tree := fstest.MapFS{
		"en/apispecs/svc/v1/openapi.yaml": {Data: []byte("openapi: 3.0.3\npaths: {}\n")},
		"en/apispecs/svc/v1/spec.yaml":    spec("Recovered"),
		"en/apispecs/bad/v1/openapi.yaml": {Data: []byte("info: [unclosed")},
	}

	report, err := New(tree).Scan(context.Background(), "en", "v1")
	require.NoError(t, err)

	assert.Equal(t, []string{"svc"}, ids(report.Loaded))
	assert.Equal(t, "Recovered", report.Loaded[0].Title)
	assert.Len(t, report.SkipsByReason()[SkipMalformedDocument], 2)
}

func TestCatalog_Scan_ReadFailure(t *testing.T) {
	tree := failingFS{
		FS: fstest.MapFS{
			"en/apispecs/svc/v1/openapi.yaml": spec("Unreadable"),
			"en/apispecs/svc/v1/spec.yaml":    spec("Readable"),
		},
		fail: "en/apispecs/svc/v1/openapi.yaml",
	}

	report, err := New(tree).Scan(context.Background(), "en", "v1")
	require.NoError(t, err)

	require.Len(t, report.Loaded, 1)
	assert.Equal(t, "Readable", report.Loaded[0].Title)
	assert.Len(t, report.SkipsByReason()[SkipReadFailed], 1)
}

func TestCatalog_ListSpecs_TitleFallsBackToServiceID(t *testing.T) {
	tree := fstest.MapFS{
		"en/apispecs/notify/v1/openapi.yaml": {Data: []byte("info:\n  version: 1.0.0\n")},
	}

	specs := New(tree).ListSpecs(context.Background(), "en", "v1")
	require.Len(t, specs, 1)
	assert.Equal(t, "notify", specs[0].Title)
	assert.Empty(t, specs[0].Operations)
}

func TestCatalog_ListSpecs_CachedWithinTTL(t *testing.T) {
	fsys := &countingFS{FS: contentTree()}
	clock := newFakeClock()
	catalog := New(fsys, WithClock(clock))

	first := catalog.ListSpecs(context.Background(), "en", "v2")
	opens := fsys.opens.Load()
	require.Positive(t, opens)

	clock.Advance(DefaultTTL - time.Second)
	second := catalog.ListSpecs(context.Background(), "en", "v2")

	assert.Equal(t, opens, fsys.opens.Load())
	assert.Equal(t, first, second)
	assert.Same(t, first[0], second[0])
}

func TestCatalog_ListSpecs_RescansAfterTTL(t *testing.T) {
	fsys := &countingFS{FS: contentTree()}
	clock := newFakeClock()
	catalog := New(fsys, WithClock(clock))

	catalog.ListSpecs(context.Background(), "en", "v2")
	opens := fsys.opens.Load()

	clock.Advance(DefaultTTL)
	catalog.ListSpecs(context.Background(), "en", "v2")

	assert.Greater(t, fsys.opens.Load(), opens)
}

func TestCatalog_ListSpecs_CustomTTL(t *testing.T) {
	fsys := &countingFS{FS: contentTree()}
	clock := newFakeClock()
	catalog := New(fsys, WithClock(clock), WithTTL(time.Second))
	assert.Equal(t, time.Second, catalog.TTL())

	catalog.ListSpecs(context.Background(), "en", "v2")
	opens := fsys.opens.Load()

	clock.Advance(2 * time.Second)
	catalog.ListSpecs(context.Background(), "en", "v2")
	assert.Greater(t, fsys.opens.Load(), opens)
}

func TestCatalog_ListSpecs_KeysAreIndependent(t *testing.T) {
	cache := NewMemoryCache()
	catalog := New(contentTree(), WithCache(cache))

	assert.Equal(t, []string{"kyc-api", "payment-api"}, ids(catalog.ListSpecs(context.Background(), "en", "v2")))
	assert.Equal(t, []string{"kyc-api"}, ids(catalog.ListSpecs(context.Background(), "en", "v1")))
	assert.Equal(t, []string{"payment-api"}, ids(catalog.ListSpecs(context.Background(), "ar", "v2")))
	assert.Equal(t, 3, cache.Len())

	entry, ok := cache.Get(Key("ar", "v2"))
	require.True(t, ok)
	assert.Equal(t, "واجهة الدفع", entry.Specs[0].Title)
}

func TestCatalog_Clear(t *testing.T) {
	fsys := &countingFS{FS: contentTree()}
	cache := NewMemoryCache()
	catalog := New(fsys, WithCache(cache))

	catalog.ListSpecs(context.Background(), "en", "v2")
	catalog.ListSpecs(context.Background(), "en", "v1")
	require.Equal(t, 2, cache.Len())
	opens := fsys.opens.Load()

	catalog.Clear()
	assert.Equal(t, 0, cache.Len())

	catalog.ListSpecs(context.Background(), "en", "v2")
	assert.Greater(t, fsys.opens.Load(), opens)
}

func TestCatalog_ClearDuringScanIsNotUndone(t *testing.T) {
	const path = "en/apispecs/payment-api/v2/openapi.yaml"
	tree := fstest.MapFS{path: spec("Old Title")}
	fsys := &pausingFS{FS: tree, target: path, opened: make(chan struct{}), release: make(chan struct{})}
	cache := NewMemoryCache()
	catalog := New(fsys, WithCache(cache))

	done := make(chan []*APISpec, 1)
	go func() { done <- catalog.ListSpecs(context.Background(), "en", "v2") }()

	<-fsys.opened
	tree[path] = spec("New Title")
	catalog.Clear()
	close(fsys.release)

	stale := <-done
	require.Len(t, stale, 1)
	assert.Equal(t, "Old Title", stale[0].Title)
	assert.Equal(t, 0, cache.Len())

	specs := catalog.ListSpecs(context.Background(), "en", "v2")
	require.Len(t, specs, 1)
	assert.Equal(t, "New Title", specs[0].Title)
	assert.Equal(t, 1, cache.Len())
}

func TestCatalog_ListSpecs_LogsEachSkipOnce(t *testing.T) {
	var buf bytes.Buffer
	catalog := New(contentTree(), WithLogger(logging.NewWithWriter(&buf, "discovery", "debug", "text")))

	catalog.ListSpecs(context.Background(), "en", "v2")

	// payment.yaml loses to duplicate.yaml, file.yaml fits no layout
	assert.Equal(t, 1, strings.Count(buf.String(), "path=en/apispecs/payment-api/v2/payment.yaml"))
	assert.Equal(t, 1, strings.Count(buf.String(), "path=en/apispecs/payment-api/file.yaml"))
	assert.Equal(t, 2, strings.Count(buf.String(), "skipping spec file"))
}

func TestCatalog_ListSpecs_LegacyFallback(t *testing.T) {
	tree := fstest.MapFS{
		"en/apispecs/payments.yaml":     {Data: []byte("info:\n  title: Payments\n  version: 2.3.0\n")},
		"en/apispecs/accounts.yml":      {Data: []byte("info:\n  title: Accounts\n")},
		"en/apispecs/broken.yaml":       {Data: []byte("openapi: 3.0.3\n")},
		"ar/apispecs/payments.yaml":     {Data: []byte("info:\n  title: المدفوعات\n")},
		"en/apispecs/kyc-api/v1/a.yaml": spec("KYC"),
	}
	cache := NewMemoryCache()
	catalog := New(tree, WithCache(cache))

	specs := catalog.ListSpecs(context.Background(), "en", "v3")

	require.Len(t, specs, 2)
	assert.Equal(t, "accounts", specs[0].ID)
	assert.Equal(t, DefaultLegacyVersion, specs[0].VersionDirectory)
	assert.Equal(t, DefaultLegacyVersion, specs[0].DeclaredVersion)
	assert.True(t, specs[0].Legacy)
	assert.Equal(t, "payments", specs[1].ID)
	assert.Equal(t, "2.3.0", specs[1].VersionDirectory)
	assert.Equal(t, 0, cache.Len())

	report, err := catalog.ScanLegacy(context.Background(), "en")
	require.NoError(t, err)
	assert.Equal(t, 3, report.Matched)
	assert.Len(t, report.SkipsByReason()[SkipMalformedDocument], 1)
}

func TestCatalog_ListSpecs_LegacyNotUsedWhenVersionedMatches(t *testing.T) {
	tree := fstest.MapFS{
		"en/apispecs/payments.yaml":       {Data: []byte("info:\n  title: Payments\n")},
		"en/apispecs/bad/v1/openapi.yaml": {Data: []byte("openapi: 3.0.3\n")},
	}

	specs := New(tree).ListSpecs(context.Background(), "en", "v1")
	assert.Empty(t, specs)
}

func TestCatalog_ListSpecs_CancelledScanNotCached(t *testing.T) {
	cache := NewMemoryCache()
	catalog := New(contentTree(), WithCache(cache))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Empty(t, catalog.ListSpecs(ctx, "en", "v2"))
	assert.Equal(t, 0, cache.Len())
}

func TestCatalog_ListSpecs_EmptyTree(t *testing.T) {
	catalog := New(fstest.MapFS{}, WithScanner(scanner.New(scanner.Config{IncludePatterns: []string{"content/**"}})))
	assert.Empty(t, catalog.ListSpecs(context.Background(), "en", "v1"))
}

func TestCatalog_Spec(t *testing.T) {
	catalog := New(contentTree())

	s, ok := catalog.Spec(context.Background(), "kyc-api", "en", "v1")
	require.True(t, ok)
	assert.Equal(t, "KYC API v1", s.Title)

	_, ok = catalog.Spec(context.Background(), "missing", "en", "v1")
	assert.False(t, ok)
}

func TestCatalog_VersionDirectories(t *testing.T) {
	tree := contentTree()
	tree["en/apispecs/kyc-api/beta/openapi.yaml"] = spec("Beta")
	tree["en/apispecs/kyc-api/v10/openapi.yaml"] = spec("Ten")

	versions, err := New(tree).VersionDirectories(context.Background(), "kyc-api", "en")
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v10", "v2"}, versions)
}

func TestCatalog_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	require.NoError(t, err)

	catalog := New(contentTree(), WithMetrics(metrics))
	catalog.ListSpecs(context.Background(), "en", "v2")
	catalog.ListSpecs(context.Background(), "en", "v2")
	catalog.Clear()

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.hits))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.misses))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.loaded))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.scans.WithLabelValues("versioned")))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.skipped.WithLabelValues(string(SkipDuplicateService))))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.skipped.WithLabelValues(string(SkipMalformedPath))))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.clears))

	_, err = NewMetrics(reg)
	assert.Error(t, err)
}

func TestAPISpec_Summary(t *testing.T) {
	specs := New(contentTree()).ListSpecs(context.Background(), "en", "v2")
	require.NotEmpty(t, specs)

	summary := specs[0].Summary()
	assert.Equal(t, "kyc-api", summary.ID)
	assert.Equal(t, "KYC API", summary.Title)
	assert.Equal(t, "v2", summary.VersionDirectory)
	assert.Equal(t, 1, summary.OperationCount)
}
