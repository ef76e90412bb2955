// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package discovery

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for discovery. A nil *Metrics records nothing.
type Metrics struct {
	hits         prometheus.Counter
	misses       prometheus.Counter
	scans        *prometheus.CounterVec
	loaded       prometheus.Counter
	skipped      *prometheus.CounterVec
	scanDuration prometheus.Histogram
	clears       prometheus.Counter
}

// NewMetrics creates discovery metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "cache_hits_total",
			Help:      "Total number of spec list cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "cache_misses_total",
			Help:      "Total number of spec list cache misses",
		}),
		scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "scans_total",
			Help:      "Total number of content tree scans",
		}, []string{"layout"}),
		loaded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "specs_loaded_total",
			Help:      "Total number of spec files loaded",
		}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "files_skipped_total",
			Help:      "Total number of spec files skipped",
		}, []string{"reason"}),
		scanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "scan_duration_seconds",
			Help:      "Content tree scan duration",
			Buckets:   prometheus.DefBuckets,
		}),
		clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "specportal",
			Subsystem: "discovery",
			Name:      "cache_clears_total",
			Help:      "Total number of cache resets",
		}),
	}

	for _, c := range []prometheus.Collector{m.hits, m.misses, m.scans, m.loaded, m.skipped, m.scanDuration, m.clears} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) recordHit() {
	if m != nil {
		m.hits.Inc()
	}
}

func (m *Metrics) recordMiss() {
	if m != nil {
		m.misses.Inc()
	}
}

func (m *Metrics) recordClear() {
	if m != nil {
		m.clears.Inc()
	}
}

// recordScan records the outcome of one scan of the given layout.
func (m *Metrics) recordScan(layout string, report *ScanReport, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scans.WithLabelValues(layout).Inc()
	m.scanDuration.Observe(elapsed.Seconds())
	if report == nil {
		return
	}
	m.loaded.Add(float64(len(report.Loaded)))
	for reason, skips := range report.SkipsByReason() {
		m.skipped.WithLabelValues(string(reason)).Add(float64(len(skips)))
	}
}
