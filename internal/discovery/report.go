// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package discovery

// SkipReason explains why a file did not produce a spec.
type SkipReason string

const (
	// SkipMalformedPath marks a file under apispecs that fits neither layout.
	SkipMalformedPath SkipReason = "malformed-path"

	// SkipMalformedDocument marks a file that is not YAML or has no info block.
	SkipMalformedDocument SkipReason = "malformed-document"

	// SkipDuplicateService marks a file whose service was already loaded.
	SkipDuplicateService SkipReason = "duplicate-service"

	// SkipReadFailed marks a file that could not be read.
	SkipReadFailed SkipReason = "read-failed"
)

// Skip records one file that was passed over during a scan.
type Skip struct {
	Path   string     `json:"path"`
	Reason SkipReason `json:"reason"`
	Detail string     `json:"detail,omitempty"`
}

// ScanReport is the outcome of one uncached scan.
type ScanReport struct {
	// Loaded holds one spec per service, in discovery order
	Loaded []*APISpec `json:"loaded"`

	// Skipped holds every file that produced no spec
	Skipped []Skip `json:"skipped"`

	// Matched counts the files whose path fit the requested layout and key
	Matched int `json:"matched"`
}

// HasSkips reports whether any file was passed over.
func (r *ScanReport) HasSkips() bool {
	return len(r.Skipped) > 0
}

// SkipsByReason groups skipped files by reason.
func (r *ScanReport) SkipsByReason() map[SkipReason][]Skip {
	out := make(map[SkipReason][]Skip)
	for _, s := range r.Skipped {
		out[s.Reason] = append(out[s.Reason], s)
	}
	return out
}
