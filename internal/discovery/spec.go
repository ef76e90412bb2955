// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package discovery finds, parses and caches the OpenAPI specs of a content
// tree, keyed by language and version directory.
package discovery

import (
	"github.com/specportal/specportal/internal/openapi"
	"github.com/specportal/specportal/pkg/types"
)

// DefaultLegacyVersion is used for legacy specs that declare no info.version.
const DefaultLegacyVersion = "1.0.0"

// APISpec is one parsed spec file of a service.
type APISpec struct {
	// ID is the service identifier taken from the directory (or legacy file) name
	ID string `json:"id"`

	// Language is the content language segment of the path
	Language string `json:"language"`

	// VersionDirectory is the version segment of the path
	VersionDirectory string `json:"versionDirectory"`

	// DeclaredVersion is the document's own info.version
	DeclaredVersion string `json:"declaredVersion"`

	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	VersionStatus string `json:"versionStatus,omitempty"`

	// SourcePath is the path of the file relative to the content root
	SourcePath string `json:"sourcePath"`

	// Legacy is set for specs loaded from the flat layout
	Legacy bool `json:"legacy,omitempty"`

	// Operations are sorted by summary
	Operations []types.Operation `json:"operations"`

	// Document is the parsed tree, retained for reference resolution
	Document *openapi.Document `json:"-"`
}

// Summary returns the list view of the spec.
func (s *APISpec) Summary() types.SpecSummary {
	return types.SpecSummary{
		ID:               s.ID,
		Title:            s.Title,
		Description:      s.Description,
		Language:         s.Language,
		VersionDirectory: s.VersionDirectory,
		DeclaredVersion:  s.DeclaredVersion,
		VersionStatus:    s.VersionStatus,
		Legacy:           s.Legacy,
		OperationCount:   len(s.Operations),
	}
}

func newAPISpec(id, lang, versionDir, source string, doc *openapi.Document) *APISpec {
	title := doc.Info.Title
	if title == "" {
		title = id
	}
	return &APISpec{
		ID:               id,
		Language:         lang,
		VersionDirectory: versionDir,
		DeclaredVersion:  doc.Info.Version,
		Title:            title,
		Description:      doc.Info.Description,
		VersionStatus:    doc.VersionStatus,
		SourcePath:       source,
		Operations:       doc.Operations,
		Document:         doc,
	}
}
