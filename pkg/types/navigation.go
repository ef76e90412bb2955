// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package types

// SpecSummary is the list view of a discovered spec.
type SpecSummary struct {
	ID               string `json:"id" yaml:"id"`
	Title            string `json:"title" yaml:"title"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	Language         string `json:"language" yaml:"language"`
	VersionDirectory string `json:"versionDirectory" yaml:"versionDirectory"`
	DeclaredVersion  string `json:"declaredVersion" yaml:"declaredVersion"`
	VersionStatus    string `json:"versionStatus,omitempty" yaml:"versionStatus,omitempty"`
	Legacy           bool   `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	OperationCount   int    `json:"operationCount" yaml:"operationCount"`
}

// HeaderSpec is the compact header navigation view of a spec.
type HeaderSpec struct {
	ID             string      `json:"id" yaml:"id"`
	Title          string      `json:"title" yaml:"title"`
	NavigationPath string      `json:"navigationPath" yaml:"navigationPath"`
	ServiceName    string      `json:"serviceName" yaml:"serviceName"`
	Operations     []Operation `json:"operations" yaml:"operations"`
}

// VersionInfo describes one version directory of a service.
type VersionInfo struct {
	// Version is the directory name (e.g., "v2")
	Version string `json:"version" yaml:"version"`

	// Label is the localized display label
	Label string `json:"label" yaml:"label"`

	// Badge is "Latest", "Legacy", a declared x-version-status, or empty
	Badge string `json:"badge,omitempty" yaml:"badge,omitempty"`

	// SpecExists reports whether a valid spec was loaded from the directory
	SpecExists bool `json:"specExists" yaml:"specExists"`
}

// SearchHit is one operation matched by a search query.
type SearchHit struct {
	SpecID         string    `json:"specId" yaml:"specId"`
	SpecTitle      string    `json:"specTitle" yaml:"specTitle"`
	NavigationPath string    `json:"navigationPath" yaml:"navigationPath"`
	Operation      Operation `json:"operation" yaml:"operation"`
}
