// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package types provides the data structures served by the documentation portal.
package types

// Methods lists the HTTP methods recognised on an OpenAPI path item, in the
// lower-case form used as path item keys.
var Methods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Operation is one HTTP method and path pair within a spec.
type Operation struct {
	// OperationID is unique within its spec
	OperationID string `json:"operationId" yaml:"operationId"`

	// Method is the upper-case HTTP method
	Method string `json:"method" yaml:"method"`

	// Path is the raw path template (e.g., "/payments/{id}")
	Path string `json:"path" yaml:"path"`

	// Summary is a brief summary, "<METHOD> <path>" when the document has none
	Summary string `json:"summary" yaml:"summary"`

	// Description is a detailed description
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Tags groups the operation
	Tags []string `json:"tags" yaml:"tags"`

	// Deprecated indicates if the operation is deprecated
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`
}

// OperationDetail is an operation together with generated examples.
type OperationDetail struct {
	Operation

	// Parameters are the operation and path-level parameters
	Parameters []ParameterExample `json:"parameters" yaml:"parameters"`

	// RequestContentType is the media type the request example was built from
	RequestContentType string `json:"requestContentType,omitempty" yaml:"requestContentType,omitempty"`

	// RequestExample is the generated request body, nil when there is none
	RequestExample any `json:"requestExample,omitempty" yaml:"requestExample,omitempty"`

	// Responses are the generated response examples, ordered by status
	Responses []ResponseExample `json:"responses" yaml:"responses"`
}

// ParameterExample describes one parameter and its example value.
type ParameterExample struct {
	Name        string `json:"name" yaml:"name"`
	In          string `json:"in" yaml:"in"`
	Required    bool   `json:"required" yaml:"required"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Example     any    `json:"example" yaml:"example"`
}

// ResponseExample describes one response and its example body.
type ResponseExample struct {
	Status      string `json:"status" yaml:"status"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType string `json:"contentType,omitempty" yaml:"contentType,omitempty"`
	Example     any    `json:"example,omitempty" yaml:"example,omitempty"`
}
