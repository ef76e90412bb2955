// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"bytes"
	"fmt"
	"slices"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specportal/specportal/pkg/types"
)

// DiffType represents the type of change detected.
type DiffType string

const (
	// DiffTypeAdded indicates a new item was added.
	DiffTypeAdded DiffType = "added"

	// DiffTypeRemoved indicates an item was removed.
	DiffTypeRemoved DiffType = "removed"

	// DiffTypeModified indicates an item was modified.
	DiffTypeModified DiffType = "modified"
)

// PathChange represents a change to an operation.
type PathChange struct {
	Type        DiffType `json:"type"`
	Path        string   `json:"path"`
	Method      string   `json:"method"`
	Description string   `json:"description"`
}

// SchemaChange represents a change to a component schema.
type SchemaChange struct {
	Type        DiffType `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
}

// DiffResult contains the differences between two versions of a spec.
type DiffResult struct {
	// PathChanges contains all operation changes, ordered by path then method.
	PathChanges []PathChange `json:"pathChanges"`

	// SchemaChanges contains all component schema changes, ordered by name.
	SchemaChanges []SchemaChange `json:"schemaChanges"`

	// HasBreakingChanges indicates if any breaking changes were detected.
	HasBreakingChanges bool `json:"hasBreakingChanges"`

	// Summary provides a human-readable summary of changes.
	Summary string `json:"summary"`
}

// IsEmpty returns true if there are no differences.
func (d *DiffResult) IsEmpty() bool {
	return len(d.PathChanges) == 0 && len(d.SchemaChanges) == 0
}

// Differ compares two documents, typically two version directories of one service.
type Differ struct{}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{}
}

// Diff compares an older document a with a newer document b.
func (d *Differ) Diff(a, b *Document) *DiffResult {
	result := &DiffResult{
		PathChanges:   []PathChange{},
		SchemaChanges: []SchemaChange{},
	}

	d.diffOperations(operationsOf(a), operationsOf(b), result)
	d.diffSchemas(a, b, result)

	sort.SliceStable(result.PathChanges, func(i, j int) bool {
		ci, cj := result.PathChanges[i], result.PathChanges[j]
		if ci.Path != cj.Path {
			return ci.Path < cj.Path
		}
		return ci.Method < cj.Method
	})
	sort.SliceStable(result.SchemaChanges, func(i, j int) bool {
		return result.SchemaChanges[i].Name < result.SchemaChanges[j].Name
	})

	result.HasBreakingChanges = d.detectBreakingChanges(result)
	result.Summary = d.generateSummary(result)

	return result
}

func operationsOf(doc *Document) []types.Operation {
	if doc == nil {
		return nil
	}
	return doc.Operations
}

// diffOperations matches operations by method and path.
func (d *Differ) diffOperations(a, b []types.Operation, result *DiffResult) {
	key := func(op types.Operation) string { return op.Method + " " + op.Path }

	bOps := make(map[string]types.Operation, len(b))
	for _, op := range b {
		bOps[key(op)] = op
	}
	aOps := make(map[string]types.Operation, len(a))
	for _, op := range a {
		aOps[key(op)] = op
	}

	for _, aOp := range a {
		bOp, exists := bOps[key(aOp)]
		switch {
		case !exists:
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeRemoved,
				Path:        aOp.Path,
				Method:      aOp.Method,
				Description: fmt.Sprintf("Removed %s %s", aOp.Method, aOp.Path),
			})
		case d.operationModified(aOp, bOp):
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeModified,
				Path:        aOp.Path,
				Method:      aOp.Method,
				Description: fmt.Sprintf("Modified %s %s", aOp.Method, aOp.Path),
			})
		}
	}

	for _, bOp := range b {
		if _, exists := aOps[key(bOp)]; !exists {
			result.PathChanges = append(result.PathChanges, PathChange{
				Type:        DiffTypeAdded,
				Path:        bOp.Path,
				Method:      bOp.Method,
				Description: fmt.Sprintf("Added %s %s", bOp.Method, bOp.Path),
			})
		}
	}
}

// operationModified checks if an operation was modified.
func (d *Differ) operationModified(a, b types.Operation) bool {
	return a.Summary != b.Summary ||
		a.Description != b.Description ||
		a.OperationID != b.OperationID ||
		a.Deprecated != b.Deprecated ||
		!slices.Equal(a.Tags, b.Tags)
}

// diffSchemas compares components.schemas by name; a schema is modified when
// its serialized form differs.
func (d *Differ) diffSchemas(a, b *Document, result *DiffResult) {
	aSchemas := componentSchemas(a)
	bSchemas := componentSchemas(b)

	for name, aNode := range aSchemas {
		bNode, exists := bSchemas[name]
		if !exists {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeRemoved,
				Name:        name,
				Description: fmt.Sprintf("Removed schema: %s", name),
			})
		} else if !sameNode(aNode, bNode) {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeModified,
				Name:        name,
				Description: fmt.Sprintf("Modified schema: %s", name),
			})
		}
	}

	for name := range bSchemas {
		if _, exists := aSchemas[name]; !exists {
			result.SchemaChanges = append(result.SchemaChanges, SchemaChange{
				Type:        DiffTypeAdded,
				Name:        name,
				Description: fmt.Sprintf("Added schema: %s", name),
			})
		}
	}
}

func componentSchemas(doc *Document) map[string]*yaml.Node {
	out := make(map[string]*yaml.Node)
	if doc == nil {
		return out
	}
	schemas := deref(lookup(lookup(doc.root, "components"), "schemas"))
	if schemas == nil || schemas.Kind != yaml.MappingNode {
		return out
	}
	for i := 0; i+1 < len(schemas.Content); i += 2 {
		out[schemas.Content[i].Value] = schemas.Content[i+1]
	}
	return out
}

func sameNode(a, b *yaml.Node) bool {
	ab, errA := yaml.Marshal(a)
	bb, errB := yaml.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}

// Filter returns a copy of result without the changes ignore matches.
// Operation changes are matched by path, schema changes by name. Breaking
// status and summary are recomputed.
func (d *Differ) Filter(result *DiffResult, ignore func(name string) bool) *DiffResult {
	filtered := &DiffResult{
		PathChanges:   make([]PathChange, 0, len(result.PathChanges)),
		SchemaChanges: make([]SchemaChange, 0, len(result.SchemaChanges)),
	}
	for _, c := range result.PathChanges {
		if !ignore(c.Path) {
			filtered.PathChanges = append(filtered.PathChanges, c)
		}
	}
	for _, c := range result.SchemaChanges {
		if !ignore(c.Name) {
			filtered.SchemaChanges = append(filtered.SchemaChanges, c)
		}
	}
	filtered.HasBreakingChanges = d.detectBreakingChanges(filtered)
	filtered.Summary = d.generateSummary(filtered)
	return filtered
}

// detectBreakingChanges reports removed operations or schemas.
func (d *Differ) detectBreakingChanges(result *DiffResult) bool {
	for _, change := range result.PathChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
	}

	for _, change := range result.SchemaChanges {
		if change.Type == DiffTypeRemoved {
			return true
		}
	}

	return false
}

// generateSummary creates a human-readable summary of changes.
func (d *Differ) generateSummary(result *DiffResult) string {
	if result.IsEmpty() {
		return "No changes detected"
	}

	pathCounts := make(map[DiffType]int)
	for _, c := range result.PathChanges {
		pathCounts[c.Type]++
	}
	schemaCounts := make(map[DiffType]int)
	for _, c := range result.SchemaChanges {
		schemaCounts[c.Type]++
	}

	var parts []string
	for _, p := range []struct {
		n     int
		label string
	}{
		{pathCounts[DiffTypeAdded], "operation(s) added"},
		{pathCounts[DiffTypeRemoved], "operation(s) removed"},
		{pathCounts[DiffTypeModified], "operation(s) modified"},
		{schemaCounts[DiffTypeAdded], "schema(s) added"},
		{schemaCounts[DiffTypeRemoved], "schema(s) removed"},
		{schemaCounts[DiffTypeModified], "schema(s) modified"},
	} {
		if p.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", p.n, p.label))
		}
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(parts, ", "))
	if result.HasBreakingChanges {
		sb.WriteString(" [BREAKING CHANGES DETECTED]")
	}

	return sb.String()
}

// FormatDiff returns a formatted string representation of the diff.
func FormatDiff(result *DiffResult) string {
	if result.IsEmpty() {
		return "No differences found."
	}

	var sb strings.Builder

	sb.WriteString("=== OpenAPI Diff ===\n\n")
	sb.WriteString(result.Summary)
	sb.WriteString("\n\n")

	if len(result.PathChanges) > 0 {
		sb.WriteString("--- Operation Changes ---\n")
		for _, c := range result.PathChanges {
			sb.WriteString(fmt.Sprintf("%s%s %s\n", changeSymbol(c.Type), c.Method, c.Path))
		}
		sb.WriteString("\n")
	}

	if len(result.SchemaChanges) > 0 {
		sb.WriteString("--- Schema Changes ---\n")
		for _, c := range result.SchemaChanges {
			sb.WriteString(fmt.Sprintf("%s%s\n", changeSymbol(c.Type), c.Name))
		}
	}

	return sb.String()
}

func changeSymbol(t DiffType) string {
	switch t {
	case DiffTypeAdded:
		return "+ "
	case DiffTypeRemoved:
		return "- "
	case DiffTypeModified:
		return "~ "
	}
	return "  "
}
