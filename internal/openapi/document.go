// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi parses OpenAPI documents, extracts their operations and
// synthesizes example values from their schemas.
package openapi

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/specportal/specportal/internal/util"
	"github.com/specportal/specportal/pkg/types"
)

var (
	// ErrInvalidYAML is returned when the document is not a YAML mapping.
	ErrInvalidYAML = errors.New("invalid YAML document")

	// ErrMissingInfo is returned when the document has no truthy info block.
	ErrMissingInfo = errors.New("document has no info block")
)

// VersionStatusKey is the extension that overrides positional version badges.
const VersionStatusKey = "x-version-status"

// Info is the metadata block of a document.
type Info struct {
	Title       string
	Description string
	Version     string
}

// Document is a parsed OpenAPI document.
// The parsed YAML tree is retained for reference resolution and re-serialization.
type Document struct {
	// Language is the content language the document was loaded for
	Language string

	// OpenAPI is the declared openapi (or swagger) version
	OpenAPI string

	// Info is the document's info block
	Info Info

	// VersionStatus is the x-version-status extension, empty when absent
	VersionStatus string

	// Operations are sorted by summary
	Operations []types.Operation

	root *yaml.Node
	ops  map[string]operationNode
}

// operationNode locates an operation inside the YAML tree.
type operationNode struct {
	pathItem *yaml.Node
	op       *yaml.Node
}

// Parse parses raw YAML text into a Document. lang selects the collation
// used to sort operations by summary.
func Parse(data []byte, lang string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	body := deref(&root)
	if body == nil || body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: root is not a mapping", ErrInvalidYAML)
	}

	infoNode := lookup(body, "info")
	if !truthy(infoNode) {
		return nil, ErrMissingInfo
	}

	doc := &Document{
		Language: lang,
		OpenAPI:  scalar(lookup(body, "openapi")),
		root:     body,
		ops:      make(map[string]operationNode),
	}
	if doc.OpenAPI == "" {
		doc.OpenAPI = scalar(lookup(body, "swagger"))
	}

	if info := deref(infoNode); info.Kind == yaml.MappingNode {
		doc.Info = Info{
			Title:       scalar(lookup(info, "title")),
			Description: scalar(lookup(info, "description")),
			Version:     scalar(lookup(info, "version")),
		}
		doc.VersionStatus = scalar(lookup(info, VersionStatusKey))
	}
	if status := scalar(lookup(body, VersionStatusKey)); status != "" {
		doc.VersionStatus = status
	}

	doc.Operations = doc.extractOperations()
	SortOperations(doc.Operations, lang)

	return doc, nil
}

// Root returns the document's root mapping node.
func (d *Document) Root() *yaml.Node {
	return d.root
}

// Raw returns the document as generic values suitable for JSON encoding.
func (d *Document) Raw() map[string]any {
	raw, _ := nodeValue(d.root).(map[string]any)
	return raw
}

// Operation returns the operation with the given id.
func (d *Document) Operation(id string) (types.Operation, bool) {
	for _, op := range d.Operations {
		if op.OperationID == id {
			return op, true
		}
	}
	return types.Operation{}, false
}

// extractOperations walks paths in document order and builds one operation
// per recognised method key.
func (d *Document) extractOperations() []types.Operation {
	paths := deref(lookup(d.root, "paths"))
	if paths == nil || paths.Kind != yaml.MappingNode {
		return []types.Operation{}
	}

	ops := []types.Operation{}
	for i := 0; i+1 < len(paths.Content); i += 2 {
		path := paths.Content[i].Value
		item := deref(paths.Content[i+1])
		if item == nil || item.Kind != yaml.MappingNode {
			continue
		}

		for j := 0; j+1 < len(item.Content); j += 2 {
			method := item.Content[j].Value
			if !slices.Contains(types.Methods, method) {
				continue
			}
			opNode := deref(item.Content[j+1])
			if opNode != nil && opNode.Kind != yaml.MappingNode && !isNull(opNode) {
				continue
			}

			op := types.Operation{
				OperationID: scalar(lookup(opNode, "operationId")),
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     scalar(lookup(opNode, "summary")),
				Description: scalar(lookup(opNode, "description")),
				Tags:        scalarList(lookup(opNode, "tags")),
				Deprecated:  scalar(lookup(opNode, "deprecated")) == "true",
			}
			if op.OperationID == "" {
				op.OperationID = SynthesizeOperationID(method, path)
			}
			op.OperationID = d.uniqueID(op.OperationID)
			if op.Summary == "" {
				op.Summary = op.Method + " " + path
			}

			d.ops[op.OperationID] = operationNode{pathItem: item, op: opNode}
			ops = append(ops, op)
		}
	}
	return ops
}

// uniqueID suffixes id with _2, _3... until it is unused in the document.
func (d *Document) uniqueID(id string) string {
	if _, taken := d.ops[id]; !taken {
		return id
	}
	for n := 2; ; n++ {
		candidate := id + "_" + strconv.Itoa(n)
		if _, taken := d.ops[candidate]; !taken {
			return candidate
		}
	}
}

// SynthesizeOperationID builds an operation id from a method and path template.
// For example: ("get", "/users/{id}/orders") returns "get_users_id_orders".
func SynthesizeOperationID(method, path string) string {
	return strings.ToLower(method) + "_" + util.SanitizeIdentifier(path)
}

// SortOperations sorts operations by summary using the collation of lang.
// The sort is stable so equal summaries keep discovery order.
func SortOperations(ops []types.Operation, lang string) {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	col := collate.New(tag)
	slices.SortStableFunc(ops, func(a, b types.Operation) int {
		return col.CompareString(a.Summary, b.Summary)
	})
}

// deref unwraps document and alias nodes.
func deref(n *yaml.Node) *yaml.Node {
	for n != nil {
		switch n.Kind {
		case yaml.DocumentNode:
			if len(n.Content) == 0 {
				return nil
			}
			n = n.Content[0]
		case yaml.AliasNode:
			n = n.Alias
		default:
			return n
		}
	}
	return nil
}

// lookup returns the value node for key in a mapping node. Keys written
// on the mapping win over keys pulled in through "<<" merges, and earlier
// entries of a merge sequence win over later ones.
func lookup(n *yaml.Node, key string) *yaml.Node {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if isMergeKey(n.Content[i]) {
			merges = append(merges, n.Content[i+1])
			continue
		}
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	for _, m := range merges {
		for _, source := range mergeSources(m) {
			if v := lookup(source, key); v != nil {
				return v
			}
		}
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Tag == "!!merge" || (n.Kind == yaml.ScalarNode && n.Value == "<<" && n.Style == 0)
}

// mergeSources returns the mappings named by a merge value: a single
// mapping or a sequence of them.
func mergeSources(n *yaml.Node) []*yaml.Node {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		return []*yaml.Node{n}
	case yaml.SequenceNode:
		var out []*yaml.Node
		for _, item := range n.Content {
			if item = deref(item); item != nil && item.Kind == yaml.MappingNode {
				out = append(out, item)
			}
		}
		return out
	}
	return nil
}

// scalar returns the text of a scalar node, empty for anything else.
func scalar(n *yaml.Node) string {
	n = deref(n)
	if n == nil || n.Kind != yaml.ScalarNode || isNull(n) {
		return ""
	}
	return n.Value
}

func scalarList(n *yaml.Node) []string {
	out := []string{}
	n = deref(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return out
	}
	for _, item := range n.Content {
		if s := scalar(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

// truthy mirrors the truthiness of a loosely typed value: null, false, zero
// and the empty string are false, collections are always true.
func truthy(n *yaml.Node) bool {
	n = deref(n)
	if n == nil {
		return false
	}
	if n.Kind != yaml.ScalarNode {
		return true
	}
	switch n.ShortTag() {
	case "!!null":
		return false
	case "!!bool":
		return n.Value == "true"
	case "!!int", "!!float":
		f, err := strconv.ParseFloat(strings.ReplaceAll(n.Value, "_", ""), 64)
		return err != nil || f != 0
	default:
		return n.Value != ""
	}
}

// nodeValue converts a node into generic values. Mapping keys are always
// strings so the result can be encoded as JSON.
func nodeValue(n *yaml.Node) any {
	n = deref(n)
	if n == nil {
		return nil
	}
	switch n.Kind {
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i]
			if isMergeKey(key) {
				merges = append(merges, n.Content[i+1])
				continue
			}
			m[key.Value] = nodeValue(n.Content[i+1])
		}
		for _, merge := range merges {
			for _, source := range mergeSources(merge) {
				merged, _ := nodeValue(source).(map[string]any)
				for k, v := range merged {
					if _, exists := m[k]; !exists {
						m[k] = v
					}
				}
			}
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			s = append(s, nodeValue(item))
		}
		return s
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return n.Value
		}
		return v
	}
}
