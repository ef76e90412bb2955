// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/specportal/specportal/pkg/types"
)

// Fixed example values used for formatted strings.
const (
	ExampleEmail    = "user@example.com"
	ExampleDateTime = "2024-01-01T00:00:00Z"
	ExampleDate     = "2024-01-01"
	ExampleString   = "string"
)

// MaxExampleDepth bounds example recursion.
const MaxExampleDepth = 32

// ResolvePointer walks a local reference of the form "#/a/b/c" through the
// document. It returns nil when any segment is missing or the reference is
// not local.
func (d *Document) ResolvePointer(ref string) *yaml.Node {
	if ref == "#" {
		return d.root
	}
	if !strings.HasPrefix(ref, "#/") {
		return nil
	}

	n := d.root
	for _, seg := range strings.Split(ref[2:], "/") {
		seg = strings.NewReplacer("~1", "/", "~0", "~").Replace(seg)
		n = deref(n)
		if n == nil {
			return nil
		}
		switch n.Kind {
		case yaml.MappingNode:
			n = lookup(n, seg)
		case yaml.SequenceNode:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(n.Content) {
				return nil
			}
			n = n.Content[idx]
		default:
			return nil
		}
		if n == nil {
			return nil
		}
	}
	return deref(n)
}

// Resolve follows a single $ref hop. Non-reference schemas are returned
// unchanged; an unresolvable reference yields nil.
func (d *Document) Resolve(s Schema) Schema {
	ref, ok := s.(*RefSchema)
	if !ok {
		return s
	}
	return DecodeSchema(d.ResolvePointer(ref.Ref))
}

// Example synthesizes a representative value for the schema. Missing
// references produce nil rather than an error, and a reference that is
// already being expanded further up the chain also produces nil.
func (d *Document) Example(s Schema) any {
	g := exampleGenerator{doc: d, active: make(map[string]bool)}
	return g.example(s, 0)
}

type exampleGenerator struct {
	doc    *Document
	active map[string]bool
}

func (g *exampleGenerator) example(s Schema, depth int) any {
	if s == nil || depth > MaxExampleDepth {
		return nil
	}

	meta := s.Meta()
	if meta.HasExample {
		return meta.Example
	}

	switch v := s.(type) {
	case *RefSchema:
		if g.active[v.Ref] {
			return nil
		}
		g.active[v.Ref] = true
		defer delete(g.active, v.Ref)
		return g.example(g.doc.Resolve(v), depth+1)

	case *StringSchema:
		switch v.Format {
		case "email":
			return ExampleEmail
		case "date-time":
			return ExampleDateTime
		case "date":
			return ExampleDate
		}
		if len(v.Enum) > 0 {
			return v.Enum[0]
		}
		return ExampleString

	case *NumberSchema:
		if meta.HasDefault {
			return meta.Default
		}
		return 0

	case *BooleanSchema:
		if meta.HasDefault {
			return meta.Default
		}
		return false

	case *ArraySchema:
		if v.Items == nil {
			return []any{}
		}
		return []any{g.example(v.Items, depth+1)}

	case *ObjectSchema:
		out := make(map[string]any, len(v.Properties))
		for _, p := range v.Properties {
			out[p.Name] = g.example(p.Schema, depth+1)
		}
		return out
	}

	return nil
}

// OperationDetail builds parameter, request and response examples for an
// operation. It returns false when the operation does not exist.
func (d *Document) OperationDetail(id string) (types.OperationDetail, bool) {
	op, ok := d.Operation(id)
	if !ok {
		return types.OperationDetail{}, false
	}
	loc := d.ops[op.OperationID]

	detail := types.OperationDetail{
		Operation:  op,
		Parameters: d.parameters(loc),
		Responses:  []types.ResponseExample{},
	}

	if body := d.resolveObject(lookup(loc.op, "requestBody")); body != nil {
		detail.RequestContentType, detail.RequestExample = d.mediaExample(lookup(body, "content"))
	}

	responses := deref(lookup(loc.op, "responses"))
	if responses != nil && responses.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(responses.Content); i += 2 {
			resp := d.resolveObject(responses.Content[i+1])
			if resp == nil {
				continue
			}
			ct, ex := d.mediaExample(lookup(resp, "content"))
			detail.Responses = append(detail.Responses, types.ResponseExample{
				Status:      responses.Content[i].Value,
				Description: scalar(lookup(resp, "description")),
				ContentType: ct,
				Example:     ex,
			})
		}
	}
	sort.SliceStable(detail.Responses, func(i, j int) bool {
		return statusLess(detail.Responses[i].Status, detail.Responses[j].Status)
	})

	return detail, true
}

// parameters merges path-level and operation-level parameters; an
// operation-level parameter replaces a path-level one with the same name and
// location.
func (d *Document) parameters(loc operationNode) []types.ParameterExample {
	out := []types.ParameterExample{}
	index := make(map[string]int)

	for _, list := range []*yaml.Node{lookup(loc.pathItem, "parameters"), lookup(loc.op, "parameters")} {
		list = deref(list)
		if list == nil || list.Kind != yaml.SequenceNode {
			continue
		}
		for _, raw := range list.Content {
			p := d.resolveObject(raw)
			if p == nil {
				continue
			}
			param := types.ParameterExample{
				Name:        scalar(lookup(p, "name")),
				In:          scalar(lookup(p, "in")),
				Required:    scalar(lookup(p, "required")) == "true",
				Description: scalar(lookup(p, "description")),
				Example:     d.valueExample(p),
			}
			key := param.In + ":" + param.Name
			if i, exists := index[key]; exists {
				out[i] = param
				continue
			}
			index[key] = len(out)
			out = append(out, param)
		}
	}
	return out
}

// mediaExample picks application/json, else the first media type, and
// returns its example.
func (d *Document) mediaExample(content *yaml.Node) (string, any) {
	content = deref(content)
	if content == nil || content.Kind != yaml.MappingNode || len(content.Content) < 2 {
		return "", nil
	}

	ct, media := content.Content[0].Value, content.Content[1]
	if jsonMedia := lookup(content, "application/json"); jsonMedia != nil {
		ct, media = "application/json", jsonMedia
	}
	return ct, d.valueExample(deref(media))
}

// valueExample reads the example of a parameter or media type object:
// explicit example, then the first named example, then the schema.
func (d *Document) valueExample(n *yaml.Node) any {
	if ex := lookup(n, "example"); ex != nil {
		return nodeValue(ex)
	}
	if examples := deref(lookup(n, "examples")); examples != nil && examples.Kind == yaml.MappingNode && len(examples.Content) >= 2 {
		if first := d.resolveObject(examples.Content[1]); first != nil {
			if v := lookup(first, "value"); v != nil {
				return nodeValue(v)
			}
		}
	}
	return d.Example(DecodeSchema(lookup(n, "schema")))
}

// resolveObject follows $ref chains on non-schema objects (parameters,
// request bodies, responses, examples).
func (d *Document) resolveObject(n *yaml.Node) *yaml.Node {
	n = deref(n)
	seen := make(map[string]bool)
	for n != nil && n.Kind == yaml.MappingNode {
		ref := scalar(lookup(n, "$ref"))
		if ref == "" {
			return n
		}
		if seen[ref] {
			return nil
		}
		seen[ref] = true
		n = d.ResolvePointer(ref)
	}
	return nil
}

// statusLess orders numeric status codes first, then ranges like 4XX, then default.
func statusLess(a, b string) bool {
	rank := func(s string) int {
		if s == "default" {
			return 2
		}
		if _, err := strconv.Atoi(s); err == nil {
			return 0
		}
		return 1
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra < rb
	}
	return a < b
}
