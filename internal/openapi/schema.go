// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"gopkg.in/yaml.v3"
)

// Schema is a decoded schema node. The concrete type is one of *RefSchema,
// *StringSchema, *NumberSchema, *BooleanSchema, *ArraySchema, *ObjectSchema
// or *UnknownSchema.
type Schema interface {
	Meta() *SchemaMeta
}

// SchemaMeta holds the keywords shared by every schema variant.
type SchemaMeta struct {
	Description string

	// Example is the explicit example value; HasExample distinguishes an
	// explicit null example from an absent one.
	Example    any
	HasExample bool

	Default    any
	HasDefault bool
}

// Meta implements Schema.
func (m *SchemaMeta) Meta() *SchemaMeta { return m }

// RefSchema is a $ref pointer.
type RefSchema struct {
	SchemaMeta
	Ref string
}

// StringSchema is a schema of type string.
type StringSchema struct {
	SchemaMeta
	Format string
	Enum   []any
}

// NumberSchema is a schema of type number or integer.
type NumberSchema struct {
	SchemaMeta
	Integer bool
	Format  string
}

// BooleanSchema is a schema of type boolean.
type BooleanSchema struct {
	SchemaMeta
}

// ArraySchema is a schema of type array. Items is nil when not declared.
type ArraySchema struct {
	SchemaMeta
	Items Schema
}

// Property is a named property of an object schema.
type Property struct {
	Name   string
	Schema Schema
}

// ObjectSchema is a schema of type object. Properties keep document order.
type ObjectSchema struct {
	SchemaMeta
	Properties []Property
	Required   []string
}

// UnknownSchema is a schema with an absent or unsupported type.
type UnknownSchema struct {
	SchemaMeta
	Type string
}

// DecodeSchema converts a YAML schema node into its typed variant.
// It returns nil when the node is not a mapping.
func DecodeSchema(n *yaml.Node) Schema {
	n = deref(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil
	}

	meta := SchemaMeta{Description: scalar(lookup(n, "description"))}
	if ex := lookup(n, "example"); ex != nil {
		meta.Example = nodeValue(ex)
		meta.HasExample = true
	}
	if def := lookup(n, "default"); def != nil {
		meta.Default = nodeValue(def)
		meta.HasDefault = true
	}

	if ref := scalar(lookup(n, "$ref")); ref != "" {
		return &RefSchema{SchemaMeta: meta, Ref: ref}
	}

	typ := schemaType(lookup(n, "type"))
	switch typ {
	case "string":
		s := &StringSchema{SchemaMeta: meta, Format: scalar(lookup(n, "format"))}
		if enum := deref(lookup(n, "enum")); enum != nil && enum.Kind == yaml.SequenceNode {
			for _, v := range enum.Content {
				s.Enum = append(s.Enum, nodeValue(v))
			}
		}
		return s
	case "number", "integer":
		return &NumberSchema{SchemaMeta: meta, Integer: typ == "integer", Format: scalar(lookup(n, "format"))}
	case "boolean":
		return &BooleanSchema{SchemaMeta: meta}
	case "array":
		return &ArraySchema{SchemaMeta: meta, Items: DecodeSchema(lookup(n, "items"))}
	case "object":
		o := &ObjectSchema{SchemaMeta: meta, Required: scalarList(lookup(n, "required"))}
		if props := deref(lookup(n, "properties")); props != nil && props.Kind == yaml.MappingNode {
			for i := 0; i+1 < len(props.Content); i += 2 {
				o.Properties = append(o.Properties, Property{
					Name:   props.Content[i].Value,
					Schema: DecodeSchema(props.Content[i+1]),
				})
			}
		}
		return o
	default:
		return &UnknownSchema{SchemaMeta: meta, Type: typ}
	}
}

// schemaType returns the declared type. A type list picks its first
// non-null entry.
func schemaType(n *yaml.Node) string {
	n = deref(n)
	if n == nil {
		return ""
	}
	if n.Kind == yaml.SequenceNode {
		for _, item := range n.Content {
			if t := scalar(item); t != "" && t != "null" {
				return t
			}
		}
		return ""
	}
	return scalar(n)
}
