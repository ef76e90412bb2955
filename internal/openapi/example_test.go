// SPDX-FileCopyrightText: 2026 specportal
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const exampleSpec = `
openapi: 3.0.3
info:
  title: Accounts
  version: 1.0.0
paths:
  /accounts/{accountId}:
    parameters:
      - $ref: '#/components/parameters/AccountId'
      - name: trace
        in: header
        schema:
          type: string
    put:
      operationId: updateAccount
      parameters:
        - name: trace
          in: header
          example: abc-123
        - name: dryRun
          in: query
          schema:
            type: boolean
            default: true
      requestBody:
        $ref: '#/components/requestBodies/AccountBody'
      responses:
        default:
          description: error
          content:
            application/json:
              schema:
                $ref: '#/components/schemas/Error'
        '404':
          $ref: '#/components/responses/NotFound'
        '200':
          description: updated
          content:
            text/plain:
              schema:
                type: string
            application/json:
              schema:
                $ref: '#/components/schemas/Account'
components:
  parameters:
    AccountId:
      name: accountId
      in: path
      required: true
      examples:
        first:
          value: acc_1
  requestBodies:
    AccountBody:
      content:
        application/json:
          example:
            email: explicit@example.com
  responses:
    NotFound:
      description: missing
  schemas:
    Account:
      type: object
      properties:
        email:
          type: string
          format: email
        createdAt:
          type: string
          format: date-time
        birthday:
          type: string
          format: date
        tier:
          type: string
          enum: [gold, silver]
        balance:
          type: number
          default: 10.5
        age:
          type: integer
        active:
          type: boolean
        tags:
          type: array
          items:
            type: string
        owner:
          $ref: '#/components/schemas/Owner'
        missing:
          $ref: '#/components/schemas/DoesNotExist'
    Owner:
      type: object
      properties:
        name:
          type: string
          example: Layla
    Error:
      type: object
      properties:
        code:
          type: integer
    Node:
      type: object
      properties:
        value:
          type: string
        next:
          $ref: '#/components/schemas/Node'
    Slash/Name:
      type: string
      example: escaped
`

func parseExampleSpec(t *testing.T) *Document {
	t.Helper()
	doc, err := Parse([]byte(exampleSpec), "en")
	require.NoError(t, err)
	return doc
}

func decode(t *testing.T, src string) Schema {
	t.Helper()
	var n yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(src), &n))
	return DecodeSchema(&n)
}

func TestExample_TypeDirected(t *testing.T) {
	doc := parseExampleSpec(t)

	tests := []struct {
		name     string
		schema   string
		expected any
	}{
		{"email", `{type: string, format: email}`, "user@example.com"},
		{"date-time", `{type: string, format: date-time}`, ExampleDateTime},
		{"date", `{type: string, format: date}`, ExampleDate},
		{"enum", `{type: string, enum: [b, a]}`, "b"},
		{"plain string", `{type: string}`, "string"},
		{"integer", `{type: integer}`, 0},
		{"number default", `{type: number, default: 3}`, 3},
		{"boolean", `{type: boolean}`, false},
		{"boolean default", `{type: boolean, default: true}`, true},
		{"integer array", `{type: array, items: {type: integer}}`, []any{0}},
		{"array without items", `{type: array}`, []any{}},
		{"empty object", `{type: object}`, map[string]any{}},
		{"explicit example wins", `{type: string, format: email, example: me@here.io}`, "me@here.io"},
		{"explicit null example", `{type: string, example: null}`, nil},
		{"absent type", `{description: anything}`, nil},
		{"unknown type", `{type: file}`, nil},
		{"type list", `{type: [null, integer]}`, 0},
		{"unresolved ref", `{$ref: '#/components/schemas/Nope'}`, nil},
		{"external ref", `{$ref: 'other.yaml#/Thing'}`, nil},
		{"escaped pointer", `{$ref: '#/components/schemas/Slash~1Name'}`, "escaped"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, doc.Example(decode(t, tt.schema)))
		})
	}
}

func TestExample_ObjectWithReferences(t *testing.T) {
	doc := parseExampleSpec(t)

	got := doc.Example(&RefSchema{Ref: "#/components/schemas/Account"})

	assert.Equal(t, map[string]any{
		"email":     "user@example.com",
		"createdAt": ExampleDateTime,
		"birthday":  ExampleDate,
		"tier":      "gold",
		"balance":   10.5,
		"age":       0,
		"active":    false,
		"tags":      []any{"string"},
		"owner":     map[string]any{"name": "Layla"},
		"missing":   nil,
	}, got)
}

func TestExample_CyclicReferenceStops(t *testing.T) {
	doc := parseExampleSpec(t)

	got := doc.Example(&RefSchema{Ref: "#/components/schemas/Node"})

	assert.Equal(t, map[string]any{
		"value": "string",
		"next":  nil,
	}, got)
}

func TestExample_NilSchema(t *testing.T) {
	doc := parseExampleSpec(t)
	assert.Nil(t, doc.Example(nil))
}

func TestResolve(t *testing.T) {
	doc := parseExampleSpec(t)

	resolved := doc.Resolve(&RefSchema{Ref: "#/components/schemas/Owner"})
	obj, ok := resolved.(*ObjectSchema)
	require.True(t, ok)
	require.Len(t, obj.Properties, 1)
	assert.Equal(t, "name", obj.Properties[0].Name)

	assert.Nil(t, doc.Resolve(&RefSchema{Ref: "#/components/schemas/Nope"}))
	assert.Nil(t, doc.Resolve(&RefSchema{Ref: "#/info/title/deeper"}))

	plain := &StringSchema{}
	assert.Same(t, plain, doc.Resolve(plain))
}

func TestResolvePointer(t *testing.T) {
	doc := parseExampleSpec(t)

	assert.Equal(t, "Accounts", doc.ResolvePointer("#/info/title").Value)
	assert.Equal(t, "#/components/parameters/AccountId", doc.ResolvePointer("#/paths/~1accounts~1{accountId}/parameters/0/$ref").Value)
	assert.Nil(t, doc.ResolvePointer("#/paths/~1accounts~1{accountId}/parameters/9"))
	assert.Nil(t, doc.ResolvePointer("components/schemas/Owner"))
	assert.Same(t, doc.Root(), doc.ResolvePointer("#"))
}

func TestDecodeSchema_Variants(t *testing.T) {
	assert.IsType(t, &RefSchema{}, decode(t, `{$ref: '#/x', type: string}`))
	assert.IsType(t, &StringSchema{}, decode(t, `{type: string}`))
	assert.IsType(t, &NumberSchema{}, decode(t, `{type: number}`))
	assert.IsType(t, &BooleanSchema{}, decode(t, `{type: boolean}`))
	assert.IsType(t, &ArraySchema{}, decode(t, `{type: array}`))
	assert.IsType(t, &ObjectSchema{}, decode(t, `{type: object}`))
	assert.IsType(t, &UnknownSchema{}, decode(t, `{}`))
	assert.Nil(t, decode(t, `[1, 2]`))

	n := decode(t, `{type: integer}`).(*NumberSchema)
	assert.True(t, n.Integer)

	o := decode(t, `{type: object, required: [b], properties: {b: {type: string}, a: {type: string}}}`).(*ObjectSchema)
	assert.Equal(t, []string{"b"}, o.Required)
	assert.Equal(t, "b", o.Properties[0].Name)
	assert.Equal(t, "a", o.Properties[1].Name)
}

func TestOperationDetail(t *testing.T) {
	doc := parseExampleSpec(t)

	detail, ok := doc.OperationDetail("updateAccount")
	require.True(t, ok)

	assert.Equal(t, "PUT", detail.Method)
	require.Len(t, detail.Parameters, 3)
	assert.Equal(t, "accountId", detail.Parameters[0].Name)
	assert.Equal(t, "path", detail.Parameters[0].In)
	assert.True(t, detail.Parameters[0].Required)
	assert.Equal(t, "acc_1", detail.Parameters[0].Example)
	assert.Equal(t, "trace", detail.Parameters[1].Name)
	assert.Equal(t, "abc-123", detail.Parameters[1].Example)
	assert.Equal(t, "dryRun", detail.Parameters[2].Name)
	assert.Equal(t, true, detail.Parameters[2].Example)

	assert.Equal(t, "application/json", detail.RequestContentType)
	assert.Equal(t, map[string]any{"email": "explicit@example.com"}, detail.RequestExample)

	require.Len(t, detail.Responses, 3)
	assert.Equal(t, "200", detail.Responses[0].Status)
	assert.Equal(t, "application/json", detail.Responses[0].ContentType)
	assert.Equal(t, "Layla", detail.Responses[0].Example.(map[string]any)["owner"].(map[string]any)["name"])
	assert.Equal(t, "404", detail.Responses[1].Status)
	assert.Equal(t, "missing", detail.Responses[1].Description)
	assert.Nil(t, detail.Responses[1].Example)
	assert.Equal(t, "default", detail.Responses[2].Status)
	assert.Equal(t, map[string]any{"code": 0}, detail.Responses[2].Example)

	_, ok = doc.OperationDetail("nope")
	assert.False(t, ok)
}
