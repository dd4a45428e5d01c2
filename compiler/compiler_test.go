package compiler

import (
	"encoding/json"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/mcpdsl/mcpdsl/ast"
)

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestCompileRequest(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Request{Method: "ping", ID: 1},
	}}

	result, diags := Compile(doc)

	assert.Equal(t, 0, len(diags))
	require.Equal(t, 1, len(result.Messages))
	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`, marshal(t, result.Messages[0]))
}

func TestCompileRequestWithCapabilities(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Request{
			Method: "initialize",
			ID:     1,
			Params: &ast.Object{
				Ctx: ast.RequestParamsCtx,
				Properties: []ast.ObjectProp{
					&ast.FieldAssignment{Name: "caps", Value: &ast.CapabilitySet{
						Caps: []ast.Capability{{Path: []string{"tools", "listChanged"}}, {Path: []string{"sampling"}}},
					}},
				},
			},
		},
	}}

	result, _ := Compile(doc)

	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"capabilities":{"tools":{"listChanged":true},"sampling":{}}}}`, marshal(t, result.Messages[0]))
}

func TestCompileOkNegatesToIsError(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Response{
			ID: 1,
			Result: &ast.Object{
				Ctx: ast.ResponseResultCtx,
				Properties: []ast.ObjectProp{
					&ast.FieldAssignment{Name: "ok", Value: &ast.BooleanLit{Value: true}},
				},
			},
		},
	}}

	result, _ := Compile(doc)

	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"result":{"isError":false}}`, marshal(t, result.Messages[0]))
}

func TestCompileErrorObject(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Error{ID: 1, Code: -32600, Message: "bad request"},
	}}

	result, _ := Compile(doc)

	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"error":{"code":-32600,"message":"bad request"}}`, marshal(t, result.Messages[0]))
}

func TestCompileToolDefaultsInputSchema(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.ToolDef{Name: "search", Body: &ast.Object{Ctx: ast.DefinitionBlockCtx}},
	}}

	result, _ := Compile(doc)

	require.Equal(t, 1, len(result.Tools))
	assert.Equal(t, "search", result.Tools[0].get("name"))
	assert.True(t, result.Tools[0].has("inputSchema"))
}

func TestCompileToolAnnotationsAggregate(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.ToolDef{
			Name: "search",
			Body: &ast.Object{
				Ctx: ast.DefinitionBlockCtx,
				Properties: []ast.ObjectProp{
					&ast.Annotation{Name: "readonly"},
					&ast.Annotation{Name: "idempotent"},
				},
			},
		},
	}}

	result, _ := Compile(doc)

	ann, ok := result.Tools[0].get("annotations").(*object)
	require.True(t, ok)
	assert.Equal(t, true, ann.get("readOnlyHint"))
	assert.Equal(t, true, ann.get("idempotentHint"))
}

func TestCompileImplAddsSiblingKeys(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Request{
			Method: "initialize",
			ID:     1,
			Params: &ast.Object{
				Ctx: ast.RequestParamsCtx,
				Properties: []ast.ObjectProp{
					&ast.Annotation{Name: "impl", Args: []ast.Value{
						&ast.StringLit{Value: "myclient"},
						&ast.StringLit{Value: "v1.0.0"},
					}},
				},
			},
		},
	}}

	result, _ := Compile(doc)

	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"name":"myclient","version":"v1.0.0"}}`, marshal(t, result.Messages[0]))
}

func TestCompileResourceTemplateOmitsName(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.ResourceTemplateDef{
			Name: "file",
			Body: &ast.Object{
				Ctx:        ast.DefinitionBlockCtx,
				Properties: []ast.ObjectProp{&ast.FieldAssignment{Name: "uri", Value: &ast.StringLit{Value: "file:///{path}"}}},
			},
		},
	}}

	result, _ := Compile(doc)

	require.Equal(t, 1, len(result.ResourceTemplates))
	assert.False(t, result.ResourceTemplates[0].has("name"))
	assert.Equal(t, "file:///{path}", result.ResourceTemplates[0].get("uri"))
}

func TestCompileResourceRefResolvesURI(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.ResourceDef{
			Name: "docs",
			Body: &ast.Object{
				Ctx:        ast.DefinitionBlockCtx,
				Properties: []ast.ObjectProp{&ast.FieldAssignment{Name: "uri", Value: &ast.StringLit{Value: "file:///docs"}}},
			},
		},
		&ast.Response{
			ID: 1,
			Result: &ast.ContentValue{Content: &ast.ResourceRef{Name: "docs"}},
		},
	}}

	result, diags := Compile(doc)

	assert.Equal(t, 0, len(diags))
	require.Equal(t, 1, len(result.Messages))
	assert.Equal(t, `{"jsonrpc":"2.0","id":1,"result":{"type":"resource","resource":{"uri":"file:///docs"}}}`, marshal(t, result.Messages[0]))
}

func TestCompileUnresolvedResourceRefWarns(t *testing.T) {
	doc := &ast.Document{Body: []ast.DocumentItem{
		&ast.Response{
			ID:     1,
			Result: &ast.ContentValue{Content: &ast.ResourceRef{Name: "missing"}},
		},
	}}

	_, diags := Compile(doc)

	require.Equal(t, 1, len(diags))
}
