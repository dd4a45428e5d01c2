package decompiler

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func TestDecompileRequest(t *testing.T) {
	out, diags := Decompile(Input{
		Messages: []map[string]any{
			{"jsonrpc": "2.0", "id": float64(1), "method": "ping"},
		},
	})

	assert.Equal(t, 0, len(diags))
	assert.Equal(t, ">ping #1\n", out)
}

func TestDecompileResponseNegatesIsErrorToOk(t *testing.T) {
	out, _ := Decompile(Input{
		Messages: []map[string]any{
			{"jsonrpc": "2.0", "id": float64(1), "result": map[string]any{"isError": false}},
		},
	})

	assert.Equal(t, "<#1 {ok: true}\n", out)
}

func TestDecompileErrorMessage(t *testing.T) {
	out, _ := Decompile(Input{
		Messages: []map[string]any{
			{"jsonrpc": "2.0", "id": float64(1), "error": map[string]any{"code": float64(-32600), "message": "bad request"}},
		},
	})

	assert.Equal(t, `x #1 -32600: "bad request"`+"\n", out)
}

func TestDecompileCapabilitiesFlattensDottedAndBarePaths(t *testing.T) {
	out, _ := Decompile(Input{
		Messages: []map[string]any{
			{
				"jsonrpc": "2.0", "id": float64(1), "method": "initialize",
				"params": map[string]any{
					"capabilities": map[string]any{
						"tools":    map[string]any{"listChanged": true},
						"sampling": map[string]any{},
					},
				},
			},
		},
	})

	assert.Equal(t, ">initialize #1 {caps: {sampling, tools.listChanged}}\n", out)
}

func TestDecompileClientInfoRendersAsInfo(t *testing.T) {
	out, _ := Decompile(Input{
		Messages: []map[string]any{
			{
				"jsonrpc": "2.0", "id": float64(1), "method": "initialize",
				"params": map[string]any{
					"clientInfo": map[string]any{"name": "myclient", "version": "v1.0.0"},
				},
			},
		},
	})

	assert.Equal(t, `>initialize #1 {info: {name: "myclient", version: "v1.0.0"}}`+"\n", out)
}

func TestDecompileSiblingNameVersionFoldsToImplAnnotation(t *testing.T) {
	out, _ := Decompile(Input{
		Messages: []map[string]any{
			{
				"jsonrpc": "2.0", "id": float64(1), "method": "initialize",
				"params": map[string]any{"name": "myclient", "version": "v1.0.0"},
			},
		},
	})

	assert.Equal(t, `>initialize #1 {info: @impl("myclient", "v1.0.0")}`+"\n", out)
}

func TestDecompileToolDefinition(t *testing.T) {
	out, _ := Decompile(Input{
		Tools: []map[string]any{
			{
				"name":        "search",
				"description": "searches things",
				"inputSchema": map[string]any{"type": "object"},
				"annotations": map[string]any{"readOnlyHint": true},
			},
		},
	})

	require.Equal(t, true, len(out) > 0)
	assert.Equal(t, `T search {@readonly, desc: "searches things", in: {type: "object"}}`+"\n", out)
}

func TestDecompileAnnotationPriorityQuotesStringValue(t *testing.T) {
	out, _ := Decompile(Input{
		Tools: []map[string]any{
			{
				"name":        "search",
				"inputSchema": map[string]any{"type": "object"},
				"annotations": map[string]any{"priority": "high"},
			},
		},
	})

	assert.Equal(t, `T search {@priority:"high", in: {type: "object"}}`+"\n", out)
}

func TestDecompileAnnotationAudienceRendersArraySyntax(t *testing.T) {
	out, _ := Decompile(Input{
		Tools: []map[string]any{
			{
				"name":        "search",
				"inputSchema": map[string]any{"type": "object"},
				"annotations": map[string]any{"audience": []any{"user", "assistant"}},
			},
		},
	})

	assert.Equal(t, `T search {@audience:["user", "assistant"], in: {type: "object"}}`+"\n", out)
}

func TestDecompileAnnotationReadOnlyHintFalseDoesNotRenderBareReadonly(t *testing.T) {
	out, _ := Decompile(Input{
		Tools: []map[string]any{
			{
				"name":        "search",
				"inputSchema": map[string]any{"type": "object"},
				"annotations": map[string]any{"readOnlyHint": false},
			},
		},
	})

	assert.Equal(t, `T search {@readOnlyHint:false, in: {type: "object"}}`+"\n", out)
}

func TestDecompileAnnotationDestructiveHintTrueDoesNotRenderBareDestructive(t *testing.T) {
	out, _ := Decompile(Input{
		Tools: []map[string]any{
			{
				"name":        "search",
				"inputSchema": map[string]any{"type": "object"},
				"annotations": map[string]any{"destructiveHint": true},
			},
		},
	})

	assert.Equal(t, `T search {@destructiveHint:true, in: {type: "object"}}`+"\n", out)
}

func TestDecompileResourceDefinition(t *testing.T) {
	out, _ := Decompile(Input{
		Resources: []map[string]any{
			{"name": "docs", "uri": "file:///docs"},
		},
	})

	assert.Equal(t, `R docs {uri: "file:///docs"}`+"\n", out)
}

func TestDecompileResourceTemplateSynthesizesName(t *testing.T) {
	out, _ := Decompile(Input{
		ResourceTemplates: []map[string]any{
			{"uri": "file:///{path}"},
		},
	})

	assert.Equal(t, `RT file {uri: "file:///{path}"}`+"\n", out)
}

func TestDecompileServerBlock(t *testing.T) {
	out, _ := Decompile(Input{
		ServerInfo: map[string]any{"name": "myserver", "protocolVersion": "1.0.0"},
	})

	assert.Equal(t, "server myserver v1.0.0 {}\n", out)
}

func TestDecompileWideObjectRendersAsBlock(t *testing.T) {
	out, _ := Decompile(Input{
		Resources: []map[string]any{
			{
				"name": "docs",
				"uri":  "file:///a/very/long/path/that/will/not/fit/on/one/line/at/all",
			},
		},
	})

	want := "R docs {\n  uri: \"file:///a/very/long/path/that/will/not/fit/on/one/line/at/all\"\n}\n"
	assert.Equal(t, want, out)
}

func TestDecompileUnrecognizedMessageWarns(t *testing.T) {
	_, diags := Decompile(Input{
		Messages: []map[string]any{{"jsonrpc": "2.0"}},
	})

	require.Equal(t, 1, len(diags))
}
