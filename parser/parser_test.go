package parser

import (
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/mcpdsl/mcpdsl/ast"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Document, []diag.Diagnostic) {
	t.Helper()
	toks, lexDiags := lexer.Tokenize(src)
	require.Equal(t, 0, len(lexDiags))
	doc, parseDiags := Parse(toks)
	return doc, parseDiags
}

func TestParseRequest(t *testing.T) {
	doc, diags := parseSource(t, ">tools/call #1\n")

	assert.Equal(t, 0, len(diags))
	require.Equal(t, 1, len(doc.Body))
	req, ok := doc.Body[0].(*ast.Request)
	require.Equal(t, true, ok)
	assert.Equal(t, "tools/call", req.Method)
	assert.Equal(t, int64(1), req.ID)
	assert.Equal(t, true, req.Params == nil)
}

func TestParseRequestWithParams(t *testing.T) {
	doc, diags := parseSource(t, `>ping #1 {foo: "bar"}`+"\n")

	assert.Equal(t, 0, len(diags))
	req := doc.Body[0].(*ast.Request)
	require.Equal(t, true, req.Params != nil)
	require.Equal(t, 1, len(req.Params.Properties))
	fa, ok := req.Params.Properties[0].(*ast.FieldAssignment)
	require.Equal(t, true, ok)
	assert.Equal(t, "foo", fa.Name)
}

func TestParseResponse(t *testing.T) {
	doc, diags := parseSource(t, "<#1 {ok: true}\n")

	assert.Equal(t, 0, len(diags))
	resp, ok := doc.Body[0].(*ast.Response)
	require.Equal(t, true, ok)
	assert.Equal(t, int64(1), resp.ID)
}

func TestParseNotification(t *testing.T) {
	doc, diags := parseSource(t, "!notifications/progress\n")

	assert.Equal(t, 0, len(diags))
	notif, ok := doc.Body[0].(*ast.Notification)
	require.Equal(t, true, ok)
	assert.Equal(t, "notifications/progress", notif.Method)
}

func TestParseError(t *testing.T) {
	doc, diags := parseSource(t, `x #1 -32600: "bad request"`+"\n")

	assert.Equal(t, 0, len(diags))
	errNode, ok := doc.Body[0].(*ast.Error)
	require.Equal(t, true, ok)
	assert.Equal(t, int64(1), errNode.ID)
	assert.Equal(t, int64(-32600), errNode.Code)
	assert.Equal(t, "bad request", errNode.Message)
}

func TestParseServerBlock(t *testing.T) {
	doc, diags := parseSource(t, "server myserver v1.2.3 {}\n")

	assert.Equal(t, 0, len(diags))
	sb, ok := doc.Body[0].(*ast.ServerBlock)
	require.Equal(t, true, ok)
	assert.Equal(t, "myserver", sb.Name)
	require.Equal(t, true, sb.Version != nil)
	assert.Equal(t, 1, sb.Version.Major)
	assert.Equal(t, 2, sb.Version.Minor)
	assert.Equal(t, 3, sb.Version.Patch)
}

func TestParseResourceDefinition(t *testing.T) {
	doc, diags := parseSource(t, `R docs {uri: "file:///docs"}`+"\n")

	assert.Equal(t, 0, len(diags))
	res, ok := doc.Body[0].(*ast.ResourceDef)
	require.Equal(t, true, ok)
	assert.Equal(t, "docs", res.Name)
	require.Equal(t, 1, len(res.Body.Properties))
}

func TestParseToolWithAnnotations(t *testing.T) {
	doc, diags := parseSource(t, `T search {@readonly, desc: "searches things"}`+"\n")

	assert.Equal(t, 0, len(diags))
	tool, ok := doc.Body[0].(*ast.ToolDef)
	require.Equal(t, true, ok)
	require.Equal(t, 2, len(tool.Body.Properties))
	ann, ok := tool.Body.Properties[0].(*ast.Annotation)
	require.Equal(t, true, ok)
	assert.Equal(t, "readonly", ann.Name)
}

func TestParseCapabilitySet(t *testing.T) {
	doc, diags := parseSource(t, `>initialize #1 {caps: {sampling, tools.listChanged}}`+"\n")

	assert.Equal(t, 0, len(diags))
	req := doc.Body[0].(*ast.Request)
	fa := req.Params.Properties[0].(*ast.FieldAssignment)
	caps, ok := fa.Value.(*ast.CapabilitySet)
	require.Equal(t, true, ok)
	require.Equal(t, 2, len(caps.Caps))
	assert.EqualValuesf(t, []string{"sampling"}, caps.Caps[0].Path, "got %v", caps.Caps[0].Path)
	assert.EqualValuesf(t, []string{"tools", "listChanged"}, caps.Caps[1].Path, "got %v", caps.Caps[1].Path)
}

func TestParseMissingMessageIDStillParsesSubsequentMessage(t *testing.T) {
	doc, diags := parseSource(t, ">ping\n>pong #2\n")

	require.Equal(t, true, len(diags) > 0)
	require.Equal(t, 2, len(doc.Body))
	first, ok := doc.Body[0].(*ast.Request)
	require.Equal(t, true, ok)
	assert.Equal(t, "ping", first.Method)
	second, ok := doc.Body[1].(*ast.Request)
	require.Equal(t, true, ok)
	assert.Equal(t, "pong", second.Method)
	assert.Equal(t, int64(2), second.ID)
}

func TestParseUnexpectedTopLevelTokenRecovers(t *testing.T) {
	doc, diags := parseSource(t, "garbage\n>ping #1\n")

	require.Equal(t, true, len(diags) > 0)
	require.Equal(t, 1, len(doc.Body))
	req, ok := doc.Body[0].(*ast.Request)
	require.Equal(t, true, ok)
	assert.Equal(t, "ping", req.Method)
}

func TestParseArrayValue(t *testing.T) {
	doc, diags := parseSource(t, `>ping #1 {tags: ["a", "b"]}`+"\n")

	assert.Equal(t, 0, len(diags))
	req := doc.Body[0].(*ast.Request)
	fa := req.Params.Properties[0].(*ast.FieldAssignment)
	arr, ok := fa.Value.(*ast.ArrayLit)
	require.Equal(t, true, ok)
	assert.Equal(t, 2, len(arr.Elements))
}
