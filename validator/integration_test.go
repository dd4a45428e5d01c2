package validator

import (
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"

	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/lexer"
	"github.com/mcpdsl/mcpdsl/parser"
)

// parseForValidation drives a real document through Tokenize and Parse, so
// the resulting AST carries whatever ast.ContextKind the parser actually
// assigns, rather than one hand-picked by the test.
func parseForValidation(t *testing.T, src string) []diag.Diagnostic {
	t.Helper()
	toks, lexDiags := lexer.Tokenize(src)
	require.Equal(t, 0, len(lexDiags))
	doc, parseDiags := parser.Parse(toks)
	require.Equal(t, 0, len(parseDiags))
	return Validate(doc)
}

func TestValidateRejectsAnnotationInParsedErrorData(t *testing.T) {
	diags := parseForValidation(t, `x #1 -32600: "bad request" {@readonly}`+"\n")

	require.Equal(t, true, len(diags) > 0)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "annotations are not permitted in error data") {
			found = true
		}
	}
	assert.Equal(t, true, found)
}

func TestValidateRejectsNestedDefinitionInParsedResponseResult(t *testing.T) {
	diags := parseForValidation(t, `<#1 {T bad {uri: "x"}}`+"\n")

	require.Equal(t, true, len(diags) > 0)
	found := false
	for _, d := range diags {
		if strings.Contains(d.Message, "nested definitions are not permitted here") {
			found = true
		}
	}
	assert.Equal(t, true, found)
}

func TestValidateAcceptsPlainFieldAssignmentInParsedResponseResult(t *testing.T) {
	diags := parseForValidation(t, `<#1 {ok: true}`+"\n")

	assert.Equal(t, 0, len(diags))
}

func TestValidateAcceptsPlainFieldAssignmentInParsedErrorData(t *testing.T) {
	diags := parseForValidation(t, `x #1 -32600: "bad request" {detail: "why"}`+"\n")

	assert.Equal(t, 0, len(diags))
}
