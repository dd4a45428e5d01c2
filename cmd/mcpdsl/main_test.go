package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/teleivo/assertive/assert"
	"github.com/teleivo/assertive/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errBuf bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errBuf)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errBuf.String(), err
}

func TestTokenizeCmd(t *testing.T) {
	out, _, err := runCmd(t, `>ping #1`+"\n", "tokenize")

	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"kind"`))
}

func TestValidateCmdReportsErrors(t *testing.T) {
	_, stderr, err := runCmd(t, "R f {}\n", "validate")

	require.NotNil(t, err)
	assert.True(t, strings.Contains(stderr, "uri"))
}

func TestCompileCmdProducesJSON(t *testing.T) {
	out, _, err := runCmd(t, `>ping #1`+"\n", "compile")

	require.NoError(t, err)
	assert.True(t, strings.Contains(out, `"method": "ping"`))
}

func TestDecompileCmdProducesSource(t *testing.T) {
	input := `{"messages":[{"jsonrpc":"2.0","id":1,"method":"ping"}]}`
	out, _, err := runCmd(t, input, "decompile")

	require.NoError(t, err)
	assert.Equal(t, ">ping #1\n", out)
}
