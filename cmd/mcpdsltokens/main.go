// Stream MCP-DSL tokens from stdin to stdout.
//
// This is a development and debugging tool for package lexer. It is not
// intended for distribution or production use.
//
// Grounded on teleivo-dot's cmd/tokens/main.go: read all of stdin, tokenize
// it, print one tabwriter-aligned row per token.
package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/mcpdsl/mcpdsl/lexer"
	"github.com/mcpdsl/mcpdsl/token"
)

func main() {
	if err := run(os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "stopped tokenizing due to err: %v\n", err)
		os.Exit(1)
	}
}

func run(r io.Reader, w io.Writer) error {
	src, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	toks, diags := lexer.Tokenize(string(src))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "RANGE\tKIND\tLEXEME\n")
	for _, t := range toks {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Range, t.Kind, literal(t))
	}

	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s\n", d)
	}

	return nil
}

func literal(t token.Token) string {
	if t.Kind == token.Identifier || t.Kind == token.Illegal {
		return t.Lexeme
	}
	return ""
}
