package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/ast"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/lexer"
	"github.com/mcpdsl/mcpdsl/parser"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an MCP-DSL source file and print its AST as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			doc, diags := parseSource(string(src))
			printDiagnostics(cmd, diags)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}

// parseSource runs the tokenize -> parse stages, returning the lexer's
// diagnostics followed by the parser's.
func parseSource(src string) (*ast.Document, []diag.Diagnostic) {
	toks, lexDiags := lexer.Tokenize(src)
	doc, parseDiags := parser.Parse(toks)
	return doc, append(lexDiags, parseDiags...)
}
