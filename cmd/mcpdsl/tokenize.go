package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/lexer"
	"github.com/mcpdsl/mcpdsl/token"
)

func newTokenizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize [file]",
		Short: "Print the token stream for an MCP-DSL source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			toks, diags := lexer.Tokenize(string(src))
			printDiagnostics(cmd, diags)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tokensToJSON(toks))
		},
	}
}

type tokenJSON struct {
	Kind   string `json:"kind"`
	Lexeme string `json:"lexeme,omitempty"`
	Range  string `json:"range"`
}

func tokensToJSON(toks []token.Token) []tokenJSON {
	out := make([]tokenJSON, 0, len(toks))
	for _, t := range toks {
		out = append(out, tokenJSON{
			Kind:   t.Kind.String(),
			Lexeme: t.Lexeme,
			Range:  t.Range.String(),
		})
	}
	return out
}
