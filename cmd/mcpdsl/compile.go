package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/compiler"
	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/validator"
)

func newCompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile [file]",
		Short: "Compile an MCP-DSL source file to its JSON-RPC/MCP artefacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			doc, diags := parseSource(string(src))
			diags = append(diags, validator.Validate(doc)...)
			printDiagnostics(cmd, diags)
			if diag.HasErrors(diags) {
				return errHasDiagnosticErrors
			}

			result, compileDiags := compiler.Compile(doc)
			printDiagnostics(cmd, compileDiags)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
}
