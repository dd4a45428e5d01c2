package main

import (
	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/diag"
	"github.com/mcpdsl/mcpdsl/validator"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Parse and semantically validate an MCP-DSL source file",
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
			return nil
		},
	}
}
