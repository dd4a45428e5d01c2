package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/decompiler"
)

func newDecompileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decompile [file]",
		Short: "Decompile a compiled MCP artefact JSON document back to MCP-DSL source",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			var in decompiler.Input
			if err := json.Unmarshal(data, &in); err != nil {
				return fmt.Errorf("decoding input: %w", err)
			}

			out, diags := decompiler.Decompile(in)
			printDiagnostics(cmd, diags)

			_, err = io.WriteString(cmd.OutOrStdout(), out)
			return err
		},
	}
}
