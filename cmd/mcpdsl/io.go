package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/diag"
)

// readSource reads source text from the single positional file argument, or
// from stdin when called with no arguments or with "-", mirroring
// magicschema's cmd/magicschema/main.go input handling.
func readSource(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", args[0], err)
	}
	return data, nil
}

// printDiagnostics writes each diagnostic to cmd's error stream, one per
// line, in the "[SEVERITY] line:col: message" form diag.Diagnostic.String
// renders (spec §6.3).
func printDiagnostics(cmd *cobra.Command, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(cmd.ErrOrStderr(), d)
	}
}

// errHasDiagnosticErrors is returned by subcommands that refuse to proceed
// past a stage that produced Error-severity diagnostics, mirroring the
// sentinel-error guidance for library-level misuse (SPEC_FULL.md §A.1) at
// the CLI boundary, since the core Compile/Decompile functions themselves
// take no diagnostics input to guard on.
var errHasDiagnosticErrors = fmt.Errorf("source has one or more error diagnostics")

