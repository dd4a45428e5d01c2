// Command mcpdsl is the MCP-DSL CLI: tokenize, parse, validate, compile and
// decompile subcommands over the pipeline in the mcpdsl module's core
// packages.
//
// Built on spf13/cobra, grounded on MacroPower-x's cmd/magicschema (a
// cobra.Command tree with RunE closures and a persistent flag set), rather
// than the teacher's cmd/dotfmt, which uses the stdlib flag package — cobra
// is a real pack dependency and this CLI is the dispatcher surface it
// exists for (SPEC_FULL.md §A.3). No flag here influences the behavior of
// the core pipeline itself; logging is the only ambient concern the CLI
// adds.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpdsl/mcpdsl/internal/clilog"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel, logFormat string

	root := &cobra.Command{
		Use:           "mcpdsl",
		Short:         "Tokenize, parse, validate, compile and decompile MCP-DSL source",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			h, err := clilog.NewHandler(os.Stderr, logLevel, logFormat)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(h))
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "logfmt", "log format: logfmt, json")

	root.AddCommand(
		newTokenizeCmd(),
		newParseCmd(),
		newValidateCmd(),
		newCompileCmd(),
		newDecompileCmd(),
	)
	return root
}
