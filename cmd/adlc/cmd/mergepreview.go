package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/parser"
	"github.com/adl-lang/adlc/internal/sidecar"
)

var mergePreviewCmd = &cobra.Command{
	Use:   "merge-preview [adl file]",
	Short: "Print an ADL module with its sidecar annotations merged, without resolving it",
	Args:  cobra.ExactArgs(1),
	RunE:  runMergePreview,
}

func runMergePreview(cmd *cobra.Command, args []string) error {
	opts, err := resolvedOptions()
	if err != nil {
		return err
	}
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return diagnostic.Errorf(diagnostic.FileNotFound, path, 0, 0, "reading module: %v", err)
	}
	mod, err := parser.Parse(path, string(data))
	if err != nil {
		printDiagnosticErr(err)
		return err
	}

	diags := diagnostic.New()
	if err := sidecar.Merge(mod, path, opts.MergeExtensions, diags); err != nil {
		printDiagnosticErr(err)
		return err
	}
	for _, n := range diags.All() {
		fmt.Fprintln(os.Stderr, n.String())
	}

	fmt.Println(ast.Print(mod))
	return nil
}
