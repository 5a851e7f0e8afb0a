package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check [adl files...]",
	Short: "Load and resolve ADL modules, reporting any error",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := resolvedOptions()
	if err != nil {
		return err
	}
	loaded, err := loadAll(opts, args)
	if err != nil {
		printDiagnosticErr(err)
		return err
	}
	fmt.Printf("ok: %d module(s), %d declaration(s)\n", len(loaded.Modules), len(loaded.AllDecls))
	return nil
}
