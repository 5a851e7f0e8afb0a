package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adl-lang/adlc/internal/driver"
	"github.com/adl-lang/adlc/internal/driver/textdump"
	"github.com/adl-lang/adlc/internal/filewriter"
)

var flagPackageRoot string

func init() {
	dumpCmd.Flags().StringVar(&flagPackageRoot, "package", "gen", "root package path generated files are nested under")
}

var dumpCmd = &cobra.Command{
	Use:   "dump [adl files...]",
	Short: "Render resolved declarations as plain-text outlines (demo backend)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	opts, err := resolvedOptions()
	if err != nil {
		return err
	}
	loaded, err := loadAll(opts, args)
	if err != nil {
		printDiagnosticErr(err)
		return err
	}

	w := filewriter.New(filewriter.Options{
		OutputRoot:   opts.OutputRoot,
		NoOverwrite:  opts.NoOverwrite,
		ManifestPath: opts.ManifestPath,
	})

	ctx := &driver.Context{
		Loaded:   loaded,
		Packages: driver.PackageMapping{RootPackage: flagPackageRoot},
		Writer:   w,
	}

	if err := textdump.New().Emit(ctx); err != nil {
		printDiagnosticErr(err)
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d file(s), skipped %d\n", w.Written(), w.Skipped())
	return nil
}
