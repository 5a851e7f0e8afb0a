// Package cmd wires adlc's CLI surface with github.com/spf13/cobra,
// mirroring teranos-QNTX/cmd/typegen/cmd's subcommand-plus-package-
// level-flag-vars idiom rather than the teacher's hand-rolled os.Args
// switch in cmd/intentc — the teacher predates having more than one
// subcommand and a real flag surface; the rest of the pack shows the
// idiomatic step up once a CLI grows past that.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/adl-lang/adlc/internal/config"
	"github.com/adl-lang/adlc/internal/logging"
)

var (
	flagSearchPath  []string
	flagOutput      string
	flagMergeExt    []string
	flagNoOverwrite bool
	flagManifest    string
	flagVerbose     bool
	flagConfig      string
)

// Root is the top-level adlc command.
var Root = &cobra.Command{
	Use:   "adlc",
	Short: "Algebraic Data Language compiler",
	Long: `adlc lexes, parses, loads, resolves, and type-checks ADL module
trees, and drives pluggable code-generation backends over the result.`,
	SilenceUsage:      true,
	PersistentPreRunE: initLogging,
}

func init() {
	Root.PersistentFlags().StringSliceVarP(&flagSearchPath, "searchdir", "I", nil, "directory to search for imported modules (repeatable)")
	Root.PersistentFlags().StringVarP(&flagOutput, "outputdir", "O", "", "directory generated files are written under (default: the project file's output, else the current directory)")
	Root.PersistentFlags().StringSliceVar(&flagMergeExt, "merge-adlext", nil, "sidecar extension to merge onto every module, e.g. java for M.adl-java (repeatable)")
	Root.PersistentFlags().BoolVar(&flagNoOverwrite, "no-overwrite", false, "skip writing files whose content is already up to date")
	Root.PersistentFlags().StringVar(&flagManifest, "manifest", "", "path to write a sha256 manifest of generated files")
	Root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	Root.PersistentFlags().StringVar(&flagConfig, "config", "adlc.toml", "project config file")

	Root.AddCommand(checkCmd)
	Root.AddCommand(dumpCmd)
	Root.AddCommand(mergePreviewCmd)
}

func initLogging(cmd *cobra.Command, args []string) error {
	return logging.Initialize(flagVerbose)
}

// resolvedOptions layers CLI flags over the project config file, per
// SPEC_FULL.md §6.
func resolvedOptions() (config.Options, error) {
	proj, err := config.LoadProject(flagConfig)
	if err != nil {
		return config.Options{}, err
	}
	opts := config.Options{
		SearchPath:      flagSearchPath,
		OutputRoot:      flagOutput,
		MergeExtensions: flagMergeExt,
		NoOverwrite:     flagNoOverwrite,
		ManifestPath:    flagManifest,
		Verbose:         flagVerbose,
	}
	return config.Merge(opts, proj), nil
}
