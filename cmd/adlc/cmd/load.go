package cmd

import (
	"fmt"
	"os"

	"github.com/adl-lang/adlc/internal/config"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/loader"
	"github.com/adl-lang/adlc/internal/logging"
	"github.com/adl-lang/adlc/internal/resolved"
)

// loadAll parses and resolves every root .adl file named in files,
// plus their transitive imports, returning the accumulated LoadedAdl.
func loadAll(opts config.Options, files []string) (*resolved.LoadedAdl, error) {
	diags := diagnostic.New()
	l := loader.New(loader.Options{SearchPath: opts.SearchPath, MergeExtensions: opts.MergeExtensions}, diags)

	for _, f := range files {
		if err := l.LoadFile(f); err != nil {
			return nil, err
		}
	}

	for _, n := range diags.All() {
		logging.L().Warnf("%s", n)
	}

	return l.LoadedAdl(), nil
}

func printDiagnosticErr(err error) {
	var de *diagnostic.Error
	if e, ok := err.(*diagnostic.Error); ok {
		de = e
	}
	if de != nil {
		fmt.Fprintln(os.Stderr, de.Error())
		if de.Hint != "" {
			fmt.Fprintf(os.Stderr, "hint: %s\n", de.Hint)
		}
		return
	}
	fmt.Fprintln(os.Stderr, err)
}
