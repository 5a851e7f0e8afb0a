// Package config supplements spec.md's flag-only CLI surface (§6) with
// an optional adlc.toml project file, the way the original Haskell adl
// tool's per-project config lets a repo pin its search path without
// repeating -I on every invocation.
//
// Grounded on teranos-QNTX/plugin/grpc/discovery.go's toml-tagged
// struct + github.com/BurntSushi/toml decode pattern.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// Options is the fully resolved set of knobs a compiler invocation
// runs with, after flags have been layered over an optional Project
// file.
type Options struct {
	// SearchPath lists directories to search for imported modules, in
	// order.
	SearchPath []string
	// OutputRoot is the directory generated files are written under.
	OutputRoot string
	// MergeExtensions lists sidecar suffixes to merge, in precedence
	// order.
	MergeExtensions []string
	// NoOverwrite skips writing files that already hold identical
	// content.
	NoOverwrite bool
	// ManifestPath, if set, receives the write manifest.
	ManifestPath string
	// Verbose enables debug-level logging.
	Verbose bool
}

// Project is the shape of an adlc.toml project file.
type Project struct {
	SearchPaths []string `toml:"search_paths"`
	MergeAdlext []string `toml:"merge_adlext"`
	Output      string   `toml:"output"`
}

// LoadProject reads and decodes an adlc.toml file at path. A missing
// file is not an error — callers treat it as an empty Project — but a
// malformed one is.
func LoadProject(path string) (*Project, error) {
	var p Project
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &p, nil
		}
		return nil, errors.Wrapf(err, "config: stat %s", path)
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return nil, errors.Wrapf(err, "config: decoding %s", path)
	}
	return &p, nil
}

// Merge layers flag-level overrides (any non-zero field of o) onto the
// values loaded from a Project file, flags winning ties, per
// SPEC_FULL.md §6. p may be nil, treated as an empty Project.
func Merge(o Options, p *Project) Options {
	if p == nil {
		return o
	}
	if len(o.SearchPath) == 0 {
		o.SearchPath = p.SearchPaths
	}
	if len(o.MergeExtensions) == 0 {
		o.MergeExtensions = p.MergeAdlext
	}
	if o.OutputRoot == "" {
		o.OutputRoot = p.Output
	}
	return o
}
