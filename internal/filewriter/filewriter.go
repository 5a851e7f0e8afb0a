// Package filewriter implements spec.md §4.6: an idempotent,
// manifest-tracking sink for backend-generated files. Writes are
// atomic (write-to-temp, rename) so a crash mid-write never leaves a
// half-written file on disk, and a --no-overwrite run that finds an
// existing byte-identical file skips the write (and its mtime bump)
// entirely.
//
// Net new (no direct teacher analogue): follows the plain
// os.WriteFile calls in the teacher's own internal/compiler/compiler.go
// for the basic "write bytes to a path" shape, and
// teranos-QNTX/cmd/typegen/cmd/typegen.go's temp-dir-then-compare
// pattern for the idempotent-skip idea, generalised here into a single
// atomic rename rather than a whole-tree diff. google/uuid supplies the
// temp-file suffix, grounded on aratama-tunascript's use of the same
// library for unique identifiers. Tests use testify/require, per
// SPEC_FULL.md §8's net-new-package convention.
package filewriter

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// Options configures a Writer.
type Options struct {
	// OutputRoot is the directory every write path is relative to.
	OutputRoot string
	// NoOverwrite skips writes whose target already has byte-identical
	// contents, preserving that file's mtime.
	NoOverwrite bool
	// ManifestPath, if non-empty, receives the flushed manifest on
	// Close.
	ManifestPath string
}

// Writer is the file sink backends emit through. One Writer is used
// for an entire compiler invocation; Close flushes the manifest once,
// at the end.
type Writer struct {
	opts     Options
	entries  []manifestEntry
	written  int
	skipped  int
}

type manifestEntry struct {
	path string
	sum  string
}

// New returns a Writer rooted at opts.OutputRoot.
func New(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Write writes bytes to path (relative to OutputRoot), creating parent
// directories as needed, and records the write in the manifest. If
// NoOverwrite is set and path already holds byte-identical content,
// the write (and the mtime touch it would cause) is skipped, but the
// manifest entry is still recorded so Close's flushed manifest always
// reflects every path this invocation was asked to produce.
func (w *Writer) Write(path string, data []byte) error {
	full := filepath.Join(w.opts.OutputRoot, path)
	sum := sha256.Sum256(data)
	sumHex := hex.EncodeToString(sum[:])

	if w.opts.NoOverwrite {
		if existing, err := os.ReadFile(full); err == nil && bytes.Equal(existing, data) {
			w.skipped++
			w.entries = append(w.entries, manifestEntry{path: path, sum: sumHex})
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return errors.Wrapf(err, "filewriter: creating directory for %s", path)
	}

	tmp := full + ".tmp-" + uuid.NewString()
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.Wrapf(err, "filewriter: writing temp file for %s", path)
	}
	if err := os.Rename(tmp, full); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "filewriter: renaming temp file into place for %s", path)
	}

	w.written++
	w.entries = append(w.entries, manifestEntry{path: path, sum: sumHex})
	return nil
}

// Written returns how many writes actually touched disk (excludes
// NoOverwrite skips).
func (w *Writer) Written() int { return w.written }

// Skipped returns how many writes were suppressed by NoOverwrite.
func (w *Writer) Skipped() int { return w.skipped }

// Close flushes the manifest to ManifestPath, if configured, one
// "<path> <sha256-hex>" line per distinct written/skipped path (the
// digest of the last Write to that path), sorted by path for
// reproducible output across runs (spec.md §4.6's "supplements the
// spec" note), followed by a trailing total line.
func (w *Writer) Close() error {
	if w.opts.ManifestPath == "" {
		return nil
	}
	latest := make(map[string]string, len(w.entries))
	for _, e := range w.entries {
		latest[e.path] = e.sum
	}
	sorted := make([]manifestEntry, 0, len(latest))
	for p, s := range latest {
		sorted = append(sorted, manifestEntry{path: p, sum: s})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].path < sorted[j].path })

	var sb strings.Builder
	for _, e := range sorted {
		fmt.Fprintf(&sb, "%s %s\n", e.path, e.sum)
	}
	fmt.Fprintf(&sb, "# %d file(s)\n", len(sorted))

	if err := os.MkdirAll(filepath.Dir(w.opts.ManifestPath), 0o755); err != nil {
		return errors.Wrapf(err, "filewriter: creating manifest directory")
	}
	if err := os.WriteFile(w.opts.ManifestPath, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrapf(err, "filewriter: writing manifest")
	}
	return nil
}
