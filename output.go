// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Output materializes archive entries under one root directory.
// Directories are created lazily, one per unique original path segment.
type Output struct {
	// root mirrors the output root directory.
	root *outputDir
	// warn receives rename and duplicate warnings.
	warn *warner
	// files counts created output files.
	files int
	// bytes counts payload bytes written through transfer.
	bytes int64
}

// outputDir is one node of the in-memory output tree.
type outputDir struct {
	// path is the node's directory on disk.
	path string
	// children maps original segment names to child nodes.
	children map[string]*outputDir
	// encountered holds original file names requested in this node.
	encountered map[string]struct{}
	// emitted holds names already used by files and subdirectories, lower-cased when foldCase is set.
	emitted map[string]struct{}
	// foldCase compares emitted names case-insensitively; children inherit it.
	foldCase bool
}

// OpenOutput derives a fresh output root from archivePath and creates it.
// The root is "<stem><suffix>", or "<stem><suffix>_N" for the first N >= 2 that
// does not exist yet, so an earlier extraction is never overwritten.
func OpenOutput(archivePath string, opts OutputOptions) (*Output, error) {
	opts.applyDefaults()

	stem, err := archiveStem(archivePath)
	if err != nil {
		return nil, err
	}

	parent := opts.Dir
	if parent == "" {
		parent = filepath.Dir(archivePath)
	}

	for n := 1; ; n++ {
		name := stem + opts.Suffix
		if n > 1 {
			name += "_" + strconv.Itoa(n)
		}

		rootPath := filepath.Join(parent, name)
		err := os.Mkdir(rootPath, dirMode)
		if err == nil {
			return newOutput(rootPath, opts.FoldCase), nil
		}

		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("create output root: %w", err)
		}
	}
}

// OutputAt uses dir as output root as-is, creating it when missing.
// Only opts.FoldCase applies; Dir and Suffix are ignored.
func OutputAt(dir string, opts OutputOptions) (*Output, error) {
	if err := os.MkdirAll(dir, dirMode); err != nil {
		return nil, fmt.Errorf("create output root: %w", err)
	}

	return newOutput(dir, opts.FoldCase), nil
}

// newOutput returns an Output rooted at an existing directory.
func newOutput(rootPath string, foldCase bool) *Output {
	return &Output{
		root: newOutputDir(rootPath, foldCase),
		warn: newWarner(nil),
	}
}

// newOutputDir returns an empty tree node for an existing directory.
func newOutputDir(path string, foldCase bool) *outputDir {
	return &outputDir{
		path:        path,
		children:    make(map[string]*outputDir),
		encountered: make(map[string]struct{}),
		emitted:     make(map[string]struct{}),
		foldCase:    foldCase,
	}
}

// archiveStem returns the archive file name without its last extension.
func archiveStem(archivePath string) (string, error) {
	base := filepath.Base(archivePath)
	if base == "" || base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("%w: %q", ErrNoBaseName, archivePath)
	}

	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = base
	}

	return stem, nil
}

// Root returns the output root directory.
func (o *Output) Root() string {
	return o.root.path
}

// Files returns the number of files created so far.
func (o *Output) Files() int {
	return o.files
}

// Bytes returns the number of payload bytes written so far.
func (o *Output) Bytes() int64 {
	return o.bytes
}

// Create resolves dir and name to a collision-free sanitized location and
// opens it for writing. Missing directories along dir are created once and reused.
func (o *Output) Create(dir string, name string) (*os.File, error) {
	node := o.root
	for _, segment := range NormalizePath(dir) {
		child, err := node.child(segment, o.warn)
		if err != nil {
			return nil, err
		}

		node = child
	}

	outName := node.claimFile(name, o.warn)
	outPath := filepath.Join(node.path, outName)
	file, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", outPath, err)
	}

	o.files++
	return file, nil
}

// child returns the node for an original segment, creating its directory on first use.
func (d *outputDir) child(segment string, w *warner) (*outputDir, error) {
	if node, ok := d.children[segment]; ok {
		return node, nil
	}

	name := d.claim(SanitizeName(segment))
	if name != segment {
		w.warnf(WarningRenamed, segment, "invalid directory name '%s' in archive, outputting as '%s'", segment, name)
	}

	dirPath := filepath.Join(d.path, name)
	if err := os.Mkdir(dirPath, dirMode); err != nil && !errors.Is(err, fs.ErrExist) {
		return nil, fmt.Errorf("create output directory %s: %w", dirPath, err)
	}

	node := newOutputDir(dirPath, d.foldCase)
	d.children[segment] = node
	return node, nil
}

// claimFile picks the output name for an original file name in this node.
func (d *outputDir) claimFile(original string, w *warner) string {
	if _, seen := d.encountered[original]; seen {
		w.warnf(WarningDuplicateName, original, "duplicate file '%s' in archive", original)
	}
	d.encountered[original] = struct{}{}

	name := d.claim(SanitizeName(original))
	if name != original {
		w.warnf(WarningRenamed, original, "invalid or duplicate file name '%s' in archive, outputting as '%s'", original, name)
	}

	return name
}

// claim reserves sanitized in this node, appending "_2", "_3", ... on collision.
// With foldCase, names differing only in case also collide.
func (d *outputDir) claim(sanitized string) string {
	name := sanitized
	for n := 2; ; n++ {
		key := name
		if d.foldCase {
			key = strings.ToLower(name)
		}
		if _, used := d.emitted[key]; !used {
			d.emitted[key] = struct{}{}
			return name
		}

		name = withNumericSuffix(sanitized, n)
	}
}
