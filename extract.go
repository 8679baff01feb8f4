// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"io"
	"os"
	"time"
)

// extraction holds per-run state. Entries are processed strictly one at a time.
type extraction struct {
	src    io.ReadSeeker
	out    *Output
	warn   *warner
	filter *entryFilter
	opts   ExtractOptions
	// buf is the bounded transfer buffer shared by all entries of the run.
	buf     []byte
	skipped int
}

// ExtractFile extracts the archive at path into a fresh output root next to it
// (or under opts.Output.Dir). Files that are not archives yield a Result with
// KindUnknown and no error, and no output directory is created.
func ExtractFile(path string, opts ExtractOptions) (Result, error) {
	opts.applyDefaults()

	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	if Detect(f) == KindUnknown {
		return Result{Kind: KindUnknown}, nil
	}

	// Rules are validated before the output root exists.
	if _, err := newEntryFilter(opts.Rules, opts.MatcherOptions); err != nil {
		return Result{}, err
	}

	out, err := OpenOutput(path, opts.Output)
	if err != nil {
		return Result{}, err
	}

	return Extract(f, out, opts)
}

// Extract detects the archive kind of rs and writes every selected entry into out.
// A source that is not an archive yields KindUnknown and no error. Recoverable
// anomalies go to opts.OnWarning; the first fatal error aborts the run and is
// returned together with the partial Result.
func Extract(rs io.ReadSeeker, out *Output, opts ExtractOptions) (Result, error) {
	start := time.Now()
	if rs == nil {
		return Result{}, ErrNilReader
	}
	if out == nil {
		return Result{}, ErrNilOutput
	}

	opts.applyDefaults()

	kind := Detect(rs)
	if kind == KindUnknown {
		return Result{Kind: KindUnknown}, nil
	}

	filter, err := newEntryFilter(opts.Rules, opts.MatcherOptions)
	if err != nil {
		return Result{}, err
	}

	x := &extraction{
		src:    rs,
		out:    out,
		warn:   newWarner(opts.OnWarning),
		filter: filter,
		opts:   opts,
		buf:    make([]byte, transferBufferSize),
	}
	out.warn = x.warn

	filesBefore, bytesBefore := out.files, out.bytes
	switch kind {
	case KindPackFile:
		err = x.extractPackFile()
	case KindArchiveFile:
		err = x.extractArchiveFile()
	}

	return Result{
		Kind:     kind,
		Root:     out.Root(),
		Files:    out.files - filesBefore,
		Bytes:    out.bytes - bytesBefore,
		Skipped:  x.skipped,
		Warnings: x.warn.count,
		Duration: time.Since(start),
	}, err
}

// extractPackFile parses the whole 0.12m table, then extracts entries in table order.
func (x *extraction) extractPackFile() error {
	entries, err := readPackFileTable(x.src, x.warn)
	if err != nil {
		return err
	}

	for i := range entries {
		entry := &entries[i]
		if !x.filter.includes(entry) {
			x.skipped++
			continue
		}

		if err := x.extractEntry(entry, func() (io.ReadCloser, error) {
			return openPackFileEntry(x.src, entry)
		}); err != nil {
			return err
		}
	}

	return nil
}

// extractArchiveFile reads ph3 records one by one and extracts each before reading the next.
func (x *extraction) extractArchiveFile() error {
	ix, err := openArchiveFileIndex(x.src)
	if err != nil {
		return err
	}
	defer func() { _ = ix.Close() }()

	for ix.more() {
		entry, err := ix.read(x.warn)
		if err != nil {
			return err
		}

		if !x.filter.includes(&entry) {
			x.skipped++
			continue
		}

		if err := x.extractEntry(&entry, func() (io.ReadCloser, error) {
			return openArchiveFileEntry(x.src, &entry)
		}); err != nil {
			return err
		}
	}

	return nil
}

// extractEntry opens one payload and streams it through bounded transfer.
// open may refine entry metadata, so entry is read only after it returns.
func (x *extraction) extractEntry(entry *EntryInfo, open func() (io.ReadCloser, error)) error {
	rc, err := open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()

	return x.transferEntry(*entry, rc, entry.Size)
}
