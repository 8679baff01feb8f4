// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"time"

	"github.com/woozymasta/pathrules"
)

// Binary layout signatures.
var (
	// packFileMagic opens Danmakufu 0.12m archives.
	packFileMagic = []byte("PACK_FILE\x00")
	// archiveFileMagic opens Danmakufu ph3 archives.
	archiveFileMagic = []byte("ArchiveFile")
	// compressZipMagic prefixes zlib-compressed 0.12m entry payloads.
	compressZipMagic = []byte("COMPRESS_ZIP\x00")
)

// Internal sizes and filesystem defaults.
const (
	// transferBufferSize is the intermediate buffer used by bounded transfer.
	transferBufferSize = 64 * 1024
	// compressedEntryOverhead is inner marker plus uncompressed size field.
	compressedEntryOverhead = 13 + 4
	// dirMode is used for every directory created under the output root.
	dirMode = 0o750
	// fileMode is used for every extracted file.
	fileMode = 0o640
	// DefaultOutputSuffix is appended to the archive stem to name the output root.
	DefaultOutputSuffix = "_extracted"
)

// Kind classifies a source by its leading signature.
type Kind int

// Archive kinds.
const (
	// KindUnknown means neither signature matched.
	KindUnknown Kind = iota
	// KindPackFile is the flat 0.12m table layout ("PACK_FILE\0").
	KindPackFile
	// KindArchiveFile is the nested ph3 directory layout ("ArchiveFile").
	KindArchiveFile
)

// String returns a short human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindPackFile:
		return "0.12m"
	case KindArchiveFile:
		return "ph3"
	default:
		return "unknown"
	}
}

// EntryInfo describes one archived file.
type EntryInfo struct {
	// Dir is the slash-delimited directory path; always empty for 0.12m archives.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
	// Name is the decoded file name as declared by the archive.
	Name string `json:"name" yaml:"name"`
	// Offset is the absolute payload position in the archive file.
	Offset uint64 `json:"offset" yaml:"offset"`
	// StoredSize is the payload size as stored in the archive.
	StoredSize uint64 `json:"stored_size" yaml:"stored_size"`
	// Size is the declared extracted size.
	Size uint64 `json:"size" yaml:"size"`
	// Compressed reports whether the payload is a zlib stream.
	Compressed bool `json:"compressed,omitempty" yaml:"compressed,omitempty"`
}

// Path returns Dir and Name joined with a slash.
func (e *EntryInfo) Path() string {
	if e.Dir == "" {
		return e.Name
	}

	return e.Dir + "/" + e.Name
}

// WarningKind identifies a recoverable condition met during extraction.
type WarningKind string

// Recoverable warning kinds.
const (
	// WarningDuplicateName means the same original name appeared twice in one directory.
	WarningDuplicateName WarningKind = "duplicate_name"
	// WarningRenamed means the output name differs from the declared name.
	WarningRenamed WarningKind = "renamed"
	// WarningNameEncoding means the name could not be decoded strictly.
	WarningNameEncoding WarningKind = "name_encoding"
	// WarningShortPayload means the payload ended before the declared size.
	WarningShortPayload WarningKind = "short_payload"
	// WarningLongPayload means the payload held more data than declared and was truncated.
	WarningLongPayload WarningKind = "long_payload"
)

// Warning is a recoverable extraction anomaly. It never aborts a run.
type Warning struct {
	Kind    WarningKind `json:"kind" yaml:"kind"`
	Entry   string      `json:"entry" yaml:"entry"`
	Message string      `json:"message" yaml:"message"`
}

// OutputOptions configures output root selection.
type OutputOptions struct {
	// Dir is the parent directory of the output root. Empty means the archive's directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`
	// Suffix is appended to the archive stem. Empty means DefaultOutputSuffix.
	Suffix string `json:"suffix,omitempty" yaml:"suffix,omitempty"`
	// FoldCase treats output names differing only in case as collisions.
	// Enable it when extracting onto a case-insensitive filesystem.
	FoldCase bool `json:"fold_case,omitempty" yaml:"fold_case,omitempty"`
}

// ExtractOptions configures Extract and ExtractFile.
type ExtractOptions struct {
	// OnWarning receives every recoverable warning. Nil logs warnings via apex/log.
	OnWarning func(w Warning) `json:"-" yaml:"-"`
	// OnEntryDone is called after one entry is fully written and closed.
	OnEntryDone func(entry EntryInfo, written int64, outputPath string) `json:"-" yaml:"-"`
	// Rules select entries by "dir/name" path; empty means all entries.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// MatcherOptions control rule matching.
	MatcherOptions pathrules.MatcherOptions `json:"matcher_options,omitzero" yaml:"matcher_options,omitzero"`
	// Output configures the output root used by ExtractFile.
	Output OutputOptions `json:"output,omitzero" yaml:"output,omitzero"`
}

// Result summarizes one extraction run.
type Result struct {
	// Kind is the detected archive kind; KindUnknown means nothing was extracted.
	Kind Kind `json:"kind" yaml:"kind"`
	// Root is the output root directory, empty when nothing was extracted.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
	// Files is the number of files written.
	Files int `json:"files" yaml:"files"`
	// Bytes is the total number of payload bytes written.
	Bytes int64 `json:"bytes" yaml:"bytes"`
	// Skipped is the number of entries excluded by Rules.
	Skipped int `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	// Warnings is the number of recoverable warnings raised.
	Warnings int `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Duration is end-to-end extraction time.
	Duration time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
}

// applyDefaults fills zero-valued output options with defaults.
func (opts *OutputOptions) applyDefaults() {
	if opts.Suffix == "" {
		opts.Suffix = DefaultOutputSuffix
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	opts.Output.applyDefaults()

	if opts.MatcherOptions == (pathrules.MatcherOptions{}) {
		opts.MatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionInclude,
		}
	}

	if opts.MatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.MatcherOptions.DefaultAction = pathrules.ActionInclude
	}
}
