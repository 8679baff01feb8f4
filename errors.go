// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import "errors"

// Sentinel errors for archive operations. Use errors.Is in callers.
var (
	// ErrNotArchive means the source carries neither known archive signature.
	ErrNotArchive = errors.New("not a Danmakufu 0.12m or ph3 archive")
	// ErrNilReader means the source reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilOutput means extraction was started without an output tree.
	ErrNilOutput = errors.New("output is nil")
	// ErrMalformedEntry means entry size fields are inconsistent with the layout.
	ErrMalformedEntry = errors.New("malformed archive entry")
	// ErrCorruptStream means the zlib decompressor rejected entry or header data.
	ErrCorruptStream = errors.New("corrupt compressed stream")
	// ErrHeaderTooLarge means the ph3 header block cannot be held in memory.
	ErrHeaderTooLarge = errors.New("archive header block exceeds addressable memory")
	// ErrNoBaseName means no output directory name can be derived from the archive path.
	ErrNoBaseName = errors.New("cannot derive output name from archive path")
	// ErrInvalidRules means one or more entry filter rules are invalid.
	ErrInvalidRules = errors.New("invalid entry filter rules")
)
