// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"bytes"
	"io"
)

// Detect classifies rs by its leading signature. Read and seek failures count
// as a mismatch, so Detect never fails. The read position is left at the start
// of the source; callers must seek past the magic before parsing.
func Detect(rs io.ReadSeeker) Kind {
	if rs == nil {
		return KindUnknown
	}

	switch {
	case hasMagicAtStart(rs, packFileMagic):
		return KindPackFile
	case hasMagicAtStart(rs, archiveFileMagic):
		return KindArchiveFile
	default:
		return KindUnknown
	}
}

// hasMagicAtStart rewinds rs, compares its first len(magic) bytes and rewinds again.
func hasMagicAtStart(rs io.ReadSeeker, magic []byte) bool {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return false
	}

	ok := hasMagic(rs, magic)
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return false
	}

	return ok
}

// hasMagic reads len(magic) bytes at the current position and compares them.
func hasMagic(r io.Reader, magic []byte) bool {
	buf := make([]byte, len(magic))
	if _, err := io.ReadFull(r, buf); err != nil {
		return false
	}

	return bytes.Equal(buf, magic)
}
