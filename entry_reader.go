// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"io"
)

// nopCloser wraps a reader and provides a no-op close.
type nopCloser struct {
	io.Reader
}

// Close closes nopCloser (no-op).
func (nopCloser) Close() error {
	return nil
}

// inspectPackFilePayload seeks to a 0.12m payload and checks for the inner
// compression marker. It fills entry.Compressed and entry.Size and returns the
// stored payload positioned at its first data byte.
func inspectPackFilePayload(rs io.ReadSeeker, entry *EntryInfo) (io.Reader, error) {
	if _, err := rs.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek entry %s: %w", entry.Name, err)
	}

	if hasMagic(rs, compressZipMagic) {
		if entry.StoredSize < compressedEntryOverhead {
			return nil, fmt.Errorf("%w: entry %s length %d is smaller than compressed header (%d bytes)",
				ErrMalformedEntry, entry.Name, entry.StoredSize, compressedEntryOverhead)
		}

		size, err := readUint32(rs)
		if err != nil {
			return nil, fmt.Errorf("read entry %s uncompressed size: %w", entry.Name, err)
		}

		entry.Compressed = true
		entry.Size = uint64(size)
		return io.LimitReader(rs, int64(entry.StoredSize-compressedEntryOverhead)), nil
	}

	if _, err := rs.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek entry %s: %w", entry.Name, err)
	}

	entry.Compressed = false
	entry.Size = entry.StoredSize
	return io.LimitReader(rs, int64(entry.StoredSize)), nil
}

// openPackFileEntry opens a 0.12m payload stream yielding extracted content.
func openPackFileEntry(rs io.ReadSeeker, entry *EntryInfo) (io.ReadCloser, error) {
	stored, err := inspectPackFilePayload(rs, entry)
	if err != nil {
		return nil, err
	}

	if !entry.Compressed {
		return nopCloser{Reader: stored}, nil
	}

	return openZlibStream(stored, entry.Name)
}

// openArchiveFileEntry opens a ph3 payload stream yielding extracted content.
// ph3 offsets are absolute file positions, like 0.12m ones.
func openArchiveFileEntry(rs io.ReadSeeker, entry *EntryInfo) (io.ReadCloser, error) {
	if _, err := rs.Seek(int64(entry.Offset), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek entry %s: %w", entry.Path(), err)
	}

	stored := io.LimitReader(rs, int64(entry.StoredSize))
	if !entry.Compressed {
		return nopCloser{Reader: stored}, nil
	}

	return openZlibStream(stored, entry.Path())
}
