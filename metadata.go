// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"io"
	"os"
)

// ListEntries opens an archive and returns entry metadata without extracting payloads.
func ListEntries(path string) ([]EntryInfo, Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, KindUnknown, fmt.Errorf("open archive: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ListEntriesFromReader(f)
}

// ListEntriesFromReader parses entry metadata from a seekable source.
// For 0.12m archives each payload is peeked for the compression marker, so
// Compressed and Size reflect the stored data. Name decoding warnings are
// logged via apex/log.
func ListEntriesFromReader(rs io.ReadSeeker) ([]EntryInfo, Kind, error) {
	if rs == nil {
		return nil, KindUnknown, ErrNilReader
	}

	w := newWarner(nil)
	kind := Detect(rs)
	switch kind {
	case KindPackFile:
		entries, err := readPackFileTable(rs, w)
		if err != nil {
			return nil, kind, err
		}

		for i := range entries {
			if _, err := inspectPackFilePayload(rs, &entries[i]); err != nil {
				return nil, kind, err
			}
		}

		return entries, kind, nil
	case KindArchiveFile:
		ix, err := openArchiveFileIndex(rs)
		if err != nil {
			return nil, kind, err
		}
		defer func() { _ = ix.Close() }()

		entries := make([]EntryInfo, 0, min(ix.count, maxPreallocEntries))
		for ix.more() {
			entry, err := ix.read(w)
			if err != nil {
				return nil, kind, err
			}

			entries = append(entries, entry)
		}

		return entries, kind, nil
	default:
		return nil, KindUnknown, ErrNotArchive
	}
}
