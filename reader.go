// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

const (
	// readerTableBufferSize is a sequential read buffer for 0.12m table parsing.
	readerTableBufferSize = 64 * 1024
	// maxPreallocEntries bounds capacity reserved from an untrusted entry count.
	maxPreallocEntries = 8192
	// archiveFilePreambleSize is entry count, compressed flag and header block size.
	archiveFilePreambleSize = 4 + 1 + 4
)

// readPackFileTable parses the full 0.12m entry table. Payloads are not touched.
func readPackFileTable(rs io.ReadSeeker, w *warner) ([]EntryInfo, error) {
	if _, err := rs.Seek(int64(len(packFileMagic)), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek entry table: %w", err)
	}

	br := bufio.NewReaderSize(rs, readerTableBufferSize)
	count, err := readUint32(br)
	if err != nil {
		return nil, fmt.Errorf("read entry count: %w", err)
	}

	entries := make([]EntryInfo, 0, min(count, maxPreallocEntries))
	for i := uint32(0); i < count; i++ {
		name, err := readNarrowName(br, w)
		if err != nil {
			return nil, fmt.Errorf("read entry %d: %w", i, err)
		}

		var fields [8]byte
		if _, err := io.ReadFull(br, fields[:]); err != nil {
			return nil, fmt.Errorf("read entry %d fields: %w", i, err)
		}

		length := uint64(binary.LittleEndian.Uint32(fields[4:8]))
		entries = append(entries, EntryInfo{
			Name:       name,
			Offset:     uint64(binary.LittleEndian.Uint32(fields[0:4])),
			StoredSize: length,
			Size:       length,
		})
	}

	return entries, nil
}

// archiveFileIndex streams ph3 entry records from the in-memory header block.
type archiveFileIndex struct {
	// header yields header block bytes, decompressed when the block is compressed.
	header io.Reader
	// closer releases the decompressor, when one is used.
	closer io.Closer
	// count is the declared number of entries.
	count uint32
	// next is the index of the next record to read.
	next uint32
}

// openArchiveFileIndex reads the ph3 preamble and buffers the header block.
func openArchiveFileIndex(rs io.ReadSeeker) (*archiveFileIndex, error) {
	if _, err := rs.Seek(int64(len(archiveFileMagic)), io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek header: %w", err)
	}

	var preamble [archiveFilePreambleSize]byte
	if _, err := io.ReadFull(rs, preamble[:]); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	count := binary.LittleEndian.Uint32(preamble[0:4])
	compressed := preamble[4] != 0
	size := binary.LittleEndian.Uint32(preamble[5:9])
	if uint64(size) > uint64(math.MaxInt) {
		return nil, fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, size)
	}

	block, err := readExactly(rs, int64(size))
	if err != nil {
		return nil, fmt.Errorf("read header block: %w", err)
	}

	ix := &archiveFileIndex{
		header: bytes.NewReader(block),
		count:  count,
	}

	if compressed {
		zs, err := openZlibStream(ix.header, "header block")
		if err != nil {
			return nil, err
		}

		ix.header = bufio.NewReader(zs)
		ix.closer = zs
	}

	return ix, nil
}

// more reports whether records remain.
func (ix *archiveFileIndex) more() bool {
	return ix.next < ix.count
}

// read parses the next entry record.
func (ix *archiveFileIndex) read(w *warner) (EntryInfo, error) {
	i := ix.next
	ix.next++

	// Leading record length is informational only.
	if _, err := readUint32(ix.header); err != nil {
		return EntryInfo{}, fmt.Errorf("read entry %d length: %w", i, err)
	}

	dir, err := readWideName(ix.header, w)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("read entry %d directory: %w", i, err)
	}

	name, err := readWideName(ix.header, w)
	if err != nil {
		return EntryInfo{}, fmt.Errorf("read entry %d name: %w", i, err)
	}

	var fields [16]byte
	if _, err := io.ReadFull(ix.header, fields[:]); err != nil {
		return EntryInfo{}, fmt.Errorf("read entry %d fields: %w", i, err)
	}

	entry := EntryInfo{
		Dir:        dir,
		Name:       name,
		Compressed: binary.LittleEndian.Uint32(fields[0:4]) != 0,
		Size:       uint64(binary.LittleEndian.Uint32(fields[4:8])),
		Offset:     uint64(binary.LittleEndian.Uint32(fields[12:16])),
	}

	entry.StoredSize = entry.Size
	if entry.Compressed {
		entry.StoredSize = uint64(binary.LittleEndian.Uint32(fields[8:12]))
	}

	return entry, nil
}

// Close releases the header decompressor.
func (ix *archiveFileIndex) Close() error {
	if ix.closer == nil {
		return nil
	}

	return ix.closer.Close()
}
