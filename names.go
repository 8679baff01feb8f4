// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// readUint32 reads one little-endian uint32.
func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readExactly reads n bytes without trusting n for the initial allocation.
func readExactly(r io.Reader, n int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) != n {
		return nil, io.ErrUnexpectedEOF
	}

	return data, nil
}

// readNarrowName reads a u32 length-prefixed 8-bit name.
// Everything from the first zero byte on is dropped. Decoding tries strict UTF-8,
// then Windows-31J, then lossy UTF-8 with a warning.
func readNarrowName(r io.Reader, w *warner) (string, error) {
	size, err := readUint32(r)
	if err != nil {
		return "", fmt.Errorf("read name length: %w", err)
	}

	raw, err := readExactly(r, int64(size))
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}

	return decodeNarrowName(raw, w), nil
}

// decodeNarrowName applies the 8-bit name decoding chain to raw bytes.
func decodeNarrowName(raw []byte, w *warner) string {
	if idx := bytes.IndexByte(raw, 0); idx >= 0 {
		raw = raw[:idx]
	}

	if utf8.Valid(raw) {
		return string(raw)
	}

	if name, ok := decodeShiftJIS(raw); ok {
		return name
	}

	name := strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	w.warnf(WarningNameEncoding, name, "entry '%s' has an invalid UTF-8 or Shift-JIS name", name)
	return name
}

// decodeShiftJIS decodes raw as Windows-31J and reports whether every byte was valid.
func decodeShiftJIS(raw []byte) (string, bool) {
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(raw)
	if err != nil {
		return "", false
	}

	// The x/text decoder substitutes U+FFFD instead of failing; Shift-JIS itself cannot encode it.
	if bytes.ContainsRune(decoded, utf8.RuneError) {
		return "", false
	}

	return string(decoded), true
}

// readWideName reads a u32 unit-count-prefixed UTF-16LE name.
func readWideName(r io.Reader, w *warner) (string, error) {
	count, err := readUint32(r)
	if err != nil {
		return "", fmt.Errorf("read name length: %w", err)
	}

	raw, err := readExactly(r, int64(count)*2)
	if err != nil {
		return "", fmt.Errorf("read name: %w", err)
	}

	units := make([]uint16, count)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(raw[i*2:])
	}

	return decodeWideName(units, w), nil
}

// decodeWideName decodes UTF-16 units, substituting U+FFFD with a warning on unpaired surrogates.
func decodeWideName(units []uint16, w *warner) string {
	name := string(utf16.Decode(units))
	if !validUTF16(units) {
		w.warnf(WarningNameEncoding, name, "entry '%s' has an invalid UTF-16 name", name)
	}

	return name
}

// validUTF16 reports whether every surrogate in units is correctly paired.
func validUTF16(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] >= 0xE000 {
				return false
			}
			i++
		case u >= 0xDC00 && u < 0xE000:
			return false
		}
	}

	return true
}
