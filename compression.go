// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// zlibStream tags every decompressor failure with ErrCorruptStream.
type zlibStream struct {
	rc   io.ReadCloser
	name string
}

// openZlibStream returns a decompressing reader over src. The zlib header is
// read immediately, so a malformed stream fails here.
func openZlibStream(src io.Reader, name string) (*zlibStream, error) {
	rc, err := zlib.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptStream, name, err)
	}

	return &zlibStream{rc: rc, name: name}, nil
}

// Read implements io.Reader.
func (s *zlibStream) Read(p []byte) (int, error) {
	n, err := s.rc.Read(p)
	if err != nil && err != io.EOF {
		err = fmt.Errorf("%w: %s: %w", ErrCorruptStream, s.name, err)
	}

	return n, err
}

// Close releases decompressor state.
func (s *zlibStream) Close() error {
	return s.rc.Close()
}
