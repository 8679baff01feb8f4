// SPDX-License-Identifier: MIT
// Copyright (c) 2026 Lymia
// Source: github.com/Lymia/th-dnh-archiver

package dnharchive

import (
	"fmt"
	"io"
)

// copyResult reports how a bounded copy ended.
type copyResult struct {
	// written is the number of bytes written to the sink.
	written int64
	// short reports that the source ended before the declared size.
	short bool
	// long reports that the source held data past the declared size.
	long bool
}

// transferEntry opens the output file for entry and streams exactly size bytes
// from src into it. Size mismatches are warnings; I/O failures are errors.
func (x *extraction) transferEntry(entry EntryInfo, src io.Reader, size uint64) error {
	file, err := x.out.Create(entry.Dir, entry.Name)
	if err != nil {
		return err
	}

	res, copyErr := copyBounded(file, src, size, x.buf)
	closeErr := file.Close()
	x.out.bytes += res.written

	if copyErr != nil {
		return fmt.Errorf("extract %s: %w", entry.Path(), copyErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", entry.Path(), closeErr)
	}

	if res.short {
		x.warn.warnf(WarningShortPayload, entry.Path(),
			"entry '%s' ended prematurely (expected %d bytes, got %d)", entry.Path(), size, res.written)
	}
	if res.long {
		x.warn.warnf(WarningLongPayload, entry.Path(),
			"entry '%s' contains more data than header suggests, truncating at %d bytes", entry.Path(), size)
	}

	if x.opts.OnEntryDone != nil {
		x.opts.OnEntryDone(entry, res.written, file.Name())
	}

	return nil
}

// copyBounded copies at most size bytes from src to dst through buf, then
// checks src once for surplus data. At most one surplus byte is consumed.
func copyBounded(dst io.Writer, src io.Reader, size uint64, buf []byte) (copyResult, error) {
	if len(buf) == 0 {
		return copyResult{}, io.ErrShortBuffer
	}

	var res copyResult
	remaining := size
	for remaining > 0 {
		chunk := buf
		if uint64(len(chunk)) > remaining {
			chunk = chunk[:remaining]
		}

		readN, readErr := src.Read(chunk)
		if readN > 0 {
			writeN, writeErr := dst.Write(chunk[:readN])
			res.written += int64(writeN)
			remaining -= uint64(writeN)

			if writeErr != nil {
				return res, writeErr
			}
			if writeN != readN {
				return res, io.ErrShortWrite
			}
		}

		if readErr == io.EOF {
			res.short = remaining > 0
			return res, nil
		}
		if readErr != nil {
			return res, readErr
		}
	}

	long, err := hasSurplus(src, buf[:1])
	if err != nil {
		return res, err
	}

	res.long = long
	return res, nil
}

// hasSurplus reads once more and reports whether src yielded any data.
func hasSurplus(src io.Reader, one []byte) (bool, error) {
	for {
		n, err := src.Read(one)
		if n > 0 {
			return true, nil
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}
