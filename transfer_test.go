package dnharchive

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"
)

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

// patternBytes returns n deterministic non-zero bytes.
func patternBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = byte(i%251 + 1)
	}

	return out
}

func TestCopyBounded_ExactSizes(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, transferBufferSize - 1, transferBufferSize, transferBufferSize + 1, 3*transferBufferSize + 7} {
		data := patternBytes(n)
		var dst bytes.Buffer
		res, err := copyBounded(&dst, bytes.NewReader(data), uint64(n), make([]byte, transferBufferSize))
		if err != nil {
			t.Fatalf("n=%d: copyBounded: %v", n, err)
		}
		if res.short || res.long {
			t.Fatalf("n=%d: unexpected mismatch %+v", n, res)
		}
		if res.written != int64(n) || !bytes.Equal(dst.Bytes(), data) {
			t.Fatalf("n=%d: written=%d, content match=%v", n, res.written, bytes.Equal(dst.Bytes(), data))
		}
	}
}

func TestCopyBounded_ShortSource(t *testing.T) {
	t.Parallel()

	data := patternBytes(transferBufferSize + 10)
	var dst bytes.Buffer
	res, err := copyBounded(&dst, bytes.NewReader(data), uint64(len(data)+100), make([]byte, transferBufferSize))
	if err != nil {
		t.Fatalf("copyBounded: %v", err)
	}
	if !res.short || res.long {
		t.Fatalf("result=%+v, want short only", res)
	}
	if !bytes.Equal(dst.Bytes(), data) {
		t.Fatalf("partial output len=%d, want %d", dst.Len(), len(data))
	}
}

func TestCopyBounded_LongSourceTruncates(t *testing.T) {
	t.Parallel()

	data := patternBytes(100)
	src := bytes.NewReader(data)
	var dst bytes.Buffer
	res, err := copyBounded(&dst, src, 40, make([]byte, transferBufferSize))
	if err != nil {
		t.Fatalf("copyBounded: %v", err)
	}
	if res.short || !res.long {
		t.Fatalf("result=%+v, want long only", res)
	}
	if !bytes.Equal(dst.Bytes(), data[:40]) {
		t.Fatalf("output=%d bytes, want first 40", dst.Len())
	}
	// 40 copied plus one surplus byte read.
	if src.Len() != 59 {
		t.Fatalf("source remaining=%d, want 59", src.Len())
	}
}

func TestCopyBounded_ReaderShapes(t *testing.T) {
	t.Parallel()

	data := patternBytes(1000)
	readers := map[string]func() io.Reader{
		"one byte":       func() io.Reader { return iotest.OneByteReader(bytes.NewReader(data)) },
		"half":           func() io.Reader { return iotest.HalfReader(bytes.NewReader(data)) },
		"data with eof":  func() io.Reader { return iotest.DataErrReader(bytes.NewReader(data)) },
		"small buffered": func() io.Reader { return io.MultiReader(bytes.NewReader(data[:10]), bytes.NewReader(data[10:])) },
	}

	for name, newReader := range readers {
		var dst bytes.Buffer
		res, err := copyBounded(&dst, newReader(), uint64(len(data)), make([]byte, 64))
		if err != nil {
			t.Fatalf("%s: copyBounded: %v", name, err)
		}
		if res.short || res.long || !bytes.Equal(dst.Bytes(), data) {
			t.Fatalf("%s: result=%+v, content match=%v", name, res, bytes.Equal(dst.Bytes(), data))
		}
	}
}

func TestCopyBounded_Errors(t *testing.T) {
	t.Parallel()

	readErr := errors.New("boom")
	_, err := copyBounded(io.Discard, iotest.ErrReader(readErr), 10, make([]byte, 16))
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}

	_, err = copyBounded(failingWriter{}, bytes.NewReader(patternBytes(10)), 10, make([]byte, 16))
	if err == nil {
		t.Fatal("expected write error")
	}

	_, err = copyBounded(io.Discard, bytes.NewReader(nil), 0, nil)
	if !errors.Is(err, io.ErrShortBuffer) {
		t.Fatalf("expected io.ErrShortBuffer, got %v", err)
	}

	// Read failures during the surplus check are returned as errors.
	src := io.MultiReader(bytes.NewReader(patternBytes(4)), iotest.ErrReader(readErr))
	_, err = copyBounded(io.Discard, src, 4, make([]byte, 16))
	if !errors.Is(err, readErr) {
		t.Fatalf("expected surplus read error, got %v", err)
	}
}
