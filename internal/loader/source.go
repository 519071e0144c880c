package loader

import (
	"bytes"
	"io"
	"os"
)

// Source opens a fresh stream over the same image bytes on every call.
// Load reads it twice, so one-shot streams (request bodies, object-store
// readers) must be buffered with BytesSource or reopened via SourceFunc.
type Source interface {
	Open() (io.ReadCloser, error)
}

// SourceFunc adapts a plain function to Source.
type SourceFunc func() (io.ReadCloser, error)

func (f SourceFunc) Open() (io.ReadCloser, error) {
	return f()
}

// BytesSource serves an in-memory copy of the image.
type BytesSource []byte

func (b BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// FileSource reopens a file on disk.
type FileSource string

func (f FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(f))
}
