package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dsnet/compress/bzip2"
)

// Bzip2Compressor wraps the memscrimper inner payload with bzip2.
//
// The standard library's compress/bzip2 package is read-only, so the
// writer side comes from github.com/dsnet/compress/bzip2, which
// implements both directions of the format.
type Bzip2Compressor struct{}

var _ Codec = (*Bzip2Compressor)(nil)

// NewBzip2Compressor creates a new bzip2 compressor.
func NewBzip2Compressor() Bzip2Compressor {
	return Bzip2Compressor{}
}

// Compress compresses data with bzip2 at best-compression level, matching
// the original tool's compresslevel=9.
func (c Bzip2Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := bzip2.NewWriterLevel(&buf, bzip2.BestCompression)
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func (c Bzip2Compressor) Decompress(data []byte) ([]byte, error) {
	r, err := bzip2.NewReader(bytes.NewReader(data), nil)
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("bzip2: %w", err)
	}

	return out, nil
}
