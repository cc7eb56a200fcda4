package compress

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ulikunitz/xz"
)

// XzCompressor wraps the memscrimper inner payload with xz (LZMA2).
//
// It is selected by the "7zip" method-name token, a holdover from the
// original tool which shelled out to the 7za binary; the wire format
// here is a plain .xz stream rather than a .7z container.
type XzCompressor struct{}

var _ Codec = (*XzCompressor)(nil)

// NewXzCompressor creates a new xz compressor.
func NewXzCompressor() XzCompressor {
	return XzCompressor{}
}

// Compress compresses data with xz.
func (c XzCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	w, err := xz.NewWriter(&buf)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}

	return buf.Bytes(), nil
}

// Decompress reverses Compress.
func (c XzCompressor) Decompress(data []byte) ([]byte, error) {
	r, err := xz.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("xz: %w", err)
	}

	return out, nil
}
