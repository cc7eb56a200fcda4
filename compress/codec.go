package compress

import (
	"fmt"

	"github.com/mbrengel/memscrimper/format"
)

// Compressor wraps a byte stream with a general-purpose, outer compression
// algorithm. It is applied once, after the memscrimper deduplication/delta
// codec has already produced its inner payload.
type Compressor interface {
	// Compress compresses data and returns the compressed result.
	//
	// Memory management:
	//   - Returned slice is owned by the caller; it is newly allocated,
	//     except that NoOpCompressor returns the input slice itself
	//   - Input slice is not modified
	Compress(data []byte) ([]byte, error)
}

// Decompressor reverses a Compressor. Implementations of the same
// InnerCodec must round-trip each other's output exactly.
type Decompressor interface {
	// Decompress decompresses data and returns the original result.
	//
	// Returns an error if data is corrupted or was produced by a
	// different codec.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both compression and decompression capabilities.
type Codec interface {
	Compressor
	Decompressor
}

// CreateCodec is a factory function that creates a Codec for the given
// outer codec, named by the "inner" token in the method-name grammar
// (spec.md §3/§6). target is used only to make error messages specific
// about which payload stage failed to select a codec.
func CreateCodec(inner format.InnerCodec, target string) (Codec, error) {
	switch inner {
	case format.InnerNone:
		return NewNoOpCompressor(), nil
	case format.InnerGzip:
		return NewGzipCompressor(), nil
	case format.InnerBzip2:
		return NewBzip2Compressor(), nil
	case format.InnerXz:
		return NewXzCompressor(), nil
	case format.InnerZstd:
		return NewZstdCompressor(), nil
	case format.InnerS2:
		return NewS2Compressor(), nil
	case format.InnerLz4:
		return NewLZ4Compressor(), nil
	default:
		return nil, fmt.Errorf("invalid %s inner codec: %s", target, inner)
	}
}
