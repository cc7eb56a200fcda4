package section

import (
	"bytes"
	"fmt"
	"io"

	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/errs"
)

// Header is the fixed-layout preamble every container opens with (spec
// §4.4/§6): magic, method name, version, page size, and the uncompressed
// size of the dump the artifact reconstructs. Unlike the rest of the wire
// format it is never wrapped by the outer codec, so the decoder can always
// read it to find out which codec to use for the remainder of the stream.
type Header struct {
	Method           string
	MajorVersion     uint16
	MinorVersion     uint16
	PageSize         uint32
	UncompressedSize uint64
}

// NewHeader builds a Header with the default version pair.
func NewHeader(method string, pagesize uint32, uncompressedSize uint64) Header {
	return Header{
		Method:           method,
		MajorVersion:     DefaultMajorVersion,
		MinorVersion:     DefaultMinorVersion,
		PageSize:         pagesize,
		UncompressedSize: uncompressedSize,
	}
}

// WriteTo serializes the header onto w: magic, method string, version,
// page size, uncompressed size, each field NUL-terminated where it's a
// string and fixed-width little-endian otherwise.
func (h Header) WriteTo(w io.Writer, engine endian.EndianEngine) error {
	if _, err := w.Write(append([]byte(Magic), 0)); err != nil {
		return fmt.Errorf("memscrimper: write magic: %w", err)
	}
	if _, err := w.Write(append([]byte(h.Method), 0)); err != nil {
		return fmt.Errorf("memscrimper: write method: %w", err)
	}

	var fixed [16]byte
	engine.PutUint16(fixed[0:2], h.MajorVersion)
	engine.PutUint16(fixed[2:4], h.MinorVersion)
	engine.PutUint32(fixed[4:8], h.PageSize)
	engine.PutUint64(fixed[8:16], h.UncompressedSize)
	if _, err := w.Write(fixed[:]); err != nil {
		return fmt.Errorf("memscrimper: write header fields: %w", err)
	}

	return nil
}

// ReadHeader parses a Header written by WriteTo, verifying the magic
// number. It reads r one byte at a time for the NUL-terminated strings
// (via ReadCString) rather than wrapping r in a buffered reader: r is
// typically the same stream the caller goes on to read the wrapped
// payload from immediately afterward, and a buffered reader would
// silently consume payload bytes into a buffer that's discarded once
// ReadHeader returns.
func ReadHeader(r io.Reader, engine endian.EndianEngine) (Header, error) {
	magic, err := ReadCString(r)
	if err != nil {
		return Header{}, fmt.Errorf("memscrimper: read magic: %w", err)
	}
	if magic != Magic {
		return Header{}, fmt.Errorf("%w: got %q", errs.ErrBadMagic, magic)
	}

	method, err := ReadCString(r)
	if err != nil {
		return Header{}, fmt.Errorf("memscrimper: read method: %w", err)
	}

	var fixed [16]byte
	if _, err := io.ReadFull(r, fixed[:]); err != nil {
		return Header{}, fmt.Errorf("%w: header fields: %w", errs.ErrTruncated, err)
	}

	return Header{
		Method:           method,
		MajorVersion:     engine.Uint16(fixed[0:2]),
		MinorVersion:     engine.Uint16(fixed[2:4]),
		PageSize:         engine.Uint32(fixed[4:8]),
		UncompressedSize: engine.Uint64(fixed[8:16]),
	}, nil
}

// ReadCString reads bytes up to and including a NUL terminator, returning
// everything before it. It reads one byte at a time via r.Read so it
// never consumes more of r than the string itself plus its terminator —
// safe to call on a stream that has more data after the string. Used for
// the header's magic and method fields, and by dump.Decode for the
// reference-path field (there r is an in-memory buffer, where the same
// one-byte-at-a-time discipline is just as correct, if less critical).
func ReadCString(r io.Reader) (string, error) {
	var buf bytes.Buffer

	var b [1]byte
	for {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return "", fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}
		if b[0] == 0 {
			return buf.String(), nil
		}
		buf.WriteByte(b[0])
	}
}
