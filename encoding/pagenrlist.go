package encoding

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/mbrengel/memscrimper/errs"
)

// pagenrHighBit marks the single-byte short form of a pagenr-list entry.
const pagenrHighBit = 0x80

// WritePagenrList encodes a strictly-increasing list of page numbers as a
// little-endian u32 count followed by, for each entry, a delta from the
// previous entry (or the absolute value for the first): one byte with the
// high bit set when the delta is < 128, otherwise four big-endian bytes.
//
// The delta is biased by -1 (gap = pagenr - prev - 1) so that adjacent
// pagenrs always take the one-byte form.
func (w *Writer) WritePagenrList(pagenrs []uint32) {
	w.appendUint32(uint32(len(pagenrs))) //nolint:gosec

	var prev uint32
	havePrev := false
	for _, p := range pagenrs {
		var v uint32
		if !havePrev {
			v = p
		} else {
			v = p - prev - 1
		}

		if v < pagenrHighBit {
			w.writeByte(byte(v) | pagenrHighBit)
		} else {
			var b [4]byte
			binary.BigEndian.PutUint32(b[:], v)
			w.writeBytes(b[:])
		}

		prev = p
		havePrev = true
	}
}

// ReadPagenrList decodes a pagenr list written by WritePagenrList.
func ReadPagenrList(r io.Reader) ([]uint32, error) {
	var countBytes [4]byte
	if _, err := io.ReadFull(r, countBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	n := binary.LittleEndian.Uint32(countBytes[:])

	out := make([]uint32, 0, n)
	var prev uint32
	havePrev := false
	for i := uint32(0); i < n; i++ {
		var first [1]byte
		if _, err := io.ReadFull(r, first[:]); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}

		var v uint32
		if first[0]&pagenrHighBit == pagenrHighBit {
			v = uint32(first[0] &^ pagenrHighBit)
		} else {
			var rest [3]byte
			if _, err := io.ReadFull(r, rest[:]); err != nil {
				return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
			}
			v = uint32(first[0])<<24 | uint32(rest[0])<<16 | uint32(rest[1])<<8 | uint32(rest[2])
		}

		var p uint32
		if !havePrev {
			p = v
		} else {
			p = prev + v + 1
		}
		out = append(out, p)

		prev = p
		havePrev = true
	}

	return out, nil
}
