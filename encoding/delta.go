package encoding

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/mbrengel/memscrimper/errs"
)

// maxPatchLen is the longest patch a single delta record may carry before
// it is split into a head/tail pair (spec §4.3 splitting rule).
const maxPatchLen = 2048

// maxShortRel and maxShortSize bound the two-byte record form: size-1 is
// written first and must stay below maxShortSize (its high bit
// distinguishes the record forms), and rel, the second byte, must not
// exceed maxShortRel.
const (
	maxShortRel  = 127
	maxShortSize = 128
)

// DeltaRecord is one patch within a delta block: copying Patch at the
// running offset (Rel bytes past the end of the previous record, or past
// the start of the page for the first record) transforms the reference
// page into the target page.
type DeltaRecord struct {
	Rel   uint32
	Patch []byte
}

// diffRecords scans ref and target byte-by-byte, producing a run of
// DeltaRecords. A gap of at most two agreeing bytes between two patches
// is absorbed into the earlier patch rather than starting a new record.
func diffRecords(ref, target []byte) []DeltaRecord {
	var raw []DeltaRecord
	var gap []byte
	previ := 0
	havePrev := false

	for i := range ref {
		if ref[i] == target[i] {
			gap = append(gap, target[i])
			continue
		}

		if len(gap) <= 2 && havePrev {
			last := &raw[len(raw)-1]
			last.Patch = append(last.Patch, gap...)
			last.Patch = append(last.Patch, target[i])
		} else {
			var rel uint32
			if !havePrev {
				rel = uint32(i) //nolint:gosec
			} else {
				rel = uint32(i - previ - len(raw[len(raw)-1].Patch)) //nolint:gosec
			}
			previ = i
			havePrev = true
			raw = append(raw, DeltaRecord{Rel: rel, Patch: []byte{target[i]}})
		}

		gap = gap[:0]
	}

	return splitLongPatches(raw)
}

func splitLongPatches(records []DeltaRecord) []DeltaRecord {
	out := make([]DeltaRecord, 0, len(records))
	for _, rec := range records {
		if len(rec.Patch) <= maxPatchLen {
			out = append(out, rec)
			continue
		}

		overhead := len(rec.Patch) - maxPatchLen
		out = append(out, DeltaRecord{Rel: rec.Rel, Patch: rec.Patch[:overhead]})
		out = append(out, DeltaRecord{Rel: 0, Patch: rec.Patch[overhead:]})
	}

	return out
}

func recordEncodedLen(rel uint32, size int) int {
	if rel <= maxShortRel && size-1 < maxShortSize {
		return 2 + size
	}

	return 3 + size
}

func encodeDeltaRecord(w *Writer, rel uint32, size int) {
	szMinus1 := size - 1
	if rel <= maxShortRel && szMinus1 < maxShortSize {
		w.writeByte(byte(szMinus1))
		w.writeByte(byte(rel))
		return
	}

	blop := (uint32(szMinus1) << 12) | rel //nolint:gosec
	w.writeByte(byte((blop&0xFF0000)>>16) | 0x80)
	w.writeByte(byte((blop & 0xFF00) >> 8))
	w.writeByte(byte(blop & 0xFF))
}

func decodeDeltaRecord(r io.Reader) (rel uint32, size int, err error) {
	var ab [2]byte
	if _, err := io.ReadFull(r, ab[:]); err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}

	a, b := ab[0], ab[1]
	if a&0x80 == 0x80 {
		a &^= 0x80
		var c [1]byte
		if _, err := io.ReadFull(r, c[:]); err != nil {
			return 0, 0, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}
		blop := uint32(a)<<16 | uint32(b)<<8 | uint32(c[0])
		rel = blop & 0xFFF
		size = int((blop&0xFFF000)>>12) + 1

		return rel, size, nil
	}

	return uint32(b), int(a) + 1, nil
}

// EncodeDeltaBlock tries to encode ref->target as a delta block (u16 record
// count followed by the records) and appends it to w.
//
// ok is false when the encoded records (not counting the u16 count) would
// reach pagesize-2 bytes or more, i.e. the whole block would reach pagesize;
// callers must then fall back to treating target as a new page (spec §4.3
// budget rule, §4.5 classifier step 4). Nothing is written to w when ok is
// false.
func EncodeDeltaBlock(w *Writer, ref, target []byte) (ok bool, err error) {
	if len(ref) != len(target) {
		return false, fmt.Errorf("%w: ref %d target %d", errs.ErrPageSizeMismatch, len(ref), len(target))
	}
	pagesize := len(ref)

	records := diffRecords(ref, target)
	if len(records) > math.MaxUint16 {
		return false, nil
	}

	total := 0
	for _, rec := range records {
		total += recordEncodedLen(rec.Rel, len(rec.Patch))
		if total+2 >= pagesize {
			return false, nil
		}
	}

	w.appendUint16(uint16(len(records))) //nolint:gosec
	for _, rec := range records {
		encodeDeltaRecord(w, rec.Rel, len(rec.Patch))
		w.writeBytes(rec.Patch)
	}

	return true, nil
}

// ReadDeltaBlock reads a delta block written by EncodeDeltaBlock.
func ReadDeltaBlock(r io.Reader) ([]DeltaRecord, error) {
	var countBytes [2]byte
	if _, err := io.ReadFull(r, countBytes[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	count := binary.LittleEndian.Uint16(countBytes[:])

	records := make([]DeltaRecord, 0, count)
	for i := 0; i < int(count); i++ {
		rel, size, err := decodeDeltaRecord(r)
		if err != nil {
			return nil, err
		}

		patch := make([]byte, size)
		if _, err := io.ReadFull(r, patch); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}

		records = append(records, DeltaRecord{Rel: rel, Patch: patch})
	}

	return records, nil
}

// ApplyDelta reconstructs a page by overlaying records onto a copy of ref.
func ApplyDelta(ref []byte, records []DeltaRecord) []byte {
	out := make([]byte, len(ref))
	copy(out, ref)

	offset := 0
	for _, rec := range records {
		offset += int(rec.Rel)
		copy(out[offset:offset+len(rec.Patch)], rec.Patch)
		offset += len(rec.Patch)
	}

	return out
}
