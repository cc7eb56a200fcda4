package dump

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/mbrengel/memscrimper/compress"
	"github.com/mbrengel/memscrimper/encoding"
	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/errs"
	"github.com/mbrengel/memscrimper/section"
)

// Decode reads a complete container from r, reconstructs the target dump
// against ref, and writes it to w page by page. It returns the reference
// path recorded in the payload (spec §4.6 step 1) and diagnostic stats.
func Decode(w io.Writer, r io.Reader, ref [][]byte) (string, Stats, error) {
	engine := endian.GetLittleEndianEngine()

	header, err := section.ReadHeader(r, engine)
	if err != nil {
		return "", Stats{}, err
	}

	method, err := section.ParseMethodName(header.Method)
	if err != nil {
		return "", Stats{}, err
	}

	if header.PageSize == 0 {
		return "", Stats{}, fmt.Errorf("%w: zero page size", errs.ErrPageSizeMismatch)
	}
	if header.UncompressedSize%uint64(header.PageSize) != 0 {
		return "", Stats{}, fmt.Errorf("%w: uncompressed size is not a multiple of page size", errs.ErrPageCountMismatch)
	}
	count := int(header.UncompressedSize / uint64(header.PageSize))
	if count != len(ref) {
		return "", Stats{}, fmt.Errorf("%w: header declares %d pages, reference has %d", errs.ErrPageCountMismatch, count, len(ref))
	}
	for i, p := range ref {
		if len(p) != int(header.PageSize) {
			return "", Stats{}, fmt.Errorf("%w: reference page %d is %d bytes, want %d", errs.ErrPageSizeMismatch, i, len(p), header.PageSize)
		}
	}

	codec, err := compress.CreateCodec(method.Inner, "payload")
	if err != nil {
		return "", Stats{}, err
	}

	wrapped, err := io.ReadAll(r)
	if err != nil {
		return "", Stats{}, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	payload, err := codec.Decompress(wrapped)
	if err != nil {
		return "", Stats{}, fmt.Errorf("%w: %w", errs.ErrOuterCodecFailure, err)
	}

	br := bufio.NewReader(bytes.NewReader(payload))

	refPath, err := section.ReadCString(br)
	if err != nil {
		return "", Stats{}, err
	}

	fills, err := readDedupSection(br, engine)
	if err != nil {
		return "", Stats{}, err
	}

	diffs := make(map[uint32][]encoding.DeltaRecord)
	if method.DeltaEnabled {
		if diffs, err = readDeltaSection(br, fills); err != nil {
			return "", Stats{}, err
		}
	}

	var newpages map[uint32][]byte
	if method.NoIntra {
		newpages, err = readNewPagesNoIntra(br, engine, int(header.PageSize), fills, diffs)
	} else {
		newpages, err = readNewPagesIntra(br, engine, int(header.PageSize), fills, diffs)
	}
	if err != nil {
		return "", Stats{}, err
	}

	stats, err := reconstruct(w, ref, count, fills, diffs, newpages)
	if err != nil {
		return "", Stats{}, err
	}

	return refPath, stats, nil
}

func readDedupSection(br *bufio.Reader, engine endian.EndianEngine) (map[uint32]uint32, error) {
	refPagenrs, err := encoding.ReadPagenrList(br)
	if err != nil {
		return nil, err
	}

	fills := make(map[uint32]uint32)
	for _, src := range refPagenrs {
		intervals, err := encoding.ReadIntervalList(br, engine)
		if err != nil {
			return nil, err
		}
		for _, iv := range intervals {
			for j := iv.Left; j <= iv.Right; j++ {
				if _, exists := fills[j]; exists {
					return nil, errs.ErrOverlap
				}
				fills[j] = src
			}
		}
	}

	return fills, nil
}

func readDeltaSection(br *bufio.Reader, fills map[uint32]uint32) (map[uint32][]encoding.DeltaRecord, error) {
	deltaPagenrs, err := encoding.ReadPagenrList(br)
	if err != nil {
		return nil, err
	}

	diffs := make(map[uint32][]encoding.DeltaRecord)
	for _, j := range deltaPagenrs {
		records, err := encoding.ReadDeltaBlock(br)
		if err != nil {
			return nil, err
		}
		if _, exists := fills[j]; exists {
			return nil, errs.ErrOverlap
		}
		diffs[j] = records
	}

	return diffs, nil
}

func readNewPagesNoIntra(
	br *bufio.Reader, engine endian.EndianEngine, pagesize int,
	fills map[uint32]uint32, diffs map[uint32][]encoding.DeltaRecord,
) (map[uint32][]byte, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	n := engine.Uint32(countBuf[:])

	var pagenrs []uint32
	if n > 0 {
		intervals, err := encoding.ReadIntervalList(br, engine)
		if err != nil {
			return nil, err
		}
		for _, iv := range intervals {
			for j := iv.Left; j <= iv.Right; j++ {
				pagenrs = append(pagenrs, j)
			}
		}
	}

	newpages := make(map[uint32][]byte, len(pagenrs))
	for _, j := range pagenrs {
		content := make([]byte, pagesize)
		if _, err := io.ReadFull(br, content); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}
		if err := checkUnclaimed(j, fills, diffs, newpages); err != nil {
			return nil, err
		}
		newpages[j] = content
	}

	return newpages, nil
}

func readNewPagesIntra(
	br *bufio.Reader, engine endian.EndianEngine, pagesize int,
	fills map[uint32]uint32, diffs map[uint32][]encoding.DeltaRecord,
) (map[uint32][]byte, error) {
	var countBuf [4]byte
	if _, err := io.ReadFull(br, countBuf[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
	}
	k := int(engine.Uint32(countBuf[:]))

	groupPagenrs := make([][]uint32, k)
	for i := range k {
		intervals, err := encoding.ReadIntervalList(br, engine)
		if err != nil {
			return nil, err
		}
		for _, iv := range intervals {
			for j := iv.Left; j <= iv.Right; j++ {
				groupPagenrs[i] = append(groupPagenrs[i], j)
			}
		}
	}

	newpages := make(map[uint32][]byte)
	for i := range k {
		content := make([]byte, pagesize)
		if _, err := io.ReadFull(br, content); err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrTruncated, err)
		}
		for _, j := range groupPagenrs[i] {
			if err := checkUnclaimed(j, fills, diffs, newpages); err != nil {
				return nil, err
			}
			newpages[j] = content
		}
	}

	return newpages, nil
}

func checkUnclaimed(j uint32, fills map[uint32]uint32, diffs map[uint32][]encoding.DeltaRecord, newpages map[uint32][]byte) error {
	if _, exists := fills[j]; exists {
		return errs.ErrOverlap
	}
	if _, exists := diffs[j]; exists {
		return errs.ErrOverlap
	}
	if _, exists := newpages[j]; exists {
		return errs.ErrOverlap
	}

	return nil
}

func reconstruct(
	w io.Writer, ref [][]byte, count int,
	fills map[uint32]uint32, diffs map[uint32][]encoding.DeltaRecord, newpages map[uint32][]byte,
) (Stats, error) {
	stats := Stats{}

	for j := range count {
		jj := uint32(j) //nolint:gosec

		if src, ok := fills[jj]; ok {
			if _, err := w.Write(ref[src]); err != nil {
				return Stats{}, err
			}
			stats.Dedup++

			continue
		}
		if records, ok := diffs[jj]; ok {
			if _, err := w.Write(encoding.ApplyDelta(ref[jj], records)); err != nil {
				return Stats{}, err
			}
			stats.Delta++

			continue
		}
		if content, ok := newpages[jj]; ok {
			if _, err := w.Write(content); err != nil {
				return Stats{}, err
			}
			stats.New++

			continue
		}

		if _, err := w.Write(ref[jj]); err != nil {
			return Stats{}, err
		}
		stats.SameOffset++
	}

	return stats, nil
}
