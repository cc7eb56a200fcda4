package dump

import (
	"fmt"
	"io"
	"sort"

	"github.com/mbrengel/memscrimper/compress"
	"github.com/mbrengel/memscrimper/encoding"
	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/errs"
	"github.com/mbrengel/memscrimper/internal/collision"
	"github.com/mbrengel/memscrimper/internal/options"
	"github.com/mbrengel/memscrimper/internal/pool"
	"github.com/mbrengel/memscrimper/section"
)

// Encode classifies target against ref and writes a complete container
// (header followed by the outer-wrapped payload) to w, per the section
// order in spec §4.6. refPath is recorded verbatim as the payload's
// leading field so a decoder knows where to find the reference dump.
func Encode(w io.Writer, refPath string, ref, target [][]byte, opts ...Option) (Stats, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return Stats{}, err
	}

	if len(ref) != len(target) {
		return Stats{}, fmt.Errorf("%w: reference has %d pages, target has %d", errs.ErrPageCountMismatch, len(ref), len(target))
	}
	if len(target) > encoding.MaxPageNr {
		return Stats{}, fmt.Errorf("%w: %d pages exceeds maximum %d", errs.ErrPageNrOutOfRange, len(target), encoding.MaxPageNr)
	}
	for i, t := range target {
		if len(t) != int(cfg.PageSize) || len(ref[i]) != int(cfg.PageSize) {
			return Stats{}, fmt.Errorf("%w: page %d does not match pagesize %d", errs.ErrPageSizeMismatch, i, cfg.PageSize)
		}
	}

	wrapped, stats, err := buildPayload(refPath, ref, target, cfg)
	if err != nil {
		return Stats{}, err
	}

	header := section.NewHeader(
		section.BuildMethodName(cfg.Method()),
		cfg.PageSize,
		uint64(len(target))*uint64(cfg.PageSize),
	)
	if err := header.WriteTo(w, endian.GetLittleEndianEngine()); err != nil {
		return Stats{}, err
	}
	if _, err := w.Write(wrapped); err != nil {
		return Stats{}, fmt.Errorf("memscrimper: write payload: %w", err)
	}

	return stats, nil
}

// buildPayload assembles the inner byte stream and wraps it with the
// configured outer codec, returning the final bytes to place after the
// header. The inner stream is staged in a pooled buffer (spec §9
// "Temporary staging" note: an in-memory buffer replaces the original's
// temp file since the outer codec here is an in-process library, not a
// child process needing a real file descriptor).
func buildPayload(refPath string, ref, target [][]byte, cfg *Config) ([]byte, Stats, error) {
	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	buf.MustWrite(append([]byte(refPath), 0))

	engine := endian.GetLittleEndianEngine()
	classifier := NewClassifier(ref)

	fillTargets := make(map[uint32][]uint32)
	var deltaPagenrs []uint32
	deltaBlocks := make(map[uint32][]byte)
	var newPagenrs []uint32
	newContent := make(map[uint32][]byte)

	stats := Stats{}

	for j := range target {
		jj := uint32(j) //nolint:gosec
		r, t := ref[j], target[j]

		if classifier.SameOffset(r, t) {
			stats.SameOffset++
			continue
		}

		if src, ok := classifier.DedupSource(t); ok {
			fillTargets[src] = append(fillTargets[src], jj)
			stats.Dedup++
			continue
		}

		if cfg.DeltaEnabled && tryDelta(engine, r, t, deltaBlocks, jj) {
			deltaPagenrs = append(deltaPagenrs, jj)
			stats.Delta++
			continue
		}

		newPagenrs = append(newPagenrs, jj)
		newContent[jj] = t
		stats.New++
	}

	if err := writeDedupSection(buf, engine, fillTargets); err != nil {
		return nil, Stats{}, err
	}
	if cfg.DeltaEnabled {
		if err := writeDeltaSection(buf, engine, deltaPagenrs, deltaBlocks); err != nil {
			return nil, Stats{}, err
		}
	}
	if cfg.NoIntra {
		if err := writeNewPagesNoIntra(buf, engine, newPagenrs, newContent); err != nil {
			return nil, Stats{}, err
		}
	} else {
		if err := writeNewPagesIntra(buf, engine, newPagenrs, newContent); err != nil {
			return nil, Stats{}, err
		}
	}

	codec, err := compress.CreateCodec(cfg.Inner, "payload")
	if err != nil {
		return nil, Stats{}, err
	}
	wrapped, err := codec.Compress(buf.Bytes())
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%w: %w", errs.ErrOuterCodecFailure, err)
	}

	return wrapped, stats, nil
}

// tryDelta attempts to encode ref->target as a delta within budget,
// recording it in deltaBlocks on success. Returns false (leaving
// deltaBlocks untouched) if the delta would be oversize.
func tryDelta(engine endian.EndianEngine, r, t []byte, deltaBlocks map[uint32][]byte, j uint32) bool {
	dw := encoding.NewWriter(engine)
	defer dw.Reset()

	ok, err := encoding.EncodeDeltaBlock(dw, r, t)
	if err != nil || !ok {
		return false
	}

	deltaBlocks[j] = append([]byte(nil), dw.Bytes()...)

	return true
}

// writeDedupSection emits the pagenr-list of distinct reference pagenrs
// (sorted ascending, which is equivalent to first-appearance-in-R order:
// a reference pagenr is always the first occurrence of its content) and,
// for each, the interval list of target pagenrs it fills.
func writeDedupSection(buf *pool.ByteBuffer, engine endian.EndianEngine, fillTargets map[uint32][]uint32) error {
	refPagenrs := make([]uint32, 0, len(fillTargets))
	for src := range fillTargets {
		refPagenrs = append(refPagenrs, src)
	}
	sort.Slice(refPagenrs, func(a, b int) bool { return refPagenrs[a] < refPagenrs[b] })

	pw := encoding.NewWriter(engine)
	pw.WritePagenrList(refPagenrs)
	buf.MustWrite(pw.Bytes())
	pw.Reset()

	for _, src := range refPagenrs {
		iw := encoding.NewWriter(engine)
		if err := iw.WriteIntervalList(encoding.Intervalize(fillTargets[src])); err != nil {
			iw.Reset()

			return err
		}
		buf.MustWrite(iw.Bytes())
		iw.Reset()
	}

	return nil
}

// writeDeltaSection emits the pagenr-list of target pagenrs carrying a
// delta, in ascending order, followed by their encoded delta blocks in
// the same order.
func writeDeltaSection(buf *pool.ByteBuffer, engine endian.EndianEngine, deltaPagenrs []uint32, deltaBlocks map[uint32][]byte) error {
	pw := encoding.NewWriter(engine)
	pw.WritePagenrList(deltaPagenrs)
	buf.MustWrite(pw.Bytes())
	pw.Reset()

	for _, j := range deltaPagenrs {
		buf.MustWrite(deltaBlocks[j])
	}

	return nil
}

// writeNewPagesNoIntra emits the nointra new-pages variant: an explicit
// u32 count guard (open-question decision (b), since the interval codec
// cannot represent zero intervals), the interval list if non-empty, then
// each page's content in pagenr order.
func writeNewPagesNoIntra(buf *pool.ByteBuffer, engine endian.EndianEngine, newPagenrs []uint32, newContent map[uint32][]byte) error {
	var countBuf [4]byte
	engine.PutUint32(countBuf[:], uint32(len(newPagenrs))) //nolint:gosec
	buf.MustWrite(countBuf[:])

	if len(newPagenrs) > 0 {
		iw := encoding.NewWriter(engine)
		if err := iw.WriteIntervalList(encoding.Intervalize(newPagenrs)); err != nil {
			iw.Reset()

			return err
		}
		buf.MustWrite(iw.Bytes())
		iw.Reset()
	}

	for _, j := range newPagenrs {
		buf.MustWrite(newContent[j])
	}

	return nil
}

// newGroup is one distinct new-page content and the target pagenrs it fills.
type newGroup struct {
	content []byte
	pagenrs []uint32
}

// writeNewPagesIntra emits the intra new-pages variant: a u32 count of
// distinct new contents, then one interval list per distinct content in
// first-occurrence-in-target order, then the contents themselves in that
// same order.
func writeNewPagesIntra(buf *pool.ByteBuffer, engine endian.EndianEngine, newPagenrs []uint32, newContent map[uint32][]byte) error {
	groupIndex := collision.NewIndex[int]()
	var groups []newGroup

	for _, j := range newPagenrs {
		content := newContent[j]
		idx, existed := groupIndex.GetOrInsert(content, len(groups))
		if existed {
			groups[idx].pagenrs = append(groups[idx].pagenrs, j)
		} else {
			groups = append(groups, newGroup{content: content, pagenrs: []uint32{j}})
		}
	}

	var countBuf [4]byte
	engine.PutUint32(countBuf[:], uint32(len(groups))) //nolint:gosec
	buf.MustWrite(countBuf[:])

	for _, g := range groups {
		iw := encoding.NewWriter(engine)
		if err := iw.WriteIntervalList(encoding.Intervalize(g.pagenrs)); err != nil {
			iw.Reset()

			return err
		}
		buf.MustWrite(iw.Bytes())
		iw.Reset()
	}
	for _, g := range groups {
		buf.MustWrite(g.content)
	}

	return nil
}
