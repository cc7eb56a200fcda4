// Package memscrimper provides convenient top-level wrappers around the
// dump package for compressing one memory dump against a reference dump
// and decompressing it back.
//
// # Basic Usage
//
//	stats, err := memscrimper.Compress("dump1.img", "dump2.img", "dump2.mscr",
//	    memscrimper.WithDelta(""),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("same-offset=%d dedup=%d delta=%d new=%d\n",
//	    stats.SameOffset, stats.Dedup, stats.Delta, stats.New)
//
//	stats, err = memscrimper.Decompress("dump1.img", "dump2.mscr", "dump2.out")
//
// On fatal errors the destination file is never left partially written:
// output is staged to a sibling temporary file and renamed into place only
// once the operation fully succeeds.
//
// This package covers the common file-to-file path. For control over
// in-memory page slices, or for a reference dump that lives somewhere
// other than a plain file, use the dump package directly.
package memscrimper

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mbrengel/memscrimper/dump"
	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/errs"
	"github.com/mbrengel/memscrimper/format"
	"github.com/mbrengel/memscrimper/page"
	"github.com/mbrengel/memscrimper/section"
)

// Option configures a Compress call. It is an alias of dump.Option so
// callers never need to import the dump package just to pass options
// through.
type Option = dump.Option

// WithPageSize sets the page size both dumps are split into. The default is section.DefaultPageSize.
func WithPageSize(n uint32) Option { return dump.WithPageSize(n) }

// WithNoIntra disables intra-dump deduplication of repeated new-page content.
func WithNoIntra(enabled bool) Option { return dump.WithNoIntra(enabled) }

// WithDelta enables byte-diff delta encoding, tagged with the given
// identifier (an empty tag is valid; it just means the method name carries
// a bare "delta" suffix).
func WithDelta(tag string) Option { return dump.WithDelta(tag) }

// WithInner selects the outer (general-purpose) compressor wrapping the
// inner payload. The default is format.InnerNone.
func WithInner(codec format.InnerCodec) Option { return dump.WithInner(codec) }

// Compress reads referencePath and targetPath as sequences of fixed-size
// pages, classifies targetPath against referencePath, and writes a
// complete container to outPath. referencePath is recorded verbatim in
// the container so a later Decompress knows which dump it was built against.
func Compress(referencePath, targetPath, outPath string, opts ...Option) (dump.Stats, error) {
	cfg, err := dump.ResolveConfig(opts...)
	if err != nil {
		return dump.Stats{}, err
	}

	refFile, err := os.Open(referencePath)
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: open reference: %w", err)
	}
	defer refFile.Close()

	targetFile, err := os.Open(targetPath)
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: open target: %w", err)
	}
	defer targetFile.Close()

	if err := rejectExistingTarget(outPath); err != nil {
		return dump.Stats{}, err
	}

	ref, err := page.ReadAll(refFile, int(cfg.PageSize))
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: read reference: %w", err)
	}
	target, err := page.ReadAll(targetFile, int(cfg.PageSize))
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: read target: %w", err)
	}

	var stats dump.Stats
	err = writeAtomically(outPath, func(w *os.File) error {
		var encErr error
		stats, encErr = dump.Encode(w, referencePath, ref, target, opts...)

		return encErr
	})
	if err != nil {
		return dump.Stats{}, err
	}

	return stats, nil
}

// Decompress opens sourcePath (a container produced by Compress),
// reconstructs the dump it describes against referencePath, and writes
// the result to outPath. referencePath must be the same dump that was
// passed as the reference to the Compress call that produced sourcePath;
// it need not share the path recorded inside the container.
func Decompress(referencePath, sourcePath, outPath string) (dump.Stats, error) {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: open source: %w", err)
	}
	defer sourceFile.Close()

	header, err := section.ReadHeader(sourceFile, endian.GetLittleEndianEngine())
	if err != nil {
		return dump.Stats{}, err
	}

	refFile, err := os.Open(referencePath)
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: open reference: %w", err)
	}
	defer refFile.Close()

	if err := rejectExistingTarget(outPath); err != nil {
		return dump.Stats{}, err
	}

	ref, err := page.ReadAll(refFile, int(header.PageSize))
	if err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: read reference: %w", err)
	}

	if _, err := sourceFile.Seek(0, 0); err != nil {
		return dump.Stats{}, fmt.Errorf("memscrimper: rewind source: %w", err)
	}

	var stats dump.Stats
	err = writeAtomically(outPath, func(w *os.File) error {
		_, decStats, decErr := dump.Decode(w, sourceFile, ref)
		stats = decStats

		return decErr
	})
	if err != nil {
		return dump.Stats{}, err
	}

	return stats, nil
}

// rejectExistingTarget mirrors the original tool's safety check: refuse
// to clobber an output file that already holds data.
func rejectExistingTarget(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("memscrimper: stat target: %w", err)
	}
	if info.Size() > 0 {
		return fmt.Errorf("%w: %s", errs.ErrTargetExists, path)
	}

	return nil
}

// writeAtomically runs fn against a temporary file created alongside
// path, and renames it into place only if fn returns no error. On any
// failure the temporary file is removed and path is left untouched,
// satisfying the requirement that a fatal error never leaves the target
// in a partially-valid state.
func writeAtomically(path string, fn func(*os.File) error) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".mscr-*.tmp")
	if err != nil {
		return fmt.Errorf("memscrimper: create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err = fn(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("memscrimper: close temporary file: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("memscrimper: rename into place: %w", err)
	}

	return nil
}
