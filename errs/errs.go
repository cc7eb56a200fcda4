// Package errs defines the sentinel errors returned by memscrimper's
// codec and container packages.
//
// Callers should compare with errors.Is against these sentinels rather
// than matching error strings. Call sites typically wrap a sentinel with
// additional context via fmt.Errorf("%w: ...", errs.ErrX, ...).
package errs

import "errors"

var (
	// ErrBadMagic is returned when a container's magic number does not match "MBCR".
	ErrBadMagic = errors.New("memscrimper: bad magic number")

	// ErrBadMethod is returned when a method name cannot be parsed into its components.
	ErrBadMethod = errors.New("memscrimper: bad method name")

	// ErrPageCountMismatch is returned when the reference and target dumps
	// have a different number of pages, or either is not a multiple of the page size.
	ErrPageCountMismatch = errors.New("memscrimper: reference and target page counts differ")

	// ErrPageSizeMismatch is returned when a page's length does not match
	// the page size in use (the configured one when encoding, the header's
	// when decoding), or when a container header declares a zero page size.
	ErrPageSizeMismatch = errors.New("memscrimper: page size mismatch")

	// ErrPageNrOutOfRange is returned when a page number exceeds 2^29-1,
	// the largest value the interval codec can represent.
	ErrPageNrOutOfRange = errors.New("memscrimper: page number out of range")

	// ErrDeltaOversize names the case where a delta's records would encode
	// to pagesize-2 bytes or more. No function returns it:
	// encoding.EncodeDeltaBlock reports that case with ok=false, and the
	// encoder then stores the page as new.
	ErrDeltaOversize = errors.New("memscrimper: delta exceeds budget")

	// ErrOuterCodecFailure is returned when the outer (general-purpose)
	// compressor fails to wrap or unwrap the inner payload.
	ErrOuterCodecFailure = errors.New("memscrimper: outer codec failure")

	// ErrOverlap is returned when a target page number appears in more
	// than one of {fills, diffs, newpages} while decoding, which indicates
	// a corrupt or hand-crafted file.
	ErrOverlap = errors.New("memscrimper: page number claimed by more than one section")

	// ErrTruncated is returned when EOF is reached before an expected
	// field or page could be fully read.
	ErrTruncated = errors.New("memscrimper: truncated input")

	// ErrInvalidHeaderSize names a header whose fixed-size fields have the
	// wrong length. No function returns it: section.ReadHeader reports a
	// short header as ErrTruncated.
	ErrInvalidHeaderSize = errors.New("memscrimper: invalid header size")

	// ErrTargetExists is returned when the requested output path already
	// exists and is non-empty, mirroring the original CLI's safety check.
	ErrTargetExists = errors.New("memscrimper: target already exists and is non-empty")
)
