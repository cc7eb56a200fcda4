// Package format defines the small, shared enumerations used by the wire
// format: the outer (general-purpose) codec a container is wrapped with,
// and the classification a target page falls into relative to a reference.
package format

// InnerCodec identifies the general-purpose byte-stream compressor a
// container's payload is wrapped with, after the memscrimper-specific
// deduplication/delta encoding has already been applied.
type InnerCodec uint8

const (
	// InnerNone leaves the payload unwrapped (identity codec).
	InnerNone InnerCodec = iota + 1
	// InnerGzip wraps the payload with gzip.
	InnerGzip
	// InnerBzip2 wraps the payload with bzip2.
	InnerBzip2
	// InnerXz wraps the payload with xz (the method-name token is "7zip"
	// for historical compatibility with the original tool).
	InnerXz
	// InnerZstd wraps the payload with Zstandard.
	InnerZstd
	// InnerS2 wraps the payload with S2.
	InnerS2
	// InnerLz4 wraps the payload with LZ4.
	InnerLz4
)

// String returns the method-name token for the codec, e.g. "gzip", "" for InnerNone.
func (c InnerCodec) String() string {
	switch c {
	case InnerNone:
		return ""
	case InnerGzip:
		return "gzip"
	case InnerBzip2:
		return "bzip2"
	case InnerXz:
		return "7zip"
	case InnerZstd:
		return "zstd"
	case InnerS2:
		return "s2"
	case InnerLz4:
		return "lz4"
	default:
		return "unknown"
	}
}

// ParseInnerCodec maps a method-name token back to an InnerCodec.
// An empty string is the identity codec. ok is false for any unrecognized token.
func ParseInnerCodec(token string) (codec InnerCodec, ok bool) {
	switch token {
	case "":
		return InnerNone, true
	case "gzip":
		return InnerGzip, true
	case "bzip2":
		return InnerBzip2, true
	case "7zip":
		return InnerXz, true
	case "zstd":
		return InnerZstd, true
	case "s2":
		return InnerS2, true
	case "lz4":
		return InnerLz4, true
	default:
		return 0, false
	}
}

// PageClass is the category the classifier (spec §4.5) assigns to a
// target page relative to the reference dump. Tie-breaking among these
// is strict: SameOffset > Dedup > Delta > New.
type PageClass uint8

const (
	// PageSameOffset marks a target page byte-equal to the reference
	// page at the same page number. No record is emitted for it.
	PageSameOffset PageClass = iota + 1
	// PageDedup marks a target page byte-equal to some reference page
	// at a (possibly) different page number.
	PageDedup
	// PageDelta marks a target page expressible as a bounded byte-patch
	// over the reference page at the same page number.
	PageDelta
	// PageNew marks a target page covered by none of the above.
	PageNew
)

func (c PageClass) String() string {
	switch c {
	case PageSameOffset:
		return "same-offset"
	case PageDedup:
		return "dedup"
	case PageDelta:
		return "delta"
	case PageNew:
		return "new"
	default:
		return "unknown"
	}
}
