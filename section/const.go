package section

const (
	// Magic is the fixed 4-byte container tag, written NUL-terminated.
	Magic = "MBCR"

	// DefaultMajorVersion and DefaultMinorVersion are the header versions
	// written by this implementation.
	DefaultMajorVersion uint16 = 1
	DefaultMinorVersion uint16 = 1

	// DefaultPageSize is used when a caller does not specify one.
	DefaultPageSize uint32 = 4096
)
