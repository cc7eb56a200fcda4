package section

import (
	"fmt"
	"strings"

	"github.com/mbrengel/memscrimper/errs"
	"github.com/mbrengel/memscrimper/format"
)

// innerTokens lists the recognized trailing codec tokens, longest first so
// a suffix match can't stop short on a token that is itself a suffix of a
// longer one (none of these actually collide, but the order keeps the
// matching unambiguous if the set ever grows).
var innerTokens = []string{"bzip2", "zstd", "gzip", "7zip", "lz4", "s2"}

// Method is the parsed form of a method name (spec §3/§6):
// "interdedup[nointra][<tag>delta][<inner>]".
type Method struct {
	NoIntra bool

	// DeltaEnabled and DeltaTag together describe the optional
	// "<tag>delta" middle section. DeltaTag may be empty even when
	// DeltaEnabled is true (the CLI's "-enable-delta" without a "-delta" tag).
	DeltaEnabled bool
	DeltaTag     string

	Inner format.InnerCodec
}

// BuildMethodName renders m back into its wire string form.
func BuildMethodName(m Method) string {
	var b strings.Builder
	b.WriteString("interdedup")
	if m.NoIntra {
		b.WriteString("nointra")
	}
	if m.DeltaEnabled {
		b.WriteString(m.DeltaTag)
		b.WriteString("delta")
	}
	b.WriteString(m.Inner.String())

	return b.String()
}

// ParseMethodName parses a method string per the grammar
// interdedup(nointra)?([A-Za-z0-9]*delta)?(gzip|bzip2|7zip|zstd|s2|lz4)?.
//
// The inner codec is matched against the fixed set of known trailing
// tokens rather than scanned for, which sidesteps the ambiguity the
// original parser has when a delta tag happens to contain the substring
// "delta" (see the open-question decision this resolves).
func ParseMethodName(s string) (Method, error) {
	const prefix = "interdedup"
	if !strings.HasPrefix(s, prefix) {
		return Method{}, fmt.Errorf("%w: %q missing %q prefix", errs.ErrBadMethod, s, prefix)
	}
	rest := s[len(prefix):]

	var m Method
	if strings.HasPrefix(rest, "nointra") {
		m.NoIntra = true
		rest = rest[len("nointra"):]
	}

	m.Inner = format.InnerNone
	for _, tok := range innerTokens {
		if strings.HasSuffix(rest, tok) {
			code, ok := format.ParseInnerCodec(tok)
			if !ok {
				continue
			}
			m.Inner = code
			rest = strings.TrimSuffix(rest, tok)

			break
		}
	}

	if rest == "" {
		return m, nil
	}
	if !strings.HasSuffix(rest, "delta") {
		return Method{}, fmt.Errorf("%w: %q", errs.ErrBadMethod, s)
	}

	m.DeltaEnabled = true
	m.DeltaTag = strings.TrimSuffix(rest, "delta")

	return m, nil
}
