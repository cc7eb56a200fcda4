package dump

import (
	"bytes"

	"github.com/mbrengel/memscrimper/internal/collision"
)

// Classifier holds the reference-side index the classification rule
// (spec §4.5) consults: for each distinct reference page content, the
// pagenr of its first occurrence in the reference.
type Classifier struct {
	refFirst *collision.Index[uint32]
}

// NewClassifier precomputes the reference content index over ref.
func NewClassifier(ref [][]byte) *Classifier {
	idx := collision.NewIndex[uint32]()
	for i, page := range ref {
		idx.GetOrInsert(page, uint32(i)) //nolint:gosec
	}

	return &Classifier{refFirst: idx}
}

// SameOffset reports whether target page t at pagenr j is byte-equal to
// the reference page r at the same offset (classifier rule 1).
func (c *Classifier) SameOffset(r, t []byte) bool {
	return bytes.Equal(r, t)
}

// DedupSource reports the reference pagenr t should be filled from, if
// its content appears anywhere in the reference (classifier rule 2).
func (c *Classifier) DedupSource(t []byte) (uint32, bool) {
	return c.refFirst.Get(t)
}
