// Package collision provides a hash-bucketed content index that falls back
// to exact byte comparison whenever two distinct page contents share a
// digest.
//
// The classifier (spec §4.5) and the intra-dump new-page grouping both
// need a "have I seen this exact 4KiB page before, and if so what value
// did I associate with it" lookup over millions of pages. Keying a plain
// map by the full page content works but holds every distinct page twice
// (once as the map key, once in caller-owned storage); keying by xxHash64
// digest (internal/hash) avoids that, at the cost of needing to resolve
// collisions — two distinct pages that happen to share a digest — by
// falling back to bytes.Equal within the (short) bucket.
package collision

import (
	"bytes"

	"github.com/mbrengel/memscrimper/internal/hash"
)

type entry[V any] struct {
	content []byte
	value   V
}

// Index maps page content to an arbitrary value V, bucketed by xxHash64
// digest. It is not safe for concurrent use.
type Index[V any] struct {
	buckets map[uint64][]entry[V]
	count   int
}

// NewIndex creates an empty Index.
func NewIndex[V any]() *Index[V] {
	return &Index[V]{buckets: make(map[uint64][]entry[V])}
}

// Get returns the value associated with content, if any.
func (idx *Index[V]) Get(content []byte) (V, bool) {
	digest := hash.PageDigest(content)
	for _, e := range idx.buckets[digest] {
		if bytes.Equal(e.content, content) {
			return e.value, true
		}
	}

	var zero V

	return zero, false
}

// GetOrInsert returns the existing value for content if present (ok=true),
// otherwise inserts value under content and returns (value, false).
//
// Inserting a value for content that is already present is a no-op: the
// first value associated with a given content always wins, which is what
// the classifier needs for "first occurrence" semantics (spec §4.6).
func (idx *Index[V]) GetOrInsert(content []byte, value V) (V, bool) {
	if existing, ok := idx.Get(content); ok {
		return existing, true
	}

	digest := hash.PageDigest(content)
	idx.buckets[digest] = append(idx.buckets[digest], entry[V]{content: content, value: value})
	idx.count++

	return value, false
}

// Len returns the number of distinct contents tracked.
func (idx *Index[V]) Len() int {
	return idx.count
}
