// Package encoding implements the three wire codecs the container payload
// is built from: interval lists (run-encoded ascending pagenr ranges),
// pagenr lists (delta-encoded pagenr sequences), and page deltas (bounded
// byte-level patches between two same-size pages).
//
// All three share the Writer type for accumulating encoded bytes into a
// pooled buffer; decoding reads directly from an io.Reader since sections
// are parsed back-to-back from a single payload stream.
package encoding
