// Package dump implements the inter-dump deduplication codec: classifying
// a target dump's pages against a reference, emitting the dedup/delta/
// new-page sections in the order the format requires, and reversing that
// process on decode.
package dump
