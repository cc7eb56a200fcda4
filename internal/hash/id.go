package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given string.
func ID(data string) uint64 {
	return xxhash.Sum64String(data)
}

// PageDigest computes the xxHash64 of a page's raw bytes.
//
// Used to fingerprint reference and target pages (spec §5: "implementations
// SHOULD intern or hash pages to avoid holding two full copies") instead of
// using the full page content as a map key. A digest collision between two
// distinct page contents is possible; callers that need byte-exact equality
// must verify with the page bytes themselves (see internal/collision).
func PageDigest(page []byte) uint64 {
	return xxhash.Sum64(page)
}
