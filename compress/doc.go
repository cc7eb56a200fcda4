// Package compress implements the "outer" codec that wraps a
// memscrimper container's inner payload: identity, gzip, bzip2, xz
// ("7zip" in the method-name grammar), zstd, s2, or lz4.
//
// Every codec implements Codec (Compressor + Decompressor). The outer
// codec is selected once per container via the method name (see the
// section package) and applied to the whole inner payload in a single
// pass — it has no visibility into the dedup/delta structure beneath it.
package compress
