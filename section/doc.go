// Package section implements the container header and method-name
// grammar that sit at the front of every memscrimper artifact: the
// fixed-layout preamble the decoder reads before it can even decide which
// outer codec unwraps the rest of the stream.
package section
