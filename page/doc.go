// Package page splits a dump into fixed-size pages.
//
// A dump's length must be a multiple of the page size; readers surface
// that invariant as an error rather than silently truncating a partial
// trailing page.
package page
