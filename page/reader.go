package page

import (
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/mbrengel/memscrimper/encoding"
	"github.com/mbrengel/memscrimper/errs"
)

// MaxCount is one past the largest number of pages a dump may hold: the
// page count is capped at encoding.MaxPageNr (2^29-1), the largest PageNr
// the interval codec can represent (spec §3), so a dump with MaxCount or
// more pages is rejected.
const MaxCount = encoding.MaxPageNr + 1

// Reader splits an underlying byte stream into fixed-size pages.
type Reader struct {
	r        io.Reader
	pagesize int
	err      error
}

// NewReader wraps r, yielding pagesize-byte pages from it.
func NewReader(r io.Reader, pagesize int) *Reader {
	return &Reader{r: r, pagesize: pagesize}
}

// All returns a lazy sequence of pages. Iteration stops cleanly at a
// clean EOF (a dump whose length is an exact multiple of pagesize), or
// early with Err set to errs.ErrPageCountMismatch if the stream ends
// mid-page, or early with Err set to the underlying I/O error.
func (rd *Reader) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		for {
			buf := make([]byte, rd.pagesize)
			n, err := io.ReadFull(rd.r, buf)
			switch {
			case errors.Is(err, io.EOF):
				return
			case errors.Is(err, io.ErrUnexpectedEOF):
				rd.err = fmt.Errorf("%w: trailing %d bytes are not a full page", errs.ErrPageCountMismatch, n)

				return
			case err != nil:
				rd.err = err

				return
			}

			if !yield(buf) {
				return
			}
		}
	}
}

// Err returns the error (if any) that stopped the most recent All iteration.
func (rd *Reader) Err() error {
	return rd.err
}

// ReadAll reads r to completion and returns every page. It rejects a
// dump whose length isn't a multiple of pagesize, and one whose page
// count reaches MaxCount.
func ReadAll(r io.Reader, pagesize int) ([][]byte, error) {
	rd := NewReader(r, pagesize)

	var pages [][]byte
	for p := range rd.All() {
		pages = append(pages, p)
	}
	if err := rd.Err(); err != nil {
		return nil, err
	}
	if len(pages) > encoding.MaxPageNr {
		return nil, fmt.Errorf("%w: %d pages exceeds maximum %d", errs.ErrPageNrOutOfRange, len(pages), encoding.MaxPageNr)
	}

	return pages, nil
}
