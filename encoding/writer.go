package encoding

import (
	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/internal/pool"
)

// Writer accumulates encoded section bytes into a pooled buffer.
//
// A Writer is single-use: call Reset when done with it so its buffer can be
// returned to the pool. It is not safe for concurrent use.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer backed by a buffer from the section pool.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		buf:    pool.GetSectionBuffer(),
		engine: engine,
	}
}

// Bytes returns the bytes written so far. The returned slice aliases the
// Writer's internal buffer and is invalidated by Reset.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// Reset clears the Writer's state and returns its buffer to the pool.
// The Writer must not be used after Reset.
func (w *Writer) Reset() {
	if w.buf != nil {
		pool.PutSectionBuffer(w.buf)
		w.buf = nil
	}
}

func (w *Writer) writeByte(b byte) {
	w.buf.MustWrite([]byte{b})
}

func (w *Writer) writeBytes(b []byte) {
	w.buf.MustWrite(b)
}
