package section

import (
	"bytes"
	"io"
	"testing"

	"github.com/mbrengel/memscrimper/endian"
	"github.com/mbrengel/memscrimper/errs"
	"github.com/stretchr/testify/require"
)

func TestHeaderRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	h := NewHeader("interdedupnointraxordeltazstd", 4096, 4096*1000)

	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf, engine))

	got, err := ReadHeader(&buf, engine)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestHeaderRoundTrip_EmptyMethodSuffix(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	h := NewHeader("interdedup", DefaultPageSize, 0)

	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf, engine))

	got, err := ReadHeader(&buf, engine)
	require.NoError(t, err)
	require.Equal(t, h, got)
}

func TestReadHeader_BadMagic(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	var buf bytes.Buffer
	buf.WriteString("XXXX\x00interdedup\x00")
	buf.Write(make([]byte, 16))

	_, err := ReadHeader(&buf, engine)
	require.ErrorIs(t, err, errs.ErrBadMagic)
}

func TestReadHeader_LeavesTrailingPayloadUnconsumed(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	h := NewHeader("interdedup", 4096, 4096)

	var buf bytes.Buffer
	require.NoError(t, h.WriteTo(&buf, engine))
	buf.WriteString("the rest of the stream")

	got, err := ReadHeader(&buf, engine)
	require.NoError(t, err)
	require.Equal(t, h, got)

	rest, err := io.ReadAll(&buf)
	require.NoError(t, err)
	require.Equal(t, "the rest of the stream", string(rest))
}

func TestReadHeader_Truncated(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	var buf bytes.Buffer
	buf.WriteString("MBCR\x00interdedup\x00")
	buf.Write(make([]byte, 4)) // short of the 16-byte fixed tail

	_, err := ReadHeader(&buf, engine)
	require.ErrorIs(t, err, errs.ErrTruncated)
}
