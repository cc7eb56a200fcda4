package encoding

import (
	"bytes"
	"testing"

	"github.com/mbrengel/memscrimper/endian"
	"github.com/stretchr/testify/require"
)

func TestPagenrListRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		in   []uint32
	}{
		{"empty", []uint32{}},
		{"single", []uint32{42}},
		{"adjacent", []uint32{1, 2, 3, 4}},
		{"sparse forcing wide entries", []uint32{0, 1000, 200000}},
		{"large first value", []uint32{1 << 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(endian.GetLittleEndianEngine())
			defer w.Reset()

			w.WritePagenrList(tt.in)

			got, err := ReadPagenrList(bytes.NewReader(w.Bytes()))
			require.NoError(t, err)
			if len(tt.in) == 0 {
				require.Empty(t, got)
			} else {
				require.Equal(t, tt.in, got)
			}
		})
	}
}

func TestPagenrList_AdjacentValuesEncodeToOneByte(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Reset()

	w.WritePagenrList([]uint32{10, 11, 12})

	// 4-byte count prefix + 3 one-byte entries (first is absolute 10 < 128,
	// the rest are gap-biased 0 < 128).
	require.Equal(t, 4+3, w.Len())
}
