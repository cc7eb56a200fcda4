package encoding

import (
	"bytes"
	"testing"

	"github.com/mbrengel/memscrimper/endian"
	"github.com/stretchr/testify/require"
)

func TestIntervalRoundTrip(t *testing.T) {
	engine := endian.GetLittleEndianEngine()

	tests := []struct {
		name      string
		intervals []Interval
	}{
		{"single singleton", []Interval{{Left: 0, Right: 0}}},
		{"single range", []Interval{{Left: 5, Right: 9}}},
		{"three intervals", []Interval{{Left: 0, Right: 0}, {Left: 2, Right: 5}, {Left: 100, Right: 100}}},
		{"wide delta forces u32", []Interval{{Left: 0, Right: 1 << 20}}},
		{"u16 delta boundary", []Interval{{Left: 10, Right: 10 + (1 << 8)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(engine)
			defer w.Reset()

			require.NoError(t, w.WriteIntervalList(tt.intervals))

			got, err := ReadIntervalList(bytes.NewReader(w.Bytes()), engine)
			require.NoError(t, err)
			require.Equal(t, tt.intervals, got)
		})
	}
}

func TestIntervalList_LastFlagOnFinalInterval(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	w := NewWriter(engine)
	defer w.Reset()

	intervals := []Interval{{Left: 0, Right: 0}, {Left: 2, Right: 5}, {Left: 100, Right: 100}}
	require.NoError(t, w.WriteIntervalList(intervals))

	r := bytes.NewReader(w.Bytes())
	_, last, err := ReadInterval(r, engine)
	require.NoError(t, err)
	require.False(t, last)

	_, last, err = ReadInterval(r, engine)
	require.NoError(t, err)
	require.False(t, last)

	_, last, err = ReadInterval(r, engine)
	require.NoError(t, err)
	require.True(t, last)
}

func TestWriteIntervalList_EmptyRejected(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Reset()

	err := w.WriteIntervalList(nil)
	require.Error(t, err)
}

func TestWriteInterval_PageNrOutOfRange(t *testing.T) {
	w := NewWriter(endian.GetLittleEndianEngine())
	defer w.Reset()

	err := w.WriteInterval(Interval{Left: MaxPageNr + 1, Right: MaxPageNr + 1}, true)
	require.Error(t, err)
}

func TestIntervalize(t *testing.T) {
	tests := []struct {
		name string
		in   []uint32
		want []Interval
	}{
		{"empty", nil, nil},
		{"single", []uint32{7}, []Interval{{Left: 7, Right: 7}}},
		{
			"runs and gaps",
			[]uint32{1, 2, 3, 5, 6, 7, 8, 9, 13},
			[]Interval{{Left: 1, Right: 3}, {Left: 5, Right: 9}, {Left: 13, Right: 13}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Intervalize(tt.in))
		})
	}
}
