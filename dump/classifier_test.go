package dump

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifier_SameOffset(t *testing.T) {
	c := NewClassifier(pages(4, "AAAA", "BBBB"))
	require.True(t, c.SameOffset([]byte("AAAA"), []byte("AAAA")))
	require.False(t, c.SameOffset([]byte("AAAA"), []byte("BBBB")))
}

func TestClassifier_DedupSource(t *testing.T) {
	c := NewClassifier(pages(4, "AAAA", "BBBB", "AAAA"))

	src, ok := c.DedupSource([]byte("AAAA"))
	require.True(t, ok)
	require.Equal(t, uint32(0), src) // first occurrence wins, not the duplicate at index 2

	_, ok = c.DedupSource([]byte("CCCC"))
	require.False(t, ok)
}
