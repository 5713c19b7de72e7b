package samplerhash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMurmur64AIsDeterministic(t *testing.T) {
	id := "67a9a23155e1741b5b35368e08e6ece5"
	require.Equal(t, Murmur64A(id), Murmur64A(id))
}

func TestMurmur64ADiffersAcrossInputs(t *testing.T) {
	require.NotEqual(t, Murmur64A("a"), Murmur64A("b"))
}

func TestMurmur64AHandlesAllTailLengths(t *testing.T) {
	seen := map[uint64]bool{}
	for n := 0; n < 24; n++ {
		s := make([]byte, n)
		for i := range s {
			s[i] = byte('a' + i%26)
		}
		h := Murmur64A(string(s))
		require.False(t, seen[h], "collision at length %d", n)
		seen[h] = true
	}
}

func TestXXHash64IsDeterministic(t *testing.T) {
	id := "67a9a23155e1741b5b35368e08e6ece5"
	require.Equal(t, XXHash64(id), XXHash64(id))
}

func TestEmptyStringHashesDeterministically(t *testing.T) {
	require.Equal(t, Murmur64A(""), Murmur64A(""))
	require.Equal(t, XXHash64(""), XXHash64(""))
}
