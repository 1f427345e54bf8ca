package orz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func naturalOrder(n int) []uint16 {
	order := make([]uint16, n)
	for i := range order {
		order[i] = uint16(i)
	}
	return order
}

func TestMTFCoder_EncodeDecodeInvolution(t *testing.T) {
	const n = 64
	enc := newMTFCoder(naturalOrder(n))
	dec := newMTFCoder(naturalOrder(n))

	seq := []struct{ sym, unlikely uint16 }{
		{5, 5}, {5, 9}, {9, 5}, {0, 0}, {63, 1}, {1, 63}, {30, 12}, {12, 12}, {12, 30},
	}
	for _, s := range seq {
		rank := enc.encode(s.sym, s.unlikely)
		require.LessOrEqual(t, int(rank), n-1)
		got := dec.decode(rank, s.unlikely)
		require.Equal(t, s.sym, got, "decode must invert encode for sym=%d unlikely=%d", s.sym, s.unlikely)
		require.Equal(t, enc.perm, dec.perm, "both permutations must evolve identically")
	}
}

func TestMTFCoder_UnlikelySymbolGetsReservedTopRank(t *testing.T) {
	const n = 16
	enc := newMTFCoder(naturalOrder(n))
	rank := enc.encode(7, 7)
	require.Equal(t, uint16(n-1), rank)
}

func TestMTFCoder_PromotesAccessedSymbolToFront(t *testing.T) {
	const n = 8
	m := newMTFCoder(naturalOrder(n))
	m.encode(5, 0)
	require.Equal(t, uint16(5), m.perm[0])
	require.Equal(t, uint16(0), m.inverse[5])
}
