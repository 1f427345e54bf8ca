package orz

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPackageMergeLengths_SatisfiesLimitAndKraft(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := make([]uint32, 300)
	for i := range weights {
		if rng.Intn(4) == 0 {
			continue // leave some symbols at zero weight
		}
		weights[i] = uint32(rng.Intn(50000) + 1)
	}

	lengths := packageMergeLengths(weights, huffMaxBits)

	var kraft int64
	for i, l := range lengths {
		if weights[i] > 0 {
			require.GreaterOrEqual(t, int(l), 1)
			require.LessOrEqual(t, int(l), huffMaxBits)
			kraft += int64(1) << uint(huffMaxBits-int(l))
		} else {
			require.Equal(t, uint8(0), l)
		}
	}
	require.LessOrEqual(t, kraft, int64(1)<<huffMaxBits)
}

func TestHuffmanEncoderDecoder_RoundTripsEverySymbol(t *testing.T) {
	weights := make([]uint32, 50)
	for i := range weights {
		weights[i] = uint32(i + 1)
	}

	buf := make([]byte, 4096)
	wtpos := 0
	enc := newHuffmanEncoder(weights, huffMaxBits, buf, &wtpos)

	var bw bitWriter
	bitBuf := make([]byte, 4096)
	btpos := 0
	for sym := 0; sym < len(weights); sym++ {
		enc.encodeToBits(uint16(sym), &bw)
		bw.saveU32(bitBuf, &btpos)
	}
	bw.saveAll(bitBuf, &btpos)

	rtpos := 0
	dec, err := newHuffmanDecoder(len(weights), buf, &rtpos)
	require.NoError(t, err)
	require.Equal(t, wtpos, rtpos)

	var br bitReader
	brpos := 0
	for sym := 0; sym < len(weights); sym++ {
		br.loadU32(bitBuf, &brpos)
		got, err := dec.decodeFromBits(&br)
		require.NoError(t, err)
		require.Equal(t, uint16(sym), got)
	}
}

func TestHuffmanDecoder_RejectsOverSubscribedTable(t *testing.T) {
	lengths := make([]byte, 4)
	for i := range lengths {
		lengths[i] = 1 // four symbols each wanting a 1-bit code: over-subscribed
	}
	rtpos := 0
	_, err := newHuffmanDecoder(len(lengths), lengths, &rtpos)
	require.ErrorIs(t, err, ErrCorruptStream)
}
