package orz

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDecode_CorruptedStreamNeverPanicsAcrossTheAPIBoundary flips every bit
// of a small valid stream in turn and asserts that Decode always returns
// either a successful decode or ErrCorruptStream, and never propagates a
// panic or writes past the caller-provided buffers.
func TestDecode_CorruptedStreamNeverPanicsAcrossTheAPIBoundary(t *testing.T) {
	s := []byte("the quick brown fox jumps over the lazy dog repeatedly, the quick brown fox")
	target := encodeAll(t, DefaultCfg(), s)

	for byteIdx := 0; byteIdx < len(target); byteIdx++ {
		for bit := 0; bit < 8; bit++ {
			corrupt := append([]byte(nil), target...)
			corrupt[byteIdx] ^= 1 << uint(bit)

			func() {
				defer func() {
					r := recover()
					require.Nil(t, r, "Decode must never panic across its API boundary, byte=%d bit=%d", byteIdx, bit)
				}()
				d := NewDecoder()
				dst := make([]byte, len(s)+matchMaxLen)
				_, _, err := d.Decode(corrupt, dst, 0)
				if err != nil {
					require.ErrorIs(t, err, ErrCorruptStream)
				}
			}()
		}
	}
}

// TestDecode_TruncatedStreamIsRejected ensures a stream cut short of its
// declared item count is reported as corrupt rather than read out of bounds.
func TestDecode_TruncatedStreamIsRejected(t *testing.T) {
	s := []byte("abcabcabcabcabcabcabcabcabcabcabc")
	target := encodeAll(t, DefaultCfg(), s)

	for cut := 0; cut < len(target); cut += 3 {
		func() {
			defer func() {
				r := recover()
				require.Nil(t, r, "Decode must never panic on a truncated stream, cut=%d", cut)
			}()
			d := NewDecoder()
			dst := make([]byte, len(s)+matchMaxLen)
			_, _, err := d.Decode(target[:cut], dst, 0)
			if err != nil {
				require.ErrorIs(t, err, ErrCorruptStream)
			}
		}()
	}
}

// TestEncode_TargetOverflowPanicsWithSentinelError documents the encoder's
// contract: an undersized target buffer raises ErrTargetOverflow via panic,
// since Encode has no error return.
func TestEncode_TargetOverflowPanicsWithSentinelError(t *testing.T) {
	s := make([]byte, 4096)
	for i := range s {
		s[i] = byte(i)
	}

	defer func() {
		r := recover()
		require.NotNil(t, r, "an undersized target must panic")
		err, ok := r.(error)
		require.True(t, ok, "panic value must be an error")
		require.ErrorIs(t, err, ErrTargetOverflow)
	}()

	e := NewEncoder()
	tiny := make([]byte, 4)
	e.Encode(DefaultCfg(), s, tiny, 0)
}
