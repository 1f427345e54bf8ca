package orz

import "github.com/cespare/xxhash/v2"

// matchFinder is the encoder-only search index over a bucket: a parallel
// array of content fingerprints, one per ring slot, used to skip full
// byte-by-byte comparisons against candidates that plainly differ. The
// decoder never needs one — it only calls bucket.locate.
type matchFinder struct {
	fp [bucketItemSize]uint64
}

// fingerprint hashes up to the first 4 bytes at pos. Candidates are pruned
// by comparing fingerprints before the more expensive byte comparison: a
// fingerprint-pruned candidate scan, cheap enough to run against every
// recency slot in a bucket before falling back to a real byte comparison.
func fingerprint(s []byte, pos int) uint64 {
	end := pos + 4
	if end > len(s) {
		end = len(s)
	}
	if pos >= end {
		return 0
	}
	return xxhash.Sum64(s[pos:end])
}

// update records the fingerprint for the slot the bucket just wrote. Must
// be called after the corresponding bucket.update so the ring counter has
// already advanced to point past the new slot.
func (m *matchFinder) update(b *bucket, s []byte, pos int) {
	slot := (b.counter - 1) % bucketItemSize
	m.fp[slot] = fingerprint(s, pos)
}

// findMatch returns the longest candidate within depth recency slots whose
// prefix matches s[pos:], capped at matchMaxLen, along with its reduced
// offset and the bucket's previously expected length for that slot.
func (m *matchFinder) findMatch(b *bucket, s []byte, pos int, depth int) (matched bool, reducedOffset, length, lengthExpected int) {
	maxCheck := depth
	if maxCheck > bucketItemSize {
		maxCheck = bucketItemSize
	}
	if uint64(maxCheck) > b.counter {
		maxCheck = int(b.counter)
	}
	if maxCheck <= 0 {
		return false, 0, 0, 0
	}

	curFP := fingerprint(s, pos)
	haveFullPrefix := len(s)-pos >= 4

	bestLen := 0
	bestRO := 0
	bestExpected := 0

	for ro := 1; ro <= maxCheck; ro++ {
		slot := (b.counter - uint64(ro)) % bucketItemSize
		cp := b.pos[slot]
		if cp < 0 {
			continue
		}
		if haveFullPrefix && len(s)-int(cp) >= 4 && m.fp[slot] != curFP {
			continue
		}
		l := matchLenAt(s, int(cp), pos, matchMaxLen)
		if l > bestLen {
			bestLen = l
			bestRO = ro
			bestExpected = int(b.expectedLen[slot])
		}
	}

	if bestLen < matchLenMin {
		return false, 0, 0, 0
	}
	return true, bestRO, bestLen, bestExpected
}

// hasLazyMatch reports whether a match of length >= threshold exists at pos
// within depth recency candidates, comparing bytes exactly for every
// candidate it examines. The answer only steers the encoder's choice between
// emitting the current match and deferring it; the decoder never repeats the
// test, so a wrong answer costs compression ratio, not correctness.
func (m *matchFinder) hasLazyMatch(b *bucket, s []byte, pos int, threshold int, depth int) bool {
	if threshold <= 0 {
		return true
	}
	maxCheck := depth
	if maxCheck > bucketItemSize {
		maxCheck = bucketItemSize
	}
	if uint64(maxCheck) > b.counter {
		maxCheck = int(b.counter)
	}

	limitLen := threshold
	if limitLen > matchMaxLen {
		limitLen = matchMaxLen
	}
	for ro := 1; ro <= maxCheck; ro++ {
		slot := (b.counter - uint64(ro)) % bucketItemSize
		cp := b.pos[slot]
		if cp < 0 {
			continue
		}
		if matchLenAt(s, int(cp), pos, limitLen) >= threshold {
			return true
		}
	}
	return false
}

// matchLenAt compares s[a:] against s[b:] and returns how many leading
// bytes agree, bounded by maxLen and by the end of s.
func matchLenAt(s []byte, a, b, maxLen int) int {
	n := len(s) - b
	if m := len(s) - a; m < n {
		n = m
	}
	if maxLen < n {
		n = maxLen
	}
	i := 0
	for i < n && s[a+i] == s[b+i] {
		i++
	}
	return i
}
