package orz

// bucket is the recency ring for one context: it stores the last
// bucketItemSize positions observed under that context, addressed by
// reduced offset (1 = most recently inserted) rather than absolute
// distance. Both the encoder and the decoder keep one bucket per context
// and call update identically; only the encoder additionally runs a
// matchFinder over it.
type bucket struct {
	pos         [bucketItemSize]int64
	expectedLen [bucketItemSize]uint16
	counter     uint64
}

func newBucket() *bucket {
	b := &bucket{}
	for i := range b.pos {
		b.pos[i] = -1
	}
	return b
}

// update records an occurrence at pos. When reducedOffset is non-zero (a
// real match was taken against that recency slot), the match length
// observed is remembered there for future expected-length comparisons.
func (b *bucket) update(pos int, reducedOffset int, matchLen int) {
	if reducedOffset > 0 {
		slot := (b.counter - uint64(reducedOffset)) % bucketItemSize
		b.expectedLen[slot] = uint16(matchLen)
	}
	slot := b.counter % bucketItemSize
	b.pos[slot] = int64(pos)
	b.counter++
}

// locate maps a reduced offset back to an absolute position and the
// expected match length last recorded there. The minimum admissible match
// length is the constant matchLenMin and is not returned. It reports
// ok=false for any reduced offset that does not currently address a
// written slot.
func (b *bucket) locate(reducedOffset int) (matchPos, matchLenExpected int, ok bool) {
	if reducedOffset <= 0 || reducedOffset > bucketItemSize || uint64(reducedOffset) > b.counter {
		return 0, 0, false
	}
	slot := (b.counter - uint64(reducedOffset)) % bucketItemSize
	p := b.pos[slot]
	if p < 0 {
		return 0, 0, false
	}
	return int(p), int(b.expectedLen[slot]), true
}

// forward slides the bucket's coordinate space by delta, invalidating any
// entry that would become negative.
func (b *bucket) forward(delta int) {
	for i := range b.pos {
		if b.pos[i] < 0 {
			continue
		}
		np := b.pos[i] - int64(delta)
		if np < 0 {
			b.pos[i] = -1
		} else {
			b.pos[i] = np
		}
	}
}
