package orz

// wordPair is a predicted two-byte continuation stored in the word table.
type wordPair struct {
	a, b byte
}

// lzContext is the state shared by the encoder and decoder drivers: one
// bucket per context byte, the lazily-seeded MTF coders, the word table,
// and the after-literal bit. It evolves continuously across chunks within
// a session.
type lzContext struct {
	buckets      [256]*bucket
	mtfs         []*mtfCoder // len 512 once seeded
	words        [1 << 15]wordPair
	afterLiteral bool
}

func newLZContext() lzContext {
	c := lzContext{afterLiteral: true}
	for i := range c.buckets {
		c.buckets[i] = newBucket()
	}
	return c
}

func (c *lzContext) forward(delta int) {
	for _, b := range c.buckets {
		b.forward(delta)
	}
}

// mtfContextKey computes the (after_literal << 8 | ctx) index into the
// 512-entry MTF coder table.
func (c *lzContext) mtfContextKey(ctx byte) uint16 {
	key := uint16(ctx)
	if c.afterLiteral {
		key |= 1 << 8
	}
	return key
}

func isAlphaNum(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// byteAt returns s[i], or 0 if i is out of range. Both encoder and decoder
// use this for lookback before the start of the window and lookahead past
// its end, so the two sides stay in lockstep regardless of which edge of
// the buffer a position sits near.
func byteAt(s []byte, i int) byte {
	if i < 0 || i >= len(s) {
		return 0
	}
	return s[i]
}

// pairAt returns the two bytes starting at i, zero-padded past either edge
// of s.
func pairAt(s []byte, i int) wordPair {
	return wordPair{byteAt(s, i), byteAt(s, i+1)}
}

// contextByte is cb(p): the 8-bit context used to pick a bucket and the low
// bits of an MTF key.
func contextByte(s []byte, p int) byte {
	b := byteAt(s, p) & 0x7f
	if isAlphaNum(byteAt(s, p-1)) {
		b |= 0x80
	}
	return b
}

// contextWord is cw(p): the 15-bit index into the word table.
func contextWord(s []byte, p int) int {
	return int(byteAt(s, p)&0x7f) | int(contextByte(s, p-1))<<7
}

// recordWord updates the word table entry that predicts the pair ending at
// p-1, to be consulted the next time the same context is seen.
func recordWord(words *[1 << 15]wordPair, s []byte, p int) {
	words[contextWord(s, p-3)] = pairAt(s, p-2)
}

// copyMatch copies length bytes from s[src:] to s[dst:], allowing the
// ranges to overlap (a back-reference closer than its own length repeats
// its own tail), via a doubling-growth overlap copy: the already-copied
// prefix doubles as the source for the next chunk until length is reached.
func copyMatch(s []byte, dst, src, length int) {
	dist := dst - src
	if dist >= length {
		copy(s[dst:dst+length], s[src:src+length])
		return
	}
	copy(s[dst:dst+dist], s[src:dst])
	copied := dist
	for copied < length {
		n := copy(s[dst+copied:dst+length], s[dst:dst+copied])
		copied += n
	}
}
