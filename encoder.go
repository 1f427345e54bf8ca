package orz

import (
	"encoding/binary"
	"sort"
)

// matchItem is one emitted item before Huffman encoding: enough to
// tally histograms and then push its bits in a second pass.
type matchItem struct {
	rawSymbol       uint16
	mtfContext      uint16
	unlikely        uint16
	isMatch         bool
	robitlen        uint8
	robits          uint16
	encodedMatchLen int
}

// LZEncoder is the top-level encode driver. It owns the contexts shared
// with a corresponding LZDecoder (buckets, MTF coders, word table) plus an
// encoder-only match finder per context.
type LZEncoder struct {
	ctx     lzContext
	finders [256]*matchFinder
}

// NewEncoder returns a fresh encoder with empty contexts, ready for the
// first chunk of a session.
func NewEncoder() *LZEncoder {
	e := &LZEncoder{ctx: newLZContext()}
	for i := range e.finders {
		e.finders[i] = &matchFinder{}
	}
	return e
}

// Forward slides the encoder's bucket coordinates by delta, to be called
// by the caller between chunks when the source window itself slides.
func (e *LZEncoder) Forward(delta int) {
	e.ctx.forward(delta)
}

// Encode consumes S starting at spos and appends one self-describing chunk
// to T starting at offset 0, stopping at the chunk item cap or the end of
// S. It returns the new source and target cursors. T must have room for
// the worst-case expansion of one chunk; violating that panics with
// ErrTargetOverflow, matching the "raised at the call site" error model —
// encode has no recoverable error of its own.
func (e *LZEncoder) Encode(cfg LZCfg, s []byte, t []byte, spos int) (newSpos, newTpos int) {
	items := make([]matchItem, 0, 1024)
	p := spos

	for p < len(s) && len(items) < chunkSize {
		ctx := contextByte(s, p-1)
		predicted := e.ctx.words[contextWord(s, p-1)]
		mtfContext := e.ctx.mtfContextKey(ctx)
		unlikely := uint16(predicted.a)

		matched, ro, length, lengthExpected := e.finders[ctx].findMatch(e.ctx.buckets[ctx], s, p, cfg.MatchDepth)

		lazy0, lazy1 := false, false
		if matched {
			renc := roidEnc[ro]
			lazyLen1 := length + 1
			if renc.bitlen < 8 {
				lazyLen1++
			}
			lazyLen2 := lazyLen1
			if predicted == pairAt(s, p+1) {
				lazyLen2--
			}

			if length < matchMaxLen/2 {
				nextCtx := contextByte(s, p)
				lazy0 = e.finders[nextCtx].hasLazyMatch(e.ctx.buckets[nextCtx], s, p+1, lazyLen1, cfg.LazyMatchDepth1)
			}
			if length < matchMaxLen/2 && !lazy0 {
				nextCtx := contextByte(s, p+1)
				lazy1 = e.finders[nextCtx].hasLazyMatch(e.ctx.buckets[nextCtx], s, p+2, lazyLen2, cfg.LazyMatchDepth2)
			}

			if !lazy0 && !lazy1 {
				var encodedLen int
				switch {
				case length > lengthExpected:
					encodedLen = length - matchLenMin
				case length < lengthExpected:
					encodedLen = length - matchLenMin + 1
				default:
					encodedLen = 0
				}
				lenid := encodedLen
				if lenid > lenIDSize-1 {
					lenid = lenIDSize - 1
				}
				symbol := uint16(256 + int(renc.roid)*lenIDSize + lenid)

				items = append(items, matchItem{
					rawSymbol:       symbol,
					mtfContext:      mtfContext,
					unlikely:        unlikely,
					isMatch:         true,
					robitlen:        renc.bitlen,
					robits:          renc.bits,
					encodedMatchLen: encodedLen,
				})

				e.ctx.buckets[ctx].update(p, ro, length)
				e.finders[ctx].update(e.ctx.buckets[ctx], s, p)
				p += length
				e.ctx.afterLiteral = false
				recordWord(&e.ctx.words, s, p)
				continue
			}
		}

		e.ctx.buckets[ctx].update(p, 0, 0)
		e.finders[ctx].update(e.ctx.buckets[ctx], s, p)

		if p+1 < len(s) && !lazy0 && predicted == pairAt(s, p) {
			items = append(items, matchItem{rawSymbol: wordSymbol, mtfContext: mtfContext, unlikely: unlikely})
			p += 2
			e.ctx.afterLiteral = false
		} else {
			items = append(items, matchItem{rawSymbol: uint16(s[p]), mtfContext: mtfContext, unlikely: unlikely})
			p++
			e.ctx.afterLiteral = true
			recordWord(&e.ctx.words, s, p)
		}
	}

	tpos := 0
	if e.ctx.mtfs == nil {
		order := initialMTFOrder(items)
		requireRoom(t, tpos, len(order)*2)
		for _, sym := range order {
			binary.LittleEndian.PutUint16(t[tpos:], sym)
			tpos += 2
		}
		e.ctx.mtfs = make([]*mtfCoder, 512)
		for i := range e.ctx.mtfs {
			e.ctx.mtfs[i] = newMTFCoder(order)
		}
	}

	sLenFinal := p
	if sLenFinal > len(s) {
		sLenFinal = len(s)
	}

	var bw bitWriter
	requireRoom(t, tpos, 8)
	bw.put(32, uint64(sLenFinal))
	bw.saveU32(t, &tpos)
	bw.put(32, uint64(len(items)))
	bw.saveU32(t, &tpos)

	h1 := make([]uint32, numSymbols)
	h2 := make([]uint32, matchMaxLen)
	for i := range items {
		it := &items[i]
		it.rawSymbol = e.ctx.mtfs[it.mtfContext].encode(it.rawSymbol, it.unlikely)
		h1[it.rawSymbol]++
		if it.isMatch && it.encodedMatchLen >= lenIDSize-1 {
			h2[it.encodedMatchLen]++
		}
	}

	requireRoom(t, tpos, numSymbols+matchMaxLen)
	enc1 := newHuffmanEncoder(h1, huffMaxBits, t, &tpos)
	enc2 := newHuffmanEncoder(h2, huffMaxBits, t, &tpos)

	for _, it := range items {
		requireRoom(t, tpos, 12)
		enc1.encodeToBits(it.rawSymbol, &bw)
		bw.saveU32(t, &tpos)
		if it.isMatch {
			bw.put(uint(it.robitlen), uint64(it.robits))
			bw.saveU32(t, &tpos)
			if it.encodedMatchLen >= lenIDSize-1 {
				enc2.encodeToBits(uint16(it.encodedMatchLen), &bw)
				bw.saveU32(t, &tpos)
			}
		}
	}
	bw.saveAll(t, &tpos)

	return sLenFinal, tpos
}

// initialMTFOrder histograms raw symbols across a chunk's items and
// returns the full symbol alphabet sorted by descending frequency, used to
// seed every MTF coder once per session.
func initialMTFOrder(items []matchItem) []uint16 {
	counts := make([]int64, numSymbols)
	for _, it := range items {
		counts[it.rawSymbol]++
	}
	order := make([]uint16, numSymbols)
	for i := range order {
		order[i] = uint16(i)
	}
	// Stable sort by descending count keeps ties in symbol order, which
	// both sides reproduce identically since it depends only on counts.
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

func requireRoom(t []byte, tpos, n int) {
	if tpos+n > len(t) {
		panic(ErrTargetOverflow)
	}
}
