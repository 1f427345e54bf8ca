package orz

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// LZDecoder is the top-level decode driver, mirroring LZEncoder's shared
// context but without a match finder: decode only ever needs bucket.locate.
type LZDecoder struct {
	ctx lzContext
}

// NewDecoder returns a fresh decoder with empty contexts, ready for the
// first chunk of a session.
func NewDecoder() *LZDecoder {
	return &LZDecoder{ctx: newLZContext()}
}

// Forward slides the decoder's bucket coordinates by delta, mirroring the
// encoder's Forward call between chunks.
func (d *LZDecoder) Forward(delta int) {
	d.ctx.forward(delta)
}

// Decode reads exactly one encoded chunk from the start of T and appends
// decoded bytes to S starting at spos. It returns the new source cursor and
// the number of bytes of T the chunk occupied.
// It returns ErrCorruptStream if the chunk is malformed and leaves S
// unmodified beyond bytes already written for earlier items in the chunk.
func (d *LZDecoder) Decode(t []byte, s []byte, spos int) (newSpos, newTpos int, err error) {
	defer func() {
		if r := recover(); r != nil {
			newSpos, newTpos = 0, 0
			err = errors.Wrapf(ErrCorruptStream, "panic during decode: %v", r)
		}
	}()

	tpos := 0
	p := spos

	if d.ctx.mtfs == nil {
		if tpos+numSymbols*2 > len(t) {
			return 0, 0, errors.Wrap(ErrCorruptStream, "initial permutation truncated")
		}
		order := make([]uint16, numSymbols)
		seen := make([]bool, numSymbols)
		for i := range order {
			v := binary.LittleEndian.Uint16(t[tpos:])
			tpos += 2
			if int(v) >= numSymbols || seen[v] {
				return 0, 0, errors.Wrap(ErrCorruptStream, "invalid initial permutation")
			}
			seen[v] = true
			order[i] = v
		}
		d.ctx.mtfs = make([]*mtfCoder, 512)
		for i := range d.ctx.mtfs {
			d.ctx.mtfs[i] = newMTFCoder(order)
		}
	}

	if tpos+8 > len(t) {
		return 0, 0, errors.Wrap(ErrCorruptStream, "chunk header truncated")
	}
	var br bitReader
	br.loadU32(t, &tpos)
	br.loadU32(t, &tpos)
	sLenTarget := int(br.get(32))
	itemCount := int(br.get(32))
	if itemCount < 0 {
		return 0, 0, errors.Wrap(ErrCorruptStream, "negative item count")
	}

	dec1, err := newHuffmanDecoder(numSymbols, t, &tpos)
	if err != nil {
		return 0, 0, err
	}
	dec2, err := newHuffmanDecoder(matchMaxLen, t, &tpos)
	if err != nil {
		return 0, 0, err
	}

	for i := 0; i < itemCount; i++ {
		ctx := contextByte(s, p-1)
		predicted := d.ctx.words[contextWord(s, p-1)]
		mtfContext := d.ctx.mtfContextKey(ctx)
		unlikely := uint16(predicted.a)

		br.loadU32(t, &tpos)
		rank, derr := dec1.decodeFromBits(&br)
		if derr != nil {
			return 0, 0, derr
		}
		if int(rank) > numSymbols {
			return 0, 0, errors.Wrap(ErrCorruptStream, "rank out of range")
		}
		sym := d.ctx.mtfs[mtfContext].decode(rank, unlikely)

		switch {
		case sym == wordSymbol:
			d.ctx.buckets[ctx].update(p, 0, 0)
			d.ctx.afterLiteral = false
			if p+2 > sLenTarget {
				return 0, 0, errors.Wrap(ErrCorruptStream, "word expansion past declared source length")
			}
			if p+2 > len(s) {
				return 0, 0, errors.Wrap(ErrTargetOverflow, "word expansion")
			}
			s[p] = predicted.a
			s[p+1] = predicted.b
			p += 2

		case sym < 256:
			d.ctx.buckets[ctx].update(p, 0, 0)
			d.ctx.afterLiteral = true
			if p+1 > sLenTarget {
				return 0, 0, errors.Wrap(ErrCorruptStream, "literal past declared source length")
			}
			if p+1 > len(s) {
				return 0, 0, errors.Wrap(ErrTargetOverflow, "literal")
			}
			s[p] = byte(sym)
			p++
			recordWord(&d.ctx.words, s, p)

		default:
			roidLenid := int(sym) - 256
			roid := roidLenid / lenIDSize
			lenid := roidLenid % lenIDSize
			if roid < 0 || roid >= roidSize {
				return 0, 0, errors.Wrap(ErrCorruptStream, "roid out of range")
			}
			rdec := roidDec[roid]
			reducedOffset := int(rdec.base) + int(br.get(uint(rdec.bitlen)))

			matchPos, matchLenExpected, ok := d.ctx.buckets[ctx].locate(reducedOffset)
			if !ok {
				return 0, 0, errors.Wrap(ErrCorruptStream, "reduced offset points to unseen bucket slot")
			}

			var encodedMatchLen int
			if lenid == lenIDSize-1 {
				br.loadU32(t, &tpos)
				v, derr := dec2.decodeFromBits(&br)
				if derr != nil {
					return 0, 0, derr
				}
				encodedMatchLen = int(v)
			} else {
				encodedMatchLen = lenid
			}

			var length int
			switch {
			case encodedMatchLen+matchLenMin > matchLenExpected:
				length = encodedMatchLen + matchLenMin
			case encodedMatchLen > 0:
				length = encodedMatchLen + matchLenMin - 1
			default:
				length = matchLenExpected
			}

			if matchPos < 0 || matchPos >= p || length <= 0 || p+length > len(s) || p+length > sLenTarget {
				return 0, 0, errors.Wrap(ErrCorruptStream, "invalid match geometry")
			}

			d.ctx.buckets[ctx].update(p, reducedOffset, length)
			d.ctx.afterLiteral = false
			copyMatch(s, p, matchPos, length)
			p += length
			recordWord(&d.ctx.words, s, p)
		}
	}

	finalSpos := p
	if finalSpos > sLenTarget {
		finalSpos = sLenTarget
	}
	finalTpos := tpos
	if br.nbits <= 64 {
		// Whole words still unread in the register were loaded ahead of the
		// chunk's last bit and belong to the next chunk.
		finalTpos -= int(br.nbits/32) * 4
	}
	if finalTpos > len(t) {
		finalTpos = len(t)
	}
	return finalSpos, finalTpos, nil
}
