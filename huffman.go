package orz

import (
	"sort"

	"github.com/pkg/errors"
)

// huffmanEncoder is a canonical, length-limited prefix coder built from
// symbol weights. Code lengths come from a package-merge construction that
// guarantees both the length limit and the Kraft inequality by
// construction, so no post-hoc rebalancing pass is needed.
type huffmanEncoder struct {
	length []uint8
	code   []uint16
}

// newHuffmanEncoder builds lengths and codes from weights and writes the
// canonical length table to t[*tpos:], advancing tpos by len(weights).
func newHuffmanEncoder(weights []uint32, limit int, t []byte, tpos *int) *huffmanEncoder {
	lengths := packageMergeLengths(weights, limit)
	codes := assignCanonicalCodes(lengths)

	for i, l := range lengths {
		t[*tpos+i] = l
	}
	*tpos += len(lengths)

	return &huffmanEncoder{length: lengths, code: codes}
}

// encodeToBits pushes sym's canonical code into w, MSB-first.
func (e *huffmanEncoder) encodeToBits(sym uint16, w *bitWriter) {
	l := e.length[sym]
	w.put(uint(l), uint64(e.code[sym]))
}

// huffmanDecoder reconstructs a canonical code from its length table and
// decodes one bit at a time against it.
type huffmanDecoder struct {
	firstCode  [huffMaxBits + 1]uint32
	firstIndex [huffMaxBits + 1]int
	count      [huffMaxBits + 1]int
	symbols    []uint16
}

// newHuffmanDecoder reads an alphabetSize-byte length table from t[*tpos:],
// validates it, and builds the canonical decode structure.
func newHuffmanDecoder(alphabetSize int, t []byte, tpos *int) (*huffmanDecoder, error) {
	if *tpos+alphabetSize > len(t) {
		return nil, errors.Wrap(ErrCorruptStream, "huffman length table truncated")
	}
	lengths := make([]uint8, alphabetSize)
	for i := range lengths {
		l := t[*tpos+i]
		if l > huffMaxBits {
			return nil, errors.Wrapf(ErrCorruptStream, "huffman code length %d exceeds limit", l)
		}
		lengths[i] = l
	}
	*tpos += alphabetSize

	if err := checkKraft(lengths); err != nil {
		return nil, err
	}

	d := &huffmanDecoder{}
	for _, l := range lengths {
		if l > 0 {
			d.count[l]++
		}
	}

	type symLen struct {
		sym uint16
		l   uint8
	}
	ordered := make([]symLen, 0, len(lengths))
	for sym, l := range lengths {
		if l > 0 {
			ordered = append(ordered, symLen{uint16(sym), l})
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].l != ordered[j].l {
			return ordered[i].l < ordered[j].l
		}
		return ordered[i].sym < ordered[j].sym
	})
	d.symbols = make([]uint16, len(ordered))
	for i, sl := range ordered {
		d.symbols[i] = sl.sym
	}

	idx := 0
	code := uint32(0)
	for bits := 1; bits <= huffMaxBits; bits++ {
		d.firstIndex[bits] = idx
		d.firstCode[bits] = code
		idx += d.count[bits]
		code = (code + uint32(d.count[bits])) << 1
	}

	return d, nil
}

// decodeFromBits consumes the minimum bit prefix matching a canonical code
// and returns the symbol, most-significant bit first.
func (d *huffmanDecoder) decodeFromBits(r *bitReader) (uint16, error) {
	code := uint32(0)
	for length := 1; length <= huffMaxBits; length++ {
		code = (code << 1) | uint32(r.get(1))
		if d.count[length] == 0 {
			continue
		}
		idx := int(code) - int(d.firstCode[length])
		if idx >= 0 && idx < d.count[length] {
			return d.symbols[d.firstIndex[length]+idx], nil
		}
	}
	return 0, errors.Wrap(ErrCorruptStream, "no canonical huffman code matched bit prefix")
}

// checkKraft rejects a length table that over-subscribes the code space —
// an under-subscribed (incomplete) code is a legal, if wasteful, prefix
// code and is accepted.
func checkKraft(lengths []uint8) error {
	var sum int64
	for _, l := range lengths {
		if l > 0 {
			sum += int64(1) << uint(huffMaxBits-int(l))
		}
	}
	if sum > int64(1)<<huffMaxBits {
		return errors.Wrap(ErrCorruptStream, "huffman table violates kraft inequality")
	}
	return nil
}

// assignCanonicalCodes assigns codes in RFC 1951 3.2.2 canonical order:
// shorter lengths first, symbols ascending within a length.
func assignCanonicalCodes(lengths []uint8) []uint16 {
	var blCount [huffMaxBits + 1]int
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}
	var nextCode [huffMaxBits + 1]uint16
	code := uint16(0)
	for bits := 1; bits <= huffMaxBits; bits++ {
		code = (code + uint16(blCount[bits-1])) << 1
		nextCode[bits] = code
	}

	codes := make([]uint16, len(lengths))
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		codes[sym] = nextCode[l]
		nextCode[l]++
	}
	return codes
}

// pmItem is one node of the package-merge coin-collector construction: a
// weight and the set of original symbols it represents.
type pmItem struct {
	weight int64
	syms   []int
}

// packageMergeLengths assigns code lengths bounded by limit via the
// Larmore-Hirschberg package-merge algorithm, which guarantees the Kraft
// inequality by construction rather than by a post-hoc length-limiting
// repair pass.
func packageMergeLengths(weights []uint32, limit int) []uint8 {
	lengths := make([]uint8, len(weights))

	type leaf struct {
		w int64
		s int
	}
	var leaves []leaf
	for s, w := range weights {
		if w > 0 {
			leaves = append(leaves, leaf{int64(w), s})
		}
	}
	if len(leaves) == 0 {
		return lengths
	}
	if len(leaves) == 1 {
		lengths[leaves[0].s] = 1
		return lengths
	}

	sort.Slice(leaves, func(i, j int) bool { return leaves[i].w < leaves[j].w })

	orig := make([]pmItem, len(leaves))
	for i, lf := range leaves {
		orig[i] = pmItem{weight: lf.w, syms: []int{lf.s}}
	}

	cur := append([]pmItem(nil), orig...)
	for level := 1; level < limit; level++ {
		var packages []pmItem
		for i := 0; i+1 < len(cur); i += 2 {
			syms := make([]int, 0, len(cur[i].syms)+len(cur[i+1].syms))
			syms = append(syms, cur[i].syms...)
			syms = append(syms, cur[i+1].syms...)
			packages = append(packages, pmItem{weight: cur[i].weight + cur[i+1].weight, syms: syms})
		}
		cur = mergeSortedItems(orig, packages)
	}

	take := 2 * (len(leaves) - 1)
	if take > len(cur) {
		take = len(cur)
	}
	for _, it := range cur[:take] {
		for _, s := range it.syms {
			lengths[s]++
		}
	}
	return lengths
}

func mergeSortedItems(a, b []pmItem) []pmItem {
	out := make([]pmItem, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i].weight <= b[j].weight {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}
