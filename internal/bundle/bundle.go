// Package bundle implements the Bink1 bundle layer: typed symbol queues
// refilled once per block-row from the bitstream (spec.md section 4.3).
//
// The three bundle kinds (Bundle4, Bundle8, Bundle16) share the same
// drained-queue shape as the teacher's per-macroblock MBData/Proba state in
// internal/lossy (small typed structs reset once per unit of work and
// consumed by many call sites during a single pass), but here the "unit of
// work" is a block-row rather than a macroblock, and refill pulls directly
// from the bitstream instead of a probability model.
package bundle

import (
	"math/bits"

	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/huffman"
)

// minValueCount is the floor added before computing maxLengthInBits.
const minValueCount = 512

// MaxLengthInBits computes ceil(log2(minValueCount + addLines*(width/8)))
// per spec.md section 3.
func MaxLengthInBits(width, addLines int) int {
	n := minValueCount + addLines*(width/8)
	if n <= 1 {
		return 1
	}
	return bits.Len(uint(n - 1))
}

// runLengths maps a 4-bit Bundle4 RLE repeat symbol (12..15) to the number
// of slots it fills with the last decoded value.
var runLengths = [4]int{4, 8, 12, 32}

// Bundle4 is a nibble-symbol queue, optionally interpreted as signed on read.
type Bundle4 struct {
	maxLengthInBits int
	buffer          []uint8
	offset          int
	length          int
	tree            *huffman.Tree
	signed          bool
}

// NewBundle4 allocates a Bundle4 sized for the given plane width and
// addLines multiplier (spec.md section 3).
func NewBundle4(width, addLines int, signed bool) *Bundle4 {
	maxBits := MaxLengthInBits(width, addLines)
	return &Bundle4{
		maxLengthInBits: maxBits,
		buffer:          make([]uint8, 1<<uint(maxBits)),
		signed:          signed,
	}
}

// Reset clears queue state and reads a fresh Huffman tree for this plane.
func (b *Bundle4) Reset(r *bitio.Reader) error {
	b.offset, b.length = 0, 0
	tree, err := huffman.ReadTree(r)
	if err != nil {
		return err
	}
	b.tree = tree
	return nil
}

// done marks the bundle as permanently finished for the remainder of the
// plane (spec.md: "offset is then advanced to length+1").
func (b *Bundle4) done() {
	b.offset = b.length + 1
}

// readLength reads the maxLengthInBits-bit length prefix shared by all
// Bundle4 fill variants, applying the empty-length sentinel on zero.
func (b *Bundle4) readLength(r *bitio.Reader) (int, bool, error) {
	if b.offset != b.length {
		return 0, false, nil // not yet drained; refill is a no-op
	}
	v, err := r.Read(b.maxLengthInBits)
	if err != nil {
		return 0, false, err
	}
	length := int(v)
	if length == 0 {
		b.done()
		return 0, false, nil
	}
	b.offset = 0
	b.length = length
	return length, true, nil
}

// FillRLE implements spec.md 4.3.1 fill_rle.
func (b *Bundle4) FillRLE(r *bitio.Reader) error {
	length, ok, err := b.readLength(r)
	if err != nil || !ok {
		return err
	}

	isMemset, err := r.Read(1)
	if err != nil {
		return err
	}
	if isMemset != 0 {
		v, err := r.Read(4)
		if err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			b.buffer[i] = uint8(v)
		}
		return nil
	}

	lastValue := uint8(0)
	i := 0
	for i < length {
		sym, err := b.tree.Decode(r)
		if err != nil {
			return err
		}
		switch {
		case sym < 12:
			lastValue = uint8(sym)
			b.buffer[i] = lastValue
			i++
		default:
			run := runLengths[sym-12]
			for k := 0; k < run && i < length; k++ {
				b.buffer[i] = lastValue
				i++
			}
		}
	}
	return nil
}

// FillPairs implements spec.md 4.3.1 fill_pairs.
func (b *Bundle4) FillPairs(r *bitio.Reader) error {
	length, ok, err := b.readLength(r)
	if err != nil || !ok {
		return err
	}
	for i := 0; i < length; i++ {
		lo, err := b.tree.Decode(r)
		if err != nil {
			return err
		}
		hi, err := b.tree.Decode(r)
		if err != nil {
			return err
		}
		b.buffer[i] = uint8(hi<<4 | lo)
	}
	return nil
}

// FillSimple implements spec.md 4.3.1 fill_simple, including the signed
// per-value sign bit when b.signed is set.
func (b *Bundle4) FillSimple(r *bitio.Reader) error {
	length, ok, err := b.readLength(r)
	if err != nil || !ok {
		return err
	}

	isMemset, err := r.Read(1)
	if err != nil {
		return err
	}
	if isMemset != 0 {
		v, err := b.decodeValue(r)
		if err != nil {
			return err
		}
		for i := 0; i < length; i++ {
			b.buffer[i] = v
		}
		return nil
	}
	for i := 0; i < length; i++ {
		v, err := b.decodeValue(r)
		if err != nil {
			return err
		}
		b.buffer[i] = v
	}
	return nil
}

// decodeValue decodes one nibble symbol, applying the signed-bundle sign
// bit (read only when the symbol is non-zero) per spec.md 4.3.1.
func (b *Bundle4) decodeValue(r *bitio.Reader) (uint8, error) {
	sym, err := b.tree.Decode(r)
	if err != nil {
		return 0, err
	}
	if !b.signed || sym == 0 {
		return uint8(sym), nil
	}
	sign, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	if sign != 0 {
		return uint8(int8(-int8(sym))), nil
	}
	return uint8(sym), nil
}

// Empty reports whether the bundle has been drained (offset == length). A
// bundle marked permanently done by a zero-length fill is not empty.
func (b *Bundle4) Empty() bool {
	return b.offset == b.length
}

// Next dequeues the next value as a signed byte (the sign was already
// applied to the stored bit pattern during fill for signed bundles).
func (b *Bundle4) Next() int8 {
	v := b.buffer[b.offset]
	b.offset++
	return int8(v)
}

// NextUnsigned dequeues the next value as an unsigned byte.
func (b *Bundle4) NextUnsigned() uint8 {
	v := b.buffer[b.offset]
	b.offset++
	return v
}
