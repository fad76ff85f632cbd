package bundle

import (
	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/huffman"
)

// numHighTrees is the number of per-high-nibble Huffman trees a Bundle8
// owns, per spec.md section 4.3.2.
const numHighTrees = 16

// Bundle8 is the color bundle: each byte value is decoded as two nibbles,
// with the high-nibble tree selection chained from the previously decoded
// high nibble.
type Bundle8 struct {
	maxLengthInBits int
	buffer          []uint8
	offset          int
	length          int
	highTrees       [numHighTrees]*huffman.Tree
	lowTree         *huffman.Tree
	lastTreeI       int
}

// NewBundle8 allocates a Bundle8 sized for the given plane width and
// addLines multiplier.
func NewBundle8(width, addLines int) *Bundle8 {
	maxBits := MaxLengthInBits(width, addLines)
	return &Bundle8{
		maxLengthInBits: maxBits,
		buffer:          make([]uint8, 1<<uint(maxBits)),
	}
}

// Reset clears queue state and reads the 16 high-nibble trees plus the
// single low-nibble tree for this plane.
func (b *Bundle8) Reset(r *bitio.Reader) error {
	b.offset, b.length = 0, 0
	b.lastTreeI = 0
	for i := range b.highTrees {
		tree, err := huffman.ReadTree(r)
		if err != nil {
			return err
		}
		b.highTrees[i] = tree
	}
	tree, err := huffman.ReadTree(r)
	if err != nil {
		return err
	}
	b.lowTree = tree
	return nil
}

func (b *Bundle8) done() {
	b.offset = b.length + 1
}

// Fill implements spec.md 4.3.2 fill.
func (b *Bundle8) Fill(r *bitio.Reader) error {
	if b.offset != b.length {
		return nil
	}
	v, err := r.Read(b.maxLengthInBits)
	if err != nil {
		return err
	}
	length := int(v)
	if length == 0 {
		b.done()
		return nil
	}
	b.offset = 0
	b.length = length

	isMemset, err := r.Read(1)
	if err != nil {
		return err
	}

	iterations := length
	if isMemset != 0 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		high, err := b.highTrees[b.lastTreeI].Decode(r)
		if err != nil {
			return err
		}
		b.lastTreeI = high
		low, err := b.lowTree.Decode(r)
		if err != nil {
			return err
		}
		b.buffer[i] = uint8(high<<4 | low)
	}
	if isMemset != 0 {
		for i := 1; i < length; i++ {
			b.buffer[i] = b.buffer[0]
		}
	}
	return nil
}

// Empty reports whether the bundle has been drained (offset == length). A
// bundle marked permanently done by a zero-length fill is not empty.
func (b *Bundle8) Empty() bool {
	return b.offset == b.length
}

// Next dequeues the next decoded byte.
func (b *Bundle8) Next() uint8 {
	v := b.buffer[b.offset]
	b.offset++
	return v
}

// NextSpan dequeues the next n decoded bytes as a slice view (used by the
// Raw block type to copy a whole row at once).
func (b *Bundle8) NextSpan(n int) []uint8 {
	v := b.buffer[b.offset : b.offset+n]
	b.offset += n
	return v
}
