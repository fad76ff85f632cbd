package bundle

import "github.com/binkcore/bink1/internal/bitio"

// Bundle16 is the DC-predictor bundle: a 16-bit accumulator-based
// differential queue, signed or unsigned, per spec.md section 4.3.3.
type Bundle16 struct {
	maxLengthInBits int
	startBits       int
	signed          bool
	buffer          []int16
	offset          int
	length          int
}

// NewBundle16 allocates a Bundle16 sized for the given plane width and
// addLines multiplier. startBits is 11 for both DC bundles per spec.md.
func NewBundle16(width, addLines, startBits int, signed bool) *Bundle16 {
	maxBits := MaxLengthInBits(width, addLines)
	return &Bundle16{
		maxLengthInBits: maxBits,
		startBits:       startBits,
		signed:          signed,
		buffer:          make([]int16, 1<<uint(maxBits)),
	}
}

// Reset clears queue state. Bundle16 owns no Huffman tree.
func (b *Bundle16) Reset() {
	b.offset, b.length = 0, 0
}

func (b *Bundle16) done() {
	b.offset = b.length + 1
}

// readSigned reads n unsigned bits then, if nonzero, a sign bit, returning
// the (possibly negated) value.
func readSigned(r *bitio.Reader, n int) (int32, error) {
	v, err := r.Read(n)
	if err != nil {
		return 0, err
	}
	if v == 0 {
		return 0, nil
	}
	sign, err := r.Read(1)
	if err != nil {
		return 0, err
	}
	if sign != 0 {
		return -int32(v), nil
	}
	return int32(v), nil
}

// Fill implements spec.md 4.3.3 fill.
func (b *Bundle16) Fill(r *bitio.Reader) error {
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

	var accum int32
	if b.signed {
		accum, err = readSigned(r, b.startBits-1)
	} else {
		var u uint32
		u, err = r.Read(b.startBits)
		accum = int32(u)
	}
	if err != nil {
		return err
	}
	b.buffer[0] = int16(accum)

	for base := 1; base < length; base += 8 {
		runBits, err := r.Read(4)
		if err != nil {
			return err
		}
		count := 8
		if base+count > length {
			count = length - base
		}
		if runBits == 0 {
			for i := 0; i < count; i++ {
				b.buffer[base+i] = int16(accum)
			}
			continue
		}
		for i := 0; i < count; i++ {
			delta, err := readSigned(r, int(runBits))
			if err != nil {
				return err
			}
			accum += delta
			b.buffer[base+i] = int16(accum)
		}
	}
	return nil
}

// Empty reports whether the bundle has been drained (offset == length). A
// bundle marked permanently done by a zero-length fill is not empty.
func (b *Bundle16) Empty() bool {
	return b.offset == b.length
}

// Next dequeues the next 16-bit value.
func (b *Bundle16) Next() int16 {
	v := b.buffer[b.offset]
	b.offset++
	return v
}
