// Package bitio provides the little-endian, word-oriented bit reader used by
// the Bink1 plane and audio decoders.
package bitio

import (
	"encoding/binary"
	"errors"
)

// Errors returned by Reader.
var (
	// ErrOutOfRange is returned by Read/Peek when n is outside [1,32].
	ErrOutOfRange = errors.New("bitio: bit count out of range")
	// ErrEndOfStream is returned when a read requires bits beyond the last word.
	ErrEndOfStream = errors.New("bitio: end of stream")
)

// Reader implements a little-endian, 32-bit-word bit stream with LSB-first
// bit order within each word.
//
// This is a generalization of the teacher's VP8L sliding-window bit reader
// (formerly LosslessReader in this file): both read raw bit fields out of a
// little-endian byte buffer, but Bink1's bitstream is organized as discrete
// 32-bit words rather than a single 64-bit prefetch window, and a read that
// straddles a word boundary takes its low bits from the current word and
// its high bits from the next one.
type Reader struct {
	words       []uint32 // the input reinterpreted as little-endian 32-bit words
	offset      int      // index of the next unread word in words
	currentWord uint32   // bits not yet consumed from the current word (LSB-first)
	bitsLeft    int      // number of valid bits remaining in currentWord
}

// NewReader creates a Reader over data, whose length must be a multiple of
// four bytes. The first word is preloaded.
func NewReader(data []byte) *Reader {
	n := len(data) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	r := &Reader{words: words}
	if n > 0 {
		r.currentWord = words[0]
		r.bitsLeft = 32
		r.offset = 1
	}
	return r
}

// nextWord advances to the following word, returning false at end of stream.
func (r *Reader) nextWord() (uint32, bool) {
	if r.offset >= len(r.words) {
		return 0, false
	}
	w := r.words[r.offset]
	r.offset++
	return w, true
}

// Read returns the next n bits (1 <= n <= 32) in LSB-first order, advancing
// the reader. It returns ErrOutOfRange for n outside [1,32] and
// ErrEndOfStream when the stream is exhausted before n bits are available.
func (r *Reader) Read(n int) (uint32, error) {
	if n < 1 || n > 32 {
		return 0, ErrOutOfRange
	}

	if n <= r.bitsLeft {
		v := r.currentWord & mask(n)
		r.currentWord >>= uint(n)
		r.bitsLeft -= n
		return v, nil
	}

	// Low bitsLeft bits come from the current word.
	low := r.currentWord
	lowBits := r.bitsLeft
	remaining := n - lowBits

	w, ok := r.nextWord()
	if !ok {
		return 0, ErrEndOfStream
	}

	high := w & mask(remaining)
	v := low | (high << uint(lowBits))

	r.currentWord = w >> uint(remaining)
	r.bitsLeft = 32 - remaining
	return v, nil
}

// Peek returns the next n bits without consuming them.
func (r *Reader) Peek(n int) (uint32, error) {
	if n < 1 || n > 32 {
		return 0, ErrOutOfRange
	}
	if n <= r.bitsLeft {
		return r.currentWord & mask(n), nil
	}
	if r.offset >= len(r.words) {
		return 0, ErrEndOfStream
	}
	low := r.currentWord
	lowBits := r.bitsLeft
	remaining := n - lowBits
	high := r.words[r.offset] & mask(remaining)
	return low | (high << uint(lowBits)), nil
}

// AlignToWord discards any unread bits of the current word and advances to
// the next word, if one exists.
func (r *Reader) AlignToWord() {
	w, ok := r.nextWord()
	if !ok {
		r.currentWord = 0
		r.bitsLeft = 0
		return
	}
	r.currentWord = w
	r.bitsLeft = 32
}

// ReadFloat29 reads a 5-bit signed exponent offset (e-22), a 23-bit unsigned
// mantissa, and a 1-bit sign, returning sign * 2^(e-22) * mantissa.
func (r *Reader) ReadFloat29() (float64, error) {
	e, err := r.Read(5)
	if err != nil {
		return 0, err
	}
	mant, err := r.Read(23)
	if err != nil {
		return 0, err
	}
	sign, err := r.Read(1)
	if err != nil {
		return 0, err
	}

	v := pow2(int(e)-22) * float64(mant)
	if sign != 0 {
		v = -v
	}
	return v, nil
}

// WordOffset returns the index of the first word none of whose bits have
// been consumed: the current word while it is still untouched, otherwise
// the word after it.
func (r *Reader) WordOffset() int {
	if r.bitsLeft == 32 {
		return r.offset - 1
	}
	return r.offset
}

func mask(n int) uint32 {
	if n >= 32 {
		return 0xFFFFFFFF
	}
	return (uint32(1) << uint(n)) - 1
}

func pow2(e int) float64 {
	if e >= 0 {
		v := 1.0
		for i := 0; i < e; i++ {
			v *= 2
		}
		return v
	}
	v := 1.0
	for i := 0; i < -e; i++ {
		v /= 2
	}
	return v
}
