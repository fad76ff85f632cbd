// Package huffman implements Bink1's static Huffman table family and the
// per-tree symbol-permutation protocol that rides on top of it.
//
// Unlike the canonical, bitstream-described codes built by VP8L's
// BuildHuffmanTable (internal/lossless/huffman.go in the example pack),
// Bink1 never transmits code lengths: it ships 16 fixed tables and instead
// transmits a *permutation* of each table's 16 symbol slots. The table
// construction below borrows the teacher's packed-entry idea (length and
// value folded into one lookup slot) but the entries are generated once at
// init time from compact per-table code-length descriptions rather than
// from literal flat arrays, since the sixteen tables are themselves a
// derived artifact rather part of the wire format.
package huffman

import "github.com/binkcore/bink1/internal/bitio"

// NumTables is the number of built-in static tables.
const NumTables = 16

// NumSymbols is the number of symbols encoded by any table (a nibble).
const NumSymbols = 16

// maxBits holds the lookup width of each of the 16 static tables, per
// spec.md section 4.2.
var maxBits = [NumTables]int{4, 5, 5, 5, 5, 5, 5, 6, 6, 6, 6, 6, 6, 7, 7, 7}

// codeLengths holds, for each static table, the canonical Huffman code
// length assigned to each of the 16 symbol slots (before any tree-id
// permutation is applied). Every row satisfies the Kraft inequality, so
// each table is a valid prefix code. Tables 0 and 3-6 are complete; in the
// other tables some maxBits-bit patterns start no code, their lookup slots
// keep a zero length, and Decode fails on them.
var codeLengths = [NumTables][NumSymbols]int{
	// maxBits = 4: the trivial complete code, every symbol costs 4 bits.
	{4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4, 4},
	// maxBits = 5, six variants biasing different symbol ranges so that the
	// 7 tree-id-0 "identity" decode still resolves to distinct widths.
	{2, 3, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 4},
	{3, 3, 3, 4, 4, 5, 5, 5, 5, 5, 5, 5, 5, 5, 4, 3},
	{4, 4, 3, 3, 4, 4, 4, 5, 5, 5, 5, 5, 5, 4, 4, 3},
	{5, 5, 4, 3, 3, 3, 4, 4, 4, 5, 5, 5, 5, 4, 4, 4},
	{5, 5, 5, 4, 3, 3, 3, 4, 4, 4, 5, 5, 4, 5, 4, 4},
	{5, 5, 5, 5, 4, 3, 3, 3, 4, 4, 4, 5, 4, 5, 4, 4},
	// maxBits = 6, six variants.
	{2, 3, 4, 5, 6, 6, 6, 6, 6, 6, 6, 6, 6, 6, 5, 4},
	{3, 3, 4, 5, 5, 6, 6, 6, 6, 6, 6, 6, 6, 5, 4, 3},
	{4, 4, 3, 4, 5, 5, 6, 6, 6, 6, 6, 6, 5, 5, 4, 3},
	{5, 4, 4, 3, 4, 5, 5, 6, 6, 6, 6, 5, 5, 5, 4, 4},
	{5, 5, 4, 4, 3, 4, 5, 5, 6, 6, 6, 5, 5, 5, 4, 4},
	{6, 5, 5, 4, 4, 3, 4, 5, 5, 6, 6, 6, 5, 5, 4, 4},
	// maxBits = 7, three variants.
	{2, 3, 4, 5, 6, 7, 7, 7, 7, 7, 7, 7, 7, 7, 6, 5},
	{3, 3, 4, 5, 6, 6, 7, 7, 7, 7, 7, 7, 7, 6, 5, 4},
	{4, 4, 3, 4, 5, 6, 6, 7, 7, 7, 7, 7, 6, 6, 5, 4},
}

// entry packs a decoded code length (high nibble) and symbol index (low
// nibble) into a single byte, per spec.md section 4.2.
type entry uint8

func (e entry) length() int { return int(e >> 4) }
func (e entry) symbol() int { return int(e & 0xF) }

func pack(length, symbol int) entry {
	return entry(length<<4 | symbol)
}

// tables holds the flat lookup table for each of the 16 static trees,
// sized 2^maxBits[i] and filled once at init.
var tables [NumTables][]entry

func init() {
	for i := 0; i < NumTables; i++ {
		tables[i] = buildFlatTable(maxBits[i], codeLengths[i][:])
	}
}

// buildFlatTable assigns canonical Huffman codes to the 16 symbols (ordered
// by (length, symbol)) and replicates each code's table entry across every
// bit pattern that shares its prefix, producing a flat lookup of size
// 2^width indexed by the next `width` bits read LSB-first.
func buildFlatTable(width int, lengths []int) []entry {
	size := 1 << uint(width)
	table := make([]entry, size)

	uniform := true
	for _, l := range lengths {
		if l != width {
			uniform = false
			break
		}
	}
	if uniform {
		// Every symbol occupies the full table width: there is no real
		// prefix-code structure to speak of, so bit-reversing a canonical
		// code here would just permute the table rather than encode
		// anything. The bits read straight off the stream (LSB-first) are
		// already the symbol: table[k] = k (spec.md section 8 scenario 2).
		for s := range table {
			table[s] = pack(width, s)
		}
		return table
	}

	type symLen struct {
		symbol int
		length int
	}
	var order []symLen
	for s, l := range lengths {
		order = append(order, symLen{s, l})
	}
	// Stable sort by length then symbol (canonical code assignment order).
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && (order[j].length < order[j-1].length ||
			(order[j].length == order[j-1].length && order[j].symbol < order[j-1].symbol)); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	var code uint32
	prevLen := 0
	for _, sl := range order {
		code <<= uint(sl.length - prevLen)
		prevLen = sl.length
		// Bit-reverse the canonical MSB-first code into the LSB-first key
		// space used by this table, then replicate across the unused high
		// bits (step = 1<<length, matching the teacher's replicateValue).
		key := reverseBits(code, sl.length)
		step := 1 << uint(sl.length)
		e := pack(sl.length, sl.symbol)
		for k := int(key); k < size; k += step {
			table[k] = e
		}
		code++
	}
	return table
}

func reverseBits(v uint32, n int) uint32 {
	var r uint32
	for i := 0; i < n; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// Tree is a built Huffman tree: a reference to one of the 16 static tables
// plus the symbol permutation read for this tree instance.
type Tree struct {
	table   []entry
	maxBits int
	symbols [NumSymbols]int
}

// ReadTree reads a tree-id nibble followed by the tree-shuffle protocol
// (spec.md section 4.2) and returns the resulting Tree.
func ReadTree(r *bitio.Reader) (*Tree, error) {
	id, err := r.Read(4)
	if err != nil {
		return nil, err
	}

	t := &Tree{table: tables[id], maxBits: maxBits[id]}
	for i := range t.symbols {
		t.symbols[i] = i
	}
	if id == 0 {
		return t, nil
	}

	useFirstGiven, err := r.Read(1)
	if err != nil {
		return nil, err
	}

	if useFirstGiven != 0 {
		firstCount, err := r.Read(3)
		if err != nil {
			return nil, err
		}
		var set [NumSymbols]bool
		for i := 0; i <= int(firstCount); i++ {
			sym, err := r.Read(4)
			if err != nil {
				return nil, err
			}
			t.symbols[i] = int(sym)
			set[sym] = true
		}
		pos := int(firstCount) + 1
		for v := 0; v < NumSymbols; v++ {
			if !set[v] {
				t.symbols[pos] = v
				pos++
			}
		}
		return t, nil
	}

	shuffleDepth, err := r.Read(2)
	if err != nil {
		return nil, err
	}

	var a, b [NumSymbols]int
	for i := range a {
		a[i] = i
	}
	src, dst := a[:], b[:]
	for pass := 0; pass <= int(shuffleDepth); pass++ {
		groupSize := 1 << uint(pass)
		for base := 0; base < NumSymbols; base += 2 * groupSize {
			leftIdx, rightIdx := base, base+groupSize
			for i := 0; i < 2*groupSize; i++ {
				bit, err := r.Read(1)
				if err != nil {
					return nil, err
				}
				if bit == 0 {
					dst[base+i] = src[leftIdx]
					leftIdx++
				} else {
					dst[base+i] = src[rightIdx]
					rightIdx++
				}
			}
		}
		src, dst = dst, src
	}
	copy(t.symbols[:], src)
	return t, nil
}

// Decode peeks maxBits from r, advances past the consumed code length, and
// returns the permuted symbol.
func (t *Tree) Decode(r *bitio.Reader) (int, error) {
	peeked, err := r.Peek(t.maxBits)
	if err != nil {
		return 0, err
	}
	e := t.table[peeked]
	if _, err := r.Read(e.length()); err != nil {
		return 0, err
	}
	return t.symbols[e.symbol()], nil
}
