package huffman

import (
	"testing"

	"github.com/binkcore/bink1/internal/bitio"
)

func TestBuildFlatTable_Bijection(t *testing.T) {
	for i := 0; i < NumTables; i++ {
		seen := map[int]bool{}
		for _, e := range tables[i] {
			seen[e.symbol()] = true
		}
		if len(seen) != NumSymbols {
			t.Errorf("table %d: only %d distinct symbols reachable, want %d", i, len(seen), NumSymbols)
		}
	}
}

func TestReadTree_IdentityPermutation(t *testing.T) {
	// tree id 0, no further bits consumed.
	r := bitio.NewReader([]byte{0x00, 0x00, 0x00, 0x00})
	tree, err := ReadTree(r)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < NumSymbols; i++ {
		if tree.symbols[i] != i {
			t.Errorf("symbols[%d] = %d, want %d (identity)", i, tree.symbols[i], i)
		}
	}
}

func TestReadTree_PermutationIsBijection(t *testing.T) {
	// tree id 5, useFirstGiven=1, firstCount=3 (4 symbols given explicitly).
	data := []byte{
		0x5 | (1 << 4), // low nibble = id 5; bit4 = useFirstGiven
		0x03,           // firstCount = 3 (3 bits used)
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	// Build the bitstream manually via a Writer-less approach: easier to
	// just construct word-aligned bytes by hand using known LSB-first order.
	// id (4 bits) = 5 -> 0b0101
	// useFirstGiven (1 bit) = 1
	// firstCount (3 bits) = 3
	// then 4 symbols (4 bits each): 2,4,6,8
	bits := []struct {
		n int
		v uint32
	}{
		{4, 5}, {1, 1}, {3, 3},
		{4, 2}, {4, 4}, {4, 6}, {4, 8},
	}
	buf := packBits(bits)
	_ = data
	r := bitio.NewReader(buf)
	tree, err := ReadTree(r)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, s := range tree.symbols {
		seen[s] = true
	}
	if len(seen) != NumSymbols {
		t.Errorf("permutation not a bijection: %d distinct of %d", len(seen), NumSymbols)
	}
	want := []int{2, 4, 6, 8}
	for i, w := range want {
		if tree.symbols[i] != w {
			t.Errorf("symbols[%d] = %d, want %d", i, tree.symbols[i], w)
		}
	}
}

func TestReadTree_ShufflePermutationIsBijection(t *testing.T) {
	bits := []struct {
		n int
		v uint32
	}{
		{4, 9}, // tree id 9
		{1, 0}, // useFirstGiven = 0
		{2, 2}, // shuffleDepth = 2 -> 3 merge passes
	}
	// 3 passes, each needs bits for every element (16 total) = 48 bits.
	for pass := 0; pass < 3; pass++ {
		for i := 0; i < NumSymbols; i++ {
			bits = append(bits, struct {
				n int
				v uint32
			}{1, uint32(i % 2)})
		}
	}
	buf := packBits(bits)
	r := bitio.NewReader(buf)
	tree, err := ReadTree(r)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[int]bool{}
	for _, s := range tree.symbols {
		seen[s] = true
	}
	if len(seen) != NumSymbols {
		t.Errorf("shuffle permutation not a bijection: %d distinct of %d", len(seen), NumSymbols)
	}
}

func TestDecode_Identity_TruncatesToFourBits(t *testing.T) {
	// tree id 0 consumes 4 bits; subsequent decode peeks maxBits[0]=4 bits
	// and returns them verbatim (identity permutation, length-4 codes).
	bits := []struct {
		n int
		v uint32
	}{
		{4, 0},   // tree id 0
		{4, 0xB}, // the pattern to decode
	}
	buf := packBits(bits)
	r := bitio.NewReader(buf)
	tree, err := ReadTree(r)
	if err != nil {
		t.Fatal(err)
	}
	sym, err := tree.Decode(r)
	if err != nil {
		t.Fatal(err)
	}
	if sym != 0xB {
		t.Errorf("Decode() = %d, want 0xB", sym)
	}
}

// packBits writes a sequence of (n, v) fields LSB-first into a word-aligned
// little-endian byte buffer, padding the final word with zero bits.
func packBits(fields []struct {
	n int
	v uint32
}) []byte {
	var bitsOut []bool
	for _, f := range fields {
		for i := 0; i < f.n; i++ {
			bitsOut = append(bitsOut, (f.v>>uint(i))&1 != 0)
		}
	}
	for len(bitsOut)%32 != 0 {
		bitsOut = append(bitsOut, false)
	}
	buf := make([]byte, len(bitsOut)/8)
	for i, b := range bitsOut {
		if b {
			buf[i/8] |= 1 << uint(i%8)
		}
	}
	return buf
}
