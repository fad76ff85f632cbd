package plane

import (
	"testing"

	"github.com/binkcore/bink1/internal/bitio"
)

type bitField struct {
	n int
	v uint32
}

func packBits(fields []bitField) []byte {
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

func TestRoundUp8(t *testing.T) {
	cases := map[int]int{0: 0, 1: 8, 7: 8, 8: 8, 9: 16, 17: 24}
	for in, want := range cases {
		if got := roundUp8(in); got != want {
			t.Errorf("roundUp8(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestZScan_IsBijection(t *testing.T) {
	seen := make(map[int]bool)
	for _, v := range zScan {
		seen[v] = true
	}
	if len(seen) != 64 {
		t.Errorf("zScan covers %d distinct positions, want 64", len(seen))
	}
}

func TestOpQueue_FIFOOrder(t *testing.T) {
	var q opQueue
	q.push(op{1, 0})
	q.push(op{2, 1})
	q.push(op{3, 2})
	for _, want := range []op{{1, 0}, {2, 1}, {3, 2}} {
		if q.empty() {
			t.Fatal("queue unexpectedly empty")
		}
		if got := q.pop(); got != want {
			t.Errorf("pop() = %+v, want %+v", got, want)
		}
	}
	if !q.empty() {
		t.Error("queue should be empty after draining all pushes")
	}
}

func TestAddClampByte(t *testing.T) {
	cases := []struct {
		base  byte
		delta int16
		want  byte
	}{
		{100, 50, 150},
		{250, 50, 255},
		{10, -50, 0},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := addClampByte(c.base, c.delta); got != c.want {
			t.Errorf("addClampByte(%d,%d) = %d, want %d", c.base, c.delta, got, c.want)
		}
	}
}

func TestBlockBufferRoundTrip(t *testing.T) {
	d := &Decoder{width: 16, height: 16}
	buf := make([]byte, 16*16)
	var block [64]byte
	for i := range block {
		block[i] = byte(i + 1)
	}
	d.writeBlock8x8(buf, 8, 8, block)
	got := d.readBlock8x8(buf, 8, 8)
	if got != block {
		t.Errorf("readBlock8x8 after writeBlock8x8 = %v, want %v", got, block)
	}

	dst := make([]byte, 16*16)
	d.copyBlock8x8(dst, buf, 0, 0, 8, 8)
	if got := d.readBlock8x8(dst, 0, 0); got != block {
		t.Errorf("copyBlock8x8 result = %v, want %v", got, block)
	}
}

func TestClampMotion(t *testing.T) {
	d := &Decoder{width: 16, height: 16}
	cases := []struct{ x, y, wx, wy int }{
		{-5, -5, 0, 0},
		{100, 100, 8, 8},
		{4, 4, 4, 4},
	}
	for _, c := range cases {
		x, y := d.clampMotion(c.x, c.y)
		if x != c.wx || y != c.wy {
			t.Errorf("clampMotion(%d,%d) = (%d,%d), want (%d,%d)", c.x, c.y, x, y, c.wx, c.wy)
		}
	}
}

// TestDecodeResidue_SingleEmitReturnsImmediately exercises the "immediate
// return on maskCount exhaustion" behavior preserved from spec.md section
// 9: once maskCount hits zero mid-expansion, remaining queued ops are
// dropped rather than processed.
func TestDecodeResidue_SingleEmitReturnsImmediately(t *testing.T) {
	fields := []bitField{
		{7, 1}, // maskCount = 1
		{3, 0}, // bitCountField = 0 -> bitCount = 1, mask = 1
		{1, 1}, // gate for op (4,0): expand
		{1, 0}, // probe k=0: emit immediately (not stashed)
		{1, 0}, // sign bit = 0 -> +mask
	}
	r := bitio.NewReader(packBits(fields))
	residue, err := decodeResidue(r)
	if err != nil {
		t.Fatal(err)
	}
	if residue[4] != 1 {
		t.Errorf("residue[4] = %d, want 1", residue[4])
	}
	for i, v := range residue {
		if i != 4 && v != 0 {
			t.Errorf("residue[%d] = %d, want 0", i, v)
		}
	}
}

// TestDecodeCoeffs_DirectModeThreeEntry exercises the coefficient
// subdivision machine's initial mode-3 ops (1,3),(2,3),(3,3), which are
// decoded without further splitting.
func TestDecodeCoeffs_DirectModeThreeEntry(t *testing.T) {
	fields := []bitField{
		{4, 1}, // maxBitCount = 1 -> single bit-plane pass at bitCount=0
		{1, 0}, // op (4,0): skip
		{1, 0}, // op (24,0): skip
		{1, 0}, // op (44,0): skip
		{1, 1}, // op (1,3): expand
		{1, 0}, // sign bit for coeffs[1] -> positive magnitude 1
		{1, 0}, // op (2,3): skip
		{1, 0}, // op (3,3): skip
	}
	r := bitio.NewReader(packBits(fields))
	coeffs, err := decodeCoeffs(r, 7)
	if err != nil {
		t.Fatal(err)
	}
	if coeffs[0] != 7 {
		t.Errorf("coeffs[0] (DC) = %d, want 7", coeffs[0])
	}
	if coeffs[1] != 1 {
		t.Errorf("coeffs[1] = %d, want 1", coeffs[1])
	}
	for i, v := range coeffs {
		if i != 0 && i != 1 && v != 0 {
			t.Errorf("coeffs[%d] = %d, want 0", i, v)
		}
	}
}
