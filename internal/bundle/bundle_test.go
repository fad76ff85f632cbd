package bundle

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

func TestMaxLengthInBits(t *testing.T) {
	// ceil(log2(512 + 1*(64/8))) = ceil(log2(520)) = 10.
	got := MaxLengthInBits(64, 1)
	if got != 10 {
		t.Errorf("MaxLengthInBits(64,1) = %d, want 10", got)
	}
}

func TestBundle4_FillRLE_Memset(t *testing.T) {
	// scenario 3 from spec.md section 8: length=5, memset-bit=1, value=0xA.
	b := NewBundle4(64, 1, false)
	fields := []bitField{
		{4, 0}, // tree id 0 => identity
		{b.maxLengthInBits, 5},
		{1, 1},
		{4, 0xA},
	}
	r := bitio.NewReader(packBits(fields))
	if err := b.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := b.FillRLE(r); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if b.buffer[i] != 0xA {
			t.Errorf("buffer[%d] = %x, want 0xA", i, b.buffer[i])
		}
	}
}

func TestBundle4_Empty_AfterLengthConsumed(t *testing.T) {
	b := NewBundle4(64, 1, false)
	fields := []bitField{
		{4, 0}, // tree id 0 => identity
		{b.maxLengthInBits, 3},
		{1, 1},
		{4, 0x7},
	}
	r := bitio.NewReader(packBits(fields))
	if err := b.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := b.FillRLE(r); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if b.Empty() {
			t.Fatalf("bundle reports empty before %d next() calls", i)
		}
		b.Next()
	}
	if !b.Empty() {
		t.Error("bundle should be empty after consuming all values")
	}
}

func TestBundle4_DoneSentinel_OnZeroLength(t *testing.T) {
	b := NewBundle4(64, 1, false)
	fields := []bitField{{4, 0}, {b.maxLengthInBits, 0}}
	r := bitio.NewReader(packBits(fields))
	if err := b.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := b.FillRLE(r); err != nil {
		t.Fatal(err)
	}
	if b.Empty() {
		t.Error("zero-length fill should mark the bundle permanently done, a state distinct from drained (empty)")
	}
	if b.offset != b.length+1 {
		t.Errorf("offset = %d, want length+1 = %d", b.offset, b.length+1)
	}
}

func TestBundle8_Fill_Memset(t *testing.T) {
	b := NewBundle8(64, 8)
	// Reset needs 17 identity trees (id 0, no further bits) plus the fill
	// fields: length, isMemset, then one (high,low) decode under identity
	// trees (each tree id 0 consumes exactly 4 bits at decode time too).
	var fields []bitField
	for i := 0; i < 17; i++ {
		fields = append(fields, bitField{4, 0}) // tree id 0 => identity
	}
	fields = append(fields,
		bitField{b.maxLengthInBits, 3},
		bitField{1, 1},    // isMemset
		bitField{4, 0x1},  // high nibble decode (identity tree => verbatim)
		bitField{4, 0x2},  // low nibble decode
	)
	r := bitio.NewReader(packBits(fields))
	if err := b.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := b.Fill(r); err != nil {
		t.Fatal(err)
	}
	want := uint8(0x1<<4 | 0x2)
	for i := 0; i < 3; i++ {
		if b.buffer[i] != want {
			t.Errorf("buffer[%d] = %x, want %x", i, b.buffer[i], want)
		}
	}
}

func TestBundle16_Fill_UnsignedAccumulator(t *testing.T) {
	b := NewBundle16(64, 1, 11, false)
	fields := []bitField{
		{b.maxLengthInBits, 3},
		{11, 100}, // initial accumulator value
		{4, 0},    // runBits = 0 for the remaining sub-run => repeat accumulator
	}
	r := bitio.NewReader(packBits(fields))
	b.Reset()
	if err := b.Fill(r); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if b.Next() != 100 {
			t.Errorf("value %d != 100", i)
		}
	}
	if !b.Empty() {
		t.Error("expected bundle to be drained")
	}
}
