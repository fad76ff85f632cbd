package plane

import (
	"testing"

	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/bundle"
)

// buildPatternFillDecoder wires a Decoder with just the colors and pattern
// bundles populated: colors yields 0x11 then 0x22, and pattern yields the
// given mask once per row.
func buildPatternFillDecoder(t *testing.T, patternMask uint32, rows int) *Decoder {
	t.Helper()

	const width = 8
	colors := bundle.NewBundle8(width, 0)
	pattern := bundle.NewBundle4(width, 0, false)

	fields := []bitField{}
	for i := 0; i < 17; i++ {
		fields = append(fields, bitField{4, 0}) // colors: 16 high trees + 1 low tree, all identity
	}
	fields = append(fields,
		bitField{9, 2}, // colors.Fill length = 2
		bitField{1, 0}, // not memset
		bitField{4, 1}, bitField{4, 1}, // byte 0: high=1 low=1 -> 0x11
		bitField{4, 2}, bitField{4, 2}, // byte 1: high=2 low=2 -> 0x22
		bitField{4, 0}, // pattern: tree id = identity
	)
	fields = append(fields, bitField{9, uint32(rows)}, bitField{1, 0}) // pattern.FillSimple length, not memset
	for i := 0; i < rows; i++ {
		fields = append(fields, bitField{4, patternMask})
	}

	r := bitio.NewReader(packBits(fields))
	if err := colors.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := colors.Fill(r); err != nil {
		t.Fatal(err)
	}
	if err := pattern.Reset(r); err != nil {
		t.Fatal(err)
	}
	if err := pattern.FillSimple(r); err != nil {
		t.Fatal(err)
	}

	return &Decoder{width: width, height: 8, colors: colors, pattern: pattern}
}

// TestDecodePatternFill_SetBitSelectsColor1 exercises spec.md section 8
// scenario 5: color1=0x11, color2=0x22, pattern=0x0F must produce each row
// as {11,11,11,11,22,22,22,22} — a set pattern bit selects color1.
func TestDecodePatternFill_SetBitSelectsColor1(t *testing.T) {
	d := buildPatternFillDecoder(t, 0x0F, 8)
	target := make([]byte, 8*8)
	if err := d.decodePatternFill(target, 0, 0); err != nil {
		t.Fatal(err)
	}
	want := []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}
	for row := 0; row < 8; row++ {
		got := target[row*8 : row*8+8]
		for col, v := range got {
			if v != want[col] {
				t.Errorf("row %d col %d = %#x, want %#x", row, col, v, want[col])
			}
		}
	}
}

func TestScaledPatternFillBlock_SetBitSelectsColor1(t *testing.T) {
	d := buildPatternFillDecoder(t, 0x0F, 8)
	block := d.scaledPatternFillBlock()
	want := []byte{0x11, 0x11, 0x11, 0x11, 0x22, 0x22, 0x22, 0x22}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if got := block[row*8+col]; got != want[col] {
				t.Errorf("row %d col %d = %#x, want %#x", row, col, got, want[col])
			}
		}
	}
}
