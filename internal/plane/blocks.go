package plane

import (
	"fmt"

	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/dsp"
)

// readBlock8x8 copies an 8x8 region out of a plane buffer at (x,y).
func (d *Decoder) readBlock8x8(buf []byte, x, y int) [64]byte {
	var block [64]byte
	for row := 0; row < 8; row++ {
		off := (y+row)*d.width + x
		copy(block[row*8:row*8+8], buf[off:off+8])
	}
	return block
}

// writeBlock8x8 writes an 8x8 block into a plane buffer at (x,y).
func (d *Decoder) writeBlock8x8(buf []byte, x, y int, block [64]byte) {
	for row := 0; row < 8; row++ {
		off := (y+row)*d.width + x
		copy(buf[off:off+8], block[row*8:row*8+8])
	}
}

// copyBlock8x8 copies an 8x8 region from src at (sx,sy) into dst at (x,y).
func (d *Decoder) copyBlock8x8(dst, src []byte, x, y, sx, sy int) {
	for row := 0; row < 8; row++ {
		dOff := (y+row)*d.width + x
		sOff := (sy+row)*d.width + sx
		copy(dst[dOff:dOff+8], src[sOff:sOff+8])
	}
}

// clampMotion keeps a motion-compensated source block fully inside the
// plane, since spec.md only says the copy is "unaligned", not that the
// referenced source region is guaranteed in-bounds.
func (d *Decoder) clampMotion(x, y int) (int, int) {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	if x > d.width-8 {
		x = d.width - 8
	}
	if y > d.height-8 {
		y = d.height - 8
	}
	return x, y
}

func (d *Decoder) decodeSkip(source, target []byte, x, y int) {
	d.copyBlock8x8(target, source, x, y, x, y)
}

func (d *Decoder) decodeMotion(source, target []byte, x, y int) error {
	mvx := d.xMotion.Next()
	mvy := d.yMotion.Next()
	sx, sy := d.clampMotion(x+int(mvx), y+int(mvy))
	d.copyBlock8x8(target, source, x, y, sx, sy)
	return nil
}

func (d *Decoder) decodeFill(target []byte, x, y int) error {
	c := d.colors.Next()
	var block [64]byte
	for i := range block {
		block[i] = c
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

func (d *Decoder) decodeRaw(target []byte, x, y int) error {
	var block [64]byte
	for row := 0; row < 8; row++ {
		span := d.colors.NextSpan(8)
		copy(block[row*8:row*8+8], span)
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

func (d *Decoder) decodePatternFill(target []byte, x, y int) error {
	color1 := d.colors.Next()
	color2 := d.colors.Next()
	var block [64]byte
	for row := 0; row < 8; row++ {
		p := d.pattern.NextUnsigned()
		lowMask := p & 0x0F
		highMask := p >> 4
		for col := 0; col < 4; col++ {
			if lowMask&(1<<uint(col)) != 0 {
				block[row*8+col] = color1
			} else {
				block[row*8+col] = color2
			}
		}
		for col := 0; col < 4; col++ {
			if highMask&(1<<uint(col)) != 0 {
				block[row*8+4+col] = color1
			} else {
				block[row*8+4+col] = color2
			}
		}
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

// decodeRunFillPattern fills a 64-byte pattern with run-length-coded colors
// and reorders it through zScan, per the "Run-Fill" block type (block type
// 3 in the outer dispatch, sub-type 3 when used from a Scaled block).
func (d *Decoder) decodeRunFillPattern() [64]byte {
	var raw [64]byte
	i := 0
	for i < 64 {
		length := d.patternLengths.NextUnsigned()
		color := d.colors.Next()
		n := int(length)
		if n == 0 {
			n = 1
		}
		for k := 0; k < n && i < 64; k++ {
			raw[i] = color
			i++
		}
	}
	var block [64]byte
	for p := 0; p < 64; p++ {
		block[p] = raw[zScan[p]]
	}
	return block
}

func (d *Decoder) decodeRunFill(target []byte, x, y int) error {
	block := d.decodeRunFillPattern()
	d.writeBlock8x8(target, x, y, block)
	return nil
}

// decodeIntraBlock reads the DC bundle value, the coefficient subdivision
// tree, and the quantizer index, then runs the inverse DCT. Shared by the
// Intra block type and the Scaled block's sub-type 5.
func (d *Decoder) decodeIntraBlock(r *bitio.Reader) ([64]byte, error) {
	var block [64]byte
	dc := d.dcIntra.Next()
	coeffs, err := decodeCoeffs(r, dc)
	if err != nil {
		return block, err
	}
	quantizerI, err := r.Read(4)
	if err != nil {
		return block, err
	}
	var ordered [64]int16
	for p := 0; p < 64; p++ {
		ordered[p] = coeffs[zScan[p]]
	}
	return dsp.IDCT8x8(&ordered, &d.quantizers[quantizerI]), nil
}

func (d *Decoder) decodeIntra(r *bitio.Reader, target []byte, x, y int) error {
	block, err := d.decodeIntraBlock(r)
	if err != nil {
		return err
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

func (d *Decoder) decodeInterDelta(r *bitio.Reader) ([64]int16, error) {
	var delta [64]int16
	dc := d.dcInter.Next()
	coeffs, err := decodeCoeffs(r, dc)
	if err != nil {
		return delta, err
	}
	quantizerI, err := r.Read(4)
	if err != nil {
		return delta, err
	}
	var ordered [64]int16
	for p := 0; p < 64; p++ {
		ordered[p] = coeffs[zScan[p]]
	}
	return dsp.IDCT8x8Delta(&ordered, &d.quantizers[quantizerI]), nil
}

func addClampByte(base byte, delta int16) byte {
	v := int(base) + int(delta)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func (d *Decoder) decodeInter(r *bitio.Reader, source, target []byte, x, y int) error {
	mvx := d.xMotion.Next()
	mvy := d.yMotion.Next()
	sx, sy := d.clampMotion(x+int(mvx), y+int(mvy))
	base := d.readBlock8x8(source, sx, sy)

	delta, err := d.decodeInterDelta(r)
	if err != nil {
		return err
	}
	var block [64]byte
	for i := range block {
		block[i] = addClampByte(base[i], delta[i])
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

func (d *Decoder) decodeMotionResidue(r *bitio.Reader, source, target []byte, x, y int) error {
	mvx := d.xMotion.Next()
	mvy := d.yMotion.Next()
	sx, sy := d.clampMotion(x+int(mvx), y+int(mvy))
	base := d.readBlock8x8(source, sx, sy)

	residue, err := decodeResidue(r)
	if err != nil {
		return err
	}
	var block [64]byte
	for p := 0; p < 64; p++ {
		block[p] = addClampByte(base[p], int16(residue[zScan[p]]))
	}
	d.writeBlock8x8(target, x, y, block)
	return nil
}

// decodeScaled implements block type 1: a 16-tall-by-8-wide output
// produced by doubling one sub-decoder's 8x8 block vertically. Only even
// block-rows perform the decode; the odd block-row directly below is left
// untouched so the even row's output survives (spec.md section 4.4 and
// the "every odd block-row skips its scaling blocks" invariant).
func (d *Decoder) decodeScaled(r *bitio.Reader, target []byte, x, y, blockRow int) error {
	subType := d.subBlockType.NextUnsigned()
	if blockRow%2 == 1 {
		return nil
	}

	var block [64]byte
	var err error
	switch subType {
	case 3:
		block = d.decodeRunFillPattern()
	case 5:
		block, err = d.decodeIntraBlock(r)
	case 6:
		c := d.colors.Next()
		for i := range block {
			block[i] = c
		}
	case 8:
		block = d.scaledPatternFillBlock()
	case 9:
		block = d.scaledRawBlock()
	default:
		return fmt.Errorf("plane: scaled sub-block type %d out of range", subType)
	}
	if err != nil {
		return err
	}

	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			v := block[row*8+col]
			if y+2*row < d.height {
				d.setPixel(target, x+col, y+2*row, v)
			}
			if y+2*row+1 < d.height {
				d.setPixel(target, x+col, y+2*row+1, v)
			}
		}
	}
	return nil
}

func (d *Decoder) setPixel(buf []byte, x, y int, v byte) {
	buf[y*d.width+x] = v
}

func (d *Decoder) scaledPatternFillBlock() [64]byte {
	var block [64]byte
	color1 := d.colors.Next()
	color2 := d.colors.Next()
	for row := 0; row < 8; row++ {
		p := d.pattern.NextUnsigned()
		for col := 0; col < 8; col++ {
			if p&(1<<uint(col%8)) != 0 {
				block[row*8+col] = color1
			} else {
				block[row*8+col] = color2
			}
		}
	}
	return block
}

func (d *Decoder) scaledRawBlock() [64]byte {
	var block [64]byte
	for row := 0; row < 8; row++ {
		span := d.colors.NextSpan(8)
		copy(block[row*8:row*8+8], span)
	}
	return block
}
