// Package plane implements the Bink1 plane decoder: the block-row driver,
// the ten block-type decoders, and the residue/coefficient subdivision
// state machines behind them (spec.md section 4.4).
//
// The Decoder mirrors the teacher's lossy.Decoder shape: headers and
// scratch state live on one long-lived struct, buffers are allocated once
// and reused frame to frame, and a block-row loop drives per-macroblock
// work (here, per-8x8-block work) much like parseFrame's row loop.
package plane

import (
	"fmt"

	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/bundle"
)

// QuantizerSets holds the 16 per-index 64-entry dequantizer tables
// selected by the 4-bit quantizerI read before each Intra/Inter IDCT.
type QuantizerSets [16][64]int16

// roundUp8 rounds n up to the next multiple of 8.
func roundUp8(n int) int {
	return (n + 7) &^ 7
}

// Decoder decodes one color plane's worth of Bink1 frames. Width and
// height are rounded up to 8; callers pass already-halved dimensions for
// chroma planes.
type Decoder struct {
	width, height int
	buffers       [2][]byte
	cur           int

	blockType      *bundle.Bundle4
	subBlockType   *bundle.Bundle4
	colors         *bundle.Bundle8
	pattern        *bundle.Bundle4
	xMotion        *bundle.Bundle4
	yMotion        *bundle.Bundle4
	dcIntra        *bundle.Bundle16
	dcInter        *bundle.Bundle16
	patternLengths *bundle.Bundle4

	quantizers *QuantizerSets
}

// NewDecoder allocates a plane decoder for the given (unrounded) pixel
// dimensions. Per-bundle addLines multipliers are chosen from each
// bundle's worst-case values-per-block count (see DESIGN.md): one value
// per block for the type/motion/DC bundles, 64 per block for colors, and 8
// per block for pattern and patternLengths.
func NewDecoder(width, height int, quantizers *QuantizerSets) *Decoder {
	w := roundUp8(width)
	h := roundUp8(height)
	d := &Decoder{
		width:      w,
		height:     h,
		quantizers: quantizers,

		blockType:      bundle.NewBundle4(w, 1, false),
		subBlockType:   bundle.NewBundle4(w, 1, false),
		colors:         bundle.NewBundle8(w, 64),
		pattern:        bundle.NewBundle4(w, 8, false),
		xMotion:        bundle.NewBundle4(w, 1, true),
		yMotion:        bundle.NewBundle4(w, 1, true),
		dcIntra:        bundle.NewBundle16(w, 1, 11, false),
		dcInter:        bundle.NewBundle16(w, 1, 11, true),
		patternLengths: bundle.NewBundle4(w, 8, false),
	}
	d.buffers[0] = make([]byte, w*h)
	d.buffers[1] = make([]byte, w*h)
	return d
}

// Width and Height report the rounded-up plane dimensions.
func (d *Decoder) Width() int  { return d.width }
func (d *Decoder) Height() int { return d.height }

// Current returns the most recently decoded plane buffer.
func (d *Decoder) Current() []byte { return d.buffers[d.cur] }

func (d *Decoder) resetBundles(r *bitio.Reader) error {
	resets := []func(*bitio.Reader) error{
		d.blockType.Reset,
		d.subBlockType.Reset,
		d.colors.Reset,
		d.pattern.Reset,
		d.xMotion.Reset,
		d.yMotion.Reset,
	}
	for _, reset := range resets {
		if err := reset(r); err != nil {
			return err
		}
	}
	d.dcIntra.Reset()
	d.dcInter.Reset()
	if err := d.patternLengths.Reset(r); err != nil {
		return err
	}
	return nil
}

// refillBundles implements the per-block-row refill order from spec.md
// section 4.4. Bundles already marked done from a previous row are a
// no-op inside each Fill* call.
func (d *Decoder) refillBundles(r *bitio.Reader) error {
	if err := d.blockType.FillRLE(r); err != nil {
		return err
	}
	if err := d.subBlockType.FillRLE(r); err != nil {
		return err
	}
	if err := d.colors.Fill(r); err != nil {
		return err
	}
	if err := d.pattern.FillPairs(r); err != nil {
		return err
	}
	if err := d.xMotion.FillSimple(r); err != nil {
		return err
	}
	if err := d.yMotion.FillSimple(r); err != nil {
		return err
	}
	if err := d.dcIntra.Fill(r); err != nil {
		return err
	}
	if err := d.dcInter.Fill(r); err != nil {
		return err
	}
	if err := d.patternLengths.FillSimple(r); err != nil {
		return err
	}
	return nil
}

// Decode decodes one plane's compressed sub-packet from the start of data,
// returning the remainder of data at the next word boundary after the
// plane's bitstream, per spec.md section 4.4/4.7.
func (d *Decoder) Decode(data []byte) ([]byte, error) {
	r := bitio.NewReader(data)

	d.cur ^= 1
	target := d.buffers[d.cur]
	source := d.buffers[d.cur^1]

	if err := d.resetBundles(r); err != nil {
		return nil, err
	}

	blockRow := 0
	for y := 0; y < d.height; y += 8 {
		if err := d.refillBundles(r); err != nil {
			return nil, err
		}
		for x := 0; x < d.width; x += 8 {
			bt := d.blockType.NextUnsigned()
			if err := d.dispatchBlock(r, bt, source, target, x, y, blockRow); err != nil {
				return nil, err
			}
		}
		blockRow++
	}

	r.AlignToWord()
	return data[r.WordOffset()*4:], nil
}

func (d *Decoder) dispatchBlock(r *bitio.Reader, bt uint8, source, target []byte, x, y, blockRow int) error {
	switch bt {
	case 0:
		d.decodeSkip(source, target, x, y)
	case 1:
		return d.decodeScaled(r, target, x, y, blockRow)
	case 2:
		return d.decodeMotion(source, target, x, y)
	case 3:
		return d.decodeRunFill(target, x, y)
	case 4:
		return d.decodeMotionResidue(r, source, target, x, y)
	case 5:
		return d.decodeIntra(r, target, x, y)
	case 6:
		return d.decodeFill(target, x, y)
	case 7:
		return d.decodeInter(r, source, target, x, y)
	case 8:
		return d.decodePatternFill(target, x, y)
	case 9:
		return d.decodeRaw(target, x, y)
	default:
		return fmt.Errorf("plane: block type %d out of range", bt)
	}
	return nil
}
