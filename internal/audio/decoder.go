// Package audio implements the Bink1 audio decoder: per-packet quantizer
// bands, run-length coefficient unpacking, dequantization, the inverse
// real FFT, and overlap-add windowing (spec.md section 4.5).
//
// The decode loop mirrors the teacher's lossy.Decoder shape: one
// long-lived Decoder per track holds its scratch coefficient buffer and
// overlap window across packets, the way lossy.Decoder holds its
// prediction buffers across rows.
package audio

import (
	"fmt"
	"math"

	"github.com/binkcore/bink1/internal/bitio"
	"github.com/binkcore/bink1/internal/fft"
)

// Decoder decodes one audio track's packets into interleaved int16 PCM.
type Decoder struct {
	sampleRate       int
	channels         int
	samplesPerFrame  int
	samplesPerWindow int
	samplesPerBlock  int
	bandEdges        []int

	coeffs []float64
	window []int16
	first  bool
}

// NewDecoder allocates a decoder for a track at sampleRate Hz with the
// given channel count. samplesPerFrame follows spec.md section 4.5's
// threshold table, multiplied by the channel count.
func NewDecoder(sampleRate, channels int) *Decoder {
	base := 512
	switch {
	case sampleRate >= 44100:
		base = 2048
	case sampleRate >= 22050:
		base = 1024
	}
	samplesPerFrame := base * channels
	samplesPerWindow := samplesPerFrame / 16
	return &Decoder{
		sampleRate:       sampleRate,
		channels:         channels,
		samplesPerFrame:  samplesPerFrame,
		samplesPerWindow: samplesPerWindow,
		samplesPerBlock:  samplesPerFrame - samplesPerWindow,
		bandEdges:        criticalBandEdges(sampleRate, samplesPerFrame),
		coeffs:           make([]float64, samplesPerFrame),
		window:           make([]int16, samplesPerWindow),
		first:            true,
	}
}

func clampInt16(v float64) int16 {
	if v < math.MinInt16 {
		return math.MinInt16
	}
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	return int16(v)
}

// Decode decodes one audio sub-packet covering sampleCount samples,
// returning the interleaved PCM produced across however many internal
// blocks spec.md section 4.5 step 9 requires to cover that many samples.
func (d *Decoder) Decode(data []byte, sampleCount int) ([]int16, error) {
	r := bitio.NewReader(data)
	blocks := (sampleCount + d.samplesPerBlock - 1) / d.samplesPerBlock
	out := make([]int16, 0, blocks*d.samplesPerBlock)

	remaining := sampleCount
	for remaining > 0 {
		current, err := d.decodeBlock(r)
		if err != nil {
			return out, err
		}
		out = append(out, d.window_(current)...)

		step := d.samplesPerBlock
		if step > remaining {
			step = remaining
		}
		remaining -= step
	}
	return out, nil
}

// decodeBlock runs spec.md section 4.5 steps 1-7 once, returning the
// samplesPerFrame-length scaled and clamped block. The word alignment comes
// after the block's bits are read: a packet's first block starts at bit 0,
// and every later block starts on a word boundary.
func (d *Decoder) decodeBlock(r *bitio.Reader) ([]int16, error) {
	c0, err := r.ReadFloat29()
	if err != nil {
		return nil, err
	}
	c1, err := r.ReadFloat29()
	if err != nil {
		return nil, err
	}
	d.coeffs[0] = c0
	d.coeffs[1] = c1

	quantizers := make([]float64, len(d.bandEdges))
	for i := range quantizers {
		e, err := r.Read(8)
		if err != nil {
			return nil, err
		}
		quantizers[i] = math.Pow(10, 0.066399999*float64(e))
	}

	for i := 2; i < d.samplesPerFrame; i++ {
		d.coeffs[i] = 0
	}

	i := 2
	for i < d.samplesPerFrame {
		bit, err := r.Read(1)
		if err != nil {
			return nil, err
		}
		runLen := 8
		if bit != 0 {
			idx, err := r.Read(4)
			if err != nil {
				return nil, err
			}
			runLen = 8 * runLengthTable[idx]
		}
		end := i + runLen
		if end > d.samplesPerFrame {
			end = d.samplesPerFrame
		}

		coeffBits, err := r.Read(4)
		if err != nil {
			return nil, err
		}
		if coeffBits != 0 {
			for ; i < end; i++ {
				mag, err := r.Read(int(coeffBits))
				if err != nil {
					return nil, err
				}
				v := float64(mag)
				if mag != 0 {
					sign, err := r.Read(1)
					if err != nil {
						return nil, err
					}
					if sign != 0 {
						v = -v
					}
				}
				d.coeffs[i] = v
			}
		}
		i = end
	}
	r.AlignToWord()

	for i := 2; i < d.samplesPerFrame; i++ {
		bin := i / 2
		band := 0
		for band < len(d.bandEdges)-1 && bin >= d.bandEdges[band] {
			band++
		}
		d.coeffs[i] *= quantizers[band]
	}

	fft.Inverse(d.coeffs)

	scale := 2 / math.Sqrt(float64(d.samplesPerFrame))
	out := make([]int16, d.samplesPerFrame)
	for i, v := range d.coeffs {
		out[i] = clampInt16(v * scale)
	}
	return out, nil
}

// window_ implements the overlap-add step (spec.md section 4.5 step 8),
// consuming current and returning samplesPerBlock output samples.
func (d *Decoder) window_(current []int16) []int16 {
	w := d.samplesPerWindow
	out := make([]int16, d.samplesPerBlock)

	if d.first {
		copy(out, current[:d.samplesPerBlock])
		d.first = false
	} else {
		for i := 0; i < w; i++ {
			v := (float64(current[i])*float64(i) + float64(d.window[i])*float64(w-i)) / float64(w)
			out[i] = clampInt16(v)
		}
		copy(out[w:], current[w:d.samplesPerBlock])
	}

	copy(d.window, current[d.samplesPerFrame-w:])
	return out
}

// Reset restores the decoder to its pre-first-packet state, forcing the
// next Decode call to skip overlap-add on its first internal block.
func (d *Decoder) Reset() {
	d.first = true
	for i := range d.window {
		d.window[i] = 0
	}
}

func (d *Decoder) String() string {
	return fmt.Sprintf("audio.Decoder(rate=%d channels=%d samplesPerFrame=%d)", d.sampleRate, d.channels, d.samplesPerFrame)
}
