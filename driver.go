package bink1

import (
	"encoding/binary"
	"fmt"

	"github.com/binkcore/bink1/internal/audio"
	"github.com/binkcore/bink1/internal/container"
	"github.com/binkcore/bink1/internal/plane"
)

// Frame holds one decoded frame's planar video output and the PCM
// produced by each enabled audio track, per spec.md section 4.7.
type Frame struct {
	Keyframe bool
	Y, U, V  []byte
	Alpha    []byte // nil unless the file header enables alpha
	Audio    [][]int16
}

// Driver walks a Bink1 file's frames in order, owning one plane.Decoder
// per color plane and one audio.Decoder per enabled audio track across
// the whole decode, the way webp.go's init() wires one long-lived
// animation.FrameDecoderFunc rather than reallocating per call.
type Driver struct {
	file *container.File

	y, u, v, alpha *plane.Decoder
	tracks         []*audio.Decoder
	trackEnabled   []bool

	next int
}

// NewDriver parses a Bink1 file's header, track headers, and frame offset
// table from data and allocates a Driver ready to decode frame 0.
// trackEnabled selects which audio tracks (in header order) produce PCM;
// a nil slice enables all of them.
func NewDriver(data []byte, mode container.ValidationMode, trackEnabled []bool) (*Driver, error) {
	f, err := container.Parse(data, mode)
	if err != nil {
		return nil, mapContainerErr(err)
	}

	enabled := trackEnabled
	if enabled == nil {
		enabled = make([]bool, len(f.Tracks))
		for i := range enabled {
			enabled[i] = true
		}
	}
	if len(enabled) != len(f.Tracks) {
		return nil, fmt.Errorf("bink1: trackEnabled length %d does not match %d tracks: %w", len(enabled), len(f.Tracks), ErrInvalidHeader)
	}

	tracks := make([]*audio.Decoder, len(f.Tracks))
	for i, t := range f.Tracks {
		if !enabled[i] {
			continue
		}
		if err := container.CheckTrackSupported(t); err != nil {
			return nil, mapContainerErr(err)
		}
		tracks[i] = audio.NewDecoder(int(t.SampleRate), int(t.ChannelCount))
	}

	quant := plane.DefaultQuantizers()
	w, h := int(f.Header.Width), int(f.Header.Height)
	d := &Driver{
		file:         f,
		y:            plane.NewDecoder(w, h, quant),
		tracks:       tracks,
		trackEnabled: enabled,
	}
	if !f.Header.Grayscale() {
		d.u = plane.NewDecoder((w+1)/2, (h+1)/2, quant)
		d.v = plane.NewDecoder((w+1)/2, (h+1)/2, quant)
	}
	if f.Header.HasAlpha() {
		d.alpha = plane.NewDecoder(w, h, quant)
	}
	return d, nil
}

// FrameCount reports the total number of frames in the file.
func (d *Driver) FrameCount() int { return int(d.file.Header.FrameCount) }

// Done reports whether every frame has already been returned by Next.
func (d *Driver) Done() bool { return d.next >= d.FrameCount() }

func readU32(data []byte) (uint32, []byte, error) {
	if len(data) < 4 {
		return 0, nil, ErrEndOfStream
	}
	return binary.LittleEndian.Uint32(data), data[4:], nil
}

// Next decodes the following frame and advances the driver past it.
func (d *Driver) Next(full []byte) (*Frame, error) {
	if d.Done() {
		return nil, ErrEndOfStream
	}
	start := d.file.FrameOffsets[d.next]
	end := d.file.FrameOffsets[d.next+1]
	if end < start || int(end) > len(full) {
		return nil, ErrCorruptStream
	}
	data := full[start:end]
	keyframe := d.file.Keyframe[d.next]
	d.next++

	out := &Frame{Keyframe: keyframe, Audio: make([][]int16, len(d.tracks))}

	for i, tr := range d.tracks {
		packetSize, rest, err := readU32(data)
		if err != nil {
			return nil, err
		}
		data = rest
		if packetSize == 0 {
			continue
		}
		sampleCount, rest, err := readU32(data)
		if err != nil {
			return nil, err
		}
		data = rest
		payload := data[:packetSize-4]
		data = data[packetSize-4:]
		if tr == nil {
			continue
		}
		pcm, err := tr.Decode(payload, int(sampleCount))
		if err != nil {
			return nil, fmt.Errorf("bink1: audio track %d: %w", i, err)
		}
		out.Audio[i] = pcm
	}

	if d.alpha != nil {
		planeSize, rest, err := readU32(data)
		if err != nil {
			return nil, err
		}
		data = rest
		if planeSize < 4 || int(planeSize-4) > len(data) {
			return nil, ErrCorruptStream
		}
		payload := data[:planeSize-4]
		data = data[planeSize-4:]
		remainder, err := d.alpha.Decode(payload)
		if err != nil {
			return nil, fmt.Errorf("bink1: alpha plane: %w", err)
		}
		_ = remainder
		out.Alpha = d.alpha.Current()
	}

	lumaSize, rest, err := readU32(data)
	if err != nil {
		return nil, err
	}
	data = rest
	if lumaSize < 4 || int(lumaSize-4) > len(data) {
		return nil, ErrCorruptStream
	}
	payload := data[:lumaSize-4]
	data = data[lumaSize-4:]
	if _, err := d.y.Decode(payload); err != nil {
		return nil, fmt.Errorf("bink1: luma plane: %w", err)
	}
	out.Y = d.y.Current()

	if d.u != nil {
		for _, dec := range []*plane.Decoder{d.u, d.v} {
			size, rest, err := readU32(data)
			if err != nil {
				return nil, err
			}
			data = rest
			if size < 4 || int(size-4) > len(data) {
				return nil, ErrCorruptStream
			}
			payload := data[:size-4]
			data = data[size-4:]
			if _, err := dec.Decode(payload); err != nil {
				return nil, fmt.Errorf("bink1: chroma plane: %w", err)
			}
		}
		out.U = d.u.Current()
		out.V = d.v.Current()
	}

	return out, nil
}

func mapContainerErr(err error) error {
	switch err {
	case container.ErrInvalidHeader:
		return ErrInvalidHeader
	case container.ErrUnsupportedFeature:
		return ErrUnsupportedFeature
	case container.ErrEndOfStream:
		return ErrEndOfStream
	case container.ErrOutOfRange:
		return ErrOutOfRange
	case container.ErrCorruptStream:
		return ErrCorruptStream
	default:
		return err
	}
}
