// Package bink1 implements a decoder for the Bink1 legacy video/audio
// container: the static-Huffman/bundle-coded plane decoder, the critical-
// band audio decoder, and the frame driver that walks a parsed file's
// frame offset table.
package bink1

import (
	"fmt"
	"io"

	"github.com/binkcore/bink1/internal/container"
)

// Features describes a Bink1 file's header fields, as returned by
// [GetFeatures], without decoding any frame payloads.
type Features struct {
	Width           int
	Height          int
	FrameCount      int
	FPSDividend     int
	FPSDivider      int
	Grayscale       bool
	HasAlpha        bool
	ScalingMode     int
	AudioTrackCount int
	AudioSampleRate []int // one entry per track, in header order
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of the
// repeated doublings io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// GetFeatures reads a Bink1 file's header, track headers and frame offset
// table from r under Supported validation, without decoding any frame.
func GetFeatures(r io.Reader) (*Features, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, fmt.Errorf("bink1: reading data: %w", err)
	}
	f, err := container.Parse(data, container.Supported)
	if err != nil {
		return nil, mapContainerErr(err)
	}

	feat := &Features{
		Width:           int(f.Header.Width),
		Height:          int(f.Header.Height),
		FrameCount:      int(f.Header.FrameCount),
		FPSDividend:     int(f.Header.FPSDividend),
		FPSDivider:      int(f.Header.FPSDivider),
		Grayscale:       f.Header.Grayscale(),
		HasAlpha:        f.Header.HasAlpha(),
		ScalingMode:     int(f.Header.ScalingMode()),
		AudioTrackCount: len(f.Tracks),
		AudioSampleRate: make([]int, len(f.Tracks)),
	}
	for i, t := range f.Tracks {
		feat.AudioSampleRate[i] = int(t.SampleRate)
	}
	return feat, nil
}

// Open parses data as a complete Bink1 file under the given validation
// mode and returns a Driver positioned at frame 0, with every audio track
// enabled. Unlike [GetFeatures], Open needs the whole file up front: the
// frame offset table and every frame's payload bytes must already be
// resident in data, since the Driver does not perform its own I/O.
func Open(data []byte, mode container.ValidationMode) (*Driver, error) {
	return NewDriver(data, mode, nil)
}
