package container

import "encoding/binary"

const (
	// headerSize is the fixed 44-byte Bink1 file header (spec.md section 6).
	headerSize = 44
	// trackHeaderSize is the combined size of a track's two 4-byte headers
	// plus its 4-byte track id.
	trackHeaderSize = 12
)

var validRevisions = map[byte]bool{
	'b': true, 'd': true, 'f': true, 'g': true, 'h': true, 'i': true,
}

const (
	grayscaleFlag = 1 << 17
	alphaFlag     = 1 << 20
	scalingShift  = 28
	scalingMask   = 0x7
)

// Header holds the fixed Bink1 file header fields.
type Header struct {
	Revision        byte
	FileSize        uint32
	FrameCount      uint32
	MaxFrameSize    uint32
	FrameCount2     uint32
	Width           uint32
	Height          uint32
	FPSDividend     uint32
	FPSDivider      uint32
	VideoFlags      uint32
	AudioTrackCount uint32
}

// Grayscale reports whether the video plane set omits U/V chroma.
func (h Header) Grayscale() bool { return h.VideoFlags&grayscaleFlag != 0 }

// HasAlpha reports whether an alpha plane precedes Y in every frame.
func (h Header) HasAlpha() bool { return h.VideoFlags&alphaFlag != 0 }

// ScalingMode returns the 3-bit scaling mode carried in bits 28..30.
func (h Header) ScalingMode() uint32 { return (h.VideoFlags >> scalingShift) & scalingMask }

// TrackHeader holds one audio track's header fields (spec.md section 6:
// two 4-byte headers followed by a 4-byte id).
type TrackHeader struct {
	ChannelCount uint16
	SampleRate   uint16
	Flags        uint16
	ID           uint32
}

const (
	trackDCTFlag    = 1 << 12
	trackStereoFlag = 1 << 13
)

// DCT reports the unsupported-DCT-audio bit.
func (t TrackHeader) DCT() bool { return t.Flags&trackDCTFlag != 0 }

// Stereo reports the required-stereo bit.
func (t TrackHeader) Stereo() bool { return t.Flags&trackStereoFlag != 0 }

// File holds a fully parsed Bink1 container: the fixed header, one
// TrackHeader per audio track, and the frame offset table with the
// keyframe bit already split out.
type File struct {
	Header       Header
	Tracks       []TrackHeader
	FrameOffsets []uint32 // length FrameCount+1, keyframe bit cleared
	Keyframe     []bool   // length FrameCount
}

// Parse reads a Bink1 file header, its track headers, and its frame offset
// table from data, validating according to mode.
func Parse(data []byte, mode ValidationMode) (*File, error) {
	if len(data) < headerSize {
		return nil, ErrEndOfStream
	}
	if mode >= Supported && string(data[0:3]) != "BIK" {
		return nil, ErrInvalidHeader
	}
	h := Header{
		Revision:        data[3],
		FileSize:        binary.LittleEndian.Uint32(data[4:8]),
		FrameCount:      binary.LittleEndian.Uint32(data[8:12]),
		MaxFrameSize:    binary.LittleEndian.Uint32(data[12:16]),
		FrameCount2:     binary.LittleEndian.Uint32(data[16:20]),
		Width:           binary.LittleEndian.Uint32(data[20:24]),
		Height:          binary.LittleEndian.Uint32(data[24:28]),
		FPSDividend:     binary.LittleEndian.Uint32(data[28:32]),
		FPSDivider:      binary.LittleEndian.Uint32(data[32:36]),
		VideoFlags:      binary.LittleEndian.Uint32(data[36:40]),
		AudioTrackCount: binary.LittleEndian.Uint32(data[40:44]),
	}

	if mode >= Supported {
		if !validRevisions[h.Revision] {
			return nil, ErrInvalidHeader
		}
		if h.Width == 0 || h.Width > 65535 || h.Height == 0 || h.Height > 65535 {
			return nil, ErrOutOfRange
		}
	}

	off := headerSize
	tracks := make([]TrackHeader, h.AudioTrackCount)
	for i := range tracks {
		if off+trackHeaderSize > len(data) {
			return nil, ErrEndOfStream
		}
		channelCount := binary.LittleEndian.Uint16(data[off+2 : off+4])
		sampleRate := binary.LittleEndian.Uint16(data[off+4 : off+6])
		flags := binary.LittleEndian.Uint16(data[off+6 : off+8])
		id := binary.LittleEndian.Uint32(data[off+8 : off+12])
		tracks[i] = TrackHeader{ChannelCount: channelCount, SampleRate: sampleRate, Flags: flags, ID: id}
		off += trackHeaderSize
	}

	offsetCount := int(h.FrameCount) + 1
	if off+offsetCount*4 > len(data) {
		return nil, ErrEndOfStream
	}
	offsets := make([]uint32, offsetCount)
	keyframe := make([]bool, h.FrameCount)
	for i := 0; i < offsetCount; i++ {
		raw := binary.LittleEndian.Uint32(data[off+i*4 : off+i*4+4])
		offsets[i] = raw &^ 1
		if i < len(keyframe) {
			keyframe[i] = raw&1 != 0
		}
	}

	f := &File{Header: h, Tracks: tracks, FrameOffsets: offsets, Keyframe: keyframe}
	if err := validate(f, mode); err != nil {
		return nil, err
	}
	return f, nil
}
