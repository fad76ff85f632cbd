package container

// ValidationMode selects how strictly Parse checks a Bink1 file, per
// spec.md section 6.
type ValidationMode int

const (
	// Minimal performs no checks beyond what's needed to read the bytes.
	Minimal ValidationMode = iota
	// Supported checks header signature, codec revision, and width/height
	// bounds. The scaling mode is not checked.
	Supported
	// Pedantic adds frameCount-field agreement, FPS sanity, an audio
	// track count limit, strict flag-bit masks, unique track ids,
	// monotonically increasing frame offsets, and a per-frame size cap.
	Pedantic
)

// maxAudioTracks bounds the audio track count under Pedantic validation.
// spec.md doesn't name a limit; this is a sanity ceiling, not a format
// constant (see DESIGN.md).
const maxAudioTracks = 256

// validFlagMask covers every video flag bit spec.md assigns meaning to.
const validFlagMask = grayscaleFlag | alphaFlag | (scalingMask << scalingShift)

// CheckTrackSupported reports ErrUnsupportedFeature for DCT or mono audio
// tracks, per spec.md section 7. Callers that construct a per-track audio
// decoder should run this independently of the file's ValidationMode,
// since it reflects what the decoder itself can handle rather than
// header well-formedness.
func CheckTrackSupported(t TrackHeader) error {
	if t.DCT() {
		return ErrUnsupportedFeature
	}
	if !t.Stereo() {
		return ErrUnsupportedFeature
	}
	return nil
}

func validate(f *File, mode ValidationMode) error {
	if mode < Pedantic {
		return nil
	}

	h := f.Header
	if h.FrameCount != h.FrameCount2 {
		return ErrCorruptStream
	}
	if h.FPSDividend == 0 || h.FPSDivider == 0 {
		return ErrInvalidHeader
	}
	if h.AudioTrackCount > maxAudioTracks {
		return ErrOutOfRange
	}
	if h.VideoFlags&^validFlagMask != 0 {
		return ErrUnsupportedFeature
	}

	seen := make(map[uint32]bool, len(f.Tracks))
	for _, t := range f.Tracks {
		if seen[t.ID] {
			return ErrCorruptStream
		}
		seen[t.ID] = true
		if err := CheckTrackSupported(t); err != nil {
			return err
		}
	}

	for i := 1; i < len(f.FrameOffsets); i++ {
		if f.FrameOffsets[i] <= f.FrameOffsets[i-1] {
			return ErrCorruptStream
		}
		if f.FrameOffsets[i]-f.FrameOffsets[i-1] > h.MaxFrameSize {
			return ErrCorruptStream
		}
	}
	return nil
}
