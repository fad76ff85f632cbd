package container

import "errors"

// Error kinds returned by header and frame-offset parsing, matching
// spec.md section 7's error taxonomy.
var (
	ErrInvalidHeader     = errors.New("bink1: invalid header")
	ErrUnsupportedFeature = errors.New("bink1: unsupported feature")
	ErrEndOfStream       = errors.New("bink1: end of stream")
	ErrOutOfRange        = errors.New("bink1: value out of range")
	ErrCorruptStream     = errors.New("bink1: corrupt stream")
)
