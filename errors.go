package bink1

import "errors"

// Sentinel errors returned by GetFeatures, Open, NewDriver and Driver.Next,
// mirroring the error kinds named in spec.md section 7. Container-level
// parse errors are defined in internal/container/errors.go and are
// translated to the matching sentinel here. Errors from the plane and audio
// decoders are wrapped with %w but not translated, so they do not match
// these sentinels under errors.Is.
var (
	ErrInvalidHeader      = errors.New("bink1: invalid header")
	ErrUnsupportedFeature = errors.New("bink1: unsupported feature")
	ErrEndOfStream        = errors.New("bink1: end of stream")
	ErrOutOfRange         = errors.New("bink1: out of range")
	ErrCorruptStream      = errors.New("bink1: corrupt stream")
)
