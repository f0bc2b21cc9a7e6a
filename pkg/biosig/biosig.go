// Package biosig extracts and compares voice signatures for speaker
// enrollment and verification.
//
// # Architecture
//
// The pipeline reduces audio to a compact numeric fingerprint:
//
//  1. Extractor.Extract: PCM16 WAV bytes → fixed-length feature vector
//  2. Compare: two vectors → cosine similarity + Euclidean distance
//
// The signature is a one-way transform: it captures the spectral envelope
// statistics of a voice, not the waveform. There is no inverse operation
// and the vector cannot be rendered back into intelligible audio.
//
// # Stability
//
// Per-frame mean subtraction removes constant gain, so signatures are
// stable under amplitude scaling. Aggregating band statistics over all
// frames makes them tolerant of small temporal offsets.
package biosig

import "errors"

// Sentinel errors.
var (
	// ErrUnsupportedFormat is returned when the input audio is not a
	// decodable PCM16 WAV container.
	ErrUnsupportedFormat = errors.New("biosig: unsupported audio format")

	// ErrInsufficientSamples is returned when the decoded audio is
	// shorter than the minimum duration for a meaningful signature.
	ErrInsufficientSamples = errors.New("biosig: audio too short")
)

// Signature is a fixed-length voice feature vector plus the native sample
// rate of the audio it was extracted from.
//
// Vectors from different extractor configurations may differ in length;
// Compare canonicalizes lengths before measuring, so profiles enrolled
// under one configuration remain comparable.
type Signature struct {
	// Vector is the ordered feature vector. It is L2-normalized and
	// carries no reconstruction path back to audio.
	Vector []float32

	// SampleRate is the native sample rate in Hz of the source audio.
	SampleRate int
}
