// Package wav decodes RIFF/WAVE containers carrying 16-bit linear PCM.
//
// Only the canonical uncompressed format (audio format tag 1, 16 bits per
// sample) is supported. Samples are returned as float32 in [-1, 1] at the
// container's native sample rate; multi-channel audio stays interleaved
// and can be mixed down with [Clip.Mono].
package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"
)

// ErrFormat is returned when the input is not a decodable PCM16 WAV file.
// All decode failures wrap this sentinel.
var ErrFormat = errors.New("wav: unsupported or malformed format")

// Clip is decoded audio at its native sample rate.
type Clip struct {
	// SampleRate is the native sample rate in Hz.
	SampleRate int

	// Channels is the number of interleaved channels.
	Channels int

	// Samples holds the interleaved samples normalized to [-1, 1].
	Samples []float32
}

// Frames returns the number of sample frames (samples per channel).
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

// Duration returns the clip length in time units.
func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}
	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Mono returns a single-channel view of the clip, averaging channels
// when the source is multi-channel. Mono clips are returned as-is.
func (c *Clip) Mono() []float32 {
	if c.Channels <= 1 {
		return c.Samples
	}
	frames := c.Frames()
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for ch := 0; ch < c.Channels; ch++ {
			sum += c.Samples[i*c.Channels+ch]
		}
		out[i] = sum / float32(c.Channels)
	}
	return out
}

// Decode parses a RIFF/WAVE byte slice into a Clip.
// Returns an error wrapping [ErrFormat] if the data is not a well-formed
// PCM16 WAV file.
func Decode(data []byte) (*Clip, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("%w: file too short", ErrFormat)
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrFormat)
	}

	var (
		sampleRate int
		channels   int
		bits       int
		havefmt    bool
		pcm        []byte
	)

	// Walk the chunk list. Chunks are word-aligned; odd sizes carry a
	// single pad byte that is not counted in the chunk size field.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return nil, fmt.Errorf("%w: truncated %q chunk", ErrFormat, id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("%w: short fmt chunk", ErrFormat)
			}
			format := int(binary.LittleEndian.Uint16(data[body : body+2]))
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			if format != 1 {
				return nil, fmt.Errorf("%w: audio format %d (want PCM)", ErrFormat, format)
			}
			if bits != 16 {
				return nil, fmt.Errorf("%w: %d bits per sample (want 16)", ErrFormat, bits)
			}
			if channels < 1 || sampleRate <= 0 {
				return nil, fmt.Errorf("%w: invalid fmt chunk", ErrFormat)
			}
			havefmt = true
		case "data":
			pcm = data[body : body+size]
		}
		off = body + size
		if size%2 == 1 {
			off++
		}
	}

	if !havefmt {
		return nil, fmt.Errorf("%w: missing fmt chunk", ErrFormat)
	}
	if pcm == nil {
		return nil, fmt.Errorf("%w: missing data chunk", ErrFormat)
	}

	n := len(pcm) / 2
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
		samples[i] = float32(s) / 32768.0
	}
	// Drop a trailing partial frame rather than failing.
	n -= n % channels
	return &Clip{
		SampleRate: sampleRate,
		Channels:   channels,
		Samples:    samples[:n],
	}, nil
}

// Encode serializes mono float32 samples into a canonical PCM16 WAV file.
// Values outside [-1, 1] are clipped. Used for archiving audio samples
// and for building test fixtures.
func Encode(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := make([]byte, 44+dataSize)
	copy(buf[0:4], "RIFF")
	binary.LittleEndian.PutUint32(buf[4:8], uint32(36+dataSize))
	copy(buf[8:12], "WAVE")
	copy(buf[12:16], "fmt ")
	binary.LittleEndian.PutUint32(buf[16:20], 16)
	binary.LittleEndian.PutUint16(buf[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(buf[22:24], 1) // mono
	binary.LittleEndian.PutUint32(buf[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(buf[28:32], uint32(sampleRate*2))
	binary.LittleEndian.PutUint16(buf[32:34], 2)
	binary.LittleEndian.PutUint16(buf[34:36], 16)
	copy(buf[36:40], "data")
	binary.LittleEndian.PutUint32(buf[40:44], uint32(dataSize))
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		v := int16(s * 32767)
		buf[44+2*i] = byte(v)
		buf[44+2*i+1] = byte(uint16(v) >> 8)
	}
	return buf
}
