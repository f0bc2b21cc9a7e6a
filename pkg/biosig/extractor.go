package biosig

import (
	"fmt"
	"math"
	"time"

	resampling "github.com/tphakala/go-audio-resampling"

	"github.com/voiceline/voiceline/pkg/wav"
)

// Config controls signature extraction parameters.
type Config struct {
	SampleRate  int           // internal analysis rate in Hz (default 16000)
	FrameLength int           // frame length in samples at SampleRate (default 400 = 25ms)
	FrameShift  int           // frame shift in samples (default 160 = 10ms)
	NumBands    int           // number of mel energy bands (default 32)
	PreEmphasis float64       // pre-emphasis coefficient (default 0.97)
	EnergyFloor float64       // floor for log energies (default 1e-10)
	MinDuration time.Duration // minimum decoded audio length (default 400ms)
}

// DefaultConfig returns the standard extraction configuration.
// The resulting vectors have length 2*NumBands = 64.
func DefaultConfig() Config {
	return Config{
		SampleRate:  16000,
		FrameLength: 400, // 25ms @ 16kHz
		FrameShift:  160, // 10ms @ 16kHz
		NumBands:    32,
		PreEmphasis: 0.97,
		EnergyFloor: 1e-10,
		MinDuration: 400 * time.Millisecond,
	}
}

// Extractor reduces raw audio to a fixed-length voice signature.
//
// The window and filterbank are precomputed at construction.
// An Extractor is safe for concurrent use.
type Extractor struct {
	cfg     Config
	window  []float64
	melBank [][]float64
	fftSize int
}

// NewExtractor creates an Extractor with the given config.
// Zero-valued fields are replaced with defaults.
func NewExtractor(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.FrameLength <= 0 {
		cfg.FrameLength = def.FrameLength
	}
	if cfg.FrameShift <= 0 {
		cfg.FrameShift = def.FrameShift
	}
	if cfg.NumBands <= 0 {
		cfg.NumBands = def.NumBands
	}
	if cfg.PreEmphasis == 0 {
		cfg.PreEmphasis = def.PreEmphasis
	}
	if cfg.EnergyFloor <= 0 {
		cfg.EnergyFloor = def.EnergyFloor
	}
	if cfg.MinDuration <= 0 {
		cfg.MinDuration = def.MinDuration
	}
	fftSize := nextPow2(cfg.FrameLength)
	return &Extractor{
		cfg:     cfg,
		window:  hammingWindow(cfg.FrameLength),
		melBank: melFilterbank(cfg.NumBands, fftSize, cfg.SampleRate),
		fftSize: fftSize,
	}
}

// VectorLen returns the length of extracted vectors.
func (e *Extractor) VectorLen() int {
	return 2 * e.cfg.NumBands
}

// Extract decodes raw PCM16 WAV bytes and reduces the waveform to a
// voice signature.
//
// Returns [ErrUnsupportedFormat] when the input is not decodable and
// [ErrInsufficientSamples] when the decoded audio is shorter than the
// configured minimum duration.
func (e *Extractor) Extract(raw []byte) (Signature, error) {
	clip, err := wav.Decode(raw)
	if err != nil {
		return Signature{}, fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
	}
	if clip.Duration() < e.cfg.MinDuration {
		return Signature{}, fmt.Errorf("%w: got %v, need at least %v",
			ErrInsufficientSamples, clip.Duration(), e.cfg.MinDuration)
	}

	samples := clip.Mono()
	if clip.SampleRate != e.cfg.SampleRate {
		samples, err = resampleTo(samples, clip.SampleRate, e.cfg.SampleRate)
		if err != nil {
			return Signature{}, fmt.Errorf("biosig: resample %dHz to %dHz: %w",
				clip.SampleRate, e.cfg.SampleRate, err)
		}
	}
	if len(samples) < e.cfg.FrameLength {
		return Signature{}, fmt.Errorf("%w: %d samples after resampling",
			ErrInsufficientSamples, len(samples))
	}

	return Signature{
		Vector:     e.featurize(samples),
		SampleRate: clip.SampleRate,
	}, nil
}

// featurize computes log mel band energies per frame, removes per-frame
// gain, and aggregates per-band mean and standard deviation over all
// frames into a single L2-normalized vector.
func (e *Extractor) featurize(samples []float32) []float32 {
	cfg := e.cfg
	n := len(samples)
	numFrames := (n-cfg.FrameLength)/cfg.FrameShift + 1
	halfFFT := e.fftSize/2 + 1

	mean := make([]float64, cfg.NumBands)
	sqsum := make([]float64, cfg.NumBands)
	fftBuf := make([]complex128, e.fftSize)
	power := make([]float64, halfFFT)
	bands := make([]float64, cfg.NumBands)

	for f := 0; f < numFrames; f++ {
		offset := f * cfg.FrameShift

		// Pre-emphasis + window, zero-padded to FFT size.
		for i := range fftBuf {
			fftBuf[i] = 0
		}
		for i := 0; i < cfg.FrameLength; i++ {
			s := float64(samples[offset+i])
			if i > 0 {
				s -= cfg.PreEmphasis * float64(samples[offset+i-1])
			}
			fftBuf[i] = complex(s*e.window[i], 0)
		}

		fft(fftBuf)

		for k := 0; k < halfFFT; k++ {
			re := real(fftBuf[k])
			im := imag(fftBuf[k])
			power[k] = re*re + im*im
		}

		// Log mel band energies with per-frame mean subtraction.
		// Subtracting the frame mean cancels constant gain, since a
		// gain change shifts every band's log energy by the same amount.
		var frameMean float64
		for m := 0; m < cfg.NumBands; m++ {
			var energy float64
			for k, w := range e.melBank[m] {
				energy += w * power[k]
			}
			if energy < cfg.EnergyFloor {
				energy = cfg.EnergyFloor
			}
			bands[m] = math.Log(energy)
			frameMean += bands[m]
		}
		frameMean /= float64(cfg.NumBands)

		for m := 0; m < cfg.NumBands; m++ {
			v := bands[m] - frameMean
			mean[m] += v
			sqsum[m] += v * v
		}
	}

	// Aggregate: per-band mean followed by per-band stddev.
	vec := make([]float32, 2*cfg.NumBands)
	inv := 1.0 / float64(numFrames)
	for m := 0; m < cfg.NumBands; m++ {
		mu := mean[m] * inv
		variance := sqsum[m]*inv - mu*mu
		if variance < 0 {
			variance = 0
		}
		vec[m] = float32(mu)
		vec[cfg.NumBands+m] = float32(math.Sqrt(variance))
	}

	// L2-normalize so the cosine/Euclidean measures operate on unit
	// vectors regardless of recording level.
	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		scale := float32(1.0 / norm)
		for i := range vec {
			vec[i] *= scale
		}
	}
	return vec
}

// resampleTo converts mono samples from srcRate to dstRate.
func resampleTo(samples []float32, srcRate, dstRate int) ([]float32, error) {
	rs, err := resampling.New(&resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	})
	if err != nil {
		return nil, err
	}
	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}
	output, err := rs.Process(input)
	if err != nil {
		return nil, err
	}
	out := make([]float32, len(output))
	for i, s := range output {
		out[i] = float32(s)
	}
	return out, nil
}
