package biosig_test

import (
	"errors"
	"math"
	"testing"

	"github.com/voiceline/voiceline/pkg/biosig"
	"github.com/voiceline/voiceline/pkg/wav"
)

// tone builds a mono WAV clip from a sum of sine partials, which gives
// each "voice" a distinct spectral envelope.
func tone(t *testing.T, rate int, dur float64, amp float64, partials ...float64) []byte {
	t.Helper()
	n := int(float64(rate) * dur)
	samples := make([]float32, n)
	for i := range samples {
		var s float64
		for k, freq := range partials {
			s += math.Sin(2*math.Pi*freq*float64(i)/float64(rate)) / float64(k+1)
		}
		samples[i] = float32(amp * s / float64(len(partials)))
	}
	return wav.Encode(samples, rate)
}

func TestExtractVectorShape(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	sig, err := e.Extract(tone(t, 16000, 1.0, 0.6, 220, 440, 880))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(sig.Vector) != e.VectorLen() {
		t.Errorf("vector length = %d, want %d", len(sig.Vector), e.VectorLen())
	}
	if sig.SampleRate != 16000 {
		t.Errorf("SampleRate = %d, want 16000", sig.SampleRate)
	}

	// L2 norm of the vector should be 1.
	var norm float64
	for _, v := range sig.Vector {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1) > 1e-3 {
		t.Errorf("squared norm = %f, want 1", norm)
	}
}

func TestExtractRejectsUndecodable(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	_, err := e.Extract([]byte("definitely not a wav file"))
	if !errors.Is(err, biosig.ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractRejectsShortAudio(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	// 100ms, well under the 400ms minimum.
	_, err := e.Extract(tone(t, 16000, 0.1, 0.6, 440))
	if !errors.Is(err, biosig.ErrInsufficientSamples) {
		t.Fatalf("err = %v, want ErrInsufficientSamples", err)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	raw := tone(t, 16000, 1.0, 0.6, 330, 660)
	a, err := e.Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := e.Extract(raw)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	for i := range a.Vector {
		if a.Vector[i] != b.Vector[i] {
			t.Fatalf("vector[%d] differs between identical inputs", i)
		}
	}
}

func TestExtractStableUnderAmplitude(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	loud, err := e.Extract(tone(t, 16000, 1.0, 0.8, 220, 440, 880))
	if err != nil {
		t.Fatalf("Extract loud: %v", err)
	}
	quiet, err := e.Extract(tone(t, 16000, 1.0, 0.2, 220, 440, 880))
	if err != nil {
		t.Fatalf("Extract quiet: %v", err)
	}
	cmp := biosig.Compare(loud, quiet)
	if cmp.Similarity < 0.99 {
		t.Errorf("similarity across gain change = %f, want >= 0.99", cmp.Similarity)
	}
}

func TestExtractSeparatesSpectra(t *testing.T) {
	e := biosig.NewExtractor(biosig.DefaultConfig())
	low, err := e.Extract(tone(t, 16000, 1.0, 0.6, 150, 300))
	if err != nil {
		t.Fatalf("Extract low: %v", err)
	}
	high, err := e.Extract(tone(t, 16000, 1.0, 0.6, 2500, 5000))
	if err != nil {
		t.Fatalf("Extract high: %v", err)
	}
	same := biosig.Compare(low, low)
	diff := biosig.Compare(low, high)
	if diff.Similarity >= same.Similarity {
		t.Errorf("different spectra similarity %f not below self similarity %f",
			diff.Similarity, same.Similarity)
	}
}
