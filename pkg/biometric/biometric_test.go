package biometric_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/voiceline/voiceline/pkg/biometric"
	"github.com/voiceline/voiceline/pkg/biosig"
	"github.com/voiceline/voiceline/pkg/blob"
	"github.com/voiceline/voiceline/pkg/store"
	"github.com/voiceline/voiceline/pkg/wav"
)

// tone builds a WAV sample summing the given partial frequencies.
func tone(dur float64, amp float64, partials ...float64) []byte {
	const rate = 16000
	n := int(dur * rate)
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / rate
		var v float64
		for _, f := range partials {
			v += math.Sin(2 * math.Pi * f * t)
		}
		samples[i] = float32(amp * v / float64(len(partials)))
	}
	return wav.Encode(samples, rate)
}

func newTestService(t *testing.T) (*biometric.Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	svc, err := biometric.NewService(biometric.Config{Store: st})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, st
}

func mustContact(t *testing.T, st store.Store, name, phone string) *store.Contact {
	t.Helper()
	c, err := st.UpsertContact(context.Background(), &store.Contact{Name: name, Phone: phone})
	if err != nil {
		t.Fatalf("UpsertContact: %v", err)
	}
	return c
}

func TestEnroll(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	res, err := svc.Enroll(ctx, c.ID, tone(1.0, 0.6, 220, 440, 880), "primary")
	if err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if res.ContactID != c.ID || res.Label != "primary" {
		t.Errorf("result = %+v", res)
	}
	if res.VectorLength != 64 {
		t.Errorf("vector length = %d, want 64", res.VectorLength)
	}

	profile, err := st.GetProfile(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(profile.VoiceSignature) != res.VectorLength {
		t.Errorf("stored vector length = %d", len(profile.VoiceSignature))
	}
}

func TestEnrollUnknownContact(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Enroll(context.Background(), "c-missing", tone(1.0, 0.6, 220), "")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Enroll = %v, want store.ErrNotFound", err)
	}
}

func TestEnrollShortAudioWritesNothing(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	_, err := svc.Enroll(ctx, c.ID, tone(0.1, 0.6, 220), "")
	if !errors.Is(err, biosig.ErrInsufficientSamples) {
		t.Fatalf("Enroll = %v, want ErrInsufficientSamples", err)
	}
	if _, err := st.GetProfile(ctx, c.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("profile written for failed enrollment: %v", err)
	}
}

func TestEnrollReplacesProfile(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	if _, err := svc.Enroll(ctx, c.ID, tone(1.0, 0.6, 220, 440), "first"); err != nil {
		t.Fatalf("first Enroll: %v", err)
	}
	if _, err := svc.Enroll(ctx, c.ID, tone(1.0, 0.6, 1500, 3000), "second"); err != nil {
		t.Fatalf("second Enroll: %v", err)
	}
	profile, err := st.GetProfile(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.Label != "second" {
		t.Errorf("label = %q, want the replacement to win", profile.Label)
	}
}

func TestEnrollArchivesSample(t *testing.T) {
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	samples, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	svc, err := biometric.NewService(biometric.Config{Store: st, Samples: samples})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	if _, err := svc.Enroll(ctx, c.ID, tone(1.0, 0.6, 220, 440), ""); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	ok, err := samples.Exists(ctx, "enroll/"+c.ID+".wav")
	if err != nil || !ok {
		t.Errorf("archived sample missing: %v, %v", ok, err)
	}
}

func TestVerifyMatchesSameVoice(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	sample := tone(1.0, 0.6, 220, 440, 880)
	if _, err := svc.Enroll(ctx, c.ID, sample, ""); err != nil {
		t.Fatalf("Enroll: %v", err)
	}

	// Same spectral content at a different level must still match.
	res, err := svc.Verify(ctx, c.ID, tone(1.0, 0.2, 220, 440, 880), 0)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !res.Match {
		t.Errorf("same voice rejected: %+v", res)
	}
	if res.Threshold != biosig.DefaultThreshold {
		t.Errorf("threshold = %v, want default %v", res.Threshold, biosig.DefaultThreshold)
	}
}

func TestVerifyRejectsDifferentVoice(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	if _, err := svc.Enroll(ctx, c.ID, tone(1.0, 0.6, 220, 440, 880), ""); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	res, err := svc.Verify(ctx, c.ID, tone(1.0, 0.6, 1500, 3100, 5200), 0)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Match {
		t.Errorf("different voice accepted: %+v", res)
	}
}

func TestVerifyThresholdOverride(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	c := mustContact(t, st, "Ada", "+15550001")

	sample := tone(1.0, 0.6, 220, 440, 880)
	if _, err := svc.Enroll(ctx, c.ID, sample, ""); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	res, err := svc.Verify(ctx, c.ID, sample, 0.5)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if res.Threshold != 0.5 {
		t.Errorf("threshold = %v, want the override", res.Threshold)
	}
	if !res.Match {
		t.Errorf("identical sample must clear any sane threshold: %+v", res)
	}
}

func TestVerifyNotEnrolled(t *testing.T) {
	svc, st := newTestService(t)
	c := mustContact(t, st, "Ada", "+15550001")
	_, err := svc.Verify(context.Background(), c.ID, tone(1.0, 0.6, 220), 0)
	if !errors.Is(err, biometric.ErrNotEnrolled) {
		t.Errorf("Verify = %v, want ErrNotEnrolled", err)
	}
}
