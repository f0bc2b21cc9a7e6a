// Package biometric provides voice enrollment and verification on top of
// the signature extractor and the profile store.
//
// Enrollment converts a speech sample into a voice signature and persists
// it as the contact's profile; a later enrollment replaces the previous
// one. Verification extracts a signature from a fresh sample and compares
// it against the enrolled profile. Raw audio is never persisted in the
// profile store; when a sample archive is configured, the submitted bytes
// are kept there under the contact's key for re-enrollment audits.
package biometric

import (
	"context"
	"errors"
	"fmt"

	"github.com/voiceline/voiceline/pkg/biosig"
	"github.com/voiceline/voiceline/pkg/blob"
	"github.com/voiceline/voiceline/pkg/store"
)

// ErrNotEnrolled is returned by Verify when the contact has no profile.
var ErrNotEnrolled = errors.New("biometric: contact not enrolled")

// Config configures a Service.
type Config struct {
	// Store persists profiles and resolves contacts. Required.
	Store store.Store

	// Extractor converts audio to signatures.
	// When nil, an extractor with default settings is used.
	Extractor *biosig.Extractor

	// Threshold is the similarity cutoff when Verify is called without
	// an override. Default biosig.DefaultThreshold.
	Threshold float64

	// Samples, when set, archives submitted enrollment audio.
	Samples blob.Store
}

// Service performs enrollment and verification.
type Service struct {
	store     store.Store
	extractor *biosig.Extractor
	threshold float64
	samples   blob.Store
}

// NewService creates a Service from cfg.
func NewService(cfg Config) (*Service, error) {
	if cfg.Store == nil {
		return nil, errors.New("biometric: store is required")
	}
	ex := cfg.Extractor
	if ex == nil {
		ex = biosig.NewExtractor(biosig.DefaultConfig())
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = biosig.DefaultThreshold
	}
	return &Service{
		store:     cfg.Store,
		extractor: ex,
		threshold: threshold,
		samples:   cfg.Samples,
	}, nil
}

// EnrollResult summarizes a stored profile. It carries the signature's
// shape, never the vector itself.
type EnrollResult struct {
	ContactID    string `json:"contact_id"`
	Label        string `json:"label,omitempty"`
	SampleRate   int    `json:"sample_rate"`
	VectorLength int    `json:"vector_length"`
}

// VerifyResult reports the outcome of a verification attempt.
type VerifyResult struct {
	Match      bool    `json:"match"`
	Similarity float64 `json:"similarity"`
	Distance   float64 `json:"distance"`
	Threshold  float64 `json:"threshold"`
}

// Enroll extracts a signature from audio and stores it as the contact's
// profile, replacing any existing one. The contact must already exist.
func (s *Service) Enroll(ctx context.Context, contactID string, audio []byte, label string) (*EnrollResult, error) {
	if _, err := s.store.GetContact(ctx, contactID); err != nil {
		return nil, err
	}
	sig, err := s.extractor.Extract(audio)
	if err != nil {
		return nil, err
	}
	if err := s.store.PutProfile(ctx, &store.Profile{
		ContactID:      contactID,
		VoiceSignature: sig.Vector,
		SampleRate:     sig.SampleRate,
		Label:          label,
	}); err != nil {
		return nil, err
	}
	if s.samples != nil {
		key := fmt.Sprintf("enroll/%s.wav", contactID)
		if err := s.samples.Put(ctx, key, audio); err != nil {
			return nil, fmt.Errorf("biometric: archive sample: %w", err)
		}
	}
	return &EnrollResult{
		ContactID:    contactID,
		Label:        label,
		SampleRate:   sig.SampleRate,
		VectorLength: len(sig.Vector),
	}, nil
}

// Verify extracts a signature from audio and compares it against the
// contact's enrolled profile. threshold overrides the service default
// when nonzero. Returns ErrNotEnrolled when no profile exists.
func (s *Service) Verify(ctx context.Context, contactID string, audio []byte, threshold float64) (*VerifyResult, error) {
	profile, err := s.store.GetProfile(ctx, contactID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotEnrolled, contactID)
	}
	if err != nil {
		return nil, err
	}

	sig, err := s.extractor.Extract(audio)
	if err != nil {
		return nil, err
	}
	if threshold == 0 {
		threshold = s.threshold
	}

	cmp := biosig.Compare(
		biosig.Signature{Vector: profile.VoiceSignature, SampleRate: profile.SampleRate},
		sig,
	)
	return &VerifyResult{
		Match:      cmp.Matches(threshold),
		Similarity: cmp.Similarity,
		Distance:   cmp.Distance,
		Threshold:  threshold,
	}, nil
}
