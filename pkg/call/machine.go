package call

import (
	"context"
	"errors"
	"fmt"

	"github.com/voiceline/voiceline/pkg/store"
)

// Machine applies provider events to call records.
//
// All mutation goes through the store's per-record read-modify-write, so
// concurrent events for the same session are serialized by the storage
// layer and the machine itself holds no state.
type Machine struct {
	store store.Store
}

// NewMachine creates a Machine over the given store.
func NewMachine(s store.Store) *Machine {
	return &Machine{store: s}
}

// Begin creates a call record for a new session. contactID may be empty
// when the call exists before a contact is resolved.
func (m *Machine) Begin(ctx context.Context, direction, contactID, sessionID, status string) (*store.CallRecord, error) {
	if sessionID == "" {
		return nil, errors.New("call: session id is required")
	}
	rec, err := m.store.CreateCall(ctx, &store.CallRecord{
		SessionID: sessionID,
		ContactID: contactID,
		Direction: direction,
		Status:    status,
	})
	if err != nil {
		return nil, fmt.Errorf("call: begin session %s: %w", sessionID, err)
	}
	return rec, nil
}

// ApplyEvent merges a provider event into the record for sessionID.
//
// Status tokens are normalized through the provider vocabulary table.
// When no record matches the session, ApplyEvent returns (nil, nil):
// the miss is benign and the caller must still acknowledge the provider.
// Out-of-order events are applied as-is — a stray "ringing" after
// "completed" overwrites the status. The provider gives no ordering
// guarantee and suppressing regressions would change observable
// behavior; see DESIGN.md.
func (m *Machine) ApplyEvent(ctx context.Context, sessionID string, up Update) (*store.CallRecord, error) {
	if sessionID == "" {
		return nil, errors.New("call: session id is required")
	}

	rec, err := m.store.GetCallBySession(ctx, sessionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("call: lookup session %s: %w", sessionID, err)
	}
	if up.IsZero() {
		return rec, nil
	}

	updated, err := m.store.UpdateCall(ctx, rec.ID, func(r *store.CallRecord) {
		if up.Status != nil {
			r.Status = NormalizeStatus(*up.Status)
		}
		if up.Transcript != nil {
			r.Transcript = *up.Transcript
		}
		if up.SentimentScore != nil {
			score := *up.SentimentScore
			r.SentimentScore = &score
		}
		if up.DurationSeconds != nil {
			r.DurationSeconds = *up.DurationSeconds
		}
		if up.RecordingURL != nil {
			r.RecordingURL = *up.RecordingURL
		}
	})
	if err != nil {
		return nil, fmt.Errorf("call: apply event to session %s: %w", sessionID, err)
	}
	return updated, nil
}

// SpeechCaptured handles an inbound speech-gather result: the recognized
// utterance becomes the transcript, the recognition confidence lands in
// the sentiment-score slot until enrichment overwrites it, and the call
// moves to in-progress. The provider-facing routing response is built by
// the caller; this only mutates call state.
func (m *Machine) SpeechCaptured(ctx context.Context, sessionID, transcript string, confidence *float64) (*store.CallRecord, error) {
	up := Update{
		Transcript: &transcript,
		Status:     String(StatusInProgress),
	}
	if confidence != nil {
		up.SentimentScore = confidence
	}
	return m.ApplyEvent(ctx, sessionID, up)
}
