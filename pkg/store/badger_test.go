package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/voiceline/voiceline/pkg/store"
)

func newBadgerStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewBadger(store.BadgerOptions{InMemory: true})
	if err != nil {
		t.Fatalf("NewBadger: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerCallRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	score := 0.92
	rec, err := s.CreateCall(ctx, &store.CallRecord{
		SessionID:      "CA-badger",
		Direction:      "outbound",
		Status:         "initiated",
		SentimentScore: &score,
		Highlights:     []string{"x", "y"},
	})
	if err != nil {
		t.Fatalf("CreateCall: %v", err)
	}

	got, err := s.GetCallBySession(ctx, "CA-badger")
	if err != nil {
		t.Fatalf("GetCallBySession: %v", err)
	}
	if got.ID != rec.ID || got.Status != "initiated" {
		t.Errorf("got %+v", got)
	}
	if got.SentimentScore == nil || *got.SentimentScore != 0.92 {
		t.Errorf("SentimentScore did not survive encoding: %+v", got.SentimentScore)
	}
	if len(got.Highlights) != 2 {
		t.Errorf("Highlights = %v", got.Highlights)
	}

	updated, err := s.UpdateCall(ctx, rec.ID, func(r *store.CallRecord) {
		r.Status = "completed"
	})
	if err != nil {
		t.Fatalf("UpdateCall: %v", err)
	}
	if updated.Status != "completed" || updated.SessionID != "CA-badger" {
		t.Errorf("updated = %+v", updated)
	}
}

func TestBadgerContactAndProfile(t *testing.T) {
	ctx := context.Background()
	s := newBadgerStore(t)

	c, err := s.UpsertContact(ctx, &store.Contact{Name: "Grace", Phone: "+15550101"})
	if err != nil {
		t.Fatalf("UpsertContact: %v", err)
	}

	if err := s.PutProfile(ctx, &store.Profile{
		ContactID:      c.ID,
		VoiceSignature: []float32{0.1, 0.2, 0.3},
		SampleRate:     16000,
	}); err != nil {
		t.Fatalf("PutProfile: %v", err)
	}
	p, err := s.GetProfile(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if len(p.VoiceSignature) != 3 || p.SampleRate != 16000 {
		t.Errorf("profile = %+v", p)
	}

	if _, err := s.GetContact(ctx, "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing contact err = %v, want ErrNotFound", err)
	}
}
