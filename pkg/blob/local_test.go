package blob_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/voiceline/voiceline/pkg/blob"
)

func TestLocalRoundTrip(t *testing.T) {
	s, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()

	payload := []byte("RIFF fake wav payload")
	if err := s.Put(ctx, "enroll/c-1.wav", payload); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := s.Get(ctx, "enroll/c-1.wav")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("payload mismatch: got %q", got)
	}

	ok, err := s.Exists(ctx, "enroll/c-1.wav")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}
}

func TestLocalGetMissing(t *testing.T) {
	s, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	_, err = s.Get(context.Background(), "rec/nope.mp3")
	if !errors.Is(err, blob.ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestLocalPutOverwrites(t *testing.T) {
	s, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "enroll/c-2.wav", []byte("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "enroll/c-2.wav", []byte("second")); err != nil {
		t.Fatalf("Put again: %v", err)
	}
	got, err := s.Get(ctx, "enroll/c-2.wav")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("got %q, want overwrite to win", got)
	}
}

func TestLocalDeleteIdempotent(t *testing.T) {
	s, err := blob.NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	ctx := context.Background()
	if err := s.Put(ctx, "rec/x.mp3", []byte("data")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Delete(ctx, "rec/x.mp3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "rec/x.mp3"); err != nil {
		t.Errorf("second Delete = %v, want nil", err)
	}
	ok, err := s.Exists(ctx, "rec/x.mp3")
	if err != nil || ok {
		t.Errorf("Exists after delete = %v, %v; want false, nil", ok, err)
	}
}
