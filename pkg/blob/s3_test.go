package blob

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// apiError implements smithy.APIError for test assertions.
type apiError struct {
	code string
	msg  string
}

func (e *apiError) Error() string                 { return e.msg }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.msg }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

var errNoSuchKey = &apiError{code: "NoSuchKey", msg: "no such key"}

// fakeS3 is an in-memory S3 backend for testing.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (m *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, errNoSuchKey
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (m *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound", msg: "not found"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	backend := newFakeS3()
	s := NewS3(backend, "recordings", "voiceline")
	ctx := context.Background()

	if err := s.Put(ctx, "rec/call-1.mp3", []byte("mp3 bytes")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, ok := backend.objects["voiceline/rec/call-1.mp3"]; !ok {
		t.Fatalf("prefix not applied, keys: %v", backend.objects)
	}

	got, err := s.Get(ctx, "rec/call-1.mp3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "mp3 bytes" {
		t.Errorf("payload = %q", got)
	}

	ok, err := s.Exists(ctx, "rec/call-1.mp3")
	if err != nil || !ok {
		t.Errorf("Exists = %v, %v; want true, nil", ok, err)
	}
}

func TestS3GetMissing(t *testing.T) {
	s := NewS3(newFakeS3(), "recordings", "")
	_, err := s.Get(context.Background(), "rec/nope.mp3")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing = %v, want ErrNotFound", err)
	}
}

func TestS3ExistsMissing(t *testing.T) {
	s := NewS3(newFakeS3(), "recordings", "")
	ok, err := s.Exists(context.Background(), "rec/nope.mp3")
	if err != nil || ok {
		t.Errorf("Exists = %v, %v; want false, nil", ok, err)
	}
}

func TestS3Delete(t *testing.T) {
	backend := newFakeS3()
	s := NewS3(backend, "recordings", "")
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
}
