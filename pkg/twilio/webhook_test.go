package twilio_test

import (
	"errors"
	"net/url"
	"testing"

	"github.com/voiceline/voiceline/pkg/twilio"
)

func TestParseStatusCallback(t *testing.T) {
	form := url.Values{
		"CallSid":      {"CA1"},
		"CallStatus":   {"inprogress"},
		"CallDuration": {"42"},
		"RecordingUrl": {"https://api.example/rec/RE1"},
	}
	ev, err := twilio.ParseStatusCallback(form)
	if err != nil {
		t.Fatalf("ParseStatusCallback: %v", err)
	}
	if ev.CallSid != "CA1" {
		t.Errorf("sid = %q", ev.CallSid)
	}
	if ev.Update.Status == nil || *ev.Update.Status != "inprogress" {
		t.Errorf("status = %v, want raw provider token", ev.Update.Status)
	}
	if ev.Update.DurationSeconds == nil || *ev.Update.DurationSeconds != 42 {
		t.Errorf("duration = %v", ev.Update.DurationSeconds)
	}
	if ev.Update.RecordingURL == nil || *ev.Update.RecordingURL != "https://api.example/rec/RE1.mp3" {
		t.Errorf("recording url = %v, want .mp3 suffix", ev.Update.RecordingURL)
	}
}

func TestParseStatusCallbackSparse(t *testing.T) {
	ev, err := twilio.ParseStatusCallback(url.Values{"CallSid": {"CA1"}})
	if err != nil {
		t.Fatalf("ParseStatusCallback: %v", err)
	}
	if !ev.Update.IsZero() {
		t.Errorf("update = %+v, want all fields absent", ev.Update)
	}
}

func TestParseStatusCallbackDropsBadDuration(t *testing.T) {
	ev, err := twilio.ParseStatusCallback(url.Values{
		"CallSid":      {"CA1"},
		"CallDuration": {"soon"},
	})
	if err != nil {
		t.Fatalf("ParseStatusCallback: %v", err)
	}
	if ev.Update.DurationSeconds != nil {
		t.Errorf("duration = %v, want dropped", *ev.Update.DurationSeconds)
	}
}

func TestParseStatusCallbackMissingSid(t *testing.T) {
	_, err := twilio.ParseStatusCallback(url.Values{"CallStatus": {"ringing"}})
	if !errors.Is(err, twilio.ErrMissingCallSid) {
		t.Errorf("err = %v, want ErrMissingCallSid", err)
	}
}

func TestParseSpeechCallback(t *testing.T) {
	ev, err := twilio.ParseSpeechCallback(url.Values{
		"CallSid":      {"CA1"},
		"SpeechResult": {"I need help with my order"},
		"Confidence":   {"0.87"},
	})
	if err != nil {
		t.Fatalf("ParseSpeechCallback: %v", err)
	}
	if ev.Transcript != "I need help with my order" {
		t.Errorf("transcript = %q", ev.Transcript)
	}
	if ev.Confidence == nil || *ev.Confidence != 0.87 {
		t.Errorf("confidence = %v", ev.Confidence)
	}
}

func TestParseRecordingCallback(t *testing.T) {
	ev, err := twilio.ParseRecordingCallback(url.Values{
		"CallSid":      {"CA1"},
		"RecordingUrl": {"https://api.example/rec/RE1"},
	})
	if err != nil {
		t.Fatalf("ParseRecordingCallback: %v", err)
	}
	if ev.RecordingURL != "https://api.example/rec/RE1.mp3" {
		t.Errorf("url = %q", ev.RecordingURL)
	}
}

func TestCallerDisplayName(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{"cnam", url.Values{"CallerName": {"Ada Lovelace"}, "CallerCity": {"London"}}, "Ada Lovelace"},
		{"city fallback", url.Values{"CallerCity": {"London"}}, "London"},
		{"placeholder", url.Values{}, "Caller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := twilio.CallerDisplayName(tt.form); got != tt.want {
				t.Errorf("CallerDisplayName = %q, want %q", got, tt.want)
			}
		})
	}
}
