package twilio

import (
	"errors"
	"net/url"

	"github.com/voiceline/voiceline/pkg/call"
)

// ErrMissingCallSid is returned when a webhook form has no CallSid.
// Callback handlers turn it into the one 400 a callback can produce.
var ErrMissingCallSid = errors.New("twilio: missing CallSid")

// StatusEvent is a parsed lifecycle callback.
type StatusEvent struct {
	CallSid string
	Update  call.Update
}

// ParseStatusCallback reads a status callback form into an event.
//
// Status tokens are passed through raw; the state machine owns the
// vocabulary mapping. Unparseable numeric fields are dropped rather than
// failing the whole event. The recording URL gains the ".mp3" suffix the
// provider serves transcodable audio under.
func ParseStatusCallback(form url.Values) (StatusEvent, error) {
	sid := form.Get("CallSid")
	if sid == "" {
		return StatusEvent{}, ErrMissingCallSid
	}
	ev := StatusEvent{CallSid: sid}
	if s := form.Get("CallStatus"); s != "" {
		ev.Update.Status = call.String(s)
	}
	ev.Update.DurationSeconds = call.ParseInt(form.Get("CallDuration"))
	if u := form.Get("RecordingUrl"); u != "" {
		ev.Update.RecordingURL = call.String(u + ".mp3")
	}
	return ev, nil
}

// SpeechEvent is a parsed speech-gather callback.
type SpeechEvent struct {
	CallSid    string
	Transcript string
	Confidence *float64
}

// ParseSpeechCallback reads a gather action form into an event.
func ParseSpeechCallback(form url.Values) (SpeechEvent, error) {
	sid := form.Get("CallSid")
	if sid == "" {
		return SpeechEvent{}, ErrMissingCallSid
	}
	return SpeechEvent{
		CallSid:    sid,
		Transcript: form.Get("SpeechResult"),
		Confidence: call.ParseFloat(form.Get("Confidence")),
	}, nil
}

// RecordingEvent is a parsed recording-ready callback.
type RecordingEvent struct {
	CallSid      string
	RecordingURL string
}

// ParseRecordingCallback reads a recording status form into an event.
func ParseRecordingCallback(form url.Values) (RecordingEvent, error) {
	sid := form.Get("CallSid")
	if sid == "" {
		return RecordingEvent{}, ErrMissingCallSid
	}
	ev := RecordingEvent{CallSid: sid}
	if u := form.Get("RecordingUrl"); u != "" {
		ev.RecordingURL = u + ".mp3"
	}
	return ev, nil
}

// CallerDisplayName picks a display name from inbound call metadata:
// the CNAM lookup result when present, else the caller's city, else a
// generic placeholder.
func CallerDisplayName(form url.Values) string {
	if name := form.Get("CallerName"); name != "" {
		return name
	}
	if city := form.Get("CallerCity"); city != "" {
		return city
	}
	return "Caller"
}
