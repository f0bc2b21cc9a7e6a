package twilio_test

import (
	"strings"
	"testing"

	"github.com/voiceline/voiceline/pkg/twilio"
)

func render(t *testing.T, r *twilio.Response) string {
	t.Helper()
	out, err := r.Render()
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	return string(out)
}

func TestRenderGreeting(t *testing.T) {
	doc := render(t, twilio.NewResponse().
		Say("Hello, thanks for calling.").
		GatherSpeech("/api/calls/handoff", "How can I help you today?").
		Pause(1).
		Hangup())

	if !strings.HasPrefix(doc, "<?xml") {
		t.Errorf("missing xml declaration: %q", doc)
	}
	for _, want := range []string{
		`<Say voice="Polly.Joanna" language="en-US">Hello, thanks for calling.</Say>`,
		`<Gather input="speech" action="/api/calls/handoff" method="POST" speechTimeout="auto">`,
		`<Pause length="1">`,
		"<Hangup>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q:\n%s", want, doc)
		}
	}
	// The prompt nests inside the Gather.
	gatherStart := strings.Index(doc, "<Gather")
	gatherEnd := strings.Index(doc, "</Gather>")
	if gatherStart < 0 || gatherEnd < 0 {
		t.Fatalf("no gather element:\n%s", doc)
	}
	if !strings.Contains(doc[gatherStart:gatherEnd], "How can I help you today?") {
		t.Errorf("prompt not nested in Gather:\n%s", doc)
	}
}

func TestRenderVerbOrder(t *testing.T) {
	doc := render(t, twilio.NewResponse().
		Say("one").
		Record("/api/calls/transcribe", 120).
		Say("two"))

	first := strings.Index(doc, ">one<")
	rec := strings.Index(doc, "<Record")
	second := strings.Index(doc, ">two<")
	if !(first < rec && rec < second) {
		t.Errorf("verbs out of order:\n%s", doc)
	}
	if !strings.Contains(doc, `recordingStatusCallback="/api/calls/transcribe"`) {
		t.Errorf("record callback missing:\n%s", doc)
	}
	if !strings.Contains(doc, `playBeep="true"`) {
		t.Errorf("playBeep missing:\n%s", doc)
	}
}

func TestRenderEnqueue(t *testing.T) {
	doc := render(t, twilio.NewResponse().Enqueue("support", "WW123"))
	if !strings.Contains(doc, `<Enqueue workflowSid="WW123">support</Enqueue>`) {
		t.Errorf("enqueue malformed:\n%s", doc)
	}

	plain := render(t, twilio.NewResponse().Enqueue("support", ""))
	if strings.Contains(plain, "workflowSid") {
		t.Errorf("empty workflow sid must be omitted:\n%s", plain)
	}
}
