package twilio

import (
	"encoding/xml"
	"fmt"
)

// Voice and language used for synthesized speech in responses.
const (
	DefaultVoice    = "Polly.Joanna"
	DefaultLanguage = "en-US"
)

// Response is a TwiML document. Verbs render in append order.
type Response struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

// NewResponse creates an empty TwiML response.
func NewResponse() *Response {
	return &Response{}
}

type sayVerb struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type gatherVerb struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr,omitempty"`
	Action        string   `xml:"action,attr,omitempty"`
	Method        string   `xml:"method,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Verbs         []any
}

type pauseVerb struct {
	XMLName xml.Name `xml:"Pause"`
	Length  int      `xml:"length,attr,omitempty"`
}

type recordVerb struct {
	XMLName                 xml.Name `xml:"Record"`
	PlayBeep                bool     `xml:"playBeep,attr"`
	MaxLength               int      `xml:"maxLength,attr,omitempty"`
	RecordingStatusCallback string   `xml:"recordingStatusCallback,attr,omitempty"`
}

type enqueueVerb struct {
	XMLName     xml.Name `xml:"Enqueue"`
	WorkflowSid string   `xml:"workflowSid,attr,omitempty"`
	Name        string   `xml:",chardata"`
}

type hangupVerb struct {
	XMLName xml.Name `xml:"Hangup"`
}

// Say speaks text with the default voice.
func (r *Response) Say(text string) *Response {
	r.Verbs = append(r.Verbs, sayVerb{
		Voice:    DefaultVoice,
		Language: DefaultLanguage,
		Text:     text,
	})
	return r
}

// GatherSpeech prompts with text and posts the recognized utterance to
// the action URL.
func (r *Response) GatherSpeech(action, prompt string) *Response {
	g := gatherVerb{
		Input:         "speech",
		Action:        action,
		Method:        "POST",
		SpeechTimeout: "auto",
	}
	if prompt != "" {
		g.Verbs = append(g.Verbs, sayVerb{
			Voice:    DefaultVoice,
			Language: DefaultLanguage,
			Text:     prompt,
		})
	}
	r.Verbs = append(r.Verbs, g)
	return r
}

// Pause waits for the given number of seconds.
func (r *Response) Pause(seconds int) *Response {
	r.Verbs = append(r.Verbs, pauseVerb{Length: seconds})
	return r
}

// Record records the caller, notifying callback when the file is ready.
func (r *Response) Record(callback string, maxSeconds int) *Response {
	r.Verbs = append(r.Verbs, recordVerb{
		PlayBeep:                true,
		MaxLength:               maxSeconds,
		RecordingStatusCallback: callback,
	})
	return r
}

// Enqueue places the caller into the named queue, optionally routed by a
// TaskRouter workflow.
func (r *Response) Enqueue(queue, workflowSid string) *Response {
	r.Verbs = append(r.Verbs, enqueueVerb{WorkflowSid: workflowSid, Name: queue})
	return r
}

// Hangup ends the call.
func (r *Response) Hangup() *Response {
	r.Verbs = append(r.Verbs, hangupVerb{})
	return r
}

// Render serializes the document with an XML declaration.
func (r *Response) Render() ([]byte, error) {
	body, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("twilio: render twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
