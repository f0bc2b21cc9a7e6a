package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/voiceline/voiceline/pkg/call"
	"github.com/voiceline/voiceline/pkg/store"
	"github.com/voiceline/voiceline/pkg/twilio"
)

// handleInbound answers a new inbound call: resolve the caller to a
// contact, open an answered call record, and greet with a speech gather.
func (s *Server) handleInbound(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	sid := r.PostForm.Get("CallSid")
	if sid == "" {
		writeError(w, http.StatusBadRequest, "missing CallSid")
		return
	}

	contact, err := s.cfg.Store.UpsertContact(r.Context(), &store.Contact{
		Name:  twilio.CallerDisplayName(r.PostForm),
		Phone: r.PostForm.Get("From"),
	})
	if err != nil {
		s.failErr(w, err)
		return
	}

	rec, err := s.cfg.Machine.Begin(r.Context(), call.DirectionInbound, contact.ID, sid, call.StatusAnswered)
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.publish(rec)
	s.log.Info("inbound call answered", "session", sid, "contact", contact.ID)

	doc, err := twilio.NewResponse().
		Say("Hello "+contact.Name+", you have reached "+s.cfg.AgentName+".").
		GatherSpeech(s.callbackURL("/api/calls/handoff"), "How can I help you today?").
		Say("I did not catch that. Goodbye.").
		Hangup().
		Render()
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.writeTwiML(w, doc)
}

// handleStatus ingests a lifecycle callback. Unknown sessions are
// acknowledged with 200 so the provider stops retrying; only a missing
// CallSid is a client error.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	ev, err := twilio.ParseStatusCallback(r.PostForm)
	if errors.Is(err, twilio.ErrMissingCallSid) {
		writeError(w, http.StatusBadRequest, "missing CallSid")
		return
	}

	rec, err := s.cfg.Machine.ApplyEvent(r.Context(), ev.CallSid, ev.Update)
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.publish(rec)
	writeData(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleHandoff receives the speech-gather result and routes the caller.
func (s *Server) handleHandoff(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	ev, err := twilio.ParseSpeechCallback(r.PostForm)
	if errors.Is(err, twilio.ErrMissingCallSid) {
		writeError(w, http.StatusBadRequest, "missing CallSid")
		return
	}

	rec, err := s.cfg.Machine.SpeechCaptured(r.Context(), ev.CallSid, ev.Transcript, ev.Confidence)
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.publish(rec)

	resp := twilio.NewResponse()
	if s.cfg.WorkflowSID != "" {
		resp.Say("Thank you. Connecting you with the right person now.").
			Enqueue("support", s.cfg.WorkflowSID)
	} else {
		resp.Say("Thank you. We have noted your request and will follow up shortly. Goodbye.").
			Hangup()
	}
	doc, err := resp.Render()
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.writeTwiML(w, doc)
}

// transcribeRequest is the internal enrichment job body.
type transcribeRequest struct {
	CallID       string `json:"callId"`
	RecordingURL string `json:"recordingUrl"`
}

// handleTranscribe starts enrichment. It accepts the internal JSON job
// (synchronous, returns the enriched record) and the provider's
// recording-ready form callback (acknowledged immediately, enrichment
// runs in the background).
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Pipeline == nil {
		writeError(w, http.StatusNotImplemented, "enrichment not configured")
		return
	}

	if r.Header.Get("Content-Type") == "application/json" {
		var req transcribeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json")
			return
		}
		if req.CallID == "" || req.RecordingURL == "" {
			writeError(w, http.StatusBadRequest, "callId and recordingUrl are required")
			return
		}
		rec, err := s.cfg.Pipeline.Enrich(r.Context(), req.CallID, req.RecordingURL)
		if err != nil {
			s.failErr(w, err)
			return
		}
		s.publish(rec)
		writeData(w, http.StatusOK, rec)
		return
	}

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form")
		return
	}
	ev, err := twilio.ParseRecordingCallback(r.PostForm)
	if errors.Is(err, twilio.ErrMissingCallSid) {
		writeError(w, http.StatusBadRequest, "missing CallSid")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		rec, err := s.cfg.Pipeline.EnrichBySession(ctx, ev.CallSid, ev.RecordingURL)
		if err != nil {
			s.log.Error("background enrichment failed", "session", ev.CallSid, "error", err)
			return
		}
		s.publish(rec)
	}()
	writeData(w, http.StatusOK, map[string]bool{"ok": true})
}

// outboundRequest describes an outbound dial.
type outboundRequest struct {
	To        string `json:"to"`
	ContactID string `json:"contactId"`
	Name      string `json:"name"`
	Message   string `json:"message"`
}

// handleOutbound places an outbound call and opens its record.
func (s *Server) handleOutbound(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Dialer == nil {
		writeError(w, http.StatusNotImplemented, "dialing not configured")
		return
	}
	var req outboundRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	contact, err := s.resolveContact(r.Context(), req)
	if err != nil {
		s.failErr(w, err)
		return
	}

	greeting := req.Message
	if greeting == "" {
		greeting = "Hello " + contact.Name + ", this is " + s.cfg.AgentName + " calling."
	}
	doc, err := twilio.NewResponse().
		Say(greeting).
		Pause(1).
		Record(s.callbackURL("/api/calls/transcribe"), 120).
		Render()
	if err != nil {
		s.failErr(w, err)
		return
	}

	res, err := s.cfg.Dialer.Dial(r.Context(), twilio.DialParams{
		To:                contact.Phone,
		From:              s.cfg.FromNumber,
		TwiML:             string(doc),
		StatusCallback:    s.callbackURL("/api/calls/status"),
		RecordingCallback: s.callbackURL("/api/calls/transcribe"),
	})
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	rec, err := s.cfg.Machine.Begin(r.Context(), call.DirectionOutbound, contact.ID, res.SID, call.StatusInitiated)
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.publish(rec)
	s.log.Info("outbound call placed", "session", res.SID, "contact", contact.ID)
	writeData(w, http.StatusCreated, rec)
}

// resolveContact finds the dial target by id, or upserts one by number.
func (s *Server) resolveContact(ctx context.Context, req outboundRequest) (*store.Contact, error) {
	if req.ContactID != "" {
		return s.cfg.Store.GetContact(ctx, req.ContactID)
	}
	if req.To == "" {
		return nil, errValidation("to or contactId is required")
	}
	name := req.Name
	if name == "" {
		name = req.To
	}
	return s.cfg.Store.UpsertContact(ctx, &store.Contact{Name: name, Phone: req.To})
}

// handleListCalls returns all call records, newest first.
func (s *Server) handleListCalls(w http.ResponseWriter, r *http.Request) {
	calls, err := s.cfg.Store.ListCalls(r.Context())
	if err != nil {
		s.failErr(w, err)
		return
	}
	writeData(w, http.StatusOK, calls)
}
