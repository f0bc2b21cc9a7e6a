// Package httpapi exposes the call lifecycle, enrichment, biometric, and
// messaging operations over HTTP.
//
// Provider-facing callback routes (inbound, status, handoff, and the
// form-encoded variant of transcribe) speak form encoding in and TwiML or
// bare acknowledgments out, and stay 200 for unknown sessions so the
// provider does not retry. Application-facing routes speak JSON with
// {"data": ...} / {"error": ...} envelopes.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/voiceline/voiceline/pkg/biometric"
	"github.com/voiceline/voiceline/pkg/call"
	"github.com/voiceline/voiceline/pkg/enrich"
	"github.com/voiceline/voiceline/pkg/store"
	"github.com/voiceline/voiceline/pkg/twilio"
)

// Dialer is the slice of the provider client the server uses.
// *twilio.Client satisfies it.
type Dialer interface {
	Dial(ctx context.Context, p twilio.DialParams) (*twilio.CallResource, error)
	SendWhatsApp(ctx context.Context, to, from, body string) (*twilio.MessageResource, error)
}

// Config wires the server's collaborators.
type Config struct {
	Store      store.Store        // required
	Machine    *call.Machine      // required
	Pipeline   *enrich.Pipeline   // required for transcribe routes
	Biometrics *biometric.Service // required for biometric routes
	Dialer     Dialer             // required for outbound and messaging routes

	// BaseURL is the public origin callbacks are addressed under,
	// e.g. "https://voice.example.com".
	BaseURL string

	// AgentName is spoken in greetings. Default "our assistant".
	AgentName string

	// FromNumber is the caller ID for outbound dials.
	FromNumber string

	// WhatsAppFrom is the sender for WhatsApp dispatch.
	WhatsAppFrom string

	// WorkflowSID routes captured callers into a TaskRouter workflow.
	// Empty means polite hangup after speech capture.
	WorkflowSID string

	Logger *slog.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	mux    *http.ServeMux
	events *eventHub
	log    *slog.Logger
}

// NewServer creates a Server and registers its routes.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Store == nil || cfg.Machine == nil {
		return nil, errors.New("httpapi: store and machine are required")
	}
	if cfg.AgentName == "" {
		cfg.AgentName = "our assistant"
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		events: newEventHub(logger),
		log:    logger,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/calls/inbound", s.handleInbound)
	s.mux.HandleFunc("POST /api/calls/status", s.handleStatus)
	s.mux.HandleFunc("POST /api/calls/handoff", s.handleHandoff)
	s.mux.HandleFunc("POST /api/calls/transcribe", s.handleTranscribe)
	s.mux.HandleFunc("POST /api/calls/outbound", s.handleOutbound)
	s.mux.HandleFunc("GET /api/calls", s.handleListCalls)
	s.mux.HandleFunc("GET /api/calls/events", s.handleEvents)
	s.mux.HandleFunc("GET /api/contacts", s.handleListContacts)
	s.mux.HandleFunc("POST /api/contacts", s.handleCreateContact)
	s.mux.HandleFunc("POST /api/biometrics/enroll", s.handleEnroll)
	s.mux.HandleFunc("POST /api/biometrics/verify", s.handleVerify)
	s.mux.HandleFunc("POST /api/messaging/whatsapp", s.handleWhatsApp)
}

// Handler returns the route handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// publish pushes a call-record update to websocket subscribers.
func (s *Server) publish(rec *store.CallRecord) {
	if rec != nil {
		s.events.broadcast(rec)
	}
}

// callbackURL joins the configured base with a route path.
func (s *Server) callbackURL(path string) string {
	if s.cfg.BaseURL == "" {
		return path
	}
	return s.cfg.BaseURL + path
}
