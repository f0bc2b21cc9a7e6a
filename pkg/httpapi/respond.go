package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/voiceline/voiceline/pkg/biometric"
	"github.com/voiceline/voiceline/pkg/biosig"
	"github.com/voiceline/voiceline/pkg/enrich"
	"github.com/voiceline/voiceline/pkg/store"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, map[string]any{"data": v})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeTwiML sends a rendered TwiML document.
func (s *Server) writeTwiML(w http.ResponseWriter, doc []byte) {
	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

// validationError marks a malformed request.
type validationError string

func (e validationError) Error() string { return string(e) }

func errValidation(msg string) error { return validationError(msg) }

// failErr maps domain errors onto the API's status taxonomy.
func (s *Server) failErr(w http.ResponseWriter, err error) {
	var ve validationError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.Is(err, biosig.ErrUnsupportedFormat),
		errors.Is(err, biosig.ErrInsufficientSamples):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, biometric.ErrNotEnrolled),
		errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, enrich.ErrUpstream):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeJSON reads a JSON request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
