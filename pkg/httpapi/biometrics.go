package httpapi

import (
	"net/http"

	"github.com/voiceline/voiceline/pkg/encoding"
)

type enrollRequest struct {
	ContactID string              `json:"contactId"`
	Audio     encoding.Base64Data `json:"audio"`
	Label     string              `json:"label"`
}

// handleEnroll stores a voice profile for a contact. The response is a
// profile summary; the signature vector itself is never exposed.
func (s *Server) handleEnroll(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Biometrics == nil {
		writeError(w, http.StatusNotImplemented, "biometrics not configured")
		return
	}
	var req enrollRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ContactID == "" || len(req.Audio) == 0 {
		writeError(w, http.StatusBadRequest, "contactId and audio are required")
		return
	}
	res, err := s.cfg.Biometrics.Enroll(r.Context(), req.ContactID, req.Audio, req.Label)
	if err != nil {
		s.failErr(w, err)
		return
	}
	s.log.Info("voice profile enrolled", "contact", req.ContactID)
	writeData(w, http.StatusCreated, res)
}

type verifyRequest struct {
	ContactID string              `json:"contactId"`
	Audio     encoding.Base64Data `json:"audio"`
	Threshold float64             `json:"threshold"`
}

// handleVerify compares a speech sample against the enrolled profile.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Biometrics == nil {
		writeError(w, http.StatusNotImplemented, "biometrics not configured")
		return
	}
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.ContactID == "" || len(req.Audio) == 0 {
		writeError(w, http.StatusBadRequest, "contactId and audio are required")
		return
	}
	res, err := s.cfg.Biometrics.Verify(r.Context(), req.ContactID, req.Audio, req.Threshold)
	if err != nil {
		s.failErr(w, err)
		return
	}
	writeData(w, http.StatusOK, res)
}
