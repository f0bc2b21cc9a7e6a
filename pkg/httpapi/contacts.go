package httpapi

import (
	"net/http"

	"github.com/voiceline/voiceline/pkg/store"
)

type contactRequest struct {
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	WhatsApp string         `json:"whatsapp"`
	Metadata map[string]any `json:"metadata"`
}

// handleCreateContact upserts a contact keyed by phone number.
func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Phone == "" {
		writeError(w, http.StatusBadRequest, "phone is required")
		return
	}
	contact, err := s.cfg.Store.UpsertContact(r.Context(), &store.Contact{
		Name:     req.Name,
		Phone:    req.Phone,
		WhatsApp: req.WhatsApp,
		Metadata: req.Metadata,
	})
	if err != nil {
		s.failErr(w, err)
		return
	}
	writeData(w, http.StatusCreated, contact)
}

// handleListContacts returns all contacts.
func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.cfg.Store.ListContacts(r.Context())
	if err != nil {
		s.failErr(w, err)
		return
	}
	writeData(w, http.StatusOK, contacts)
}
