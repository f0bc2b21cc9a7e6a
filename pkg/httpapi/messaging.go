package httpapi

import "net/http"

type whatsAppRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

// handleWhatsApp dispatches a WhatsApp message through the provider.
func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Dialer == nil {
		writeError(w, http.StatusNotImplemented, "messaging not configured")
		return
	}
	var req whatsAppRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.To == "" || req.Body == "" {
		writeError(w, http.StatusBadRequest, "to and body are required")
		return
	}
	from := req.From
	if from == "" {
		from = s.cfg.WhatsAppFrom
	}
	msg, err := s.cfg.Dialer.SendWhatsApp(r.Context(), req.To, from, req.Body)
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.log.Info("whatsapp message sent", "to", req.To, "sid", msg.SID)
	writeData(w, http.StatusOK, msg)
}
