package api

import (
	"bytes"
	"encoding/json"
	"net/http"
)

type pantryRequest struct {
	Ingredients json.RawMessage `json:"ingredients"`
}

func (s *Server) handleGetPantry(w http.ResponseWriter, r *http.Request) {
	ingredients, err := s.svc.GetPantry(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to load pantry")
		return
	}
	s.respondJSON(w, http.StatusOK, orEmpty(ingredients))
}

// handleSavePantry replaces the pantry. The ingredients field is kept raw so
// that a string or object is reported as a shape error instead of a decode
// error.
func (s *Server) handleSavePantry(w http.ResponseWriter, r *http.Request) {
	var req pantryRequest
	if !s.bind(w, r, &req) {
		return
	}

	var ingredients []string
	raw := bytes.TrimSpace(req.Ingredients)
	if len(raw) == 0 || raw[0] != '[' || json.Unmarshal(raw, &ingredients) != nil {
		s.respondError(w, http.StatusBadRequest, "Ingredients must be an array", "")
		return
	}

	saved, err := s.svc.SavePantry(r.Context(), userIDFromContext(r.Context()), ingredients)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to save pantry")
		return
	}
	s.respondJSON(w, http.StatusOK, orEmpty(saved))
}
