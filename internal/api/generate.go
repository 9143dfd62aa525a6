package api

import (
	"net/http"

	"github.com/Kerhoff/MealMate/internal/models"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerationRequest
	if !s.bind(w, r, &req) {
		return
	}

	recipe, err := s.svc.GenerateRecipe(r.Context(), req)
	if err != nil {
		s.respondServiceError(w, r, err, "An error occurred while generating the recipe.")
		return
	}
	s.respondJSON(w, http.StatusOK, recipe)
}
