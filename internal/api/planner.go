package api

import (
	"net/http"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/go-chi/chi/v5"
)

type planRequest struct {
	Date     string `json:"date"`
	RecipeID string `json:"recipeId"`
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.svc.ListPlans(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to list meal plans")
		return
	}
	s.respondJSON(w, http.StatusOK, orEmpty(plans))
}

// handleUpsertPlan answers 201 for a new date and 200 when the existing plan
// for that date was repointed.
func (s *Server) handleUpsertPlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.bind(w, r, &req) {
		return
	}

	plan, inserted, err := s.svc.UpsertPlan(r.Context(), userIDFromContext(r.Context()), req.Date, req.RecipeID)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to save meal plan")
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, plan)
}

func (s *Server) handleUpdatePlan(w http.ResponseWriter, r *http.Request) {
	var patch models.MealPlanPatch
	if !s.bind(w, r, &patch) {
		return
	}

	plan, err := s.svc.UpdatePlan(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to update meal plan")
		return
	}
	s.respondJSON(w, http.StatusOK, plan)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeletePlan(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err, "Failed to delete meal plan")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Plan deleted"})
}
