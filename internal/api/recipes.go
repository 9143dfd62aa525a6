package api

import (
	"net/http"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/go-chi/chi/v5"
)

type recipeRequest struct {
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	Ingredients  []string            `json:"ingredients"`
	Instructions []string            `json:"instructions"`
	Image        string              `json:"image"`
	Source       models.RecipeSource `json:"source"`
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	recipes, err := s.svc.ListRecipes(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to list recipes")
		return
	}
	s.respondJSON(w, http.StatusOK, orEmpty(recipes))
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if !s.bind(w, r, &req) {
		return
	}

	recipe, err := s.svc.CreateRecipe(r.Context(), userIDFromContext(r.Context()), &models.Recipe{
		Title:        req.Title,
		Description:  req.Description,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		Image:        req.Image,
		Source:       req.Source,
	})
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to create recipe")
		return
	}
	s.respondJSON(w, http.StatusCreated, recipe)
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var patch models.RecipePatch
	if !s.bind(w, r, &patch) {
		return
	}

	recipe, err := s.svc.UpdateRecipe(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to update recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, recipe)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteRecipe(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err, "Failed to delete recipe")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Recipe deleted successfully"})
}
