package api

import (
	"net/http"

	"github.com/Kerhoff/MealMate/internal/models"
	"github.com/go-chi/chi/v5"
)

type itemRequest struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Category string `json:"category"`
}

type shareRequest struct {
	ChatID int64 `json:"chatId"`
}

type shareResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ListItems(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to list shopping items")
		return
	}
	s.respondJSON(w, http.StatusOK, orEmpty(items))
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !s.bind(w, r, &req) {
		return
	}

	item, err := s.svc.AddItem(r.Context(), userIDFromContext(r.Context()), req.Name, req.Quantity, req.Category)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to add shopping item")
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var patch models.ShoppingItemPatch
	if !s.bind(w, r, &patch) {
		return
	}

	item, err := s.svc.UpdateItem(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"), patch)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to update shopping item")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleToggleItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.ToggleItem(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to toggle shopping item")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteItem(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, r, err, "Failed to delete shopping item")
		return
	}
	s.respondJSON(w, http.StatusOK, messageResponse{Message: "Item deleted"})
}

func (s *Server) handleAddFromRecipe(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.AddFromRecipe(r.Context(), userIDFromContext(r.Context()), chi.URLParam(r, "recipeId"))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to add recipe ingredients")
		return
	}
	s.respondJSON(w, http.StatusCreated, orEmpty(items))
}

func (s *Server) handleShareList(w http.ResponseWriter, r *http.Request) {
	if !s.svc.CanShare() {
		s.respondError(w, http.StatusNotFound, "Shopping list sharing is not enabled", "")
		return
	}

	var req shareRequest
	if !s.bind(w, r, &req) {
		return
	}

	n, err := s.svc.ShareList(r.Context(), userIDFromContext(r.Context()), req.ChatID)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to share shopping list")
		return
	}
	s.respondJSON(w, http.StatusOK, shareResponse{Message: "Shopping list shared", Count: n})
}
