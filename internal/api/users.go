package api

import (
	"net/http"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.bind(w, r, &req) {
		return
	}

	res, err := s.svc.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to register user")
		return
	}
	s.respondJSON(w, http.StatusCreated, res)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.bind(w, r, &req) {
		return
	}

	res, err := s.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to log in")
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.svc.CurrentUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.respondServiceError(w, r, err, "Failed to load user")
		return
	}
	s.respondJSON(w, http.StatusOK, user)
}
