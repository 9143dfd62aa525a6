package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Kerhoff/MealMate/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// Server provides the JSON REST API.
type Server struct {
	svc         *service.Service
	logger      *logrus.Logger
	router      chi.Router
	corsOrigins []string
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, corsOrigins []string) *Server {
	s := &Server{svc: svc, logger: logger, router: chi.NewRouter(), corsOrigins: corsOrigins}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ---------------------------------------------------------------------------
// Routes
// ---------------------------------------------------------------------------

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	// API – Users (public)
	r.Post("/api/users/register", s.handleRegister)
	r.Post("/api/users/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)

		r.Get("/api/users/me", s.handleMe)

		// API – Recipe generation
		r.Post("/api/ai/generate", s.handleGenerate)

		// API – Recipes
		r.Get("/api/recipes", s.handleListRecipes)
		r.Post("/api/recipes", s.handleCreateRecipe)
		r.Put("/api/recipes/{id}", s.handleUpdateRecipe)
		r.Delete("/api/recipes/{id}", s.handleDeleteRecipe)

		// API – Meal planner
		r.Get("/api/planner", s.handleListPlans)
		r.Post("/api/planner", s.handleUpsertPlan)
		r.Put("/api/planner/{id}", s.handleUpdatePlan)
		r.Delete("/api/planner/{id}", s.handleDeletePlan)

		// API – Shopping list
		r.Get("/api/shopping", s.handleListItems)
		r.Post("/api/shopping", s.handleAddItem)
		r.Post("/api/shopping/from-recipe/{recipeId}", s.handleAddFromRecipe)
		r.Put("/api/shopping/{id}", s.handleUpdateItem)
		r.Patch("/api/shopping/{id}/toggle", s.handleToggleItem)
		r.Delete("/api/shopping/{id}", s.handleDeleteItem)
		r.Post("/api/shopping/share", s.handleShareList)

		// API – Pantry
		r.Get("/api/pantry", s.handleGetPantry)
		r.Post("/api/pantry", s.handleSavePantry)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusNotFound, "Route not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.respondError(w, http.StatusMethodNotAllowed, "Method not allowed", "")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message, detail string) {
	s.respondJSON(w, status, errorResponse{Message: message, Error: detail})
}

// respondServiceError maps a service error to its HTTP status. Anything that
// is not a *service.Error is logged and reported as a 500 with fallback.
func (s *Server) respondServiceError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var se *service.Error
	if !errors.As(err, &se) {
		s.logger.WithError(err).WithField("request_id", middleware.GetReqID(r.Context())).Error(fallback)
		s.respondError(w, http.StatusInternalServerError, fallback, "")
		return
	}

	switch se.Kind {
	case service.ErrValidation, service.ErrConflict, service.ErrInvalidCredentials:
		s.respondError(w, http.StatusBadRequest, se.Message, se.Detail())
	case service.ErrUnauthorized:
		s.respondError(w, http.StatusUnauthorized, se.Message, "")
	case service.ErrNotFound:
		s.respondError(w, http.StatusNotFound, se.Message, "")
	case service.ErrForbidden:
		// Foreign rows are reported exactly like missing ones.
		s.logger.WithFields(logrus.Fields{
			"user_id": userIDFromContext(r.Context()),
			"path":    r.URL.Path,
		}).Warn("access to another user's resource denied")
		s.respondError(w, http.StatusNotFound, se.Message, "")
	case service.ErrUpstream:
		s.respondError(w, http.StatusInternalServerError, se.Message, se.Detail())
	default:
		s.logger.WithError(err).Error(fallback)
		s.respondError(w, http.StatusInternalServerError, fallback, "")
	}
}

// decodeJSON reads the request body into dst and returns an error message on
// failure.  The caller should return immediately when ok == false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil || r.Body == http.NoBody {
		return false, "request body is empty"
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	return true, ""
}

// bind decodes the body and writes a 400 when it cannot.
func (s *Server) bind(w http.ResponseWriter, r *http.Request, dst any) bool {
	if ok, msg := s.decodeJSON(w, r, dst); !ok {
		s.respondError(w, http.StatusBadRequest, "Invalid request body", msg)
		return false
	}
	return true
}

// orEmpty keeps empty lists encoding as [] rather than null.
func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
