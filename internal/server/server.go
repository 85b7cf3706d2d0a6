// Package server provides the HTTP server and handlers.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/kmci-church/cms/internal/api"
	"github.com/kmci-church/cms/internal/logger"
	"github.com/kmci-church/cms/internal/model"
)

// Server is the main HTTP server: public read endpoints for the site
// pages and a token-guarded admin API speaking the status-coded contract.
type Server struct {
	api        *api.API
	adminToken string
	router     chi.Router
}

// New creates a new server. An empty adminToken disables the admin API.
func New(a *api.API, adminToken string) *Server {
	s := &Server{
		api:        a,
		adminToken: adminToken,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/events", s.publicList(s.api.GetEvents))
		r.Get("/sermons", s.publicList(s.api.GetSermons))
		r.Get("/news", s.publicList(s.api.GetNews))

		r.Route("/admin", func(r chi.Router) {
			r.Use(s.requireToken)
			r.Get("/logs", s.handleGetLogs)
			r.Delete("/logs", s.handleClearLogs)
			r.Post("/sermons/import-feed", s.handleImportFeed)
			r.Route("/{category}", func(r chi.Router) {
				r.Get("/items", s.handleAdminList)
				r.Post("/items", s.handleAdminCreate)
				r.Post("/items/import", s.handleAdminImport)
				r.Put("/items/{id}", s.handleAdminUpdate)
				r.Delete("/items/{id}", s.handleAdminDelete)
			})
		})
	})

	s.router = r
}

// Handler returns the routed handler for mounting in an http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// requireToken guards the admin API with a bearer token.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "Bearer "
		auth := r.Header.Get("Authorization")
		if s.adminToken == "" || !strings.HasPrefix(auth, prefix) ||
			strings.TrimPrefix(auth, prefix) != s.adminToken {
			logger.Warn("admin auth rejected", map[string]any{"path": r.URL.Path})
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeResult(w http.ResponseWriter, res api.Result) {
	writeJSON(w, res.Status, res)
}

func categoryParam(r *http.Request) (model.Category, bool) {
	return model.ParseCategory(chi.URLParam(r, "category"))
}

// --- Public handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// publicList wraps a façade read; failures collapse into the generic
// message the public pages show as a banner.
func (s *Server) publicList(get func(ctx context.Context) ([]model.Item, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := get(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load"})
			return
		}
		writeJSON(w, http.StatusOK, items)
	}
}

// --- Admin handlers ---

func (s *Server) handleAdminList(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	writeResult(w, s.api.AdminGetItems(r.Context(), category))
}

func (s *Server) handleAdminCreate(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	var item model.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeResult(w, s.api.AdminCreateItem(r.Context(), category, item))
}

func (s *Server) handleAdminUpdate(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	var patch model.Patch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeResult(w, s.api.AdminUpdateItem(r.Context(), category, chi.URLParam(r, "id"), patch))
}

func (s *Server) handleAdminDelete(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	writeResult(w, s.api.AdminDeleteItem(r.Context(), category, chi.URLParam(r, "id")))
}

func (s *Server) handleAdminImport(w http.ResponseWriter, r *http.Request) {
	category, ok := categoryParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown category"})
		return
	}
	var req struct {
		Items []model.Item `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	writeResult(w, s.api.AdminImportItems(r.Context(), category, req.Items))
}

func (s *Server) handleImportFeed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "feed url required"})
		return
	}
	writeResult(w, s.api.AdminImportFeed(r.Context(), req.URL))
}

func (s *Server) handleGetLogs(w http.ResponseWriter, r *http.Request) {
	writeResult(w, api.Result{Status: http.StatusOK, Data: logger.History()})
}

func (s *Server) handleClearLogs(w http.ResponseWriter, r *http.Request) {
	logger.ClearHistory()
	logger.Access("log history cleared", nil)
	writeResult(w, api.Result{Status: http.StatusOK})
}
