// Package api - thin HTTP layer over the engine and configuration store.
// The API is only responsible for input ingestion, engine orchestration,
// and output serialization. It never performs calculation logic.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"fence-bom/core/engine"
	"fence-bom/internal/errors"
	"fence-bom/internal/logging"
	"fence-bom/store"
)

// Server is the HTTP server
type Server struct {
	engine  *engine.Engine
	store   store.Store
	router  chi.Router
	version string
}

// NewServer creates a server over an engine and its store
func NewServer(eng *engine.Engine, st store.Store, version string) *Server {
	s := &Server{
		engine:  eng,
		store:   st,
		router:  chi.NewRouter(),
		version: version,
	}
	s.registerRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.Recoverer)

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/version", s.handleVersion)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/calculate", s.handleCalculate)

		r.Get("/product-types", s.handleListProductTypes)
		r.Post("/product-types", s.handleCreateProductType)
		r.Get("/product-types/{typeID}/styles", s.handleListStyles)
		r.Post("/product-types/{typeID}/styles", s.handleCreateStyle)
		r.Get("/product-types/{typeID}/components", s.handleListComponents)
		r.Post("/product-types/{typeID}/components", s.handleCreateComponent)
		r.Get("/product-types/{typeID}/parameters", s.handleListParameters)
		r.Get("/product-types/{typeID}/labor-rules", s.handleListLaborRules)

		r.Get("/skus", s.handleListSKUs)
		r.Post("/skus", s.handleCreateSKU)
		r.Get("/skus/{skuID}", s.handleGetSKU)

		r.Post("/parameters", s.handleCreateParameter)

		r.Get("/labor-codes", s.handleListLaborCodes)
		r.Post("/labor-codes", s.handleCreateLaborCode)
		r.Post("/labor-rules", s.handleCreateLaborRule)
		r.Put("/labor-rates/{businessUnitID}/{laborCodeID}", s.handleSetLaborRate)

		r.Get("/labor-groups", s.handleListLaborGroups)
		r.Post("/labor-groups", s.handleCreateLaborGroup)
		r.Get("/labor-groups/{groupID}/eligibility", s.handleListEligibility)
		r.Post("/labor-groups/{groupID}/eligibility", s.handleCreateEligibility)
		r.Put("/labor-groups/{groupID}/eligibility/{entryID}/default", s.handleSetDefaultEligibility)
	})
}

// errorResponse is the JSON error envelope
type errorResponse struct {
	Type    errors.Type `json:"type"`
	Message string      `json:"message"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("encode response", zap.Error(err))
	}
}

// writeError maps the error taxonomy onto HTTP statuses: input errors
// are the caller's fault, configuration and parsing errors mean the
// stored configuration cannot be processed, unknown records are 404.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Type: errors.TypeInternal, Message: err.Error()}
	status := http.StatusInternalServerError

	if e, ok := err.(*errors.Error); ok {
		resp.Type = e.Type
		switch e.Type {
		case errors.TypeInput:
			status = http.StatusBadRequest
		case errors.TypeConfig, errors.TypeParsing:
			status = http.StatusUnprocessableEntity
		case errors.TypeNotFound:
			status = http.StatusNotFound
		}
	}
	s.writeJSON(w, status, resp)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, errors.Inputf("invalid request body: %v", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}
