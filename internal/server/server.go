// Package server provides the HTTP surface: catch-up sync endpoints, the
// operator reset endpoint, domain CRUD, and the WebSocket upgrade.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/notify"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/store"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/synclog"
)

// Server holds the handler dependencies.
type Server struct {
	sync  *synclog.Service
	store *store.Store
	hub   *notify.Hub
	log   *logrus.Entry
}

// New creates a Server. hub may be nil when the WebSocket channel is
// disabled (tests).
func New(sync *synclog.Service, st *store.Store, hub *notify.Hub, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		sync:  sync,
		store: st,
		hub:   hub,
		log:   logger.WithField("component", "http"),
	}
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)

	r.Route("/data/sync", func(r chi.Router) {
		r.Get("/", s.handleGetChanges)
		r.Post("/reset", s.handleReset)
	})

	if s.hub != nil {
		r.Get("/ws", s.hub.ServeHTTP)
	}

	r.Route("/vessels", func(r chi.Router) {
		r.Get("/", s.handleListVessels)
		r.Post("/", s.handleCreateVessel)
		r.Get("/{id}", s.handleGetVessel)
		r.Put("/{id}", s.handleUpdateVessel)
		r.Delete("/{id}", s.handleDeleteVessel)
	})
	r.Route("/vessel-types", func(r chi.Router) {
		r.Get("/", s.handleListVesselTypes)
		r.Post("/", s.handleCreateVesselType)
		r.Get("/{id}", s.handleGetVesselType)
		r.Put("/{id}", s.handleUpdateVesselType)
		r.Delete("/{id}", s.handleDeleteVesselType)
	})
	r.Route("/routes", func(r chi.Router) {
		r.Get("/", s.handleListRoutes)
		r.Post("/", s.handleCreateRoute)
		r.Get("/{id}", s.handleGetRoute)
		r.Put("/{id}", s.handleUpdateRoute)
		r.Delete("/{id}", s.handleDeleteRoute)
	})
	r.Route("/landing-sites", func(r chi.Router) {
		r.Get("/", s.handleListLandingSites)
		r.Post("/", s.handleCreateLandingSite)
		r.Get("/{id}", s.handleGetLandingSite)
		r.Put("/{id}", s.handleUpdateLandingSite)
		r.Delete("/{id}", s.handleDeleteLandingSite)
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
