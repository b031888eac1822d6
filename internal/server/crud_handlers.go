package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/GhanaNauticalnfo/snapper-sub001/internal/models"
	"github.com/GhanaNauticalnfo/snapper-sub001/internal/store"
)

func (s *Server) writeStoreError(w http.ResponseWriter, err error, msg string) {
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	s.log.WithError(err).Error(msg)
	http.Error(w, msg, http.StatusInternalServerError)
}

// =====================================================
// Vessels
// =====================================================

func (s *Server) handleListVessels(w http.ResponseWriter, r *http.Request) {
	vessels, err := s.store.ListVessels(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "failed to list vessels")
		return
	}
	writeJSON(w, http.StatusOK, vessels)
}

func (s *Server) handleGetVessel(w http.ResponseWriter, r *http.Request) {
	v, err := s.store.GetVessel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to get vessel")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleCreateVessel(w http.ResponseWriter, r *http.Request) {
	var v models.Vessel
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if v.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateVessel(r.Context(), &v); err != nil {
		s.writeStoreError(w, err, "failed to create vessel")
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (s *Server) handleUpdateVessel(w http.ResponseWriter, r *http.Request) {
	var v models.Vessel
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	v.ID = models.UUID(chi.URLParam(r, "id"))
	if v.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateVessel(r.Context(), &v); err != nil {
		s.writeStoreError(w, err, "failed to update vessel")
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) handleDeleteVessel(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVessel(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "failed to delete vessel")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Vessel types
// =====================================================

func (s *Server) handleListVesselTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.store.ListVesselTypes(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "failed to list vessel types")
		return
	}
	writeJSON(w, http.StatusOK, types)
}

func (s *Server) handleGetVesselType(w http.ResponseWriter, r *http.Request) {
	vt, err := s.store.GetVesselType(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to get vessel type")
		return
	}
	writeJSON(w, http.StatusOK, vt)
}

func (s *Server) handleCreateVesselType(w http.ResponseWriter, r *http.Request) {
	var vt models.VesselType
	if err := json.NewDecoder(r.Body).Decode(&vt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if vt.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateVesselType(r.Context(), &vt); err != nil {
		s.writeStoreError(w, err, "failed to create vessel type")
		return
	}
	writeJSON(w, http.StatusCreated, vt)
}

func (s *Server) handleUpdateVesselType(w http.ResponseWriter, r *http.Request) {
	var vt models.VesselType
	if err := json.NewDecoder(r.Body).Decode(&vt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	vt.ID = models.UUID(chi.URLParam(r, "id"))
	if vt.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateVesselType(r.Context(), &vt); err != nil {
		s.writeStoreError(w, err, "failed to update vessel type")
		return
	}
	writeJSON(w, http.StatusOK, vt)
}

func (s *Server) handleDeleteVesselType(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteVesselType(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "failed to delete vessel type")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Routes
// =====================================================

func (s *Server) handleListRoutes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.store.ListRoutes(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "failed to list routes")
		return
	}
	writeJSON(w, http.StatusOK, routes)
}

func (s *Server) handleGetRoute(w http.ResponseWriter, r *http.Request) {
	rt, err := s.store.GetRoute(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to get route")
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var rt models.Route
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if rt.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateRoute(r.Context(), &rt); err != nil {
		s.writeStoreError(w, err, "failed to create route")
		return
	}
	writeJSON(w, http.StatusCreated, rt)
}

func (s *Server) handleUpdateRoute(w http.ResponseWriter, r *http.Request) {
	var rt models.Route
	if err := json.NewDecoder(r.Body).Decode(&rt); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	rt.ID = models.UUID(chi.URLParam(r, "id"))
	if rt.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateRoute(r.Context(), &rt); err != nil {
		s.writeStoreError(w, err, "failed to update route")
		return
	}
	writeJSON(w, http.StatusOK, rt)
}

func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteRoute(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "failed to delete route")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =====================================================
// Landing sites
// =====================================================

func (s *Server) handleListLandingSites(w http.ResponseWriter, r *http.Request) {
	sites, err := s.store.ListLandingSites(r.Context())
	if err != nil {
		s.writeStoreError(w, err, "failed to list landing sites")
		return
	}
	writeJSON(w, http.StatusOK, sites)
}

func (s *Server) handleGetLandingSite(w http.ResponseWriter, r *http.Request) {
	ls, err := s.store.GetLandingSite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err, "failed to get landing site")
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) handleCreateLandingSite(w http.ResponseWriter, r *http.Request) {
	var ls models.LandingSite
	if err := json.NewDecoder(r.Body).Decode(&ls); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if ls.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.CreateLandingSite(r.Context(), &ls); err != nil {
		s.writeStoreError(w, err, "failed to create landing site")
		return
	}
	writeJSON(w, http.StatusCreated, ls)
}

func (s *Server) handleUpdateLandingSite(w http.ResponseWriter, r *http.Request) {
	var ls models.LandingSite
	if err := json.NewDecoder(r.Body).Decode(&ls); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	ls.ID = models.UUID(chi.URLParam(r, "id"))
	if ls.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if err := s.store.UpdateLandingSite(r.Context(), &ls); err != nil {
		s.writeStoreError(w, err, "failed to update landing site")
		return
	}
	writeJSON(w, http.StatusOK, ls)
}

func (s *Server) handleDeleteLandingSite(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteLandingSite(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err, "failed to delete landing site")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
