package server

import (
	"encoding/json"
	"net/http"
	"time"
)

type syncEntry struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	Data       json.RawMessage `json:"data"`
}

type syncResponse struct {
	Version      string      `json:"version"`
	MajorVersion int64       `json:"majorVersion"`
	Data         []syncEntry `json:"data"`
}

// handleGetChanges serves GET /data/sync?since=<RFC3339>. An omitted or
// unparseable since falls back to the Unix epoch: the full-resync path.
func (s *Server) handleGetChanges(w http.ResponseWriter, r *http.Request) {
	since := time.Unix(0, 0).UTC()
	if raw := r.URL.Query().Get("since"); raw != "" {
		if parsed, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			since = parsed
		} else {
			s.log.WithField("since", raw).Debug("unparseable since, serving full resync")
		}
	}

	catchUp, err := s.sync.ChangesSince(r.Context(), since)
	if err != nil {
		s.log.WithError(err).Error("catch-up query failed")
		http.Error(w, "failed to read changes", http.StatusInternalServerError)
		return
	}

	resp := syncResponse{
		Version:      catchUp.AsOf.Format(time.RFC3339Nano),
		MajorVersion: catchUp.MajorVersion,
		Data:         make([]syncEntry, 0, len(catchUp.Entries)),
	}
	for _, e := range catchUp.Entries {
		resp.Data = append(resp.Data, syncEntry{
			EntityType: e.EntityType,
			EntityID:   e.EntityID,
			Action:     string(e.Action),
			Data:       e.Payload,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type resetResponse struct {
	Success      bool  `json:"success"`
	MajorVersion int64 `json:"majorVersion"`
}

// handleReset serves POST /data/sync/reset: the operator-triggered epoch
// reset.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	newMajor, err := s.sync.ResetEpoch(r.Context())
	if err != nil {
		s.log.WithError(err).Error("epoch reset failed")
		http.Error(w, "failed to reset sync epoch", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, resetResponse{Success: true, MajorVersion: newMajor})
}
