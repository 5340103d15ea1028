package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GET /sections/{sectionID}/timeline
func GetTimelineHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		events, ok := hub.Session(r).Timeline(sectionID)
		if !ok {
			http.Error(w, "section not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(events)
	}
}

// GET /sections/{sectionID}/stats
func GetStatsHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		snap, ok := hub.Session(r).Stats(sectionID)
		if !ok {
			http.Error(w, "section not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(snap)
	}
}

// GET /stats/overall
func GetOverallHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(hub.Session(r).Overall())
	}
}
