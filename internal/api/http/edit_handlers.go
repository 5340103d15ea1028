package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type setValueReq struct {
	Value any `json:"value"`
}

type setDroppedReq struct {
	Dropped bool `json:"dropped"`
}

// PUT /sections/{sectionID}/assignments/{assignmentID}/score
func SetScoreHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		assignmentID := chi.URLParam(r, "assignmentID")
		var req setValueReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess := hub.Session(r)
		sum := sess.SetScore(r.Context(), sectionID, assignmentID, req.Value)
		sess.FlushRollup()
		hub.logEvent(r, "score_overridden", sectionID+"/"+assignmentID, req.Value)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// PUT /sections/{sectionID}/assignments/{assignmentID}/max
func SetMaxHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		assignmentID := chi.URLParam(r, "assignmentID")
		var req setValueReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess := hub.Session(r)
		sum := sess.SetMax(r.Context(), sectionID, assignmentID, req.Value)
		sess.FlushRollup()
		hub.logEvent(r, "max_overridden", sectionID+"/"+assignmentID, req.Value)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// PUT /sections/{sectionID}/assignments/{assignmentID}/dropped
func SetDroppedHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		assignmentID := chi.URLParam(r, "assignmentID")
		var req setDroppedReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess := hub.Session(r)
		sum := sess.SetDropped(r.Context(), sectionID, assignmentID, req.Dropped)
		sess.FlushRollup()
		hub.logEvent(r, "dropped_toggled", sectionID+"/"+assignmentID, req.Dropped)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// DELETE /sections/{sectionID}/assignments/{assignmentID}/override
func RemoveOverrideHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		assignmentID := chi.URLParam(r, "assignmentID")
		sess := hub.Session(r)
		sum := sess.RemoveOverride(r.Context(), sectionID, assignmentID)
		sess.FlushRollup()
		hub.logEvent(r, "override_removed", sectionID+"/"+assignmentID, nil)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// DELETE /sections/{sectionID}/overrides
func ClearSectionHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		sess := hub.Session(r)
		sum := sess.ClearSection(r.Context(), sectionID)
		sess.FlushRollup()
		hub.logEvent(r, "section_cleared", sectionID, nil)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// DELETE /overrides
func ClearAllHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := hub.Session(r)
		sess.ClearAll(r.Context())
		overall, _ := sess.FlushRollup()
		hub.logEvent(r, "all_cleared", "", nil)
		_ = json.NewEncoder(w).Encode(overall)
	}
}

// GET /overrides — the serializable overlay table, for debugging and
// export.
func GetOverlayHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(hub.Session(r).OverlayTable())
	}
}
