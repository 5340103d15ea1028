package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/classlens/classlens/internal/gradebook"
)

type addCustomReq struct {
	Title         string `json:"title"`
	Score         any    `json:"score"`
	Max           any    `json:"max"`
	CategoryIndex int    `json:"category_index"`
}

type addCustomResp struct {
	Record  gradebook.CustomRecord   `json:"record"`
	Summary gradebook.SectionSummary `json:"summary"`
}

// POST /sections/{sectionID}/custom
func AddCustomHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		var req addCustomReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sess := hub.Session(r)
		rec, sum := sess.AddCustom(r.Context(), sectionID, req.CategoryIndex, req.Title, req.Score, req.Max)
		sess.FlushRollup()
		hub.logEvent(r, "custom_added", sectionID, rec)
		_ = json.NewEncoder(w).Encode(addCustomResp{Record: rec, Summary: sum})
	}
}

// DELETE /custom/{customID}
func RemoveCustomHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "customID"), 10, 64)
		if err != nil {
			http.Error(w, "customID must be an integer", http.StatusBadRequest)
			return
		}
		sess := hub.Session(r)
		sum, ok := sess.RemoveCustom(r.Context(), id)
		if !ok {
			http.Error(w, "custom record not found", http.StatusNotFound)
			return
		}
		sess.FlushRollup()
		hub.logEvent(r, "custom_removed", strconv.FormatInt(id, 10), nil)
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// GET /custom — the round-trippable custom-record list.
func ListCustomHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(hub.Session(r).Customs())
	}
}
