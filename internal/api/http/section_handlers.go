package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/classlens/classlens/internal/gradebook"
)

type categoryReq struct {
	Index  int     `json:"index"`
	Weight float64 `json:"weight"`
	Title  string  `json:"title,omitempty"`
}

type assignmentReq struct {
	AssignmentID  string `json:"assignment_id"`
	Title         string `json:"title,omitempty"`
	Score         any    `json:"score"`
	Max           any    `json:"max"`
	CategoryIndex int    `json:"category_index"`
	DueAt         int64  `json:"due_at,omitempty"`
	GradedAt      int64  `json:"graded_at,omitempty"`
}

type loadSectionReq struct {
	Categories  []categoryReq   `json:"categories"`
	Assignments []assignmentReq `json:"assignments"`
	ReportedPct *float64        `json:"reported_percentage,omitempty"`
}

// POST /sections/{sectionID}
// Loads (or replaces) a section's upstream snapshot. Raw score/max
// values pass through the normalizer here, the sole boundary where
// loosely-typed input enters the engine.
func LoadSectionHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := strings.TrimSpace(chi.URLParam(r, "sectionID"))
		if sectionID == "" {
			http.Error(w, "sectionID required", http.StatusBadRequest)
			return
		}
		var req loadSectionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}

		section := gradebook.Section{ID: sectionID, ReportedPct: req.ReportedPct}
		for _, c := range req.Categories {
			section.Categories = append(section.Categories, gradebook.Category{
				Index: c.Index, Weight: c.Weight, Title: c.Title,
			})
		}
		records := make([]gradebook.AssignmentRecord, 0, len(req.Assignments))
		for _, a := range req.Assignments {
			records = append(records, gradebook.AssignmentRecord{
				SectionID:     sectionID,
				AssignmentID:  a.AssignmentID,
				Kind:          gradebook.KindOfficial,
				Title:         a.Title,
				OriginalScore: gradebook.Normalize(a.Score),
				OriginalMax:   gradebook.Normalize(a.Max),
				CategoryIndex: a.CategoryIndex,
				DueAt:         a.DueAt,
				GradedAt:      a.GradedAt,
			})
		}

		sess := hub.Session(r)
		sum := sess.LoadSection(section, records)
		sess.FlushRollup()
		_ = json.NewEncoder(w).Encode(sum)
	}
}

// GET /sections/{sectionID}/summary
func GetSummaryHandler(hub *SessionHub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sectionID := chi.URLParam(r, "sectionID")
		sum, ok := hub.Session(r).Summary(sectionID)
		if !ok {
			http.Error(w, "section not found", http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(sum)
	}
}
