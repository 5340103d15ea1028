package http

import "github.com/go-chi/chi/v5"

// Mount wires the gradebook routes onto a router.
func Mount(r chi.Router, hub *SessionHub) {
	r.Route("/sections/{sectionID}", func(sr chi.Router) {
		sr.Post("/", LoadSectionHandler(hub))
		sr.Get("/summary", GetSummaryHandler(hub))
		sr.Get("/timeline", GetTimelineHandler(hub))
		sr.Get("/stats", GetStatsHandler(hub))

		sr.Put("/assignments/{assignmentID}/score", SetScoreHandler(hub))
		sr.Put("/assignments/{assignmentID}/max", SetMaxHandler(hub))
		sr.Put("/assignments/{assignmentID}/dropped", SetDroppedHandler(hub))
		sr.Delete("/assignments/{assignmentID}/override", RemoveOverrideHandler(hub))
		sr.Delete("/overrides", ClearSectionHandler(hub))

		sr.Post("/custom", AddCustomHandler(hub))
	})

	r.Get("/overrides", GetOverlayHandler(hub))
	r.Delete("/overrides", ClearAllHandler(hub))

	r.Get("/custom", ListCustomHandler(hub))
	r.Delete("/custom/{customID}", RemoveCustomHandler(hub))

	r.Get("/stats/overall", GetOverallHandler(hub))
}
