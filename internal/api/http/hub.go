package http

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/classlens/classlens/internal/gradebook"
)

// StateStore is what the API surface needs from persistence: the
// session's write-behind plus hydration reads and the edit audit log.
type StateStore interface {
	gradebook.Persister
	Load(ctx context.Context, userID string) (gradebook.OverlayTable, []gradebook.CustomRecord, error)
	AppendEvent(ctx context.Context, userID, typ, key string, payload any) error
}

// SessionHub caches one gradebook.Session per user, hydrating from the
// store on first touch.
type SessionHub struct {
	mu          sync.Mutex
	store       StateStore
	defaultUser string
	sessions    map[string]*gradebook.Session
}

func NewSessionHub(store StateStore, defaultUser string) *SessionHub {
	return &SessionHub{
		store:       store,
		defaultUser: defaultUser,
		sessions:    map[string]*gradebook.Session{},
	}
}

func (h *SessionHub) userID(r *http.Request) string {
	if u := r.Header.Get("X-User-ID"); u != "" {
		return u
	}
	return h.defaultUser
}

// Session returns the caller's session, creating and hydrating it if
// needed. A failed hydration read starts the session empty; the store
// stays best-effort either way.
func (h *SessionHub) Session(r *http.Request) *gradebook.Session {
	uid := h.userID(r)
	h.mu.Lock()
	defer h.mu.Unlock()
	if s, ok := h.sessions[uid]; ok {
		return s
	}
	s := gradebook.NewSession(uid, h.store)
	if h.store != nil {
		table, customs, err := h.store.Load(r.Context(), uid)
		if err != nil {
			log.Printf("hydrate session %s: %v", uid, err)
		} else {
			s.Hydrate(table, customs)
		}
	}
	h.sessions[uid] = s
	return s
}

// logEvent appends to the edit audit log, fire-and-forget.
func (h *SessionHub) logEvent(r *http.Request, typ, key string, payload any) {
	if h.store == nil {
		return
	}
	if err := h.store.AppendEvent(r.Context(), h.userID(r), typ, key, payload); err != nil {
		log.Printf("edit event %s %s: %v", typ, key, err)
	}
}
