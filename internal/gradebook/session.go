package gradebook

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Persister receives the full overlay table and custom-record list after
// every mutation. Implementations write to the external store; a failed
// write is the store's problem, never the session's.
type Persister interface {
	SaveOverlay(ctx context.Context, userID string, table OverlayTable) error
	SaveCustoms(ctx context.Context, userID string, records []CustomRecord) error
}

// Observer is notified after each recompute. The presentation layer
// decides what to redraw; the session only reports fresh results.
type Observer interface {
	SectionRecomputed(sectionID string, summary SectionSummary)
	OverallRecomputed(overall OverallSnapshot)
}

type sectionState struct {
	section Section
	records []AssignmentRecord // official rows, stable insertion order
}

// Session is the per-user engine state: sections, records, the overlay,
// and custom entries. All mutations go through it; each one persists,
// recomputes the owning section synchronously, and marks the section
// for a coalesced overall rollup.
type Session struct {
	mu     sync.Mutex
	userID string

	sections map[string]*sectionState
	order    []string // section ids in load order

	overlay *Overlay
	customs []CustomRecord
	nextID  int64

	persister Persister
	observer  Observer

	// dirty collects sections whose mutation has not yet been rolled
	// into the overall snapshot; FlushRollup drains it in one pass.
	dirty map[string]struct{}
}

func NewSession(userID string, p Persister) *Session {
	return &Session{
		userID:    userID,
		sections:  map[string]*sectionState{},
		overlay:   NewOverlay(),
		nextID:    1,
		persister: p,
		dirty:     map[string]struct{}{},
	}
}

// SetObserver registers the single notification sink.
func (s *Session) SetObserver(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observer = o
}

// Hydrate restores persisted overlay and custom state, typically once
// at session construction.
func (s *Session) Hydrate(table OverlayTable, customs []CustomRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overlay.Restore(table)
	s.customs = append([]CustomRecord(nil), customs...)
	for _, c := range s.customs {
		if c.ID >= s.nextID {
			s.nextID = c.ID + 1
		}
	}
}

// LoadSection replaces a section's upstream snapshot: category
// descriptors, official records, and the reported percentage. Custom
// records for the section survive a reload.
func (s *Session) LoadSection(section Section, records []AssignmentRecord) SectionSummary {
	s.mu.Lock()
	if _, ok := s.sections[section.ID]; !ok {
		s.order = append(s.order, section.ID)
	}
	recs := make([]AssignmentRecord, len(records))
	copy(recs, records)
	for i := range recs {
		recs[i].SectionID = section.ID
		if recs[i].Kind == "" {
			recs[i].Kind = KindOfficial
		}
	}
	s.sections[section.ID] = &sectionState{section: section, records: recs}
	s.dirty[section.ID] = struct{}{}
	s.mu.Unlock()
	return s.recompute(section.ID)
}

// view assembles the aggregation input for one section, custom rows
// appended after the official ones in creation order. Caller holds mu.
func (s *Session) view(sectionID string) (SectionView, bool) {
	st, ok := s.sections[sectionID]
	if !ok {
		return SectionView{}, false
	}
	v := SectionView{Section: st.section}
	v.Records = append(v.Records, st.records...)
	for _, c := range s.customs {
		if c.SectionID == sectionID {
			v.Records = append(v.Records, customRecord(c))
		}
	}
	return v, true
}

// customRecord projects a custom entry as an assignment record. The
// originals stay nil: the user's values ride in the overlay, so a
// custom row is "changed" by construction.
func customRecord(c CustomRecord) AssignmentRecord {
	return AssignmentRecord{
		SectionID:     c.SectionID,
		AssignmentID:  customAssignmentID(c.ID),
		Kind:          KindCustom,
		Title:         c.Title,
		CategoryIndex: c.CategoryIndex,
	}
}

func customAssignmentID(id int64) string {
	return fmt.Sprintf("custom-%d", id)
}

/* ---- Overlay mutations ---- */

// SetScore overrides a row's score. The raw value passes through the
// normalizer, so blank or junk input clears the override.
func (s *Session) SetScore(ctx context.Context, sectionID, assignmentID string, raw any) SectionSummary {
	s.mu.Lock()
	s.overlay.SetScore(sectionID, assignmentID, Normalize(raw))
	s.afterMutation(ctx, sectionID)
	s.mu.Unlock()
	return s.recompute(sectionID)
}

// SetMax overrides a row's max.
func (s *Session) SetMax(ctx context.Context, sectionID, assignmentID string, raw any) SectionSummary {
	s.mu.Lock()
	s.overlay.SetMax(sectionID, assignmentID, Normalize(raw))
	s.afterMutation(ctx, sectionID)
	s.mu.Unlock()
	return s.recompute(sectionID)
}

// SetDropped flags or unflags a row as dropped.
func (s *Session) SetDropped(ctx context.Context, sectionID, assignmentID string, dropped bool) SectionSummary {
	s.mu.Lock()
	s.overlay.SetDropped(sectionID, assignmentID, dropped)
	s.afterMutation(ctx, sectionID)
	s.mu.Unlock()
	return s.recompute(sectionID)
}

// RemoveOverride deletes a row's overlay entry entirely.
func (s *Session) RemoveOverride(ctx context.Context, sectionID, assignmentID string) SectionSummary {
	s.mu.Lock()
	s.overlay.Remove(sectionID, assignmentID)
	s.afterMutation(ctx, sectionID)
	s.mu.Unlock()
	return s.recompute(sectionID)
}

// ClearSection wipes every overlay entry under one section.
func (s *Session) ClearSection(ctx context.Context, sectionID string) SectionSummary {
	s.mu.Lock()
	s.overlay.ClearSection(sectionID)
	s.afterMutation(ctx, sectionID)
	s.mu.Unlock()
	return s.recompute(sectionID)
}

// ClearAll wipes the whole overlay table and marks every section dirty.
func (s *Session) ClearAll(ctx context.Context) {
	s.mu.Lock()
	s.overlay.ClearAll()
	for id := range s.sections {
		s.dirty[id] = struct{}{}
	}
	s.persistOverlay(ctx)
	order := append([]string(nil), s.order...)
	s.mu.Unlock()
	for _, id := range order {
		s.recompute(id)
	}
}

// afterMutation persists and marks the owning section dirty. Caller
// holds mu.
func (s *Session) afterMutation(ctx context.Context, sectionID string) {
	s.dirty[sectionID] = struct{}{}
	s.persistOverlay(ctx)
}

func (s *Session) persistOverlay(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveOverlay(ctx, s.userID, s.overlay.Snapshot()); err != nil {
		log.Printf("gradebook: persist overlay for %s: %v", s.userID, err)
	}
}

func (s *Session) persistCustoms(ctx context.Context) {
	if s.persister == nil {
		return
	}
	if err := s.persister.SaveCustoms(ctx, s.userID, s.customsLocked()); err != nil {
		log.Printf("gradebook: persist customs for %s: %v", s.userID, err)
	}
}

/* ---- Custom records ---- */

// AddCustom creates a user-authored assignment with a synthetic,
// monotonically increasing id. Its score and max land in the overlay so
// the usual merge rules apply.
func (s *Session) AddCustom(ctx context.Context, sectionID string, categoryIndex int, title string, score, max any) (CustomRecord, SectionSummary) {
	s.mu.Lock()
	c := CustomRecord{
		ID:            s.nextID,
		Title:         title,
		Score:         Normalize(score),
		Max:           Normalize(max),
		SectionID:     sectionID,
		CategoryIndex: categoryIndex,
	}
	s.nextID++
	s.customs = append(s.customs, c)
	aid := customAssignmentID(c.ID)
	s.overlay.SetScore(sectionID, aid, c.Score)
	s.overlay.SetMax(sectionID, aid, c.Max)
	s.dirty[sectionID] = struct{}{}
	s.persistOverlay(ctx)
	s.persistCustoms(ctx)
	s.mu.Unlock()
	return c, s.recompute(sectionID)
}

// RemoveCustom deletes a custom record and its overlay entry. Official
// records are never removable.
func (s *Session) RemoveCustom(ctx context.Context, id int64) (SectionSummary, bool) {
	s.mu.Lock()
	idx := -1
	for i, c := range s.customs {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return SectionSummary{}, false
	}
	c := s.customs[idx]
	s.customs = append(s.customs[:idx], s.customs[idx+1:]...)
	s.overlay.Remove(c.SectionID, customAssignmentID(c.ID))
	s.dirty[c.SectionID] = struct{}{}
	s.persistOverlay(ctx)
	s.persistCustoms(ctx)
	s.mu.Unlock()
	return s.recompute(c.SectionID), true
}

// Customs returns the round-trippable custom-record list, with live
// overlay values folded back in.
func (s *Session) Customs() []CustomRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.customsLocked()
}

func (s *Session) customsLocked() []CustomRecord {
	out := make([]CustomRecord, len(s.customs))
	copy(out, s.customs)
	for i, c := range out {
		if e, ok := s.overlay.Get(c.SectionID, customAssignmentID(c.ID)); ok {
			if e.Score != nil {
				out[i].Score = e.Score
			}
			if e.Max != nil {
				out[i].Max = e.Max
			}
		}
	}
	return out
}

/* ---- Reads ---- */

// Summary computes both regimes for a section.
func (s *Session) Summary(sectionID string) (SectionSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked(sectionID)
}

func (s *Session) summaryLocked(sectionID string) (SectionSummary, bool) {
	view, ok := s.view(sectionID)
	if !ok {
		return SectionSummary{}, false
	}
	origSection, origCats := AggregateSection(view, s.overlay, RegimeOriginal)
	curSection, curCats := AggregateSection(view, s.overlay, RegimeCurrent)

	sum := SectionSummary{
		SectionID:   sectionID,
		Original:    origSection,
		Current:     curSection,
		ReportedPct: view.Section.ReportedPct,
	}
	for i, cat := range view.Section.Categories {
		changed := CategoryChanged(view, cat.Index, s.overlay)
		sum.Categories = append(sum.Categories, CategorySummary{
			Index:    cat.Index,
			Title:    cat.Title,
			Weight:   cat.Weight,
			Original: origCats[i],
			Current:  curCats[i],
			Changed:  changed,
		})
		sum.Changed = sum.Changed || changed
	}

	originalPct := view.Section.ReportedPct
	if originalPct == nil {
		originalPct = origSection.Pct
	}
	sum.Display = SectionDisplay(originalPct, curSection.Pct, sum.Changed)
	return sum, true
}

// Timeline builds the event sequence for a section.
func (s *Session) Timeline(sectionID string) ([]TimelineEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.view(sectionID)
	if !ok {
		return nil, false
	}
	return BuildTimeline(view, s.overlay), true
}

// Stats computes the per-section snapshot.
func (s *Session) Stats(sectionID string) (StatsSnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	view, ok := s.view(sectionID)
	if !ok {
		return StatsSnapshot{}, false
	}
	return ComputeStats(view, s.overlay), true
}

// Overall computes the cross-section rollup without touching the dirty
// queue.
func (s *Session) Overall() OverallSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overallLocked()
}

func (s *Session) overallLocked() OverallSnapshot {
	views := make([]SectionView, 0, len(s.order))
	for _, id := range s.order {
		if v, ok := s.view(id); ok {
			views = append(views, v)
		}
	}
	return ComputeOverall(views, s.overlay)
}

// OverlayTable exposes the serializable overlay for the persistence
// surface.
func (s *Session) OverlayTable() OverlayTable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlay.Snapshot()
}

// SectionIDs lists loaded sections in load order.
func (s *Session) SectionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.order...)
}

/* ---- Recompute & rollup ---- */

// recompute runs the synchronous per-section refresh that follows every
// mutation, notifying the observer with the fresh summary.
func (s *Session) recompute(sectionID string) SectionSummary {
	s.mu.Lock()
	sum, ok := s.summaryLocked(sectionID)
	obs := s.observer
	s.mu.Unlock()
	if ok && obs != nil {
		obs.SectionRecomputed(sectionID, sum)
	}
	return sum
}

// FlushRollup drains the dirty set and recomputes the overall snapshot
// at most once, however many sections went dirty since the last flush.
// Callers invoke it once per scheduling tick.
func (s *Session) FlushRollup() (OverallSnapshot, bool) {
	s.mu.Lock()
	if len(s.dirty) == 0 {
		s.mu.Unlock()
		return OverallSnapshot{}, false
	}
	s.dirty = map[string]struct{}{}
	overall := s.overallLocked()
	obs := s.observer
	s.mu.Unlock()
	if obs != nil {
		obs.OverallRecomputed(overall)
	}
	return overall, true
}
