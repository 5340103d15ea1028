package gradebook

// OverlayEntry is one sparse patch over a single assignment. A zero
// entry (no overrides, not dropped) is equivalent to no entry at all
// and gets pruned.
type OverlayEntry struct {
	Score   *float64 `json:"score,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Dropped bool     `json:"dropped,omitempty"`
}

func (e OverlayEntry) isZero() bool {
	return e.Score == nil && e.Max == nil && !e.Dropped
}

// OverlayTable is the serializable nested form of the whole overlay:
// sectionID -> assignmentID -> entry. It round-trips through JSON.
type OverlayTable map[string]map[string]OverlayEntry

// Overlay is the sparse patch table layered over server-reported
// records. It never touches the records themselves.
type Overlay struct {
	entries map[string]map[string]OverlayEntry
}

func NewOverlay() *Overlay {
	return &Overlay{entries: map[string]map[string]OverlayEntry{}}
}

// Get returns the entry for (section, assignment), reporting whether
// one exists.
func (o *Overlay) Get(sectionID, assignmentID string) (OverlayEntry, bool) {
	e, ok := o.entries[sectionID][assignmentID]
	return e, ok
}

// SetScore upserts a score override. A nil score clears the override.
func (o *Overlay) SetScore(sectionID, assignmentID string, score *float64) {
	e, _ := o.Get(sectionID, assignmentID)
	e.Score = score
	o.put(sectionID, assignmentID, e)
}

// SetMax upserts a max override. A nil max clears the override.
func (o *Overlay) SetMax(sectionID, assignmentID string, max *float64) {
	e, _ := o.Get(sectionID, assignmentID)
	e.Max = max
	o.put(sectionID, assignmentID, e)
}

// SetDropped upserts the dropped flag.
func (o *Overlay) SetDropped(sectionID, assignmentID string, dropped bool) {
	e, _ := o.Get(sectionID, assignmentID)
	e.Dropped = dropped
	o.put(sectionID, assignmentID, e)
}

// Remove deletes the entry outright, pruning the section map when it
// empties.
func (o *Overlay) Remove(sectionID, assignmentID string) {
	sec, ok := o.entries[sectionID]
	if !ok {
		return
	}
	delete(sec, assignmentID)
	if len(sec) == 0 {
		delete(o.entries, sectionID)
	}
}

// ClearSection drops every entry under one section.
func (o *Overlay) ClearSection(sectionID string) {
	delete(o.entries, sectionID)
}

// ClearAll resets the table.
func (o *Overlay) ClearAll() {
	o.entries = map[string]map[string]OverlayEntry{}
}

// Len counts live entries across all sections.
func (o *Overlay) Len() int {
	n := 0
	for _, sec := range o.entries {
		n += len(sec)
	}
	return n
}

func (o *Overlay) put(sectionID, assignmentID string, e OverlayEntry) {
	if e.isZero() {
		o.Remove(sectionID, assignmentID)
		return
	}
	sec, ok := o.entries[sectionID]
	if !ok {
		sec = map[string]OverlayEntry{}
		o.entries[sectionID] = sec
	}
	sec[assignmentID] = e
}

// Snapshot copies the table into its serializable form.
func (o *Overlay) Snapshot() OverlayTable {
	out := make(OverlayTable, len(o.entries))
	for sid, sec := range o.entries {
		cp := make(map[string]OverlayEntry, len(sec))
		for aid, e := range sec {
			cp[aid] = e
		}
		out[sid] = cp
	}
	return out
}

// Restore replaces the table from a deserialized snapshot, pruning any
// zero entries the external store may have accumulated.
func (o *Overlay) Restore(t OverlayTable) {
	o.ClearAll()
	for sid, sec := range t {
		for aid, e := range sec {
			o.put(sid, aid, e)
		}
	}
}

// Effective merges a record with its overlay entry. Pure: neither the
// record nor the overlay is modified.
func (o *Overlay) Effective(rec AssignmentRecord) EffectiveRow {
	row := EffectiveRow{Score: rec.OriginalScore, Max: rec.OriginalMax}
	e, ok := o.Get(rec.SectionID, rec.AssignmentID)
	if !ok {
		return row
	}
	if e.Score != nil {
		row.Score = e.Score
	}
	if e.Max != nil {
		row.Max = e.Max
	}
	row.Dropped = e.Dropped
	return row
}
