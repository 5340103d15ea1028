package gradebook

import "math"

// Comparison tolerances. Scores survive a float64 round-trip through
// JSON and the overlay; percentages additionally accumulate division
// noise, so they get a looser epsilon.
const (
	scoreEpsilon = 0.001
	pctEpsilon   = 0.01
)

func numEqual(a, b *float64, eps float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) <= eps
}

// RowChanged reports whether a row's effective values differ from what
// the institution reported. Custom rows always count as changed: their
// presence alone is a user adjustment.
func RowChanged(rec AssignmentRecord, ov *Overlay) bool {
	if rec.Kind == KindCustom {
		return true
	}
	e, ok := ov.Get(rec.SectionID, rec.AssignmentID)
	if !ok {
		return false
	}
	if e.Dropped {
		return true
	}
	row := ov.Effective(rec)
	return !numEqual(row.Score, rec.OriginalScore, scoreEpsilon) ||
		!numEqual(row.Max, rec.OriginalMax, scoreEpsilon)
}

// CategoryChanged reports whether any member row of a category changed.
func CategoryChanged(view SectionView, catIndex int, ov *Overlay) bool {
	for _, rec := range view.Records {
		if rec.CategoryIndex == catIndex && RowChanged(rec, ov) {
			return true
		}
	}
	return false
}

// DisplayPolicy tells the presentation layer which percentage leads.
type DisplayPolicy struct {
	// PrimaryCurrent: no original figure exists, so the computed
	// current percentage is shown as the grade rather than as a
	// what-if.
	PrimaryCurrent bool `json:"primary_current"`
	// ShowRecomputed: an original figure exists and user edits moved
	// the needle beyond the percentage epsilon.
	ShowRecomputed bool `json:"show_recomputed"`
}

// SectionDisplay decides the policy for one section. originalPct is the
// institution's figure (reported, or computed from originals when the
// upstream omitted it); nil means none exists.
func SectionDisplay(originalPct, currentPct *float64, anyChanged bool) DisplayPolicy {
	if originalPct == nil {
		return DisplayPolicy{PrimaryCurrent: currentPct != nil}
	}
	if anyChanged && currentPct != nil && math.Abs(*currentPct-*originalPct) > pctEpsilon {
		return DisplayPolicy{ShowRecomputed: true}
	}
	return DisplayPolicy{}
}
