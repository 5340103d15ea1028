package gradebook

import "fmt"

// Regime selects which side of the overlay an aggregation reads.
type Regime string

const (
	// RegimeOriginal aggregates the server-reported values, ignoring
	// the overlay entirely.
	RegimeOriginal Regime = "original"
	// RegimeCurrent aggregates the overlay-merged values and honors
	// dropped flags.
	RegimeCurrent Regime = "current"
)

// ParseRegime validates a regime name from the wire.
func ParseRegime(s string) (Regime, error) {
	switch Regime(s) {
	case RegimeOriginal, RegimeCurrent:
		return Regime(s), nil
	}
	return "", fmt.Errorf("unknown regime %q", s)
}

// rowValues resolves (score, max, dropped) for a record under a regime.
// An unknown regime is a programmer error, not a data condition.
func rowValues(rec AssignmentRecord, ov *Overlay, regime Regime) (score, max *float64, dropped bool) {
	switch regime {
	case RegimeOriginal:
		return rec.OriginalScore, rec.OriginalMax, false
	case RegimeCurrent:
		row := ov.Effective(rec)
		return row.Score, row.Max, row.Dropped
	default:
		panic("gradebook: invalid regime " + string(regime))
	}
}

// accumulate folds one row into a running result:
//
//	max > 0   earned += score, max += max
//	max == 0  earned += score (extra credit, no denominator)
//	max < 0   excluded
//	negative score, or either value missing: excluded (missing counts
//	as ungraded)
func accumulate(res *AggregationResult, score, max *float64) {
	if score == nil || max == nil {
		res.Ungraded++
		return
	}
	if *score < 0 || *max < 0 {
		return
	}
	res.Earned += *score
	res.Max += *max
}

// finishPct fills Pct from the accumulated totals. A zero denominator
// means "not gradable", which is distinct from 0%.
func finishPct(res *AggregationResult) {
	if res.Max > 0 {
		res.Pct = f64(res.Earned / res.Max * 100)
	}
}

// AggregateCategory rolls up one category of a section under a regime.
func AggregateCategory(view SectionView, catIndex int, ov *Overlay, regime Regime) AggregationResult {
	var res AggregationResult
	for _, rec := range view.Records {
		if rec.CategoryIndex != catIndex {
			continue
		}
		score, max, dropped := rowValues(rec, ov, regime)
		if regime == RegimeCurrent && dropped {
			continue
		}
		accumulate(&res, score, max)
	}
	finishPct(&res)
	return res
}

// AggregateSection rolls up every category and combines them into a
// section result. In weighted mode (any category weight > 0) weights
// are renormalized over only the categories that produced a percentage,
// so an empty weighted category cannot zero the section; when no
// weighted category produced data the section falls back to the flat
// points sum, pairing earned and max from this same regime.
func AggregateSection(view SectionView, ov *Overlay, regime Regime) (AggregationResult, []AggregationResult) {
	perCat := make([]AggregationResult, len(view.Section.Categories))
	for i, cat := range view.Section.Categories {
		perCat[i] = AggregateCategory(view, cat.Index, ov, regime)
	}
	return combineSection(view.Section.Categories, perCat), perCat
}

func weightedMode(cats []Category) bool {
	for _, c := range cats {
		if c.Weight > 0 {
			return true
		}
	}
	return false
}

// combineSection merges per-category results under the section's
// weighting selection.
func combineSection(cats []Category, perCat []AggregationResult) AggregationResult {
	var section AggregationResult
	for _, c := range perCat {
		section.Earned += c.Earned
		section.Max += c.Max
		section.Ungraded += c.Ungraded
	}
	finishPct(&section)

	if !weightedMode(cats) {
		return section
	}

	activeWeight := 0.0
	for i, cat := range cats {
		if perCat[i].Pct != nil {
			activeWeight += cat.Weight
		}
	}
	if activeWeight == 0 {
		// Every weighted bucket is empty; the flat points sum is
		// already in place.
		return section
	}
	pct := 0.0
	for i, cat := range cats {
		if perCat[i].Pct != nil {
			pct += *perCat[i].Pct * cat.Weight / activeWeight
		}
	}
	section.Pct = f64(pct)
	return section
}
