package gradebook

import (
	"math"
	"testing"
)

func rec(sectionID, id string, score, max *float64, cat int) AssignmentRecord {
	return AssignmentRecord{
		SectionID: sectionID, AssignmentID: id, Kind: KindOfficial,
		OriginalScore: score, OriginalMax: max, CategoryIndex: cat,
	}
}

func flatView(sectionID string, records ...AssignmentRecord) SectionView {
	return SectionView{
		Section: Section{ID: sectionID, Categories: []Category{{Index: 0}}},
		Records: records,
	}
}

func pctOrNaN(r AggregationResult) float64 {
	if r.Pct == nil {
		return math.NaN()
	}
	return *r.Pct
}

func TestAggregateExtraCredit(t *testing.T) {
	view := flatView("s1",
		rec("s1", "a1", f64(80), f64(100), 0),
		rec("s1", "a2", f64(5), f64(0), 0), // extra credit
	)
	ov := NewOverlay()

	for _, regime := range []Regime{RegimeOriginal, RegimeCurrent} {
		section, _ := AggregateSection(view, ov, regime)
		if section.Earned != 85 || section.Max != 100 {
			t.Fatalf("%s: earned/max = %v/%v, want 85/100", regime, section.Earned, section.Max)
		}
		if math.Abs(pctOrNaN(section)-85) > 1e-9 {
			t.Fatalf("%s: pct = %v, want 85", regime, pctOrNaN(section))
		}
	}
}

func TestAggregateExclusionRules(t *testing.T) {
	view := flatView("s1",
		rec("s1", "graded", f64(50), f64(100), 0),
		rec("s1", "ungraded", nil, f64(10), 0),
		rec("s1", "no-max", f64(7), nil, 0),
		rec("s1", "neg-max", f64(5), f64(-1), 0),
		rec("s1", "neg-score", f64(-5), f64(10), 0),
	)
	section, _ := AggregateSection(view, NewOverlay(), RegimeCurrent)
	if section.Earned != 50 || section.Max != 100 {
		t.Fatalf("earned/max = %v/%v, want 50/100", section.Earned, section.Max)
	}
	if section.Ungraded != 2 {
		t.Fatalf("ungraded = %d, want 2", section.Ungraded)
	}
}

func TestAggregateEmptyIsNotZeroPercent(t *testing.T) {
	view := flatView("s1", rec("s1", "a1", nil, nil, 0))
	section, perCat := AggregateSection(view, NewOverlay(), RegimeCurrent)
	if section.Pct != nil {
		t.Fatalf("empty section pct = %v, want nil", *section.Pct)
	}
	if perCat[0].Pct != nil {
		t.Fatalf("empty category pct = %v, want nil", *perCat[0].Pct)
	}
}

func TestDropInvariant(t *testing.T) {
	all := []AssignmentRecord{
		rec("s1", "a1", f64(90), f64(100), 0),
		rec("s1", "a2", f64(40), f64(100), 0),
		rec("s1", "a3", f64(70), f64(100), 0),
	}
	withDrop := flatView("s1", all...)
	ov := NewOverlay()
	ov.SetDropped("s1", "a2", true)
	dropped, _ := AggregateSection(withDrop, ov, RegimeCurrent)

	removed := flatView("s1", all[0], all[2])
	physical, _ := AggregateSection(removed, NewOverlay(), RegimeCurrent)

	if dropped.Earned != physical.Earned || dropped.Max != physical.Max {
		t.Fatalf("dropped %v/%v != removed %v/%v",
			dropped.Earned, dropped.Max, physical.Earned, physical.Max)
	}
	if math.Abs(pctOrNaN(dropped)-pctOrNaN(physical)) > 1e-9 {
		t.Fatalf("dropped pct %v != removed pct %v", pctOrNaN(dropped), pctOrNaN(physical))
	}

	// Original regime ignores the drop flag.
	orig, _ := AggregateSection(withDrop, ov, RegimeOriginal)
	if orig.Max != 300 {
		t.Fatalf("original regime max = %v, want 300", orig.Max)
	}
}

func TestWeightRedistribution(t *testing.T) {
	view := SectionView{
		Section: Section{ID: "s1", Categories: []Category{
			{Index: 0, Weight: 60}, // empty
			{Index: 1, Weight: 40},
		}},
		Records: []AssignmentRecord{rec("s1", "b1", f64(80), f64(100), 1)},
	}
	section, _ := AggregateSection(view, NewOverlay(), RegimeCurrent)
	if math.Abs(pctOrNaN(section)-80) > 1e-9 {
		t.Fatalf("weighted section pct = %v, want 80", pctOrNaN(section))
	}
}

func TestWeightedFallbackToPoints(t *testing.T) {
	// Both weighted categories empty; the unweighted one still has
	// points, so active weight is zero and the flat sum wins.
	view := SectionView{
		Section: Section{ID: "s1", Categories: []Category{
			{Index: 0, Weight: 60},
			{Index: 1, Weight: 40},
			{Index: 2, Weight: 0},
		}},
		Records: []AssignmentRecord{rec("s1", "c1", f64(30), f64(40), 2)},
	}
	section, _ := AggregateSection(view, NewOverlay(), RegimeCurrent)
	if math.Abs(pctOrNaN(section)-75) > 1e-9 {
		t.Fatalf("fallback pct = %v, want 75", pctOrNaN(section))
	}
}

func TestWeightedSkipsUnweightedBuckets(t *testing.T) {
	view := SectionView{
		Section: Section{ID: "s1", Categories: []Category{
			{Index: 0, Weight: 50},
			{Index: 1, Weight: 0}, // contributes data but no weight
		}},
		Records: []AssignmentRecord{
			rec("s1", "a1", f64(90), f64(100), 0),
			rec("s1", "b1", f64(10), f64(100), 1),
		},
	}
	section, _ := AggregateSection(view, NewOverlay(), RegimeCurrent)
	if math.Abs(pctOrNaN(section)-90) > 1e-9 {
		t.Fatalf("weighted pct = %v, want 90 (zero-weight bucket excluded)", pctOrNaN(section))
	}
}

func TestAggregateInvalidRegimePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on invalid regime")
		}
	}()
	view := flatView("s1", rec("s1", "a1", f64(1), f64(1), 0))
	AggregateSection(view, NewOverlay(), Regime("bogus"))
}

func TestParseRegime(t *testing.T) {
	if _, err := ParseRegime("current"); err != nil {
		t.Fatalf("current: %v", err)
	}
	if _, err := ParseRegime("weighted"); err == nil {
		t.Fatalf("expected error for unknown regime")
	}
}
