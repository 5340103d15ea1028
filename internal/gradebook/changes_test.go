package gradebook

import "testing"

func TestRowChangedLifecycle(t *testing.T) {
	r := rec("s1", "a1", f64(8), f64(10), 0)
	ov := NewOverlay()

	if RowChanged(r, ov) {
		t.Fatalf("pristine row should not be changed")
	}

	ov.SetScore("s1", "a1", f64(10))
	if !RowChanged(r, ov) {
		t.Fatalf("score override 8→10 should mark row changed")
	}

	ov.Remove("s1", "a1")
	if RowChanged(r, ov) {
		t.Fatalf("removing override should restore unchanged state")
	}
}

func TestRowChangedEpsilonAndDrop(t *testing.T) {
	r := rec("s1", "a1", f64(8), f64(10), 0)
	ov := NewOverlay()

	// Within epsilon: not a change.
	ov.SetScore("s1", "a1", f64(8.0005))
	if RowChanged(r, ov) {
		t.Fatalf("sub-epsilon score delta should not count as changed")
	}

	ov.SetScore("s1", "a1", nil)
	ov.SetDropped("s1", "a1", true)
	if !RowChanged(r, ov) {
		t.Fatalf("dropped row should count as changed")
	}
}

func TestCustomRowAlwaysChanged(t *testing.T) {
	r := AssignmentRecord{SectionID: "s1", AssignmentID: "custom-1", Kind: KindCustom, CategoryIndex: 0}
	if !RowChanged(r, NewOverlay()) {
		t.Fatalf("custom record presence alone must count as changed")
	}
}

func TestCategoryChanged(t *testing.T) {
	view := flatView("s1",
		rec("s1", "a1", f64(8), f64(10), 0),
		rec("s1", "a2", f64(9), f64(10), 0),
	)
	ov := NewOverlay()
	if CategoryChanged(view, 0, ov) {
		t.Fatalf("no edits yet")
	}
	ov.SetMax("s1", "a2", f64(12))
	if !CategoryChanged(view, 0, ov) {
		t.Fatalf("member edit should mark category changed")
	}
}

func TestSectionDisplay(t *testing.T) {
	cases := []struct {
		name       string
		original   *float64
		current    *float64
		anyChanged bool
		want       DisplayPolicy
	}{
		{"no original, computable current", nil, f64(91.5), false, DisplayPolicy{PrimaryCurrent: true}},
		{"no original, no current", nil, nil, true, DisplayPolicy{}},
		{"original present, unchanged", f64(90), f64(90), false, DisplayPolicy{}},
		{"changed beyond epsilon", f64(90), f64(92), true, DisplayPolicy{ShowRecomputed: true}},
		{"changed within epsilon", f64(90), f64(90.005), true, DisplayPolicy{}},
		{"delta without change flag", f64(90), f64(92), false, DisplayPolicy{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SectionDisplay(tc.original, tc.current, tc.anyChanged)
			if got != tc.want {
				t.Fatalf("SectionDisplay = %+v, want %+v", got, tc.want)
			}
		})
	}
}
