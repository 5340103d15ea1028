package gradebook

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestOverlayLazyCreateAndPrune(t *testing.T) {
	ov := NewOverlay()

	if _, ok := ov.Get("s1", "a1"); ok {
		t.Fatalf("expected no entry before first edit")
	}

	ov.SetScore("s1", "a1", f64(9))
	if e, ok := ov.Get("s1", "a1"); !ok || e.Score == nil || *e.Score != 9 {
		t.Fatalf("expected score override, got %+v ok=%v", e, ok)
	}

	// Clearing the only override prunes the entry and its section.
	ov.SetScore("s1", "a1", nil)
	if _, ok := ov.Get("s1", "a1"); ok {
		t.Fatalf("expected entry pruned after override cleared")
	}
	if ov.Len() != 0 {
		t.Fatalf("expected empty table, got %d entries", ov.Len())
	}

	// Dropping alone keeps the entry alive; undropping prunes it.
	ov.SetDropped("s1", "a1", true)
	if e, ok := ov.Get("s1", "a1"); !ok || !e.Dropped {
		t.Fatalf("expected dropped entry, got %+v ok=%v", e, ok)
	}
	ov.SetDropped("s1", "a1", false)
	if _, ok := ov.Get("s1", "a1"); ok {
		t.Fatalf("expected entry pruned after undrop")
	}
}

func TestOverlayRemoveAndClear(t *testing.T) {
	ov := NewOverlay()
	ov.SetScore("s1", "a1", f64(1))
	ov.SetMax("s1", "a2", f64(20))
	ov.SetDropped("s2", "b1", true)

	ov.Remove("s1", "a1")
	if _, ok := ov.Get("s1", "a1"); ok {
		t.Fatalf("expected a1 removed")
	}
	if _, ok := ov.Get("s1", "a2"); !ok {
		t.Fatalf("a2 should survive removal of a1")
	}

	ov.ClearSection("s1")
	if _, ok := ov.Get("s1", "a2"); ok {
		t.Fatalf("expected s1 cleared")
	}
	if _, ok := ov.Get("s2", "b1"); !ok {
		t.Fatalf("s2 should survive ClearSection(s1)")
	}

	ov.ClearAll()
	if ov.Len() != 0 {
		t.Fatalf("expected empty table after ClearAll")
	}
}

func TestOverlayRoundTrip(t *testing.T) {
	tables := []OverlayTable{
		{},
		{"s1": {"a1": {Score: f64(10)}}},
		{
			"s1": {"a1": {Score: f64(10), Max: f64(12)}, "a2": {Dropped: true}},
			"s2": {"b1": {Max: f64(0)}},
		},
	}
	for i, table := range tables {
		buf, err := json.Marshal(table)
		if err != nil {
			t.Fatalf("case %d: marshal: %v", i, err)
		}
		got := OverlayTable{}
		if err := json.Unmarshal(buf, &got); err != nil {
			t.Fatalf("case %d: unmarshal: %v", i, err)
		}
		if !reflect.DeepEqual(got, table) {
			t.Fatalf("case %d: round-trip mismatch:\n got %#v\nwant %#v", i, got, table)
		}

		ov := NewOverlay()
		ov.Restore(table)
		snap := ov.Snapshot()
		for sid, sec := range table {
			for aid, want := range sec {
				if got, ok := snap[sid][aid]; !ok || !reflect.DeepEqual(got, want) {
					t.Fatalf("case %d: snapshot lost %s/%s: %+v", i, sid, aid, got)
				}
			}
		}
	}
}

func TestOverlayEffectiveMergeIsPure(t *testing.T) {
	rec := AssignmentRecord{
		SectionID: "s1", AssignmentID: "a1", Kind: KindOfficial,
		OriginalScore: f64(8), OriginalMax: f64(10),
	}
	ov := NewOverlay()

	row := ov.Effective(rec)
	if *row.Score != 8 || *row.Max != 10 || row.Dropped {
		t.Fatalf("no-entry merge should mirror originals, got %+v", row)
	}

	ov.SetScore("s1", "a1", f64(10))
	ov.SetDropped("s1", "a1", true)
	row = ov.Effective(rec)
	if *row.Score != 10 || *row.Max != 10 || !row.Dropped {
		t.Fatalf("merged row = %+v", row)
	}
	if *rec.OriginalScore != 8 {
		t.Fatalf("record mutated by merge")
	}
}
