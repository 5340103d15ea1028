package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/classlens/classlens/internal/db"
	"github.com/classlens/classlens/internal/gradebook"
)

func openStore(t *testing.T) *SQLStore {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "classlens.db")
	dbh, err := db.Open(context.Background(), db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return NewSQLStore(dbh, "sqlite")
}

func f64(v float64) *float64 { return &v }

func TestStoreRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	table := gradebook.OverlayTable{
		"s1": {"a1": {Score: f64(10), Max: f64(12)}, "a2": {Dropped: true}},
		"s2": {"b1": {Max: f64(0)}},
	}
	customs := []gradebook.CustomRecord{
		{ID: 1, Title: "Quiz", Score: f64(9), Max: f64(10), SectionID: "s1", CategoryIndex: 0},
	}

	if err := s.SaveOverlay(ctx, "u1", table); err != nil {
		t.Fatalf("save overlay: %v", err)
	}
	if err := s.SaveCustoms(ctx, "u1", customs); err != nil {
		t.Fatalf("save customs: %v", err)
	}

	gotTable, gotCustoms, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(gotTable, table) {
		t.Fatalf("overlay mismatch:\n got %#v\nwant %#v", gotTable, table)
	}
	if !reflect.DeepEqual(gotCustoms, customs) {
		t.Fatalf("customs mismatch:\n got %#v\nwant %#v", gotCustoms, customs)
	}
}

func TestStoreOverwrites(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.SaveOverlay(ctx, "u1", gradebook.OverlayTable{"s1": {"a1": {Score: f64(1)}}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.SaveOverlay(ctx, "u1", gradebook.OverlayTable{}); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	table, _, err := s.Load(ctx, "u1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(table) != 0 {
		t.Fatalf("expected latest save to win, got %#v", table)
	}
}

func TestStoreUnknownUserIsEmpty(t *testing.T) {
	s := openStore(t)
	table, customs, err := s.Load(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(table) != 0 || customs != nil {
		t.Fatalf("unknown user should yield empty state, got %#v %#v", table, customs)
	}
}

func TestStoreAppendEvent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if err := s.AppendEvent(ctx, "u1", "score_overridden", "s1/a1", 10.0); err != nil {
		t.Fatalf("append: %v", err)
	}
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM edit_events WHERE user_id=$1`, "u1").Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 event, got %d", n)
	}
}
