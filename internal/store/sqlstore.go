package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/classlens/classlens/internal/gradebook"
)

// SQLStore persists per-user gradebook state as JSON blobs and keeps an
// append-only log of edit events. It backs gradebook.Persister; the
// session treats every write as best-effort.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

// SaveOverlay writes the whole overlay table for one user.
func (s *SQLStore) SaveOverlay(ctx context.Context, userID string, table gradebook.OverlayTable) error {
	buf, err := json.Marshal(table)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO gradebook_state (user_id, overlay_json, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET overlay_json=EXCLUDED.overlay_json, updated_at=EXCLUDED.updated_at`,
		userID, string(buf), time.Now().Unix())
	return err
}

// SaveCustoms writes the custom-record list for one user.
func (s *SQLStore) SaveCustoms(ctx context.Context, userID string, records []gradebook.CustomRecord) error {
	if records == nil {
		records = []gradebook.CustomRecord{}
	}
	buf, err := json.Marshal(records)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO gradebook_state (user_id, custom_json, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (user_id) DO UPDATE SET custom_json=EXCLUDED.custom_json, updated_at=EXCLUDED.updated_at`,
		userID, string(buf), time.Now().Unix())
	return err
}

// Load reads a user's persisted overlay table and custom records. A
// user with no row gets empty state, not an error.
func (s *SQLStore) Load(ctx context.Context, userID string) (gradebook.OverlayTable, []gradebook.CustomRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT overlay_json, custom_json FROM gradebook_state WHERE user_id=$1`, userID)
	var overlayJSON, customJSON string
	if err := row.Scan(&overlayJSON, &customJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return gradebook.OverlayTable{}, nil, nil
		}
		return nil, nil, err
	}
	table := gradebook.OverlayTable{}
	if err := json.Unmarshal([]byte(overlayJSON), &table); err != nil {
		table = gradebook.OverlayTable{}
	}
	var customs []gradebook.CustomRecord
	if err := json.Unmarshal([]byte(customJSON), &customs); err != nil {
		customs = nil
	}
	return table, customs, nil
}

// AppendEvent records one edit in the audit log. Callers treat it as
// fire-and-forget.
func (s *SQLStore) AppendEvent(ctx context.Context, userID, typ, key string, payload any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO edit_events (user_id, typ, key, data, created_at)
		 VALUES ($1,$2,$3,$4,$5)`,
		userID, typ, key, string(buf), time.Now().Unix())
	return err
}
