package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"github.com/adpulse/adpulse-go/internal/models"
	"github.com/adpulse/adpulse-go/internal/utils"
)

const schema = `
CREATE TABLE IF NOT EXISTS upload_state (
	tenant_id    TEXT PRIMARY KEY,
	dataset_json TEXT NOT NULL,
	active       INTEGER NOT NULL DEFAULT 0,
	updated_at   TEXT NOT NULL
);`

// SQLiteStore persists upload state in a local SQLite database, one row per
// tenant. Writes retry briefly on contention.
type SQLiteStore struct {
	db    *sql.DB
	retry utils.Backoff
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{
		db:    db,
		retry: utils.NewBackoff(50*time.Millisecond, 3),
	}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) LoadUploadState(ctx context.Context, tenantID string) (UploadState, error) {
	var payload string
	var active int
	err := s.db.QueryRowContext(ctx,
		`SELECT dataset_json, active FROM upload_state WHERE tenant_id = ?`, tenantID,
	).Scan(&payload, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return UploadState{}, nil
	}
	if err != nil {
		return UploadState{}, err
	}
	var ds models.UploadedDataset
	if err := json.Unmarshal([]byte(payload), &ds); err != nil {
		// malformed state is treated as absent
		return UploadState{}, nil
	}
	return UploadState{Dataset: &ds, Active: active == 1}, nil
}

func (s *SQLiteStore) SaveUploadState(ctx context.Context, tenantID string, ds *models.UploadedDataset, active bool) error {
	payload, err := json.Marshal(ds)
	if err != nil {
		return err
	}
	activeInt := 0
	if active {
		activeInt = 1
	}
	return s.retry.Do(ctx, func(int) error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO upload_state (tenant_id, dataset_json, active, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(tenant_id) DO UPDATE SET
				dataset_json = excluded.dataset_json,
				active       = excluded.active,
				updated_at   = excluded.updated_at`,
			tenantID, string(payload), activeInt, time.Now().UTC().Format(time.RFC3339))
		return err
	})
}

func (s *SQLiteStore) ClearUploadState(ctx context.Context, tenantID string) error {
	return s.retry.Do(ctx, func(int) error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM upload_state WHERE tenant_id = ?`, tenantID)
		return err
	})
}
