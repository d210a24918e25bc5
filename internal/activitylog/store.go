package activitylog

import (
	"context"
	"fmt"
	"time"

	"github.com/hallgate/augustlink/internal/activity"
	"github.com/hallgate/augustlink/internal/infrastructure/database"
)

// schema is created on startup. Additive changes only.
const schema = `
CREATE TABLE IF NOT EXISTS activities (
	id          TEXT PRIMARY KEY,
	house_id    TEXT NOT NULL DEFAULT '',
	device_id   TEXT NOT NULL,
	kind        TEXT NOT NULL,
	action      TEXT NOT NULL,
	occurred_at INTEGER NOT NULL,
	operated_by TEXT NOT NULL DEFAULT '',
	seen_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_device_time
	ON activities (device_id, occurred_at DESC);
`

// Record is one persisted activity entry.
type Record struct {
	ID         string
	HouseID    string
	DeviceID   string
	Kind       activity.Kind
	Action     string
	OccurredAt time.Time
	OperatedBy string
	SeenAt     time.Time
}

// Store persists activity records.
type Store struct {
	db *database.DB

	// now is swappable for tests.
	now func() time.Time
}

// NewStore prepares the store, creating the schema when missing.
func NewStore(ctx context.Context, db *database.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("activitylog: creating schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// MarkSeen records an activity and reports whether it was new. An id
// already present leaves the stored row untouched and returns false,
// which is how redelivered feed entries are filtered out.
func (s *Store) MarkSeen(ctx context.Context, act activity.Activity) (bool, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO activities
			(id, house_id, device_id, kind, action, occurred_at, operated_by, seen_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		act.ID,
		act.HouseID,
		act.DeviceID,
		string(act.Kind),
		act.Action,
		act.StartTime.UnixMilli(),
		act.OperatedBy,
		s.now().UTC().UnixMilli(),
	)
	if err != nil {
		return false, fmt.Errorf("activitylog: inserting %s: %w", act.ID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("activitylog: rows affected: %w", err)
	}
	return rows > 0, nil
}

// Recent returns the newest records for one device, newest first.
func (s *Store) Recent(ctx context.Context, deviceID string, limit int) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, house_id, device_id, kind, action, occurred_at, operated_by, seen_at
		FROM activities
		WHERE device_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?`,
		deviceID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("activitylog: querying %s: %w", deviceID, err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var kind string
		var occurredAt, seenAt int64
		if err := rows.Scan(&r.ID, &r.HouseID, &r.DeviceID, &kind, &r.Action,
			&occurredAt, &r.OperatedBy, &seenAt); err != nil {
			return nil, fmt.Errorf("activitylog: scanning row: %w", err)
		}
		r.Kind = activity.Kind(kind)
		r.OccurredAt = time.UnixMilli(occurredAt).UTC()
		r.SeenAt = time.UnixMilli(seenAt).UTC()
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activitylog: iterating rows: %w", err)
	}
	return records, nil
}

// Prune deletes records that occurred before the cutoff and returns
// how many were removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM activities WHERE occurred_at < ?",
		cutoff.UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("activitylog: pruning: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("activitylog: rows affected: %w", err)
	}
	return rows, nil
}
