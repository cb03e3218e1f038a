package db

import (
	"time"

	"eve-render/internal/traffic"
)

// CycleRecord is a stored feed stream result.
type CycleRecord struct {
	ID         int64  `json:"id"`
	RunID      string `json:"run_id"`
	StartedAt  string `json:"started_at"`
	Stream     string `json:"stream"`
	Applied    int    `json:"applied"`
	Skipped    int    `json:"skipped"`
	Unknown    int    `json:"unknown"`
	DurationMs int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// RecordCycle stores one stream result. It satisfies traffic.Recorder.
func (d *DB) RecordCycle(r traffic.CycleResult) error {
	_, err := d.sql.Exec(
		`INSERT INTO feed_cycles (run_id, started_at, stream, applied, skipped, unknown, duration_ms, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID.String(), r.StartedAt.UTC().Format(time.RFC3339Nano), r.Stream,
		r.Applied, r.Skipped, r.Unknown, r.Duration.Milliseconds(), r.Error,
	)
	return err
}

// RecentCycles returns the last N stored stream results (newest first).
func (d *DB) RecentCycles(limit int) []CycleRecord {
	if limit <= 0 {
		limit = 50
	}
	rows, err := d.sql.Query(
		`SELECT id, run_id, started_at, stream, applied, skipped, unknown, duration_ms, error
		 FROM feed_cycles ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return []CycleRecord{}
	}
	defer rows.Close()

	var records []CycleRecord
	for rows.Next() {
		var r CycleRecord
		if err := rows.Scan(&r.ID, &r.RunID, &r.StartedAt, &r.Stream, &r.Applied, &r.Skipped, &r.Unknown, &r.DurationMs, &r.Error); err != nil {
			continue
		}
		records = append(records, r)
	}
	if records == nil {
		return []CycleRecord{}
	}
	return records
}

// PruneCycles keeps the newest keep rows and deletes the rest.
func (d *DB) PruneCycles(keep int) (int64, error) {
	res, err := d.sql.Exec(
		`DELETE FROM feed_cycles WHERE id NOT IN (SELECT id FROM feed_cycles ORDER BY id DESC LIMIT ?)`,
		keep,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
