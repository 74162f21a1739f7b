package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"pomo/internal/core/model"
	"pomo/internal/core/phase"
)

// ErrInvalidRecord indicates a phase record that the journal refuses to store.
var ErrInvalidRecord = errors.New("invalid phase record")

// History is an append-only journal of finished phases.
// It is never read back to resume a timer.
type History struct {
	db *sql.DB
}

// OpenHistory creates or opens the journal at path.
// Enables WAL mode and a 5-second busy timeout.
func OpenHistory(path string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	history := &History{db: db}
	if err := history.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return history, nil
}

// Close shuts down the database.
func (history *History) Close() error {
	return history.db.Close()
}

func (history *History) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS phases (
			id         TEXT PRIMARY KEY,
			cycle_id   TEXT NOT NULL,
			kind       TEXT NOT NULL,
			outcome    TEXT NOT NULL,
			planned_ms INTEGER NOT NULL,
			actual_ms  INTEGER NOT NULL,
			started_at INTEGER NOT NULL,
			ended_at   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_phases_started ON phases(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_phases_cycle ON phases(cycle_id)`,
	}

	for _, m := range migrations {
		if _, err := history.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// Record appends a finished phase. An empty ID is filled with a new UUID.
func (history *History) Record(ctx context.Context, record model.PhaseRecord) error {
	if err := validateRecord(record); err != nil {
		return err
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	_, err := history.db.ExecContext(ctx,
		`INSERT INTO phases (id, cycle_id, kind, outcome, planned_ms, actual_ms, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.CycleID, string(record.Kind), string(record.Outcome),
		record.Planned.Milliseconds(), record.Actual.Milliseconds(),
		record.StartedAt.UnixMilli(), record.EndedAt.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert phase record: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first.
func (history *History) Recent(ctx context.Context, limit int) ([]model.PhaseRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := history.db.QueryContext(ctx,
		`SELECT id, cycle_id, kind, outcome, planned_ms, actual_ms, started_at, ended_at
		 FROM phases ORDER BY started_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query phase records: %w", err)
	}
	defer rows.Close()

	var records []model.PhaseRecord
	for rows.Next() {
		var record model.PhaseRecord
		var kind, outcome string
		var plannedMS, actualMS, startedMS, endedMS int64
		if err := rows.Scan(&record.ID, &record.CycleID, &kind, &outcome,
			&plannedMS, &actualMS, &startedMS, &endedMS); err != nil {
			return nil, fmt.Errorf("scan phase record: %w", err)
		}
		record.Kind = phase.Kind(kind)
		record.Outcome = model.Outcome(outcome)
		record.Planned = time.Duration(plannedMS) * time.Millisecond
		record.Actual = time.Duration(actualMS) * time.Millisecond
		record.StartedAt = time.UnixMilli(startedMS)
		record.EndedAt = time.UnixMilli(endedMS)
		records = append(records, record)
	}
	return records, rows.Err()
}

// Summary aggregates records that started at or after since.
func (history *History) Summary(ctx context.Context, since time.Time) (model.HistorySummary, error) {
	summary := model.HistorySummary{Since: since}
	rows, err := history.db.QueryContext(ctx,
		`SELECT kind, outcome, COUNT(*), COALESCE(SUM(actual_ms), 0)
		 FROM phases WHERE started_at >= ? GROUP BY kind, outcome`,
		since.UnixMilli(),
	)
	if err != nil {
		return summary, fmt.Errorf("summarize phase records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var kind, outcome string
		var count int
		var actualMS int64
		if err := rows.Scan(&kind, &outcome, &count, &actualMS); err != nil {
			return summary, fmt.Errorf("scan summary row: %w", err)
		}
		switch {
		case phase.Kind(kind) == phase.KindWorking && model.Outcome(outcome) == model.OutcomeCompleted:
			summary.CompletedWork += count
			summary.FocusTime += time.Duration(actualMS) * time.Millisecond
		case phase.Kind(kind) == phase.KindWorking && model.Outcome(outcome) == model.OutcomeStopped:
			summary.StoppedWork += count
			summary.FocusTime += time.Duration(actualMS) * time.Millisecond
		case phase.Kind(kind) == phase.KindBreak && model.Outcome(outcome) == model.OutcomeCompleted:
			summary.CompletedBreaks += count
		}
	}
	return summary, rows.Err()
}

func validateRecord(record model.PhaseRecord) error {
	if !record.Kind.IsTimed() {
		return fmt.Errorf("%w: kind %q is not a timed phase", ErrInvalidRecord, record.Kind)
	}
	if !record.Outcome.IsValid() {
		return fmt.Errorf("%w: unknown outcome %q", ErrInvalidRecord, record.Outcome)
	}
	if record.CycleID == "" {
		return fmt.Errorf("%w: missing cycle id", ErrInvalidRecord)
	}
	if record.Planned < 0 || record.Actual < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidRecord)
	}
	if record.EndedAt.Before(record.StartedAt) {
		return fmt.Errorf("%w: ends before it starts", ErrInvalidRecord)
	}
	return nil
}
