// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/quickly-vote/election"
	"github.com/google/uuid"
)

// Entry is a journaled election event.
type Entry struct {
	ID         string         `json:"id"`
	RecordedAt time.Time      `json:"recorded_at"`
	Event      election.Event `json:"event"`
}

// Journal persists election events so the election can be restored after a
// restart.
type Journal struct {
	db     *sql.DB
	dbType string
	logger *slog.Logger
}

func NewJournal(conn *sql.DB, dbType string, logger *slog.Logger) *Journal {
	if logger == nil {
		logger = slog.Default()
	}
	return &Journal{db: conn, dbType: dbType, logger: logger}
}

// Append stores ev.
func (j *Journal) Append(ctx context.Context, ev election.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event %d: %w", ev.Sequence, err)
	}

	_, err = j.db.ExecContext(ctx, rebind(j.dbType, `
		INSERT INTO election_event (sequence, id, kind, payload, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
	`), int64(ev.Sequence), uuid.NewString(), string(ev.Kind), string(payload),
		time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert event %d: %w", ev.Sequence, err)
	}
	return nil
}

// Record is an election.Observer that appends each event. It runs before
// the election applies the command, so a failed write rejects the command
// and the journal never has a gap.
func (j *Journal) Record(ev election.Event) error {
	if err := j.Append(context.Background(), ev); err != nil {
		j.logger.Error("failed to journal election event",
			"sequence", ev.Sequence,
			"kind", ev.Kind,
			"error", err,
		)
		return err
	}
	return nil
}

// Load returns every journaled event in sequence order.
func (j *Journal) Load(ctx context.Context) ([]election.Event, error) {
	rows, err := j.db.QueryContext(ctx, `SELECT payload FROM election_event ORDER BY sequence`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []election.Event
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		var ev election.Event
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			return nil, fmt.Errorf("failed to decode event: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return events, nil
}

// List returns up to limit entries with a sequence greater than after.
func (j *Journal) List(ctx context.Context, after uint64, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, rebind(j.dbType, `
		SELECT id, payload, recorded_at
		FROM election_event
		WHERE sequence > $1
		ORDER BY sequence
		LIMIT $2
	`), int64(after), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var payload, recordedAt string
		if err := rows.Scan(&e.ID, &payload, &recordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(payload), &e.Event); err != nil {
			return nil, fmt.Errorf("failed to decode event %s: %w", e.ID, err)
		}
		if e.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("failed to parse recorded_at of event %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read events: %w", err)
	}
	return entries, nil
}
