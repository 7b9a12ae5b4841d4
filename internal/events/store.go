package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"arena/internal/config"
)

// Store persists event recordings in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the recording database under the configured data
// directory and applies migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(filepath.Join(cfg.Paths.DataDir, "events.db"))
}

// OpenPath connects to a recording database at an explicit path.
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path reports the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) applyMigrations(ctx context.Context) error {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version >= 1 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS events (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            session_id TEXT NOT NULL DEFAULT '',
            tick INTEGER NOT NULL,
            type TEXT NOT NULL,
            agent_id TEXT NOT NULL DEFAULT '',
            payload_json TEXT NOT NULL DEFAULT '{}',
            created_at TEXT NOT NULL
        );
        CREATE INDEX IF NOT EXISTS idx_events_tick ON events(tick);
        CREATE INDEX IF NOT EXISTS idx_events_session ON events(session_id);
        PRAGMA user_version = 1;
    `)
	if err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// Append inserts one event and fills in its assigned id.
func (s *Store) Append(ctx context.Context, evt *Event) error {
	if evt == nil {
		return errors.New("event is nil")
	}
	if evt.CreatedAt.IsZero() {
		evt.CreatedAt = time.Now().UTC()
	}
	payloadJSON, err := json.Marshal(payloadOrEmpty(evt.Payload))
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO events (session_id, tick, type, agent_id, payload_json, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		evt.SessionID,
		evt.Tick,
		evt.Type,
		evt.AgentID,
		string(payloadJSON),
		evt.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	evt.ID = id
	return nil
}

// Recent returns the newest events, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// ByTickRange returns events with from <= tick <= to, in recorded order.
func (s *Store) ByTickRange(ctx context.Context, from, to uint64) ([]Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+eventColumns+` FROM events WHERE tick >= ? AND tick <= ? ORDER BY id`, from, to)
	if err != nil {
		return nil, fmt.Errorf("query events by tick: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

// Clear removes every recorded event and reports how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM events`)
	if err != nil {
		return 0, fmt.Errorf("clear events: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return removed, nil
}

// Stats summarizes the recording.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByType: make(map[string]int64)}
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MIN(tick), 0), COALESCE(MAX(tick), 0) FROM events`,
	).Scan(&stats.Total, &stats.FirstTick, &stats.LastTick)
	if err != nil {
		return stats, fmt.Errorf("event totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM events GROUP BY type`)
	if err != nil {
		return stats, fmt.Errorf("event type counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return stats, fmt.Errorf("scan type count: %w", err)
		}
		stats.ByType[eventType] = count
	}
	return stats, rows.Err()
}

// Export writes the full recording as a JSON array in recorded order.
func (s *Store) Export(ctx context.Context, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id`)
	if err != nil {
		return fmt.Errorf("query events for export: %w", err)
	}
	defer rows.Close()
	recorded, err := scanEvents(rows)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(recorded); err != nil {
		return fmt.Errorf("encode events: %w", err)
	}
	return nil
}

// Load appends events from a JSON array previously produced by Export and
// returns how many were inserted. Ids are reassigned.
func (s *Store) Load(ctx context.Context, r io.Reader) (int, error) {
	var recorded []Event
	if err := json.NewDecoder(r).Decode(&recorded); err != nil {
		return 0, fmt.Errorf("decode events: %w", err)
	}
	for i := range recorded {
		recorded[i].ID = 0
		if err := s.Append(ctx, &recorded[i]); err != nil {
			return i, err
		}
	}
	return len(recorded), nil
}

const eventColumns = `id, session_id, tick, type, agent_id, payload_json, created_at`

func scanEvents(rows *sql.Rows) ([]Event, error) {
	var recorded []Event
	for rows.Next() {
		var evt Event
		var payloadJSON, createdAt string
		if err := rows.Scan(&evt.ID, &evt.SessionID, &evt.Tick, &evt.Type, &evt.AgentID, &payloadJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		if err := json.Unmarshal([]byte(payloadJSON), &evt.Payload); err != nil {
			return nil, fmt.Errorf("decode payload for event %d: %w", evt.ID, err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			evt.CreatedAt = parsed
		}
		recorded = append(recorded, evt)
	}
	return recorded, rows.Err()
}

func payloadOrEmpty(payload map[string]any) map[string]any {
	if payload == nil {
		return map[string]any{}
	}
	return payload
}
