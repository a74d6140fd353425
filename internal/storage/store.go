package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Event kinds stored in the events table.
const (
	KindUpdate = "update"
	KindMove   = "move"
)

// RunRow represents one connection to the game server.
type RunRow struct {
	ID        string
	Server    string
	Strategy  string
	StartedAt time.Time
	EndedAt   sql.NullTime
	EndReason string
}

// EventRow is one journaled update or move. Row and Col are -1 for updates.
type EventRow struct {
	ID        int64
	RunID     string
	Kind      string
	Board     string
	MyTurn    bool
	Row       int
	Col       int
	CreatedAt time.Time
}

// Store handles SQLite persistence of the match journal.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database and runs migrations.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and shared.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id         TEXT PRIMARY KEY,
			server     TEXT NOT NULL,
			strategy   TEXT NOT NULL,
			started_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			ended_at   DATETIME,
			end_reason TEXT NOT NULL DEFAULT ''
		);
		CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL REFERENCES runs(id),
			kind       TEXT NOT NULL,
			board      TEXT NOT NULL,
			my_turn    INTEGER NOT NULL DEFAULT 0,
			cell_row   INTEGER NOT NULL DEFAULT -1,
			cell_col   INTEGER NOT NULL DEFAULT -1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS events_run ON events(run_id, id);
	`)
	return err
}

// StartRun inserts a new run.
func (s *Store) StartRun(id, server, strategy string) error {
	_, err := s.db.Exec(
		"INSERT INTO runs (id, server, strategy) VALUES (?, ?, ?)",
		id, server, strategy,
	)
	return err
}

// EndRun stamps the end time and reason of a run.
func (s *Store) EndRun(id, reason string) error {
	res, err := s.db.Exec(
		"UPDATE runs SET ended_at = CURRENT_TIMESTAMP, end_reason = ? WHERE id = ?",
		reason, id,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("end run %s: %w", id, sql.ErrNoRows)
	}
	return nil
}

// GetRun retrieves a run by id.
func (s *Store) GetRun(id string) (*RunRow, error) {
	row := s.db.QueryRow(
		"SELECT id, server, strategy, started_at, ended_at, end_reason FROM runs WHERE id = ?", id)
	var r RunRow
	if err := row.Scan(&r.ID, &r.Server, &r.Strategy, &r.StartedAt, &r.EndedAt, &r.EndReason); err != nil {
		return nil, err
	}
	return &r, nil
}

// RecordUpdate journals a received board snapshot.
func (s *Store) RecordUpdate(runID, board string, myTurn bool) error {
	_, err := s.db.Exec(
		"INSERT INTO events (run_id, kind, board, my_turn) VALUES (?, ?, ?, ?)",
		runID, KindUpdate, board, myTurn,
	)
	return err
}

// RecordMove journals a move sent for board.
func (s *Store) RecordMove(runID, board string, row, col int) error {
	_, err := s.db.Exec(
		"INSERT INTO events (run_id, kind, board, my_turn, cell_row, cell_col) VALUES (?, ?, ?, 1, ?, ?)",
		runID, KindMove, board, row, col,
	)
	return err
}

// ListEvents returns a run's events in the order they were recorded.
func (s *Store) ListEvents(runID string) ([]EventRow, error) {
	rows, err := s.db.Query(
		"SELECT id, run_id, kind, board, my_turn, cell_row, cell_col, created_at FROM events WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []EventRow
	for rows.Next() {
		var e EventRow
		if err := rows.Scan(&e.ID, &e.RunID, &e.Kind, &e.Board, &e.MyTurn, &e.Row, &e.Col, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunJournal records events for a single run.
type RunJournal struct {
	store *Store
	runID string
}

// Journal returns a RunJournal bound to runID.
func (s *Store) Journal(runID string) *RunJournal {
	return &RunJournal{store: s, runID: runID}
}

func (j *RunJournal) RecordUpdate(board string, myTurn bool) error {
	return j.store.RecordUpdate(j.runID, board, myTurn)
}

func (j *RunJournal) RecordMove(board string, row, col int) error {
	return j.store.RecordMove(j.runID, board, row, col)
}
