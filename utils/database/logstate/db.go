package logstate

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// State is the persisted cursor state for the three log streams: one
// high-water mark plus a bounded recent-ID list per category. The lists are
// ordered oldest-first so trimming keeps the newest entries.
type State struct {
	LastKill    int64    `json:"last_kill"`
	LastCommand int64    `json:"last_command"`
	LastJoin    int64    `json:"last_join"`

	ProcessedKills    []string `json:"processed_kills"`
	ProcessedCommands []string `json:"processed_commands"`
	ProcessedJoins    []string `json:"processed_joins"`
}

// Init ensures the log_state table exists.
func Init(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS log_state (
	          id INTEGER PRIMARY KEY,
	          state_data TEXT NOT NULL
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create log_state table: %w", err)
	}
	return nil
}

// Load reads the persisted cursor state. A missing row is not an error; it
// means a fresh start with zero high-water marks.
func Load(db *sqlx.DB) (*State, error) {
	var raw string
	err := db.Get(&raw, `SELECT state_data FROM log_state WHERE id = 1`)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &State{}, nil
		}
		return nil, fmt.Errorf("failed to load log state: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("failed to parse log state: %w", err)
	}
	return &state, nil
}

// Save persists the cursor state as a single row so the whole snapshot is
// written atomically. A crash mid-cycle therefore replays at most one batch,
// which the recent-ID dedup absorbs.
func Save(db *sqlx.DB, state *State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to serialize log state: %w", err)
	}

	query := `INSERT INTO log_state (id, state_data) VALUES (1, ?)
			  ON CONFLICT(id) DO UPDATE SET state_data = excluded.state_data`
	if _, err := db.Exec(query, string(raw)); err != nil {
		return fmt.Errorf("failed to save log state: %w", err)
	}
	return nil
}
