package actions

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Init ensures the pending_actions table exists.
func Init(db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS pending_actions (
	          id INTEGER PRIMARY KEY AUTOINCREMENT,
	          command TEXT NOT NULL,
	          reason TEXT NOT NULL,
	          status TEXT NOT NULL DEFAULT 'pending',
	          attempts INTEGER NOT NULL DEFAULT 0,
	          last_attempt INTEGER NOT NULL DEFAULT 0,
	          roblox_username TEXT DEFAULT '',
	          roblox_id TEXT DEFAULT '',
	          error_log TEXT DEFAULT '',
	          created_at INTEGER NOT NULL
	      );`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create pending_actions table: %w", err)
	}
	return nil
}
